/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ghovax/textr/core"
)

func TestNewPageOwnsOneLayer(t *testing.T) {
	page := NewPage(1, 595, 842)
	assert.Len(t, page.Layers, 1)
	assert.Equal(t, "Layer0", page.Layers[0].Name)
}

func TestMmToPtConversion(t *testing.T) {
	assert.InDelta(t, 2.834646, MmToPt, 1e-5)
}

func TestOperatorBytes(t *testing.T) {
	op := Operator{Name: "Td", Operands: []core.PdfObject{core.MakeReal(1), core.MakeReal(2)}}
	assert.Equal(t, "1 2 Td\n", string(op.Bytes()))
}

func TestLayerContentWrapsInOCGMarkers(t *testing.T) {
	layer := &Layer{Name: "Layer0"}
	layer.Append(Operator{Name: "BT"}, Operator{Name: "ET"})

	content := string(layer.Content("MC0"))
	assert.Equal(t, "/OC /MC0 BDC\nq\nBT\nET\nQ\nEMC\n", content)
}
