/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package model

import "github.com/ghovax/textr/core"

// MmToPt is the millimeter-to-point conversion factor: 72 / 25.4.
const MmToPt = 72.0 / 25.4

// Operator is a single content-stream operator: a short ASCII mnemonic plus
// its operands, in the order they must be written.
type Operator struct {
	Name     string
	Operands []core.PdfObject
}

// Bytes renders the operator the way a PDF content stream expects: operands
// space-separated, followed by the operator name, terminated by a newline.
func (op Operator) Bytes() []byte {
	var out []byte
	for _, operand := range op.Operands {
		out = append(out, operand.WriteString()...)
		out = append(out, ' ')
	}
	out = append(out, op.Name...)
	out = append(out, '\n')
	return out
}

// Layer is an ordered list of content operators under a name. Every page
// owns at least one layer (spec §9: "Layer0 is hard-coded").
type Layer struct {
	Name       string
	Operations []Operator
}

// Append adds operators to the end of the layer's operator list.
func (l *Layer) Append(ops ...Operator) {
	l.Operations = append(l.Operations, ops...)
}

// Content renders the layer's operators wrapped in its OCG markers:
// "/OC /MC{n} BDC q ...layer-ops... Q EMC", one operator per line, with
// BDC's operands written before it as for every operator (spec §4.D).
func (l *Layer) Content(propertyName string) []byte {
	var out []byte
	out = append(out, Operator{Name: "BDC", Operands: []core.PdfObject{
		core.MakeName("OC"), core.MakeName(propertyName),
	}}.Bytes()...)
	out = append(out, Operator{Name: "q"}.Bytes()...)
	for _, op := range l.Operations {
		out = append(out, op.Bytes()...)
	}
	out = append(out, Operator{Name: "Q"}.Bytes()...)
	out = append(out, Operator{Name: "EMC"}.Bytes()...)
	return out
}

// Page is a single page: its dimensions in points and its ordered layers.
type Page struct {
	Number   int
	WidthPt  float64
	HeightPt float64
	Layers   []*Layer
}

// NewPage creates a page of the given dimensions (already in points) owning
// exactly one layer, "Layer0" (spec §3: "after construction a page owns
// exactly one layer named Layer0").
func NewPage(number int, widthPt, heightPt float64) *Page {
	return &Page{
		Number:   number,
		WidthPt:  widthPt,
		HeightPt: heightPt,
		Layers:   []*Layer{{Name: "Layer0"}},
	}
}
