/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package document

import (
	"github.com/ghovax/textr/errs"
	"github.com/ghovax/textr/model"
)

// executor walks an operation list against a model.Document, tracking which
// page and layer text operations target (spec §4.F).
type executor struct {
	document *model.Document

	currentPageIndex  int
	currentLayerIndex int
	pageAppended      bool
}

// apply executes a single operation, updating executor state as needed.
func (e *executor) apply(op Operation) error {
	if op.IsAppendNewPage() {
		pageIndex, layerIndex := e.document.AddPageWithLayer(*op.PageWidth, *op.PageHeight)
		e.currentPageIndex = pageIndex
		e.currentLayerIndex = layerIndex
		e.pageAppended = true
		return nil
	}

	if !e.pageAppended {
		return errs.WithKind(errs.KindLookupError, "unicode text operation before any page was appended")
	}

	var color [3]float64
	if op.Color != nil {
		color = *op.Color
	}
	var position [2]float64
	if op.Position != nil {
		position = *op.Position
	}
	var text string
	if op.TextString != nil {
		text = *op.TextString
	}
	var fontSize float64
	if op.FontSize != nil {
		fontSize = *op.FontSize
	}
	var fontIndex int
	if op.FontIndex != nil {
		fontIndex = *op.FontIndex
	}

	return e.document.WriteTextToLayer(
		e.currentPageIndex, e.currentLayerIndex,
		color, text, fontIndex, fontSize,
		position[0], position[1],
	)
}
