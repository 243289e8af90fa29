/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package document decodes the JSON document format and executes it against
// a model.Document, producing a finished PDF byte stream.
package document

import (
	"encoding/json"
	"os"

	"github.com/ghovax/textr/errs"
	"github.com/ghovax/textr/internal/fontset"
	"github.com/ghovax/textr/model"
)

// Document is the root JSON value: an identifier pair plus a linear program
// of operations (spec §3, §6).
type Document struct {
	DocumentID string      `json:"documentId"`
	InstanceID string      `json:"instanceId"`
	Operations []Operation `json:"operations"`
}

// Operation is one step of the program: either AppendNewPage or UnicodeText.
// The JSON wire format carries no explicit tag; the two variants are told
// apart by which fields are present (spec §6).
type Operation struct {
	// AppendNewPage fields.
	PageWidth  *float64 `json:"pageWidth,omitempty"`
	PageHeight *float64 `json:"pageHeight,omitempty"`

	// UnicodeText fields.
	Color      *[3]float64 `json:"color,omitempty"`
	Position   *[2]float64 `json:"position,omitempty"`
	TextString *string     `json:"textString,omitempty"`
	FontSize   *float64    `json:"fontSize,omitempty"`
	FontIndex  *int        `json:"fontIndex,omitempty"`
}

// IsAppendNewPage reports whether the operation is the page-creation variant.
func (op Operation) IsAppendNewPage() bool {
	return op.PageWidth != nil && op.PageHeight != nil
}

// FromPath reads and parses a document value from a JSON file on disk.
func FromPath(documentPath string) (*Document, error) {
	raw, err := os.ReadFile(documentPath)
	if err != nil {
		return nil, errs.WithErrorKind(errs.KindFileIO, "read the document file", err)
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, errs.WithErrorKind(errs.KindParseError, "parse the document file", err)
	}

	return &doc, nil
}

// ComputerModernDir and MathFontPath implement the fixed font-loading
// convention (spec §6: "fonts/computer-modern/*.ttf plus
// fonts/lm-math/opentype/latinmodern-math.otf"); exported as variables so
// callers running from a different working directory can override them.
var (
	ComputerModernDir = "fonts/computer-modern"
	MathFontPath      = "fonts/lm-math/opentype/latinmodern-math.otf"
)

func collectFontPaths() ([]string, error) {
	return fontset.Collect(ComputerModernDir, MathFontPath)
}

// ToPDF builds a model.Document from the decoded value: loads the fixed font
// set, then executes every operation in order (spec §4.F).
func (d *Document) ToPDF() (*model.Document, error) {
	pdfDocument := model.New(d.DocumentID)

	fontPaths, err := collectFontPaths()
	if err != nil {
		return nil, err
	}

	for _, fontPath := range fontPaths {
		raw, err := os.ReadFile(fontPath)
		if err != nil {
			return nil, errs.WithErrorKind(errs.KindFileIO, "read the font file "+fontPath, err)
		}
		if _, err := pdfDocument.AddFont(raw); err != nil {
			return nil, errs.Wrapf(errs.KindParseError, err, "register the font file %q", fontPath)
		}
	}

	executor := &executor{document: pdfDocument, pageAppended: false}
	for _, op := range d.Operations {
		if err := executor.apply(op); err != nil {
			return nil, err
		}
	}

	return pdfDocument, nil
}

// SaveToPDFFile executes the document program and writes the resulting
// bytes to path.
func (d *Document) SaveToPDFFile(path string) error {
	pdfDocument, err := d.ToPDF()
	if err != nil {
		return err
	}

	pdfBytes, err := pdfDocument.SaveToBytes(d.InstanceID)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, pdfBytes, 0o644); err != nil {
		return errs.WithErrorKind(errs.KindFileIO, "write the output file", err)
	}
	return nil
}
