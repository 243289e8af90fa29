/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package model is the PDF assembler: it owns the document's fonts, pages
// and layers, and knows how to flush them into an object arena as a
// complete, standards-conforming PDF byte stream.
package model

import (
	"bytes"
	"fmt"

	"golang.org/x/text/unicode/norm"

	"github.com/ghovax/textr/common"
	"github.com/ghovax/textr/core"
	"github.com/ghovax/textr/errs"
)

// Document is the PDF assembler's public façade (spec §4.E). Callers drive
// it through AddPageWithLayer / AddFont / WriteTextToLayer and finish with
// SaveToBytes, which consumes it.
type Document struct {
	identifier string

	arena *core.Arena
	fonts []*Font
	pages []*Page

	// ocgIDsByPage holds, per page index, the OCG object id for each of
	// that page's layers. Populated by buildOCProperties, consumed by
	// buildPage.
	ocgIDsByPage [][]int64
}

// New allocates an empty document carrying identifier (recorded literally
// as the first element of the trailer's /ID array and as /Info /Identifier).
func New(identifier string) *Document {
	return &Document{identifier: identifier, arena: core.NewArena()}
}

// AddPageWithLayer appends a page of the given millimeter dimensions,
// converted to points at this boundary, and returns its 0-based page and
// layer indices.
func (d *Document) AddPageWithLayer(widthMm, heightMm float64) (pageIndex, layerIndex int) {
	page := NewPage(len(d.pages)+1, widthMm*MmToPt, heightMm*MmToPt)
	d.pages = append(d.pages, page)
	common.Log.Debug("added page %d (%.2fx%.2f pt)", page.Number, page.WidthPt, page.HeightPt)
	return len(d.pages) - 1, 0
}

// AddFont parses raw TrueType bytes, assigns it the face identifier F{k}
// (k = insertion order), reserves its top-level indirect object id, and
// returns its font index.
func (d *Document) AddFont(raw []byte) (fontIndex int, err error) {
	faceIdentifier := fmt.Sprintf("F%d", len(d.fonts))
	objectID := d.arena.NewObjectID()

	font, err := NewFont(faceIdentifier, objectID, raw)
	if err != nil {
		return 0, errs.WithErrorKind(errs.KindParseError, "add font "+faceIdentifier, err)
	}

	d.fonts = append(d.fonts, font)
	common.Log.Debug("registered font %s", faceIdentifier)
	return len(d.fonts) - 1, nil
}

// WriteTextToLayer appends the content operator sequence that renders text
// (spec §4.E "write_text_to_layer operator sequence"): BT, Tf, Td, rg, Tj,
// ET. text is NFC-normalized before glyph lookup; characters without a GID
// in the chosen font are silently dropped.
func (d *Document) WriteTextToLayer(
	pageIndex, layerIndex int,
	colorRGB [3]float64,
	text string,
	fontIndex int,
	sizePt float64,
	posXmm, posYmm float64,
) error {
	if pageIndex < 0 || pageIndex >= len(d.pages) {
		return errs.WithKind(errs.KindLookupError, fmt.Sprintf("no such page index %d", pageIndex))
	}
	page := d.pages[pageIndex]

	if layerIndex < 0 || layerIndex >= len(page.Layers) {
		return errs.WithKind(errs.KindLookupError, fmt.Sprintf("no such layer index %d on page %d", layerIndex, pageIndex))
	}
	layer := page.Layers[layerIndex]

	if fontIndex < 0 || fontIndex >= len(d.fonts) {
		return errs.WithKind(errs.KindLookupError, fmt.Sprintf("no such font index %d", fontIndex))
	}
	font := d.fonts[fontIndex]

	normalized := norm.NFC.String(text)
	gidBytes := make([]byte, 0, len(normalized)*2)
	for _, r := range normalized {
		gid, ok := font.GID(r)
		if !ok {
			continue
		}
		gidBytes = append(gidBytes, byte(gid>>8), byte(gid))
	}

	posXpt := posXmm * MmToPt
	posYpt := posYmm * MmToPt

	layer.Append(
		Operator{Name: "BT"},
		Operator{Name: "Tf", Operands: []core.PdfObject{
			core.MakeName(font.FaceIdentifier), core.MakeReal(sizePt),
		}},
		Operator{Name: "Td", Operands: []core.PdfObject{
			core.MakeReal(posXpt), core.MakeReal(posYpt),
		}},
		Operator{Name: "rg", Operands: []core.PdfObject{
			core.MakeReal(colorRGB[0]), core.MakeReal(colorRGB[1]), core.MakeReal(colorRGB[2]),
		}},
		Operator{Name: "Tj", Operands: []core.PdfObject{
			core.MakeHexString(string(gidBytes)),
		}},
		Operator{Name: "ET"},
	)
	return nil
}

// pdfEpochTimestamp is the fixed CreationDate/ModDate value: the Unix epoch,
// formatted "D:YYYYMMDDHHMMSS+HH'MM'". Retained per the source this was
// adapted from, which always dates documents at the Unix epoch rather than
// wall-clock time, trading realism for reproducible output (spec §9).
const pdfEpochTimestamp = "D:19700101000000+00'00'"

// SaveToBytes finalizes and serializes the document (spec §4.E
// "save_to_bytes sequence"). It consumes the document: callers must not
// reuse it afterward.
func (d *Document) SaveToBytes(instanceID string) ([]byte, error) {
	pagesID := d.arena.NewObjectID()

	infoID := d.buildInfo()

	catalog := core.MakeDict()
	catalog.Set("Type", core.MakeName("Catalog"))
	catalog.Set("PageLayout", core.MakeName("OneColumn"))
	catalog.Set("PageMode", core.MakeName("UseNone"))
	catalog.Set("Pages", core.MakeReference(pagesID))

	d.buildOCProperties(catalog)

	fontsDictID := d.insertFonts()

	pageRefs := core.MakeArray()
	for pageIndex, page := range d.pages {
		pageID := d.buildPage(pageIndex, page, pagesID, fontsDictID)
		pageRefs.Append(core.MakeReference(pageID))
	}

	pagesDict := core.MakeDict()
	pagesDict.Set("Type", core.MakeName("Pages"))
	pagesDict.Set("Count", core.MakeInteger(int64(len(d.pages))))
	pagesDict.Set("Kids", pageRefs)
	d.arena.Insert(pagesID, pagesDict)

	catalogID := d.arena.AddObject(catalog)

	trailer := d.arena.Trailer()
	trailer.Set("Root", core.MakeReference(catalogID))
	trailer.Set("Info", core.MakeReference(infoID))
	trailer.Set("ID", core.MakeArray(
		core.MakeLiteralString(d.identifier),
		core.MakeLiteralString(instanceID),
	))

	d.arena.PruneObjects()
	if err := d.arena.Compress(); err != nil {
		return nil, errs.WithErrorKind(errs.KindInvariantViolation, "compress object streams", err)
	}
	d.arena.DeleteZeroLengthStreams()

	var buf bytes.Buffer
	if err := d.arena.Save(&buf); err != nil {
		return nil, errs.WithErrorKind(errs.KindFileIO, "save PDF document to bytes", err)
	}
	return buf.Bytes(), nil
}

// buildInfo adds the /Info dictionary (spec §4.E step 2) and returns its id.
func (d *Document) buildInfo() int64 {
	info := core.MakeDict()
	info.Set("Trapped", core.MakeName("False"))
	info.Set("CreationDate", core.MakeLiteralString(pdfEpochTimestamp))
	info.Set("ModDate", core.MakeLiteralString(pdfEpochTimestamp))
	info.Set("GTS_PDFX_Version", core.MakeLiteralString("PDF/A-3:2012"))
	info.Set("Title", core.MakeLiteralString("Unknown"))
	info.Set("Author", core.MakeLiteralString("Unknown"))
	info.Set("Creator", core.MakeLiteralString("Unknown"))
	info.Set("Producer", core.MakeLiteralString("Unknown"))
	info.Set("Subject", core.MakeLiteralString("Unknown"))
	info.Set("Identifier", core.MakeLiteralString(d.identifier))
	info.Set("Keywords", core.MakeLiteralString(""))
	return d.arena.AddObject(info)
}

// buildOCProperties adds the shared OCG Usage/Intent dictionaries, one OCG
// object per (page, layer) pair in page-major/layer-minor order, and wires
// catalog's /OCProperties to the flattened list (spec §4.E step 4). It
// records in d.ocgIDsByPage, per page, the OCG object id for each of that
// page's layers (same index as Page.Layers), for use when building page
// resource dictionaries.
func (d *Document) buildOCProperties(catalog *core.PdfObjectDictionary) {
	creatorInfo := core.MakeDict()
	creatorInfo.Set("Creator", core.MakeLiteralString("Adobe Illustrator 14.0"))
	creatorInfo.Set("Subtype", core.MakeName("Artwork"))

	usage := core.MakeDict()
	usage.Set("Type", core.MakeName("OCG"))
	usage.Set("CreatorInfo", creatorInfo)
	usageID := d.arena.AddObject(usage)

	intent := core.MakeArray(core.MakeName("View"), core.MakeName("Design"))
	intentID := d.arena.AddObject(intent)

	flat := core.MakeArray()
	d.ocgIDsByPage = make([][]int64, len(d.pages))
	for pageIndex, page := range d.pages {
		ids := make([]int64, len(page.Layers))
		for layerIndex, layer := range page.Layers {
			ocg := core.MakeDict()
			ocg.Set("Type", core.MakeName("OCG"))
			ocg.Set("Name", core.MakeLiteralString(layer.Name))
			ocg.Set("Intent", core.MakeReference(intentID))
			ocg.Set("Usage", core.MakeReference(usageID))
			ocgID := d.arena.AddObject(ocg)

			ids[layerIndex] = ocgID
			flat.Append(core.MakeReference(ocgID))
		}
		d.ocgIDsByPage[pageIndex] = ids
	}

	ocProperties := core.MakeDict()
	ocProperties.Set("OCGs", flat)
	usageConfig := core.MakeDict()
	usageConfig.Set("Order", flat)
	usageConfig.Set("RBGroups", core.MakeArray())
	usageConfig.Set("ON", flat)
	ocProperties.Set("D", usageConfig)
	catalog.Set("OCProperties", ocProperties)
}

// insertFonts calls Font.Insert on every registered font in insertion
// order, then adds the /Font dictionary mapping F{k} to each font's
// top-level reference (spec §4.E step 5).
func (d *Document) insertFonts() int64 {
	fontsDict := core.MakeDict()
	for _, font := range d.fonts {
		font.Insert(d.arena)
		fontsDict.Set(core.PdfObjectName(font.FaceIdentifier), core.MakeReference(font.ObjectID))
	}
	return d.arena.AddObject(fontsDict)
}

// buildPage builds one page dictionary, its resources dictionary, and its
// merged content stream (spec §4.E step 6), and returns the page's object id.
func (d *Document) buildPage(pageIndex int, page *Page, pagesID, fontsDictID int64) int64 {
	pageDict := core.MakeDict()
	pageDict.Set("Type", core.MakeName("Page"))
	pageDict.Set("Rotate", core.MakeInteger(0))
	mediaBox := core.MakeArray(
		core.MakeInteger(0), core.MakeInteger(0),
		core.MakeReal(page.WidthPt), core.MakeReal(page.HeightPt),
	)
	pageDict.Set("MediaBox", mediaBox)
	pageDict.Set("TrimBox", mediaBox)
	pageDict.Set("CropBox", mediaBox)
	pageDict.Set("Annots", core.MakeArray())
	pageDict.Set("Parent", core.MakeReference(pagesID))

	ocgIDs := d.ocgIDsByPage[pageIndex]
	properties := core.MakeDict()
	var content []byte
	for layerIndex, layer := range page.Layers {
		propertyName := fmt.Sprintf("MC%d", layerIndex)
		properties.Set(core.PdfObjectName(propertyName), core.MakeReference(ocgIDs[layerIndex]))
		content = append(content, layer.Content(propertyName)...)
	}

	resources := core.MakeDict()
	resources.Set("Font", core.MakeReference(fontsDictID))
	resources.Set("Properties", properties)
	resourcesID := d.arena.AddObject(resources)
	pageDict.Set("Resources", core.MakeReference(resourcesID))

	contentStreamID := d.arena.AddObject(core.NewStream(content, true))
	pageDict.Set("Contents", core.MakeReference(contentStreamID))

	return d.arena.AddObject(pageDict)
}
