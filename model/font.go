/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package model

import (
	"math"
	"sort"

	"github.com/ghovax/textr/errs"
	"github.com/ghovax/textr/internal/cmap"
	"github.com/ghovax/textr/internal/ttf"

	"github.com/ghovax/textr/core"
)

// Font is a registered font: its parsed TrueType face plus the identity it
// was given at registration time.
//
// ObjectID is reserved at registration (see Document.AddFont), before the
// font's descendant-font dictionary, descriptor, embedded stream and
// ToUnicode CMap exist, so that page resource dictionaries can reference it
// ahead of final serialization (spec §9, "cyclic references").
type Font struct {
	FaceIdentifier string
	ObjectID       int64

	face *ttf.Font
}

// NewFont parses raw TrueType bytes and assigns them faceIdentifier /
// objectID.
func NewFont(faceIdentifier string, objectID int64, raw []byte) (*Font, error) {
	face, err := ttf.ParseBytes(raw)
	if err != nil {
		return nil, errs.WithErrorKind(errs.KindParseError, "parse embedded font file", err)
	}
	return &Font{FaceIdentifier: faceIdentifier, ObjectID: objectID, face: face}, nil
}

// GID looks up the glyph index for a rune, per the font's cmap.
func (f *Font) GID(r rune) (ttf.GID, bool) {
	return f.face.GID(r)
}

// Insert builds every PDF object this font needs (descendant font, font
// descriptor, embedded font-file stream, ToUnicode CMap) and stores the
// outer Type0 dictionary at f.ObjectID.
func (f *Font) Insert(arena *core.Arena) {
	activeGIDs := f.activeGIDsSorted()

	fontBBoxHeightMax, fontBBoxWidthTotal := f.cmapBoundsStats(activeGIDs)
	widthsEntries := f.allGIDWidths()

	fontFileStream := core.NewStream(f.face.Raw, true)
	fontFileStream.Set("Length1", core.MakeInteger(int64(len(f.face.Raw))))
	fontFileStreamID := arena.AddObject(fontFileStream)

	descriptorID := arena.AddObject(f.buildDescriptor(fontFileStreamID, fontBBoxHeightMax, fontBBoxWidthTotal))

	descendantID := arena.AddObject(f.buildDescendant(widthsEntries, descriptorID))

	toUnicodeID := arena.AddObject(core.NewStream(f.buildToUnicode(activeGIDs), false))

	type0 := core.MakeDict()
	type0.Set("Type", core.MakeName("Font"))
	type0.Set("Subtype", core.MakeName("Type0"))
	type0.Set("BaseFont", core.MakeName(f.FaceIdentifier))
	type0.Set("Encoding", core.MakeName("Identity-H"))
	type0.Set("DescendantFonts", core.MakeArray(core.MakeReference(descendantID)))
	type0.Set("ToUnicode", core.MakeReference(toUnicodeID))

	arena.Insert(f.ObjectID, type0)
}

// activeGIDsSorted returns, in ascending order, every GID the font's cmap
// maps to (GID 0 always included), which is the set the ToUnicode CMap and
// the FontBBox statistics are built over. The /W array is built separately,
// over every GID in the font (see allGIDWidths), since it must also cover
// glyphs reachable only through substitution rather than direct cmap lookup.
func (f *Font) activeGIDsSorted() []ttf.GID {
	gids := make([]ttf.GID, 0, len(f.face.GIDToRune))
	for gid := range f.face.GIDToRune {
		gids = append(gids, gid)
	}
	sort.Slice(gids, func(i, j int) bool { return gids[i] < gids[j] })
	return gids
}

type widthEntry struct {
	gid   ttf.GID
	width int64
}

// cmapBoundsStats computes the raw font-unit statistics (maximum per-glyph
// height, total width) the FontDescriptor's /FontBBox is built from, over
// the cmap-reachable GID set only.
func (f *Font) cmapBoundsStats(activeGIDs []ttf.GID) (maxHeight, totalWidth int64) {
	for _, gid := range activeGIDs {
		totalWidth += int64(f.face.Advance(gid))
		if height := f.glyphHeight(gid); height > maxHeight {
			maxHeight = height
		}
	}
	return maxHeight, totalWidth
}

// allGIDWidths computes the /1000-scaled width of every glyph in the font,
// GID 0 through NumGlyphs-1, independent of cmap reachability: the /W array
// must cover glyphs a GSUB/ligature substitution can target even though no
// cmap entry names them directly.
func (f *Font) allGIDWidths() []widthEntry {
	entries := make([]widthEntry, 0, f.face.NumGlyphs)
	for gid := ttf.GID(0); int(gid) < int(f.face.NumGlyphs); gid++ {
		advance := f.face.Advance(gid)
		scaled := int64(math.Round(float64(advance) * 1000 / float64(f.face.UnitsPerEm)))
		entries = append(entries, widthEntry{gid: gid, width: scaled})
	}
	return entries
}

// glyphHeight returns a GID's bounding-box height in font units, or the
// fallback 1000 when the glyph has no recorded outline (spec §4.C).
func (f *Font) glyphHeight(gid ttf.GID) int64 {
	if f.face.BoundingBoxes == nil || int(gid) >= len(f.face.BoundingBoxes) {
		return 1000
	}
	box := f.face.BoundingBoxes[gid]
	if box == (ttf.BoundingBox{}) {
		return 1000
	}
	return int64(box.YMax) - int64(box.YMin) - int64(f.face.Descender)
}

// buildDescendant builds the CIDFontType2 descendant font dictionary,
// including the /W array built in runs of consecutive GIDs.
func (f *Font) buildDescendant(widths []widthEntry, descriptorID int64) *core.PdfObjectDictionary {
	cidSystemInfo := core.MakeDict()
	cidSystemInfo.Set("Registry", core.MakeLiteralString("Adobe"))
	cidSystemInfo.Set("Ordering", core.MakeLiteralString("Identity"))
	cidSystemInfo.Set("Supplement", core.MakeInteger(0))

	d := core.MakeDict()
	d.Set("Type", core.MakeName("Font"))
	d.Set("Subtype", core.MakeName("CIDFontType2"))
	d.Set("BaseFont", core.MakeName(f.FaceIdentifier))
	d.Set("CIDSystemInfo", cidSystemInfo)
	d.Set("W", buildWidthsArray(widths))
	d.Set("DW", core.MakeInteger(1000))
	d.Set("FontDescriptor", core.MakeReference(descriptorID))
	return d
}

// buildWidthsArray implements the run-length encoding from spec §4.C: emit
// the low GID of a run of consecutive GIDs, followed by an array of their
// widths, then start a new run on the first non-consecutive GID.
func buildWidthsArray(widths []widthEntry) *core.PdfObjectArray {
	result := core.MakeArray()
	i := 0
	for i < len(widths) {
		runStart := i
		for i+1 < len(widths) && widths[i+1].gid == widths[i].gid+1 {
			i++
		}
		run := widths[runStart : i+1]

		runWidths := core.MakeArray()
		for _, w := range run {
			runWidths.Append(core.MakeInteger(w.width))
		}
		result.Append(core.MakeInteger(int64(run[0].gid)), runWidths)
		i++
	}
	return result
}

// buildDescriptor builds the FontDescriptor dictionary.
func (f *Font) buildDescriptor(fontFileStreamID int64, bboxHeightMax, bboxWidthTotal int64) *core.PdfObjectDictionary {
	d := core.MakeDict()
	d.Set("Type", core.MakeName("FontDescriptor"))
	d.Set("FontName", core.MakeName(f.FaceIdentifier))
	d.Set("Ascent", core.MakeInteger(int64(f.face.Ascender)))
	d.Set("Descent", core.MakeInteger(int64(f.face.Descender)))
	// CapHeight is set equal to Ascent: incorrect per the PDF spec but
	// byte-compatible with the reference corpus this was adapted from.
	d.Set("CapHeight", core.MakeInteger(int64(f.face.Ascender)))
	d.Set("ItalicAngle", core.MakeInteger(0))
	d.Set("Flags", core.MakeInteger(32))
	d.Set("StemV", core.MakeInteger(80))
	d.Set("FontFile2", core.MakeReference(fontFileStreamID))
	d.Set("FontBBox", core.MakeArray(
		core.MakeInteger(0),
		core.MakeInteger(bboxHeightMax),
		core.MakeInteger(bboxWidthTotal),
		core.MakeInteger(bboxHeightMax),
	))
	return d
}

// buildToUnicode renders the ToUnicode CMap body covering every active GID.
func (f *Font) buildToUnicode(activeGIDs []ttf.GID) []byte {
	entries := make([]cmap.Entry, 0, len(activeGIDs))
	for _, gid := range activeGIDs {
		entries = append(entries, cmap.Entry{GID: uint16(gid), Unicode: f.face.GIDToRune[gid]})
	}
	return cmap.Generate(f.FaceIdentifier, entries)
}
