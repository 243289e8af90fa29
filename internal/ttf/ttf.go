/*
 * Copyright (c) 2013 Kurt Jung (Gmail: kurt.w.jung)
 *
 * Permission to use, copy, modify, and distribute this software for any
 * purpose with or without fee is hereby granted, provided that the above
 * copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES
 * WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF
 * MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR
 * ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES
 * WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN
 * ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF
 * OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 *
 * Modifications of the original file (glyf/loca bounding boxes, broader
 * cmap coverage, a smaller result type tailored to embedding rather than
 * subsetting) are subject to the terms and conditions defined in file
 * 'LICENSE.md', which is part of this source code package.
 */

// Package ttf hand-parses the subset of the TrueType table format needed to
// embed a font in a PDF file: metrics, per-glyph advances and bounding
// boxes, and the Unicode cmap.
package ttf

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ghovax/textr/errs"
)

// GID is a glyph index.
type GID uint16

// BoundingBox is a glyph's bounding box in font units.
type BoundingBox struct {
	XMin, YMin, XMax, YMax int16
}

// Font holds everything this package extracts from a TrueType file.
type Font struct {
	Raw []byte

	UnitsPerEm uint16
	Ascender   int16
	Descender  int16
	XMin, YMin int16
	XMax, YMax int16
	NumGlyphs  uint16

	// Widths holds each glyph's horizontal advance, indexed by GID.
	Widths []uint16

	// BoundingBoxes holds each glyph's bounding box, indexed by GID. Absent
	// (nil) when the font lacks a "glyf" or "loca" table, in which case callers fall back to the font-wide bounding box.
	BoundingBoxes []BoundingBox

	// RuneToGID maps a Unicode code point to its glyph index, built from
	// every Unicode cmap subtable the font carries. When more than one
	// subtable maps the same rune, the first one parsed wins.
	RuneToGID map[rune]GID

	// GIDToRune is the companion reverse map: for a glyph index, the
	// Unicode code point that first claimed it while scanning cmap
	// subtables in table order. GID 0 always maps to Unicode 0.
	GIDToRune map[GID]rune
}

// GID looks up the glyph index for r, returning (0, false) if r is not
// mapped by any of the font's Unicode cmap subtables. GID 0 (".notdef") is
// never returned as a successful lookup.
func (f *Font) GID(r rune) (GID, bool) {
	gid, ok := f.RuneToGID[r]
	if !ok || gid == 0 {
		return 0, false
	}
	return gid, true
}

// Advance returns the horizontal advance of gid in font units, or 0 if gid
// is out of range.
func (f *Font) Advance(gid GID) uint16 {
	if int(gid) < 0 || int(gid) >= len(f.Widths) {
		return 0
	}
	return f.Widths[gid]
}

// Box returns the bounding box of gid, falling back to the font's
// overall bounding box when per-glyph boxes were not available or gid
// has an empty outline (space-like glyphs commonly have a zero loca span).
func (f *Font) Box(gid GID) BoundingBox {
	if f.BoundingBoxes != nil && int(gid) >= 0 && int(gid) < len(f.BoundingBoxes) {
		box := f.BoundingBoxes[gid]
		if box != (BoundingBox{}) {
			return box
		}
	}
	return BoundingBox{XMin: f.XMin, YMin: f.YMin, XMax: f.XMax, YMax: f.YMax}
}

type parser struct {
	r                io.ReadSeeker
	tables           map[string]tableEntry
	numberOfHMetrics uint16
	numGlyphs        uint16
	longLocaFormat   bool
	hheaAscender     int16
	hheaDescender    int16
}

type tableEntry struct {
	offset uint32
	length uint32
}

// ParseBytes parses a TrueType font file already held in memory, and keeps
// the raw bytes on the result for embedding as /FontFile2.
func ParseBytes(raw []byte) (*Font, error) {
	font, err := Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	font.Raw = raw
	return font, nil
}

// Parse parses a TrueType font file from r.
func Parse(r io.ReadSeeker) (*Font, error) {
	p := &parser{r: r}
	return p.parse()
}

func (p *parser) parse() (*Font, error) {
	var versionTag [4]byte
	if err := p.readFull(versionTag[:]); err != nil {
		return nil, errs.WithErrorKind(errs.KindParseError, "read font version tag", err)
	}
	version := string(versionTag[:])
	if version == "OTTO" {
		return nil, errs.WithKind(errs.KindParseError, "PostScript-outline (OpenType/CFF) fonts are not supported")
	}
	if version != "\x00\x01\x00\x00" && version != "true" {
		return nil, errs.WithKind(errs.KindParseError, "unrecognized TrueType file signature")
	}

	numTables := p.readUint16()
	p.skip(3 * 2)

	p.tables = make(map[string]tableEntry, numTables)
	for i := uint16(0); i < numTables; i++ {
		var tag [4]byte
		if err := p.readFull(tag[:]); err != nil {
			return nil, errs.WithErrorKind(errs.KindParseError, "read table directory entry", err)
		}
		p.skip(4)
		offset := p.readUint32()
		length := p.readUint32()
		p.tables[string(tag[:])] = tableEntry{offset: offset, length: length}
	}

	font := &Font{}

	for _, required := range []string{"head", "hhea", "maxp", "hmtx", "cmap"} {
		if _, ok := p.tables[required]; !ok {
			return nil, errs.WithKind(errs.KindParseError, fmt.Sprintf("font file is missing required table %q", required))
		}
	}

	if err := p.parseHead(font); err != nil {
		return nil, err
	}
	if err := p.parseHhea(); err != nil {
		return nil, err
	}
	if err := p.parseMaxp(font); err != nil {
		return nil, err
	}
	if err := p.parseHmtx(font); err != nil {
		return nil, err
	}
	if err := p.parseCmap(font); err != nil {
		return nil, err
	}
	if _, ok := p.tables["glyf"]; ok {
		if _, ok := p.tables["loca"]; ok {
			if err := p.parseGlyf(font); err != nil {
				return nil, err
			}
		}
	}

	return font, nil
}

func (p *parser) seekTable(tag string) error {
	entry, ok := p.tables[tag]
	if !ok {
		return errs.WithKind(errs.KindParseError, fmt.Sprintf("table not found: %s", tag))
	}
	_, err := p.r.Seek(int64(entry.offset), io.SeekStart)
	return err
}

func (p *parser) skip(n int) {
	p.r.Seek(int64(n), io.SeekCurrent)
}

func (p *parser) readFull(buf []byte) error {
	_, err := io.ReadFull(p.r, buf)
	return err
}

func (p *parser) readUint16() uint16 {
	var v uint16
	binary.Read(p.r, binary.BigEndian, &v)
	return v
}

func (p *parser) readInt16() int16 {
	var v int16
	binary.Read(p.r, binary.BigEndian, &v)
	return v
}

func (p *parser) readUint32() uint32 {
	var v uint32
	binary.Read(p.r, binary.BigEndian, &v)
	return v
}

func (p *parser) parseHead(font *Font) error {
	if err := p.seekTable("head"); err != nil {
		return err
	}
	p.skip(3 * 4)
	magic := p.readUint32()
	if magic != 0x5F0F3CF5 {
		return errs.WithKind(errs.KindParseError, "bad magic number in head table")
	}
	p.skip(2) // flags
	font.UnitsPerEm = p.readUint16()
	p.skip(2 * 8) // created, modified
	font.XMin = p.readInt16()
	font.YMin = p.readInt16()
	font.XMax = p.readInt16()
	font.YMax = p.readInt16()
	p.skip(2)                     // macStyle
	p.skip(2)                     // lowestRecPPEM
	p.skip(2)                     // fontDirectionHint
	indexToLocFormat := p.readInt16()
	p.longLocaFormat = indexToLocFormat == 1
	return nil
}

func (p *parser) parseHhea() error {
	if err := p.seekTable("hhea"); err != nil {
		return err
	}
	p.skip(4) // version
	p.hheaAscender = p.readInt16()
	p.hheaDescender = p.readInt16()
	p.skip(2)      // lineGap
	p.skip(12 * 2) // advanceWidthMax .. metricDataFormat
	p.numberOfHMetrics = p.readUint16()
	return nil
}

func (p *parser) parseMaxp(font *Font) error {
	if err := p.seekTable("maxp"); err != nil {
		return err
	}
	p.skip(4)
	font.NumGlyphs = p.readUint16()
	p.numGlyphs = font.NumGlyphs
	font.Ascender = p.hheaAscender
	font.Descender = p.hheaDescender
	return nil
}

func (p *parser) parseHmtx(font *Font) error {
	if err := p.seekTable("hmtx"); err != nil {
		return err
	}
	font.Widths = make([]uint16, 0, font.NumGlyphs)
	for i := uint16(0); i < p.numberOfHMetrics; i++ {
		font.Widths = append(font.Widths, p.readUint16())
		p.skip(2) // left side bearing
	}
	if p.numberOfHMetrics > 0 {
		last := font.Widths[p.numberOfHMetrics-1]
		for i := p.numberOfHMetrics; i < font.NumGlyphs; i++ {
			font.Widths = append(font.Widths, last)
		}
	}
	return nil
}

func (p *parser) parseGlyf(font *Font) error {
	locaEntry := p.tables["loca"]
	offsets := make([]uint32, font.NumGlyphs+1)
	p.r.Seek(int64(locaEntry.offset), io.SeekStart)
	for i := range offsets {
		if p.longLocaFormat {
			offsets[i] = p.readUint32()
		} else {
			offsets[i] = uint32(p.readUint16()) * 2
		}
	}

	glyfEntry := p.tables["glyf"]
	boxes := make([]BoundingBox, font.NumGlyphs)
	for gid := uint16(0); gid < font.NumGlyphs; gid++ {
		start, end := offsets[gid], offsets[gid+1]
		if end <= start {
			continue // empty glyph (e.g. space): zero box, falls back to font bbox
		}
		p.r.Seek(int64(glyfEntry.offset+start)+2, io.SeekStart) // skip numberOfContours
		boxes[gid] = BoundingBox{
			XMin: p.readInt16(),
			YMin: p.readInt16(),
			XMax: p.readInt16(),
			YMax: p.readInt16(),
		}
	}
	font.BoundingBoxes = boxes
	return nil
}

func (p *parser) parseCmap(font *Font) error {
	if err := p.seekTable("cmap"); err != nil {
		return err
	}
	cmapEntry := p.tables["cmap"]
	p.readUint16() // version
	numSubtables := p.readUint16()

	type subtableRef struct {
		platformID, encodingID uint16
		offset                 uint32
	}
	var subtables []subtableRef
	for i := uint16(0); i < numSubtables; i++ {
		platformID := p.readUint16()
		encodingID := p.readUint16()
		offset := p.readUint32()
		subtables = append(subtables, subtableRef{platformID, encodingID, offset})
	}

	font.RuneToGID = map[rune]GID{0: 0}
	font.GIDToRune = map[GID]rune{0: 0}

	for _, st := range subtables {
		if !isUnicodeSubtable(st.platformID, st.encodingID) {
			continue
		}
		p.r.Seek(int64(cmapEntry.offset)+int64(st.offset), io.SeekStart)
		format := p.readUint16()
		switch format {
		case 0:
			p.parseCmapFormat0(font)
		case 4:
			p.parseCmapFormat4(font)
		case 6:
			p.parseCmapFormat6(font)
		case 12:
			p.parseCmapFormat12(font)
		default:
			continue
		}
	}

	if len(font.RuneToGID) <= 1 {
		return errs.WithKind(errs.KindParseError, "font has no usable Unicode cmap subtable")
	}
	return nil
}

// isUnicodeSubtable reports whether (platformID, encodingID) identifies a
// Unicode-semantics cmap subtable: (3,1) Windows BMP, (3,10) Windows full
// Unicode, (0,x) any Unicode platform encoding.
func isUnicodeSubtable(platformID, encodingID uint16) bool {
	if platformID == 0 {
		return true
	}
	if platformID == 3 && (encodingID == 1 || encodingID == 10) {
		return true
	}
	return false
}

func (p *parser) setRune(font *Font, r rune, gid GID) {
	if gid == 0 {
		return
	}
	if _, exists := font.RuneToGID[r]; !exists {
		font.RuneToGID[r] = gid
	}
	if _, exists := font.GIDToRune[gid]; !exists {
		font.GIDToRune[gid] = r
	}
}

func (p *parser) parseCmapFormat0(font *Font) {
	p.skip(2 * 2) // length, language
	var data [256]byte
	p.readFull(data[:])
	for code, gid := range data {
		p.setRune(font, rune(code), GID(gid))
	}
}

func (p *parser) parseCmapFormat4(font *Font) {
	p.skip(2 * 2) // length, language
	segCountX2 := p.readUint16()
	segCount := int(segCountX2 / 2)
	p.skip(3 * 2) // searchRange, entrySelector, rangeShift

	endCount := make([]uint16, segCount)
	for i := range endCount {
		endCount[i] = p.readUint16()
	}
	p.skip(2) // reservedPad
	startCount := make([]uint16, segCount)
	for i := range startCount {
		startCount[i] = p.readUint16()
	}
	idDelta := make([]int16, segCount)
	for i := range idDelta {
		idDelta[i] = p.readInt16()
	}
	idRangeOffsetPos, _ := p.r.Seek(0, io.SeekCurrent)
	idRangeOffset := make([]uint16, segCount)
	for i := range idRangeOffset {
		idRangeOffset[i] = p.readUint16()
	}

	for i := 0; i < segCount; i++ {
		start, end, delta, rangeOffset := startCount[i], endCount[i], idDelta[i], idRangeOffset[i]
		for c := uint32(start); c <= uint32(end); c++ {
			if c == 0xFFFF {
				break
			}
			var gid uint16
			if rangeOffset == 0 {
				gid = uint16(int32(c) + int32(delta))
			} else {
				glyphIndexAddr := idRangeOffsetPos + int64(2*i) + int64(rangeOffset) + int64(2*(c-uint32(start)))
				p.r.Seek(glyphIndexAddr, io.SeekStart)
				gid = p.readUint16()
				if gid != 0 {
					gid = uint16(int32(gid) + int32(delta))
				}
			}
			p.setRune(font, rune(c), GID(gid))
		}
	}
}

func (p *parser) parseCmapFormat6(font *Font) {
	p.skip(2 * 2) // length, language
	firstCode := p.readUint16()
	entryCount := p.readUint16()
	for i := uint16(0); i < entryCount; i++ {
		gid := p.readUint16()
		p.setRune(font, rune(firstCode+i), GID(gid))
	}
}

func (p *parser) parseCmapFormat12(font *Font) {
	p.skip(2) // reserved
	p.skip(4) // length
	p.skip(4) // language
	numGroups := p.readUint32()
	for i := uint32(0); i < numGroups; i++ {
		startChar := p.readUint32()
		endChar := p.readUint32()
		startGID := p.readUint32()
		for c := startChar; c <= endChar; c++ {
			p.setRune(font, rune(c), GID(startGID+(c-startChar)))
		}
	}
}
