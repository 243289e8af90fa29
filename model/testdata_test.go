/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package model

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// buildMinimalTTF assembles, by hand, a minimal valid TrueType font: a
// head/hhea/maxp/hmtx/cmap table set (no glyf/loca), one format-0 cmap
// subtable mapping 'A' and 'B' to distinct glyphs.
func buildMinimalTTF(t *testing.T) []byte {
	t.Helper()

	be := binary.BigEndian

	head := make([]byte, 54)
	be.PutUint32(head[0:], 0x00010000)
	be.PutUint32(head[4:], 0x00010000)
	be.PutUint32(head[8:], 0)
	be.PutUint32(head[12:], 0x5F0F3CF5)
	be.PutUint16(head[16:], 0)
	be.PutUint16(head[18:], 1000)
	be.PutUint16(head[36:], uint16(int16(-100)))
	be.PutUint16(head[38:], uint16(int16(-200)))
	be.PutUint16(head[40:], 900)
	be.PutUint16(head[42:], 800)
	be.PutUint16(head[50:], 0)

	hhea := make([]byte, 36)
	be.PutUint32(hhea[0:], 0x00010000)
	be.PutUint16(hhea[4:], uint16(int16(900)))
	be.PutUint16(hhea[6:], uint16(int16(-200)))
	be.PutUint16(hhea[34:], 3)

	maxp := make([]byte, 6)
	be.PutUint32(maxp[0:], 0x00005000)
	be.PutUint16(maxp[4:], 3)

	hmtx := make([]byte, 12)
	be.PutUint16(hmtx[0:], 500)
	be.PutUint16(hmtx[4:], 600)
	be.PutUint16(hmtx[8:], 650)

	cmapSubtable := make([]byte, 6+256)
	be.PutUint16(cmapSubtable[0:], 0)
	be.PutUint16(cmapSubtable[2:], uint16(len(cmapSubtable)))
	cmapSubtable[6+65] = 1 // 'A' -> GID 1
	cmapSubtable[6+66] = 2 // 'B' -> GID 2

	cmapHeader := make([]byte, 12)
	be.PutUint16(cmapHeader[2:], 1)
	be.PutUint16(cmapHeader[4:], 3)
	be.PutUint16(cmapHeader[6:], 1)
	be.PutUint32(cmapHeader[8:], uint32(len(cmapHeader)))
	cmap := append(cmapHeader, cmapSubtable...)

	tables := []struct {
		tag  string
		body []byte
	}{
		{"head", head},
		{"hhea", hhea},
		{"maxp", maxp},
		{"hmtx", hmtx},
		{"cmap", cmap},
	}

	const headerSize = 12
	const dirEntrySize = 16
	cursor := uint32(headerSize + dirEntrySize*len(tables))

	var out bytes.Buffer
	out.Write([]byte("\x00\x01\x00\x00"))
	binary.Write(&out, binary.BigEndian, uint16(len(tables)))
	binary.Write(&out, binary.BigEndian, uint16(0))
	binary.Write(&out, binary.BigEndian, uint16(0))
	binary.Write(&out, binary.BigEndian, uint16(0))

	type dirEntry struct {
		tag            string
		offset, length uint32
	}
	var entries []dirEntry
	for _, tab := range tables {
		entries = append(entries, dirEntry{tab.tag, cursor, uint32(len(tab.body))})
		cursor += uint32(len(tab.body))
	}
	for _, e := range entries {
		out.WriteString(e.tag)
		binary.Write(&out, binary.BigEndian, uint32(0))
		binary.Write(&out, binary.BigEndian, e.offset)
		binary.Write(&out, binary.BigEndian, e.length)
	}
	for _, tab := range tables {
		out.Write(tab.body)
	}

	return out.Bytes()
}

// buildTTFWithUnmappedGlyph is like buildMinimalTTF but carries a fourth
// glyph (GID 3) that no cmap subtable names — the shape a GSUB/ligature-only
// glyph takes in a real font.
func buildTTFWithUnmappedGlyph(t *testing.T) []byte {
	t.Helper()

	be := binary.BigEndian

	head := make([]byte, 54)
	be.PutUint32(head[0:], 0x00010000)
	be.PutUint32(head[4:], 0x00010000)
	be.PutUint32(head[8:], 0)
	be.PutUint32(head[12:], 0x5F0F3CF5)
	be.PutUint16(head[16:], 0)
	be.PutUint16(head[18:], 1000)
	be.PutUint16(head[36:], uint16(int16(-100)))
	be.PutUint16(head[38:], uint16(int16(-200)))
	be.PutUint16(head[40:], 900)
	be.PutUint16(head[42:], 800)
	be.PutUint16(head[50:], 0)

	hhea := make([]byte, 36)
	be.PutUint32(hhea[0:], 0x00010000)
	be.PutUint16(hhea[4:], uint16(int16(900)))
	be.PutUint16(hhea[6:], uint16(int16(-200)))
	be.PutUint16(hhea[34:], 4)

	maxp := make([]byte, 6)
	be.PutUint32(maxp[0:], 0x00005000)
	be.PutUint16(maxp[4:], 4)

	hmtx := make([]byte, 16)
	be.PutUint16(hmtx[0:], 500)
	be.PutUint16(hmtx[4:], 600)
	be.PutUint16(hmtx[8:], 650)
	be.PutUint16(hmtx[12:], 720) // GID 3: never named by any cmap subtable.

	cmapSubtable := make([]byte, 6+256)
	be.PutUint16(cmapSubtable[0:], 0)
	be.PutUint16(cmapSubtable[2:], uint16(len(cmapSubtable)))
	cmapSubtable[6+65] = 1 // 'A' -> GID 1
	cmapSubtable[6+66] = 2 // 'B' -> GID 2

	cmapHeader := make([]byte, 12)
	be.PutUint16(cmapHeader[2:], 1)
	be.PutUint16(cmapHeader[4:], 3)
	be.PutUint16(cmapHeader[6:], 1)
	be.PutUint32(cmapHeader[8:], uint32(len(cmapHeader)))
	cmap := append(cmapHeader, cmapSubtable...)

	tables := []struct {
		tag  string
		body []byte
	}{
		{"head", head},
		{"hhea", hhea},
		{"maxp", maxp},
		{"hmtx", hmtx},
		{"cmap", cmap},
	}

	const headerSize = 12
	const dirEntrySize = 16
	cursor := uint32(headerSize + dirEntrySize*len(tables))

	var out bytes.Buffer
	out.Write([]byte("\x00\x01\x00\x00"))
	binary.Write(&out, binary.BigEndian, uint16(len(tables)))
	binary.Write(&out, binary.BigEndian, uint16(0))
	binary.Write(&out, binary.BigEndian, uint16(0))
	binary.Write(&out, binary.BigEndian, uint16(0))

	type dirEntry struct {
		tag            string
		offset, length uint32
	}
	var entries []dirEntry
	for _, tab := range tables {
		entries = append(entries, dirEntry{tab.tag, cursor, uint32(len(tab.body))})
		cursor += uint32(len(tab.body))
	}
	for _, e := range entries {
		out.WriteString(e.tag)
		binary.Write(&out, binary.BigEndian, uint32(0))
		binary.Write(&out, binary.BigEndian, e.offset)
		binary.Write(&out, binary.BigEndian, e.length)
	}
	for _, tab := range tables {
		out.Write(tab.body)
	}

	return out.Bytes()
}
