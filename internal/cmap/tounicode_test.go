/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

package cmap

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSplitsBlocksByHighByteChange(t *testing.T) {
	entries := []Entry{
		{GID: 0x00FF, Unicode: 'a'},
		{GID: 0x0100, Unicode: 'b'},
	}
	out := string(Generate("F0", entries))

	assert.Equal(t, 2, strings.Count(out, "beginbfchar"))
	assert.Contains(t, out, "<00ff> <0061>")
	assert.Contains(t, out, "<0100> <0062>")
}

func TestGenerateSplitsBlocksAtMaxEntries(t *testing.T) {
	entries := make([]Entry, 0, 150)
	for i := 0; i < 150; i++ {
		entries = append(entries, Entry{GID: uint16(i), Unicode: rune('a' + i%26)})
	}
	out := string(Generate("F0", entries))

	assert.Equal(t, 2, strings.Count(out, "beginbfchar"))
	assert.Contains(t, out, "100 beginbfchar")
	assert.Contains(t, out, "50 beginbfchar")
}

func TestGenerateSortsEntriesRegardlessOfInputOrder(t *testing.T) {
	shuffled := []Entry{
		{GID: 2, Unicode: 'c'},
		{GID: 0, Unicode: 'a'},
		{GID: 1, Unicode: 'b'},
	}
	sorted := []Entry{
		{GID: 0, Unicode: 'a'},
		{GID: 1, Unicode: 'b'},
		{GID: 2, Unicode: 'c'},
	}

	assert.Equal(t, Generate("F0", sorted), Generate("F0", shuffled))
}

func TestGenerateContainsHeaderAndTrailerTemplates(t *testing.T) {
	out := string(Generate("F0", nil))
	assert.Contains(t, out, "begincmap")
	assert.Contains(t, out, "endcmap")
	assert.Contains(t, out, "/CMapType 2 def")
}
