/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package fontset implements the repository's fixed font-loading convention:
// every TrueType file under a directory, plus one named OpenType math face,
// loaded in sorted path order (spec §6).
package fontset

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/ghovax/textr/errs"
)

// Collect lists every ".ttf" file directly under computerModernDir, appends
// mathFontPath, and returns the combined set sorted lexically by path — the
// order font_index in an operation stream refers to.
func Collect(computerModernDir, mathFontPath string) ([]string, error) {
	entries, err := os.ReadDir(computerModernDir)
	if err != nil {
		return nil, errs.WithErrorKind(errs.KindFileIO, "read the fonts directory "+computerModernDir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".ttf" {
			continue
		}
		paths = append(paths, filepath.Join(computerModernDir, entry.Name()))
	}

	paths = append(paths, mathFontPath)
	sort.Strings(paths)
	return paths, nil
}
