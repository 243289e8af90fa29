/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Package postprocess shells out to an external PDF post-processor (gs or
// ps2pdf) to shrink and clean up an already-valid PDF file. It is entirely
// optional: a document this package never touches is still a conforming PDF.
package postprocess

import (
	"context"
	"os/exec"

	"github.com/ghovax/textr/errs"
)

// Tool names the external post-processing binary that run invokes.
type Tool string

const (
	ToolGhostscript Tool = "gs"
	ToolPs2Pdf      Tool = "ps2pdf"
)

// OptimizeWithGhostscript rewrites path in place via "gs", using the
// settings Ghostscript calls "ebook" quality: a reasonable compression
// default for a text-and-glyph-heavy document.
func OptimizeWithGhostscript(ctx context.Context, path string) error {
	return run(ctx, ToolGhostscript, []string{
		"-sDEVICE=pdfwrite",
		"-dCompatibilityLevel=1.3",
		"-dPDFSETTINGS=/ebook",
		"-dNOPAUSE", "-dBATCH", "-dQUIET",
		"-sOutputFile=" + path,
		path,
	})
}

// OptimizeWithPs2Pdf rewrites path in place via "ps2pdf".
func OptimizeWithPs2Pdf(ctx context.Context, path string) error {
	return run(ctx, ToolPs2Pdf, []string{path, path})
}

func run(ctx context.Context, tool Tool, args []string) error {
	cmd := exec.CommandContext(ctx, string(tool), args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return errs.WithErrorKind(errs.KindExternalToolError,
			string(tool)+" failed: "+string(output), err)
	}
	return nil
}
