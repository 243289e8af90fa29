/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Command textr converts a JSON document description into a PDF file.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ghovax/textr/document"
)

func main() {
	documentPath := flag.String("document", "", "path to the input JSON document")
	outputPath := flag.String("output", "", "path to write the output PDF to")
	flag.Parse()

	if *documentPath == "" || *outputPath == "" {
		fmt.Fprintln(os.Stderr, "usage: textr --document <path> --output <path>")
		os.Exit(1)
	}

	if err := run(*documentPath, *outputPath); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func run(documentPath, outputPath string) error {
	doc, err := document.FromPath(documentPath)
	if err != nil {
		return err
	}
	return doc.SaveToPDFFile(outputPath)
}
