package main

import (
	"fmt"
	"image"
	"io"
	"os"

	"github.com/disintegration/imaging"
)

// Writer saves rendered images and reports the result on Out.
type Writer struct {
	Out io.Writer
}

// Save encodes img to filename, picking the format from the extension.
// Failures are reported and returned as false; they never abort the run.
func (w Writer) Save(img image.Image, filename string) bool {
	if err := imaging.Save(img, filename); err != nil {
		fmt.Fprintf(w.Out, "✗ Failed to save: %s\n", filename)
		fmt.Fprintf(w.Out, "  Error: %v\n", err)
		return false
	}
	fmt.Fprintf(w.Out, "✓ Saved: %s\n", filename)
	w.reportSize(filename)
	return true
}

// SaveBytes writes an already encoded document such as SVG or G-code.
func (w Writer) SaveBytes(data []byte, filename string) bool {
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		fmt.Fprintf(w.Out, "✗ Failed to save: %s\n", filename)
		fmt.Fprintf(w.Out, "  Error: %v\n", err)
		return false
	}
	fmt.Fprintf(w.Out, "✓ Saved: %s\n", filename)
	w.reportSize(filename)
	return true
}

func (w Writer) reportSize(filename string) {
	fi, err := os.Stat(filename)
	if err != nil {
		return
	}
	fmt.Fprintf(w.Out, "  File size: %.1f KB\n", float64(fi.Size())/1024)
}
