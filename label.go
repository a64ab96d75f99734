package main

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

const (
	labelTitle       = "Fish Tournament Reference Marker"
	labelInstruction = "Print at 100% scale - Do not resize"

	// Fractions of DPI.
	labelPadding    = 0.5
	labelTextTop    = 0.1
	labelLineOffset = 0.15
	labelFontSize   = 0.10
)

type LabelSpec struct {
	MarkerID   int
	SizeInches float64
	DPI        int
}

// Lines returns the three label lines, top to bottom.
func (s LabelSpec) Lines() [3]string {
	size := formatInches(s.SizeInches)
	return [3]string{
		labelTitle,
		fmt.Sprintf("ArUco ID %d | %s\" × %s\"", s.MarkerID, size, size),
		labelInstruction,
	}
}

// LabelPadding is the height added below the marker for a given DPI.
func LabelPadding(dpi int) int {
	return int(float64(dpi) * labelPadding)
}

// formatInches prints whole numbers with one decimal ("4.0") and keeps the
// shortest exact form otherwise ("4.25").
func formatInches(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

// AddLabels extends img downward by LabelPadding(dpi) and draws the label
// lines centred under it in black.
func AddLabels(img *image.Gray, spec LabelSpec, fonts FontLoader) (*image.Gray, error) {
	if spec.DPI <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDPI, spec.DPI)
	}

	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	dpi := float64(spec.DPI)

	canvas := imaging.New(width, height+LabelPadding(spec.DPI), color.White)
	canvas = imaging.Paste(canvas, img, image.Pt(0, 0))
	out := toGray(canvas)

	face := fonts.Face(int(dpi * labelFontSize))
	defer face.Close()
	textY := height + int(dpi*labelTextTop)
	offsets := [3]int{0, int(dpi * labelLineOffset), int(dpi * 2 * labelLineOffset)}

	for i, line := range spec.Lines() {
		drawCentered(out, face, width/2, textY+offsets[i], line)
	}
	return out, nil
}

// drawCentered draws s with its horizontal middle at x and the top of its
// ink at top.
func drawCentered(dst *image.Gray, face font.Face, x, top int, s string) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.Black,
		Face: face,
		Dot:  textOrigin(face, x, top, s),
	}
	d.DrawString(s)
}

// textOrigin is the baseline origin that puts the middle of s at x and the
// top of its bounding box at top.
func textOrigin(face font.Face, x, top int, s string) fixed.Point26_6 {
	bounds, advance := font.BoundString(face, s)
	return fixed.Point26_6{
		X: fixed.I(x) - advance/2,
		Y: fixed.I(top) - bounds.Min.Y,
	}
}
