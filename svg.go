package main

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strconv"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// CSS pixels per inch; SVG consumers print px lengths at this density.
const svgPxPerInch = 96

// MarkerSVG draws the cell grid as a vector document. The viewBox is in
// cell units and the document size is the printed size including the
// border, so printing at 100% yields sizeInches for the marker itself.
func MarkerSVG(cells *image.Gray, sizeInches, borderRatio float64) []byte {
	n := cells.Bounds().Dx()
	border := float64(n) * borderRatio / 2
	total := float64(n) + 2*border
	side := sizeInches * (1 + borderRatio) * svgPxPerInch

	var sb bytes.Buffer
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" width="%spx" height="%spx" viewBox="0 0 %s %s">`+"\n",
		num(side), num(side), num(total), num(total))
	fmt.Fprintf(&sb, `<rect x="0" y="0" width="%s" height="%s" fill="#ffffff"/>`+"\n", num(total), num(total))

	for _, run := range blackRuns(cells) {
		fmt.Fprintf(&sb, `<rect x="%s" y="%s" width="%d" height="1" fill="#000000"/>`+"\n",
			num(border+float64(run.start)), num(border+float64(run.row)), run.end-run.start)
	}
	sb.WriteString("</svg>\n")
	return sb.Bytes()
}

func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*1e4)/1e4, 'f', -1, 64)
}

// cellRun is a horizontal run of black cells [start, end) in one row.
type cellRun struct {
	row, start, end int
}

func blackRuns(cells *image.Gray) []cellRun {
	b := cells.Bounds()
	var runs []cellRun
	for y := 0; y < b.Dy(); y++ {
		start := -1
		for x := 0; x <= b.Dx(); x++ {
			black := x < b.Dx() && cells.GrayAt(b.Min.X+x, b.Min.Y+y).Y < 128
			if black && start == -1 {
				start = x
			} else if !black && start != -1 {
				runs = append(runs, cellRun{row: y, start: start, end: x})
				start = -1
			}
		}
	}
	return runs
}

// RasterizeSVG renders an SVG document onto a white width×height canvas.
func RasterizeSVG(data []byte, width, height int) (*image.RGBA, error) {
	svgIcon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	if width <= 0 || height <= 0 {
		width = int(svgIcon.ViewBox.W)
		height = int(svgIcon.ViewBox.H)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("svg has no usable size (%dx%d)", width, height)
	}
	svgIcon.SetTarget(0, 0, float64(width), float64(height))

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.White}, image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	scanner.SetClip(img.Bounds())
	raster := rasterx.NewDasher(width, height, scanner)

	svgIcon.Draw(raster, 1.0)
	return img, nil
}

const svgCheckPxPerCell = 20

// CheckMarkerSVG rasterizes data and compares every cell centre with cells.
func CheckMarkerSVG(data []byte, cells *image.Gray, borderRatio float64) error {
	n := cells.Bounds().Dx()
	border := float64(n) * borderRatio / 2
	side := int(math.Round((float64(n) + 2*border) * svgCheckPxPerCell))

	img, err := RasterizeSVG(data, side, side)
	if err != nil {
		return err
	}

	for cy := 0; cy < n; cy++ {
		for cx := 0; cx < n; cx++ {
			px := int((border + float64(cx) + 0.5) * svgCheckPxPerCell)
			py := int((border + float64(cy) + 0.5) * svgCheckPxPerCell)
			got := color.GrayModel.Convert(img.At(px, py)).(color.Gray).Y < 128
			want := cells.GrayAt(cx, cy).Y < 128
			if got != want {
				return fmt.Errorf("svg cell (%d,%d) black=%v, want %v", cx, cy, got, want)
			}
		}
	}
	return nil
}
