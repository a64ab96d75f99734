package main

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// BorderWidth is the white margin added to each side of a marker of the
// given edge length.
func BorderWidth(size int, ratio float64) int {
	return int(float64(size) * ratio / 2)
}

// AddBorder centres img on a white canvas with BorderWidth pixels on every
// side. The marker pixels are copied unchanged.
func AddBorder(img *image.Gray, ratio float64) (*image.Gray, error) {
	if ratio < 0 || math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBorderRatio, ratio)
	}

	b := img.Bounds()
	if edge := float64(b.Dx()) * (1 + ratio); edge > MaxCanvasPixels {
		return nil, fmt.Errorf("%w: %v gives a %.0f px canvas (max %d)", ErrInvalidBorderRatio, ratio, edge, MaxCanvasPixels)
	}
	border := BorderWidth(b.Dx(), ratio)

	canvas := imaging.New(b.Dx()+2*border, b.Dy()+2*border, color.White)
	canvas = imaging.Paste(canvas, img, image.Pt(border, border))
	return toGray(canvas), nil
}
