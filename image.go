package main

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// LoadImage reads a previously generated output as grayscale. SVG files are
// rasterized at their viewBox size unless width and height are given.
func LoadImage(filePath string, width, height int) (*image.Gray, error) {
	ext := strings.ToLower(filepath.Ext(filePath))

	switch ext {
	case ".svg":
		data, err := os.ReadFile(filePath)
		if err != nil {
			return nil, err
		}
		img, err := RasterizeSVG(data, width, height)
		if err != nil {
			return nil, err
		}
		return toGray(img), nil
	case ".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff":
		img, err := imaging.Open(filePath)
		if err != nil {
			return nil, err
		}
		return toGray(img), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

// diffGray counts differing samples. Images of different size differ
// everywhere.
func diffGray(a, b *image.Gray) int {
	ab, bb := a.Bounds(), b.Bounds()
	if ab.Dx() != bb.Dx() || ab.Dy() != bb.Dy() {
		return max(ab.Dx()*ab.Dy(), bb.Dx()*bb.Dy())
	}

	diff := 0
	for y := 0; y < ab.Dy(); y++ {
		for x := 0; x < ab.Dx(); x++ {
			if a.GrayAt(ab.Min.X+x, ab.Min.Y+y).Y != b.GrayAt(bb.Min.X+x, bb.Min.Y+y).Y {
				diff++
			}
		}
	}
	return diff
}
