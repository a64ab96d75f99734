package main

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"testing"
)

// fakeCodebook encodes the ID's bits row by row inside a black frame, so
// tests can check compositing without pinning real dictionary content.
type fakeCodebook struct {
	bits    int
	symbols int
}

func newFakeCodebook() *fakeCodebook {
	return &fakeCodebook{bits: 4, symbols: 250}
}

func (c *fakeCodebook) Name() string { return fmt.Sprintf("fake_%dx%d", c.bits, c.bits) }

func (c *fakeCodebook) Len() int { return c.symbols }

func (c *fakeCodebook) Cells(id int) (*image.Gray, error) {
	if err := checkMarkerID(c, id); err != nil {
		return nil, err
	}
	n := c.bits + 2
	img := image.NewGray(image.Rect(0, 0, n, n))
	for y := 1; y <= c.bits; y++ {
		for x := 1; x <= c.bits; x++ {
			bit := ((y-1)*c.bits + (x - 1)) % 16
			if id>>bit&1 == 1 {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return img, nil
}

func newTestGenerator(t *testing.T, dir string) (*Generator, *bytes.Buffer) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.OutputDir = dir
	cfg.Font = "/nonexistent/fonts/label.ttf"

	var out bytes.Buffer
	return &Generator{
		Config:   cfg,
		Codebook: newFakeCodebook(),
		Fonts:    FontLoader{Path: cfg.Font},
		Out:      &out,
		Logger:   newNopLogger(),
	}, &out
}

func countBlack(img *image.Gray, r image.Rectangle) int {
	n := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if img.GrayAt(x, y).Y < 128 {
				n++
			}
		}
	}
	return n
}
