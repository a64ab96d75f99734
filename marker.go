package main

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// MaxCanvasPixels bounds the edge of any rendered image.
const MaxCanvasPixels = 20000

type MarkerSpec struct {
	Dictionary  string
	ID          int
	SizePixels  int
	BorderRatio float64
}

// RenderMarker draws marker id at exactly size×size pixels with no margin.
// Cells are scaled with nearest-neighbour sampling so every sample is
// either 0 or 255.
func RenderMarker(cb Codebook, id, size int) (*image.Gray, error) {
	if err := checkMarkerID(cb, id); err != nil {
		return nil, err
	}

	cells, err := cb.Cells(id)
	if err != nil {
		return nil, err
	}

	side := cells.Bounds().Dx()
	if size <= 0 || size < side {
		return nil, fmt.Errorf("%w: %d px cannot hold %d cells", ErrInvalidMarkerSize, size, side)
	}
	if size > MaxCanvasPixels {
		return nil, fmt.Errorf("%w: %d px exceeds %d", ErrInvalidMarkerSize, size, MaxCanvasPixels)
	}

	if size == side {
		return toGray(imaging.Clone(cells)), nil
	}
	return toGray(imaging.Resize(cells, size, size, imaging.NearestNeighbor)), nil
}

// Render produces the bordered marker described by m. cb must serve the
// dictionary m names.
func (m MarkerSpec) Render(cb Codebook) (*image.Gray, error) {
	if normalizeDictionary(m.Dictionary) != cb.Name() {
		return nil, fmt.Errorf("%w: marker wants %q, codebook is %q", ErrUnknownDictionary, m.Dictionary, cb.Name())
	}
	marker, err := RenderMarker(cb, m.ID, m.SizePixels)
	if err != nil {
		return nil, err
	}
	return AddBorder(marker, m.BorderRatio)
}
