package main

import (
	"fmt"
	"image"
	"image/draw"
	"sort"
	"strings"

	"gocv.io/x/gocv"
)

// Codebook maps a marker ID to its canonical cell grid: one pixel per
// cell, black frame included, 0 for black and 255 for white.
type Codebook interface {
	Name() string
	Len() int
	Cells(id int) (*image.Gray, error)
}

type dictionaryInfo struct {
	code    gocv.ArucoDictionaryCode
	bits    int
	symbols int
}

const DefaultDictionary = "4x4_250"

var dictionaries = map[string]dictionaryInfo{
	"4x4_50":   {gocv.ArucoDict4x4_50, 4, 50},
	"4x4_100":  {gocv.ArucoDict4x4_100, 4, 100},
	"4x4_250":  {gocv.ArucoDict4x4_250, 4, 250},
	"4x4_1000": {gocv.ArucoDict4x4_1000, 4, 1000},
	"5x5_50":   {gocv.ArucoDict5x5_50, 5, 50},
	"5x5_100":  {gocv.ArucoDict5x5_100, 5, 100},
	"5x5_250":  {gocv.ArucoDict5x5_250, 5, 250},
	"5x5_1000": {gocv.ArucoDict5x5_1000, 5, 1000},
	"6x6_50":   {gocv.ArucoDict6x6_50, 6, 50},
	"6x6_100":  {gocv.ArucoDict6x6_100, 6, 100},
	"6x6_250":  {gocv.ArucoDict6x6_250, 6, 250},
	"6x6_1000": {gocv.ArucoDict6x6_1000, 6, 1000},
	"7x7_50":   {gocv.ArucoDict7x7_50, 7, 50},
	"7x7_100":  {gocv.ArucoDict7x7_100, 7, 100},
	"7x7_250":  {gocv.ArucoDict7x7_250, 7, 250},
	"7x7_1000": {gocv.ArucoDict7x7_1000, 7, 1000},
}

// DictionaryNames lists the supported dictionary identifiers in sorted order.
func DictionaryNames() []string {
	names := make([]string, 0, len(dictionaries))
	for name := range dictionaries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalizeDictionary(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.TrimPrefix(name, "dict_")
	return name
}

// opencvCodebook draws markers with OpenCV's predefined ArUco dictionaries.
type opencvCodebook struct {
	name string
	info dictionaryInfo
}

// NewCodebook returns the OpenCV-backed codebook for a dictionary
// identifier such as "4x4_250" or "DICT_4X4_250".
func NewCodebook(name string) (Codebook, error) {
	key := normalizeDictionary(name)
	info, ok := dictionaries[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q (supported: %s)", ErrUnknownDictionary, name, strings.Join(DictionaryNames(), ", "))
	}
	return &opencvCodebook{name: key, info: info}, nil
}

func (c *opencvCodebook) Name() string { return c.name }

func (c *opencvCodebook) Len() int { return c.info.symbols }

// Cells generates the marker at one pixel per cell. The border is a single
// cell wide, matching OpenCV's default marker layout.
func (c *opencvCodebook) Cells(id int) (*image.Gray, error) {
	if err := checkMarkerID(c, id); err != nil {
		return nil, err
	}

	side := c.info.bits + 2
	mat := gocv.NewMat()
	defer mat.Close()

	gocv.ArucoGenerateImageMarker(c.info.code, id, side, mat, 1)
	if mat.Empty() || mat.Rows() != side || mat.Cols() != side {
		return nil, fmt.Errorf("%w: %s id %d produced %dx%d matrix", ErrCodebook, c.name, id, mat.Cols(), mat.Rows())
	}

	img, err := mat.ToImage()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCodebook, err)
	}
	return toGray(img), nil
}

func checkMarkerID(c Codebook, id int) error {
	if id < 0 || id >= c.Len() {
		return fmt.Errorf("%w: %d is outside dictionary %s (0-%d)", ErrInvalidMarkerID, id, c.Name(), c.Len()-1)
	}
	return nil
}

// toGray returns img as *image.Gray, copying only when the concrete type
// differs. The luma conversion keeps r==g==b samples unchanged.
func toGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok && g.Bounds().Min == (image.Point{}) {
		return g
	}
	b := img.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
