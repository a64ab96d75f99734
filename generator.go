package main

import (
	"fmt"
	"image"
	"io"
	"log/slog"
	"math"
	"path/filepath"
	"strconv"
)

// Job is one output image of a generation run.
type Job struct {
	Title   string
	Suffix  string
	DPI     int
	Labeled bool
}

// StandardJobs are the three outputs every run produces.
var StandardJobs = []Job{
	{Title: "standard resolution marker (100 DPI)", DPI: 100, Labeled: true},
	{Title: "high resolution marker (300 DPI)", Suffix: "_high", DPI: 300, Labeled: true},
	{Title: "clean marker (no labels)", Suffix: "_clean", DPI: 300},
}

type Generator struct {
	Config   Config
	Codebook Codebook
	Fonts    FontLoader
	Out      io.Writer
	Logger   *slog.Logger
}

// NewGenerator validates cfg and binds it to the OpenCV codebook.
func NewGenerator(cfg Config, out io.Writer, logger *slog.Logger) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cb, err := NewCodebook(cfg.Dictionary)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = newNopLogger()
	}
	return &Generator{
		Config:   cfg,
		Codebook: cb,
		Fonts:    FontLoader{Path: cfg.Font, Logger: logger},
		Out:      out,
		Logger:   logger,
	}, nil
}

// MarkerPixels is the marker edge in pixels at dpi, border excluded.
func (g *Generator) MarkerPixels(dpi int) int {
	return int(math.Round(g.Config.SizeInches * float64(dpi)))
}

// BaseName is the output name without suffix or extension, e.g.
// "aruco_marker_id23_4x4".
func (g *Generator) BaseName() string {
	size := strconv.FormatFloat(g.Config.SizeInches, 'f', -1, 64)
	return fmt.Sprintf("aruco_marker_id%d_%sx%s", g.Config.MarkerID, size, size)
}

func (g *Generator) path(name string) string {
	return filepath.Join(g.Config.OutputDir, name)
}

// Filename is the output path of job.
func (g *Generator) Filename(job Job) string {
	return g.path(g.BaseName() + job.Suffix + ".png")
}

// Generate renders the bordered marker for job and labels it if requested.
func (g *Generator) Generate(job Job) (*image.Gray, error) {
	size := g.MarkerPixels(job.DPI)
	spec := MarkerSpec{
		Dictionary:  g.Codebook.Name(),
		ID:          g.Config.MarkerID,
		SizePixels:  size,
		BorderRatio: g.Config.BorderRatio,
	}
	img, err := spec.Render(g.Codebook)
	if err != nil {
		return nil, err
	}
	g.Logger.Debug("rendered marker", "id", spec.ID, "dictionary", spec.Dictionary, "size", size, "canvas", img.Bounds().Dx())

	if !job.Labeled {
		return img, nil
	}
	return AddLabels(img, LabelSpec{
		MarkerID:   g.Config.MarkerID,
		SizeInches: g.Config.SizeInches,
		DPI:        job.DPI,
	}, g.Fonts)
}

// Run generates and saves every standard job, then the optional exports.
// Renderer errors abort the run; write failures are reported and counted.
func (g *Generator) Run() (failed int, err error) {
	w := Writer{Out: g.Out}

	for _, job := range StandardJobs {
		fmt.Fprintf(g.Out, "Generating %s...\n", job.Title)
		size := g.MarkerPixels(job.DPI)
		fmt.Fprintf(g.Out, "Generating ArUco marker ID %d at %dx%d pixels (%d DPI)\n", g.Config.MarkerID, size, size, job.DPI)
		img, err := g.Generate(job)
		if err != nil {
			return failed, err
		}
		if !w.Save(img, g.Filename(job)) {
			failed++
		}
		fmt.Fprintln(g.Out)
	}

	if g.Config.SVG {
		ok, err := g.exportSVG(w)
		if err != nil {
			return failed, err
		}
		if !ok {
			failed++
		}
	}
	if g.Config.GCode {
		ok, err := g.exportGCode(w)
		if err != nil {
			return failed, err
		}
		if !ok {
			failed++
		}
	}

	if failed > 0 {
		g.Logger.Warn("some outputs were not written", "failed", failed)
	}
	return failed, nil
}

func (g *Generator) exportSVG(w Writer) (bool, error) {
	fmt.Fprintln(g.Out, "Generating vector marker (SVG)...")
	cells, err := g.Codebook.Cells(g.Config.MarkerID)
	if err != nil {
		return false, err
	}

	data := MarkerSVG(cells, g.Config.SizeInches, g.Config.BorderRatio)
	if err := CheckMarkerSVG(data, cells, g.Config.BorderRatio); err != nil {
		g.Logger.Warn("svg does not match marker cells", "error", err)
	}
	ok := w.SaveBytes(data, g.path(g.BaseName()+".svg"))
	fmt.Fprintln(g.Out)
	return ok, nil
}

func (g *Generator) exportGCode(w Writer) (bool, error) {
	fmt.Fprintln(g.Out, "Generating laser engraving program (G-code)...")
	cells, err := g.Codebook.Cells(g.Config.MarkerID)
	if err != nil {
		return false, err
	}

	gcode, err := MarkerGCode(cells, DefaultGCodeOptions(g.Config.SizeInches, g.Config.BorderRatio))
	if err != nil {
		return false, err
	}
	ok := w.SaveBytes([]byte(gcode), g.path(g.BaseName()+".gcode"))
	fmt.Fprintln(g.Out)
	return ok, nil
}

// Check regenerates the standard outputs and compares them with the files
// on disk without writing anything. It returns the number of outputs that
// are missing or differ.
func (g *Generator) Check() (mismatched int, err error) {
	for _, job := range StandardJobs {
		want, err := g.Generate(job)
		if err != nil {
			return mismatched, err
		}

		name := g.Filename(job)
		got, err := LoadImage(name, 0, 0)
		if err != nil {
			g.Logger.Debug("cannot load output", "file", name, "error", err)
			fmt.Fprintf(g.Out, "  missing:   %s\n", name)
			mismatched++
			continue
		}

		if n := diffGray(got, want); n > 0 {
			fmt.Fprintf(g.Out, "  differs:   %s (%d pixels)\n", name, n)
			mismatched++
			continue
		}
		fmt.Fprintf(g.Out, "  unchanged: %s\n", name)
	}
	return mismatched, nil
}
