package main

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func decodePNG(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return img
}

func TestGenerator_Filenames(t *testing.T) {
	t.Parallel()

	g, _ := newTestGenerator(t, "out")
	want := []string{
		filepath.Join("out", "aruco_marker_id23_4x4.png"),
		filepath.Join("out", "aruco_marker_id23_4x4_high.png"),
		filepath.Join("out", "aruco_marker_id23_4x4_clean.png"),
	}
	for i, job := range StandardJobs {
		if got := g.Filename(job); got != want[i] {
			t.Errorf("job %d: got %s, want %s", i, got, want[i])
		}
	}

	g.Config.SizeInches = 2.5
	if got := g.BaseName(); got != "aruco_marker_id23_2.5x2.5" {
		t.Errorf("BaseName = %s", got)
	}
}

func TestGenerator_Run(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	g, out := newTestGenerator(t, dir)

	failed, err := g.Run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if failed != 0 {
		t.Fatalf("%d outputs failed:\n%s", failed, out.String())
	}

	tests := []struct {
		name          string
		width, height int
	}{
		{name: "aruco_marker_id23_4x4.png", width: 480, height: 530},
		{name: "aruco_marker_id23_4x4_high.png", width: 1440, height: 1590},
		{name: "aruco_marker_id23_4x4_clean.png", width: 1440, height: 1440},
	}
	for _, tt := range tests {
		b := decodePNG(t, filepath.Join(dir, tt.name)).Bounds()
		if b.Dx() != tt.width || b.Dy() != tt.height {
			t.Errorf("%s: got %dx%d, want %dx%d", tt.name, b.Dx(), b.Dy(), tt.width, tt.height)
		}
	}

	for _, want := range []string{
		"Generating standard resolution marker (100 DPI)...",
		"Generating ArUco marker ID 23 at 400x400 pixels (100 DPI)",
		"Generating ArUco marker ID 23 at 1200x1200 pixels (300 DPI)",
		"Generating clean marker (no labels)...",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("console output missing %q", want)
		}
	}
	if strings.Contains(out.String(), ".svg") || strings.Contains(out.String(), ".gcode") {
		t.Error("optional exports written without being enabled")
	}
}

func TestGenerator_RunIsIdempotent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	g, _ := newTestGenerator(t, dir)

	read := func() map[string][]byte {
		files := map[string][]byte{}
		for _, job := range StandardJobs {
			data, err := os.ReadFile(g.Filename(job))
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			files[job.Suffix] = data
		}
		return files
	}

	if _, err := g.Run(); err != nil {
		t.Fatalf("first run: %v", err)
	}
	first := read()
	if _, err := g.Run(); err != nil {
		t.Fatalf("second run: %v", err)
	}
	second := read()

	for suffix, data := range first {
		if !bytes.Equal(data, second[suffix]) {
			t.Errorf("output %q changed between runs", suffix)
		}
	}
}

func TestGenerator_RunContinuesAfterWriteFailure(t *testing.T) {
	t.Parallel()

	g, out := newTestGenerator(t, filepath.Join(t.TempDir(), "missing"))

	failed, err := g.Run()
	if err != nil {
		t.Fatalf("write failures must not abort the run: %v", err)
	}
	if failed != len(StandardJobs) {
		t.Errorf("failed = %d, want %d", failed, len(StandardJobs))
	}
	if got := strings.Count(out.String(), "✗ Failed to save"); got != len(StandardJobs) {
		t.Errorf("reported %d failures, want %d", got, len(StandardJobs))
	}
}

func TestGenerator_RunRejectsOversizedConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	g, _ := newTestGenerator(t, dir)
	g.Config.SizeInches = 1e9

	if _, err := g.Run(); !errors.Is(err, ErrInvalidMarkerSize) {
		t.Fatalf("got %v, want ErrInvalidMarkerSize", err)
	}
}

func TestGenerator_RunAbortsOnInvalidMarker(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	g, _ := newTestGenerator(t, dir)
	g.Config.MarkerID = 250

	if _, err := g.Run(); !errors.Is(err, ErrInvalidMarkerID) {
		t.Fatalf("got %v, want ErrInvalidMarkerID", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("%d files written despite renderer error", len(entries))
	}
}

func TestGenerator_OptionalExports(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	g, _ := newTestGenerator(t, dir)
	g.Config.SVG = true
	g.Config.GCode = true

	failed, err := g.Run()
	if err != nil || failed != 0 {
		t.Fatalf("run: failed=%d err=%v", failed, err)
	}

	svg, err := os.ReadFile(filepath.Join(dir, "aruco_marker_id23_4x4.svg"))
	if err != nil {
		t.Fatalf("read svg: %v", err)
	}
	cells, _ := g.Codebook.Cells(23)
	if err := CheckMarkerSVG(svg, cells, g.Config.BorderRatio); err != nil {
		t.Errorf("svg check: %v", err)
	}

	gcode, err := os.ReadFile(filepath.Join(dir, "aruco_marker_id23_4x4.gcode"))
	if err != nil {
		t.Fatalf("read gcode: %v", err)
	}
	if !strings.HasPrefix(string(gcode), "G21\n") {
		t.Error("gcode missing header")
	}
}

func TestGenerator_Check(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	g, out := newTestGenerator(t, dir)

	mismatched, err := g.Check()
	if err != nil {
		t.Fatalf("check before run: %v", err)
	}
	if mismatched != len(StandardJobs) {
		t.Errorf("before run: mismatched = %d, want %d", mismatched, len(StandardJobs))
	}

	if _, err := g.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	out.Reset()
	if mismatched, err = g.Check(); err != nil || mismatched != 0 {
		t.Fatalf("after run: mismatched=%d err=%v\n%s", mismatched, err, out.String())
	}
	if got := strings.Count(out.String(), "unchanged:"); got != len(StandardJobs) {
		t.Errorf("unchanged lines = %d, want %d", got, len(StandardJobs))
	}
	if strings.Contains(out.String(), "Generating") {
		t.Errorf("check report contains progress lines:\n%s", out.String())
	}

	// Overwrite the clean output with the labeled one.
	labeled, err := os.ReadFile(g.Filename(StandardJobs[1]))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if err := os.WriteFile(g.Filename(StandardJobs[2]), labeled, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	out.Reset()
	if mismatched, err = g.Check(); err != nil || mismatched != 1 {
		t.Errorf("after tamper: mismatched=%d err=%v", mismatched, err)
	}
	if !strings.Contains(out.String(), "differs:") {
		t.Error("tampered output not reported")
	}
}

func TestLoadImage_Unsupported(t *testing.T) {
	t.Parallel()

	if _, err := LoadImage(filepath.Join(t.TempDir(), "marker.webp"), 0, 0); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("got %v, want ErrUnsupportedFormat", err)
	}
}

func TestLoadImage_SVG(t *testing.T) {
	t.Parallel()

	cells, _ := newFakeCodebook().Cells(23)
	path := filepath.Join(t.TempDir(), "marker.svg")
	if err := os.WriteFile(path, MarkerSVG(cells, 4, 0), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	img, err := LoadImage(path, 60, 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 10 px per cell without a border: cell centres match the grid.
	for cy := 0; cy < 6; cy++ {
		for cx := 0; cx < 6; cx++ {
			got := img.GrayAt(cx*10+5, cy*10+5).Y < 128
			want := cells.GrayAt(cx, cy).Y < 128
			if got != want {
				t.Fatalf("cell (%d,%d) black=%v, want %v", cx, cy, got, want)
			}
		}
	}
}
