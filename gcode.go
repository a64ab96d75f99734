package main

import (
	"fmt"
	"image"
	"strings"
)

type GCodeOptions struct {
	SideMM        float64 // marker edge, border excluded
	BorderMM      float64 // white margin on each side
	LineSpacingMM float64
	Power         int
	FeedRate      int
	TravelRate    int
}

const mmPerInch = 25.4

func DefaultGCodeOptions(sizeInches, borderRatio float64) GCodeOptions {
	side := sizeInches * mmPerInch
	return GCodeOptions{
		SideMM:        side,
		BorderMM:      side * borderRatio / 2,
		LineSpacingMM: 0.2,
		Power:         1000,
		FeedRate:      1500,
		TravelRate:    3000,
	}
}

func (o GCodeOptions) validate() error {
	if o.SideMM <= 0 || o.BorderMM < 0 || o.LineSpacingMM <= 0 {
		return fmt.Errorf("%w: side %.3f mm, border %.3f mm, spacing %.3f mm",
			ErrInvalidMarkerSize, o.SideMM, o.BorderMM, o.LineSpacingMM)
	}
	return nil
}

// MarkerGCode fills the black cells of the marker with horizontal laser
// passes in a zig-zag order. Machine Y grows upward, so image rows are
// flipped to keep the engraved marker unmirrored.
func MarkerGCode(cells *image.Gray, opts GCodeOptions) (string, error) {
	if err := opts.validate(); err != nil {
		return "", err
	}

	n := cells.Bounds().Dx()
	cellMM := opts.SideMM / float64(n)
	total := opts.SideMM + 2*opts.BorderMM

	rows := make([][]cellRun, n)
	for _, run := range blackRuns(cells) {
		rows[run.row] = append(rows[run.row], run)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "G21\nG90\nM5\nG0 F%d\nG1 F%d\n", opts.TravelRate, opts.FeedRate)

	line := 0
	for y := opts.LineSpacingMM / 2; y < opts.SideMM; y += opts.LineSpacingMM {
		row := int(y / cellMM)
		if row >= n {
			break
		}
		fromRight := line%2 == 1
		line++

		runs := rows[row]
		machineY := total - (opts.BorderMM + y)
		for i := range runs {
			run := runs[i]
			if fromRight {
				run = runs[len(runs)-1-i]
			}
			startX := opts.BorderMM + float64(run.start)*cellMM
			endX := opts.BorderMM + float64(run.end)*cellMM
			if fromRight {
				startX, endX = endX, startX
			}

			fmt.Fprintf(&sb, "G0 X%.3f Y%.3f\nM3 S%d\n", startX, machineY, opts.Power)
			fmt.Fprintf(&sb, "G1 X%.3f Y%.3f\n", endX, machineY)
			sb.WriteString("M5\n")
		}
	}

	sb.WriteString("M5\nG0 X0 Y0\n")
	return sb.String(), nil
}
