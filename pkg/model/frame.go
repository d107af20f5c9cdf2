package model

import "github.com/yumyai/ggsynteny/pkg/table"

// AxisFrame computes chromosome separators, labelled chromosome midpoints and
// the total span of a genome axis scaled by step.
func AxisFrame(lens *table.LengthTable, step float64) Frame {
	chrs := lens.Chromosomes()
	frame := Frame{
		Boundaries: make([]float64, 0, len(chrs)),
		Ticks:      make([]Tick, 0, len(chrs)),
	}

	var cum int64
	for i, chr := range chrs {
		length, _ := lens.Length(chr)
		cum += length

		// No separator after the last chromosome.
		if i < len(chrs)-1 {
			frame.Boundaries = append(frame.Boundaries, float64(cum)*step)
		}
		frame.Ticks = append(frame.Ticks, Tick{
			Label: chr,
			Value: float64(cum)*step - 0.5*float64(length)*step,
		})
	}
	frame.Span = float64(cum) * step
	return frame
}

// Step returns the factor that scales a genome of the given total length to
// an axis of width 1.
func Step(lens *table.LengthTable) float64 {
	total := lens.Total()
	if total == 0 {
		return 0
	}
	return 1 / float64(total)
}
