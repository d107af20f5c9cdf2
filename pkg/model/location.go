package model

import (
	"github.com/yumyai/ggsynteny/logger"
	"github.com/yumyai/ggsynteny/pkg/table"
	"go.uber.org/zap"
)

// GeneLocation projects every gene onto the linear axis built from lens:
// (offset[chr] + gene value at pos) * step, where offset is the exclusive
// prefix sum of lens in file order. Genes on chromosomes absent from lens are
// skipped. pos must match the column lens was loaded with.
func GeneLocation(genes []*table.Gene, lens *table.LengthTable, step float64, pos table.Position) GeneLocationMap {
	offsets := lens.Offsets()
	locations := make(GeneLocationMap, len(genes))

	skipped := 0
	for _, g := range genes {
		offset, ok := offsets[g.Chr]
		if !ok {
			skipped++
			continue
		}
		locations[g.ID] = (float64(offset) + g.Value(pos)) * step
	}

	if skipped > 0 {
		logger.Debug("genes on chromosomes outside the length table skipped",
			zap.Int("skipped", skipped), zap.Int("kept", len(locations)))
	}
	return locations
}
