package request

import (
	"github.com/yumyai/ggsynteny/pkg/block"
	"github.com/yumyai/ggsynteny/pkg/table"
)

// Parse and store an uploaded block file
type BlockImportRequest struct {
	Dialect block.Dialect `json:"dialect"` // colinearscan or mcscanx
	Source  string        `json:"source"`  // Free text label kept with the run, usually the file name
}

// Project genes of one genome onto its linear axis
type LocationRequest struct {
	GFF      string         `json:"gff"`      // Annotation table, relative to the data directory
	Lens     string         `json:"lens"`     // Length table, relative to the data directory
	Step     float64        `json:"step"`     // Scale factor, 0 derives 1/total length
	Position table.Position `json:"position"` // order or end
}
