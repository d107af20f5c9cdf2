package table

import (
	"io"

	"github.com/yumyai/ggsynteny/internal/util"
)

// Annotation column layout. No header row is consumed.
const (
	gffColChr    = 0
	gffColID     = 1
	gffColStart  = 2
	gffColEnd    = 3
	gffColStrand = 4
	gffColOrder  = 5
)

// Gene is one annotation row.
type Gene struct {
	Chr    string  `json:"chr"`
	ID     string  `json:"id"`
	Start  float64 `json:"start"`
	End    float64 `json:"end"`
	Strand string  `json:"strand"`
	Order  int     `json:"order"`
}

// Value returns the coordinate selected by pos.
func (g *Gene) Value(pos Position) float64 {
	if pos == PositionEnd {
		return g.End
	}
	return float64(g.Order)
}

// LoadGFF reads an annotation table from path (plain or gzip).
func LoadGFF(path string) ([]*Gene, error) {
	records, err := readRecords(path)
	if err != nil {
		return nil, err
	}
	return genesFromRecords(path, records)
}

// ReadGFF reads an annotation table from r.
func ReadGFF(r io.Reader) ([]*Gene, error) {
	lines, err := util.ReadLines(r)
	if err != nil {
		return nil, err
	}
	return genesFromRecords("", splitRecords(lines))
}

func genesFromRecords(path string, records []record) ([]*Gene, error) {
	genes := make([]*Gene, 0, len(records))
	for _, rec := range records {
		// Touch the last column first so short rows fail with one clear error.
		if _, err := rec.column(path, gffColOrder); err != nil {
			return nil, err
		}

		start, err := rec.float(path, gffColStart)
		if err != nil {
			return nil, err
		}
		end, err := rec.float(path, gffColEnd)
		if err != nil {
			return nil, err
		}
		order, err := rec.integer(path, gffColOrder)
		if err != nil {
			return nil, err
		}

		genes = append(genes, &Gene{
			Chr:    rec.fields[gffColChr],
			ID:     rec.fields[gffColID],
			Start:  start,
			End:    end,
			Strand: rec.fields[gffColStrand],
			Order:  int(order),
		})
	}
	return genes, nil
}
