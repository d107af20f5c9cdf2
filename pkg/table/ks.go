package table

import (
	"io"
	"strings"

	"github.com/yumyai/ggsynteny/internal/util"
)

const (
	ksColID1    = 0
	ksColID2    = 1
	ksColValues = 2
	ksColKs     = 3
)

type KsRow struct {
	ID1 string `json:"id1"`
	ID2 string `json:"id2"`
	// Values holds columns 2.. of the row.
	Values []float64 `json:"values"`
}

// Ks is the synonymous substitution rate (column 3 of the file).
func (r *KsRow) Ks() float64 {
	return r.Values[ksColKs-ksColValues]
}

// KsTable indexes rows by "id1,id2" while keeping file order.
type KsTable struct {
	keys []string
	rows map[string]*KsRow
}

func (kt *KsTable) Keys() []string {
	out := make([]string, len(kt.keys))
	copy(out, kt.keys)
	return out
}

func (kt *KsTable) Get(id1, id2 string) (*KsRow, bool) {
	row, ok := kt.rows[id1+","+id2]
	return row, ok
}

func (kt *KsTable) Len() int {
	return len(kt.keys)
}

// LoadKs reads a ks table. Exact duplicate rows and rows with ks <= 0 are
// dropped. A later row with the same id pair but different values replaces
// the earlier one in the index.
func LoadKs(path string) (*KsTable, error) {
	records, err := readRecords(path)
	if err != nil {
		return nil, err
	}
	return ksFromRecords(path, records)
}

func ReadKs(r io.Reader) (*KsTable, error) {
	lines, err := util.ReadLines(r)
	if err != nil {
		return nil, err
	}
	return ksFromRecords("", splitRecords(lines))
}

func ksFromRecords(path string, records []record) (*KsTable, error) {
	kt := &KsTable{rows: make(map[string]*KsRow)}
	seenRows := make(map[string]struct{})

	for _, rec := range records {
		if _, err := rec.column(path, ksColKs); err != nil {
			return nil, err
		}

		whole := strings.Join(rec.fields, "\t")
		if _, dup := seenRows[whole]; dup {
			continue
		}
		seenRows[whole] = struct{}{}

		values := make([]float64, 0, len(rec.fields)-ksColValues)
		for col := ksColValues; col < len(rec.fields); col++ {
			v, err := rec.float(path, col)
			if err != nil {
				return nil, err
			}
			values = append(values, v)
		}

		row := &KsRow{ID1: rec.fields[ksColID1], ID2: rec.fields[ksColID2], Values: values}
		if !(row.Ks() > 0) {
			continue
		}

		key := row.ID1 + "," + row.ID2
		if _, exists := kt.rows[key]; !exists {
			kt.keys = append(kt.keys, key)
		}
		kt.rows[key] = row
	}
	return kt, nil
}
