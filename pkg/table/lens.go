package table

import (
	"fmt"
	"io"

	"github.com/yumyai/ggsynteny/internal/util"
)

// Length table column layout: chromosome id, end coordinate, gene count.
const (
	lensColChr   = 0
	lensColEnd   = 1
	lensColOrder = 2
)

// LengthTable maps chromosome id to either its gene count or its end
// coordinate. Chromosomes keep the order of the source file; that order
// defines the linear genome axis.
type LengthTable struct {
	Position Position
	chrs     []string
	lengths  map[string]int64
}

// NewLengthTable builds a table from parallel slices, mostly for callers that
// already hold the values in memory.
func NewLengthTable(pos Position, chrs []string, lengths []int64) (*LengthTable, error) {
	if len(chrs) != len(lengths) {
		return nil, &MalformedTableError{Column: -1,
			Msg: fmt.Sprintf("%d chromosomes but %d lengths", len(chrs), len(lengths))}
	}
	lt := &LengthTable{Position: pos, lengths: make(map[string]int64, len(chrs))}
	for i, chr := range chrs {
		if err := lt.add(chr, lengths[i]); err != nil {
			return nil, &MalformedTableError{Column: lensColChr, Msg: err.Error()}
		}
	}
	return lt, nil
}

func (lt *LengthTable) add(chr string, length int64) error {
	if _, dup := lt.lengths[chr]; dup {
		return fmt.Errorf("duplicate chromosome %q", chr)
	}
	lt.chrs = append(lt.chrs, chr)
	lt.lengths[chr] = length
	return nil
}

// Chromosomes returns the chromosome ids in file order.
func (lt *LengthTable) Chromosomes() []string {
	out := make([]string, len(lt.chrs))
	copy(out, lt.chrs)
	return out
}

func (lt *LengthTable) Len() int {
	return len(lt.chrs)
}

func (lt *LengthTable) Length(chr string) (int64, bool) {
	v, ok := lt.lengths[chr]
	return v, ok
}

// Offsets returns the exclusive prefix sum of lengths in file order: the
// first chromosome starts at 0, every later one at the total of the ones
// before it.
func (lt *LengthTable) Offsets() map[string]int64 {
	offsets := make(map[string]int64, len(lt.chrs))
	var cum int64
	for _, chr := range lt.chrs {
		offsets[chr] = cum
		cum += lt.lengths[chr]
	}
	return offsets
}

// Total is the sum of all lengths.
func (lt *LengthTable) Total() int64 {
	var total int64
	for _, chr := range lt.chrs {
		total += lt.lengths[chr]
	}
	return total
}

// LoadLens reads a length table from path and exposes the column selected by
// pos.
func LoadLens(path string, pos Position) (*LengthTable, error) {
	records, err := readRecords(path)
	if err != nil {
		return nil, err
	}
	return lensFromRecords(path, records, pos)
}

// ReadLens is LoadLens over an already open reader.
func ReadLens(r io.Reader, pos Position) (*LengthTable, error) {
	lines, err := util.ReadLines(r)
	if err != nil {
		return nil, err
	}
	return lensFromRecords("", splitRecords(lines), pos)
}

func lensFromRecords(path string, records []record, pos Position) (*LengthTable, error) {
	var col int
	switch pos {
	case PositionOrder:
		col = lensColOrder
	case PositionEnd:
		col = lensColEnd
	default:
		return nil, &MalformedTableError{Path: path, Column: -1, Msg: fmt.Sprintf("unsupported position %d", pos)}
	}

	lt := &LengthTable{Position: pos, lengths: make(map[string]int64, len(records))}
	for _, rec := range records {
		v, err := rec.integer(path, col)
		if err != nil {
			return nil, err
		}
		// Ids stay strings even when numeric-looking ("1" never becomes 1).
		if err := lt.add(rec.fields[lensColChr], v); err != nil {
			return nil, &MalformedTableError{Path: path, Line: rec.line, Column: lensColChr, Msg: err.Error()}
		}
	}
	return lt, nil
}
