// Loaders for the tab-delimited inputs of a synteny run: annotation (gff),
// chromosome lengths (lens), pair scores (blast) and ks tables. Columns are
// addressed by position once, here, and exposed through named fields.

package table

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yumyai/ggsynteny/internal/util"
)

// MalformedTableError reports a missing column, a value that failed type
// coercion, or a violated key invariant.
type MalformedTableError struct {
	Path   string
	Line   int // 1-based, 0 when not tied to a line
	Column int // 0-based, -1 when not tied to a column
	Msg    string
}

func (e *MalformedTableError) Error() string {
	loc := e.Path
	if loc == "" {
		loc = "<input>"
	}
	if e.Line > 0 {
		loc = fmt.Sprintf("%s:%d", loc, e.Line)
	}
	if e.Column >= 0 {
		return fmt.Sprintf("malformed table %s: column %d: %s", loc, e.Column, e.Msg)
	}
	return fmt.Sprintf("malformed table %s: %s", loc, e.Msg)
}

// Position selects which coordinate a length table and the annotation rows
// expose: the gene order index or the base-pair end coordinate.
type Position int

const (
	PositionOrder Position = iota
	PositionEnd
)

func (p Position) String() string {
	switch p {
	case PositionOrder:
		return "order"
	case PositionEnd:
		return "end"
	default:
		return "unknown"
	}
}

func ParsePosition(s string) (Position, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "order":
		return PositionOrder, nil
	case "end":
		return PositionEnd, nil
	default:
		return PositionOrder, fmt.Errorf("unknown position %q (want order or end)", s)
	}
}

// record is one non-empty line split on tabs.
type record struct {
	line   int
	fields []string
}

func splitRecords(lines []string) []record {
	records := make([]record, 0, len(lines))
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		for j := range fields {
			fields[j] = strings.TrimSpace(fields[j])
		}
		records = append(records, record{line: i + 1, fields: fields})
	}
	return records
}

func readRecords(path string) ([]record, error) {
	lines, err := util.ReadFileLines(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return splitRecords(lines), nil
}

// column fetches fields[col] or fails with a MalformedTableError.
func (r record) column(path string, col int) (string, error) {
	if col >= len(r.fields) {
		return "", &MalformedTableError{Path: path, Line: r.line, Column: col,
			Msg: fmt.Sprintf("missing column (row has %d)", len(r.fields))}
	}
	return r.fields[col], nil
}

func (r record) float(path string, col int) (float64, error) {
	raw, err := r.column(path, col)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &MalformedTableError{Path: path, Line: r.line, Column: col,
			Msg: fmt.Sprintf("%q is not numeric", raw)}
	}
	return v, nil
}

// integer accepts "12" and integral floats such as "12.0".
func (r record) integer(path string, col int) (int64, error) {
	raw, err := r.column(path, col)
	if err != nil {
		return 0, err
	}
	if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != float64(int64(f)) {
		return 0, &MalformedTableError{Path: path, Line: r.line, Column: col,
			Msg: fmt.Sprintf("%q is not an integer", raw)}
	}
	return int64(f), nil
}
