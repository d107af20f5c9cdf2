// Package block parses the collinearity block reports of ColinearScan and
// MCScanX. Each dialect is a small line automaton: the input is read into
// memory as lines, then fed through the automaton in one pass.
package block

import (
	"fmt"
)

// MalformedBlockError is returned for a line the automaton recognises by its
// position but cannot split into the expected fields.
type MalformedBlockError struct {
	Line int // 1-based
	Text string
	Msg  string
}

func (e *MalformedBlockError) Error() string {
	return fmt.Sprintf("malformed block line %d: %s: %q", e.Line, e.Msg, e.Text)
}

// Dialect names the tool that produced a block file.
type Dialect string

const (
	DialectColinearScan Dialect = "colinearscan"
	DialectMCScanX      Dialect = "mcscanx"
)

func ParseDialect(s string) (Dialect, error) {
	switch Dialect(s) {
	case DialectColinearScan, DialectMCScanX:
		return Dialect(s), nil
	default:
		return "", fmt.Errorf("unknown block dialect %q", s)
	}
}
