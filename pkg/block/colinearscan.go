package block

import (
	"io"
	"strings"

	"github.com/yumyai/ggsynteny/internal/util"
	"github.com/yumyai/ggsynteny/logger"
	"go.uber.org/zap"
)

// ColinearBlock is one ColinearScan block: the whitespace split rows between
// a "the" line and its ">LOCALE" terminator, plus the text after the first
// colon of the terminator.
type ColinearBlock struct {
	// Rows holds the tokens of each row. Runs of spaces and tabs count as one
	// separator, so "g1  1" gives two tokens, not three with an empty middle;
	// token indices are positions among the non-empty fields.
	Rows [][]string `json:"rows"`
	// Locale is the terminator text after the first colon, untrimmed.
	Locale string `json:"locale"`
}

type colinearState int

const (
	colinearSeeking colinearState = iota
	colinearCollecting
)

func (s colinearState) String() string {
	switch s {
	case colinearSeeking:
		return "SEEKING"
	case colinearCollecting:
		return "COLLECTING"
	default:
		return "INVALID"
	}
}

type colinearLineKind int

const (
	colinearGap colinearLineKind = iota
	colinearStart
	colinearLocale
	colinearData
)

// classifyColinearLine expects a trimmed line. Order matters: "MAXIMUM GAP"
// and "the" win over ">LOCALE".
func classifyColinearLine(line string) colinearLineKind {
	switch {
	case strings.HasPrefix(line, "MAXIMUM GAP"):
		return colinearGap
	case strings.HasPrefix(line, "the"):
		return colinearStart
	case strings.HasPrefix(line, ">LOCALE"):
		return colinearLocale
	default:
		return colinearData
	}
}

type colinearScanner struct {
	state  colinearState
	rows   [][]string
	blocks []*ColinearBlock
	lineNo int
}

func (sc *colinearScanner) feed(raw string) error {
	sc.lineNo++
	line := strings.TrimSpace(raw)

	kind := classifyColinearLine(line)
	switch kind {
	case colinearGap:
		return nil

	case colinearStart:
		sc.rows = nil
		sc.state = colinearCollecting
		return nil
	}

	if sc.state == colinearSeeking {
		return nil
	}

	if kind == colinearLocale {
		sc.state = colinearSeeking
		if len(sc.rows) == 0 {
			logger.Debug("ColinearScan locale without rows discarded", zap.Int("line", sc.lineNo))
			return nil
		}

		_, meta, ok := strings.Cut(line, ":")
		if !ok {
			return &MalformedBlockError{Line: sc.lineNo, Text: line, Msg: "locale line has no ':'"}
		}

		sc.blocks = append(sc.blocks, &ColinearBlock{Rows: sc.rows, Locale: meta})
		sc.rows = nil
		return nil
	}

	sc.rows = append(sc.rows, strings.Fields(line))
	return nil
}

// finish drops rows collected after the last terminator. MCScanX flushes its
// trailing block instead; the difference is kept on purpose and logged.
func (sc *colinearScanner) finish() []*ColinearBlock {
	if sc.state == colinearCollecting && len(sc.rows) > 0 {
		logger.Warn("ColinearScan input ended inside a block, trailing rows dropped",
			zap.Int("rows", len(sc.rows)))
	}
	sc.rows = nil
	return sc.blocks
}

func parseColinearScanLines(lines []string) ([]*ColinearBlock, error) {
	sc := &colinearScanner{}
	for _, line := range lines {
		if err := sc.feed(line); err != nil {
			return nil, err
		}
	}
	return sc.finish(), nil
}

// ParseColinearScan reads a ColinearScan block report from r.
func ParseColinearScan(r io.Reader) ([]*ColinearBlock, error) {
	lines, err := util.ReadLines(r)
	if err != nil {
		return nil, err
	}
	return parseColinearScanLines(lines)
}

// ReadColinearScan parses the ColinearScan report at path (plain or gzip).
func ReadColinearScan(path string) ([]*ColinearBlock, error) {
	lines, err := util.ReadFileLines(path)
	if err != nil {
		return nil, err
	}
	return parseColinearScanLines(lines)
}
