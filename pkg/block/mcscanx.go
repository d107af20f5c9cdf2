package block

import (
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/yumyai/ggsynteny/internal/util"
	"github.com/yumyai/ggsynteny/logger"
	"go.uber.org/zap"
)

type GenePair struct {
	Gene1 string `json:"gene1"`
	Gene2 string `json:"gene2"`
}

// AlignmentHeader holds the fields of a "## Alignment" line that could be
// recognised. Missing fields stay zero.
type AlignmentHeader struct {
	ID          int     `json:"id"`
	Score       float64 `json:"score"`
	EValue      float64 `json:"e_value"`
	N           int     `json:"n"`
	Chr1        string  `json:"chr1"`
	Chr2        string  `json:"chr2"`
	Orientation string  `json:"orientation"`
}

// MCScanXBlock is one alignment: the raw header line followed by its gene
// pairs in file order.
type MCScanXBlock struct {
	Header    string          `json:"header"`
	Alignment AlignmentHeader `json:"alignment"`
	Pairs     []GenePair      `json:"pairs"`
}

// Sequence renders the block as the header string followed by one
// [2]string per pair.
func (b *MCScanXBlock) Sequence() []any {
	seq := make([]any, 0, len(b.Pairs)+1)
	seq = append(seq, b.Header)
	for _, p := range b.Pairs {
		seq = append(seq, [2]string{p.Gene1, p.Gene2})
	}
	return seq
}

// Len counts the header plus the pairs.
func (b *MCScanXBlock) Len() int {
	return len(b.Pairs) + 1
}

const mcscanxHeaderPrefix = "## Alignment"

var (
	payloadSplit  = regexp.MustCompile(`\s+`)
	alignmentIDRe = regexp.MustCompile(`^## Alignment\s+(\d+)\s*:`)
	chrPairRe     = regexp.MustCompile(`^(\S+)&(\S+)$`)
)

// ParseAlignmentHeader reads lines such as
// "## Alignment 0: score=3265.0 e_value=4.1e-170 N=67 1&1 plus".
func ParseAlignmentHeader(line string) AlignmentHeader {
	var h AlignmentHeader

	rest := line
	if m := alignmentIDRe.FindStringSubmatch(line); m != nil {
		h.ID, _ = strconv.Atoi(m[1])
		rest = line[len(m[0]):]
	}

	for _, tok := range strings.Fields(rest) {
		key, val, isKV := strings.Cut(tok, "=")
		switch {
		case isKV && key == "score":
			h.Score, _ = strconv.ParseFloat(val, 64)
		case isKV && key == "e_value":
			h.EValue, _ = strconv.ParseFloat(val, 64)
		case isKV && key == "N":
			h.N, _ = strconv.Atoi(val)
		case tok == "plus" || tok == "minus":
			h.Orientation = tok
		default:
			if m := chrPairRe.FindStringSubmatch(tok); m != nil {
				h.Chr1, h.Chr2 = m[1], m[2]
			}
		}
	}
	return h
}

type mcscanxState int

const (
	mcscanxBeforeFirst mcscanxState = iota
	mcscanxInBlock
)

func (s mcscanxState) String() string {
	switch s {
	case mcscanxBeforeFirst:
		return "BEFORE_FIRST"
	case mcscanxInBlock:
		return "IN_BLOCK"
	default:
		return "INVALID"
	}
}

type mcscanxScanner struct {
	state   mcscanxState
	current *MCScanXBlock
	blocks  []*MCScanXBlock
	lineNo  int
}

func newMCScanXBlock(header string) *MCScanXBlock {
	return &MCScanXBlock{Header: header, Alignment: ParseAlignmentHeader(header)}
}

func (sc *mcscanxScanner) feed(raw string) error {
	sc.lineNo++
	line := strings.TrimSpace(raw)

	if strings.HasPrefix(line, mcscanxHeaderPrefix) {
		if sc.state == mcscanxInBlock {
			sc.blocks = append(sc.blocks, sc.current)
		}
		sc.current = newMCScanXBlock(line)
		sc.state = mcscanxInBlock
		return nil
	}

	if sc.state == mcscanxBeforeFirst || strings.HasPrefix(line, "#") || line == "" {
		return nil
	}

	_, payload, ok := strings.Cut(line, ":")
	if !ok {
		return &MalformedBlockError{Line: sc.lineNo, Text: line, Msg: "data row has no ':'"}
	}
	// The payload normally starts with whitespace, so index 0 is empty and
	// the gene ids sit at 1 and 2.
	tokens := payloadSplit.Split(payload, -1)
	if len(tokens) < 3 {
		return &MalformedBlockError{Line: sc.lineNo, Text: line, Msg: "data row has fewer than two gene ids"}
	}

	sc.current.Pairs = append(sc.current.Pairs, GenePair{Gene1: tokens[1], Gene2: tokens[2]})
	return nil
}

// finish always flushes the open block, even a header with no pairs.
func (sc *mcscanxScanner) finish() []*MCScanXBlock {
	if sc.state == mcscanxInBlock {
		sc.blocks = append(sc.blocks, sc.current)
		sc.current = nil
	} else {
		logger.Debug("MCScanX input has no alignment header", zap.Int("lines", sc.lineNo))
	}
	return sc.blocks
}

func parseMCScanXLines(lines []string) ([]*MCScanXBlock, error) {
	sc := &mcscanxScanner{}
	for _, line := range lines {
		if err := sc.feed(line); err != nil {
			return nil, err
		}
	}
	return sc.finish(), nil
}

// ParseMCScanX reads an MCScanX collinearity report from r.
func ParseMCScanX(r io.Reader) ([]*MCScanXBlock, error) {
	lines, err := util.ReadLines(r)
	if err != nil {
		return nil, err
	}
	return parseMCScanXLines(lines)
}

// ReadMCScanX parses the MCScanX report at path (plain or gzip).
func ReadMCScanX(path string) ([]*MCScanXBlock, error) {
	lines, err := util.ReadFileLines(path)
	if err != nil {
		return nil, err
	}
	return parseMCScanXLines(lines)
}
