package block

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mcscanxSample = `############### Parameters ###############
# MATCH_SCORE: 50
# MATCH_SIZE: 5
############### Statistics ###############
# Number of collinear genes: 4, Percentage: 0.02
## Alignment 0: score=150.0 e_value=2.1e-10 N=3 1&2 plus
  0-  0:	AT1G01010	AT2G01010	  3e-45
  0-  1:	AT1G01020	AT2G01020	  1e-30
# comment inside a block
  0-  2:	AT1G01030	AT2G01030	  2e-12
## Alignment 1: score=100.0 e_value=1.3e-05 N=2 1&3 minus
  1-  0:	AT1G05010	AT3G06010	  4e-22
  1-  1:	AT1G05020	AT3G06000	  7e-19
`

func TestParseMCScanX(t *testing.T) {
	blocks, err := ParseMCScanX(strings.NewReader(mcscanxSample))
	require.NoError(t, err)
	require.Len(t, blocks, 2)

	first := blocks[0]
	assert.Equal(t, "## Alignment 0: score=150.0 e_value=2.1e-10 N=3 1&2 plus", first.Header)
	assert.Equal(t, 4, first.Len())
	assert.Equal(t, []GenePair{
		{"AT1G01010", "AT2G01010"},
		{"AT1G01020", "AT2G01020"},
		{"AT1G01030", "AT2G01030"},
	}, first.Pairs)

	assert.Equal(t, []any{
		"## Alignment 0: score=150.0 e_value=2.1e-10 N=3 1&2 plus",
		[2]string{"AT1G01010", "AT2G01010"},
		[2]string{"AT1G01020", "AT2G01020"},
		[2]string{"AT1G01030", "AT2G01030"},
	}, first.Sequence())

	assert.Equal(t, 3, blocks[1].Len())
	assert.Equal(t, GenePair{"AT1G05020", "AT3G06000"}, blocks[1].Pairs[1])
}

func TestMCScanXLastHeaderWithoutPairsIsEmitted(t *testing.T) {
	input := "## Alignment 0: score=1 e_value=1 N=1 1&1 plus\n0-0:\ta\tb\t1\n## Alignment 1: score=1 e_value=1 N=0 1&1 plus\n"

	blocks, err := ParseMCScanX(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Equal(t, 2, blocks[0].Len())
	assert.Equal(t, 1, blocks[1].Len())
	assert.Empty(t, blocks[1].Pairs)
}

func TestMCScanXLinesBeforeFirstHeaderIgnored(t *testing.T) {
	input := "stray: line without header\n0-0:\tx\ty\n## Alignment 0: score=1\n0-0:\ta\tb\t1\n"

	blocks, err := ParseMCScanX(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, []GenePair{{"a", "b"}}, blocks[0].Pairs)
}

func TestMCScanXNoHeader(t *testing.T) {
	blocks, err := ParseMCScanX(strings.NewReader("# only comments\n"))
	require.NoError(t, err)
	assert.Empty(t, blocks)
}

func TestMCScanXMalformedRows(t *testing.T) {
	tests := []struct {
		name string
		row  string
	}{
		{"no colon", "0-0 a b"},
		{"one gene", "0-0:\ta"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMCScanX(strings.NewReader("## Alignment 0: N=1\n" + tt.row + "\n"))
			var mbe *MalformedBlockError
			require.ErrorAs(t, err, &mbe)
			assert.Equal(t, 2, mbe.Line)
		})
	}
}

func TestMCScanXScannerTransitions(t *testing.T) {
	sc := &mcscanxScanner{}
	assert.Equal(t, "BEFORE_FIRST", sc.state.String())

	require.NoError(t, sc.feed("0-0:\tignored\tpair"))
	assert.Equal(t, mcscanxBeforeFirst, sc.state)
	assert.Empty(t, sc.blocks)

	require.NoError(t, sc.feed("## Alignment 0: N=1"))
	assert.Equal(t, mcscanxInBlock, sc.state)
	assert.Empty(t, sc.blocks)

	require.NoError(t, sc.feed("0-0:\ta\tb"))
	require.NoError(t, sc.feed("## Alignment 1: N=0"))
	assert.Len(t, sc.blocks, 1)

	assert.Len(t, sc.finish(), 2)
}

func TestParseAlignmentHeader(t *testing.T) {
	h := ParseAlignmentHeader("## Alignment 12: score=3265.0 e_value=4.1e-170 N=67 Chr1&Chr5 minus")
	assert.Equal(t, AlignmentHeader{
		ID:          12,
		Score:       3265.0,
		EValue:      4.1e-170,
		N:           67,
		Chr1:        "Chr1",
		Chr2:        "Chr5",
		Orientation: "minus",
	}, h)

	assert.Equal(t, AlignmentHeader{}, ParseAlignmentHeader("## Alignment"))
}

func TestReadMCScanX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.collinearity")
	require.NoError(t, os.WriteFile(path, []byte(mcscanxSample), 0o644))

	blocks, err := ReadMCScanX(path)
	require.NoError(t, err)
	assert.Len(t, blocks, 2)

	again, err := ReadMCScanX(path)
	require.NoError(t, err)
	assert.Equal(t, blocks, again)
}

func TestParseDialect(t *testing.T) {
	d, err := ParseDialect("mcscanx")
	require.NoError(t, err)
	assert.Equal(t, DialectMCScanX, d)

	_, err = ParseDialect("blast")
	assert.Error(t, err)
}
