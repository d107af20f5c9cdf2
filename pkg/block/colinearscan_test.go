package block

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const colinearSample = `MAXIMUM GAP 40
the 1th path length 3
AT1G01010 1 AT3G01010 1 1
AT1G01020 2 AT3G01020 2 1
AT1G01030   3	AT3G01030 3 1
>LOCALE p-value :1.2e-10 1&3
noise between blocks
MAXIMUM GAP 40
the 2th path length 2
AT1G05010 50 AT3G06010 70 -1
AT1G05020 51 AT3G06000 69 -1
>LOCALE p-value :3.4e-5 1&3
`

func TestParseColinearScan(t *testing.T) {
	blocks, err := ParseColinearScan(strings.NewReader(colinearSample))
	require.NoError(t, err)
	require.Len(t, blocks, 2)

	assert.Equal(t, "1.2e-10 1&3", blocks[0].Locale)
	assert.Equal(t, [][]string{
		{"AT1G01010", "1", "AT3G01010", "1", "1"},
		{"AT1G01020", "2", "AT3G01020", "2", "1"},
		{"AT1G01030", "3", "AT3G01030", "3", "1"},
	}, blocks[0].Rows)

	assert.Len(t, blocks[1].Rows, 2)
	assert.Equal(t, "3.4e-5 1&3", blocks[1].Locale)
}

func TestColinearScanSingleCycle(t *testing.T) {
	input := "the block\nA 1 B 2\nC 3 D 4\n>LOCALE x:meta with: colon\n"

	blocks, err := ParseColinearScan(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, blocks, 1)

	// Everything after the first colon, further colons included.
	assert.Equal(t, "meta with: colon", blocks[0].Locale)
	assert.Equal(t, [][]string{{"A", "1", "B", "2"}, {"C", "3", "D", "4"}}, blocks[0].Rows)
}

func TestColinearScanLocaleKeepsLeadingSpace(t *testing.T) {
	input := "the block\nA 1 B 2\n>LOCALE p-value : 1.2e-10  \n"

	blocks, err := ParseColinearScan(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, " 1.2e-10", blocks[0].Locale)
}

func TestColinearScanRowsCollapseWhitespace(t *testing.T) {
	input := "the block\nA  1\t\tB 2\n>LOCALE p:x\n"

	blocks, err := ParseColinearScan(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, [][]string{{"A", "1", "B", "2"}}, blocks[0].Rows)
	assert.Equal(t, "2", blocks[0].Rows[0][3])
}

func TestColinearScanLocaleWithoutRows(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"locale before any start", ">LOCALE p:meta\nA 1 B 2\n"},
		{"locale right after start", "the block\n>LOCALE p:meta\n"},
		{"gap lines only", "the block\nMAXIMUM GAP 10\n>LOCALE p:meta\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blocks, err := ParseColinearScan(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Empty(t, blocks)
		})
	}
}

func TestColinearScanTrailingBlockDropped(t *testing.T) {
	input := "the block\nA 1 B 2\n>LOCALE p:one\nthe block\nC 3 D 4\n"

	blocks, err := ParseColinearScan(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, "one", blocks[0].Locale)
}

func TestColinearScanStartResetsRows(t *testing.T) {
	input := "the block\nA 1 B 2\nthe restart\nC 3 D 4\n>LOCALE p:m\n"

	blocks, err := ParseColinearScan(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, [][]string{{"C", "3", "D", "4"}}, blocks[0].Rows)
}

func TestColinearScanLocaleWithoutColon(t *testing.T) {
	_, err := ParseColinearScan(strings.NewReader("the block\nA 1 B 2\n>LOCALE broken\n"))

	var mbe *MalformedBlockError
	require.ErrorAs(t, err, &mbe)
	assert.Equal(t, 3, mbe.Line)
}

func TestColinearScanIdempotent(t *testing.T) {
	first, err := ParseColinearScan(strings.NewReader(colinearSample))
	require.NoError(t, err)
	second, err := ParseColinearScan(strings.NewReader(colinearSample))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestColinearScannerTransitions(t *testing.T) {
	sc := &colinearScanner{}
	assert.Equal(t, colinearSeeking, sc.state)

	steps := []struct {
		line  string
		state colinearState
		rows  int
	}{
		{"ignored while seeking", colinearSeeking, 0},
		{"MAXIMUM GAP 5", colinearSeeking, 0},
		{"the 1th path", colinearCollecting, 0},
		{"MAXIMUM GAP 5", colinearCollecting, 0},
		{"g1 1 g2 2", colinearCollecting, 1},
		{">LOCALE p:m", colinearSeeking, 0},
	}
	for _, st := range steps {
		require.NoError(t, sc.feed(st.line))
		assert.Equal(t, st.state, sc.state, st.line)
		assert.Len(t, sc.rows, st.rows, st.line)
	}
	assert.Len(t, sc.finish(), 1)
	assert.Equal(t, "COLLECTING", colinearCollecting.String())
}

func TestReadColinearScanGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blocks.txt.gz")
	fh, err := os.Create(path)
	require.NoError(t, err)
	gw := gzip.NewWriter(fh)
	_, err = gw.Write([]byte(colinearSample))
	require.NoError(t, err)
	require.NoError(t, gw.Close())
	require.NoError(t, fh.Close())

	blocks, err := ReadColinearScan(path)
	require.NoError(t, err)
	assert.Len(t, blocks, 2)
}
