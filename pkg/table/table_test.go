package table

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParsePosition(t *testing.T) {
	tests := []struct {
		in      string
		want    Position
		wantErr bool
	}{
		{"order", PositionOrder, false},
		{"END", PositionEnd, false},
		{" end ", PositionEnd, false},
		{"start", PositionOrder, true},
		{"", PositionOrder, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePosition(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, strings.ToLower(strings.TrimSpace(tt.in)), got.String())
		})
	}
}

func TestLoadGFF(t *testing.T) {
	path := writeFile(t, "a.gff",
		"1\tAT1G01010\t3631\t5899\t+\t1\n"+
			"1\tAT1G01020\t5928\t8737\t-\t2\n"+
			"\n"+
			"Pt\tATCG00020\t383\t1444\t-\t1\n")

	genes, err := LoadGFF(path)
	require.NoError(t, err)
	require.Len(t, genes, 3)

	assert.Equal(t, &Gene{Chr: "1", ID: "AT1G01010", Start: 3631, End: 5899, Strand: "+", Order: 1}, genes[0])
	assert.Equal(t, "Pt", genes[2].Chr)
	assert.Equal(t, float64(2), genes[1].Value(PositionOrder))
	assert.Equal(t, float64(8737), genes[1].Value(PositionEnd))
}

func TestLoadGFFMalformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
		column  int
	}{
		{"short row", "1\tg1\t10\t20\t+\n", gffColOrder},
		{"bad start", "1\tg1\tten\t20\t+\t1\n", gffColStart},
		{"bad order", "1\tg1\t10\t20\t+\t1.5\n", gffColOrder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			genes, err := ReadGFF(strings.NewReader(tt.content))
			assert.Nil(t, genes)

			var mte *MalformedTableError
			require.True(t, errors.As(err, &mte), "got %v", err)
			assert.Equal(t, 1, mte.Line)
			assert.Equal(t, tt.column, mte.Column)
		})
	}
}

func TestLoadLens(t *testing.T) {
	content := "2\t30000\t10\n1\t9000\t5\nscaffold_7\t120\t1\n"
	path := writeFile(t, "a.lens", content)

	byOrder, err := LoadLens(path, PositionOrder)
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "1", "scaffold_7"}, byOrder.Chromosomes())
	v, ok := byOrder.Length("1")
	assert.True(t, ok)
	assert.Equal(t, int64(5), v)
	assert.Equal(t, int64(16), byOrder.Total())

	byEnd, err := ReadLens(strings.NewReader(content), PositionEnd)
	require.NoError(t, err)
	v, _ = byEnd.Length("2")
	assert.Equal(t, int64(30000), v)
	assert.Equal(t, PositionEnd, byEnd.Position)
}

func TestLengthTableOffsetsFollowFileOrder(t *testing.T) {
	lt, err := ReadLens(strings.NewReader("10\t0\t4\n2\t0\t6\n1\t0\t3\n"), PositionOrder)
	require.NoError(t, err)

	assert.Equal(t, map[string]int64{"10": 0, "2": 4, "1": 10}, lt.Offsets())
}

func TestLoadLensErrors(t *testing.T) {
	t.Run("missing column", func(t *testing.T) {
		_, err := ReadLens(strings.NewReader("1\t100\n"), PositionOrder)
		var mte *MalformedTableError
		require.ErrorAs(t, err, &mte)
		assert.Equal(t, lensColOrder, mte.Column)
	})

	t.Run("non numeric", func(t *testing.T) {
		_, err := ReadLens(strings.NewReader("1\tabc\t10\n"), PositionEnd)
		var mte *MalformedTableError
		require.ErrorAs(t, err, &mte)
		assert.Contains(t, mte.Error(), `"abc"`)
	})

	t.Run("duplicate chromosome", func(t *testing.T) {
		_, err := ReadLens(strings.NewReader("1\t100\t10\n1\t200\t20\n"), PositionEnd)
		var mte *MalformedTableError
		require.ErrorAs(t, err, &mte)
		assert.Equal(t, 2, mte.Line)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadLens(filepath.Join(t.TempDir(), "none.lens"), PositionEnd)
		assert.Error(t, err)
	})
}

func TestNewLengthTable(t *testing.T) {
	lt, err := NewLengthTable(PositionOrder, []string{"1", "2"}, []int64{10, 5})
	require.NoError(t, err)
	assert.Equal(t, 2, lt.Len())

	_, err = NewLengthTable(PositionOrder, []string{"1"}, []int64{10, 5})
	assert.Error(t, err)

	_, err = NewLengthTable(PositionOrder, []string{"1", "1"}, []int64{10, 5})
	assert.Error(t, err)
}

type geneSet map[string]bool

func (g geneSet) Contains(id string) bool { return g[id] }

func TestLoadBlast(t *testing.T) {
	row := func(q, s, evalue, score string) string {
		return strings.Join([]string{q, s, "90.0", "100", "5", "0", "1", "100", "1", "100", evalue, score}, "\t") + "\n"
	}
	content := row("a1", "b1", "1e-20", "200") +
		row("a1", "b1", "1e-30", "300") + // duplicate pair, dropped
		row("a2", "a2", "1e-20", "200") + // self hit
		row("a3", "b2", "1e-20", "50") + // low score
		row("a4", "b3", "0.5", "200") + // high e-value
		row("a5", "x9", "1e-20", "200") + // subject outside genome 2
		row("a6", "b4", "1e-10", "100")
	path := writeFile(t, "a.blast", content)

	hits, err := LoadBlast(path, BlastFilter{
		MinScore:  100,
		MaxEValue: 1e-5,
		Query:     geneSet{"a1": true, "a2": true, "a3": true, "a4": true, "a5": true, "a6": true},
		Subject:   geneSet{"b1": true, "a2": true, "b2": true, "b3": true, "b4": true},
	})
	require.NoError(t, err)
	require.Len(t, hits, 2)

	assert.Equal(t, "a1", hits[0].Query)
	assert.Equal(t, "b1", hits[0].Subject)
	assert.Equal(t, 200.0, hits[0].Score)
	assert.Equal(t, "a6", hits[1].Query)
	assert.Equal(t, 90.0, hits[1].Identity)
}

func TestLoadBlastNilLookupsAcceptAll(t *testing.T) {
	content := "q\ts\t99\t1\t0\t0\t1\t1\t1\t1\t1e-50\t500\n"
	hits, err := ReadBlast(strings.NewReader(content), BlastFilter{MinScore: 0, MaxEValue: 1})
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestLoadBlastDropsNaNScores(t *testing.T) {
	content := "q1\ts1\t99\t1\t0\t0\t1\t1\t1\t1\tNaN\t500\n" +
		"q2\ts2\t99\t1\t0\t0\t1\t1\t1\t1\t1e-50\tNaN\n" +
		"q3\ts3\t99\t1\t0\t0\t1\t1\t1\t1\t1e-50\t500\n"
	hits, err := ReadBlast(strings.NewReader(content), BlastFilter{MinScore: 100, MaxEValue: 1e-5})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "q3", hits[0].Query)
}

func TestLoadBlastMalformed(t *testing.T) {
	_, err := ReadBlast(strings.NewReader("q\ts\t99\n"), BlastFilter{MaxEValue: 1})
	var mte *MalformedTableError
	require.ErrorAs(t, err, &mte)
	assert.Equal(t, blastColScore, mte.Column)
}

func TestLoadKs(t *testing.T) {
	content := "g1\tg2\t0.1\t0.5\t0.11\t0.52\n" +
		"g1\tg2\t0.1\t0.5\t0.11\t0.52\n" + // exact duplicate
		"g3\tg4\t0.0\t0\t0\t0\n" + // ks not positive
		"g5\tg6\t0.2\tNaN\t0\t0\n" + // ks NaN
		"g7\tg8\t0.3\t1.2\t0.3\t1.1\n"
	path := writeFile(t, "a.ks", content)

	kt, err := LoadKs(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"g1,g2", "g7,g8"}, kt.Keys())
	assert.Equal(t, 2, kt.Len())

	row, ok := kt.Get("g7", "g8")
	require.True(t, ok)
	assert.Equal(t, 1.2, row.Ks())
	assert.Equal(t, []float64{0.3, 1.2, 0.3, 1.1}, row.Values)

	_, ok = kt.Get("g3", "g4")
	assert.False(t, ok)
}

func TestLoadKsMalformed(t *testing.T) {
	_, err := ReadKs(strings.NewReader("g1\tg2\t0.1\n"))
	var mte *MalformedTableError
	require.ErrorAs(t, err, &mte)

	_, err = ReadKs(strings.NewReader("g1\tg2\t0.1\tfast\n"))
	require.ErrorAs(t, err, &mte)
	assert.Equal(t, ksColKs, mte.Column)
}

func TestMalformedTableErrorMessage(t *testing.T) {
	err := &MalformedTableError{Path: "x.lens", Line: 3, Column: 2, Msg: "boom"}
	assert.Equal(t, "malformed table x.lens:3: column 2: boom", err.Error())

	err = &MalformedTableError{Column: -1, Msg: "boom"}
	assert.Equal(t, "malformed table <input>: boom", err.Error())
}
