package table

import (
	"io"

	"github.com/yumyai/ggsynteny/internal/util"
)

// BLAST tabular (-outfmt 6) columns used for filtering.
const (
	blastColQuery    = 0
	blastColSubject  = 1
	blastColIdentity = 2
	blastColEValue   = 10
	blastColScore    = 11
)

// GeneLookup answers whether a gene id belongs to a genome of interest.
type GeneLookup interface {
	Contains(id string) bool
}

// BlastFilter holds the companion thresholds applied while loading hits.
// A nil lookup accepts every gene.
type BlastFilter struct {
	MinScore  float64
	MaxEValue float64
	Query     GeneLookup
	Subject   GeneLookup
}

type BlastHit struct {
	Query    string   `json:"query"`
	Subject  string   `json:"subject"`
	Identity float64  `json:"identity"`
	EValue   float64  `json:"evalue"`
	Score    float64  `json:"score"`
	Fields   []string `json:"fields"`
}

// LoadBlast reads a BLAST table and keeps hits with score >= MinScore,
// e-value < MaxEValue, distinct query and subject, and both ids accepted by
// the lookups. Only the first hit of each (query, subject) pair is kept.
func LoadBlast(path string, filter BlastFilter) ([]*BlastHit, error) {
	records, err := readRecords(path)
	if err != nil {
		return nil, err
	}
	return blastFromRecords(path, records, filter)
}

func ReadBlast(r io.Reader, filter BlastFilter) ([]*BlastHit, error) {
	lines, err := util.ReadLines(r)
	if err != nil {
		return nil, err
	}
	return blastFromRecords("", splitRecords(lines), filter)
}

func blastFromRecords(path string, records []record, filter BlastFilter) ([]*BlastHit, error) {
	type pairKey struct{ q, s string }
	seen := make(map[pairKey]struct{})

	var hits []*BlastHit
	for _, rec := range records {
		score, err := rec.float(path, blastColScore)
		if err != nil {
			return nil, err
		}
		evalue, err := rec.float(path, blastColEValue)
		if err != nil {
			return nil, err
		}
		identity, err := rec.float(path, blastColIdentity)
		if err != nil {
			return nil, err
		}

		q, s := rec.fields[blastColQuery], rec.fields[blastColSubject]
		// NaN fails both comparisons and drops the row.
		if !(score >= filter.MinScore && evalue < filter.MaxEValue) || q == s {
			continue
		}
		if filter.Query != nil && !filter.Query.Contains(q) {
			continue
		}
		if filter.Subject != nil && !filter.Subject.Contains(s) {
			continue
		}

		key := pairKey{q, s}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		hits = append(hits, &BlastHit{
			Query:    q,
			Subject:  s,
			Identity: identity,
			EValue:   evalue,
			Score:    score,
			Fields:   rec.fields,
		})
	}
	return hits, nil
}
