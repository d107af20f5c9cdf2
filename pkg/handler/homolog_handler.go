package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/yumyai/ggsynteny/pkg/handler/request"
	"github.com/yumyai/ggsynteny/pkg/model"
	"github.com/yumyai/ggsynteny/pkg/table"
)

// HomologPoint places one BLAST hit on the dot plot of two genomes.
type HomologPoint struct {
	Query   string  `json:"query"`
	Subject string  `json:"subject"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Score   float64 `json:"score"`
	EValue  float64 `json:"evalue"`
	Tandem  bool    `json:"tandem"`
}

type HomologPayload struct {
	Position string         `json:"position"`
	Points   []HomologPoint `json:"points"`
	FrameX   model.Frame    `json:"frame_x"`
	FrameY   model.Frame    `json:"frame_y"`
}

type projectedGenome struct {
	genes     map[string]*table.Gene
	locations model.GeneLocationMap
	frame     model.Frame
}

// projectGenome loads one genome and projects it with a step that scales its
// axis to width 1 unless the caller fixed one.
func (dbctx *DBContext) projectGenome(gff, lens string, step float64, pos table.Position) (*projectedGenome, error) {
	lt, err := table.LoadLens(dbctx.dataPath(lens), pos)
	if err != nil {
		return nil, err
	}
	genes, err := table.LoadGFF(dbctx.dataPath(gff))
	if err != nil {
		return nil, err
	}
	if step == 0 {
		step = model.Step(lt)
	}

	byID := make(map[string]*table.Gene, len(genes))
	for _, g := range genes {
		byID[g.ID] = g
	}
	return &projectedGenome{
		genes:     byID,
		locations: model.GeneLocation(genes, lt, step, pos),
		frame:     model.AxisFrame(lt, step),
	}, nil
}

func floatParam(r *http.Request, name string, fallback float64) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q", name, raw)
	}
	return v, nil
}

// Filtered BLAST hits between genome 1 (x axis, query) and genome 2 (y axis, subject)
func (dbctx *DBContext) HomologHandler(w http.ResponseWriter, r *http.Request) {

	query := r.URL.Query()
	blastFile := query.Get("blast")
	genome1 := request.LocationRequest{GFF: query.Get("gff1"), Lens: query.Get("lens1")}
	genome2 := request.LocationRequest{GFF: query.Get("gff2"), Lens: query.Get("lens2")}

	if blastFile == "" || genome1.GFF == "" || genome1.Lens == "" || genome2.GFF == "" || genome2.Lens == "" {
		writeError(w, http.StatusBadRequest, errors.New("blast, gff1, lens1, gff2 and lens2 are required"))
		return
	}

	pos := request.NewPositionField(query.Get("position"), dbctx.Config.Position)

	score, err := floatParam(r, "score", dbctx.Config.Score)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	evalue, err := floatParam(r, "evalue", dbctx.Config.EValue)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	g1, err := dbctx.projectGenome(genome1.GFF, genome1.Lens, dbctx.Config.Step, pos)
	if err != nil {
		writeError(w, tableStatus(err), err)
		return
	}
	g2, err := dbctx.projectGenome(genome2.GFF, genome2.Lens, dbctx.Config.Step, pos)
	if err != nil {
		writeError(w, tableStatus(err), err)
		return
	}

	hits, err := table.LoadBlast(dbctx.dataPath(blastFile), table.BlastFilter{
		MinScore:  score,
		MaxEValue: evalue,
		Query:     g1.locations,
		Subject:   g2.locations,
	})
	if err != nil {
		writeError(w, tableStatus(err), err)
		return
	}

	points := make([]HomologPoint, 0, len(hits))
	for _, h := range hits {
		// Tandem distance is measured in raw gene positions, not axis units.
		q, s := g1.genes[h.Query], g2.genes[h.Subject]
		points = append(points, HomologPoint{
			Query:   h.Query,
			Subject: h.Subject,
			X:       g1.locations[h.Query],
			Y:       g2.locations[h.Subject],
			Score:   h.Score,
			EValue:  h.EValue,
			Tandem:  model.IsTandem(q.Chr, s.Chr, q.Value(pos), s.Value(pos)),
		})
	}

	writePayload(w, HomologPayload{
		Position: pos.String(),
		Points:   points,
		FrameX:   g1.frame,
		FrameY:   g2.frame,
	})
}
