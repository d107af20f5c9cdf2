package handler

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/yumyai/ggsynteny/logger"
	"github.com/yumyai/ggsynteny/pkg/handler/request"
	"github.com/yumyai/ggsynteny/pkg/model"
	"github.com/yumyai/ggsynteny/pkg/table"
	"go.uber.org/zap"
)

type LocationPayload struct {
	RunID     string                `json:"run_id,omitempty"`
	Position  string                `json:"position,omitempty"`
	Step      float64               `json:"step,omitempty"`
	Locations model.GeneLocationMap `json:"locations"`
	Frame     *model.Frame          `json:"frame,omitempty"`
}

// dataPath keeps client supplied names inside the data directory.
func (dbctx *DBContext) dataPath(name string) string {
	return filepath.Join(dbctx.Config.DataDir, filepath.Clean("/"+name))
}

func tableStatus(err error) int {
	var mte *table.MalformedTableError
	switch {
	case errors.As(err, &mte):
		return http.StatusBadRequest
	case errors.Is(err, fs.ErrNotExist):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Project genes of an annotation table onto the linear axis of a length table
func (dbctx *DBContext) GeneLocationHandler(w http.ResponseWriter, r *http.Request) {

	query := r.URL.Query()

	req := request.LocationRequest{
		GFF:      query.Get("gff"),
		Lens:     query.Get("lens"),
		Step:     dbctx.Config.Step,
		Position: request.NewPositionField(query.Get("position"), dbctx.Config.Position),
	}

	if req.GFF == "" || req.Lens == "" {
		writeError(w, http.StatusBadRequest, errors.New("gff and lens are required"))
		return
	}

	if raw := query.Get("step"); raw != "" {
		step, err := strconv.ParseFloat(raw, 64)
		if err != nil || step < 0 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid step value %q", raw))
			return
		}
		req.Step = step
	}

	lens, err := table.LoadLens(dbctx.dataPath(req.Lens), req.Position)
	if err != nil {
		writeError(w, tableStatus(err), err)
		return
	}

	genes, err := table.LoadGFF(dbctx.dataPath(req.GFF))
	if err != nil {
		writeError(w, tableStatus(err), err)
		return
	}

	if req.Step == 0 {
		req.Step = model.Step(lens)
	}

	locations := model.GeneLocation(genes, lens, req.Step, req.Position)
	frame := model.AxisFrame(lens, req.Step)

	runID, err := dbctx.Store.SaveGeneLocations(r.Context(), req.GFF+"|"+req.Lens, locations)
	if err != nil {
		logger.Error("Saving gene locations failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	logger.Debug("Genes projected",
		zap.String("run_id", runID), zap.Int("genes", len(genes)), zap.Int("located", len(locations)))

	writePayload(w, LocationPayload{
		RunID:     runID,
		Position:  req.Position.String(),
		Step:      req.Step,
		Locations: locations,
		Frame:     &frame,
	})
}

func (dbctx *DBContext) GetRunLocationsHandler(w http.ResponseWriter, r *http.Request) {

	runID := r.PathValue("run_id")

	locations, err := dbctx.Store.GetGeneLocations(r.Context(), runID)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	writePayload(w, LocationPayload{RunID: runID, Locations: locations})
}
