package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/yumyai/ggsynteny/logger"
	"github.com/yumyai/ggsynteny/pkg/block"
	ggdb "github.com/yumyai/ggsynteny/pkg/db"
	"github.com/yumyai/ggsynteny/pkg/handler/request"
	"go.uber.org/zap"
)

// Uploaded block reports are read fully into memory before parsing.
const maxBlockUpload = 256 << 20

type BlockImportPayload struct {
	RunID   string        `json:"run_id"`
	Dialect block.Dialect `json:"dialect"`
	Blocks  int           `json:"blocks"`
}

type RunBlocksPayload struct {
	Run    *ggdb.Run   `json:"run"`
	Blocks interface{} `json:"blocks"`
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	var mbe *block.MalformedBlockError
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &mbe):
		return http.StatusBadRequest
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ggdb.ErrRunNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Parse an uploaded block report and store it as a new run
func (dbctx *DBContext) ImportBlocksHandler(w http.ResponseWriter, r *http.Request) {

	dialect, err := block.ParseDialect(r.PathValue("dialect"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	req := request.BlockImportRequest{
		Dialect: dialect,
		Source:  r.URL.Query().Get("source"),
	}
	if req.Source == "" {
		req.Source = "upload"
	}

	body := http.MaxBytesReader(w, r.Body, maxBlockUpload)
	defer body.Close()

	var runID string
	var count int

	switch req.Dialect {
	case block.DialectColinearScan:
		blocks, parseErr := block.ParseColinearScan(body)
		if parseErr != nil {
			err = parseErr
			break
		}
		count = len(blocks)
		runID, err = dbctx.Store.SaveColinearScan(r.Context(), req.Source, blocks)

	case block.DialectMCScanX:
		blocks, parseErr := block.ParseMCScanX(body)
		if parseErr != nil {
			err = parseErr
			break
		}
		count = len(blocks)
		runID, err = dbctx.Store.SaveMCScanX(r.Context(), req.Source, blocks)
	}

	if err != nil {
		logger.Error("Block import failed", zap.String("dialect", string(req.Dialect)), zap.Error(err))
		writeError(w, statusFor(err), err)
		return
	}

	logger.Info("Blocks imported",
		zap.String("run_id", runID), zap.String("dialect", string(req.Dialect)), zap.Int("blocks", count))

	writePayload(w, BlockImportPayload{RunID: runID, Dialect: req.Dialect, Blocks: count})
}

func (dbctx *DBContext) ListRunsHandler(w http.ResponseWriter, r *http.Request) {

	runs, err := dbctx.Store.ListRuns(r.Context())
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	writePayload(w, runs)
}

func (dbctx *DBContext) GetRunHandler(w http.ResponseWriter, r *http.Request) {

	run, err := dbctx.Store.GetRun(r.Context(), r.PathValue("run_id"))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	writePayload(w, run)
}

// Stored blocks of a run, in file order
func (dbctx *DBContext) GetRunBlocksHandler(w http.ResponseWriter, r *http.Request) {

	runID := r.PathValue("run_id")

	run, err := dbctx.Store.GetRun(r.Context(), runID)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	var blocks interface{}
	switch block.Dialect(run.Kind) {
	case block.DialectColinearScan:
		blocks, err = dbctx.Store.GetColinearScan(r.Context(), runID)
	case block.DialectMCScanX:
		blocks, err = dbctx.Store.GetMCScanX(r.Context(), runID)
	default:
		err = fmt.Errorf("%w: %s holds %s, not blocks", ggdb.ErrRunNotFound, runID, run.Kind)
	}

	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	writePayload(w, RunBlocksPayload{Run: run, Blocks: blocks})
}
