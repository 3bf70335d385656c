package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/mukundajmera/AwaazTwin/internal/domain/testrun"
)

// TestRunner is satisfied by *testrun.Runner.
type TestRunner interface {
	Suites() []testrun.Suite
	Run(ctx context.Context, suiteID string) (*testrun.Run, error)
}

type TestsHandler struct {
	runner TestRunner
}

func NewTestsHandler(runner TestRunner) *TestsHandler {
	return &TestsHandler{runner: runner}
}

type runTestsRequest struct {
	SuiteID string `json:"suiteId"`
}

// Suites handles GET /api/tests/suites.
func (h *TestsHandler) Suites(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"suites": h.runner.Suites()})
}

// Run handles POST /api/tests/run. The call blocks until the suite finishes.
func (h *TestsHandler) Run(w http.ResponseWriter, r *http.Request) {
	var req runTestsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	run, err := h.runner.Run(r.Context(), req.SuiteID)
	switch {
	case errors.Is(err, testrun.ErrSuiteNotFound):
		writeErrorWith(w, http.StatusNotFound, err.Error(), "suiteId", req.SuiteID)
	case errors.Is(err, testrun.ErrSuiteUnavailable):
		writeErrorWith(w, http.StatusConflict, err.Error(), "suiteId", req.SuiteID)
	case err != nil:
		writeError(w, http.StatusInternalServerError, "test run failed")
	default:
		writeJSON(w, http.StatusOK, run)
	}
}
