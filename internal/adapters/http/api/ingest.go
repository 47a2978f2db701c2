package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/jobdeck/jobdeck/internal/domain/model"
)

// IngestDependencies defines the interface for posting ingestion.
type IngestDependencies interface {
	Ingest(ctx context.Context, raw model.RawJob, source string) bool
}

// IngestHandler handles raw posting submissions.
type IngestHandler struct {
	deps IngestDependencies
}

// NewIngestHandler creates a new ingest handler.
func NewIngestHandler(deps IngestDependencies) *IngestHandler {
	return &IngestHandler{deps: deps}
}

// jobRequest mirrors the request schema for POST /api/v1/jobs.
type jobRequest struct {
	Source string         `json:"source"`
	Fields map[string]any `json:"fields"`
}

func (j jobRequest) validate() error {
	switch {
	case strings.TrimSpace(j.Source) == "":
		return errors.New("missing source")
	case len(j.Fields) == 0:
		return errors.New("missing fields")
	}
	return nil
}

// HandlePostJob handles POST /api/v1/jobs requests. The posting is queued
// for asynchronous normalization and persistence; a full queue yields 429.
func (h *IngestHandler) HandlePostJob(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_job"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req jobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	raw := model.RawJob{Provider: req.Source, Fields: req.Fields}
	if ok := h.deps.Ingest(r.Context(), raw, req.Source); !ok {
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted"})
}
