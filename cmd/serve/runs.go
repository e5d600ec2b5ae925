package main

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/striderml/strider/store"
)

// RunsHandler serves the transcripts of completed runs.
type RunsHandler struct {
	runs   *store.RunStore
	logger *slog.Logger
}

// NewRunsHandler creates the handler for GET /api/v1/runs.
func NewRunsHandler(runs *store.RunStore, logger *slog.Logger) *RunsHandler {
	return &RunsHandler{runs: runs, logger: logger}
}

// List responds with all stored run records, newest first.
func (h *RunsHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.runs.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list runs", "error", err)
		http.Error(w, "failed to list runs", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"runs": records})
}

// Get responds with a single run record by ID.
func (h *RunsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	record, ok, err := h.runs.Get(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to load run", "id", id, "error", err)
		http.Error(w, "failed to load run", http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "run not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(record)
}
