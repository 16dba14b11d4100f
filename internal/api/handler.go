// Package api exposes the cleaned table to the charting frontend: the
// distinct neighbourhood values for the dropdown widget and the six
// aggregate views for the charts.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/KaramelBytes/noshowboard/internal/dataset"
	"github.com/KaramelBytes/noshowboard/internal/pipeline"
	"github.com/KaramelBytes/noshowboard/internal/query"
	"github.com/KaramelBytes/noshowboard/internal/report"
)

// Age slider bounds on the frontend.
const (
	defaultAgeMin = 0
	defaultAgeMax = 100
)

// Handler serves the cleaned table. The table is built before the server
// starts and never mutated, so handlers read it without locking.
type Handler struct {
	Table    *dataset.Table
	Stats    pipeline.Stats
	Overview report.Overview
}

func NewHandler(t *dataset.Table, stats pipeline.Stats) *Handler {
	return &Handler{
		Table:    t,
		Stats:    stats,
		Overview: report.Build(t),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.HealthCheck)
	r.Get("/api/status", h.GetStatus)
	r.Get("/api/neighbourhoods", h.GetNeighbourhoods)
	r.Get("/api/aggregates", h.GetAggregates)
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("OK"))
}

// GetStatus reports the snapshot identity, the pipeline stats and the
// dataset overview.
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"snapshot_id": h.Table.SnapshotID,
		"source":      h.Table.SourcePath,
		"loaded_at":   h.Table.LoadedAt.UTC().Format(time.RFC3339),
		"stats":       h.Stats,
		"overview":    h.Overview,
	})
}

// GetNeighbourhoods returns the sorted distinct neighbourhood values that
// populate the dropdown widget.
func (h *Handler) GetNeighbourhoods(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"neighbourhoods": h.Table.Neighbourhoods()})
}

// GetAggregates computes the six chart aggregates for the requested
// filters. An unknown neighbourhood is not an error: the subset is empty
// and every count is zero.
func (h *Handler) GetAggregates(w http.ResponseWriter, r *http.Request) {
	f := query.Filters{Neighbourhood: r.URL.Query().Get("neighbourhood")}
	var err error
	if f.AgeMin, err = ageParam(r, "age_min", defaultAgeMin); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if f.AgeMax, err = ageParam(r, "age_max", defaultAgeMax); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if f.AgeMin > f.AgeMax {
		http.Error(w, "age_min must not exceed age_max", http.StatusBadRequest)
		return
	}
	writeJSON(w, query.Run(h.Table, f))
}

func ageParam(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, &paramError{name: name, value: v}
	}
	return n, nil
}

type paramError struct {
	name  string
	value string
}

func (e *paramError) Error() string {
	return "invalid " + e.name + ": " + e.value
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
