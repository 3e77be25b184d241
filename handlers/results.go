// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"time"

	"github.com/votaciones-pe/sufragio/cliparse"
	"github.com/votaciones-pe/sufragio/ledger"
	"github.com/votaciones-pe/sufragio/middleware"
	"github.com/votaciones-pe/sufragio/models"
	"github.com/votaciones-pe/sufragio/padron"
	"github.com/votaciones-pe/sufragio/results"
)

type ResultsHandler struct {
	votes    *ledger.Store
	registry *padron.Registry
	cfg      cliparse.Config
}

func NewResultsHandler(votes *ledger.Store, registry *padron.Registry, cfg cliparse.Config) *ResultsHandler {
	return &ResultsHandler{votes: votes, registry: registry, cfg: cfg}
}

// aggregate recomputes over a fresh combined snapshot; results are
// derived on every query, never cached here.
func (h *ResultsHandler) aggregate() models.AggregatedResults {
	return results.Aggregate(h.votes.Combined(), h.registry.PartyNames(), h.registry.Regions())
}

// GetResults handles GET /admin/results
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, h.aggregate())
}

// GetCategoryResults handles GET /admin/results/{category}
// Returns the ranking table plus the sentinel-free top-ten for charts.
func (h *ResultsHandler) GetCategoryResults(w http.ResponseWriter, r *http.Request) {
	category := r.PathValue("category")
	if !models.IsValidCategory(category) {
		middleware.ErrorResponse(w, http.StatusNotFound, "unknown category: "+category)
		return
	}

	agg := h.aggregate()
	middleware.JSONResponse(w, http.StatusOK, struct {
		Table models.CategoryTable `json:"table"`
		Top   []models.PartyCount  `json:"top"`
	}{
		Table: results.Table(agg, category),
		Top:   results.TopParties(agg, category, results.TopN),
	})
}

// GetMetrics handles GET /admin/metrics
func (h *ResultsHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	metrics := results.Metrics(h.votes.Combined(), h.cfg.ExpectedVotes, time.Now())
	middleware.JSONResponse(w, http.StatusOK, metrics)
}
