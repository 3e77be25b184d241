// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/votaciones-pe/sufragio/cliparse"
	"github.com/votaciones-pe/sufragio/events"
	"github.com/votaciones-pe/sufragio/handlers"
	"github.com/votaciones-pe/sufragio/ledger"
	"github.com/votaciones-pe/sufragio/middleware"
	"github.com/votaciones-pe/sufragio/padron"
	"github.com/votaciones-pe/sufragio/pipeline"
)

// Deps carries everything the handlers need.
type Deps struct {
	Votes    *ledger.Store
	Pipe     *pipeline.Pipeline
	Registry *padron.Registry
	Bus      *events.Bus
	Cfg      cliparse.Config
}

func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	votesHandler := handlers.NewVotesHandler(d.Votes, d.Registry)
	adminHandler := handlers.NewAdminHandler(d.Cfg)
	datasetsHandler := handlers.NewDatasetsHandler(d.Pipe)
	resultsHandler := handlers.NewResultsHandler(d.Votes, d.Registry, d.Cfg)
	eventsHandler := handlers.NewEventsHandler(d.Bus)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Voting operations (public)
	mux.HandleFunc("POST /votes", middleware.WithLogging(votesHandler.CastVote))
	mux.HandleFunc("GET /votes/{dni}/status", middleware.WithLogging(votesHandler.GetVoteStatus))
	mux.HandleFunc("GET /padron/{dni}", middleware.WithLogging(votesHandler.LookupVoter))
	mux.HandleFunc("GET /parties", middleware.WithLogging(votesHandler.ListParties))

	// Admin console
	mux.HandleFunc("POST /admin/login", middleware.WithLogging(adminHandler.Login))

	gated := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireSession(d.Cfg, h))
	}

	// Dataset pipeline (admin)
	mux.HandleFunc("GET /admin/datasets", gated(datasetsHandler.List))
	mux.HandleFunc("POST /admin/datasets", gated(datasetsHandler.Upload))
	mux.HandleFunc("POST /admin/datasets/{id}/verify", gated(datasetsHandler.Verify))
	mux.HandleFunc("POST /admin/datasets/{id}/apply", gated(datasetsHandler.Apply))
	mux.HandleFunc("DELETE /admin/datasets/{id}", gated(datasetsHandler.Delete))

	// Results and metrics (admin)
	mux.HandleFunc("GET /admin/results", gated(resultsHandler.GetResults))
	mux.HandleFunc("GET /admin/results/{category}", gated(resultsHandler.GetCategoryResults))
	mux.HandleFunc("GET /admin/metrics", gated(resultsHandler.GetMetrics))

	// Change notifications (admin)
	mux.HandleFunc("GET /admin/events", middleware.RequireSession(d.Cfg, eventsHandler.Stream))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("sufragio API v1"))
	})

	return middleware.CORS(mux)
}
