// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/votaciones-pe/sufragio/ledger"
	"github.com/votaciones-pe/sufragio/middleware"
	"github.com/votaciones-pe/sufragio/models"
	"github.com/votaciones-pe/sufragio/padron"
)

type VotesHandler struct {
	votes    *ledger.Store
	registry *padron.Registry
}

func NewVotesHandler(votes *ledger.Store, registry *padron.Registry) *VotesHandler {
	return &VotesHandler{votes: votes, registry: registry}
}

// CastVote handles POST /votes
func (h *VotesHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	dni := strings.TrimSpace(req.DNI)
	if len(dni) != 8 || strings.Trim(dni, "0123456789") != "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "dni must be exactly 8 digits")
		return
	}
	if !models.IsValidCategory(req.Category) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "unknown category: "+req.Category)
		return
	}
	party := strings.TrimSpace(req.Party)
	if party == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "party is required")
		return
	}

	rec := models.VoteRecord{
		VoterID:   dni,
		Category:  req.Category,
		Party:     party,
		Candidate: strings.TrimSpace(req.Candidate),
		Region:    h.registry.RegionFor(dni),
	}

	err := h.votes.Append(rec)
	if errors.Is(err, ledger.ErrDuplicateVote) {
		// The voter keeps access to the other categories; only this
		// one is refused.
		middleware.ErrorResponse(w, http.StatusConflict, "A vote for this category is already recorded for this DNI")
		return
	}
	if err != nil {
		slog.Error("failed to append vote", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record vote")
		return
	}

	voted := h.votes.VotedCategories(dni)
	middleware.JSONResponse(w, http.StatusCreated, models.CastVoteResponse{
		Message:         "Vote recorded",
		VotedCategories: voted,
		Completed:       len(voted) == len(models.Categories),
	})
}

// GetVoteStatus handles GET /votes/{dni}/status
func (h *VotesHandler) GetVoteStatus(w http.ResponseWriter, r *http.Request) {
	dni := strings.TrimSpace(r.PathValue("dni"))
	if dni == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "dni is required")
		return
	}

	voted := h.votes.VotedCategories(dni)
	middleware.JSONResponse(w, http.StatusOK, models.VoteStatusResponse{
		DNI:             dni,
		VotedCategories: voted,
		Completed:       len(voted) == len(models.Categories),
	})
}

// LookupVoter handles GET /padron/{dni}
func (h *VotesHandler) LookupVoter(w http.ResponseWriter, r *http.Request) {
	dni := strings.TrimSpace(r.PathValue("dni"))
	if dni == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "dni is required")
		return
	}

	voter, err := h.registry.Lookup(dni)
	if errors.Is(err, padron.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "DNI not found in registry")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, voter)
}

// ListParties handles GET /parties
func (h *VotesHandler) ListParties(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, h.registry.Parties())
}
