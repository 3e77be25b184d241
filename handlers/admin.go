// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/votaciones-pe/sufragio/auth"
	"github.com/votaciones-pe/sufragio/cliparse"
	"github.com/votaciones-pe/sufragio/middleware"
	"github.com/votaciones-pe/sufragio/models"
)

type AdminHandler struct {
	cfg cliparse.Config
}

func NewAdminHandler(cfg cliparse.Config) *AdminHandler {
	return &AdminHandler{cfg: cfg}
}

// Login handles POST /admin/login
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Email == "" || req.Password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "email and password are required")
		return
	}

	err := auth.CheckCredentials(req.Email, req.Password, h.cfg.AdminEmail, h.cfg.AdminPassword)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		slog.Warn("failed admin login",
			"ip_hash", auth.HashIP(middleware.GetClientIP(r), h.cfg.SessionSalt),
		)
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	slog.Info("admin logged in")

	middleware.JSONResponse(w, http.StatusOK, models.LoginResponse{
		SessionToken: auth.GenerateSessionToken(h.cfg.AdminEmail, h.cfg.SessionSalt),
	})
}
