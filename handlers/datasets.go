// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dustin/go-humanize"

	"github.com/votaciones-pe/sufragio/middleware"
	"github.com/votaciones-pe/sufragio/models"
	"github.com/votaciones-pe/sufragio/pipeline"
)

type DatasetsHandler struct {
	pipe *pipeline.Pipeline
}

func NewDatasetsHandler(pipe *pipeline.Pipeline) *DatasetsHandler {
	return &DatasetsHandler{pipe: pipe}
}

// Upload handles POST /admin/datasets
func (h *DatasetsHandler) Upload(w http.ResponseWriter, r *http.Request) {
	var req models.UploadDatasetRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}

	ds, err := h.pipe.Upload(req.Name, r.ContentLength, req.Rows)
	if errors.Is(err, pipeline.ErrEmptyUpload) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Upload contains no rows")
		return
	}
	if errors.Is(err, pipeline.ErrInvalidRow) {
		// The whole upload is rejected on the first structurally bad
		// row; nothing was enqueued.
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		slog.Error("failed to store upload", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to store upload")
		return
	}

	slog.Info("upload accepted",
		"dataset_id", ds.ID,
		"records", ds.RecordCount,
		"size", humanize.Bytes(uint64(max(ds.SizeBytes, 0))),
	)

	middleware.JSONResponse(w, http.StatusCreated, models.UploadDatasetResponse{
		DatasetID:   ds.ID,
		RecordCount: ds.RecordCount,
	})
}

// List handles GET /admin/datasets
func (h *DatasetsHandler) List(w http.ResponseWriter, r *http.Request) {
	datasets := h.pipe.List()

	summaries := make([]models.DatasetSummary, len(datasets))
	for i, ds := range datasets {
		summaries[i] = models.DatasetSummary{
			ID:          ds.ID,
			Name:        ds.Name,
			RecordCount: ds.RecordCount,
			SizeBytes:   ds.SizeBytes,
			Size:        humanize.Bytes(uint64(max(ds.SizeBytes, 0))),
			UploadedAt:  ds.UploadedAt,
			UploadedAgo: humanize.Time(ds.UploadedAt),
			Status:      ds.Status,
			Issues:      ds.Issues,
		}
	}

	middleware.JSONResponse(w, http.StatusOK, models.ListDatasetsResponse{Datasets: summaries})
}

// Verify handles POST /admin/datasets/{id}/verify
func (h *DatasetsHandler) Verify(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "dataset id is required")
		return
	}

	ds, err := h.pipe.Verify(r.Context(), id)
	if !h.writePipelineError(w, err) {
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.VerifyDatasetResponse{
		DatasetID: ds.ID,
		Status:    ds.Status,
		Issues:    ds.Issues,
	})
}

// Apply handles POST /admin/datasets/{id}/apply
func (h *DatasetsHandler) Apply(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "dataset id is required")
		return
	}

	report, err := h.pipe.Apply(r.Context(), id)
	if !h.writePipelineError(w, err) {
		return
	}

	middleware.JSONResponse(w, http.StatusOK, report)
}

// Delete handles DELETE /admin/datasets/{id}
func (h *DatasetsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "dataset id is required")
		return
	}

	err := h.pipe.Delete(id)
	if errors.Is(err, pipeline.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Dataset not found")
		return
	}
	if err != nil {
		slog.Error("failed to delete dataset", "error", err, "dataset_id", id)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete dataset")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writePipelineError maps pipeline errors to responses, returning
// true when there was no error and the caller should write its own.
func (h *DatasetsHandler) writePipelineError(w http.ResponseWriter, err error) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, pipeline.ErrBusy):
		middleware.ErrorResponse(w, http.StatusConflict, "Another verify or apply is in progress")
	case errors.Is(err, pipeline.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Dataset not found")
	case errors.Is(err, pipeline.ErrNotVerified):
		middleware.ErrorResponse(w, http.StatusConflict, "Dataset must be verified first")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		middleware.ErrorResponse(w, http.StatusRequestTimeout, "Operation canceled")
	default:
		slog.Error("pipeline operation failed", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Pipeline operation failed")
	}
	return false
}
