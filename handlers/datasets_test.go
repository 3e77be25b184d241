// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/votaciones-pe/sufragio/ledger"
	"github.com/votaciones-pe/sufragio/models"
	"github.com/votaciones-pe/sufragio/pipeline"
	"github.com/votaciones-pe/sufragio/testutil"
)

func setupDatasetsHandler(t *testing.T) (*DatasetsHandler, *pipeline.Pipeline, *ledger.Store) {
	t.Helper()

	store, bus, conn := testutil.SetupStore(t)
	pipe, err := pipeline.New(conn, store, bus, 0, 0)
	if err != nil {
		t.Fatalf("pipeline.New failed: %v", err)
	}
	return NewDatasetsHandler(pipe), pipe, store
}

func uploadBody(name string, rows ...models.RawUploadRow) models.UploadDatasetRequest {
	return models.UploadDatasetRequest{Name: name, Rows: rows}
}

func TestUploadDataset(t *testing.T) {
	h, pipe, _ := setupDatasetsHandler(t)

	req := testutil.MakeRequest("POST", "/admin/datasets", uploadBody("batch.json",
		testutil.UploadRow("12345678", "presidential", "FREPAP"),
		testutil.UploadRow("87654321", "congreso", "APRA"),
	), nil)
	w := httptest.NewRecorder()
	h.Upload(w, req)

	testutil.AssertStatus(t, w, 201)

	var resp models.UploadDatasetResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.DatasetID == "" || resp.RecordCount != 2 {
		t.Errorf("Unexpected response: %+v", resp)
	}

	ds, err := pipe.Get(resp.DatasetID)
	if err != nil {
		t.Fatalf("Expected dataset enqueued, got %v", err)
	}
	if ds.Status != models.DatasetPending {
		t.Errorf("Expected pending status, got %s", ds.Status)
	}
}

func TestUploadDatasetRejections(t *testing.T) {
	h, pipe, _ := setupDatasetsHandler(t)

	tests := []struct {
		name string
		body models.UploadDatasetRequest
	}{
		{"no name", uploadBody("", testutil.UploadRow("12345678", "presidential", "FREPAP"))},
		{"no rows", uploadBody("empty.json")},
		{"bad category", uploadBody("bad.json", testutil.UploadRow("12345678", "alcaldía", "FREPAP"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.Upload(w, testutil.MakeRequest("POST", "/admin/datasets", tt.body, nil))
			testutil.AssertStatus(t, w, 400)
		})
	}

	if got := len(pipe.List()); got != 0 {
		t.Errorf("Expected nothing enqueued, got %d", got)
	}
}

func TestListDatasets(t *testing.T) {
	h, pipe, _ := setupDatasetsHandler(t)

	if _, err := pipe.Upload("first.json", 128, []models.RawUploadRow{
		testutil.UploadRow("12345678", "presidential", "FREPAP"),
	}); err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	w := httptest.NewRecorder()
	h.List(w, testutil.MakeRequest("GET", "/admin/datasets", nil, nil))

	testutil.AssertStatus(t, w, 200)

	var resp models.ListDatasetsResponse
	testutil.AssertJSON(t, w, &resp)
	if len(resp.Datasets) != 1 {
		t.Fatalf("Expected 1 dataset, got %d", len(resp.Datasets))
	}
	ds := resp.Datasets[0]
	if ds.Name != "first.json" || ds.RecordCount != 1 || ds.Status != models.DatasetPending {
		t.Errorf("Unexpected summary: %+v", ds)
	}
	if ds.Size == "" || ds.UploadedAgo == "" {
		t.Errorf("Expected humanized size and age, got %q / %q", ds.Size, ds.UploadedAgo)
	}
}

func TestVerifyAndApplyDataset(t *testing.T) {
	h, pipe, store := setupDatasetsHandler(t)

	ds, err := pipe.Upload("clean.json", 0, []models.RawUploadRow{
		testutil.UploadRow("12345678", "presidential", "FREPAP"),
		testutil.UploadRow("87654321", "presidential", "blanco"),
	})
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	req := testutil.MakeRequest("POST", "/admin/datasets/"+ds.ID+"/verify", nil, nil)
	req.SetPathValue("id", ds.ID)
	w := httptest.NewRecorder()
	h.Verify(w, req)

	testutil.AssertStatus(t, w, 200)

	var verified models.VerifyDatasetResponse
	testutil.AssertJSON(t, w, &verified)
	if verified.Status != models.DatasetVerified {
		t.Errorf("Expected verified, got %s", verified.Status)
	}
	if len(verified.Issues) != 1 || verified.Issues[0].Severity != models.SeverityWarning {
		t.Errorf("Expected one warning, got %+v", verified.Issues)
	}

	req = testutil.MakeRequest("POST", "/admin/datasets/"+ds.ID+"/apply", nil, nil)
	req.SetPathValue("id", ds.ID)
	w = httptest.NewRecorder()
	h.Apply(w, req)

	testutil.AssertStatus(t, w, 200)

	var report models.ApplyReport
	testutil.AssertJSON(t, w, &report)
	if report.Promoted != 2 || report.SkippedDuplicate != 0 || report.SkippedInvalidID != 0 {
		t.Errorf("Unexpected report: %+v", report)
	}
	if got := len(store.ListCleaned()); got != 2 {
		t.Errorf("Expected 2 cleaned votes, got %d", got)
	}
}

func TestApplyUnverifiedDataset(t *testing.T) {
	h, pipe, _ := setupDatasetsHandler(t)

	ds, err := pipe.Upload("pending.json", 0, []models.RawUploadRow{
		testutil.UploadRow("12345678", "presidential", "FREPAP"),
	})
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	req := testutil.MakeRequest("POST", "/admin/datasets/"+ds.ID+"/apply", nil, nil)
	req.SetPathValue("id", ds.ID)
	w := httptest.NewRecorder()
	h.Apply(w, req)

	testutil.AssertStatus(t, w, 409)
}

func TestVerifyMissingDataset(t *testing.T) {
	h, _, _ := setupDatasetsHandler(t)

	req := testutil.MakeRequest("POST", "/admin/datasets/nope/verify", nil, nil)
	req.SetPathValue("id", "nope")
	w := httptest.NewRecorder()
	h.Verify(w, req)

	testutil.AssertStatus(t, w, 404)
}

func TestDeleteDataset(t *testing.T) {
	h, pipe, _ := setupDatasetsHandler(t)

	ds, err := pipe.Upload("doomed.json", 0, []models.RawUploadRow{
		testutil.UploadRow("12345678", "presidential", "FREPAP"),
	})
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	req := testutil.MakeRequest("DELETE", "/admin/datasets/"+ds.ID, nil, nil)
	req.SetPathValue("id", ds.ID)
	w := httptest.NewRecorder()
	h.Delete(w, req)
	testutil.AssertStatus(t, w, 204)

	req = testutil.MakeRequest("DELETE", "/admin/datasets/"+ds.ID, nil, nil)
	req.SetPathValue("id", ds.ID)
	w = httptest.NewRecorder()
	h.Delete(w, req)
	testutil.AssertStatus(t, w, 404)
}
