// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/votaciones-pe/sufragio/models"
	"github.com/votaciones-pe/sufragio/results"
	"github.com/votaciones-pe/sufragio/testutil"
)

func setupPipeline(t *testing.T) *Pipeline {
	t.Helper()

	store, bus, conn := testutil.SetupStore(t)
	p, err := New(conn, store, bus, 0, 0)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return p
}

func TestUploadRejectsEmptyBatch(t *testing.T) {
	p := setupPipeline(t)

	_, err := p.Upload("empty.json", 0, nil)
	if !errors.Is(err, ErrEmptyUpload) {
		t.Fatalf("Expected ErrEmptyUpload, got %v", err)
	}
}

func TestUploadRejectsWholeBatchOnBadRow(t *testing.T) {
	p := setupPipeline(t)

	rows := []models.RawUploadRow{
		testutil.UploadRow("12345678", "presidential", "FREPAP"),
		{DNI: "87654321", Categoria: "alcaldía", Partido: "APRA", Region: "Lima"}, // unknown category
	}

	_, err := p.Upload("mixed.json", 0, rows)
	if !errors.Is(err, ErrInvalidRow) {
		t.Fatalf("Expected ErrInvalidRow, got %v", err)
	}
	if got := len(p.List()); got != 0 {
		t.Errorf("Expected empty queue after rejected upload, got %d", got)
	}

	// Missing fields reject the same way
	for _, bad := range []models.RawUploadRow{
		{Categoria: "presidential", Partido: "FREPAP", Region: "Lima"},
		{DNI: "12345678", Categoria: "presidential", Region: "Lima"},
		{DNI: "12345678", Categoria: "presidential", Partido: "FREPAP"},
	} {
		if _, err := p.Upload("bad.json", 0, []models.RawUploadRow{bad}); !errors.Is(err, ErrInvalidRow) {
			t.Errorf("Expected ErrInvalidRow for %+v, got %v", bad, err)
		}
	}
}

func TestUploadNormalizesRows(t *testing.T) {
	p := setupPipeline(t)

	rows := []models.RawUploadRow{
		{DNI: " 12345678 ", Categoria: "Presidencial", Partido: "frepap", Region: " Lima "},
		{DNI: "87654321", Categoria: "congreso", Partido: "apra", Region: "Arequipa", Mesa: 123, Candidato: "Ana Díaz"},
		{DNI: "11112222", Categoria: "parlamento", Partido: "APRA", Region: "Cuzco"},
	}

	ds, err := p.Upload("legacy.json", 512, rows)
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	if ds.Status != models.DatasetPending {
		t.Errorf("Expected pending status, got %s", ds.Status)
	}
	if ds.RecordCount != 3 || ds.SizeBytes != 512 {
		t.Errorf("Expected 3 records / 512 bytes, got %d / %d", ds.RecordCount, ds.SizeBytes)
	}

	first := ds.RawRows[0]
	if first.VoterID != "12345678" {
		t.Errorf("Expected trimmed voter id, got %q", first.VoterID)
	}
	if first.Category != models.CategoryPresidential {
		t.Errorf("Expected legacy alias mapped to presidential, got %s", first.Category)
	}
	if first.Party != "FREPAP" {
		t.Errorf("Expected upper-cased party, got %q", first.Party)
	}
	if first.Region != "Lima" {
		t.Errorf("Expected trimmed region, got %q", first.Region)
	}
	if first.Table != defaultTable {
		t.Errorf("Expected default table %d, got %d", defaultTable, first.Table)
	}
	if first.Candidate != "N/A" {
		t.Errorf("Expected N/A candidate for presidential, got %q", first.Candidate)
	}

	second := ds.RawRows[1]
	if second.Category != models.CategoryLegislativeLower || second.Table != 123 || second.Candidate != "Ana Díaz" {
		t.Errorf("Unexpected second row: %+v", second)
	}

	third := ds.RawRows[2]
	if third.Candidate != "Lista APRA" {
		t.Errorf("Expected Lista APRA candidate default, got %q", third.Candidate)
	}
}

func TestVerifyPartitionsIssues(t *testing.T) {
	p := setupPipeline(t)

	rows := []models.RawUploadRow{
		testutil.UploadRow("12345678", "presidential", "FREPAP"), // clean
		testutil.UploadRow("123", "presidential", "APRA"),        // short id: error
		testutil.UploadRow("87654321", "presidential", "blanco"), // abstention: warning
	}

	ds, err := p.Upload("issues.json", 0, rows)
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	verified, err := p.Verify(context.Background(), ds.ID)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	if verified.Status != models.DatasetError {
		t.Errorf("Expected error status with a bad voter id, got %s", verified.Status)
	}
	if len(verified.Issues) != 2 {
		t.Fatalf("Expected 2 issues, got %d", len(verified.Issues))
	}

	var sawError, sawWarning bool
	for _, issue := range verified.Issues {
		switch issue.Severity {
		case models.SeverityError:
			sawError = true
			if issue.Kind != models.IssueInvalidVoterID {
				t.Errorf("Expected InvalidVoterId kind, got %s", issue.Kind)
			}
		case models.SeverityWarning:
			sawWarning = true
			if issue.Kind != models.IssueNonSubstantiveVote {
				t.Errorf("Expected NonSubstantiveVote kind, got %s", issue.Kind)
			}
		}
	}
	if !sawError || !sawWarning {
		t.Errorf("Expected one error and one warning, got %+v", verified.Issues)
	}
}

func TestVerifyWarningsStillVerify(t *testing.T) {
	p := setupPipeline(t)

	ds, err := p.Upload("warnings.json", 0, []models.RawUploadRow{
		testutil.UploadRow("12345678", "presidential", "FREPAP"),
		testutil.UploadRow("87654321", "presidential", "nulo"),
	})
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	verified, err := p.Verify(context.Background(), ds.ID)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if verified.Status != models.DatasetVerified {
		t.Errorf("Expected verified status with warnings only, got %s", verified.Status)
	}
}

func TestApplyRequiresVerifiedStatus(t *testing.T) {
	p := setupPipeline(t)

	ds, err := p.Upload("pending.json", 0, []models.RawUploadRow{
		testutil.UploadRow("12345678", "presidential", "FREPAP"),
	})
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	_, err = p.Apply(context.Background(), ds.ID)
	if !errors.Is(err, ErrNotVerified) {
		t.Fatalf("Expected ErrNotVerified for a pending dataset, got %v", err)
	}
}

func TestApplyPromotesAndReports(t *testing.T) {
	store, bus, conn := testutil.SetupStore(t)
	p, err := New(conn, store, bus, 0, 0)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	// A live vote that one uploaded row will collide with
	if err := store.Append(testutil.Vote("12345678", models.CategoryPresidential, "FREPAP")); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	ds, err := p.Upload("apply.json", 0, []models.RawUploadRow{
		testutil.UploadRow("12345678", "presidential", "APRA"),  // duplicate pair
		testutil.UploadRow("87654321", "presidential", "APRA"),  // promotes
		testutil.UploadRow("11112222", "congreso", "FREPAP"),    // promotes
		testutil.UploadRow("87654321", "presidential", "nulo"),  // duplicate within batch
	})
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	if _, err := p.Verify(context.Background(), ds.ID); err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	report, err := p.Apply(context.Background(), ds.ID)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	if report.Promoted != 2 {
		t.Errorf("Expected 2 promoted, got %d", report.Promoted)
	}
	if report.SkippedDuplicate != 2 {
		t.Errorf("Expected 2 duplicates skipped, got %d", report.SkippedDuplicate)
	}
	if report.SkippedInvalidID != 0 {
		t.Errorf("Expected 0 invalid ids, got %d", report.SkippedInvalidID)
	}

	if got := len(store.ListCleaned()); got != 2 {
		t.Errorf("Expected 2 cleaned votes, got %d", got)
	}
	if _, err := p.Get(ds.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected dataset removed after apply, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	p := setupPipeline(t)

	ds, err := p.Upload("doomed.json", 0, []models.RawUploadRow{
		testutil.UploadRow("12345678", "presidential", "FREPAP"),
	})
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	if err := p.Delete(ds.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if got := len(p.List()); got != 0 {
		t.Errorf("Expected empty queue after delete, got %d", got)
	}
	if err := p.Delete(ds.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound on second delete, got %v", err)
	}
}

func TestBusyFlagRejectsConcurrentOperations(t *testing.T) {
	p := setupPipeline(t)

	p.busy.Store(true)
	defer p.busy.Store(false)

	if _, err := p.Verify(context.Background(), "any"); !errors.Is(err, ErrBusy) {
		t.Errorf("Expected ErrBusy from Verify, got %v", err)
	}
	if _, err := p.Apply(context.Background(), "any"); !errors.Is(err, ErrBusy) {
		t.Errorf("Expected ErrBusy from Apply, got %v", err)
	}
}

func TestVerifyHonorsCancellation(t *testing.T) {
	store, bus, conn := testutil.SetupStore(t)
	p, err := New(conn, store, bus, time.Minute, 0)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ds, err := p.Upload("slow.json", 0, []models.RawUploadRow{
		testutil.UploadRow("12345678", "presidential", "FREPAP"),
	})
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := p.Verify(ctx, ds.ID); !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}

	// The flag is released; the queue is untouched
	got, err := p.Get(ds.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Status != models.DatasetPending {
		t.Errorf("Expected dataset still pending after cancelled verify, got %s", got.Status)
	}
	if _, err := p.Verify(context.Background(), "missing"); errors.Is(err, ErrBusy) {
		t.Error("Expected busy flag released after cancellation")
	}
}

// End to end: a batch with a bad voter id fails verification and can
// only be deleted; without the bad row it verifies, applies, and the
// cleaned corpus aggregates with the sentinel excluded from rankings.
func TestBatchLifecycle(t *testing.T) {
	store, bus, conn := testutil.SetupStore(t)
	p, err := New(conn, store, bus, 0, 0)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	rowValid := testutil.UploadRow("12345678", "presidential", "PARTIDO A")
	rowShortID := testutil.UploadRow("12345", "presidential", "PARTIDO B")
	rowSentinel := testutil.UploadRow("87654321", "congreso", "NULL_VOTE")

	ds, err := p.Upload("mesa-1.json", 0, []models.RawUploadRow{rowValid, rowShortID, rowSentinel})
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	verified, err := p.Verify(context.Background(), ds.ID)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if verified.Status != models.DatasetError {
		t.Fatalf("Expected error status, got %s", verified.Status)
	}
	if _, err := p.Apply(context.Background(), ds.ID); !errors.Is(err, ErrNotVerified) {
		t.Fatalf("Expected ErrNotVerified for an error dataset, got %v", err)
	}
	if err := p.Delete(ds.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if got := len(store.ListCleaned()); got != 0 {
		t.Fatalf("Expected cleaned store untouched, got %d", got)
	}

	// Same batch without the bad row
	ds, err = p.Upload("mesa-1-fixed.json", 0, []models.RawUploadRow{rowValid, rowSentinel})
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	verified, err = p.Verify(context.Background(), ds.ID)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if verified.Status != models.DatasetVerified {
		t.Fatalf("Expected verified status, got %s", verified.Status)
	}
	report, err := p.Apply(context.Background(), ds.ID)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if report.Promoted != 2 {
		t.Fatalf("Expected 2 promoted, got %d", report.Promoted)
	}

	cleaned := store.ListCleaned()
	agg := results.Aggregate(cleaned, nil, nil)
	if agg.TotalVotes != 2 {
		t.Errorf("Expected total 2 over cleaned alone, got %d", agg.TotalVotes)
	}
	if got := agg.ByParty[models.CategoryPresidential]["PARTIDO A"]; got != 1 {
		t.Errorf("Expected PARTIDO A=1, got %d", got)
	}
	if got := agg.ByParty[models.CategoryLegislativeLower][models.PartyNullVote]; got != 1 {
		t.Errorf("Expected NULL_VOTE=1 in the legislative table, got %d", got)
	}

	top := results.TopParties(agg, models.CategoryPresidential, results.TopN)
	if len(top) != 1 || top[0].Party != "PARTIDO A" || top[0].Votes != 1 {
		t.Errorf("Unexpected presidential ranking: %+v", top)
	}
	for _, row := range results.TopParties(agg, models.CategoryLegislativeLower, results.TopN) {
		if models.IsSentinelParty(row.Party) {
			t.Errorf("Sentinel %s leaked into the legislative ranking", row.Party)
		}
	}
}

func TestQueueSurvivesReload(t *testing.T) {
	store, bus, conn := testutil.SetupStore(t)
	p, err := New(conn, store, bus, 0, 0)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ds, err := p.Upload("persist.json", 0, []models.RawUploadRow{
		testutil.UploadRow("12345678", "presidential", "FREPAP"),
	})
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	reloaded, err := New(conn, store, bus, 0, 0)
	if err != nil {
		t.Fatalf("New (reload) failed: %v", err)
	}
	got, err := reloaded.Get(ds.ID)
	if err != nil {
		t.Fatalf("Expected dataset after reload, got %v", err)
	}
	if got.Name != "persist.json" || got.RecordCount != 1 {
		t.Errorf("Unexpected reloaded dataset: %+v", got)
	}
}
