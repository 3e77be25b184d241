// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pipeline

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/votaciones-pe/sufragio/db"
	"github.com/votaciones-pe/sufragio/events"
	"github.com/votaciones-pe/sufragio/ledger"
	"github.com/votaciones-pe/sufragio/models"
)

var (
	ErrBusy        = errors.New("another verify or apply operation is in flight")
	ErrNotFound    = errors.New("dataset not found")
	ErrNotVerified = errors.New("dataset is not verified")
	ErrEmptyUpload = errors.New("upload contains no rows")
	ErrInvalidRow  = errors.New("invalid upload row")
)

// voterIDLength is what verification and apply require of a voter id.
const voterIDLength = 8

// nonSubstantiveParties are party tokens that mark an abstention or
// spoiled ballot rather than a vote for anyone. Matched
// case-insensitively during verification; such rows warn but still
// promote.
var nonSubstantiveParties = []string{
	strings.ToLower(models.PartyBlankVote),
	strings.ToLower(models.PartyNullVote),
	"blanco",
	"nulo",
	"error",
}

// categoryAliases maps accepted spellings of the categoria field
// (lower-cased) to canonical categories. The legacy export names are
// kept alongside the canonical ones.
var categoryAliases = map[string]string{
	models.CategoryPresidential:      models.CategoryPresidential,
	models.CategoryLegislativeLower:  models.CategoryLegislativeLower,
	models.CategoryLegislativeAndean: models.CategoryLegislativeAndean,
	"presidencial":                   models.CategoryPresidential,
	"congreso":                       models.CategoryLegislativeLower,
	"parlamento":                     models.CategoryLegislativeAndean,
}

// defaultTable is the table id assigned to rows uploaded without one.
const defaultTable = 99999

// Pipeline owns the pending dataset queue and drives uploads through
// validation, verification and promotion into the cleaned vote store.
//
// At most one verify or apply runs at a time system-wide; a second
// caller is rejected with ErrBusy, never queued.
type Pipeline struct {
	db    *sql.DB
	bus   *events.Bus
	votes *ledger.Store

	verifyDelay time.Duration
	applyDelay  time.Duration

	busy atomic.Bool

	mu    sync.Mutex
	queue []models.PendingDataset // write-through cache of the queue document
}

// New loads the pending queue from storage. verifyDelay and applyDelay
// simulate the eventual network-backed checks; they may be zero.
func New(conn *sql.DB, votes *ledger.Store, bus *events.Bus, verifyDelay, applyDelay time.Duration) (*Pipeline, error) {
	p := &Pipeline{
		db:          conn,
		bus:         bus,
		votes:       votes,
		verifyDelay: verifyDelay,
		applyDelay:  applyDelay,
	}

	if err := db.ReadDocument(conn, db.KeyPendingDatasets, &p.queue); err != nil {
		return nil, fmt.Errorf("failed to load pending datasets: %w", err)
	}

	return p, nil
}

// Upload structurally validates a raw batch and enqueues it as a
// pending dataset. Any row missing a voter id, party or region, or
// naming an unknown category, rejects the whole upload; no dataset is
// created. This is stricter than verification on purpose: a
// structurally broken file never enters the queue.
func (p *Pipeline) Upload(name string, sizeBytes int64, rows []models.RawUploadRow) (models.PendingDataset, error) {
	if len(rows) == 0 {
		return models.PendingDataset{}, ErrEmptyUpload
	}

	normalized := make([]models.VoteRecord, 0, len(rows))
	for i, row := range rows {
		rec, err := normalizeRow(row)
		if err != nil {
			return models.PendingDataset{}, fmt.Errorf("row %d: %w", i+1, err)
		}
		normalized = append(normalized, rec)
	}

	ds := models.PendingDataset{
		ID:          uuid.NewString(),
		Name:        name,
		RecordCount: len(normalized),
		SizeBytes:   sizeBytes,
		UploadedAt:  time.Now(),
		Status:      models.DatasetPending,
		RawRows:     normalized,
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	next := append(append([]models.PendingDataset{}, p.queue...), ds)
	if err := db.WriteDocument(p.db, db.KeyPendingDatasets, next); err != nil {
		return models.PendingDataset{}, err
	}
	p.queue = next

	slog.Info("dataset uploaded", "dataset_id", ds.ID, "name", ds.Name, "records", ds.RecordCount)
	p.bus.Publish(events.TopicDatasetUploaded)

	return ds, nil
}

// List returns a copy of the queue in upload order.
func (p *Pipeline) List() []models.PendingDataset {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.PendingDataset{}, p.queue...)
}

// Get returns one dataset by id.
func (p *Pipeline) Get(id string) (models.PendingDataset, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, ds := range p.queue {
		if ds.ID == id {
			return ds, nil
		}
	}
	return models.PendingDataset{}, ErrNotFound
}

// Verify runs the verification pass over a dataset's rows and moves
// it to verified or error. The pass itself is a deterministic pure
// function of the rows; the configured delay stands in for the
// asynchronous check a production pipeline would make.
func (p *Pipeline) Verify(ctx context.Context, id string) (models.PendingDataset, error) {
	if !p.busy.CompareAndSwap(false, true) {
		return models.PendingDataset{}, ErrBusy
	}
	defer p.busy.Store(false)

	ds, err := p.Get(id)
	if err != nil {
		return models.PendingDataset{}, err
	}

	if err := wait(ctx, p.verifyDelay); err != nil {
		return models.PendingDataset{}, err
	}

	issues := VerifyRows(ds.ID, ds.RawRows)

	status := models.DatasetVerified
	for _, issue := range issues {
		if issue.Severity == models.SeverityError {
			status = models.DatasetError
			break
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	next := append([]models.PendingDataset{}, p.queue...)
	updated := models.PendingDataset{}
	for i := range next {
		if next[i].ID == id {
			next[i].Status = status
			next[i].Issues = issues
			updated = next[i]
		}
	}
	if updated.ID == "" {
		return models.PendingDataset{}, ErrNotFound
	}

	if err := db.WriteDocument(p.db, db.KeyPendingDatasets, next); err != nil {
		return models.PendingDataset{}, err
	}
	p.queue = next

	slog.Info("dataset verified", "dataset_id", id, "status", status, "issues", len(issues))

	return updated, nil
}

// Apply promotes a verified dataset into the cleaned vote store and
// removes it from the queue. Every row is accounted for in the
// report: promoted, skipped for a bad voter id, or skipped as a
// duplicate of the combined corpus. Error datasets cannot be applied;
// their only exit is Delete.
func (p *Pipeline) Apply(ctx context.Context, id string) (models.ApplyReport, error) {
	if !p.busy.CompareAndSwap(false, true) {
		return models.ApplyReport{}, ErrBusy
	}
	defer p.busy.Store(false)

	ds, err := p.Get(id)
	if err != nil {
		return models.ApplyReport{}, err
	}
	if ds.Status != models.DatasetVerified {
		return models.ApplyReport{}, ErrNotVerified
	}

	if err := wait(ctx, p.applyDelay); err != nil {
		return models.ApplyReport{}, err
	}

	report := models.ApplyReport{DatasetID: id}

	promotable := make([]models.VoteRecord, 0, len(ds.RawRows))
	for _, rec := range ds.RawRows {
		if len(rec.VoterID) != voterIDLength {
			report.SkippedInvalidID++
			continue
		}
		promotable = append(promotable, rec)
	}

	added, duplicates, err := p.votes.AppendCleaned(promotable)
	if err != nil {
		return models.ApplyReport{}, err
	}
	report.Promoted = added
	report.SkippedDuplicate = duplicates

	if err := p.remove(id); err != nil {
		return models.ApplyReport{}, err
	}

	slog.Info("dataset applied",
		"dataset_id", id,
		"promoted", report.Promoted,
		"skipped_invalid_id", report.SkippedInvalidID,
		"skipped_duplicate", report.SkippedDuplicate,
	)
	p.bus.Publish(events.TopicDatasetApplied)

	return report, nil
}

// Delete removes a dataset from the queue in any status without
// promoting anything.
func (p *Pipeline) Delete(id string) error {
	if err := p.remove(id); err != nil {
		return err
	}
	slog.Info("dataset deleted", "dataset_id", id)
	return nil
}

func (p *Pipeline) remove(id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	next := make([]models.PendingDataset, 0, len(p.queue))
	found := false
	for _, ds := range p.queue {
		if ds.ID == id {
			found = true
			continue
		}
		next = append(next, ds)
	}
	if !found {
		return ErrNotFound
	}

	if err := db.WriteDocument(p.db, db.KeyPendingDatasets, next); err != nil {
		return err
	}
	p.queue = next
	return nil
}

// VerifyRows classifies every row of a batch. Each row yields at most
// one error (bad voter id) and at most one warning (non-substantive
// party); a clean row yields nothing.
func VerifyRows(datasetID string, rows []models.VoteRecord) []models.DataIssue {
	issues := []models.DataIssue{}

	for i, rec := range rows {
		if len(rec.VoterID) != voterIDLength {
			issues = append(issues, models.DataIssue{
				ID:          fmt.Sprintf("issue-%s-%d-id", datasetID, i),
				Kind:        models.IssueInvalidVoterID,
				Description: fmt.Sprintf("row %d: voter id %q is not %d characters", i+1, rec.VoterID, voterIDLength),
				Severity:    models.SeverityError,
			})
		}
		if isNonSubstantive(rec.Party) {
			issues = append(issues, models.DataIssue{
				ID:          fmt.Sprintf("issue-%s-%d-party", datasetID, i),
				Kind:        models.IssueNonSubstantiveVote,
				Description: fmt.Sprintf("row %d: vote for %s (blank/null)", i+1, rec.Party),
				Severity:    models.SeverityWarning,
			})
		}
	}

	return issues
}

func isNonSubstantive(party string) bool {
	lower := strings.ToLower(party)
	for _, token := range nonSubstantiveParties {
		if lower == token {
			return true
		}
	}
	return false
}

// normalizeRow turns one wire-format row into a VoteRecord, applying
// the legacy normalization: voter id and region trimmed, party
// upper-cased, table and candidate defaulted.
func normalizeRow(row models.RawUploadRow) (models.VoteRecord, error) {
	voterID := strings.TrimSpace(row.DNI)
	if voterID == "" {
		return models.VoteRecord{}, fmt.Errorf("%w: missing DNI", ErrInvalidRow)
	}

	category, ok := categoryAliases[strings.ToLower(strings.TrimSpace(row.Categoria))]
	if !ok {
		return models.VoteRecord{}, fmt.Errorf("%w: unknown category %q", ErrInvalidRow, row.Categoria)
	}

	party := strings.ToUpper(strings.TrimSpace(row.Partido))
	if party == "" {
		return models.VoteRecord{}, fmt.Errorf("%w: missing party", ErrInvalidRow)
	}

	region := strings.TrimSpace(row.Region)
	if region == "" {
		return models.VoteRecord{}, fmt.Errorf("%w: missing region", ErrInvalidRow)
	}

	table := row.Mesa
	if table == 0 {
		table = defaultTable
	}

	candidate := strings.TrimSpace(row.Candidato)
	if candidate == "" {
		if category == models.CategoryPresidential {
			candidate = "N/A"
		} else {
			candidate = "Lista " + party
		}
	}

	return models.VoteRecord{
		VoterID:   voterID,
		Category:  category,
		Party:     party,
		Candidate: candidate,
		Region:    region,
		Table:     table,
	}, nil
}

// wait sleeps for the simulated processing delay, honoring
// cancellation.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
