// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/votaciones-pe/sufragio/db"
	"github.com/votaciones-pe/sufragio/events"
	"github.com/votaciones-pe/sufragio/models"
)

var ErrDuplicateVote = errors.New("duplicate vote for voter and category")

// Store holds the two persisted vote collections: the live ledger of
// directly cast ballots and the cleaned votes promoted from uploads.
// The (voter_id, category) uniqueness constraint is enforced against
// the union of both, so a single lock covers them and every read is a
// consistent snapshot.
//
// Both collections are append-only: records are never mutated or
// deleted after insertion.
type Store struct {
	mu      sync.Mutex
	db      *sql.DB
	bus     *events.Bus
	votes   []models.VoteRecord // write-through cache of the ledger document
	cleaned []models.VoteRecord // write-through cache of the cleaned document
}

// NewStore loads both collections from storage. Missing or corrupt
// documents load as empty (the db package upholds that contract).
func NewStore(conn *sql.DB, bus *events.Bus) (*Store, error) {
	s := &Store{db: conn, bus: bus}

	if err := db.ReadDocument(conn, db.KeyLedgerVotes, &s.votes); err != nil {
		return nil, fmt.Errorf("failed to load vote ledger: %w", err)
	}
	if err := db.ReadDocument(conn, db.KeyCleanedVotes, &s.cleaned); err != nil {
		return nil, fmt.Errorf("failed to load cleaned votes: %w", err)
	}

	return s, nil
}

// Append records one cast ballot. Returns ErrDuplicateVote when the
// combined corpus already holds a record for the same (voter_id,
// category); the ledger is unchanged in that case. On success the
// ledger is durably persisted before the change notification goes out.
func (s *Store) Append(rec models.VoteRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hasVoteLocked(rec.VoterID, rec.Category) {
		return ErrDuplicateVote
	}

	next := append(append([]models.VoteRecord{}, s.votes...), rec)
	if err := db.WriteDocument(s.db, db.KeyLedgerVotes, next); err != nil {
		return err
	}
	s.votes = next

	slog.Info("vote recorded", "category", rec.Category, "region", rec.Region)
	s.bus.Publish(events.TopicVoteRecorded)

	return nil
}

// AppendCleaned merges a batch of promoted rows into the cleaned
// store. Rows colliding with the combined corpus on (voter_id,
// category) are skipped, not overwritten; the uniqueness invariant
// holds uniformly for bulk applies and direct ballots. Returns how
// many rows were added and how many were skipped as duplicates.
func (s *Store) AppendCleaned(recs []models.VoteRecord) (added, duplicates int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := append([]models.VoteRecord{}, s.cleaned...)
	seen := s.seenPairsLocked()

	for _, rec := range recs {
		pair := rec.VoterID + "\x00" + rec.Category
		if seen[pair] {
			duplicates++
			continue
		}
		seen[pair] = true
		next = append(next, rec)
		added++
	}

	if added > 0 {
		if err := db.WriteDocument(s.db, db.KeyCleanedVotes, next); err != nil {
			return 0, 0, err
		}
		s.cleaned = next
	}

	return added, duplicates, nil
}

// ListVotes returns a copy of the live ledger in insertion order.
func (s *Store) ListVotes() []models.VoteRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.VoteRecord{}, s.votes...)
}

// ListCleaned returns a copy of the cleaned store in insertion order.
func (s *Store) ListCleaned() []models.VoteRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.VoteRecord{}, s.cleaned...)
}

// Combined returns one consistent snapshot of ledger plus cleaned
// votes, the corpus every aggregation runs over.
func (s *Store) Combined() []models.VoteRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.VoteRecord, 0, len(s.votes)+len(s.cleaned))
	out = append(out, s.votes...)
	out = append(out, s.cleaned...)
	return out
}

// VotedCategories returns the categories the voter has a record in,
// in ballot order.
func (s *Store) VotedCategories(voterID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	present := make(map[string]bool)
	for _, rec := range s.votes {
		if rec.VoterID == voterID {
			present[rec.Category] = true
		}
	}
	for _, rec := range s.cleaned {
		if rec.VoterID == voterID {
			present[rec.Category] = true
		}
	}

	out := []string{}
	for _, cat := range models.Categories {
		if present[cat] {
			out = append(out, cat)
		}
	}
	return out
}

// HasVotedAllCategories reports whether the voter has a record in
// every one of the three fixed categories.
func (s *Store) HasVotedAllCategories(voterID string) bool {
	return len(s.VotedCategories(voterID)) == len(models.Categories)
}

// HasVote reports whether the combined corpus holds a record for the
// pair.
func (s *Store) HasVote(voterID, category string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasVoteLocked(voterID, category)
}

func (s *Store) hasVoteLocked(voterID, category string) bool {
	for _, rec := range s.votes {
		if rec.VoterID == voterID && rec.Category == category {
			return true
		}
	}
	for _, rec := range s.cleaned {
		if rec.VoterID == voterID && rec.Category == category {
			return true
		}
	}
	return false
}

func (s *Store) seenPairsLocked() map[string]bool {
	seen := make(map[string]bool, len(s.votes)+len(s.cleaned))
	for _, rec := range s.votes {
		seen[rec.VoterID+"\x00"+rec.Category] = true
	}
	for _, rec := range s.cleaned {
		seen[rec.VoterID+"\x00"+rec.Category] = true
	}
	return seen
}
