// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Vote categories (closed set)
const (
	CategoryPresidential      = "presidential"
	CategoryLegislativeLower  = "legislative-lower"
	CategoryLegislativeAndean = "legislative-andean"
)

// Categories lists the full fixed category set, in ballot order.
var Categories = []string{
	CategoryPresidential,
	CategoryLegislativeLower,
	CategoryLegislativeAndean,
}

// Sentinel pseudo-parties for abstention and spoiled ballots. Valid
// "party" values everywhere a party is counted, but excluded from
// rankings and valid-vote percentages.
const (
	PartyBlankVote = "BLANK_VOTE"
	PartyNullVote  = "NULL_VOTE"
)

// RegionOther is the fallback bucket for records with no known region.
const RegionOther = "Other"

// Dataset status constants
const (
	DatasetPending  = "pending"
	DatasetVerified = "verified"
	DatasetError    = "error"
)

// Issue severity constants
const (
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// Issue kind constants
const (
	IssueInvalidVoterID     = "InvalidVoterId"
	IssueNonSubstantiveVote = "NonSubstantiveVote"
)

// IsValidCategory reports whether c is one of the three fixed categories.
func IsValidCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// IsSentinelParty reports whether p is one of the two sentinel
// pseudo-parties.
func IsSentinelParty(p string) bool {
	return p == PartyBlankVote || p == PartyNullVote
}

// Domain types

// VoteRecord is one ballot cast by one voter in one category. Records
// are immutable once created and are never deleted.
type VoteRecord struct {
	VoterID   string `json:"voter_id"`
	Category  string `json:"category"`
	Party     string `json:"party"`
	Candidate string `json:"candidate,omitempty"`
	Region    string `json:"region"`
	Table     int    `json:"table,omitempty"`
}

// DataIssue is a single finding from a verification pass.
type DataIssue struct {
	ID          string `json:"id"`
	Kind        string `json:"kind"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
}

// PendingDataset is one uploaded batch awaiting verification/apply.
type PendingDataset struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	RecordCount int          `json:"record_count"`
	SizeBytes   int64        `json:"size_bytes"`
	UploadedAt  time.Time    `json:"uploaded_at"`
	Status      string       `json:"status"`
	RawRows     []VoteRecord `json:"raw_rows"`
	Issues      []DataIssue  `json:"issues,omitempty"`
}

// AggregatedResults is derived from the combined vote corpus on every
// query; never persisted.
type AggregatedResults struct {
	TotalVotes int                       `json:"total_votes"`
	ByCategory map[string]int            `json:"by_category"`
	ByParty    map[string]map[string]int `json:"by_party"` // category -> party -> count
	ByRegion   map[string]int            `json:"by_region"`
}

// PartyCount is one row of a per-category ranking or table view.
// PctValid is nil for the sentinel pseudo-parties (not applicable).
type PartyCount struct {
	Party    string   `json:"party"`
	Votes    int      `json:"votes"`
	PctTotal float64  `json:"pct_total"`
	PctValid *float64 `json:"pct_valid"`
}

// CategoryTable is the ranking-table view for one category.
type CategoryTable struct {
	Category      string       `json:"category"`
	CategoryVotes int          `json:"category_votes"`
	ValidVotes    int          `json:"valid_votes"`
	Rows          []PartyCount `json:"rows"`
}

// ElectionMetrics is the live metrics panel payload.
type ElectionMetrics struct {
	TotalVotes        int            `json:"total_votes"`
	ParticipationRate float64        `json:"participation_rate"`
	LeadingParty      string         `json:"leading_party"`
	VotesByCategory   map[string]int `json:"votes_by_category"`
	ComputedAt        time.Time      `json:"computed_at"`
}

// ApplyReport accounts for every row of an applied dataset. Rows are
// either promoted or dropped with a reason, never silently lost.
type ApplyReport struct {
	DatasetID        string `json:"dataset_id"`
	Promoted         int    `json:"promoted"`
	SkippedInvalidID int    `json:"skipped_invalid_id"`
	SkippedDuplicate int    `json:"skipped_duplicate"`
}

// Voter is one entry of the national-ID registry.
type Voter struct {
	DNI       string `json:"dni"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Region    string `json:"region"`
	BirthDate string `json:"birth_date"`
}

// Party is one entry of the party catalog, with its candidate name
// per category.
type Party struct {
	Name       string            `json:"name"`
	Candidates map[string]string `json:"candidates"`
}

// Request types

type CastVoteRequest struct {
	DNI       string `json:"dni"`
	Category  string `json:"category"`
	Party     string `json:"party"`
	Candidate string `json:"candidate,omitempty"`
}

// RawUploadRow is the wire format of one row of an uploaded batch
// file. Field names match the legacy export format.
type RawUploadRow struct {
	DNI       string `json:"DNI"`
	Categoria string `json:"categoria"`
	Partido   string `json:"partido"`
	Region    string `json:"region"`
	Mesa      int    `json:"mesa,omitempty"`
	Candidato string `json:"candidato,omitempty"`
}

type UploadDatasetRequest struct {
	Name string         `json:"name"`
	Rows []RawUploadRow `json:"rows"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Response types

type CastVoteResponse struct {
	Message         string   `json:"message"`
	VotedCategories []string `json:"voted_categories"`
	Completed       bool     `json:"completed"`
}

type VoteStatusResponse struct {
	DNI             string   `json:"dni"`
	VotedCategories []string `json:"voted_categories"`
	Completed       bool     `json:"completed"`
}

type UploadDatasetResponse struct {
	DatasetID   string `json:"dataset_id"`
	RecordCount int    `json:"record_count"`
}

// DatasetSummary is the queue listing entry for the admin console.
// UploadedAgo is a humanized rendering of UploadedAt.
type DatasetSummary struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	RecordCount int         `json:"record_count"`
	SizeBytes   int64       `json:"size_bytes"`
	Size        string      `json:"size"`
	UploadedAt  time.Time   `json:"uploaded_at"`
	UploadedAgo string      `json:"uploaded_ago"`
	Status      string      `json:"status"`
	Issues      []DataIssue `json:"issues,omitempty"`
}

type ListDatasetsResponse struct {
	Datasets []DatasetSummary `json:"datasets"`
}

type VerifyDatasetResponse struct {
	DatasetID string      `json:"dataset_id"`
	Status    string      `json:"status"`
	Issues    []DataIssue `json:"issues"`
}

type LoginResponse struct {
	SessionToken string `json:"session_token"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
