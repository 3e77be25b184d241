// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// Document keys for the three persisted collections.
const (
	KeyLedgerVotes     = "liveElectoralResults"
	KeyCleanedVotes    = "cleanedUploadedVotes"
	KeyPendingDatasets = "pendingDatasets"
)

// CreateSchema creates the document table backing all persisted state.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// The whole persisted state is three named JSON documents (live
// ledger, cleaned uploads, pending dataset queue), so storage is a
// single key/document table rather than per-entity tables. TEXT for
// the document keeps the schema portable between sqlite and postgres.
const schema = `
CREATE TABLE IF NOT EXISTS app_document (
    key TEXT PRIMARY KEY,
    document TEXT NOT NULL,
    updated_at TIMESTAMP NOT NULL
);
`
