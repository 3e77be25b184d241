// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

// ReadDocument loads the named JSON document into v, which must be a
// pointer to a slice. A missing document is not an error: v is left
// as the empty collection. A corrupt document is logged and likewise
// yields the empty collection - store reads must never propagate a
// parse failure to the caller.
func ReadDocument(db *sql.DB, key string, v any) error {
	var doc string
	err := db.QueryRow(`
		SELECT document FROM app_document WHERE key = $1
	`, key).Scan(&doc)

	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read document %q: %w", key, err)
	}

	if err := json.Unmarshal([]byte(doc), v); err != nil {
		slog.Error("corrupt document, substituting empty collection", "key", key, "error", err)
		return nil
	}

	return nil
}

// WriteDocument persists v as the named JSON document, replacing any
// previous contents.
func WriteDocument(db *sql.DB, key string, v any) error {
	doc, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode document %q: %w", key, err)
	}

	_, err = db.Exec(`
		INSERT INTO app_document (key, document, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET document = $2, updated_at = $3
	`, key, string(doc), time.Now())

	if err != nil {
		return fmt.Errorf("failed to write document %q: %w", key, err)
	}

	return nil
}
