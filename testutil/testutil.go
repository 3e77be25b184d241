// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/votaciones-pe/sufragio/cliparse"
	"github.com/votaciones-pe/sufragio/db"
	"github.com/votaciones-pe/sufragio/events"
	"github.com/votaciones-pe/sufragio/ledger"
	"github.com/votaciones-pe/sufragio/models"
)

// SetupTestDB creates a fresh in-memory sqlite database with the schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	// The in-memory database disappears if the pool opens a second
	// connection, so pin it to one.
	conn.SetMaxOpenConns(1)

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// SetupStore creates a vote store (plus its bus) over a fresh test database
func SetupStore(t *testing.T) (*ledger.Store, *events.Bus, *sql.DB) {
	t.Helper()

	conn := SetupTestDB(t)
	bus := events.NewBus()
	store, err := ledger.NewStore(conn, bus)
	if err != nil {
		t.Fatalf("Failed to create vote store: %v", err)
	}

	return store, bus, conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          4270,
		DatabaseType:  "sqlite",
		DatabaseURL:   ":memory:",
		SessionSalt:   "test-session-salt",
		AdminEmail:    "admin@test.local",
		AdminPassword: "test-password",
		VerifyDelay:   0,
		ApplyDelay:    0,
		RefreshSpec:   "@every 5s",
		ExpectedVotes: 5000,
	}
}

// Vote builds a valid VoteRecord for tests
func Vote(dni, category, party string) models.VoteRecord {
	return models.VoteRecord{
		VoterID:  dni,
		Category: category,
		Party:    party,
		Region:   "Lima",
	}
}

// UploadRow builds a valid raw upload row for tests
func UploadRow(dni, categoria, partido string) models.RawUploadRow {
	return models.RawUploadRow{
		DNI:       dni,
		Categoria: categoria,
		Partido:   partido,
		Region:    "Lima",
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
