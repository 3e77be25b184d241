// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Sufragio API server.

Sufragio is the backend for a demonstration electoral voting
application: a public ballot-casting flow and an administrative
console for uploading, verifying and applying bulk vote datasets, with
live aggregated tallies.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	SESSION_SALT=... ADMIN_EMAIL=... ADMIN_PASSWORD=... go run main.go

Or with flags:

	go run main.go -p 4270 -t sqlite -d "file:sufragio.db"

# Configuration

Required settings:

  - SESSION_SALT (--session-salt): Secret for admin session HMAC
  - ADMIN_EMAIL (--admin-email): Admin console account
  - ADMIN_PASSWORD (--admin-password): Admin console password

Optional settings:

  - PORT (-p): Server port (default: 4270)
  - DATABASE_URL (-d) / DATABASE_TYPE (-t): sqlite (default) or postgres
  - VERIFY_DELAY_MS / APPLY_DELAY_MS: simulated pipeline delays
  - REFRESH_SPEC (--refresh): results refresh schedule (default @every 5s)
  - EXPECTED_VOTES (--expected-votes): participation denominator

# Architecture

The server uses a handler-based architecture with dependency injection:

  - ledger: durable vote stores with the duplicate-ballot invariant
  - pipeline: upload/verify/apply dataset queue
  - results: pure aggregation engine and the periodic refresher
  - events: in-process change-notification bus
  - padron: seeded voter registry and party/region catalogs
  - handlers, router, middleware: HTTP surface
  - db: named-document persistence over database/sql
  - auth: admin session gate (UX only)
  - cliparse: configuration parsing

See package documentation for each component.
*/
package main
