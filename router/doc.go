// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines the HTTP routes using Go 1.22+ method patterns.

Public surface: ballot casting, vote status, registry lookup, party
catalog. Admin surface (session-gated): dataset pipeline, aggregated
results, metrics, and the websocket event stream. The returned handler
is already wrapped in CORS.
*/
package router
