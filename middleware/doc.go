// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and JSON helpers.

  - WithLogging: request start/completion logging with duration
  - RequireSession: admin-console session gate (X-Admin-Session)
  - CORS: cross-origin headers and preflight handling
  - JSONResponse / ErrorResponse: uniform JSON output
  - ParseJSONBody: request body decoding
  - GetClientIP: proxy-aware client address extraction
*/
package middleware
