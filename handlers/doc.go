// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains the HTTP request handlers.

# Handler Organization

Handlers are grouped by concern, each with constructor-injected
dependencies:

  - VotesHandler: ballot casting, vote status, registry lookup, party catalog
  - AdminHandler: admin-console login
  - DatasetsHandler: upload queue listing and the verify/apply/delete pipeline
  - ResultsHandler: aggregated results, per-category tables, live metrics
  - EventsHandler: websocket stream of change notifications

# Error Handling

Handlers recover every domain error at the boundary and turn it into a
JSON status: duplicate ballots and busy pipelines are 409s, unknown
datasets and DNIs are 404s, structurally bad uploads are 400s. Nothing
a client sends can terminate the process.
*/
package handlers
