// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Domain Types

  - VoteRecord: one ballot by one voter in one category
  - PendingDataset: one uploaded batch in the processing queue
  - DataIssue: a verification finding (warning or error)
  - AggregatedResults: tallies derived from the combined vote corpus
  - ElectionMetrics: live metrics panel payload

# Invariants

At most one VoteRecord may exist per (voter_id, category) pair across
the combined corpus (live ledger plus cleaned uploads). The category
set is closed: presidential, legislative-lower, legislative-andean.
The party dimension is open-ended, except for the two sentinel
pseudo-parties BLANK_VOTE and NULL_VOTE which are a closed
sub-enumeration.

# Wire Types

RawUploadRow mirrors the legacy batch export format (DNI, categoria,
partido, region, mesa, candidato); everything else is the JSON API
surface of this server.
*/
package models
