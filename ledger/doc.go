// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ledger implements the durable vote stores.

One Store owns both persisted collections: the live ledger of ballots
cast through the voting flow, and the cleaned votes promoted out of
the upload pipeline. Keeping them behind one mutex makes the
(voter_id, category) uniqueness check and every snapshot read
consistent by construction instead of by convention.

	store, err := ledger.NewStore(conn, bus)
	err = store.Append(rec)          // ErrDuplicateVote on collision
	all := store.Combined()          // aggregation corpus

A duplicate append is a reported, recoverable condition: the caller
tells the voter, the ledger does not change, nothing crashes.
Successful mutations persist first, then broadcast a change
notification on the event bus.
*/
package ledger
