// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package pipeline implements the upload/verify/apply pipeline and the
pending dataset queue behind it.

A dataset moves through a small state machine:

	upload -> pending -> verified -> (applied, removed)
	                  -> error    -> (deleted, removed)

Upload structurally validates every row and rejects the whole file on
the first bad one. Verification classifies rows into errors (voter id
not 8 characters) and warnings (non-substantive party tokens such as
BLANK_VOTE or NULL_VOTE); one error-severity issue parks the dataset
in the error state, whose only exit is explicit deletion. Apply
promotes a verified dataset's rows into the cleaned vote store,
skipping rows with bad voter ids or (voter_id, category) collisions
against the combined corpus, and reports every skip.

Verify and apply are guarded by a system-wide busy flag: a concurrent
attempt gets ErrBusy rather than being queued. Both take a configured
simulated delay standing in for an eventual network-backed check.
*/
package pipeline
