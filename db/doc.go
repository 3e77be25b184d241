// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles schema creation and named-document persistence.

# Schema Creation

CreateSchema initializes the document table:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS.

# Documents

All persisted state lives in three named JSON documents (see the Key
constants). ReadDocument and WriteDocument move whole collections in
and out of storage:

	var votes []models.VoteRecord
	err := db.ReadDocument(conn, db.KeyLedgerVotes, &votes)

A missing or corrupt document reads as the empty collection (corrupt
additionally logs); a store read never fails because of bad persisted
JSON.

# Drivers

Works against modernc.org/sqlite (default, pure Go) and lib/pq.
Statements stick to $1-style placeholders and portable SQL so both
drivers accept them.
*/
package db
