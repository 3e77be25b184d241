// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

Flags take precedence over environment variables. Required settings:
SESSION_SALT (--session-salt), ADMIN_EMAIL (--admin-email),
ADMIN_PASSWORD (--admin-password). Everything else has defaults:
sqlite at file:sufragio.db, port 4270, legacy pipeline delays (1500 ms
verify, 1000 ms apply), a 5-second results refresh, and 5000 expected
ballots for the participation rate.
*/
package cliparse
