// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides the admin-console session gate and small token
utilities.

# Sessions

Session tokens use HMAC-SHA256 over the admin email with a configured
salt:

	token := auth.GenerateSessionToken(email, salt)
	err := auth.ValidateSessionToken(token, email, salt)

Deterministic tokens mean no server-side session store. This is a UX
gate for the demo admin console, deliberately not real
authentication - the rest of the system never treats it as a security
boundary.

# IDs

GenerateID returns crypto/rand hex identifiers for places that need a
short unique token.
*/
package auth
