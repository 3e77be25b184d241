// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid session token")
)

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// CheckCredentials compares a login attempt against the configured
// admin credentials in constant time. This gates the admin console as
// a UX boundary only; it is not a security mechanism and is not
// presented as one.
func CheckCredentials(email, password, wantEmail, wantPassword string) error {
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(wantEmail)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(wantPassword)) == 1
	if !emailOK || !passOK {
		return ErrInvalidCredentials
	}
	return nil
}

// GenerateSessionToken creates an HMAC-based session token for the
// admin account. Deterministic for a given email and salt, so it can
// be validated without server-side session state.
func GenerateSessionToken(email, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(email))
	sum := h.Sum(nil)
	// URL-safe base64 without padding for cleaner tokens
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// ValidateSessionToken checks a presented token against the expected
// one for the admin account.
func ValidateSessionToken(token, email, salt string) error {
	expected := GenerateSessionToken(email, salt)
	if !hmac.Equal([]byte(token), []byte(expected)) {
		return ErrInvalidSession
	}
	return nil
}

// HashIP creates a one-way hash of an IP address for privacy in logs.
// Includes salt to prevent rainbow table attacks.
func HashIP(ip, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(ip))
	sum := h.Sum(nil)
	// First 16 hex chars (64 bits) - enough for deduplication
	return hex.EncodeToString(sum[:8])
}
