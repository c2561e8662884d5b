// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-passkey-server.
//
// go-passkey-server is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

package http

// OptionsRequest is the request body for starting a ceremony.
type OptionsRequest struct {
	// Username is the account the ceremony is for (required).
	Username string `json:"username"`
}

// VerifyResponse is the response after a ceremony completes.
type VerifyResponse struct {
	// Verified reports whether the ceremony succeeded.
	Verified bool `json:"verified"`

	// Token is a signed token minted after successful authentication,
	// when a token issuer is configured.
	Token string `json:"token,omitempty"`

	// Error is set when Verified is false.
	Error string `json:"error,omitempty"`
}

// ErrorResponse is the response format for request errors.
type ErrorResponse struct {
	// Error is a human-readable error message.
	Error string `json:"error"`
}

// Static client-facing error messages. Internal detail is logged
// server-side, never returned.
const (
	msgMissingUsername      = "Missing username"
	msgInvalidSessionState  = "Invalid session state"
	msgUserNotFound         = "User not found"
	msgNoCredentials        = "No credentials registered"
	msgVerificationFailed   = "Verification failed"
	msgRegistrationFailed   = "Registration failed"
	msgAuthenticationFailed = "Authentication failed"
)
