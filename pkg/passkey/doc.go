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

// Package passkey implements the relying-party side of WebAuthn passkey
// registration and authentication. Cryptographic verification (attestation
// and assertion parsing, COSE keys, signatures) is delegated to the
// go-webauthn/webauthn library; this package orchestrates the two-phase
// ceremony protocol and persists the results.
//
// # Architecture
//
//  1. Service - ceremony orchestration (IssueChallenge / CompleteCeremony
//     for registration, IssueAssertion / CompleteAssertion for login)
//  2. UserStore - pluggable persistence keyed by username, with an
//     in-memory implementation for development
//  3. Session - the first-class challenge/username binding correlating the
//     two round trips of one ceremony
//
// The Session is transport-agnostic: the HTTP layer in pkg/passkey/http
// carries it in a signed cookie, and tests drive the protocol without a
// live HTTP stack. Sessions are single-use - callers discard them on any
// terminal outcome so a spent challenge can never be replayed - and expire
// on their own after the configured ceremony timeout.
//
// # Usage
//
//	svc, err := passkey.NewService(passkey.ServiceParams{
//	    Config: &passkey.Config{
//	        RPID:          "localhost",
//	        RPDisplayName: "Passkeys Auth",
//	        RPOrigins:     []string{"http://localhost:3000"},
//	    },
//	    UserStore: passkey.NewMemoryUserStore(),
//	})
//
// Note: browsers only expose the WebAuthn API in secure contexts.
package passkey
