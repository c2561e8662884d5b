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

// Package http provides the HTTP surface for the passkey relying party:
// JSON endpoints for registration and authentication ceremonies, signed
// cookie sessions binding each ceremony's challenge to the caller, and
// server-rendered demo pages with their client script.
//
// Routes:
//
//	GET  /                       home page
//	GET  /register               registration page
//	POST /register/options       issue registration options (challenge)
//	POST /register               verify attestation, commit credential
//	GET  /authenticate           sign-in page
//	POST /authenticate/options   issue assertion options
//	POST /authenticate           verify assertion, advance counter
//	GET  /health                 health check
//	GET  /metrics                Prometheus metrics
//	GET  /static/*               embedded client assets
//
// The ceremony session rides in a signed cookie with a 24 hour lifetime;
// the challenge inside expires after the ceremony timeout and is cleared on
// every terminal outcome.
package http
