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

package passkey

import (
	"encoding/json"
	"time"

	"github.com/go-webauthn/webauthn/webauthn"
)

// Session binds one in-flight ceremony to a username and its issued
// challenge. It is created when options are issued and destroyed on any
// terminal outcome, making each challenge single-use. The binding is
// transport-agnostic; the HTTP layer carries it in a signed cookie.
type Session struct {
	// Username is the account the ceremony was started for.
	Username string `json:"username"`

	// Data is the verifier library's session state, including the issued
	// challenge and its absolute expiry.
	Data webauthn.SessionData `json:"data"`
}

// Challenge returns the challenge issued for this ceremony.
func (s *Session) Challenge() string {
	if s == nil {
		return ""
	}
	return s.Data.Challenge
}

// Valid reports whether the session can complete a ceremony: it must hold a
// username and a challenge that has not expired.
func (s *Session) Valid() bool {
	if s == nil || s.Username == "" || s.Data.Challenge == "" {
		return false
	}
	if !s.Data.Expires.IsZero() && s.Data.Expires.Before(time.Now()) {
		return false
	}
	return true
}

// Encode serializes the session for cookie transport.
func (s *Session) Encode() ([]byte, error) {
	return json.Marshal(s)
}

// DecodeSession deserializes a session previously produced by Encode.
func DecodeSession(data []byte) (*Session, error) {
	if len(data) == 0 {
		return nil, ErrInvalidSession
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, WrapError("decode session", ErrInvalidSession)
	}
	return &s, nil
}
