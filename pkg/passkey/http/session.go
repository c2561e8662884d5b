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

import (
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/jeremyhahn/go-passkey-server/pkg/passkey"
)

const (
	// SessionCookieName is the name of the ceremony session cookie.
	SessionCookieName = "session"

	// sessionCeremonyKey is the cookie value key holding the encoded
	// ceremony binding.
	sessionCeremonyKey = "ceremony"

	// SessionMaxAge is the absolute cookie lifetime. The ceremony challenge
	// inside expires much sooner; single-use clearing is the primary replay
	// defense, not this.
	SessionMaxAge = 24 * time.Hour
)

// SessionManager carries the ceremony Session in a signed, client-held
// cookie. The cookie is authenticated with the server secret, so the
// challenge/username binding cannot be forged client-side.
type SessionManager struct {
	store *sessions.CookieStore
}

// NewSessionManager creates a cookie-backed session manager signed with the
// given secret.
func NewSessionManager(secret []byte) *SessionManager {
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	store.MaxAge(int(SessionMaxAge.Seconds()))
	return &SessionManager{store: store}
}

// Load returns the ceremony session carried by the request, or
// ErrInvalidSession when the cookie is absent, unreadable, or holds no
// ceremony binding.
func (m *SessionManager) Load(r *http.Request) (*passkey.Session, error) {
	cookie, err := m.store.Get(r, SessionCookieName)
	if err != nil {
		return nil, passkey.ErrInvalidSession
	}
	raw, ok := cookie.Values[sessionCeremonyKey].([]byte)
	if !ok {
		return nil, passkey.ErrInvalidSession
	}
	return passkey.DecodeSession(raw)
}

// Save stores the ceremony session in the response cookie. A later Save for
// the same client overwrites any pending binding, so only the most recently
// issued challenge validates.
func (m *SessionManager) Save(w http.ResponseWriter, r *http.Request, sess *passkey.Session) error {
	raw, err := sess.Encode()
	if err != nil {
		return err
	}
	cookie, _ := m.store.Get(r, SessionCookieName)
	cookie.Values[sessionCeremonyKey] = raw
	return cookie.Save(r, w)
}

// Clear removes the ceremony binding from the cookie. Called on every
// terminal ceremony outcome so a spent challenge cannot be replayed.
func (m *SessionManager) Clear(w http.ResponseWriter, r *http.Request) {
	cookie, _ := m.store.Get(r, SessionCookieName)
	delete(cookie.Values, sessionCeremonyKey)
	_ = cookie.Save(r, w)
}
