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
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-webauthn/webauthn/webauthn"
	"github.com/jeremyhahn/go-passkey-server/pkg/passkey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCeremonySession() *passkey.Session {
	return &passkey.Session{
		Username: "alice",
		Data: webauthn.SessionData{
			Challenge: "dGVzdC1jaGFsbGVuZ2U",
			UserID:    []byte("YWxpY2U"),
			Expires:   time.Now().Add(time.Minute),
		},
	}
}

// saveSession saves a session in one request cycle and returns the cookies
// the server set.
func saveSession(t *testing.T, m *SessionManager, sess *passkey.Session, cookies []*http.Cookie) []*http.Cookie {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, "/register/options", nil)
	for _, c := range cookies {
		r.AddCookie(c)
	}
	w := httptest.NewRecorder()
	require.NoError(t, m.Save(w, r, sess))
	return w.Result().Cookies()
}

func TestSessionManager_SaveAndLoad(t *testing.T) {
	m := NewSessionManager([]byte("test-session-secret"))
	sess := testCeremonySession()

	cookies := saveSession(t, m, sess, nil)
	require.NotEmpty(t, cookies)
	assert.Equal(t, SessionCookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, "/", cookies[0].Path)

	r := httptest.NewRequest(http.MethodPost, "/register", nil)
	for _, c := range cookies {
		r.AddCookie(c)
	}
	loaded, err := m.Load(r)
	require.NoError(t, err)
	assert.Equal(t, "alice", loaded.Username)
	assert.Equal(t, sess.Challenge(), loaded.Challenge())
	assert.True(t, loaded.Valid())
}

func TestSessionManager_Load_NoCookie(t *testing.T) {
	m := NewSessionManager([]byte("test-session-secret"))

	r := httptest.NewRequest(http.MethodPost, "/register", nil)
	_, err := m.Load(r)
	assert.ErrorIs(t, err, passkey.ErrInvalidSession)
}

func TestSessionManager_Load_TamperedCookie(t *testing.T) {
	m := NewSessionManager([]byte("test-session-secret"))
	cookies := saveSession(t, m, testCeremonySession(), nil)
	require.NotEmpty(t, cookies)

	r := httptest.NewRequest(http.MethodPost, "/register", nil)
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: cookies[0].Value + "x"})
	_, err := m.Load(r)
	assert.ErrorIs(t, err, passkey.ErrInvalidSession)
}

func TestSessionManager_Load_WrongSecret(t *testing.T) {
	a := NewSessionManager([]byte("secret-a"))
	b := NewSessionManager([]byte("secret-b"))

	cookies := saveSession(t, a, testCeremonySession(), nil)
	require.NotEmpty(t, cookies)

	r := httptest.NewRequest(http.MethodPost, "/register", nil)
	for _, c := range cookies {
		r.AddCookie(c)
	}
	_, err := b.Load(r)
	assert.ErrorIs(t, err, passkey.ErrInvalidSession)
}

func TestSessionManager_SaveOverwrites(t *testing.T) {
	m := NewSessionManager([]byte("test-session-secret"))

	first := testCeremonySession()
	cookies := saveSession(t, m, first, nil)

	second := testCeremonySession()
	second.Data.Challenge = "c2Vjb25kLWNoYWxsZW5nZQ"
	cookies = saveSession(t, m, second, cookies)

	r := httptest.NewRequest(http.MethodPost, "/register", nil)
	for _, c := range cookies {
		r.AddCookie(c)
	}
	loaded, err := m.Load(r)
	require.NoError(t, err)
	assert.Equal(t, second.Challenge(), loaded.Challenge())
}

func TestSessionManager_Clear(t *testing.T) {
	m := NewSessionManager([]byte("test-session-secret"))
	cookies := saveSession(t, m, testCeremonySession(), nil)

	// Clear removes the ceremony binding
	r := httptest.NewRequest(http.MethodPost, "/register", nil)
	for _, c := range cookies {
		r.AddCookie(c)
	}
	w := httptest.NewRecorder()
	m.Clear(w, r)
	cleared := w.Result().Cookies()
	require.NotEmpty(t, cleared)

	// The refreshed cookie no longer loads a session
	r = httptest.NewRequest(http.MethodPost, "/register", nil)
	for _, c := range cleared {
		r.AddCookie(c)
	}
	_, err := m.Load(r)
	assert.ErrorIs(t, err, passkey.ErrInvalidSession)
}
