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
	"testing"
	"time"

	"github.com/go-webauthn/webauthn/webauthn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_Valid(t *testing.T) {
	tests := []struct {
		name string
		sess *Session
		want bool
	}{
		{
			name: "nil session",
			sess: nil,
			want: false,
		},
		{
			name: "missing username",
			sess: &Session{Data: webauthn.SessionData{Challenge: "abc"}},
			want: false,
		},
		{
			name: "missing challenge",
			sess: &Session{Username: "alice"},
			want: false,
		},
		{
			name: "expired challenge",
			sess: &Session{
				Username: "alice",
				Data: webauthn.SessionData{
					Challenge: "abc",
					Expires:   time.Now().Add(-time.Minute),
				},
			},
			want: false,
		},
		{
			name: "valid",
			sess: &Session{
				Username: "alice",
				Data: webauthn.SessionData{
					Challenge: "abc",
					Expires:   time.Now().Add(time.Minute),
				},
			},
			want: true,
		},
		{
			name: "valid without expiry",
			sess: &Session{
				Username: "alice",
				Data:     webauthn.SessionData{Challenge: "abc"},
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.sess.Valid())
		})
	}
}

func TestSession_EncodeDecode(t *testing.T) {
	sess := &Session{
		Username: "alice",
		Data: webauthn.SessionData{
			Challenge: "some-challenge",
			UserID:    []byte("alice"),
			Expires:   time.Now().Add(time.Minute).UTC(),
		},
	}

	raw, err := sess.Encode()
	require.NoError(t, err)

	decoded, err := DecodeSession(raw)
	require.NoError(t, err)
	assert.Equal(t, "alice", decoded.Username)
	assert.Equal(t, "some-challenge", decoded.Challenge())
	assert.Equal(t, []byte("alice"), decoded.Data.UserID)
	assert.True(t, decoded.Valid())
}

func TestDecodeSession_Invalid(t *testing.T) {
	_, err := DecodeSession(nil)
	assert.ErrorIs(t, err, ErrInvalidSession)

	_, err = DecodeSession([]byte("not json"))
	assert.ErrorIs(t, err, ErrInvalidSession)
}
