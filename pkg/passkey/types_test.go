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

	"github.com/go-webauthn/webauthn/protocol"
	"github.com/go-webauthn/webauthn/webauthn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateUserID(t *testing.T) {
	// Deterministic and stable across calls
	assert.Equal(t, GenerateUserID("alice"), GenerateUserID("alice"))

	// Unique per username
	assert.NotEqual(t, GenerateUserID("alice"), GenerateUserID("bob"))

	// Reversible back to the username bytes
	user := NewUser("alice")
	assert.Equal(t, []byte("alice"), user.WebAuthnID())
}

func TestUser_WebAuthnInterface(t *testing.T) {
	user := NewUser("alice")
	assert.Equal(t, "alice", user.WebAuthnName())
	assert.Equal(t, "alice", user.WebAuthnDisplayName())
	assert.Empty(t, user.WebAuthnCredentials())

	user.Credentials = append(user.Credentials, Credential{
		ID:        []byte{1, 2},
		PublicKey: []byte{3, 4},
		Counter:   7,
	})

	creds := user.WebAuthnCredentials()
	require.Len(t, creds, 1)
	assert.Equal(t, []byte{1, 2}, creds[0].ID)
	assert.Equal(t, uint32(7), creds[0].Authenticator.SignCount)
}

func TestUser_CredentialDescriptors(t *testing.T) {
	user := NewUser("alice")
	user.Credentials = []Credential{
		{ID: []byte{1}, Transports: []protocol.AuthenticatorTransport{protocol.USB}},
		{ID: []byte{2}},
	}

	descriptors := user.CredentialDescriptors()
	require.Len(t, descriptors, 2)
	assert.Equal(t, protocol.PublicKeyCredentialType, descriptors[0].Type)
	assert.EqualValues(t, []byte{1}, descriptors[0].CredentialID)
	assert.Equal(t, []protocol.AuthenticatorTransport{protocol.USB}, descriptors[0].Transport)
	assert.EqualValues(t, []byte{2}, descriptors[1].CredentialID)
}

func TestUser_Credential(t *testing.T) {
	user := NewUser("alice")
	user.Credentials = []Credential{{ID: []byte{1}}, {ID: []byte{2}}}

	assert.NotNil(t, user.Credential([]byte{2}))
	assert.Nil(t, user.Credential([]byte{3}))
}

func TestFromWebAuthnCredential(t *testing.T) {
	wc := &webauthn.Credential{
		ID:              []byte{1},
		PublicKey:       []byte{2},
		AttestationType: "none",
		Transport:       []protocol.AuthenticatorTransport{protocol.Internal},
		Flags: webauthn.CredentialFlags{
			BackupEligible: true,
			BackupState:    true,
		},
		Authenticator: webauthn.Authenticator{SignCount: 3},
	}

	cred := FromWebAuthnCredential(wc)
	assert.Equal(t, []byte{1}, cred.ID)
	assert.Equal(t, []byte{2}, cred.PublicKey)
	assert.Equal(t, uint32(3), cred.Counter)
	assert.Equal(t, DeviceTypeMulti, cred.DeviceType)
	assert.True(t, cred.BackedUp)

	// Round trip preserves the verifier-facing fields
	back := cred.ToWebAuthn()
	assert.Equal(t, wc.ID, back.ID)
	assert.Equal(t, wc.PublicKey, back.PublicKey)
	assert.Equal(t, wc.Authenticator.SignCount, back.Authenticator.SignCount)
	assert.True(t, back.Flags.BackupState)
}

func TestFromWebAuthnCredential_SingleDevice(t *testing.T) {
	cred := FromWebAuthnCredential(&webauthn.Credential{ID: []byte{1}})
	assert.Equal(t, DeviceTypeSingle, cred.DeviceType)
	assert.False(t, cred.BackedUp)
}
