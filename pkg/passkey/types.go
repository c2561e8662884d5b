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
	"encoding/base64"
	"time"

	"github.com/go-webauthn/webauthn/protocol"
	"github.com/go-webauthn/webauthn/webauthn"
)

// Device type classification for a registered credential.
const (
	// DeviceTypeSingle identifies a credential bound to a single authenticator.
	DeviceTypeSingle = "singleDevice"

	// DeviceTypeMulti identifies a credential that can be synced across
	// devices (a passkey).
	DeviceTypeMulti = "multiDevice"
)

// User is a relying-party user record. The username is the unique store key;
// the ID is a stable base64url encoding of the username assigned on first
// registration and immutable afterwards.
type User struct {
	ID          string       `json:"id"`
	Username    string       `json:"username"`
	Credentials []Credential `json:"credentials"`
}

// NewUser creates a user record with a deterministic ID derived from the
// username. The ID is reversible, unique per username, and carries no secret.
func NewUser(username string) *User {
	return &User{
		ID:          GenerateUserID(username),
		Username:    username,
		Credentials: make([]Credential, 0),
	}
}

// GenerateUserID derives the stable user ID for a username.
func GenerateUserID(username string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(username))
}

// WebAuthnID returns the user handle bytes for WebAuthn ceremonies.
func (u *User) WebAuthnID() []byte {
	id, err := base64.RawURLEncoding.DecodeString(u.ID)
	if err != nil {
		// The ID is always assigned by GenerateUserID; fall back to the
		// username bytes it encodes.
		return []byte(u.Username)
	}
	return id
}

// WebAuthnName returns the user's account name.
func (u *User) WebAuthnName() string {
	return u.Username
}

// WebAuthnDisplayName returns the name shown in authenticator prompts.
func (u *User) WebAuthnDisplayName() string {
	return u.Username
}

// WebAuthnCredentials returns the user's registered credentials in the
// verifier library's representation.
func (u *User) WebAuthnCredentials() []webauthn.Credential {
	creds := make([]webauthn.Credential, len(u.Credentials))
	for i := range u.Credentials {
		creds[i] = u.Credentials[i].ToWebAuthn()
	}
	return creds
}

// CredentialDescriptors returns descriptors for all registered credentials,
// used to exclude already-registered authenticators from a new registration.
func (u *User) CredentialDescriptors() []protocol.CredentialDescriptor {
	descriptors := make([]protocol.CredentialDescriptor, len(u.Credentials))
	for i, cred := range u.Credentials {
		descriptors[i] = protocol.CredentialDescriptor{
			Type:         protocol.PublicKeyCredentialType,
			CredentialID: cred.ID,
			Transport:    cred.Transports,
		}
	}
	return descriptors
}

// Credential returns the user's credential with the given ID, or nil.
func (u *User) Credential(credentialID []byte) *Credential {
	for i := range u.Credentials {
		if string(u.Credentials[i].ID) == string(credentialID) {
			return &u.Credentials[i]
		}
	}
	return nil
}

// clone returns a deep copy of the user record.
func (u *User) clone() *User {
	cp := &User{
		ID:          u.ID,
		Username:    u.Username,
		Credentials: make([]Credential, len(u.Credentials)),
	}
	copy(cp.Credentials, u.Credentials)
	return cp
}

// Credential is a WebAuthn credential stored by the relying party. The
// public key is opaque verifier-supplied material in COSE format.
type Credential struct {
	// ID is the credential identifier assigned by the authenticator,
	// unique within the user's credential list.
	ID []byte `json:"id"`

	// PublicKey is the credential's public key in COSE format.
	PublicKey []byte `json:"public_key"`

	// AttestationType indicates the type of attestation conveyed.
	AttestationType string `json:"attestation_type"`

	// Counter is the signature counter used for clone detection. It only
	// ever moves forward.
	Counter uint32 `json:"counter"`

	// Transports lists the transports supported by the authenticator.
	Transports []protocol.AuthenticatorTransport `json:"transports,omitempty"`

	// DeviceType classifies the credential as single- or multi-device.
	DeviceType string `json:"device_type,omitempty"`

	// BackedUp indicates the credential is currently backed up.
	BackedUp bool `json:"backed_up"`

	// BackupEligible indicates the credential can be backed up.
	BackupEligible bool `json:"backup_eligible"`

	// CreatedAt is when the credential was registered.
	CreatedAt time.Time `json:"created_at"`

	// LastUsedAt is when the credential last verified an assertion.
	LastUsedAt time.Time `json:"last_used_at,omitempty"`
}

// ToWebAuthn converts the credential to the verifier library's type.
func (c *Credential) ToWebAuthn() webauthn.Credential {
	return webauthn.Credential{
		ID:              c.ID,
		PublicKey:       c.PublicKey,
		AttestationType: c.AttestationType,
		Transport:       c.Transports,
		Flags: webauthn.CredentialFlags{
			BackupEligible: c.BackupEligible,
			BackupState:    c.BackedUp,
		},
		Authenticator: webauthn.Authenticator{
			SignCount: c.Counter,
		},
	}
}

// FromWebAuthnCredential creates a Credential from the verification result.
func FromWebAuthnCredential(wc *webauthn.Credential) *Credential {
	deviceType := DeviceTypeSingle
	if wc.Flags.BackupEligible {
		deviceType = DeviceTypeMulti
	}
	return &Credential{
		ID:              wc.ID,
		PublicKey:       wc.PublicKey,
		AttestationType: wc.AttestationType,
		Counter:         wc.Authenticator.SignCount,
		Transports:      wc.Transport,
		DeviceType:      deviceType,
		BackedUp:        wc.Flags.BackupState,
		BackupEligible:  wc.Flags.BackupEligible,
	}
}
