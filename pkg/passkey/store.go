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

import "context"

// UserStore is the persistence contract for user records and their
// credentials. Implementations must be safe for concurrent callers and must
// serialize mutating operations at least per username.
type UserStore interface {
	// GetUser retrieves a user by username. No side effects.
	// Returns ErrUserNotFound if the user does not exist.
	GetUser(ctx context.Context, username string) (*User, error)

	// SaveUser inserts a new user record.
	// Returns ErrUserExists if the username is already taken. Existing
	// records are never overwritten; overwriting would silently discard
	// registered credentials.
	SaveUser(ctx context.Context, user *User) error

	// SaveAuthCredential appends a credential to an existing user.
	// Returns ErrUserNotFound if the user is absent, or ErrCredentialExists
	// if the credential ID is already registered for that user.
	SaveAuthCredential(ctx context.Context, username string, cred *Credential) error

	// UpdateCredentialCounter replaces a credential's signature counter and
	// stamps its last-used time. Returns ErrUserNotFound or
	// ErrCredentialNotFound as appropriate, and ErrCounterRegression when
	// the new counter does not move forward.
	UpdateCredentialCounter(ctx context.Context, username string, credentialID []byte, newCounter uint32) error
}
