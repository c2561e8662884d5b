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
	"context"
	"sync"
	"time"
)

// MemoryUserStore is an in-memory implementation of UserStore keyed by
// username. It is volatile and process-local, intended for development and
// testing; swap in a persistent implementation for production.
type MemoryUserStore struct {
	mu    sync.RWMutex
	users map[string]*User
}

// NewMemoryUserStore creates a new in-memory user store.
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		users: make(map[string]*User),
	}
}

// GetUser retrieves a user by username.
func (s *MemoryUserStore) GetUser(ctx context.Context, username string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	// Return a copy to prevent external modification
	return user.clone(), nil
}

// SaveUser inserts a new user record.
func (s *MemoryUserStore) SaveUser(ctx context.Context, user *User) error {
	if user == nil || user.Username == "" {
		return ErrMissingUsername
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.Username]; ok {
		return ErrUserExists
	}

	s.users[user.Username] = user.clone()
	return nil
}

// SaveAuthCredential appends a credential to an existing user.
func (s *MemoryUserStore) SaveAuthCredential(ctx context.Context, username string, cred *Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[username]
	if !ok {
		return ErrUserNotFound
	}
	if user.Credential(cred.ID) != nil {
		return ErrCredentialExists
	}

	stored := *cred
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	user.Credentials = append(user.Credentials, stored)
	return nil
}

// UpdateCredentialCounter replaces a credential's signature counter and
// stamps its last-used time. Authenticators without counters report zero on
// every assertion; any other non-forward movement is a clone signal.
func (s *MemoryUserStore) UpdateCredentialCounter(ctx context.Context, username string, credentialID []byte, newCounter uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[username]
	if !ok {
		return ErrUserNotFound
	}
	cred := user.Credential(credentialID)
	if cred == nil {
		return ErrCredentialNotFound
	}
	if newCounter <= cred.Counter && (cred.Counter != 0 || newCounter != 0) {
		return ErrCounterRegression
	}

	cred.Counter = newCounter
	cred.LastUsedAt = time.Now().UTC()
	return nil
}

// Count returns the number of users in the store.
func (s *MemoryUserStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

// Clear removes all users from the store.
func (s *MemoryUserStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = make(map[string]*User)
}
