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
	"errors"
	"fmt"

	"github.com/go-webauthn/webauthn/protocol"
	"github.com/go-webauthn/webauthn/protocol/webauthncose"
	"github.com/go-webauthn/webauthn/webauthn"
)

// Algorithms offered to the authenticator during registration.
var credentialParameters = []protocol.CredentialParameter{
	{Type: protocol.PublicKeyCredentialType, Algorithm: webauthncose.AlgES256},
	{Type: protocol.PublicKeyCredentialType, Algorithm: webauthncose.AlgRS256},
}

// TokenIssuer is an optional hook for minting a token after a successful
// authentication ceremony.
type TokenIssuer interface {
	// IssueToken creates a token for the authenticated user.
	IssueToken(ctx context.Context, user *User) (string, error)
}

// Service orchestrates WebAuthn ceremonies for the relying party. The
// cryptographic verification itself is delegated to the verifier library;
// the service sequences the two-phase protocol (IssueChallenge /
// CompleteCeremony), guards it with the ceremony Session, and persists
// results in the UserStore.
type Service struct {
	webauthn *webauthn.WebAuthn
	config   *Config
	users    UserStore
	tokens   TokenIssuer // optional
}

// ServiceParams contains dependencies for creating a Service.
type ServiceParams struct {
	// Config is the relying-party configuration (required).
	Config *Config

	// UserStore is the user and credential persistence layer (required).
	UserStore UserStore

	// TokenIssuer optionally mints tokens after authentication.
	TokenIssuer TokenIssuer
}

// NewService creates a ceremony orchestrator with the provided dependencies.
func NewService(params ServiceParams) (*Service, error) {
	if params.Config == nil {
		return nil, fmt.Errorf("%w: config is required", ErrNotConfigured)
	}
	if params.UserStore == nil {
		return nil, fmt.Errorf("%w: user store is required", ErrNotConfigured)
	}

	params.Config.SetDefaults()
	if err := params.Config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	wa, err := webauthn.New(params.Config.ToWebAuthnConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create webauthn instance: %w", err)
	}

	return &Service{
		webauthn: wa,
		config:   params.Config,
		users:    params.UserStore,
		tokens:   params.TokenIssuer,
	}, nil
}

// IssueChallenge starts a registration ceremony for the given username.
// An unseen username creates the user record. The returned options carry a
// fresh challenge, the relying-party and user metadata, and the user's
// existing credential IDs as an exclusion list. The returned Session must be
// presented to CompleteCeremony; it is valid for the configured timeout.
func (s *Service) IssueChallenge(ctx context.Context, username string) (*protocol.CredentialCreation, *Session, error) {
	if username == "" {
		return nil, nil, ErrMissingUsername
	}

	user, err := s.users.GetUser(ctx, username)
	if err != nil {
		if !IsUserNotFound(err) {
			return nil, nil, WrapError("get user", err)
		}
		user = NewUser(username)
		if err := s.users.SaveUser(ctx, user); err != nil {
			if !errors.Is(err, ErrUserExists) {
				return nil, nil, WrapError("save user", err)
			}
			// Lost a race with a concurrent registration for the same
			// username; use the record that won.
			user, err = s.users.GetUser(ctx, username)
			if err != nil {
				return nil, nil, WrapError("get user", err)
			}
		}
	}

	options, sessionData, err := s.webauthn.BeginRegistration(user,
		webauthn.WithExclusions(user.CredentialDescriptors()),
		webauthn.WithCredentialParameters(credentialParameters),
		webauthn.WithExtensions(protocol.AuthenticationExtensions{"credProps": true}),
	)
	if err != nil {
		return nil, nil, WrapError("begin registration", err)
	}

	return options, &Session{Username: username, Data: *sessionData}, nil
}

// CompleteCeremony finishes a registration ceremony. The session must hold
// the challenge issued by IssueChallenge; otherwise the verifier is never
// invoked. On success the new credential is committed to the store. The
// caller must discard the session on any terminal outcome so a spent
// challenge cannot be replayed.
func (s *Service) CompleteCeremony(ctx context.Context, sess *Session, response *protocol.ParsedCredentialCreationData) (*Credential, error) {
	if !sess.Valid() {
		return nil, ErrInvalidSession
	}

	user, err := s.users.GetUser(ctx, sess.Username)
	if err != nil {
		return nil, WrapError("get user", err)
	}

	// Options advertise user verification as preferred; the verification
	// itself demands it.
	data := sess.Data
	data.UserVerification = protocol.VerificationRequired

	wc, err := s.webauthn.CreateCredential(user, data, response)
	if err != nil {
		return nil, verifierError("create credential", err)
	}

	cred := FromWebAuthnCredential(wc)
	if err := s.users.SaveAuthCredential(ctx, user.Username, cred); err != nil {
		// Store invariant wins: a duplicate credential is a failed
		// registration even though cryptographic verification succeeded.
		return nil, WrapError("save credential", err)
	}

	return cred, nil
}

// IssueAssertion starts an authentication ceremony for the given username.
func (s *Service) IssueAssertion(ctx context.Context, username string) (*protocol.CredentialAssertion, *Session, error) {
	if username == "" {
		return nil, nil, ErrMissingUsername
	}

	user, err := s.users.GetUser(ctx, username)
	if err != nil {
		return nil, nil, WrapError("get user", err)
	}
	if len(user.Credentials) == 0 {
		return nil, nil, ErrNoCredentials
	}

	options, sessionData, err := s.webauthn.BeginLogin(user)
	if err != nil {
		return nil, nil, WrapError("begin login", err)
	}

	return options, &Session{Username: username, Data: *sessionData}, nil
}

// CompleteAssertion finishes an authentication ceremony. On success the
// credential's signature counter is advanced in the store and, when a
// TokenIssuer is configured, a token is returned. A counter that fails to
// move forward is treated as a cloned-authenticator signal and rejected.
func (s *Service) CompleteAssertion(ctx context.Context, sess *Session, response *protocol.ParsedCredentialAssertionData) (*Credential, string, error) {
	if !sess.Valid() {
		return nil, "", ErrInvalidSession
	}

	user, err := s.users.GetUser(ctx, sess.Username)
	if err != nil {
		return nil, "", WrapError("get user", err)
	}

	data := sess.Data
	data.UserVerification = protocol.VerificationRequired

	wc, err := s.webauthn.ValidateLogin(user, data, response)
	if err != nil {
		return nil, "", verifierError("validate login", err)
	}
	if wc.Authenticator.CloneWarning {
		return nil, "", WrapError("validate login", ErrCounterRegression)
	}

	if err := s.users.UpdateCredentialCounter(ctx, user.Username, wc.ID, wc.Authenticator.SignCount); err != nil {
		return nil, "", WrapError("update counter", err)
	}

	updated, err := s.users.GetUser(ctx, user.Username)
	if err != nil {
		return nil, "", WrapError("get user", err)
	}
	cred := updated.Credential(wc.ID)
	if cred == nil {
		return nil, "", WrapError("get credential", ErrCredentialNotFound)
	}

	var token string
	if s.tokens != nil {
		token, err = s.tokens.IssueToken(ctx, updated)
		if err != nil {
			return nil, "", WrapError("issue token", err)
		}
	}

	return cred, token, nil
}

// Config returns the service configuration.
func (s *Service) Config() *Config {
	return s.config
}

// verifierError classifies an error from the verifier library. Protocol
// errors are failed verifications; anything else is unexpected and surfaces
// as an internal failure.
func verifierError(op string, err error) error {
	var pe *protocol.Error
	if errors.As(err, &pe) {
		return &Error{Op: op, Err: fmt.Errorf("%w: %v", ErrVerificationFailed, err)}
	}
	return WrapError(op, err)
}
