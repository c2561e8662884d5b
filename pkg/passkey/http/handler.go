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
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-webauthn/webauthn/protocol"
	"github.com/jeremyhahn/go-passkey-server/internal/metrics"
	"github.com/jeremyhahn/go-passkey-server/pkg/passkey"
)

// Handler provides the HTTP surface for passkey ceremonies: JSON endpoints
// for the two-phase registration and authentication protocols, plus
// server-rendered views for the demo pages.
type Handler struct {
	service  *passkey.Service
	sessions *SessionManager
	views    *Views
	logger   *slog.Logger
}

// NewHandler creates a new passkey HTTP handler.
func NewHandler(service *passkey.Service, sessions *SessionManager) *Handler {
	return &Handler{
		service:  service,
		sessions: sessions,
		views:    NewViews(),
		logger:   slog.Default(),
	}
}

// WithLogger sets a custom logger for the handler.
func (h *Handler) WithLogger(logger *slog.Logger) *Handler {
	h.logger = logger
	return h
}

// Home handles GET /.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, h.logger, "home", ViewData{
		Title:   "WebAuthn Demo",
		Message: "Welcome to the WebAuthn demo app",
	})
}

// RegisterView handles GET /register.
func (h *Handler) RegisterView(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, h.logger, "register", ViewData{Title: "Register a Passkey"})
}

// AuthenticateView handles GET /authenticate.
func (h *Handler) AuthenticateView(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, h.logger, "authenticate", ViewData{Title: "Sign In with a Passkey"})
}

// RegistrationOptions handles POST /register/options.
//
// Request body: {"username": "alice"}
// Response: WebAuthn credential creation options. The issued challenge and
// username are bound to the caller's session cookie; issuing options again
// overwrites the pending binding, so only the most recent challenge
// validates.
func (h *Handler) RegistrationOptions(w http.ResponseWriter, r *http.Request) {
	var req OptionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: msgMissingUsername})
		return
	}

	options, sess, err := h.service.IssueChallenge(r.Context(), req.Username)
	if err != nil {
		h.handleCeremonyError(w, metrics.CeremonyRegistration, msgRegistrationFailed, err)
		return
	}

	if err := h.sessions.Save(w, r, sess); err != nil {
		h.logger.Error("failed to save ceremony session", "error", err)
		h.writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: msgRegistrationFailed})
		return
	}

	metrics.CeremoniesStarted.WithLabelValues(metrics.CeremonyRegistration).Inc()
	h.writeJSON(w, http.StatusOK, options)
}

// FinishRegistration handles POST /register.
//
// Request body: the client attestation response. The ceremony session is
// cleared on every terminal outcome, success or failure, so a spent
// challenge cannot be replayed.
func (h *Handler) FinishRegistration(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.Load(r)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: msgInvalidSessionState})
		return
	}

	response, err := protocol.ParseCredentialCreationResponseBody(r.Body)
	if err != nil {
		h.sessions.Clear(w, r)
		metrics.CeremoniesFailed.WithLabelValues(metrics.CeremonyRegistration, "bad_response").Inc()
		h.writeJSON(w, http.StatusBadRequest, VerifyResponse{Verified: false, Error: msgVerificationFailed})
		return
	}

	_, err = h.service.CompleteCeremony(r.Context(), sess, response)
	h.sessions.Clear(w, r)
	if err != nil {
		h.handleCeremonyError(w, metrics.CeremonyRegistration, msgRegistrationFailed, err)
		return
	}

	metrics.CeremoniesCompleted.WithLabelValues(metrics.CeremonyRegistration).Inc()
	h.writeJSON(w, http.StatusOK, VerifyResponse{Verified: true})
}

// AuthenticationOptions handles POST /authenticate/options.
func (h *Handler) AuthenticationOptions(w http.ResponseWriter, r *http.Request) {
	var req OptionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: msgMissingUsername})
		return
	}

	options, sess, err := h.service.IssueAssertion(r.Context(), req.Username)
	if err != nil {
		h.handleCeremonyError(w, metrics.CeremonyAuthentication, msgAuthenticationFailed, err)
		return
	}

	if err := h.sessions.Save(w, r, sess); err != nil {
		h.logger.Error("failed to save ceremony session", "error", err)
		h.writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: msgAuthenticationFailed})
		return
	}

	metrics.CeremoniesStarted.WithLabelValues(metrics.CeremonyAuthentication).Inc()
	h.writeJSON(w, http.StatusOK, options)
}

// FinishAuthentication handles POST /authenticate.
func (h *Handler) FinishAuthentication(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.Load(r)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: msgInvalidSessionState})
		return
	}

	response, err := protocol.ParseCredentialRequestResponseBody(r.Body)
	if err != nil {
		h.sessions.Clear(w, r)
		metrics.CeremoniesFailed.WithLabelValues(metrics.CeremonyAuthentication, "bad_response").Inc()
		h.writeJSON(w, http.StatusBadRequest, VerifyResponse{Verified: false, Error: msgVerificationFailed})
		return
	}

	_, token, err := h.service.CompleteAssertion(r.Context(), sess, response)
	h.sessions.Clear(w, r)
	if err != nil {
		h.handleCeremonyError(w, metrics.CeremonyAuthentication, msgAuthenticationFailed, err)
		return
	}

	metrics.CeremoniesCompleted.WithLabelValues(metrics.CeremonyAuthentication).Inc()
	h.writeJSON(w, http.StatusOK, VerifyResponse{Verified: true, Token: token})
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// handleCeremonyError maps orchestrator errors to HTTP responses. Client
// input and session errors get descriptive 400s; failed verification gets
// the structured {"verified":false} body; everything else is an unexpected
// verifier failure reported as a generic 500 with full detail logged.
func (h *Handler) handleCeremonyError(w http.ResponseWriter, ceremony, generic string, err error) {
	switch {
	case errors.Is(err, passkey.ErrMissingUsername):
		metrics.CeremoniesFailed.WithLabelValues(ceremony, "missing_username").Inc()
		h.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: msgMissingUsername})
	case errors.Is(err, passkey.ErrInvalidSession):
		metrics.CeremoniesFailed.WithLabelValues(ceremony, "invalid_session").Inc()
		h.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: msgInvalidSessionState})
	case errors.Is(err, passkey.ErrUserNotFound):
		metrics.CeremoniesFailed.WithLabelValues(ceremony, "user_not_found").Inc()
		h.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: msgUserNotFound})
	case errors.Is(err, passkey.ErrNoCredentials):
		metrics.CeremoniesFailed.WithLabelValues(ceremony, "no_credentials").Inc()
		h.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: msgNoCredentials})
	case errors.Is(err, passkey.ErrVerificationFailed),
		errors.Is(err, passkey.ErrCredentialExists),
		errors.Is(err, passkey.ErrCounterRegression):
		metrics.CeremoniesFailed.WithLabelValues(ceremony, "verification_failed").Inc()
		h.writeJSON(w, http.StatusBadRequest, VerifyResponse{Verified: false, Error: msgVerificationFailed})
	default:
		metrics.CeremoniesFailed.WithLabelValues(ceremony, "internal").Inc()
		h.logger.Error("ceremony failed", "ceremony", ceremony, "error", err)
		h.writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: generic})
	}
}

// writeJSON writes a JSON response.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Response headers already written, can only log the error
		h.logger.Error("failed to encode JSON response",
			"error", err,
			"status", status)
	}
}
