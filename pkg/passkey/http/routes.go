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

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Mount mounts the relying-party routes on a chi router.
//
// Example:
//
//	r := chi.NewRouter()
//	passkeyhttp.Mount(r, handler)
func Mount(r chi.Router, h *Handler) {
	r.Get("/", h.Home)

	r.Get("/register", h.RegisterView)
	r.Post("/register/options", h.RegistrationOptions)
	r.Post("/register", h.FinishRegistration)

	r.Get("/authenticate", h.AuthenticateView)
	r.Post("/authenticate/options", h.AuthenticationOptions)
	r.Post("/authenticate", h.FinishAuthentication)

	r.Get("/health", h.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Handle("/static/*", StaticHandler())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not Found", http.StatusNotFound)
	})
}

// Router returns a chi router with all relying-party routes mounted.
func Router(h *Handler) http.Handler {
	r := chi.NewRouter()
	Mount(r, h)
	return r
}
