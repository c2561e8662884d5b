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

// Package metrics exposes Prometheus counters for ceremony outcomes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Ceremony identifies which ceremony a metric belongs to.
const (
	CeremonyRegistration   = "registration"
	CeremonyAuthentication = "authentication"
)

var (
	// CeremoniesStarted counts IssueChallenge/IssueAssertion calls that
	// produced options.
	CeremoniesStarted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "passkey",
		Name:      "ceremonies_started_total",
		Help:      "Number of WebAuthn ceremonies started, by ceremony type.",
	}, []string{"ceremony"})

	// CeremoniesCompleted counts ceremonies that verified successfully.
	CeremoniesCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "passkey",
		Name:      "ceremonies_completed_total",
		Help:      "Number of WebAuthn ceremonies completed successfully, by ceremony type.",
	}, []string{"ceremony"})

	// CeremoniesFailed counts terminal ceremony failures, by reason.
	CeremoniesFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "passkey",
		Name:      "ceremonies_failed_total",
		Help:      "Number of WebAuthn ceremonies that failed, by ceremony type and reason.",
	}, []string{"ceremony", "reason"})
)
