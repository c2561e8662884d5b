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
	"fmt"
	"time"

	"github.com/go-webauthn/webauthn/protocol"
	"github.com/go-webauthn/webauthn/webauthn"
	"gopkg.in/yaml.v3"
)

// Config configures the relying party.
type Config struct {
	// RPID is the relying-party identifier, typically the domain name
	// the ceremony is served from. Example: "localhost"
	RPID string `yaml:"id" json:"id"`

	// RPDisplayName is the human-readable relying-party name shown in
	// authenticator prompts.
	RPDisplayName string `yaml:"display_name" json:"display_name"`

	// RPOrigins are the allowed web origins (scheme://host[:port]) for
	// ceremony responses.
	RPOrigins []string `yaml:"origins" json:"origins"`

	// Timeout is the ceremony timeout advertised to the client platform and
	// enforced server-side as the challenge validity window.
	// Default: 60 seconds.
	Timeout time.Duration `yaml:"timeout" json:"timeout"`

	// Debug enables verifier debug logging.
	Debug bool `yaml:"debug" json:"debug"`
}

// UnmarshalYAML decodes the configuration, accepting the timeout in
// time.ParseDuration notation ("60s", "2m").
func (c *Config) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		RPID          string   `yaml:"id"`
		RPDisplayName string   `yaml:"display_name"`
		RPOrigins     []string `yaml:"origins"`
		Timeout       string   `yaml:"timeout"`
		Debug         bool     `yaml:"debug"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}

	c.RPID = raw.RPID
	c.RPDisplayName = raw.RPDisplayName
	c.RPOrigins = raw.RPOrigins
	c.Debug = raw.Debug
	if raw.Timeout != "" {
		timeout, err := time.ParseDuration(raw.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout: %w", err)
		}
		c.Timeout = timeout
	}
	return nil
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if c.RPID == "" {
		return fmt.Errorf("RPID is required")
	}
	if c.RPDisplayName == "" {
		return fmt.Errorf("RPDisplayName is required")
	}
	if len(c.RPOrigins) == 0 {
		return fmt.Errorf("at least one RPOrigin is required")
	}
	return nil
}

// SetDefaults sets default values for unset configuration fields.
func (c *Config) SetDefaults() {
	if c.RPDisplayName == "" {
		c.RPDisplayName = "Passkeys Auth"
	}
	if c.Timeout == 0 {
		c.Timeout = 60 * time.Second
	}
}

// ToWebAuthnConfig converts the Config to the verifier library's
// configuration. Attestation is not requested; resident keys and user
// verification are advertised as preferred. The timeout is enforced so an
// issued challenge expires server-side independent of the session cookie
// lifetime.
func (c *Config) ToWebAuthnConfig() *webauthn.Config {
	return &webauthn.Config{
		RPID:                  c.RPID,
		RPDisplayName:         c.RPDisplayName,
		RPOrigins:             c.RPOrigins,
		AttestationPreference: protocol.PreferNoAttestation,
		AuthenticatorSelection: protocol.AuthenticatorSelection{
			ResidentKey:      protocol.ResidentKeyRequirementPreferred,
			UserVerification: protocol.VerificationPreferred,
		},
		Timeouts: webauthn.TimeoutsConfig{
			Login: webauthn.TimeoutConfig{
				Enforce:    true,
				Timeout:    c.Timeout,
				TimeoutUVD: c.Timeout,
			},
			Registration: webauthn.TimeoutConfig{
				Enforce:    true,
				Timeout:    c.Timeout,
				TimeoutUVD: c.Timeout,
			},
		},
		Debug: c.Debug,
	}
}
