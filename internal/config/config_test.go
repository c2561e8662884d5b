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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, DefaultSessionSecret, cfg.Session.Secret)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "localhost", cfg.Passkey.RPID)
	assert.Equal(t, "Passkeys Auth", cfg.Passkey.RPDisplayName)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Passkey.RPOrigins)
	assert.Equal(t, 60*time.Second, cfg.Passkey.Timeout)
	assert.Equal(t, ":3000", cfg.Addr())
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "no-such-config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  host: 127.0.0.1
  port: 8443
session:
  secret: file-secret
logging:
  level: debug
  format: json
passkey:
  id: passkeys.example.com
  display_name: Example Passkeys
  origins:
    - https://passkeys.example.com
  timeout: 30s
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 8443, cfg.Server.Port)
	assert.Equal(t, "127.0.0.1:8443", cfg.Addr())
	assert.Equal(t, "file-secret", cfg.Session.Secret)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "passkeys.example.com", cfg.Passkey.RPID)
	assert.Equal(t, "Example Passkeys", cfg.Passkey.RPDisplayName)
	assert.Equal(t, []string{"https://passkeys.example.com"}, cfg.Passkey.RPOrigins)
	assert.Equal(t, 30*time.Second, cfg.Passkey.Timeout)
}

func TestLoad_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a mapping"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 8080
session:
  secret: file-secret
`), 0o600))

	t.Setenv("PORT", "9090")
	t.Setenv("SESSION_SECRET", "env-secret")
	t.Setenv("PASSKEY_RP_ID", "env.example.com")
	t.Setenv("PASSKEY_RP_NAME", "Env Passkeys")
	t.Setenv("PASSKEY_RP_ORIGIN", "https://env.example.com")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "env-secret", cfg.Session.Secret)
	assert.Equal(t, "env.example.com", cfg.Passkey.RPID)
	assert.Equal(t, "Env Passkeys", cfg.Passkey.RPDisplayName)
	assert.Equal(t, []string{"https://env.example.com"}, cfg.Passkey.RPOrigins)
}

func TestLoad_EnvInvalidPortIgnored(t *testing.T) {
	t.Setenv("PORT", "not-a-number")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
}
