package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arineng/foreman-ptable/internal/crypto"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fptctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
foreman:
  host: foreman.example.com
  port: 8443
  username: admin
  password: changeme
  tls: true
ptables:
  - name: FreeBSD
    layout: zfs on root
    os_family: FreeBSD
    locations: [emea, apac]
  - name: legacy
    layout: whatever
    state: absent
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "foreman.example.com", cfg.Foreman.Host)
	assert.Equal(t, 8443, cfg.Foreman.Port)
	require.Len(t, cfg.Ptables, 2)
	assert.Equal(t, "FreeBSD", cfg.Ptables[0].Name)
	assert.Equal(t, []string{"emea", "apac"}, cfg.Ptables[0].Locations)
	assert.Equal(t, "absent", cfg.Ptables[1].State.String())

	settings := cfg.Settings()
	assert.True(t, settings.UseTLS)
	assert.Equal(t, "https://foreman.example.com:8443/api/v2", settings.BaseURL())
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
foreman:
  username: admin
  password: changeme
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Foreman.Host)
	assert.Equal(t, 443, cfg.Foreman.Port)
	assert.True(t, cfg.Settings().UseTLS, "TLS defaults to on")
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
foreman:
  host: from-file
  username: file-user
  password: file-pass
`)

	t.Setenv("FOREMAN_HOST", "from-env")
	t.Setenv("FOREMAN_PORT", "9090")
	t.Setenv("FOREMAN_USER", "env-user")
	t.Setenv("FOREMAN_PASS", "env-pass")
	t.Setenv("FOREMAN_TLS", "false")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Foreman.Host)
	assert.Equal(t, 9090, cfg.Foreman.Port)
	assert.Equal(t, "env-user", cfg.Foreman.Username)
	assert.Equal(t, "env-pass", cfg.Foreman.Password)
	assert.False(t, cfg.Settings().UseTLS)
}

func TestLoad_EncryptedPassword(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	encrypted, err := crypto.Encrypt("real-pass", key)
	require.NoError(t, err)

	path := writeConfig(t, `
foreman:
  username: admin
  password: '`+encrypted+`'
`)

	t.Setenv(MasterKeyEnv, key)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "real-pass", cfg.Foreman.Password)
}

func TestLoad_EncryptedPasswordWithoutKeyFails(t *testing.T) {
	key, _ := crypto.GenerateKey()
	encrypted, _ := crypto.Encrypt("real-pass", key)

	path := writeConfig(t, `
foreman:
  username: admin
  password: '`+encrypted+`'
`)

	t.Setenv(MasterKeyEnv, "")
	t.Setenv("HOME", t.TempDir()) // no key file either

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "master key")
}

func TestLoad_ValidationFailures(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			"missing username",
			"foreman:\n  password: x\n",
			"username is required",
		},
		{
			"missing password",
			"foreman:\n  username: admin\n",
			"password is required",
		},
		{
			"bad definition",
			"foreman:\n  username: a\n  password: b\nptables:\n  - name: x\n",
			"either layout or layout_file",
		},
		{
			"duplicate definition",
			"foreman:\n  username: a\n  password: b\nptables:\n  - name: x\n    layout: l\n  - name: x\n    layout: l2\n",
			"duplicate partition table",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.yaml)
			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not read config file")
}
