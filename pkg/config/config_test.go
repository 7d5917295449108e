package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvTenantID, "")
	t.Setenv(EnvSubdomain, "")
	t.Setenv(EnvClientID, "")
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvTenantID, "abc1234")
	t.Setenv(EnvSubdomain, "acme")
	t.Setenv(EnvClientID, "svc-user@acme")

	cfg, err := Load(Options{EnvFile: writeFile(t, t.TempDir(), ".env", "")})
	require.NoError(t, err)

	assert.Equal(t, "abc1234", cfg.TenantID)
	assert.Equal(t, "acme", cfg.Subdomain)
	assert.Equal(t, "svc-user@acme", cfg.ClientID)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnvFile(t *testing.T) {
	clearEnv(t)
	envFile := writeFile(t, t.TempDir(), ".env",
		EnvTenantID+"=tenant-from-file\n"+
			EnvSubdomain+"=sub-from-file\n"+
			EnvClientID+"=client-from-file\n")

	cfg, err := Load(Options{EnvFile: envFile})
	require.NoError(t, err)

	assert.Equal(t, "tenant-from-file", cfg.TenantID)
	assert.Equal(t, "sub-from-file", cfg.Subdomain)
	assert.Equal(t, "client-from-file", cfg.ClientID)
}

func TestEnvironmentOverridesEnvFile(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvTenantID, "tenant-from-env")
	envFile := writeFile(t, t.TempDir(), ".env", EnvTenantID+"=tenant-from-file\n")

	cfg, err := Load(Options{EnvFile: envFile})
	require.NoError(t, err)

	assert.Equal(t, "tenant-from-env", cfg.TenantID)
}

func TestLoadFromYAMLFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	cfgFile := writeFile(t, dir, "config.yaml",
		"tenant_id: yaml-tenant\nsubdomain: yaml-sub\nclient_id: yaml-client\n")

	cfg, err := Load(Options{ConfigFile: cfgFile, EnvFile: writeFile(t, dir, ".env", "")})
	require.NoError(t, err)

	assert.Equal(t, "yaml-tenant", cfg.TenantID)
	assert.Equal(t, "yaml-sub", cfg.Subdomain)
	assert.Equal(t, "yaml-client", cfg.ClientID)
}

func TestEnvFileOverridesYAMLFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	cfgFile := writeFile(t, dir, "config.yaml", "tenant_id: yaml-tenant\n")
	envFile := writeFile(t, dir, ".env", EnvTenantID+"=dotenv-tenant\n")

	cfg, err := Load(Options{ConfigFile: cfgFile, EnvFile: envFile})
	require.NoError(t, err)

	assert.Equal(t, "dotenv-tenant", cfg.TenantID)
}

func TestLoadExplicitEnvFileMustExist(t *testing.T) {
	clearEnv(t)

	_, err := Load(Options{EnvFile: filepath.Join(t.TempDir(), "nope.env")})
	assert.Error(t, err)
}

func TestLoadBadConfigFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	cfgFile := writeFile(t, dir, "config.yaml", "tenant_id: [unclosed\n")

	_, err := Load(Options{ConfigFile: cfgFile, EnvFile: writeFile(t, dir, ".env", "")})
	assert.Error(t, err)
}

func TestValidateReportsEveryMissingSetting(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		missing []string
	}{
		{"all missing", Config{}, []string{EnvTenantID, EnvSubdomain, EnvClientID}},
		{"tenant missing", Config{Subdomain: "s", ClientID: "c"}, []string{EnvTenantID}},
		{"subdomain missing", Config{TenantID: "t", ClientID: "c"}, []string{EnvSubdomain}},
		{"client id missing", Config{TenantID: "t", Subdomain: "s"}, []string{EnvClientID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			var missingErr *MissingConfigError
			require.ErrorAs(t, err, &missingErr)
			assert.Equal(t, tt.missing, missingErr.Missing)
			assert.Contains(t, err.Error(), tt.missing[0])
		})
	}
}
