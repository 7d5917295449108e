// Package config resolves the settings required to reach the CyberArk
// platform APIs. Values are seeded from an optional YAML file and an optional
// dotenv file; the process environment always takes precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variable names recognised by the loader.
const (
	EnvTenantID  = "CYBERARK_IDENTITY_TENANT_ID"
	EnvSubdomain = "CYBERARK_SUBDOMAIN"
	EnvClientID  = "CYBERARK_CLIENT_ID"
)

// DefaultEnvFile is the dotenv path consulted when no --env-file is given.
const DefaultEnvFile = ".env"

// Config holds the three settings every run needs. It is immutable once
// loaded; the client secret is deliberately not part of it.
type Config struct {
	TenantID  string `yaml:"tenant_id"`
	Subdomain string `yaml:"subdomain"`
	ClientID  string `yaml:"client_id"`
}

// Options controls where Load looks for file-based seeds.
type Options struct {
	// ConfigFile is an optional YAML file. Loading fails if it is set and
	// unreadable.
	ConfigFile string
	// EnvFile is an optional dotenv file. When empty, DefaultEnvFile is
	// consulted and a missing file is not an error; an explicitly named
	// file must exist.
	EnvFile string
}

// MissingConfigError reports the required settings that were not resolved.
type MissingConfigError struct {
	Missing []string
}

func (e *MissingConfigError) Error() string {
	return fmt.Sprintf("missing configuration: %s", strings.Join(e.Missing, ", "))
}

// Load resolves the configuration in precedence order: YAML file, dotenv
// file, process environment. It does not validate; call Validate before use.
func Load(opts Options) (*Config, error) {
	cfg := &Config{}

	if opts.ConfigFile != "" {
		data, err := os.ReadFile(opts.ConfigFile)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	envPath := opts.EnvFile
	explicit := envPath != ""
	if !explicit {
		envPath = DefaultEnvFile
	}
	vals, err := godotenv.Read(envPath)
	if err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read env file %s: %w", envPath, err)
		}
		vals = nil
	}

	apply := func(dst *string, key string) {
		if v := vals[key]; v != "" {
			*dst = v
		}
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	apply(&cfg.TenantID, EnvTenantID)
	apply(&cfg.Subdomain, EnvSubdomain)
	apply(&cfg.ClientID, EnvClientID)

	return cfg, nil
}

// Validate reports a MissingConfigError naming every required setting that is
// still empty. A valid configuration returns nil.
func (c *Config) Validate() error {
	var missing []string
	if c.TenantID == "" {
		missing = append(missing, EnvTenantID)
	}
	if c.Subdomain == "" {
		missing = append(missing, EnvSubdomain)
	}
	if c.ClientID == "" {
		missing = append(missing, EnvClientID)
	}
	if len(missing) > 0 {
		return &MissingConfigError{Missing: missing}
	}
	return nil
}
