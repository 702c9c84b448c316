package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/arineng/foreman-ptable/internal/crypto"
	"github.com/arineng/foreman-ptable/internal/foreman"
	"github.com/arineng/foreman-ptable/internal/ptable"
)

// ForemanConfig is the connection block of the desired-state file.
// Password may be a plain value or an ENC[AES256:...] wrapped one.
type ForemanConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	TLS      *bool  `yaml:"tls"`
}

// Config is the parsed desired-state file.
type Config struct {
	Foreman ForemanConfig       `yaml:"foreman"`
	Ptables []ptable.Definition `yaml:"ptables"`
}

// Load reads and validates a desired-state file. Environment variables
// (FOREMAN_HOST, FOREMAN_PORT, FOREMAN_USER, FOREMAN_PASS, FOREMAN_TLS)
// override the file; encrypted passwords are decrypted with the master
// key. Call LoadEnv first if a .env file should be honored.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("could not parse config file: %w", err)
	}

	cfg.applyEnvOverrides()
	cfg.applyDefaults()

	if err := cfg.decryptPassword(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the connection block and every definition.
func (c *Config) Validate() error {
	if c.Foreman.Username == "" {
		return fmt.Errorf("foreman username is required")
	}
	if c.Foreman.Password == "" {
		return fmt.Errorf("foreman password is required")
	}

	seen := make(map[string]bool, len(c.Ptables))
	for i := range c.Ptables {
		def := &c.Ptables[i]
		if err := def.Validate(); err != nil {
			return err
		}
		if seen[def.Name] {
			return fmt.Errorf("duplicate partition table %q in config", def.Name)
		}
		seen[def.Name] = true
	}
	return nil
}

// Settings builds the client connection settings.
func (c *Config) Settings() foreman.Settings {
	return foreman.Settings{
		Host:     c.Foreman.Host,
		Port:     c.Foreman.Port,
		Username: c.Foreman.Username,
		Password: c.Foreman.Password,
		UseTLS:   c.Foreman.TLS == nil || *c.Foreman.TLS,
	}
}

func (c *Config) applyDefaults() {
	if c.Foreman.Host == "" {
		c.Foreman.Host = "127.0.0.1"
	}
	if c.Foreman.Port == 0 {
		c.Foreman.Port = 443
	}
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("FOREMAN_HOST"); v != "" {
		c.Foreman.Host = v
	}
	if v := os.Getenv("FOREMAN_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Foreman.Port = port
		}
	}
	if v := os.Getenv("FOREMAN_USER"); v != "" {
		c.Foreman.Username = v
	}
	if v := os.Getenv("FOREMAN_PASS"); v != "" {
		c.Foreman.Password = v
	}
	if v := os.Getenv("FOREMAN_TLS"); v != "" {
		if tls, err := strconv.ParseBool(v); err == nil {
			c.Foreman.TLS = &tls
		}
	}
}

func (c *Config) decryptPassword() error {
	if !crypto.IsEncrypted(c.Foreman.Password) {
		return nil
	}

	key := MasterKey()
	if key == "" {
		return fmt.Errorf("foreman password is encrypted but no master key is available (set %s or create %s)", MasterKeyEnv, MasterKeyPath())
	}

	plain, err := crypto.Decrypt(c.Foreman.Password, key)
	if err != nil {
		return fmt.Errorf("could not decrypt foreman password: %w", err)
	}
	c.Foreman.Password = plain
	return nil
}
