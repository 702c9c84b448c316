package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// MasterKeyEnv is the environment variable holding the secrets master key.
const MasterKeyEnv = "FPTCTL_MASTER_KEY"

const (
	defaultDirName    = ".fptctl"
	masterKeyFileName = "master.key"
)

// LoadEnv loads a .env file from the working directory when one exists.
// Existing environment variables win over file values.
func LoadEnv() {
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}
}

// MasterKeyPath is where the master key file lives.
func MasterKeyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, defaultDirName, masterKeyFileName)
}

// MasterKey returns the secrets master key from the environment or the
// key file, empty when neither is set.
func MasterKey() string {
	if key := os.Getenv(MasterKeyEnv); key != "" {
		return key
	}

	path := MasterKeyPath()
	if path == "" {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// StateDir is where run history and the master key are stored.
func StateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return defaultDirName
	}
	return filepath.Join(home, defaultDirName)
}
