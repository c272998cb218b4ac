package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ConfigEnv names a config file explicitly.
const ConfigEnv = "MOVIEAPI_CONFIG"

// ErrNotFound is returned by Discover when no config file exists.
var ErrNotFound = errors.New("config not found")

// DefaultPath returns the XDG-compliant default config path.
func DefaultPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "./config.toml"
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "movieapi", "config.toml")
}

// Discover finds the config file using the standard search order.
// Search order:
//  1. MOVIEAPI_CONFIG environment variable
//  2. ./config.toml (current directory)
//  3. $XDG_CONFIG_HOME/movieapi/config.toml
//  4. /etc/movieapi/config.toml
func Discover() (string, error) {
	if envPath := os.Getenv(ConfigEnv); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return "", fmt.Errorf("%s=%s: %w", ConfigEnv, envPath, err)
		}
		return envPath, nil
	}

	paths := []string{
		"./config.toml",
		DefaultPath(),
		"/etc/movieapi/config.toml",
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", fmt.Errorf("%w, checked: %s", ErrNotFound, strings.Join(paths, ", "))
}

// Resolve loads the config at path, or the discovered one when path is empty.
// With nothing to discover it falls back to Default with env overrides applied.
func Resolve(path string) (*Config, string, error) {
	if path == "" {
		found, err := Discover()
		switch {
		case errors.Is(err, ErrNotFound):
			cfg := Default()
			if err := cfg.ApplyEnv(); err != nil {
				return nil, "", &Error{Errors: []string{err.Error()}}
			}
			if errs := cfg.Validate(); len(errs) > 0 {
				return nil, "", &Error{Errors: errs}
			}
			return cfg, "", nil
		case err != nil:
			return nil, "", err
		}
		path = found
	}

	cfg, err := Load(path)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}
