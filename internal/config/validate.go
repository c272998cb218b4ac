package config

import (
	"fmt"
	"net/url"
	"os"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true,
}

var validLogFormats = map[string]bool{
	"text": true, "json": true,
}

var validDrivers = map[string]bool{
	"memory": true, "sqlite": true, "postgres": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	// Server validation
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port: must be between 1 and 65535, got %d", c.Server.Port))
	}
	if !validLogLevels[c.Server.LogLevel] {
		errs = append(errs, fmt.Sprintf("server.log_level: must be one of debug, info, warn, error; got %q", c.Server.LogLevel))
	}
	if !validLogFormats[c.Server.LogFormat] {
		errs = append(errs, fmt.Sprintf("server.log_format: must be text or json; got %q", c.Server.LogFormat))
	}
	timeouts := []struct {
		name string
		d    Duration
	}{
		{"shutdown_timeout", c.Server.ShutdownTimeout},
		{"read_header_timeout", c.Server.ReadHeaderTimeout},
		{"read_timeout", c.Server.ReadTimeout},
		{"write_timeout", c.Server.WriteTimeout},
		{"idle_timeout", c.Server.IdleTimeout},
	}
	for _, to := range timeouts {
		if to.d.Duration < 0 {
			errs = append(errs, fmt.Sprintf("server.%s: must not be negative", to.name))
		}
	}

	// Store validation
	if !validDrivers[c.Store.Driver] {
		errs = append(errs, fmt.Sprintf("store.driver: must be one of memory, sqlite, postgres; got %q", c.Store.Driver))
	}
	if c.Store.Driver == "postgres" && c.Store.DSN == "" {
		errs = append(errs, "store.dsn: required when store.driver is postgres")
	}

	// Seed file must exist if set
	if c.Data.Seed != "" {
		if _, err := os.Stat(c.Data.Seed); err != nil {
			errs = append(errs, fmt.Sprintf("data.seed: %v", err))
		}
	}

	// CORS origins must be scheme://host[:port]
	for i, origin := range c.CORS.AllowedOrigins {
		u, err := url.Parse(origin)
		if err != nil || u.Scheme == "" || u.Host == "" || (u.Path != "" && u.Path != "/") {
			errs = append(errs, fmt.Sprintf("cors.allowed_origins[%d]: %q is not an origin", i, origin))
		}
	}

	return errs
}
