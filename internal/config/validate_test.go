package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	cfg := Default()
	cfg.Data.Seed = ""
	return cfg
}

func TestValidate_Valid(t *testing.T) {
	assert.Empty(t, validConfig().Validate())
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"port negative", func(c *Config) { c.Server.Port = -1 }, "server.port"},
		{"log level", func(c *Config) { c.Server.LogLevel = "trace" }, "server.log_level"},
		{"log format", func(c *Config) { c.Server.LogFormat = "xml" }, "server.log_format"},
		{"negative read timeout", func(c *Config) { c.Server.ReadTimeout.Duration = -time.Second }, "server.read_timeout"},
		{"negative idle timeout", func(c *Config) { c.Server.IdleTimeout.Duration = -time.Second }, "server.idle_timeout"},
		{"driver", func(c *Config) { c.Store.Driver = "redis" }, "store.driver"},
		{"postgres dsn", func(c *Config) { c.Store.Driver = "postgres" }, "store.dsn"},
		{"seed missing", func(c *Config) { c.Data.Seed = filepath.Join(t.TempDir(), "none.json") }, "data.seed"},
		{"origin path", func(c *Config) { c.CORS.AllowedOrigins = []string{"https://movies.com/app"} }, "cors.allowed_origins[0]"},
		{"origin bare host", func(c *Config) { c.CORS.AllowedOrigins = []string{"movies.com"} }, "cors.allowed_origins[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(cfg)
			errs := cfg.Validate()
			if assert.Len(t, errs, 1, "errors: %v", errs) {
				assert.True(t, strings.HasPrefix(errs[0], tt.want), "got %q", errs[0])
			}
		})
	}
}
