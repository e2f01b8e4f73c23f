package config

import (
	"strings"
	"testing"
)

func validConfig() Config {
	cfg := Config{Backend: BackendConfig{BaseURL: "https://api.example.com"}}
	cfg.ApplyDefaults()
	return cfg
}

func TestApplyDefaults(t *testing.T) {
	cfg := validConfig()
	if cfg.HTTP.Port != 8080 || cfg.Backend.TimeoutSec != 30 {
		t.Errorf("http/backend defaults = %+v %+v", cfg.HTTP, cfg.Backend)
	}
	if cfg.Cache.Driver != "none" || cfg.Cache.Enabled() {
		t.Errorf("cache driver = %q", cfg.Cache.Driver)
	}
	if cfg.Cache.DateRangeTTLSec != 3600 || cfg.Cache.CatalogSize != 256 || cfg.Cache.CatalogTTLSec != 300 {
		t.Errorf("cache defaults = %+v", cfg.Cache)
	}
	if cfg.Batch.PollIntervalMS != 2000 || cfg.Batch.MaxAttempts != 0 {
		t.Errorf("batch defaults = %+v", cfg.Batch)
	}
	if cfg.Cases.Enabled() {
		t.Error("cases should be disabled without a DSN")
	}
}

func TestApplyDefaults_NegativeCatalogSizeKept(t *testing.T) {
	cfg := Config{Cache: CacheConfig{CatalogSize: -1}}
	cfg.ApplyDefaults()
	if cfg.Cache.CatalogSize != -1 {
		t.Errorf("CatalogSize = %d, negative disables the catalog cache", cfg.Cache.CatalogSize)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad port", func(c *Config) { c.HTTP.Port = 70000 }, "http.port"},
		{"missing backend", func(c *Config) { c.Backend.BaseURL = "" }, "backend.base_url is required"},
		{"relative backend", func(c *Config) { c.Backend.BaseURL = "/api" }, "backend.base_url must be"},
		{"bad identity", func(c *Config) { c.Identity.URL = "ftp://id" }, "identity.url"},
		{"bad jwks", func(c *Config) { c.Identity.JWKSURL = "jwks.json" }, "identity.jwks_url"},
		{"cases without identity", func(c *Config) { c.Cases.DSN = "postgres://db/lexsearch" }, "verify case owners"},
		{"cases with jwks", func(c *Config) {
			c.Cases.DSN = "postgres://db/lexsearch"
			c.Identity.JWKSURL = "https://id.example.com/auth/v1/.well-known/jwks.json"
		}, ""},
		{"cases with identity", func(c *Config) {
			c.Cases.DSN = "postgres://db/lexsearch"
			c.Identity.URL = "https://id.example.com"
		}, ""},
		{"unknown driver", func(c *Config) { c.Cache.Driver = "memcached" }, "cache.driver"},
		{"valkey without addrs", func(c *Config) { c.Cache.Driver = "valkey" }, "cache.addrs"},
		{"negative attempts", func(c *Config) { c.Batch.MaxAttempts = -1 }, "batch.max_attempts"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestParse_ExpandsEnv(t *testing.T) {
	t.Setenv("LEXSEARCH_TEST_BACKEND", "https://docs.example.com")
	data := []byte(`
backend:
  base_url: ${LEXSEARCH_TEST_BACKEND}
cache:
  driver: ${LEXSEARCH_TEST_UNSET_DRIVER:-valkey}
  addrs: ["localhost:6379"]
cases:
  dsn: ${LEXSEARCH_TEST_UNSET_DSN:-}
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Backend.BaseURL != "https://docs.example.com" {
		t.Errorf("base_url = %q", cfg.Backend.BaseURL)
	}
	if cfg.Cache.Driver != "valkey" || !cfg.Cache.Enabled() {
		t.Errorf("driver = %q", cfg.Cache.Driver)
	}
	if cfg.Cases.Enabled() {
		t.Errorf("dsn = %q, want empty", cfg.Cases.DSN)
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := Parse([]byte("backend: [")); err == nil {
		t.Error("expected parse error")
	}
	if _, err := Parse([]byte("http:\n  port: 8080\n")); err == nil {
		t.Error("expected validation error for missing backend")
	}
}
