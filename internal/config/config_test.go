package config

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
	if cfg.Search.DefaultCount != 50 || cfg.Search.MaxCount != 100 {
		t.Errorf("unexpected search bounds %d/%d", cfg.Search.DefaultCount, cfg.Search.MaxCount)
	}
	if cfg.Search.DefaultCountry != "BR" {
		t.Errorf("unexpected default country %q", cfg.Search.DefaultCountry)
	}
	if cfg.Rendering.Enabled || cfg.Robots.Respect {
		t.Error("rendering and robots must be off by default")
	}
	if len(cfg.Fetch.UserAgents) == 0 {
		t.Error("default user agent pool must not be empty")
	}
}

func TestLoadFromReaderOverlaysDefaults(t *testing.T) {
	doc := `
server:
  addr: ":8080"
  cors_origins: ["https://a.example", "https://a.example", " "]
fetch:
  timeout: 5s
  max_redirects: 1
  throttle:
    requests: 2
    window: 1s
search:
  default_count: 10
  default_country: us
`
	cfg, err := LoadFromReader(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Errorf("unexpected addr %q", cfg.Server.Addr)
	}
	if len(cfg.Server.CORSOrigins) != 1 {
		t.Errorf("expected deduped origins, got %v", cfg.Server.CORSOrigins)
	}
	if cfg.Fetch.Timeout.Duration != 5*time.Second {
		t.Errorf("unexpected timeout %v", cfg.Fetch.Timeout.Duration)
	}
	if cfg.Fetch.MaxRedirects != 1 {
		t.Errorf("unexpected max_redirects %d", cfg.Fetch.MaxRedirects)
	}
	if !cfg.Fetch.Throttle.Enabled() {
		t.Error("throttle should be enabled")
	}
	if cfg.Search.DefaultCount != 10 {
		t.Errorf("unexpected default_count %d", cfg.Search.DefaultCount)
	}
	// Untouched sections keep their defaults.
	if cfg.Search.MaxCount != 100 {
		t.Errorf("expected default max_count, got %d", cfg.Search.MaxCount)
	}
	if len(cfg.Fetch.UserAgents) == 0 {
		t.Error("user agent pool must survive a partial overlay")
	}
}

func TestLoadFromReaderRejectsUnknownFields(t *testing.T) {
	if _, err := LoadFromReader(strings.NewReader("serverr:\n  addr: \":1\"\n")); err == nil {
		t.Fatal("expected unknown field to be rejected")
	}
}

func TestValidateFailures(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty addr", func(c *Config) { c.Server.Addr = "  " }},
		{"zero timeout", func(c *Config) { c.Fetch.Timeout = Duration{} }},
		{"negative redirects", func(c *Config) { c.Fetch.MaxRedirects = -1 }},
		{"zero body cap", func(c *Config) { c.Fetch.MaxBodyBytes = 0 }},
		{"empty ua pool", func(c *Config) { c.Fetch.UserAgents = nil }},
		{"negative throttle", func(c *Config) { c.Fetch.Throttle.Requests = -1 }},
		{"zero max_count", func(c *Config) { c.Search.MaxCount = 0 }},
		{"default above max", func(c *Config) { c.Search.DefaultCount = 101 }},
		{"empty country", func(c *Config) { c.Search.DefaultCountry = "" }},
		{"respect without agent", func(c *Config) { c.Robots.Respect = true; c.Robots.UserAgent = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestThrottleEnabled(t *testing.T) {
	var zero ThrottleConfig
	if zero.Enabled() {
		t.Error("zero throttle must be disabled")
	}
	half := ThrottleConfig{Requests: 3}
	if half.Enabled() {
		t.Error("throttle without a window must be disabled")
	}
	full := ThrottleConfig{Requests: 3, Window: DurationFrom(time.Second)}
	if !full.Enabled() {
		t.Error("throttle with requests and window must be enabled")
	}
}

func TestDurationYAMLForms(t *testing.T) {
	doc := `
server:
  shutdown_timeout: 30s
fetch:
  timeout: 90
`
	cfg, err := LoadFromReader(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	if cfg.Server.ShutdownTimeout.Duration != 30*time.Second {
		t.Errorf("unexpected shutdown_timeout %v", cfg.Server.ShutdownTimeout.Duration)
	}
	if cfg.Fetch.Timeout.Duration != 90*time.Second {
		t.Errorf("expected bare numbers to mean seconds, got %v", cfg.Fetch.Timeout.Duration)
	}
}
