package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config captures the full configuration required to run the search service.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Fetch     FetchConfig     `yaml:"fetch"`
	Search    SearchConfig    `yaml:"search"`
	Robots    RobotsConfig    `yaml:"robots"`
	Rendering RenderingConfig `yaml:"rendering"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Addr            string   `yaml:"addr"`
	CORSOrigins     []string `yaml:"cors_origins"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`
}

// FetchConfig controls outbound page fetching.
type FetchConfig struct {
	Timeout      Duration          `yaml:"timeout"`
	MaxRedirects int               `yaml:"max_redirects"`
	MaxBodyBytes int64             `yaml:"max_body_bytes"`
	ProxyURL     string            `yaml:"proxy_url"`
	UserAgents   []string          `yaml:"user_agents"`
	Referer      string            `yaml:"referer"`
	Headers      map[string]string `yaml:"headers"`
	Throttle     ThrottleConfig    `yaml:"throttle"`
}

// ThrottleConfig applies an optional token bucket per target host.
type ThrottleConfig struct {
	Requests int      `yaml:"requests"`
	Window   Duration `yaml:"window"`
}

// Enabled reports whether per-host throttling is active.
func (t ThrottleConfig) Enabled() bool {
	return t.Requests > 0 && !t.Window.IsZero()
}

// SearchConfig bounds result counts and sets the country default.
type SearchConfig struct {
	DefaultCount   int    `yaml:"default_count"`
	MaxCount       int    `yaml:"max_count"`
	DefaultCountry string `yaml:"default_country"`
}

// RobotsConfig configures robots.txt handling. The scraper presents itself
// as a browser, so respecting robots is an operator opt-in.
type RobotsConfig struct {
	Respect   bool     `yaml:"respect"`
	UserAgent string   `yaml:"user_agent"`
	CacheTTL  Duration `yaml:"cache_ttl"`
}

// RenderingConfig controls optional JavaScript rendering for pages that
// withhold the embedded state from plain HTTP clients.
type RenderingConfig struct {
	Enabled            bool     `yaml:"enabled"`
	Timeout            Duration `yaml:"timeout"`
	WaitForSelector    string   `yaml:"wait_for_selector"`
	ConcurrentSessions int      `yaml:"concurrent_sessions"`
	DisableHeadless    bool     `yaml:"disable_headless"`
}

// LoggingConfig selects log verbosity and format.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	Structured bool   `yaml:"structured"`
}

// Default returns a Config populated with sensible defaults.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":3000",
			ShutdownTimeout: DurationFrom(15 * time.Second),
		},
		Fetch: FetchConfig{
			Timeout:      DurationFrom(15 * time.Second),
			MaxRedirects: 3,
			MaxBodyBytes: 6 * 1024 * 1024,
			UserAgents: []string{
				"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
				"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
				"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:125.0) Gecko/20100101 Firefox/125.0",
				"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15",
			},
			Referer: "https://www.google.com/",
			Headers: map[string]string{},
		},
		Search: SearchConfig{
			DefaultCount:   50,
			MaxCount:       100,
			DefaultCountry: "BR",
		},
		Robots: RobotsConfig{
			Respect:   false,
			UserAgent: "tiktok-trends-lite/1.0",
			CacheTTL:  DurationFrom(6 * time.Hour),
		},
		Rendering: RenderingConfig{
			Enabled:            false,
			Timeout:            DurationFrom(20 * time.Second),
			WaitForSelector:    "#SIGI_STATE",
			ConcurrentSessions: 1,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Structured: true,
		},
	}
}

// Load reads, merges, and validates configuration from a YAML file.
func Load(path string) (*Config, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer fh.Close()
	return LoadFromReader(fh)
}

// LoadFromReader decodes configuration from an arbitrary reader.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.normalise()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate enforces required invariants for the service configuration.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return errors.New("server.addr must be set")
	}
	if c.Fetch.Timeout.IsZero() {
		return errors.New("fetch.timeout must be > 0")
	}
	if c.Fetch.MaxRedirects < 0 {
		return fmt.Errorf("fetch.max_redirects must be >= 0 (got %d)", c.Fetch.MaxRedirects)
	}
	if c.Fetch.MaxBodyBytes <= 0 {
		return fmt.Errorf("fetch.max_body_bytes must be > 0 (got %d)", c.Fetch.MaxBodyBytes)
	}
	if len(c.Fetch.UserAgents) == 0 {
		return errors.New("fetch.user_agents must include at least one value")
	}
	if c.Fetch.Throttle.Requests < 0 {
		return fmt.Errorf("fetch.throttle.requests must be >= 0 (got %d)", c.Fetch.Throttle.Requests)
	}
	if c.Search.MaxCount <= 0 {
		return fmt.Errorf("search.max_count must be > 0 (got %d)", c.Search.MaxCount)
	}
	if c.Search.DefaultCount <= 0 || c.Search.DefaultCount > c.Search.MaxCount {
		return fmt.Errorf("search.default_count must be in [1, %d] (got %d)", c.Search.MaxCount, c.Search.DefaultCount)
	}
	if strings.TrimSpace(c.Search.DefaultCountry) == "" {
		return errors.New("search.default_country must be set")
	}
	if c.Robots.Respect && strings.TrimSpace(c.Robots.UserAgent) == "" {
		return errors.New("robots.user_agent must be set when robots.respect is true")
	}
	return nil
}

func (c *Config) normalise() {
	c.Server.Addr = strings.TrimSpace(c.Server.Addr)
	c.Fetch.ProxyURL = strings.TrimSpace(c.Fetch.ProxyURL)
	c.Fetch.Referer = strings.TrimSpace(c.Fetch.Referer)
	c.Robots.UserAgent = strings.TrimSpace(c.Robots.UserAgent)
	c.Search.DefaultCountry = strings.TrimSpace(c.Search.DefaultCountry)

	if len(c.Server.CORSOrigins) > 0 {
		c.Server.CORSOrigins = dedupe(c.Server.CORSOrigins)
	}
	if len(c.Fetch.UserAgents) > 0 {
		// Pool order is the rotation order, so dedupe without sorting.
		c.Fetch.UserAgents = dedupe(c.Fetch.UserAgents)
	}
	if c.Fetch.Headers == nil {
		c.Fetch.Headers = make(map[string]string)
	}
}

func dedupe(values []string) []string {
	unique := make(map[string]struct{}, len(values))
	cleaned := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := unique[v]; ok {
			continue
		}
		unique[v] = struct{}{}
		cleaned = append(cleaned, v)
	}
	return cleaned
}
