package search

import (
	"fmt"
	"log/slog"

	"github.com/thegenyia/tiktok-trends-lite/internal/config"
	"github.com/thegenyia/tiktok-trends-lite/internal/fetcher"
	"github.com/thegenyia/tiktok-trends-lite/internal/robots"
)

// NewEngineFromConfig wires the full fetch stack described by cfg into an
// engine: browser-spoofing HTTP client, optional JavaScript renderer, and
// the robots agent.
func NewEngineFromConfig(cfg config.Config, logger *slog.Logger) (*Engine, error) {
	httpClient, err := fetcher.NewHTTPClient(fetcher.Options{
		UserAgents:   cfg.Fetch.UserAgents,
		Referer:      cfg.Fetch.Referer,
		Headers:      cfg.Fetch.Headers,
		Timeout:      cfg.Fetch.Timeout.Duration,
		MaxRedirects: cfg.Fetch.MaxRedirects,
		MaxBodyBytes: cfg.Fetch.MaxBodyBytes,
		ProxyURL:     cfg.Fetch.ProxyURL,
		Throttle: fetcher.ThrottleSettings{
			Requests: cfg.Fetch.Throttle.Requests,
			Window:   cfg.Fetch.Throttle.Window.Duration,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("http fetcher: %w", err)
	}

	var client fetcher.Client = httpClient
	if cfg.Rendering.Enabled {
		var userAgent string
		if len(cfg.Fetch.UserAgents) > 0 {
			userAgent = cfg.Fetch.UserAgents[0]
		}
		renderer := fetcher.NewChromedpRenderer(fetcher.RenderOptions{
			Timeout:            cfg.Rendering.Timeout.Duration,
			WaitForSelector:    cfg.Rendering.WaitForSelector,
			UserAgent:          userAgent,
			MaxBodyBytes:       cfg.Fetch.MaxBodyBytes,
			DisableHeadless:    cfg.Rendering.DisableHeadless,
			ConcurrentSessions: cfg.Rendering.ConcurrentSessions,
		}, logger)
		client = fetcher.NewComposite(httpClient, renderer, logger)
	}

	robotsAgent := robots.NewAgent(cfg.Robots, httpClient.Client())
	return NewEngine(cfg.Search, client, robotsAgent, logger), nil
}
