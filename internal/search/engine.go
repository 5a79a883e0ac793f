package search

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/thegenyia/tiktok-trends-lite/internal/config"
	"github.com/thegenyia/tiktok-trends-lite/internal/extract"
	"github.com/thegenyia/tiktok-trends-lite/internal/fetcher"
	"github.com/thegenyia/tiktok-trends-lite/internal/robots"
	"github.com/thegenyia/tiktok-trends-lite/pkg/types"
)

// ErrEmptyQuery rejects requests whose query is blank after trimming.
var ErrEmptyQuery = errors.New("query must not be empty")

// Request carries the parameters for one search operation.
type Request struct {
	Query string
	// Max is the requested result ceiling; zero means the configured default.
	Max     int
	Country string
}

// Engine sequences URL building, page fetching, state extraction, and record
// normalization for a single search request. It holds no mutable state, so
// concurrent searches are independent.
type Engine struct {
	cfg    config.SearchConfig
	client fetcher.Client
	robots *robots.Agent
	logger *slog.Logger
}

// NewEngine builds a search engine over the given page fetcher.
func NewEngine(cfg config.SearchConfig, client fetcher.Client, robotsAgent *robots.Agent, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{cfg: cfg, client: client, robots: robotsAgent, logger: logger}
}

// Search runs the full pipeline. The only errors it returns are ErrEmptyQuery
// and fetch failures (*fetcher.FetchError); a page without usable embedded
// state simply yields zero results. When the primary search page comes back
// empty the tag page is tried exactly once, regardless of why the primary
// was empty.
func (e *Engine) Search(ctx context.Context, req Request) (types.SearchResponse, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return types.SearchResponse{}, ErrEmptyQuery
	}

	country := strings.TrimSpace(req.Country)
	if country == "" {
		country = e.cfg.DefaultCountry
	}
	max := e.clampMax(req.Max)

	results, err := e.fetchAndNormalize(ctx, extract.BuildSearchURL(query, country), max)
	if err != nil {
		return types.SearchResponse{}, err
	}

	if len(results) == 0 {
		e.logger.Debug("primary search empty, retrying tag page", "query", query)
		results, err = e.fetchAndNormalize(ctx, extract.BuildHashtagURL(query, country), max)
		if err != nil {
			return types.SearchResponse{}, err
		}
	}

	return types.SearchResponse{
		Query:   query,
		Country: country,
		Total:   len(results),
		Results: results,
	}, nil
}

func (e *Engine) fetchAndNormalize(ctx context.Context, rawURL string, max int) ([]types.Video, error) {
	if e.robots != nil && !e.robots.Allowed(ctx, rawURL) {
		// Denied pages behave like pages without data.
		e.logger.Debug("blocked by robots", "url", rawURL)
		return []types.Video{}, nil
	}

	html, err := e.client.FetchHTML(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return extract.Normalize(extract.State(html), max), nil
}

// clampMax bounds the requested count to [1, max_count]. Zero means the
// configured default; negative values are floored to one.
func (e *Engine) clampMax(n int) int {
	switch {
	case n == 0:
		return e.cfg.DefaultCount
	case n < 1:
		return 1
	case n > e.cfg.MaxCount:
		return e.cfg.MaxCount
	default:
		return n
	}
}
