package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// Renderer executes JavaScript and returns the rendered DOM.
type Renderer interface {
	RenderHTML(ctx context.Context, rawURL string) (string, error)
}

// Composite prefers the JavaScript renderer when one is configured and
// falls back to plain HTTP on renderer errors.
type Composite struct {
	defaultClient Client
	renderer      Renderer
	logger        *slog.Logger
}

// NewComposite builds a composite client from HTTP and an optional renderer.
func NewComposite(client Client, renderer Renderer, logger *slog.Logger) *Composite {
	if logger == nil {
		logger = slog.Default()
	}
	return &Composite{defaultClient: client, renderer: renderer, logger: logger}
}

// FetchHTML delegates to the renderer when present, otherwise to plain HTTP.
func (c *Composite) FetchHTML(ctx context.Context, rawURL string) (string, error) {
	if c.renderer != nil {
		html, err := c.renderer.RenderHTML(ctx, rawURL)
		if err == nil {
			return html, nil
		}
		c.logger.Warn("renderer failed, falling back to HTTP fetch", "url", rawURL, "error", err)
	}
	return c.defaultClient.FetchHTML(ctx, rawURL)
}

// RenderOptions configures the JavaScript rendering pipeline.
type RenderOptions struct {
	Timeout            time.Duration
	WaitForSelector    string
	UserAgent          string
	MaxBodyBytes       int64
	DisableHeadless    bool
	ConcurrentSessions int
}

// ChromedpRenderer executes headless Chrome sessions using chromedp.
type ChromedpRenderer struct {
	opts      RenderOptions
	semaphore chan struct{}
	logger    *slog.Logger
}

// NewChromedpRenderer constructs a renderer with bounded concurrency.
func NewChromedpRenderer(opts RenderOptions, logger *slog.Logger) *ChromedpRenderer {
	if opts.Timeout <= 0 {
		opts.Timeout = 20 * time.Second
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 6 * 1024 * 1024
	}
	if opts.ConcurrentSessions <= 0 {
		opts.ConcurrentSessions = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ChromedpRenderer{
		opts:      opts,
		semaphore: make(chan struct{}, opts.ConcurrentSessions),
		logger:    logger,
	}
}

// RenderHTML navigates to the target URL and exports the final DOM.
func (r *ChromedpRenderer) RenderHTML(parentCtx context.Context, rawURL string) (string, error) {
	select {
	case r.semaphore <- struct{}{}:
		defer func() { <-r.semaphore }()
	case <-parentCtx.Done():
		return "", parentCtx.Err()
	}

	ctx, cancel := context.WithTimeout(parentCtx, r.opts.Timeout)
	defer cancel()

	execOpts := []chromedp.ExecAllocatorOption{
		chromedp.Flag("headless", !r.opts.DisableHeadless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
	}
	if ua := strings.TrimSpace(r.opts.UserAgent); ua != "" {
		execOpts = append(execOpts, chromedp.UserAgent(ua))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, execOpts...)
	defer allocCancel()

	chromeCtx, chromeCancel := chromedp.NewContext(allocCtx)
	defer chromeCancel()

	start := time.Now()
	var html string

	actions := []chromedp.Action{chromedp.Navigate(rawURL)}
	if sel := strings.TrimSpace(r.opts.WaitForSelector); sel != "" {
		actions = append(actions,
			chromedp.WaitReady(sel, chromedp.ByQuery),
			chromedp.Sleep(250*time.Millisecond),
		)
	} else {
		actions = append(actions, chromedp.Sleep(1500*time.Millisecond))
	}
	actions = append(actions, chromedp.OuterHTML("html", &html, chromedp.ByQuery))

	if err := chromedp.Run(chromeCtx, actions...); err != nil {
		r.logger.Error("chromedp run failed", "url", rawURL, "error", err)
		return "", fmt.Errorf("chromedp run: %w", err)
	}

	if int64(len(html)) > r.opts.MaxBodyBytes {
		html = html[:r.opts.MaxBodyBytes]
	}

	r.logger.Debug("chromedp render complete",
		"url", rawURL,
		"latency_ms", time.Since(start).Milliseconds(),
		"html_bytes", len(html),
	)
	return html, nil
}
