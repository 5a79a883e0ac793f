package fetcher

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
)

// Client retrieves a page's HTML for the search engine.
type Client interface {
	FetchHTML(ctx context.Context, rawURL string) (string, error)
}

// FetchError describes a failed page fetch: a transport error, a timeout,
// or a response status outside [200, 400).
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Options controls HTTP fetching behaviour.
type Options struct {
	UserAgents   []string
	Referer      string
	Headers      map[string]string
	Timeout      time.Duration
	MaxRedirects int
	MaxBodyBytes int64
	ProxyURL     string
	Throttle     ThrottleSettings
	Rand         *rand.Rand
}

// HTTPClient implements Client via the Go http.Client with a spoofed
// browser identity per request.
type HTTPClient struct {
	client       *http.Client
	identity     *IdentitySource
	referer      string
	extraHeaders map[string]string
	maxBodyBytes int64
	throttle     *Throttle
}

// NewHTTPClient constructs a page fetcher using the provided options.
func NewHTTPClient(opts Options) (*HTTPClient, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 6 * 1024 * 1024
	}
	maxRedirects := opts.MaxRedirects
	if maxRedirects <= 0 {
		maxRedirects = 3
	}

	transport := &http.Transport{
		DialContext:           (&net.Dialer{Timeout: 10 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	if strings.TrimSpace(opts.ProxyURL) != "" {
		proxyURL, err := url.Parse(opts.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("parse proxy url: %w", err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	client := &http.Client{
		Timeout:   opts.Timeout,
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) > maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}

	headers := make(map[string]string, len(opts.Headers))
	for k, v := range opts.Headers {
		headers[k] = v
	}

	return &HTTPClient{
		client:       client,
		identity:     NewIdentitySource(opts.UserAgents, opts.Rand),
		referer:      opts.Referer,
		extraHeaders: headers,
		maxBodyBytes: opts.MaxBodyBytes,
		throttle:     NewThrottle(opts.Throttle),
	}, nil
}

// FetchHTML downloads a single URL and returns the decoded document body.
func (c *HTTPClient) FetchHTML(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", &FetchError{URL: rawURL, Err: err}
	}

	ident := c.identity.Next()
	if ident.UserAgent != "" {
		req.Header.Set("User-Agent", ident.UserAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9,pt-BR;q=0.8")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")
	if c.referer != "" {
		req.Header.Set("Referer", c.referer)
	}
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: ident.SessionCookie})

	for k, v := range c.extraHeaders {
		req.Header.Set(k, v)
	}

	if err := c.throttle.Wait(ctx, req.URL.Hostname()); err != nil {
		return "", &FetchError{URL: rawURL, Err: err}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &FetchError{URL: rawURL, Err: err}
	}

	body, err := c.readBody(resp)
	if err != nil {
		return "", &FetchError{URL: rawURL, Err: err}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusBadRequest {
		return "", &FetchError{URL: rawURL, StatusCode: resp.StatusCode}
	}
	return string(body), nil
}

func (c *HTTPClient) readBody(resp *http.Response) ([]byte, error) {
	if resp == nil || resp.Body == nil {
		return nil, errors.New("empty response body")
	}

	reader := io.Reader(resp.Body)
	closers := []io.Closer{resp.Body}

	encoding := strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding")))
	switch encoding {
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("gzip decode: %w", err)
		}
		reader = gz
		closers = append(closers, gz)
	case "br":
		reader = brotli.NewReader(resp.Body)
	case "deflate":
		fl := flate.NewReader(resp.Body)
		reader = fl
		closers = append(closers, fl)
	}

	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i].Close()
		}
	}()

	limited := io.LimitReader(reader, c.maxBodyBytes+1)
	body, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > c.maxBodyBytes {
		return nil, fmt.Errorf("response body exceeds limit of %d bytes", c.maxBodyBytes)
	}
	return body, nil
}

// Client exposes the underlying HTTP client for reuse (eg. robots.txt fetches).
func (c *HTTPClient) Client() *http.Client {
	if c == nil {
		return nil
	}
	return c.client
}
