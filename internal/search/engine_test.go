package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/thegenyia/tiktok-trends-lite/internal/config"
	"github.com/thegenyia/tiktok-trends-lite/internal/fetcher"
)

type stubClient struct {
	fetch func(rawURL string) (string, error)
	calls []string
}

func (s *stubClient) FetchHTML(_ context.Context, rawURL string) (string, error) {
	s.calls = append(s.calls, rawURL)
	return s.fetch(rawURL)
}

func testEngine(client fetcher.Client) *Engine {
	cfg := config.SearchConfig{DefaultCount: 50, MaxCount: 100, DefaultCountry: "BR"}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewEngine(cfg, client, nil, logger)
}

func pageWithState(state string) string {
	return fmt.Sprintf(`<html><head><script id="SIGI_STATE">%s</script></head><body></body></html>`, state)
}

func TestSearchRejectsEmptyQuery(t *testing.T) {
	client := &stubClient{fetch: func(string) (string, error) {
		return "", errors.New("must not be called")
	}}
	engine := testEngine(client)

	for _, query := range []string{"", "   ", "\t\n"} {
		if _, err := engine.Search(context.Background(), Request{Query: query}); !errors.Is(err, ErrEmptyQuery) {
			t.Errorf("query %q: expected ErrEmptyQuery, got %v", query, err)
		}
	}
	if len(client.calls) != 0 {
		t.Fatalf("expected no fetches for invalid queries, got %d", len(client.calls))
	}
}

func TestSearchPrimaryHit(t *testing.T) {
	page := pageWithState(`{"ItemModule":{"7300000000000000001":{
		"id":"7300000000000000001","author":"dradentista","desc":"dentes"
	}}}`)
	client := &stubClient{fetch: func(string) (string, error) {
		return page, nil
	}}
	engine := testEngine(client)

	resp, err := engine.Search(context.Background(), Request{Query: "dentista"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if resp.Total != 1 || len(resp.Results) != 1 {
		t.Fatalf("expected 1 result, got total=%d len=%d", resp.Total, len(resp.Results))
	}
	if resp.Results[0].ID != "7300000000000000001" {
		t.Errorf("unexpected id %q", resp.Results[0].ID)
	}
	if resp.Query != "dentista" || resp.Country != "BR" {
		t.Errorf("unexpected envelope %q/%q", resp.Query, resp.Country)
	}
	if len(client.calls) != 1 {
		t.Fatalf("expected exactly one fetch, got %d", len(client.calls))
	}
	if !strings.Contains(client.calls[0], "/search?q=dentista") || !strings.Contains(client.calls[0], "lang=pt-BR") {
		t.Errorf("unexpected primary url %q", client.calls[0])
	}
}

func TestSearchFallsBackToTagPageOnce(t *testing.T) {
	page := pageWithState(`{"ItemModule":{"1":{"id":"1","author":"x"}}}`)
	client := &stubClient{}
	client.fetch = func(rawURL string) (string, error) {
		if strings.Contains(rawURL, "/tag/") {
			return page, nil
		}
		return "<html><body>consent wall</body></html>", nil
	}
	engine := testEngine(client)

	resp, err := engine.Search(context.Background(), Request{Query: "#gatos"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if resp.Total != 1 {
		t.Fatalf("expected fallback to produce 1 result, got %d", resp.Total)
	}
	if len(client.calls) != 2 {
		t.Fatalf("expected exactly two fetches, got %d", len(client.calls))
	}
	if !strings.Contains(client.calls[1], "/tag/gatos") {
		t.Errorf("expected tag fallback url, got %q", client.calls[1])
	}
}

func TestSearchFallbackStaysEmpty(t *testing.T) {
	client := &stubClient{fetch: func(string) (string, error) {
		return "<html></html>", nil
	}}
	engine := testEngine(client)

	resp, err := engine.Search(context.Background(), Request{Query: "nada"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if resp.Total != 0 || resp.Results == nil {
		t.Fatalf("expected empty non-nil results, got %+v", resp)
	}
	if len(client.calls) != 2 {
		t.Fatalf("expected exactly two fetches, got %d", len(client.calls))
	}
}

func TestSearchPrimaryFetchFailureSkipsFallback(t *testing.T) {
	fetchErr := &fetcher.FetchError{URL: "u", StatusCode: 503}
	client := &stubClient{fetch: func(string) (string, error) {
		return "", fetchErr
	}}
	engine := testEngine(client)

	_, err := engine.Search(context.Background(), Request{Query: "dentista"})
	if err == nil {
		t.Fatal("expected fetch failure to propagate")
	}
	var got *fetcher.FetchError
	if !errors.As(err, &got) {
		t.Fatalf("expected *fetcher.FetchError, got %T", err)
	}
	if len(client.calls) != 1 {
		t.Fatalf("failure must not trigger the fallback, got %d fetches", len(client.calls))
	}
}

func TestSearchFallbackFetchFailureIsFatal(t *testing.T) {
	client := &stubClient{}
	client.fetch = func(rawURL string) (string, error) {
		if strings.Contains(rawURL, "/tag/") {
			return "", &fetcher.FetchError{URL: rawURL, StatusCode: 429}
		}
		return "<html></html>", nil
	}
	engine := testEngine(client)

	_, err := engine.Search(context.Background(), Request{Query: "gatos"})
	if err == nil {
		t.Fatal("expected fallback failure to fail the whole operation")
	}
	if len(client.calls) != 2 {
		t.Fatalf("expected two fetches, got %d", len(client.calls))
	}
}

func TestSearchCountryControlsLanguage(t *testing.T) {
	client := &stubClient{fetch: func(string) (string, error) {
		return "<html></html>", nil
	}}
	engine := testEngine(client)

	if _, err := engine.Search(context.Background(), Request{Query: "q", Country: "US"}); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !strings.Contains(client.calls[0], "lang=en") {
		t.Errorf("expected lang=en for US, got %q", client.calls[0])
	}
}

func TestClampMax(t *testing.T) {
	engine := testEngine(&stubClient{fetch: func(string) (string, error) { return "", nil }})

	cases := []struct {
		in   int
		want int
	}{
		{0, 50},
		{-5, 1},
		{1, 1},
		{73, 73},
		{100, 100},
		{500, 100},
	}
	for _, tc := range cases {
		if got := engine.clampMax(tc.in); got != tc.want {
			t.Errorf("clampMax(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestSearchHonorsMax(t *testing.T) {
	page := pageWithState(`{"ItemModule":{
		"1":{"id":"1","author":"x"},
		"2":{"id":"2","author":"x"},
		"3":{"id":"3","author":"x"}
	}}`)
	client := &stubClient{fetch: func(string) (string, error) {
		return page, nil
	}}
	engine := testEngine(client)

	resp, err := engine.Search(context.Background(), Request{Query: "q", Max: 2})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if resp.Total != 2 {
		t.Fatalf("expected 2 results, got %d", resp.Total)
	}
}
