package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/thegenyia/tiktok-trends-lite/internal/config"
	"github.com/thegenyia/tiktok-trends-lite/internal/search"
)

// trends runs a single search from the command line and prints the JSON
// response, using the same pipeline as the HTTP server.
func main() {
	cfgPath := flag.String("config", "configs/config.yaml", "Path to service configuration file")
	query := flag.String("q", "", "Search query (required)")
	max := flag.Int("max", 0, "Maximum number of results (0 uses the configured default)")
	country := flag.String("country", "", "Country hint (defaults to the configured country)")
	verbose := flag.Bool("v", false, "Log pipeline details to stderr")
	flag.Parse()

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logWriter := io.Discard
	if *verbose {
		logWriter = os.Stderr
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{Level: slog.LevelDebug}))

	engine, err := search.NewEngineFromConfig(*cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise search engine: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	resp, err := engine.Search(ctx, search.Request{
		Query:   *query,
		Max:     *max,
		Country: *country,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "search failed: %v\n", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(resp); err != nil {
		fmt.Fprintf(os.Stderr, "encode response: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := config.Default()
		return &cfg, nil
	}
	return config.Load(path)
}
