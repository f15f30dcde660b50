// Command kipris serves the KIPRIS patent tools over MCP.
//
// Usage:
//
//	kipris                                  # stdio MCP server (KIPRIS_API_KEY from env)
//	kipris -config kipris.yaml              # stdio MCP server, config file
//	kipris -http :8086                      # HTTP MCP server, per-request API keys
//	kipris -applicant "Samsung Electronics" # one-shot search, JSON to stdout
//	kipris -detail 10-2020-0123456          # one-shot detail lookup
//	kipris -citations 1020200123456         # one-shot citation listing
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/kipris"
)

var mcpImpl = &mcp.Implementation{Name: "kipris", Version: "1.0.0"}

func main() {
	configPath := flag.String("config", "", "path to kipris.yaml config file")
	httpAddr := flag.String("http", "", "serve MCP over HTTP on this address (default: stdio)")
	applicant := flag.String("applicant", "", "one-shot: search patents by applicant name")
	detail := flag.String("detail", "", "one-shot: fetch patent detail by application number")
	citations := flag.String("citations", "", "one-shot: list patents citing this application number")
	page := flag.Int("page", 1, "search page (1-based)")
	pageSize := flag.Int("page-size", 20, "search results per page (max 100)")
	status := flag.String("status", "", "search status filter: A, R, J or empty")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	var level slog.Level
	switch *logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := runOptions{
		configPath: *configPath,
		httpAddr:   *httpAddr,
		applicant:  *applicant,
		detail:     *detail,
		citations:  *citations,
		page:       *page,
		pageSize:   *pageSize,
		status:     *status,
	}
	if err := run(ctx, logger, opts); err != nil {
		logger.Error("kipris: fatal", "error", err)
		os.Exit(1)
	}
}

type runOptions struct {
	configPath string
	httpAddr   string
	applicant  string
	detail     string
	citations  string
	page       int
	pageSize   int
	status     string
}

func run(ctx context.Context, logger *slog.Logger, opts runOptions) error {
	cfg, err := resolveConfig(opts.configPath)
	if err != nil {
		// HTTP mode can run keyless: every request carries its own key.
		if !errors.Is(err, kipris.ErrMissingAPIKey) || opts.httpAddr == "" {
			return err
		}
		cfg = &kipris.Config{}
	}
	cfg.Logger = logger

	if opts.httpAddr != "" {
		return serveHTTP(ctx, logger, cfg, opts.httpAddr)
	}

	// One-shot modes need a concrete client.
	if opts.applicant != "" || opts.detail != "" || opts.citations != "" {
		client, err := kipris.New(cfg)
		if err != nil {
			return err
		}
		return oneShot(ctx, client, opts)
	}

	return serveStdio(ctx, logger, cfg)
}

func resolveConfig(configPath string) (*kipris.Config, error) {
	if configPath != "" {
		return kipris.LoadConfigFile(configPath)
	}
	return kipris.FromEnv()
}

func oneShot(ctx context.Context, client *kipris.Client, opts runOptions) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	switch {
	case opts.applicant != "":
		result, err := client.SearchByApplicant(ctx, kipris.ApplicantQuery{
			Applicant: opts.applicant,
			Page:      opts.page,
			PageSize:  opts.pageSize,
			Status:    opts.status,
		})
		if err != nil {
			return fmt.Errorf("search: %w", err)
		}
		return enc.Encode(result)

	case opts.detail != "":
		patent, err := client.PatentDetail(ctx, opts.detail)
		if err != nil {
			return fmt.Errorf("detail: %w", err)
		}
		return enc.Encode(patent)

	default:
		list, err := client.CitingPatents(ctx, opts.citations)
		if err != nil {
			return fmt.Errorf("citations: %w", err)
		}
		return enc.Encode(list)
	}
}

func serveStdio(ctx context.Context, logger *slog.Logger, cfg *kipris.Config) error {
	client, err := kipris.New(cfg)
	if err != nil {
		return err
	}

	srv := mcp.NewServer(mcpImpl, nil)
	kipris.NewToolServer(client).RegisterMCP(srv)

	logger.Info("kipris: serving MCP on stdio")
	return srv.Run(ctx, &mcp.StdioTransport{})
}

func serveHTTP(ctx context.Context, logger *slog.Logger, cfg *kipris.Config, addr string) error {
	pool := newServerPool(*cfg, logger)

	handler := mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		key := apiKeyFromRequest(r)
		if key == "" {
			key = cfg.APIKey // env-configured fallback
		}
		srv, err := pool.serverFor(key)
		if err != nil {
			logger.WarnContext(r.Context(), "kipris: rejecting request", "error", err)
			return nil
		}
		return srv
	}, nil)

	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/mcp", handler)
	r.Handle("/mcp/*", handler)

	server := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- server.ListenAndServe() }()
	logger.Info("kipris: serving MCP over HTTP", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	logger.Info("kipris: shutting down")
	return server.Shutdown(shutdownCtx)
}

// apiKeyFromRequest extracts a per-request API key, header first.
func apiKeyFromRequest(r *http.Request) string {
	if key := r.Header.Get("X-Api-Key"); key != "" {
		return key
	}
	return r.URL.Query().Get("api_key")
}
