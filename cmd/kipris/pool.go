package main

import (
	"log/slog"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/kipris"
)

// serverPool lazily builds one MCP server (and underlying client) per API
// key, for the hosted mode where each request carries its own key. The
// mutex prevents two concurrent requests from racing to construct the
// client for the same key.
type serverPool struct {
	mu      sync.Mutex
	base    kipris.Config // tuning template; APIKey is filled per entry
	logger  *slog.Logger
	servers map[string]*mcp.Server
}

func newServerPool(base kipris.Config, logger *slog.Logger) *serverPool {
	return &serverPool{
		base:    base,
		logger:  logger,
		servers: make(map[string]*mcp.Server),
	}
}

func (p *serverPool) serverFor(apiKey string) (*mcp.Server, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if srv, ok := p.servers[apiKey]; ok {
		return srv, nil
	}

	cfg := p.base
	cfg.APIKey = apiKey
	cfg.Logger = p.logger
	client, err := kipris.New(&cfg)
	if err != nil {
		return nil, err
	}

	srv := mcp.NewServer(mcpImpl, nil)
	kipris.NewToolServer(client).RegisterMCP(srv)
	p.servers[apiKey] = srv
	return srv, nil
}
