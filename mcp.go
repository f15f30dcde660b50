package kipris

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/kipris/kit"
)

// ToolServer exposes the query operations as MCP tools bound to one client
// (and therefore one API key).
type ToolServer struct {
	client *Client
	logger *slog.Logger
}

// NewToolServer creates a ToolServer over client.
func NewToolServer(client *Client) *ToolServer {
	return &ToolServer{client: client, logger: client.logger}
}

// RegisterMCP registers all patent tools on an MCP server.
func (ts *ToolServer) RegisterMCP(srv *mcp.Server) {
	ts.registerSearchPatents(srv)
	ts.registerPatentDetail(srv)
	ts.registerCitingPatents(srv)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

// logged wraps a tool endpoint with invocation logging.
func (ts *ToolServer) logged(tool string, ep kit.Endpoint) kit.Endpoint {
	mw := func(next kit.Endpoint) kit.Endpoint {
		return func(ctx context.Context, req any) (any, error) {
			start := time.Now()
			resp, err := next(ctx, req)
			if err != nil {
				ts.logger.WarnContext(ctx, "kipris: tool failed",
					"tool", tool,
					"duration_ms", time.Since(start).Milliseconds(),
					"error", err)
				return nil, err
			}
			ts.logger.DebugContext(ctx, "kipris: tool ok",
				"tool", tool,
				"duration_ms", time.Since(start).Milliseconds())
			return resp, nil
		}
	}
	return kit.Chain(mw)(ep)
}

var responseFormatSchema = map[string]any{
	"type":        "string",
	"description": "Response format: 'markdown' (default) or 'json'",
	"enum":        []string{"markdown", "json"},
}

// --- kipris_search_patents ---

func (ts *ToolServer) registerSearchPatents(srv *mcp.Server) {
	type req struct {
		ApplicantName  string `json:"applicant_name"`
		Page           int    `json:"page"`
		PageSize       int    `json:"page_size"`
		Status         string `json:"status"`
		ResponseFormat string `json:"response_format"`
	}

	tool := &mcp.Tool{
		Name:        "kipris_search_patents",
		Description: "Search Korean patents by applicant name via KIPRIS. Supports pagination and registration-status filtering.",
		InputSchema: inputSchema(map[string]any{
			"applicant_name":  map[string]any{"type": "string", "description": "Applicant (company, institution or person) name"},
			"page":            map[string]any{"type": "integer", "description": "1-based page number (default 1)"},
			"page_size":       map[string]any{"type": "integer", "description": "Results per page (default 20, max 100)"},
			"status":          map[string]any{"type": "string", "description": "Status filter: 'A' published, 'R' registered, 'J' rejected, empty for all"},
			"response_format": responseFormatSchema,
		}, []string{"applicant_name"}),
	}

	endpoint := func(ctx context.Context, r any) (any, error) {
		p := r.(*req)
		size := p.PageSize
		if size > maxPageSize {
			size = maxPageSize
		}
		result, err := ts.client.SearchByApplicant(ctx, ApplicantQuery{
			Applicant: p.ApplicantName,
			Page:      p.Page,
			PageSize:  size,
			Status:    p.Status,
		})
		if err != nil {
			return nil, err
		}
		if p.ResponseFormat == "json" {
			return result, nil
		}
		return RenderSearchResult(result), nil
	}

	decode := func(r *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var p req
		if err := json.Unmarshal(r.Params.Arguments, &p); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &p}, nil
	}

	kit.RegisterMCPTool(srv, tool, ts.logged(tool.Name, endpoint), decode)
}

// --- kipris_get_patent_detail ---

func (ts *ToolServer) registerPatentDetail(srv *mcp.Server) {
	type req struct {
		ApplicationNumber string `json:"application_number"`
		ResponseFormat    string `json:"response_format"`
	}

	tool := &mcp.Tool{
		Name:        "kipris_get_patent_detail",
		Description: "Fetch a single Korean patent's detail (title, applicant, abstract, IPC classification) by application number.",
		InputSchema: inputSchema(map[string]any{
			"application_number": map[string]any{"type": "string", "description": "Application number, hyphenated or plain (e.g. '10-2020-0123456' or '1020200123456')"},
			"response_format":    responseFormatSchema,
		}, []string{"application_number"}),
	}

	endpoint := func(ctx context.Context, r any) (any, error) {
		p := r.(*req)
		patent, err := ts.client.PatentDetail(ctx, p.ApplicationNumber)
		if errors.Is(err, ErrNotFound) {
			return fmt.Sprintf("No patent found for application number `%s`.", p.ApplicationNumber), nil
		}
		if err != nil {
			return nil, err
		}
		if p.ResponseFormat == "json" {
			return patent, nil
		}
		return RenderPatent(patent, true), nil
	}

	decode := func(r *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var p req
		if err := json.Unmarshal(r.Params.Arguments, &p); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &p}, nil
	}

	kit.RegisterMCPTool(srv, tool, ts.logged(tool.Name, endpoint), decode)
}

// --- kipris_get_citing_patents ---

func (ts *ToolServer) registerCitingPatents(srv *mcp.Server) {
	type req struct {
		ApplicationNumber string `json:"application_number"`
		ResponseFormat    string `json:"response_format"`
	}

	tool := &mcp.Tool{
		Name:        "kipris_get_citing_patents",
		Description: "List the later Korean patents that cite a given patent, to gauge its technical influence.",
		InputSchema: inputSchema(map[string]any{
			"application_number": map[string]any{"type": "string", "description": "Application number of the cited (standard) patent"},
			"response_format":    responseFormatSchema,
		}, []string{"application_number"}),
	}

	endpoint := func(ctx context.Context, r any) (any, error) {
		p := r.(*req)
		appNo, err := NormalizeApplicationNumber(p.ApplicationNumber)
		if err != nil {
			return nil, err
		}
		citations, err := ts.client.CitingPatents(ctx, appNo)
		if err != nil {
			return nil, err
		}
		if p.ResponseFormat == "json" {
			return map[string]any{
				"base_application_number": appNo,
				"citing_count":            len(citations),
				"citing_patents":          citations,
			}, nil
		}
		return RenderCitations(citations, appNo), nil
	}

	decode := func(r *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var p req
		if err := json.Unmarshal(r.Params.Arguments, &p); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &p}, nil
	}

	kit.RegisterMCPTool(srv, tool, ts.logged(tool.Name, endpoint), decode)
}
