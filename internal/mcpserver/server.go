// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the cluster dataset to LLM clients via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/clusterscope/internal/api"
	"github.com/starford/clusterscope/internal/filter"
)

const defaultRecordLimit = 50

// Server wraps the MCP server with the dataset tools.
type Server struct {
	mcp *server.MCPServer
	svc *api.Service
}

// New creates a new MCP server with all tools registered.
func New(svc *api.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"clusterscope",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_categories",
		mcp.WithDescription("List the selectable categories and the date span of the dataset."),
	), s.listCategories)

	s.mcp.AddTool(mcp.NewTool("filter_records",
		mcp.WithDescription("Return records matching a category and an optional inclusive date range."),
		mcp.WithString("category", mcp.Description(`Exact category name, or "All"`)),
		mcp.WithString("start_date", mcp.Description("Start of the date range (e.g. 2024-01-01)")),
		mcp.WithString("end_date", mcp.Description("End of the date range, inclusive")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of records (default 50)")),
	), s.filterRecords)

	s.mcp.AddTool(mcp.NewTool("render_figure",
		mcp.WithDescription("Render the plotly scatter figure for the given filters."),
		mcp.WithString("category", mcp.Description(`Exact category name, or "All"`)),
		mcp.WithString("start_date", mcp.Description("Start of the date range")),
		mcp.WithString("end_date", mcp.Description("End of the date range, inclusive")),
	), s.renderFigure)

	s.mcp.AddTool(mcp.NewTool("search_records",
		mcp.WithDescription("Search record titles and excerpts."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchRecords)

	s.mcp.AddTool(mcp.NewTool("cluster_summary",
		mcp.WithDescription("Per-cluster record counts, engagement and legend colors."),
	), s.clusterSummary)

	s.mcp.AddResource(
		mcp.NewResource("clusterscope://record-format", "Record Format Contract",
			mcp.WithResourceDescription("Line-delimited JSON format of the input dataset."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readRecordFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func paramsFrom(req mcp.CallToolRequest) (filter.Params, error) {
	return filter.ParseParams(
		req.GetString("category", ""),
		req.GetString("start_date", ""),
		req.GetString("end_date", ""),
	)
}

func (s *Server) listCategories(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.svc.Options())
}

func (s *Server) filterRecords(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := paramsFrom(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	limit := req.GetInt("limit", defaultRecordLimit)
	if limit <= 0 {
		limit = defaultRecordLimit
	}
	return jsonResult(s.svc.Records(p, limit))
}

func (s *Server) renderFigure(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := paramsFrom(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	fig, _ := s.svc.Figure(p)
	return jsonResult(fig)
}

func (s *Server) searchRecords(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.Search(query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(results) == 0 {
		return mcp.NewToolResultText("no records found"), nil
	}
	return jsonResult(results)
}

func (s *Server) clusterSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	clusters, err := s.svc.Clusters()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(clusters)
}

func (s *Server) readRecordFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "clusterscope://record-format",
			MIMEType: "text/markdown",
			Text:     RecordFormatContract,
		},
	}, nil
}
