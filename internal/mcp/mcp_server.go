// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"freshscore/internal/contract"
)

// NewMCPServer initializes and configures the freshscore MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, store contract.HistoryStore) *server.MCPServer {
	s := server.NewMCPServer(
		"Freshscore Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		store:   store,
	}

	// --- 1. Tool: score_cutoff ---
	s.AddTool(mcp.NewTool("score_cutoff",
		mcp.WithDescription("Compute the fresh percentage of a movie at a review cutoff day from a saved review CSV."),
		mcp.WithString("csv_file", mcp.Description("Path to the review CSV file."), mcp.Required()),
		mcp.WithNumber("cutoff_day", mcp.Description("Days after release to cut off at. Defaults to the configured value.")),
		mcp.WithString("release_date", mcp.Description("Release date override (YYYY-MM-DD). Defaults to the date embedded in the filename.")),
		mcp.WithString("movie", mcp.Description("Movie name override. Defaults to the name derived from the filename.")),
		mcp.WithString("pre_release", mcp.Description("Policy for reviews dated before release."), mcp.Enum("exclude", "clamp")),
	), h.handleScoreCutoff)

	// --- 2. Tool: batch_summary ---
	s.AddTool(mcp.NewTool("batch_summary",
		mcp.WithDescription("Score every review CSV in a directory at a cutoff day and return per-movie summaries."),
		mcp.WithString("csv_dir", mcp.Description("Directory containing review CSV files."), mcp.Required()),
		mcp.WithNumber("cutoff_day", mcp.Description("Days after release to cut off at.")),
	), h.handleBatchSummary)

	// --- 3. Tool: list_history ---
	s.AddTool(mcp.NewTool("list_history",
		mcp.WithDescription("List recorded batch runs, or the per-movie scores of one run."),
		mcp.WithNumber("run_id", mcp.Description("Run to fetch scores for. Omit to list recent runs.")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of runs to return.")),
	), h.handleListHistory)

	return s
}

// StartMCPServer starts the freshscore MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, store contract.HistoryStore) error {
	s := NewMCPServer(baseCfg, store)
	return server.ServeStdio(s)
}
