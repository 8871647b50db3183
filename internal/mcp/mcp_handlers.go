package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"freshscore/core"
	"freshscore/internal/contract"
	"freshscore/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	store   contract.HistoryStore
}

// cutoffToolResult is the JSON payload returned by score_cutoff.
type cutoffToolResult struct {
	Movie        string             `json:"movie"`
	ReleaseDate  string             `json:"release_date"`
	CutoffDay    int                `json:"cutoff_day"`
	EffectiveDay int                `json:"effective_day"`
	Score        schema.CutoffPoint `json:"score"`
	SkippedRows  int                `json:"skipped_rows"`
	Excluded     int                `json:"excluded"`
}

func (h *toolHandler) handleScoreCutoff(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.InputFile = request.GetString("csv_file", "")
	cfg.Movie = request.GetString("movie", "")
	cfg.ReleaseDate = time.Time{}

	if d := request.GetInt("cutoff_day", -1); d >= 0 {
		cfg.CutoffDay = d
	}
	if p := request.GetString("pre_release", ""); p != "" {
		policy := schema.PreReleasePolicy(strings.ToLower(p))
		if _, ok := schema.ValidPreReleasePolicies[policy]; !ok {
			return mcp.NewToolResultError(fmt.Sprintf("invalid pre_release policy '%s'. must be exclude or clamp", p)), nil
		}
		cfg.PreRelease = policy
	}
	if r := request.GetString("release_date", ""); r != "" {
		t, err := time.Parse(contract.ReleaseDateFormat, r)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid release_date: %v", err)), nil
		}
		cfg.ReleaseDate = t
	}

	series, point, effective, err := core.GetCutoffResult(cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cutoff scoring failed: %v", err)), nil
	}

	payload := cutoffToolResult{
		Movie:        series.Movie,
		ReleaseDate:  series.ReleaseDate.Format(contract.ReleaseDateFormat),
		CutoffDay:    cfg.CutoffDay,
		EffectiveDay: effective,
		Score:        point,
		SkippedRows:  series.SkippedRows,
		Excluded:     series.Excluded,
	}
	jsonData, _ := json.MarshalIndent(payload, "", "  ")

	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleBatchSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.CSVDir = request.GetString("csv_dir", "")
	if d := request.GetInt("cutoff_day", -1); d >= 0 {
		cfg.CutoffDay = d
	}

	result, err := core.GetBatchResult(ctx, cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("batch scoring failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListHistory(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.store == nil {
		return mcp.NewToolResultError("history store is not configured"), nil
	}

	if runID := request.GetInt("run_id", 0); runID > 0 {
		scores, err := h.store.ListScores(int64(runID))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("history lookup failed: %v", err)), nil
		}
		jsonData, _ := json.MarshalIndent(scores, "", "  ")
		return mcp.NewToolResultText(string(jsonData)), nil
	}

	limit := request.GetInt("limit", 10)
	runs, err := h.store.ListRuns(limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("history lookup failed: %v", err)), nil
	}
	jsonData, _ := json.MarshalIndent(runs, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
