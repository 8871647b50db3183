package mcp_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freshscore/internal/contract"
	mcp_internal "freshscore/internal/mcp"
	"freshscore/schema"
)

const earlyReviewCSV = `Critic,Publication,Sentiment,Original Score,Date,Review Text,URL
A,P1,fresh,,"May 25, 2022",Early screening.,
B,P2,rotten,,"May 27, 2022",Opening day.,
`

func baseConfig() *contract.Config {
	return &contract.Config{
		CutoffDay:  4,
		PreRelease: schema.ExcludePreRelease,
		Precision:  2,
		Workers:    1,
	}
}

func TestMCPServerHandlers_ScoreCutoff(t *testing.T) {
	s := mcp_internal.NewMCPServer(baseConfig(), nil)
	ctx := context.Background()

	tool := s.GetTool("score_cutoff")
	require.NotNil(t, tool, "Tool score_cutoff should exist")

	fixture := filepath.Join(t.TempDir(), "Clamp_Movie_2022-05-27_20250101_000000.csv")
	require.NoError(t, os.WriteFile(fixture, []byte(earlyReviewCSV), 0o644))

	callScoreCutoff := func(args map[string]any) *mcp.CallToolResult {
		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name:      "score_cutoff",
				Arguments: args,
			},
		}
		res, err := tool.Handler(ctx, req)
		require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
		return res
	}

	t.Run("invalid pre_release is rejected", func(t *testing.T) {
		res := callScoreCutoff(map[string]any{
			"csv_file":    fixture,
			"pre_release": "bogus", // Not a policy
		})
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "invalid pre_release policy")
	})

	t.Run("invalid release_date is rejected", func(t *testing.T) {
		res := callScoreCutoff(map[string]any{
			"csv_file":     fixture,
			"release_date": "27-05-2022", // Wrong layout
		})
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "invalid release_date")
	})

	t.Run("omitted pre_release keeps the exclude default", func(t *testing.T) {
		res := callScoreCutoff(map[string]any{
			"csv_file": fixture,
		})
		require.False(t, res.IsError)
		text := res.Content[0].(mcp.TextContent).Text
		assert.Contains(t, text, `"excluded": 1`)
	})

	t.Run("clamp policy counts early reviews on day zero", func(t *testing.T) {
		res := callScoreCutoff(map[string]any{
			"csv_file":    fixture,
			"pre_release": "clamp",
		})
		require.False(t, res.IsError)
		text := res.Content[0].(mcp.TextContent).Text
		assert.Contains(t, text, `"excluded": 0`)
		assert.Contains(t, text, `"effective_day": 0`)
		assert.Contains(t, text, `"cumulative_count": 2`)
	})
}
