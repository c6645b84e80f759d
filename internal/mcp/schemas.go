package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/cosmofeed/cosmofeed/pkg/types"
)

// searchContentTool returns the tool definition for search_content.
func searchContentTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_content",
		Description: "Search aggregated astronomy content (papers, videos, NASA media) with multilingual hybrid relevance search",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Free-text query in any supported locale",
				},
				"type": map[string]interface{}{
					"type":        "string",
					"description": "Content type filter",
					"enum":        []string{"all", "papers", "videos", "nasa"},
					"default":     "all",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Results per page",
					"default":     types.DefaultPerPage,
					"minimum":     1,
					"maximum":     types.MaxPerPage,
				},
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number (1-based)",
					"default":     1,
					"minimum":     1,
				},
				"locale": map[string]interface{}{
					"type":        "string",
					"description": "UI locale for localized titles/summaries",
					"enum":        []string{"en", "zh-TW", "ja"},
					"default":     "en",
				},
				"date_from": map[string]interface{}{
					"type":        "string",
					"description": "Inclusive publish-date lower bound (YYYY-MM-DD)",
				},
				"date_to": map[string]interface{}{
					"type":        "string",
					"description": "Inclusive publish-date upper bound (YYYY-MM-DD)",
				},
			},
			Required: []string{"query"},
		},
	}
}

// getStatusTool returns the tool definition for get_status.
func getStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_status",
		Description: "Report how many papers, videos, NASA items, translations, and embeddings are indexed",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}
