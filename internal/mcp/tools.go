package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/cosmofeed/cosmofeed/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams = -32602 // Invalid method parameters
	ErrorCodeInternalError = -32603 // Internal JSON-RPC error
	ErrorCodeEmptyQuery    = -32004 // Query parameter is empty
)

// handleSearchContent handles the search_content tool invocation.
func (s *Server) handleSearchContent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	queryText, ok := args["query"].(string)
	if !ok || queryText == "" {
		return nil, newMCPError(ErrorCodeEmptyQuery, "query parameter is required and cannot be empty", map[string]interface{}{
			"param":  "query",
			"reason": "missing or empty",
		})
	}

	q := types.Query{
		Text:     queryText,
		Type:     types.ParseTypeFilter(getString(args, "type")),
		PerPage:  getInt(args, "limit"),
		Page:     getInt(args, "page"),
		Locale:   types.ParseLocale(getString(args, "locale")),
		DateFrom: getString(args, "date_from"),
		DateTo:   getString(args, "date_to"),
	}

	resp, err := s.searcher.Search(ctx, q)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "search failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return mcp.NewToolResultText(formatJSON(resp)), nil
}

// handleGetStatus handles the get_status tool invocation.
func (s *Server) handleGetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := s.stats.Stats(ctx)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to read store stats", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"papers":       stats.Papers,
		"videos":       stats.Videos,
		"nasa_items":   stats.NasaItems,
		"translations": stats.Translations,
		"embeddings":   stats.Embeddings,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// newMCPError builds a JSON-RPC style error.
func newMCPError(code int, message string, data map[string]interface{}) error {
	if data == nil {
		return fmt.Errorf("mcp error %d: %s", code, message)
	}
	detail, _ := json.Marshal(data)
	return fmt.Errorf("mcp error %d: %s: %s", code, message, string(detail))
}

// formatJSON renders a value as indented JSON for tool output.
func formatJSON(v interface{}) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

func getString(args map[string]interface{}, key string) string {
	v, _ := args[key].(string)
	return v
}

func getInt(args map[string]interface{}, key string) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}
