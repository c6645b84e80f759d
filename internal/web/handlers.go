package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cosmofeed/cosmofeed/pkg/types"
)

// handleHealth reports liveness.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleSearch maps query parameters onto a types.Query and returns
// the engine's response verbatim.
func (s *Server) handleSearch(c *gin.Context) {
	q := types.Query{
		Text:     c.Query("q"),
		Type:     types.ParseTypeFilter(c.Query("type")),
		PerPage:  atoiDefault(c.Query("limit"), 0),
		Page:     atoiDefault(c.Query("page"), 0),
		Locale:   types.ParseLocale(c.Query("locale")),
		DateFrom: c.Query("dateFrom"),
		DateTo:   c.Query("dateTo"),
	}

	start := time.Now()
	resp, err := s.searcher.Search(c.Request.Context(), q)
	if err != nil {
		s.logger.Error("search failed", "query", q.Text, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}

	s.logger.Info("search",
		"query", q.Text,
		"locale", string(q.Locale),
		"total", resp.Total,
		"showingRelated", resp.ShowingRelated,
		"duration", time.Since(start))
	c.JSON(http.StatusOK, resp)
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
