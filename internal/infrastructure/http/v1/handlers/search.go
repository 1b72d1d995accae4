package handlers

import (
	"github.com/gin-gonic/gin"

	"statgate/internal/domain/search"
	"statgate/internal/domain/series"
	"statgate/internal/infrastructure/http/v1/dto"
)

// SearchHandler serves keyword and expression searches over catalog metadata
// and key tables.
type SearchHandler struct {
	*BaseHandler
	engine    *search.Engine
	keyTables *series.KeyTableService
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(base *BaseHandler, engine *search.Engine, keyTables *series.KeyTableService) *SearchHandler {
	return &SearchHandler{BaseHandler: base, engine: engine, keyTables: keyTables}
}

// Dataflows handles GET /search/dataflows?q=keyword&caseSensitive=bool.
func (h *SearchHandler) Dataflows(c *gin.Context) {
	results, err := h.engine.SearchDataflows(
		c.Request.Context(), c.Query("q"), c.Query("caseSensitive") == "true")
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewCodeLabelResponse(results))
}

// Categories handles GET /search/categories?q=keyword&caseSensitive=bool.
func (h *SearchHandler) Categories(c *gin.Context) {
	results, err := h.engine.SearchCategories(
		c.Request.Context(), c.Query("q"), c.Query("caseSensitive") == "true")
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewCodeLabelResponse(results))
}

// Keys handles GET /search/dataflows/:flow/keys?q=keyword - keyword match
// over the title columns of the dataflow's memoized key table. With ?expr=
// instead of ?q=, rows are filtered by a boolean expression over key, dims
// and attrs.
func (h *SearchHandler) Keys(c *gin.Context) {
	table, err := h.keyTables.KeysFor(c.Request.Context(), c.Param("flow"))
	if err != nil {
		h.Error(c, err)
		return
	}

	if expr := c.Query("expr"); expr != "" {
		filtered, err := h.engine.FilterSeriesKeys(expr, table)
		if err != nil {
			h.Error(c, err)
			return
		}
		h.OK(c, dto.FromKeyTable(filtered))
		return
	}

	filtered, err := h.engine.SearchSeriesKeys(c.Query("q"), table)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromKeyTable(filtered))
}
