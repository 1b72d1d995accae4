package handlers

import (
	"github.com/gin-gonic/gin"

	"statgate/internal/domain/catalog"
	"statgate/internal/infrastructure/http/v1/dto"
)

// CatalogHandler serves category and dataflow lookups.
type CatalogHandler struct {
	*BaseHandler
	catalog *catalog.Catalog
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(base *BaseHandler, cat *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{BaseHandler: base, catalog: cat}
}

// ListCategories handles GET /categories - top-level categories in
// catalog-declared order.
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	cats, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.CategoryResponse, len(cats))
	for i, cat := range cats {
		items[i] = dto.FromCategory(cat)
	}
	h.OK(c, dto.CategoryListResponse{Count: len(items), Items: items})
}

// GetCategory handles GET /categories/:code - single category.
func (h *CatalogHandler) GetCategory(c *gin.Context) {
	cat, err := h.catalog.Category(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromCategory(*cat))
}

// ListCategoryDataflows handles GET /categories/:code/dataflows - member
// dataflows of a category, sorted by code.
func (h *CatalogHandler) ListCategoryDataflows(c *gin.Context) {
	flows, err := h.catalog.DataflowsIn(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.DataflowResponse, len(flows))
	for i, df := range flows {
		items[i] = dto.FromDataflow(df)
	}
	h.OK(c, dto.DataflowListResponse{Count: len(items), Items: items})
}

// ListDataflows handles GET /dataflows - the whole catalog as a code→label
// mapping.
func (h *CatalogHandler) ListDataflows(c *gin.Context) {
	all, err := h.catalog.AllDataflows(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewCodeLabelResponse(all))
}

// GetDataflow handles GET /dataflows/:flow - single dataflow.
func (h *CatalogHandler) GetDataflow(c *gin.Context) {
	df, err := h.catalog.Dataflow(c.Request.Context(), c.Param("flow"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromDataflow(*df))
}
