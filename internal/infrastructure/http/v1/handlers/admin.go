package handlers

import (
	"github.com/gin-gonic/gin"

	"statgate/internal/domain/catalog"
	"statgate/internal/domain/schema"
	"statgate/internal/domain/series"
	"statgate/internal/infrastructure/http/v1/dto"
	"statgate/pkg/logger"
)

// AdminHandler serves cache administration endpoints.
type AdminHandler struct {
	*BaseHandler
	catalog   *catalog.Catalog
	schemas   *schema.Service
	keyTables *series.KeyTableService
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(
	base *BaseHandler,
	cat *catalog.Catalog,
	schemas *schema.Service,
	keyTables *series.KeyTableService,
) *AdminHandler {
	return &AdminHandler{
		BaseHandler: base,
		catalog:     cat,
		schemas:     schemas,
		keyTables:   keyTables,
	}
}

// ResetCaches handles POST /admin/cache/reset - drop all memoized metadata so
// subsequent reads re-fetch. Structures and key tables depend on the catalog
// snapshot, so all three layers reset together.
func (h *AdminHandler) ResetCaches(c *gin.Context) {
	h.catalog.Reset()
	h.schemas.Reset()
	h.keyTables.Reset()

	logger.Info(c.Request.Context(), "metadata caches reset")
	h.OK(c, dto.SuccessResponse{Success: true, Message: "caches reset"})
}
