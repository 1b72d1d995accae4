package handlers

import (
	"github.com/gin-gonic/gin"

	"statgate/internal/domain/schema"
	"statgate/internal/domain/search"
	"statgate/internal/infrastructure/http/v1/dto"
)

// SchemaHandler serves dimension schemas, codelists and constraints.
type SchemaHandler struct {
	*BaseHandler
	schemas *schema.Service
	search  *search.Engine
}

// NewSchemaHandler creates a new schema handler.
func NewSchemaHandler(base *BaseHandler, schemas *schema.Service, engine *search.Engine) *SchemaHandler {
	return &SchemaHandler{BaseHandler: base, schemas: schemas, search: engine}
}

// GetStructure handles GET /dataflows/:flow/structure - the full structure
// definition (dimensions, measures, attributes).
func (h *SchemaHandler) GetStructure(c *gin.Context) {
	st, err := h.schemas.StructureFor(c.Request.Context(), c.Param("flow"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromStructure(st))
}

// ListDimensions handles GET /dataflows/:flow/dimensions - ordered dimension
// list.
func (h *SchemaHandler) ListDimensions(c *gin.Context) {
	dims, err := h.schemas.DimensionsFor(c.Request.Context(), c.Param("flow"))
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.DimensionResponse, len(dims))
	for i, d := range dims {
		items[i] = dto.FromDimension(d)
	}
	h.OK(c, gin.H{"count": len(items), "items": items})
}

// GetDimensionValues handles GET /dataflows/:flow/dimensions/:name/values -
// the permitted value→label mapping, optionally filtered by ?q=keyword.
func (h *SchemaHandler) GetDimensionValues(c *gin.Context) {
	values, err := h.search.SearchDimensionValues(
		c.Request.Context(), c.Param("flow"), c.Param("name"), c.Query("q"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.NewCodeLabelResponse(values))
}

// GetConstraints handles GET /dataflows/:flow/constraints - the content
// constraint restricting retrievable key values.
func (h *SchemaHandler) GetConstraints(c *gin.Context) {
	flow := c.Param("flow")
	constraint, err := h.schemas.ConstraintsFor(c.Request.Context(), flow)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.ConstraintResponse{Dataflow: flow, Dimensions: constraint})
}
