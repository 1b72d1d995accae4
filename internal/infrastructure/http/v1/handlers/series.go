package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"statgate/internal/core/apperror"
	"statgate/internal/domain/series"
	"statgate/internal/infrastructure/http/v1/dto"
)

// SeriesHandler serves key construction, key tables and data retrieval.
type SeriesHandler struct {
	*BaseHandler
	builder   *series.Builder
	executor  *series.QueryExecutor
	keyTables *series.KeyTableService
}

// NewSeriesHandler creates a new series handler.
func NewSeriesHandler(
	base *BaseHandler,
	builder *series.Builder,
	executor *series.QueryExecutor,
	keyTables *series.KeyTableService,
) *SeriesHandler {
	return &SeriesHandler{
		BaseHandler: base,
		builder:     builder,
		executor:    executor,
		keyTables:   keyTables,
	}
}

// BuildKey handles POST /series/key - validate a dimension assignment and
// return the canonical dotted key. Validation is fully local; this endpoint
// never triggers a data request.
func (h *SeriesHandler) BuildKey(c *gin.Context) {
	var req dto.BuildKeyRequest
	if !h.BindJSON(c, &req) {
		return
	}

	key, err := h.builder.Build(c.Request.Context(), req.Dataflow, req.Assignment)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromKey(key))
}

// GetData handles GET /series/:key/data - fetch and assemble the observation
// table for a full dotted key. The key is re-validated against the dataflow's
// schema before the request goes out.
func (h *SeriesHandler) GetData(c *gin.Context) {
	key, err := h.parseKey(c)
	if err != nil {
		h.Error(c, err)
		return
	}

	var req dto.DataRequest
	if !h.BindQuery(c, &req) {
		return
	}
	query, err := req.Query()
	if err != nil {
		h.Error(c, err)
		return
	}

	table, err := h.executor.FetchTable(c.Request.Context(), key, query)
	if err != nil {
		h.Error(c, err)
		return
	}
	if req.Descending {
		table = table.Descending()
	}
	h.OK(c, dto.FromTable(table))
}

// ListKeys handles GET /dataflows/:flow/keys - the memoized flat key table of
// a dataflow.
func (h *SeriesHandler) ListKeys(c *gin.Context) {
	table, err := h.keyTables.KeysFor(c.Request.Context(), c.Param("flow"))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromKeyTable(table))
}

// parseKey splits a dotted path key and rebuilds it through the validating
// builder, so malformed keys fail with the same taxonomy as BuildKey.
func (h *SeriesHandler) parseKey(c *gin.Context) (*series.Key, error) {
	raw := c.Param("key")
	flow, rest, ok := strings.Cut(raw, ".")
	if !ok {
		return nil, apperror.NewInvalidArgument("series key must contain a dataflow prefix").
			WithDetail("key", raw)
	}

	dims, err := h.builder.Dimensions(c.Request.Context(), flow)
	if err != nil {
		return nil, err
	}
	values := strings.Split(rest, ".")
	if len(values) != len(dims) {
		return nil, apperror.NewInvalidArgument("series key has wrong number of segments").
			WithDetail("key", raw).
			WithDetail("expected", len(dims)).
			WithDetail("got", len(values))
	}

	assignment := make(map[string]string, len(dims))
	for i, dim := range dims {
		assignment[dim] = values[i]
	}
	return h.builder.Build(c.Request.Context(), flow, assignment)
}
