package series

import (
	"context"

	"statgate/internal/domain/schema"
	"statgate/internal/infrastructure/cache"
	"statgate/pkg/logger"
)

// KeyRow is one retrievable series of a dataflow: its full dotted key plus
// the dimension and attribute values that identify and describe it.
type KeyRow struct {
	Key        string            `json:"key"`
	Dimensions map[string]string `json:"dimensions"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// KeyTable is the flat table of every retrievable series key of one
// dataflow. Columns is the fixed record shape for the dataflow — dimension
// names in position order, then declared attribute names — computed once
// from the dimension schema, so every row has the same shape.
type KeyTable struct {
	Dataflow string   `json:"dataflow"`
	Columns  []string `json:"columns"`
	Rows     []KeyRow `json:"rows"`
}

// KeyTableProvider fetches the flat key table for a dataflow from the
// collaborator (a serieskeysonly-shaped request). dims and attrs give the
// fixed record shape.
type KeyTableProvider interface {
	FetchKeyTable(ctx context.Context, dataflowCode string, dims, attrs []string) (*KeyTable, error)
}

// KeyTableService fetches and memoizes key tables per dataflow. Retrieving a
// dataflow's complete key table can be slow and large, so network calls are
// bounded to one per dataflow; keyword filtering over the result is always a
// local operation (see the search package).
type KeyTableService struct {
	schemas  *schema.Service
	provider KeyTableProvider
	tables   *cache.Store[*KeyTable]
}

// NewKeyTableService creates a key table service with its own memoization store.
func NewKeyTableService(schemas *schema.Service, provider KeyTableProvider) *KeyTableService {
	return &KeyTableService{
		schemas:  schemas,
		provider: provider,
		tables:   cache.NewStore[*KeyTable](),
	}
}

// KeysFor returns every retrievable series key of a dataflow, fetching and
// memoizing the table on first use. Unknown dataflow codes fail before any
// network call.
func (s *KeyTableService) KeysFor(ctx context.Context, dataflowCode string) (*KeyTable, error) {
	st, err := s.schemas.StructureFor(ctx, dataflowCode)
	if err != nil {
		return nil, err
	}
	return s.tables.GetOrLoad(dataflowCode, func() (*KeyTable, error) {
		table, err := s.provider.FetchKeyTable(ctx, dataflowCode, st.DimensionNames(), st.Attributes)
		if err != nil {
			return nil, err
		}
		logger.Debug(ctx, "key table memoized",
			"dataflow", dataflowCode,
			"rows", len(table.Rows),
		)
		return table, nil
	})
}

// Reset drops all memoized key tables.
func (s *KeyTableService) Reset() {
	s.tables.Reset()
}
