package schema

import (
	"context"

	"statgate/internal/domain/catalog"
	"statgate/internal/infrastructure/cache"
	"statgate/pkg/logger"
)

// StructureProvider fetches one dataflow's structure definition from the
// collaborator protocol client.
type StructureProvider interface {
	FetchStructure(ctx context.Context, dataflowCode string) (*Structure, error)
}

// Service serves per-dataflow structure lookups. Each dataflow's structure is
// fetched lazily on first use and memoized in an explicit cache object for
// the lifetime of the catalog snapshot. Dataflow codes are checked against
// the catalog before any network call, so an unknown code never costs a
// request.
type Service struct {
	catalog    *catalog.Catalog
	provider   StructureProvider
	structures *cache.Store[*Structure]
}

// NewService creates a schema service with its own memoization store.
func NewService(cat *catalog.Catalog, provider StructureProvider) *Service {
	return &Service{
		catalog:    cat,
		provider:   provider,
		structures: cache.NewStore[*Structure](),
	}
}

// StructureFor returns the complete structure definition for a dataflow.
func (s *Service) StructureFor(ctx context.Context, dataflowCode string) (*Structure, error) {
	if _, err := s.catalog.Dataflow(ctx, dataflowCode); err != nil {
		return nil, err
	}
	return s.structures.GetOrLoad(dataflowCode, func() (*Structure, error) {
		st, err := s.provider.FetchStructure(ctx, dataflowCode)
		if err != nil {
			return nil, err
		}
		logger.Debug(ctx, "structure memoized",
			"dataflow", dataflowCode,
			"dimensions", len(st.Dimensions),
		)
		return st, nil
	})
}

// DimensionsFor returns the ordered dimension list for a dataflow.
func (s *Service) DimensionsFor(ctx context.Context, dataflowCode string) ([]Dimension, error) {
	st, err := s.StructureFor(ctx, dataflowCode)
	if err != nil {
		return nil, err
	}
	return st.Dimensions, nil
}

// ConstraintsFor returns the dataflow's content constraint. An empty
// Constraint means every codelist value is permitted.
func (s *Service) ConstraintsFor(ctx context.Context, dataflowCode string) (Constraint, error) {
	st, err := s.StructureFor(ctx, dataflowCode)
	if err != nil {
		return nil, err
	}
	if st.Constraint == nil {
		return Constraint{}, nil
	}
	return st.Constraint, nil
}

// MeasuresFor returns the observation-measure column names for a dataflow.
func (s *Service) MeasuresFor(ctx context.Context, dataflowCode string) ([]string, error) {
	st, err := s.StructureFor(ctx, dataflowCode)
	if err != nil {
		return nil, err
	}
	return st.Measures, nil
}

// AttributesFor returns the qualitative attribute column names for a dataflow.
func (s *Service) AttributesFor(ctx context.Context, dataflowCode string) ([]string, error) {
	st, err := s.StructureFor(ctx, dataflowCode)
	if err != nil {
		return nil, err
	}
	return st.Attributes, nil
}

// Reset drops all memoized structures so subsequent reads re-fetch.
func (s *Service) Reset() {
	s.structures.Reset()
}

// CachedDataflows returns the dataflow codes with a memoized structure.
func (s *Service) CachedDataflows() []string {
	return s.structures.Keys()
}
