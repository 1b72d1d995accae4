package schema

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"statgate/internal/core/apperror"
	"statgate/internal/domain/catalog"
)

type mockCatalogProvider struct{}

func (m *mockCatalogProvider) FetchCatalog(ctx context.Context) (*catalog.Snapshot, error) {
	return &catalog.Snapshot{
		Categories: []catalog.Category{{Code: "01", Label: "Financial markets"}},
		Dataflows: map[string]catalog.Dataflow{
			"FM": {Code: "FM", Label: "Financial market data", CategoryCode: "01"},
		},
	}, nil
}

type mockStructureProvider struct {
	calls int
	st    *Structure
}

func (m *mockStructureProvider) FetchStructure(ctx context.Context, dataflowCode string) (*Structure, error) {
	m.calls++
	return m.st, nil
}

func testStructure() *Structure {
	return &Structure{
		DataflowCode: "FM",
		Dimensions: []Dimension{
			{Name: "FREQ", Position: 0, Codelist: Codelist{"A": "Annual", "M": "Monthly", "D": "Daily"}},
			{Name: "REF_AREA", Position: 1, Codelist: Codelist{"U2": "Euro area", "DE": "Germany"}},
		},
		Measures:   []string{"OBS_VALUE"},
		Attributes: []string{"TITLE", "OBS_STATUS"},
		Constraint: Constraint{"FREQ": {"M", "D"}},
	}
}

func TestService_StructureFor_ChecksCatalogBeforeNetwork(t *testing.T) {
	provider := &mockStructureProvider{st: testStructure()}
	svc := NewService(catalog.New(&mockCatalogProvider{}), provider)

	_, err := svc.StructureFor(context.Background(), "NOPE")
	assert.True(t, apperror.IsNotFound(err))
	assert.Equal(t, 0, provider.calls)
}

func TestService_StructureFor_MemoizesPerDataflow(t *testing.T) {
	provider := &mockStructureProvider{st: testStructure()}
	svc := NewService(catalog.New(&mockCatalogProvider{}), provider)
	ctx := context.Background()

	st, err := svc.StructureFor(ctx, "FM")
	assert.NoError(t, err)
	assert.Equal(t, "FM", st.DataflowCode)

	_, _ = svc.DimensionsFor(ctx, "FM")
	_, _ = svc.ConstraintsFor(ctx, "FM")
	_, _ = svc.MeasuresFor(ctx, "FM")
	assert.Equal(t, 1, provider.calls)
	assert.Equal(t, []string{"FM"}, svc.CachedDataflows())

	svc.Reset()
	_, _ = svc.StructureFor(ctx, "FM")
	assert.Equal(t, 2, provider.calls)
}

func TestService_ConstraintsFor_NilBecomesEmpty(t *testing.T) {
	st := testStructure()
	st.Constraint = nil
	svc := NewService(catalog.New(&mockCatalogProvider{}), &mockStructureProvider{st: st})

	constraint, err := svc.ConstraintsFor(context.Background(), "FM")
	assert.NoError(t, err)
	assert.NotNil(t, constraint)
	assert.Empty(t, constraint)
}

func TestStructure_PermittedValues(t *testing.T) {
	st := testStructure()

	// constrained dimension: restricted subset with labels from the codelist
	values, ok := st.PermittedValues("FREQ")
	assert.True(t, ok)
	assert.Equal(t, map[string]string{"M": "Monthly", "D": "Daily"}, values)

	// unconstrained dimension: full codelist
	values, ok = st.PermittedValues("REF_AREA")
	assert.True(t, ok)
	assert.Len(t, values, 2)

	_, ok = st.PermittedValues("NOPE")
	assert.False(t, ok)
}

func TestConstraint_DeclaresAndPermits(t *testing.T) {
	c := Constraint{"FREQ": {"M"}}
	assert.True(t, c.Declares("FREQ"))
	assert.False(t, c.Declares("REF_AREA"))
	assert.True(t, c.Permits("FREQ", "M"))
	assert.False(t, c.Permits("FREQ", "A"))
}
