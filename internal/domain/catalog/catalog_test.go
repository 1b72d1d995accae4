package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"statgate/internal/core/apperror"
)

type mockProvider struct {
	calls    int
	snapshot *Snapshot
	err      error
}

func (m *mockProvider) FetchCatalog(ctx context.Context) (*Snapshot, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.snapshot, nil
}

func testSnapshot() *Snapshot {
	return &Snapshot{
		Categories: []Category{
			{Code: "01", Label: "Monetary operations", Children: []string{"01.1"}},
			{Code: "01.1", Label: "Key interest rates", Parent: "01"},
			{Code: "07", Label: "Exchange rates", Dataflows: []string{"EXR"}},
		},
		Dataflows: map[string]Dataflow{
			"EXR": {Code: "EXR", Label: "Exchange Rates", CategoryCode: "07"},
			"FM":  {Code: "FM", Label: "Financial market data", CategoryCode: "01"},
			"XYZ": {Code: "XYZ", Label: "Orphan flow"},
		},
	}
}

func TestCatalog_ListCategories_RootsInDeclaredOrder(t *testing.T) {
	cat := New(&mockProvider{snapshot: testSnapshot()})

	roots, err := cat.ListCategories(context.Background())
	assert.NoError(t, err)

	codes := make([]string, len(roots))
	for i, c := range roots {
		codes[i] = c.Code
	}
	// "01.1" has a parent and must not appear; the unclassified sentinel is
	// appended after the declared categories
	assert.Equal(t, []string{"01", "07", UnclassifiedCode}, codes)
}

func TestCatalog_OrphanDataflowsLandUnderUnclassified(t *testing.T) {
	cat := New(&mockProvider{snapshot: testSnapshot()})
	ctx := context.Background()

	sentinel, err := cat.Category(ctx, UnclassifiedCode)
	assert.NoError(t, err)
	assert.Equal(t, []string{"XYZ"}, sentinel.Dataflows)

	df, err := cat.Dataflow(ctx, "XYZ")
	assert.NoError(t, err)
	assert.Equal(t, UnclassifiedCode, df.CategoryCode)
}

func TestCatalog_DataflowsIn_SortedByCode(t *testing.T) {
	snap := testSnapshot()
	cat07 := &snap.Categories[2]
	cat07.Dataflows = []string{"EXR"}
	snap.Dataflows["BSI"] = Dataflow{Code: "BSI", Label: "Balance sheet items", CategoryCode: "07"}
	cat07.Dataflows = append(cat07.Dataflows, "BSI")

	cat := New(&mockProvider{snapshot: snap})
	flows, err := cat.DataflowsIn(context.Background(), "07")
	assert.NoError(t, err)
	assert.Len(t, flows, 2)
	assert.Equal(t, "BSI", flows[0].Code)
	assert.Equal(t, "EXR", flows[1].Code)
}

func TestCatalog_UnknownCodesAreNotFound(t *testing.T) {
	cat := New(&mockProvider{snapshot: testSnapshot()})
	ctx := context.Background()

	_, err := cat.Category(ctx, "99")
	assert.True(t, apperror.IsNotFound(err))

	_, err = cat.DataflowsIn(ctx, "99")
	assert.True(t, apperror.IsNotFound(err))

	_, err = cat.Dataflow(ctx, "NOPE")
	assert.True(t, apperror.IsNotFound(err))

	ok, err := cat.Has(ctx, "NOPE")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestCatalog_SnapshotFetchedOncePerReset(t *testing.T) {
	provider := &mockProvider{snapshot: testSnapshot()}
	cat := New(provider)
	ctx := context.Background()

	_, _ = cat.ListCategories(ctx)
	_, _ = cat.AllDataflows(ctx)
	_, _ = cat.Dataflow(ctx, "EXR")
	assert.Equal(t, 1, provider.calls)

	cat.Reset()
	_, _ = cat.ListCategories(ctx)
	assert.Equal(t, 2, provider.calls)
}

func TestCatalog_ProviderErrorPropagatesUncached(t *testing.T) {
	provider := &mockProvider{err: errors.New("unreachable")}
	cat := New(provider)
	ctx := context.Background()

	_, err := cat.ListCategories(ctx)
	assert.Error(t, err)

	provider.err = nil
	provider.snapshot = testSnapshot()
	_, err = cat.ListCategories(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 2, provider.calls)
}
