package catalog

import (
	"context"
	"sort"
	"sync/atomic"

	"statgate/internal/core/apperror"
	"statgate/pkg/logger"
)

// SnapshotProvider fetches the full catalog description from the collaborator
// protocol client. One call materializes everything the category layer needs.
type SnapshotProvider interface {
	FetchCatalog(ctx context.Context) (*Snapshot, error)
}

// Catalog serves category and dataflow lookups from a lazily fetched,
// memoized snapshot. First call on any read path triggers exactly one
// collaborator fetch; subsequent calls are pure in-memory reads until Reset.
type Catalog struct {
	provider SnapshotProvider

	// populated on first use; concurrent first loads may fetch twice,
	// last write wins (the snapshot itself is immutable)
	snapshot atomic.Pointer[snapshotState]
}

type snapshotState struct {
	categories []Category
	byCode     map[string]*Category
	dataflows  map[string]Dataflow
}

// New creates a Catalog over the given provider.
func New(provider SnapshotProvider) *Catalog {
	return &Catalog{provider: provider}
}

// ListCategories returns top-level categories in catalog-declared order.
func (c *Catalog) ListCategories(ctx context.Context) ([]Category, error) {
	snap, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	var roots []Category
	for _, cat := range snap.categories {
		if cat.IsRoot() {
			roots = append(roots, cat)
		}
	}
	return roots, nil
}

// Category returns a single category by code.
func (c *Catalog) Category(ctx context.Context, code string) (*Category, error) {
	snap, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	cat, ok := snap.byCode[code]
	if !ok {
		return nil, apperror.NewNotFound("category", code)
	}
	return cat, nil
}

// DataflowsIn returns the member dataflows of a category, sorted by code.
func (c *Catalog) DataflowsIn(ctx context.Context, categoryCode string) ([]Dataflow, error) {
	snap, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	cat, ok := snap.byCode[categoryCode]
	if !ok {
		return nil, apperror.NewNotFound("category", categoryCode)
	}
	flows := make([]Dataflow, 0, len(cat.Dataflows))
	for _, code := range cat.Dataflows {
		if df, ok := snap.dataflows[code]; ok {
			flows = append(flows, df)
		}
	}
	sort.Slice(flows, func(i, j int) bool { return flows[i].Code < flows[j].Code })
	return flows, nil
}

// AllDataflows flattens the whole catalog into a code→label mapping.
// This is the base search space for dataflow keyword search.
func (c *Catalog) AllDataflows(ctx context.Context) (map[string]string, error) {
	snap, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	all := make(map[string]string, len(snap.dataflows))
	for code, df := range snap.dataflows {
		all[code] = df.Label
	}
	return all, nil
}

// Dataflow returns a single dataflow by code.
func (c *Catalog) Dataflow(ctx context.Context, code string) (*Dataflow, error) {
	snap, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	df, ok := snap.dataflows[code]
	if !ok {
		return nil, apperror.NewNotFound("dataflow", code)
	}
	return &df, nil
}

// Has reports whether the catalog declares the dataflow code.
func (c *Catalog) Has(ctx context.Context, code string) (bool, error) {
	snap, err := c.load(ctx)
	if err != nil {
		return false, err
	}
	_, ok := snap.dataflows[code]
	return ok, nil
}

// Reset drops the memoized snapshot so the next read re-fetches.
func (c *Catalog) Reset() {
	c.snapshot.Store(nil)
}

// load returns the memoized snapshot, fetching it on first use.
func (c *Catalog) load(ctx context.Context) (*snapshotState, error) {
	if snap := c.snapshot.Load(); snap != nil {
		return snap, nil
	}

	raw, err := c.provider.FetchCatalog(ctx)
	if err != nil {
		return nil, err
	}
	snap := buildState(raw)
	c.snapshot.Store(snap)

	logger.Debug(ctx, "catalog snapshot materialized",
		"categories", len(snap.categories),
		"dataflows", len(snap.dataflows),
	)
	return snap, nil
}

// buildState indexes a raw snapshot and enforces the single-category
// invariant: dataflows without a categorisation land under the sentinel
// unclassified root.
func buildState(raw *Snapshot) *snapshotState {
	snap := &snapshotState{
		categories: append([]Category(nil), raw.Categories...),
		byCode:     make(map[string]*Category, len(raw.Categories)+1),
		dataflows:  make(map[string]Dataflow, len(raw.Dataflows)),
	}

	for i := range snap.categories {
		snap.byCode[snap.categories[i].Code] = &snap.categories[i]
	}

	var orphans []string
	for code, df := range raw.Dataflows {
		if df.CategoryCode == "" || snap.byCode[df.CategoryCode] == nil {
			df.CategoryCode = UnclassifiedCode
			orphans = append(orphans, code)
		}
		snap.dataflows[code] = df
	}

	if len(orphans) > 0 {
		sort.Strings(orphans)
		if snap.byCode[UnclassifiedCode] == nil {
			snap.categories = append(snap.categories, Category{
				Code:  UnclassifiedCode,
				Label: "Unclassified",
			})
			snap.byCode[UnclassifiedCode] = &snap.categories[len(snap.categories)-1]
		}
		cat := snap.byCode[UnclassifiedCode]
		cat.Dataflows = append(cat.Dataflows, orphans...)
	}

	return snap
}
