// Package search provides keyword and expression search over materialized
// catalog metadata and pre-fetched key tables.
//
// Search is always a local filter — never a server-side full-text query. The
// catalog's remote interface exposes no keyword search, so filtering locally
// over memoized metadata keeps behavior deterministic and bounds network
// calls to one per (dataflow, "all keys") combination.
package search

import (
	"context"
	"strings"

	"github.com/google/cel-go/cel"
	"golang.org/x/text/cases"

	"statgate/internal/core/apperror"
	"statgate/internal/domain/catalog"
	"statgate/internal/domain/schema"
	"statgate/internal/domain/series"
)

// DefaultTitleColumns are the key-table columns matched by keyword search
// over series keys.
var DefaultTitleColumns = []string{"TITLE", "TITLE_COMPL"}

// Engine answers keyword searches over the catalog's label text and filters
// pre-fetched key tables. It reads memoized metadata only; the one network
// fetch per dataflow happens in the services it wraps.
type Engine struct {
	catalog *catalog.Catalog
	schemas *schema.Service

	// TitleColumns overrides the key-table columns matched by SearchSeriesKeys
	TitleColumns []string
}

// NewEngine creates a search engine over the catalog and schema services.
func NewEngine(cat *catalog.Catalog, schemas *schema.Service) *Engine {
	return &Engine{
		catalog:      cat,
		schemas:      schemas,
		TitleColumns: DefaultTitleColumns,
	}
}

// SearchDataflows returns the dataflows whose label contains keyword.
// Matching is substring over labels only (not codes), Unicode case-folded on
// both sides unless caseSensitive. No match is an empty mapping, not an
// error; an empty keyword is a caller mistake.
func (e *Engine) SearchDataflows(ctx context.Context, keyword string, caseSensitive bool) (map[string]string, error) {
	if keyword == "" {
		return nil, apperror.NewInvalidArgument("search keyword must not be empty")
	}
	all, err := e.catalog.AllDataflows(ctx)
	if err != nil {
		return nil, err
	}

	match := matcher(keyword, caseSensitive)
	results := make(map[string]string)
	for code, label := range all {
		if match(label) {
			results[code] = label
		}
	}
	return results, nil
}

// SearchCategories returns the categories whose label contains keyword,
// with the same match policy as SearchDataflows.
func (e *Engine) SearchCategories(ctx context.Context, keyword string, caseSensitive bool) (map[string]string, error) {
	if keyword == "" {
		return nil, apperror.NewInvalidArgument("search keyword must not be empty")
	}
	cats, err := e.catalog.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	match := matcher(keyword, caseSensitive)
	results := make(map[string]string)
	for _, cat := range cats {
		if match(cat.Label) {
			results[cat.Code] = cat.Label
		}
	}
	return results, nil
}

// SearchDimensionValues returns the permitted value→label mapping of one
// dimension, restricted to the dataflow's constraint, optionally filtered by
// a case-folded keyword matched against codes and labels. An empty keyword
// returns the full permitted mapping — valid, but potentially large for
// unconstrained dimensions with big codelists.
func (e *Engine) SearchDimensionValues(ctx context.Context, dataflowCode, dimensionName, keyword string) (map[string]string, error) {
	st, err := e.schemas.StructureFor(ctx, dataflowCode)
	if err != nil {
		return nil, err
	}
	values, ok := st.PermittedValues(dimensionName)
	if !ok {
		return nil, apperror.NewNotFound("dimension", dimensionName).
			WithDetail("dataflow", dataflowCode)
	}
	if keyword == "" {
		return values, nil
	}

	match := matcher(keyword, false)
	results := make(map[string]string)
	for code, label := range values {
		if match(code) || match(label) {
			results[code] = label
		}
	}
	return results, nil
}

// SearchSeriesKeys filters a pre-fetched key table by case-insensitive
// substring match against its title columns. It never touches the network,
// so it is safe to call repeatedly with different keywords.
func (e *Engine) SearchSeriesKeys(keyword string, table *series.KeyTable) (*series.KeyTable, error) {
	if keyword == "" {
		return nil, apperror.NewInvalidArgument("search keyword must not be empty")
	}
	if table == nil {
		return nil, apperror.NewInvalidArgument("key table is required")
	}

	match := matcher(keyword, false)
	out := &series.KeyTable{Dataflow: table.Dataflow, Columns: table.Columns}
	for _, row := range table.Rows {
		for _, col := range e.titleColumns() {
			if title, ok := row.Attributes[col]; ok && match(title) {
				out.Rows = append(out.Rows, row)
				break
			}
		}
	}
	return out, nil
}

// FilterSeriesKeys filters a pre-fetched key table with a CEL boolean
// expression over the variables key (string), dims and attrs (both
// map<string,string>), e.g.:
//
//	dims["FREQ"] == "M" && attrs["TITLE"].contains("EURIBOR")
//
// Like keyword search it is purely local.
func (e *Engine) FilterSeriesKeys(expr string, table *series.KeyTable) (*series.KeyTable, error) {
	if expr == "" {
		return nil, apperror.NewInvalidArgument("filter expression must not be empty")
	}
	if table == nil {
		return nil, apperror.NewInvalidArgument("key table is required")
	}

	env, err := cel.NewEnv(
		cel.Variable("key", cel.StringType),
		cel.Variable("dims", cel.MapType(cel.StringType, cel.StringType)),
		cel.Variable("attrs", cel.MapType(cel.StringType, cel.StringType)),
	)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, apperror.NewInvalidArgument("invalid filter expression").
			WithDetail("expression", expr).
			WithDetail("error", issues.Err().Error())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, apperror.NewInvalidArgument("filter expression must evaluate to a boolean").
			WithDetail("expression", expr).
			WithDetail("type", ast.OutputType().String())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, apperror.NewInvalidArgument("invalid filter expression").
			WithDetail("expression", expr).
			WithDetail("error", err.Error())
	}

	out := &series.KeyTable{Dataflow: table.Dataflow, Columns: table.Columns}
	for _, row := range table.Rows {
		result, _, err := prg.Eval(map[string]any{
			"key":   row.Key,
			"dims":  row.Dimensions,
			"attrs": row.Attributes,
		})
		if err != nil {
			// Missing-column lookups count as non-matches, not failures
			continue
		}
		if keep, ok := result.Value().(bool); ok && keep {
			out.Rows = append(out.Rows, row)
		}
	}
	return out, nil
}

func (e *Engine) titleColumns() []string {
	if len(e.TitleColumns) > 0 {
		return e.TitleColumns
	}
	return DefaultTitleColumns
}

// matcher builds a substring predicate, Unicode case-folding both sides
// unless caseSensitive.
func matcher(keyword string, caseSensitive bool) func(string) bool {
	if caseSensitive {
		return func(s string) bool { return strings.Contains(s, keyword) }
	}
	fold := cases.Fold()
	folded := fold.String(keyword)
	return func(s string) bool { return strings.Contains(fold.String(s), folded) }
}
