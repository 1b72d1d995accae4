// Package series provides series-key construction, point-in-time data
// retrieval and assembly of observation batches into chronological tables.
package series

import (
	"context"
	"sort"
	"strings"

	"statgate/internal/core/apperror"
	"statgate/internal/domain/schema"
)

// Wildcard is the explicit "all values" marker for one key segment. It is
// only honored when the builder allows partial keys (the collaborator must
// support empty segments on the wire); otherwise it fails validation like any
// other unknown value.
const Wildcard = "*"

// allowedSampleSize bounds how many permitted codes an InvalidValue error carries.
const allowedSampleSize = 10

// DimensionValue is one (dimension name, value-code) pair of a series key.
type DimensionValue struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Key is a fully resolved series key: one value per declared dimension, in
// position order. The wire format is the values joined by ".", prefixed by
// the dataflow code (e.g. "FM.M.U2.EUR.RT.MM.EURIBOR1YD_.HSTA").
type Key struct {
	Dataflow   string           `json:"dataflow"`
	Dimensions []DimensionValue `json:"dimensions"`
}

// Segments returns the dot-joined dimension values without the dataflow
// prefix. Wildcard segments render as empty strings.
func (k *Key) Segments() string {
	parts := make([]string, len(k.Dimensions))
	for i, dv := range k.Dimensions {
		if dv.Value == Wildcard {
			parts[i] = ""
		} else {
			parts[i] = dv.Value
		}
	}
	return strings.Join(parts, ".")
}

// String returns the full dotted key including the dataflow prefix.
func (k *Key) String() string {
	return k.Dataflow + "." + k.Segments()
}

// Builder composes and validates series keys against a dataflow's declared
// dimensions and content constraints. All checks run locally against
// already-memoized metadata, before any network call: a malformed key never
// reaches the wire.
type Builder struct {
	schemas *schema.Service

	// AllowWildcards permits Wildcard segments (partial keys). Leave false
	// unless the collaborator supports empty key segments.
	AllowWildcards bool
}

// NewBuilder creates a key builder over the schema service.
func NewBuilder(schemas *schema.Service) *Builder {
	return &Builder{schemas: schemas}
}

// Dimensions returns the dataflow's declared dimension names in position
// order, for callers that map positional segments back to an assignment.
func (b *Builder) Dimensions(ctx context.Context, dataflowCode string) ([]string, error) {
	st, err := b.schemas.StructureFor(ctx, dataflowCode)
	if err != nil {
		return nil, err
	}
	return st.DimensionNames(), nil
}

// Build validates the assignment against the dataflow's dimension schema and
// constraints, and emits the canonical key.
//
// Validation order: dataflow existence, assignment coverage (missing, then
// unknown dimensions), then per-dimension value checks in position order.
func (b *Builder) Build(ctx context.Context, dataflowCode string, assignment map[string]string) (*Key, error) {
	st, err := b.schemas.StructureFor(ctx, dataflowCode)
	if err != nil {
		return nil, err
	}

	var missing []string
	for _, dim := range st.Dimensions {
		if _, ok := assignment[dim.Name]; !ok {
			missing = append(missing, dim.Name)
		}
	}
	if len(missing) > 0 {
		return nil, apperror.NewIncompleteKey(dataflowCode, missing)
	}

	var unknown []string
	for name := range assignment {
		if _, ok := st.Dimension(name); !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, apperror.NewUnknownDimension(dataflowCode, unknown)
	}

	key := &Key{
		Dataflow:   dataflowCode,
		Dimensions: make([]DimensionValue, len(st.Dimensions)),
	}
	for i, dim := range st.Dimensions {
		value := assignment[dim.Name]
		if value == Wildcard && b.AllowWildcards {
			key.Dimensions[i] = DimensionValue{Name: dim.Name, Value: Wildcard}
			continue
		}
		if !permitted(st, dim, value) {
			return nil, apperror.NewInvalidValue(dim.Name, value, allowedSample(st, dim))
		}
		key.Dimensions[i] = DimensionValue{Name: dim.Name, Value: value}
	}
	return key, nil
}

// permitted checks a value against the dataflow constraint, falling back to
// the full codelist when the constraint does not narrow this dimension.
func permitted(st *schema.Structure, dim schema.Dimension, value string) bool {
	if st.Constraint.Declares(dim.Name) {
		return st.Constraint.Permits(dim.Name, value)
	}
	return dim.Codelist.Has(value)
}

// allowedSample returns a bounded, sorted sample of the permitted codes for
// error reporting.
func allowedSample(st *schema.Structure, dim schema.Dimension) []string {
	var codes []string
	if st.Constraint.Declares(dim.Name) {
		codes = append(codes, st.Constraint[dim.Name]...)
	} else {
		for code := range dim.Codelist {
			codes = append(codes, code)
		}
	}
	sort.Strings(codes)
	if len(codes) > allowedSampleSize {
		codes = codes[:allowedSampleSize]
	}
	return codes
}
