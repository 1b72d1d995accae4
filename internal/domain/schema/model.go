// Package schema provides the per-dataflow structure layer: ordered
// dimensions, codelists, content constraints, measures and attributes.
package schema

// Codelist maps permitted value-codes to human labels for one controlled
// vocabulary. Codelists may be shared across dataflows.
type Codelist map[string]string

// Has reports whether the codelist contains the value-code.
func (cl Codelist) Has(code string) bool {
	_, ok := cl[code]
	return ok
}

// Dimension is one measured aspect of a dataflow. Position defines the
// key-segment order: a series key is the dimension values concatenated in
// position order, joined by ".".
type Dimension struct {
	// Name is the dimension identifier (e.g. "FREQ", "CURRENCY")
	Name string `json:"name"`

	// Position is the zero-based key-segment index
	Position int `json:"position"`

	// Codelist enumerates the full permitted vocabulary
	Codelist Codelist `json:"codelist,omitempty"`
}

// Constraint narrows dimensions to the value-codes one dataflow actually
// uses. A missing dimension entry means the full codelist is permitted.
// An empty Constraint (no entries at all) is a valid, non-error state.
type Constraint map[string][]string

// Declares reports whether the constraint narrows the given dimension.
func (c Constraint) Declares(dimension string) bool {
	_, ok := c[dimension]
	return ok
}

// Permits reports whether value is in the dimension's permitted set.
// Only meaningful when Declares(dimension) is true.
func (c Constraint) Permits(dimension, value string) bool {
	for _, v := range c[dimension] {
		if v == value {
			return true
		}
	}
	return false
}

// Structure is one dataflow's complete structure definition: everything
// needed to build, validate and label series keys. Immutable once fetched.
type Structure struct {
	// DataflowCode identifies the owning dataflow
	DataflowCode string `json:"dataflowCode"`

	// Dimensions ordered by Position
	Dimensions []Dimension `json:"dimensions"`

	// Measures are the observation-measure column names (typically OBS_VALUE)
	Measures []string `json:"measures"`

	// Attributes are qualitative column names (OBS_STATUS, UNIT, UNIT_MULT, ...)
	Attributes []string `json:"attributes"`

	// Constraint is the dataflow-specific narrowing; may be empty
	Constraint Constraint `json:"constraint,omitempty"`
}

// Dimension returns the declared dimension by name.
func (s *Structure) Dimension(name string) (*Dimension, bool) {
	for i := range s.Dimensions {
		if s.Dimensions[i].Name == name {
			return &s.Dimensions[i], true
		}
	}
	return nil, false
}

// DimensionNames returns the declared dimension names in position order.
func (s *Structure) DimensionNames() []string {
	names := make([]string, len(s.Dimensions))
	for i, d := range s.Dimensions {
		names[i] = d.Name
	}
	return names
}

// PermittedValues returns the effective permitted value→label mapping for one
// dimension: the constraint-restricted subset when a constraint is declared,
// the full codelist otherwise. Constrained codes missing from the codelist
// keep an empty label rather than being dropped.
func (s *Structure) PermittedValues(dimension string) (map[string]string, bool) {
	dim, ok := s.Dimension(dimension)
	if !ok {
		return nil, false
	}
	if !s.Constraint.Declares(dimension) {
		out := make(map[string]string, len(dim.Codelist))
		for code, label := range dim.Codelist {
			out[code] = label
		}
		return out, true
	}
	codes := s.Constraint[dimension]
	out := make(map[string]string, len(codes))
	for _, code := range codes {
		out[code] = dim.Codelist[code]
	}
	return out, true
}
