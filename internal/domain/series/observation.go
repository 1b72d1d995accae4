package series

import (
	"time"

	"github.com/shopspring/decimal"
)

// Observation is one published value of a series at one time period, with
// its validity interval. A nil ValidTo marks the currently valid revision;
// a non-nil ValidTo marks a superseded historical value. Multiple
// observations may share a TimePeriod when history is requested — they
// differ by ValidFrom/ValidTo.
type Observation struct {
	// Key is the full dotted series key this observation belongs to
	Key string `json:"key"`

	// TimePeriod in the dataflow's frequency granularity
	// ("2024", "2024-Q1", "2024-01", "2024-01-15")
	TimePeriod string `json:"timePeriod"`

	// Value is the observed measure; invalid (null) for nodata/serieskeysonly rows
	Value decimal.NullDecimal `json:"value"`

	// Attributes carries qualitative columns (OBS_STATUS, UNIT, UNIT_MULT, ...)
	Attributes map[string]string `json:"attributes,omitempty"`

	// ValidFrom is when this revision was published
	ValidFrom time.Time `json:"validFrom"`

	// ValidTo is when this revision was superseded, nil while current
	ValidTo *time.Time `json:"validTo,omitempty"`
}

// Current reports whether this is the currently valid revision.
func (o *Observation) Current() bool {
	return o.ValidTo == nil
}

// Table is the assembled, chronologically ordered observation sequence for
// one series key. Rows are ordered TimePeriod ascending, then ValidFrom
// ascending within a period.
type Table struct {
	Key  string        `json:"key"`
	Rows []Observation `json:"rows"`
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Descending returns a copy of the table with rows in reverse order, for
// callers that want newest-first output.
func (t *Table) Descending() *Table {
	out := &Table{Key: t.Key, Rows: make([]Observation, len(t.Rows))}
	for i, row := range t.Rows {
		out.Rows[len(t.Rows)-1-i] = row
	}
	return out
}

// less is the total order used for assembly: TimePeriod, then ValidFrom,
// then ValidTo with nil (current) last. SDMX period strings at a fixed
// frequency sort chronologically as plain strings, so no period parsing is
// needed; gaps in the source pass through unchanged.
func less(a, b Observation) bool {
	if a.TimePeriod != b.TimePeriod {
		return a.TimePeriod < b.TimePeriod
	}
	if !a.ValidFrom.Equal(b.ValidFrom) {
		return a.ValidFrom.Before(b.ValidFrom)
	}
	switch {
	case a.ValidTo == nil && b.ValidTo == nil:
		return false
	case a.ValidTo == nil:
		return false
	case b.ValidTo == nil:
		return true
	default:
		return a.ValidTo.Before(*b.ValidTo)
	}
}
