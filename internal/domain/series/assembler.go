package series

import (
	"sort"

	"statgate/internal/core/apperror"
)

// Assembler merges retrieved observation batches — current values plus any
// historical revisions — into a single time-indexed table. Assembly is a
// pure function of its input set: feeding the same observations in any order
// yields an identical table.
type Assembler struct{}

// NewAssembler creates an Assembler.
func NewAssembler() *Assembler {
	return &Assembler{}
}

// Assemble groups raw observations by time period and flattens them into a
// chronological table.
//
// With includeHistory false, each period keeps only its currently valid row;
// if the source returned only superseded rows for a period, the revision
// with the most recent ValidFrom is kept instead of dropping the period.
// With includeHistory true, all revisions are kept, ordered ValidFrom
// ascending within each period.
//
// An empty input fails with EMPTY_RESULT: zero rows for a syntactically
// valid key usually means a date-range or filter mistake, which is worth
// surfacing rather than returning an empty table.
func (a *Assembler) Assemble(raw []Observation, includeHistory bool) (*Table, error) {
	if len(raw) == 0 {
		return nil, apperror.NewEmptyResult("")
	}

	rows := make([]Observation, len(raw))
	copy(rows, raw)
	sort.SliceStable(rows, func(i, j int) bool { return less(rows[i], rows[j]) })

	table := &Table{Key: rows[0].Key}
	if includeHistory {
		table.Rows = rows
		return table, nil
	}

	for start := 0; start < len(rows); {
		end := start
		for end < len(rows) && rows[end].TimePeriod == rows[start].TimePeriod {
			end++
		}
		table.Rows = append(table.Rows, pickCurrent(rows[start:end]))
		start = end
	}
	return table, nil
}

// pickCurrent selects the one row to keep for a period: the current revision
// if present, otherwise the latest superseded one. The group is already
// sorted ValidFrom ascending with the current row last, so the final element
// is the answer in both cases.
func pickCurrent(group []Observation) Observation {
	for _, row := range group {
		if row.Current() {
			return row
		}
	}
	return group[len(group)-1]
}
