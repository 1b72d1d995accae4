package dto

import "statgate/internal/domain/series"

// BuildKeyRequest for validating a dimension assignment into a series key.
type BuildKeyRequest struct {
	Dataflow   string            `json:"dataflow" binding:"required"`
	Assignment map[string]string `json:"assignment" binding:"required"`
}

// KeyResponse carries a validated series key.
type KeyResponse struct {
	Key        string                  `json:"key"`
	Dataflow   string                  `json:"dataflow"`
	Dimensions []series.DimensionValue `json:"dimensions"`
}

// FromKey creates KeyResponse from series.Key.
func FromKey(k *series.Key) KeyResponse {
	return KeyResponse{
		Key:        k.String(),
		Dataflow:   k.Dataflow,
		Dimensions: k.Dimensions,
	}
}

// DataRequest contains the optional data-fetch query parameters.
type DataRequest struct {
	Start          string `form:"start"`
	End            string `form:"end"`
	Detail         string `form:"detail"`
	UpdatedAfter   string `form:"updatedAfter"`
	FirstN         int    `form:"firstN"`
	LastN          int    `form:"lastN"`
	IncludeHistory bool   `form:"includeHistory"`
	Descending     bool   `form:"descending"`
}

// Query converts the request into a validated domain query.
func (r *DataRequest) Query() (series.DataQuery, error) {
	detail, err := series.ParseDetailLevel(r.Detail)
	if err != nil {
		return series.DataQuery{}, err
	}
	q := series.DataQuery{
		Start:          r.Start,
		End:            r.End,
		Detail:         detail,
		UpdatedAfter:   r.UpdatedAfter,
		FirstN:         r.FirstN,
		LastN:          r.LastN,
		IncludeHistory: r.IncludeHistory,
	}
	if err := q.Validate(); err != nil {
		return series.DataQuery{}, err
	}
	return q, nil
}

// TableResponse carries an assembled observation table.
type TableResponse struct {
	Key   string               `json:"key"`
	Count int                  `json:"count"`
	Rows  []series.Observation `json:"rows"`
}

// FromTable creates TableResponse from series.Table.
func FromTable(t *series.Table) TableResponse {
	return TableResponse{Key: t.Key, Count: t.Len(), Rows: t.Rows}
}

// KeyTableResponse carries the flat key table of one dataflow.
type KeyTableResponse struct {
	Dataflow string          `json:"dataflow"`
	Columns  []string        `json:"columns"`
	Count    int             `json:"count"`
	Rows     []series.KeyRow `json:"rows"`
}

// FromKeyTable creates KeyTableResponse from series.KeyTable.
func FromKeyTable(t *series.KeyTable) KeyTableResponse {
	return KeyTableResponse{
		Dataflow: t.Dataflow,
		Columns:  t.Columns,
		Count:    len(t.Rows),
		Rows:     t.Rows,
	}
}
