package series

import (
	"context"
	"time"

	"statgate/internal/core/apperror"
)

// DetailLevel controls how much of a series a data fetch returns. It is a
// closed enumeration validated at the executor boundary and forwarded to the
// collaborator unchanged.
type DetailLevel string

const (
	// DetailFull returns observations plus all attributes (the default)
	DetailFull DetailLevel = "full"

	// DetailSeriesKeysOnly returns key/dimension rows with no observations
	DetailSeriesKeysOnly DetailLevel = "serieskeysonly"

	// DetailDataOnly returns observations without attributes
	DetailDataOnly DetailLevel = "dataonly"

	// DetailNoData returns series and attributes without observations
	DetailNoData DetailLevel = "nodata"
)

// ParseDetailLevel validates a detail string. Empty input means DetailFull.
func ParseDetailLevel(s string) (DetailLevel, error) {
	switch DetailLevel(s) {
	case "":
		return DetailFull, nil
	case DetailFull, DetailSeriesKeysOnly, DetailDataOnly, DetailNoData:
		return DetailLevel(s), nil
	default:
		return "", apperror.NewInvalidArgument("unknown detail level").
			WithDetail("detail", s).
			WithDetail("allowed", []string{
				string(DetailFull), string(DetailSeriesKeysOnly),
				string(DetailDataOnly), string(DetailNoData),
			})
	}
}

const isoDateLayout = "2006-01-02"

// DataQuery carries the optional parameters of one data fetch. Start and End
// are ISO calendar dates (YYYY-MM-DD); no timezone handling is performed.
type DataQuery struct {
	Start          string
	End            string
	Detail         DetailLevel
	UpdatedAfter   string
	FirstN         int
	LastN          int
	IncludeHistory bool
}

// Validate checks the query parameters locally. It never touches the network.
func (q *DataQuery) Validate() error {
	if err := checkISODate("start", q.Start); err != nil {
		return err
	}
	if err := checkISODate("end", q.End); err != nil {
		return err
	}
	if q.Start != "" && q.End != "" && q.Start > q.End {
		return apperror.NewInvalidArgument("start date is after end date").
			WithDetail("start", q.Start).
			WithDetail("end", q.End)
	}
	if _, err := ParseDetailLevel(string(q.Detail)); err != nil {
		return err
	}
	if q.FirstN < 0 || q.LastN < 0 {
		return apperror.NewInvalidArgument("observation limits must be non-negative").
			WithDetail("firstN", q.FirstN).
			WithDetail("lastN", q.LastN)
	}
	return nil
}

func checkISODate(field, value string) error {
	if value == "" {
		return nil
	}
	if _, err := time.Parse(isoDateLayout, value); err != nil {
		return apperror.NewInvalidArgument("date must be an ISO calendar date (YYYY-MM-DD)").
			WithDetail("field", field).
			WithDetail("value", value)
	}
	return nil
}

// DataFetcher is the collaborator surface the executor depends on: one
// blocking call that either returns complete raw records or fails.
type DataFetcher interface {
	FetchData(ctx context.Context, key string, query DataQuery) ([]Observation, error)
}

// QueryExecutor turns a validated key plus query parameters into exactly one
// collaborator request. All validation failures surface before the request
// is made; transport failures propagate unchanged — no retries, no
// suppression.
type QueryExecutor struct {
	client DataFetcher
}

// NewQueryExecutor creates an executor over the protocol client.
func NewQueryExecutor(client DataFetcher) *QueryExecutor {
	return &QueryExecutor{client: client}
}

// Fetch retrieves raw observation records for a built key.
func (e *QueryExecutor) Fetch(ctx context.Context, key *Key, query DataQuery) ([]Observation, error) {
	if key == nil {
		return nil, apperror.NewInvalidArgument("series key is required")
	}
	if err := query.Validate(); err != nil {
		return nil, err
	}
	if query.Detail == "" {
		query.Detail = DetailFull
	}
	return e.client.FetchData(ctx, key.String(), query)
}

// FetchTable retrieves and assembles observations into a chronological table
// in one step.
func (e *QueryExecutor) FetchTable(ctx context.Context, key *Key, query DataQuery) (*Table, error) {
	raw, err := e.Fetch(ctx, key, query)
	if err != nil {
		return nil, err
	}
	table, err := NewAssembler().Assemble(raw, query.IncludeHistory)
	if err != nil {
		if appErr, ok := apperror.AsAppError(err); ok && appErr.Code == apperror.CodeEmptyResult {
			return nil, apperror.NewEmptyResult(key.String())
		}
		return nil, err
	}
	return table, nil
}
