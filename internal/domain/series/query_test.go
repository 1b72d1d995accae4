package series

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"statgate/internal/core/apperror"
)

func TestParseDetailLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    DetailLevel
		wantErr bool
	}{
		{"", DetailFull, false},
		{"full", DetailFull, false},
		{"serieskeysonly", DetailSeriesKeysOnly, false},
		{"dataonly", DetailDataOnly, false},
		{"nodata", DetailNoData, false},
		{"everything", "", true},
		{"FULL", "", true},
	}

	for _, tt := range tests {
		got, err := ParseDetailLevel(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		assert.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestDataQuery_Validate(t *testing.T) {
	tests := []struct {
		name    string
		query   DataQuery
		wantErr bool
	}{
		{"empty query", DataQuery{}, false},
		{"valid range", DataQuery{Start: "2020-01-01", End: "2024-12-31"}, false},
		{"malformed start", DataQuery{Start: "2020-13-01"}, true},
		{"malformed end", DataQuery{End: "yesterday"}, true},
		{"start after end", DataQuery{Start: "2024-01-01", End: "2020-01-01"}, true},
		{"bad detail", DataQuery{Detail: "verbose"}, true},
		{"negative firstN", DataQuery{FirstN: -1}, true},
		{"negative lastN", DataQuery{LastN: -5}, true},
		{"valid limits", DataQuery{FirstN: 10, LastN: 5}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.query.Validate()
			if tt.wantErr {
				appErr, ok := apperror.AsAppError(err)
				assert.True(t, ok)
				assert.Equal(t, apperror.CodeInvalidArgument, appErr.Code)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

type mockFetcher struct {
	calls   int
	lastKey string
	lastQ   DataQuery
	obs     []Observation
	err     error
}

func (m *mockFetcher) FetchData(ctx context.Context, key string, query DataQuery) ([]Observation, error) {
	m.calls++
	m.lastKey = key
	m.lastQ = query
	return m.obs, m.err
}

func testKey() *Key {
	return &Key{
		Dataflow: "FM",
		Dimensions: []DimensionValue{
			{Name: "FREQ", Value: "M"},
			{Name: "REF_AREA", Value: "U2"},
		},
	}
}

func TestQueryExecutor_ValidatesBeforeNetwork(t *testing.T) {
	fetcher := &mockFetcher{}
	exec := NewQueryExecutor(fetcher)
	ctx := context.Background()

	_, err := exec.Fetch(ctx, nil, DataQuery{})
	assert.Error(t, err)

	_, err = exec.Fetch(ctx, testKey(), DataQuery{Start: "nope"})
	assert.Error(t, err)

	assert.Equal(t, 0, fetcher.calls)
}

func TestQueryExecutor_ForwardsKeyAndDefaultsDetail(t *testing.T) {
	fetcher := &mockFetcher{obs: []Observation{{Key: "FM.M.U2", TimePeriod: "2024-01"}}}
	exec := NewQueryExecutor(fetcher)

	_, err := exec.Fetch(context.Background(), testKey(), DataQuery{})
	assert.NoError(t, err)
	assert.Equal(t, 1, fetcher.calls)
	assert.Equal(t, "FM.M.U2", fetcher.lastKey)
	assert.Equal(t, DetailFull, fetcher.lastQ.Detail)
}

func TestQueryExecutor_FetchTable_EmptyResultCarriesKey(t *testing.T) {
	fetcher := &mockFetcher{}
	exec := NewQueryExecutor(fetcher)

	_, err := exec.FetchTable(context.Background(), testKey(), DataQuery{})
	assert.True(t, apperror.IsEmptyResult(err))
	appErr, _ := apperror.AsAppError(err)
	assert.Equal(t, "FM.M.U2", appErr.Details["series_key"])
}

func TestQueryExecutor_FetchTable_Assembles(t *testing.T) {
	fetcher := &mockFetcher{obs: []Observation{
		{Key: "FM.M.U2", TimePeriod: "2024-02"},
		{Key: "FM.M.U2", TimePeriod: "2024-01"},
	}}
	exec := NewQueryExecutor(fetcher)

	table, err := exec.FetchTable(context.Background(), testKey(), DataQuery{})
	assert.NoError(t, err)
	assert.Equal(t, 2, table.Len())
	assert.Equal(t, "2024-01", table.Rows[0].TimePeriod)
}
