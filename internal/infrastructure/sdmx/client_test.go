package sdmx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"

	"statgate/internal/core/apperror"
	"statgate/internal/domain/series"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(Config{Endpoint: server.URL})
	assert.NoError(t, err)
	return client, server
}

func TestClient_FetchData_BuildsRequest(t *testing.T) {
	var gotPath, gotQuery string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte("KEY,TIME_PERIOD,OBS_VALUE\nFM.M.U2,2024-01,1.5\n"))
	})

	obs, err := client.FetchData(context.Background(), "FM.M.U2", series.DataQuery{
		Start:          "2020-01-01",
		End:            "2024-12-31",
		Detail:         series.DetailDataOnly,
		FirstN:         3,
		IncludeHistory: true,
	})
	assert.NoError(t, err)
	assert.Len(t, obs, 1)

	assert.Equal(t, "/service/data/FM/M.U2", gotPath)
	assert.Contains(t, gotQuery, "format=csvdata")
	assert.Contains(t, gotQuery, "startPeriod=2020-01-01")
	assert.Contains(t, gotQuery, "endPeriod=2024-12-31")
	assert.Contains(t, gotQuery, "detail=dataonly")
	assert.Contains(t, gotQuery, "firstNObservations=3")
	assert.Contains(t, gotQuery, "includeHistory=true")
}

func TestClient_FetchData_RejectsKeyWithoutDataflowPrefix(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	_, err := client.FetchData(context.Background(), "nodots", series.DataQuery{})
	appErr, ok := apperror.AsAppError(err)
	assert.True(t, ok)
	assert.Equal(t, apperror.CodeInvalidArgument, appErr.Code)
}

func TestClient_Get_DecodesGzip(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("Accept-Encoding"), "gzip")
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		_, _ = gz.Write([]byte("KEY,TIME_PERIOD,OBS_VALUE\nFM.M.U2,2024-01,2.5\n"))
		_ = gz.Close()
	})

	obs, err := client.FetchData(context.Background(), "FM.M.U2", series.DataQuery{})
	assert.NoError(t, err)
	assert.Len(t, obs, 1)
	assert.Equal(t, "2.5", obs[0].Value.Decimal.String())
}

func TestClient_Get_MapsStatusCodes(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nothing here", http.StatusNotFound)
	})

	_, err := client.FetchData(context.Background(), "FM.M.U2", series.DataQuery{})
	appErr, ok := apperror.AsAppError(err)
	assert.True(t, ok)
	assert.Equal(t, apperror.CodeTransport, appErr.Code)
	assert.Equal(t, 404, appErr.Details["status"])
	// query strings never leak into error details
	assert.Equal(t, server.URL+"/service/data/FM/M.U2", appErr.Details["url"])
}

func TestClient_FetchKeyTable(t *testing.T) {
	var gotQuery string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte("KEY,FREQ,TITLE\nEXR.D,D,Daily rate\n"))
	})

	table, err := client.FetchKeyTable(context.Background(), "EXR", []string{"FREQ"}, []string{"TITLE"})
	assert.NoError(t, err)
	assert.Contains(t, gotQuery, "detail=serieskeysonly")
	assert.Len(t, table.Rows, 1)
	assert.Equal(t, "EXR.D", table.Rows[0].Key)
	assert.Equal(t, "D", table.Rows[0].Dimensions["FREQ"])
}

func TestStatusError_UnknownStatus(t *testing.T) {
	err := statusError(418, "http://example.test/service/data/FM")
	assert.Equal(t, "unexpected response status", err.Message)
	assert.Equal(t, 418, err.Details["status"])
}
