// Package sdmx implements the collaborator protocol client for an SDMX 2.1
// REST catalog (ECB Data Portal shape). It covers transport concerns only —
// endpoint, proxies, TLS verification, compression, status codes — and hands
// parsed structure documents and observation records to the domain layer.
package sdmx

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"statgate/internal/core/apperror"
	"statgate/internal/domain/series"
	"statgate/pkg/logger"
)

var tracer = otel.Tracer("statgate/sdmx")

// DefaultEndpoint is the ECB Data Portal REST endpoint.
const DefaultEndpoint = "https://data-api.ecb.europa.eu"

// DefaultAgencyID is the structure agency queried by default.
const DefaultAgencyID = "ECB"

const defaultTimeout = 90 * time.Second

// Config holds client construction options. The core never sees these: they
// are configuration handed to the collaborator once, here.
type Config struct {
	// Endpoint is the service base URL; DefaultEndpoint if empty
	Endpoint string

	// AgencyID is the structure-maintaining agency; DefaultAgencyID if empty
	AgencyID string

	// Proxies maps URL scheme ("http", "https") to proxy URL; nil falls back
	// to the process environment
	Proxies map[string]string

	// TLSVerify controls server certificate verification; nil means verify
	TLSVerify *bool

	// Timeout bounds each request; 90s if zero
	Timeout time.Duration
}

// Client is the protocol client. Each fetch is one blocking request that
// either returns a complete response or fails; there is no retry policy.
type Client struct {
	endpoint string
	agency   string
	http     *http.Client
}

// New creates a Client from config.
func New(cfg Config) (*Client, error) {
	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	agency := cfg.AgencyID
	if agency == "" {
		agency = DefaultAgencyID
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	transport := &http.Transport{
		Proxy: proxyFunc(cfg.Proxies),
		// gzip is negotiated and decoded explicitly in get()
		DisableCompression: true,
	}
	if cfg.TLSVerify != nil && !*cfg.TLSVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &Client{
		endpoint: endpoint,
		agency:   agency,
		http:     &http.Client{Transport: transport, Timeout: timeout},
	}, nil
}

// proxyFunc resolves per-scheme proxies from config, falling back to the
// process environment.
func proxyFunc(proxies map[string]string) func(*http.Request) (*url.URL, error) {
	if len(proxies) == 0 {
		return http.ProxyFromEnvironment
	}
	return func(req *http.Request) (*url.URL, error) {
		if raw, ok := proxies[req.URL.Scheme]; ok && raw != "" {
			return url.Parse(raw)
		}
		return http.ProxyFromEnvironment(req)
	}
}

// FetchData retrieves raw observation records for a full dotted series key.
// The first key segment is the dataflow code; the rest selects the series.
func (c *Client) FetchData(ctx context.Context, key string, query series.DataQuery) ([]series.Observation, error) {
	flow, rest, ok := strings.Cut(key, ".")
	if !ok {
		return nil, apperror.NewInvalidArgument("series key must contain a dataflow prefix").
			WithDetail("key", key)
	}

	ctx, span := tracer.Start(ctx, "sdmx.data",
		trace.WithAttributes(
			attribute.String("sdmx.dataflow", flow),
			attribute.String("sdmx.key", key),
			attribute.String("sdmx.detail", string(query.Detail)),
		))
	defer span.End()

	params := url.Values{}
	params.Set("format", "csvdata")
	if query.Start != "" {
		params.Set("startPeriod", query.Start)
	}
	if query.End != "" {
		params.Set("endPeriod", query.End)
	}
	if query.Detail != "" && query.Detail != series.DetailFull {
		params.Set("detail", string(query.Detail))
	}
	if query.UpdatedAfter != "" {
		params.Set("updatedAfter", query.UpdatedAfter)
	}
	if query.FirstN > 0 {
		params.Set("firstNObservations", strconv.Itoa(query.FirstN))
	}
	if query.LastN > 0 {
		params.Set("lastNObservations", strconv.Itoa(query.LastN))
	}
	if query.IncludeHistory {
		params.Set("includeHistory", "true")
	}

	reqURL := fmt.Sprintf("%s/service/data/%s/%s?%s", c.endpoint, flow, rest, params.Encode())
	body, err := c.get(ctx, reqURL)
	if err != nil {
		return nil, err
	}
	return decodeDataCSV(body)
}

// FetchKeyTable retrieves every series key of a dataflow with its dimension
// and attribute values (serieskeysonly-shaped request, no observations).
func (c *Client) FetchKeyTable(ctx context.Context, dataflowCode string, dims, attrs []string) (*series.KeyTable, error) {
	ctx, span := tracer.Start(ctx, "sdmx.keytable",
		trace.WithAttributes(attribute.String("sdmx.dataflow", dataflowCode)))
	defer span.End()

	reqURL := fmt.Sprintf("%s/service/data/%s?format=csvdata&detail=serieskeysonly", c.endpoint, dataflowCode)
	body, err := c.get(ctx, reqURL)
	if err != nil {
		return nil, err
	}
	return decodeKeyTableCSV(body, dataflowCode, dims, attrs)
}

// get performs one GET with explicit gzip negotiation and maps non-200
// statuses to transport errors. The response is read whole: a fetch is
// atomic from the caller's point of view.
func (c *Client) get(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, apperror.NewTransport("build request", err)
	}
	req.Header.Set("Accept-Encoding", "gzip")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperror.NewTransport("request failed", err).
			WithDetail("url", redact(reqURL))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain for connection reuse
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
		return nil, statusError(resp.StatusCode, redact(reqURL))
	}

	reader := io.Reader(resp.Body)
	if strings.Contains(resp.Header.Get("Content-Encoding"), "gzip") {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, apperror.NewTransport("decode gzip response", err)
		}
		defer gz.Close()
		reader = gz
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, apperror.NewTransport("read response body", err)
	}

	logger.Debug(ctx, "sdmx response", "url", redact(reqURL), "bytes", len(body))
	return body, nil
}

// redact strips query parameters from URLs used in errors and logs.
func redact(reqURL string) string {
	if i := strings.IndexByte(reqURL, '?'); i >= 0 {
		return reqURL[:i]
	}
	return reqURL
}
