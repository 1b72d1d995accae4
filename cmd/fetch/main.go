// Package main is a command-line fetcher: it validates a series key against
// the catalog, retrieves the observation table and writes it as CSV to stdout.
//
// Usage:
//
//	fetch -key FM.M.U2.EUR.RT.MM.EURIBOR1YD_.HSTA [-start 2020-01-01] [-end 2024-12-31]
//	      [-detail full] [-history] [-descending]
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"statgate/internal/domain/catalog"
	"statgate/internal/domain/schema"
	"statgate/internal/domain/series"
	"statgate/internal/infrastructure/sdmx"
	"statgate/pkg/logger"
)

func main() {
	key := flag.String("key", "", "full dotted series key (dataflow prefix included)")
	start := flag.String("start", "", "start period (YYYY-MM-DD)")
	end := flag.String("end", "", "end period (YYYY-MM-DD)")
	detail := flag.String("detail", "", "detail level: full, serieskeysonly, dataonly, nodata")
	updatedAfter := flag.String("updated-after", "", "only observations revised after this timestamp")
	firstN := flag.Int("first", 0, "limit to first N observations")
	lastN := flag.Int("last", 0, "limit to last N observations")
	history := flag.Bool("history", false, "include superseded revisions")
	descending := flag.Bool("descending", false, "newest first")
	timeout := flag.Duration("timeout", 0, "request timeout (default 90s)")
	flag.Parse()

	if *key == "" {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       envOr("LOG_LEVEL", "warn"),
		Development: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	client, err := sdmx.New(sdmx.Config{
		Endpoint: envOr("SDMX_ENDPOINT", sdmx.DefaultEndpoint),
		AgencyID: envOr("SDMX_AGENCY_ID", sdmx.DefaultAgencyID),
		Timeout:  *timeout,
	})
	if err != nil {
		log.Fatalw("failed to create sdmx client", "error", err)
	}

	cat := catalog.New(client)
	schemas := schema.NewService(cat, client)
	builder := series.NewBuilder(schemas)
	executor := series.NewQueryExecutor(client)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	built, err := buildKey(ctx, builder, *key)
	if err != nil {
		log.Fatalw("invalid series key", "key", *key, "error", err)
	}

	detailLevel, err := series.ParseDetailLevel(*detail)
	if err != nil {
		log.Fatalw("invalid detail level", "detail", *detail, "error", err)
	}

	table, err := executor.FetchTable(ctx, built, series.DataQuery{
		Start:          *start,
		End:            *end,
		Detail:         detailLevel,
		UpdatedAfter:   *updatedAfter,
		FirstN:         *firstN,
		LastN:          *lastN,
		IncludeHistory: *history,
	})
	if err != nil {
		log.Fatalw("fetch failed", "key", built.String(), "error", err)
	}
	if *descending {
		table = table.Descending()
	}

	if err := writeCSV(os.Stdout, table); err != nil {
		log.Fatalw("write csv", "error", err)
	}
}

// buildKey splits a dotted key and revalidates it through the builder so
// mistakes are reported with the full validation taxonomy before any data
// request.
func buildKey(ctx context.Context, builder *series.Builder, raw string) (*series.Key, error) {
	flow, rest, ok := strings.Cut(raw, ".")
	if !ok {
		return nil, fmt.Errorf("key %q has no dataflow prefix", raw)
	}
	dims, err := builder.Dimensions(ctx, flow)
	if err != nil {
		return nil, err
	}
	values := strings.Split(rest, ".")
	if len(values) != len(dims) {
		return nil, fmt.Errorf("key has %d segments, dataflow %s declares %d dimensions",
			len(values), flow, len(dims))
	}
	assignment := make(map[string]string, len(dims))
	for i, dim := range dims {
		assignment[dim] = values[i]
	}
	return builder.Build(ctx, flow, assignment)
}

// writeCSV renders the assembled table with a stable column order: fixed
// columns first, then attribute columns sorted by name.
func writeCSV(out *os.File, table *series.Table) error {
	attrSet := map[string]bool{}
	for _, row := range table.Rows {
		for name := range row.Attributes {
			attrSet[name] = true
		}
	}
	attrCols := make([]string, 0, len(attrSet))
	for name := range attrSet {
		attrCols = append(attrCols, name)
	}
	sort.Strings(attrCols)

	w := csv.NewWriter(out)
	header := append([]string{"KEY", "TIME_PERIOD", "OBS_VALUE", "VALID_FROM", "VALID_TO"}, attrCols...)
	if err := w.Write(header); err != nil {
		return err
	}

	for _, row := range table.Rows {
		record := make([]string, 0, len(header))
		value := ""
		if row.Value.Valid {
			value = row.Value.Decimal.String()
		}
		validFrom := ""
		if !row.ValidFrom.IsZero() {
			validFrom = row.ValidFrom.Format(time.RFC3339)
		}
		validTo := ""
		if row.ValidTo != nil {
			validTo = row.ValidTo.Format(time.RFC3339)
		}
		record = append(record, row.Key, row.TimePeriod, value, validFrom, validTo)
		for _, name := range attrCols {
			record = append(record, row.Attributes[name])
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func envOr(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
