package sdmx

import (
	"bytes"
	"encoding/csv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"statgate/internal/core/apperror"
	"statgate/internal/domain/series"
)

// Reserved data-message columns. Everything else lands in Attributes.
const (
	colDataflow   = "DATAFLOW"
	colKey        = "KEY"
	colTimePeriod = "TIME_PERIOD"
	colObsValue   = "OBS_VALUE"
	colValidFrom  = "VALID_FROM"
	colValidTo    = "VALID_TO"
)

// validityLayouts are tried in order when parsing revision timestamps. The
// portal emits RFC 3339; older dumps carry space-separated or date-only forms.
var validityLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// decodeDataCSV parses a csvdata message into raw observation records. An
// empty body or a header-only message yields no records, which the assembler
// reports as an empty result.
func decodeDataCSV(body []byte) ([]series.Observation, error) {
	records, header, err := readCSV(body)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	obs := make([]series.Observation, 0, len(records))
	for _, record := range records {
		o := series.Observation{}
		attrs := map[string]string{}
		for i, value := range record {
			if i >= len(header) {
				break
			}
			switch header[i] {
			case colDataflow:
				// redundant with the key prefix
			case colKey:
				o.Key = value
			case colTimePeriod:
				o.TimePeriod = value
			case colObsValue:
				if value != "" {
					d, err := decimal.NewFromString(value)
					if err != nil {
						return nil, apperror.NewTransport("malformed observation value", err).
							WithDetail("value", value)
					}
					o.Value = decimal.NewNullDecimal(d)
				}
			case colValidFrom:
				if value != "" {
					t, err := parseValidity(value)
					if err != nil {
						return nil, err
					}
					o.ValidFrom = t
				}
			case colValidTo:
				if value != "" {
					t, err := parseValidity(value)
					if err != nil {
						return nil, err
					}
					o.ValidTo = &t
				}
			default:
				if value != "" {
					attrs[header[i]] = value
				}
			}
		}
		if len(attrs) > 0 {
			o.Attributes = attrs
		}
		obs = append(obs, o)
	}
	return obs, nil
}

// decodeKeyTableCSV parses a serieskeysonly csvdata message into the flat key
// table of one dataflow. dims and attrs fix the record shape: named dimension
// columns land in Dimensions, everything else of interest in Attributes.
func decodeKeyTableCSV(body []byte, dataflowCode string, dims, attrs []string) (*series.KeyTable, error) {
	records, header, err := readCSV(body)
	if err != nil {
		return nil, err
	}

	dimSet := make(map[string]bool, len(dims))
	for _, d := range dims {
		dimSet[d] = true
	}

	table := &series.KeyTable{
		Dataflow: dataflowCode,
		Columns:  append(append([]string{}, dims...), attrs...),
		Rows:     make([]series.KeyRow, 0, len(records)),
	}
	for _, record := range records {
		row := series.KeyRow{
			Dimensions: map[string]string{},
			Attributes: map[string]string{},
		}
		for i, value := range record {
			if i >= len(header) || value == "" {
				continue
			}
			switch {
			case header[i] == colKey:
				row.Key = value
			case header[i] == colDataflow || header[i] == colTimePeriod || header[i] == colObsValue:
				// serieskeysonly messages still carry these columns, empty
			case dimSet[header[i]]:
				row.Dimensions[header[i]] = value
			default:
				row.Attributes[header[i]] = value
			}
		}
		if row.Key == "" {
			row.Key = assembleKey(dataflowCode, dims, row.Dimensions)
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// assembleKey rebuilds the dotted key from dimension values in position order
// when the message omits the KEY column.
func assembleKey(dataflowCode string, dims []string, values map[string]string) string {
	parts := make([]string, 0, len(dims)+1)
	parts = append(parts, dataflowCode)
	for _, d := range dims {
		parts = append(parts, values[d])
	}
	return strings.Join(parts, ".")
}

// readCSV splits a message into its header and data records. Records are
// allowed ragged: the portal pads attribute columns inconsistently across
// series blocks.
func readCSV(body []byte) ([][]string, []string, error) {
	reader := csv.NewReader(bytes.NewReader(body))
	reader.FieldsPerRecord = -1
	all, err := reader.ReadAll()
	if err != nil {
		return nil, nil, apperror.NewTransport("malformed csv message", err)
	}
	if len(all) == 0 {
		return nil, nil, nil
	}
	return all[1:], all[0], nil
}

func parseValidity(value string) (time.Time, error) {
	for _, layout := range validityLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, apperror.NewTransport("malformed validity timestamp", nil).
		WithDetail("value", value)
}
