package sdmx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const dataCSV = `DATAFLOW,KEY,FREQ,TIME_PERIOD,OBS_VALUE,OBS_STATUS,TITLE,VALID_FROM,VALID_TO
ECB:FM(1.0),FM.M.U2.EUR.RT.MM.EURIBOR1YD_.HSTA,M,2024-01,3.609,A,Euribor 1-year,2024-02-01T10:00:00Z,
ECB:FM(1.0),FM.M.U2.EUR.RT.MM.EURIBOR1YD_.HSTA,M,2024-02,3.671,A,Euribor 1-year,2024-03-01T10:00:00Z,2024-03-15T10:00:00Z
`

func TestDecodeDataCSV(t *testing.T) {
	obs, err := decodeDataCSV([]byte(dataCSV))
	assert.NoError(t, err)
	assert.Len(t, obs, 2)

	first := obs[0]
	assert.Equal(t, "FM.M.U2.EUR.RT.MM.EURIBOR1YD_.HSTA", first.Key)
	assert.Equal(t, "2024-01", first.TimePeriod)
	assert.True(t, first.Value.Valid)
	assert.Equal(t, "3.609", first.Value.Decimal.String())
	assert.Equal(t, "A", first.Attributes["OBS_STATUS"])
	assert.Equal(t, "Euribor 1-year", first.Attributes["TITLE"])
	// DATAFLOW column never lands in attributes
	assert.NotContains(t, first.Attributes, "DATAFLOW")
	assert.Equal(t, time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC), first.ValidFrom)
	assert.Nil(t, first.ValidTo)

	second := obs[1]
	assert.NotNil(t, second.ValidTo)
	assert.Equal(t, time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC), *second.ValidTo)
}

func TestDecodeDataCSV_EmptyValueIsNull(t *testing.T) {
	csv := "KEY,TIME_PERIOD,OBS_VALUE\nFM.M.U2,2024-01,\n"
	obs, err := decodeDataCSV([]byte(csv))
	assert.NoError(t, err)
	assert.Len(t, obs, 1)
	assert.False(t, obs[0].Value.Valid)
}

func TestDecodeDataCSV_EmptyBody(t *testing.T) {
	obs, err := decodeDataCSV(nil)
	assert.NoError(t, err)
	assert.Empty(t, obs)

	obs, err = decodeDataCSV([]byte("KEY,TIME_PERIOD,OBS_VALUE\n"))
	assert.NoError(t, err)
	assert.Empty(t, obs)
}

func TestDecodeDataCSV_MalformedValue(t *testing.T) {
	csv := "KEY,TIME_PERIOD,OBS_VALUE\nFM.M.U2,2024-01,not-a-number\n"
	_, err := decodeDataCSV([]byte(csv))
	assert.Error(t, err)
}

func TestDecodeDataCSV_DateOnlyValidity(t *testing.T) {
	csv := "KEY,TIME_PERIOD,OBS_VALUE,VALID_FROM\nFM.M.U2,2024-01,1.5,2024-02-01\n"
	obs, err := decodeDataCSV([]byte(csv))
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), obs[0].ValidFrom)
}

const keyTableCSV = `DATAFLOW,KEY,FREQ,CURRENCY,TIME_PERIOD,OBS_VALUE,TITLE,COLLECTION
ECB:EXR(1.0),EXR.D.USD,D,USD,,,US dollar/Euro,A
ECB:EXR(1.0),EXR.M.GBP,M,GBP,,,Pound sterling/Euro,E
`

func TestDecodeKeyTableCSV(t *testing.T) {
	dims := []string{"FREQ", "CURRENCY"}
	attrs := []string{"TITLE", "COLLECTION"}

	table, err := decodeKeyTableCSV([]byte(keyTableCSV), "EXR", dims, attrs)
	assert.NoError(t, err)
	assert.Equal(t, "EXR", table.Dataflow)
	assert.Equal(t, []string{"FREQ", "CURRENCY", "TITLE", "COLLECTION"}, table.Columns)
	assert.Len(t, table.Rows, 2)

	row := table.Rows[0]
	assert.Equal(t, "EXR.D.USD", row.Key)
	assert.Equal(t, map[string]string{"FREQ": "D", "CURRENCY": "USD"}, row.Dimensions)
	assert.Equal(t, "US dollar/Euro", row.Attributes["TITLE"])
	assert.NotContains(t, row.Attributes, "TIME_PERIOD")
}

func TestDecodeKeyTableCSV_RebuildsMissingKeyColumn(t *testing.T) {
	csv := "FREQ,CURRENCY\nD,USD\n"
	table, err := decodeKeyTableCSV([]byte(csv), "EXR", []string{"FREQ", "CURRENCY"}, nil)
	assert.NoError(t, err)
	assert.Len(t, table.Rows, 1)
	assert.Equal(t, "EXR.D.USD", table.Rows[0].Key)
}
