package services

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseObservationsCSV(t *testing.T) {
	observations, err := ParseObservationsCSV("\ufeffds, y\n2024-01-01, 10.5\n2024-01-02,\n,7\n2024-01-03 12:00:00,11")
	require.NoError(t, err)
	require.Len(t, observations, 2)

	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), observations[0].DS)
	assert.Equal(t, 10.5, observations[0].Y)
	assert.Equal(t, time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC), observations[1].DS)
}

func TestParseObservationsCSVColumnOrder(t *testing.T) {
	observations, err := ParseObservationsCSV("y,extra,ds\n3,x,2024/2/1\n4,y,2024/2/2")
	require.NoError(t, err)
	require.Len(t, observations, 2)
	assert.Equal(t, 4.0, observations[1].Y)
	assert.Equal(t, time.February, observations[1].DS.Month())
}

func TestParseObservationsCSVErrors(t *testing.T) {
	_, err := ParseObservationsCSV("date,value\n2024-01-01,1")
	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, []string{"ds", "y"}, schemaErr.Missing)
	assert.EqualError(t, err, "CSV data must have 'ds' and 'y' columns")
	assert.True(t, IsClientError(err))

	_, err = ParseObservationsCSV("ds,y\n2024-01-01,abc")
	assert.EqualError(t, err, `row 2: could not convert y value "abc" to float`)
	assert.False(t, IsClientError(err))

	_, err = ParseObservationsCSV("ds,y\nyesterday,1")
	assert.ErrorContains(t, err, "unable to parse ds value")
}

func TestParseObservationsFileXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"ds", "y"},
		{"2024-01-01", 1},
		{"2024-01-02", 2},
		{"2024-01-03", 4},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	observations, err := ParseObservationsFile("sales.XLSX", bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, observations, 3)
	assert.Equal(t, 4.0, observations[2].Y)
}

func TestParseObservationsFileCSVAndUnsupported(t *testing.T) {
	observations, err := ParseObservationsFile("series.csv", strings.NewReader("ds,y\n2024-01-01,1\n2024-01-02,2"))
	require.NoError(t, err)
	assert.Len(t, observations, 2)

	_, err = ParseObservationsFile("series.json", strings.NewReader("{}"))
	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
}
