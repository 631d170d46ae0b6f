package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Observation is one (date, value) row of a time series.
type Observation struct {
	DS time.Time
	Y  float64
}

const (
	dateColumn  = "ds"
	valueColumn = "y"
)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006/1/2",
	"2006/01/02 15:04:05",
	"01/02/2006",
}

// ParseObservationsCSV reads ds/y observations from CSV text.
func ParseObservationsCSV(text string) ([]Observation, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV data: %w", err)
	}
	return observationsFromRows(rows)
}

// ParseObservationsFile reads ds/y observations from an uploaded .csv or .xlsx file.
func ParseObservationsFile(fileName string, file io.Reader) ([]Observation, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".xlsx":
		f, err := excelize.OpenReader(file)
		if err != nil {
			return nil, fmt.Errorf("failed to open Excel file: %w", err)
		}
		defer f.Close()

		rows, err := f.GetRows(f.GetSheetName(0))
		if err != nil {
			return nil, fmt.Errorf("failed to read Excel rows: %w", err)
		}
		return observationsFromRows(rows)
	case ".csv":
		raw, err := io.ReadAll(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV file: %w", err)
		}
		return ParseObservationsCSV(string(raw))
	default:
		return nil, &ValidationError{Message: "unsupported file type: upload a .csv or .xlsx file"}
	}
}

func observationsFromRows(rows [][]string) ([]Observation, error) {
	if len(rows) == 0 {
		return nil, &SchemaError{Missing: []string{dateColumn, valueColumn}, Message: "CSV data must have 'ds' and 'y' columns"}
	}

	header := rows[0]
	dsIdx := findColumn(header, dateColumn)
	yIdx := findColumn(header, valueColumn)

	var missing []string
	if dsIdx == -1 {
		missing = append(missing, dateColumn)
	}
	if yIdx == -1 {
		missing = append(missing, valueColumn)
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing, Message: "CSV data must have 'ds' and 'y' columns"}
	}

	observations := make([]Observation, 0, len(rows)-1)
	for i, row := range rows[1:] {
		line := i + 2
		if len(row) <= dsIdx || strings.TrimSpace(row[dsIdx]) == "" {
			continue
		}

		ds, err := parseDate(row[dsIdx])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}

		if len(row) <= yIdx || strings.TrimSpace(row[yIdx]) == "" {
			continue
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(row[yIdx]), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: could not convert y value %q to float", line, row[yIdx])
		}
		if math.IsNaN(y) || math.IsInf(y, 0) {
			continue
		}

		observations = append(observations, Observation{DS: ds, Y: y})
	}

	return observations, nil
}

// findColumn returns the index of the column whose trimmed name equals name.
func findColumn(header []string, name string) int {
	for i, col := range header {
		if strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")) == name {
			return i
		}
	}
	return -1
}

func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse ds value %q as a date", value)
}
