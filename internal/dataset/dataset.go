// Package dataset loads delimited tabular data into rows keyed by column
// name and offers the small query helpers graph builders rely on.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// ErrNoHeader is returned when the input has no header row.
var ErrNoHeader = errors.New("dataset has no header row")

// ErrBadCondition is returned by ParseCondition for malformed input.
var ErrBadCondition = errors.New("condition must have the form column=value")

// Row is one record keyed by column name.
type Row map[string]string

// Dataset is the parsed content of one delimited file.
type Dataset struct {
	Headers []string
	Rows    []Row
	// Skipped counts records that could not be parsed and were dropped.
	Skipped int
}

// Load reads the CSV file at path.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: open %s: %w", path, err)
	}
	defer f.Close()

	ds, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("dataset: %s: %w", path, err)
	}
	return ds, nil
}

// Read parses CSV from r. The first record names the columns. Records that
// fail to parse are skipped and counted rather than aborting the load;
// short records leave their missing columns absent from the row.
func Read(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	headers, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	ds := &Dataset{Headers: headers}
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			ds.Skipped++
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading record: %w", err)
		}

		row := make(Row, len(headers))
		for i, value := range record {
			if i >= len(headers) {
				break
			}
			row[headers[i]] = value
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds, nil
}

// Filter returns the rows whose attribute equals value.
func Filter(rows []Row, attribute, value string) []Row {
	var out []Row
	for _, row := range rows {
		if v, ok := row[attribute]; ok && v == value {
			out = append(out, row)
		}
	}
	return out
}

// Condition selects rows whose Attribute equals Value.
type Condition struct {
	Attribute string
	Value     string
}

// ParseCondition parses "column=value". The value may be empty; the column
// may not.
func ParseCondition(expr string) (Condition, error) {
	attr, value, ok := strings.Cut(expr, "=")
	attr = strings.TrimSpace(attr)
	if !ok || attr == "" {
		return Condition{}, fmt.Errorf("%w: %q", ErrBadCondition, expr)
	}
	return Condition{Attribute: attr, Value: strings.TrimSpace(value)}, nil
}

// Apply returns the rows matching c.
func (c Condition) Apply(rows []Row) []Row {
	return Filter(rows, c.Attribute, c.Value)
}

// String returns c in the form accepted by ParseCondition.
func (c Condition) String() string {
	return c.Attribute + "=" + c.Value
}

// Column returns the attribute value of every row that has it, in row
// order.
func Column(rows []Row, attribute string) []string {
	var out []string
	for _, row := range rows {
		if v, ok := row[attribute]; ok {
			out = append(out, v)
		}
	}
	return out
}

// UniqueValues returns the distinct values of attribute, sorted.
func UniqueValues(rows []Row, attribute string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, v := range Column(rows, attribute) {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}
