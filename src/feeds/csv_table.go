package feeds

import (
	"encoding/csv"
	stderrors "errors"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"newscorr/src/utils/errors"
)

// csvTable is a headed CSV held in memory with case-insensitive column lookup.
type csvTable struct {
	columns    map[string]int
	records    [][]string
	badRecords int
}

func readCsvTable(r io.Reader, source string) (*csvTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = false

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.Wrapf(errors.ErrMalformedSource, "%s has no header", source)
	}
	if err != nil {
		return nil, errors.Wrapef(errors.ErrMalformedSource, err, "reading header of %s", source)
	}

	table := &csvTable{
		columns: make(map[string]int, len(header)),
		records: make([][]string, 0),
	}
	for i, name := range header {
		key := normalizeColumn(name)
		if _, exists := table.columns[key]; !exists {
			table.columns[key] = i
		}
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if stderrors.As(err, &parseErr) {
				table.badRecords++
				slog.Debug("skipping malformed csv record", "source", source, "line", parseErr.Line, "error", parseErr.Err)
				continue
			}
			return nil, errors.Wrapf(err, "reading %s", source)
		}
		table.records = append(table.records, record)
	}

	return table, nil
}

func normalizeColumn(name string) string {
	name = strings.TrimPrefix(name, "\ufeff")
	return strings.ToLower(strings.TrimSpace(name))
}

// column returns the index of the first of names present in the header, or -1.
func (t *csvTable) column(names ...string) int {
	for _, name := range names {
		if idx, ok := t.columns[normalizeColumn(name)]; ok {
			return idx
		}
	}
	return -1
}

func cell(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// floatCell parses a numeric cell; empty, unparseable and non-finite values are nil.
func floatCell(record []string, idx int) *float64 {
	value := strings.ReplaceAll(cell(record, idx), ",", "")
	if value == "" {
		return nil
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
