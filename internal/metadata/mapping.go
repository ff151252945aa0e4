package metadata

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// LoadMapping reads a mapping file from disk.
func LoadMapping(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open mapping file: %w", err)
	}
	defer file.Close()

	return ReadMapping(file)
}

// ReadMapping parses a tab-separated mapping file. The first line is the
// header (a leading '#' is stripped, as in "#SampleID"); later lines starting
// with '#' are comments. The first column is the sample id.
func ReadMapping(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping data: %w", err)
	}

	var headers []string
	var rows []Row
	for rowIdx, row := range allRows {
		if len(row) == 0 || (len(row) == 1 && strings.TrimSpace(row[0]) == "") {
			continue
		}

		if headers == nil {
			headers = make([]string, len(row))
			for i, h := range row {
				headers[i] = strings.TrimSpace(h)
			}
			headers[0] = strings.TrimPrefix(headers[0], "#")
			continue
		}

		if strings.HasPrefix(row[0], "#") {
			continue
		}

		// Short rows are padded; trailing empty cells are often trimmed by editors.
		values := make([]string, len(headers))
		if len(row) > len(headers) {
			return nil, fmt.Errorf("line %d: %d fields, header has %d", rowIdx+1, len(row), len(headers))
		}
		for i, v := range row {
			values[i] = strings.TrimSpace(v)
		}
		rows = append(rows, Row{ID: values[0], Values: values})
	}

	if headers == nil {
		return nil, fmt.Errorf("mapping file has no header")
	}
	return NewTable(headers, rows)
}
