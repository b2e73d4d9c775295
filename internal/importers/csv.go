// Package importers parses bulk catalogue files into rows the service
// layer can insert.
package importers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Row represents a single parsed catalogue row.
type Row struct {
	Title           string
	Author          string
	ISBN            string
	Category        string
	PublicationYear *int
	Line            int // 1-based line in the source file, for error reporting
}

// expected header names, case-insensitive; isbn/category/publication_year
// are optional columns
var knownColumns = map[string]bool{
	"title":            true,
	"author":           true,
	"isbn":             true,
	"category":         true,
	"publication_year": true,
}

// ParseCatalogCSV parses a catalogue CSV export. The first record must
// be a header naming at least "title" and "author". Returns the parsed
// rows, per-row problems for rows that were skipped, and a fatal error
// if the file cannot be parsed at all.
func ParseCatalogCSV(r io.Reader) ([]Row, []string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, fmt.Errorf("empty file")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}

	columns := make(map[string]int)
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		if knownColumns[name] {
			columns[name] = i
		}
	}
	if _, ok := columns["title"]; !ok {
		return nil, nil, fmt.Errorf("header is missing the 'title' column")
	}
	if _, ok := columns["author"]; !ok {
		return nil, nil, fmt.Errorf("header is missing the 'author' column")
	}

	field := func(record []string, name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var rows []Row
	var problems []string
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			problems = append(problems, fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		row := Row{
			Title:    field(record, "title"),
			Author:   field(record, "author"),
			ISBN:     field(record, "isbn"),
			Category: field(record, "category"),
			Line:     line,
		}
		if row.Title == "" || row.Author == "" {
			problems = append(problems, fmt.Sprintf("line %d: title and author are required", line))
			continue
		}

		if raw := field(record, "publication_year"); raw != "" {
			year, err := strconv.Atoi(raw)
			if err != nil {
				problems = append(problems, fmt.Sprintf("line %d: invalid publication_year %q", line, raw))
				continue
			}
			row.PublicationYear = &year
		}

		rows = append(rows, row)
	}

	return rows, problems, nil
}
