package catalog

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

var csvHeader = []string{"code", "title", "credits", "description"}

// LoadCSV reads course records from a CSV file. The header row names the
// columns; code and title are required, credits and description are
// optional and default to empty strings. Rows without a code are skipped.
func LoadCSV(path string) ([]Course, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open course file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s has no header row", path)
	}

	columns := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"code", "title"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("%s is missing the %q column", path, required)
		}
	}

	field := func(record []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var courses []Course
	for _, record := range records[1:] {
		c := Course{
			Code:        field(record, "code"),
			Title:       field(record, "title"),
			Credits:     field(record, "credits"),
			Description: field(record, "description"),
		}
		if c.Code == "" {
			continue
		}
		courses = append(courses, c)
	}
	return courses, nil
}

// SaveCSV writes course records to a CSV file, replacing any existing one.
func SaveCSV(path string, courses []Course) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create course file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, c := range courses {
		record := []string{c.Code, c.Title, c.Credits, c.Description}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write course %s: %w", c.Code, err)
		}
	}
	w.Flush()
	return w.Error()
}
