// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dataset loads the desk's CSV datasets into immutable
// in-memory record stores. Stores are read-only after load; queries
// never mutate them, so they are safe to share across callers.
// Implements: prd001-datasets (R1-R3); docs/ARCHITECTURE § Record Store.
package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// table is a parsed CSV file with case-insensitive column lookup.
type table struct {
	cols map[string]int
	rows [][]string
}

// readTable parses the CSV at path. The first record is the header;
// required columns must be present or the load fails (R1.2). Rows
// shorter than the header are padded with empty cells rather than
// rejected.
func readTable(path string, required ...string) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing dataset %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("dataset %s: missing header row", path)
	}

	cols := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("dataset %s: missing required column %q", path, name)
		}
	}

	return &table{cols: cols, rows: records[1:]}, nil
}

// get returns the trimmed cell value for col in row, or "" when the
// column is absent or the row is short. Blank cells surface as "" and
// render downstream as "N/A" (R1.3).
func (t *table) get(row []string, col string) string {
	i, ok := t.cols[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
