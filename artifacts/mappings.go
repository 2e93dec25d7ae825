package artifacts

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// Mappings is a field-mapping table: a header row plus data rows. Cells are
// passed through unchanged.
type Mappings struct {
	Header []string
	Rows   [][]string
}

// HasRows reports whether there is at least one data row.
func (m *Mappings) HasRows() bool {
	return m != nil && len(m.Rows) > 0
}

// ReadMappingsFile reads a mapping CSV from disk.
func ReadMappingsFile(path string) (*Mappings, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open mappings %s: %w", path, err)
	}
	defer f.Close()

	m, err := ReadMappings(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read mappings %s: %w", path, err)
	}
	return m, nil
}

// ReadMappings parses a mapping CSV. The first record is the header; an
// empty input yields no header and no rows. Rows may differ in length.
func ReadMappings(r io.Reader) (*Mappings, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}

	m := &Mappings{}
	if len(records) == 0 {
		return m, nil
	}
	m.Header = records[0]
	m.Rows = records[1:]
	return m, nil
}

// EncodeMappings writes the header and rows back out as CSV.
func EncodeMappings(m *Mappings) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if m.Header != nil {
		if err := w.Write(m.Header); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}
	if err := w.WriteAll(m.Rows); err != nil {
		return nil, fmt.Errorf("failed to write rows: %w", err)
	}
	return buf.Bytes(), nil
}
