// Package samples reads the delimited sample table and derives the group-key
// to input-file mapping consumed by the graph builder.
package samples

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"

	"github.com/EricSDavis/MicroC/internal/core/domain"
	"github.com/EricSDavis/MicroC/internal/core/ports"
	"go.trai.ch/zerr"
)

// Source implements ports.SampleSource against a delimited text table with a
// header row. Row order is significant: it defines the tie-break order for
// grouping.
type Source struct {
	logger ports.Logger
}

// NewSource creates a new Source.
func NewSource(logger ports.Logger) *Source {
	return &Source{logger: logger}
}

// Groups reads the table named by the spec and groups its records.
func (s *Source) Groups(spec domain.SampleSpec) (domain.Groups, error) {
	records, err := s.read(spec)
	if err != nil {
		return domain.Groups{}, err
	}
	return Group(records, spec)
}

func (s *Source) read(spec domain.SampleSpec) ([]domain.SampleRecord, error) {
	f, err := os.Open(spec.Path)
	if err != nil {
		return nil, zerr.With(
			errors.Join(domain.ErrSampleTableReadFailed, err),
			"path", spec.Path,
		)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.Comma = delimiter(spec)
	r.TrimLeadingSpace = true
	r.Comment = '#'

	rows, err := r.ReadAll()
	if err != nil {
		return nil, zerr.With(
			errors.Join(domain.ErrSampleTableReadFailed, err),
			"path", spec.Path,
		)
	}
	if len(rows) == 0 {
		return nil, zerr.With(zerr.With(domain.ErrConfig, "path", spec.Path), "reason", "empty sample table")
	}

	header := rows[0]
	records := make([]domain.SampleRecord, 0, len(rows)-1)
	dir := filepath.Dir(spec.Path)

	for _, row := range rows[1:] {
		record := make(domain.SampleRecord, len(header))
		for i, col := range header {
			if i < len(row) {
				record[col] = row[i]
			}
		}

		// Read paths are resolved relative to the table location.
		for _, role := range spec.Roles {
			if v, ok := record[role.Column]; ok && v != "" && !filepath.IsAbs(v) {
				record[role.Column] = filepath.Join(dir, v)
			}
		}

		records = append(records, record)
	}

	return records, nil
}

func delimiter(spec domain.SampleSpec) rune {
	if spec.Delimiter == "" {
		return '\t'
	}
	return []rune(spec.Delimiter)[0]
}
