package ports

import "github.com/EricSDavis/MicroC/internal/core/domain"

// SampleSource reads the sample table and derives its grouping.
//
//go:generate mockgen -source=samples.go -destination=mocks/mock_samples.go -package=mocks
type SampleSource interface {
	// Groups parses the sample table named by the spec and returns the
	// group-key to input-file mapping. Grouping is deterministic: identical
	// input yields identical keys and ordering.
	Groups(spec domain.SampleSpec) (domain.Groups, error)
}
