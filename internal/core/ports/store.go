package ports

import "github.com/EricSDavis/MicroC/internal/core/domain"

// ArtifactStore tracks declared outputs on durable storage: whether they
// exist (serving the scheduler's skip check) and when transient artifacts can
// be deleted.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type ArtifactStore interface {
	// Track registers the declared outputs and consumer relation of a graph.
	Track(g *domain.Graph)

	// UpToDate reports whether every declared output of the task already
	// exists, so the task can be skipped.
	UpToDate(task *domain.Task) bool

	// Commit records that a task's outputs were promoted, persisting their
	// fingerprints.
	Commit(task *domain.Task) error

	// Settle notifies the store that a task reached a terminal state and
	// will never (re-)run. Transient artifacts whose consumers have all
	// settled are deleted.
	Settle(name domain.InternedString)
}
