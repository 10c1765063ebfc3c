// Package artifact implements the artifact store: existence tracking for
// declared outputs and lifecycle management of transient intermediates.
package artifact

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/EricSDavis/MicroC/internal/core/domain"
	"github.com/EricSDavis/MicroC/internal/core/ports"
	"github.com/cespare/xxhash/v2"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Fingerprint is the persisted record of one committed output.
type Fingerprint struct {
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	Digest    string    `json:"digest"`
	Committed time.Time `json:"committed"`
}

// tracked holds the bookkeeping for one declared output.
type tracked struct {
	artifact domain.Artifact
	producer domain.InternedString
	// consumers are the tasks reading this artifact that have not yet
	// reached a terminal state.
	consumers map[domain.InternedString]bool
}

// Store implements ports.ArtifactStore. It is safe for concurrent use: the
// scheduler queries and settles from its dispatch loop while runner
// goroutines commit.
type Store struct {
	logger ports.Logger

	// root is set by Track before the run starts and is read-only after.
	root string

	mu        sync.Mutex
	artifacts map[domain.InternedString]*tracked
	settled   map[domain.InternedString]bool
}

// NewStore creates an empty Store.
func NewStore(logger ports.Logger) *Store {
	return &Store{
		logger:    logger,
		artifacts: make(map[domain.InternedString]*tracked),
		settled:   make(map[domain.InternedString]bool),
	}
}

// Track registers the declared outputs and the consumer relation of a graph.
func (s *Store) Track(g *domain.Graph) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.root = g.Root()

	for task := range g.Walk() {
		for _, out := range task.Outputs {
			s.artifacts[out.Path] = &tracked{
				artifact:  out,
				producer:  task.Name,
				consumers: make(map[domain.InternedString]bool),
			}
		}
	}

	// Input paths that match a tracked artifact form the consumer edges.
	for task := range g.Walk() {
		for _, path := range task.InputPaths() {
			if t, ok := s.artifacts[domain.NewInternedString(path)]; ok {
				t.consumers[task.Name] = true
			}
		}
	}
}

// UpToDate reports whether every declared output of the task already exists.
// When a fingerprint record exists for an output, its recorded size must also
// match, catching truncated files left by an interrupted copy.
func (s *Store) UpToDate(task *domain.Task) bool {
	paths := task.OutputPaths()
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return false
		}

		if fp, ok := s.readFingerprint(path); ok && fp.Size != info.Size() {
			return false
		}
	}
	return len(paths) > 0
}

// Commit persists a fingerprint for every output of a task that just
// promoted its artifacts. Outputs are hashed concurrently since alignment
// stages routinely produce multiple multi-gigabyte files.
func (s *Store) Commit(task *domain.Task) error {
	stateDir := domain.StatePath(s.root)
	if err := os.MkdirAll(stateDir, domain.DirPerm); err != nil {
		return errors.Join(domain.ErrStateWriteFailed, err)
	}

	var eg errgroup.Group
	for _, out := range task.Outputs {
		eg.Go(func() error {
			fp, err := fingerprintFile(out.Path.String())
			if err != nil {
				return err
			}

			data, err := json.MarshalIndent(fp, "", "  ")
			if err != nil {
				return errors.Join(domain.ErrStateWriteFailed, err)
			}

			if err := os.WriteFile(s.statePath(out.Path.String()), data, domain.FilePerm); err != nil {
				return errors.Join(domain.ErrStateWriteFailed, err)
			}
			return nil
		})
	}

	return eg.Wait()
}

// Settle marks a task as terminal and deletes transient artifacts that no
// pending task can still read: the producer settled and every consumer is
// settled too.
func (s *Store) Settle(name domain.InternedString) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settled[name] = true

	for _, t := range s.artifacts {
		if t.artifact.Class != domain.ArtifactTransient {
			continue
		}
		if !s.settled[t.producer] {
			continue
		}

		remaining := false
		for consumer := range t.consumers {
			if !s.settled[consumer] {
				remaining = true
				break
			}
		}
		if remaining {
			continue
		}

		s.remove(t.artifact.Path.String())
	}
}

// remove deletes a transient artifact and its fingerprint. Missing files are
// fine: the producer may have failed before writing anything.
func (s *Store) remove(path string) {
	if err := os.Remove(path); err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("failed to delete transient artifact " + path)
		}
		return
	}
	_ = os.Remove(s.statePath(path))
	s.logger.Info("deleted transient artifact " + path)
}

func (s *Store) statePath(artifactPath string) string {
	sum := xxhash.Sum64String(artifactPath)
	var buf [8]byte
	for i := range buf {
		buf[i] = byte(sum >> (8 * (7 - i)))
	}
	return filepath.Join(domain.StatePath(s.root), hex.EncodeToString(buf[:])+".json")
}

func (s *Store) readFingerprint(artifactPath string) (Fingerprint, bool) {
	path := s.statePath(artifactPath)

	//nolint:gosec // path is derived from a hashed artifact path under the state dir
	data, err := os.ReadFile(path)
	if err != nil {
		return Fingerprint{}, false
	}

	var fp Fingerprint
	if err := json.Unmarshal(data, &fp); err != nil {
		return Fingerprint{}, false
	}
	return fp, true
}

func fingerprintFile(path string) (Fingerprint, error) {
	//nolint:gosec // declared output path from the validated catalog
	f, err := os.Open(path)
	if err != nil {
		return Fingerprint{}, zerr.With(
			errors.Join(domain.ErrStateWriteFailed, err),
			"path", path,
		)
	}
	defer func() { _ = f.Close() }()

	h := xxhash.New()
	size, err := io.Copy(h, f)
	if err != nil {
		return Fingerprint{}, zerr.With(
			errors.Join(domain.ErrStateWriteFailed, err),
			"path", path,
		)
	}

	return Fingerprint{
		Path:      path,
		Size:      size,
		Digest:    hex.EncodeToString(h.Sum(nil)),
		Committed: time.Now(),
	}, nil
}
