// Package store owns the canonical planning document. All reads go through
// Snapshot, all writes through Patch; nothing else ever sees live state.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/itemkey/item-key/domain"
	"github.com/itemkey/item-key/storage"
)

// Store holds the live document and serializes every mutation. One mutator
// runs to completion, and is persisted, before the next begins.
type Store struct {
	mu     sync.Mutex
	kv     storage.KV
	logger *log.Logger
	doc    *domain.Document
	now    func() time.Time
}

// Option customizes Store construction.
type Option func(*Store)

// WithClock overrides the time source, used by migration for createdAt
// backfill.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New loads the persisted document from kv, replaces it with the default
// document when absent or unreadable, migrates it once and persists the
// repaired result. Backend failures are the only errors it surfaces.
func New(ctx context.Context, kv storage.KV, logger *log.Logger, opts ...Option) (*Store, error) {
	if logger == nil {
		logger = log.StandardLogger()
	}
	s := &Store{kv: kv, logger: logger, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	doc, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	s.doc = doc

	rep := Migrate(s.doc, s.now())
	if !rep.Clean() {
		logger.WithFields(rep.Fields()).Info("planning document repaired")
	}
	if err := s.persist(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load(ctx context.Context) (*domain.Document, error) {
	raw, ok, err := s.kv.Load(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return domain.DefaultDocument(), nil
	}
	var doc domain.Document
	if err := sonic.Unmarshal(raw, &doc); err != nil {
		// Corrupt state is treated as absence of state, never surfaced.
		s.logger.WithError(err).Warn("discarding unreadable planning document")
		return domain.DefaultDocument(), nil
	}
	return &doc, nil
}

// Snapshot returns a deep, independent copy of the document. Callers must not
// treat it as live state; mutation is only valid through Patch.
func (s *Store) Snapshot() *domain.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

// Patch applies mutator to the live document and persists the result. The
// mutator runs synchronously under the store lock and must not call back into
// the store.
func (s *Store) Patch(ctx context.Context, mutator func(*domain.Document)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m := newPatchMetrics(s.logger)
	mutator(s.doc)
	m.ObserveMutate()
	err := s.persistMeasured(ctx, m)
	m.Log(err)
	return err
}

// EnsureSeed creates the starter "default" project when the document holds no
// projects at all, and makes it active.
func (s *Store) EnsureSeed(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.doc.Projects) > 0 {
		return nil
	}
	p := domain.Project{
		ID:        uuid.NewString(),
		Name:      "default",
		Desc:      "starter project",
		Columns:   domain.DefaultColumns(),
		CreatedAt: s.now().UnixMilli(),
	}
	s.doc.Projects = append(s.doc.Projects, p)
	s.doc.ActiveProjectID = p.ID
	s.logger.WithField("project", p.ID).Info("seeded starter project")
	return s.persist(ctx)
}

func (s *Store) persist(ctx context.Context) error {
	data, err := sonic.Marshal(s.doc)
	if err != nil {
		return err
	}
	return s.kv.Save(ctx, data)
}

func (s *Store) persistMeasured(ctx context.Context, m *patchMetrics) error {
	data, err := sonic.Marshal(s.doc)
	m.ObserveEncode(len(data))
	if err != nil {
		return err
	}
	err = s.kv.Save(ctx, data)
	m.ObserveSave()
	return err
}
