package packages_test

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"tourdesk/models"
	"tourdesk/packages"
	"tourdesk/utils"
)

// memStore mimics the Mongo store, including the sparse unique slug index.
type memStore struct {
	mu    sync.Mutex
	docs  map[primitive.ObjectID]models.Package
	order []primitive.ObjectID

	idLookups int
	// beforeWrite runs once, just before the next write is checked against
	// the index; tests use it to simulate a concurrent writer.
	beforeWrite func(s *memStore)
	// conflictAlways makes every write fail the slug index.
	conflictAlways bool
}

func newMemStore() *memStore {
	return &memStore{docs: map[primitive.ObjectID]models.Package{}}
}

func (s *memStore) put(p models.Package) {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if _, ok := s.docs[p.ID]; !ok {
		s.order = append(s.order, p.ID)
	}
	s.docs[p.ID] = p
}

func (s *memStore) List(_ context.Context, f packages.Filter, opts utils.QueryOptions) ([]models.Package, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.Package{}
	for i := len(s.order) - 1; i >= 0; i-- {
		p, ok := s.docs[s.order[i]]
		if !ok {
			continue
		}
		if f.Active != nil && p.IsActive != *f.Active {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	skip := int(opts.Skip())
	if skip >= len(out) {
		return []models.Package{}, nil
	}
	out = out[skip:]
	if len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

func (s *memStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Package, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.idLookups++
	p, ok := s.docs[id]
	if !ok {
		return nil, packages.ErrNotFound
	}
	return &p, nil
}

func (s *memStore) FindBySlug(_ context.Context, slug string) (*models.Package, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.docs {
		if p.Slug != "" && p.Slug == slug {
			return &p, nil
		}
	}
	return nil, packages.ErrNotFound
}

func (s *memStore) SlugsWithPrefix(_ context.Context, prefix string, exclude primitive.ObjectID) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var slugs []string
	for id, p := range s.docs {
		if id != exclude && strings.HasPrefix(p.Slug, prefix) {
			slugs = append(slugs, p.Slug)
		}
	}
	return slugs, nil
}

func (s *memStore) checkIndex(p *models.Package) error {
	if hook := s.beforeWrite; hook != nil {
		s.beforeWrite = nil
		hook(s)
	}
	if s.conflictAlways {
		return packages.ErrDuplicateSlug
	}
	if p.Slug == "" {
		return nil
	}
	for id, other := range s.docs {
		if id != p.ID && other.Slug == p.Slug {
			return packages.ErrDuplicateSlug
		}
	}
	return nil
}

func (s *memStore) Insert(_ context.Context, p *models.Package) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkIndex(p); err != nil {
		return err
	}
	s.put(*p)
	return nil
}

func (s *memStore) Replace(_ context.Context, p *models.Package) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[p.ID]; !ok {
		return packages.ErrNotFound
	}
	if err := s.checkIndex(p); err != nil {
		return err
	}
	s.docs[p.ID] = *p
	return nil
}

func (s *memStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[id]; !ok {
		return packages.ErrNotFound
	}
	delete(s.docs, id)
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) Emit(_ context.Context, eventName string, _ models.Index) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, eventName)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ptr[T any](v T) *T { return &v }
