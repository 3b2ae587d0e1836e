package articles

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MemoryArticleRepository is an in-memory implementation for scaffolding and
// tests. Records are cloned on the way in and out so callers never share
// state with the store.
type MemoryArticleRepository struct {
	mu        sync.RWMutex
	articles  map[uuid.UUID]*Article
	slugIndex map[string]uuid.UUID
}

// NewMemoryArticleRepository creates an empty in-memory article repository.
func NewMemoryArticleRepository() *MemoryArticleRepository {
	return &MemoryArticleRepository{
		articles:  make(map[uuid.UUID]*Article),
		slugIndex: make(map[string]uuid.UUID),
	}
}

var _ Repository = (*MemoryArticleRepository)(nil)

// Create inserts the supplied article.
func (m *MemoryArticleRepository) Create(_ context.Context, record *Article) (*Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := record.Clone()
	m.articles[copied.ID] = copied
	m.slugIndex[slugKey(copied.Slug)] = copied.ID
	return copied.Clone(), nil
}

// GetByID retrieves an article by identifier.
func (m *MemoryArticleRepository) GetByID(_ context.Context, id uuid.UUID) (*Article, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.articles[id]
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	return rec.Clone(), nil
}

// GetBySlug retrieves an article by slug, returning NotFoundError when absent.
func (m *MemoryArticleRepository) GetBySlug(_ context.Context, slug string) (*Article, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.slugIndex[slugKey(slug)]
	if !ok {
		return nil, &NotFoundError{Slug: slug}
	}
	return m.articles[id].Clone(), nil
}

// List returns every stored article sorted by slug.
func (m *MemoryArticleRepository) List(_ context.Context) ([]*Article, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Article, 0, len(m.articles))
	for _, rec := range m.articles {
		out = append(out, rec.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Slug < out[j].Slug
	})
	return out, nil
}

// Update replaces the stored article.
func (m *MemoryArticleRepository) Update(_ context.Context, record *Article) (*Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.articles[record.ID]
	if !ok {
		return nil, &NotFoundError{ID: record.ID}
	}
	if existing.Slug != record.Slug {
		delete(m.slugIndex, slugKey(existing.Slug))
	}

	copied := record.Clone()
	m.articles[copied.ID] = copied
	m.slugIndex[slugKey(copied.Slug)] = copied.ID
	return copied.Clone(), nil
}

// Delete removes the stored article entirely.
func (m *MemoryArticleRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.articles[id]
	if !ok {
		return &NotFoundError{ID: id}
	}
	delete(m.slugIndex, slugKey(rec.Slug))
	delete(m.articles, id)
	return nil
}

func slugKey(slug string) string {
	return strings.ToLower(strings.TrimSpace(slug))
}
