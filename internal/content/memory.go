package content

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepository is an in-memory Repository for tests and scaffolding.
type MemoryRepository struct {
	mu        sync.RWMutex
	seq       int64
	records   map[uuid.UUID]*Record
	slugIndex map[slugKey]uuid.UUID
}

type slugKey struct {
	contentType string
	slug        string
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		records:   make(map[uuid.UUID]*Record),
		slugIndex: make(map[slugKey]uuid.UUID),
	}
}

func (m *MemoryRepository) Create(_ context.Context, record *Record) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := slugKey{record.ContentType, record.Slug}
	if _, exists := m.slugIndex[key]; exists {
		return nil, &ConflictError{ContentType: record.ContentType, Slug: record.Slug}
	}
	copied := cloneRecord(record)
	if copied.ID == uuid.Nil {
		copied.ID = uuid.New()
	}
	if _, exists := m.records[copied.ID]; exists {
		return nil, &ConflictError{ContentType: record.ContentType, Slug: record.Slug}
	}

	m.seq++
	copied.Seq = m.seq
	m.records[copied.ID] = copied
	m.slugIndex[key] = copied.ID
	return cloneRecord(copied), nil
}

func (m *MemoryRepository) GetByID(_ context.Context, contentType string, id uuid.UUID) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[id]
	if !ok || rec.ContentType != contentType {
		return nil, notFound(contentType, id.String())
	}
	return cloneRecord(rec), nil
}

func (m *MemoryRepository) GetBySlug(_ context.Context, contentType, slug string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.slugIndex[slugKey{contentType, slug}]
	if !ok {
		return nil, notFound(contentType, slug)
	}
	return cloneRecord(m.records[id]), nil
}

func (m *MemoryRepository) List(_ context.Context, contentType string, filter ListFilter) ([]*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Record, 0)
	for _, rec := range m.records {
		if rec.ContentType != contentType {
			continue
		}
		if filter.ActiveOnly && !rec.IsActive {
			continue
		}
		out = append(out, cloneRecord(rec))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Seq > out[j].Seq
	})
	return out, nil
}

func (m *MemoryRepository) Update(_ context.Context, record *Record) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.records[record.ID]
	if !ok || existing.ContentType != record.ContentType {
		return nil, notFound(record.ContentType, record.ID.String())
	}
	oldKey := slugKey{existing.ContentType, existing.Slug}
	newKey := slugKey{record.ContentType, record.Slug}
	if newKey != oldKey {
		if _, taken := m.slugIndex[newKey]; taken {
			return nil, &ConflictError{ContentType: record.ContentType, Slug: record.Slug}
		}
		delete(m.slugIndex, oldKey)
		m.slugIndex[newKey] = existing.ID
	}

	existing.Slug = record.Slug
	existing.IsActive = record.IsActive
	existing.Fields = cloneMap(record.Fields)
	existing.Sections = cloneMap(record.Sections)
	existing.UpdatedAt = record.UpdatedAt
	return cloneRecord(existing), nil
}

func (m *MemoryRepository) Delete(_ context.Context, contentType string, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[id]
	if !ok || rec.ContentType != contentType {
		return notFound(contentType, id.String())
	}
	delete(m.records, id)
	delete(m.slugIndex, slugKey{rec.ContentType, rec.Slug})
	return nil
}
