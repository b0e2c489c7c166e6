package repository

import (
	"context"
	"sync"
	"time"

	"github.com/studentportal/portal/backend/go-services/internal/document"
)

// Repository persists document metadata.
type Repository interface {
	// Create assigns the next numeric ID.
	Create(ctx context.Context, d *document.Document) error
	// Get returns document.ErrNotFound on a miss.
	Get(ctx context.Context, id int64) (*document.Document, error)
	// ListByOwner returns documents in ID order; an empty slice when none.
	ListByOwner(ctx context.Context, ownerID int64) ([]*document.Document, error)
}

// MemoryRepo is an in-memory repository used by tests and DATABASE_DRIVER=memory.
type MemoryRepo struct {
	mu     sync.RWMutex
	nextID int64
	order  []int64
	store  map[int64]*document.Document
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[int64]*document.Document)}
}

func (m *MemoryRepo) Create(ctx context.Context, d *document.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	d.ID = m.nextID
	if d.UploadedAt.IsZero() {
		d.UploadedAt = time.Now().UTC()
	}
	cp := *d
	m.store[d.ID] = &cp
	m.order = append(m.order, d.ID)
	return nil
}

func (m *MemoryRepo) Get(ctx context.Context, id int64) (*document.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if d, ok := m.store[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, document.ErrNotFound
}

func (m *MemoryRepo) ListByOwner(ctx context.Context, ownerID int64) ([]*document.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*document.Document{}
	for _, id := range m.order {
		if d := m.store[id]; d.UserID == ownerID {
			cp := *d
			out = append(out, &cp)
		}
	}
	return out, nil
}
