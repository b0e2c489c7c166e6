package users

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/studentportal/portal/backend/go-services/internal/models"
)

var (
	// ErrDuplicateIdentity is returned by Create when the email is taken.
	ErrDuplicateIdentity = errors.New("account already exists")
	// ErrInvalidCredentials covers both an unknown email and a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Repository defines persistence operations for accounts. Lookups return
// (nil, nil) when nothing matches.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	GetByID(ctx context.Context, id int64) (*models.Account, error)
	// Create assigns ID and CreatedAt. It returns ErrDuplicateIdentity when
	// the email already exists.
	Create(ctx context.Context, a *models.Account) error
}

// MemoryRepository keeps accounts in process memory.
type MemoryRepository struct {
	mu      sync.RWMutex
	nextID  int64
	byID    map[int64]*models.Account
	byEmail map[string]int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byID: map[int64]*models.Account{}, byEmail: map[string]int64{}}
}

func (m *MemoryRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byEmail[email]
	if !ok {
		return nil, nil
	}
	cp := *m.byID[id]
	return &cp, nil
}

func (m *MemoryRepository) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (m *MemoryRepository) Create(ctx context.Context, a *models.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byEmail[a.Email]; ok {
		return ErrDuplicateIdentity
	}
	m.nextID++
	a.ID = m.nextID
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	cp := *a
	m.byID[a.ID] = &cp
	m.byEmail[a.Email] = a.ID
	return nil
}
