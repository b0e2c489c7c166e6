package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/studentportal/portal/backend/go-services/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// Service encapsulates the credential store: account creation with salted
// password hashes and password verification.
type Service struct {
	repo Repository
	cost int

	dummyOnce sync.Once
	dummyHash []byte
}

// NewService returns a Service hashing with the given bcrypt cost. Costs
// outside bcrypt's range fall back to bcrypt.DefaultCost.
func NewService(r Repository, cost int) *Service {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Service{repo: r, cost: cost}
}

func (s *Service) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	return s.repo.FindByEmail(ctx, email)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	return s.repo.GetByID(ctx, id)
}

// Create stores a new account. The password is kept only as a bcrypt hash.
func (s *Service) Create(ctx context.Context, email, password string) (*models.Account, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, errors.New("email and password required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	a := &models.Account{Email: email, PasswordHash: string(hash)}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Authenticate returns the account when password matches its stored hash.
// Unknown emails are checked against a placeholder hash so both failure
// paths cost one bcrypt comparison and return ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.Account, error) {
	a, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if a == nil {
		_ = bcrypt.CompareHashAndPassword(s.placeholderHash(), []byte(password))
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return a, nil
}

func (s *Service) placeholderHash() []byte {
	s.dummyOnce.Do(func() {
		h, err := bcrypt.GenerateFromPassword([]byte("placeholder-password"), s.cost)
		if err == nil {
			s.dummyHash = h
		}
	})
	return s.dummyHash
}

// Seed is an account created at bootstrap when absent.
type Seed struct {
	Email    string
	Password string
}

// DemoSeeds are the fixture accounts every fresh installation starts with.
var DemoSeeds = []Seed{
	{Email: "test@student.com", Password: "password123"},
	{Email: "test1@student.com", Password: "password123"},
}

// EnsureSeedAccounts creates every seed whose email is not registered yet and
// reports how many were created.
func (s *Service) EnsureSeedAccounts(ctx context.Context, seeds []Seed) (int, error) {
	created := 0
	for _, sd := range seeds {
		existing, err := s.repo.FindByEmail(ctx, sd.Email)
		if err != nil {
			return created, fmt.Errorf("seed %s: %w", sd.Email, err)
		}
		if existing != nil {
			continue
		}
		if _, err := s.Create(ctx, sd.Email, sd.Password); err != nil {
			if errors.Is(err, ErrDuplicateIdentity) {
				continue
			}
			return created, fmt.Errorf("seed %s: %w", sd.Email, err)
		}
		created++
	}
	return created, nil
}
