package sessions

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/studentportal/portal/backend/go-services/internal/models"
)

var (
	// ErrMissingToken means no bearer credential was presented.
	ErrMissingToken = errors.New("missing token")
	// ErrInvalidToken means the presented token does not resolve to an account.
	ErrInvalidToken = errors.New("invalid token")
)

// tokenBytes is the amount of randomness per token (hex encoded to 64 chars).
const tokenBytes = 32

// AccountGetter resolves the account a token belongs to.
type AccountGetter interface {
	GetByID(ctx context.Context, id int64) (*models.Account, error)
}

// Service issues and validates opaque session tokens.
type Service struct {
	repo     Repository
	accounts AccountGetter
	now      func() time.Time
}

func NewService(r Repository, accounts AccountGetter) *Service {
	return &Service{repo: r, accounts: accounts, now: func() time.Time { return time.Now().UTC() }}
}

// Issue mints a new token for account, replacing any token it had before.
func (s *Service) Issue(ctx context.Context, account *models.Account) (string, error) {
	if account == nil {
		return "", errors.New("issue token: nil account")
	}
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	t := &Token{
		Token:     hex.EncodeToString(b),
		AccountID: account.ID,
		CreatedAt: s.now(),
	}
	if err := s.repo.Replace(ctx, t); err != nil {
		return "", fmt.Errorf("store token: %w", err)
	}
	return t.Token, nil
}

// Validate resolves token to its account. There is no expiry: a token is
// valid until the account logs in again.
func (s *Service) Validate(ctx context.Context, token string) (*models.Account, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	t, err := s.repo.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrInvalidToken
	}
	a, err := s.accounts.GetByID(ctx, t.AccountID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrInvalidToken
	}
	return a, nil
}
