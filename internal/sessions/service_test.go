package sessions

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/studentportal/portal/backend/go-services/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fake account lookup for testing
type fakeAccounts struct {
	byID map[int64]*models.Account
}

func (f *fakeAccounts) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	return f.byID[id], nil
}

func newFakeAccounts(ids ...int64) *fakeAccounts {
	f := &fakeAccounts{byID: map[int64]*models.Account{}}
	for _, id := range ids {
		f.byID[id] = &models.Account{ID: id, Email: "user@student.com"}
	}
	return f
}

func TestIssueAndValidate(t *testing.T) {
	svc := NewService(NewMemoryRepository(), newFakeAccounts(1))
	ctx := context.Background()

	tok, err := svc.Issue(ctx, &models.Account{ID: 1})
	require.NoError(t, err)
	assert.Len(t, tok, 64)

	a, err := svc.Validate(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, int64(1), a.ID)
}

func TestIssue_SupersedesPreviousToken(t *testing.T) {
	svc := NewService(NewMemoryRepository(), newFakeAccounts(1, 2))
	ctx := context.Background()

	first, err := svc.Issue(ctx, &models.Account{ID: 1})
	require.NoError(t, err)
	other, err := svc.Issue(ctx, &models.Account{ID: 2})
	require.NoError(t, err)
	second, err := svc.Issue(ctx, &models.Account{ID: 1})
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	_, err = svc.Validate(ctx, first)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Validate(ctx, second)
	assert.NoError(t, err)
	_, err = svc.Validate(ctx, other)
	assert.NoError(t, err, "other accounts keep their token")
}

func TestValidate_Errors(t *testing.T) {
	svc := NewService(NewMemoryRepository(), newFakeAccounts())
	ctx := context.Background()

	_, err := svc.Validate(ctx, "")
	assert.ErrorIs(t, err, ErrMissingToken)

	_, err = svc.Validate(ctx, "unknown")
	assert.ErrorIs(t, err, ErrInvalidToken)

	// token whose account vanished
	tok, err := svc.Issue(ctx, &models.Account{ID: 7})
	require.NoError(t, err)
	_, err = svc.Validate(ctx, tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

type failingRepo struct{}

func (failingRepo) Replace(ctx context.Context, t *Token) error { return errors.New("db down") }
func (failingRepo) GetByToken(ctx context.Context, token string) (*Token, error) {
	return nil, errors.New("db down")
}

func TestService_PropagatesRepositoryErrors(t *testing.T) {
	svc := NewService(failingRepo{}, newFakeAccounts(1))
	ctx := context.Background()

	_, err := svc.Issue(ctx, &models.Account{ID: 1})
	assert.Error(t, err)

	_, err = svc.Validate(ctx, "abc")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidToken)
}

func TestIssue_ConcurrentLoginsLeaveOneToken(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo, newFakeAccounts(1))
	ctx := context.Background()

	var wg sync.WaitGroup
	tokens := make([]string, 20)
	for i := range tokens {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tok, err := svc.Issue(ctx, &models.Account{ID: 1})
			assert.NoError(t, err)
			tokens[i] = tok
		}(i)
	}
	wg.Wait()

	live := 0
	for _, tok := range tokens {
		if _, err := svc.Validate(ctx, tok); err == nil {
			live++
		}
	}
	assert.Equal(t, 1, live)
}
