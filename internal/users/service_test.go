package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestService() *Service {
	return NewService(NewMemoryRepository(), bcrypt.MinCost)
}

func TestCreate_HashesPassword(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	a, err := svc.Create(ctx, "alice@student.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, int64(1), a.ID)
	assert.NotEqual(t, "s3cret", a.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte("s3cret")))
	assert.False(t, a.CreatedAt.IsZero())

	got, err := svc.FindByEmail(ctx, "alice@student.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, a.ID, got.ID)
}

func TestCreate_DuplicateIdentity(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, "alice@student.com", "one")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "alice@student.com", "two")
	assert.ErrorIs(t, err, ErrDuplicateIdentity)
}

func TestCreate_RequiresFields(t *testing.T) {
	svc := newTestService()
	_, err := svc.Create(context.Background(), " ", "pw")
	assert.Error(t, err)
	_, err = svc.Create(context.Background(), "a@b.c", "")
	assert.Error(t, err)
}

func TestAuthenticate(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	created, err := svc.Create(ctx, "alice@student.com", "s3cret")
	require.NoError(t, err)

	a, err := svc.Authenticate(ctx, "alice@student.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, created.ID, a.ID)

	_, errWrong := svc.Authenticate(ctx, "alice@student.com", "nope")
	_, errUnknown := svc.Authenticate(ctx, "bob@student.com", "s3cret")
	assert.ErrorIs(t, errWrong, ErrInvalidCredentials)
	assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	assert.Equal(t, errWrong.Error(), errUnknown.Error())
}

func TestEnsureSeedAccounts_Idempotent(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	n, err := svc.EnsureSeedAccounts(ctx, DemoSeeds)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = svc.EnsureSeedAccounts(ctx, DemoSeeds)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	a, err := svc.Authenticate(ctx, "test1@student.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, int64(2), a.ID)
}

func TestNewService_ClampsCost(t *testing.T) {
	svc := NewService(NewMemoryRepository(), 99)
	assert.Equal(t, bcrypt.DefaultCost, svc.cost)
}
