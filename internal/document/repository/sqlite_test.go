package repository

import (
	"context"
	"testing"
	"time"

	"github.com/studentportal/portal/backend/go-services/internal/database"
	"github.com/studentportal/portal/backend/go-services/internal/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLRepo_CreateGetList(t *testing.T) {
	ctx := context.Background()
	db, err := database.OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	r := NewSQLRepo(db)
	at := time.Date(2024, 5, 1, 10, 0, 0, 123456000, time.UTC)

	a := &document.Document{UserID: 1, OriginalName: "a.txt", StoredName: "1_1714557600_a.txt", UploadedAt: at}
	require.NoError(t, r.Create(ctx, a))
	assert.Equal(t, int64(1), a.ID)

	b := &document.Document{UserID: 2, OriginalName: "b.txt", StoredName: "2_1714557600_b.txt"}
	require.NoError(t, r.Create(ctx, b))
	assert.Equal(t, int64(2), b.ID)

	got, err := r.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.UserID)
	assert.Equal(t, "1_1714557600_a.txt", got.StoredName)
	assert.True(t, at.Equal(got.UploadedAt))

	_, err = r.Get(ctx, 3)
	assert.ErrorIs(t, err, document.ErrNotFound)

	list, err := r.ListByOwner(ctx, 2)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "b.txt", list[0].OriginalName)

	none, err := r.ListByOwner(ctx, 3)
	require.NoError(t, err)
	assert.Empty(t, none)
}
