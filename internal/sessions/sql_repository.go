package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/studentportal/portal/backend/go-services/internal/database"
)

// SQLRepository implements Repository on the "auth_tokens" table.
type SQLRepository struct {
	db *sql.DB
}

func NewSQLRepository(db *sql.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

// Replace deletes the account's tokens and inserts t in one transaction.
func (r *SQLRepository) Replace(ctx context.Context, t *Token) error {
	return database.WithTx(ctx, r.db, nil, func(ctx context.Context, tx database.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM auth_tokens WHERE user_id = ?`, t.AccountID); err != nil {
			return fmt.Errorf("delete tokens: %w", err)
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO auth_tokens (user_id, token, created_at) VALUES (?, ?, ?)`,
			t.AccountID, t.Token, database.FormatTime(t.CreatedAt))
		if err != nil {
			return fmt.Errorf("insert token: %w", err)
		}
		return nil
	})
}

func (r *SQLRepository) GetByToken(ctx context.Context, token string) (*Token, error) {
	var (
		t       Token
		created string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT token, user_id, created_at FROM auth_tokens WHERE token = ?`, token).
		Scan(&t.Token, &t.AccountID, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select token: %w", err)
	}
	if t.CreatedAt, err = database.ParseTime(created); err != nil {
		return nil, err
	}
	return &t, nil
}
