package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/studentportal/portal/backend/go-services/internal/database"
	"github.com/studentportal/portal/backend/go-services/internal/models"
)

// SQLRepository implements Repository on the "users" table.
type SQLRepository struct {
	db database.DBTX
}

func NewSQLRepository(db database.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

const selectAccount = `SELECT id, email, password_hash, created_at FROM users`

func (r *SQLRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.queryOne(ctx, selectAccount+` WHERE email = ?`, email)
}

func (r *SQLRepository) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	return r.queryOne(ctx, selectAccount+` WHERE id = ?`, id)
}

func (r *SQLRepository) queryOne(ctx context.Context, query string, arg any) (*models.Account, error) {
	var (
		a       models.Account
		created string
	)
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&a.ID, &a.Email, &a.PasswordHash, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select account: %w", err)
	}
	if a.CreatedAt, err = database.ParseTime(created); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *SQLRepository) Create(ctx context.Context, a *models.Account) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (email, password_hash, created_at) VALUES (?, ?, ?) ON CONFLICT(email) DO NOTHING`,
		a.Email, a.PasswordHash, database.FormatTime(a.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	if n == 0 {
		return ErrDuplicateIdentity
	}
	if a.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}
