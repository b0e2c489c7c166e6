package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/studentportal/portal/backend/go-services/internal/database"
	"github.com/studentportal/portal/backend/go-services/internal/document"
)

// SQLRepo implements Repository on the "documents" table.
type SQLRepo struct {
	db database.DBTX
}

func NewSQLRepo(db database.DBTX) *SQLRepo {
	return &SQLRepo{db: db}
}

func (r *SQLRepo) Create(ctx context.Context, d *document.Document) error {
	if d.UploadedAt.IsZero() {
		d.UploadedAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO documents (user_id, original_name, stored_name, uploaded_at) VALUES (?, ?, ?, ?)`,
		d.UserID, d.OriginalName, d.StoredName, database.FormatTime(d.UploadedAt))
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	if d.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

const selectDocument = `SELECT id, user_id, original_name, stored_name, uploaded_at FROM documents`

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(s scanner) (*document.Document, error) {
	var (
		d        document.Document
		uploaded string
	)
	if err := s.Scan(&d.ID, &d.UserID, &d.OriginalName, &d.StoredName, &uploaded); err != nil {
		return nil, err
	}
	t, err := database.ParseTime(uploaded)
	if err != nil {
		return nil, err
	}
	d.UploadedAt = t
	return &d, nil
}

func (r *SQLRepo) Get(ctx context.Context, id int64) (*document.Document, error) {
	d, err := scanDocument(r.db.QueryRowContext(ctx, selectDocument+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, document.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select document: %w", err)
	}
	return d, nil
}

func (r *SQLRepo) ListByOwner(ctx context.Context, ownerID int64) ([]*document.Document, error) {
	rows, err := r.db.QueryContext(ctx, selectDocument+` WHERE user_id = ? ORDER BY id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("select documents: %w", err)
	}
	defer rows.Close()

	out := []*document.Document{}
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
