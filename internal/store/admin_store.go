package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type AdminStore struct {
	db DB
}

type Admin struct {
	ID           string    `db:"id"`
	Username     string    `db:"username"`
	PasswordHash string    `db:"password_hash"`
	IsSuper      bool      `db:"is_super"`
	CreatedBy    *string   `db:"created_by"`
	CreatedAt    time.Time `db:"created_at"`
}

func NewAdminStore(db DB) *AdminStore {
	return &AdminStore{db: db}
}

func (s *AdminStore) Create(ctx context.Context, tx Execer, id, username, passwordHash string, isSuper bool, createdBy *string) error {
	query := `
		INSERT INTO admins (id, username, password_hash, is_super, created_by)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := tx.ExecContext(ctx, query, id, username, passwordHash, isSuper, createdBy)
	return err
}

func (s *AdminStore) GetByUsername(ctx context.Context, username string) (Admin, error) {
	var row Admin
	err := s.db.GetContext(ctx, &row, `
		SELECT id, username, password_hash, is_super, created_by, created_at
		FROM admins
		WHERE username = $1
	`, username)
	if err != nil {
		return Admin{}, err
	}
	return row, nil
}

func (s *AdminStore) IsAdmin(ctx context.Context, adminID string) (bool, bool, error) {
	var isSuper bool
	err := s.db.GetContext(ctx, &isSuper, `SELECT is_super FROM admins WHERE id = $1`, adminID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}
	return true, isSuper, nil
}

func (s *AdminStore) HasAnyAdmin(ctx context.Context) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM admins)`)
	return exists, err
}

func (s *AdminStore) List(ctx context.Context) ([]Admin, error) {
	var rows []Admin
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, username, password_hash, is_super, created_by, created_at
		FROM admins
		ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
