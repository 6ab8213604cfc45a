package store

import (
	"context"
	"time"
)

type UserStore struct {
	db DB
}

type User struct {
	ID           string    `db:"id"`
	Username     string    `db:"username"`
	Phone        string    `db:"phone"`
	PasswordHash string    `db:"password_hash"`
	Balance      int64     `db:"balance"`
	CreatedAt    time.Time `db:"created_at"`
}

func NewUserStore(db DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Create(ctx context.Context, tx Execer, id, username, phone, passwordHash string) error {
	query := `
		INSERT INTO users (id, username, phone, password_hash, balance)
		VALUES ($1, $2, $3, $4, 0)
	`
	_, err := tx.ExecContext(ctx, query, id, username, phone, passwordHash)
	return err
}

func (s *UserStore) GetByID(ctx context.Context, userID string) (User, error) {
	var row User
	err := s.db.GetContext(ctx, &row, `
		SELECT id, username, phone, password_hash, balance, created_at
		FROM users
		WHERE id = $1
	`, userID)
	if err != nil {
		return User{}, err
	}
	return row, nil
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (User, error) {
	var row User
	err := s.db.GetContext(ctx, &row, `
		SELECT id, username, phone, password_hash, balance, created_at
		FROM users
		WHERE username = $1
	`, username)
	if err != nil {
		return User{}, err
	}
	return row, nil
}

// GetForUpdate locks the user row for the duration of the enclosing
// transaction. Settlement always reads balance through this.
func (s *UserStore) GetForUpdate(ctx context.Context, tx Getter, userID string) (User, error) {
	var row User
	err := tx.GetContext(ctx, &row, `
		SELECT id, username, phone, password_hash, balance, created_at
		FROM users
		WHERE id = $1
		FOR UPDATE
	`, userID)
	if err != nil {
		return User{}, err
	}
	return row, nil
}

// AdjustBalance applies a signed delta and returns the resulting balance.
// The balance CHECK constraint rejects any delta that would go negative.
func (s *UserStore) AdjustBalance(ctx context.Context, tx Getter, userID string, delta int64) (int64, error) {
	var balance int64
	err := tx.GetContext(ctx, &balance, `
		UPDATE users
		SET balance = balance + $1, updated_at = NOW()
		WHERE id = $2
		RETURNING balance
	`, delta, userID)
	return balance, err
}

func (s *UserStore) ListAll(ctx context.Context, limit, offset int) ([]User, error) {
	var rows []User
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, username, phone, password_hash, balance, created_at
		FROM users
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
