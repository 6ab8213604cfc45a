package store

import (
	"context"
	"time"

	"github.com/bdeshop/khelaghor-sub001/internal/models"
)

type DepositMethodStore struct {
	db DB
}

type DepositMethod struct {
	ID        string             `db:"id"`
	NameEN    string             `db:"name_en"`
	NameBN    string             `db:"name_bn"`
	Color     string             `db:"color"`
	ImageURL  string             `db:"image_url"`
	Status    string             `db:"status"`
	Fields    models.InputFields `db:"fields"`
	CreatedAt time.Time          `db:"created_at"`
	UpdatedAt time.Time          `db:"updated_at"`
}

type DepositMethodInput struct {
	ID       string
	NameEN   string
	NameBN   string
	Color    string
	ImageURL string
	Status   string
	Fields   models.InputFields
}

func NewDepositMethodStore(db DB) *DepositMethodStore {
	return &DepositMethodStore{db: db}
}

func (s *DepositMethodStore) Create(ctx context.Context, tx Execer, input DepositMethodInput) error {
	query := `
		INSERT INTO deposit_methods (id, name_en, name_bn, color, image_url, status, fields)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.NameEN, input.NameBN, input.Color, input.ImageURL, input.Status, input.Fields,
	)
	return err
}

func (s *DepositMethodStore) Update(ctx context.Context, tx Execer, input DepositMethodInput) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE deposit_methods
		SET name_en = $1, name_bn = $2, color = $3, image_url = $4, status = $5, fields = $6, updated_at = NOW()
		WHERE id = $7
	`, input.NameEN, input.NameBN, input.Color, input.ImageURL, input.Status, input.Fields, input.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *DepositMethodStore) Delete(ctx context.Context, tx Execer, methodID string) (int64, error) {
	res, err := tx.ExecContext(ctx, `DELETE FROM deposit_methods WHERE id = $1`, methodID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *DepositMethodStore) GetByID(ctx context.Context, methodID string) (DepositMethod, error) {
	var row DepositMethod
	err := s.db.GetContext(ctx, &row, `
		SELECT id, name_en, name_bn, color, image_url, status, fields, created_at, updated_at
		FROM deposit_methods
		WHERE id = $1
	`, methodID)
	if err != nil {
		return DepositMethod{}, err
	}
	return row, nil
}

func (s *DepositMethodStore) ListAll(ctx context.Context) ([]DepositMethod, error) {
	var rows []DepositMethod
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, name_en, name_bn, color, image_url, status, fields, created_at, updated_at
		FROM deposit_methods
		ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *DepositMethodStore) ListActive(ctx context.Context) ([]DepositMethod, error) {
	var rows []DepositMethod
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, name_en, name_bn, color, image_url, status, fields, created_at, updated_at
		FROM deposit_methods
		WHERE status = $1
		ORDER BY created_at
	`, models.MethodActive)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
