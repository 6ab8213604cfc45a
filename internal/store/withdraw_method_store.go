package store

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bdeshop/khelaghor-sub001/internal/models"
)

type WithdrawMethodStore struct {
	db DB
}

// WithdrawMethod carries the limits and fee rule the creation flow
// validates against. FeeValue is minor units for fixed fees and a percent
// value for percentage fees.
type WithdrawMethod struct {
	ID            string             `db:"id"`
	NameEN        string             `db:"name_en"`
	NameBN        string             `db:"name_bn"`
	Color         string             `db:"color"`
	ImageURL      string             `db:"image_url"`
	Status        string             `db:"status"`
	MinWithdrawal int64              `db:"min_withdrawal"`
	MaxWithdrawal int64              `db:"max_withdrawal"`
	FeeType       string             `db:"fee_type"`
	FeeValue      decimal.Decimal    `db:"fee_value"`
	Fields        models.InputFields `db:"fields"`
	CreatedAt     time.Time          `db:"created_at"`
	UpdatedAt     time.Time          `db:"updated_at"`
}

type WithdrawMethodInput struct {
	ID            string
	NameEN        string
	NameBN        string
	Color         string
	ImageURL      string
	Status        string
	MinWithdrawal int64
	MaxWithdrawal int64
	FeeType       string
	FeeValue      decimal.Decimal
	Fields        models.InputFields
}

func NewWithdrawMethodStore(db DB) *WithdrawMethodStore {
	return &WithdrawMethodStore{db: db}
}

func (s *WithdrawMethodStore) Create(ctx context.Context, tx Execer, input WithdrawMethodInput) error {
	query := `
		INSERT INTO withdraw_methods (id, name_en, name_bn, color, image_url, status, min_withdrawal, max_withdrawal, fee_type, fee_value, fields)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := tx.ExecContext(ctx, query,
		input.ID, input.NameEN, input.NameBN, input.Color, input.ImageURL, input.Status,
		input.MinWithdrawal, input.MaxWithdrawal, input.FeeType, input.FeeValue, input.Fields,
	)
	return err
}

func (s *WithdrawMethodStore) Update(ctx context.Context, tx Execer, input WithdrawMethodInput) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		UPDATE withdraw_methods
		SET name_en = $1, name_bn = $2, color = $3, image_url = $4, status = $5,
		    min_withdrawal = $6, max_withdrawal = $7, fee_type = $8, fee_value = $9, fields = $10,
		    updated_at = NOW()
		WHERE id = $11
	`, input.NameEN, input.NameBN, input.Color, input.ImageURL, input.Status,
		input.MinWithdrawal, input.MaxWithdrawal, input.FeeType, input.FeeValue, input.Fields, input.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *WithdrawMethodStore) Delete(ctx context.Context, tx Execer, methodID string) (int64, error) {
	res, err := tx.ExecContext(ctx, `DELETE FROM withdraw_methods WHERE id = $1`, methodID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *WithdrawMethodStore) GetByID(ctx context.Context, methodID string) (WithdrawMethod, error) {
	var row WithdrawMethod
	err := s.db.GetContext(ctx, &row, `
		SELECT id, name_en, name_bn, color, image_url, status, min_withdrawal, max_withdrawal, fee_type, fee_value, fields, created_at, updated_at
		FROM withdraw_methods
		WHERE id = $1
	`, methodID)
	if err != nil {
		return WithdrawMethod{}, err
	}
	return row, nil
}

func (s *WithdrawMethodStore) ListAll(ctx context.Context) ([]WithdrawMethod, error) {
	var rows []WithdrawMethod
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, name_en, name_bn, color, image_url, status, min_withdrawal, max_withdrawal, fee_type, fee_value, fields, created_at, updated_at
		FROM withdraw_methods
		ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *WithdrawMethodStore) ListActive(ctx context.Context) ([]WithdrawMethod, error) {
	var rows []WithdrawMethod
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, name_en, name_bn, color, image_url, status, min_withdrawal, max_withdrawal, fee_type, fee_value, fields, created_at, updated_at
		FROM withdraw_methods
		WHERE status = $1
		ORDER BY created_at
	`, models.MethodActive)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
