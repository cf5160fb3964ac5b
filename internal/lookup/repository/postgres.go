package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fekuna/omnipos-approval-service/internal/apperror"
	"github.com/fekuna/omnipos-approval-service/internal/model"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) FindCategory(ctx context.Context, id string) (*model.Category, error) {
	var c model.Category
	query := r.DB.Rebind(`SELECT id, parent_id, name, is_active FROM categories WHERE id = ? LIMIT 1`)
	if err := r.DB.GetContext(ctx, &c, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperror.Storage(err, "find category")
	}
	return &c, nil
}

func (r *PGRepository) FindCurrency(ctx context.Context, id string) (*model.Currency, error) {
	var c model.Currency
	query := r.DB.Rebind(`SELECT id, code, decimal_precision FROM currencies WHERE id = ? LIMIT 1`)
	if err := r.DB.GetContext(ctx, &c, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperror.Storage(err, "find currency")
	}
	return &c, nil
}

func (r *PGRepository) FindPlacement(ctx context.Context, id string) (*model.Placement, error) {
	var p model.Placement
	query := r.DB.Rebind(`SELECT id, boutique_id, name FROM placements WHERE id = ? LIMIT 1`)
	if err := r.DB.GetContext(ctx, &p, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperror.Storage(err, "find placement")
	}
	return &p, nil
}
