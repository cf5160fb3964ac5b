package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fekuna/omnipos-approval-service/internal/apperror"
	"github.com/fekuna/omnipos-approval-service/internal/model"
	"github.com/jmoiron/sqlx"
)

const variantColumns = `id, product_id, status, catalog_price, promotion_price,
    promotion_start, promotion_end, currency_id, delivery_days,
    color_id, size_id, jewelry_type_id, material_id, revised_at, created_at, updated_at`

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Variant, error) {
	var v model.Variant
	query := r.DB.Rebind(`SELECT ` + variantColumns + ` FROM product_variants WHERE id = ? LIMIT 1`)
	err := r.DB.GetContext(ctx, &v, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperror.Storage(err, "find variant")
	}
	return &v, nil
}

func (r *PGRepository) FindByIDs(ctx context.Context, ids []string) ([]model.Variant, error) {
	if len(ids) == 0 {
		return []model.Variant{}, nil
	}

	query, args, err := sqlx.In(`SELECT `+variantColumns+` FROM product_variants WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}
	query = r.DB.Rebind(query)

	var variants []model.Variant
	if err := r.DB.SelectContext(ctx, &variants, query, args...); err != nil {
		return nil, apperror.Storage(err, "find variants")
	}
	return variants, nil
}

func (r *PGRepository) UpdateApproval(ctx context.Context, v *model.Variant) error {
	query := `
        UPDATE product_variants
        SET status = :status,
            catalog_price = :catalog_price,
            promotion_price = :promotion_price,
            promotion_start = :promotion_start,
            promotion_end = :promotion_end,
            currency_id = :currency_id,
            delivery_days = :delivery_days,
            revised_at = :revised_at,
            updated_at = :updated_at
        WHERE id = :id
    `
	res, err := r.DB.NamedExecContext(ctx, query, v)
	if err != nil {
		return apperror.Storage(err, "update variant approval")
	}
	return expectRow(res, v.ID)
}

func (r *PGRepository) UpdateStatus(ctx context.Context, id string, status model.Status, updatedAt time.Time) error {
	query := r.DB.Rebind(`UPDATE product_variants SET status = ?, updated_at = ? WHERE id = ?`)
	res, err := r.DB.ExecContext(ctx, query, status, updatedAt, id)
	if err != nil {
		return apperror.Storage(err, "update variant status")
	}
	return expectRow(res, id)
}

func expectRow(res sql.Result, id string) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return apperror.Storage(err, "variant rows affected")
	}
	if rows == 0 {
		return apperror.NotFound("variant", id)
	}
	return nil
}
