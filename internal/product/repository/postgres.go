package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fekuna/omnipos-approval-service/internal/apperror"
	eventrepo "github.com/fekuna/omnipos-approval-service/internal/event/repository"
	"github.com/fekuna/omnipos-approval-service/internal/model"
	"github.com/jmoiron/sqlx"
)

const productColumns = `id, code, title, status, category_id, placement_id, is_visible, is_jewelry,
    technical_details, description, designer_id, boutique_id, created_at, updated_at`

const variantColumns = `id, product_id, status, catalog_price, promotion_price,
    promotion_start, promotion_end, currency_id, delivery_days,
    color_id, size_id, jewelry_type_id, material_id, revised_at, created_at, updated_at`

const updateApprovalQuery = `
    UPDATE products
    SET status = :status,
        category_id = :category_id,
        placement_id = :placement_id,
        updated_at = :updated_at
    WHERE id = :id
`

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	var p model.Product
	query := r.DB.Rebind(`SELECT ` + productColumns + ` FROM products WHERE id = ? LIMIT 1`)
	err := r.DB.GetContext(ctx, &p, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperror.Storage(err, "find product")
	}

	variants := []model.Variant{}
	query = r.DB.Rebind(`SELECT ` + variantColumns + ` FROM product_variants
        WHERE product_id = ? ORDER BY created_at ASC`)
	if err := r.DB.SelectContext(ctx, &variants, query, id); err != nil {
		return nil, apperror.Storage(err, "find product variants")
	}
	p.Variants = variants
	return &p, nil
}

func (r *PGRepository) UpdateApproval(ctx context.Context, p *model.Product) error {
	res, err := r.DB.NamedExecContext(ctx, updateApprovalQuery, p)
	if err != nil {
		return apperror.Storage(err, "update product approval")
	}
	return expectRow(res, p.ID)
}

func (r *PGRepository) UpdateStatus(ctx context.Context, id string, status model.Status, updatedAt time.Time) error {
	query := r.DB.Rebind(`UPDATE products SET status = ?, updated_at = ? WHERE id = ?`)
	res, err := r.DB.ExecContext(ctx, query, status, updatedAt, id)
	if err != nil {
		return apperror.Storage(err, "update product status")
	}
	return expectRow(res, id)
}

func (r *PGRepository) ApproveWithAssignment(ctx context.Context, p *model.Product, a *model.EventAssignment) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return apperror.Storage(err, "begin product approval")
	}
	defer tx.Rollback()

	res, err := sqlx.NamedExecContext(ctx, tx, updateApprovalQuery, p)
	if err != nil {
		return apperror.Storage(err, "update product approval")
	}
	if err := expectRow(res, p.ID); err != nil {
		return err
	}

	if err := eventrepo.InsertAssignment(ctx, tx, a); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return apperror.Storage(err, "commit product approval")
	}
	return nil
}

func expectRow(res sql.Result, id string) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return apperror.Storage(err, "product rows affected")
	}
	if rows == 0 {
		return apperror.NotFound("product", id)
	}
	return nil
}
