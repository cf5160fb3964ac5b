package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fekuna/omnipos-approval-service/internal/apperror"
	"github.com/fekuna/omnipos-approval-service/internal/database"
	"github.com/fekuna/omnipos-approval-service/internal/event"
	"github.com/fekuna/omnipos-approval-service/internal/model"
	"github.com/jmoiron/sqlx"
)

const assignmentColumns = `id, event_id, product_id, designer_id, boutique_id, mall_id, created_at`

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Event, error) {
	var ev model.Event
	query := r.DB.Rebind(`SELECT id, name, start_date, end_date FROM events WHERE id = ? LIMIT 1`)
	err := r.DB.GetContext(ctx, &ev, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperror.Storage(err, "find event")
	}
	return &ev, nil
}

func (r *PGRepository) FindAssignment(ctx context.Context, eventID, productID string) (*model.EventAssignment, error) {
	query := r.DB.Rebind(`SELECT ` + assignmentColumns + ` FROM event_assignments
        WHERE event_id = ? AND product_id = ? LIMIT 1`)
	return r.getAssignment(ctx, "find event assignment", query, eventID, productID)
}

func (r *PGRepository) FindLatestAssignmentByProduct(ctx context.Context, productID string) (*model.EventAssignment, error) {
	query := r.DB.Rebind(`SELECT ` + assignmentColumns + ` FROM event_assignments
        WHERE product_id = ? ORDER BY created_at DESC LIMIT 1`)
	return r.getAssignment(ctx, "find product event assignment", query, productID)
}

func (r *PGRepository) FindRegistration(ctx context.Context, eventID, designerID string) (*model.EventAssignment, error) {
	query := r.DB.Rebind(`SELECT ` + assignmentColumns + ` FROM event_assignments
        WHERE event_id = ? AND designer_id = ? AND product_id IS NULL
        ORDER BY created_at ASC LIMIT 1`)
	return r.getAssignment(ctx, "find event registration", query, eventID, designerID)
}

func (r *PGRepository) getAssignment(ctx context.Context, op, query string, args ...interface{}) (*model.EventAssignment, error) {
	var a model.EventAssignment
	err := r.DB.GetContext(ctx, &a, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperror.Storage(err, op)
	}
	return &a, nil
}

func (r *PGRepository) InsertAssignment(ctx context.Context, a *model.EventAssignment) error {
	return InsertAssignment(ctx, r.DB, a)
}

// InsertAssignment writes a product-assignment record using any sqlx
// executor, so the product repository can insert inside its transaction.
func InsertAssignment(ctx context.Context, exec sqlx.ExtContext, a *model.EventAssignment) error {
	query := `
        INSERT INTO event_assignments (
            id, event_id, product_id, designer_id, boutique_id, mall_id, created_at
        )
        VALUES (
            :id, :event_id, :product_id, :designer_id, :boutique_id, :mall_id, :created_at
        )
    `
	_, err := sqlx.NamedExecContext(ctx, exec, query, a)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return apperror.AlreadyAssigned(event.ReasonAlreadyAssigned)
		}
		return apperror.Storage(err, "insert event assignment")
	}
	return nil
}
