package product

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-approval-service/internal/model"
)

type Repository interface {
	// FindByID loads the product with its variants, or nil when absent.
	FindByID(ctx context.Context, id string) (*model.Product, error)

	UpdateApproval(ctx context.Context, p *model.Product) error
	UpdateStatus(ctx context.Context, id string, status model.Status, updatedAt time.Time) error

	// ApproveWithAssignment persists the approved product and inserts the
	// event assignment in one transaction.
	ApproveWithAssignment(ctx context.Context, p *model.Product, a *model.EventAssignment) error
}
