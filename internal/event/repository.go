package event

import (
	"context"

	"github.com/fekuna/omnipos-approval-service/internal/model"
)

type Repository interface {
	FindByID(ctx context.Context, id string) (*model.Event, error)

	// Product-assignment records (product_id set)
	FindAssignment(ctx context.Context, eventID, productID string) (*model.EventAssignment, error)
	FindLatestAssignmentByProduct(ctx context.Context, productID string) (*model.EventAssignment, error)
	InsertAssignment(ctx context.Context, a *model.EventAssignment) error

	// Registration records (product_id NULL)
	FindRegistration(ctx context.Context, eventID, designerID string) (*model.EventAssignment, error)
}
