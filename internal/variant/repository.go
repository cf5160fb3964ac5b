package variant

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-approval-service/internal/model"
)

type Repository interface {
	FindByID(ctx context.Context, id string) (*model.Variant, error)
	// FindByIDs returns the variants that exist; missing ids are simply absent.
	FindByIDs(ctx context.Context, ids []string) ([]model.Variant, error)

	// UpdateApproval persists status and the approval-adjacent pricing fields.
	UpdateApproval(ctx context.Context, v *model.Variant) error
	UpdateStatus(ctx context.Context, id string, status model.Status, updatedAt time.Time) error
}
