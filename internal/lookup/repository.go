package lookup

import (
	"context"

	"github.com/fekuna/omnipos-approval-service/internal/model"
)

// Repository reads the reference data approval forms pick from. All finders
// return nil, nil when the row does not exist.
type Repository interface {
	FindCategory(ctx context.Context, id string) (*model.Category, error)
	FindCurrency(ctx context.Context, id string) (*model.Currency, error)
	FindPlacement(ctx context.Context, id string) (*model.Placement, error)
}
