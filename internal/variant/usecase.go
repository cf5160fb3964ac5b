package variant

import (
	"context"

	"github.com/fekuna/omnipos-approval-service/internal/model"
	"github.com/fekuna/omnipos-approval-service/internal/variant/dto"
)

type UseCase interface {
	GetVariant(ctx context.Context, id string) (*model.Variant, error)

	ApproveVariant(ctx context.Context, input *dto.ApproveVariantInput) (*model.Variant, error)
	RejectVariant(ctx context.Context, input *dto.TransitionInput) (*model.Variant, error)
	ResetVariant(ctx context.Context, input *dto.TransitionInput) (*model.Variant, error)

	// BulkApproveVariants refuses the whole batch when any variant fails
	// pricing validation; otherwise it approves them one by one.
	BulkApproveVariants(ctx context.Context, input *dto.BulkApproveInput) (*dto.BulkResult, error)
}
