package product

import (
	"context"

	"github.com/fekuna/omnipos-approval-service/internal/model"
	"github.com/fekuna/omnipos-approval-service/internal/product/dto"
)

type UseCase interface {
	GetProduct(ctx context.Context, id string) (*model.Product, error)

	// CanApprove loads the product and evaluates the approval gate without
	// writing anything.
	CanApprove(ctx context.Context, sel *dto.ApprovalSelection) (bool, error)

	ApproveProduct(ctx context.Context, sel *dto.ApprovalSelection) (*dto.ApprovalResult, error)
	ApproveProductWithEventAssignment(ctx context.Context, sel *dto.ApprovalSelection) (*dto.ApprovalResult, error)
	RejectProduct(ctx context.Context, input *dto.RejectProductInput) (*model.Product, error)
}
