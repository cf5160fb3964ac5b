package usecase

import (
	"context"

	"github.com/fekuna/omnipos-approval-service/internal/apperror"
	"github.com/fekuna/omnipos-approval-service/internal/model"
	"github.com/fekuna/omnipos-approval-service/internal/variant"
	"github.com/fekuna/omnipos-approval-service/internal/variant/dto"
	"go.uber.org/zap"
)

// BulkApproveVariants validates the whole batch against one snapshot before
// issuing any write. Writes are sequential and not transactional: a failed
// write is reported per item and earlier successes stay committed.
func (uc *variantUseCase) BulkApproveVariants(ctx context.Context, input *dto.BulkApproveInput) (*dto.BulkResult, error) {
	ids := dedupe(input.VariantIDs)
	if len(ids) == 0 {
		return nil, apperror.Validation(variant.ReasonNoneSelected)
	}

	snapshot, err := uc.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*model.Variant, len(snapshot))
	for i := range snapshot {
		byID[snapshot[i].ID] = &snapshot[i]
	}

	var missing []string
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, &apperror.Error{Kind: apperror.KindNotFound, Reason: variant.ReasonBulkMissing, IDs: missing}
	}

	// Precondition: every variant must be approvable before anything is written.
	planned := make([]*model.Variant, 0, len(ids))
	var invalid []string
	for _, id := range ids {
		var override *dto.PricingOverride
		if o, ok := input.Overrides[id]; ok {
			override = &o
		}

		approved, err := uc.prepareApproval(ctx, byID[id], override, input.Actor)
		if err != nil {
			kind := apperror.KindOf(err)
			if kind != apperror.KindValidation && kind != apperror.KindPrecondition {
				return nil, err
			}
			invalid = append(invalid, id)
			continue
		}
		planned = append(planned, approved)
	}
	if len(invalid) > 0 {
		uc.logger.Warn("bulk variant approval refused",
			zap.Int("invalid", len(invalid)),
			zap.Strings("variant_ids", invalid),
		)
		return nil, apperror.BulkRejected(variant.ReasonBulkInvalid, invalid)
	}

	result := &dto.BulkResult{
		Succeeded: make([]string, 0, len(planned)),
		Failed:    []dto.ItemFailure{},
	}
	succeededByProduct := map[string][]string{}
	var productOrder []string

	for _, v := range planned {
		if err := ctx.Err(); err != nil {
			result.Failed = append(result.Failed, dto.ItemFailure{VariantID: v.ID, Reason: err.Error(), Err: err})
			continue
		}
		if err := uc.repo.UpdateApproval(ctx, v); err != nil {
			uc.logger.Error("bulk variant approval write failed", zap.String("variant_id", v.ID), zap.Error(err))
			result.Failed = append(result.Failed, dto.ItemFailure{
				VariantID: v.ID,
				Reason:    apperror.ReasonOf(err),
				Err:       err,
			})
			continue
		}
		result.Succeeded = append(result.Succeeded, v.ID)
		if _, seen := succeededByProduct[v.ProductID]; !seen {
			productOrder = append(productOrder, v.ProductID)
		}
		succeededByProduct[v.ProductID] = append(succeededByProduct[v.ProductID], v.ID)
	}

	uc.logger.Info("bulk variant approval finished",
		zap.Int("succeeded", len(result.Succeeded)),
		zap.Int("failed", len(result.Failed)),
		zap.String("actor_id", input.Actor.ID),
	)

	// Notify with a fresh context: a cancelled bulk still committed rows.
	notifyCtx := context.WithoutCancel(ctx)
	for _, productID := range productOrder {
		uc.notifyChange(notifyCtx, productID, succeededByProduct[productID], model.StatusApproved, input.Actor)
	}
	return result, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
