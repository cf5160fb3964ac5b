package usecase

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-approval-service/internal/apperror"
	"github.com/fekuna/omnipos-approval-service/internal/auth"
	"github.com/fekuna/omnipos-approval-service/internal/event"
	"github.com/fekuna/omnipos-approval-service/internal/logger"
	"github.com/fekuna/omnipos-approval-service/internal/lookup"
	"github.com/fekuna/omnipos-approval-service/internal/model"
	"github.com/fekuna/omnipos-approval-service/internal/notify"
	"github.com/fekuna/omnipos-approval-service/internal/pricing"
	"github.com/fekuna/omnipos-approval-service/internal/variant"
	"github.com/fekuna/omnipos-approval-service/internal/variant/dto"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type variantUseCase struct {
	repo     variant.Repository
	lookups  lookup.Repository
	events   event.UseCase
	notifier notify.ChangeNotifier
	logger   logger.ZapLogger
	now      func() time.Time
}

type Option func(*variantUseCase)

func WithClock(now func() time.Time) Option {
	return func(uc *variantUseCase) { uc.now = now }
}

func NewVariantUseCase(
	repo variant.Repository,
	lookups lookup.Repository,
	events event.UseCase,
	notifier notify.ChangeNotifier,
	log logger.ZapLogger,
	opts ...Option,
) variant.UseCase {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	uc := &variantUseCase{
		repo:     repo,
		lookups:  lookups,
		events:   events,
		notifier: notifier,
		logger:   log,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

func (uc *variantUseCase) GetVariant(ctx context.Context, id string) (*model.Variant, error) {
	v, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, apperror.NotFound("variant", id)
	}
	return v, nil
}

func (uc *variantUseCase) ApproveVariant(ctx context.Context, input *dto.ApproveVariantInput) (*model.Variant, error) {
	v, err := uc.GetVariant(ctx, input.VariantID)
	if err != nil {
		return nil, err
	}

	approved, err := uc.prepareApproval(ctx, v, input.Override, input.Actor)
	if err != nil {
		uc.logger.Warn("variant approval refused",
			zap.String("variant_id", v.ID),
			zap.String("reason", apperror.ReasonOf(err)),
		)
		return nil, err
	}

	if err := uc.repo.UpdateApproval(ctx, approved); err != nil {
		uc.logger.Error("failed to approve variant", zap.String("variant_id", v.ID), zap.Error(err))
		return nil, err
	}

	uc.logger.Info("variant approved",
		zap.String("variant_id", approved.ID),
		zap.String("product_id", approved.ProductID),
		zap.String("actor_id", input.Actor.ID),
	)
	uc.notifyChange(ctx, approved.ProductID, []string{approved.ID}, model.StatusApproved, input.Actor)
	return approved, nil
}

func (uc *variantUseCase) RejectVariant(ctx context.Context, input *dto.TransitionInput) (*model.Variant, error) {
	v, err := uc.GetVariant(ctx, input.VariantID)
	if err != nil {
		return nil, err
	}

	switch v.Status {
	case model.StatusRejected:
		// Already in the target state.
		return v, nil
	case model.StatusApproved:
		return nil, apperror.Precondition(variant.ReasonApprovedFinal)
	}

	return uc.setStatus(ctx, v, model.StatusRejected, input.Actor)
}

// ResetVariant walks a rejection back to pending.
func (uc *variantUseCase) ResetVariant(ctx context.Context, input *dto.TransitionInput) (*model.Variant, error) {
	v, err := uc.GetVariant(ctx, input.VariantID)
	if err != nil {
		return nil, err
	}

	switch v.Status {
	case model.StatusPending:
		return v, nil
	case model.StatusApproved:
		return nil, apperror.Precondition(variant.ReasonApprovedFinal)
	}
	if !input.Actor.Privileged {
		return nil, apperror.Precondition(variant.ReasonRejectedReadOnly)
	}

	return uc.setStatus(ctx, v, model.StatusPending, input.Actor)
}

func (uc *variantUseCase) setStatus(ctx context.Context, v *model.Variant, status model.Status, actor auth.Actor) (*model.Variant, error) {
	now := uc.now().UTC()
	if err := uc.repo.UpdateStatus(ctx, v.ID, status, now); err != nil {
		uc.logger.Error("failed to update variant status",
			zap.String("variant_id", v.ID),
			zap.String("status", string(status)),
			zap.Error(err),
		)
		return nil, err
	}

	updated := *v
	updated.Status = status
	updated.UpdatedAt = now

	uc.logger.Info("variant status changed",
		zap.String("variant_id", v.ID),
		zap.String("from", string(v.Status)),
		zap.String("to", string(status)),
		zap.String("actor_id", actor.ID),
	)
	uc.notifyChange(ctx, v.ProductID, []string{v.ID}, status, actor)
	return &updated, nil
}

// prepareApproval resolves the effective pricing, validates it and returns a
// copy of v ready to persist. v itself is never modified.
func (uc *variantUseCase) prepareApproval(ctx context.Context, v *model.Variant, o *dto.PricingOverride, actor auth.Actor) (*model.Variant, error) {
	if o == nil {
		o = &dto.PricingOverride{}
	}

	catalog := v.CatalogPricePtr()
	if o.CatalogPrice != nil {
		catalog = o.CatalogPrice
	}
	promo := v.PromotionPricePtr()
	if o.PromotionPrice != nil {
		promo = o.PromotionPrice
	}
	start := v.PromotionStart
	if o.PromotionStart != nil {
		start = o.PromotionStart
	}
	end := v.PromotionEnd
	if o.PromotionEnd != nil {
		end = o.PromotionEnd
	}
	currencyID := v.CurrencyID
	if o.CurrencyID != nil {
		currencyID = o.CurrencyID
	}
	deliveryDays := v.DeliveryDays
	if o.DeliveryDays != nil {
		deliveryDays = o.DeliveryDays
	}

	// A missing catalog price fails before any lookup can turn it into NotFound.
	if res := pricing.Validate(pricing.Input{CatalogPrice: catalog}); !res.Valid {
		return nil, apperror.Validation(res.Reason)
	}

	if currencyID != nil && *currencyID != "" && uc.lookups != nil {
		cur, err := uc.lookups.FindCurrency(ctx, *currencyID)
		if err != nil {
			return nil, err
		}
		if cur == nil {
			return nil, apperror.NotFound("currency", *currencyID)
		}
		catalog = pricing.Round(catalog, cur.Precision)
		promo = pricing.Round(promo, cur.Precision)
	}

	window, err := uc.eventWindow(ctx, v.ProductID, o.EventID)
	if err != nil {
		return nil, err
	}

	res := pricing.Validate(pricing.Input{
		CatalogPrice:   catalog,
		PromotionPrice: promo,
		PromotionStart: start,
		PromotionEnd:   end,
		EventWindow:    window,
	})
	if !res.Valid {
		return nil, apperror.Validation(res.Reason)
	}
	if v.Status == model.StatusRejected && !actor.Privileged {
		return nil, apperror.Precondition(variant.ReasonRejectedReadOnly)
	}

	now := uc.now().UTC()
	approved := *v
	approved.Status = model.StatusApproved
	approved.CatalogPrice = nullDecimal(catalog)
	approved.PromotionPrice = nullDecimal(promo)
	approved.PromotionStart = start
	approved.PromotionEnd = end
	approved.CurrencyID = currencyID
	approved.DeliveryDays = deliveryDays
	approved.RevisedAt = &now
	approved.UpdatedAt = now
	return &approved, nil
}

func (uc *variantUseCase) eventWindow(ctx context.Context, productID string, eventID *string) (*pricing.Window, error) {
	if uc.events == nil {
		return nil, nil
	}
	if eventID != nil && *eventID != "" {
		return uc.events.EventWindow(ctx, *eventID)
	}
	return uc.events.ProductEventWindow(ctx, productID)
}

// notifyChange runs after the write committed, so a failure here is logged
// rather than returned.
func (uc *variantUseCase) notifyChange(ctx context.Context, productID string, variantIDs []string, status model.Status, actor auth.Actor) {
	err := uc.notifier.Notify(ctx, notify.Change{
		Topics:     notify.AllTopics,
		ProductID:  productID,
		VariantIDs: variantIDs,
		Status:     status,
		ActorID:    actor.ID,
		OccurredAt: uc.now().UTC(),
	})
	if err != nil {
		uc.logger.Warn("failed to notify variant change",
			zap.String("product_id", productID),
			zap.Strings("variant_ids", variantIDs),
			zap.Error(err),
		)
	}
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*d)
}
