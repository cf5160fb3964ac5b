package usecase

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-approval-service/internal/apperror"
	"github.com/fekuna/omnipos-approval-service/internal/auth"
	"github.com/fekuna/omnipos-approval-service/internal/event"
	eventdto "github.com/fekuna/omnipos-approval-service/internal/event/dto"
	"github.com/fekuna/omnipos-approval-service/internal/logger"
	"github.com/fekuna/omnipos-approval-service/internal/lookup"
	"github.com/fekuna/omnipos-approval-service/internal/model"
	"github.com/fekuna/omnipos-approval-service/internal/notify"
	"github.com/fekuna/omnipos-approval-service/internal/product"
	"github.com/fekuna/omnipos-approval-service/internal/product/dto"
	"go.uber.org/zap"
)

type productUseCase struct {
	repo     product.Repository
	lookups  lookup.Repository
	events   event.UseCase
	notifier notify.ChangeNotifier
	logger   logger.ZapLogger
	now      func() time.Time
}

type Option func(*productUseCase)

func WithClock(now func() time.Time) Option {
	return func(uc *productUseCase) { uc.now = now }
}

func NewProductUseCase(
	repo product.Repository,
	lookups lookup.Repository,
	events event.UseCase,
	notifier notify.ChangeNotifier,
	log logger.ZapLogger,
	opts ...Option,
) product.UseCase {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	uc := &productUseCase{
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

func (uc *productUseCase) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperror.NotFound("product", id)
	}
	return p, nil
}

func (uc *productUseCase) CanApprove(ctx context.Context, sel *dto.ApprovalSelection) (bool, error) {
	p, err := uc.GetProduct(ctx, sel.ProductID)
	if err != nil {
		return false, err
	}
	return product.CanApprove(p, sel), nil
}

func (uc *productUseCase) ApproveProduct(ctx context.Context, sel *dto.ApprovalSelection) (*dto.ApprovalResult, error) {
	if sel.HasEvent() {
		return uc.ApproveProductWithEventAssignment(ctx, sel)
	}

	p, err := uc.GetProduct(ctx, sel.ProductID)
	if err != nil {
		return nil, err
	}

	approved, err := uc.prepareApproval(ctx, p, sel)
	if err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateApproval(ctx, approved); err != nil {
		uc.logger.Error("failed to approve product", zap.String("product_id", p.ID), zap.Error(err))
		return nil, err
	}

	uc.logger.Info("product approved",
		zap.String("product_id", approved.ID),
		zap.Stringp("category_id", approved.CategoryID),
		zap.Stringp("placement_id", approved.PlacementID),
		zap.String("actor_id", sel.Actor.ID),
	)
	uc.notifyChange(ctx, approved.ID, model.StatusApproved, sel.Actor)
	return &dto.ApprovalResult{Product: approved}, nil
}

// ApproveProductWithEventAssignment runs every event check before writing.
// The product update and the assignment insert share one transaction, so the
// product never ends up approved without its assignment.
func (uc *productUseCase) ApproveProductWithEventAssignment(ctx context.Context, sel *dto.ApprovalSelection) (*dto.ApprovalResult, error) {
	if !sel.HasEvent() {
		return nil, apperror.Validation(event.ReasonEventIDRequired)
	}

	p, err := uc.GetProduct(ctx, sel.ProductID)
	if err != nil {
		return nil, err
	}

	approved, err := uc.prepareApproval(ctx, p, sel)
	if err != nil {
		return nil, err
	}

	assignment, err := uc.events.Prepare(ctx, &eventdto.AssignInput{
		EventID: *sel.EventID,
		Product: p,
		Context: sel.EventContext,
	})
	if err != nil {
		return nil, err
	}

	if err := uc.repo.ApproveWithAssignment(ctx, approved, assignment); err != nil {
		if apperror.KindOf(err) == apperror.KindAlreadyAssigned {
			uc.logger.Warn("product assigned concurrently",
				zap.String("product_id", p.ID),
				zap.String("event_id", assignment.EventID),
			)
		} else {
			uc.logger.Error("failed to approve product with event",
				zap.String("product_id", p.ID),
				zap.String("event_id", assignment.EventID),
				zap.Error(err),
			)
		}
		return nil, err
	}

	uc.logger.Info("product approved with event",
		zap.String("product_id", approved.ID),
		zap.String("event_id", assignment.EventID),
		zap.String("designer_id", assignment.DesignerID),
		zap.String("boutique_id", assignment.BoutiqueID),
		zap.String("actor_id", sel.Actor.ID),
	)
	uc.notifyChange(ctx, approved.ID, model.StatusApproved, sel.Actor)
	return &dto.ApprovalResult{Product: approved, Assignment: assignment}, nil
}

func (uc *productUseCase) RejectProduct(ctx context.Context, input *dto.RejectProductInput) (*model.Product, error) {
	p, err := uc.GetProduct(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}

	switch p.Status {
	case model.StatusRejected:
		return p, nil
	case model.StatusApproved:
		return nil, apperror.Precondition(product.ReasonApprovedFinal)
	}

	now := uc.now().UTC()
	if err := uc.repo.UpdateStatus(ctx, p.ID, model.StatusRejected, now); err != nil {
		uc.logger.Error("failed to reject product", zap.String("product_id", p.ID), zap.Error(err))
		return nil, err
	}

	rejected := *p
	rejected.Status = model.StatusRejected
	rejected.UpdatedAt = now

	uc.logger.Info("product rejected",
		zap.String("product_id", p.ID),
		zap.String("actor_id", input.Actor.ID),
	)
	uc.notifyChange(ctx, p.ID, model.StatusRejected, input.Actor)
	return &rejected, nil
}

// prepareApproval checks the gate and the selected lookups, then returns an
// approved copy of p. p itself is left as loaded.
func (uc *productUseCase) prepareApproval(ctx context.Context, p *model.Product, sel *dto.ApprovalSelection) (*model.Product, error) {
	if reason := product.GateReason(p, sel); reason != "" {
		uc.logger.Warn("product approval refused",
			zap.String("product_id", p.ID),
			zap.String("reason", reason),
		)
		return nil, apperror.Precondition(reason)
	}
	if p.Status == model.StatusRejected && !sel.Actor.Privileged {
		return nil, apperror.Precondition(product.ReasonRejectedReadOnly)
	}

	categoryID := p.CategoryID
	if sel.CategoryID != nil && *sel.CategoryID != "" {
		categoryID = sel.CategoryID
	}
	if err := uc.checkCategory(ctx, *categoryID); err != nil {
		return nil, err
	}

	placementID := p.PlacementID
	if sel.Actor.Privileged {
		placementID = sel.PlacementID
		if err := uc.checkPlacement(ctx, p, *placementID); err != nil {
			return nil, err
		}
	}

	approved := *p
	approved.Status = model.StatusApproved
	approved.CategoryID = categoryID
	approved.PlacementID = placementID
	approved.UpdatedAt = uc.now().UTC()
	return &approved, nil
}

func (uc *productUseCase) checkCategory(ctx context.Context, id string) error {
	if uc.lookups == nil {
		return nil
	}
	c, err := uc.lookups.FindCategory(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return apperror.NotFound("category", id)
	}
	return nil
}

func (uc *productUseCase) checkPlacement(ctx context.Context, p *model.Product, id string) error {
	if uc.lookups == nil {
		return nil
	}
	pl, err := uc.lookups.FindPlacement(ctx, id)
	if err != nil {
		return err
	}
	if pl == nil {
		return apperror.NotFound("placement", id)
	}
	if p.BoutiqueID != nil && *p.BoutiqueID != "" && pl.BoutiqueID != *p.BoutiqueID {
		return apperror.Precondition(product.ReasonPlacementMismatch)
	}
	return nil
}

func (uc *productUseCase) notifyChange(ctx context.Context, productID string, status model.Status, actor auth.Actor) {
	err := uc.notifier.Notify(ctx, notify.Change{
		Topics:     notify.AllTopics,
		ProductID:  productID,
		Status:     status,
		ActorID:    actor.ID,
		OccurredAt: uc.now().UTC(),
	})
	if err != nil {
		uc.logger.Warn("failed to notify product change", zap.String("product_id", productID), zap.Error(err))
	}
}
