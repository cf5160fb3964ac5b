package usecase

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-approval-service/internal/apperror"
	"github.com/fekuna/omnipos-approval-service/internal/event"
	"github.com/fekuna/omnipos-approval-service/internal/event/dto"
	"github.com/fekuna/omnipos-approval-service/internal/logger"
	"github.com/fekuna/omnipos-approval-service/internal/model"
	"github.com/fekuna/omnipos-approval-service/internal/pricing"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type eventUseCase struct {
	repo                event.Repository
	logger              logger.ZapLogger
	now                 func() time.Time
	requireRegistration bool
}

type Option func(*eventUseCase)

func WithClock(now func() time.Time) Option {
	return func(uc *eventUseCase) { uc.now = now }
}

// WithRequireRegistration refuses assignments for designers without a
// registration record for the event.
func WithRequireRegistration(required bool) Option {
	return func(uc *eventUseCase) { uc.requireRegistration = required }
}

func NewEventUseCase(repo event.Repository, log logger.ZapLogger, opts ...Option) event.UseCase {
	uc := &eventUseCase{
		repo:   repo,
		logger: log,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// ValidateEventWindow accepts the event when now lies in [start, end]. A nil
// bound leaves that side open.
func (uc *eventUseCase) ValidateEventWindow(ctx context.Context, eventID string) (*model.Event, error) {
	if eventID == "" {
		return nil, apperror.Validation(event.ReasonEventIDRequired)
	}

	ev, err := uc.repo.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if ev == nil {
		return nil, apperror.NotFound("event", eventID)
	}

	now := uc.now()
	if ev.StartDate != nil && now.Before(*ev.StartDate) {
		return nil, apperror.EventNotActive(event.ReasonNotStarted)
	}
	if ev.EndDate != nil && now.After(*ev.EndDate) {
		return nil, apperror.EventNotActive(event.ReasonEnded)
	}
	return ev, nil
}

func (uc *eventUseCase) CheckDuplicateAssignment(ctx context.Context, eventID, productID string) error {
	existing, err := uc.repo.FindAssignment(ctx, eventID, productID)
	if err != nil {
		return err
	}
	if existing != nil {
		return apperror.AlreadyAssigned(event.ReasonAlreadyAssigned)
	}
	return nil
}

// ResolveParticipants prefers the product's own designer over the one on the
// reviewer's screen. The boutique comes from the event context, falling back
// to the designer's registration record.
func (uc *eventUseCase) ResolveParticipants(ctx context.Context, eventID string, product *model.Product, ec dto.EventContext) (*dto.Participants, error) {
	designerID := firstNonEmpty(product.DesignerID, ec.DesignerID)
	if designerID == "" {
		return nil, apperror.MissingParticipant(event.ReasonMissingDesigner)
	}

	boutiqueID := firstNonEmpty(ec.BoutiqueID)
	mallID := ec.MallID

	if boutiqueID == "" || mallID == nil || uc.requireRegistration {
		reg, err := uc.repo.FindRegistration(ctx, eventID, designerID)
		if err != nil {
			return nil, err
		}
		if reg == nil && uc.requireRegistration {
			return nil, apperror.MissingParticipant(event.ReasonNotRegistered)
		}
		if reg != nil {
			if boutiqueID == "" {
				boutiqueID = reg.BoutiqueID
			}
			if mallID == nil {
				mallID = reg.MallID
			}
		}
	}

	if boutiqueID == "" {
		return nil, apperror.MissingParticipant(event.ReasonMissingBoutique)
	}

	return &dto.Participants{
		DesignerID: designerID,
		BoutiqueID: boutiqueID,
		MallID:     mallID,
	}, nil
}

func (uc *eventUseCase) Prepare(ctx context.Context, input *dto.AssignInput) (*model.EventAssignment, error) {
	if input.Product == nil || input.Product.ID == "" {
		return nil, apperror.Validation(event.ReasonProductIDRequired)
	}
	productID := input.Product.ID

	if _, err := uc.ValidateEventWindow(ctx, input.EventID); err != nil {
		uc.logger.Warn("event window check failed",
			zap.String("event_id", input.EventID),
			zap.String("product_id", productID),
			zap.Error(err),
		)
		return nil, err
	}

	if err := uc.CheckDuplicateAssignment(ctx, input.EventID, productID); err != nil {
		uc.logger.Warn("duplicate event assignment",
			zap.String("event_id", input.EventID),
			zap.String("product_id", productID),
		)
		return nil, err
	}

	participants, err := uc.ResolveParticipants(ctx, input.EventID, input.Product, input.Context)
	if err != nil {
		uc.logger.Warn("event participants unresolved",
			zap.String("event_id", input.EventID),
			zap.String("product_id", productID),
			zap.Error(err),
		)
		return nil, err
	}

	return &model.EventAssignment{
		ID:         uuid.New().String(),
		EventID:    input.EventID,
		ProductID:  &productID,
		DesignerID: participants.DesignerID,
		BoutiqueID: participants.BoutiqueID,
		MallID:     participants.MallID,
		CreatedAt:  uc.now().UTC(),
	}, nil
}

func (uc *eventUseCase) Assign(ctx context.Context, input *dto.AssignInput) (*model.EventAssignment, error) {
	a, err := uc.Prepare(ctx, input)
	if err != nil {
		return nil, err
	}

	// The unique index on (event_id, product_id) turns a lost race with a
	// concurrent assignment into AlreadyAssigned.
	if err := uc.repo.InsertAssignment(ctx, a); err != nil {
		if apperror.KindOf(err) == apperror.KindStorage {
			uc.logger.Error("failed to insert event assignment", zap.Error(err))
		}
		return nil, err
	}

	uc.logger.Info("product assigned to event",
		zap.String("event_id", a.EventID),
		zap.String("product_id", *a.ProductID),
		zap.String("designer_id", a.DesignerID),
		zap.String("boutique_id", a.BoutiqueID),
	)
	return a, nil
}

func (uc *eventUseCase) EventWindow(ctx context.Context, eventID string) (*pricing.Window, error) {
	ev, err := uc.repo.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if ev == nil {
		return nil, apperror.NotFound("event", eventID)
	}
	return windowOf(ev), nil
}

func (uc *eventUseCase) ProductEventWindow(ctx context.Context, productID string) (*pricing.Window, error) {
	a, err := uc.repo.FindLatestAssignmentByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, nil
	}
	return uc.EventWindow(ctx, a.EventID)
}

func windowOf(ev *model.Event) *pricing.Window {
	if ev.StartDate == nil && ev.EndDate == nil {
		return nil
	}
	return &pricing.Window{Start: ev.StartDate, End: ev.EndDate}
}

func firstNonEmpty(values ...*string) string {
	for _, v := range values {
		if v != nil && *v != "" {
			return *v
		}
	}
	return ""
}
