package event

import (
	"context"

	"github.com/fekuna/omnipos-approval-service/internal/event/dto"
	"github.com/fekuna/omnipos-approval-service/internal/model"
	"github.com/fekuna/omnipos-approval-service/internal/pricing"
)

// UseCase coordinates binding an approved product to an event.
type UseCase interface {
	ValidateEventWindow(ctx context.Context, eventID string) (*model.Event, error)
	CheckDuplicateAssignment(ctx context.Context, eventID, productID string) error
	ResolveParticipants(ctx context.Context, eventID string, product *model.Product, ec dto.EventContext) (*dto.Participants, error)

	// Prepare runs all checks and returns the record to insert without writing it.
	Prepare(ctx context.Context, input *dto.AssignInput) (*model.EventAssignment, error)
	Assign(ctx context.Context, input *dto.AssignInput) (*model.EventAssignment, error)

	// EventWindow returns the promotion-constraining window of an event.
	EventWindow(ctx context.Context, eventID string) (*pricing.Window, error)
	// ProductEventWindow returns the window of the product's most recent event, or nil.
	ProductEventWindow(ctx context.Context, productID string) (*pricing.Window, error)
}
