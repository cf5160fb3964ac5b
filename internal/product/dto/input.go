package dto

import (
	"github.com/fekuna/omnipos-approval-service/internal/auth"
	eventdto "github.com/fekuna/omnipos-approval-service/internal/event/dto"
)

// ApprovalSelection is what the reviewer picked on the approval form.
type ApprovalSelection struct {
	ProductID   string
	Actor       auth.Actor
	CategoryID  *string
	PlacementID *string
	// EventID, when set, binds the product to the event as part of approval.
	EventID      *string
	EventContext eventdto.EventContext
}

func (s *ApprovalSelection) HasEvent() bool {
	return s.EventID != nil && *s.EventID != ""
}

type RejectProductInput struct {
	ProductID string
	Actor     auth.Actor
}
