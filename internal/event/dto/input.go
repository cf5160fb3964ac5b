package dto

import "github.com/fekuna/omnipos-approval-service/internal/model"

// EventContext carries the participants known to the reviewer's screen when
// the event was picked.
type EventContext struct {
	DesignerID *string
	BoutiqueID *string
	MallID     *string
}

type AssignInput struct {
	EventID string
	Product *model.Product
	Context EventContext
}

type Participants struct {
	DesignerID string
	BoutiqueID string
	MallID     *string
}
