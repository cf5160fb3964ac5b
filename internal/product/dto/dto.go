package dto

import "github.com/fekuna/omnipos-approval-service/internal/model"

type ApprovalResult struct {
	Product *model.Product `json:"product"`
	// Assignment is nil unless an event was selected.
	Assignment *model.EventAssignment `json:"assignment,omitempty"`
}
