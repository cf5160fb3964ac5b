package product

import (
	"github.com/fekuna/omnipos-approval-service/internal/model"
	"github.com/fekuna/omnipos-approval-service/internal/product/dto"
)

const (
	ReasonCategoryRequired  = "category is required"
	ReasonPlacementRequired = "placement is required"
	ReasonRejectedReadOnly  = "rejected products can only be changed by a privileged reviewer"
	ReasonPlacementMismatch = "placement does not belong to the product's boutique"
	ReasonApprovedFinal     = "approved products cannot be rejected"
)

// CanApprove reports whether p may be approved with sel. Privileged reviewers
// must also pick a placement.
func CanApprove(p *model.Product, sel *dto.ApprovalSelection) bool {
	return GateReason(p, sel) == ""
}

// GateReason returns the first unmet approval requirement, or "".
func GateReason(p *model.Product, sel *dto.ApprovalSelection) string {
	if !isSet(sel.CategoryID) && !isSet(p.CategoryID) {
		return ReasonCategoryRequired
	}
	if sel.Actor.Privileged && !isSet(sel.PlacementID) {
		return ReasonPlacementRequired
	}
	return ""
}

func isSet(s *string) bool {
	return s != nil && *s != ""
}
