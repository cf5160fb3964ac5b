package dto

import (
	"time"

	"github.com/fekuna/omnipos-approval-service/internal/auth"
	"github.com/shopspring/decimal"
)

// PricingOverride holds values typed into the approval form. Set fields take
// precedence over the stored variant.
type PricingOverride struct {
	CatalogPrice   *decimal.Decimal
	PromotionPrice *decimal.Decimal
	PromotionStart *time.Time
	PromotionEnd   *time.Time
	CurrencyID     *string
	DeliveryDays   *int
	// EventID selects the event whose window constrains the promotion. When
	// nil, the product's latest event assignment is used.
	EventID *string
}

type ApproveVariantInput struct {
	VariantID string
	Actor     auth.Actor
	Override  *PricingOverride
}

type TransitionInput struct {
	VariantID string
	Actor     auth.Actor
}

type BulkApproveInput struct {
	VariantIDs []string
	Overrides  map[string]PricingOverride
	Actor      auth.Actor
}
