package listener

import (
	"github.com/fekuna/omnipos-approval-service/internal/apperror"
	"github.com/fekuna/omnipos-approval-service/internal/pricing"
	variantdto "github.com/fekuna/omnipos-approval-service/internal/variant/dto"
)

const (
	CommandVariantApprove     = "variant.approve"
	CommandVariantReject      = "variant.reject"
	CommandVariantReset       = "variant.reset"
	CommandVariantBulkApprove = "variant.bulk_approve"
	CommandProductApprove     = "product.approve"
	CommandProductReject      = "product.reject"
)

// Command is one reviewer action read from the command topic.
type Command struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	ActorToken string `json:"actor_token"`

	ProductID  string   `json:"product_id,omitempty"`
	VariantID  string   `json:"variant_id,omitempty"`
	VariantIDs []string `json:"variant_ids,omitempty"`

	Pricing   *PricingPayload           `json:"pricing,omitempty"`
	Overrides map[string]PricingPayload `json:"overrides,omitempty"`

	CategoryID  *string `json:"category_id,omitempty"`
	PlacementID *string `json:"placement_id,omitempty"`
	EventID     *string `json:"event_id,omitempty"`
	DesignerID  *string `json:"designer_id,omitempty"`
	BoutiqueID  *string `json:"boutique_id,omitempty"`
	MallID      *string `json:"mall_id,omitempty"`
}

// PricingPayload carries form values as typed by the reviewer. Prices and
// dates stay strings until parsed so that blank fields read as missing.
type PricingPayload struct {
	CatalogPrice   string  `json:"catalog_price,omitempty"`
	PromotionPrice string  `json:"promotion_price,omitempty"`
	PromotionStart string  `json:"promotion_start,omitempty"`
	PromotionEnd   string  `json:"promotion_end,omitempty"`
	CurrencyID     *string `json:"currency_id,omitempty"`
	DeliveryDays   *int    `json:"delivery_days,omitempty"`
	EventID        *string `json:"event_id,omitempty"`
}

func (p *PricingPayload) Override() (*variantdto.PricingOverride, error) {
	if p == nil {
		return nil, nil
	}

	catalog, err := pricing.ParsePrice(p.CatalogPrice)
	if err != nil {
		return nil, apperror.Validation(err.Error())
	}
	promo, err := pricing.ParsePrice(p.PromotionPrice)
	if err != nil {
		return nil, apperror.Validation(err.Error())
	}
	start, err := pricing.ParseDate(p.PromotionStart)
	if err != nil {
		return nil, apperror.Validation(err.Error())
	}
	end, err := pricing.ParseDate(p.PromotionEnd)
	if err != nil {
		return nil, apperror.Validation(err.Error())
	}

	return &variantdto.PricingOverride{
		CatalogPrice:   catalog,
		PromotionPrice: promo,
		PromotionStart: start,
		PromotionEnd:   end,
		CurrencyID:     p.CurrencyID,
		DeliveryDays:   p.DeliveryDays,
		EventID:        p.EventID,
	}, nil
}
