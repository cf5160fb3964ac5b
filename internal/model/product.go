package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	BaseModel
	Code             string    `db:"code" json:"code"`
	Title            string    `db:"title" json:"title"`
	Status           Status    `db:"status" json:"status"`
	CategoryID       *string   `db:"category_id" json:"category_id"`   // Nullable until approval
	PlacementID      *string   `db:"placement_id" json:"placement_id"` // Slot, set by privileged reviewers
	IsVisible        bool      `db:"is_visible" json:"is_visible"`
	IsJewelry        bool      `db:"is_jewelry" json:"is_jewelry"`
	TechnicalDetails *string   `db:"technical_details" json:"technical_details"`
	Description      *string   `db:"description" json:"description"`
	DesignerID       *string   `db:"designer_id" json:"designer_id"`
	BoutiqueID       *string   `db:"boutique_id" json:"boutique_id"`
	Variants         []Variant `db:"-" json:"variants"` // Loaded separately
}

type Variant struct {
	BaseModel
	ProductID      string              `db:"product_id" json:"product_id"`
	Status         Status              `db:"status" json:"status"`
	CatalogPrice   decimal.NullDecimal `db:"catalog_price" json:"catalog_price"`
	PromotionPrice decimal.NullDecimal `db:"promotion_price" json:"promotion_price"`
	PromotionStart *time.Time          `db:"promotion_start" json:"promotion_start"`
	PromotionEnd   *time.Time          `db:"promotion_end" json:"promotion_end"`
	CurrencyID     *string             `db:"currency_id" json:"currency_id"`
	DeliveryDays   *int                `db:"delivery_days" json:"delivery_days"`
	// Color+size for regular products, jewelry type+material for jewelry.
	ColorID       *string    `db:"color_id" json:"color_id"`
	SizeID        *string    `db:"size_id" json:"size_id"`
	JewelryTypeID *string    `db:"jewelry_type_id" json:"jewelry_type_id"`
	MaterialID    *string    `db:"material_id" json:"material_id"`
	RevisedAt     *time.Time `db:"revised_at" json:"revised_at"`
}

// CatalogPricePtr returns nil when the stored catalog price is NULL.
func (v *Variant) CatalogPricePtr() *decimal.Decimal {
	if !v.CatalogPrice.Valid {
		return nil
	}
	d := v.CatalogPrice.Decimal
	return &d
}

func (v *Variant) PromotionPricePtr() *decimal.Decimal {
	if !v.PromotionPrice.Valid {
		return nil
	}
	d := v.PromotionPrice.Decimal
	return &d
}
