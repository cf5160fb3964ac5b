// Package pricing decides whether a variant's catalog price and optional
// promotion are valid for approval.
package pricing

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	ReasonCatalogPriceRequired = "catalog price required"
	ReasonPromotionDates       = "promotion dates required"
	ReasonEndAfterStart        = "end must be after start"
	ReasonOutsideEventWindow   = "promotion dates must fall within event window"
)

// Window is an optional [Start, End] range. Either bound may be nil.
type Window struct {
	Start *time.Time
	End   *time.Time
}

func (w *Window) Contains(t time.Time) bool {
	if w == nil {
		return true
	}
	if w.Start != nil && t.Before(*w.Start) {
		return false
	}
	if w.End != nil && t.After(*w.End) {
		return false
	}
	return true
}

type Input struct {
	CatalogPrice   *decimal.Decimal
	PromotionPrice *decimal.Decimal
	PromotionStart *time.Time
	PromotionEnd   *time.Time
	EventWindow    *Window
}

type Result struct {
	Valid  bool
	Reason string
}

func invalid(reason string) Result {
	return Result{Valid: false, Reason: reason}
}

// Validate applies the pricing rules in order and stops at the first failure.
func Validate(in Input) Result {
	if !positive(in.CatalogPrice) {
		return invalid(ReasonCatalogPriceRequired)
	}

	// No promotion requested.
	if !positive(in.PromotionPrice) {
		return Result{Valid: true}
	}

	if in.PromotionStart == nil || in.PromotionEnd == nil {
		return invalid(ReasonPromotionDates)
	}

	if !in.PromotionEnd.After(*in.PromotionStart) {
		return invalid(ReasonEndAfterStart)
	}

	if in.EventWindow != nil {
		if !in.EventWindow.Contains(*in.PromotionStart) || !in.EventWindow.Contains(*in.PromotionEnd) {
			return invalid(ReasonOutsideEventWindow)
		}
	}

	return Result{Valid: true}
}

func positive(d *decimal.Decimal) bool {
	return d != nil && d.IsPositive()
}
