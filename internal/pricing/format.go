package pricing

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDate reads a date or timestamp as sent by the review forms. An empty
// string yields nil, so a blank form field counts as a missing bound.
func ParseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid date %q", s)
}

// ParsePrice reads a price input. An empty string yields nil.
func ParsePrice(s string) (*decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid price %q: %w", s, err)
	}
	return &d, nil
}

// Round rounds a price to the currency's decimal precision. Nil stays nil.
func Round(d *decimal.Decimal, precision int32) *decimal.Decimal {
	if d == nil {
		return nil
	}
	if precision < 0 {
		precision = 0
	}
	r := d.Round(precision)
	return &r
}
