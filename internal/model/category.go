package model

type Category struct {
	ID       string  `db:"id"`
	ParentID *string `db:"parent_id"` // Nullable
	Name     string  `db:"name"`
	IsActive bool    `db:"is_active"`
}

// Placement is a slot in a boutique's virtual presentation.
type Placement struct {
	ID         string `db:"id"`
	BoutiqueID string `db:"boutique_id"`
	Name       string `db:"name"`
}

type Currency struct {
	ID        string `db:"id"`
	Code      string `db:"code"`
	Precision int32  `db:"decimal_precision"` // Digits kept after the decimal point
}
