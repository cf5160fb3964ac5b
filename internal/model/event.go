package model

import "time"

type Event struct {
	ID        string     `db:"id" json:"id"`
	Name      string     `db:"name" json:"name"`
	StartDate *time.Time `db:"start_date" json:"start_date"`
	EndDate   *time.Time `db:"end_date" json:"end_date"`
}

// EventAssignment rows come in two shapes: registration records (ProductID nil)
// mark a designer/boutique as registered for the event, product-assignment
// records bind one product to the event. At most one product-assignment
// exists per (event, product).
type EventAssignment struct {
	ID         string    `db:"id" json:"id"`
	EventID    string    `db:"event_id" json:"event_id"`
	ProductID  *string   `db:"product_id" json:"product_id"`
	DesignerID string    `db:"designer_id" json:"designer_id"`
	BoutiqueID string    `db:"boutique_id" json:"boutique_id"`
	MallID     *string   `db:"mall_id" json:"mall_id"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

func (a *EventAssignment) IsRegistration() bool {
	return a.ProductID == nil
}
