package event

// Reasons are shown to reviewers verbatim; each points at a different fix.
const (
	ReasonNotStarted        = "event has not started yet"
	ReasonEnded             = "event has already ended"
	ReasonAlreadyAssigned   = "product is already assigned to this event"
	ReasonMissingDesigner   = "designer could not be resolved for this product"
	ReasonMissingBoutique   = "boutique could not be resolved for this event"
	ReasonNotRegistered     = "designer is not registered for this event"
	ReasonEventIDRequired   = "event id is required"
	ReasonProductIDRequired = "product is required"
)
