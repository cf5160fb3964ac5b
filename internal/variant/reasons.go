package variant

const (
	ReasonRejectedReadOnly = "rejected variants can only be changed by a privileged reviewer"
	ReasonApprovedFinal    = "approved variants cannot be moved back"
	ReasonNoneSelected     = "no variants selected"
	ReasonBulkInvalid      = "variants are not valid for approval"
	ReasonBulkMissing      = "variants not found"
)
