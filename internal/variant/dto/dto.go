package dto

type ItemFailure struct {
	VariantID string `json:"variant_id"`
	Reason    string `json:"reason"`
	Err       error  `json:"-"`
}

type BulkResult struct {
	Succeeded []string      `json:"succeeded"`
	Failed    []ItemFailure `json:"failed"`
}

func (r *BulkResult) FailedIDs() []string {
	ids := make([]string, len(r.Failed))
	for i, f := range r.Failed {
		ids[i] = f.VariantID
	}
	return ids
}
