package entities

// InterpretationResult is the outcome of running the order interpreter
// over one turn of client text.
//
// Completeness invariant: every parsed candidate line shows up exactly
// once, either in Items or in Pendencies, preserving input order within
// each sequence. Confidence is 1.0 exactly when Pendencies is empty.

type InterpretationResult struct {
	Items      []CartItem     `json:"items"`
	Pendencies []CartPendency `json:"pendencies"`
	RawText    string         `json:"raw_text"`
	Confidence float64        `json:"confidence"`
}

// Resolved reports whether the whole turn resolved without pendencies.
func (r InterpretationResult) Resolved() bool { return len(r.Pendencies) == 0 }

// Empty reports whether the turn produced no order content at all.
func (r InterpretationResult) Empty() bool {
	return len(r.Items) == 0 && len(r.Pendencies) == 0
}
