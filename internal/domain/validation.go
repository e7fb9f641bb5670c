package domain

// Issue is one discrepancy found while validating a candidate answer.
type Issue struct {
	Check         string    `json:"check"`
	Kind          IssueKind `json:"kind"`
	FieldPath     string    `json:"field_path"`
	ExpectedValue string    `json:"expected_value,omitempty"`
	ActualValue   string    `json:"actual_value,omitempty"`
	Message       string    `json:"message"`
}

// ValidationResult is the verdict of one validation call. It is never persisted as-is.
type ValidationResult struct {
	IsValid bool     `json:"is_valid"`
	Issues  []string `json:"issues"`
	Details []Issue  `json:"details,omitempty"`
}

// NewValidationResult renders the issue list into a verdict. Identical messages are reported once.
func NewValidationResult(issues []Issue) ValidationResult {
	seen := make(map[string]bool, len(issues))
	result := ValidationResult{Issues: []string{}}
	for _, is := range issues {
		if seen[is.Message] {
			continue
		}
		seen[is.Message] = true
		result.Issues = append(result.Issues, is.Message)
		result.Details = append(result.Details, is)
	}
	result.IsValid = len(result.Issues) == 0
	return result
}

// HybridData is everything the hybrid validator compares a candidate against.
type HybridData struct {
	Deadlines   []Deadline   `json:"deadlines"`
	Obligations []Obligation `json:"obligations"`
	Penalties   []Penalty    `json:"penalties"`
	NEREntities []Entity     `json:"ner_entities"`
	Relations   []Relation   `json:"relations"`
	Merged      *MergedData  `json:"merged,omitempty"`
}

// Facts returns the rule facts part of the hybrid data.
func (h *HybridData) Facts() ExtractedFacts {
	return ExtractedFacts{
		Deadlines:   h.Deadlines,
		Obligations: h.Obligations,
		Penalties:   h.Penalties,
	}
}
