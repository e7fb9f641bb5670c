package domain

// Deadline is a date the document attaches a deadline keyword to.
type Deadline struct {
	Date    string `json:"date"` // YYYY-MM-DD
	Context string `json:"context"`
	Type    string `json:"type"`
}

// Obligation is something the reader of the document is required to do.
type Obligation struct {
	Description string `json:"description"`
	Context     string `json:"context"`
}

// Penalty is a sanction mentioned by the document.
type Penalty struct {
	Amount  string `json:"amount"` // normalized base-unit integer, UnknownAmount when absent
	Type    string `json:"type"`
	Context string `json:"context"`
}

// HasKnownAmount reports whether the penalty amount was found in the text.
func (p Penalty) HasKnownAmount() bool {
	return p.Amount != "" && p.Amount != UnknownAmount
}

// AccountNumber is a bank account the document asks the reader to pay into.
type AccountNumber struct {
	Number  string `json:"number"`
	Context string `json:"context"`
}

// ExtractedFacts bundles the output of one rule extraction run.
type ExtractedFacts struct {
	Deadlines      []Deadline      `json:"deadlines"`
	Obligations    []Obligation    `json:"obligations"`
	Penalties      []Penalty       `json:"penalties"`
	AccountNumbers []AccountNumber `json:"account_numbers,omitempty"`
}

// MergedData is the merger output: deduplicated entities plus the rule facts they were derived from.
type MergedData struct {
	Entities       []Entity        `json:"entities"`
	Deadlines      []Deadline      `json:"deadlines"`
	Obligations    []Obligation    `json:"obligations"`
	Penalties      []Penalty       `json:"penalties"`
	AccountNumbers []AccountNumber `json:"account_numbers,omitempty"`
}

// Facts returns the rule facts carried by the merged data.
func (m *MergedData) Facts() ExtractedFacts {
	return ExtractedFacts{
		Deadlines:      m.Deadlines,
		Obligations:    m.Obligations,
		Penalties:      m.Penalties,
		AccountNumbers: m.AccountNumbers,
	}
}
