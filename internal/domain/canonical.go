package domain

import (
	"time"

	"github.com/google/uuid"
)

// VerifiedDeadline wraps a deadline with its verification state.
type VerifiedDeadline struct {
	Deadline
	Verified bool    `json:"verified"`
	Sources  Sources `json:"sources"`
}

// VerifiedAction wraps an obligation with its verification state.
type VerifiedAction struct {
	Obligation
	Verified bool    `json:"verified"`
	Sources  Sources `json:"sources"`
}

// VerifiedPenalty wraps a penalty with its verification state.
type VerifiedPenalty struct {
	Penalty
	Verified bool    `json:"verified"`
	Sources  Sources `json:"sources"`
}

// VerifiedAmount is a monetary amount found in the document.
type VerifiedAmount struct {
	Value    string  `json:"value"`
	Text     string  `json:"text"`
	Currency string  `json:"currency"`
	Verified bool    `json:"verified"`
	Sources  Sources `json:"sources"`
}

// VerifiedAccount is a bank account number found in the document.
type VerifiedAccount struct {
	Number   string  `json:"number"`
	Text     string  `json:"text"`
	Verified bool    `json:"verified"`
	Sources  Sources `json:"sources"`
}

// CanonicalDocumentData is the ground-truth fact set for one document.
// It is rebuilt wholesale on re-extraction and never patched field by field.
type CanonicalDocumentData struct {
	Version         int                `json:"version"`
	DocumentID      *uuid.UUID         `json:"document_id,omitempty"`
	Deadlines       []VerifiedDeadline `json:"deadlines"`
	RequiredActions []VerifiedAction   `json:"required_actions"`
	Penalties       []VerifiedPenalty  `json:"penalties"`
	Amounts         []VerifiedAmount   `json:"amounts"`
	AccountNumbers  []VerifiedAccount  `json:"account_numbers"`
	Verified        bool               `json:"verified"`
	Source          Source             `json:"source"`
	CreatedAt       time.Time          `json:"created_at"`
}

// Facts unwraps the canonical record into the plain fact lists the validator compares against.
func (c *CanonicalDocumentData) Facts() ExtractedFacts {
	facts := ExtractedFacts{
		Deadlines:      make([]Deadline, 0, len(c.Deadlines)),
		Obligations:    make([]Obligation, 0, len(c.RequiredActions)),
		Penalties:      make([]Penalty, 0, len(c.Penalties)),
		AccountNumbers: make([]AccountNumber, 0, len(c.AccountNumbers)),
	}
	for _, d := range c.Deadlines {
		facts.Deadlines = append(facts.Deadlines, d.Deadline)
	}
	for _, a := range c.RequiredActions {
		facts.Obligations = append(facts.Obligations, a.Obligation)
	}
	for _, p := range c.Penalties {
		facts.Penalties = append(facts.Penalties, p.Penalty)
	}
	for _, a := range c.AccountNumbers {
		facts.AccountNumbers = append(facts.AccountNumbers, AccountNumber{Number: a.Number, Context: a.Text})
	}
	return facts
}
