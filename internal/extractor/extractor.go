// Package extractor finds deadlines, obligations, penalties and bank accounts in Korean
// administrative text with regular expressions and keyword windows. All offsets it
// returns are rune offsets. Extraction never fails: malformed input yields empty results.
package extractor

import (
	"time"

	"docverify/internal/domain"
)

// Extractor holds the clock used to complete month-day dates. It is safe for concurrent use.
type Extractor struct {
	now func() time.Time
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithClock overrides the clock that supplies the year for "M월 D일" dates.
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) { e.now = now }
}

// New creates an Extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract runs every extraction pass over text.
func (e *Extractor) Extract(text string) domain.ExtractedFacts {
	return domain.ExtractedFacts{
		Deadlines:      e.ExtractDeadlines(text),
		Obligations:    e.ExtractObligations(text),
		Penalties:      e.ExtractPenalties(text),
		AccountNumbers: e.ExtractAccountNumbers(text),
	}
}

var std = New()

// Extract runs every pass with the default extractor.
func Extract(text string) domain.ExtractedFacts { return std.Extract(text) }

// ExtractDeadlines uses the default extractor.
func ExtractDeadlines(text string) []domain.Deadline { return std.ExtractDeadlines(text) }

// ExtractObligations uses the default extractor.
func ExtractObligations(text string) []domain.Obligation { return std.ExtractObligations(text) }

// ExtractPenalties uses the default extractor.
func ExtractPenalties(text string) []domain.Penalty { return std.ExtractPenalties(text) }

// ExtractAccountNumbers uses the default extractor.
func ExtractAccountNumbers(text string) []domain.AccountNumber {
	return std.ExtractAccountNumbers(text)
}

// NormalizeDate uses the default extractor.
func NormalizeDate(s string) (string, bool) { return std.NormalizeDate(s) }

// FindDates uses the default extractor.
func FindDates(text string) []DateMatch { return std.FindDates(text) }

// FindAmounts uses the default extractor.
func FindAmounts(text string) []AmountMatch { return std.FindAmounts(text) }
