package extractor

import (
	"regexp"

	"docverify/internal/domain"
)

// AccountKeywords must appear near a digit group for it to count as a bank account.
var AccountKeywords = []string{"계좌", "입금", "송금", "가상계좌", "예금주"}

const (
	accountWindow    = 30
	minAccountDigits = 10
	maxAccountDigits = 16
)

var accountPattern = regexp.MustCompile(`\d{2,6}(?:-\d{2,8}){1,4}`)

// AccountHit is an account number with its rune span.
type AccountHit struct {
	domain.AccountNumber
	Start int
	End   int
}

// AccountHits returns dash-joined digit groups that sit next to an account keyword.
func (e *Extractor) AccountHits(text string) []AccountHit {
	d := newDoc(text)
	seen := make(map[string]bool)
	var hits []AccountHit
	for _, loc := range accountPattern.FindAllStringIndex(text, -1) {
		start, end := d.span(loc)
		if !isolatedNumber(d, start, end) {
			continue
		}
		number := text[loc[0]:loc[1]]
		digits := len(nonDigitPattern.ReplaceAllString(number, ""))
		if digits < minAccountDigits || digits > maxAccountDigits || seen[number] {
			continue
		}
		if !ContainsAny(d.slice(start-accountWindow, end+accountWindow), AccountKeywords) {
			continue
		}
		seen[number] = true
		hits = append(hits, AccountHit{
			AccountNumber: domain.AccountNumber{Number: number, Context: d.window(start, end, contextRadius)},
			Start:         start,
			End:           end,
		})
	}
	return hits
}

// ExtractAccountNumbers returns the bank accounts mentioned in text.
func (e *Extractor) ExtractAccountNumbers(text string) []domain.AccountNumber {
	hits := e.AccountHits(text)
	out := make([]domain.AccountNumber, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.AccountNumber)
	}
	return out
}
