package validator

import (
	"strings"

	"docverify/internal/domain"
	"docverify/internal/extractor"
)

// DatesMatch compares two normalized dates: equality first, containment as a last resort.
func DatesMatch(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return a == b || strings.Contains(a, b) || strings.Contains(b, a)
}

// AmountsMatch compares two amounts after normalization. Unknown amounts never match.
func AmountsMatch(a, b string) bool {
	na, nb := extractor.NormalizeAmount(a), extractor.NormalizeAmount(b)
	if na == domain.UnknownAmount || nb == domain.UnknownAmount {
		return false
	}
	return na == nb
}

// ObligationsMatch reports whether two obligation descriptions state the same duty:
// one contains the other once whitespace is ignored, or both carry an obligation
// keyword and share an importance keyword.
func ObligationsMatch(a, b string, importance []string) bool {
	sa, sb := squash(a), squash(b)
	if sa == "" || sb == "" {
		return false
	}
	if strings.Contains(sa, sb) || strings.Contains(sb, sa) {
		return true
	}
	if !extractor.ContainsAny(a, extractor.ObligationKeywords) || !extractor.ContainsAny(b, extractor.ObligationKeywords) {
		return false
	}
	for _, kw := range importance {
		if strings.Contains(a, kw) && strings.Contains(b, kw) {
			return true
		}
	}
	return false
}

// squash lower-cases s and removes all whitespace.
func squash(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}
