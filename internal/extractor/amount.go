package extractor

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"docverify/internal/domain"
)

const (
	amountNumberExpr = `\d[\d,]*(?:\.\d+)?`
	amountUnitExpr   = `(?:[천백십]\s*[억만]?|[억만])`
	// amountExpr matches won literals such as "87,000원", "10만원", "3천만원" and "1억 5천만원".
	amountExpr = `(?:` + amountNumberExpr + `\s*` + amountUnitExpr + `\s*)*` +
		amountNumberExpr + `\s*` + amountUnitExpr + `?\s*원`
)

var (
	amountPattern        = regexp.MustCompile(amountExpr)
	amountSegmentPattern = regexp.MustCompile(`(` + amountNumberExpr + `)\s*([천백십])?\s*([억만])?`)
	magnitudeWordPattern = regexp.MustCompile(`\d\s*[천백십억만]`)
	nonDigitPattern      = regexp.MustCompile(`\D`)
)

var (
	smallUnits = map[string]decimal.Decimal{
		"천": decimal.NewFromInt(1_000),
		"백": decimal.NewFromInt(100),
		"십": decimal.NewFromInt(10),
		"":  decimal.NewFromInt(1),
	}
	largeUnits = map[string]decimal.Decimal{
		"억": decimal.NewFromInt(100_000_000),
		"만": decimal.NewFromInt(10_000),
	}
)

// AmountMatch is a monetary literal found in a text.
type AmountMatch struct {
	Text  string
	Value string // normalized base-unit integer
	Start int
	End   int
}

// FindAmounts returns every won-denominated literal in text ordered by position.
func (e *Extractor) FindAmounts(text string) []AmountMatch {
	return findAmounts(newDoc(text), 0, -1)
}

// findAmounts scans the rune range [from, to) of d; to < 0 means end of text.
func findAmounts(d *doc, from, to int) []AmountMatch {
	if to < 0 || to > len(d.runes) {
		to = len(d.runes)
	}
	from = d.clamp(from)
	if from >= to {
		return nil
	}
	base := d.byteAt[from]
	sub := d.text[base:d.byteAt[to]]

	var out []AmountMatch
	for _, loc := range amountPattern.FindAllStringIndex(sub, -1) {
		start, end := d.span([]int{loc[0] + base, loc[1] + base})
		if start > 0 && isDigitRune(d.runes[start-1]) {
			continue
		}
		literal := d.slice(start, end)
		out = append(out, AmountMatch{Text: literal, Value: NormalizeAmount(literal), Start: start, End: end})
	}
	return out
}

// NormalizeAmount folds Korean magnitude words into a base-unit integer string:
// "10만원" is "100000", "3천만원" is "30000000", "1억 5천만원" is "150000000".
// A literal whose magnitude words cannot be folded is UnknownAmount. Without magnitude
// words every non-digit is stripped; an empty result is UnknownAmount.
func NormalizeAmount(s string) string {
	if literal := amountPattern.FindString(s); literal != "" {
		return foldOrUnknown(literal)
	}
	if magnitudeWordPattern.MatchString(s) {
		return foldOrUnknown(s)
	}
	digits := strings.TrimLeft(nonDigitPattern.ReplaceAllString(s, ""), "0")
	if digits == "" {
		return domain.UnknownAmount
	}
	return digits
}

func foldOrUnknown(s string) string {
	if v, ok := foldAmount(s); ok {
		return v
	}
	return domain.UnknownAmount
}

// foldAmount sums the number segments of s. 천/백/십 scale a segment inside its group,
// 억/만 close the group. Units must descend: "5천3백만" is 53,000,000 while "3만 1억" is rejected.
func foldAmount(s string) (string, bool) {
	segments := amountSegmentPattern.FindAllStringSubmatch(s, -1)
	if len(segments) == 0 {
		return "", false
	}
	var (
		total, group = decimal.Zero, decimal.Zero
		lastLarge    = decimal.NewFromInt(1_000_000_000_000)
		lastSmall    = decimal.NewFromInt(10_000)
	)
	for _, m := range segments {
		number, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", ""))
		if err != nil {
			return "", false
		}
		small := smallUnits[m[2]]
		if !small.LessThan(lastSmall) {
			return "", false
		}
		lastSmall = small
		group = group.Add(number.Mul(small))

		if m[3] == "" {
			continue
		}
		large := largeUnits[m[3]]
		if !large.LessThan(lastLarge) {
			return "", false
		}
		lastLarge = large
		total = total.Add(group.Mul(large))
		group = decimal.Zero
		lastSmall = decimal.NewFromInt(10_000)
	}
	return total.Add(group).Truncate(0).String(), true
}
