package extractor

import (
	"regexp"

	"docverify/internal/domain"
)

// PenaltyKeywords name sanctions that are paired with an amount.
var PenaltyKeywords = []string{"과태료", "벌금", "처벌", "제재", "징계", "불이익"}

const penaltyKeywordExpr = `(과태료|벌금|처벌|제재|징계|불이익)`

var (
	penaltyAmountAfter  = regexp.MustCompile(penaltyKeywordExpr + `[^.!?。\n]{0,30}?(` + amountExpr + `)`)
	penaltyAmountBefore = regexp.MustCompile(`(` + amountExpr + `)[^.!?。\n]{0,10}?` + penaltyKeywordExpr)
)

// genericPenalty is a sanction sentence without a fixed amount position. The amount,
// if any, is searched for around the sentence.
type genericPenalty struct {
	pattern *regexp.Regexp
	typ     func(match []string) string
}

var genericPenalties = []genericPenalty{
	{
		pattern: regexp.MustCompile(`(가산세|가산금|과태료)[^.!?。\n]*부과`),
		typ:     func(m []string) string { return m[1] },
	},
	{
		pattern: regexp.MustCompile(`[^.!?。\n]*처분을\s*받을\s*수\s*있`),
		typ:     func([]string) string { return "처분" },
	},
	{
		pattern: regexp.MustCompile(`(불이익|책임이\s*발생|부담)`),
		typ:     func([]string) string { return "불이익" },
	},
}

// PenaltyHit is a penalty together with the location of its amount literal.
// AmountStart and AmountEnd are -1 when the amount is unknown.
type PenaltyHit struct {
	domain.Penalty
	AmountText  string
	AmountStart int
	AmountEnd   int
}

// PenaltyHits returns one hit per distinct (type, amount) pair.
func (e *Extractor) PenaltyHits(text string) []PenaltyHit {
	d := newDoc(text)
	seen := make(map[[2]string]bool)
	var hits []PenaltyHit

	add := func(typ string, amount *AmountMatch, start, end int) {
		h := PenaltyHit{
			Penalty:     domain.Penalty{Amount: domain.UnknownAmount, Type: typ},
			AmountStart: -1,
			AmountEnd:   -1,
		}
		if amount != nil {
			h.Amount = amount.Value
			h.AmountText = amount.Text
			h.AmountStart, h.AmountEnd = amount.Start, amount.End
			start, end = min(start, amount.Start), max(end, amount.End)
		}
		key := [2]string{h.Type, h.Amount}
		if seen[key] {
			return
		}
		seen[key] = true
		h.Context = d.window(start, end, contextRadius)
		hits = append(hits, h)
	}

	for _, m := range penaltyAmountAfter.FindAllStringSubmatchIndex(text, -1) {
		start, end := d.span(m[0:2])
		amount := amountAt(d, m[4:6])
		add(text[m[2]:m[3]], &amount, start, end)
	}
	for _, m := range penaltyAmountBefore.FindAllStringSubmatchIndex(text, -1) {
		start, end := d.span(m[0:2])
		amount := amountAt(d, m[2:4])
		add(text[m[4]:m[5]], &amount, start, end)
	}
	for _, g := range genericPenalties {
		for _, m := range g.pattern.FindAllStringSubmatchIndex(text, -1) {
			start, end := d.span(m[0:2])
			groups := make([]string, len(m)/2)
			for i := range groups {
				if m[2*i] >= 0 {
					groups[i] = text[m[2*i]:m[2*i+1]]
				}
			}
			var amount *AmountMatch
			if found := findAmounts(d, start-contextRadius, end+contextRadius); len(found) > 0 {
				amount = &found[0]
			}
			add(g.typ(groups), amount, start, end)
		}
	}
	return hits
}

// ExtractPenalties returns sanctions mentioned in text. A sanction without an amount
// is kept with UnknownAmount.
func (e *Extractor) ExtractPenalties(text string) []domain.Penalty {
	hits := e.PenaltyHits(text)
	out := make([]domain.Penalty, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.Penalty)
	}
	return out
}

func amountAt(d *doc, loc []int) AmountMatch {
	start, end := d.span(loc)
	literal := d.text[loc[0]:loc[1]]
	return AmountMatch{Text: literal, Value: NormalizeAmount(literal), Start: start, End: end}
}
