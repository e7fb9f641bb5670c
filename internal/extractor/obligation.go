package extractor

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"docverify/internal/domain"
)

// ObligationKeywords mark a sentence as stating something the reader must do.
var ObligationKeywords = []string{
	"의무", "필수", "반드시", "해야", "하여야", "하셔야", "하십시오", "하지 않으면", "않을 경우", "바랍니다",
}

const (
	maxDescriptionRunes = 200
	minSentenceRunes    = 10
)

const clause = `[^.!?。！？\n]`

var obligationPatterns = []*regexp.Regexp{
	// explicit obligation wording
	regexp.MustCompile(clause + `*(?:의무가\s*있|의무를\s*지|의무사항|의무적으로)` + clause + `*`),
	// "X 해야 합니다"
	regexp.MustCompile(clause + `+?(?:해야|하여야|하셔야)\s*(?:합니다|한다|하며|함)`),
	// "X 필수/의무/반드시"
	regexp.MustCompile(`[^.!?。！？\n,]{2,40}?\s*(?:은|는|이|가)?\s*(?:필수|의무|반드시)(?:입니다|이며|사항|적으로)?`),
	// prohibition: consequence of not acting
	regexp.MustCompile(clause + `*(?:하지\s*않으면|하지\s*않을\s*경우|않을\s*경우|하지\s*아니하면)` + clause + `*`),
	// legal citation
	regexp.MustCompile(`(?:법률|법령|규정|조례|시행령|시행규칙|[가-힣]+법)\s*(?:제\s*\d+\s*조(?:\s*제\s*\d+\s*항)?\s*)?에\s*(?:따라|의하여|의거하여)` + clause + `*`),
}

var sentenceSplit = regexp.MustCompile(`[.!?。！？\n]`)

// ExtractObligations returns obligations found by the pattern families and by a
// whole-sentence keyword scan, deduplicated on normalized description.
func (e *Extractor) ExtractObligations(text string) []domain.Obligation {
	d := newDoc(text)
	seen := make(map[string]bool)
	out := []domain.Obligation{}

	add := func(description string, start, end int) {
		description = truncateRunes(collapseSpace(description), maxDescriptionRunes)
		if utf8.RuneCountInString(description) < 2 {
			return
		}
		key := normalizeKey(description)
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, domain.Obligation{
			Description: description,
			Context:     d.window(start, end, contextRadius),
		})
	}

	for _, re := range obligationPatterns {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			start, end := d.span(loc)
			add(text[loc[0]:loc[1]], start, end)
		}
	}

	prev := 0
	bounds := sentenceSplit.FindAllStringIndex(text, -1)
	bounds = append(bounds, []int{len(text), len(text)})
	for _, b := range bounds {
		sentence := text[prev:b[0]]
		lo := prev
		prev = b[1]
		trimmed := strings.TrimSpace(sentence)
		if utf8.RuneCountInString(trimmed) <= minSentenceRunes || !ContainsAny(trimmed, ObligationKeywords) {
			continue
		}
		start, end := d.span([]int{lo, lo + len(sentence)})
		add(trimmed, start, end)
	}
	return out
}

// ContainsAny reports whether s contains any of the keywords.
func ContainsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
