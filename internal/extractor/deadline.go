package extractor

import (
	"strings"
	"unicode"

	"docverify/internal/domain"
)

// DeadlineKeywords mark a date as a deadline. Order breaks ties between keywords of equal length.
var DeadlineKeywords = []string{
	"기한", "마감", "납부일", "납부기한", "제출일", "제출기한", "신청일", "신청기한",
	"접수기한", "접수일", "처리기한", "완료기한", "마감일", "기일", "까지", "이전",
}

const (
	deadlineWindow = 30
	contextRadius  = 50
)

// DeadlineHit is a deadline together with the literal it was extracted from.
type DeadlineHit struct {
	domain.Deadline
	Literal string
	Start   int
	End     int
}

// DeadlineHits runs both deadline passes and returns one hit per distinct date.
// Keywords adjacent to a literal are tried first; a keyword anywhere in the
// surrounding window is the fallback.
func (e *Extractor) DeadlineHits(text string) []DeadlineHit {
	d := newDoc(text)
	return e.deadlineHits(d, e.findDates(d))
}

func (e *Extractor) deadlineHits(d *doc, dates []DateMatch) []DeadlineHit {
	seen := make(map[string]bool)
	var hits []DeadlineHit

	emit := func(m DateMatch, keyword string) {
		seen[m.Value] = true
		hits = append(hits, DeadlineHit{
			Deadline: domain.Deadline{
				Date:    m.Value,
				Context: d.window(m.Start, m.End, contextRadius),
				Type:    keyword,
			},
			Literal: m.Text,
			Start:   m.Start,
			End:     m.End,
		})
	}

	for _, m := range dates {
		if seen[m.Value] {
			continue
		}
		if kw := adjacentKeyword(d, m.Start, m.End); kw != "" {
			emit(m, kw)
		}
	}
	for _, m := range dates {
		if seen[m.Value] {
			continue
		}
		if kw := longestKeyword(d.slice(m.Start-deadlineWindow, m.End+deadlineWindow), DeadlineKeywords); kw != "" {
			emit(m, kw)
		}
	}
	return hits
}

// ExtractDeadlines returns one deadline per distinct date that carries a deadline keyword.
func (e *Extractor) ExtractDeadlines(text string) []domain.Deadline {
	hits := e.DeadlineHits(text)
	out := make([]domain.Deadline, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.Deadline)
	}
	return out
}

// adjacentKeyword looks for a keyword directly before the literal (whitespace and
// colons allowed in between) or directly after it (whitespace allowed).
func adjacentKeyword(d *doc, start, end int) string {
	i := start
	for i > 0 && isSpaceOrColon(d.runes[i-1]) {
		i--
	}
	before := d.slice(i-maxKeywordLen, i)

	j := end
	for j < len(d.runes) && unicode.IsSpace(d.runes[j]) {
		j++
	}
	after := d.slice(j, j+maxKeywordLen)

	best := -1
	for idx, kw := range DeadlineKeywords {
		if !strings.HasSuffix(before, kw) && !strings.HasPrefix(after, kw) {
			continue
		}
		if best < 0 || len(kw) > len(DeadlineKeywords[best]) {
			best = idx
		}
	}
	if best < 0 {
		return ""
	}
	return DeadlineKeywords[best]
}

// longestKeyword returns the longest keyword contained in s, the earliest listed on ties.
func longestKeyword(s string, keywords []string) string {
	best := ""
	for _, kw := range keywords {
		if len(kw) > len(best) && strings.Contains(s, kw) {
			best = kw
		}
	}
	return best
}

var maxKeywordLen = func() int {
	n := 0
	for _, kw := range DeadlineKeywords {
		if l := len([]rune(kw)); l > n {
			n = l
		}
	}
	return n
}()
