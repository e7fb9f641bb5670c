package extractor

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"time"
)

var (
	koreanDatePattern  = regexp.MustCompile(`(\d{4})\s*년\s*(\d{1,2})\s*월\s*(\d{1,2})\s*일`)
	numericDatePattern = regexp.MustCompile(`(\d{4})[.\-/]\s?(\d{1,2})[.\-/]\s?(\d{1,2})`)
	monthDayPattern    = regexp.MustCompile(`(\d{1,2})\s*월\s*(\d{1,2})\s*일`)
)

// DateMatch is a date literal found in a text.
type DateMatch struct {
	Text  string // literal as written
	Value string // YYYY-MM-DD
	Start int    // rune offset
	End   int
}

// FindDates returns every valid date literal in text ordered by position.
// A month-day literal inside a full date literal is not reported separately.
func (e *Extractor) FindDates(text string) []DateMatch {
	return e.findDates(newDoc(text))
}

func (e *Extractor) findDates(d *doc) []DateMatch {
	var out []DateMatch
	var full [][2]int

	for _, re := range []*regexp.Regexp{koreanDatePattern, numericDatePattern} {
		for _, m := range re.FindAllStringSubmatchIndex(d.text, -1) {
			start, end := d.span(m[0:2])
			if !isolatedNumber(d, start, end) {
				continue
			}
			full = append(full, [2]int{start, end})
			value, ok := composeDate(d.text[m[2]:m[3]], d.text[m[4]:m[5]], d.text[m[6]:m[7]])
			if !ok {
				continue
			}
			out = append(out, DateMatch{Text: d.slice(start, end), Value: value, Start: start, End: end})
		}
	}

	year := strconv.Itoa(e.now().Year())
	for _, m := range monthDayPattern.FindAllStringSubmatchIndex(d.text, -1) {
		start, end := d.span(m[0:2])
		if insideAny(full, start, end) || !isolatedNumber(d, start, end) {
			continue
		}
		value, ok := composeDate(year, d.text[m[2]:m[3]], d.text[m[4]:m[5]])
		if !ok {
			continue
		}
		out = append(out, DateMatch{Text: d.slice(start, end), Value: value, Start: start, End: end})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

// NormalizeDate converts the first date literal in s to YYYY-MM-DD.
func (e *Extractor) NormalizeDate(s string) (string, bool) {
	dates := e.FindDates(s)
	if len(dates) == 0 {
		return "", false
	}
	return dates[0].Value, true
}

// Years outside [minYear, maxYear] are not treated as dates.
const (
	minYear = 1900
	maxYear = 2100
)

// composeDate validates the parts against the calendar and zero-pads them.
func composeDate(year, month, day string) (string, bool) {
	y, err := strconv.Atoi(year)
	if err != nil || y < minYear || y > maxYear {
		return "", false
	}
	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		return "", false
	}
	dd, err := strconv.Atoi(day)
	if err != nil || dd < 1 {
		return "", false
	}
	t := time.Date(y, time.Month(m), dd, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || int(t.Month()) != m || t.Day() != dd {
		return "", false
	}
	return fmt.Sprintf("%04d-%02d-%02d", y, m, dd), true
}

// isolatedNumber rejects matches glued to surrounding digits, e.g. "12025-01-01".
func isolatedNumber(d *doc, start, end int) bool {
	if start > 0 && isDigitRune(d.runes[start-1]) {
		return false
	}
	if end < len(d.runes) && isDigitRune(d.runes[end]) {
		return false
	}
	return true
}

func insideAny(spans [][2]int, start, end int) bool {
	for _, s := range spans {
		if start >= s[0] && end <= s[1] {
			return true
		}
	}
	return false
}
