package extractor

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// PrepareText folds compatibility characters (full-width digits, colons, ideographic spaces)
// with NFKC and normalizes line endings. Entity offsets are always relative to prepared text.
func PrepareText(text string) string {
	text = norm.NFKC.String(text)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

// collapseSpace replaces every whitespace run with a single space and trims the ends.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// normalizeKey is the dedup key for free-text facts.
func normalizeKey(s string) string {
	return strings.ToLower(collapseSpace(s))
}

// truncateRunes cuts s to at most n runes.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// doc is a text indexed both by byte and by rune. Regexp matches come back as byte
// offsets; everything this package hands out is in runes.
type doc struct {
	text   string
	runes  []rune
	byteAt []int // rune index -> byte offset, len(runes)+1 entries
}

func newDoc(text string) *doc {
	d := &doc{text: text, runes: []rune(text)}
	d.byteAt = make([]int, 0, len(d.runes)+1)
	for i := range text {
		d.byteAt = append(d.byteAt, i)
	}
	d.byteAt = append(d.byteAt, len(text))
	return d
}

// runeAt converts a byte offset that falls on a rune boundary to a rune index.
func (d *doc) runeAt(b int) int {
	lo, hi := 0, len(d.byteAt)-1
	for lo < hi {
		mid := (lo + hi) / 2
		if d.byteAt[mid] < b {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

func (d *doc) clamp(i int) int {
	if i < 0 {
		return 0
	}
	if i > len(d.runes) {
		return len(d.runes)
	}
	return i
}

// slice returns the text between two rune offsets.
func (d *doc) slice(start, end int) string {
	start, end = d.clamp(start), d.clamp(end)
	if start >= end {
		return ""
	}
	return string(d.runes[start:end])
}

// window returns the whitespace-collapsed text within radius runes of [start, end).
func (d *doc) window(start, end, radius int) string {
	return collapseSpace(d.slice(start-radius, end+radius))
}

// span converts a byte-offset pair from regexp into rune offsets.
func (d *doc) span(loc []int) (int, int) {
	return d.runeAt(loc[0]), d.runeAt(loc[1])
}

func isDigitRune(r rune) bool {
	return r >= '0' && r <= '9'
}

func isSpaceOrColon(r rune) bool {
	return unicode.IsSpace(r) || r == ':'
}
