package validator

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"docverify/internal/domain"
	"docverify/internal/extractor"
	"docverify/internal/merger"
)

// HybridChecks returns the checks that need recognizer entities, relations or merged data.
func HybridChecks() []Check {
	return []Check{
		&check{key: "hybrid.entities", name: "Recognized Entities Stated", mode: domain.ValidationModeHybrid, run: checkEntities},
		&check{key: "hybrid.relations", name: "Relations Preserved", mode: domain.ValidationModeHybrid, run: checkRelations},
		&check{key: "hybrid.merged", name: "Merged Facts Diff", mode: domain.ValidationModeHybrid, run: checkMergedDiff},
	}
}

func checkEntities(in *Input) []domain.Issue {
	if in.Hybrid == nil {
		return nil
	}
	var issues []domain.Issue
	stated := in.dateValues()

	for i, e := range in.Hybrid.NEREntities {
		path := fmt.Sprintf("entities[%d]", i)
		if textStated(in.Candidate, e.Text) {
			continue
		}
		switch {
		case e.Label.IsDateLike():
			value, ok := in.ex.NormalizeDate(e.Text)
			if !ok || anyDate(value, stated) || strings.Contains(in.Candidate, value) || textStated(in.Candidate, monthDay(value)) {
				continue
			}
			issues = append(issues, domain.Issue{
				Kind: domain.IssueMissing, FieldPath: path, ExpectedValue: value,
				Message: fmt.Sprintf("missing date: %s (%s)", value, e.Text),
			})

		case e.Label == domain.LabelMoney:
			if extractor.NormalizeAmount(e.Text) == domain.UnknownAmount || amountStated(in, e.Text) {
				continue
			}
			if stray, ok := unreferencedAmount(in); ok {
				issues = append(issues, domain.Issue{
					Kind: domain.IssueContradictory, FieldPath: path,
					ExpectedValue: e.Text, ActualValue: stray.Text,
					Message: fmt.Sprintf("contradictory amount: expected %s, answer states %s", e.Text, stray.Text),
				})
				continue
			}
			issues = append(issues, domain.Issue{
				Kind: domain.IssueMissing, FieldPath: path, ExpectedValue: e.Text,
				Message: fmt.Sprintf("missing amount: %s", e.Text),
			})

		case e.Label == domain.LabelAction:
			if actionStated(in, e.Text) {
				continue
			}
			issues = append(issues, domain.Issue{
				Kind: domain.IssueMissing, FieldPath: path, ExpectedValue: e.Text,
				Message: fmt.Sprintf("missing action: %s", e.Text),
			})
		}
	}
	return issues
}

// unreferencedAmount returns the first answer amount that matches no recognized
// MONEY entity and no document penalty.
func unreferencedAmount(in *Input) (extractor.AmountMatch, bool) {
	var known []string
	for _, e := range in.Hybrid.NEREntities {
		if e.Label == domain.LabelMoney {
			known = append(known, e.Text)
		}
	}
	for _, p := range in.Facts.Penalties {
		known = append(known, p.Amount)
	}
	for _, a := range in.Amounts {
		referenced := false
		for _, k := range known {
			if AmountsMatch(a.Value, k) {
				referenced = true
				break
			}
		}
		if !referenced {
			return a, true
		}
	}
	return extractor.AmountMatch{}, false
}

// textStated is whitespace-insensitive containment.
func textStated(candidate, text string) bool {
	t := squash(text)
	return t != "" && strings.Contains(squash(candidate), t)
}

// actionStated accepts an obligation match or an answer that contains every word of the action.
func actionStated(in *Input, text string) bool {
	for _, o := range in.Found.Obligations {
		if ObligationsMatch(text, o.Description, in.cfg.ImportanceKeywords) {
			return true
		}
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return false
	}
	for _, w := range words {
		if !strings.Contains(in.Candidate, w) {
			return false
		}
	}
	return true
}

// monthDay renders YYYY-MM-DD as the partial form "M월 D일".
func monthDay(date string) string {
	parts := strings.Split(date, "-")
	if len(parts) != 3 {
		return ""
	}
	m, err1 := strconv.Atoi(parts[1])
	d, err2 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil {
		return ""
	}
	return fmt.Sprintf("%d월 %d일", m, d)
}

type span struct{ start, end int }

// locate finds where the answer states an entity: verbatim first, then through the
// normalized date or amount literals of the answer.
func locate(in *Input, e domain.Entity) (span, bool) {
	if e.Text != "" {
		if i := strings.Index(in.Candidate, e.Text); i >= 0 {
			start := utf8.RuneCountInString(in.Candidate[:i])
			return span{start, start + utf8.RuneCountInString(e.Text)}, true
		}
	}
	switch {
	case e.Label.IsDateLike():
		if value, ok := in.ex.NormalizeDate(e.Text); ok {
			for _, d := range in.Dates {
				if d.Value == value {
					return span{d.Start, d.End}, true
				}
			}
		}
	case e.Label == domain.LabelMoney:
		for _, a := range in.Amounts {
			if AmountsMatch(e.Text, a.Value) {
				return span{a.Start, a.End}, true
			}
		}
	}
	return span{}, false
}

func gap(a, b span) int {
	switch {
	case a.end <= b.start:
		return b.start - a.end
	case b.end <= a.start:
		return a.start - b.end
	default:
		return 0
	}
}

func checkRelations(in *Input) []domain.Issue {
	if in.Hybrid == nil {
		return nil
	}
	var issues []domain.Issue
	for i, r := range in.Hybrid.Relations {
		switch r.Type {
		case domain.RelationDeadlineOf, domain.RelationPaymentAmountFor, domain.RelationPenaltyFor:
		default:
			continue
		}
		path := fmt.Sprintf("relations[%d]", i)
		src, srcOK := locate(in, r.Source)
		tgt, tgtOK := locate(in, r.Target)

		switch {
		case srcOK && tgtOK:
			if r.Type != domain.RelationDeadlineOf {
				continue
			}
			if g := gap(src, tgt); g > in.cfg.WeakRelationDistance {
				issues = append(issues, domain.Issue{
					Kind: domain.IssueWeakRelation, FieldPath: path,
					ExpectedValue: r.Target.Text, ActualValue: strconv.Itoa(g),
					Message: fmt.Sprintf("weak relation %s: %q and %q are far apart in the answer (%d characters)",
						r.Type, r.Source.Text, r.Target.Text, g),
				})
			}
		case srcOK:
			issues = append(issues, domain.Issue{
				Kind: domain.IssueMissingRelationTarget, FieldPath: path + ".target", ExpectedValue: r.Target.Text,
				Message: fmt.Sprintf("missing relation target for %s: %q is stated without %q", r.Type, r.Source.Text, r.Target.Text),
			})
		case tgtOK:
			issues = append(issues, domain.Issue{
				Kind: domain.IssueMissingRelationSource, FieldPath: path + ".source", ExpectedValue: r.Source.Text,
				Message: fmt.Sprintf("missing relation source for %s: %q is stated without %q", r.Type, r.Target.Text, r.Source.Text),
			})
		}
	}
	return issues
}

// checkMergedDiff diffs the stored merged data against the answer's own merge result.
// Facts already reported by an earlier check are skipped.
func checkMergedDiff(in *Input) []domain.Issue {
	if in.Hybrid == nil || in.Hybrid.Merged == nil || in.CandidateMerged == nil {
		return nil
	}
	reported := make(map[string]bool)
	for _, is := range in.Prior {
		field := strings.TrimPrefix(is.FieldPath, "answer.")
		if i := strings.IndexByte(field, '['); i >= 0 {
			field = field[:i]
		}
		reported[field+"|"+is.ExpectedValue] = true
		reported[field+"|"+is.ActualValue] = true
	}

	reference := in.Hybrid.Merged
	stated := in.dateValues()
	var issues []domain.Issue
	for i, d := range merger.Compare(*reference, *in.CandidateMerged) {
		if reported[d.Field+"|"+d.Value] {
			continue
		}
		path := fmt.Sprintf("merged.%s[%d]", d.Field, i)
		switch d.Field {
		case merger.FieldDeadlines:
			if d.Kind == domain.IssueMissing {
				if anyDate(d.Value, stated) || strings.Contains(in.Candidate, d.Value) {
					continue
				}
				issues = append(issues, missingDeadline(path, domain.Deadline{Date: d.Value, Type: d.Type}))
				continue
			}
			issues = append(issues, addedDeadline(path, d.Value))

		case merger.FieldPenalties:
			p := domain.Penalty{Amount: d.Value, Type: d.Type}
			if d.Kind == domain.IssueMissing {
				if amountStated(in, d.Value) {
					continue
				}
				issues = append(issues, missingPenalty(path, p))
				continue
			}
			if _, ok := sameTypePenalty(reference.Penalties, d.Type); ok {
				continue
			}
			issues = append(issues, addedPenalty(path, p))

		case merger.FieldObligations:
			if d.Kind == domain.IssueMissing {
				if !containsImportance(in, d.Value) || obligationStated(in, d.Value) {
					continue
				}
				issues = append(issues, missingObligation(path, d.Value))
				continue
			}
			if !tooManyObligations(in, len(reference.Obligations)) || obligationInReference(in, reference, d.Value) {
				continue
			}
			issues = append(issues, addedObligation(path, d.Value))
		}
	}
	return issues
}

func containsImportance(in *Input, s string) bool {
	for _, kw := range in.cfg.ImportanceKeywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func obligationInReference(in *Input, reference *domain.MergedData, description string) bool {
	for _, o := range reference.Obligations {
		if ObligationsMatch(o.Description, description, in.cfg.ImportanceKeywords) {
			return true
		}
	}
	return false
}
