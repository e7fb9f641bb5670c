package validator

import (
	"fmt"
	"strings"

	"docverify/internal/domain"
	"docverify/internal/extractor"
)

// check adapts a function to the Check interface.
type check struct {
	key  string
	name string
	mode domain.ValidationMode
	run  func(*Input) []domain.Issue
}

func (c *check) Key() string                  { return c.key }
func (c *check) Name() string                 { return c.name }
func (c *check) Mode() domain.ValidationMode  { return c.mode }
func (c *check) Run(in *Input) []domain.Issue { return c.run(in) }

// PlainChecks returns the checks run in both validation modes.
func PlainChecks() []Check {
	return []Check{
		&check{key: "facts.deadlines", name: "Deadlines Match", mode: domain.ValidationModePlain, run: checkDeadlines},
		&check{key: "facts.obligations", name: "Obligations Match", mode: domain.ValidationModePlain, run: checkObligations},
		&check{key: "facts.penalties", name: "Penalties Match", mode: domain.ValidationModePlain, run: checkPenalties},
	}
}

func missingDeadline(path string, d domain.Deadline) domain.Issue {
	msg := fmt.Sprintf("missing deadline: %s", d.Date)
	if d.Type != "" {
		msg = fmt.Sprintf("missing deadline: %s (%s)", d.Date, d.Type)
	}
	return domain.Issue{Kind: domain.IssueMissing, FieldPath: path, ExpectedValue: d.Date, Message: msg}
}

func addedDeadline(path, date string) domain.Issue {
	return domain.Issue{
		Kind: domain.IssueAdded, FieldPath: path, ActualValue: date,
		Message: fmt.Sprintf("added deadline not in document: %s", date),
	}
}

func checkDeadlines(in *Input) []domain.Issue {
	var issues []domain.Issue
	stated := in.dateValues()

	var unmatched []domain.Deadline
	for _, found := range in.Found.Deadlines {
		matched := false
		for _, d := range in.Facts.Deadlines {
			if DatesMatch(d.Date, found.Date) {
				matched = true
				break
			}
		}
		if !matched {
			unmatched = append(unmatched, found)
		}
	}

	used := 0
	for i, d := range in.Facts.Deadlines {
		if anyDate(d.Date, stated) || strings.Contains(in.Candidate, d.Date) {
			continue
		}
		path := fmt.Sprintf("deadlines[%d].date", i)
		if used < len(unmatched) {
			got := unmatched[used]
			used++
			issues = append(issues, domain.Issue{
				Kind: domain.IssueContradictory, FieldPath: path,
				ExpectedValue: d.Date, ActualValue: got.Date,
				Message: fmt.Sprintf("contradictory deadline: expected %s, answer states %s", d.Date, got.Date),
			})
			continue
		}
		issues = append(issues, missingDeadline(path, d))
	}

	for i, got := range unmatched[used:] {
		issues = append(issues, addedDeadline(fmt.Sprintf("answer.deadlines[%d]", used+i), got.Date))
	}
	return issues
}

func anyDate(date string, candidates []string) bool {
	for _, c := range candidates {
		if DatesMatch(date, c) {
			return true
		}
	}
	return false
}

func missingObligation(path, description string) domain.Issue {
	return domain.Issue{
		Kind: domain.IssueMissing, FieldPath: path, ExpectedValue: description,
		Message: fmt.Sprintf("missing obligation: %s", description),
	}
}

func addedObligation(path, description string) domain.Issue {
	return domain.Issue{
		Kind: domain.IssueAdded, FieldPath: path, ActualValue: description,
		Message: fmt.Sprintf("added obligation not in document: %s", description),
	}
}

func isObligationIssue(is domain.Issue) bool {
	return strings.Contains(is.FieldPath, "obligations[")
}

// obligationStated reports whether the answer expresses the canonical obligation.
func obligationStated(in *Input, description string) bool {
	for _, o := range in.Found.Obligations {
		if ObligationsMatch(description, o.Description, in.cfg.ImportanceKeywords) {
			return true
		}
	}
	return strings.Contains(squash(in.Candidate), squash(description))
}

// tooManyObligations applies the paraphrase tolerance for added obligations.
func tooManyObligations(in *Input, canonical int) bool {
	limit := max(float64(in.cfg.AddedObligationFloor), in.cfg.AddedObligationRatio*float64(canonical))
	return float64(len(in.Found.Obligations)) > limit
}

func checkObligations(in *Input) []domain.Issue {
	var issues []domain.Issue
	for i, o := range in.Facts.Obligations {
		if !extractor.ContainsAny(o.Description, in.cfg.ImportanceKeywords) || obligationStated(in, o.Description) {
			continue
		}
		issues = append(issues, missingObligation(fmt.Sprintf("obligations[%d].description", i), o.Description))
	}

	if !tooManyObligations(in, len(in.Facts.Obligations)) {
		return issues
	}
	for i, found := range in.Found.Obligations {
		matched := false
		for _, o := range in.Facts.Obligations {
			if ObligationsMatch(o.Description, found.Description, in.cfg.ImportanceKeywords) {
				matched = true
				break
			}
		}
		if !matched {
			issues = append(issues, addedObligation(fmt.Sprintf("answer.obligations[%d].description", i), found.Description))
		}
	}
	return issues
}

func missingPenalty(path string, p domain.Penalty) domain.Issue {
	return domain.Issue{
		Kind: domain.IssueMissing, FieldPath: path, ExpectedValue: p.Amount,
		Message: fmt.Sprintf("missing penalty: %s %s", p.Type, p.Amount),
	}
}

func addedPenalty(path string, p domain.Penalty) domain.Issue {
	return domain.Issue{
		Kind: domain.IssueAdded, FieldPath: path, ActualValue: p.Amount,
		Message: fmt.Sprintf("added penalty not in document: %s %s", p.Type, p.Amount),
	}
}

// amountStated reports whether the answer mentions the amount anywhere.
func amountStated(in *Input, amount string) bool {
	for _, p := range in.Found.Penalties {
		if AmountsMatch(amount, p.Amount) {
			return true
		}
	}
	for _, a := range in.Amounts {
		if AmountsMatch(amount, a.Value) {
			return true
		}
	}
	return false
}

func checkPenalties(in *Input) []domain.Issue {
	var issues []domain.Issue
	for i, p := range in.Facts.Penalties {
		if !p.HasKnownAmount() || amountStated(in, p.Amount) {
			continue
		}
		path := fmt.Sprintf("penalties[%d].amount", i)
		if got, ok := sameTypePenalty(in.Found.Penalties, p.Type); ok {
			issues = append(issues, domain.Issue{
				Kind: domain.IssueContradictory, FieldPath: path,
				ExpectedValue: p.Amount, ActualValue: got.Amount,
				Message: fmt.Sprintf("contradictory penalty amount for %s: expected %s, answer states %s", p.Type, p.Amount, got.Amount),
			})
			continue
		}
		issues = append(issues, missingPenalty(path, p))
	}

	for i, got := range in.Found.Penalties {
		if !got.HasKnownAmount() {
			continue
		}
		matched := false
		for _, p := range in.Facts.Penalties {
			if AmountsMatch(p.Amount, got.Amount) || p.Type == got.Type {
				matched = true
				break
			}
		}
		if !matched {
			issues = append(issues, addedPenalty(fmt.Sprintf("answer.penalties[%d].amount", i), got))
		}
	}
	return issues
}

func sameTypePenalty(penalties []domain.Penalty, typ string) (domain.Penalty, bool) {
	for _, p := range penalties {
		if p.Type == typ && p.HasKnownAmount() {
			return p, true
		}
	}
	return domain.Penalty{}, false
}
