// Package validator decides whether a generated answer agrees with the canonical facts
// of a document. Every call is a pure computation from its inputs to a verdict.
package validator

import (
	"unicode/utf8"

	"docverify/internal/domain"
	"docverify/internal/extractor"
	"docverify/internal/merger"
)

// Check is one comparison between the answer and the reference facts.
type Check interface {
	Key() string
	Name() string
	Mode() domain.ValidationMode
	Run(in *Input) []domain.Issue
}

// Input is what every check sees. Candidate facts are extracted once per call.
type Input struct {
	Candidate       string
	Found           domain.ExtractedFacts
	Dates           []extractor.DateMatch
	Amounts         []extractor.AmountMatch
	Facts           domain.ExtractedFacts
	Hybrid          *domain.HybridData
	CandidateMerged *domain.MergedData
	// Prior holds the issues raised by the checks that ran before.
	Prior []domain.Issue

	cfg Config
	ex  *extractor.Extractor
}

// dateValues returns the dates the answer mentions: extracted deadlines plus every literal.
func (in *Input) dateValues() []string {
	out := make([]string, 0, len(in.Found.Deadlines)+len(in.Dates))
	for _, d := range in.Found.Deadlines {
		out = append(out, d.Date)
	}
	for _, d := range in.Dates {
		out = append(out, d.Value)
	}
	return out
}

// Validator runs the registered checks.
type Validator struct {
	cfg      Config
	ex       *extractor.Extractor
	merger   *merger.Merger
	registry *Registry
}

// New creates a Validator with the default check registry. Nil collaborators and unset
// Config fields use defaults.
func New(cfg Config, ex *extractor.Extractor, m *merger.Merger) *Validator {
	if ex == nil {
		ex = extractor.New()
	}
	if m == nil {
		m = merger.New(merger.DefaultConfig(), ex)
	}
	return &Validator{cfg: cfg.withDefaults(), ex: ex, merger: m, registry: DefaultRegistry()}
}

// WithRegistry replaces the set of checks.
func (v *Validator) WithRegistry(r *Registry) *Validator {
	v.registry = r
	return v
}

// Validate compares the answer against rule-extracted facts only.
func (v *Validator) Validate(candidate string, facts domain.ExtractedFacts) domain.ValidationResult {
	in := v.newInput(candidate, facts, nil)
	return v.run(in, domain.ValidationModePlain)
}

// ValidateHybrid runs plain validation and then the entity, relation and merged-data checks.
func (v *Validator) ValidateHybrid(candidate string, data domain.HybridData) domain.ValidationResult {
	in := v.newInput(candidate, data.Facts(), &data)
	if data.Merged != nil {
		merged := v.merger.Merge(nil, in.Candidate)
		in.CandidateMerged = &merged
	}
	return v.run(in, domain.ValidationModeHybrid)
}

func (v *Validator) newInput(candidate string, facts domain.ExtractedFacts, hybrid *domain.HybridData) *Input {
	candidate = extractor.PrepareText(candidate)
	return &Input{
		Candidate: candidate,
		Found:     v.ex.Extract(candidate),
		Dates:     v.ex.FindDates(candidate),
		Amounts:   v.ex.FindAmounts(candidate),
		Facts:     facts,
		Hybrid:    hybrid,
		cfg:       v.cfg,
		ex:        v.ex,
	}
}

func (v *Validator) run(in *Input, mode domain.ValidationMode) domain.ValidationResult {
	for _, c := range v.registry.All() {
		if c.Mode() == domain.ValidationModeHybrid && mode != domain.ValidationModeHybrid {
			continue
		}
		for _, is := range c.Run(in) {
			is.Check = c.Key()
			in.Prior = append(in.Prior, is)
		}
	}
	return domain.NewValidationResult(v.filter(in.Prior))
}

// filter drops issues about disclaimer boilerplate and about short obligation fragments.
func (v *Validator) filter(issues []domain.Issue) []domain.Issue {
	out := make([]domain.Issue, 0, len(issues))
	for _, is := range issues {
		subject := is.ExpectedValue
		if subject == "" {
			subject = is.ActualValue
		}
		if extractor.ContainsAny(subject, v.cfg.BoilerplatePhrases) {
			continue
		}
		if isObligationIssue(is) && utf8.RuneCountInString(subject) < v.cfg.MinObligationSubjectRunes {
			continue
		}
		out = append(out, is)
	}
	return out
}
