package relation

import "docverify/internal/domain"

// Rule describes when two entities are linked by a relation type.
type Rule struct {
	Type         domain.RelationType
	SourceLabels []domain.EntityLabel
	TargetLabels []domain.EntityLabel
	// MaxGap is the largest number of runes allowed between the two spans.
	MaxGap int
	// Keywords between the spans raise the confidence to KeywordConfidence.
	Keywords           []string
	KeywordConfidence  float64
	DistanceConfidence float64
	// ExcludeBetween rejects a pair when any of these occur between the spans.
	ExcludeBetween []string
	// RequireBefore, when set, must occur within RequireBeforeWindow runes before the source.
	RequireBefore       []string
	RequireBeforeWindow int
}

// RequirementRule configures ACTION_REQUIRED, whose target is synthesized at the keyword.
type RequirementRule struct {
	Keywords         []string
	Window           int
	AfterConfidence  float64
	BeforeConfidence float64
}

// Config holds every linking threshold.
type Config struct {
	Rules         []Rule
	Requirement   RequirementRule
	ContextRadius int
}

var penaltyKeywords = []string{"과태료", "벌금", "가산세", "처벌", "제재", "불이익"}

// DefaultConfig returns the standard relation table.
func DefaultConfig() Config {
	return Config{
		Rules: []Rule{
			{
				Type:               domain.RelationDeadlineOf,
				SourceLabels:       []domain.EntityLabel{domain.LabelDate, domain.LabelDeadline},
				TargetLabels:       []domain.EntityLabel{domain.LabelAction},
				MaxGap:             100,
				Keywords:           []string{"까지", "이전", "기한", "마감", "납부일", "제출일"},
				KeywordConfidence:  0.9,
				DistanceConfidence: 0.7,
			},
			{
				Type:               domain.RelationPaymentAmountFor,
				SourceLabels:       []domain.EntityLabel{domain.LabelMoney},
				TargetLabels:       []domain.EntityLabel{domain.LabelAction},
				MaxGap:             50,
				Keywords:           []string{"의", "납부액", "금액", "비용", "요금"},
				KeywordConfidence:  0.85,
				DistanceConfidence: 0.65,
				ExcludeBetween:     penaltyKeywords,
			},
			{
				Type:                domain.RelationPenaltyFor,
				SourceLabels:        []domain.EntityLabel{domain.LabelMoney},
				TargetLabels:        []domain.EntityLabel{domain.LabelAction},
				MaxGap:              100,
				Keywords:            penaltyKeywords,
				KeywordConfidence:   0.85,
				DistanceConfidence:  0.6,
				RequireBefore:       penaltyKeywords,
				RequireBeforeWindow: 30,
			},
			{
				Type:               domain.RelationAccountFor,
				SourceLabels:       []domain.EntityLabel{domain.LabelAccountNumber},
				TargetLabels:       []domain.EntityLabel{domain.LabelOrganization, domain.LabelAction},
				MaxGap:             50,
				Keywords:           []string{"계좌", "입금", "납부", "송금"},
				KeywordConfidence:  0.85,
				DistanceConfidence: 0.65,
			},
			{
				Type:               domain.RelationOrganizationOf,
				SourceLabels:       []domain.EntityLabel{domain.LabelOrganization},
				TargetLabels:       []domain.EntityLabel{domain.LabelAction},
				MaxGap:             100,
				Keywords:           []string{"에서", "담당", "소관", "관할", "기관"},
				KeywordConfidence:  0.8,
				DistanceConfidence: 0.6,
			},
		},
		Requirement: RequirementRule{
			Keywords:         []string{"필수", "의무", "반드시", "해야"},
			Window:           30,
			AfterConfidence:  0.85,
			BeforeConfidence: 0.75,
		},
		ContextRadius: 20,
	}
}
