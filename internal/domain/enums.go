package domain

// EntityLabel is the type tag carried by a recognized or rule-extracted span.
type EntityLabel string

const (
	LabelDate          EntityLabel = "DATE"
	LabelDeadline      EntityLabel = "DEADLINE"
	LabelMoney         EntityLabel = "MONEY"
	LabelAction        EntityLabel = "ACTION"
	LabelOrganization  EntityLabel = "ORGANIZATION"
	LabelAccountNumber EntityLabel = "ACCOUNT_NUMBER"
	// LabelRequirement marks the virtual target synthesized for ACTION_REQUIRED relations.
	LabelRequirement EntityLabel = "REQUIREMENT"
)

// ValidLabels lists the labels accepted from external recognizers.
var ValidLabels = map[EntityLabel]bool{
	LabelDate:          true,
	LabelDeadline:      true,
	LabelMoney:         true,
	LabelAction:        true,
	LabelOrganization:  true,
	LabelAccountNumber: true,
}

// IsDateLike reports whether the label denotes a calendar date.
func (l EntityLabel) IsDateLike() bool {
	return l == LabelDate || l == LabelDeadline
}

// Source identifies which extractor produced a fact.
type Source string

const (
	SourceRule   Source = "rule"
	SourceNER    Source = "ner"
	SourceLLM    Source = "llm"
	SourceHybrid Source = "hybrid"
)

// RelationType is the kind of link inferred between two entities.
type RelationType string

const (
	RelationDeadlineOf       RelationType = "DEADLINE_OF"
	RelationPaymentAmountFor RelationType = "PAYMENT_AMOUNT_FOR"
	RelationActionRequired   RelationType = "ACTION_REQUIRED"
	RelationPenaltyFor       RelationType = "PENALTY_FOR"
	RelationAccountFor       RelationType = "ACCOUNT_FOR"
	RelationOrganizationOf   RelationType = "ORGANIZATION_OF"
)

// IssueKind classifies a discrepancy between a candidate answer and the canonical facts.
type IssueKind string

const (
	IssueMissing               IssueKind = "missing"
	IssueContradictory         IssueKind = "contradictory"
	IssueAdded                 IssueKind = "added"
	IssueWeakRelation          IssueKind = "weak_relation"
	IssueMissingRelationSource IssueKind = "missing_relation_source"
	IssueMissingRelationTarget IssueKind = "missing_relation_target"
)

// ValidationMode selects plain or hybrid answer validation.
type ValidationMode string

const (
	ValidationModePlain  ValidationMode = "plain"
	ValidationModeHybrid ValidationMode = "hybrid"
)

// ValidValidationModes is used to reject unknown modes at the API boundary.
var ValidValidationModes = map[ValidationMode]bool{
	ValidationModePlain:  true,
	ValidationModeHybrid: true,
}

// SpanStrategy selects how rule facts are located in the source text during merge.
type SpanStrategy string

const (
	// SpanStrategyValueSearch finds the first occurrence of the normalized value, defaulting to [0, len(value)).
	SpanStrategyValueSearch SpanStrategy = "value_search"
	// SpanStrategyMatchOffset uses the offsets of the literal the rule extractor matched.
	SpanStrategyMatchOffset SpanStrategy = "match_offset"
)

// ValidSpanStrategies lists the accepted span strategies.
var ValidSpanStrategies = map[SpanStrategy]bool{
	SpanStrategyValueSearch: true,
	SpanStrategyMatchOffset: true,
}

// CurrencyKRW is the currency code attached to every normalized amount.
const CurrencyKRW = "KRW"

// UnknownAmount marks a penalty whose amount could not be found in the text.
// It is distinct from a parsed zero and is exempt from amount comparison.
const UnknownAmount = "0"

// CanonicalSchemaVersion is bumped whenever the CanonicalDocumentData layout changes.
const CanonicalSchemaVersion = 1

// RefusalMessage replaces a candidate answer that failed validation.
const RefusalMessage = "문서에서 확인할 수 없는 내용이 포함되어 있어 답변을 제공할 수 없습니다. 원문 문서를 직접 확인해 주세요."
