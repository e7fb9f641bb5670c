package merger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docverify/internal/domain"
	"docverify/internal/merger"
)

func ruleEntity(text string, label domain.EntityLabel, start, end int) domain.Entity {
	return domain.Entity{Text: text, Label: label, Start: start, End: end, Confidence: 0.85, Sources: domain.NewSources(domain.SourceRule)}
}

func nerEntity(text string, label domain.EntityLabel, start, end int, conf float64) domain.Entity {
	return domain.Entity{Text: text, Label: label, Start: start, End: end, Confidence: conf, Sources: domain.NewSources(domain.SourceNER)}
}

func assertNoSameLabelOverlap(t *testing.T, entities []domain.Entity) {
	t.Helper()
	for i := range entities {
		for j := i + 1; j < len(entities); j++ {
			if entities[i].Label == entities[j].Label {
				assert.False(t, entities[i].Overlaps(entities[j]), "%+v overlaps %+v", entities[i], entities[j])
			}
		}
	}
}

func TestMerge_NERBeatsRule(t *testing.T) {
	m := merger.New(merger.DefaultConfig(), nil)
	text := "납부기한 2025-05-31 까지"

	t.Run("same_span", func(t *testing.T) {
		result := m.Merge([]domain.Entity{nerEntity("2025-05-31", domain.LabelDeadline, 5, 15, 0.7)}, text)
		require.Len(t, result.Entities, 1)
		e := result.Entities[0]
		assert.True(t, e.FromNER())
		assert.Equal(t, 0.7, e.Confidence)
		assert.Equal(t, domain.Sources{domain.SourceNER, domain.SourceRule}, e.Sources)
	})

	t.Run("wider_ner_span", func(t *testing.T) {
		result := m.Merge([]domain.Entity{nerEntity("2025-05-31 까지", domain.LabelDeadline, 5, 18, 0.9)}, text)
		require.Len(t, result.Entities, 1)
		assert.Equal(t, "2025-05-31 까지", result.Entities[0].Text)
		assert.Equal(t, 5, result.Entities[0].Start)
		assert.Equal(t, 18, result.Entities[0].End)
	})
}

func TestMergeEntities_RuleUnion(t *testing.T) {
	a := ruleEntity("10만원", domain.LabelMoney, 0, 4)
	b := ruleEntity("10만원", domain.LabelMoney, 2, 6)
	b.Sources = domain.NewSources(domain.SourceRule, domain.SourceLLM)

	merged := merger.MergeEntities([]domain.Entity{a, b})
	require.Len(t, merged, 1)
	assert.Equal(t, domain.Sources{domain.SourceLLM, domain.SourceRule}, merged[0].Sources)
}

func TestMergeEntities_RuleLongerWins(t *testing.T) {
	short := ruleEntity("5월 31일", domain.LabelDeadline, 6, 13)
	long := ruleEntity("2025년 5월 31일", domain.LabelDeadline, 0, 13)

	merged := merger.MergeEntities([]domain.Entity{short, long})
	require.Len(t, merged, 1)
	assert.Equal(t, "2025년 5월 31일", merged[0].Text)
}

func TestMergeEntities_NERConflict(t *testing.T) {
	t.Run("higher_confidence", func(t *testing.T) {
		merged := merger.MergeEntities([]domain.Entity{
			nerEntity("구청", domain.LabelOrganization, 0, 2, 0.6),
			nerEntity("구청장", domain.LabelOrganization, 0, 3, 0.9),
		})
		require.Len(t, merged, 1)
		assert.Equal(t, 0.9, merged[0].Confidence)
	})

	t.Run("tie_prefers_longer", func(t *testing.T) {
		merged := merger.MergeEntities([]domain.Entity{
			nerEntity("서울시 구청", domain.LabelOrganization, 0, 6, 0.8),
			nerEntity("구청", domain.LabelOrganization, 4, 6, 0.8),
		})
		require.Len(t, merged, 1)
		assert.Equal(t, "서울시 구청", merged[0].Text)
	})

	t.Run("different_labels_coexist", func(t *testing.T) {
		merged := merger.MergeEntities([]domain.Entity{
			nerEntity("납부", domain.LabelAction, 0, 2, 0.8),
			nerEntity("납부", domain.LabelOrganization, 0, 2, 0.8),
		})
		assert.Len(t, merged, 2)
	})
}

func TestMergeEntities_CandidateMustBeatAllOverlaps(t *testing.T) {
	merged := merger.MergeEntities([]domain.Entity{
		ruleEntity("가나다라마", domain.LabelDeadline, 0, 5),
		nerEntity("라마바사아", domain.LabelDeadline, 3, 8, 0.8),
		ruleEntity("사아자차", domain.LabelDeadline, 6, 10),
	})
	require.Len(t, merged, 1)
	assert.Equal(t, "라마바사아", merged[0].Text)
	assert.Equal(t, domain.Sources{domain.SourceNER, domain.SourceRule}, merged[0].Sources)
}

func TestMergeEntities_InvariantAndOrder(t *testing.T) {
	input := []domain.Entity{
		ruleEntity("a", domain.LabelMoney, 40, 45),
		nerEntity("b", domain.LabelMoney, 42, 50, 0.7),
		nerEntity("c", domain.LabelMoney, 44, 47, 0.9),
		ruleEntity("d", domain.LabelDeadline, 0, 10),
		nerEntity("e", domain.LabelDeadline, 5, 12, 0.6),
		ruleEntity("f", domain.LabelDeadline, 11, 20),
		nerEntity("g", domain.LabelAction, 15, 25, 0.8),
		nerEntity("h", domain.LabelAction, 20, 30, 0.8),
		ruleEntity("i", domain.LabelAccountNumber, 60, 74),
	}
	merged := merger.MergeEntities(input)
	assertNoSameLabelOverlap(t, merged)
	for i := 1; i < len(merged); i++ {
		assert.LessOrEqual(t, merged[i-1].Start, merged[i].Start)
	}
}

func TestMerge_SpanStrategies(t *testing.T) {
	text := "2025-05-31 공고. 납부기한 2025-05-31"

	t.Run("value_search_uses_first_occurrence", func(t *testing.T) {
		result := merger.New(merger.DefaultConfig(), nil).Merge(nil, text)
		require.Len(t, result.Entities, 1)
		assert.Equal(t, 0, result.Entities[0].Start)
		assert.Equal(t, 10, result.Entities[0].End)
		require.Len(t, result.Deadlines, 1)
		assert.Equal(t, "납부기한", result.Deadlines[0].Type)
	})

	t.Run("match_offset_uses_literal", func(t *testing.T) {
		cfg := merger.DefaultConfig()
		cfg.SpanStrategy = domain.SpanStrategyMatchOffset
		result := merger.New(cfg, nil).Merge(nil, text)
		require.Len(t, result.Entities, 1)
		assert.Equal(t, 20, result.Entities[0].Start)
		assert.Equal(t, 30, result.Entities[0].End)
	})

	t.Run("value_not_found_defaults_to_prefix_span", func(t *testing.T) {
		result := merger.New(merger.DefaultConfig(), nil).Merge(nil, "납부기한 2025년 5월 31일")
		require.Len(t, result.Entities, 1)
		assert.Equal(t, "2025-05-31", result.Entities[0].Text)
		assert.Equal(t, 0, result.Entities[0].Start)
		assert.Equal(t, 10, result.Entities[0].End)
	})
}

func TestMerge_RuleEntityKinds(t *testing.T) {
	cfg := merger.DefaultConfig()
	cfg.SpanStrategy = domain.SpanStrategyMatchOffset
	text := "과태료 10만원이 부과됩니다. 입금 계좌: 110-234-567890"
	result := merger.New(cfg, nil).Merge(nil, text)

	var labels []domain.EntityLabel
	for _, e := range result.Entities {
		labels = append(labels, e.Label)
		assert.Equal(t, domain.Sources{domain.SourceRule}, e.Sources)
	}
	assert.Equal(t, []domain.EntityLabel{domain.LabelMoney, domain.LabelAccountNumber}, labels)
	assert.Equal(t, 0.8, result.Entities[0].Confidence)
	assert.Equal(t, 0.9, result.Entities[1].Confidence)
	assert.Len(t, result.Penalties, 1)

	unknown := merger.New(cfg, nil).Merge(nil, "과태료가 부과될 수 있습니다.")
	assert.Empty(t, unknown.Entities)
	require.Len(t, unknown.Penalties, 1)
	assert.Equal(t, domain.UnknownAmount, unknown.Penalties[0].Amount)
}

func TestMerge_NERInputNormalized(t *testing.T) {
	m := merger.New(merger.DefaultConfig(), nil)
	text := "구청 세무과에서 신청을 받습니다"
	result := m.Merge([]domain.Entity{
		{Text: "구청 세무과", Label: domain.LabelOrganization, Start: 0, End: 6},
		{Text: "???", Label: "PERSON", Start: 0, End: 2},
		{Text: "out", Label: domain.LabelAction, Start: 10, End: 400},
	}, text)

	require.Len(t, result.Entities, 1)
	assert.Equal(t, 0.75, result.Entities[0].Confidence)
	assert.Equal(t, domain.Sources{domain.SourceNER}, result.Entities[0].Sources)
}

func TestCompare(t *testing.T) {
	reference := domain.MergedData{
		Deadlines:   []domain.Deadline{{Date: "2025-05-31", Type: "납부기한"}},
		Penalties:   []domain.Penalty{{Amount: "100000", Type: "과태료"}, {Amount: "0", Type: "불이익"}},
		Obligations: []domain.Obligation{{Description: "기한 내에 신고해야 합니다"}},
	}
	other := domain.MergedData{
		Deadlines:   []domain.Deadline{{Date: "2025-06-01", Type: "기한"}},
		Penalties:   []domain.Penalty{{Amount: "100000", Type: "과태료"}},
		Obligations: []domain.Obligation{{Description: "기한 내에  신고해야 합니다"}},
	}

	diffs := merger.Compare(reference, other)
	require.Len(t, diffs, 2)
	assert.Equal(t, merger.Difference{Kind: domain.IssueMissing, Field: merger.FieldDeadlines, Value: "2025-05-31", Type: "납부기한"}, diffs[0])
	assert.Equal(t, merger.Difference{Kind: domain.IssueAdded, Field: merger.FieldDeadlines, Value: "2025-06-01", Type: "기한"}, diffs[1])

	assert.Empty(t, merger.Compare(reference, reference))
}
