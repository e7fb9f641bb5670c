package relation_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docverify/internal/domain"
	"docverify/internal/relation"
)

func entity(text string, label domain.EntityLabel, start int) domain.Entity {
	return domain.Entity{
		Text:       text,
		Label:      label,
		Start:      start,
		End:        start + utf8.RuneCountInString(text),
		Confidence: 0.8,
		Sources:    domain.NewSources(domain.SourceNER),
	}
}

func ofType(relations []domain.Relation, typ domain.RelationType) []domain.Relation {
	var out []domain.Relation
	for _, r := range relations {
		if r.Type == typ {
			out = append(out, r)
		}
	}
	return out
}

func TestExtractRelations_DistanceBound(t *testing.T) {
	l := relation.New(relation.DefaultConfig())

	build := func(gap int) (string, []domain.Entity) {
		text := "2025-05-31" + strings.Repeat("가", gap) + "신청"
		return text, []domain.Entity{
			entity("2025-05-31", domain.LabelDate, 0),
			entity("신청", domain.LabelAction, 10+gap),
		}
	}

	t.Run("gap_101_no_relation", func(t *testing.T) {
		text, entities := build(101)
		assert.Empty(t, l.ExtractRelations(text, entities))
	})

	t.Run("gap_100_still_linked", func(t *testing.T) {
		text, entities := build(100)
		assert.Len(t, l.ExtractRelations(text, entities), 1)
	})

	t.Run("gap_99_low_confidence", func(t *testing.T) {
		text, entities := build(99)
		relations := l.ExtractRelations(text, entities)
		require.Len(t, relations, 1)
		assert.Equal(t, domain.RelationDeadlineOf, relations[0].Type)
		assert.InDelta(t, 0.7, relations[0].Confidence, 1e-9)
	})
}

func TestExtractRelations_DeadlineKeyword(t *testing.T) {
	l := relation.New(relation.DefaultConfig())
	text := "2025-05-31까지 신고서 제출"
	entities := []domain.Entity{
		entity("2025-05-31", domain.LabelDeadline, 0),
		entity("신고서 제출", domain.LabelAction, 13),
	}

	relations := ofType(l.ExtractRelations(text, entities), domain.RelationDeadlineOf)
	require.Len(t, relations, 1)
	assert.Equal(t, 0.9, relations[0].Confidence)
	assert.Equal(t, text, relations[0].Context)
}

func TestExtractRelations_PaymentAndPenalty(t *testing.T) {
	l := relation.New(relation.DefaultConfig())

	t.Run("penalty_keyword_before_money", func(t *testing.T) {
		text := "과태료 10만원 납부"
		entities := []domain.Entity{
			entity("10만원", domain.LabelMoney, 4),
			entity("납부", domain.LabelAction, 9),
		}
		relations := l.ExtractRelations(text, entities)

		payment := ofType(relations, domain.RelationPaymentAmountFor)
		require.Len(t, payment, 1)
		assert.Equal(t, 0.65, payment[0].Confidence)

		penalty := ofType(relations, domain.RelationPenaltyFor)
		require.Len(t, penalty, 1)
		assert.Equal(t, 0.6, penalty[0].Confidence)
	})

	t.Run("penalty_word_between_blocks_payment", func(t *testing.T) {
		text := "10만원의 과태료 납부"
		entities := []domain.Entity{
			entity("10만원", domain.LabelMoney, 0),
			entity("납부", domain.LabelAction, 10),
		}
		relations := l.ExtractRelations(text, entities)
		assert.Empty(t, ofType(relations, domain.RelationPaymentAmountFor))
		assert.Empty(t, ofType(relations, domain.RelationPenaltyFor))
	})

	t.Run("payment_connector", func(t *testing.T) {
		text := "30000원의 수수료 결제"
		entities := []domain.Entity{
			entity("30000원", domain.LabelMoney, 0),
			entity("결제", domain.LabelAction, 12),
		}
		payment := ofType(l.ExtractRelations(text, entities), domain.RelationPaymentAmountFor)
		require.Len(t, payment, 1)
		assert.Equal(t, 0.85, payment[0].Confidence)
	})
}

func TestExtractRelations_AccountAndOrganization(t *testing.T) {
	l := relation.New(relation.DefaultConfig())
	text := "구청에서 접수하며 110-234-567890 계좌로 입금"
	entities := []domain.Entity{
		entity("구청", domain.LabelOrganization, 0),
		entity("접수", domain.LabelAction, 5),
		entity("110-234-567890", domain.LabelAccountNumber, 10),
		entity("입금", domain.LabelAction, 29),
	}
	relations := l.ExtractRelations(text, entities)

	org := ofType(relations, domain.RelationOrganizationOf)
	require.Len(t, org, 2)
	assert.Equal(t, 0.8, org[0].Confidence)
	assert.Equal(t, "접수", org[0].Target.Text)

	account := ofType(relations, domain.RelationAccountFor)
	require.Len(t, account, 3)
	for _, r := range account {
		assert.Equal(t, "110-234-567890", r.Source.Text)
	}
}

func TestExtractRelations_ActionRequired(t *testing.T) {
	l := relation.New(relation.DefaultConfig())

	t.Run("keyword_after_action", func(t *testing.T) {
		relations := l.ExtractRelations("신분증 지참 필수", []domain.Entity{entity("신분증 지참", domain.LabelAction, 0)})
		require.Len(t, relations, 1)
		r := relations[0]
		assert.Equal(t, domain.RelationActionRequired, r.Type)
		assert.Equal(t, 0.85, r.Confidence)
		assert.Equal(t, domain.LabelRequirement, r.Target.Label)
		assert.Equal(t, "필수", r.Target.Text)
		assert.Equal(t, 7, r.Target.Start)
		assert.Equal(t, 9, r.Target.End)
	})

	t.Run("keyword_before_action", func(t *testing.T) {
		relations := l.ExtractRelations("반드시 제출", []domain.Entity{entity("제출", domain.LabelAction, 4)})
		require.Len(t, relations, 1)
		assert.Equal(t, 0.75, relations[0].Confidence)
		assert.Equal(t, "반드시", relations[0].Target.Text)
		assert.Equal(t, 0, relations[0].Target.Start)
	})

	t.Run("no_keyword", func(t *testing.T) {
		assert.Empty(t, l.ExtractRelations("서류 제출", []domain.Entity{entity("제출", domain.LabelAction, 3)}))
	})
}

func TestExtractRelations_Dedup(t *testing.T) {
	l := relation.New(relation.DefaultConfig())
	date := entity("2025-05-31", domain.LabelDate, 0)
	relations := l.ExtractRelations("2025-05-31 신청", []domain.Entity{date, date, entity("신청", domain.LabelAction, 11)})
	assert.Len(t, ofType(relations, domain.RelationDeadlineOf), 1)
}

func TestGap(t *testing.T) {
	a := domain.Entity{Start: 0, End: 10}
	assert.Equal(t, 5, relation.Gap(a, domain.Entity{Start: 15, End: 20}))
	assert.Equal(t, 5, relation.Gap(domain.Entity{Start: 15, End: 20}, a))
	assert.Equal(t, 0, relation.Gap(a, domain.Entity{Start: 5, End: 12}))
}
