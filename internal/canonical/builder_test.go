package canonical_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docverify/internal/canonical"
	"docverify/internal/domain"
)

var buildTime = time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)

func newBuilder() *canonical.Builder {
	return canonical.NewBuilder(func() time.Time { return buildTime })
}

func TestBuild_RuleOnly(t *testing.T) {
	id := uuid.New()
	merged := domain.MergedData{
		Entities: []domain.Entity{
			{Text: "100000", Label: domain.LabelMoney, Start: 0, End: 6, Confidence: 0.8, Sources: domain.NewSources(domain.SourceRule)},
			{Text: "110-234-567890", Label: domain.LabelAccountNumber, Start: 20, End: 34, Confidence: 0.9, Sources: domain.NewSources(domain.SourceRule)},
		},
		Deadlines:   []domain.Deadline{{Date: "2025-05-31", Type: "납부기한"}},
		Obligations: []domain.Obligation{{Description: "기한 내 납부하여야 합니다"}},
		Penalties:   []domain.Penalty{{Amount: "100000", Type: "과태료"}},
	}

	out := newBuilder().Build(merged, &id)

	assert.Equal(t, domain.CanonicalSchemaVersion, out.Version)
	assert.Equal(t, &id, out.DocumentID)
	assert.Equal(t, domain.SourceRule, out.Source)
	assert.True(t, out.Verified)
	assert.Equal(t, buildTime, out.CreatedAt)

	require.Len(t, out.Deadlines, 1)
	assert.True(t, out.Deadlines[0].Verified)
	assert.Equal(t, domain.Sources{domain.SourceRule}, out.Deadlines[0].Sources)
	require.Len(t, out.RequiredActions, 1)
	require.Len(t, out.Penalties, 1)

	require.Len(t, out.Amounts, 1)
	assert.Equal(t, domain.VerifiedAmount{
		Value: "100000", Text: "100000", Currency: "KRW", Verified: true, Sources: domain.Sources{domain.SourceRule},
	}, out.Amounts[0])
	require.Len(t, out.AccountNumbers, 1)
	assert.Equal(t, "110-234-567890", out.AccountNumbers[0].Number)
}

func TestBuild_SourceDetection(t *testing.T) {
	money := func(sources ...domain.Source) domain.Entity {
		return domain.Entity{Text: "10만원", Label: domain.LabelMoney, Start: 0, End: 4, Sources: domain.NewSources(sources...)}
	}

	t.Run("hybrid", func(t *testing.T) {
		out := newBuilder().Build(domain.MergedData{Entities: []domain.Entity{money(domain.SourceNER, domain.SourceRule)}}, nil)
		assert.Equal(t, domain.SourceHybrid, out.Source)
		require.Len(t, out.Amounts, 1)
		assert.Equal(t, "100000", out.Amounts[0].Value)
		assert.True(t, out.Verified)
	})

	t.Run("ner_only", func(t *testing.T) {
		out := newBuilder().Build(domain.MergedData{Entities: []domain.Entity{money(domain.SourceNER)}}, nil)
		assert.Equal(t, domain.SourceNER, out.Source)
		assert.False(t, out.Amounts[0].Verified)
		assert.False(t, out.Verified)
	})

	t.Run("no_entities", func(t *testing.T) {
		out := newBuilder().Build(domain.MergedData{}, nil)
		assert.Equal(t, domain.SourceRule, out.Source)
		assert.Nil(t, out.DocumentID)
		assert.NotNil(t, out.Amounts)
		assert.NotNil(t, out.Deadlines)
	})
}

func TestBuild_IgnoresOtherLabels(t *testing.T) {
	out := newBuilder().Build(domain.MergedData{Entities: []domain.Entity{
		{Text: "구청", Label: domain.LabelOrganization, Sources: domain.NewSources(domain.SourceNER)},
	}}, nil)
	assert.Empty(t, out.Amounts)
	assert.Empty(t, out.AccountNumbers)
	assert.True(t, out.Verified)
}
