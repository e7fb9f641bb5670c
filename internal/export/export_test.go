package export_test

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"docverify/internal/domain"
	"docverify/internal/export"
)

func sampleCanonical() *domain.CanonicalDocumentData {
	id := uuid.MustParse("0b6f3c52-8a1e-4c7d-9e2f-5a4b3c2d1e0f")
	rule := domain.NewSources(domain.SourceRule)
	return &domain.CanonicalDocumentData{
		Version:    domain.CanonicalSchemaVersion,
		DocumentID: &id,
		Deadlines: []domain.VerifiedDeadline{
			{Deadline: domain.Deadline{Date: "2025-05-31", Type: "납부기한", Context: "납부기한: 2025년 5월 31일"}, Verified: true, Sources: rule},
		},
		RequiredActions: []domain.VerifiedAction{
			{Obligation: domain.Obligation{Description: "기한 내에 신고해야 합니다"}, Verified: true, Sources: rule},
		},
		Penalties: []domain.VerifiedPenalty{
			{Penalty: domain.Penalty{Amount: "100000", Type: "과태료"}, Verified: true, Sources: rule},
			{Penalty: domain.Penalty{Amount: domain.UnknownAmount, Type: "처분"}, Verified: true, Sources: rule},
		},
		Amounts: []domain.VerifiedAmount{
			{Value: "100000", Text: "10만원", Currency: domain.CurrencyKRW, Verified: false, Sources: domain.NewSources(domain.SourceNER)},
		},
		AccountNumbers: []domain.VerifiedAccount{},
		Source:         domain.SourceHybrid,
		CreatedAt:      time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC),
	}
}

func TestWriteCanonical(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteCanonical(&buf, sampleCanonical()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{
		export.SheetSummary, export.SheetDeadlines, export.SheetActions,
		export.SheetPenalties, export.SheetAmounts, export.SheetAccounts,
	}, f.GetSheetList())

	summary, err := f.GetRows(export.SheetSummary)
	require.NoError(t, err)
	assert.Equal(t, []string{"Document ID", "0b6f3c52-8a1e-4c7d-9e2f-5a4b3c2d1e0f"}, summary[1])
	assert.Equal(t, []string{"Source", "hybrid"}, summary[3])

	deadlines, err := f.GetRows(export.SheetDeadlines)
	require.NoError(t, err)
	require.Len(t, deadlines, 2)
	assert.Equal(t, "2025-05-31", deadlines[1][0])
	assert.Equal(t, "납부기한", deadlines[1][1])
	assert.Equal(t, "rule", deadlines[1][4])

	penalties, err := f.GetRows(export.SheetPenalties)
	require.NoError(t, err)
	require.Len(t, penalties, 3)
	assert.Equal(t, "100000", penalties[1][1])
	assert.Equal(t, "unknown", penalties[2][1])

	amounts, err := f.GetRows(export.SheetAmounts)
	require.NoError(t, err)
	assert.Equal(t, "KRW", amounts[1][1])
	assert.Equal(t, "ner", amounts[1][4])

	accounts, err := f.GetRows(export.SheetAccounts)
	require.NoError(t, err)
	assert.Len(t, accounts, 1)
}

func TestValidationWriter(t *testing.T) {
	issues, _ := json.Marshal([]string{"missing deadline: 2025-05-31", "added penalty not in document: 벌금 300000"})
	entry := domain.AnswerValidation{
		ID:         uuid.New(),
		DocumentID: uuid.New(),
		Mode:       domain.ValidationModePlain,
		IsValid:    false,
		IssueCount: 2,
		Issues:     issues,
		AnswerHash: "abc",
		CreatedAt:  time.Date(2026, 2, 1, 8, 30, 0, 0, time.UTC),
	}

	var buf bytes.Buffer
	w := export.NewValidationWriter(&buf)
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.WriteEntries([]domain.AnswerValidation{entry, {Issues: []byte("{broken")}}))
	w.Flush()
	require.NoError(t, w.Error())

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Validation ID", rows[0][0])
	assert.Equal(t, "plain", rows[1][2])
	assert.Equal(t, "false", rows[1][3])
	assert.Equal(t, "missing deadline: 2025-05-31 | added penalty not in document: 벌금 300000", rows[1][5])
	assert.Equal(t, "2026-02-01T08:30:00Z", rows[1][7])
	assert.Empty(t, rows[2][5])
}
