package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"docverify/internal/cache"
	"docverify/internal/domain"
	"docverify/internal/service"
	"docverify/internal/storage"
	"docverify/mocks"
)

func setupAnswerService(opts service.AnswerServiceOptions) (
	service.AnswerService,
	*mocks.MockFactsRepo,
	*mocks.MockValidationLogRepo,
) {
	factsRepo := new(mocks.MockFactsRepo)
	logRepo := new(mocks.MockValidationLogRepo)
	factsCache := cache.NewFactsCache(time.Minute, time.Minute)
	svc := service.NewAnswerService(factsRepo, logRepo, factsCache, nil, opts)
	return svc, factsRepo, logRepo
}

// --- Validate ---

func TestAnswerService_Validate_Valid(t *testing.T) {
	svc, factsRepo, logRepo := setupAnswerService(service.AnswerServiceOptions{})
	docID := uuid.New()
	answer := "납부기한은 2025-05-31입니다."

	factsRepo.On("GetByDocumentID", mock.Anything, docID).Return(storedFacts(t, docID, nil), nil)
	logRepo.On("Create", mock.Anything, mock.MatchedBy(func(e *domain.AnswerValidation) bool {
		return e.DocumentID == docID && e.IsValid && e.IssueCount == 0 &&
			e.Mode == domain.ValidationModePlain && e.AnswerHash == storage.Digest(answer)
	})).Return(nil)

	verdict, err := svc.Validate(context.Background(), &service.ValidateAnswerInput{DocumentID: docID, Answer: answer})

	require.NoError(t, err)
	assert.True(t, verdict.Result.IsValid)
	assert.Equal(t, domain.ValidationModePlain, verdict.Mode)
	assert.Equal(t, answer, verdict.FinalAnswer)
	assert.NotNil(t, verdict.ValidationID)
	require.NotNil(t, verdict.DocumentID)
	assert.Equal(t, docID, *verdict.DocumentID)
	logRepo.AssertExpectations(t)
}

func TestAnswerService_Validate_InvalidReturnsRefusal(t *testing.T) {
	svc, factsRepo, logRepo := setupAnswerService(service.AnswerServiceOptions{})
	docID := uuid.New()

	factsRepo.On("GetByDocumentID", mock.Anything, docID).Return(storedFacts(t, docID, nil), nil)
	logRepo.On("Create", mock.Anything, mock.MatchedBy(func(e *domain.AnswerValidation) bool {
		var issues []string
		return !e.IsValid && e.IssueCount == 1 &&
			json.Unmarshal(e.Issues, &issues) == nil && strings.Contains(issues[0], "2025-05-31")
	})).Return(nil)

	verdict, err := svc.Validate(context.Background(), &service.ValidateAnswerInput{
		DocumentID: docID,
		Answer:     "문서를 확인하세요",
	})

	require.NoError(t, err)
	assert.False(t, verdict.Result.IsValid)
	assert.Equal(t, domain.RefusalMessage, verdict.FinalAnswer)
	logRepo.AssertExpectations(t)
}

func TestAnswerService_Validate_HybridWhenRecognizerDataStored(t *testing.T) {
	svc, factsRepo, logRepo := setupAnswerService(service.AnswerServiceOptions{})
	docID := uuid.New()
	ner := []domain.Entity{{Text: "2025년 5월 31일", Label: domain.LabelDate, Start: 6, End: 18, Confidence: 0.9}}

	factsRepo.On("GetByDocumentID", mock.Anything, docID).Return(storedFacts(t, docID, ner), nil)
	logRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	verdict, err := svc.Validate(context.Background(), &service.ValidateAnswerInput{
		DocumentID: docID,
		Answer:     "납부기한은 2025-05-31입니다.",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.ValidationModeHybrid, verdict.Mode)
}

func TestAnswerService_Validate_ForcedMode(t *testing.T) {
	svc, factsRepo, logRepo := setupAnswerService(service.AnswerServiceOptions{})
	docID := uuid.New()
	ner := []domain.Entity{{Text: "2025년 5월 31일", Label: domain.LabelDate, Start: 6, End: 18}}

	factsRepo.On("GetByDocumentID", mock.Anything, docID).Return(storedFacts(t, docID, ner), nil)
	logRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	verdict, err := svc.Validate(context.Background(), &service.ValidateAnswerInput{
		DocumentID: docID,
		Answer:     "납부기한은 2025-05-31입니다.",
		Mode:       domain.ValidationModePlain,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.ValidationModePlain, verdict.Mode)
}

func TestAnswerService_Validate_LogFailureKeepsVerdict(t *testing.T) {
	svc, factsRepo, logRepo := setupAnswerService(service.AnswerServiceOptions{})
	docID := uuid.New()

	factsRepo.On("GetByDocumentID", mock.Anything, docID).Return(storedFacts(t, docID, nil), nil)
	logRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("db error"))

	verdict, err := svc.Validate(context.Background(), &service.ValidateAnswerInput{
		DocumentID: docID,
		Answer:     "납부기한은 2025-05-31입니다.",
	})

	require.NoError(t, err)
	assert.True(t, verdict.Result.IsValid)
	assert.Nil(t, verdict.ValidationID)
}

func TestAnswerService_Validate_Rejects(t *testing.T) {
	t.Run("empty_answer", func(t *testing.T) {
		svc, factsRepo, _ := setupAnswerService(service.AnswerServiceOptions{})
		_, err := svc.Validate(context.Background(), &service.ValidateAnswerInput{DocumentID: uuid.New(), Answer: "  "})
		assert.ErrorIs(t, err, domain.ErrEmptyAnswer)
		factsRepo.AssertNotCalled(t, "GetByDocumentID", mock.Anything, mock.Anything)
	})

	t.Run("unknown_mode", func(t *testing.T) {
		svc, _, _ := setupAnswerService(service.AnswerServiceOptions{})
		_, err := svc.Validate(context.Background(), &service.ValidateAnswerInput{
			DocumentID: uuid.New(), Answer: "답변", Mode: "strict",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidMode)
	})

	t.Run("document_not_found", func(t *testing.T) {
		svc, factsRepo, logRepo := setupAnswerService(service.AnswerServiceOptions{})
		docID := uuid.New()
		factsRepo.On("GetByDocumentID", mock.Anything, docID).Return(nil, domain.ErrDocumentNotFound)

		_, err := svc.Validate(context.Background(), &service.ValidateAnswerInput{DocumentID: docID, Answer: "답변"})

		assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
		logRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

// --- ValidateBatch ---

func TestAnswerService_ValidateBatch_PreservesOrder(t *testing.T) {
	svc, factsRepo, logRepo := setupAnswerService(service.AnswerServiceOptions{Concurrency: 3})
	docID := uuid.New()

	factsRepo.On("GetByDocumentID", mock.Anything, docID).Return(storedFacts(t, docID, nil), nil).Once()
	logRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	answers := make([]string, 10)
	for i := range answers {
		if i%2 == 0 {
			answers[i] = fmt.Sprintf("답변 %d: 납부기한은 2025-05-31입니다.", i)
		} else {
			answers[i] = fmt.Sprintf("답변 %d: 문서를 확인하세요", i)
		}
	}

	verdicts, err := svc.ValidateBatch(context.Background(), &service.ValidateBatchInput{DocumentID: docID, Answers: answers})

	require.NoError(t, err)
	require.Len(t, verdicts, len(answers))
	for i, v := range verdicts {
		if i%2 == 0 {
			assert.True(t, v.Result.IsValid, "answer %d", i)
			assert.Equal(t, answers[i], v.FinalAnswer)
		} else {
			assert.False(t, v.Result.IsValid, "answer %d", i)
			assert.Equal(t, domain.RefusalMessage, v.FinalAnswer)
		}
	}
	logRepo.AssertNumberOfCalls(t, "Create", len(answers))
	factsRepo.AssertNumberOfCalls(t, "GetByDocumentID", 1)
}

func TestAnswerService_ValidateBatch_Rejects(t *testing.T) {
	svc, _, _ := setupAnswerService(service.AnswerServiceOptions{MaxBatchSize: 2})

	_, err := svc.ValidateBatch(context.Background(), &service.ValidateBatchInput{DocumentID: uuid.New()})
	assert.ErrorIs(t, err, domain.ErrEmptyAnswer)

	_, err = svc.ValidateBatch(context.Background(), &service.ValidateBatchInput{
		DocumentID: uuid.New(), Answers: []string{"a", "b", "c"},
	})
	assert.ErrorIs(t, err, domain.ErrBatchTooLarge)

	_, err = svc.ValidateBatch(context.Background(), &service.ValidateBatchInput{
		DocumentID: uuid.New(), Answers: []string{"a", ""},
	})
	assert.ErrorIs(t, err, domain.ErrEmptyAnswer)
}

// --- ValidateInline ---

func TestAnswerService_ValidateInline(t *testing.T) {
	svc, factsRepo, logRepo := setupAnswerService(service.AnswerServiceOptions{})
	facts := domain.ExtractedFacts{Penalties: []domain.Penalty{{Amount: "100000", Type: "과태료"}}}

	t.Run("plain", func(t *testing.T) {
		verdict, err := svc.ValidateInline(context.Background(), &service.ValidateInlineInput{
			Answer: "과태료는 50000원입니다",
			Facts:  facts,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.ValidationModePlain, verdict.Mode)
		assert.False(t, verdict.Result.IsValid)
		assert.Equal(t, domain.RefusalMessage, verdict.FinalAnswer)
		assert.Nil(t, verdict.DocumentID)
	})

	t.Run("hybrid", func(t *testing.T) {
		verdict, err := svc.ValidateInline(context.Background(), &service.ValidateInlineInput{
			Answer: "과태료는 100000원입니다",
			Hybrid: &domain.HybridData{Penalties: facts.Penalties},
		})
		require.NoError(t, err)
		assert.Equal(t, domain.ValidationModeHybrid, verdict.Mode)
		assert.True(t, verdict.Result.IsValid)
	})

	factsRepo.AssertNotCalled(t, "GetByDocumentID", mock.Anything, mock.Anything)
	logRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// --- ListValidations ---

func TestAnswerService_ListValidations(t *testing.T) {
	svc, _, logRepo := setupAnswerService(service.AnswerServiceOptions{})
	docID := uuid.New()
	entries := []domain.AnswerValidation{{ID: uuid.New(), DocumentID: docID, IsValid: true}}

	logRepo.On("ListByDocument", mock.Anything, docID, 0, 20).Return(entries, 1, nil)

	got, total, err := svc.ListValidations(context.Background(), docID, 0, 20)

	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, entries, got)
}
