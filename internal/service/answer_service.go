package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"docverify/internal/cache"
	"docverify/internal/domain"
	"docverify/internal/logging"
	"docverify/internal/metrics"
	"docverify/internal/port"
	"docverify/internal/storage"
	"docverify/internal/validator"
)

const (
	defaultBatchConcurrency = 4
	defaultMaxBatchSize     = 50
)

// ValidateAnswerInput is the DTO for validating one answer against stored facts.
type ValidateAnswerInput struct {
	DocumentID uuid.UUID
	Answer     string
	// Mode forces plain or hybrid validation. Empty selects hybrid when the facts
	// were extracted with recognizer entities.
	Mode domain.ValidationMode
}

// ValidateBatchInput is the DTO for validating several answers for one document.
type ValidateBatchInput struct {
	DocumentID uuid.UUID
	Answers    []string
	Mode       domain.ValidationMode
}

// ValidateInlineInput is the DTO for validating an answer against caller-supplied facts.
// Hybrid validation runs when Hybrid is set.
type ValidateInlineInput struct {
	Answer string
	Facts  domain.ExtractedFacts
	Hybrid *domain.HybridData
}

// AnswerVerdict is the outcome of one validation call.
type AnswerVerdict struct {
	ValidationID *uuid.UUID              `json:"validation_id,omitempty"`
	DocumentID   *uuid.UUID              `json:"document_id,omitempty"`
	Mode         domain.ValidationMode   `json:"mode"`
	Result       domain.ValidationResult `json:"result"`
	// FinalAnswer is the candidate when it is valid, the refusal message otherwise.
	FinalAnswer string `json:"final_answer"`
}

// AnswerService defines the answer validation contract.
type AnswerService interface {
	Validate(ctx context.Context, input *ValidateAnswerInput) (*AnswerVerdict, error)
	ValidateBatch(ctx context.Context, input *ValidateBatchInput) ([]AnswerVerdict, error)
	ValidateInline(ctx context.Context, input *ValidateInlineInput) (*AnswerVerdict, error)
	ListValidations(ctx context.Context, documentID uuid.UUID, offset, limit int) ([]domain.AnswerValidation, int, error)
}

// AnswerServiceOptions tunes batch validation.
type AnswerServiceOptions struct {
	Concurrency  int
	MaxBatchSize int
}

type answerService struct {
	logRepo   port.ValidationLogRepository
	loader    *factsLoader
	validator *validator.Validator
	opts      AnswerServiceOptions
}

// NewAnswerService creates a new AnswerService implementation. factsCache may be nil.
func NewAnswerService(
	factsRepo port.FactsRepository,
	logRepo port.ValidationLogRepository,
	factsCache *cache.FactsCache,
	v *validator.Validator,
	opts AnswerServiceOptions,
) AnswerService {
	if v == nil {
		v = validator.New(validator.DefaultConfig(), nil, nil)
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultBatchConcurrency
	}
	if opts.MaxBatchSize <= 0 {
		opts.MaxBatchSize = defaultMaxBatchSize
	}
	return &answerService{
		logRepo:   logRepo,
		loader:    &factsLoader{repo: factsRepo, cache: factsCache},
		validator: v,
		opts:      opts,
	}
}

func (s *answerService) Validate(ctx context.Context, input *ValidateAnswerInput) (*AnswerVerdict, error) {
	if err := checkAnswer(input.Answer, input.Mode); err != nil {
		return nil, err
	}
	decoded, err := s.loadDecoded(ctx, input.DocumentID)
	if err != nil {
		return nil, err
	}
	verdict := s.validateStored(input.DocumentID, input.Answer, input.Mode, decoded)
	s.record(ctx, verdict, input.Answer)
	return verdict, nil
}

// ValidateBatch validates every answer against the same stored facts. Verdicts keep
// the order of the answers.
func (s *answerService) ValidateBatch(ctx context.Context, input *ValidateBatchInput) ([]AnswerVerdict, error) {
	if len(input.Answers) == 0 {
		return nil, domain.ErrEmptyAnswer
	}
	if len(input.Answers) > s.opts.MaxBatchSize {
		return nil, fmt.Errorf("%w: %d answers, limit %d", domain.ErrBatchTooLarge, len(input.Answers), s.opts.MaxBatchSize)
	}
	for _, answer := range input.Answers {
		if err := checkAnswer(answer, input.Mode); err != nil {
			return nil, err
		}
	}

	decoded, err := s.loadDecoded(ctx, input.DocumentID)
	if err != nil {
		return nil, err
	}

	verdicts := make([]AnswerVerdict, len(input.Answers))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Concurrency)
	for i, answer := range input.Answers {
		i, answer := i, answer
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			verdict := s.validateStored(input.DocumentID, answer, input.Mode, decoded)
			s.record(gCtx, verdict, answer)
			verdicts[i] = *verdict
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return verdicts, nil
}

func (s *answerService) ValidateInline(_ context.Context, input *ValidateInlineInput) (*AnswerVerdict, error) {
	if err := checkAnswer(input.Answer, ""); err != nil {
		return nil, err
	}
	var (
		mode   domain.ValidationMode
		result domain.ValidationResult
	)
	if input.Hybrid != nil {
		mode = domain.ValidationModeHybrid
		result = s.validator.ValidateHybrid(input.Answer, *input.Hybrid)
	} else {
		mode = domain.ValidationModePlain
		result = s.validator.Validate(input.Answer, input.Facts)
	}
	metrics.ObserveValidation(mode, result)
	return newVerdict(nil, mode, input.Answer, result), nil
}

func (s *answerService) ListValidations(ctx context.Context, documentID uuid.UUID, offset, limit int) ([]domain.AnswerValidation, int, error) {
	return s.logRepo.ListByDocument(ctx, documentID, offset, limit)
}

func (s *answerService) loadDecoded(ctx context.Context, documentID uuid.UUID) (*decodedFacts, error) {
	facts, err := s.loader.load(ctx, documentID)
	if err != nil {
		return nil, err
	}
	return decodeFacts(facts)
}

func (s *answerService) validateStored(documentID uuid.UUID, answer string, mode domain.ValidationMode, decoded *decodedFacts) *AnswerVerdict {
	if mode == "" {
		mode = domain.ValidationModePlain
		if decoded.hasRecognizerData() {
			mode = domain.ValidationModeHybrid
		}
	}

	var result domain.ValidationResult
	if mode == domain.ValidationModeHybrid {
		result = s.validator.ValidateHybrid(answer, decoded.hybridData())
	} else {
		result = s.validator.Validate(answer, decoded.Canonical.Facts())
	}
	metrics.ObserveValidation(mode, result)

	id := documentID
	return newVerdict(&id, mode, answer, result)
}

// record writes the audit row. A failed write is logged and does not change the verdict.
func (s *answerService) record(ctx context.Context, verdict *AnswerVerdict, answer string) {
	if s.logRepo == nil || verdict.DocumentID == nil {
		return
	}
	issues, err := json.Marshal(verdict.Result.Issues)
	if err != nil {
		issues = json.RawMessage("[]")
	}
	entry := &domain.AnswerValidation{
		ID:         uuid.New(),
		DocumentID: *verdict.DocumentID,
		Mode:       verdict.Mode,
		IsValid:    verdict.Result.IsValid,
		IssueCount: len(verdict.Result.Issues),
		Issues:     issues,
		AnswerHash: storage.Digest(answer),
	}
	if err := s.logRepo.Create(ctx, entry); err != nil {
		logging.For("service.AnswerService").WithField("document_id", entry.DocumentID).
			Warnf("failed to write validation log: %v", err)
		return
	}
	verdict.ValidationID = &entry.ID
}

func newVerdict(documentID *uuid.UUID, mode domain.ValidationMode, answer string, result domain.ValidationResult) *AnswerVerdict {
	final := answer
	if !result.IsValid {
		final = domain.RefusalMessage
	}
	return &AnswerVerdict{
		DocumentID:  documentID,
		Mode:        mode,
		Result:      result,
		FinalAnswer: final,
	}
}

func checkAnswer(answer string, mode domain.ValidationMode) error {
	if strings.TrimSpace(answer) == "" {
		return domain.ErrEmptyAnswer
	}
	if mode != "" && !domain.ValidValidationModes[mode] {
		return fmt.Errorf("%w: %q", domain.ErrInvalidMode, mode)
	}
	return nil
}
