package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"docverify/internal/cache"
	"docverify/internal/canonical"
	"docverify/internal/domain"
	"docverify/internal/extractor"
	"docverify/internal/logging"
	"docverify/internal/merger"
	"docverify/internal/metrics"
	"docverify/internal/ner"
	"docverify/internal/port"
	"docverify/internal/relation"
	"docverify/internal/storage"
)

// ExtractInput is the DTO for extracting the facts of one document.
type ExtractInput struct {
	DocumentID uuid.UUID // uuid.Nil assigns a new id
	Text       string
	// NEREntities are recognizer entities computed by the caller. When set the
	// configured recognizer is not called.
	NEREntities    []domain.Entity
	SkipRecognizer bool
}

// FactsOutput is the typed view of a document's stored facts.
type FactsOutput struct {
	DocumentID      uuid.UUID                    `json:"document_id"`
	Canonical       domain.CanonicalDocumentData `json:"canonical"`
	Entities        []domain.Entity              `json:"entities"`
	NEREntities     []domain.Entity              `json:"ner_entities"`
	Relations       []domain.Relation            `json:"relations"`
	Source          domain.Source                `json:"source"`
	SourceTextKey   string                       `json:"source_text_key,omitempty"`
	TextSHA256      string                       `json:"text_sha256"`
	RecognizerError string                       `json:"recognizer_error,omitempty"`
	CreatedAt       time.Time                    `json:"created_at"`
	UpdatedAt       time.Time                    `json:"updated_at"`
}

// FactService defines the document fact extraction contract.
type FactService interface {
	Extract(ctx context.Context, input *ExtractInput) (*FactsOutput, error)
	Get(ctx context.Context, documentID uuid.UUID) (*FactsOutput, error)
	SourceText(ctx context.Context, documentID uuid.UUID) (string, error)
	Delete(ctx context.Context, documentID uuid.UUID) error
}

type factService struct {
	repo       port.FactsRepository
	recognizer port.EntityRecognizer // nil runs rule extraction only
	archive    *storage.TextArchive
	loader     *factsLoader
	merger     *merger.Merger
	linker     *relation.Linker
	builder    *canonical.Builder
}

// NewFactService creates a new FactService implementation. recognizer, archive and
// factsCache may be nil.
func NewFactService(
	repo port.FactsRepository,
	recognizer port.EntityRecognizer,
	archive *storage.TextArchive,
	factsCache *cache.FactsCache,
	m *merger.Merger,
	linker *relation.Linker,
	builder *canonical.Builder,
) FactService {
	if m == nil {
		m = merger.New(merger.DefaultConfig(), extractor.New())
	}
	if linker == nil {
		linker = relation.New(relation.DefaultConfig())
	}
	if builder == nil {
		builder = canonical.NewBuilder(nil)
	}
	return &factService{
		repo:       repo,
		recognizer: recognizer,
		archive:    archive,
		loader:     &factsLoader{repo: repo, cache: factsCache},
		merger:     m,
		linker:     linker,
		builder:    builder,
	}
}

func (s *factService) Extract(ctx context.Context, input *ExtractInput) (*FactsOutput, error) {
	start := time.Now()
	out, err := s.extract(ctx, input)
	source := domain.SourceRule
	if out != nil {
		source = out.Source
	}
	metrics.ObserveExtraction(source, err, time.Since(start))
	return out, err
}

func (s *factService) extract(ctx context.Context, input *ExtractInput) (*FactsOutput, error) {
	log := logging.For("service.FactService")

	text := extractor.PrepareText(input.Text)
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrEmptyText
	}
	if err := checkEntities(input.NEREntities, utf8.RuneCountInString(text)); err != nil {
		return nil, err
	}

	documentID := input.DocumentID
	if documentID == uuid.Nil {
		documentID = uuid.New()
	}

	nerEntities := input.NEREntities
	recognizerErr := ""
	if nerEntities == nil && !input.SkipRecognizer && s.recognizer != nil {
		recognized, err := s.recognizer.Recognize(ctx, text)
		if err != nil {
			errType := classifyRecognizerError(err)
			metrics.RecognizerError(errType)
			log.WithField("document_id", documentID).Warnf("recognizer %s, continuing with rule extraction: %v", errType, err)
			recognizerErr = errType
		} else {
			nerEntities = recognized
		}
	}
	if nerEntities == nil {
		nerEntities = []domain.Entity{}
	}

	merged := s.merger.Merge(nerEntities, text)
	relations := s.linker.ExtractRelations(text, merged.Entities)
	if relations == nil {
		relations = []domain.Relation{}
	}
	canon := s.builder.Build(merged, &documentID)

	digest := storage.Digest(text)
	key, err := s.archive.Put(ctx, documentID, text)
	if err != nil {
		return nil, err
	}

	facts := &domain.DocumentFacts{
		DocumentID:    documentID,
		Source:        canon.Source,
		SourceTextKey: key,
		TextSHA256:    digest,
	}
	payloads := []struct {
		dst *json.RawMessage
		v   interface{}
	}{
		{&facts.Canonical, canon},
		{&facts.Entities, merged.Entities},
		{&facts.NEREntities, nerEntities},
		{&facts.Relations, relations},
		{&facts.Merged, merged},
	}
	for _, p := range payloads {
		data, err := json.Marshal(p.v)
		if err != nil {
			return nil, fmt.Errorf("factService.Extract: encoding facts: %w", err)
		}
		*p.dst = data
	}

	if existing, getErr := s.repo.GetByDocumentID(ctx, documentID); getErr == nil {
		facts.CreatedAt = existing.CreatedAt
	}
	if err := s.repo.Upsert(ctx, facts); err != nil {
		return nil, err
	}
	s.loader.store(facts)

	log.WithFields(logrus.Fields{
		"document_id": documentID,
		"source":      canon.Source,
		"entities":    len(merged.Entities),
		"relations":   len(relations),
	}).Info("facts extracted")

	return &FactsOutput{
		DocumentID:      documentID,
		Canonical:       canon,
		Entities:        merged.Entities,
		NEREntities:     nerEntities,
		Relations:       relations,
		Source:          canon.Source,
		SourceTextKey:   key,
		TextSHA256:      digest,
		RecognizerError: recognizerErr,
		CreatedAt:       facts.CreatedAt,
		UpdatedAt:       facts.UpdatedAt,
	}, nil
}

func (s *factService) Get(ctx context.Context, documentID uuid.UUID) (*FactsOutput, error) {
	facts, err := s.loader.load(ctx, documentID)
	if err != nil {
		return nil, err
	}
	decoded, err := decodeFacts(facts)
	if err != nil {
		return nil, err
	}
	return &FactsOutput{
		DocumentID:    facts.DocumentID,
		Canonical:     decoded.Canonical,
		Entities:      decoded.Entities,
		NEREntities:   decoded.NEREntities,
		Relations:     decoded.Relations,
		Source:        facts.Source,
		SourceTextKey: facts.SourceTextKey,
		TextSHA256:    facts.TextSHA256,
		CreatedAt:     facts.CreatedAt,
		UpdatedAt:     facts.UpdatedAt,
	}, nil
}

func (s *factService) SourceText(ctx context.Context, documentID uuid.UUID) (string, error) {
	facts, err := s.loader.load(ctx, documentID)
	if err != nil {
		return "", err
	}
	return s.archive.Get(ctx, facts.SourceTextKey)
}

func (s *factService) Delete(ctx context.Context, documentID uuid.UUID) error {
	facts, err := s.repo.GetByDocumentID(ctx, documentID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, documentID); err != nil {
		return err
	}
	s.loader.forget(documentID)
	if err := s.archive.Remove(ctx, facts.SourceTextKey); err != nil {
		logging.For("service.FactService").WithField("document_id", documentID).
			Warnf("failed to remove archived text %s: %v", facts.SourceTextKey, err)
	}
	return nil
}

// checkEntities rejects caller-supplied entities with an unknown label or a span
// outside the text.
func checkEntities(entities []domain.Entity, textLen int) error {
	for i, e := range entities {
		if !domain.ValidLabels[e.Label] {
			return fmt.Errorf("%w: entity %d has label %q", domain.ErrInvalidEntities, i, e.Label)
		}
		if e.Start < 0 || e.End <= e.Start || e.End > textLen {
			return fmt.Errorf("%w: entity %d span [%d, %d) outside text of %d runes",
				domain.ErrInvalidEntities, i, e.Start, e.End, textLen)
		}
	}
	return nil
}

func classifyRecognizerError(err error) string {
	if errors.Is(err, ner.ErrCircuitOpen) {
		return "circuit_open"
	}
	var rlErr *ner.RateLimitError
	if errors.As(err, &rlErr) {
		return "rate_limited"
	}
	return "failed"
}
