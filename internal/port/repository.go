package port

import (
	"context"

	"github.com/google/uuid"

	"docverify/internal/domain"
)

// FactsRepository defines the contract for document facts persistence.
type FactsRepository interface {
	Upsert(ctx context.Context, facts *domain.DocumentFacts) error
	GetByDocumentID(ctx context.Context, documentID uuid.UUID) (*domain.DocumentFacts, error)
	Delete(ctx context.Context, documentID uuid.UUID) error
}

// ValidationLogRepository defines the contract for the answer validation audit trail.
// Rows are append-only.
type ValidationLogRepository interface {
	Create(ctx context.Context, entry *domain.AnswerValidation) error
	ListByDocument(ctx context.Context, documentID uuid.UUID, offset, limit int) ([]domain.AnswerValidation, int, error)
}
