package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"docverify/internal/domain"
	"docverify/internal/port"
)

type validationLogRepo struct {
	db *sqlx.DB
}

// NewValidationLogRepo creates a new PostgreSQL-backed ValidationLogRepository.
func NewValidationLogRepo(db *sqlx.DB) port.ValidationLogRepository {
	return &validationLogRepo{db: db}
}

func (r *validationLogRepo) Create(ctx context.Context, entry *domain.AnswerValidation) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	entry.CreatedAt = time.Now().UTC()

	query := `INSERT INTO answer_validations (
		id, document_id, mode, is_valid, issue_count, issues, answer_sha256, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.DocumentID, entry.Mode, entry.IsValid,
		entry.IssueCount, entry.Issues, entry.AnswerHash, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("validationLogRepo.Create: %w", err)
	}
	return nil
}

func (r *validationLogRepo) ListByDocument(ctx context.Context, documentID uuid.UUID, offset, limit int) ([]domain.AnswerValidation, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM answer_validations WHERE document_id = $1", documentID)
	if err != nil {
		return nil, 0, fmt.Errorf("validationLogRepo.ListByDocument count: %w", err)
	}

	var entries []domain.AnswerValidation
	err = r.db.SelectContext(ctx, &entries,
		`SELECT * FROM answer_validations WHERE document_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		documentID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("validationLogRepo.ListByDocument: %w", err)
	}
	return entries, total, nil
}
