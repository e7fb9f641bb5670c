package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"docverify/internal/domain"
	"docverify/internal/port"
)

type factsRepo struct {
	db *sqlx.DB
}

// NewFactsRepo creates a new PostgreSQL-backed FactsRepository.
func NewFactsRepo(db *sqlx.DB) port.FactsRepository {
	return &factsRepo{db: db}
}

// Upsert replaces the whole fact set of a document. created_at survives re-extraction.
func (r *factsRepo) Upsert(ctx context.Context, facts *domain.DocumentFacts) error {
	now := time.Now().UTC()
	if facts.CreatedAt.IsZero() {
		facts.CreatedAt = now
	}
	facts.UpdatedAt = now

	query := `
		INSERT INTO document_facts (
			document_id, canonical, entities, ner_entities, relations, merged,
			source, source_text_key, text_sha256, created_at, updated_at
		) VALUES (
			:document_id, :canonical, :entities, :ner_entities, :relations, :merged,
			:source, :source_text_key, :text_sha256, :created_at, :updated_at
		)
		ON CONFLICT (document_id) DO UPDATE SET
			canonical = EXCLUDED.canonical,
			entities = EXCLUDED.entities,
			ner_entities = EXCLUDED.ner_entities,
			relations = EXCLUDED.relations,
			merged = EXCLUDED.merged,
			source = EXCLUDED.source,
			source_text_key = EXCLUDED.source_text_key,
			text_sha256 = EXCLUDED.text_sha256,
			updated_at = EXCLUDED.updated_at`

	if _, err := r.db.NamedExecContext(ctx, query, facts); err != nil {
		return fmt.Errorf("factsRepo.Upsert: %w", err)
	}
	return nil
}

func (r *factsRepo) GetByDocumentID(ctx context.Context, documentID uuid.UUID) (*domain.DocumentFacts, error) {
	var facts domain.DocumentFacts
	err := r.db.GetContext(ctx, &facts,
		"SELECT * FROM document_facts WHERE document_id = $1", documentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("factsRepo.GetByDocumentID: %w", err)
	}
	return &facts, nil
}

func (r *factsRepo) Delete(ctx context.Context, documentID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM document_facts WHERE document_id = $1", documentID)
	if err != nil {
		return fmt.Errorf("factsRepo.Delete: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("factsRepo.Delete rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}
