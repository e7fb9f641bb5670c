package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// DocumentFacts is the persisted extraction result for one document.
// Canonical, entity and relation payloads are stored as JSONB.
type DocumentFacts struct {
	DocumentID    uuid.UUID       `db:"document_id" json:"document_id"`
	Canonical     json.RawMessage `db:"canonical" json:"canonical"`
	Entities      json.RawMessage `db:"entities" json:"entities"`
	NEREntities   json.RawMessage `db:"ner_entities" json:"ner_entities"`
	Relations     json.RawMessage `db:"relations" json:"relations"`
	Merged        json.RawMessage `db:"merged" json:"merged"`
	Source        Source          `db:"source" json:"source"`
	SourceTextKey string          `db:"source_text_key" json:"source_text_key"`
	TextSHA256    string          `db:"text_sha256" json:"text_sha256"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`
}

// AnswerValidation is the audit row written for every answer validation against stored facts.
type AnswerValidation struct {
	ID         uuid.UUID       `db:"id" json:"id"`
	DocumentID uuid.UUID       `db:"document_id" json:"document_id"`
	Mode       ValidationMode  `db:"mode" json:"mode"`
	IsValid    bool            `db:"is_valid" json:"is_valid"`
	IssueCount int             `db:"issue_count" json:"issue_count"`
	Issues     json.RawMessage `db:"issues" json:"issues"`
	AnswerHash string          `db:"answer_sha256" json:"answer_sha256"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
}
