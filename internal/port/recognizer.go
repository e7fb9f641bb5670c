package port

import (
	"context"

	"docverify/internal/domain"
)

// EntityRecognizer abstracts the named-entity recognition collaborator.
// Offsets of the returned entities are rune offsets into text.
type EntityRecognizer interface {
	Recognize(ctx context.Context, text string) ([]domain.Entity, error)
}
