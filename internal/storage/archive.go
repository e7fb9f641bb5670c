// Package storage archives the recognized source text each fact set was extracted from.
package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"

	"docverify/internal/domain"
	"docverify/internal/port"
)

// TextArchive stores source texts under <prefix>/<document id>/<sha256>.txt.
type TextArchive struct {
	store  port.TextStore
	prefix string
}

// NewTextArchive creates a TextArchive. A nil store disables archiving.
func NewTextArchive(store port.TextStore, prefix string) *TextArchive {
	return &TextArchive{store: store, prefix: strings.Trim(prefix, "/")}
}

// Enabled reports whether texts are actually written.
func (a *TextArchive) Enabled() bool {
	return a != nil && a.store != nil
}

// Digest returns the hex SHA-256 of text.
func Digest(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// Key returns the object key for a document text.
func (a *TextArchive) Key(documentID uuid.UUID, digest string) string {
	return path.Join(a.prefix, documentID.String(), digest+".txt")
}

// Put uploads text and returns its key. It returns "" when archiving is disabled.
func (a *TextArchive) Put(ctx context.Context, documentID uuid.UUID, text string) (string, error) {
	if !a.Enabled() {
		return "", nil
	}
	digest := Digest(text)
	key := a.Key(documentID, digest)
	if _, err := a.store.PutText(ctx, key, text, digest); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrArchiveFailed, err)
	}
	return key, nil
}

// Get downloads an archived text.
func (a *TextArchive) Get(ctx context.Context, key string) (string, error) {
	if !a.Enabled() || key == "" {
		return "", domain.ErrNotFound
	}
	text, err := a.store.GetText(ctx, key)
	if err != nil {
		return "", fmt.Errorf("downloading source text: %w", err)
	}
	return text, nil
}

// Remove deletes an archived text. Empty keys are ignored.
func (a *TextArchive) Remove(ctx context.Context, key string) error {
	if !a.Enabled() || key == "" {
		return nil
	}
	if err := a.store.DeleteText(ctx, key); err != nil {
		return fmt.Errorf("deleting source text: %w", err)
	}
	return nil
}
