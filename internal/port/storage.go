package port

import "context"

// ArchivedText describes a stored source text.
type ArchivedText struct {
	Key      string
	Location string
	SHA256   string
	Size     int64
}

// TextStore keeps the recognized source text of each document. Implementations are bound
// to one bucket.
type TextStore interface {
	PutText(ctx context.Context, key, text, digest string) (*ArchivedText, error)
	GetText(ctx context.Context, key string) (string, error)
	DeleteText(ctx context.Context, key string) error
}
