package domain

import "errors"

var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrDocumentNotFound   = errors.New("document facts not found")
	ErrEmptyText          = errors.New("document text is empty")
	ErrEmptyAnswer        = errors.New("candidate answer is empty")
	ErrInvalidEntities    = errors.New("entity list contains invalid spans or labels")
	ErrInvalidMode        = errors.New("unknown validation mode")
	ErrArchiveFailed      = errors.New("archiving source text to storage failed")
	ErrRecognizerDisabled = errors.New("entity recognizer is not configured")
	ErrBatchTooLarge      = errors.New("too many answers in one batch")
	ErrCorruptFacts       = errors.New("stored document facts could not be decoded")
)
