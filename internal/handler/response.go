package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"docverify/internal/domain"
	"docverify/internal/logging"
	"docverify/internal/middleware"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, data interface{}, meta PagMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrDocumentNotFound):
		return http.StatusNotFound, "DOCUMENT_NOT_FOUND", "no facts stored for this document"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized"
	case errors.Is(err, domain.ErrEmptyText):
		return http.StatusBadRequest, "EMPTY_TEXT", "document text is empty"
	case errors.Is(err, domain.ErrEmptyAnswer):
		return http.StatusBadRequest, "EMPTY_ANSWER", "answer is empty"
	case errors.Is(err, domain.ErrInvalidEntities):
		return http.StatusBadRequest, "INVALID_ENTITIES", "entities must have a known label and a span inside the text"
	case errors.Is(err, domain.ErrInvalidMode):
		return http.StatusBadRequest, "INVALID_MODE", "mode must be 'plain' or 'hybrid'"
	case errors.Is(err, domain.ErrBatchTooLarge):
		return http.StatusRequestEntityTooLarge, "BATCH_TOO_LARGE", "too many answers in one batch"
	case errors.Is(err, domain.ErrRecognizerDisabled):
		return http.StatusServiceUnavailable, "RECOGNIZER_DISABLED", "entity recognizer is not configured"
	case errors.Is(err, domain.ErrArchiveFailed):
		return http.StatusInternalServerError, "ARCHIVE_FAILED", "source text could not be archived"
	case errors.Is(err, domain.ErrCorruptFacts):
		return http.StatusInternalServerError, "CORRUPT_FACTS", "stored facts could not be read"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		logging.For("handler").WithField("request_id", middleware.GetRequestID(c)).
			Errorf("internal error: %v", err)
	}
	RespondError(c, status, code, msg)
}

// parseDocumentID reads the :id path parameter. Returns false if it is not a UUID
// (error response already written).
func parseDocumentID(c *gin.Context) (uuid.UUID, bool) {
	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid document ID")
		return uuid.Nil, false
	}
	return docID, true
}

func parsePagination(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return offset, limit
}
