package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"docverify/internal/domain"
	"docverify/internal/export"
	"docverify/internal/service"
)

// FactsHandler handles document fact extraction endpoints.
type FactsHandler struct {
	factService service.FactService
}

// NewFactsHandler creates a new FactsHandler.
func NewFactsHandler(factService service.FactService) *FactsHandler {
	return &FactsHandler{factService: factService}
}

// ExtractFactsRequest is the body of POST /documents/facts.
type ExtractFactsRequest struct {
	DocumentID     *uuid.UUID      `json:"document_id"`
	Text           string          `json:"text" binding:"required"`
	NEREntities    []domain.Entity `json:"ner_entities"`
	SkipRecognizer bool            `json:"skip_recognizer"`
}

// Extract handles POST /api/v1/documents/facts
// @Summary Extract document facts
// @Description Extract deadlines, obligations, penalties, amounts and accounts from document text and store them
// @Tags facts
// @Accept json
// @Produce json
// @Param request body ExtractFactsRequest true "Document text"
// @Success 201 {object} APIResponse{data=service.FactsOutput}
// @Failure 400 {object} APIResponse "Invalid request"
// @Security BearerAuth
// @Router /documents/facts [post]
func (h *FactsHandler) Extract(c *gin.Context) {
	var req ExtractFactsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "text is required")
		return
	}

	input := &service.ExtractInput{
		Text:           req.Text,
		NEREntities:    req.NEREntities,
		SkipRecognizer: req.SkipRecognizer,
	}
	if req.DocumentID != nil {
		input.DocumentID = *req.DocumentID
	}

	out, err := h.factService.Extract(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, out)
}

// Get handles GET /api/v1/documents/:id/facts
// @Summary Get stored document facts
// @Tags facts
// @Produce json
// @Param id path string true "Document ID (UUID)"
// @Success 200 {object} APIResponse{data=service.FactsOutput}
// @Failure 404 {object} APIResponse "No facts stored"
// @Security BearerAuth
// @Router /documents/{id}/facts [get]
func (h *FactsHandler) Get(c *gin.Context) {
	docID, ok := parseDocumentID(c)
	if !ok {
		return
	}

	out, err := h.factService.Get(c.Request.Context(), docID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, out)
}

// Export handles GET /api/v1/documents/:id/facts/export
// Responds with an xlsx workbook of the canonical facts.
func (h *FactsHandler) Export(c *gin.Context) {
	docID, ok := parseDocumentID(c)
	if !ok {
		return
	}

	out, err := h.factService.Get(c.Request.Context(), docID)
	if err != nil {
		HandleError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteCanonical(&buf, &out.Canonical); err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="facts-%s.xlsx"`, docID))
	c.Data(http.StatusOK, export.WorkbookContentType, buf.Bytes())
}

// SourceText handles GET /api/v1/documents/:id/source-text
// Responds with the archived text the facts were extracted from.
func (h *FactsHandler) SourceText(c *gin.Context) {
	docID, ok := parseDocumentID(c)
	if !ok {
		return
	}

	text, err := h.factService.SourceText(c.Request.Context(), docID)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
}

// Delete handles DELETE /api/v1/documents/:id/facts
func (h *FactsHandler) Delete(c *gin.Context) {
	docID, ok := parseDocumentID(c)
	if !ok {
		return
	}

	if err := h.factService.Delete(c.Request.Context(), docID); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "document facts deleted"})
}
