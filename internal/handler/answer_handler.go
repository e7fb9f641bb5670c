package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"docverify/internal/domain"
	"docverify/internal/export"
	"docverify/internal/logging"
	"docverify/internal/service"
)

// AnswerHandler handles answer validation endpoints.
type AnswerHandler struct {
	answerService service.AnswerService
}

// NewAnswerHandler creates a new AnswerHandler.
func NewAnswerHandler(answerService service.AnswerService) *AnswerHandler {
	return &AnswerHandler{answerService: answerService}
}

// ValidateAnswerRequest is the body of POST /documents/:id/answers/validate.
type ValidateAnswerRequest struct {
	Answer string                `json:"answer" binding:"required"`
	Mode   domain.ValidationMode `json:"mode"`
}

// ValidateBatchRequest is the body of POST /documents/:id/answers/validate-batch.
type ValidateBatchRequest struct {
	Answers []string              `json:"answers" binding:"required"`
	Mode    domain.ValidationMode `json:"mode"`
}

// ValidateInlineRequest is the body of POST /answers/validate.
type ValidateInlineRequest struct {
	Answer string                `json:"answer" binding:"required"`
	Facts  domain.ExtractedFacts `json:"facts"`
	Hybrid *domain.HybridData    `json:"hybrid"`
}

// Validate handles POST /api/v1/documents/:id/answers/validate
// @Summary Validate an answer against stored facts
// @Tags answers
// @Accept json
// @Produce json
// @Param id path string true "Document ID (UUID)"
// @Param request body ValidateAnswerRequest true "Candidate answer"
// @Success 200 {object} APIResponse{data=service.AnswerVerdict}
// @Failure 400 {object} APIResponse "Invalid request"
// @Failure 404 {object} APIResponse "No facts stored"
// @Security BearerAuth
// @Router /documents/{id}/answers/validate [post]
func (h *AnswerHandler) Validate(c *gin.Context) {
	docID, ok := parseDocumentID(c)
	if !ok {
		return
	}

	var req ValidateAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "answer is required")
		return
	}

	verdict, err := h.answerService.Validate(c.Request.Context(), &service.ValidateAnswerInput{
		DocumentID: docID,
		Answer:     req.Answer,
		Mode:       req.Mode,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, verdict)
}

// ValidateBatch handles POST /api/v1/documents/:id/answers/validate-batch
func (h *AnswerHandler) ValidateBatch(c *gin.Context) {
	docID, ok := parseDocumentID(c)
	if !ok {
		return
	}

	var req ValidateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "answers is required")
		return
	}

	verdicts, err := h.answerService.ValidateBatch(c.Request.Context(), &service.ValidateBatchInput{
		DocumentID: docID,
		Answers:    req.Answers,
		Mode:       req.Mode,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, verdicts)
}

// ValidateInline handles POST /api/v1/answers/validate
// Validates against facts supplied in the request; nothing is stored.
func (h *AnswerHandler) ValidateInline(c *gin.Context) {
	var req ValidateInlineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "answer is required")
		return
	}

	verdict, err := h.answerService.ValidateInline(c.Request.Context(), &service.ValidateInlineInput{
		Answer: req.Answer,
		Facts:  req.Facts,
		Hybrid: req.Hybrid,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, verdict)
}

// ListValidations handles GET /api/v1/documents/:id/validations
// With ?format=csv the page is streamed as a CSV attachment.
func (h *AnswerHandler) ListValidations(c *gin.Context) {
	docID, ok := parseDocumentID(c)
	if !ok {
		return
	}
	offset, limit := parsePagination(c)

	entries, total, err := h.answerService.ListValidations(c.Request.Context(), docID, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	if c.Query("format") != "csv" {
		RespondPaginated(c, entries, PagMeta{Total: total, Offset: offset, Limit: limit})
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="validations-%s.csv"`, docID))
	c.Status(http.StatusOK)
	if _, err := c.Writer.Write(export.BOM); err != nil {
		return
	}
	w := export.NewValidationWriter(c.Writer)
	if err := w.WriteHeader(); err != nil {
		return
	}
	if err := w.WriteEntries(entries); err != nil {
		logging.For("handler.AnswerHandler").Warnf("writing validation CSV for %s: %v", docID, err)
	}
	w.Flush()
}
