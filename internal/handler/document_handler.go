package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"taxdecl/internal/domain"
	"taxdecl/internal/middleware"
	"taxdecl/internal/port"
	"taxdecl/internal/service"
)

// DocumentHandler handles document endpoints.
type DocumentHandler struct {
	documentService   service.DocumentService
	processingService service.ProcessingService
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(documentService service.DocumentService, processingService service.ProcessingService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService, processingService: processingService}
}

// List handles GET /api/v1/documents
// @Summary List documents
// @Description List the caller's documents, newest first
// @Tags documents
// @Produce json
// @Param form_type query string false "Filter by form type" Enums(form_103, form_104, unknown)
// @Param status query string false "Filter by processing status" Enums(pending, processing, completed, failed)
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} Response{data=[]DocumentResult,meta=PagMeta} "List of documents"
// @Failure 400 {object} ErrorResponseBody "Invalid filter"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /documents [get]
func (h *DocumentHandler) List(c *gin.Context) {
	var filter port.DocumentFilter
	if v := c.Query("form_type"); v != "" {
		ft := domain.FormType(v)
		filter.FormType = &ft
	}
	if v := c.Query("status"); v != "" {
		st := domain.ProcessingStatus(v)
		filter.Status = &st
	}
	offset, limit := parsePagination(c)

	docs, total, err := h.documentService.List(c.Request.Context(), middleware.GetOwner(c), filter, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	results := make([]DocumentResult, len(docs))
	for i := range docs {
		results[i] = toDocumentResult(&docs[i], false)
	}
	RespondPaginated(c, results, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/documents/:id
// @Summary Get a document
// @Tags documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} Response{data=DocumentResult}
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Security BearerAuth
// @Router /documents/{id} [get]
func (h *DocumentHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	doc, err := h.documentService.GetByID(c.Request.Context(), middleware.GetOwner(c), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, toDocumentResult(doc, false))
}

// GetRecord handles GET /api/v1/documents/:id/record
// @Summary Get the decoded record
// @Description Form 103 line items and totals, or the Form 104 field record with its six
// @Description withholding brackets.
// @Tags documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} Response{data=DocumentRecordResult}
// @Failure 404 {object} ErrorResponseBody "Document or record not found"
// @Failure 409 {object} ErrorResponseBody "Document not completed"
// @Security BearerAuth
// @Router /documents/{id}/record [get]
func (h *DocumentHandler) GetRecord(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	dr, err := h.documentService.GetRecord(c.Request.Context(), middleware.GetOwner(c), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, DocumentRecordResult{Document: toDocumentResult(dr.Document, false), Record: dr.Record})
}

// Export handles GET /api/v1/documents/:id/export
// @Summary Export the decoded record as xlsx
// @Tags documents
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Document ID"
// @Success 200 {file} binary
// @Failure 404 {object} ErrorResponseBody "Document or record not found"
// @Failure 409 {object} ErrorResponseBody "Document not completed"
// @Security BearerAuth
// @Router /documents/{id}/export [get]
func (h *DocumentHandler) Export(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	file, err := h.documentService.Export(c.Request.Context(), middleware.GetOwner(c), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+strconv.Quote(file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

// Reprocess handles POST /api/v1/documents/:id/reprocess
// @Summary Reprocess a document
// @Description Re-run classification, header extraction and decoding. Child records are
// @Description replaced, never merged.
// @Tags documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} Response{data=DocumentResult}
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Security BearerAuth
// @Router /documents/{id}/reprocess [post]
func (h *DocumentHandler) Reprocess(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	// Ownership check; Reprocess itself is unscoped.
	if _, err := h.documentService.GetByID(c.Request.Context(), middleware.GetOwner(c), id); err != nil {
		HandleError(c, err)
		return
	}

	doc, err := h.processingService.Reprocess(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, toDocumentResult(doc, false))
}

// Delete handles DELETE /api/v1/documents/:id
// @Summary Delete a document
// @Tags documents
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} Response{data=MessageResponse}
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Security BearerAuth
// @Router /documents/{id} [delete]
func (h *DocumentHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.documentService.Delete(c.Request.Context(), middleware.GetOwner(c), id); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, MessageResponse{Message: "document deleted"})
}
