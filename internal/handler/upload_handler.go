package handler

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"taxdecl/internal/middleware"
	"taxdecl/internal/service"
)

// UploadHandler handles single and bulk declaration uploads.
type UploadHandler struct {
	processingService service.ProcessingService
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(processingService service.ProcessingService) *UploadHandler {
	return &UploadHandler{processingService: processingService}
}

// Upload handles POST /api/v1/uploads
// @Summary Upload a tax declaration
// @Description Upload one PDF declaration (Form 103 or Form 104). The document is processed
// @Description synchronously; a declaration already uploaded by the same owner for the same
// @Description taxpayer, period and form is returned with is_duplicate=true.
// @Tags uploads
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "PDF declaration"
// @Param allow_duplicates formData bool false "Skip duplicate detection"
// @Success 201 {object} Response{data=DocumentResult} "Document processed"
// @Success 200 {object} Response{data=DocumentResult} "Duplicate of an earlier upload"
// @Failure 400 {object} ErrorResponseBody "Missing file or unsupported type"
// @Failure 401 {object} ErrorResponseBody "Invalid token"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Failure 500 {object} ErrorResponseBody "Upload failed"
// @Security BearerAuth
// @Router /uploads [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}

	input, err := readUpload(fileHeader)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_FILE", "file could not be read")
		return
	}
	input.Owner = middleware.GetOwner(c)
	input.AllowDuplicates = allowDuplicates(c)

	res, err := h.processingService.Process(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	if res.IsDuplicate {
		RespondOK(c, toDocumentResult(res.Document, true))
		return
	}
	RespondCreated(c, toDocumentResult(res.Document, false))
}

// BulkUpload handles POST /api/v1/uploads/bulk
// @Summary Upload several tax declarations
// @Description Upload up to 20 PDF declarations. Each file is processed independently and
// @Description results are returned in upload order; one failing file does not fail the rest.
// @Tags uploads
// @Accept multipart/form-data
// @Produce json
// @Param files formData file true "PDF declarations (repeat the field)"
// @Param allow_duplicates formData bool false "Skip duplicate detection"
// @Success 200 {object} Response{data=BulkUploadResult} "Per-file results"
// @Failure 400 {object} ErrorResponseBody "No files or too many files"
// @Failure 401 {object} ErrorResponseBody "Invalid token"
// @Security BearerAuth
// @Router /uploads/bulk [post]
func (h *UploadHandler) BulkUpload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil || len(form.File["files"]) == 0 {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "files field is required")
		return
	}

	owner := middleware.GetOwner(c)
	allow := allowDuplicates(c)
	inputs := make([]service.ProcessInput, 0, len(form.File["files"]))
	for _, fh := range form.File["files"] {
		input, err := readUpload(fh)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_FILE", fmt.Sprintf("file %q could not be read", fh.Filename))
			return
		}
		input.Owner = owner
		input.AllowDuplicates = allow
		inputs = append(inputs, input)
	}

	items, err := h.processingService.ProcessBatch(c.Request.Context(), inputs)
	if err != nil {
		HandleError(c, err)
		return
	}

	out := BulkUploadResult{Results: make([]BulkItemResult, len(items)), Total: len(items)}
	for i, item := range items {
		r := BulkItemResult{Filename: item.Filename}
		switch {
		case item.Err != nil:
			_, code, msg := MapDomainError(item.Err)
			r.Error = &APIError{Code: code, Message: msg}
			out.Failed++
		case item.Result.IsDuplicate:
			doc := toDocumentResult(item.Result.Document, true)
			r.Document = &doc
			out.Duplicates++
		default:
			doc := toDocumentResult(item.Result.Document, false)
			r.Document = &doc
			if doc.ProcessingError != nil {
				out.Failed++
			} else {
				out.Completed++
			}
		}
		out.Results[i] = r
	}
	RespondOK(c, out)
}

func readUpload(fh *multipart.FileHeader) (service.ProcessInput, error) {
	f, err := fh.Open()
	if err != nil {
		return service.ProcessInput{}, err
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return service.ProcessInput{}, err
	}
	return service.ProcessInput{
		Data:             data,
		OriginalFilename: fh.Filename,
		SizeBytes:        fh.Size,
	}, nil
}

// allowDuplicates reads the flag from the form or the query string.
func allowDuplicates(c *gin.Context) bool {
	raw := c.PostForm("allow_duplicates")
	if raw == "" {
		raw = c.Query("allow_duplicates")
	}
	v, _ := strconv.ParseBool(raw)
	return v
}
