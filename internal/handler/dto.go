package handler

import (
	"time"

	"github.com/google/uuid"

	"taxdecl/internal/domain"
)

// DocumentResult is the public view of a processed document.
type DocumentResult struct {
	ID                uuid.UUID               `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	OriginalFilename  string                  `json:"original_filename" example:"declaracion_abril.pdf"`
	FormType          domain.FormType         `json:"form_type" example:"form_103"`
	ProcessingStatus  domain.ProcessingStatus `json:"processing_status" example:"completed"`
	ProcessingError   *string                 `json:"processing_error"`
	TaxID             *string                 `json:"identificacion_ruc" example:"1790012345001"`
	LegalName         *string                 `json:"razon_social" example:"ACME S.A."`
	PeriodMonth       *string                 `json:"periodo_mes" example:"ABRIL"`
	PeriodYear        *string                 `json:"periodo_anio" example:"2025"`
	PeriodMonthNumber *int                    `json:"periodo_mes_numero" example:"4"`
	FiscalPeriod      *string                 `json:"periodo_fiscal_completo" example:"ABRIL 2025"`
	CollectionDate    *time.Time              `json:"fecha_recaudacion"`
	TotalPages        int                     `json:"total_pages" example:"2"`
	RecordURL         *string                 `json:"record_url" example:"/api/v1/documents/550e8400-e29b-41d4-a716-446655440000/record"`
	IsDuplicate       bool                    `json:"is_duplicate" example:"false"`
	UploadedAt        time.Time               `json:"uploaded_at"`
	ProcessedAt       *time.Time              `json:"processed_at"`
}

// BulkItemResult is one entry of a bulk upload response, in upload order.
type BulkItemResult struct {
	Filename string          `json:"filename" example:"declaracion_abril.pdf"`
	Document *DocumentResult `json:"document,omitempty"`
	Error    *APIError       `json:"error,omitempty"`
}

// BulkUploadResult summarises a bulk upload.
type BulkUploadResult struct {
	Results    []BulkItemResult `json:"results"`
	Total      int              `json:"total" example:"3"`
	Completed  int              `json:"completed" example:"2"`
	Failed     int              `json:"failed" example:"1"`
	Duplicates int              `json:"duplicates" example:"0"`
}

// DocumentRecordResult is a completed document with its decoded rows.
type DocumentRecordResult struct {
	Document DocumentResult        `json:"document"`
	Record   *domain.DecodedRecord `json:"record"`
}

func toDocumentResult(doc *domain.Document, isDuplicate bool) DocumentResult {
	res := DocumentResult{
		ID:                doc.ID,
		OriginalFilename:  doc.OriginalFilename,
		FormType:          doc.FormType,
		ProcessingStatus:  doc.Status,
		ProcessingError:   doc.ProcessingError,
		TaxID:             doc.TaxID,
		LegalName:         doc.LegalName,
		PeriodMonth:       doc.PeriodMonth,
		PeriodYear:        doc.PeriodYear,
		PeriodMonthNumber: doc.PeriodMonthNum,
		FiscalPeriod:      doc.FiscalPeriod,
		CollectionDate:    doc.CollectionDate,
		TotalPages:        doc.TotalPages,
		IsDuplicate:       isDuplicate,
		UploadedAt:        doc.UploadedAt,
		ProcessedAt:       doc.ProcessedAt,
	}
	if doc.Status == domain.StatusCompleted && doc.FormType != domain.FormTypeUnknown {
		url := "/api/v1/documents/" + doc.ID.String() + "/record"
		res.RecordURL = &url
	}
	return res
}
