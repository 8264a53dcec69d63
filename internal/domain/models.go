package domain

import (
	"time"

	"github.com/google/uuid"
)

// OwnerKey identifies who uploaded a document: a registered user, an anonymous
// session, or neither.
type OwnerKey struct {
	UserID    uuid.UUID
	SessionID string
}

// IsZero reports whether no identity is known.
func (o OwnerKey) IsZero() bool {
	return o.UserID == uuid.Nil && o.SessionID == ""
}

// String returns a stable key usable for locking; empty when IsZero.
func (o OwnerKey) String() string {
	if o.UserID != uuid.Nil {
		return "user:" + o.UserID.String()
	}
	if o.SessionID != "" {
		return "session:" + o.SessionID
	}
	return ""
}

// Header holds the metadata common to both declaration layouts. Every field is
// independently optional.
type Header struct {
	TaxID             *string    `json:"identificacion_ruc"`
	LegalName         *string    `json:"razon_social"`
	PeriodMonth       *string    `json:"periodo_mes"`
	PeriodYear        *string    `json:"periodo_anio"`
	PeriodMonthNumber *int       `json:"periodo_mes_numero"`
	FiscalPeriod      *string    `json:"periodo_fiscal_completo"`
	CollectionDate    *time.Time `json:"fecha_recaudacion"`
	VerificationCode  *string    `json:"codigo_verificador,omitempty"`
	SerialNumber      *string    `json:"numero_serial,omitempty"`
}

// Document is the root record of one uploaded declaration.
type Document struct {
	ID               uuid.UUID        `db:"id" json:"id"`
	OwnerUserID      *uuid.UUID       `db:"owner_user_id" json:"owner_user_id,omitempty"`
	OwnerSessionID   *string          `db:"owner_session_id" json:"-"`
	OriginalFilename string           `db:"original_filename" json:"original_filename"`
	StoredFilename   string           `db:"stored_filename" json:"stored_filename"`
	FileSize         int64            `db:"file_size" json:"file_size"`
	StoragePath      string           `db:"storage_path" json:"-"`
	ContentHash      string           `db:"content_hash" json:"content_hash"`
	FormType         FormType         `db:"form_type" json:"form_type"`
	ExtractedText    string           `db:"extracted_text" json:"-"`
	TotalPages       int              `db:"total_pages" json:"total_pages"`
	TotalCharacters  int              `db:"total_characters" json:"total_characters"`
	TaxID            *string          `db:"identificacion_ruc" json:"identificacion_ruc"`
	LegalName        *string          `db:"razon_social" json:"razon_social"`
	PeriodMonth      *string          `db:"periodo_mes" json:"periodo_mes"`
	PeriodYear       *string          `db:"periodo_anio" json:"periodo_anio"`
	PeriodMonthNum   *int             `db:"periodo_mes_numero" json:"periodo_mes_numero"`
	FiscalPeriod     *string          `db:"periodo_fiscal_completo" json:"periodo_fiscal_completo"`
	CollectionDate   *time.Time       `db:"fecha_recaudacion" json:"fecha_recaudacion"`
	Status           ProcessingStatus `db:"processing_status" json:"processing_status"`
	ProcessingError  *string          `db:"processing_error" json:"processing_error"`
	ParsedData       JSONPayload      `db:"parsed_data" json:"-"`
	UploadedAt       time.Time        `db:"uploaded_at" json:"uploaded_at"`
	ProcessedAt      *time.Time       `db:"processed_at" json:"processed_at"`
	UpdatedAt        time.Time        `db:"updated_at" json:"updated_at"`
}

// Owner returns the identity the document is scoped to.
func (d *Document) Owner() OwnerKey {
	var o OwnerKey
	if d.OwnerUserID != nil {
		o.UserID = *d.OwnerUserID
	}
	if d.OwnerSessionID != nil {
		o.SessionID = *d.OwnerSessionID
	}
	return o
}

// SetOwner stores o on the document; a user id takes precedence over a session.
func (d *Document) SetOwner(o OwnerKey) {
	d.OwnerUserID, d.OwnerSessionID = nil, nil
	switch {
	case o.UserID != uuid.Nil:
		id := o.UserID
		d.OwnerUserID = &id
	case o.SessionID != "":
		s := o.SessionID
		d.OwnerSessionID = &s
	}
}

// ApplyHeader copies extracted header metadata onto the document columns.
func (d *Document) ApplyHeader(h Header) {
	d.TaxID = h.TaxID
	d.LegalName = h.LegalName
	d.PeriodMonth = h.PeriodMonth
	d.PeriodYear = h.PeriodYear
	d.PeriodMonthNum = h.PeriodMonthNumber
	d.FiscalPeriod = h.FiscalPeriod
	d.CollectionDate = h.CollectionDate
}

// Transition moves the document to next, refusing moves the state machine forbids.
func (d *Document) Transition(next ProcessingStatus) error {
	if !d.Status.CanTransition(next) {
		return ErrInvalidTransition
	}
	d.Status = next
	return nil
}

// Form103LineItem is one concept row of a withholding declaration.
type Form103LineItem struct {
	ID              uuid.UUID `db:"id" json:"id"`
	DocumentID      uuid.UUID `db:"document_id" json:"document_id"`
	OrderIndex      int       `db:"order_index" json:"order_index"`
	Concept         string    `db:"concepto" json:"concepto"`
	BaseCode        string    `db:"codigo_base" json:"codigo_base"`
	TaxableBase     float64   `db:"base_imponible" json:"base_imponible"`
	WithholdingCode string    `db:"codigo_retencion" json:"codigo_retencion"`
	WithheldAmount  float64   `db:"valor_retenido" json:"valor_retenido"`
}

// Form103Totals holds the summary amounts of a withholding declaration. Every
// field defaults to zero when its code is absent.
type Form103Totals struct {
	ID                  uuid.UUID `db:"id" json:"id"`
	DocumentID          uuid.UUID `db:"document_id" json:"document_id"`
	DomesticSubtotal    float64   `db:"subtotal_operaciones_pais" json:"subtotal_operaciones_pais"`
	WithholdingSubtotal float64   `db:"subtotal_retencion" json:"subtotal_retencion"`
	FixedRateBase       float64   `db:"otras_retenciones_base" json:"otras_retenciones_base"`
	FixedRateWithheld   float64   `db:"otras_retenciones_valor" json:"otras_retenciones_valor"`
	TotalWithholding    float64   `db:"total_retencion" json:"total_retencion"`
	TotalTaxDue         float64   `db:"total_impuesto_pagar" json:"total_impuesto_pagar"`
	LateInterest        float64   `db:"interes_mora" json:"interes_mora"`
	Penalty             float64   `db:"multa" json:"multa"`
	TotalPaid           float64   `db:"total_pagado" json:"total_pagado"`
	PaymentsNotSubject  float64   `db:"pagos_no_sujetos_retencion" json:"pagos_no_sujetos_retencion"`
}

// Form103Record is the decoded content of a withholding declaration.
type Form103Record struct {
	LineItems []Form103LineItem `json:"line_items"`
	Totals    Form103Totals     `json:"totals"`
}

// DecodedRecord carries exactly one of the per-form payloads, or neither for
// unknown documents.
type DecodedRecord struct {
	Form103 *Form103Record `json:"form_103,omitempty"`
	Form104 *Form104Record `json:"form_104,omitempty"`
}

// ParsedPayload is stored verbatim in documents.parsed_data.
type ParsedPayload struct {
	FormType FormType       `json:"form_type"`
	Header   Header         `json:"header"`
	Record   *DecodedRecord `json:"record,omitempty"`
}
