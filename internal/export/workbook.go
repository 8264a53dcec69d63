// Package export renders decoded declarations as xlsx workbooks.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"taxdecl/internal/domain"
)

// ContentType is the MIME type of the produced workbooks.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Sheet names shared by every workbook.
const (
	SheetDocument     = "documento"
	SheetLineItems    = "conceptos"
	SheetTotals       = "totales"
	SheetWithholdings = "retenciones_iva"
)

var documentColumns = []string{"Campo", "Valor"}

var lineItemColumns = []string{
	"Orden", "Concepto", "Código Base", "Base Imponible", "Código Retención", "Valor Retenido",
}

var fieldColumns = []string{"Código", "Campo", "Valor"}

// Filename returns the attachment name for doc's export.
func Filename(doc *domain.Document) string {
	return fmt.Sprintf("%s_%s.xlsx", doc.FormType, doc.ID)
}

// Write renders doc and rec as a workbook into w. A nil record produces a
// workbook with only the document sheet.
func Write(w io.Writer, doc *domain.Document, rec *domain.DecodedRecord) error {
	f, err := NewWorkbook(doc, rec)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("export.Write: %w", err)
	}
	return nil
}

// NewWorkbook builds the workbook in memory. The caller owns the file.
func NewWorkbook(doc *domain.Document, rec *domain.DecodedRecord) (*excelize.File, error) {
	b := &builder{f: excelize.NewFile()}
	if err := b.init(); err != nil {
		b.f.Close()
		return nil, err
	}

	b.documentSheet(doc)
	if rec != nil {
		if rec.Form103 != nil {
			b.form103(rec.Form103)
		}
		if rec.Form104 != nil {
			b.form104(rec.Form104)
		}
	}
	if b.err != nil {
		b.f.Close()
		return nil, fmt.Errorf("export.NewWorkbook: %w", b.err)
	}
	return b.f, nil
}

// builder keeps the first error so sheet writers stay linear.
type builder struct {
	f      *excelize.File
	header int
	err    error
}

func (b *builder) init() error {
	if err := b.f.SetSheetName("Sheet1", SheetDocument); err != nil {
		return fmt.Errorf("export: renaming default sheet: %w", err)
	}
	style, err := b.f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("export: creating header style: %w", err)
	}
	b.header = style
	return nil
}

func (b *builder) sheet(name string, columns []string) {
	if b.err != nil {
		return
	}
	if name != SheetDocument {
		if _, err := b.f.NewSheet(name); err != nil {
			b.err = err
			return
		}
	}
	b.row(name, 1, stringsToCells(columns))
	if b.err == nil {
		b.err = b.f.SetRowStyle(name, 1, 1, b.header)
	}
}

func (b *builder) row(sheet string, n int, cells []any) {
	if b.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		b.err = err
		return
	}
	b.err = b.f.SetSheetRow(sheet, cell, &cells)
}

func (b *builder) documentSheet(doc *domain.Document) {
	b.sheet(SheetDocument, documentColumns)
	rows := [][]any{
		{"id", doc.ID.String()},
		{"archivo", doc.OriginalFilename},
		{"tipo_formulario", string(doc.FormType)},
		{"estado", string(doc.Status)},
		{"identificacion_ruc", deref(doc.TaxID)},
		{"razon_social", deref(doc.LegalName)},
		{"periodo_fiscal_completo", deref(doc.FiscalPeriod)},
		{"fecha_recaudacion", formatDate(doc.CollectionDate)},
		{"paginas", doc.TotalPages},
		{"procesado", formatTime(doc.ProcessedAt)},
	}
	for i, r := range rows {
		b.row(SheetDocument, i+2, r)
	}
	if b.err == nil {
		b.err = b.f.SetColWidth(SheetDocument, "A", "B", 32)
	}
}

func (b *builder) form103(rec *domain.Form103Record) {
	b.sheet(SheetLineItems, lineItemColumns)
	for i, item := range rec.LineItems {
		b.row(SheetLineItems, i+2, []any{
			item.OrderIndex, item.Concept, item.BaseCode, item.TaxableBase,
			item.WithholdingCode, item.WithheldAmount,
		})
	}
	if b.err == nil {
		b.err = b.f.SetColWidth(SheetLineItems, "B", "B", 60)
	}

	t := rec.Totals
	b.sheet(SheetTotals, []string{"Campo", "Valor"})
	totals := [][]any{
		{"subtotal_operaciones_pais", t.DomesticSubtotal},
		{"subtotal_retencion", t.WithholdingSubtotal},
		{"otras_retenciones_base", t.FixedRateBase},
		{"otras_retenciones_valor", t.FixedRateWithheld},
		{"total_retencion", t.TotalWithholding},
		{"total_impuesto_pagar", t.TotalTaxDue},
		{"interes_mora", t.LateInterest},
		{"multa", t.Penalty},
		{"total_pagado", t.TotalPaid},
		{"pagos_no_sujetos_retencion", t.PaymentsNotSubject},
	}
	for i, r := range totals {
		b.row(SheetTotals, i+2, r)
	}
}

// form104 writes one sheet per section, in print order, plus the withholdings.
func (b *builder) form104(rec *domain.Form104Record) {
	next := make(map[domain.Form104Section]int, len(domain.Form104Sections))
	for _, s := range domain.Form104Sections {
		b.sheet(string(s), fieldColumns)
		next[s] = 2
	}
	for _, field := range domain.Form104Fields {
		b.row(string(field.Section), next[field.Section], []any{field.Code, field.Column, field.Value(rec)})
		next[field.Section]++
	}

	b.sheet(SheetWithholdings, []string{"Código", "Porcentaje", "Valor"})
	for i, w := range rec.Withholdings {
		b.row(SheetWithholdings, i+2, []any{w.Code, w.Percentage, w.Value})
	}
}

func stringsToCells(s []string) []any {
	cells := make([]any, len(s))
	for i, v := range s {
		cells[i] = v
	}
	return cells
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
