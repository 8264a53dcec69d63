package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"taxdecl/internal/domain"
)

func strPtr(s string) *string { return &s }

func testDocument(formType domain.FormType) *domain.Document {
	processed := time.Date(2025, 5, 20, 10, 0, 0, 0, time.UTC)
	return &domain.Document{
		ID:               uuid.MustParse("8c1d3f5a-0000-4000-8000-000000000001"),
		OriginalFilename: "declaracion.pdf",
		FormType:         formType,
		Status:           domain.StatusCompleted,
		LegalName:        strPtr("ACME S.A."),
		FiscalPeriod:     strPtr("ABRIL 2025"),
		TotalPages:       2,
		ProcessedAt:      &processed,
	}
}

func openWorkbook(t *testing.T, doc *domain.Document, rec *domain.DecodedRecord) *excelize.File {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, doc, rec))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestWrite_DocumentOnly(t *testing.T) {
	f := openWorkbook(t, testDocument(domain.FormTypeUnknown), nil)

	assert.Equal(t, []string{SheetDocument}, f.GetSheetList())

	rows, err := f.GetRows(SheetDocument)
	require.NoError(t, err)
	assert.Equal(t, []string{"Campo", "Valor"}, rows[0])
	assert.Equal(t, []string{"razon_social", "ACME S.A."}, rows[6])
	assert.Equal(t, []string{"periodo_fiscal_completo", "ABRIL 2025"}, rows[7])
}

func TestWrite_Form103(t *testing.T) {
	rec := &domain.DecodedRecord{Form103: &domain.Form103Record{
		LineItems: []domain.Form103LineItem{
			{OrderIndex: 0, Concept: "HONORARIOS PROFESIONALES", BaseCode: "303", TaxableBase: 1000, WithholdingCode: "353", WithheldAmount: 100},
			{OrderIndex: 1, Concept: "ARRENDAMIENTO", BaseCode: "320", WithholdingCode: "370"},
		},
		Totals: domain.Form103Totals{DomesticSubtotal: 1000, WithholdingSubtotal: 100, TotalPaid: 100},
	}}
	f := openWorkbook(t, testDocument(domain.FormType103), rec)

	assert.Equal(t, []string{SheetDocument, SheetLineItems, SheetTotals}, f.GetSheetList())

	items, err := f.GetRows(SheetLineItems)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "HONORARIOS PROFESIONALES", items[1][1])
	assert.Equal(t, "353", items[1][4])
	assert.Equal(t, "0", items[2][3], "zero-valued rows are exported")

	totals, err := f.GetRows(SheetTotals)
	require.NoError(t, err)
	assert.Len(t, totals, 11)
	assert.Equal(t, []string{"subtotal_operaciones_pais", "1000"}, totals[1])
}

func TestWrite_Form104(t *testing.T) {
	rec := domain.NewForm104Record()
	rec.SubtotalDue = 123.45
	rec.Withholdings[1].Value = 12

	f := openWorkbook(t, testDocument(domain.FormType104), &domain.DecodedRecord{Form104: rec})

	sheets := f.GetSheetList()
	for _, s := range domain.Form104Sections {
		assert.Contains(t, sheets, string(s))
	}
	assert.Contains(t, sheets, SheetWithholdings)

	// Every field of the code table lands on exactly one row.
	rowsTotal := 0
	for _, s := range domain.Form104Sections {
		rows, err := f.GetRows(string(s))
		require.NoError(t, err)
		rowsTotal += len(rows) - 1
	}
	assert.Equal(t, len(domain.Form104Fields), rowsTotal)

	totals, err := f.GetRows(string(domain.SectionTotals))
	require.NoError(t, err)
	var found bool
	for _, r := range totals {
		if r[0] == "620" {
			found = true
			assert.Equal(t, "123.45", r[2])
		}
	}
	assert.True(t, found)

	wh, err := f.GetRows(SheetWithholdings)
	require.NoError(t, err)
	require.Len(t, wh, 7)
	assert.Equal(t, []string{"723", "20", "12"}, wh[2])
}

func TestFilename(t *testing.T) {
	doc := testDocument(domain.FormType104)
	assert.Equal(t, "form_104_8c1d3f5a-0000-4000-8000-000000000001.xlsx", Filename(doc))
}
