package decoder_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxdecl/internal/decoder"
	"taxdecl/internal/domain"
)

func zeroValue(f domain.Form104Field) any {
	switch f.Kind {
	case domain.KindInteger:
		return 0
	case domain.KindText:
		return domain.DefaultCOPCISize
	default:
		return 0.0
	}
}

func TestForm104Fields_TableIsComplete(t *testing.T) {
	assert.Len(t, domain.Form104Fields, 127)

	codes := map[string]bool{}
	columns := map[string]bool{}
	kinds := map[domain.FieldKind]int{}
	for _, f := range domain.Form104Fields {
		assert.False(t, codes[f.Code], "duplicate code %s", f.Code)
		assert.False(t, columns[f.Column], "duplicate column %s", f.Column)
		codes[f.Code] = true
		columns[f.Column] = true
		kinds[f.Kind]++
	}
	assert.Equal(t, 1, kinds[domain.KindText])
	assert.Equal(t, 1, kinds[domain.KindInteger])
}

func TestDecodeForm104_EmptyTextYieldsDefaults(t *testing.T) {
	rec := decoder.DecodeForm104("")

	for _, f := range domain.Form104Fields {
		assert.Equal(t, zeroValue(f), f.Value(rec), f.Column)
	}
	require.Len(t, rec.Withholdings, 6)
	for i, w := range rec.Withholdings {
		assert.Equal(t, domain.WithholdingBrackets[i].Code, w.Code)
		assert.Equal(t, domain.WithholdingBrackets[i].Percentage, w.Percentage)
		assert.Zero(t, w.Value)
	}
}

func TestDecodeForm104_SubtotalDueOnly(t *testing.T) {
	rec := decoder.DecodeForm104("620 123.45")

	assert.Equal(t, 123.45, rec.SubtotalDue)
	for _, f := range domain.Form104Fields {
		if f.Code == "620" {
			continue
		}
		assert.Equal(t, zeroValue(f), f.Value(rec), f.Column)
	}
	require.Len(t, rec.Withholdings, 6)
	for _, w := range rec.Withholdings {
		assert.Zero(t, w.Value)
	}
}

func TestDecodeForm104_EveryCodeRoundTrips(t *testing.T) {
	for _, f := range domain.Form104Fields {
		var text string
		var want any
		switch f.Kind {
		case domain.KindInteger:
			text, want = f.Code+" 3", 3
		case domain.KindText:
			text, want = f.Code+" MEDIANA", "MEDIANA"
		default:
			text, want = f.Code+" 1,234.56", 1234.56
		}

		rec := decoder.DecodeForm104("Casillero\n" + text + "\n")
		assert.Equal(t, want, f.Value(rec), "code %s", f.Code)
	}
}

func TestDecodeForm104_OrderIndependent(t *testing.T) {
	forward := decoder.DecodeForm104("401 100.00\n411 90.00\n421 13.50\n721 2.00\n731 4.00")
	backward := decoder.DecodeForm104("731 4.00\n721 2.00\n421 13.50\n411 90.00\n401 100.00")

	assert.Equal(t, forward, backward)
	assert.Equal(t, 100.00, forward.LocalTaxedGross)
	assert.Equal(t, 90.00, forward.LocalTaxedNet)
	assert.Equal(t, 13.50, forward.LocalTaxedTax)
	assert.Equal(t, 2.00, forward.Withholdings[0].Value)
	assert.Equal(t, 4.00, forward.Withholdings[5].Value)
}

func TestDecodeForm104_CodeInsideNumberIsIgnored(t *testing.T) {
	rec := decoder.DecodeForm104("TOTAL 1.401 411 3.00")

	assert.Zero(t, rec.LocalTaxedGross)
	assert.Equal(t, 3.00, rec.LocalTaxedNet)
}

func TestDecodeForm104_CompanySize(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"698 PEQUEÑA EMPRESA TOTAL PAGADO 999 10.00", "PEQUEÑA EMPRESA"},
		{"698 microempresa", "MICROEMPRESA"},
		{"698 GRANDE   EMPRESA", "GRANDE EMPRESA"},
		{"698 MEDIANA\n699 1.00", "MEDIANA"},
		{"698 NO REGISTRA", "NO REGISTRA"},
		{"698 DESCONOCIDO", domain.DefaultCOPCISize},
		{"698 MEDIANAS", domain.DefaultCOPCISize},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, decoder.DecodeForm104(tt.text).COPCISize)
		})
	}

	rec := decoder.DecodeForm104("698 PEQUEÑA EMPRESA TOTAL PAGADO 999 10.00")
	assert.Equal(t, 10.00, rec.TotalPaid)
}

func TestDecodeForm104_SignedNumberIsNotACode(t *testing.T) {
	rec := decoder.DecodeForm104("-620 5.00")
	assert.Zero(t, rec.SubtotalDue)

	rec = decoder.DecodeForm104("620 -5.00")
	assert.Equal(t, -5.00, rec.SubtotalDue)
}

func TestDecodeForm104_FirstOccurrenceWins(t *testing.T) {
	rec := decoder.DecodeForm104("902 50.00\n902 70.00")
	assert.Equal(t, 50.00, rec.TotalTaxDue)
}

func TestDecodeForm104_AllWithholdingBrackets(t *testing.T) {
	var lines []string
	for i, b := range domain.WithholdingBrackets {
		lines = append(lines, fmt.Sprintf("Retención del %d%% %s %d.00", b.Percentage, b.Code, i+1))
	}

	rec := decoder.DecodeForm104(strings.Join(lines, "\n"))

	for i, w := range rec.Withholdings {
		assert.Equal(t, float64(i+1), w.Value, w.Code)
	}
}

func TestParseAmount(t *testing.T) {
	tests := map[string]float64{
		"1,234.56":  1234.56,
		"27710.90":  27710.90,
		"0.00":      0,
		"-10.5":     -10.5,
		"374.18.":   374.18,
		"1,000,000": 1000000,
		"":          0,
		"abc":       0,
	}
	for in, want := range tests {
		assert.Equal(t, want, decoder.ParseAmount(in), in)
	}
}
