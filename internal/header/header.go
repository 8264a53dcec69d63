// Package header pulls the taxpayer and period metadata shared by every
// declaration layout out of extracted text.
package header

import (
	"regexp"
	"strings"
	"time"

	"taxdecl/internal/domain"
)

// Months maps every accepted month spelling to its number.
var Months = map[string]int{
	"ENERO":      1,
	"FEBRERO":    2,
	"MARZO":      3,
	"ABRIL":      4,
	"MAYO":       5,
	"JUNIO":      6,
	"JULIO":      7,
	"AGOSTO":     8,
	"SEPTIEMBRE": 9,
	"SETIEMBRE":  9,
	"OCTUBRE":    10,
	"NOVIEMBRE":  11,
	"DICIEMBRE":  12,
}

var canonicalMonth = map[string]string{"SETIEMBRE": "SEPTIEMBRE"}

const monthAlt = `ENERO|FEBRERO|MARZO|ABRIL|MAYO|JUNIO|JULIO|AGOSTO|SEPTIEMBRE|SETIEMBRE|OCTUBRE|NOVIEMBRE|DICIEMBRE`

var (
	taxIDRe = regexp.MustCompile(`(?i)(?:\bRUC\b|IDENTIFICACI[ÓO]N)[^\d]{0,40}(\d{13})\b`)

	legalNameRe = regexp.MustCompile(`(?i)(?:RAZ[ÓO]N\s+SOCIAL(?:\s+O\s+APELLIDOS\s+Y\s+NOMBRES(?:\s+COMPLETOS)?)?|APELLIDOS\s+Y\s+NOMBRES(?:\s+COMPLETOS)?)\s*:?[ \t]*([^\n]*)(?:\n([^\n]*))?`)
	periodTail  = regexp.MustCompile(`(?i)\s*PER[ÍI]ODO.*$`)
	legalSuffix = regexp.MustCompile(`(?i)^(S\.\s?A\.\s?S\.?|S\.\s?A\.?|C[ÍI]A\.?\s*LTDA\.?|C\.\s?LTDA\.?|E\.\s?P\.?)$`)

	// Fallbacks in order: labelled fiscal period, labelled period or month,
	// then a label followed loosely by month and year.
	periodRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)PER[ÍI]ODO\s+FISCAL\s*:?\s*(` + monthAlt + `)\s+(?:DE\s+|DEL\s+)?(\d{4})`),
		regexp.MustCompile(`(?i)(?:PER[ÍI]ODO|\bMES)\s*:?\s*(` + monthAlt + `)\s+(?:DE\s+|DEL\s+)?(\d{4})`),
		regexp.MustCompile(`(?i)(?:PER[ÍI]ODO|\bMES)[\s\S]{0,80}?\b(` + monthAlt + `)\b[\s/\-]*(?:DE\s+|DEL\s+)?(\d{4})`),
	}

	collectionDateRe   = regexp.MustCompile(`(?i)FECHA\s+(?:DE\s+)?RECAUDACI[ÓO]N\s*:?\s*(\d{2})[-/](\d{2})[-/](\d{4})`)
	verificationCodeRe = regexp.MustCompile(`(?i)C[ÓO]DIGO\s+VERIFICADOR\s*:?\s*([A-Z0-9]+)`)
	serialNumberRe     = regexp.MustCompile(`(?i)N[ÚU]MERO\s+SERIAL\s*:?\s*(\d+)`)
)

// Extract returns whatever header fields can be found. Missing fields stay nil.
func Extract(text string) domain.Header {
	var h domain.Header

	h.TaxID = firstGroup(taxIDRe, text)
	h.LegalName = legalName(text)

	if month, year, ok := Period(text); ok {
		num := Months[month]
		full := month + " " + year
		h.PeriodMonth = &month
		h.PeriodYear = &year
		h.PeriodMonthNumber = &num
		h.FiscalPeriod = &full
	}

	h.CollectionDate = collectionDate(text)
	h.VerificationCode = firstGroup(verificationCodeRe, text)
	h.SerialNumber = firstGroup(serialNumberRe, text)
	return h
}

// Period finds the fiscal period and returns the canonical uppercase month
// name and four-digit year.
func Period(text string) (month, year string, ok bool) {
	for _, re := range periodRes {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		month = strings.ToUpper(m[1])
		if c, alias := canonicalMonth[month]; alias {
			month = c
		}
		return month, m[2], true
	}
	return "", "", false
}

func legalName(text string) *string {
	m := legalNameRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}

	name := clean(periodTail.ReplaceAllString(m[1], ""))
	next := clean(m[2])
	switch {
	case name == "" && next != "":
		name = clean(periodTail.ReplaceAllString(next, ""))
	case name != "" && legalSuffix.MatchString(next) && !strings.HasSuffix(strings.ToUpper(name), strings.ToUpper(next)):
		name = name + " " + next
	}

	if name == "" {
		return nil
	}
	return &name
}

func collectionDate(text string) *time.Time {
	m := collectionDateRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	t, err := time.Parse("02-01-2006", m[1]+"-"+m[2]+"-"+m[3])
	if err != nil {
		return nil
	}
	return &t
}

func firstGroup(re *regexp.Regexp, text string) *string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	v := strings.TrimSpace(m[1])
	if v == "" {
		return nil
	}
	return &v
}

func clean(s string) string {
	return strings.Trim(strings.Join(strings.Fields(s), " "), " :")
}
