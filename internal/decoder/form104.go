package decoder

import (
	"regexp"
	"strconv"
	"strings"

	"taxdecl/internal/domain"
)

// companySizePattern accepts the COPCI company sizes, with or without the
// trailing EMPRESA, and nothing that follows them on the line.
const companySizePattern = `(?i:MICRO(?:[ \t]*EMPRESA)?|PEQUE[ÑN]A(?:[ \t]+EMPRESA)?|MEDIANA(?:[ \t]+EMPRESA)?|GRANDE(?:[ \t]+EMPRESA)?|NO[ \t]+REGISTRA)`

type compiledField struct {
	field domain.Form104Field
	re    *regexp.Regexp
}

var (
	form104Compiled     = compileForm104()
	withholdingPatterns = compileWithholdings()
)

func compileForm104() []compiledField {
	out := make([]compiledField, 0, len(domain.Form104Fields))
	for _, f := range domain.Form104Fields {
		var re *regexp.Regexp
		switch f.Kind {
		case domain.KindText:
			re = regexp.MustCompile(`(?m)` + codeBoundary + f.Code + `[ \t]+(` + companySizePattern + `)(?:[^\pL]|$)`)
		case domain.KindInteger:
			re = regexp.MustCompile(`(?m)` + codeBoundary + f.Code + `\s+(\d+)\b`)
		default:
			re = codeValueRe(f.Code)
		}
		out = append(out, compiledField{field: f, re: re})
	}
	return out
}

func compileWithholdings() []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(domain.WithholdingBrackets))
	for i, b := range domain.WithholdingBrackets {
		out[i] = codeValueRe(b.Code)
	}
	return out
}

// DecodeForm104 decodes a VAT declaration. Every code of the table is looked
// up independently, so the order of values in the text does not matter.
func DecodeForm104(text string) *domain.Form104Record {
	r := domain.NewForm104Record()

	for _, c := range form104Compiled {
		m := c.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		switch c.field.Kind {
		case domain.KindText:
			c.field.SetText(r, strings.Join(strings.Fields(strings.ToUpper(m[1])), " "))
		case domain.KindInteger:
			if n, err := strconv.Atoi(m[1]); err == nil {
				c.field.SetInteger(r, n)
			}
		default:
			c.field.SetAmount(r, ParseAmount(m[1]))
		}
	}

	for i, re := range withholdingPatterns {
		if v, ok := findAmount(re, text); ok {
			r.Withholdings[i].Value = v
		}
	}
	return r
}
