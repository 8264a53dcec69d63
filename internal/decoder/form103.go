package decoder

import (
	"regexp"
	"strings"

	"taxdecl/internal/domain"
)

// lineItemRe captures a concept label followed by base code, base amount,
// withholding code and withheld amount on one printed row.
var lineItemRe = regexp.MustCompile(
	`(?m)(\pL[\pL\d \t()\-,/.%:]*?)[ \t]+(\d{3,4})[ \t]+(` + valuePattern + `)[ \t]+(\d{3,4})[ \t]+(` + valuePattern + `)`)

// captionWords mark table headers and total rows that are not line items.
var captionWords = []string{"BASE IMPONIBLE", "VALOR RETENIDO", "SUBTOTAL", "TOTAL"}

type pairedTotal struct {
	re         *regexp.Regexp
	fallbackA  *regexp.Regexp
	fallbackB  *regexp.Regexp
	setA, setB func(*domain.Form103Totals, float64)
}

func newPairedTotal(codeA, codeB string, setA, setB func(*domain.Form103Totals, float64)) pairedTotal {
	return pairedTotal{
		re: regexp.MustCompile(`(?m)` + codeBoundary + codeA + `\s+(` + valuePattern + `)\s+` +
			codeB + `\s+(` + valuePattern + `)`),
		fallbackA: codeValueRe(codeA),
		fallbackB: codeValueRe(codeB),
		setA:      setA,
		setB:      setB,
	}
}

type singleTotal struct {
	re  *regexp.Regexp
	set func(*domain.Form103Totals, float64)
}

var form103Paired = []pairedTotal{
	newPairedTotal("349", "399",
		func(t *domain.Form103Totals, v float64) { t.DomesticSubtotal = v },
		func(t *domain.Form103Totals, v float64) { t.WithholdingSubtotal = v }),
	newPairedTotal("3440", "3940",
		func(t *domain.Form103Totals, v float64) { t.FixedRateBase = v },
		func(t *domain.Form103Totals, v float64) { t.FixedRateWithheld = v }),
}

var form103Single = []singleTotal{
	{codeValueRe("332"), func(t *domain.Form103Totals, v float64) { t.PaymentsNotSubject = v }},
	{codeValueRe("499"), func(t *domain.Form103Totals, v float64) { t.TotalWithholding = v }},
	{codeValueRe("902"), func(t *domain.Form103Totals, v float64) { t.TotalTaxDue = v }},
	{codeValueRe("903"), func(t *domain.Form103Totals, v float64) { t.LateInterest = v }},
	{codeValueRe("904"), func(t *domain.Form103Totals, v float64) { t.Penalty = v }},
	{codeValueRe("999"), func(t *domain.Form103Totals, v float64) { t.TotalPaid = v }},
}

// DecodeForm103 decodes a withholding declaration. The totals are always
// complete; rows whose label is a caption are skipped.
func DecodeForm103(text string) *domain.Form103Record {
	return &domain.Form103Record{
		LineItems: form103LineItems(text),
		Totals:    form103Totals(text),
	}
}

func form103LineItems(text string) []domain.Form103LineItem {
	items := []domain.Form103LineItem{}
	for _, m := range lineItemRe.FindAllStringSubmatch(text, -1) {
		label := strings.Join(strings.Fields(m[1]), " ")
		if isCaption(label) {
			continue
		}
		items = append(items, domain.Form103LineItem{
			OrderIndex:      len(items),
			Concept:         label,
			BaseCode:        m[2],
			TaxableBase:     ParseAmount(m[3]),
			WithholdingCode: m[4],
			WithheldAmount:  ParseAmount(m[5]),
		})
	}
	return items
}

func isCaption(label string) bool {
	upper := strings.ToUpper(label)
	for _, w := range captionWords {
		if strings.Contains(upper, w) {
			return true
		}
	}
	return false
}

func form103Totals(text string) domain.Form103Totals {
	var t domain.Form103Totals
	for _, p := range form103Paired {
		if m := p.re.FindStringSubmatch(text); m != nil {
			p.setA(&t, ParseAmount(m[1]))
			p.setB(&t, ParseAmount(m[2]))
			continue
		}
		if v, ok := findAmount(p.fallbackA, text); ok {
			p.setA(&t, v)
		}
		if v, ok := findAmount(p.fallbackB, text); ok {
			p.setB(&t, v)
		}
	}
	for _, s := range form103Single {
		if v, ok := findAmount(s.re, text); ok {
			s.set(&t, v)
		}
	}
	return t
}
