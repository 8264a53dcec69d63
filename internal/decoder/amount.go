// Package decoder reconstructs typed declaration records from the numeric
// form codes printed next to each value.
package decoder

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// valuePattern matches a printed amount such as 1,234.56 or -10.00.
const valuePattern = `-?\d[\d.,]*`

// codeBoundary keeps a code from matching inside a longer or signed number.
const codeBoundary = `(?:^|[^\d.,-])`

// codeValueRe builds the anchored "code followed by value" pattern for code.
func codeValueRe(code string) *regexp.Regexp {
	return regexp.MustCompile(`(?m)` + codeBoundary + regexp.QuoteMeta(code) + `\s+(` + valuePattern + `)`)
}

// ParseAmount normalises a printed amount (thousands commas removed, trailing
// punctuation dropped) and converts it to float64. Unparseable input yields 0.
func ParseAmount(raw string) float64 {
	s := strings.TrimRight(strings.TrimSpace(raw), ".,")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" || s == "-" {
		return 0
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	f, _ := d.Float64()
	return f
}

// findAmount returns the value printed after the first occurrence of re.
func findAmount(re *regexp.Regexp, text string) (float64, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	return ParseAmount(m[1]), true
}
