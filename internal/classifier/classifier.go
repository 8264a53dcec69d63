// Package classifier decides which declaration layout a document follows.
package classifier

import (
	"strings"

	"github.com/sirupsen/logrus"

	"taxdecl/internal/domain"
	"taxdecl/internal/logging"
)

const (
	form103LongPhrase  = "DECLARACIÓN DE RETENCIONES EN LA FUENTE DEL IMPUESTO A LA RENTA"
	form103ShortPhrase = "DECLARACIÓN DE RETENCIONES EN LA FUENTE"
	form104Phrase      = "DECLARACIÓN DEL IMPUESTO AL VALOR AGREGADO"
	form104PlainPhrase = "DECLARACION DEL IMPUESTO AL VALOR AGREGADO"
)

// rule reports whether the uppercased text or filename identifies a form.
type rule struct {
	name     string
	formType domain.FormType
	match    func(text, filename string) bool
}

func containsAll(parts ...string) func(string, string) bool {
	return func(text, _ string) bool {
		for _, p := range parts {
			if !strings.Contains(text, p) {
				return false
			}
		}
		return true
	}
}

func containsAny(parts ...string) func(string, string) bool {
	return func(text, _ string) bool {
		for _, p := range parts {
			if strings.Contains(text, p) {
				return true
			}
		}
		return false
	}
}

// rules are evaluated in order; the first match wins.
var rules = []rule{
	{"filename-103", domain.FormType103, func(_, f string) bool { return strings.Contains(f, "103") }},
	{"filename-104", domain.FormType104, func(_, f string) bool { return strings.Contains(f, "104") }},
	{"form-103-title", domain.FormType103, containsAny(form103LongPhrase, form103ShortPhrase, unaccent(form103ShortPhrase))},
	{"form-103-code-1031", domain.FormType103, containsAll("1031", "RETENCIONES")},
	{"form-103-number", domain.FormType103, containsAll("103", "RETENCIONES")},
	{"form-104-title", domain.FormType104, containsAny(form104Phrase, form104PlainPhrase)},
	{"form-104-code-2011", domain.FormType104, containsAll("2011", "IVA")},
	{"form-104-number", domain.FormType104, containsAll("104", "IVA")},
}

// Classifier maps extracted text and the original filename to a FormType.
type Classifier struct {
	logger logrus.FieldLogger
}

// New creates a Classifier.
func New(logger logrus.FieldLogger) *Classifier {
	return &Classifier{logger: logging.OrDefault(logger)}
}

// Classify never fails: documents matching no rule are FormTypeUnknown.
func (c *Classifier) Classify(text, filename string) domain.FormType {
	upperText := strings.ToUpper(text)
	upperName := strings.ToUpper(filename)

	for _, r := range rules {
		if r.match(upperText, upperName) {
			c.logger.WithFields(logrus.Fields{
				"component": "classifier.Classify",
				"rule":      r.name,
				"form_type": r.formType,
			}).Debug("document classified")
			return r.formType
		}
	}

	c.logger.WithFields(logrus.Fields{
		"component": "classifier.Classify",
		"filename":  filename,
	}).Warn("unrecognised declaration layout")
	return domain.FormTypeUnknown
}

var accentFolder = strings.NewReplacer("Á", "A", "É", "E", "Í", "I", "Ó", "O", "Ú", "U")

func unaccent(s string) string {
	return accentFolder.Replace(s)
}
