// Package extract turns PDF bytes into plain text, page by page.
package extract

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"taxdecl/internal/domain"
	"taxdecl/internal/port"
)

// wordGap is the horizontal distance, as a fraction of font size, above which
// two glyphs on the same row are treated as separate words.
const wordGap = 0.2

type pdfExtractor struct{}

// NewPDFExtractor returns a TextExtractor that validates structure with pdfcpu
// and reads page text with ledongthuc/pdf.
func NewPDFExtractor() port.TextExtractor {
	return &pdfExtractor{}
}

func (e *pdfExtractor) Extract(data []byte) (out *port.Extraction, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = fmt.Errorf("%w: pdf reader panic: %v", domain.ErrExtraction, r)
		}
	}()

	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", domain.ErrExtraction)
	}

	pageCount, err := countPages(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExtraction, err)
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: opening pdf: %v", domain.ErrExtraction, err)
	}
	if n := reader.NumPage(); n > pageCount {
		pageCount = n
	}

	pages := make([]string, 0, pageCount)
	for i := 1; i <= pageCount; i++ {
		pages = append(pages, pageText(reader, i))
	}

	text := strings.Join(pages, "\n")
	return &port.Extraction{
		Text:            text,
		Pages:           pages,
		TotalPages:      pageCount,
		TotalCharacters: utf8.RuneCountInString(text),
	}, nil
}

func countPages(data []byte) (int, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return 0, fmt.Errorf("reading pdf structure: %w", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return 0, fmt.Errorf("counting pages: %w", err)
	}
	return ctx.PageCount, nil
}

// pageText returns the text of page i with one line per printed row. Pages
// without a text layer yield "".
func pageText(reader *pdf.Reader, i int) string {
	if i > reader.NumPage() {
		return ""
	}
	page := reader.Page(i)
	if page.V.IsNull() {
		return ""
	}

	rows, err := page.GetTextByRow()
	if err == nil && len(rows) > 0 {
		lines := make([]string, 0, len(rows))
		for _, row := range rows {
			if line := joinRow(row.Content); line != "" {
				lines = append(lines, line)
			}
		}
		return strings.Join(lines, "\n")
	}

	plain, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(plain)
}

func joinRow(texts pdf.TextHorizontal) string {
	var b strings.Builder
	for i, t := range texts {
		if i > 0 {
			prev := texts[i-1]
			gap := t.X - (prev.X + prev.W)
			if gap > wordGap*math.Max(t.FontSize, 1) && !strings.HasSuffix(prev.S, " ") && !strings.HasPrefix(t.S, " ") {
				b.WriteByte(' ')
			}
		}
		b.WriteString(t.S)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
