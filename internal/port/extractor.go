package port

// Extraction is the plain-text rendition of one PDF.
type Extraction struct {
	Text            string
	Pages           []string
	TotalPages      int
	TotalCharacters int
}

// TextExtractor converts PDF bytes to text. Unreadable input fails with
// domain.ErrExtraction.
type TextExtractor interface {
	Extract(data []byte) (*Extraction, error)
}
