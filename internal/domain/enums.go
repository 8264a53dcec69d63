package domain

// FileType represents the allowed file types for upload.
type FileType string

const (
	FileTypePDF FileType = "pdf"
)

// AllowedContentTypes maps MIME content types back to FileType.
var AllowedContentTypes = map[string]FileType{
	"application/pdf": FileTypePDF,
}

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf": FileTypePDF,
}

// FormType identifies which declaration layout a document follows.
type FormType string

const (
	FormType103     FormType = "form_103"
	FormType104     FormType = "form_104"
	FormTypeUnknown FormType = "unknown"
)

// Valid reports whether f is one of the known form types.
func (f FormType) Valid() bool {
	switch f {
	case FormType103, FormType104, FormTypeUnknown:
		return true
	}
	return false
}

// ProcessingStatus tracks a document through the ingestion state machine.
type ProcessingStatus string

const (
	StatusPending    ProcessingStatus = "pending"
	StatusProcessing ProcessingStatus = "processing"
	StatusCompleted  ProcessingStatus = "completed"
	StatusFailed     ProcessingStatus = "failed"
)

// Terminal reports whether no further transition is allowed.
func (s ProcessingStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CanTransition reports whether the state machine allows moving from s to next.
func (s ProcessingStatus) CanTransition(next ProcessingStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusProcessing
	case StatusProcessing:
		return next == StatusCompleted || next == StatusFailed
	}
	return false
}
