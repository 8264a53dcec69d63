package domain

import "errors"

var (
	ErrNotFound            = errors.New("resource not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrMissingIdentity     = errors.New("no user or session identity on request")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrEmptyFile           = errors.New("file is empty")
	ErrTooManyFiles        = errors.New("too many files in bulk upload")
	ErrUploadFailed        = errors.New("file upload to storage failed")
	ErrDocumentNotFound    = errors.New("document not found")
	ErrDocumentNotReady    = errors.New("document has not completed processing")
	ErrNoDecodedRecord     = errors.New("document has no decoded record")
	ErrInvalidFormType     = errors.New("invalid form type")
	ErrInvalidTransition   = errors.New("invalid processing status transition")
	ErrObjectNotFound      = errors.New("stored object not found")

	// ErrExtraction marks unreadable or corrupt PDF input.
	ErrExtraction = errors.New("text extraction failed")
	// ErrProcessingDeadline is recorded when a document exceeds its processing budget.
	ErrProcessingDeadline = errors.New("processing deadline exceeded")
	ErrLockNotObtained    = errors.New("owner lock not obtained")
)
