package handler_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"taxdecl/internal/domain"
	"taxdecl/internal/handler"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrDocumentNotFound, http.StatusNotFound, "DOCUMENT_NOT_FOUND"},
		{fmt.Errorf("repo.GetByID: %w", domain.ErrDocumentNotFound), http.StatusNotFound, "DOCUMENT_NOT_FOUND"},
		{domain.ErrMissingIdentity, http.StatusUnauthorized, "UNAUTHORIZED"},
		{domain.ErrDocumentNotReady, http.StatusConflict, "DOCUMENT_NOT_READY"},
		{domain.ErrNoDecodedRecord, http.StatusNotFound, "NO_DECODED_RECORD"},
		{domain.ErrTooManyFiles, http.StatusBadRequest, "TOO_MANY_FILES"},
		{domain.ErrLockNotObtained, http.StatusServiceUnavailable, "BUSY"},
		{errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			status, code, msg := handler.MapDomainError(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
			assert.NotEmpty(t, msg)
		})
	}
}
