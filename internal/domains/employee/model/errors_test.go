package model_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"vcard-backend/internal/domains/employee/model"
)

func TestMapErrorToHTTP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", model.NewNotFound("x"), http.StatusNotFound, model.CodeNotFound},
		{"wrapped not found", fmt.Errorf("svc: %w", model.NewNotFound("x")), http.StatusNotFound, model.CodeNotFound},
		{"store", model.NewStoreError("create", errors.New("boom")), http.StatusInternalServerError, model.CodeStoreError},
		{"invalid id", model.NewInvalidID("abc"), http.StatusBadRequest, model.CodeInvalidID},
		{"bad file", model.NewInvalidImportFile(errors.New("bad quote")), http.StatusBadRequest, model.CodeInvalidImportFile},
		{"import failed", model.NewImportFailed(3, 1, errors.New("boom")), http.StatusInternalServerError, model.CodeImportFailed},
		{"upload", model.NewUploadFailed(errors.New("s3 down")), http.StatusBadGateway, model.CodeUploadFailed},
		{"unknown", errors.New("other"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _, details := model.MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.status, status)
			body, ok := details.(map[string]interface{})
			if assert.True(t, ok) {
				assert.Equal(t, tt.code, body["code"])
			}
		})
	}
}

func TestStoreErrorDoesNotLeakDriverMessage(t *testing.T) {
	t.Parallel()

	_, msg, _ := model.MapErrorToHTTP(model.NewStoreError("list", errors.New("pq: password authentication failed")))
	assert.NotContains(t, msg, "password")
	assert.True(t, model.IsStoreError(model.NewStoreError("list", errors.New("x"))))
}
