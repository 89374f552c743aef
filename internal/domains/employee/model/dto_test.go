package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vcard-backend/internal/domains/employee/model"
)

func TestEmployeeRequest_Validate(t *testing.T) {
	t.Parallel()

	valid := model.EmployeeRequest{FullName: "A B", Email: "a@x.com"}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name string
		req  model.EmployeeRequest
	}{
		{"missing name", model.EmployeeRequest{Email: "a@x.com"}},
		{"blank name", model.EmployeeRequest{FullName: "   ", Email: "a@x.com"}},
		{"missing email", model.EmployeeRequest{FullName: "A"}},
		{"bad email", model.EmployeeRequest{FullName: "A", Email: "not-an-email"}},
		{"bad photo url", model.EmployeeRequest{FullName: "A", Email: "a@x.com", PhotoURL: "http://exa mple.com"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.req.Validate())
		})
	}
}

func TestEmployeeRequest_ToEmployeeKeepsValuesAsSubmitted(t *testing.T) {
	t.Parallel()

	req := model.EmployeeRequest{
		FullName: " A B ",
		Email:    "a@x.com",
		Website:  "",
	}
	e := req.ToEmployee()

	assert.Equal(t, " A B ", e.FullName)
	assert.Empty(t, e.Website, "website is never defaulted outside import")
	assert.Equal(t, req, model.FromEmployee(e))
}
