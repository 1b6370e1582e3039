//nolint:revive // types is a standard Go package name pattern
package types

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validContact() ContactRequest {
	return ContactRequest{
		Name:    "Ada Lovelace",
		Email:   "ada@example.com",
		Subject: "Template request",
		Message: "Could you add a two-column template?",
	}
}

func TestContactRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *ContactRequest)
		wantErr bool
		field   string
	}{
		{name: "valid", mutate: func(*ContactRequest) {}},
		{name: "missing name", mutate: func(r *ContactRequest) { r.Name = "" }, wantErr: true, field: "Name"},
		{name: "missing subject", mutate: func(r *ContactRequest) { r.Subject = "" }, wantErr: true, field: "Subject"},
		{name: "bad email", mutate: func(r *ContactRequest) { r.Email = "ada-at-example" }, wantErr: true, field: "Email"},
		{name: "name at limit", mutate: func(r *ContactRequest) { r.Name = strings.Repeat("a", 100) }},
		{name: "name over limit", mutate: func(r *ContactRequest) { r.Name = strings.Repeat("a", 101) }, wantErr: true, field: "Name"},
		{name: "subject over limit", mutate: func(r *ContactRequest) { r.Subject = strings.Repeat("s", 201) }, wantErr: true, field: "Subject"},
		{name: "message too short", mutate: func(r *ContactRequest) { r.Message = "too short" }, wantErr: true, field: "Message"},
		{name: "message at minimum", mutate: func(r *ContactRequest) { r.Message = "ten chars!" }},
		{name: "message at maximum", mutate: func(r *ContactRequest) { r.Message = strings.Repeat("m", 5000) }},
		{name: "message over maximum", mutate: func(r *ContactRequest) { r.Message = strings.Repeat("m", 5001) }, wantErr: true, field: "Message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validContact()
			tt.mutate(&req)
			err := req.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var verrs validator.ValidationErrors
			require.True(t, errors.As(err, &verrs))
			assert.Equal(t, tt.field, verrs[0].Field())
		})
	}
}

func TestCreateUserRequest_Validate(t *testing.T) {
	valid := CreateUserRequest{Name: "Jane", Email: "jane@example.com", Password: "password123"}
	assert.NoError(t, valid.Validate())

	short := valid
	short.Password = "short"
	assert.Error(t, short.Validate())

	noEmail := valid
	noEmail.Email = ""
	assert.Error(t, noEmail.Validate())
}

func TestLoginRequest_Validate(t *testing.T) {
	assert.NoError(t, (&LoginRequest{Email: "jane@example.com", Password: "x"}).Validate())
	assert.Error(t, (&LoginRequest{Email: "jane@example.com"}).Validate())
}
