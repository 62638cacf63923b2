package model

import (
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegister() RegisterRequest {
	return RegisterRequest{
		Email:     "vasya@example.com",
		Username:  "vasya.pupkin",
		FirstName: "Vasya",
		LastName:  "Pupkin",
		Password:  "s3cret-pass",
	}
}

func TestRegisterRequest_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RegisterRequest)
		field  string
	}{
		{"valid", func(*RegisterRequest) {}, ""},
		{"bad email", func(r *RegisterRequest) { r.Email = "not-an-email" }, "email"},
		{"username with space", func(r *RegisterRequest) { r.Username = "vasya pupkin" }, "username"},
		{"reserved username", func(r *RegisterRequest) { r.Username = "me" }, "username"},
		{"missing first name", func(r *RegisterRequest) { r.FirstName = "" }, "first_name"},
		{"short password", func(r *RegisterRequest) { r.Password = "short" }, "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRegister()
			tt.mutate(&req)
			err := req.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var verrs validation.Errors
			require.ErrorAs(t, err, &verrs)
			assert.Contains(t, verrs, tt.field)
		})
	}
}

func TestRegisterRequest_Normalize(t *testing.T) {
	req := RegisterRequest{Email: "  Vasya@Example.COM ", Username: " vasya "}
	req.Normalize()

	assert.Equal(t, "vasya@example.com", req.Email)
	assert.Equal(t, "vasya", req.Username)
}

func TestSetPasswordRequest_Validate(t *testing.T) {
	assert.NoError(t, SetPasswordRequest{CurrentPassword: "old-password", NewPassword: "new-password"}.Validate())

	var verrs validation.Errors
	err := SetPasswordRequest{CurrentPassword: "same-password", NewPassword: "same-password"}.Validate()
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "new_password")

	err = SetPasswordRequest{NewPassword: "new-password"}.Validate()
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "current_password")
}
