package model

import (
	"errors"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

const (
	maxEmailLength    = 254
	maxNameLength     = 150
	minPasswordLength = 8
	maxPasswordLength = 128
)

// letters, digits và @ . + - _
var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// "me" trùng với route /users/me
var reservedUsernames = []interface{}{"me"}

type RegisterRequest struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

func (r *RegisterRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Username = strings.TrimSpace(r.Username)
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.Length(1, maxEmailLength), is.EmailFormat),
		validation.Field(&r.Username,
			validation.Required,
			validation.Length(1, maxNameLength),
			validation.Match(usernamePattern).Error("may contain only letters, digits and @/./+/-/_"),
			validation.NotIn(reservedUsernames...).Error("this username is reserved"),
		),
		validation.Field(&r.FirstName, validation.Required, validation.Length(1, maxNameLength)),
		validation.Field(&r.LastName, validation.Required, validation.Length(1, maxNameLength)),
		validation.Field(&r.Password, validation.Required, validation.Length(minPasswordLength, maxPasswordLength)),
	)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

type SetPasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (r SetPasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.CurrentPassword, validation.Required),
		validation.Field(&r.NewPassword,
			validation.Required,
			validation.Length(minPasswordLength, maxPasswordLength),
			validation.By(func(value interface{}) error {
				if value.(string) == r.CurrentPassword {
					return errors.New("must differ from the current password")
				}
				return nil
			}),
		),
	)
}
