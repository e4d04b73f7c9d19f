package account

import (
	"errors"
	"strings"

	"github.com/dmitrymomot/authservice/pkg/password"
	"github.com/dmitrymomot/authservice/pkg/validator"
)

const (
	maxNameLength  = 100
	maxEmailLength = 254
)

func validate(rules ...validator.Rule) error {
	if err := validator.Apply(rules...); err != nil {
		return errors.Join(ErrInvalidInput, err)
	}
	return nil
}

// SignupInput is the payload of Service.Signup.
type SignupInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in *SignupInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
}

// Validate checks required fields, the email shape and length limits.
func (in SignupInput) Validate() error {
	in.normalize()
	return validate(
		validator.Required("name", in.Name),
		validator.MaxLen("name", in.Name, maxNameLength),
		validator.Required("email", in.Email),
		validator.ValidEmail("email", in.Email),
		validator.MaxLen("email", in.Email, maxEmailLength),
		validator.Required("password", in.Password),
		validator.MaxBytes("password", in.Password, password.MaxLength),
	)
}

// LoginInput is the payload of Service.Login.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks that both credentials are present.
func (in LoginInput) Validate() error {
	return validate(
		validator.Required("email", strings.TrimSpace(in.Email)),
		validator.Required("password", in.Password),
	)
}

// VerifyEmailInput is the payload of Service.VerifyEmail.
type VerifyEmailInput struct {
	Code string `json:"code"`
}

// Validate checks that the code is present.
func (in VerifyEmailInput) Validate() error {
	return validate(validator.Required("code", in.Code))
}

// ForgotPasswordInput is the payload of Service.ForgotPassword.
type ForgotPasswordInput struct {
	Email string `json:"email"`
}

// Validate checks that the email is present.
func (in ForgotPasswordInput) Validate() error {
	return validate(validator.Required("email", strings.TrimSpace(in.Email)))
}

// ResetPasswordInput is the payload of Service.ResetPassword.
type ResetPasswordInput struct {
	Token    string `json:"-" path:"token"`
	Password string `json:"password"`
}

// Validate checks the token and the new password.
func (in ResetPasswordInput) Validate() error {
	return validate(
		validator.Required("token", in.Token),
		validator.Required("password", in.Password),
		validator.MaxBytes("password", in.Password, password.MaxLength),
	)
}
