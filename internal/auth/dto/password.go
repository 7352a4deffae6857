package dto

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type ForgotPasswordInput struct {
	Email     string `json:"email"`
	IPAddress string `json:"-"`
}

func (f ForgotPasswordInput) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Email, validation.Required, is.Email),
	)
}

type ResetPasswordInput struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
	IPAddress   string `json:"-"`
}

func (r ResetPasswordInput) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Token, validation.Required),
		validation.Field(&r.NewPassword, validation.Required, validation.Length(8, 72)),
	)
}
