package dto

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type RefreshInput struct {
	RefreshToken string `json:"refreshToken"`
	IPAddress    string `json:"-"`
}

func (r RefreshInput) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.RefreshToken, validation.Required),
	)
}
