// Package validator adapts go-playground/validator to Echo.
package validator

import (
	"dayflow/internal/domain/entity"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// CustomValidator implements echo.Validator.
type CustomValidator struct {
	validate *validator.Validate
}

// New builds a validator with the domain tags registered.
func New() *CustomValidator {
	validate := validator.New(validator.WithRequiredStructEnabled())
	// "role" accepts only the closed set of account roles.
	_ = validate.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return entity.Role(fl.Field().String()).IsValid()
	})

	return &CustomValidator{validate: validate}
}

// Validate runs struct tag validation on i.
func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validate.Struct(i); err != nil {
		return errors.WithStack(err)
	}

	return nil
}
