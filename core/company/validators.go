package company

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/aastu-its/interntrack/core"
)

func InitValidators(validate *validator.Validate, _ ut.Translator) {
	validate.RegisterStructValidation(newCompanyStructValidation, NewCompany{})
}

func newCompanyStructValidation(sl validator.StructLevel) {
	if nc, ok := sl.Current().Interface().(NewCompany); ok && nc.Password != "" {
		core.ValidatePassword(sl, nc.Password, nc.Name, nc.Email)
	}
}
