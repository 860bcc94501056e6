package student

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/aastu-its/interntrack/core"
)

func InitValidators(validate *validator.Validate, _ ut.Translator) {
	validate.RegisterStructValidation(newStudentStructValidation, NewStudent{})
}

func newStudentStructValidation(sl validator.StructLevel) {
	if ns, ok := sl.Current().Interface().(NewStudent); ok && ns.Password != "" {
		core.ValidatePassword(sl, ns.Password, ns.Name, ns.Email, ns.StudentID)
	}
}
