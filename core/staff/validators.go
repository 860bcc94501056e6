package staff

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/aastu-its/interntrack/core"
)

var (
	staffRoleTag  = "staffrole"
	staffRoleText = "invalid staff role"
)

func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(staffRoleTag, staffRoleValidation)
	core.RegisterCustomTranslation(validate, translator, staffRoleTag, staffRoleText)

	validate.RegisterStructValidation(newStaffStructValidation, NewStaff{})
}

func staffRoleValidation(fl validator.FieldLevel) bool {
	if r, ok := fl.Field().Interface().(core.Role); ok {
		return r.IsStaff()
	}
	return false
}

func newStaffStructValidation(sl validator.StructLevel) {
	if ns, ok := sl.Current().Interface().(NewStaff); ok && ns.Password != "" {
		core.ValidatePassword(sl, ns.Password, ns.Username, ns.Email, ns.Name)
	}
}
