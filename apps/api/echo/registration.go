package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/aastu-its/interntrack/core/company"
	"github.com/aastu-its/interntrack/core/student"
)

type registrationApi struct {
	students    student.Service
	companies   company.Service
	emailDomain string
	validate    *validator.Validate
}

func registerRegistrationAPI(
	g *echo.Group,
	students student.Service,
	companies company.Service,
	emailDomain string,
	validate *validator.Validate,
) {
	api := registrationApi{
		students:    students,
		companies:   companies,
		emailDomain: emailDomain,
		validate:    validate,
	}

	g.POST("/students/register", api.registerStudent)
	g.POST("/companies/register", api.registerCompany)
}

func (api *registrationApi) registerStudent(ctx echo.Context) error {
	var data student.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(api.validate, api.emailDomain); err != nil {
		return err
	}

	std, err := api.students.Register(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "registering student")
	}
	return ctx.JSON(http.StatusCreated, std)
}

func (api *registrationApi) registerCompany(ctx echo.Context) error {
	var data company.NewCompany
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCompany")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	cmp, err := api.companies.Register(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "registering company")
	}
	return ctx.JSON(http.StatusCreated, cmp.Public())
}
