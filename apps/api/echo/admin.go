package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/aastu-its/interntrack/core"
	"github.com/aastu-its/interntrack/core/company"
	"github.com/aastu-its/interntrack/core/dashboard"
	"github.com/aastu-its/interntrack/core/staff"
	"github.com/aastu-its/interntrack/core/student"
)

type adminApi struct {
	students  student.Service
	staff     staff.Service
	companies company.Service
	dashboard dashboard.Service
	validate  *validator.Validate
}

func registerAdminAPI(g *echo.Group, deps ServerDeps) {
	api := adminApi{
		students:  deps.StudentSvc,
		staff:     deps.StaffSvc,
		companies: deps.CompanySvc,
		dashboard: deps.DashboardSvc,
		validate:  deps.Validate,
	}

	g.GET("/users", api.queryUsers)
	g.GET("/students", api.queryStudents)

	sg := g.Group("/staff")
	sg.GET("", api.queryStaff)
	sg.POST("", api.createStaff)
	sg.POST("/:username/promote", api.promote)

	cg := g.Group("/companies")
	cg.GET("", api.queryCompanies)
	cg.POST("/:id/verify", api.verifyCompany)
}

// Handlers

func (api *adminApi) queryUsers(ctx echo.Context) error {
	users, err := api.dashboard.Users(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing users")
	}
	if users == nil {
		users = []dashboard.User{}
	}
	return ctx.JSON(http.StatusOK, users)
}

func (api *adminApi) queryStudents(ctx echo.Context) error {
	stds, err := api.students.Query(ctx.Request().Context(), student.QueryFilter{
		Department: core.CleanString(ctx.QueryParam("department")),
	})
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	if stds == nil {
		stds = []student.Student{}
	}
	return ctx.JSON(http.StatusOK, stds)
}

func (api *adminApi) queryStaff(ctx echo.Context) error {
	filter := staff.QueryFilter{Department: ctx.QueryParam("department")}
	for _, r := range ctx.QueryParams()["role"] {
		role, err := core.ParseRole(r)
		if err != nil {
			return ctx.JSON(http.StatusOK, []staff.Staff{})
		}
		filter.Roles = append(filter.Roles, role)
	}

	members, err := api.staff.Query(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying staff")
	}
	if members == nil {
		members = []staff.Staff{}
	}
	return ctx.JSON(http.StatusOK, members)
}

func (api *adminApi) createStaff(ctx echo.Context) error {
	var data staff.NewStaff
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStaff")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	member, err := api.staff.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating staff")
	}
	return ctx.JSON(http.StatusCreated, member)
}

func (api *adminApi) promote(ctx echo.Context) error {
	member, err := api.staff.PromoteToCoordinator(ctx.Request().Context(), ctx.Param("username"))
	if err != nil {
		return errors.Wrap(err, "promoting staff")
	}
	return ctx.JSON(http.StatusOK, member)
}

func (api *adminApi) queryCompanies(ctx echo.Context) error {
	var filter company.QueryFilter
	if v := ctx.QueryParam("verified"); v != "" {
		verified, err := strconv.ParseBool(v)
		if err != nil {
			return ctx.JSON(http.StatusOK, []company.Company{})
		}
		filter.Verified = &verified
	}

	cmps, err := api.companies.Query(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying companies")
	}
	if cmps == nil {
		cmps = []company.Company{}
	}
	return ctx.JSON(http.StatusOK, cmps)
}

func (api *adminApi) verifyCompany(ctx echo.Context) error {
	cmp, err := api.companies.Verify(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "verifying company")
	}
	return ctx.JSON(http.StatusOK, cmp)
}
