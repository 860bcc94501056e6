package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/aastu-its/interntrack/core"
	"github.com/aastu-its/interntrack/core/assignment"
	"github.com/aastu-its/interntrack/core/dashboard"
	"github.com/aastu-its/interntrack/core/staff"
	"github.com/aastu-its/interntrack/core/student"
)

type coordinatorApi struct {
	students    student.Service
	staff       staff.Service
	assignments assignment.Service
	dashboard   dashboard.Service
}

// registerCoordinatorAPI mounts the endpoints of the coordinator portal.
// Everything a coordinator sees or changes is scoped to their department.
func registerCoordinatorAPI(g *echo.Group, deps ServerDeps) {
	api := coordinatorApi{
		students:    deps.StudentSvc,
		staff:       deps.StaffSvc,
		assignments: deps.AssignmentSvc,
		dashboard:   deps.DashboardSvc,
	}

	g.GET("/dashboard", api.retrieveDashboard)

	g.GET("/eligible-students", api.queryEligible)
	g.POST("/eligible-students", api.uploadEligible)
	g.GET("/students", api.queryStudents)

	g.GET("/assignments", api.queryAssignments)
	g.POST("/assignments", api.assign)

	g.GET("/staff", api.queryStaff)
	g.POST("/staff/:username/role", api.assignRole)
}

// Handlers

func (api *coordinatorApi) retrieveDashboard(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}
	stats, err := api.dashboard.Coordinator(ctx.Request().Context(), sess)
	if err != nil {
		return errors.Wrap(err, "computing coordinator stats")
	}
	return ctx.JSON(http.StatusOK, stats)
}

func (api *coordinatorApi) queryEligible(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}
	if sess.Department == "" {
		return ctx.JSON(http.StatusOK, []student.EligibleStudent{})
	}
	list, err := api.students.QueryEligible(ctx.Request().Context(), student.QueryFilter{Department: sess.Department})
	if err != nil {
		return errors.Wrap(err, "querying eligible students")
	}
	if list == nil {
		list = []student.EligibleStudent{}
	}
	return ctx.JSON(http.StatusOK, list)
}

func (api *coordinatorApi) uploadEligible(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}
	if sess.Department == "" {
		return core.NewValidationError(staff.ErrNoDepartment)
	}

	var data []student.EligibleStudent
	if err = ctx.Bind(&data); err != nil {
		return core.NewValidationError(student.ErrNoValidStudents)
	}

	res, err := api.students.UploadEligible(ctx.Request().Context(), sess.Department, data)
	if err != nil {
		return errors.Wrap(err, "uploading eligible students")
	}
	return ctx.JSON(http.StatusCreated, res)
}

func (api *coordinatorApi) queryStudents(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}
	if sess.Department == "" {
		return ctx.JSON(http.StatusOK, []student.Student{})
	}
	stds, err := api.students.Query(ctx.Request().Context(), student.QueryFilter{Department: sess.Department})
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	if stds == nil {
		stds = []student.Student{}
	}
	return ctx.JSON(http.StatusOK, stds)
}

func (api *coordinatorApi) queryAssignments(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}
	if sess.Department == "" {
		return ctx.JSON(http.StatusOK, []assignment.Assignment{})
	}
	list, err := api.assignments.QueryForDepartment(ctx.Request().Context(), sess.Department)
	if err != nil {
		return errors.Wrap(err, "querying assignments")
	}
	if list == nil {
		list = []assignment.Assignment{}
	}
	return ctx.JSON(http.StatusOK, list)
}

func (api *coordinatorApi) assign(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}
	var data assignment.AssignStudent
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AssignStudent")
	}

	a, err := api.assignments.Assign(ctx.Request().Context(), sess, data)
	if err != nil {
		return errors.Wrap(err, "assigning student")
	}
	return ctx.JSON(http.StatusOK, a)
}

func (api *coordinatorApi) queryStaff(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}
	if sess.Department == "" {
		return ctx.JSON(http.StatusOK, []staff.Staff{})
	}

	filter := staff.QueryFilter{Department: sess.Department}
	if r := ctx.QueryParam("role"); r != "" {
		role, err := core.ParseRole(r)
		if err != nil {
			return ctx.JSON(http.StatusOK, []staff.Staff{})
		}
		filter.Roles = []core.Role{role}
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

func (api *coordinatorApi) assignRole(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}
	var data staff.RoleAssignment
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to RoleAssignment")
	}
	data.Username = ctx.Param("username")

	member, err := api.staff.AssignRole(ctx.Request().Context(), sess, data)
	if err != nil {
		return errors.Wrap(err, "assigning role")
	}
	return ctx.JSON(http.StatusOK, member)
}
