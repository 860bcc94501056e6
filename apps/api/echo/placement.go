package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/aastu-its/interntrack/core/assignment"
	"github.com/aastu-its/interntrack/core/placement"
)

type placementApi struct {
	svc placement.Service
}

// registerPlacementAPI mounts the self placement review endpoints shared by coordinators and admins.
func registerPlacementAPI(g *echo.Group, svc placement.Service) {
	api := placementApi{svc: svc}

	g.GET("", api.query)
	g.POST("/:id/review", api.review)
}

func (api *placementApi) query(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}
	list, err := api.svc.Query(ctx.Request().Context(), sess, placement.Status(statusParam(ctx)))
	if err != nil {
		return errors.Wrap(err, "querying placements")
	}
	if list == nil {
		list = []placement.Placement{}
	}
	return ctx.JSON(http.StatusOK, list)
}

func (api *placementApi) review(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}
	var data placement.Review
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to placement.Review")
	}

	p, err := api.svc.Review(ctx.Request().Context(), sess, ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "reviewing placement")
	}
	return ctx.JSON(http.StatusOK, p)
}

type staffApi struct {
	assignments assignment.Service
}

// registerStaffAPI mounts the endpoints of advisors, examiners and supervisors.
func registerStaffAPI(g *echo.Group, assignments assignment.Service) {
	api := staffApi{assignments: assignments}

	g.GET("/students", api.queryAssignedStudents)
}

func (api *staffApi) queryAssignedStudents(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}
	list, err := api.assignments.QueryForStaff(ctx.Request().Context(), sess)
	if err != nil {
		return errors.Wrap(err, "querying assigned students")
	}
	if list == nil {
		list = []assignment.Assignment{}
	}
	return ctx.JSON(http.StatusOK, list)
}
