package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/aastu-its/interntrack/core/application"
	"github.com/aastu-its/interntrack/core/company"
	"github.com/aastu-its/interntrack/core/dashboard"
	"github.com/aastu-its/interntrack/core/logbook"
	"github.com/aastu-its/interntrack/core/notification"
	"github.com/aastu-its/interntrack/core/placement"
)

type studentApi struct {
	dashboard     dashboard.Service
	companies     company.Service
	applications  application.Service
	notifications notification.Service
	placements    placement.Service
	logbooks      logbook.Service
	validate      *validator.Validate
}

// registerStudentAPI mounts the endpoints of the student portal. g is already restricted to students.
func registerStudentAPI(g *echo.Group, deps ServerDeps) {
	api := studentApi{
		dashboard:     deps.DashboardSvc,
		companies:     deps.CompanySvc,
		applications:  deps.ApplicationSvc,
		notifications: deps.NotificationSvc,
		placements:    deps.PlacementSvc,
		logbooks:      deps.LogbookSvc,
		validate:      deps.Validate,
	}

	g.GET("/dashboard", api.retrieveDashboard)
	g.GET("/companies", api.queryCompanies)

	g.GET("/applications", api.queryApplications)
	g.POST("/applications", api.apply)

	g.GET("/notifications", api.queryNotifications)
	g.POST("/notifications/read", api.markNotificationsRead)
	g.POST("/notifications/:id/read", api.markNotificationRead)

	g.GET("/placement", api.retrievePlacement)
	g.POST("/placement", api.submitPlacement)

	g.GET("/logbooks", api.queryLogbooks)
	g.POST("/logbooks", api.submitLogbook)
}

// Handlers

func (api *studentApi) retrieveDashboard(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}
	dash, err := api.dashboard.Student(ctx.Request().Context(), sess)
	if err != nil {
		return errors.Wrap(err, "building student dashboard")
	}
	return ctx.JSON(http.StatusOK, dash)
}

func (api *studentApi) queryCompanies(ctx echo.Context) error {
	cmps, err := api.companies.QueryVerified(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying verified companies")
	}
	res := make([]company.Company, 0, len(cmps))
	for _, c := range cmps {
		res = append(res, c.Public())
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *studentApi) queryApplications(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}
	apps, err := api.applications.QueryForStudent(ctx.Request().Context(), sess.ID)
	if err != nil {
		return errors.Wrap(err, "querying applications")
	}
	if apps == nil {
		apps = []application.Application{}
	}
	return ctx.JSON(http.StatusOK, apps)
}

func (api *studentApi) apply(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}

	var data application.NewApplication
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewApplication")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	app, err := api.applications.Apply(ctx.Request().Context(), sess, data)
	if err != nil {
		return errors.Wrap(err, "applying")
	}
	return ctx.JSON(http.StatusCreated, app)
}

func (api *studentApi) queryNotifications(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}
	items, err := api.notifications.Feed(ctx.Request().Context(), sess.ID)
	if err != nil {
		return errors.Wrap(err, "querying notifications")
	}
	if items == nil {
		items = []notification.Item{}
	}
	return ctx.JSON(http.StatusOK, items)
}

func (api *studentApi) markNotificationsRead(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}

	var data MarkReadRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to MarkReadRequest")
	}

	if len(data.IDs) == 0 {
		n, err := api.notifications.MarkAllRead(ctx.Request().Context(), sess.ID)
		if err != nil {
			return errors.Wrap(err, "marking all notifications read")
		}
		return ctx.JSON(http.StatusOK, CountResponse{Count: n})
	}

	for _, id := range data.IDs {
		if err = api.notifications.MarkRead(ctx.Request().Context(), sess.ID, id); err != nil {
			return errors.Wrap(err, "marking notification read")
		}
	}
	return ctx.JSON(http.StatusOK, CountResponse{Count: len(data.IDs)})
}

func (api *studentApi) markNotificationRead(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}
	if err = api.notifications.MarkRead(ctx.Request().Context(), sess.ID, ctx.Param("id")); err != nil {
		return errors.Wrap(err, "marking notification read")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Notification marked as read."})
}

func (api *studentApi) retrievePlacement(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}
	p, err := api.placements.GetForStudent(ctx.Request().Context(), sess.ID)
	if err != nil {
		return errors.Wrap(err, "getting placement")
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *studentApi) submitPlacement(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}

	var data placement.NewPlacement
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPlacement")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	p, err := api.placements.Submit(ctx.Request().Context(), sess, data)
	if err != nil {
		return errors.Wrap(err, "submitting placement")
	}
	return ctx.JSON(http.StatusCreated, p)
}

func (api *studentApi) queryLogbooks(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}
	entries, err := api.logbooks.QueryForStudent(ctx.Request().Context(), sess.ID)
	if err != nil {
		return errors.Wrap(err, "querying logbook entries")
	}
	if entries == nil {
		entries = []logbook.Entry{}
	}
	return ctx.JSON(http.StatusOK, entries)
}

func (api *studentApi) submitLogbook(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}

	var data logbook.NewEntry
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEntry")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	entry, err := api.logbooks.Submit(ctx.Request().Context(), sess, data)
	if err != nil {
		return errors.Wrap(err, "submitting logbook entry")
	}
	return ctx.JSON(http.StatusCreated, entry)
}
