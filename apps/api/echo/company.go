package echoapi

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/aastu-its/interntrack/core"
	"github.com/aastu-its/interntrack/core/application"
	"github.com/aastu-its/interntrack/core/evaluation"
	"github.com/aastu-its/interntrack/core/logbook"
)

type companyApi struct {
	applications application.Service
	logbooks     logbook.Service
	evaluations  evaluation.Service
	validate     *validator.Validate
}

// registerCompanyAPI mounts the endpoints of the company portal. g is already restricted to companies.
func registerCompanyAPI(g *echo.Group, deps ServerDeps) {
	api := companyApi{
		applications: deps.ApplicationSvc,
		logbooks:     deps.LogbookSvc,
		evaluations:  deps.EvaluationSvc,
		validate:     deps.Validate,
	}

	g.GET("/overview", api.retrieveOverview)

	ag := g.Group("/applications")
	ag.GET("", api.queryApplications)
	ag.POST("/:id/accept", api.acceptApplication)
	ag.POST("/:id/reject", api.rejectApplication)
	ag.POST("/:id/request-info", api.requestInfo)

	g.GET("/interns", api.queryInterns)

	lg := g.Group("/logbooks")
	lg.GET("", api.queryLogbooks)
	lg.POST("/:id/approve", api.approveLogbook)
	lg.POST("/:id/reject", api.rejectLogbook)

	eg := g.Group("/evaluations")
	eg.GET("/monthly", api.queryMonthly)
	eg.POST("/monthly", api.submitMonthly)
	eg.GET("/final", api.queryFinal)
	eg.POST("/final", api.submitFinal)
}

// Handlers

func (api *companyApi) retrieveOverview(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}
	ov, err := api.applications.Overview(ctx.Request().Context(), sess.ID)
	if err != nil {
		return errors.Wrap(err, "computing overview")
	}
	return ctx.JSON(http.StatusOK, ov)
}

func (api *companyApi) queryApplications(ctx echo.Context) error {
	return api.respondApplications(ctx, application.Status(statusParam(ctx)))
}

func (api *companyApi) queryInterns(ctx echo.Context) error {
	return api.respondApplications(ctx, application.StatusAccepted)
}

func (api *companyApi) respondApplications(ctx echo.Context, status application.Status) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}
	apps, err := api.applications.QueryForCompany(ctx.Request().Context(), sess.ID, status)
	if err != nil {
		return errors.Wrap(err, "querying applications")
	}
	if apps == nil {
		apps = []application.Application{}
	}
	return ctx.JSON(http.StatusOK, apps)
}

func (api *companyApi) acceptApplication(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}
	var data SupervisorRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SupervisorRequest")
	}

	app, err := api.applications.Accept(ctx.Request().Context(), sess, ctx.Param("id"), data.Supervisor)
	if err != nil {
		return errors.Wrap(err, "accepting application")
	}
	return ctx.JSON(http.StatusOK, app)
}

func (api *companyApi) rejectApplication(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}
	var data ReasonRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ReasonRequest")
	}

	app, err := api.applications.Reject(ctx.Request().Context(), sess, ctx.Param("id"), data.Reason)
	if err != nil {
		return errors.Wrap(err, "rejecting application")
	}
	return ctx.JSON(http.StatusOK, app)
}

func (api *companyApi) requestInfo(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}
	var data MessageRequest
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to MessageRequest")
	}

	app, err := api.applications.RequestInfo(ctx.Request().Context(), sess, ctx.Param("id"), data.Message)
	if err != nil {
		return errors.Wrap(err, "requesting information")
	}
	return ctx.JSON(http.StatusOK, app)
}

func (api *companyApi) queryLogbooks(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}
	entries, err := api.logbooks.QueryForCompany(ctx.Request().Context(), sess.ID, logbook.Status(statusParam(ctx)))
	if err != nil {
		return errors.Wrap(err, "querying logbook entries")
	}
	if entries == nil {
		entries = []logbook.Entry{}
	}
	return ctx.JSON(http.StatusOK, entries)
}

func (api *companyApi) approveLogbook(ctx echo.Context) error {
	return api.reviewLogbook(ctx, api.logbooks.Approve)
}

func (api *companyApi) rejectLogbook(ctx echo.Context) error {
	return api.reviewLogbook(ctx, api.logbooks.Reject)
}

func (api *companyApi) reviewLogbook(
	ctx echo.Context,
	review func(ctx context.Context, cmp core.Session, id string, rv logbook.Review) (logbook.Entry, error),
) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}
	var data logbook.Review
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to logbook.Review")
	}

	entry, err := review(ctx.Request().Context(), sess, ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "reviewing logbook entry")
	}
	return ctx.JSON(http.StatusOK, entry)
}

func (api *companyApi) queryMonthly(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}
	evals, err := api.evaluations.QueryMonthly(ctx.Request().Context(), evaluation.QueryFilter{
		CompanyID: sess.ID,
		StudentID: core.CleanString(ctx.QueryParam("studentId")),
	})
	if err != nil {
		return errors.Wrap(err, "querying monthly evaluations")
	}
	if evals == nil {
		evals = []evaluation.Monthly{}
	}
	return ctx.JSON(http.StatusOK, evals)
}

func (api *companyApi) submitMonthly(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}
	var data evaluation.NewMonthly
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewMonthly")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	eval, err := api.evaluations.SubmitMonthly(ctx.Request().Context(), sess, data)
	if err != nil {
		return errors.Wrap(err, "submitting monthly evaluation")
	}
	return ctx.JSON(http.StatusCreated, eval)
}

func (api *companyApi) queryFinal(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}
	evals, err := api.evaluations.QueryFinal(ctx.Request().Context(), evaluation.QueryFilter{
		CompanyID: sess.ID,
		StudentID: core.CleanString(ctx.QueryParam("studentId")),
	})
	if err != nil {
		return errors.Wrap(err, "querying final evaluations")
	}
	if evals == nil {
		evals = []evaluation.Final{}
	}
	return ctx.JSON(http.StatusOK, evals)
}

func (api *companyApi) submitFinal(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}
	var data evaluation.NewFinal
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewFinal")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	eval, err := api.evaluations.SubmitFinal(ctx.Request().Context(), sess, data)
	if err != nil {
		return errors.Wrap(err, "submitting final evaluation")
	}
	return ctx.JSON(http.StatusCreated, eval)
}
