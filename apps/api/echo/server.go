package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/aastu-its/interntrack/core"
	"github.com/aastu-its/interntrack/core/application"
	"github.com/aastu-its/interntrack/core/assignment"
	"github.com/aastu-its/interntrack/core/company"
	"github.com/aastu-its/interntrack/core/dashboard"
	"github.com/aastu-its/interntrack/core/evaluation"
	"github.com/aastu-its/interntrack/core/logbook"
	"github.com/aastu-its/interntrack/core/notification"
	"github.com/aastu-its/interntrack/core/placement"
	"github.com/aastu-its/interntrack/core/session"
	"github.com/aastu-its/interntrack/core/staff"
	"github.com/aastu-its/interntrack/core/student"
)

// BodyLimit caps request bodies. Company documents travel as data URIs.
const BodyLimit = "20M"

type (
	ServerDeps struct {
		Conf           *core.Config
		Logger         core.Logger
		Validate       *validator.Validate
		Translator     ut.Translator
		DisableReqLogs bool

		Sessions        *session.Resolver
		StudentSvc      student.Service
		StaffSvc        staff.Service
		CompanySvc      company.Service
		AssignmentSvc   assignment.Service
		ApplicationSvc  application.Service
		NotificationSvc notification.Service
		PlacementSvc    placement.Service
		LogbookSvc      logbook.Service
		EvaluationSvc   evaluation.Service
		DashboardSvc    dashboard.Service
	}

	Server interface {
		http.Handler
		Start()
		Errors() <-chan error
		ShutdownSignal() <-chan os.Signal
		Shutdown(ctx context.Context) error
		Close() error
	}

	server struct {
		deps     ServerDeps
		app      *echo.Echo
		tokens   *tokenIssuer
		errors   chan error
		shutdown chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(deps ServerDeps) Server {
	s := &server{
		deps:     deps,
		app:      echo.New(),
		tokens:   newTokenIssuer(deps.Conf),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.deps.Conf

	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.deps.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{conf.FrontendBaseURL},
	}))
	s.app.Use(middleware.BodyLimit(BodyLimit))

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.signalShutdown)
	s.app.Debug = conf.Debug

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	jwt := middleware.JWTWithConfig(s.tokens.jwtConfig())
	rbac := mustNewEnforcer()

	registerAuthAPI(v1, jwt, s.tokens, s.deps.Sessions, s.deps.Validate)
	registerRegistrationAPI(v1, s.deps.StudentSvc, s.deps.CompanySvc, conf.StudentEmailDomain, s.deps.Validate)
	registerStudentAPI(v1.Group("/student", jwt, rbac.authorize(resStudent)), s.deps)
	registerCompanyAPI(v1.Group("/company", jwt, rbac.authorize(resCompany)), s.deps)
	registerCoordinatorAPI(v1.Group("/coordinator", jwt, rbac.authorize(resCoordinator)), s.deps)
	registerPlacementAPI(v1.Group("/placements", jwt, rbac.authorize(resPlacements)), s.deps.PlacementSvc)
	registerStaffAPI(v1.Group("/staff", jwt, rbac.authorize(resAssignedStudents)), s.deps.AssignmentSvc)
	registerAdminAPI(v1.Group("/admin", jwt, rbac.authorize(resAdmin)), s.deps)
}

func (s *server) Start() {
	if err := s.app.Start(s.deps.Conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *server) Errors() <-chan error {
	return s.errors
}

func (s *server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

// signalShutdown asks the owner of the server to shut it down gracefully.
func (s *server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default: // already signaled
	}
}

func (s *server) Shutdown(ctx context.Context) error {
	signal.Stop(s.shutdown)
	return s.app.Shutdown(ctx)
}

func (s *server) Close() error {
	signal.Stop(s.shutdown)
	return s.app.Close()
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to InternTrack API!")
}
