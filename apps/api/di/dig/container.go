package dig_container

import (
	"fmt"
	"log"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/aastu-its/interntrack/apps/api/echo"
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
	emailsvc "github.com/aastu-its/interntrack/services/email"
	logsvc "github.com/aastu-its/interntrack/services/logger"
	registrysvc "github.com/aastu-its/interntrack/services/registry"
	"github.com/aastu-its/interntrack/storage/database"
	"github.com/aastu-its/interntrack/storage/kvstore"
	"github.com/aastu-its/interntrack/storage/repos"
)

type StoreLoggerParam struct {
	dig.In
	Logger core.Logger `name:"storeLogger"`
}

func newLogger(conf *core.Config) core.Logger {
	logger := logsvc.NewRollbarLogger(logsvc.NewStdLogger(conf, "API"), conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newStoreLogger(conf *core.Config) core.Logger {
	logger := logsvc.NewRollbarLogger(logsvc.NewStdLogger(conf, "STORE"), conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newStore(conf *core.Config, loggerParam StoreLoggerParam) core.Store {
	setUp := func() (core.Store, error) {
		if conf.Storage.Driver == kvstore.DriverPostgres {
			if err := database.CreateIfNotExist(conf); err != nil {
				return nil, err
			}
		}
		return kvstore.Open(conf)
	}

	store, err := setUp()
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up %s store: %v", conf.Storage.Driver, err), err)
	}
	return store
}

func newEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug {
		return emailsvc.NewConsoleService(conf, logger)
	}
	return emailsvc.NewSendgridService(conf, logger)
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

func newAssignmentService(repo assignment.Repository, students student.Service, members staff.Service) assignment.Service {
	return assignment.NewService(repo, students, members)
}

func newApplicationService(
	repo application.Repository,
	companies company.Service,
	notifications notification.Service,
	mailSvc core.EmailService,
	logger core.Logger,
) application.Service {
	return application.NewService(repo, companies, notifications, mailSvc, logger)
}

func newPlacementService(repo placement.Repository, notifications notification.Service, mailSvc core.EmailService, logger core.Logger) placement.Service {
	return placement.NewService(repo, notifications, mailSvc, logger)
}

func newLogbookService(repo logbook.Repository, apps application.Service, notifications notification.Service, logger core.Logger) logbook.Service {
	return logbook.NewService(repo, apps, notifications, logger)
}

func newEvaluationService(repo evaluation.Repository, apps application.Service) evaluation.Service {
	return evaluation.NewService(repo, apps)
}

func newResolver(conf *core.Config, students student.Service, companies company.Service, members staff.Service) *session.Resolver {
	return session.NewResolver(conf, students, companies, members)
}

type dashboardParams struct {
	dig.In
	Students      student.Service
	Staff         staff.Service
	Companies     company.Service
	Assignments   assignment.Service
	Applications  application.Service
	Notifications notification.Service
}

func newDashboardService(p dashboardParams) dashboard.Service {
	return dashboard.NewService(dashboard.Deps{
		Students:      p.Students,
		Staff:         p.Staff,
		Companies:     p.Companies,
		Assignments:   p.Assignments,
		Applications:  p.Applications,
		Notifications: p.Notifications,
	})
}

type serverParams struct {
	dig.In
	Conf          *core.Config
	Logger        core.Logger
	Validate      *validator.Validate
	Translator    ut.Translator
	Sessions      *session.Resolver
	Students      student.Service
	Staff         staff.Service
	Companies     company.Service
	Assignments   assignment.Service
	Applications  application.Service
	Notifications notification.Service
	Placements    placement.Service
	Logbooks      logbook.Service
	Evaluations   evaluation.Service
	Dashboard     dashboard.Service
}

func newServer(p serverParams) echoapi.Server {
	return echoapi.NewServer(echoapi.ServerDeps{
		Conf:            p.Conf,
		Logger:          p.Logger,
		Validate:        p.Validate,
		Translator:      p.Translator,
		Sessions:        p.Sessions,
		StudentSvc:      p.Students,
		StaffSvc:        p.Staff,
		CompanySvc:      p.Companies,
		AssignmentSvc:   p.Assignments,
		ApplicationSvc:  p.Applications,
		NotificationSvc: p.Notifications,
		PlacementSvc:    p.Placements,
		LogbookSvc:      p.Logbooks,
		EvaluationSvc:   p.Evaluations,
		DashboardSvc:    p.Dashboard,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newStoreLogger, dig.Name("storeLogger")))
	must(c.Provide(newStore))
	must(c.Provide(newEmailService))
	must(c.Provide(registrysvc.NewClient))
	must(c.Provide(validator.New))
	must(c.Provide(newTranslator))

	// repositories
	must(c.Provide(repos.NewStudentRepository))
	must(c.Provide(repos.NewStaffRepository))
	must(c.Provide(repos.NewCompanyRepository))
	must(c.Provide(repos.NewAssignmentRepository))
	must(c.Provide(repos.NewApplicationRepository))
	must(c.Provide(repos.NewNotificationRepository))
	must(c.Provide(repos.NewPlacementRepository))
	must(c.Provide(repos.NewLogbookRepository))
	must(c.Provide(repos.NewEvaluationRepository))

	// services
	must(c.Provide(student.NewService))
	must(c.Provide(staff.NewService))
	must(c.Provide(company.NewService))
	must(c.Provide(notification.NewService))
	must(c.Provide(newAssignmentService))
	must(c.Provide(newApplicationService))
	must(c.Provide(newPlacementService))
	must(c.Provide(newLogbookService))
	must(c.Provide(newEvaluationService))
	must(c.Provide(newDashboardService))
	must(c.Provide(newResolver))

	must(c.Provide(newServer))

	if os.Getenv("DIG_VISUALIZE") != "" {
		_ = dig.Visualize(c, os.Stdout)
	}

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
