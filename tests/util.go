package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

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
	"github.com/aastu-its/interntrack/storage/kvstore"
	"github.com/aastu-its/interntrack/storage/repos"
)

// App is the whole service graph over an in-memory store.
type App struct {
	Conf   *core.Config
	Store  core.Store
	Mail   *emailsvc.ConsoleServiceMock
	Logger core.Logger

	Validate   *validator.Validate
	Translator ut.Translator

	StudentRepo  student.Repository
	StaffRepo    staff.Repository
	CompanyRepo  company.Repository
	ApplRepo     application.Repository
	AssignRepo   assignment.Repository
	NotifRepo    notification.Repository
	PlaceRepo    placement.Repository
	LogbookRepo  logbook.Repository
	EvalRepo     evaluation.Repository
	StudentSvc   student.Service
	StaffSvc     staff.Service
	CompanySvc   company.Service
	AssignSvc    assignment.Service
	ApplSvc      application.Service
	NotifSvc     notification.Service
	PlacementSvc placement.Service
	LogbookSvc   logbook.Service
	EvalSvc      evaluation.Service
	DashboardSvc dashboard.Service
	Sessions     *session.Resolver
}

func NewValidator() (*validator.Validate, ut.Translator) {
	_en := en.New()
	translator, _ := ut.New(_en, _en).GetTranslator("en")

	validate := validator.New()
	core.InitValidators(validate, translator)
	student.InitValidators(validate, translator)
	staff.InitValidators(validate, translator)
	company.InitValidators(validate, translator)
	return validate, translator
}

// NewApp wires every service over a fresh memory store. registry may be nil.
func NewApp(t *testing.T, registry student.Registry) *App {
	t.Helper()

	a := &App{Conf: core.NewTestConfig(), Store: kvstore.NewMemory()}
	t.Cleanup(func() { _ = a.Store.Close() })

	a.Logger = logsvc.NewDiscardLogger(a.Conf)
	a.Mail = emailsvc.NewConsoleServiceMock(a.Conf, a.Logger)
	a.Validate, a.Translator = NewValidator()

	a.StudentRepo = repos.NewStudentRepository(a.Store)
	a.StaffRepo = repos.NewStaffRepository(a.Store)
	a.CompanyRepo = repos.NewCompanyRepository(a.Store)
	a.ApplRepo = repos.NewApplicationRepository(a.Store)
	a.AssignRepo = repos.NewAssignmentRepository(a.Store)
	a.NotifRepo = repos.NewNotificationRepository(a.Store)
	a.PlaceRepo = repos.NewPlacementRepository(a.Store)
	a.LogbookRepo = repos.NewLogbookRepository(a.Store)
	a.EvalRepo = repos.NewEvaluationRepository(a.Store)

	a.StudentSvc = student.NewService(a.StudentRepo, registry, a.Logger)
	a.StaffSvc = staff.NewService(a.StaffRepo)
	a.CompanySvc = company.NewService(a.CompanyRepo, a.Mail)
	a.AssignSvc = assignment.NewService(a.AssignRepo, a.StudentSvc, a.StaffSvc)
	a.NotifSvc = notification.NewService(a.NotifRepo)
	a.ApplSvc = application.NewService(a.ApplRepo, a.CompanySvc, a.NotifSvc, a.Mail, a.Logger)
	a.PlacementSvc = placement.NewService(a.PlaceRepo, a.NotifSvc, a.Mail, a.Logger)
	a.LogbookSvc = logbook.NewService(a.LogbookRepo, a.ApplSvc, a.NotifSvc, a.Logger)
	a.EvalSvc = evaluation.NewService(a.EvalRepo, a.ApplSvc)
	a.DashboardSvc = dashboard.NewService(dashboard.Deps{
		Students:      a.StudentSvc,
		Staff:         a.StaffSvc,
		Companies:     a.CompanySvc,
		Assignments:   a.AssignSvc,
		Applications:  a.ApplSvc,
		Notifications: a.NotifSvc,
	})
	a.Sessions = session.NewResolver(a.Conf, a.StudentSvc, a.CompanySvc, a.StaffSvc)
	return a
}

func CreateEligible(t *testing.T, repo student.Repository, dept string, entries ...student.EligibleStudent) {
	t.Helper()
	for i := range entries {
		if entries[i].Department == "" {
			entries[i].Department = dept
		}
		entries[i].UploadedAt = time.Now().UTC()
	}
	if _, err := repo.AddEligibleStudents(context.Background(), entries...); err != nil {
		t.Fatalf("CreateEligible() failed: %v", err)
	}
}

func CreateStudent(t *testing.T, repo student.Repository, id, name, email, dept, pwd string) student.Student {
	t.Helper()
	now := time.Now().UTC()
	std := student.Student{
		StudentID:  id,
		Name:       name,
		Email:      email,
		Phone:      "0911223344",
		Department: dept,
		Origin:     student.OriginLocal,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if pwd != "" {
		if err := std.SetPassword(pwd); err != nil {
			t.Fatalf("CreateStudent() failed: %v", err)
		}
	}
	std, err := repo.CreateStudent(context.Background(), std)
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return std
}

func CreateStaff(t *testing.T, repo staff.Repository, username string, role core.Role, dept, pwd string) staff.Staff {
	t.Helper()
	now := time.Now().UTC()
	s := staff.Staff{
		Username:   username,
		Email:      username + "@aastu.edu.et",
		Name:       username,
		Role:       role,
		Department: dept,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if pwd != "" {
		if err := s.SetPassword(pwd); err != nil {
			t.Fatalf("CreateStaff() failed: %v", err)
		}
	}
	s, err := repo.CreateStaff(context.Background(), s)
	if err != nil {
		t.Fatalf("CreateStaff() failed: %v", err)
	}
	return s
}

func CreateCompany(t *testing.T, repo company.Repository, name, email, pwd string, verified bool) company.Company {
	t.Helper()
	c := company.Company{
		ID:           uuid.New().String(),
		Name:         name,
		ContactEmail: email,
		Phone:        "0911223344",
		DocumentName: "license.pdf",
		DocumentData: "data:application/pdf;base64,JVBERi0=",
		CreatedAt:    time.Now().UTC(),
	}
	if pwd != "" {
		if err := c.SetPassword(pwd); err != nil {
			t.Fatalf("CreateCompany() failed: %v", err)
		}
	}
	c, err := repo.CreateCompany(context.Background(), c)
	if err != nil {
		t.Fatalf("CreateCompany() failed: %v", err)
	}
	if verified {
		if c, _, err = repo.VerifyCompany(context.Background(), c.ID, time.Now().UTC()); err != nil {
			t.Fatalf("CreateCompany() failed: %v", err)
		}
	}
	return c
}

// Accept files an application of std to cmp and accepts it.
func Accept(t *testing.T, a *App, std student.Student, cmp company.Company) application.Application {
	t.Helper()
	ctx := context.Background()
	app, err := a.ApplSvc.Apply(ctx, std.Session(), application.NewApplication{CompanyID: cmp.ID, Reason: "learning"})
	if err != nil {
		t.Fatalf("Accept() failed to apply: %v", err)
	}
	if app, err = a.ApplSvc.Accept(ctx, cmp.Session(), app.ID, ""); err != nil {
		t.Fatalf("Accept() failed: %v", err)
	}
	return app
}
