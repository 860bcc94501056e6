package application

import (
	"context"
	"fmt"
	"net/mail"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/aastu-its/interntrack/core"
	"github.com/aastu-its/interntrack/core/company"
	"github.com/aastu-its/interntrack/core/notification"
)

var (
	// errors
	ErrNotFound           = core.NewNotFoundError("application")
	ErrAlreadyApplied     = errors.New("you have already applied to this company")
	ErrReasonRequired     = errors.New("please provide a reason for choosing this company")
	ErrCompanyNotVerified = errors.New("this company is not verified yet")
)

// TransitionError is returned when the application's status does not allow the requested action.
func TransitionError(from Status, action string) error {
	return core.NewStateError(fmt.Sprintf("cannot %s an application that is %s", action, from))
}

type (
	Repository interface {
		// CreateApplication rejects a second application of the same student to the same company.
		CreateApplication(ctx context.Context, a Application) (Application, error)
		GetApplication(ctx context.Context, id string) (Application, error)
		QueryApplications(ctx context.Context, filter QueryFilter) ([]Application, error)
		// ModifyApplication applies fn to the stored application and saves the result atomically.
		ModifyApplication(ctx context.Context, id string, fn func(a *Application) error) (Application, error)
	}

	// CompanyDirectory resolves the company a student applies to.
	CompanyDirectory interface {
		Get(ctx context.Context, id string) (company.Company, error)
	}

	Notifier interface {
		Notify(ctx context.Context, nn notification.NewNotification) (notification.Notification, error)
	}

	Service interface {
		Apply(ctx context.Context, student core.Session, na NewApplication) (Application, error)
		Accept(ctx context.Context, cmp core.Session, id, supervisor string) (Application, error)
		Reject(ctx context.Context, cmp core.Session, id, reason string) (Application, error)
		RequestInfo(ctx context.Context, cmp core.Session, id, message string) (Application, error)
		Get(ctx context.Context, id string) (Application, error)
		QueryForCompany(ctx context.Context, companyID string, status Status) ([]Application, error)
		QueryForStudent(ctx context.Context, studentID string) ([]Application, error)
		Overview(ctx context.Context, companyID string) (Overview, error)
		InternshipStatus(ctx context.Context, studentID string) (InternshipStatus, error)
	}

	service struct {
		repo      Repository
		companies CompanyDirectory
		notifier  Notifier
		mailSvc   core.EmailService
		logger    core.Logger
		nowFunc   func() time.Time
	}
)

var _ Service = (*service)(nil)

func NewService(
	repo Repository,
	companies CompanyDirectory,
	notifier Notifier,
	mailSvc core.EmailService,
	logger core.Logger,
) Service {
	return &service{
		repo:      repo,
		companies: companies,
		notifier:  notifier,
		mailSvc:   mailSvc,
		logger:    logger,
		nowFunc:   func() time.Time { return time.Now().UTC() },
	}
}

// Apply files a Pending application to a verified company and notifies the student.
func (svc *service) Apply(ctx context.Context, student core.Session, na NewApplication) (Application, error) {
	cmp, err := svc.companies.Get(ctx, na.CompanyID)
	if err != nil {
		if errors.Cause(err) == company.ErrNotFound {
			return Application{}, core.NewValidationError(err, core.FieldError{Field: "companyId", Error: err.Error()})
		}
		return Application{}, errors.Wrap(err, "finding company")
	}
	if !cmp.Verified {
		return Application{}, core.NewValidationError(ErrCompanyNotVerified)
	}

	app := Application{
		ID:           uuid.New().String(),
		StudentID:    student.ID,
		StudentName:  student.Name,
		StudentEmail: student.Email,
		Department:   student.Department,
		CompanyID:    cmp.ID,
		CompanyName:  cmp.Name,
		Reason:       na.Reason,
		DocumentName: na.DocumentName,
		DocumentData: na.DocumentData,
		Status:       StatusPending,
		AppliedAt:    svc.nowFunc(),
	}
	app, err = svc.repo.CreateApplication(ctx, app)
	if err != nil {
		if errors.Cause(err) == ErrAlreadyApplied {
			return Application{}, core.NewValidationError(ErrAlreadyApplied)
		}
		return Application{}, errors.Wrap(err, "creating application")
	}

	svc.notify(ctx, app, notification.TypeInfo,
		fmt.Sprintf("Application submitted to %s", app.CompanyName),
		"Your application is pending review",
		false,
	)
	return app, nil
}

// Accept moves a Pending application to Accepted and records the supervisor.
func (svc *service) Accept(ctx context.Context, cmp core.Session, id, supervisor string) (Application, error) {
	supervisor = core.CleanString(supervisor)
	if supervisor == "" {
		supervisor = DefaultSupervisor
	}
	app, err := svc.transition(ctx, cmp, id, StatusAccepted, "accept", func(a *Application) {
		a.Supervisor = supervisor
	})
	if err != nil {
		return Application{}, err
	}
	svc.notify(ctx, app, notification.TypeSuccess,
		fmt.Sprintf("Application accepted by %s", app.CompanyName),
		fmt.Sprintf("Your supervisor is %s", app.Supervisor),
		true,
	)
	return app, nil
}

// Reject moves a Pending application to Rejected with a reason.
func (svc *service) Reject(ctx context.Context, cmp core.Session, id, reason string) (Application, error) {
	reason = core.CleanString(reason)
	if reason == "" {
		reason = DefaultRejectionReason
	}
	app, err := svc.transition(ctx, cmp, id, StatusRejected, "reject", func(a *Application) {
		a.RejectionReason = reason
	})
	if err != nil {
		return Application{}, err
	}
	svc.notify(ctx, app, notification.TypeError,
		fmt.Sprintf("Application rejected by %s", app.CompanyName),
		app.RejectionReason,
		true,
	)
	return app, nil
}

// RequestInfo asks the student for more information. The status never changes.
func (svc *service) RequestInfo(ctx context.Context, cmp core.Session, id, message string) (Application, error) {
	message = core.CleanString(message)
	if message == "" {
		message = DefaultInfoRequest
	}
	app, err := svc.transition(ctx, cmp, id, StatusPending, "request information on", func(a *Application) {
		a.InfoRequested = message
	})
	if err != nil {
		return Application{}, err
	}
	svc.notify(ctx, app, notification.TypeWarning,
		fmt.Sprintf("%s requested more information", app.CompanyName),
		app.InfoRequested,
		true,
	)
	return app, nil
}

func (svc *service) transition(
	ctx context.Context,
	cmp core.Session,
	id string,
	next Status,
	action string,
	apply func(a *Application),
) (Application, error) {
	return svc.repo.ModifyApplication(ctx, core.CleanString(id), func(a *Application) error {
		// other companies' applications do not exist for this one
		if a.CompanyID != cmp.ID {
			return ErrNotFound
		}
		if !a.Status.CanTransition(next) {
			return TransitionError(a.Status, action)
		}
		a.Status = next
		apply(a)
		now := svc.nowFunc()
		a.ReviewedAt = &now
		return nil
	})
}

// notify creates the in-app notification and, for reviews, emails the student.
// Failures are logged: the application change is already stored.
func (svc *service) notify(ctx context.Context, app Application, typ notification.Type, title, message string, email bool) {
	_, err := svc.notifier.Notify(ctx, notification.NewNotification{
		StudentID:   app.StudentID,
		StudentName: app.StudentName,
		Type:        typ,
		Title:       title,
		Message:     message,
	})
	if err != nil {
		svc.logger.Error("notifying student", errors.Wrap(err, "notifying student"), core.Session{Role: core.RoleStudent, ID: app.StudentID, Name: app.StudentName, Department: app.Department})
	}

	if email && app.StudentEmail != "" {
		svc.mailSvc.SendMessages(&core.EmailMessage{
			To:           []mail.Address{{Name: app.StudentName, Address: app.StudentEmail}},
			Subject:      title,
			TemplateName: "application_status",
			TemplateData: map[string]string{
				"CompanyName": app.CompanyName,
				"Title":       string(app.Status),
				"Message":     message,
			},
		})
	}
}

func (svc *service) Get(ctx context.Context, id string) (Application, error) {
	return svc.repo.GetApplication(ctx, core.CleanString(id))
}

func (svc *service) QueryForCompany(ctx context.Context, companyID string, status Status) ([]Application, error) {
	apps, err := svc.repo.QueryApplications(ctx, QueryFilter{CompanyID: companyID, Status: status})
	if err != nil {
		return nil, err
	}
	sortByAppliedAt(apps)
	return apps, nil
}

func (svc *service) QueryForStudent(ctx context.Context, studentID string) ([]Application, error) {
	apps, err := svc.repo.QueryApplications(ctx, QueryFilter{StudentID: studentID})
	if err != nil {
		return nil, err
	}
	sortByAppliedAt(apps)
	return apps, nil
}

func (svc *service) Overview(ctx context.Context, companyID string) (Overview, error) {
	apps, err := svc.repo.QueryApplications(ctx, QueryFilter{CompanyID: companyID})
	if err != nil {
		return Overview{}, err
	}
	ov := Overview{Total: len(apps)}
	for _, a := range apps {
		switch a.Status {
		case StatusAccepted:
			ov.Accepted++
		case StatusPending:
			ov.Pending++
		case StatusRejected:
			ov.Rejected++
		}
	}
	return ov, nil
}

// InternshipStatus is Active once an application is accepted, Pending while one awaits review.
func (svc *service) InternshipStatus(ctx context.Context, studentID string) (InternshipStatus, error) {
	apps, err := svc.repo.QueryApplications(ctx, QueryFilter{StudentID: studentID})
	if err != nil {
		return "", err
	}
	status := InternshipNotApplied
	for _, a := range apps {
		switch a.Status {
		case StatusAccepted:
			return InternshipActive, nil
		case StatusPending:
			status = InternshipPending
		}
	}
	return status, nil
}

// newest first
func sortByAppliedAt(apps []Application) {
	sort.SliceStable(apps, func(i, j int) bool { return apps[i].AppliedAt.After(apps[j].AppliedAt) })
}
