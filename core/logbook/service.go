package logbook

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/aastu-its/interntrack/core"
	"github.com/aastu-its/interntrack/core/application"
	"github.com/aastu-its/interntrack/core/notification"
)

var (
	// errors
	ErrNotFound        = core.NewNotFoundError("logbook entry")
	ErrNoInternship    = errors.New("you can only submit logbooks for a company that accepted your application")
	ErrAlreadyReviewed = core.NewStateError("this logbook entry has already been reviewed")
)

type (
	Repository interface {
		CreateEntry(ctx context.Context, e Entry) (Entry, error)
		QueryEntries(ctx context.Context, filter QueryFilter) ([]Entry, error)
		ModifyEntry(ctx context.Context, id string, fn func(e *Entry) error) (Entry, error)
	}

	// Applications lists a student's applications, to find the companies hosting them.
	Applications interface {
		QueryForStudent(ctx context.Context, studentID string) ([]application.Application, error)
	}

	Notifier interface {
		Notify(ctx context.Context, nn notification.NewNotification) (notification.Notification, error)
	}

	Service interface {
		Submit(ctx context.Context, student core.Session, ne NewEntry) (Entry, error)
		Approve(ctx context.Context, cmp core.Session, id string, rv Review) (Entry, error)
		Reject(ctx context.Context, cmp core.Session, id string, rv Review) (Entry, error)
		QueryForStudent(ctx context.Context, studentID string) ([]Entry, error)
		QueryForCompany(ctx context.Context, companyID string, status Status) ([]Entry, error)
	}

	service struct {
		repo     Repository
		apps     Applications
		notifier Notifier
		logger   core.Logger
		nowFunc  func() time.Time
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, apps Applications, notifier Notifier, logger core.Logger) Service {
	return &service{
		repo:     repo,
		apps:     apps,
		notifier: notifier,
		logger:   logger,
		nowFunc:  func() time.Time { return time.Now().UTC() },
	}
}

func (svc *service) Submit(ctx context.Context, student core.Session, ne NewEntry) (Entry, error) {
	apps, err := svc.apps.QueryForStudent(ctx, student.ID)
	if err != nil {
		return Entry{}, errors.Wrap(err, "querying applications")
	}

	var host *application.Application
	for i, a := range apps {
		if a.Status == application.StatusAccepted && (ne.CompanyID == "" || a.CompanyID == ne.CompanyID) {
			host = &apps[i]
			break
		}
	}
	if host == nil {
		return Entry{}, core.NewValidationError(ErrNoInternship)
	}

	e := Entry{
		ID:          uuid.New().String(),
		StudentID:   student.ID,
		StudentName: student.Name,
		CompanyID:   host.CompanyID,
		CompanyName: host.CompanyName,
		Date:        ne.Date,
		Tasks:       ne.Tasks,
		Evidence:    ne.Evidence,
		Status:      StatusPending,
		SubmittedAt: svc.nowFunc(),
	}
	e, err = svc.repo.CreateEntry(ctx, e)
	return e, errors.Wrap(err, "creating logbook entry")
}

func (svc *service) Approve(ctx context.Context, cmp core.Session, id string, rv Review) (Entry, error) {
	return svc.review(ctx, cmp, id, StatusApproved, rv)
}

func (svc *service) Reject(ctx context.Context, cmp core.Session, id string, rv Review) (Entry, error) {
	return svc.review(ctx, cmp, id, StatusRejected, rv)
}

func (svc *service) review(ctx context.Context, cmp core.Session, id string, status Status, rv Review) (Entry, error) {
	e, err := svc.repo.ModifyEntry(ctx, core.CleanString(id), func(e *Entry) error {
		if e.CompanyID != cmp.ID {
			return ErrNotFound
		}
		if e.Status != StatusPending {
			return ErrAlreadyReviewed
		}
		now := svc.nowFunc()
		e.Status = status
		e.Signature = core.CleanString(rv.Signature)
		e.Comment = core.CleanString(rv.Comment)
		e.ReviewedAt = &now
		return nil
	})
	if err != nil {
		return Entry{}, err
	}

	typ := notification.TypeSuccess
	if status == StatusRejected {
		typ = notification.TypeError
	}
	message := e.Comment
	if message == "" {
		message = fmt.Sprintf("Your logbook entry of %s was %s", e.Date, status)
	}
	if _, err = svc.notifier.Notify(ctx, notification.NewNotification{
		StudentID:   e.StudentID,
		StudentName: e.StudentName,
		Type:        typ,
		Title:       fmt.Sprintf("Logbook %s by %s", status, e.CompanyName),
		Message:     message,
	}); err != nil {
		svc.logger.Error("notifying student", errors.Wrap(err, "notifying student"), core.Session{Role: core.RoleStudent, ID: e.StudentID, Name: e.StudentName})
	}
	return e, nil
}

func (svc *service) QueryForStudent(ctx context.Context, studentID string) ([]Entry, error) {
	entries, err := svc.repo.QueryEntries(ctx, QueryFilter{StudentID: studentID})
	if err != nil {
		return nil, err
	}
	sortByDate(entries)
	return entries, nil
}

func (svc *service) QueryForCompany(ctx context.Context, companyID string, status Status) ([]Entry, error) {
	entries, err := svc.repo.QueryEntries(ctx, QueryFilter{CompanyID: companyID, Status: status})
	if err != nil {
		return nil, err
	}
	sortByDate(entries)
	return entries, nil
}

// newest week first; dates share one layout so they sort as strings
func sortByDate(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Date == entries[j].Date {
			return entries[i].SubmittedAt.After(entries[j].SubmittedAt)
		}
		return entries[i].Date > entries[j].Date
	})
}
