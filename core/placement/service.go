package placement

import (
	"context"
	"fmt"
	"net/mail"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/aastu-its/interntrack/core"
	"github.com/aastu-its/interntrack/core/notification"
)

var (
	// errors
	ErrNotFound        = core.NewNotFoundError("self placement")
	ErrRequiredFields  = errors.New("please fill in all required fields")
	ErrPendingExists   = errors.New("you already have a self placement request pending verification")
	ErrAlreadyReviewed = core.NewStateError("this self placement request has already been reviewed")
)

type (
	Repository interface {
		// CreatePlacement rejects a request from a student who already has one pending.
		CreatePlacement(ctx context.Context, p Placement) (Placement, error)
		QueryPlacements(ctx context.Context, filter QueryFilter) ([]Placement, error)
		ModifyPlacement(ctx context.Context, id string, fn func(p *Placement) error) (Placement, error)
	}

	Notifier interface {
		Notify(ctx context.Context, nn notification.NewNotification) (notification.Notification, error)
	}

	Service interface {
		Submit(ctx context.Context, student core.Session, np NewPlacement) (Placement, error)
		Review(ctx context.Context, reviewer core.Session, id string, rv Review) (Placement, error)
		GetForStudent(ctx context.Context, studentID string) (Placement, error)
		Query(ctx context.Context, reviewer core.Session, status Status) ([]Placement, error)
	}

	service struct {
		repo     Repository
		notifier Notifier
		mailSvc  core.EmailService
		logger   core.Logger
		nowFunc  func() time.Time
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, notifier Notifier, mailSvc core.EmailService, logger core.Logger) Service {
	return &service{
		repo:     repo,
		notifier: notifier,
		mailSvc:  mailSvc,
		logger:   logger,
		nowFunc:  func() time.Time { return time.Now().UTC() },
	}
}

func (svc *service) Submit(ctx context.Context, student core.Session, np NewPlacement) (Placement, error) {
	p := Placement{
		ID:                  uuid.New().String(),
		StudentID:           student.ID,
		StudentName:         student.Name,
		StudentEmail:        student.Email,
		Department:          student.Department,
		CompanyName:         np.CompanyName,
		RepresentativeName:  np.RepresentativeName,
		RepresentativeEmail: np.RepresentativeEmail,
		RepresentativePhone: np.RepresentativePhone,
		Location:            np.Location,
		CompanyLicense:      np.CompanyLicense,
		LicenseFileName:     np.LicenseFileName,
		AdditionalNotes:     np.AdditionalNotes,
		Status:              StatusPending,
		SubmittedAt:         svc.nowFunc(),
	}
	p, err := svc.repo.CreatePlacement(ctx, p)
	if err != nil {
		if errors.Cause(err) == ErrPendingExists {
			return Placement{}, core.NewValidationError(ErrPendingExists)
		}
		return Placement{}, errors.Wrap(err, "creating self placement")
	}
	return p, nil
}

// Review approves or rejects a pending request. Coordinators only review their own department.
func (svc *service) Review(ctx context.Context, reviewer core.Session, id string, rv Review) (Placement, error) {
	status := StatusRejected
	if rv.Approve {
		status = StatusApproved
	}
	note := core.CleanString(rv.Note)

	p, err := svc.repo.ModifyPlacement(ctx, core.CleanString(id), func(p *Placement) error {
		if reviewer.Role == core.RoleCoordinator && !core.EqualFold(p.Department, reviewer.Department) {
			return ErrNotFound
		}
		if p.Status != StatusPending {
			return ErrAlreadyReviewed
		}
		now := svc.nowFunc()
		p.Status = status
		p.ReviewNote = note
		p.ReviewedBy = reviewer.ID
		p.ReviewedAt = &now
		return nil
	})
	if err != nil {
		return Placement{}, err
	}

	typ := notification.TypeSuccess
	if status == StatusRejected {
		typ = notification.TypeError
	}
	title := fmt.Sprintf("Self placement at %s %s", p.CompanyName, map[Status]string{
		StatusApproved: "approved",
		StatusRejected: "rejected",
	}[status])
	message := note
	if message == "" {
		message = fmt.Sprintf("Your self placement request is now %s", status)
	}
	if _, err = svc.notifier.Notify(ctx, notification.NewNotification{
		StudentID:   p.StudentID,
		StudentName: p.StudentName,
		Type:        typ,
		Title:       title,
		Message:     message,
	}); err != nil {
		svc.logger.Error("notifying student", errors.Wrap(err, "notifying student"), core.Session{Role: core.RoleStudent, ID: p.StudentID, Name: p.StudentName, Department: p.Department})
	}
	if p.StudentEmail != "" {
		svc.mailSvc.SendMessages(&core.EmailMessage{
			To:           []mail.Address{{Name: p.StudentName, Address: p.StudentEmail}},
			Subject:      title,
			TemplateName: "placement_reviewed",
			TemplateData: map[string]string{
				"CompanyName": p.CompanyName,
				"Status":      string(p.Status),
				"Note":        p.ReviewNote,
			},
		})
	}
	return p, nil
}

// GetForStudent returns the student's most recent request.
func (svc *service) GetForStudent(ctx context.Context, studentID string) (Placement, error) {
	ps, err := svc.repo.QueryPlacements(ctx, QueryFilter{StudentID: studentID})
	if err != nil {
		return Placement{}, err
	}
	if len(ps) == 0 {
		return Placement{}, ErrNotFound
	}
	sortBySubmittedAt(ps)
	return ps[0], nil
}

func (svc *service) Query(ctx context.Context, reviewer core.Session, status Status) ([]Placement, error) {
	filter := QueryFilter{Status: status}
	if reviewer.Role == core.RoleCoordinator {
		if reviewer.Department == "" {
			return []Placement{}, nil
		}
		filter.Department = reviewer.Department
	}
	ps, err := svc.repo.QueryPlacements(ctx, filter)
	if err != nil {
		return nil, err
	}
	sortBySubmittedAt(ps)
	return ps, nil
}

// newest first
func sortBySubmittedAt(ps []Placement) {
	sort.SliceStable(ps, func(i, j int) bool { return ps[i].SubmittedAt.After(ps[j].SubmittedAt) })
}
