package evaluation

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/aastu-its/interntrack/core"
	"github.com/aastu-its/interntrack/core/application"
)

var (
	// errors
	ErrNotFound    = core.NewNotFoundError("evaluation")
	ErrNotIntern   = errors.New("this student is not interning at your company")
	ErrFinalLocked = core.NewStateError("the final evaluation of this student has already been submitted")
)

type (
	Repository interface {
		CreateMonthly(ctx context.Context, m Monthly) (Monthly, error)
		QueryMonthly(ctx context.Context, filter QueryFilter) ([]Monthly, error)
		// CreateFinal rejects a second final evaluation of the same student by the same company.
		CreateFinal(ctx context.Context, f Final) (Final, error)
		QueryFinal(ctx context.Context, filter QueryFilter) ([]Final, error)
	}

	// Interns lists the applications a company accepted.
	Interns interface {
		QueryForCompany(ctx context.Context, companyID string, status application.Status) ([]application.Application, error)
	}

	Service interface {
		SubmitMonthly(ctx context.Context, cmp core.Session, nm NewMonthly) (Monthly, error)
		QueryMonthly(ctx context.Context, filter QueryFilter) ([]Monthly, error)
		SubmitFinal(ctx context.Context, cmp core.Session, nf NewFinal) (Final, error)
		QueryFinal(ctx context.Context, filter QueryFilter) ([]Final, error)
	}

	service struct {
		repo    Repository
		interns Interns
		nowFunc func() time.Time
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, interns Interns) Service {
	return &service{
		repo:    repo,
		interns: interns,
		nowFunc: func() time.Time { return time.Now().UTC() },
	}
}

func (svc *service) intern(ctx context.Context, cmp core.Session, studentID string) (application.Application, error) {
	apps, err := svc.interns.QueryForCompany(ctx, cmp.ID, application.StatusAccepted)
	if err != nil {
		return application.Application{}, errors.Wrap(err, "querying interns")
	}
	for _, a := range apps {
		if a.StudentID == studentID {
			return a, nil
		}
	}
	return application.Application{}, core.NewValidationError(ErrNotIntern, core.FieldError{Field: "studentId", Error: ErrNotIntern.Error()})
}

func (svc *service) SubmitMonthly(ctx context.Context, cmp core.Session, nm NewMonthly) (Monthly, error) {
	app, err := svc.intern(ctx, cmp, nm.StudentID)
	if err != nil {
		return Monthly{}, err
	}
	m := Monthly{
		ID:              uuid.New().String(),
		CompanyID:       cmp.ID,
		CompanyName:     app.CompanyName,
		StudentID:       app.StudentID,
		StudentName:     app.StudentName,
		Month:           nm.Month,
		Technical:       nm.Technical,
		Communication:   nm.Communication,
		Professionalism: nm.Professionalism,
		Timeliness:      nm.Timeliness,
		Total:           nm.total(),
		CreatedAt:       svc.nowFunc(),
	}
	m, err = svc.repo.CreateMonthly(ctx, m)
	return m, errors.Wrap(err, "creating monthly evaluation")
}

func (svc *service) QueryMonthly(ctx context.Context, filter QueryFilter) ([]Monthly, error) {
	evals, err := svc.repo.QueryMonthly(ctx, filter)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(evals, func(i, j int) bool { return evals[i].CreatedAt.After(evals[j].CreatedAt) })
	return evals, nil
}

func (svc *service) SubmitFinal(ctx context.Context, cmp core.Session, nf NewFinal) (Final, error) {
	app, err := svc.intern(ctx, cmp, nf.StudentID)
	if err != nil {
		return Final{}, err
	}
	f := Final{
		ID:              uuid.New().String(),
		CompanyID:       cmp.ID,
		CompanyName:     app.CompanyName,
		StudentID:       app.StudentID,
		StudentName:     app.StudentName,
		Technical:       nf.Technical,
		Communication:   nf.Communication,
		Professionalism: nf.Professionalism,
		Score:           nf.score(),
		Recommendation:  nf.Recommendation,
		Letter:          nf.Letter,
		Locked:          true,
		SubmittedAt:     svc.nowFunc(),
	}
	f, err = svc.repo.CreateFinal(ctx, f)
	if err != nil {
		if errors.Cause(err) == ErrFinalLocked {
			return Final{}, ErrFinalLocked
		}
		return Final{}, errors.Wrap(err, "creating final evaluation")
	}
	return f, nil
}

func (svc *service) QueryFinal(ctx context.Context, filter QueryFilter) ([]Final, error) {
	evals, err := svc.repo.QueryFinal(ctx, filter)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(evals, func(i, j int) bool { return evals[i].SubmittedAt.After(evals[j].SubmittedAt) })
	return evals, nil
}
