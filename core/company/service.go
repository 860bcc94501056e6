package company

import (
	"context"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/aastu-its/interntrack/core"
)

var (
	// errors
	ErrNotFound           = core.NewNotFoundError("company")
	ErrNameExists         = errors.New("a company with this name is already registered. Please use a different company name or contact support.")
	ErrEmailExists        = errors.New("this email address is already registered. Please use a different email or try logging in.")
	ErrNoVerifiedAccount  = errors.New("no verified company account found")
	ErrNotVerified        = errors.New("your company is not verified yet")
	ErrInvalidCredentials = core.ErrInvalidCredentials
)

type (
	Repository interface {
		// CreateCompany rejects a name (case-insensitive) or contact email already in use.
		CreateCompany(ctx context.Context, c Company) (Company, error)
		GetCompany(ctx context.Context, id string) (Company, error)
		GetCompanyByEmail(ctx context.Context, email string) (Company, error)
		QueryCompanies(ctx context.Context, filter QueryFilter) ([]Company, error)
		UpdateCompany(ctx context.Context, c Company) (Company, error)
		// VerifyCompany marks the company verified. changed is false if it already was.
		VerifyCompany(ctx context.Context, id string, at time.Time) (c Company, changed bool, err error)
	}

	Service interface {
		Register(ctx context.Context, nc NewCompany) (Company, error)
		Verify(ctx context.Context, id string) (Company, error)
		Get(ctx context.Context, id string) (Company, error)
		Query(ctx context.Context, filter QueryFilter) ([]Company, error)
		QueryVerified(ctx context.Context) ([]Company, error)
		Authenticate(ctx context.Context, email, pwd string) (Company, error)
		SetPassword(ctx context.Context, email, pwd string) (Company, error)
	}

	service struct {
		repo    Repository
		mailSvc core.EmailService
		nowFunc func() time.Time
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, mailSvc core.EmailService) Service {
	return &service{
		repo:    repo,
		mailSvc: mailSvc,
		nowFunc: func() time.Time { return time.Now().UTC() },
	}
}

// Register records an unverified company. It stays invisible to students until an admin verifies it.
func (svc *service) Register(ctx context.Context, nc NewCompany) (Company, error) {
	c := Company{
		ID:           uuid.New().String(),
		Name:         nc.Name,
		ContactEmail: nc.Email,
		Phone:        nc.Phone,
		DocumentName: nc.DocumentName,
		DocumentData: nc.DocumentData,
		CreatedAt:    svc.nowFunc(),
	}
	if err := c.SetPassword(nc.Password); err != nil {
		return Company{}, errors.Wrap(err, "hashing password")
	}

	c, err := svc.repo.CreateCompany(ctx, c)
	if err != nil {
		switch errors.Cause(err) {
		case ErrNameExists:
			return Company{}, core.NewValidationError(err, core.FieldError{Field: "companyName", Error: ErrNameExists.Error()})
		case ErrEmailExists:
			return Company{}, core.NewValidationError(err, core.FieldError{Field: "email", Error: ErrEmailExists.Error()})
		}
		return Company{}, errors.Wrap(err, "creating company")
	}
	return c, nil
}

// Verify marks exactly one company verified. Verifying twice is a no-op.
func (svc *service) Verify(ctx context.Context, id string) (Company, error) {
	c, changed, err := svc.repo.VerifyCompany(ctx, core.CleanString(id), svc.nowFunc())
	if err != nil {
		return Company{}, err
	}
	if changed && c.ContactEmail != "" {
		svc.mailSvc.SendMessages(&core.EmailMessage{
			To:           []mail.Address{{Name: c.Name, Address: c.ContactEmail}},
			Subject:      "Your company has been verified",
			TemplateName: "company_verified",
			TemplateData: map[string]string{"CompanyName": c.Name},
		})
	}
	return c, nil
}

func (svc *service) Get(ctx context.Context, id string) (Company, error) {
	return svc.repo.GetCompany(ctx, core.CleanString(id))
}

func (svc *service) Query(ctx context.Context, filter QueryFilter) ([]Company, error) {
	return svc.repo.QueryCompanies(ctx, filter)
}

func (svc *service) QueryVerified(ctx context.Context) ([]Company, error) {
	verified := true
	return svc.repo.QueryCompanies(ctx, QueryFilter{Verified: &verified})
}

func (svc *service) Authenticate(ctx context.Context, email, pwd string) (Company, error) {
	c, err := svc.repo.GetCompanyByEmail(ctx, core.CleanString(email, true /* lower */))
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Company{}, ErrNoVerifiedAccount
		}
		return Company{}, errors.Wrap(err, "finding company by email")
	}
	if err = c.CheckPassword(pwd); err != nil {
		return Company{}, ErrInvalidCredentials
	}
	if !c.Verified {
		return Company{}, ErrNotVerified
	}
	return c, nil
}

// SetPassword is used by the admin CLI.
func (svc *service) SetPassword(ctx context.Context, email, pwd string) (Company, error) {
	c, err := svc.repo.GetCompanyByEmail(ctx, core.CleanString(email, true /* lower */))
	if err != nil {
		return Company{}, err
	}
	if err = c.SetPassword(pwd); err != nil {
		return Company{}, errors.Wrap(err, "hashing password")
	}
	return svc.repo.UpdateCompany(ctx, c)
}
