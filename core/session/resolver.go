package session

import (
	"context"
	"crypto/subtle"

	"github.com/pkg/errors"

	"github.com/aastu-its/interntrack/core"
	"github.com/aastu-its/interntrack/core/company"
	"github.com/aastu-its/interntrack/core/staff"
	"github.com/aastu-its/interntrack/core/student"
)

var ErrInvalidAdminCredentials = errors.New("invalid admin credentials")

type (
	Students interface {
		Authenticate(ctx context.Context, creds student.Credentials) (student.Student, error)
	}

	Companies interface {
		Authenticate(ctx context.Context, email, pwd string) (company.Company, error)
	}

	Staff interface {
		Authenticate(ctx context.Context, role core.Role, identifier, pwd string) (staff.Staff, error)
	}

	// Credentials is a login attempt for one account type.
	Credentials struct {
		Role       core.Role `json:"role"`
		Identifier string    `json:"identifier"`
		Password   string    `json:"password"`
	}
)

// Resolver opens a session for whichever account collection the requested role lives in.
type Resolver struct {
	admin     core.AdminConfig
	students  Students
	companies Companies
	staff     Staff
}

func NewResolver(conf *core.Config, students Students, companies Companies, staffSvc Staff) *Resolver {
	return &Resolver{
		admin:     conf.Admin,
		students:  students,
		companies: companies,
		staff:     staffSvc,
	}
}

func (r *Resolver) Authenticate(ctx context.Context, creds Credentials) (core.Session, error) {
	identifier := core.CleanString(creds.Identifier)

	switch creds.Role {
	case core.RoleAdmin:
		return r.authenticateAdmin(identifier, creds.Password)
	case core.RoleStudent:
		std, err := r.students.Authenticate(ctx, student.Credentials{Email: identifier, Password: creds.Password})
		if err != nil {
			return core.Session{}, err
		}
		return std.Session(), nil
	case core.RoleCompany:
		c, err := r.companies.Authenticate(ctx, identifier, creds.Password)
		if err != nil {
			return core.Session{}, err
		}
		return c.Session(), nil
	case core.RoleStaff, core.RoleAdvisor, core.RoleExaminer, core.RoleCoordinator, core.RoleSupervisor:
		s, err := r.staff.Authenticate(ctx, creds.Role, identifier, creds.Password)
		if err != nil {
			return core.Session{}, err
		}
		return s.Session(), nil
	default:
		return core.Session{}, core.ErrUnknownRole
	}
}

// the admin signs in with the configured username or email
func (r *Resolver) authenticateAdmin(identifier, pwd string) (core.Session, error) {
	if r.admin.Password == "" {
		return core.Session{}, ErrInvalidAdminCredentials
	}
	nameOK := core.EqualFold(identifier, r.admin.Username) || (r.admin.Email != "" && core.EqualFold(identifier, r.admin.Email))
	pwdOK := subtle.ConstantTimeCompare([]byte(pwd), []byte(r.admin.Password)) == 1
	if !nameOK || !pwdOK {
		return core.Session{}, ErrInvalidAdminCredentials
	}
	return core.Session{
		Role:  core.RoleAdmin,
		ID:    r.admin.Username,
		Name:  "Administrator",
		Email: r.admin.Email,
	}, nil
}
