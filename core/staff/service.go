package staff

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/aastu-its/interntrack/core"
)

var (
	// errors
	ErrNotFound           = core.NewNotFoundError("staff member")
	ErrUsernameExists     = errors.New("a user with this username already exists")
	ErrEmailExists        = errors.New("a user with this email already exists")
	ErrSelectStaff        = errors.New("please select a staff member")
	ErrNotAssignable      = errors.New("only Advisor or Examiner roles can be assigned")
	ErrNoDepartment       = errors.New("coordinator has no department assigned")
	ErrOtherDepartment    = errors.New("staff member belongs to another department")
	ErrNotPlainStaff      = core.NewStateError("only members with the Staff role can be given a new role")
	ErrInvalidCredentials = core.ErrInvalidCredentials
)

// NoAccountError reports that no staff account of the requested role matches the identifier.
type NoAccountError struct {
	Role core.Role
}

func (err NoAccountError) Error() string {
	return fmt.Sprintf("No %s account found for those credentials.", err.Role)
}

type (
	Repository interface {
		CreateStaff(ctx context.Context, s Staff) (Staff, error)
		GetStaff(ctx context.Context, filter GetFilter) (Staff, error)
		QueryStaff(ctx context.Context, filter QueryFilter) ([]Staff, error)
		// ModifyStaff applies fn to the stored member and saves the result atomically.
		ModifyStaff(ctx context.Context, username string, fn func(s *Staff) error) (Staff, error)
	}

	Service interface {
		Create(ctx context.Context, ns NewStaff) (Staff, error)
		PromoteToCoordinator(ctx context.Context, username string) (Staff, error)
		AssignRole(ctx context.Context, coordinator core.Session, ra RoleAssignment) (Staff, error)
		Get(ctx context.Context, filter GetFilter) (Staff, error)
		Query(ctx context.Context, filter QueryFilter) ([]Staff, error)
		Authenticate(ctx context.Context, role core.Role, identifier, pwd string) (Staff, error)
		SetPassword(ctx context.Context, username, pwd string) (Staff, error)
	}

	service struct {
		repo    Repository
		nowFunc func() time.Time
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{
		repo:    repo,
		nowFunc: func() time.Time { return time.Now().UTC() },
	}
}

func (svc *service) Create(ctx context.Context, ns NewStaff) (Staff, error) {
	now := svc.nowFunc()
	s := Staff{
		Username:   ns.Username,
		Email:      ns.Email,
		Name:       ns.Name,
		Role:       ns.Role,
		Department: ns.Department,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.SetPassword(ns.Password); err != nil {
		return Staff{}, errors.Wrap(err, "hashing password")
	}

	s, err := svc.repo.CreateStaff(ctx, s)
	if err != nil {
		switch errors.Cause(err) {
		case ErrUsernameExists:
			return Staff{}, core.NewValidationError(err, core.FieldError{Field: "username", Error: ErrUsernameExists.Error()})
		case ErrEmailExists:
			return Staff{}, core.NewValidationError(err, core.FieldError{Field: "email", Error: ErrEmailExists.Error()})
		}
		return Staff{}, errors.Wrap(err, "creating staff")
	}
	return s, nil
}

// PromoteToCoordinator turns a plain Staff member into their department's coordinator.
func (svc *service) PromoteToCoordinator(ctx context.Context, username string) (Staff, error) {
	username = core.CleanString(username, true /* lower */)
	if username == "" {
		return Staff{}, core.NewValidationError(ErrSelectStaff)
	}
	return svc.repo.ModifyStaff(ctx, username, func(s *Staff) error {
		if s.Role != core.RoleStaff {
			return ErrNotPlainStaff
		}
		s.Role = core.RoleCoordinator
		s.UpdatedAt = svc.nowFunc()
		return nil
	})
}

// AssignRole gives a plain Staff member of the coordinator's department the Advisor or Examiner role.
func (svc *service) AssignRole(ctx context.Context, coordinator core.Session, ra RoleAssignment) (Staff, error) {
	ra.Clean()
	if ra.Username == "" {
		return Staff{}, core.NewValidationError(ErrSelectStaff)
	}
	if !ra.Role.Assignable() {
		return Staff{}, core.NewValidationError(ErrNotAssignable, core.FieldError{Field: "role", Error: ErrNotAssignable.Error()})
	}
	dept := core.CleanString(coordinator.Department)
	if dept == "" {
		return Staff{}, core.NewValidationError(ErrNoDepartment)
	}

	return svc.repo.ModifyStaff(ctx, ra.Username, func(s *Staff) error {
		if !core.EqualFold(s.Department, dept) {
			return core.NewValidationError(ErrOtherDepartment)
		}
		if s.Role != core.RoleStaff {
			return ErrNotPlainStaff
		}
		s.Role = ra.Role
		s.UpdatedAt = svc.nowFunc()
		return nil
	})
}

func (svc *service) Get(ctx context.Context, filter GetFilter) (Staff, error) {
	filter.Username = core.CleanString(filter.Username, true /* lower */)
	filter.UsernameOrEmail = core.CleanString(filter.UsernameOrEmail, true /* lower */)
	return svc.repo.GetStaff(ctx, filter)
}

func (svc *service) Query(ctx context.Context, filter QueryFilter) ([]Staff, error) {
	filter.Department = core.CleanString(filter.Department)
	return svc.repo.QueryStaff(ctx, filter)
}

// Authenticate finds the member of the given role whose username or email is identifier.
func (svc *service) Authenticate(ctx context.Context, role core.Role, identifier, pwd string) (Staff, error) {
	s, err := svc.Get(ctx, GetFilter{UsernameOrEmail: identifier, Role: role})
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Staff{}, NoAccountError{Role: role}
		}
		return Staff{}, errors.Wrap(err, "finding staff by username or email")
	}
	if err = s.CheckPassword(pwd); err != nil {
		return Staff{}, ErrInvalidCredentials
	}
	return s, nil
}

func (svc *service) SetPassword(ctx context.Context, username, pwd string) (Staff, error) {
	var hashErr error
	s, err := svc.repo.ModifyStaff(ctx, core.CleanString(username, true /* lower */), func(s *Staff) error {
		hashErr = s.SetPassword(pwd)
		s.UpdatedAt = svc.nowFunc()
		return hashErr
	})
	if hashErr != nil {
		return Staff{}, errors.Wrap(hashErr, "hashing password")
	}
	return s, err
}
