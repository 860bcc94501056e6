package assignment

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/aastu-its/interntrack/core"
	"github.com/aastu-its/interntrack/core/staff"
	"github.com/aastu-its/interntrack/core/student"
)

var (
	// errors
	ErrSelectStudent        = errors.New("please select a student")
	ErrSelectStaff          = errors.New("please select an advisor or examiner")
	ErrNoDepartment         = errors.New("coordinator has no department assigned")
	ErrStudentNotInDept     = errors.New("student is not in the eligible list of your department")
	ErrAdvisorNotInDept     = errors.New("advisor must be an Advisor of your department")
	ErrExaminerNotInDept    = errors.New("examiner must be an Examiner of your department")
	ErrUnsupportedStaffRole = errors.New("only advisors and examiners have assigned students")
)

type (
	Repository interface {
		// UpsertAssignment passes the stored assignment for (studentKey, department), or a new one, to fn
		// and saves the result in place of the old record.
		UpsertAssignment(ctx context.Context, studentKey, department string, fn func(a *Assignment)) (Assignment, error)
		QueryAssignments(ctx context.Context, filter QueryFilter) ([]Assignment, error)
	}

	StudentDirectory interface {
		GetEligible(ctx context.Context, idOrEmail string) (student.EligibleStudent, error)
	}

	StaffDirectory interface {
		Get(ctx context.Context, filter staff.GetFilter) (staff.Staff, error)
	}

	Service interface {
		Assign(ctx context.Context, coordinator core.Session, as AssignStudent) (Assignment, error)
		QueryForDepartment(ctx context.Context, department string) ([]Assignment, error)
		QueryForStaff(ctx context.Context, member core.Session) ([]Assignment, error)
	}

	service struct {
		repo     Repository
		students StudentDirectory
		staff    StaffDirectory
		nowFunc  func() time.Time
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, students StudentDirectory, staffDir StaffDirectory) Service {
	return &service{
		repo:     repo,
		students: students,
		staff:    staffDir,
		nowFunc:  func() time.Time { return time.Now().UTC() },
	}
}

// Assign gives a student of the coordinator's department an advisor, an examiner or both.
// Nothing is written unless at least one of them is given and valid.
func (svc *service) Assign(ctx context.Context, coordinator core.Session, as AssignStudent) (Assignment, error) {
	as.Clean()
	if as.Student == "" {
		return Assignment{}, core.NewValidationError(ErrSelectStudent)
	}
	if as.Advisor == "" && as.Examiner == "" {
		return Assignment{}, core.NewValidationError(ErrSelectStaff)
	}
	dept := core.CleanString(coordinator.Department)
	if dept == "" {
		return Assignment{}, core.NewValidationError(ErrNoDepartment)
	}

	std, err := svc.students.GetEligible(ctx, as.Student)
	if err != nil {
		if errors.Cause(err) == student.ErrEligibleNotFound {
			return Assignment{}, core.NewValidationError(ErrStudentNotInDept)
		}
		return Assignment{}, errors.Wrap(err, "finding eligible student")
	}
	if !core.EqualFold(std.Department, dept) {
		return Assignment{}, core.NewValidationError(ErrStudentNotInDept)
	}

	if as.Advisor != "" {
		if err = svc.checkMember(ctx, as.Advisor, core.RoleAdvisor, dept); err != nil {
			if errors.Cause(err) == staff.ErrNotFound {
				return Assignment{}, core.NewValidationError(ErrAdvisorNotInDept, core.FieldError{Field: "advisor", Error: ErrAdvisorNotInDept.Error()})
			}
			return Assignment{}, err
		}
	}
	if as.Examiner != "" {
		if err = svc.checkMember(ctx, as.Examiner, core.RoleExaminer, dept); err != nil {
			if errors.Cause(err) == staff.ErrNotFound {
				return Assignment{}, core.NewValidationError(ErrExaminerNotInDept, core.FieldError{Field: "examiner", Error: ErrExaminerNotInDept.Error()})
			}
			return Assignment{}, err
		}
	}

	key := std.StudentID
	if key == "" {
		key = std.Email
	}
	return svc.repo.UpsertAssignment(ctx, key, dept, func(a *Assignment) {
		a.StudentID = std.StudentID
		a.StudentEmail = std.Email
		a.StudentName = std.FullName
		if as.Advisor != "" {
			a.Advisor = as.Advisor
		}
		if as.Examiner != "" {
			a.Examiner = as.Examiner
		}
		a.AssignedBy = coordinator.ID
		a.AssignedAt = svc.nowFunc()
	})
}

// checkMember returns staff.ErrNotFound unless username is a member of dept with the given role.
func (svc *service) checkMember(ctx context.Context, username string, role core.Role, dept string) error {
	m, err := svc.staff.Get(ctx, staff.GetFilter{Username: username, Role: role})
	if err != nil {
		if errors.Cause(err) == staff.ErrNotFound {
			return err
		}
		return errors.Wrap(err, "finding staff member")
	}
	if !core.EqualFold(m.Department, dept) {
		return staff.ErrNotFound
	}
	return nil
}

func (svc *service) QueryForDepartment(ctx context.Context, department string) ([]Assignment, error) {
	return svc.repo.QueryAssignments(ctx, QueryFilter{Department: core.CleanString(department)})
}

// QueryForStaff lists the students assigned to an advisor or an examiner.
func (svc *service) QueryForStaff(ctx context.Context, member core.Session) ([]Assignment, error) {
	switch member.Role {
	case core.RoleAdvisor:
		return svc.repo.QueryAssignments(ctx, QueryFilter{Advisor: member.ID})
	case core.RoleExaminer:
		return svc.repo.QueryAssignments(ctx, QueryFilter{Examiner: member.ID})
	}
	return nil, core.NewValidationError(ErrUnsupportedStaffRole)
}
