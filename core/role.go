package core

import (
	"strings"

	"github.com/pkg/errors"
)

// Role is the account type a session is opened with.
type Role string

const (
	RoleAdmin       Role = "Admin"
	RoleStudent     Role = "Student"
	RoleCompany     Role = "Company"
	RoleStaff       Role = "Staff"
	RoleAdvisor     Role = "Advisor"
	RoleExaminer    Role = "Examiner"
	RoleCoordinator Role = "Coordinator"
	RoleSupervisor  Role = "Supervisor"
)

var (
	Roles = []Role{
		RoleStudent,
		RoleCompany,
		RoleStaff,
		RoleAdvisor,
		RoleExaminer,
		RoleCoordinator,
		RoleSupervisor,
		RoleAdmin,
	}

	// AssignableRoles are the roles a coordinator may give to a staff member.
	AssignableRoles = []Role{RoleAdvisor, RoleExaminer}

	ErrUnknownRole = errors.New("unsupported account type")
)

// ParseRole matches s against the known roles, ignoring case and surrounding whitespace.
func ParseRole(s string) (Role, error) {
	s = strings.TrimSpace(s)
	for _, r := range Roles {
		if strings.EqualFold(string(r), s) {
			return r, nil
		}
	}
	return "", ErrUnknownRole
}

func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// IsStaff reports whether accounts of this role live in the staff collection.
func (r Role) IsStaff() bool {
	switch r {
	case RoleStaff, RoleAdvisor, RoleExaminer, RoleCoordinator, RoleSupervisor:
		return true
	case RoleAdmin, RoleStudent, RoleCompany:
		return false
	}
	return false
}

func (r Role) Assignable() bool {
	return r == RoleAdvisor || r == RoleExaminer
}

// DashboardPath is the frontend route a session of this role lands on after login.
func (r Role) DashboardPath() string {
	switch r {
	case RoleAdmin:
		return "/admin-dashboard"
	case RoleStudent:
		return "/student-dashboard"
	case RoleCompany:
		return "/company-dashboard"
	case RoleCoordinator:
		return "/coordinator-dashboard"
	case RoleAdvisor:
		return "/advisor-dashboard"
	case RoleExaminer:
		return "/examiner-dashboard"
	case RoleSupervisor:
		return "/supervisor-dashboard"
	case RoleStaff:
		return "/login"
	}
	return "/login"
}

func (r Role) String() string { return string(r) }
