package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in      string
		want    Role
		wantErr error
	}{
		{in: "Student", want: RoleStudent},
		{in: " coordinator ", want: RoleCoordinator},
		{in: "ADVISOR", want: RoleAdvisor},
		{in: "examiner", want: RoleExaminer},
		{in: "company", want: RoleCompany},
		{in: "admin", want: RoleAdmin},
		{in: "", wantErr: ErrUnknownRole},
		{in: "teacher", wantErr: ErrUnknownRole},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRole(tt.in)
			assert.Equal(t, tt.wantErr, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRole_DashboardPath(t *testing.T) {
	tests := []struct {
		role Role
		want string
	}{
		{RoleAdmin, "/admin-dashboard"},
		{RoleStudent, "/student-dashboard"},
		{RoleCompany, "/company-dashboard"},
		{RoleCoordinator, "/coordinator-dashboard"},
		{RoleAdvisor, "/advisor-dashboard"},
		{RoleExaminer, "/examiner-dashboard"},
		{RoleSupervisor, "/supervisor-dashboard"},
		{RoleStaff, "/login"},
		{Role("Janitor"), "/login"},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.role.DashboardPath())
		})
	}
}

func TestRole_IsStaff(t *testing.T) {
	for _, r := range Roles {
		want := r != RoleAdmin && r != RoleStudent && r != RoleCompany
		assert.Equal(t, want, r.IsStaff(), r)
	}
	assert.True(t, RoleAdvisor.Assignable())
	assert.True(t, RoleExaminer.Assignable())
	assert.False(t, RoleCoordinator.Assignable())
	assert.False(t, RoleStaff.Assignable())
}
