package assignment_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aastu-its/interntrack/core"
	"github.com/aastu-its/interntrack/core/assignment"
	"github.com/aastu-its/interntrack/core/student"
	"github.com/aastu-its/interntrack/tests"
)

const dept = "Software Engineering"

func TestService_Assign(t *testing.T) {
	a := testutil.NewApp(t, nil)
	ctx := context.Background()
	coord := core.Session{Role: core.RoleCoordinator, ID: "coord", Department: dept}

	testutil.CreateEligible(t, a.StudentRepo, dept,
		student.EligibleStudent{StudentID: "ETS0001/12", FullName: "Abebe Kebede"},
		student.EligibleStudent{Email: "sara@aastustudent.edu.et", FullName: "Sara Tesfaye"},
	)
	testutil.CreateEligible(t, a.StudentRepo, "Electrical Engineering", student.EligibleStudent{StudentID: "ETS0500/12"})
	testutil.CreateStaff(t, a.StaffRepo, "advisor1", core.RoleAdvisor, dept, "")
	testutil.CreateStaff(t, a.StaffRepo, "advisor2", core.RoleAdvisor, dept, "")
	testutil.CreateStaff(t, a.StaffRepo, "examiner1", core.RoleExaminer, dept, "")
	testutil.CreateStaff(t, a.StaffRepo, "ee_advisor", core.RoleAdvisor, "Electrical Engineering", "")

	tests := []struct {
		name      string
		sess      core.Session
		as        assignment.AssignStudent
		wantErr   error
		wantField string
	}{
		{name: "no student", sess: coord, as: assignment.AssignStudent{Advisor: "advisor1"}, wantErr: assignment.ErrSelectStudent},
		{name: "no staff", sess: coord, as: assignment.AssignStudent{Student: "ETS0001/12"}, wantErr: assignment.ErrSelectStaff},
		{name: "no department", sess: core.Session{Role: core.RoleCoordinator}, as: assignment.AssignStudent{Student: "ETS0001/12", Advisor: "advisor1"}, wantErr: assignment.ErrNoDepartment},
		{name: "unknown student", sess: coord, as: assignment.AssignStudent{Student: "ETS0404/12", Advisor: "advisor1"}, wantErr: assignment.ErrStudentNotInDept},
		{name: "student of another department", sess: coord, as: assignment.AssignStudent{Student: "ETS0500/12", Advisor: "advisor1"}, wantErr: assignment.ErrStudentNotInDept},
		{name: "advisor of another department", sess: coord, as: assignment.AssignStudent{Student: "ETS0001/12", Advisor: "ee_advisor"}, wantErr: assignment.ErrAdvisorNotInDept, wantField: "advisor"},
		{name: "examiner is not an examiner", sess: coord, as: assignment.AssignStudent{Student: "ETS0001/12", Examiner: "advisor1"}, wantErr: assignment.ErrExaminerNotInDept, wantField: "examiner"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.AssignSvc.Assign(ctx, tt.sess, tt.as)
			var verr *core.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantErr, verr.Err)
			if tt.wantField != "" {
				require.Len(t, verr.Fields, 1)
				assert.Equal(t, tt.wantField, verr.Fields[0].Field)
			}
		})
	}

	list, err := a.AssignSvc.QueryForDepartment(ctx, dept)
	require.NoError(t, err)
	assert.Empty(t, list, "failed attempts must not write")

	t.Run("partial updates keep the other staff member", func(t *testing.T) {
		as, err := a.AssignSvc.Assign(ctx, coord, assignment.AssignStudent{Student: " ETS0001/12 ", Advisor: "Advisor1", Examiner: "examiner1"})
		require.NoError(t, err)
		assert.Equal(t, "ETS0001/12", as.StudentKey)
		assert.Equal(t, "Abebe Kebede", as.StudentName)

		as, err = a.AssignSvc.Assign(ctx, coord, assignment.AssignStudent{Student: "ETS0001/12", Advisor: "advisor2"})
		require.NoError(t, err)
		assert.Equal(t, "advisor2", as.Advisor)
		assert.Equal(t, "examiner1", as.Examiner)
	})

	t.Run("students without id are keyed by email", func(t *testing.T) {
		as, err := a.AssignSvc.Assign(ctx, coord, assignment.AssignStudent{Student: "sara@aastustudent.edu.et", Examiner: "examiner1"})
		require.NoError(t, err)
		assert.Equal(t, "sara@aastustudent.edu.et", as.StudentKey)
		assert.Empty(t, as.Advisor)
	})

	list, err = a.AssignSvc.QueryForDepartment(ctx, dept)
	require.NoError(t, err)
	assert.Len(t, list, 2)
	list, err = a.AssignSvc.QueryForDepartment(ctx, "Electrical Engineering")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestService_QueryForStaff(t *testing.T) {
	a := testutil.NewApp(t, nil)
	ctx := context.Background()
	coord := core.Session{Role: core.RoleCoordinator, ID: "coord", Department: dept}

	testutil.CreateEligible(t, a.StudentRepo, dept,
		student.EligibleStudent{StudentID: "ETS0001/12"},
		student.EligibleStudent{StudentID: "ETS0002/12"},
	)
	testutil.CreateStaff(t, a.StaffRepo, "advisor1", core.RoleAdvisor, dept, "")
	testutil.CreateStaff(t, a.StaffRepo, "examiner1", core.RoleExaminer, dept, "")

	_, err := a.AssignSvc.Assign(ctx, coord, assignment.AssignStudent{Student: "ETS0001/12", Advisor: "advisor1", Examiner: "examiner1"})
	require.NoError(t, err)
	_, err = a.AssignSvc.Assign(ctx, coord, assignment.AssignStudent{Student: "ETS0002/12", Examiner: "examiner1"})
	require.NoError(t, err)

	tests := []struct {
		name    string
		sess    core.Session
		wantLen int
		wantErr bool
	}{
		{name: "advisor", sess: core.Session{Role: core.RoleAdvisor, ID: "advisor1"}, wantLen: 1},
		{name: "examiner", sess: core.Session{Role: core.RoleExaminer, ID: "examiner1"}, wantLen: 2},
		{name: "someone else", sess: core.Session{Role: core.RoleAdvisor, ID: "advisor9"}},
		{name: "supervisor", sess: core.Session{Role: core.RoleSupervisor, ID: "sup"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := a.AssignSvc.QueryForStaff(ctx, tt.sess)
			if tt.wantErr {
				var verr *core.ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, assignment.ErrUnsupportedStaffRole, verr.Err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, list, tt.wantLen)
		})
	}
}
