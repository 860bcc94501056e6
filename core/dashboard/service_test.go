package dashboard_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aastu-its/interntrack/core"
	"github.com/aastu-its/interntrack/core/application"
	"github.com/aastu-its/interntrack/core/assignment"
	"github.com/aastu-its/interntrack/core/company"
	"github.com/aastu-its/interntrack/core/dashboard"
	"github.com/aastu-its/interntrack/core/notification"
	"github.com/aastu-its/interntrack/core/student"
	"github.com/aastu-its/interntrack/tests"
)

const dept = "Software Engineering"

func TestService_Coordinator(t *testing.T) {
	a := testutil.NewApp(t, nil)
	ctx := context.Background()

	testutil.CreateEligible(t, a.StudentRepo, dept,
		student.EligibleStudent{StudentID: "ETS0001/12", Email: "abebe@aastustudent.edu.et", FullName: "Abebe"},
		student.EligibleStudent{StudentID: "ETS0002/12", Email: "sara@aastustudent.edu.et", FullName: "Sara"},
		student.EligibleStudent{StudentID: "ETS0003/12", Email: "kebede@aastustudent.edu.et", FullName: "Kebede"},
	)
	testutil.CreateEligible(t, a.StudentRepo, "Electrical Engineering",
		student.EligibleStudent{StudentID: "ETS0500/12", Email: "other@aastustudent.edu.et", FullName: "Other"},
	)
	coord := testutil.CreateStaff(t, a.StaffRepo, "coord", core.RoleCoordinator, dept, "")
	testutil.CreateStaff(t, a.StaffRepo, "advisor1", core.RoleAdvisor, dept, "")
	testutil.CreateStaff(t, a.StaffRepo, "advisor2", core.RoleAdvisor, dept, "")
	testutil.CreateStaff(t, a.StaffRepo, "examiner1", core.RoleExaminer, dept, "")
	testutil.CreateStaff(t, a.StaffRepo, "advisor3", core.RoleAdvisor, "Electrical Engineering", "")

	_, err := a.AssignSvc.Assign(ctx, coord.Session(), assignment.AssignStudent{Student: "ETS0001/12", Advisor: "advisor1"})
	require.NoError(t, err)
	_, err = a.AssignSvc.Assign(ctx, coord.Session(), assignment.AssignStudent{Student: "ETS0002/12", Examiner: "examiner1"})
	require.NoError(t, err)

	stats, err := a.DashboardSvc.Coordinator(ctx, coord.Session())
	require.NoError(t, err)
	assert.Equal(t, dashboard.CoordinatorStats{
		Department:       dept,
		EligibleStudents: 3,
		AssignedStudents: 2,
		Advisors:         2,
		Coordinators:     1,
	}, stats)

	stats, err = a.DashboardSvc.Coordinator(ctx, core.Session{Role: core.RoleCoordinator, ID: "nodept"})
	require.NoError(t, err)
	assert.Equal(t, dashboard.CoordinatorStats{}, stats)
}

func TestService_Users(t *testing.T) {
	a := testutil.NewApp(t, nil)

	testutil.CreateStudent(t, a.StudentRepo, "ETS0001/12", "Abebe", "abebe@aastustudent.edu.et", dept, "")
	testutil.CreateStaff(t, a.StaffRepo, "advisor1", core.RoleAdvisor, dept, "")
	testutil.CreateCompany(t, a.CompanyRepo, "Ethio Telecom", "hr@ethiotelecom.et", "", true)
	testutil.CreateCompany(t, a.CompanyRepo, "Safaricom", "hr@safaricom.et", "", false)

	users, err := a.DashboardSvc.Users(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []dashboard.User{
		{Role: core.RoleStudent, Name: "Abebe", StudentID: "ETS0001/12", Email: "abebe@aastustudent.edu.et", Department: dept},
		{Role: core.RoleAdvisor, Name: "advisor1", Username: "advisor1", Email: "advisor1@aastu.edu.et", Department: dept},
		{Role: core.RoleCompany, Name: "Ethio Telecom", Email: "hr@ethiotelecom.et"},
	}, users)
}

func TestService_Users_VerifyAddsOneCompany(t *testing.T) {
	a := testutil.NewApp(t, nil)
	ctx := context.Background()

	testutil.CreateCompany(t, a.CompanyRepo, "Ethio Telecom", "hr@ethiotelecom.et", "", true)
	testutil.CreateCompany(t, a.CompanyRepo, "Safaricom", "hr@safaricom.et", "", false)
	cmp, err := a.CompanySvc.Register(ctx, company.NewCompany{
		Name:            "Kifiya",
		Email:           "hr@kifiya.com",
		Phone:           "0911223344",
		Password:        "Str0ngPass!",
		PasswordConfirm: "Str0ngPass!",
		DocumentName:    "license.pdf",
		DocumentData:    "data:application/pdf;base64,JVBERi0=",
	})
	require.NoError(t, err)
	require.False(t, cmp.Verified)

	companies := func() []string {
		users, err := a.DashboardSvc.Users(ctx)
		require.NoError(t, err)
		var names []string
		for _, u := range users {
			if u.Role == core.RoleCompany {
				names = append(names, u.Name)
			}
		}
		return names
	}

	assert.Equal(t, []string{"Ethio Telecom"}, companies())

	_, err = a.CompanySvc.Verify(ctx, cmp.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Ethio Telecom", "Kifiya"}, companies())

	// verifying again adds nothing
	_, err = a.CompanySvc.Verify(ctx, cmp.ID)
	require.NoError(t, err)
	assert.Len(t, companies(), 2)

	pending, err := a.CompanySvc.Query(ctx, company.QueryFilter{Verified: new(bool)})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "Safaricom", pending[0].Name)
}

func TestService_Student(t *testing.T) {
	a := testutil.NewApp(t, nil)
	ctx := context.Background()

	std := testutil.CreateStudent(t, a.StudentRepo, "ETS0001/12", "Abebe", "abebe@aastustudent.edu.et", dept, "")
	testutil.CreateEligible(t, a.StudentRepo, dept, student.EligibleStudent{StudentID: std.StudentID, Email: std.Email, FullName: std.Name})
	coord := testutil.CreateStaff(t, a.StaffRepo, "coord", core.RoleCoordinator, dept, "")
	testutil.CreateStaff(t, a.StaffRepo, "advisor1", core.RoleAdvisor, dept, "")
	cmp := testutil.CreateCompany(t, a.CompanyRepo, "Ethio Telecom", "hr@ethiotelecom.et", "", true)
	other := testutil.CreateCompany(t, a.CompanyRepo, "Safaricom", "hr@safaricom.et", "", true)

	dash, err := a.DashboardSvc.Student(ctx, std.Session())
	require.NoError(t, err)
	assert.Equal(t, application.InternshipNotApplied, dash.InternshipStatus)
	assert.Nil(t, dash.Assignment)

	_, err = a.ApplSvc.Apply(ctx, std.Session(), application.NewApplication{CompanyID: other.ID, Reason: "mobile money"})
	require.NoError(t, err)

	dash, err = a.DashboardSvc.Student(ctx, std.Session())
	require.NoError(t, err)
	assert.Equal(t, application.InternshipPending, dash.InternshipStatus)
	assert.Equal(t, 1, dash.PendingApplications)
	assert.Equal(t, 1, dash.UnreadNotifications)

	testutil.Accept(t, a, std, cmp)
	_, err = a.AssignSvc.Assign(ctx, coord.Session(), assignment.AssignStudent{Student: std.Email, Advisor: "advisor1"})
	require.NoError(t, err)
	_, err = a.NotifSvc.Notify(ctx, notification.NewNotification{StudentID: std.StudentID, Title: "hello"})
	require.NoError(t, err)

	dash, err = a.DashboardSvc.Student(ctx, std.Session())
	require.NoError(t, err)
	assert.Equal(t, std.Session(), dash.Student)
	assert.Equal(t, application.InternshipActive, dash.InternshipStatus)
	assert.Equal(t, 2, dash.Applications)
	assert.Equal(t, 1, dash.PendingApplications)
	assert.Equal(t, 1, dash.ActiveApplications)
	// two applications, the acceptance and the direct one
	assert.Equal(t, 4, dash.UnreadNotifications)
	require.NotNil(t, dash.Assignment)
	assert.Equal(t, "advisor1", dash.Assignment.Advisor)
}
