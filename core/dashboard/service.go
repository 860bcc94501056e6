package dashboard

import (
	"context"

	"github.com/pkg/errors"

	"github.com/aastu-its/interntrack/core"
	"github.com/aastu-its/interntrack/core/application"
	"github.com/aastu-its/interntrack/core/assignment"
	"github.com/aastu-its/interntrack/core/company"
	"github.com/aastu-its/interntrack/core/staff"
	"github.com/aastu-its/interntrack/core/student"
)

type (
	Students interface {
		Query(ctx context.Context, filter student.QueryFilter) ([]student.Student, error)
		QueryEligible(ctx context.Context, filter student.QueryFilter) ([]student.EligibleStudent, error)
	}

	Staff interface {
		Query(ctx context.Context, filter staff.QueryFilter) ([]staff.Staff, error)
	}

	Companies interface {
		QueryVerified(ctx context.Context) ([]company.Company, error)
	}

	Assignments interface {
		QueryForDepartment(ctx context.Context, department string) ([]assignment.Assignment, error)
	}

	Applications interface {
		QueryForStudent(ctx context.Context, studentID string) ([]application.Application, error)
	}

	Notifications interface {
		UnreadCount(ctx context.Context, studentID string) (int, error)
	}

	Deps struct {
		Students      Students
		Staff         Staff
		Companies     Companies
		Assignments   Assignments
		Applications  Applications
		Notifications Notifications
	}

	Service interface {
		Coordinator(ctx context.Context, coordinator core.Session) (CoordinatorStats, error)
		Users(ctx context.Context) ([]User, error)
		Student(ctx context.Context, std core.Session) (StudentDashboard, error)
	}

	service struct {
		Deps
	}
)

var _ Service = (*service)(nil)

func NewService(deps Deps) Service {
	return &service{deps}
}

func (svc *service) Coordinator(ctx context.Context, coordinator core.Session) (CoordinatorStats, error) {
	dept := core.CleanString(coordinator.Department)
	stats := CoordinatorStats{Department: dept}
	if dept == "" {
		return stats, nil
	}

	eligible, err := svc.Students.QueryEligible(ctx, student.QueryFilter{Department: dept})
	if err != nil {
		return stats, errors.Wrap(err, "querying eligible students")
	}
	stats.EligibleStudents = len(eligible)

	assignments, err := svc.Assignments.QueryForDepartment(ctx, dept)
	if err != nil {
		return stats, errors.Wrap(err, "querying assignments")
	}
	for _, a := range assignments {
		if a.Advisor != "" || a.Examiner != "" {
			stats.AssignedStudents++
		}
	}

	members, err := svc.Staff.Query(ctx, staff.QueryFilter{
		Roles:      []core.Role{core.RoleAdvisor, core.RoleCoordinator},
		Department: dept,
	})
	if err != nil {
		return stats, errors.Wrap(err, "querying staff")
	}
	for _, m := range members {
		switch m.Role {
		case core.RoleAdvisor:
			stats.Advisors++
		case core.RoleCoordinator:
			stats.Coordinators++
		}
	}
	return stats, nil
}

// Users lists students, staff and verified companies. Unverified companies are not users yet.
func (svc *service) Users(ctx context.Context) ([]User, error) {
	students, err := svc.Students.Query(ctx, student.QueryFilter{})
	if err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	members, err := svc.Staff.Query(ctx, staff.QueryFilter{})
	if err != nil {
		return nil, errors.Wrap(err, "querying staff")
	}
	companies, err := svc.Companies.QueryVerified(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying companies")
	}

	users := make([]User, 0, len(students)+len(members)+len(companies))
	for _, s := range students {
		users = append(users, User{
			Role:       core.RoleStudent,
			Name:       s.Name,
			StudentID:  s.StudentID,
			Email:      s.Email,
			Department: s.Department,
		})
	}
	for _, m := range members {
		users = append(users, User{
			Role:       m.Role,
			Name:       m.Name,
			Username:   m.Username,
			Email:      m.Email,
			Department: m.Department,
		})
	}
	for _, c := range companies {
		users = append(users, User{
			Role:  core.RoleCompany,
			Name:  c.Name,
			Email: c.ContactEmail,
		})
	}
	return users, nil
}

func (svc *service) Student(ctx context.Context, std core.Session) (StudentDashboard, error) {
	dash := StudentDashboard{Student: std, InternshipStatus: application.InternshipNotApplied}

	apps, err := svc.Applications.QueryForStudent(ctx, std.ID)
	if err != nil {
		return dash, errors.Wrap(err, "querying applications")
	}
	dash.Applications = len(apps)
	for _, a := range apps {
		switch a.Status {
		case application.StatusPending:
			dash.PendingApplications++
		case application.StatusAccepted:
			dash.ActiveApplications++
		}
	}
	switch {
	case dash.ActiveApplications > 0:
		dash.InternshipStatus = application.InternshipActive
	case dash.PendingApplications > 0:
		dash.InternshipStatus = application.InternshipPending
	}

	if dash.UnreadNotifications, err = svc.Notifications.UnreadCount(ctx, std.ID); err != nil {
		return dash, errors.Wrap(err, "counting notifications")
	}

	if std.Department != "" {
		assignments, err := svc.Assignments.QueryForDepartment(ctx, std.Department)
		if err != nil {
			return dash, errors.Wrap(err, "querying assignments")
		}
		for i, a := range assignments {
			if (std.ID != "" && a.StudentKey == std.ID) || (a.StudentEmail != "" && core.EqualFold(a.StudentEmail, std.Email)) {
				dash.Assignment = &assignments[i]
				break
			}
		}
	}
	return dash, nil
}
