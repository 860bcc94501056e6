package dashboard

import (
	"github.com/aastu-its/interntrack/core"
	"github.com/aastu-its/interntrack/core/application"
	"github.com/aastu-its/interntrack/core/assignment"
)

// CoordinatorStats counts the records of the coordinator's department.
type CoordinatorStats struct {
	Department       string `json:"department"`
	EligibleStudents int    `json:"totalStudents"`
	AssignedStudents int    `json:"assignedStudents"`
	Advisors         int    `json:"advisors"`
	Coordinators     int    `json:"coordinators"`
}

// User is an entry of the admin's unified list of accounts.
type User struct {
	Role       core.Role `json:"role"`
	Name       string    `json:"fullName,omitempty"`
	Username   string    `json:"username,omitempty"`
	StudentID  string    `json:"studentId,omitempty"`
	Email      string    `json:"email"`
	Department string    `json:"department,omitempty"`
}

type StudentDashboard struct {
	Student             core.Session                 `json:"student"`
	InternshipStatus    application.InternshipStatus `json:"internshipStatus"`
	Applications        int                          `json:"applications"`
	PendingApplications int                          `json:"pendingApplications"`
	ActiveApplications  int                          `json:"activeApplications"`
	UnreadNotifications int                          `json:"unreadNotifications"`
	Assignment          *assignment.Assignment       `json:"assignment,omitempty"`
}
