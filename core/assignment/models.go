package assignment

import (
	"time"

	"github.com/aastu-its/interntrack/core"
)

// Assignment links a student of a department to an advisor and an examiner.
// There is at most one per (StudentKey, Department).
type Assignment struct {
	StudentKey   string    `json:"studentKey"`
	StudentID    string    `json:"studentId,omitempty"`
	StudentEmail string    `json:"studentEmail,omitempty"`
	StudentName  string    `json:"studentName,omitempty"`
	Department   string    `json:"department"`
	Advisor      string    `json:"advisor,omitempty"`
	Examiner     string    `json:"examiner,omitempty"`
	AssignedBy   string    `json:"assignedBy"`
	AssignedAt   time.Time `json:"assignedAt"`
}

// AssignStudent is a coordinator's request. Student is a studentId or an email.
// An empty Advisor or Examiner keeps the one already assigned.
type AssignStudent struct {
	Student  string `json:"student"`
	Advisor  string `json:"advisor"`
	Examiner string `json:"examiner"`
}

func (as *AssignStudent) Clean() {
	as.Student = core.CleanString(as.Student)
	as.Advisor = core.CleanString(as.Advisor, true /* lower */)
	as.Examiner = core.CleanString(as.Examiner, true /* lower */)
}

type QueryFilter struct {
	Department string
	Advisor    string
	Examiner   string
}
