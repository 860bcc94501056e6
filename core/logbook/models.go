package logbook

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/aastu-its/interntrack/core"
)

type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

// DateLayout is the layout of Entry.Date.
const DateLayout = "2006-01-02"

// Entry is a weekly log of the work a student did at their host company.
type Entry struct {
	ID          string     `json:"id"`
	StudentID   string     `json:"studentId"`
	StudentName string     `json:"studentName"`
	CompanyID   string     `json:"companyId"`
	CompanyName string     `json:"companyName"`
	Date        string     `json:"date"`
	Tasks       string     `json:"tasks"`
	Evidence    string     `json:"evidence,omitempty"`
	Status      Status     `json:"status"`
	Signature   string     `json:"signature,omitempty"`
	Comment     string     `json:"comment,omitempty"`
	SubmittedAt time.Time  `json:"submittedAt"`
	ReviewedAt  *time.Time `json:"reviewedAt,omitempty"`
}

type NewEntry struct {
	// CompanyID defaults to the company that accepted the student.
	CompanyID string `json:"companyId"`
	Date      string `json:"date" validate:"required"`
	Tasks     string `json:"tasks" validate:"required"`
	Evidence  string `json:"evidence" validate:"omitempty,url|datauri"`
}

func (ne *NewEntry) Validate(validate *validator.Validate) error {
	ne.CompanyID = core.CleanString(ne.CompanyID)
	ne.Date = core.CleanString(ne.Date)
	ne.Tasks = core.CleanString(ne.Tasks)
	ne.Evidence = core.CleanString(ne.Evidence)

	if err := validate.Struct(ne); err != nil {
		return err
	}
	if _, err := time.Parse(DateLayout, ne.Date); err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "date", Error: "must be a date like 2024-02-26"})
	}
	return nil
}

// Review is the company's decision on an entry.
type Review struct {
	Signature string `json:"signature"`
	Comment   string `json:"comment"`
}

type QueryFilter struct {
	StudentID string
	CompanyID string
	Status    Status
}
