package application

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/aastu-its/interntrack/core"
)

type Status string

const (
	StatusPending  Status = "Pending"
	StatusAccepted Status = "Accepted"
	StatusRejected Status = "Rejected"
)

const (
	DefaultSupervisor      = "Assigned Supervisor"
	DefaultRejectionReason = "Not a fit at this time"
	DefaultInfoRequest     = "Requested more information"
)

// CanTransition reports whether an application may move from s to next.
// Pending -> Pending is the information request loop; Accepted and Rejected are terminal.
func (s Status) CanTransition(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusPending || next == StatusAccepted || next == StatusRejected
	case StatusAccepted, StatusRejected:
		return false
	}
	return false
}

type Application struct {
	ID              string     `json:"id"`
	StudentID       string     `json:"studentId"`
	StudentName     string     `json:"studentName"`
	StudentEmail    string     `json:"studentEmail,omitempty"`
	Department      string     `json:"department,omitempty"`
	CompanyID       string     `json:"companyId"`
	CompanyName     string     `json:"companyName"`
	Reason          string     `json:"reason"`
	DocumentName    string     `json:"documentName,omitempty"`
	DocumentData    string     `json:"additionalDocument,omitempty"`
	Status          Status     `json:"status"`
	Supervisor      string     `json:"supervisor,omitempty"`
	RejectionReason string     `json:"rejectionReason,omitempty"`
	InfoRequested   string     `json:"infoRequested,omitempty"`
	AppliedAt       time.Time  `json:"appliedAt"`
	ReviewedAt      *time.Time `json:"reviewedAt,omitempty"`
}

// NewApplication is what a student submits when applying to a verified company.
type NewApplication struct {
	CompanyID    string `json:"companyId" validate:"required"`
	Reason       string `json:"reason" validate:"required"`
	DocumentName string `json:"documentName"`
	DocumentData string `json:"additionalDocument" validate:"omitempty,datauri"`
}

func (na *NewApplication) Validate(validate *validator.Validate) error {
	na.CompanyID = core.CleanString(na.CompanyID)
	na.Reason = core.CleanString(na.Reason)
	na.DocumentName = core.CleanString(na.DocumentName)
	if na.Reason == "" {
		return core.NewValidationError(ErrReasonRequired, core.FieldError{Field: "reason", Error: ErrReasonRequired.Error()})
	}
	return validate.Struct(na)
}

// Overview counts a company's applications per status.
type Overview struct {
	Total    int `json:"total"`
	Accepted int `json:"accepted"`
	Pending  int `json:"pending"`
	Rejected int `json:"rejected"`
}

// InternshipStatus summarizes where a student stands.
type InternshipStatus string

const (
	InternshipNotApplied InternshipStatus = "Not Applied"
	InternshipPending    InternshipStatus = "Pending"
	InternshipActive     InternshipStatus = "Active"
)

type QueryFilter struct {
	StudentID string
	CompanyID string
	Status    Status
}
