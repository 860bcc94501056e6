package evaluation

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/aastu-its/interntrack/core"
)

// Monthly is a company's monthly rating of an intern.
type Monthly struct {
	ID              string    `json:"id"`
	CompanyID       string    `json:"companyId"`
	CompanyName     string    `json:"companyName"`
	StudentID       string    `json:"studentId"`
	StudentName     string    `json:"studentName"`
	Month           string    `json:"month"`
	Technical       int       `json:"technical"`
	Communication   int       `json:"communication"`
	Professionalism int       `json:"professionalism"`
	Timeliness      int       `json:"timeliness"`
	Total           int       `json:"total"`
	CreatedAt       time.Time `json:"createdAt"`
}

type NewMonthly struct {
	StudentID       string `json:"studentId" validate:"required"`
	Month           string `json:"month" validate:"required"`
	Technical       int    `json:"technical" validate:"min=0,max=5"`
	Communication   int    `json:"communication" validate:"min=0,max=5"`
	Professionalism int    `json:"professionalism" validate:"min=0,max=5"`
	Timeliness      int    `json:"timeliness" validate:"min=0,max=5"`
}

func (nm *NewMonthly) Validate(validate *validator.Validate) error {
	nm.StudentID = core.CleanString(nm.StudentID)
	nm.Month = core.CleanString(nm.Month)
	return validate.Struct(nm)
}

func (nm NewMonthly) total() int {
	return nm.Technical + nm.Communication + nm.Professionalism + nm.Timeliness
}

// Final is the company's closing evaluation of an intern. It cannot be changed once submitted.
type Final struct {
	ID              string    `json:"id"`
	CompanyID       string    `json:"companyId"`
	CompanyName     string    `json:"companyName"`
	StudentID       string    `json:"studentId"`
	StudentName     string    `json:"studentName"`
	Technical       int       `json:"technical"`
	Communication   int       `json:"communication"`
	Professionalism int       `json:"professionalism"`
	Score           int       `json:"score"`
	Recommendation  bool      `json:"recommendation"`
	Letter          string    `json:"letter,omitempty"`
	Locked          bool      `json:"locked"`
	SubmittedAt     time.Time `json:"submittedAt"`
}

type NewFinal struct {
	StudentID       string `json:"studentId" validate:"required"`
	Technical       int    `json:"technical" validate:"min=0,max=40"`
	Communication   int    `json:"communication" validate:"min=0,max=40"`
	Professionalism int    `json:"professionalism" validate:"min=0,max=40"`
	Recommendation  bool   `json:"recommendation"`
	Letter          string `json:"letter"`
}

func (nf *NewFinal) Validate(validate *validator.Validate) error {
	nf.StudentID = core.CleanString(nf.StudentID)
	nf.Letter = core.CleanString(nf.Letter)
	return validate.Struct(nf)
}

func (nf NewFinal) score() int {
	return nf.Technical + nf.Communication + nf.Professionalism
}

type QueryFilter struct {
	CompanyID string
	StudentID string
}
