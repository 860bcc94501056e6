package placement

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/aastu-its/interntrack/core"
)

type Status string

const (
	StatusPending  Status = "Pending Verification"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

// Placement is an internship a student found on their own and asks the university to verify.
type Placement struct {
	ID                  string     `json:"id"`
	StudentID           string     `json:"studentId"`
	StudentName         string     `json:"studentName"`
	StudentEmail        string     `json:"studentEmail,omitempty"`
	Department          string     `json:"department,omitempty"`
	CompanyName         string     `json:"companyName"`
	RepresentativeName  string     `json:"representativeName,omitempty"`
	RepresentativeEmail string     `json:"representativeEmail"`
	RepresentativePhone string     `json:"representativePhone,omitempty"`
	Location            string     `json:"location,omitempty"`
	CompanyLicense      string     `json:"companyLicense,omitempty"`
	LicenseFileName     string     `json:"licenseFileName,omitempty"`
	AdditionalNotes     string     `json:"additionalNotes,omitempty"`
	Status              Status     `json:"status"`
	ReviewNote          string     `json:"reviewNote,omitempty"`
	ReviewedBy          string     `json:"reviewedBy,omitempty"`
	SubmittedAt         time.Time  `json:"submittedAt"`
	ReviewedAt          *time.Time `json:"reviewedAt,omitempty"`
}

type NewPlacement struct {
	CompanyName         string `json:"companyName"`
	RepresentativeName  string `json:"representativeName"`
	RepresentativeEmail string `json:"representativeEmail" validate:"omitempty,email"`
	RepresentativePhone string `json:"representativePhone" validate:"omitempty,phone"`
	Location            string `json:"location"`
	CompanyLicense      string `json:"companyLicense" validate:"omitempty,datauri"`
	LicenseFileName     string `json:"licenseFileName"`
	AdditionalNotes     string `json:"additionalNotes"`
}

func (np *NewPlacement) Validate(validate *validator.Validate) error {
	np.CompanyName = core.CleanString(np.CompanyName)
	np.RepresentativeName = core.CleanString(np.RepresentativeName)
	np.RepresentativeEmail = core.CleanString(np.RepresentativeEmail, true /* lower */)
	np.RepresentativePhone = core.CleanString(np.RepresentativePhone)
	np.Location = core.CleanString(np.Location)
	np.LicenseFileName = core.CleanString(np.LicenseFileName)
	np.AdditionalNotes = core.CleanString(np.AdditionalNotes)

	var missing []core.FieldError
	for fld, val := range map[string]string{
		"companyName":         np.CompanyName,
		"representativeEmail": np.RepresentativeEmail,
		"companyLicense":      np.CompanyLicense,
	} {
		if val == "" {
			missing = append(missing, core.FieldError{Field: fld, Error: "this field is required"})
		}
	}
	if len(missing) > 0 {
		return core.NewValidationError(ErrRequiredFields, missing...)
	}
	return validate.Struct(np)
}

// Review is a coordinator's or admin's decision on a placement.
type Review struct {
	Approve bool   `json:"approve"`
	Note    string `json:"note"`
}

type QueryFilter struct {
	StudentID  string
	Department string
	Status     Status
}
