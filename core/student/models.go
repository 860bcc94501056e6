package student

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/aastu-its/interntrack/core"
)

// Origin tells where a student account was first accepted.
type Origin string

const (
	OriginRemote Origin = "remote"
	OriginLocal  Origin = "local"
)

type Student struct {
	StudentID    string    `json:"studentId"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Department   string    `json:"department"`
	Image        string    `json:"image,omitempty"`
	Origin       Origin    `json:"origin"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (s *Student) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s.PasswordHash = hash
	return nil
}

func (s *Student) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(s.PasswordHash, []byte(pwd))
}

// Key identifies the student in department scoped records: the studentId, or the email when there is none.
func (s Student) Key() string {
	if s.StudentID != "" {
		return s.StudentID
	}
	return s.Email
}

func (s Student) Session() core.Session {
	return core.Session{
		Role:       core.RoleStudent,
		ID:         s.StudentID,
		Name:       s.Name,
		Email:      s.Email,
		Department: s.Department,
	}
}

// EligibleStudent is an entry of the list a coordinator uploads. Only listed students may register.
type EligibleStudent struct {
	StudentID  string    `json:"studentId,omitempty"`
	Email      string    `json:"email,omitempty"`
	FullName   string    `json:"fullName,omitempty"`
	Department string    `json:"department,omitempty"`
	UploadedAt time.Time `json:"uploadedAt"`
}

func (es EligibleStudent) valid() bool {
	return es.StudentID != "" || es.Email != "" || es.FullName != ""
}

// Matches reports whether the entry designates the student with this id or email.
func (es EligibleStudent) Matches(studentID, email string) bool {
	return (studentID != "" && es.StudentID == studentID) ||
		(email != "" && es.Email != "" && strings.EqualFold(es.Email, email))
}

func (es *EligibleStudent) clean() {
	es.StudentID = core.CleanString(es.StudentID)
	es.Email = core.CleanString(es.Email, true /* lower */)
	es.FullName = core.CleanString(es.FullName)
	es.Department = core.CleanString(es.Department)
}

// UploadResult summarizes an eligible list upload.
type UploadResult struct {
	Added   []EligibleStudent `json:"added"`
	Skipped int               `json:"skipped"`
}

// NewStudent contains information needed to register a Student.
type NewStudent struct {
	Name            string `json:"fullName" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	StudentID       string `json:"studentId" validate:"required"`
	Phone           string `json:"phone" validate:"required,phone"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"confirmPassword" validate:"required,eqfield=Password"`
	Image           string `json:"image,omitempty"`
}

func (ns *NewStudent) Validate(validate *validator.Validate, emailDomain string) error {
	ns.Name = core.CleanString(ns.Name)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	ns.StudentID = core.CleanString(ns.StudentID)
	ns.Phone = core.CleanString(ns.Phone)

	if ns.Email != "" && emailDomain != "" && !strings.HasSuffix(ns.Email, emailDomain) {
		return core.NewValidationError(nil, core.FieldError{Field: "email", Error: ErrEmailDomain.Error()})
	}
	return validate.Struct(ns)
}

type Credentials struct {
	Email    string
	Password string
}

type GetFilter struct {
	StudentID string
	Email     string
}

type QueryFilter struct {
	Department string
}
