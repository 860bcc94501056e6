package company

import (
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/aastu-its/interntrack/core"
)

type Company struct {
	ID           string     `json:"id"`
	Name         string     `json:"companyName"`
	ContactEmail string     `json:"contactEmail"`
	Phone        string     `json:"phone"`
	Verified     bool       `json:"verified"`
	DocumentName string     `json:"documentName,omitempty"`
	DocumentData string     `json:"documentData,omitempty"`
	PasswordHash []byte     `json:"-"`
	CreatedAt    time.Time  `json:"createdAt"`
	VerifiedAt   *time.Time `json:"verifiedAt,omitempty"`
}

func (c *Company) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	c.PasswordHash = hash
	return nil
}

func (c *Company) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(c.PasswordHash, []byte(pwd))
}

func (c Company) Session() core.Session {
	return core.Session{
		Role:  core.RoleCompany,
		ID:    c.ID,
		Name:  c.Name,
		Email: c.ContactEmail,
	}
}

// Public hides the verification document, which only admins need.
func (c Company) Public() Company {
	c.DocumentData = ""
	return c
}

// NewCompany contains information needed to register a Company.
type NewCompany struct {
	Name            string `json:"companyName" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone" validate:"required,phone"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"confirmPassword" validate:"required,eqfield=Password"`
	DocumentName    string `json:"documentName"`
	DocumentData    string `json:"documentData" validate:"required,datauri"`
}

func (nc *NewCompany) Validate(validate *validator.Validate) error {
	nc.Name = core.CleanString(nc.Name)
	nc.Email = core.CleanString(nc.Email, true /* lower */)
	nc.Phone = core.CleanString(nc.Phone)
	nc.DocumentName = core.CleanString(nc.DocumentName)
	return validate.Struct(nc)
}

type QueryFilter struct {
	Verified *bool
}
