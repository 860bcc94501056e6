package staff

import (
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/aastu-its/interntrack/core"
)

// Staff is a university account: plain staff, advisors, examiners, coordinators and supervisors.
type Staff struct {
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Name         string    `json:"name,omitempty"`
	Role         core.Role `json:"role"`
	Department   string    `json:"department,omitempty"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (s *Staff) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s.PasswordHash = hash
	return nil
}

func (s *Staff) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(s.PasswordHash, []byte(pwd))
}

func (s Staff) Session() core.Session {
	name := s.Name
	if name == "" {
		name = s.Username
	}
	return core.Session{
		Role:       s.Role,
		ID:         s.Username,
		Name:       name,
		Email:      s.Email,
		Department: s.Department,
	}
}

// NewStaff contains information needed to create a Staff account.
type NewStaff struct {
	Username   string    `json:"username" validate:"required,min=3,alphanum_"`
	Email      string    `json:"email" validate:"omitempty,email"`
	Name       string    `json:"name"`
	Password   string    `json:"password" validate:"required"`
	Role       core.Role `json:"role" validate:"staffrole"`
	Department string    `json:"department"`
}

func (ns *NewStaff) Validate(validate *validator.Validate) error {
	ns.Username = core.CleanString(ns.Username, true /* lower */)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	ns.Name = core.CleanString(ns.Name)
	ns.Department = core.CleanString(ns.Department)
	if ns.Role == "" {
		ns.Role = core.RoleStaff
	} else if r, err := core.ParseRole(string(ns.Role)); err == nil {
		ns.Role = r
	}
	return validate.Struct(ns)
}

// RoleAssignment is a coordinator's request to make a staff member an advisor or an examiner.
type RoleAssignment struct {
	Username string    `json:"username"`
	Role     core.Role `json:"role"`
}

func (ra *RoleAssignment) Clean() {
	ra.Username = core.CleanString(ra.Username, true /* lower */)
	if r, err := core.ParseRole(string(ra.Role)); err == nil {
		ra.Role = r
	}
}

type GetFilter struct {
	Username        string
	UsernameOrEmail string
	Role            core.Role // optional
}

type QueryFilter struct {
	Roles      []core.Role
	Department string
}
