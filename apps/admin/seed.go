package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/aastu-its/interntrack/core"
	"github.com/aastu-its/interntrack/core/company"
	"github.com/aastu-its/interntrack/core/staff"
	"github.com/aastu-its/interntrack/core/student"
)

type fixtures struct {
	Staff []struct {
		Username   string `yaml:"username"`
		Email      string `yaml:"email"`
		Name       string `yaml:"name"`
		Password   string `yaml:"password"`
		Role       string `yaml:"role"`
		Department string `yaml:"department"`
	} `yaml:"staff"`

	Companies []struct {
		Name         string `yaml:"name"`
		Email        string `yaml:"email"`
		Phone        string `yaml:"phone"`
		Password     string `yaml:"password"`
		DocumentName string `yaml:"documentName"`
		DocumentData string `yaml:"documentData"`
		Verified     bool   `yaml:"verified"`
	} `yaml:"companies"`

	Eligible []struct {
		Department string `yaml:"department"`
		Students   []struct {
			StudentID string `yaml:"studentId"`
			Email     string `yaml:"email"`
			FullName  string `yaml:"fullName"`
		} `yaml:"students"`
	} `yaml:"eligible"`
}

// seed loads fixtures. Accounts that already exist are left untouched.
func (cli *commandLine) seed(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "reading file")
	}
	var fx fixtures
	if err = yaml.Unmarshal(data, &fx); err != nil {
		return errors.Wrapf(err, "decoding %s", path)
	}
	ctx := context.Background()

	for _, s := range fx.Staff {
		role := core.RoleStaff
		if s.Role != "" {
			if role, err = core.ParseRole(s.Role); err != nil || !role.IsStaff() {
				return errors.Errorf("staff %q: unsupported role %q", s.Username, s.Role)
			}
		}
		_, err = cli.staff.Create(ctx, staff.NewStaff{
			Username:   core.CleanString(s.Username, true /* lower */),
			Email:      core.CleanString(s.Email, true /* lower */),
			Name:       core.CleanString(s.Name),
			Password:   s.Password,
			Role:       role,
			Department: core.CleanString(s.Department),
		})
		if skip, err := exists(err); err != nil {
			return errors.Wrapf(err, "staff %q", s.Username)
		} else if skip {
			fmt.Fprintf(cli.out, "staff %s exists, skipped\n", s.Username)
			continue
		}
		fmt.Fprintf(cli.out, "staff %s created\n", s.Username)
	}

	for _, c := range fx.Companies {
		cmp, err := cli.companies.Register(ctx, company.NewCompany{
			Name:         core.CleanString(c.Name),
			Email:        core.CleanString(c.Email, true /* lower */),
			Phone:        core.CleanString(c.Phone),
			Password:     c.Password,
			DocumentName: c.DocumentName,
			DocumentData: c.DocumentData,
		})
		if skip, err := exists(err); err != nil {
			return errors.Wrapf(err, "company %q", c.Name)
		} else if skip {
			fmt.Fprintf(cli.out, "company %s exists, skipped\n", c.Name)
			continue
		}
		if c.Verified {
			if _, err = cli.companies.Verify(ctx, cmp.ID); err != nil {
				return errors.Wrapf(err, "verifying company %q", c.Name)
			}
		}
		fmt.Fprintf(cli.out, "company %s created\n", c.Name)
	}

	for _, group := range fx.Eligible {
		entries := make([]student.EligibleStudent, 0, len(group.Students))
		for _, s := range group.Students {
			entries = append(entries, student.EligibleStudent{StudentID: s.StudentID, Email: s.Email, FullName: s.FullName})
		}
		if len(entries) == 0 {
			continue
		}
		if err = cli.addEligible(ctx, group.Department, entries); err != nil {
			return errors.Wrapf(err, "eligible students of %q", group.Department)
		}
	}
	return nil
}

// exists tells duplicate account errors apart from real failures.
func exists(err error) (bool, error) {
	if err == nil {
		return false, nil
	}
	var verr *core.ValidationError
	if errors.As(err, &verr) {
		switch errors.Cause(verr.Err) {
		case staff.ErrUsernameExists, staff.ErrEmailExists, company.ErrNameExists, company.ErrEmailExists:
			return true, nil
		}
	}
	return false, err
}
