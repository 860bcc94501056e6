package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/aastu-its/interntrack/core"
	"github.com/aastu-its/interntrack/core/student"
)

func (cli *commandLine) resetPassword(account, uname, pwd string) error {
	ctx := context.Background()
	role, err := core.ParseRole(account)
	if err != nil {
		return err
	}

	switch {
	case role == core.RoleStudent:
		filter := student.GetFilter{StudentID: uname}
		if strings.Contains(uname, "@") {
			filter = student.GetFilter{Email: uname}
		}
		if _, err = cli.students.SetPassword(ctx, filter, pwd); err != nil {
			return err
		}
	case role == core.RoleCompany:
		if _, err = cli.companies.SetPassword(ctx, uname, pwd); err != nil {
			return err
		}
	case role.IsStaff():
		if _, err = cli.staff.SetPassword(ctx, uname, pwd); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%s accounts have no stored password", role)
	}
	fmt.Fprintf(cli.out, "password of %s %s updated\n", role, uname)
	return nil
}
