package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"golang.org/x/term"

	"github.com/aastu-its/interntrack/core/company"
	"github.com/aastu-its/interntrack/core/staff"
	"github.com/aastu-its/interntrack/core/student"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db      *sql.DB
	dialect string

	students  student.Service
	staff     staff.Service
	companies company.Service

	out io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS] - run a goose migration command (up, down, status, version, redo, reset...)")
	fmt.Fprintln(cli.out, "  resetpassword -account student|staff|company -username ID - reset an account's password")
	fmt.Fprintln(cli.out, "  importeligible -file students.json [-department DEPT] - add students to the eligible list")
	fmt.Fprintln(cli.out, "  seed -file fixtures.yaml - load staff, companies and eligible students")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ContinueOnError)
	resetPasswordAccount := resetPasswordCmd.String("account", "staff", "The account type: student, staff or company.")
	resetPasswordUname := resetPasswordCmd.String("username", "", "The studentId, username or email. The password will be prompted next.")

	importCmd := flag.NewFlagSet("importeligible", flag.ContinueOnError)
	importFile := importCmd.String("file", "", "JSON file holding a list of {studentId, email, fullName, department}.")
	importDept := importCmd.String("department", "", "Department of the rows that do not name one.")

	seedCmd := flag.NewFlagSet("seed", flag.ContinueOnError)
	seedFile := seedCmd.String("file", "", "YAML fixtures file.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])

	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetPasswordUname == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		fmt.Fprint(cli.out, "Enter password:")
		pwd, err := readPasswordFunc(int(syscall.Stdin))
		fmt.Fprintln(cli.out)
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			resetPasswordCmd.Usage()
			return errHelp
		}
		return cli.resetPassword(*resetPasswordAccount, *resetPasswordUname, string(pwd))

	case "importeligible":
		if err := importCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *importFile == "" {
			importCmd.Usage()
			return errHelp
		}
		return cli.importEligible(*importFile, *importDept)

	case "seed":
		if err := seedCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *seedFile == "" {
			seedCmd.Usage()
			return errHelp
		}
		return cli.seed(*seedFile)

	default:
		cli.printUsage()
		return errHelp
	}
}
