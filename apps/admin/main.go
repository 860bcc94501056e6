package main

import (
	"database/sql"
	"os"

	"github.com/pkg/errors"

	"github.com/aastu-its/interntrack/core"
	"github.com/aastu-its/interntrack/core/company"
	"github.com/aastu-its/interntrack/core/staff"
	"github.com/aastu-its/interntrack/core/student"
	emailsvc "github.com/aastu-its/interntrack/services/email"
	logsvc "github.com/aastu-its/interntrack/services/logger"
	registrysvc "github.com/aastu-its/interntrack/services/registry"
	"github.com/aastu-its/interntrack/storage/database"
	"github.com/aastu-its/interntrack/storage/kvstore"
	"github.com/aastu-its/interntrack/storage/repos"
)

var logger core.Logger

func main() {
	conf := core.NewConfig()

	l := logsvc.NewRollbarLogger(logsvc.NewStdLogger(conf, "ADMIN"), conf)
	l.Enable(!conf.Debug)
	logger = l

	// the store migrates itself on open, except when asked to run migrations by hand
	migrating := len(os.Args) > 1 && os.Args[1] == "migrate"

	cli := commandLine{out: os.Stdout}
	if migrating {
		db, dialect, err := openSQL(conf)
		errAndDie(err)
		defer db.Close()
		cli.db, cli.dialect = db, dialect
	} else {
		store, err := kvstore.Open(conf)
		errAndDie(err)
		defer store.Close()

		studentSvc := student.NewService(repos.NewStudentRepository(store), registrysvc.NewClient(conf), logger)
		cli.students = studentSvc
		cli.staff = staff.NewService(repos.NewStaffRepository(store))
		cli.companies = company.NewService(repos.NewCompanyRepository(store), emailsvc.NewConsoleService(conf, logger))
	}

	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error("command failed: "+err.Error(), err)
		}
		os.Exit(1)
	}
}

// openSQL opens the database behind the configured sql storage driver.
func openSQL(conf *core.Config) (*sql.DB, string, error) {
	switch conf.Storage.Driver {
	case kvstore.DriverPostgres:
		if err := database.CreateIfNotExist(conf); err != nil {
			return nil, "", err
		}
		db, err := database.Open(conf)
		return db, database.DialectPostgres, err
	case kvstore.DriverSQLite:
		db, err := sql.Open("sqlite", conf.Storage.SQLitePath)
		return db, database.DialectSQLite, err
	default:
		return nil, "", errors.Errorf("%q storage has no migrations", conf.Storage.Driver)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err.Error(), err)
	}
}
