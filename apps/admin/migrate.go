package main

import (
	"context"
	"errors"

	"github.com/aastu-its/interntrack/storage/database"
)

var migrateRunFunc = database.Run // mockable

var errNoSQLStorage = errors.New("migrations only apply to the sqlite and postgres storage drivers")

func (cli *commandLine) migrate(args []string) error {
	if cli.dialect == "" {
		return errNoSQLStorage
	}
	arguments := make([]string, 0)
	if len(args) > 1 {
		arguments = append(arguments, args[1:]...)
	}
	return migrateRunFunc(context.Background(), cli.db, cli.dialect, args[0], arguments...)
}
