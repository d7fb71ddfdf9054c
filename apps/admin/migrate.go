package main

import (
	"github.com/trezcool/goose"

	"github.com/trezcool/deptportal/storage/database"
)

var gooseRunFunc = goose.RunFS // mockable

func (cli *commandLine) migrate(args []string) error {
	if cli.db == nil {
		return errNoDatabase
	}
	if err := goose.SetDialect(cli.db.DriverName()); err != nil {
		return err
	}
	arguments := make([]string, 0)
	if len(args) > 1 {
		arguments = append(arguments, args[1:]...)
	}
	return gooseRunFunc(args[0], cli.db.DB, database.MigrationsFS, database.MigrationsDir, arguments...)
}
