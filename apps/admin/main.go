package main

import (
	"context"
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/deptportal/core"
	"github.com/trezcool/deptportal/core/portal"
	"github.com/trezcool/deptportal/core/user"
	emailsvc "github.com/trezcool/deptportal/services/email"
	logsvc "github.com/trezcool/deptportal/services/logger"
	"github.com/trezcool/deptportal/storage"
	"github.com/trezcool/deptportal/storage/database"
	"github.com/trezcool/deptportal/storage/kv/sqlkv"
)

var logger *log.Logger

func main() {
	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()
	appLogger, err := logsvc.New(conf, "admin")
	errAndDie(err)

	// set up storage; SQL databases are left unmigrated for the migrate command
	var store core.StorageCloser
	var db *sqlx.DB
	switch conf.Storage.Engine {
	case core.EnginePostgres, core.EngineSQLite:
		errAndDie(database.CreateIfNotExist(conf))
		db, err = database.Open(conf)
		errAndDie(err)
		errAndDie(database.Ping(db, 10))
		if len(os.Args) < 2 || os.Args[1] != "migrate" {
			errAndDie(database.Migrate(db))
		}
		store = sqlkv.New(db)
	default:
		store, err = storage.Open(context.Background(), conf)
		errAndDie(err)
	}

	// start CLI
	cli := commandLine{
		store:  store,
		db:     db,
		usrSvc: user.NewService(store, appLogger),
		portal: portal.New(store, conf, emailsvc.NewConsoleService(conf, appLogger), appLogger),
		out:    os.Stdout,
	}
	err = cli.run(os.Args)
	if cErr := store.Close(); cErr != nil {
		logger.Printf("closing storage: %v", cErr)
	}
	if err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
