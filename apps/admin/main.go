package main

import (
	"errors"
	"os"

	"github.com/trezcool/schooladmin/core"
	"github.com/trezcool/schooladmin/core/school"
	"github.com/trezcool/schooladmin/core/user"
	logsvc "github.com/trezcool/schooladmin/services/logger"
	"github.com/trezcool/schooladmin/storage/database"
	sqlxrepos "github.com/trezcool/schooladmin/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()
	logger := logsvc.NewRollbarLogger(os.Stderr, conf)

	// set up DB
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := database.CreateIfNotExist(conf); err != nil {
			logger.Fatal("creating database", err)
		}
	}
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal("opening database", err)
	}
	defer func() { _ = db.Close() }()

	validate := core.NewValidator()
	user.InitValidators(validate)
	school.InitValidators(validate)
	store := sqlxrepos.NewStore(db, validate, logger, sqlxrepos.WithPagination(conf.Pagination))

	// start CLI
	cli := commandLine{
		db:        db,
		out:       os.Stdout,
		usrSvc:    user.NewService(sqlxrepos.NewUserRepository(store), validate),
		employees: sqlxrepos.NewEmployeeRepository(store),
	}
	if err = cli.run(os.Args); err != nil {
		if !errors.Is(err, errHelp) {
			logger.Error("admin command failed", err, map[string]interface{}{"args": os.Args[1:]})
		}
		_ = db.Close()
		os.Exit(1)
	}
}
