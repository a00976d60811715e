package main

import (
	"context"
	"expvar"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/jmoiron/sqlx"

	echoapi "github.com/trezcool/schooladmin/apps/api/echo"
	"github.com/trezcool/schooladmin/core"
	"github.com/trezcool/schooladmin/core/school"
	"github.com/trezcool/schooladmin/core/user"
	logsvc "github.com/trezcool/schooladmin/services/logger"
	"github.com/trezcool/schooladmin/storage/database"
	sqlxrepos "github.com/trezcool/schooladmin/storage/database/sqlx"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(os.Stdout, conf)

	db, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			logger.Error("closing database", err)
		}
	}()

	validate := core.NewValidator()
	user.InitValidators(validate)
	school.InitValidators(validate)

	store := sqlxrepos.NewStore(db, validate, logger, sqlxrepos.WithPagination(conf.Pagination))
	usrSvc := user.NewService(sqlxrepos.NewUserRepository(store), validate)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build), map[string]interface{}{"config": conf.String()})
	defer logger.Info("Application stopped")

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(echoapi.Options{
		Conf:    conf,
		Logger:  logger,
		UserSvc: usrSvc,
		Repos:   sqlxrepos.NewRepositories(store),
	})

	go server.Start()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Error(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Error(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func setUpDB(conf *core.Config) (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
