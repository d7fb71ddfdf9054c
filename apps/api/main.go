package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"

	echoapi "github.com/trezcool/deptportal/apps/api/echo"
	"github.com/trezcool/deptportal/core"
	"github.com/trezcool/deptportal/core/portal"
	"github.com/trezcool/deptportal/core/user"
	emailsvc "github.com/trezcool/deptportal/services/email"
	logsvc "github.com/trezcool/deptportal/services/logger"
	"github.com/trezcool/deptportal/storage"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	logger, err := logsvc.New(conf, "api")
	if err != nil {
		log.Fatalf("setting up logger: %v", err)
	}
	storeLogger, err := logsvc.New(conf, "storage")
	if err != nil {
		log.Fatalf("setting up logger: %v", err)
	}

	// set up storage
	ctx := context.Background()
	store, err := storage.Open(ctx, conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening %s storage: %v", conf.Storage.Engine, err), err)
	}
	defer func() {
		if err = store.Close(); err != nil {
			storeLogger.Error("failed to close storage", err)
		}
	}()

	// set up services
	mailSvc := emailsvc.NewService(conf, logger)
	usrSvc := user.NewService(store, storeLogger)
	deptPortal := portal.New(store, conf, mailSvc, storeLogger)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	if err = usrSvc.Initialize(ctx); err != nil {
		logger.Fatal("initializing users", err)
	}
	if err = deptPortal.Initialize(ctx); err != nil {
		logger.Fatal("initializing portal", err)
	}

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)
	expvar.NewString("storage").Set(conf.Storage.Engine)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:    conf,
			Logger:  logger,
			UserSvc: usrSvc,
			Portal:  deptPortal,
		},
	)

	go func() {
		server.Start()
	}()

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
