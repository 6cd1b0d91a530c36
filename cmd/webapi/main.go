/*
Webapi is the executable for the tracks API server. It serves the read-only "tracks" table of a SQLite database.

The server starts accepting connections right away while the database is opened in the background; until that
completes every request is answered with a "not initialized yet" error. If the database cannot be opened the process
exits with a non-zero status.

Usage:

	webapi [flags]

Flags and configurations are handled automatically by the code in `load-configuration.go`.

Return values (exit codes):

	0
		The program ended successfully (no errors, stopped by signal)

	> 0
		The program ended due to an error (including a database that cannot be opened)

The database schema is not managed here: the file must already contain a `tracks` table.
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ardanlabs/conf"
	"github.com/gorilla/handlers"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/trackshelf/tracks-api/service/api"
	"github.com/trackshelf/tracks-api/service/database"
)

// main is the program entry point. The only purpose of this function is to call run() and set the exit code if there
// is any error
func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "error: ", err)
		os.Exit(1)
	}
}

// run executes the program. The body of this function should perform the following steps:
// * reads the configuration
// * creates and configure the logger
// * starts the web server and, concurrently, the database initialization
// * waits for any termination event: SIGTERM signal (UNIX), non-recoverable server error or database failure
// * closes the principal web server
func run() error {
	// Load Configuration and defaults
	cfg, err := loadConfiguration(os.Args[1:])
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			return nil
		}
		return err
	}

	// Init logging
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	if cfg.Debug {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}
	if cfg.Log.JSON {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	logger.Infof("application initializing")

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// The handle starts uninitialized: the API rejects requests until initDatabase completes.
	var dbHandle database.Handle
	defer closeDatabase(&dbHandle, logger)

	// Start (main) API server
	logger.Info("initializing API server")

	// Make a channel to listen for an interrupt or terminate signal from the OS.
	// Use a buffered channel because the signal package requires it.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Make a channel to listen for errors coming from the listener. Use a
	// buffered channel so the goroutine can exit if we don't collect this error.
	serverErrors := make(chan error, 1)

	// Create the API router
	apirouter, err := api.New(api.Config{
		Logger:     logger,
		Handle:     &dbHandle,
		Registerer: registry,
	})
	if err != nil {
		logger.WithError(err).Error("error creating the API server instance")
		return fmt.Errorf("error creating the API server instance: %w", err)
	}
	router := apirouter.Handler()

	accessLog := logger.WriterLevel(logrus.InfoLevel)
	defer func() { _ = accessLog.Close() }()

	router = applyCORSHandler(router)
	router = handlers.CombinedLoggingHandler(accessLog, router)

	// Create the API server
	apiserver := http.Server{
		Addr:              cfg.Web.APIHost,
		Handler:           router,
		ReadTimeout:       cfg.Web.ReadTimeout,
		ReadHeaderTimeout: cfg.Web.ReadTimeout,
		WriteTimeout:      cfg.Web.WriteTimeout,
	}

	// Start the service listening for requests in a separate goroutine
	go func() {
		logger.Infof("API listening on %s", apiserver.Addr)
		serverErrors <- apiserver.ListenAndServe()
		logger.Infof("stopping API server")
	}()

	if cfg.Web.DebugHost != "" {
		debugserver := startDebugServer(cfg.Web.DebugHost, registry, logger)
		defer func() { _ = debugserver.Close() }()
	}

	// Start Database, concurrently with the listener
	dbErrors := make(chan error, 1)
	go func() {
		dbErrors <- initDatabase(&dbHandle, cfg.DB.Filename, cfg.DB.ReadOnly, logger)
	}()

	// Waiting for shutdown signal or POSIX signals
	select {
	case err := <-serverErrors:
		// Non-recoverable server error
		return fmt.Errorf("server error: %w", err)

	case err := <-dbErrors:
		if err != nil {
			logger.WithError(err).Error("error initializing database")
			return fmt.Errorf("initializing database: %w", err)
		}
		logger.Info("database initialized")
		return waitForShutdown(&apiserver, apirouter, cfg, shutdown, serverErrors, logger)

	case sig := <-shutdown:
		logger.Infof("signal %v received, start shutdown", sig)
		return stopServer(&apiserver, apirouter, cfg, logger)
	}
}

// waitForShutdown blocks, once the database is ready, until a signal or a server error arrives.
func waitForShutdown(apiserver *http.Server, apirouter api.Router, cfg WebAPIConfiguration,
	shutdown <-chan os.Signal, serverErrors <-chan error, logger *logrus.Logger) error {
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		logger.Infof("signal %v received, start shutdown", sig)
		return stopServer(apiserver, apirouter, cfg, logger)
	}
}

// stopServer asks the API server to shutdown and, if the shutdown timeout expires, forces it closed.
func stopServer(apiserver *http.Server, apirouter api.Router, cfg WebAPIConfiguration, logger *logrus.Logger) error {
	// Asking API server to shut down and load shed.
	err := apirouter.Close()
	if err != nil {
		logger.WithError(err).Warning("graceful shutdown of apirouter error")
	}

	// Give outstanding requests a deadline for completion.
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
	defer cancel()

	// Asking listener to shut down and load shed.
	err = apiserver.Shutdown(ctx)
	if err != nil {
		logger.WithError(err).Warning("error during graceful shutdown of HTTP server")
		err = apiserver.Close()
	}
	return err
}

func startDebugServer(addr string, registry *prometheus.Registry, logger *logrus.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	debugserver := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Infof("debug listener on %s", addr)
		if err := debugserver.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("debug listener stopped")
		}
	}()
	return debugserver
}
