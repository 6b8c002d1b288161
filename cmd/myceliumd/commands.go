package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/mycelium-catalog/mycelium/pkg/buildtime"
	"github.com/mycelium-catalog/mycelium/pkg/configs/server"
	"github.com/mycelium-catalog/mycelium/pkg/domain/mycelium"
	"github.com/mycelium-catalog/mycelium/pkg/domain/template/files"
	"github.com/mycelium-catalog/mycelium/pkg/utils/echoutil"
	"github.com/mycelium-catalog/mycelium/pkg/utils/filewatch"
	"github.com/mycelium-catalog/mycelium/pkg/utils/retry"
	"github.com/spf13/cobra"
)

const (
	shutdownTimeout = 5 * time.Second
	databaseTimeout = 30 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Create tables in the database, and exit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		conf, logger, err := configure()
		if err != nil {
			return err
		}
		m, err := mycelium.Default(cmd.Context(), conf, mycelium.WithLogger(logger))
		if err != nil {
			return fmt.Errorf("can not connect to %s: %w", conf.Database().Redacted(), err)
		}
		defer m.Close()
		if err := waitDatabase(cmd.Context(), m, logger); err != nil {
			return err
		}
		return m.Bootstrap(cmd.Context())
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Println(buildtime.VersionString())
	},
}

// configure loads configuration and makes a logger as configured.
func configure() (*server.Config, *log.Logger, error) {
	conf, err := server.Load(configPath, os.Getenv)
	if err != nil {
		return nil, nil, err
	}

	logger := log.New("mycelium")
	lvl, ok := echoutil.ParseLevel(conf.Server().LogLevel())
	logger.SetLevel(lvl)
	if !ok {
		logger.Warnf("unknown loglevel: %s . fall-backed to warn", conf.Server().LogLevel())
	}
	for _, w := range conf.Warnings() {
		logger.Warn(w)
	}
	return conf, logger, nil
}

// waitDatabase blocks until the database answers, or databaseTimeout passes.
func waitDatabase(ctx context.Context, m mycelium.Mycelium, logger *log.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, databaseTimeout)
	defer cancel()

	_, err := retry.Blocking(
		ctx, retry.ExponentialBackoff(500*time.Millisecond, 2, 5*time.Second),
		func() (struct{}, error) {
			if err := m.Probe(ctx); err != nil {
				logger.Infof("waiting for database: %s", err)
				return struct{}{}, errors.Join(retry.ErrRetry, err)
			}
			return struct{}{}, nil
		},
	)
	if err != nil {
		return fmt.Errorf("database is not ready: %w", err)
	}
	return nil
}

func serve(ctx context.Context) error {
	conf, logger, err := configure()
	if err != nil {
		return err
	}

	m, err := mycelium.Default(ctx, conf, mycelium.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("can not connect to %s: %w", conf.Database().Redacted(), err)
	}
	defer m.Close()

	if err := waitDatabase(ctx, m, logger); err != nil {
		return err
	}
	if err := m.Bootstrap(ctx); err != nil {
		return fmt.Errorf("can not prepare tables: %w", err)
	}
	if err := m.Template().CheckDirectory(); err != nil {
		logger.Warnf("templates directory is not accessible: %s", err)
	}

	if conf.Templates().Watch() {
		wctx, cancel, err := filewatch.Watch(
			ctx, filewatch.PathMatches(files.IsTemplate), conf.Templates().Directory(),
		)
		if err != nil {
			return fmt.Errorf("can not watch templates: %w", err)
		}
		defer cancel()
		ctx = wctx
	}

	e := BuildServer(m, conf.Server())
	for _, r := range e.Routes() {
		logger.Debugf("route: %s %s", r.Method, r.Path)
	}

	errs := make(chan error, 1)
	go func() {
		errs <- e.Start(":" + strconv.Itoa(conf.Server().Port()))
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Infof("shutting down: %s", context.Cause(ctx))
	}

	graceful, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(graceful); err != nil {
		return fmt.Errorf("error on shutdown: %w", err)
	}
	return nil
}
