package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/akulov/reservd/backup"
	"github.com/akulov/reservd/internal/config"
	reservationsqlite "github.com/akulov/reservd/reservations/sqlite"
	"github.com/akulov/reservd/server"
	"github.com/akulov/reservd/token"
	usersqlite "github.com/akulov/reservd/users/sqlite"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Fatal().Err(err).Msg("error running server")
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Info().Msg("server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("config.New: %w", err)
	}
	logger := newLogger(cfg)
	displayAppname(cfg.AppName)

	userRepo, err := usersqlite.Open(cfg.Storage.UsersPath)
	if err != nil {
		return fmt.Errorf("open users store: %w", err)
	}
	defer userRepo.Close()

	reservationRepo, err := reservationsqlite.Open(cfg.Storage.ReservationsPath)
	if err != nil {
		return fmt.Errorf("open reservations store: %w", err)
	}
	defer reservationRepo.Close()

	issuer, err := token.NewIssuer(
		cfg.Auth.AccessSecret, cfg.Auth.RefreshSecret,
		cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL,
	)
	if err != nil {
		return fmt.Errorf("token.NewIssuer: %w", err)
	}

	srv, err := server.New(cfg, server.Repos{
		Users:        userRepo,
		Reservations: reservationRepo,
	}, issuer, logger)
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Backup.Enabled {
		rotator := backup.NewRotator(cfg.Backup, []string{
			cfg.Storage.UsersPath,
			cfg.Storage.ReservationsPath,
		}, logger)
		go rotator.Run(ctx)
	}

	httpServer := &http.Server{Addr: cfg.ListenAddr(), Handler: srv}
	go listenAndServe(httpServer, logger)
	waitForStopSignal()
	cancel()
	return shutdown(httpServer)
}

func newLogger(cfg config.Config) zerolog.Logger {
	if cfg.IsDev() {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(zerolog.DebugLevel).
			With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).Level(zerolog.InfoLevel).With().Timestamp().Logger()
}

func listenAndServe(httpServer *http.Server, logger zerolog.Logger) {
	logger.Info().Str("addr", httpServer.Addr).Msg("server listening")
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Err(err).Msg("server.ListenAndServe")
	}
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(httpServer *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
