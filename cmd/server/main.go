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
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-login-server/github"
	"github.com/jrsteele09/go-login-server/identity"
	"github.com/jrsteele09/go-login-server/internal/config"
	"github.com/jrsteele09/go-login-server/internal/logging"
	"github.com/jrsteele09/go-login-server/server"
	"github.com/jrsteele09/go-login-server/server/flowstate"
	"github.com/jrsteele09/go-login-server/sessions"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Error().Err(err).Msg("error running server")
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

	cfg := config.New()
	logging.Init(cfg.GetEnv(), cfg.DebugEnabled())
	displayAppname(cfg.GetAppName())

	// Missing credentials are a reported misconfiguration, not a crash: the
	// server still serves pages and surfaces a notice when login is used.
	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("oauth configuration incomplete, sign-in will be unavailable")
	}

	log.Debug().
		Str("base_url", cfg.GetBaseURL()).
		Str("client_id", cfg.GetClientID()).
		Str("client_secret", logging.Redact(cfg.GetClientSecret())).
		Msg("oauth configuration loaded")

	provider := github.New(
		cfg.GetClientID(),
		cfg.GetClientSecret(),
		cfg.GetBaseURL()+server.RouteCallback,
	)

	srv := server.New(
		cfg,
		provider,
		identity.NewInMemoryStore(),
		sessions.NewInMemoryRepo(),
		flowstate.NewInMemoryRepo(),
	)

	httpServer := &http.Server{Addr: cfg.GetPort(), Handler: srv}
	go listenAndServe(httpServer)
	waitForStopSignal()
	returnError = shutdown(httpServer)
	return returnError
}

func listenAndServe(httpServer *http.Server) {
	log.Info().Str("addr", httpServer.Addr).Msg("server listening")
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error().Err(err).Msg("server.ListenAndServe")
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
