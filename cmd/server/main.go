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

	"github.com/auditops/audit-relay/internal/config"
	"github.com/auditops/audit-relay/msgraph"
	"github.com/auditops/audit-relay/server"
	"github.com/auditops/audit-relay/server/authstate"
	"github.com/auditops/audit-relay/server/relaysession"
	"github.com/auditops/audit-relay/tenants"
	"github.com/auditops/audit-relay/webhook"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Error running server")
	}
	log.Info().Msg("Server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	displayAppname(c.GetAppName())

	graph := msgraph.New(
		c.GetMicrosoftClientID(),
		c.GetMicrosoftClientSecret(),
		c.GetMicrosoftTenantID(),
		c.GetMicrosoftRedirectURI(),
	)

	tenantRepo, err := loadTenants(c)
	if err != nil {
		return err
	}

	sessionRepo := relaysession.NewInMemoryRepo(c.GetMaxSessionAge(), c.GetSessionSweepInterval())
	defer sessionRepo.Close()

	srv, err := server.New(c, server.Deps{
		Graph:      graph,
		Tenants:    tenantRepo,
		Sessions:   sessionRepo,
		AuthStates: authstate.NewInMemoryRepo(c.GetLoginStateTimeout()),
		Dispatcher: webhook.New(c.GetWebhookURL()),
	})
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	httpServer := &http.Server{Addr: c.GetPort(), Handler: srv}
	go listenAndServe(httpServer)
	waitForStopSignal()
	returnError = shutdown(httpServer)
	return returnError
}

// loadTenants reads the per-tenant ClickUp credentials file; a missing file
// is fine when single-tenant env credentials are configured.
func loadTenants(c config.Config) (tenants.Repo, error) {
	path := c.GetClickUpAppsFile()
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
		log.Info().Str("path", path).Msg("no clickup apps file, using env credentials only")
		return tenants.NewInMemoryRepo(), nil
	}

	repo, err := tenants.LoadFile(path)
	if err != nil {
		return nil, err
	}
	all, _ := repo.List()
	log.Info().Str("path", path).Int("tenants", len(all)).Msg("loaded clickup apps file")
	return repo, nil
}

func listenAndServe(httpServer *http.Server) error {
	log.Info().Str("addr", httpServer.Addr).Msg("Server listening")
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
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
