package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/coreos/go-oidc/v3/oidc"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"github.com/brandlink/partner-auth/channel"
	"github.com/brandlink/partner-auth/internal/config"
	"github.com/brandlink/partner-auth/lifecycle"
	"github.com/brandlink/partner-auth/migrations"
	"github.com/brandlink/partner-auth/partners"
	partnerspg "github.com/brandlink/partner-auth/partners/postgres"
	"github.com/brandlink/partner-auth/refresh"
	"github.com/brandlink/partner-auth/server"
	"github.com/brandlink/partner-auth/session"
	tokenpg "github.com/brandlink/partner-auth/tokenstore/postgres"
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
			log.Error().Any("panic", r).Msg("recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	configureLogging(c)
	displayAppname(c.GetAppName())

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	srv, err := buildServer(c, db)
	if err != nil {
		return err
	}

	httpServer := &http.Server{Addr: c.GetPort(), Handler: srv}
	go listenAndServe(httpServer)
	waitForStopSignal()
	returnError = shutdown(httpServer)
	return returnError
}

func openDatabase(c config.Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", c.GetDatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.GetStoreTimeout())
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("db.PingContext: %w", err)
	}

	if err := migrations.Apply(db); err != nil {
		return nil, fmt.Errorf("migrations.Apply: %w", err)
	}
	return db, nil
}

func buildServer(c config.Config, db *sql.DB) (*server.Server, error) {
	ctx, cancel := context.WithTimeout(context.Background(), c.GetProviderTimeout())
	defer cancel()

	provider, err := oidc.NewProvider(ctx, c.GetIssuer())
	if err != nil {
		return nil, fmt.Errorf("oidc.NewProvider: %w", err)
	}

	oauth2Config := &oauth2.Config{
		ClientID:     c.GetClientID(),
		ClientSecret: c.GetClientSecret(),
		RedirectURL:  c.GetRedirectURL(),
		Endpoint:     provider.Endpoint(),
		Scopes:       c.GetScopes(),
	}

	tokenRepo := tokenpg.New(db)
	linker, err := partners.NewLinker(partnerspg.New(db))
	if err != nil {
		return nil, fmt.Errorf("partners.NewLinker: %w", err)
	}

	exchanger, err := refresh.NewOAuth2Exchanger(oauth2Config, c.GetProviderTimeout())
	if err != nil {
		return nil, fmt.Errorf("refresh.NewOAuth2Exchanger: %w", err)
	}
	engine, err := refresh.NewEngine(exchanger, tokenRepo)
	if err != nil {
		return nil, fmt.Errorf("refresh.NewEngine: %w", err)
	}

	controller, err := lifecycle.NewController(tokenRepo, linker, engine)
	if err != nil {
		return nil, fmt.Errorf("lifecycle.NewController: %w", err)
	}

	sessions, err := session.NewCodec(c.GetSessionSigningKey(), c.GetSessionMaxAge())
	if err != nil {
		return nil, fmt.Errorf("session.NewCodec: %w", err)
	}
	resolver, err := channel.NewResolver(c.GetChannelCookieKey())
	if err != nil {
		return nil, fmt.Errorf("channel.NewResolver: %w", err)
	}

	oidcConfig := server.OidcConfig{
		Provider:     provider,
		OAuth2Config: oauth2Config,
		Verifier:     provider.Verifier(&oidc.Config{ClientID: c.GetClientID()}),
	}

	return server.New(c, oidcConfig, controller, sessions, resolver)
}

func configureLogging(c config.Config) {
	if c.GetEnv() == "DEV" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
