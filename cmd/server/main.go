package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/soldertec/site/internal/app"
	"github.com/soldertec/site/internal/config"
	"github.com/soldertec/site/internal/database"
	"github.com/soldertec/site/internal/pkg/jwt"
	"github.com/soldertec/site/internal/pkg/logger"
)

const usage = `usage: server [-config path] [command]

commands:
  serve     run the HTTP server (default)
  migrate   create or update the database schema
  token     print an admin access token for local development
            flags: -email, -sub, -ttl
`

func main() {
	configPath := flag.String("config", config.DefaultConfigPath, "Path to YAML config file")
	flag.Usage = func() { fmt.Fprint(flag.CommandLine.Output(), usage) }
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log, err := logger.New(cfg.LogLevel, cfg.IsProduction())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	cmd, args := "serve", []string(nil)
	if flag.NArg() > 0 {
		cmd, args = flag.Arg(0), flag.Args()[1:]
	}
	switch cmd {
	case "serve":
		err = serve(cfg, log)
	case "migrate":
		err = migrate(cfg, log)
	case "token":
		err = token(cfg, args)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal(cmd+" failed", zap.Error(err))
	}
}

func serve(cfg *config.AppConfig, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, log, cfg)
	if err != nil {
		return fmt.Errorf("initialize app: %w", err)
	}
	application.Start()

	srv := &http.Server{
		Addr:              application.Addr(),
		Handler:           application.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env), zap.String("version", cfg.Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		application.Shutdown()
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err = srv.Shutdown(shutdownCtx)
	application.Shutdown()
	if err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	log.Info("server exited")
	return nil
}

func migrate(cfg *config.AppConfig, log *zap.Logger) error {
	db, err := database.Connect(cfg, true)
	if err != nil {
		return err
	}
	defer database.Close(db)
	log.Info("database schema is up to date", zap.String("driver", cfg.Database.Driver))
	return nil
}

func token(cfg *config.AppConfig, args []string) error {
	if cfg.IsProduction() {
		return errors.New("development tokens cannot be minted in production")
	}
	if !cfg.AuthEnabled() {
		return errors.New("supabase.jwt_secret is not configured")
	}
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	defaultEmail := ""
	if len(cfg.Supabase.AdminEmails) > 0 {
		defaultEmail = cfg.Supabase.AdminEmails[0]
	}
	email := fs.String("email", defaultEmail, "admin email to embed")
	sub := fs.String("sub", "local-admin", "user id to embed")
	ttl := fs.Duration("ttl", 12*time.Hour, "token lifetime")
	if err := fs.Parse(args); err != nil {
		return err
	}

	v := jwt.NewVerifier(cfg.Supabase.JWTSecret, cfg.Supabase.URL, cfg.Supabase.AdminEmails)
	tok, err := v.Sign(*sub, *email, *ttl)
	if err != nil {
		return err
	}
	if _, err := v.Verify(tok); err != nil {
		return fmt.Errorf("minted token does not pass verification: %w", err)
	}
	fmt.Println(tok)
	return nil
}
