package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"foodgram/internal/config"
	"foodgram/internal/database"
	"foodgram/internal/logging"
	"foodgram/internal/modules/auth"
	jwtsvc "foodgram/internal/pkg/jwt"
	"foodgram/internal/repository"
	"foodgram/internal/router"
	"foodgram/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const shutdownTimeout = 10 * time.Second

// env is what every subcommand needs before it can do any work.
type env struct {
	cfg *config.Config
	log *zap.Logger
	db  *gorm.DB
}

func newRootCommand() *cobra.Command {
	serve := newServeCommand()
	root := &cobra.Command{
		Use:           "foodgram",
		Short:         "Recipe sharing API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}
	root.AddCommand(serve, newMigrateCommand(), newCreateSuperuserCommand(), newCleanTokensCommand())
	return root
}

func setup() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}

	level := logger.Warn
	if !cfg.IsProd() {
		level = logger.Info
	}
	db, err := database.Connect(cfg.DatabaseURL, level)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return &env{cfg: cfg, log: log, db: db}, nil
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setup()
			if err != nil {
				return err
			}
			defer func() { _ = e.log.Sync() }()

			if err := database.Migrate(e.db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}

			store, err := newStore(cmd.Context(), e.cfg)
			if err != nil {
				return err
			}

			if e.cfg.IsProd() {
				gin.SetMode(gin.ReleaseMode)
			}
			engine, err := router.New(router.Deps{Config: e.cfg, DB: e.db, Store: store, Log: e.log})
			if err != nil {
				return err
			}
			return run(cmd.Context(), e, engine)
		},
	}
}

// run serves until SIGINT or SIGTERM, then drains in-flight requests.
func run(ctx context.Context, e *env, handler http.Handler) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              e.cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		e.log.Info("listening", zap.String("addr", srv.Addr), zap.String("env", e.cfg.AppEnv))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	e.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	if cfg.Storage.Backend == config.StorageS3 {
		return storage.NewS3Store(ctx, storage.S3Config{
			Bucket:          cfg.Storage.Bucket,
			Region:          cfg.Storage.Region,
			Endpoint:        cfg.Storage.Endpoint,
			PublicURL:       cfg.Storage.PublicURL,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
		})
	}
	if err := os.MkdirAll(cfg.MediaRoot, 0o755); err != nil {
		return nil, fmt.Errorf("create media root: %w", err)
	}
	return storage.NewLocalStore(cfg.MediaRoot, cfg.MediaURL), nil
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setup()
			if err != nil {
				return err
			}
			if err := database.Migrate(e.db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			e.log.Info("schema is up to date")
			return nil
		},
	}
}

func newCreateSuperuserCommand() *cobra.Command {
	var req auth.RegisterRequest
	cmd := &cobra.Command{
		Use:   "createsuperuser",
		Short: "Create an administrator account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setup()
			if err != nil {
				return err
			}
			if err := database.Migrate(e.db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}

			svc := auth.NewService(
				repository.NewUserRepository(e.db),
				repository.NewTokenRepository(e.db),
				repository.NewSubscriptionRepository(e.db),
				jwtsvc.New(e.cfg.JWTSecret, e.cfg.TokenTTL),
			)
			user, err := svc.CreateSuperuser(cmd.Context(), req)
			if err != nil {
				return err
			}
			e.log.Info("superuser created", zap.Int64("id", user.ID), zap.String("username", user.Username))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&req.Email, "email", "", "account email")
	flags.StringVar(&req.Username, "username", "", "account username")
	flags.StringVar(&req.Password, "password", "", "account password")
	flags.StringVar(&req.FirstName, "first-name", "Admin", "first name")
	flags.StringVar(&req.LastName, "last-name", "Admin", "last name")
	for _, name := range []string{"email", "username", "password"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

// newCleanTokensCommand drops stored keys whose newest bearer token has
// outlived TOKEN_TTL. Meant for cron.
func newCleanTokensCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cleantokens",
		Short: "Delete expired auth token keys",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setup()
			if err != nil {
				return err
			}
			cutoff := time.Now().Add(-e.cfg.TokenTTL)
			n, err := repository.NewTokenRepository(e.db).DeleteIssuedBefore(cmd.Context(), cutoff)
			if err != nil {
				return fmt.Errorf("clean tokens: %w", err)
			}
			e.log.Info("auth token cleanup completed", zap.Int64("deleted", n), zap.Time("cutoff", cutoff))
			return nil
		},
	}
}
