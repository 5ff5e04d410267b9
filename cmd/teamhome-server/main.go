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

	"github.com/gin-gonic/gin"
	"github.com/mikepea/teamhome/pkg/teamhome/auth"
	"github.com/mikepea/teamhome/pkg/teamhome/billing"
	"github.com/mikepea/teamhome/pkg/teamhome/cascade"
	"github.com/mikepea/teamhome/pkg/teamhome/config"
	"github.com/mikepea/teamhome/pkg/teamhome/database"
	"github.com/mikepea/teamhome/pkg/teamhome/logging"
	"github.com/mikepea/teamhome/pkg/teamhome/models"
	"github.com/mikepea/teamhome/pkg/teamhome/notify"
	"github.com/mikepea/teamhome/pkg/teamhome/oidc"
	"github.com/mikepea/teamhome/pkg/teamhome/server"
	"github.com/mikepea/teamhome/pkg/teamhome/store"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

func main() {
	app := &cli.App{
		Name:   "teamhome-server",
		Usage:  "TeamHome collaboration API",
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API and the deletion sweeper",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "create or update the database schema",
				Action: migrate,
			},
			{
				Name:  "sweep",
				Usage: "resume unfinished team deletions once and exit",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "maximum number of deletions to resume",
						Value: cascade.SweepBatch,
					},
				},
				Action: sweep,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads config, builds the logger and opens a migrated database
func setup() (*config.Config, *zap.Logger, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	logger := logging.New("teamhome", cfg.Env)

	db, err := database.Open(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		return nil, nil, nil, fmt.Errorf("run migrations: %w", err)
	}

	auth.SetSecret(cfg.JWTSecret)
	return cfg, logger, db, nil
}

func migrate(c *cli.Context) error {
	_, logger, _, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("database migrations completed")
	return nil
}

func sweep(c *cli.Context) error {
	cfg, logger, db, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	orchestrator := cascade.NewOrchestrator(cascade.FromStore(store.New(db)), cascade.Options{
		PurgeEvents: cfg.PurgeEventsOnDelete(),
	}, logger.Named("cascade"))

	n, err := orchestrator.ResumePending(c.Context, c.Int("limit"))
	if err != nil {
		return err
	}
	logger.Info("sweep finished", zap.Int("resumed", n))
	return nil
}

func serve(c *cli.Context) error {
	cfg, logger, db, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var sender notify.Sender
	if cfg.SendGridAPIKey != "" {
		sender = notify.NewSendGridSender(cfg.SendGridAPIKey)
	} else {
		logger.Warn("SENDGRID_API_KEY not set, invitation mail will only be logged")
		sender = notify.NewLogSender(logger.Named("mail"))
	}

	if cfg.StripeSecretKey == "" {
		logger.Warn("STRIPE_SECRET_KEY not set, premium upgrades will fail")
	}

	var auth0 oidc.Authenticator
	if cfg.Auth0Enabled() {
		a, err := oidc.NewAuth0(ctx, oidc.Auth0Config{
			Issuer:       cfg.Auth0Issuer(),
			ClientID:     cfg.Auth0ClientID,
			ClientSecret: cfg.Auth0ClientSecret,
			RedirectURL:  cfg.BaseURL + "/api/oidc/callback",
		})
		if err != nil {
			logger.Error("auth0 discovery failed, continuing without it", zap.Error(err))
		} else {
			auth0 = a
		}
	}

	app := server.NewApp(server.Options{
		DB:      db,
		Config:  cfg,
		Sender:  sender,
		Gateway: billing.NewStripeGateway(cfg.StripeSecretKey),
		Auth0:   auth0,
		Logger:  logger,
	})
	defer app.Close()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting TeamHome server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		app.Sweeper.Run(ctx)
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
