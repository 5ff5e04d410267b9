package server

import (
	"github.com/gin-gonic/gin"
	"github.com/mikepea/teamhome/pkg/teamhome/billing"
	"github.com/mikepea/teamhome/pkg/teamhome/cascade"
	"github.com/mikepea/teamhome/pkg/teamhome/config"
	"github.com/mikepea/teamhome/pkg/teamhome/content"
	"github.com/mikepea/teamhome/pkg/teamhome/events"
	"github.com/mikepea/teamhome/pkg/teamhome/notify"
	"github.com/mikepea/teamhome/pkg/teamhome/oidc"
	"github.com/mikepea/teamhome/pkg/teamhome/store"
	"github.com/mikepea/teamhome/pkg/teamhome/teams"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Options are the outside-world collaborators of an App
type Options struct {
	DB      *gorm.DB
	Config  *config.Config
	Sender  notify.Sender
	Gateway billing.Gateway
	Auth0   oidc.Authenticator
	Logger  *zap.Logger
}

// App is the wired application: router plus background workers
type App struct {
	Router       *gin.Engine
	Repos        *store.Repositories
	Orchestrator *cascade.Orchestrator
	Sweeper      *cascade.Sweeper

	dispatcher *notify.Dispatcher
	recorder   *events.Recorder
}

// NewApp wires stores, workflows and handlers. Close must be called to
// flush queued mail and events.
func NewApp(opts Options) *App {
	cfg, logger := opts.Config, opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	repos := store.New(opts.DB)

	dispatcher := notify.NewDispatcher(opts.Sender, notify.DispatcherOptions{
		Workers:     cfg.NotifyWorkers,
		MaxAttempts: cfg.NotifyMaxAttempts,
	}, logger.Named("notify"))
	recorder := events.NewRecorder(repos.Events, logger.Named("events"))

	orchestrator := cascade.NewOrchestrator(cascade.FromStore(repos), cascade.Options{
		PurgeEvents: cfg.PurgeEventsOnDelete(),
	}, logger.Named("cascade"))

	upgrader := billing.NewService(repos.Teams, repos.Charges, opts.Gateway, cfg.PremiumCurrency, logger.Named("billing"))

	teamService := teams.NewService(teams.Config{
		Teams:      repos.Teams,
		Users:      repos.Users,
		Deleter:    orchestrator,
		Upgrader:   upgrader,
		Notifier:   dispatcher,
		Recorder:   recorder,
		MailDomain: cfg.MailDomain,
		Logger:     logger.Named("teams"),
	})

	router := NewRouter(Deps{
		DB:             opts.DB,
		Repos:          repos,
		Teams:          teamService,
		Content:        content.NewService(repos, recorder),
		Auth0:          opts.Auth0,
		AllowedOrigins: cfg.AllowedOrigins(),
		ReturnOrigins:  cfg.ReturnOrigins(),
		Logger:         logger.Named("http"),
	})

	return &App{
		Router:       router,
		Repos:        repos,
		Orchestrator: orchestrator,
		Sweeper:      cascade.NewSweeper(orchestrator, cfg.DeletionSweepInterval, logger.Named("sweeper")),
		dispatcher:   dispatcher,
		recorder:     recorder,
	}
}

// Close drains queued mail and waits for pending event writes
func (a *App) Close() {
	a.dispatcher.Close()
	a.recorder.Wait()
}
