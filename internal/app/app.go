package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/guttosm/coffeepulse/config"
	"github.com/guttosm/coffeepulse/internal/api"
	"github.com/guttosm/coffeepulse/internal/domain/models"
	"github.com/guttosm/coffeepulse/internal/feed"
	"github.com/guttosm/coffeepulse/internal/logger"
	"github.com/guttosm/coffeepulse/internal/market"
	"github.com/guttosm/coffeepulse/internal/notify"
	"github.com/guttosm/coffeepulse/internal/scheduler"
	"github.com/guttosm/coffeepulse/internal/service"
	"github.com/guttosm/coffeepulse/internal/session"
	"github.com/guttosm/coffeepulse/internal/storage"
)

// App bundles the long-running parts of the service.
type App struct {
	Router    *gin.Engine
	State     *market.State
	Feed      *feed.Client
	Scheduler *scheduler.Daily
}

// InitializeApp sets up all application dependencies from config.AppConfig
// and returns the assembled App, a cleanup function for graceful shutdown,
// and any error encountered during initialization.
//
// Responsibilities:
//   - Connects to PostgreSQL when the delivery journal is enabled.
//   - Builds the notifier (SMTP or log-only) wrapped by the journal.
//   - Creates the market state, the daily report scheduler and the feed client.
//   - Creates the session store (memory or Redis) when login is enabled.
//   - Configures the Gin router and registers health and readiness probes.
func InitializeApp() (*App, func(), error) {
	cfg := config.AppConfig
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	fail := func(err error) (*App, func(), error) {
		cleanup()
		return nil, nil, err
	}
	checks := map[string]api.Check{}

	// ─── Delivery journal ─────────────────────────
	var (
		journal notify.Journal
		lister  service.DeliveryLister
	)
	if cfg.Journal.Enabled {
		db, err := postgresOpener(cfg)
		if err != nil {
			return fail(fmt.Errorf("failed to initialize postgres: %w", err))
		}
		closers = append(closers, func() { _ = db.Close() })

		repo := storage.NewDeliveryRepository(db)
		if err := repo.EnsureSchema(context.Background()); err != nil {
			return fail(err)
		}
		journal, lister = repo, repo
		checks["postgres"] = dbCheck(db)
	}

	// ─── Notifications ────────────────────────────
	notifier := notify.NewJournaledNotifier(newNotifier(cfg), journal)

	// ─── Market state and scheduler ───────────────
	alerts, err := models.NewPriceAlertConfig(cfg.Alerts.Enabled, cfg.Alerts.High, cfg.Alerts.Low)
	if err != nil {
		return fail(err)
	}
	if alerts.Inverted() {
		logger.L().Warn().
			Float64("high", alerts.HighThreshold).
			Float64("low", alerts.LowThreshold).
			Msg("alert thresholds inverted; high alerts take precedence")
	}
	state := market.NewState(
		market.WithAlerts(alerts, notifier),
		market.WithLocation(cfg.Report.Location),
		market.WithRetention(cfg.Market.TickRetention),
	)
	sched := scheduler.NewDaily(scheduler.Config{
		Hour:     cfg.Report.Hour,
		Location: cfg.Report.Location,
	}, state, notifier)
	feedClient := feed.NewClient(feed.Config{
		URL:         cfg.Feed.URL,
		Symbols:     cfg.Feed.Symbols,
		SwitchDelay: cfg.Feed.SwitchDelay,
		RetryDelay:  cfg.Feed.RetryDelay,
	}, state)

	// ─── Sessions ─────────────────────────────────
	opts := api.Options{
		Instrument:     cfg.Instrument,
		SessionTimeout: cfg.Login.SessionTimeout,
		SecureCookie:   cfg.Server.SecureCookie,
	}
	if cfg.Login.Enabled {
		auth, err := session.NewAuthenticator(cfg.Login.Username, cfg.Login.Password)
		if err != nil {
			return fail(err)
		}
		opts.Auth = auth

		switch cfg.Login.Backend {
		case "redis":
			rdb := redisOpener(cfg.Redis)
			closers = append(closers, func() { _ = rdb.Close() })
			opts.Sessions = session.NewRedisStore(rdb, cfg.Login.SessionTimeout)
			checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		default:
			opts.Sessions = session.NewMemoryStore(cfg.Login.SessionTimeout)
		}
	}

	// ─── HTTP ─────────────────────────────────────
	svc := service.NewMarketService(state, sched, notifier, lister)
	router := api.NewRouter(api.NewHandler(svc, opts))
	api.NewHealthHandler(checks).Register(router)

	logger.L().Info().
		Str("instrument", cfg.Instrument).
		Bool("email", cfg.Email.Enabled).
		Bool("login", cfg.Login.Enabled).
		Bool("journal", cfg.Journal.Enabled).
		Bool("alerts", alerts.Enabled).
		Int("report_hour", cfg.Report.Hour).
		Time("next_report", sched.Next()).
		Msg("application initialized")

	return &App{Router: router, State: state, Feed: feedClient, Scheduler: sched}, cleanup, nil
}

// newNotifier returns the SMTP notifier, or a log-only one when e-mail is disabled.
func newNotifier(cfg config.Config) notify.Notifier {
	if !cfg.Email.Enabled {
		return notify.NewLogNotifier(cfg.Instrument)
	}
	mailer := notify.NewSMTPMailer(notify.SMTPConfig{
		Host:     cfg.Email.SMTPHost,
		Port:     cfg.Email.SMTPPort,
		Username: cfg.Email.User,
		Password: cfg.Email.Password,
		From:     cfg.Email.From,
		Timeout:  cfg.Email.Timeout,
	})
	return notify.NewEmailNotifier(mailer, cfg.Instrument, cfg.Email.To)
}

func dbCheck(db *sql.DB) api.Check {
	return func(ctx context.Context) error { return db.PingContext(ctx) }
}

// redisOpener is an indirection used by InitializeApp; overridden in tests.
var redisOpener = func(cfg config.RedisConfig) redis.UniversalClient {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}
