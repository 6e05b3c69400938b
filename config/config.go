package config

import (
	"fmt"
	"log"
	"math"
	"strings"
	"time"
	_ "time/tzdata" // REPORT_TIMEZONE on images without zoneinfo

	"github.com/spf13/viper"
)

// DefaultSymbols is the feed fallback list, tried in order until one resolves.
var DefaultSymbols = []string{
	"ICEEUR:RC1!",
	"ICEEUR:RCH2025",
	"ICEEUR:RCK2025",
	"ICEEUR:RCN2025",
	"ICEEUR:RCU2025",
	"ICEEUR:RCX2025",
	"ICEEUR:RCF2026",
	"NYSE:JO",
	"NASDAQ:SBUX",
}

// Config holds the full application configuration loaded from environment variables or .env file.
//
// Example ENV:
//
//	SERVER_PORT=8080
//	FEED_URL=ws://localhost:9000/feed
//	REPORT_HOUR=8
//	ALERT_HIGH=6000
//	ALERT_LOW=4000
//	EMAIL_ENABLED=true
//	SMTP_HOST=smtp.gmail.com
//	EMAIL_TO=ops@example.com,trader@example.com
//	LOGIN_ENABLED=true
//	ADMIN_PASSWORD=change-me
type Config struct {
	Server     ServerConfig   // HTTP server configuration
	Instrument string         // Display name used in pages and e-mails
	Feed       FeedConfig     // Market-data feed
	Market     MarketConfig   // In-memory market state
	Report     ReportConfig   // Daily report schedule
	Alerts     AlertsConfig   // Price alert thresholds
	Email      EmailConfig    // SMTP delivery
	Login      LoginConfig    // Dashboard authentication
	Redis      RedisConfig    // Session store backend when SESSION_BACKEND=redis
	Journal    JournalConfig  // Delivery journal
	Postgres   PostgresConfig // PostgreSQL connection settings
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string // The TCP port the HTTP server will listen on (e.g., "8080")
	SecureCookie bool   // Mark the session cookie Secure (behind TLS)
}

// FeedConfig configures the websocket market-data client.
type FeedConfig struct {
	URL         string
	Symbols     []string
	RetryDelay  time.Duration // wait after a lost connection or a full pass over Symbols
	SwitchDelay time.Duration // wait before trying the next symbol after an error
}

// MarketConfig sizes the in-memory state.
type MarketConfig struct {
	TickRetention int
}

// ReportConfig schedules the daily e-mail report.
type ReportConfig struct {
	Hour     int
	Timezone string
	Location *time.Location
}

// AlertsConfig holds the price alert thresholds.
type AlertsConfig struct {
	Enabled bool
	High    float64
	Low     float64
}

// EmailConfig defines SMTP delivery.
type EmailConfig struct {
	Enabled  bool
	SMTPHost string
	SMTPPort int
	User     string
	Password string
	From     string
	To       []string
	Timeout  time.Duration
}

// LoginConfig protects the dashboard and admin endpoints.
type LoginConfig struct {
	Enabled        bool
	Username       string
	Password       string
	SessionTimeout time.Duration
	Backend        string // "memory" or "redis"
}

// RedisConfig defines the Redis connection used by the session store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// JournalConfig toggles the PostgreSQL delivery journal.
type JournalConfig struct {
	Enabled bool
}

// PostgresConfig defines connection details for PostgreSQL.
//
// Fields:
//   - Host: hostname of the database server.
//   - Port: port number of the database server (default 5432).
//   - User: username for authentication.
//   - Password: password for authentication.
//   - DBName: target database name.
//   - SSLMode: SSL mode (e.g., "disable", "require").
//   - URL: computed DSN used by database/sql to connect.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	URL      string
}

// AppConfig is the globally accessible configuration instance.
//
// It is populated once via LoadConfig() and used throughout the application.
var AppConfig Config

// LoadConfig initializes the global AppConfig by reading from .env file
// or directly from environment variables.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// Fatal exit:
//   - If required variables are missing or invalid, validateConfig() terminates
//     the app with a descriptive log message.
func LoadConfig() {
	setDefaults()

	// Optionally read from .env if present (common in local dev)
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig() // ignore error if no .env

	viper.AutomaticEnv()

	AppConfig = Config{
		Server: ServerConfig{
			Port:         viper.GetString("SERVER_PORT"),
			SecureCookie: viper.GetBool("COOKIE_SECURE"),
		},
		Instrument: viper.GetString("INSTRUMENT_NAME"),
		Feed: FeedConfig{
			URL:         viper.GetString("FEED_URL"),
			Symbols:     splitList(viper.GetString("FEED_SYMBOLS")),
			RetryDelay:  viper.GetDuration("FEED_RETRY_DELAY"),
			SwitchDelay: viper.GetDuration("FEED_SWITCH_DELAY"),
		},
		Market: MarketConfig{
			TickRetention: viper.GetInt("TICK_RETENTION"),
		},
		Report: ReportConfig{
			Hour:     viper.GetInt("REPORT_HOUR"),
			Timezone: viper.GetString("REPORT_TIMEZONE"),
		},
		Alerts: AlertsConfig{
			Enabled: viper.GetBool("ALERTS_ENABLED"),
			High:    viper.GetFloat64("ALERT_HIGH"),
			Low:     viper.GetFloat64("ALERT_LOW"),
		},
		Email: EmailConfig{
			Enabled:  viper.GetBool("EMAIL_ENABLED"),
			SMTPHost: viper.GetString("SMTP_HOST"),
			SMTPPort: viper.GetInt("SMTP_PORT"),
			User:     viper.GetString("EMAIL_USER"),
			Password: viper.GetString("EMAIL_PASS"),
			From:     viper.GetString("EMAIL_FROM"),
			To:       splitList(viper.GetString("EMAIL_TO")),
			Timeout:  viper.GetDuration("SMTP_TIMEOUT"),
		},
		Login: LoginConfig{
			Enabled:        viper.GetBool("LOGIN_ENABLED"),
			Username:       viper.GetString("ADMIN_USERNAME"),
			Password:       viper.GetString("ADMIN_PASSWORD"),
			SessionTimeout: viper.GetDuration("SESSION_TIMEOUT"),
			Backend:        strings.ToLower(viper.GetString("SESSION_BACKEND")),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Journal: JournalConfig{
			Enabled: viper.GetBool("JOURNAL_ENABLED"),
		},
		Postgres: PostgresConfig{
			Host:     viper.GetString("POSTGRES_HOST"),
			Port:     viper.GetInt("POSTGRES_PORT"),
			User:     viper.GetString("POSTGRES_USER"),
			Password: viper.GetString("POSTGRES_PASSWORD"),
			DBName:   viper.GetString("POSTGRES_DB"),
			SSLMode:  viper.GetString("POSTGRES_SSLMODE"),
		},
	}
	if AppConfig.Email.From == "" {
		AppConfig.Email.From = AppConfig.Email.User
	}

	// Construct Postgres DSN (used by database/sql)
	AppConfig.Postgres.URL = fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		AppConfig.Postgres.User,
		AppConfig.Postgres.Password,
		AppConfig.Postgres.Host,
		AppConfig.Postgres.Port,
		AppConfig.Postgres.DBName,
		AppConfig.Postgres.SSLMode,
	)

	validateConfig()
}

func setDefaults() {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("COOKIE_SECURE", false)
	viper.SetDefault("INSTRUMENT_NAME", "Coffee Robusta")

	viper.SetDefault("FEED_URL", "ws://localhost:9000/feed")
	viper.SetDefault("FEED_SYMBOLS", strings.Join(DefaultSymbols, ","))
	viper.SetDefault("FEED_RETRY_DELAY", "3s")
	viper.SetDefault("FEED_SWITCH_DELAY", "2s")

	viper.SetDefault("TICK_RETENTION", 5000)

	viper.SetDefault("REPORT_HOUR", 8)
	viper.SetDefault("REPORT_TIMEZONE", "Local")

	viper.SetDefault("ALERTS_ENABLED", true)
	viper.SetDefault("ALERT_HIGH", 6000)
	viper.SetDefault("ALERT_LOW", 4000)

	viper.SetDefault("EMAIL_ENABLED", false)
	viper.SetDefault("SMTP_HOST", "smtp.gmail.com")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SMTP_TIMEOUT", "30s")

	viper.SetDefault("LOGIN_ENABLED", false)
	viper.SetDefault("ADMIN_USERNAME", "admin")
	viper.SetDefault("SESSION_TIMEOUT", "24h")
	viper.SetDefault("SESSION_BACKEND", "memory")

	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)

	viper.SetDefault("JOURNAL_ENABLED", false)
	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", 5432)
	viper.SetDefault("POSTGRES_USER", "postgres")
	viper.SetDefault("POSTGRES_PASSWORD", "postgres")
	viper.SetDefault("POSTGRES_DB", "coffeepulse")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")
}

// validateConfig resolves derived values and terminates the application if
// any variable is missing or invalid.
func validateConfig() {
	if problems := check(&AppConfig); len(problems) > 0 {
		log.Fatalf("invalid configuration: %s", strings.Join(problems, "; "))
	}
}

// check validates cfg, resolves the report location, and returns one entry per problem.
func check(cfg *Config) []string {
	var problems []string
	missing := func(key string) { problems = append(problems, key+" is required") }

	if cfg.Server.Port == "" {
		missing("SERVER_PORT")
	}
	if cfg.Feed.URL == "" {
		missing("FEED_URL")
	}
	if len(cfg.Feed.Symbols) == 0 {
		missing("FEED_SYMBOLS")
	}
	if cfg.Market.TickRetention < 1 {
		problems = append(problems, "TICK_RETENTION must be positive")
	}

	if cfg.Report.Hour < 0 || cfg.Report.Hour > 23 {
		problems = append(problems, fmt.Sprintf("REPORT_HOUR must be within 0..23, got %d", cfg.Report.Hour))
	}
	loc, err := time.LoadLocation(cfg.Report.Timezone)
	if err != nil {
		problems = append(problems, fmt.Sprintf("REPORT_TIMEZONE %q: %v", cfg.Report.Timezone, err))
	} else {
		cfg.Report.Location = loc
	}

	if !validPrice(cfg.Alerts.High) {
		problems = append(problems, "ALERT_HIGH must be a finite, non-negative price")
	}
	if !validPrice(cfg.Alerts.Low) {
		problems = append(problems, "ALERT_LOW must be a finite, non-negative price")
	}

	if cfg.Email.Enabled {
		if cfg.Email.SMTPHost == "" {
			missing("SMTP_HOST")
		}
		if cfg.Email.SMTPPort <= 0 {
			missing("SMTP_PORT")
		}
		if cfg.Email.From == "" {
			missing("EMAIL_FROM")
		}
		if len(cfg.Email.To) == 0 {
			missing("EMAIL_TO")
		}
	}

	if cfg.Login.Enabled {
		if cfg.Login.Username == "" {
			missing("ADMIN_USERNAME")
		}
		if cfg.Login.Password == "" {
			missing("ADMIN_PASSWORD")
		}
		if cfg.Login.SessionTimeout <= 0 {
			problems = append(problems, "SESSION_TIMEOUT must be positive")
		}
		switch cfg.Login.Backend {
		case "memory":
		case "redis":
			if cfg.Redis.Addr == "" {
				missing("REDIS_ADDR")
			}
		default:
			problems = append(problems, fmt.Sprintf("SESSION_BACKEND must be memory or redis, got %q", cfg.Login.Backend))
		}
	}

	if cfg.Journal.Enabled {
		if cfg.Postgres.Host == "" {
			missing("POSTGRES_HOST")
		}
		if cfg.Postgres.Port == 0 {
			missing("POSTGRES_PORT")
		}
		if cfg.Postgres.User == "" {
			missing("POSTGRES_USER")
		}
		if cfg.Postgres.DBName == "" {
			missing("POSTGRES_DB")
		}
	}

	return problems
}

func validPrice(v float64) bool {
	return v >= 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}

// splitList parses a comma separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
