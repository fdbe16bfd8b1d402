package config

import (
	"time"

	"github.com/spf13/viper"
)

type PasswordScheme string

const (
	// PasswordSchemeLegacy is the deterministic salted-MD5 digest the existing
	// user table was built with. Kept as the default so existing accounts
	// keep working; new installs should prefer bcrypt.
	PasswordSchemeLegacy PasswordScheme = "legacy-md5"
	// PasswordSchemeBcrypt uses per-user salted bcrypt digests.
	PasswordSchemeBcrypt PasswordScheme = "bcrypt"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Auth
		Douban
		Tasks
		Backfill
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	Auth struct {
		PasswordScheme  PasswordScheme
		SessionLifetime time.Duration
		SecureCookies   bool // set to false for local dev without HTTPS
		BcryptCost      int
		CSRFEnabled     bool
		CSRFSecret      string
	}
	Douban struct {
		BaseURL string
		Timeout time.Duration
	}
	Tasks struct {
		Enabled           bool
		Workers           int
		ReleaseAfter      time.Duration
		CleanupInterval   time.Duration
		RetentionDuration time.Duration
	}
	Backfill struct {
		Enabled  bool
		Schedule string // cron format: "0 4 * * *" = daily at 04:00
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 3000)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)

	// Auth defaults
	v.SetDefault("auth_password_scheme", string(PasswordSchemeLegacy))
	v.SetDefault("auth_session_lifetime", "168h") // one week, like the old cookie
	v.SetDefault("auth_secure_cookies", true)
	v.SetDefault("auth_bcrypt_cost", 12)
	v.SetDefault("auth_csrf_enabled", false)
	v.SetDefault("auth_csrf_secret", "")

	// Douban fetch defaults
	v.SetDefault("douban_base_url", "https://book.douban.com")
	v.SetDefault("douban_timeout", "10s")

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("task_retention_duration", "24h")

	// Metadata backfill scheduler defaults
	v.SetDefault("backfill_enabled", false)
	v.SetDefault("backfill_schedule", "0 4 * * *")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Auth: Auth{
			PasswordScheme:  PasswordScheme(v.GetString("AUTH_PASSWORD_SCHEME")),
			SessionLifetime: v.GetDuration("AUTH_SESSION_LIFETIME"),
			SecureCookies:   v.GetBool("AUTH_SECURE_COOKIES"),
			BcryptCost:      v.GetInt("AUTH_BCRYPT_COST"),
			CSRFEnabled:     v.GetBool("AUTH_CSRF_ENABLED"),
			CSRFSecret:      v.GetString("AUTH_CSRF_SECRET"),
		},
		Douban: Douban{
			BaseURL: v.GetString("DOUBAN_BASE_URL"),
			Timeout: v.GetDuration("DOUBAN_TIMEOUT"),
		},
		Tasks: Tasks{
			Enabled:           v.GetBool("TASKS_ENABLED"),
			Workers:           v.GetInt("TASK_WORKERS"),
			ReleaseAfter:      v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval:   v.GetDuration("TASK_CLEANUP_INTERVAL"),
			RetentionDuration: v.GetDuration("TASK_RETENTION_DURATION"),
		},
		Backfill: Backfill{
			Enabled:  v.GetBool("BACKFILL_ENABLED"),
			Schedule: v.GetString("BACKFILL_SCHEDULE"),
		},
	}
}
