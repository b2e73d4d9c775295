package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Database
		Cache
		Session
		CSRF
		Backup
		Tasks
		UI
		Global
	}

	HTTP struct {
		Port int32
		Host string
	}
	Database struct {
		Path string
	}
	Cache struct {
		TTL time.Duration // How long a list snapshot may be served before recomputation
	}
	Session struct {
		Lifetime      time.Duration
		SecureCookies bool // Set to false for local dev without HTTPS
	}
	CSRF struct {
		Secret string // 32+ byte secret; auto-generated per process if empty
	}
	Backup struct {
		Enabled  bool
		Schedule string // Cron format: "0 3 * * *" = daily at 03:00
		Dir      string
		Keep     int // Number of backup files to retain
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	UI struct {
		TemplatesPath string
		StaticPath    string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8190)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("cache_ttl", "60s")

	// Session defaults
	v.SetDefault("session_lifetime", "24h")
	v.SetDefault("session_secure_cookies", false)

	// CSRF defaults
	v.SetDefault("csrf_secret", "")

	// Backup defaults
	v.SetDefault("backup_enabled", false)
	v.SetDefault("backup_schedule", "0 3 * * *") // Daily at 03:00
	v.SetDefault("backup_dir", "./backups")
	v.SetDefault("backup_keep", 7)

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 1)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	v.SetDefault("templates_path", "./templates")
	v.SetDefault("static_path", "./static")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Cache: Cache{
			TTL: v.GetDuration("CACHE_TTL"),
		},
		Session: Session{
			Lifetime:      v.GetDuration("SESSION_LIFETIME"),
			SecureCookies: v.GetBool("SESSION_SECURE_COOKIES"),
		},
		CSRF: CSRF{
			Secret: v.GetString("CSRF_SECRET"),
		},
		Backup: Backup{
			Enabled:  v.GetBool("BACKUP_ENABLED"),
			Schedule: v.GetString("BACKUP_SCHEDULE"),
			Dir:      v.GetString("BACKUP_DIR"),
			Keep:     v.GetInt("BACKUP_KEEP"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		UI: UI{
			TemplatesPath: v.GetString("TEMPLATES_PATH"),
			StaticPath:    v.GetString("STATIC_PATH"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
	}
}
