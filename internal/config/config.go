package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Loans
		Tasks
		Maintenance
		Seed
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Driver   string // sqlite or mysql
		Path     string // SQLite file, also used to place the tasks database
		DSN      string // MySQL data source name
		LogLevel string // silent, error, warn, info
	}
	Loans struct {
		MaxOutstanding     int
		PeriodDays         int
		RejectRepeatReturn bool
		BookWriteAttempts  int
		BookWriteBackoff   time.Duration
	}
	Tasks struct {
		Enabled         bool
		DatabasePath    string // defaults to <DATABASE_PATH>-tasks
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	Maintenance struct {
		Enabled  bool
		Schedule string // Cron format: "*/30 * * * *" = every 30 minutes
	}
	Seed struct {
		SampleData bool
	}
)

func NewConfig() *Config {
	return newConfig(viper.New())
}

func newConfig(v *viper.Viper) *Config {
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)

	v.SetDefault("database_driver", "sqlite")
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("database_dsn", "")
	v.SetDefault("database_log_level", "warn")

	// Lending policy defaults
	v.SetDefault("loan_max_outstanding", 3)
	v.SetDefault("loan_period_days", 14)
	v.SetDefault("loan_reject_repeat_return", false)
	v.SetDefault("loan_book_write_attempts", 3)
	v.SetDefault("loan_book_write_backoff", "50ms")

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("tasks_database_path", "")
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	v.SetDefault("maintenance_enabled", true)
	v.SetDefault("maintenance_schedule", DefaultMaintenanceSchedule)

	v.SetDefault("seed_sample_data", false)

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Driver:   v.GetString("DATABASE_DRIVER"),
			Path:     v.GetString("DATABASE_PATH"),
			DSN:      v.GetString("DATABASE_DSN"),
			LogLevel: v.GetString("DATABASE_LOG_LEVEL"),
		},
		Loans: Loans{
			MaxOutstanding:     v.GetInt("LOAN_MAX_OUTSTANDING"),
			PeriodDays:         v.GetInt("LOAN_PERIOD_DAYS"),
			RejectRepeatReturn: v.GetBool("LOAN_REJECT_REPEAT_RETURN"),
			BookWriteAttempts:  v.GetInt("LOAN_BOOK_WRITE_ATTEMPTS"),
			BookWriteBackoff:   v.GetDuration("LOAN_BOOK_WRITE_BACKOFF"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			DatabasePath:    v.GetString("TASKS_DATABASE_PATH"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		Maintenance: Maintenance{
			Enabled:  v.GetBool("MAINTENANCE_ENABLED"),
			Schedule: v.GetString("MAINTENANCE_SCHEDULE"),
		},
		Seed: Seed{
			SampleData: v.GetBool("SEED_SAMPLE_DATA"),
		},
	}
}
