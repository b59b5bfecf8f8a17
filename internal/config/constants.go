package config

const (
	// DefaultDatabasePath is the default path for the SQLite library database.
	DefaultDatabasePath = "./library.db"

	// DefaultMaintenanceSchedule runs loan maintenance every 30 minutes.
	DefaultMaintenanceSchedule = "*/30 * * * *"
)
