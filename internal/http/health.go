package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/librarian/internal/database"
)

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

// MaintenanceStatus is the part of the loan maintenance scheduler the health
// check reports on.
type MaintenanceStatus interface {
	IsRunning() bool
	GetNextRunTime() *time.Time
}

type HealthController struct {
	db          *database.Database
	maintenance MaintenanceStatus
	version     string
}

func NewHealthController(db *database.Database, maintenance MaintenanceStatus, version string) *HealthController {
	return &HealthController{
		db:          db,
		maintenance: maintenance,
		version:     version,
	}
}

func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	if h.db != nil {
		sqlDB, err := h.db.DB.DB()
		if err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else if err := sqlDB.PingContext(c.Request.Context()); err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else {
			checks["database"] = "ok"
		}
	} else {
		checks["database"] = "not configured"
	}

	// Maintenance state is informational and never marks the service unhealthy.
	switch {
	case h.maintenance == nil:
		checks["maintenance"] = "disabled"
	case !h.maintenance.IsRunning():
		checks["maintenance"] = "stopped"
	default:
		checks["maintenance"] = "running"
		if next := h.maintenance.GetNextRunTime(); next != nil {
			checks["maintenance_next_run"] = next.Format(time.RFC3339)
		}
	}

	health := HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}

func (h *HealthController) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}
