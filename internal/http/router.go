package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/librarian/internal/database"
	"github.com/mrlokans/librarian/internal/tasks"
)

// RouterConfig holds the dependencies of every controller.
type RouterConfig struct {
	Catalog     CatalogService
	Membership  MembershipService
	Engine      LoanEngine
	Tasks       tasks.Enqueuer    // nil runs the reconciliation sweep inline
	Maintenance MaintenanceStatus // nil when the maintenance scheduler is disabled
	Database    *database.Database
	Version     string
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())

	health := NewHealthController(cfg.Database, cfg.Maintenance, cfg.Version)
	books := NewBooksController(cfg.Catalog)
	members := NewMembersController(cfg.Membership, cfg.Engine)
	loans := NewLoansController(cfg.Engine, cfg.Tasks)
	stats := NewStatsController(cfg.Catalog, cfg.Membership, cfg.Engine)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", health.Ping)

	api := router.Group("/api")
	api.GET("/stats", stats.Get)

	// Catalog
	api.GET("/books", books.List)
	api.POST("/books", books.Create)
	api.GET("/books/:isbn", books.Get)
	api.PUT("/books/:isbn", books.Update)
	api.DELETE("/books/:isbn", books.Delete)

	// Membership
	api.GET("/members", members.List)
	api.POST("/members", members.Register)
	api.GET("/members/:id", members.Get)
	api.PUT("/members/:id", members.Update)
	api.POST("/members/:id/activate", members.Activate)
	api.POST("/members/:id/deactivate", members.Deactivate)
	api.GET("/members/:id/loans", members.Loans)
	api.GET("/members/:id/loans/count", members.OutstandingCount)

	// Loans
	api.GET("/loans", loans.List)
	api.POST("/loans", loans.Borrow)
	api.GET("/loans/:id", loans.Get)
	api.POST("/loans/:id/return", loans.Return)
	api.POST("/loans/:id/reconcile", loans.Reconcile)

	api.POST("/admin/reconcile", loans.ReconcileAll)

	return router
}
