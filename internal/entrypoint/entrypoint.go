package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/librarian/internal/config"
	http_controllers "github.com/mrlokans/librarian/internal/http"
	"github.com/mrlokans/librarian/internal/loans"
	"github.com/mrlokans/librarian/internal/scheduler"
	"github.com/mrlokans/librarian/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// kill (no param) sends SIGTERM, kill -2 is SIGINT; SIGKILL cannot be caught.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (stops the scheduler and task queue)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Librarian v%s", version)

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var engineOpts []loans.Option
	if cfg.Tasks.Enabled {
		var err error
		taskClient, err = tasks.NewClient(TaskConfig(cfg))
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()
		engineOpts = append(engineOpts, loans.WithReconciler(tasks.NewReconciliationScheduler(taskClient)))
	} else {
		log.Printf("Task queue disabled: failed book writes are only repaired by maintenance runs")
	}

	lib, err := OpenLibrary(cfg, engineOpts...)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer func() {
		if err := lib.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	if cfg.Seed.SampleData {
		count, err := lib.DB.SeedSampleBooks()
		if err != nil {
			log.Printf("WARNING: Failed to seed sample data: %v", err)
		} else {
			log.Printf("Catalog holds %d books", count)
		}
	}

	bgCtx, bgCancel := context.WithCancel(context.Background())
	defer bgCancel()

	var queue tasks.Enqueuer
	if taskClient != nil {
		taskClient.Register(
			tasks.NewReconcileLoanQueue(lib.Engine),
			tasks.NewReconcileAllLoansQueue(lib.Engine),
		)
		go taskClient.Start(bgCtx)
		queue = taskClient
	}

	var maintenance *scheduler.LoanMaintenanceScheduler
	if cfg.Maintenance.Enabled {
		maintenance = scheduler.NewLoanMaintenanceScheduler(lib.Engine, cfg.Maintenance.Schedule)
		if err := maintenance.Start(bgCtx); err != nil {
			log.Printf("WARNING: Loan maintenance not started: %v", err)
			maintenance = nil
		}
	}

	routerCfg := http_controllers.RouterConfig{
		Catalog:    lib.Catalog,
		Membership: lib.Membership,
		Engine:     lib.Engine,
		Tasks:      queue,
		Database:   lib.DB,
		Version:    version,
	}
	// A nil *LoanMaintenanceScheduler must not become a non-nil interface.
	if maintenance != nil {
		routerCfg.Maintenance = maintenance
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		if maintenance != nil {
			maintenance.Stop()
		}
		if taskClient != nil {
			taskClient.Stop(ctx)
		}
		bgCancel()
	}

	Serve(router, cfg, onShutdown)
}

// TaskConfig derives the queue settings, placing the queue database next to
// the library database unless a path is configured.
func TaskConfig(cfg *config.Config) tasks.Config {
	taskCfg := tasks.DefaultConfig()
	taskCfg.DatabasePath = cfg.Tasks.DatabasePath
	if taskCfg.DatabasePath == "" {
		path := cfg.Database.Path
		if path == "" {
			path = config.DefaultDatabasePath
		}
		taskCfg.DatabasePath = tasks.DatabasePathFor(path)
	}
	if cfg.Tasks.Workers > 0 {
		taskCfg.Workers = cfg.Tasks.Workers
	}
	if cfg.Tasks.ReleaseAfter > 0 {
		taskCfg.ReleaseAfter = cfg.Tasks.ReleaseAfter
	}
	if cfg.Tasks.CleanupInterval > 0 {
		taskCfg.CleanupInterval = cfg.Tasks.CleanupInterval
	}
	return taskCfg
}
