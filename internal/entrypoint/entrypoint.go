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

	"github.com/rkarimov/baytalhikma/internal/backup"
	"github.com/rkarimov/baytalhikma/internal/config"
	"github.com/rkarimov/baytalhikma/internal/database"
	"github.com/rkarimov/baytalhikma/internal/database/books"
	http_controllers "github.com/rkarimov/baytalhikma/internal/http"
	"github.com/rkarimov/baytalhikma/internal/library"
	"github.com/rkarimov/baytalhikma/internal/tasks"
	"github.com/rkarimov/baytalhikma/internal/web"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT/SIGTERM, then shuts it down
// within the configured timeout.
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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop collaborators (task queue, backup schedule) before the server
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

// Run wires the application together and serves it.
func Run(cfg *config.Config, version string) {
	log.Printf("Starting Bayt al-Hikma v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	repo := books.NewRepository(db.DB)
	catalog := library.NewService(repo, cfg.Cache.TTL)

	sqlDB, err := db.SQLDB()
	if err != nil {
		log.Fatalf("Failed to access SQL connection: %v", err)
	}
	sessions, err := web.NewSessionManager(sqlDB, cfg.Session)
	if err != nil {
		log.Fatalf("Failed to initialize session manager: %v", err)
	}

	csrfSecret := []byte(cfg.CSRF.Secret)
	if len(csrfSecret) == 0 {
		csrfSecret = web.NewCSRFSecret()
		log.Printf("CSRF_SECRET not set; generated a per-process secret")
	}

	// Background task queue for bulk imports
	var taskClient *tasks.Client
	taskCtx, cancelTasks := context.WithCancel(context.Background())
	defer cancelTasks()
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		})
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		taskClient.Register(tasks.NewImportBooksQueue(catalog))
		go taskClient.Start(taskCtx)
	} else {
		log.Printf("Task queue disabled; CSV import endpoint will return 503")
	}

	// Optional scheduled database backups
	var backupScheduler *backup.Scheduler
	if cfg.Backup.Enabled {
		backupScheduler = backup.NewScheduler(backup.Options{
			DatabasePath: cfg.Database.Path,
			Dir:          cfg.Backup.Dir,
			Schedule:     cfg.Backup.Schedule,
			Keep:         cfg.Backup.Keep,
		})
		if err := backupScheduler.Start(); err != nil {
			log.Fatalf("Failed to start backup scheduler: %v", err)
		}
	}

	routerCfg := http_controllers.RouterConfig{
		Database:      db,
		Catalog:       catalog,
		Sessions:      sessions,
		CSRFSecret:    csrfSecret,
		SecureCookies: cfg.Session.SecureCookies,
		TemplatesPath: cfg.UI.TemplatesPath,
		StaticPath:    cfg.UI.StaticPath,
		Version:       version,
	}
	if taskClient != nil {
		routerCfg.TaskEnqueuer = taskClient
	}
	router := http_controllers.NewRouter(routerCfg)

	Serve(router, cfg, func(ctx context.Context) {
		if backupScheduler != nil {
			backupScheduler.Stop()
		}
		if taskClient != nil {
			taskClient.Stop(ctx)
			cancelTasks()
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task queue: %v", err)
			}
		}
	})
}
