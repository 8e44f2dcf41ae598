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

	"github.com/mrlokans/novelist/internal/bookstore"
	"github.com/mrlokans/novelist/internal/config"
	"github.com/mrlokans/novelist/internal/currentbook"
	"github.com/mrlokans/novelist/internal/database"
	"github.com/mrlokans/novelist/internal/database/books"
	"github.com/mrlokans/novelist/internal/database/chapters"
	"github.com/mrlokans/novelist/internal/database/characters"
	"github.com/mrlokans/novelist/internal/database/locations"
	"github.com/mrlokans/novelist/internal/database/plotevents"
	"github.com/mrlokans/novelist/internal/exporters"
	http_controllers "github.com/mrlokans/novelist/internal/http"
	"github.com/mrlokans/novelist/internal/scheduler"
	"github.com/mrlokans/novelist/internal/tasks"
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

	// Graceful shutdown on SIGINT/SIGTERM. SIGKILL cannot be caught.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop task queue)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Novelist v%s", version)

	if err := os.MkdirAll(cfg.Export.Dir, 0o755); err != nil {
		log.Fatalf("Failed to create export directory %s: %v", cfg.Export.Dir, err)
	}

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	bookRepo := books.NewRepository(db.DB)
	characterRepo := characters.NewRepository(db.DB)
	locationRepo := locations.NewRepository(db.DB)
	plotEventRepo := plotevents.NewRepository(db.DB)
	chapterRepo := chapters.NewRepository(db.DB)

	shelf := bookstore.New(bookRepo)
	openBook := currentbook.New(currentbook.Repositories{
		Books:      bookRepo,
		Characters: characterRepo,
		Locations:  locationRepo,
		PlotEvents: plotEventRepo,
		Chapters:   chapterRepo,
	})

	exporter := exporters.NewManuscriptExporter(cfg.Export.Dir)
	exportSources := tasks.ExportSources{
		Books:      bookRepo,
		Characters: characterRepo,
		Locations:  locationRepo,
		PlotEvents: plotEventRepo,
		Chapters:   chapterRepo,
	}

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		}

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(
			tasks.NewExportBookQueue(exportSources, exporter),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	}

	// Initialize the scheduled export sync if enabled
	var exportScheduler *scheduler.ExportScheduler
	if cfg.ExportSync.Enabled {
		exportScheduler = scheduler.NewExportScheduler(exportSources, exporter, cfg.ExportSync.Schedule)
		if err := exportScheduler.Start(context.Background()); err != nil {
			log.Fatalf("Failed to start export scheduler: %v", err)
		}
	}

	routerCfg := http_controllers.RouterConfig{
		Database:    db,
		Books:       shelf,
		CurrentBook: openBook,
		TaskClient:  taskClient,
		Version:     version,
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		if exportScheduler != nil {
			exportScheduler.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}
