package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bryanwahyu/medagent-core/internal/application"
	appanalysis "github.com/bryanwahyu/medagent-core/internal/application/analysis"
	appreports "github.com/bryanwahyu/medagent-core/internal/application/reports"
	"github.com/bryanwahyu/medagent-core/internal/config"
	"github.com/bryanwahyu/medagent-core/internal/domain/agents"
	domain "github.com/bryanwahyu/medagent-core/internal/domain/reports"
	"github.com/bryanwahyu/medagent-core/internal/infra/analyzer"
	"github.com/bryanwahyu/medagent-core/internal/infra/analyzer/remote"
	aiopenai "github.com/bryanwahyu/medagent-core/internal/infra/ai/openai"
	memorydb "github.com/bryanwahyu/medagent-core/internal/infra/db/memory"
	mysqlp "github.com/bryanwahyu/medagent-core/internal/infra/db/mysql"
	postgresp "github.com/bryanwahyu/medagent-core/internal/infra/db/postgres"
	"github.com/bryanwahyu/medagent-core/internal/infra/httpserver"
	minioStore "github.com/bryanwahyu/medagent-core/internal/infra/storage"
	"github.com/bryanwahyu/medagent-core/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx := context.Background()

	// storage driver
	var repo domain.Repository
	checkers := map[string]middleware.HealthChecker{}
	switch cfg.Storage.Driver {
	case "mysql":
		db, err := mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			log.Fatalf("mysql connect error: %v", err)
		}
		defer db.Close()
		repo = mysqlp.NewReportRepository(db)
		checkers["database"] = &middleware.DatabaseHealthChecker{DB: db}
	case "postgres":
		db, err := postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			log.Fatalf("postgres connect error: %v", err)
		}
		defer db.Close()
		repo = postgresp.NewReportRepository(db)
		checkers["database"] = &middleware.DatabaseHealthChecker{DB: db}
	default:
		repo = memorydb.NewReportRepository()
	}

	// optional archive store
	var archive domain.ArtifactStore
	if cfg.Minio.ArchiveEnabled && cfg.Minio.Endpoint != "" {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			log.Fatalf("minio init error: %v", err)
		}
		archive = store
	}

	// analyzer engine
	var unit agents.Analyzer
	if cfg.Analysis.Engine == "openai" {
		unit = aiopenai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	} else {
		unit = analyzer.NewSimulated()
	}

	reportsSvc := &appreports.Service{
		Repo:    repo,
		Archive: archive,
		Clock:   application.SystemClock{},
	}
	analysisSvc := &appanalysis.Service{
		Analyzer: unit,
		Profiles: cfg.Analysis.Agents,
		Timeout:  time.Duration(cfg.Analysis.AgentTimeoutSeconds) * time.Second,
	}

	var remoteClient *remote.Client
	if cfg.Remote.BaseURL != "" {
		remoteClient = remote.New(cfg.Remote.BaseURL)
	}

	mux := chi.NewRouter()
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	if cfg.RateLimit.Capacity > 0 {
		mux.Use(middleware.RateLimitMiddleware(cfg.RateLimit.Capacity, cfg.RateLimit.RefillRate))
	}
	mux.Use(middleware.BearerPassthrough)

	mux.Get("/health", middleware.HealthHandler(checkers))
	mux.Get("/metrics", middleware.MetricsHandler)
	mux.Mount("/", httpserver.NewRouter(reportsSvc, analysisSvc, remoteClient))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
