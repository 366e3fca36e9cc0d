package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xiomaraocampoh/prubaserviconli/internal/config"
	"github.com/xiomaraocampoh/prubaserviconli/internal/database"
	httpapi "github.com/xiomaraocampoh/prubaserviconli/internal/http"
	"github.com/xiomaraocampoh/prubaserviconli/internal/ledger"
	"github.com/xiomaraocampoh/prubaserviconli/internal/logger"
	"github.com/xiomaraocampoh/prubaserviconli/internal/repository"
	"github.com/xiomaraocampoh/prubaserviconli/internal/service"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, "serviconli-tasks")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// Postgres is the source of truth. Fall back to the in-memory repo
	// for local runs without a database; nothing survives a restart there.
	var db *sql.DB
	var tasksRepo repository.TasksRepository
	if d, err := database.NewPostgresDB(&cfg.Database); err == nil {
		db = d
		tasksRepo = repository.NewPostgresTasksRepository(db)
		log.Info("Postgres connected", zap.String("database", cfg.Database.Database))
	} else {
		tasksRepo = repository.NewMemoryTasksRepository()
		log.Warn("Postgres unavailable, using in-memory task store", zap.Error(err))
	}

	directory := service.NewPatientDirectoryClient(
		cfg.Patient.BaseURL,
		time.Duration(cfg.Patient.TimeoutSeconds)*time.Second,
		log,
	)
	mirror := ledger.NewExcelLedger(cfg.Ledger.Path, cfg.Ledger.Sheet, log)

	tasks := service.NewTaskService(tasksRepo, directory, mirror, log)

	router := httpapi.NewRouter(log)
	router.RegisterTaskRoutes(httpapi.NewTasksHandler(tasks, log))
	router.RegisterHealthRoutes()

	srv := service.NewServer(cfg.HTTP.Addr, router, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
	case err := <-errCh:
		log.Error("HTTP server stopped", zap.Error(err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
	_ = database.Close(db)
}
