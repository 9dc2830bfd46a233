package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Lugier/M-A-CRM-sub001/internal/config"
	"github.com/Lugier/M-A-CRM-sub001/internal/scheduler"
	"github.com/Lugier/M-A-CRM-sub001/platform/db"
	"github.com/Lugier/M-A-CRM-sub001/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting worker", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	worker, err := scheduler.NewWorker(cfg, pool, log)
	if err != nil {
		log.Error("failed to initialize worker", "error", err)
		panic("failed to initialize worker: " + err.Error())
	}

	worker.Run(ctx)
	log.Info("worker stopped")
}
