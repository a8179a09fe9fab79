package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mietwerk/mietwerk/internal/infrastructure/scheduler"
	"github.com/mietwerk/mietwerk/internal/interfaces/cli/app"
)

func main() {
	// Parse environment from command line or env variable
	env := "development"
	if len(os.Args) > 1 {
		env = os.Args[1]
	}
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := app.Open(ctx, env)
	if err != nil {
		fmt.Printf("failed to start worker: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	log := a.Log
	log.Infow("starting availability worker", "environment", env)

	manager, err := scheduler.NewSchedulerManager(log)
	if err != nil {
		log.Errorw("failed to create scheduler", "error", err)
		return
	}

	if err := manager.RegisterReconcileJob(a.Config.Availability.ReconcileCron, a.Synchronizer, a.Config.Availability.ReconcileOnStart); err != nil {
		log.Errorw("failed to register reconcile job", "error", err, "cron", a.Config.Availability.ReconcileCron)
		return
	}

	manager.Start()

	// Setup signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	log.Infow("received signal, shutting down", "signal", sig)

	if err := manager.Stop(); err != nil {
		log.Errorw("scheduler stopped with error", "error", err)
	}
	log.Infow("availability worker stopped")
}
