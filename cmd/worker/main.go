package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/akolanti/HybridRAG/internal/app"
	"github.com/akolanti/HybridRAG/internal/config"
	"github.com/akolanti/HybridRAG/internal/worker"
	"github.com/akolanti/HybridRAG/pkg/logger_i"
)

func main() {
	configPath := flag.String("config", "", "optional yaml settings file")
	flag.Parse()

	settings, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger_i.Init(settings.LogFile)
	logger := logger_i.NewLogger("worker main")

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	container, err := app.Build(serviceContext, settings)
	if err != nil {
		logger.Error("External services failed to initialize. Shutting down.", "error", err)
		return
	}
	defer container.Close()
	if container.InMemoryQueue {
		logger.Warn("Redis is offline, this worker will only see jobs queued by itself")
	}

	pool := worker.NewPool(container.Queue, container.Ingest)
	pool.Start(serviceContext)

	gracefulShutdown, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-gracefulShutdown.Done()

	logger.Info("Worker is shutting down")
	pool.Stop()
}
