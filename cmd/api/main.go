// @title           Hybrid RAG API
// @version         1.0
// @description     Voice and text chat over hybrid vector and knowledge graph retrieval, plus document ingestion.
// @termsOfService  http://swagger.io/terms/

// @contact.name    API Support
// @contact.url
// @contact.email   ank.github@gmail.com

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
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
	"github.com/akolanti/HybridRAG/internal/handlers"
	"github.com/akolanti/HybridRAG/internal/middleware"
	"github.com/akolanti/HybridRAG/internal/server"
	"github.com/akolanti/HybridRAG/internal/worker"
	"github.com/akolanti/HybridRAG/pkg/logger_i"
)

var (
	configPath string
	listenAddr string
	withWorker bool
)

func main() {
	flag.StringVar(&configPath, "config", "", "optional yaml settings file")
	flag.StringVar(&listenAddr, "listen-addr", "", "server listen address (overrides settings)")
	flag.BoolVar(&withWorker, "with-worker", false, "also run the ingestion worker pool in this process")
	flag.Parse()

	settings, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	if listenAddr != "" {
		settings.ListenAddr = listenAddr
	}

	logger_i.Init(settings.LogFile)
	logger := logger_i.NewLogger("main")

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	container, err := app.Build(serviceContext, settings)
	if err != nil {
		logger.Error("External services failed to initialize. Shutting down.", "error", err)
		return
	}

	//an in-memory queue is only visible to this process, so the workers have to live here too
	var pool *worker.Pool
	if withWorker || container.InMemoryQueue {
		pool = worker.NewPool(container.Queue, container.Ingest)
		pool.Start(serviceContext)
	}

	h := handlers.NewHandler(container.Chat, container.Jobs, container.Notifier, settings.UploadDir)
	chain := middleware.NewChain(config.RATE_LIMIT_PER_SECOND, config.BURST_RATE_LIMIT_PER_SECOND)
	srv := server.NewServer(settings.ListenAddr, server.Routes(h, chain))

	gracefulShutdown, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil {
			stop()
		}
	}()

	<-gracefulShutdown.Done()
	logger.Info("Server is shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownContextTimeout)
	defer cancel()

	done := make(chan struct{})
	go func() {
		_ = srv.Shutdown(ctx)
		if pool != nil {
			pool.Stop()
		}
		container.Close()
		closeExternalServices()
		close(done)
	}()

	select {
	case <-done:
		logger.Info("Gracefully shut down")
	case <-ctx.Done():
		logger.Info("Force Shut down")
		os.Exit(1)
	}
}
