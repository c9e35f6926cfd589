package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/akolanti/HybridRAG/internal/app"
	"github.com/akolanti/HybridRAG/internal/config"
	"github.com/akolanti/HybridRAG/pkg/logger_i"
	"github.com/spf13/cobra"
)

var (
	configPath   string
	outputFormat string
)

// NewRootCmd builds the ragctl command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ragctl",
		Short:         "Operate the hybrid RAG knowledge base from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "optional yaml settings file")
	root.PersistentFlags().StringVar(&outputFormat, "format", "text", "output format: text or json")

	root.AddCommand(NewAskCmd(), NewSyncCmd(), NewDocumentsCmd(), NewDeleteCmd(), NewMCPCmd())
	return root
}

// Execute runs the command tree; SIGINT and SIGTERM cancel the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}

// buildContainer loads settings and wires the container. Logs go to stderr so stdout only carries results.
func buildContainer(ctx context.Context) (*app.Container, error) {
	settings, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	logger_i.InitTo(os.Stderr, settings.LogFile)

	container, err := app.Build(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("initializing services: %w", err)
	}
	return container, nil
}
