package commands

import (
	"github.com/akolanti/HybridRAG/internal/mcpserver"
	"github.com/spf13/cobra"
)

func NewMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the knowledge base as MCP tools over stdio",
		Long: `Runs an MCP (Model Context Protocol) server on stdin/stdout with the
tools ask_knowledge_base and list_documents.`,
		Example: `  # claude_desktop_config.json
  # {"mcpServers": {"hybridrag": {"command": "ragctl", "args": ["mcp"]}}}`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := buildContainer(cmd.Context())
			if err != nil {
				return err
			}
			defer container.Close()
			return mcpserver.ServeStdio(cmd.Context(), mcpserver.NewServer(container.Chat, container.Jobs))
		},
	}
}
