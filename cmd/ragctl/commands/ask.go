package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/akolanti/HybridRAG/internal/domain/streamModel"
	"github.com/akolanti/HybridRAG/internal/rag"
	"github.com/spf13/cobra"
)

func NewAskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask the knowledge base a question",
		Long: `Ask the knowledge base a question and stream the answer.

With --format json the full answer and its sources are printed once done.`,
		Example: `  ragctl ask "who approves travel expenses?"
  ragctl ask --format json "what is the refund policy?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := buildContainer(cmd.Context())
			if err != nil {
				return err
			}
			defer container.Close()
			return runAsk(cmd, container.Chat, strings.Join(args, " "))
		},
	}
}

func runAsk(cmd *cobra.Command, chat rag.Service, question string) error {
	out := cmd.OutOrStdout()
	if outputFormat == "json" {
		result := chat.Ask(cmd.Context(), question)
		if result.ErrorMessage != "" {
			return fmt.Errorf("%s", result.ErrorMessage)
		}
		return writeJSON(out, result)
	}

	for event := range chat.HandleTextTurn(cmd.Context(), question) {
		switch event.EventType {
		case streamModel.Context:
			fmt.Fprintf(out, "[%d sources]\n", len(event.ContextChunks))
		case streamModel.Answer:
			fmt.Fprint(out, event.TextChunk)
		case streamModel.Error:
			return fmt.Errorf("%s", event.ErrorMessage)
		case streamModel.Done:
			fmt.Fprintln(out)
		}
	}
	return nil
}

func writeJSON(out io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = fmt.Fprintf(out, "%s\n", data)
	return err
}
