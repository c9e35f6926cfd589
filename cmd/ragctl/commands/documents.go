package commands

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/akolanti/HybridRAG/internal/domain/jobModel"
	"github.com/spf13/cobra"
)

// documentAdmin is the part of job.Service these commands use.
type documentAdmin interface {
	SubmitSync(ctx context.Context, docId string, filename string) (jobModel.SyncReceipt, error)
	ListDocuments(ctx context.Context) ([]jobModel.DocumentStatus, error)
	DeleteDocument(ctx context.Context, docId string) bool
}

func NewSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "sync <doc-id> <filename>",
		Short:   "Queue ingestion of a file already in the upload directory",
		Example: `  ragctl sync handbook handbook.pdf`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := buildContainer(cmd.Context())
			if err != nil {
				return err
			}
			defer container.Close()
			return runSync(cmd, container.Jobs, args[0], args[1])
		},
	}
}

func runSync(cmd *cobra.Command, docs documentAdmin, docId string, filename string) error {
	receipt, err := docs.SubmitSync(cmd.Context(), docId, filename)
	if err != nil {
		return err
	}
	if outputFormat == "json" {
		return writeJSON(cmd.OutOrStdout(), receipt)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", receipt.JobId, receipt.Status)
	return nil
}

func NewDocumentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "documents",
		Short: "List ingested documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := buildContainer(cmd.Context())
			if err != nil {
				return err
			}
			defer container.Close()
			return runDocuments(cmd, container.Jobs)
		},
	}
}

func runDocuments(cmd *cobra.Command, docs documentAdmin) error {
	statuses, err := docs.ListDocuments(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing documents: %w", err)
	}
	if outputFormat == "json" {
		if statuses == nil {
			statuses = []jobModel.DocumentStatus{}
		}
		return writeJSON(cmd.OutOrStdout(), statuses)
	}
	if len(statuses) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No documents found")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "DOC ID\tFILENAME\tSTATUS\tUPDATED\n")
	for _, s := range statuses {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.DocId, s.Filename, s.Status, s.Timestamp.Format(time.DateTime))
	}
	return w.Flush()
}

func NewDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <doc-id>",
		Short: "Delete a document's vectors and status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := buildContainer(cmd.Context())
			if err != nil {
				return err
			}
			defer container.Close()
			return runDelete(cmd, container.Jobs, args[0])
		},
	}
}

func runDelete(cmd *cobra.Command, docs documentAdmin, docId string) error {
	if !docs.DeleteDocument(cmd.Context(), docId) {
		return fmt.Errorf("could not delete vectors for %s", docId)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", docId)
	return nil
}
