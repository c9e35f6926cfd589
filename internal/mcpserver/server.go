package mcpserver

import (
	"context"
	"errors"
	"time"

	"github.com/akolanti/HybridRAG/internal/domain/jobModel"
	"github.com/akolanti/HybridRAG/internal/rag/pipeline"
	"github.com/akolanti/HybridRAG/pkg/logger_i"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	serverName    = "hybridrag"
	serverVersion = "v1.0.0"
)

type Asker interface {
	Ask(ctx context.Context, text string) pipeline.Result
}

type DocumentLister interface {
	ListDocuments(ctx context.Context) ([]jobModel.DocumentStatus, error)
}

type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the indexed documents"`
}

type Source struct {
	DocId string  `json:"doc_id"`
	Score float32 `json:"score"`
	Text  string  `json:"text"`
}

type AskOutput struct {
	Answer  string   `json:"answer"`
	Sources []Source `json:"sources"`
}

type ListDocumentsInput struct{}

type DocumentInfo struct {
	DocId     string `json:"doc_id"`
	Filename  string `json:"filename"`
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

type ListDocumentsOutput struct {
	Documents []DocumentInfo `json:"documents"`
}

type tools struct {
	chat      Asker
	documents DocumentLister
	logger    *logger_i.Logger
}

// NewServer exposes the knowledge base as MCP tools.
func NewServer(chat Asker, documents DocumentLister) *mcp.Server {
	t := &tools{chat: chat, documents: documents, logger: logger_i.NewLogger("MCP")}

	server := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "ask_knowledge_base",
		Description: "Answer a question using hybrid vector and knowledge graph retrieval over the ingested documents. Returns the answer and the context it was grounded on.",
	}, t.ask)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List ingested documents with their sync status.",
	}, t.listDocuments)
	return server
}

// ServeStdio blocks until the client disconnects or ctx is done.
func ServeStdio(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}

func (t *tools) ask(ctx context.Context, req *mcp.CallToolRequest, in AskInput) (*mcp.CallToolResult, AskOutput, error) {
	if in.Question == "" {
		return nil, AskOutput{}, errors.New("question is required")
	}
	result := t.chat.Ask(ctx, in.Question)
	if result.ErrorMessage != "" {
		return nil, AskOutput{}, errors.New(result.ErrorMessage)
	}

	out := AskOutput{Answer: result.Answer, Sources: make([]Source, 0, len(result.ContextChunks))}
	for _, chunk := range result.ContextChunks {
		out.Sources = append(out.Sources, Source{DocId: chunk.SourceId, Score: chunk.Score, Text: chunk.Text})
	}
	t.logger.Info("Answered tool call", "sources", len(out.Sources))
	return nil, out, nil
}

func (t *tools) listDocuments(ctx context.Context, req *mcp.CallToolRequest, _ ListDocumentsInput) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	statuses, err := t.documents.ListDocuments(ctx)
	if err != nil {
		t.logger.Error("List documents failed", "error", err)
		return nil, ListDocumentsOutput{}, errors.New("could not list documents")
	}
	out := ListDocumentsOutput{Documents: make([]DocumentInfo, 0, len(statuses))}
	for _, s := range statuses {
		out.Documents = append(out.Documents, DocumentInfo{
			DocId:     s.DocId,
			Filename:  s.Filename,
			Status:    string(s.Status),
			Timestamp: s.Timestamp.Format(time.RFC3339),
		})
	}
	return nil, out, nil
}
