package mcpserver

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/akolanti/HybridRAG/internal/domain/commonModels"
	"github.com/akolanti/HybridRAG/internal/domain/jobModel"
	"github.com/akolanti/HybridRAG/internal/rag/pipeline"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockAsker struct {
	OnAsk func(text string) pipeline.Result
}

func (m *mockAsker) Ask(ctx context.Context, text string) pipeline.Result {
	return m.OnAsk(text)
}

type mockLister struct {
	statuses []jobModel.DocumentStatus
}

func (m *mockLister) ListDocuments(ctx context.Context) ([]jobModel.DocumentStatus, error) {
	return m.statuses, nil
}

func connect(t *testing.T, server *mcp.Server) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()
	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	ss, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ss.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })
	return cs
}

func decode[T any](t *testing.T, res *mcp.CallToolResult) T {
	t.Helper()
	var out T
	raw, err := json.Marshal(res.StructuredContent)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestAskKnowledgeBase(t *testing.T) {
	asker := &mockAsker{OnAsk: func(text string) pipeline.Result {
		if text == "broken" {
			return pipeline.Result{ErrorMessage: "I encountered an error processing your request."}
		}
		return pipeline.Result{
			Answer:        "Alice manages Bob.",
			ContextChunks: []commonModels.ContextChunk{{Text: "Alice -[MANAGES]-> Bob", SourceId: commonModels.GraphSourceId, Score: 1}},
		}
	}}
	cs := connect(t, NewServer(asker, &mockLister{}))
	ctx := context.Background()

	res, err := cs.CallTool(ctx, &mcp.CallToolParams{Name: "ask_knowledge_base", Arguments: map[string]any{"question": "who manages bob?"}})
	require.NoError(t, err)
	require.False(t, res.IsError)

	out := decode[AskOutput](t, res)
	assert.Equal(t, "Alice manages Bob.", out.Answer)
	require.Len(t, out.Sources, 1)
	assert.Equal(t, commonModels.GraphSourceId, out.Sources[0].DocId)

	res, err = cs.CallTool(ctx, &mcp.CallToolParams{Name: "ask_knowledge_base", Arguments: map[string]any{"question": "broken"}})
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestListDocuments(t *testing.T) {
	ts := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	lister := &mockLister{statuses: []jobModel.DocumentStatus{
		{DocId: "doc_1", Filename: "a.pdf", Status: jobModel.DocumentSynced, Timestamp: ts},
	}}
	cs := connect(t, NewServer(&mockAsker{}, lister))

	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{Name: "list_documents", Arguments: map[string]any{}})
	require.NoError(t, err)
	require.False(t, res.IsError)

	out := decode[ListDocumentsOutput](t, res)
	require.Len(t, out.Documents, 1)
	assert.Equal(t, DocumentInfo{DocId: "doc_1", Filename: "a.pdf", Status: "synced", Timestamp: "2025-03-01T12:00:00Z"}, out.Documents[0])
}
