package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/akolanti/HybridRAG/internal/config"
	"github.com/akolanti/HybridRAG/internal/data/store"
	"github.com/akolanti/HybridRAG/internal/domain/commonModels"
	"github.com/akolanti/HybridRAG/internal/domain/jobModel"
	"github.com/akolanti/HybridRAG/internal/rag/knowledgeGraph"
	"github.com/akolanti/HybridRAG/internal/rag/splitter"
	"github.com/akolanti/HybridRAG/internal/rag/vectorDB"
	"github.com/akolanti/HybridRAG/pkg/logger_i"
)

// --- Mocks ---

type mockEmbedder struct {
	batchFunc func(ctx context.Context, chunks []string, isHuge bool) ([][]float32, error)
}

func (m *mockEmbedder) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	return nil, nil
}
func (m *mockEmbedder) BatchEmbedding(ctx context.Context, chunks []string, isHuge bool) ([][]float32, error) {
	return m.batchFunc(ctx, chunks, isHuge)
}
func (m *mockEmbedder) Dimension() uint64 { return 3 }

func okEmbedder() *mockEmbedder {
	return &mockEmbedder{batchFunc: func(ctx context.Context, ch []string, huge bool) ([][]float32, error) {
		return make([][]float32, len(ch)), nil
	}}
}

type mockVectorDB struct {
	calls      []string
	upsertFunc func(ctx context.Context, chunks []commonModels.DocChunk, vectors [][]float32) error
}

func (m *mockVectorDB) Search(ctx context.Context, v []float32, limit int, withVectors bool) ([]vectorDB.ScoredChunk, error) {
	return nil, nil
}
func (m *mockVectorDB) CreateCollection(ctx context.Context) error {
	m.calls = append(m.calls, "create")
	return nil
}
func (m *mockVectorDB) UpsertBatch(ctx context.Context, chunks []commonModels.DocChunk, vectors [][]float32) error {
	m.calls = append(m.calls, "upsert")
	if m.upsertFunc != nil {
		return m.upsertFunc(ctx, chunks, vectors)
	}
	return nil
}
func (m *mockVectorDB) DeleteBySource(ctx context.Context, docId string) error {
	m.calls = append(m.calls, "delete:"+docId)
	return nil
}

type mockGraph struct {
	got    []commonModels.DocChunk
	report knowledgeGraph.BatchReport
}

func (m *mockGraph) ProcessChunks(ctx context.Context, chunks []commonModels.DocChunk) knowledgeGraph.BatchReport {
	m.got = chunks
	return m.report
}

type mockPublisher struct {
	mu      sync.Mutex
	updates []jobModel.JobUpdate
}

func (m *mockPublisher) Publish(ctx context.Context, update jobModel.JobUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates = append(m.updates, update)
	return nil
}

type fixedSplitter struct {
	chunks []string
}

func (f fixedSplitter) SplitText(text string) ([]string, error) { return f.chunks, nil }

func writeFile(t *testing.T, name string, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// --- Unit Tests ---

func TestGetDocType(t *testing.T) {
	tests := []struct {
		path     string
		expected commonModels.DocType
	}{
		{"test.pdf", commonModels.PDF},
		{"DOC.DOCX", commonModels.DOCX},
		{"notes.odt", commonModels.DOCX},
		{"letter.rtf", commonModels.DOCX},
		{"notes.txt", commonModels.TXT},
		{"README.md", commonModels.TXT},
		{"data.json", commonModels.TXT},
		{"table.csv", commonModels.TXT},
		{"image.png", commonModels.ERR},
		{"noext", commonModels.ERR},
	}

	for _, tt := range tests {
		if got := getDocType(tt.path); got != tt.expected {
			t.Errorf("getDocType(%s) = %v; want %v", tt.path, got, tt.expected)
		}
	}
}

func TestPrepareChunks(t *testing.T) {
	doc := commonModels.Document{Id: "doc-1", Name: "policy.txt"}

	chunks, err := PrepareChunks("ignored", doc, fixedSplitter{chunks: []string{"first", "  ", "second"}})
	if err != nil {
		t.Fatalf("PrepareChunks failed: %v", err)
	}

	if len(chunks) != 2 {
		t.Fatalf("Expected 2 chunks (blank dropped), got %d", len(chunks))
	}
	for i, c := range chunks {
		if c.ChunkIndex != i {
			t.Errorf("chunk %d has index %d", i, c.ChunkIndex)
		}
		if c.Doc.Id != "doc-1" || c.Doc.Name != "policy.txt" {
			t.Errorf("chunk %d lost document metadata: %+v", i, c.Doc)
		}
	}

	again, _ := PrepareChunks("ignored", doc, fixedSplitter{chunks: []string{"first", "second"}})
	if chunks[1].ChunkId != again[1].ChunkId {
		t.Error("chunk ids must be stable across re-ingestion")
	}
}

func TestBatchIngest(t *testing.T) {
	ctx := context.Background()
	chunks := make([]commonModels.DocChunk, 150) // Should trigger 2 batches (100 + 50)
	for i := range chunks {
		chunks[i] = commonModels.DocChunk{Chunk: "test content"}
	}

	vDB := &mockVectorDB{}
	err := BatchIngest(ctx, logger_i.NewLogger("test"), chunks, vDB, okEmbedder())

	if err != nil {
		t.Fatalf("BatchIngest failed: %v", err)
	}
	if len(vDB.calls) != 2 {
		t.Errorf("Expected 2 batches to be upserted, got %d", len(vDB.calls))
	}
}

func TestBatchIngest_LargeDocumentUsesBatchJob(t *testing.T) {
	tests := []struct {
		name      string
		chunks    int
		wantHuge  bool
		wantCalls int
	}{
		{"at threshold", config.EmbeddingBatchJobThreshold, false, config.EmbeddingBatchJobThreshold / config.EmbeddingBatchSize},
		{"above threshold", config.EmbeddingBatchJobThreshold + 1, true, config.EmbeddingBatchJobThreshold/config.EmbeddingBatchJobSize + 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := make([]commonModels.DocChunk, tt.chunks)
			for i := range chunks {
				chunks[i] = commonModels.DocChunk{Chunk: "clause"}
			}
			var hugeFlags []bool
			em := &mockEmbedder{batchFunc: func(ctx context.Context, ch []string, huge bool) ([][]float32, error) {
				hugeFlags = append(hugeFlags, huge)
				return make([][]float32, len(ch)), nil
			}}

			err := BatchIngest(context.Background(), logger_i.NewLogger("test"), chunks, &mockVectorDB{}, em)
			if err != nil {
				t.Fatalf("BatchIngest failed: %v", err)
			}
			if len(hugeFlags) != tt.wantCalls {
				t.Errorf("expected %d embedding calls, got %d", tt.wantCalls, len(hugeFlags))
			}
			for _, h := range hugeFlags {
				if h != tt.wantHuge {
					t.Fatalf("expected isHugeDataSet=%v on every call", tt.wantHuge)
				}
			}
		})
	}
}

func TestBatchIngest_Error(t *testing.T) {
	vDB := &mockVectorDB{
		upsertFunc: func(ctx context.Context, c []commonModels.DocChunk, v [][]float32) error {
			return errors.New("upsert failed")
		},
	}

	err := BatchIngest(context.Background(), logger_i.NewLogger("test"), []commonModels.DocChunk{{Chunk: "hi"}}, vDB, okEmbedder())
	if err == nil {
		t.Error("Expected error from BatchIngest, got nil")
	}
}

// --- Service ---

type fixture struct {
	vectors   *mockVectorDB
	graph     *mockGraph
	docs      *store.InMemoryDocumentStore
	publisher *mockPublisher
	svc       Service
}

func newFixture(em *mockEmbedder) *fixture {
	f := &fixture{
		vectors:   &mockVectorDB{},
		graph:     &mockGraph{},
		docs:      store.NewInMemoryDocumentStore(),
		publisher: &mockPublisher{},
	}
	f.svc = NewService(em, f.vectors, splitter.NewRecursive(40, 5), f.graph, NewReporter(f.docs, f.publisher))
	return f
}

func (f *fixture) onlyStatus(t *testing.T) jobModel.DocumentStatus {
	t.Helper()
	statuses, _ := f.docs.ListStatuses(context.Background())
	if len(statuses) != 1 {
		t.Fatalf("expected one document status, got %d", len(statuses))
	}
	return statuses[0]
}

func (f *fixture) onlyUpdate(t *testing.T) jobModel.JobUpdate {
	t.Helper()
	if len(f.publisher.updates) != 1 {
		t.Fatalf("expected one job update, got %d", len(f.publisher.updates))
	}
	return f.publisher.updates[0]
}

func TestIngest_Success(t *testing.T) {
	f := newFixture(okEmbedder())
	path := writeFile(t, "policy.txt", strings.Repeat("Water damage is covered by the home policy. ", 10))

	err := f.svc.Ingest(context.Background(), jobModel.IngestionJob{DocId: "doc_1", FilePath: path})
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	if f.vectors.calls[0] != "create" || f.vectors.calls[1] != "delete:doc_1" || f.vectors.calls[2] != "upsert" {
		t.Errorf("expected create, delete, then upsert; got %v", f.vectors.calls)
	}
	if len(f.graph.got) < 2 {
		t.Errorf("graph processor should see every chunk, got %d", len(f.graph.got))
	}

	status := f.onlyStatus(t)
	if status.Status != jobModel.DocumentSynced || status.Filename != "policy.txt" || status.DocId != "doc_1" {
		t.Errorf("unexpected status %+v", status)
	}
	update := f.onlyUpdate(t)
	want := jobModel.JobUpdate{Type: jobModel.JobUpdateType, DocId: "doc_1", Status: jobModel.NotificationCompleted, Message: "File synced successfully."}
	if update != want {
		t.Errorf("got update %+v, want %+v", update, want)
	}
}

func TestIngest_Failures(t *testing.T) {
	tests := []struct {
		name        string
		file        string
		content     string
		embedder    *mockEmbedder
		wantMessage string
	}{
		{"unsupported type", "scan.png", "binary", okEmbedder(), "Unsupported file type."},
		{"empty document", "empty.txt", "   \n ", okEmbedder(), "No text extracted from document."},
		{
			name:    "embedding failure",
			file:    "policy.txt",
			content: "Some policy text.",
			embedder: &mockEmbedder{batchFunc: func(ctx context.Context, ch []string, huge bool) ([][]float32, error) {
				return nil, errors.New("quota exceeded")
			}},
			wantMessage: "embedding batch failed: quota exceeded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(tt.embedder)
			path := writeFile(t, tt.file, tt.content)

			err := f.svc.Ingest(context.Background(), jobModel.IngestionJob{DocId: "doc_2", FilePath: path})
			if err == nil {
				t.Fatal("expected an error")
			}

			if f.graph.got != nil {
				t.Error("graph must not run when the vector write did not happen")
			}
			if status := f.onlyStatus(t); status.Status != jobModel.DocumentError {
				t.Errorf("expected error status, got %s", status.Status)
			}
			update := f.onlyUpdate(t)
			if update.Status != jobModel.NotificationFailed || update.Message != tt.wantMessage {
				t.Errorf("got update %+v, want failed with %q", update, tt.wantMessage)
			}
		})
	}
}

func TestIngest_GraphFailureDoesNotFailJob(t *testing.T) {
	f := newFixture(okEmbedder())
	f.graph.report = knowledgeGraph.BatchReport{Total: 1, Failed: 1, Err: errors.New("neo4j unavailable")}
	path := writeFile(t, "policy.md", "# Policy\nFire is covered.")

	if err := f.svc.Ingest(context.Background(), jobModel.IngestionJob{DocId: "doc_3", FilePath: path}); err != nil {
		t.Fatalf("graph failure must not fail the job: %v", err)
	}
	if f.onlyUpdate(t).Status != jobModel.NotificationCompleted {
		t.Error("expected a completed notification")
	}
}

type failingDocumentStore struct{ jobModel.DocumentStore }

func (failingDocumentStore) SaveStatus(ctx context.Context, status jobModel.DocumentStatus) error {
	return errors.New("redis down")
}

func TestIngest_ReportErrorDoesNotFailJob(t *testing.T) {
	f := newFixture(okEmbedder())
	f.svc = NewService(okEmbedder(), f.vectors, splitter.NewRecursive(40, 5), f.graph, NewReporter(failingDocumentStore{}, f.publisher))
	path := writeFile(t, "policy.txt", "Theft is covered.")

	if err := f.svc.Ingest(context.Background(), jobModel.IngestionJob{DocId: "doc_4", FilePath: path}); err != nil {
		t.Fatalf("a failed status write must not fail the job: %v", err)
	}
	if f.onlyUpdate(t).Status != jobModel.NotificationCompleted {
		t.Error("notification should still be published when the status write fails")
	}
}
