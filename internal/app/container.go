package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/akolanti/HybridRAG/internal/config"
	"github.com/akolanti/HybridRAG/internal/customHttpClient"
	"github.com/akolanti/HybridRAG/internal/data/redisStore"
	"github.com/akolanti/HybridRAG/internal/data/store"
	"github.com/akolanti/HybridRAG/internal/domain/jobModel"
	"github.com/akolanti/HybridRAG/internal/job"
	"github.com/akolanti/HybridRAG/internal/notify"
	"github.com/akolanti/HybridRAG/internal/rag"
	"github.com/akolanti/HybridRAG/internal/rag/embedding"
	"github.com/akolanti/HybridRAG/internal/rag/embedding/googleEmbedding"
	"github.com/akolanti/HybridRAG/internal/rag/embedding/openaiEmbedding"
	"github.com/akolanti/HybridRAG/internal/rag/graphDB/neo4jDB"
	"github.com/akolanti/HybridRAG/internal/rag/ingest"
	"github.com/akolanti/HybridRAG/internal/rag/knowledgeGraph"
	"github.com/akolanti/HybridRAG/internal/rag/llm"
	"github.com/akolanti/HybridRAG/internal/rag/llm/gemini"
	"github.com/akolanti/HybridRAG/internal/rag/llm/openaiLLM"
	"github.com/akolanti/HybridRAG/internal/rag/pipeline"
	"github.com/akolanti/HybridRAG/internal/rag/retrieval"
	"github.com/akolanti/HybridRAG/internal/rag/splitter"
	"github.com/akolanti/HybridRAG/internal/rag/stt"
	"github.com/akolanti/HybridRAG/internal/rag/stt/whisper"
	"github.com/akolanti/HybridRAG/internal/rag/transcription"
	"github.com/akolanti/HybridRAG/internal/rag/vectorDB/qdrantDB"
	"github.com/akolanti/HybridRAG/pkg/logger_i"
)

// Container owns every external resource. It is built once at startup and torn down with Close.
type Container struct {
	Settings  config.Settings
	Queue     jobModel.JobQueue
	Documents jobModel.DocumentStore
	Notifier  notify.Notifier
	Chat      rag.Service
	Ingest    ingest.Service
	Jobs      *job.Service
	Retrieval *retrieval.Engine

	// InMemoryQueue is set when redis was unavailable; jobs then only reach workers in this process.
	InMemoryQueue bool

	processor *knowledgeGraph.Processor
	logger    *logger_i.Logger
}

// Build wires the container from settings. Resources opened with ctx are closed when ctx is done.
func Build(ctx context.Context, s config.Settings) (*Container, error) {
	c := &Container{Settings: s, logger: logger_i.NewLogger("App")}
	httpClient := customHttpClient.NewPooledClient(0)

	redis, err := c.initStores(ctx)
	if err != nil {
		return nil, err
	}

	notifier, err := newNotifier(s, redis)
	if err != nil {
		return nil, err
	}
	c.Notifier = notifier

	provider, err := newLLM(ctx, s, httpClient)
	if err != nil {
		return nil, err
	}
	embedder, err := newEmbedder(ctx, s, httpClient)
	if err != nil {
		return nil, err
	}

	vectors, err := qdrantDB.NewQdrantClient(ctx, s.QdrantHost, s.QdrantPort, s.Collection, embedder.Dimension())
	if err != nil {
		return nil, fmt.Errorf("vector store: %w", err)
	}

	var graphRetriever *retrieval.GraphRetriever
	if s.GraphEnabled {
		graphRetriever, err = c.initGraph(ctx, s, provider)
		if err != nil {
			return nil, err
		}
	}

	vectorRetriever, err := retrieval.NewVectorRetriever(s.RetrievalStrategy, embedder, vectors)
	if err != nil {
		return nil, err
	}
	c.Retrieval = retrieval.NewEngine(vectorRetriever, graphRetriever, vectors, s.TopK)
	if err := c.Retrieval.EnsureGraphIndexes(ctx); err != nil {
		c.logger.Warn("Could not create graph indexes", "error", err)
	}

	strategy, err := newTranscription(s, httpClient)
	if err != nil {
		return nil, err
	}
	c.Chat = rag.NewService(strategy, pipeline.NewStandardEngine(c.Retrieval, provider))

	sp, err := splitter.NewSplitter(s.Splitter)
	if err != nil {
		return nil, err
	}
	var graphProcessor ingest.GraphProcessor
	if c.processor != nil {
		graphProcessor = c.processor
	}
	c.Ingest = ingest.NewService(embedder, vectors, sp, graphProcessor, ingest.NewReporter(c.Documents, c.Notifier))

	c.Jobs = job.InitJobService(job.ServiceConfig{
		Queue:     c.Queue,
		Documents: c.Documents,
		Vectors:   c.Retrieval,
		UploadDir: s.UploadDir,
	})

	c.logger.Info("Container ready",
		"llm", s.LLMProvider, "embedding", s.EmbeddingProvider, "stt", s.STTProvider,
		"retrieval", s.RetrievalStrategy, "graph", graphRetriever != nil, "notifier", s.Notifier)
	return c, nil
}

// Close releases resources that are not bound to the build context.
func (c *Container) Close() {
	if c.processor != nil {
		c.processor.Release()
	}
	if c.Notifier != nil {
		if err := c.Notifier.Close(); err != nil {
			c.logger.Error("Error closing notifier", "error", err)
		}
	}
}

// initStores returns a nil store, and no error, when it fell back to the in-memory stores.
func (c *Container) initStores(ctx context.Context) (*redisStore.Store, error) {
	s := c.Settings
	redis, err := redisStore.NewStore(ctx, redisStore.Options{Addr: s.RedisAddr, Password: s.RedisPassword, DB: config.RedisIngestionStore})
	if err == nil {
		c.Queue = store.NewRedisJobQueue(redis)
		c.Documents = store.NewRedisDocumentStore(redis)
		return redis, nil
	}
	if !config.FALLBACK_REDIS_TO_INTERNALSTORE {
		return nil, err
	}
	c.logger.Warn("Redis stores are offline, falling back to in-memory stores", "error", err)
	c.Queue = store.NewInMemoryJobQueue(config.BufferLimit)
	c.Documents = store.NewInMemoryDocumentStore()
	c.InMemoryQueue = true
	return nil, nil
}

func (c *Container) initGraph(ctx context.Context, s config.Settings, provider llm.Provider) (*retrieval.GraphRetriever, error) {
	graphStore, err := neo4jDB.NewNeo4jClient(ctx, s.Neo4jURI, s.Neo4jUser, s.Neo4jPassword, s.Neo4jDatabase)
	if err != nil {
		// vector retrieval still works on its own
		c.logger.Warn("Graph store unavailable, running vector only", "error", err)
		return nil, nil
	}
	c.processor, err = knowledgeGraph.NewProcessor(provider, graphStore)
	if err != nil {
		return nil, err
	}
	return retrieval.NewGraphRetriever(provider, graphStore), nil
}

func newNotifier(s config.Settings, redis *redisStore.Store) (notify.Notifier, error) {
	switch s.Notifier {
	case config.NotifierRedis:
		if redis == nil {
			return notify.NewMemoryNotifier(), nil
		}
		return notify.NewRedisNotifier(redis), nil
	case config.NotifierNats:
		return notify.NewNatsNotifier(s.NatsURL)
	case config.NotifierMemory:
		return notify.NewMemoryNotifier(), nil
	}
	return nil, fmt.Errorf("%w: notifier %q", config.ErrUnknownStrategy, s.Notifier)
}

func newLLM(ctx context.Context, s config.Settings, httpClient *http.Client) (llm.Provider, error) {
	switch s.LLMProvider {
	case config.ProviderGemini:
		return gemini.NewGeminiClient(ctx, s.GoogleAPIKey, s.GeminiModel, httpClient)
	case config.ProviderOpenAI:
		return openaiLLM.NewOpenAIClient(s.OpenAIAPIKey, s.OpenAIModel, httpClient), nil
	}
	return nil, fmt.Errorf("%w: llm provider %q", config.ErrUnknownStrategy, s.LLMProvider)
}

func newEmbedder(ctx context.Context, s config.Settings, httpClient *http.Client) (embedding.Embedder, error) {
	switch s.EmbeddingProvider {
	case config.ProviderGemini:
		return googleEmbedding.NewGoogleEmbedder(ctx, s.GoogleAPIKey, modelOr(s.EmbeddingModel, config.GoogleEmbeddingModel), httpClient)
	case config.ProviderOpenAI:
		return openaiEmbedding.NewOpenAIEmbedder(s.OpenAIAPIKey, modelOr(s.EmbeddingModel, config.OpenAIEmbeddingModel), httpClient), nil
	}
	return nil, fmt.Errorf("%w: embedding provider %q", config.ErrUnknownStrategy, s.EmbeddingProvider)
}

func newTranscription(s config.Settings, httpClient *http.Client) (transcription.Strategy, error) {
	var transcriber stt.Transcriber
	switch s.STTProvider {
	case config.ProviderOpenAI:
		transcriber = whisper.NewWhisperClient(s.OpenAIAPIKey, "", httpClient, s.UseAudioConverter)
	case config.ProviderLocal:
		if s.STTBaseURL == "" {
			return nil, errors.New("local stt needs a base url")
		}
		transcriber = whisper.NewWhisperClient(s.OpenAIAPIKey, s.STTBaseURL, httpClient, s.UseAudioConverter)
	default:
		return nil, fmt.Errorf("%w: stt provider %q", config.ErrUnknownStrategy, s.STTProvider)
	}

	var converter transcription.Converter
	if s.UseAudioConverter {
		converter = transcription.NewFFmpegConverter(config.FFmpegBinary)
	}
	return transcription.NewStrategy(s.TranscriptionMode, transcriber, converter)
}

func modelOr(model string, fallback string) string {
	if model == "" {
		return fallback
	}
	return model
}
