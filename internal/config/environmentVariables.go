package config

import (
	"log/slog"
	"time"
)

const (
	IS_PROD                         = false
	LOG_LEVEL_PROD                  = slog.LevelInfo
	FALLBACK_REDIS_TO_INTERNALSTORE = true //if redis init fails, it falls back to an internal in-memory store
	TRACE_ID_KEY                    = "traceId"
	RATE_LIMIT_PER_SECOND           = 2
	BURST_RATE_LIMIT_PER_SECOND     = 5

	//TODO:this will differ based on the request and provider
	EmbeddingOutputDimensionality int32 = 1536
	EmbeddingDBName                     = "policy_docs"
	EmbeddingBatchSize                  = 100
	EmbeddingBatchJobThreshold          = 2000 //chunks; larger documents go through the async batch job api
	EmbeddingBatchJobSize               = 1000

	//ingestion worker pool
	MaxWorkerCount      int64 = 10
	MinWorkerCount      int64 = 1
	IdleWorkerTimeout         = 1 * time.Minute
	IngestionJobTimeout       = 10 * time.Minute

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 0 //streams and sockets stay open for the whole turn
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second
	StreamTurnTimeout      = 2 * time.Minute

	//server listening port
	ServerListenAddr = ":3000"
	UploadDir        = "temporary_data"
	MaxUploadSize    = 32 << 20 //32mb

	//job requests buffer limit
	BufferLimit = 100

	//vectorDB
	QdrantConnectionTimeout = 30 * time.Second
	QdrantHost              = "localhost"
	QdrantGrpcPort          = 6334
	QdrantUseTLS            = false //set for https
	QdrantPoolSize          = 1     //2-5 is preferred for prod according to documentation

	//retrieval
	RetrievalTopK         = 5
	MMRFetchMultiplier    = 4
	MMRLambda             = 0.5
	EnsembleDenseWeight   = 0.6
	EnsembleMMRWeight     = 0.4
	RankFusionConstant    = 60
	GraphChunkScore       = 1.0
	GraphNeighborhoodRows = 50
	GraphPathLimit        = 5
	EntityCacheTTL        = 5 * time.Minute

	//graph extraction
	GraphExtractionConcurrency = 5
	GraphWriterPoolSize        = 5

	//neo4j
	Neo4jURI      = "bolt://localhost:7687"
	Neo4jUser     = "neo4j"
	Neo4jDatabase = "neo4j"

	//llm
	GeminiModelName     = "gemini-2.5-flash-lite-preview-09-2025"
	OpenAIModelName     = "gpt-4o-mini"
	ModelTemperature    = 0.7
	ExtractionTimeout   = 60 * time.Second
	GenericErrorMessage = "I encountered an error processing your request."
	NoSpeechMessage     = "No speech detected."
	TranscriptionFailed = "Transcription failed."

	//embeddings
	GoogleEmbeddingModel = "gemini-embedding-001"
	OpenAIEmbeddingModel = "text-embedding-3-small"

	//stt
	WhisperModel        = "whisper-1"
	MinAudioBytes       = 4000
	MaxAudioBufferBytes = 1_000_000
	WindowInterval      = 500 * time.Millisecond
	FFmpegBinary        = "ffmpeg"

	//splitter
	ChunkSize         = 1000 // characters
	ChunkOverlap      = 150
	TokenChunkSize    = 300 // tokens
	TokenChunkOverlap = 40
	TokenEncoding     = "cl100k_base"

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//redis
	redisHost = "127.0.0.1"
	redisPort = "6379"
	RedisAddr = redisHost + ":" + redisPort

	//redis has 16 DB we can use
	RedisIngestionStore = 0

	RedisJobQueueKey    = "rag_jobs"
	RedisDocumentsKey   = "rag_documents"
	JobUpdatesChannel   = "job_updates"
	JobQueuePollTimeout = 1 * time.Second
	NatsURL             = "nats://127.0.0.1:4222"
	NotificationSubject = "events.job_updates"
)
