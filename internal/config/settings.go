package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var ErrUnknownStrategy = errors.New("unknown strategy key")

// strategy keys
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderLocal  = "local"

	RetrievalDense    = "dense"
	RetrievalMMR      = "mmr"
	RetrievalEnsemble = "ensemble"

	SplitterRecursive = "recursive"
	SplitterToken     = "token"

	TranscriptionSingleShot    = "single_shot"
	TranscriptionSlidingWindow = "sliding_window"

	NotifierRedis  = "redis"
	NotifierNats   = "nats"
	NotifierMemory = "memory"
)

// Settings holds everything that can change between deployments.
// Defaults come from the const block, then an optional yaml file, then the environment.
type Settings struct {
	ListenAddr string `yaml:"listen_addr"`
	UploadDir  string `yaml:"upload_dir"`
	LogFile    string `yaml:"log_file"`

	LLMProvider       string `yaml:"llm_provider"`
	EmbeddingProvider string `yaml:"embedding_provider"`
	STTProvider       string `yaml:"stt_provider"`
	RetrievalStrategy string `yaml:"retrieval_strategy"`
	Splitter          string `yaml:"splitter"`
	TranscriptionMode string `yaml:"transcription_mode"`
	Notifier          string `yaml:"notifier"`

	GoogleAPIKey   string `yaml:"google_api_key"`
	OpenAIAPIKey   string `yaml:"openai_api_key"`
	STTBaseURL     string `yaml:"stt_base_url"`
	GeminiModel    string `yaml:"gemini_model"`
	OpenAIModel    string `yaml:"openai_model"`
	EmbeddingModel string `yaml:"embedding_model"`

	QdrantHost string `yaml:"qdrant_host"`
	QdrantPort int    `yaml:"qdrant_port"`
	Collection string `yaml:"collection"`

	GraphEnabled  bool   `yaml:"graph_enabled"`
	Neo4jURI      string `yaml:"neo4j_uri"`
	Neo4jUser     string `yaml:"neo4j_user"`
	Neo4jPassword string `yaml:"neo4j_password"`
	Neo4jDatabase string `yaml:"neo4j_database"`

	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	NatsURL       string `yaml:"nats_url"`

	UseAudioConverter bool `yaml:"use_audio_converter"`
	TopK              int  `yaml:"top_k"`
}

func Defaults() Settings {
	return Settings{
		ListenAddr:        ServerListenAddr,
		UploadDir:         UploadDir,
		LLMProvider:       ProviderGemini,
		EmbeddingProvider: ProviderGemini,
		STTProvider:       ProviderOpenAI,
		RetrievalStrategy: RetrievalEnsemble,
		Splitter:          SplitterRecursive,
		TranscriptionMode: TranscriptionSingleShot,
		Notifier:          NotifierRedis,
		GeminiModel:       GeminiModelName,
		OpenAIModel:       OpenAIModelName,
		QdrantHost:        QdrantHost,
		QdrantPort:        QdrantGrpcPort,
		Collection:        EmbeddingDBName,
		GraphEnabled:      true,
		Neo4jURI:          Neo4jURI,
		Neo4jUser:         Neo4jUser,
		Neo4jDatabase:     Neo4jDatabase,
		RedisAddr:         RedisAddr,
		NatsURL:           NatsURL,
		UseAudioConverter: true,
		TopK:              RetrievalTopK,
	}
}

// Load builds Settings from defaults, the yaml file at path (if any) and the environment.
// A missing .env file is not an error.
func Load(path string) (Settings, error) {
	s := Defaults()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return s, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &s); err != nil {
			return s, fmt.Errorf("parse config file: %w", err)
		}
	}

	_ = godotenv.Load()
	s.applyEnv()

	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}

func (s *Settings) applyEnv() {
	setString(&s.ListenAddr, "LISTEN_ADDR")
	setString(&s.UploadDir, "UPLOAD_DIR")
	setString(&s.LogFile, "LOG_FILE")

	setString(&s.LLMProvider, "LLM_PROVIDER")
	setString(&s.EmbeddingProvider, "EMBEDDING_PROVIDER")
	setString(&s.STTProvider, "STT_PROVIDER")
	setString(&s.RetrievalStrategy, "RETRIEVAL_STRATEGY")
	setString(&s.Splitter, "SPLITTER")
	setString(&s.TranscriptionMode, "TRANSCRIPTION_MODE")
	setString(&s.Notifier, "NOTIFIER")

	setString(&s.GoogleAPIKey, "GOOGLE_API_KEY")
	setString(&s.OpenAIAPIKey, "OPENAI_API_KEY")
	setString(&s.STTBaseURL, "STT_BASE_URL")
	setString(&s.GeminiModel, "GEMINI_MODEL")
	setString(&s.OpenAIModel, "OPENAI_MODEL")
	setString(&s.EmbeddingModel, "EMBEDDING_MODEL")

	setString(&s.QdrantHost, "QDRANT_HOST")
	setInt(&s.QdrantPort, "QDRANT_PORT")
	setString(&s.Collection, "QDRANT_COLLECTION")

	setBool(&s.GraphEnabled, "GRAPH_ENABLED")
	setString(&s.Neo4jURI, "NEO4J_URI")
	setString(&s.Neo4jUser, "NEO4J_USER")
	setString(&s.Neo4jPassword, "NEO4J_PASSWORD")
	setString(&s.Neo4jDatabase, "NEO4J_DATABASE")

	setString(&s.RedisAddr, "REDIS_ADDR")
	setString(&s.RedisPassword, "REDIS_PASSWORD")
	setString(&s.NatsURL, "NATS_URL")

	setBool(&s.UseAudioConverter, "USE_AUDIO_CONVERTER")
	setInt(&s.TopK, "TOP_K")
}

// Validate rejects unknown strategy keys so a typo fails at startup instead of on the first request.
func (s Settings) Validate() error {
	checks := []struct {
		name    string
		value   string
		allowed []string
	}{
		{"LLM_PROVIDER", s.LLMProvider, []string{ProviderGemini, ProviderOpenAI}},
		{"EMBEDDING_PROVIDER", s.EmbeddingProvider, []string{ProviderGemini, ProviderOpenAI}},
		{"STT_PROVIDER", s.STTProvider, []string{ProviderOpenAI, ProviderLocal}},
		{"RETRIEVAL_STRATEGY", s.RetrievalStrategy, []string{RetrievalDense, RetrievalMMR, RetrievalEnsemble}},
		{"SPLITTER", s.Splitter, []string{SplitterRecursive, SplitterToken}},
		{"TRANSCRIPTION_MODE", s.TranscriptionMode, []string{TranscriptionSingleShot, TranscriptionSlidingWindow}},
		{"NOTIFIER", s.Notifier, []string{NotifierRedis, NotifierNats, NotifierMemory}},
	}

	for _, c := range checks {
		if !slices.Contains(c.allowed, c.value) {
			return fmt.Errorf("%w: %s=%q (allowed: %s)", ErrUnknownStrategy, c.name, c.value, strings.Join(c.allowed, ", "))
		}
	}
	if s.STTProvider == ProviderLocal && s.STTBaseURL == "" {
		return errors.New("STT_BASE_URL is required when STT_PROVIDER=local")
	}
	if s.TopK < 1 {
		return fmt.Errorf("TOP_K must be positive, got %d", s.TopK)
	}
	return nil
}

func setString(target *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*target = v
	}
}

func setInt(target *int, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*target = n
		}
	}
}

func setBool(target *bool, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			*target = b
		}
	}
}
