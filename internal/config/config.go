package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jakehanson/ssa-disability-app/internal/core/domain"
)

type Config struct {
	APIPort           string
	IngestMetricsPort string
	LogLevel          string

	OpenAIAPIKey     string
	OpenAIChatModel  string
	OpenAIEmbedModel string

	PineconeAPIKey    string
	PineconeIndexHost string

	ListingsURL             string
	FetchTimeoutSeconds     int
	ScrapeRequestsPerSecond float64

	ChunkMaxSize    int
	UpsertBatchSize int
	RetrievalTopK   int

	APIRateLimitRPS          float64
	APIRateLimitBurst        int
	APIMaxInFlight           int
	APIBackpressureWaitMS    int
	ServerShutdownTimeoutSec int
}

func Load() Config {
	return Config{
		APIPort:           mustEnv("API_PORT", "8080"),
		IngestMetricsPort: mustEnv("INGEST_METRICS_PORT", "9090"),
		LogLevel:          mustEnv("LOG_LEVEL", "info"),

		OpenAIAPIKey:     mustEnv("OPENAI_API_KEY", ""),
		OpenAIChatModel:  mustEnv("OPENAI_CHAT_MODEL", "gpt-4o"),
		OpenAIEmbedModel: mustEnv("OPENAI_EMBED_MODEL", "text-embedding-3-small"),

		PineconeAPIKey:    mustEnv("PINECONE_API_KEY", ""),
		PineconeIndexHost: mustEnv("PINECONE_INDEX_HOST", ""),

		ListingsURL:             mustEnv("LISTINGS_URL", ""),
		FetchTimeoutSeconds:     mustEnvInt("FETCH_TIMEOUT_SECONDS", 90),
		ScrapeRequestsPerSecond: mustEnvFloat("SCRAPE_REQUESTS_PER_SECOND", 1),

		ChunkMaxSize:    mustEnvInt("CHUNK_MAX_SIZE", 1200),
		UpsertBatchSize: mustEnvInt("UPSERT_BATCH_SIZE", 10),
		RetrievalTopK:   mustEnvInt("RETRIEVAL_TOP_K", 3),

		APIRateLimitRPS:          mustEnvFloat("API_RATE_LIMIT_RPS", 10),
		APIRateLimitBurst:        mustEnvInt("API_RATE_LIMIT_BURST", 20),
		APIMaxInFlight:           mustEnvInt("API_MAX_IN_FLIGHT", 32),
		APIBackpressureWaitMS:    mustEnvInt("API_BACKPRESSURE_WAIT_MS", 250),
		ServerShutdownTimeoutSec: mustEnvInt("SERVER_SHUTDOWN_TIMEOUT_SECONDS", 10),
	}
}

// Validate reports every missing required variable at once so a bad deploy
// fails with one complete message instead of a fix-and-retry loop.
func (c Config) Validate() error {
	var missing []string
	if c.OpenAIAPIKey == "" {
		missing = append(missing, "OPENAI_API_KEY")
	}
	if c.PineconeAPIKey == "" {
		missing = append(missing, "PINECONE_API_KEY")
	}
	if c.PineconeIndexHost == "" {
		missing = append(missing, "PINECONE_INDEX_HOST")
	}
	if len(missing) > 0 {
		return domain.WrapError(domain.ErrConfiguration, "validate config",
			fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", ")))
	}
	return nil
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}
