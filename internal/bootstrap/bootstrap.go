package bootstrap

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/jakehanson/ssa-disability-app/internal/config"
	"github.com/jakehanson/ssa-disability-app/internal/core/ports"
	"github.com/jakehanson/ssa-disability-app/internal/core/usecase"
	"github.com/jakehanson/ssa-disability-app/internal/infrastructure/bluebook"
	"github.com/jakehanson/ssa-disability-app/internal/infrastructure/chunking"
	"github.com/jakehanson/ssa-disability-app/internal/infrastructure/fetch"
	"github.com/jakehanson/ssa-disability-app/internal/infrastructure/llm/openai"
	"github.com/jakehanson/ssa-disability-app/internal/infrastructure/resilience"
	"github.com/jakehanson/ssa-disability-app/internal/infrastructure/vector/pinecone"
	"github.com/jakehanson/ssa-disability-app/internal/observability/metrics"
)

type App struct {
	Config config.Config

	RebuildUC ports.IndexRebuilder
	ChatUC    ports.ChatService

	HTTPMetrics   *metrics.HTTPServerMetrics
	IngestMetrics *metrics.IngestMetrics
}

func New(cfg config.Config, logger *slog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())
	llmClient := openai.New(cfg.OpenAIAPIKey, cfg.OpenAIChatModel, cfg.OpenAIEmbedModel, executor)
	index := pinecone.NewClient(cfg.PineconeIndexHost, cfg.PineconeAPIKey, logger)

	fetcher := fetch.NewHTTPFetcher(
		time.Duration(cfg.FetchTimeoutSeconds)*time.Second,
		cfg.ScrapeRequestsPerSecond,
	)
	discoverer := bluebook.NewDiscoverer(fetcher, cfg.ListingsURL, logger)
	scraper := bluebook.NewScraper(fetcher, logger)
	chunker := chunking.NewSplitter(cfg.ChunkMaxSize)

	httpMetrics := metrics.NewHTTPServerMetrics("api")
	ingestMetrics := metrics.NewIngestMetrics("ingest")

	rebuildUC := usecase.NewRebuildIndexUseCase(
		discoverer,
		scraper,
		chunker,
		llmClient.Embedder(),
		index,
		cfg.UpsertBatchSize,
		logger,
		ingestMetrics.Observer("ingest"),
	)
	chatUC := usecase.NewChatUseCase(
		llmClient.Embedder(),
		index,
		llmClient.Completer(),
		cfg.RetrievalTopK,
		"",
		logger,
	)

	return &App{
		Config:        cfg,
		RebuildUC:     rebuildUC,
		ChatUC:        chatUC,
		HTTPMetrics:   httpMetrics,
		IngestMetrics: ingestMetrics,
	}, nil
}
