package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jakehanson/ssa-disability-app/internal/core/domain"
	"github.com/jakehanson/ssa-disability-app/internal/core/ports"
)

const DefaultUpsertBatchSize = 10

// IngestObserver receives progress signals from a rebuild run. Implemented
// by the Prometheus ingest metrics; nil disables observation.
type IngestObserver interface {
	SectionProcessed(section string, chunks int)
	BatchFlushed(size int)
}

// RebuildIndexUseCase drives the full ingestion pipeline: discover the
// listing sections, wipe the index, then scrape, chunk, embed and upsert
// each section in order. The first failure aborts the run; a partially
// populated index is repaired by the next successful rebuild.
type RebuildIndexUseCase struct {
	discoverer ports.SectionDiscoverer
	scraper    ports.SectionScraper
	chunker    ports.Chunker
	embedder   ports.Embedder
	index      ports.VectorIndex
	batchSize  int
	logger     *slog.Logger
	observer   IngestObserver
}

func NewRebuildIndexUseCase(
	discoverer ports.SectionDiscoverer,
	scraper ports.SectionScraper,
	chunker ports.Chunker,
	embedder ports.Embedder,
	index ports.VectorIndex,
	batchSize int,
	logger *slog.Logger,
	observer IngestObserver,
) *RebuildIndexUseCase {
	if batchSize <= 0 {
		batchSize = DefaultUpsertBatchSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RebuildIndexUseCase{
		discoverer: discoverer,
		scraper:    scraper,
		chunker:    chunker,
		embedder:   embedder,
		index:      index,
		batchSize:  batchSize,
		logger:     logger,
		observer:   observer,
	}
}

func (uc *RebuildIndexUseCase) Rebuild(ctx context.Context) (domain.IngestSummary, error) {
	var summary domain.IngestSummary

	sections, err := uc.discoverer.Discover(ctx)
	if err != nil {
		return summary, fmt.Errorf("rebuild index: %w", err)
	}
	uc.logger.Info("sections discovered", "count", len(sections))

	// The wipe comes after discovery so a directory outage cannot leave
	// the index empty with nothing to replace it.
	if err := uc.index.Clear(ctx); err != nil {
		return summary, fmt.Errorf("rebuild index: %w", err)
	}

	buffer := make([]domain.ChunkRecord, 0, uc.batchSize)
	for _, section := range sections {
		text, err := uc.scraper.Scrape(ctx, section)
		if err != nil {
			return summary, fmt.Errorf("rebuild index: section %s: %w", section.Slug, err)
		}

		chunks := uc.chunker.Split(text)
		if len(chunks) == 0 {
			return summary, domain.WrapError(domain.ErrEmptyContent, "rebuild index",
				fmt.Errorf("section %s produced no chunks", section.Slug))
		}

		for i, chunk := range chunks {
			vector, err := uc.embedder.Embed(ctx, chunk)
			if err != nil {
				return summary, fmt.Errorf("rebuild index: section %s chunk %d: %w", section.Slug, i+1, err)
			}

			buffer = append(buffer, domain.NewChunkRecord(section, i+1, chunk, vector))
			if len(buffer) == uc.batchSize {
				if err := uc.flush(ctx, &buffer, &summary); err != nil {
					return summary, err
				}
			}
		}

		if err := uc.flush(ctx, &buffer, &summary); err != nil {
			return summary, err
		}

		summary.SectionsProcessed++
		if uc.observer != nil {
			uc.observer.SectionProcessed(section.Slug, len(chunks))
		}
		uc.logger.Info("section ingested", "section", section.Slug, "chunks", len(chunks))
	}

	uc.logger.Info("rebuild complete",
		"sections", summary.SectionsProcessed,
		"chunks", summary.ChunksUpserted)
	return summary, nil
}

func (uc *RebuildIndexUseCase) flush(ctx context.Context, buffer *[]domain.ChunkRecord, summary *domain.IngestSummary) error {
	if len(*buffer) == 0 {
		return nil
	}
	if err := uc.index.Upsert(ctx, *buffer); err != nil {
		return fmt.Errorf("rebuild index: %w", err)
	}
	summary.ChunksUpserted += len(*buffer)
	if uc.observer != nil {
		uc.observer.BatchFlushed(len(*buffer))
	}
	*buffer = (*buffer)[:0]
	return nil
}
