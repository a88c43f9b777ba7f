package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jakehanson/ssa-disability-app/internal/core/domain"
	"github.com/jakehanson/ssa-disability-app/internal/infrastructure/chunking"
)

type discovererFake struct {
	sections []domain.Section
	err      error
}

func (f *discovererFake) Discover(context.Context) ([]domain.Section, error) {
	return f.sections, f.err
}

type scraperFake struct {
	texts map[string]string
	err   error
}

func (f *scraperFake) Scrape(_ context.Context, section domain.Section) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.texts[section.Slug], nil
}

type embedderFake struct {
	calls  []string
	failAt int
	err    error
}

func (f *embedderFake) Embed(_ context.Context, text string) ([]float32, error) {
	f.calls = append(f.calls, text)
	if f.err != nil && len(f.calls) == f.failAt {
		return nil, f.err
	}
	return []float32{float32(len(f.calls)), 0.5}, nil
}

type indexFake struct {
	ops      []string
	upserts  [][]domain.ChunkRecord
	clearErr error
}

func (f *indexFake) Clear(context.Context) error {
	f.ops = append(f.ops, "clear")
	return f.clearErr
}

func (f *indexFake) Upsert(_ context.Context, records []domain.ChunkRecord) error {
	f.ops = append(f.ops, "upsert")
	batch := make([]domain.ChunkRecord, len(records))
	copy(batch, records)
	f.upserts = append(f.upserts, batch)
	return nil
}

func (f *indexFake) Query(context.Context, []float32, int) ([]domain.EvidenceMatch, error) {
	return nil, nil
}

func mustSection(t *testing.T, text, href string) domain.Section {
	t.Helper()
	section, ok := domain.ParseSectionLink(text, href)
	if !ok {
		t.Fatalf("ParseSectionLink(%q, %q) rejected", text, href)
	}
	return section
}

func TestRebuildIngestsAllSections(t *testing.T) {
	first := mustSection(t, "1.02 Loss of Visual Acuity", "https://www.ssa.gov/bb/1.02-Adult.htm")
	second := mustSection(t, "2.00 Special Senses", "https://www.ssa.gov/bb/2.00-Adult.htm")

	longText := strings.Repeat("a", 3000)
	scraper := &scraperFake{texts: map[string]string{
		first.Slug:  longText,
		second.Slug: longText,
	}}
	embedder := &embedderFake{}
	index := &indexFake{}

	uc := NewRebuildIndexUseCase(
		&discovererFake{sections: []domain.Section{first, second}},
		scraper,
		chunking.NewSplitter(1200),
		embedder,
		index,
		10,
		nil,
		nil,
	)

	summary, err := uc.Rebuild(context.Background())
	if err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}
	if summary.SectionsProcessed != 2 {
		t.Errorf("sections processed = %d, want 2", summary.SectionsProcessed)
	}
	if summary.ChunksUpserted != 6 {
		t.Errorf("chunks upserted = %d, want 6", summary.ChunksUpserted)
	}
	if len(embedder.calls) != 6 {
		t.Errorf("embed calls = %d, want 6", len(embedder.calls))
	}

	if len(index.ops) == 0 || index.ops[0] != "clear" {
		t.Fatalf("expected clear before any upsert, ops = %v", index.ops)
	}

	var all []domain.ChunkRecord
	for _, batch := range index.upserts {
		all = append(all, batch...)
	}
	if len(all) != 6 {
		t.Fatalf("expected 6 records, got %d", len(all))
	}
	wantID := fmt.Sprintf("%s-0001", first.Slug)
	if all[0].ID != wantID {
		t.Errorf("first record id = %q, want %q", all[0].ID, wantID)
	}
	if all[0].Metadata.ChunkIndex != 1 || all[2].Metadata.ChunkIndex != 3 {
		t.Errorf("chunk indexes wrong: %d, %d", all[0].Metadata.ChunkIndex, all[2].Metadata.ChunkIndex)
	}
	if all[3].Metadata.Section != second.Name {
		t.Errorf("fourth record section = %q, want %q", all[3].Metadata.Section, second.Name)
	}
	if len(all[0].Metadata.Text) != 1200 || len(all[2].Metadata.Text) != 600 {
		t.Errorf("chunk sizes = %d, %d; want 1200, 600",
			len(all[0].Metadata.Text), len(all[2].Metadata.Text))
	}
}

func TestRebuildFlushesAtBatchBoundary(t *testing.T) {
	section := mustSection(t, "1.02 Loss of Visual Acuity", "https://www.ssa.gov/bb/1.02-Adult.htm")

	scraper := &scraperFake{texts: map[string]string{
		section.Slug: strings.Repeat("x", 500) + "\n\n" + strings.Repeat("y", 500) + "\n\n" + strings.Repeat("z", 500),
	}}
	index := &indexFake{}

	uc := NewRebuildIndexUseCase(
		&discovererFake{sections: []domain.Section{section}},
		scraper,
		chunking.NewSplitter(600),
		&embedderFake{},
		index,
		2,
		nil,
		nil,
	)

	if _, err := uc.Rebuild(context.Background()); err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}
	if len(index.upserts) != 2 {
		t.Fatalf("expected 2 upsert batches, got %d", len(index.upserts))
	}
	if len(index.upserts[0]) != 2 || len(index.upserts[1]) != 1 {
		t.Fatalf("batch sizes = %d, %d; want 2, 1", len(index.upserts[0]), len(index.upserts[1]))
	}
}

func TestRebuildAbortsOnEmbedFailure(t *testing.T) {
	section := mustSection(t, "1.02 Loss of Visual Acuity", "https://www.ssa.gov/bb/1.02-Adult.htm")

	boom := errors.New("embedding down")
	embedder := &embedderFake{failAt: 2, err: boom}
	index := &indexFake{}

	uc := NewRebuildIndexUseCase(
		&discovererFake{sections: []domain.Section{section}},
		&scraperFake{texts: map[string]string{section.Slug: "first\n\nsecond\n\nthird"}},
		chunking.NewSplitter(1200),
		embedder,
		index,
		1,
		nil,
		nil,
	)

	_, err := uc.Rebuild(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected embed failure surfaced, got %v", err)
	}
	if len(embedder.calls) != 2 {
		t.Errorf("embed calls = %d, want 2 (no retries, no further chunks)", len(embedder.calls))
	}
	if len(index.upserts) != 1 {
		t.Errorf("upsert batches before abort = %d, want 1", len(index.upserts))
	}
}

func TestRebuildFailsWhenSectionYieldsNoChunks(t *testing.T) {
	section := mustSection(t, "1.02 Loss of Visual Acuity", "https://www.ssa.gov/bb/1.02-Adult.htm")

	uc := NewRebuildIndexUseCase(
		&discovererFake{sections: []domain.Section{section}},
		&scraperFake{texts: map[string]string{section.Slug: "   \n\n  "}},
		chunking.NewSplitter(1200),
		&embedderFake{},
		&indexFake{},
		10,
		nil,
		nil,
	)

	_, err := uc.Rebuild(context.Background())
	if !domain.IsKind(err, domain.ErrEmptyContent) {
		t.Fatalf("expected ErrEmptyContent, got %v", err)
	}
}

func TestRebuildStopsBeforeClearWhenDiscoveryFails(t *testing.T) {
	index := &indexFake{}
	uc := NewRebuildIndexUseCase(
		&discovererFake{err: domain.ErrNoSections},
		&scraperFake{},
		chunking.NewSplitter(1200),
		&embedderFake{},
		index,
		10,
		nil,
		nil,
	)

	_, err := uc.Rebuild(context.Background())
	if !errors.Is(err, domain.ErrNoSections) {
		t.Fatalf("expected discovery error surfaced, got %v", err)
	}
	if len(index.ops) != 0 {
		t.Fatalf("index touched despite discovery failure: %v", index.ops)
	}
}
