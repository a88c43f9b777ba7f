package bluebook

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/net/html"

	"github.com/jakehanson/ssa-disability-app/internal/core/domain"
	"github.com/jakehanson/ssa-disability-app/internal/core/ports"
)

// Scraper turns one section page into plain body text.
type Scraper struct {
	fetcher ports.PageFetcher
	logger  *slog.Logger
}

func NewScraper(fetcher ports.PageFetcher, logger *slog.Logger) *Scraper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scraper{fetcher: fetcher, logger: logger}
}

func (s *Scraper) Scrape(ctx context.Context, section domain.Section) (string, error) {
	s.logger.Info("section_fetch", "section", section.DisplayName, "url", section.URL)

	page, err := s.fetcher.Fetch(ctx, section.URL)
	if err != nil {
		return "", fmt.Errorf("fetch section page: %w", err)
	}

	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return "", fmt.Errorf("parse section page: %w", err)
	}

	content := mainContent(doc)
	pruneUnwanted(content)
	text := visibleText(content)

	if strings.TrimSpace(text) == "" {
		return "", domain.WrapError(
			domain.ErrEmptyContent,
			"scrape section",
			fmt.Errorf("no visible text for %s", section.DisplayName),
		)
	}
	return text, nil
}
