package bluebook

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/jakehanson/ssa-disability-app/internal/core/domain"
	"github.com/jakehanson/ssa-disability-app/internal/core/ports"
)

// AdultListingsURL is the fixed directory page the discoverer targets.
const AdultListingsURL = "https://www.ssa.gov/disability/professionals/bluebook/AdultListings.htm"

// Adult section pages share this href suffix on the directory page.
const sectionLinkSuffix = "-Adult.htm"

// Discoverer lists the adult listing sections linked from the directory
// page, deduplicated by slug (first seen wins) and sorted by listing number.
type Discoverer struct {
	fetcher      ports.PageFetcher
	directoryURL string
	logger       *slog.Logger
}

func NewDiscoverer(fetcher ports.PageFetcher, directoryURL string, logger *slog.Logger) *Discoverer {
	if directoryURL == "" {
		directoryURL = AdultListingsURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Discoverer{
		fetcher:      fetcher,
		directoryURL: directoryURL,
		logger:       logger,
	}
}

func (d *Discoverer) Discover(ctx context.Context) ([]domain.Section, error) {
	d.logger.Info("directory_fetch", "url", d.directoryURL)

	page, err := d.fetcher.Fetch(ctx, d.directoryURL)
	if err != nil {
		return nil, fmt.Errorf("fetch directory page: %w", err)
	}

	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parse directory page: %w", err)
	}

	base, err := url.Parse(d.directoryURL)
	if err != nil {
		return nil, fmt.Errorf("parse directory url: %w", err)
	}

	seen := make(map[string]struct{})
	var sections []domain.Section
	for _, a := range collectAnchors(mainContent(doc)) {
		if !strings.HasSuffix(a.href, sectionLinkSuffix) {
			continue
		}
		abs, err := base.Parse(a.href)
		if err != nil {
			d.logger.Warn("section_link_skipped", "href", a.href, "error", err)
			continue
		}
		section, ok := domain.ParseSectionLink(a.text, abs.String())
		if !ok {
			continue
		}
		if _, dup := seen[section.Slug]; dup {
			continue
		}
		seen[section.Slug] = struct{}{}
		sections = append(sections, section)
	}

	domain.SortSections(sections)

	if len(sections) == 0 {
		return nil, domain.WrapError(
			domain.ErrNoSections,
			"discover sections",
			fmt.Errorf("no links matching %q on %s", sectionLinkSuffix, d.directoryURL),
		)
	}

	d.logger.Info("sections_discovered", "count", len(sections))
	return sections, nil
}
