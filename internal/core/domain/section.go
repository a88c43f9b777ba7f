package domain

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Section is one topical Blue Book reference page discovered on the adult
// listings directory. Sections are built once per ingestion run and never
// persisted; chunk records carry their identity into the index.
type Section struct {
	URL           string
	ListingNumber string
	Name          string
	DisplayName   string
	Slug          string
}

const maxSlugLen = 60

var (
	listingNumberRe = regexp.MustCompile(`^(\d+\.\d+)`)
	nonSlugRunsRe   = regexp.MustCompile(`[^a-z0-9]+`)
	whitespaceRe    = regexp.MustCompile(`\s+`)
)

// Slugify lowercases, collapses non-alphanumeric runs to hyphens, trims
// leading/trailing hyphens and caps the result at 60 characters.
func Slugify(value string) string {
	slug := nonSlugRunsRe.ReplaceAllString(strings.ToLower(value), "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > maxSlugLen {
		slug = slug[:maxSlugLen]
	}
	return slug
}

// ParseSectionLink builds a Section from an anchor's visible text and its
// resolved absolute href. A leading "N.NN" listing number is split off the
// label and kept for ordering. Returns false when text or href is blank.
func ParseSectionLink(text, href string) (Section, bool) {
	normalized := strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
	if normalized == "" || href == "" {
		return Section{}, false
	}

	listingNumber := ""
	name := normalized
	if m := listingNumberRe.FindString(normalized); m != "" {
		listingNumber = m
		name = strings.TrimSpace(normalized[len(m):])
	}

	slugSeed := name
	if slugSeed == "" {
		slugSeed = "section"
	}
	if listingNumber != "" {
		slugSeed = listingNumber + "-" + slugSeed
	}

	if name == "" {
		name = normalized
	}
	displayName := name
	if listingNumber != "" {
		displayName = listingNumber + " " + name
	}

	return Section{
		URL:           href,
		ListingNumber: listingNumber,
		Name:          name,
		DisplayName:   displayName,
		Slug:          Slugify(slugSeed),
	}, true
}

// SortSections orders sections ascending by parsed listing number. Sections
// without a number sort last; ties keep discovery order.
func SortSections(sections []Section) {
	sort.SliceStable(sections, func(i, j int) bool {
		return listingSortKey(sections[i]) < listingSortKey(sections[j])
	})
}

func listingSortKey(s Section) float64 {
	if s.ListingNumber == "" {
		return math.Inf(1)
	}
	n, err := strconv.ParseFloat(s.ListingNumber, 64)
	if err != nil {
		return math.Inf(1)
	}
	return n
}
