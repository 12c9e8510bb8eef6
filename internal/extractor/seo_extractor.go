// Package extractor pulls the title, meta description and first H1 out of a
// page body with regular expressions.
//
// The page is never parsed into a tree. Malformed or nested markup yields a
// best-effort result: the first match wins and nothing is validated.
package extractor

import (
	"context"
	"regexp"
	"strings"

	"github.com/aleister1102/seotracker/internal/common"
	"github.com/aleister1102/seotracker/internal/models"

	"github.com/rs/zerolog"
)

var (
	titlePattern   = regexp.MustCompile(`(?i)<title[^>]*>(.*?)</title>`)
	metaPattern    = regexp.MustCompile(`(?i)<meta\s+name=["']description["']\s+content=["']([\s\S]*?)["']`)
	h1Pattern      = regexp.MustCompile(`(?i)<h1[^>]*>([\s\S]*?)</h1>`)
	commentPattern = regexp.MustCompile(`<!--[\s\S]*?-->`)
	tagPattern     = regexp.MustCompile(`<[^>]+>`)
)

// PageFetcher returns the body of a page as text.
type PageFetcher interface {
	FetchPage(ctx context.Context, url string) (string, error)
}

// Extract returns the decoded SEO fields of an HTML document.
func Extract(html string) models.PageFields {
	return models.PageFields{
		Title:           DecodeEntities(extractTitle(html)),
		MetaDescription: DecodeEntities(extractMetaDescription(html)),
		H1:              DecodeEntities(ExtractCleanH1(html)),
	}
}

func extractTitle(html string) string {
	m := titlePattern.FindStringSubmatch(html)
	if m == nil {
		return models.NotAvailable
	}
	return m[1]
}

func extractMetaDescription(html string) string {
	m := metaPattern.FindStringSubmatch(html)
	if m == nil {
		return models.NotAvailable
	}
	return strings.TrimSpace(m[1])
}

// ExtractCleanH1 returns the text of the first H1 with comments and nested
// tags removed.
func ExtractCleanH1(html string) string {
	m := h1Pattern.FindStringSubmatch(html)
	if m == nil {
		return models.NotAvailable
	}

	content := commentPattern.ReplaceAllString(m[1], "")
	content = tagPattern.ReplaceAllString(content, "")
	content = strings.TrimSpace(content)
	if content == "" {
		return models.NotAvailable
	}
	return content
}

// SEOExtractor fetches pages and extracts their SEO fields.
type SEOExtractor struct {
	fetcher PageFetcher
	logger  zerolog.Logger
}

// NewSEOExtractor creates a new SEOExtractor
func NewSEOExtractor(fetcher PageFetcher, logger zerolog.Logger) *SEOExtractor {
	return &SEOExtractor{
		fetcher: fetcher,
		logger:  logger.With().Str("component", "SEOExtractor").Logger(),
	}
}

// ExtractFromURL fetches url and extracts its fields. Any fetch failure is
// returned as an error and no partial fields are produced.
func (e *SEOExtractor) ExtractFromURL(ctx context.Context, url string) (*models.PageFields, error) {
	body, err := e.fetcher.FetchPage(ctx, url)
	if err != nil {
		e.logger.Warn().Err(err).Str("url", url).Msg("Error fetching SEO data")
		return nil, common.WrapError(err, "failed to fetch page")
	}

	fields := Extract(body)
	e.logger.Debug().
		Str("url", url).
		Str("title", fields.Title).
		Str("h1", fields.H1).
		Msg("Extracted SEO fields")
	return &fields, nil
}
