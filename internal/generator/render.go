package generator

import (
	"html/template"
	"strings"
	"time"

	pressarticles "github.com/goliatone/go-press/articles"
	"github.com/goliatone/go-press/internal/articles"
	"github.com/google/uuid"
)

// TemplateContext is the data contract handed to TemplateRenderer
// implementations for article pages.
type TemplateContext struct {
	Site    SiteMetadata
	Article ArticleRenderingContext
	Build   BuildMetadata
	Helpers TemplateHelpers
}

// IndexContext is the data contract for the article listing page.
type IndexContext struct {
	Site    SiteMetadata
	Entries []IndexEntry
	Build   BuildMetadata
	Helpers TemplateHelpers
}

// SiteMetadata exposes site-wide information required by templates.
type SiteMetadata struct {
	BaseURL     string
	Title       string
	Description string
	Author      string
	Metadata    map[string]any
}

// BuildMetadata surfaces high level build information to templates.
type BuildMetadata struct {
	GeneratedAt time.Time
	Options     BuildOptions
}

// ArticleRenderingContext contains the resolved data for a single article.
// Content carries the rendered Markdown body, which templates inject without
// re-escaping.
type ArticleRenderingContext struct {
	Article        *articles.Article
	Content        template.HTML
	ShowHeader     bool
	ShowBreadcrumb bool
	Breadcrumb     []BreadcrumbItem
	Permalink      string
	Route          string
	Metadata       DependencyMetadata
}

// IndexEntry is one row of the article listing.
type IndexEntry struct {
	Title       string
	Permalink   string
	Description string
	Author      string
	Categories  []string
	Tags        []string
	PublishedAt *time.Time
}

// BreadcrumbItem is a single hop in the breadcrumb trail.
type BreadcrumbItem struct {
	Label string
	URL   string
}

// TemplateHelpers exposes convenience helpers for template authors.
type TemplateHelpers struct {
	baseURL string
}

func newTemplateHelpers(baseURL string) TemplateHelpers {
	return TemplateHelpers{baseURL: strings.TrimRight(baseURL, "/")}
}

// BaseURL returns the configured site base URL.
func (h TemplateHelpers) BaseURL() string {
	return h.baseURL
}

// WithBaseURL prefixes the provided path with the configured base URL.
func (h TemplateHelpers) WithBaseURL(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return h.baseURL
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if h.baseURL == "" {
		return path
	}
	return h.baseURL + path
}

// RenderedArticle captures the rendered HTML output for an article page.
type RenderedArticle struct {
	ArticleID uuid.UUID
	Slug      string
	Route     string
	Output    string
	Layout    string
	HTML      string
	Metadata  DependencyMetadata
	Duration  time.Duration
	Checksum  string
}

// RenderDiagnostic records rendering timing and errors per article.
type RenderDiagnostic struct {
	ArticleID uuid.UUID
	Slug      string
	Route     string
	Layout    string
	Duration  time.Duration
	Skipped   bool
	Err       error
}

type renderOutcome struct {
	article    RenderedArticle
	diagnostic RenderDiagnostic
	err        error
	skipped    bool
}

// breadcrumbTrail builds the navigation trail for an article: home, the
// first category when present, then the article itself.
func (s *service) breadcrumbTrail(data *ArticleData) []BreadcrumbItem {
	record := data.Article
	trail := []BreadcrumbItem{{Label: "Home", URL: s.permalinks.IndexRoute()}}
	if len(record.Categories) > 0 {
		category := record.Categories[0]
		slug, err := pressarticles.NormalizeSlug(category)
		if err == nil && slug != "" {
			trail = append(trail, BreadcrumbItem{
				Label: category,
				URL:   s.permalinks.CategoryRoute(slug),
			})
		}
	}
	trail = append(trail, BreadcrumbItem{Label: record.Title, URL: data.Route})
	return trail
}
