package interfaces

import (
	"context"
	"time"
)

// MarkdownParser defines how raw Markdown bytes are converted into HTML.
// Implementations should support reusable parser instances and extension
// toggles so hosts can tailor rendering without rewriting the core service.
type MarkdownParser interface {
	// Parse converts Markdown into HTML using the parser's default settings.
	Parse(markdown []byte) ([]byte, error)
	// ParseWithOptions converts Markdown into HTML using the supplied overrides.
	ParseWithOptions(markdown []byte, opts ParseOptions) ([]byte, error)
}

// ParseOptions customises Markdown parsing behaviour, keeping option names
// readable for configuration unmarshalling and CLI flags.
type ParseOptions struct {
	Extensions []string
	HardWraps  bool
	// Unsafe allows raw HTML blocks through the renderer. Articles are
	// trusted input, so the engine defaults this on.
	Unsafe bool
}

// MarkdownService exposes the high-level file workflows: load Markdown
// documents from disk, split their metadata headers, and convert bodies into
// HTML. Persistence workflows live in the articles service.
type MarkdownService interface {
	Load(ctx context.Context, path string, opts LoadOptions) (*Document, error)
	LoadDirectory(ctx context.Context, dir string, opts LoadOptions) ([]*Document, error)
	Render(ctx context.Context, markdown []byte, opts ParseOptions) ([]byte, error)
	RenderDocument(ctx context.Context, doc *Document, opts ParseOptions) ([]byte, error)
}

// Document represents a Markdown file with parsed metadata and content. The
// struct is shared between the interfaces package and internal
// implementations so consumers can depend on a stable contract.
type Document struct {
	FilePath     string
	FrontMatter  FrontMatter
	Body         []byte
	BodyHTML     []byte
	LastModified time.Time
	// Checksum stores a digest of the original file content (SHA-256) so
	// import workflows can detect changes without re-reading unchanged files.
	Checksum []byte
}

// FrontMatter models the metadata header of an article. The recognized key
// set is fixed: layout, title, categories, tags, header, breadcrumb,
// meta_description and author. Header values outside that set never fail
// parsing; they are preserved in Custom and ignored by consumers.
type FrontMatter struct {
	Layout          string         `yaml:"layout" json:"layout"`
	Title           string         `yaml:"title" json:"title"`
	Categories      []string       `yaml:"categories" json:"categories"`
	Tags            []string       `yaml:"tags" json:"tags"`
	Header          *bool          `yaml:"header" json:"header,omitempty"`
	Breadcrumb      *bool          `yaml:"breadcrumb" json:"breadcrumb,omitempty"`
	MetaDescription string         `yaml:"meta_description" json:"meta_description"`
	Author          string         `yaml:"author" json:"author"`
	Custom          map[string]any `yaml:"-" json:"custom,omitempty"`
	// Raw preserves the original header mapping with its original value
	// shapes so integrity checks can inspect what the author actually wrote.
	Raw map[string]any `yaml:"-" json:"raw,omitempty"`
}

// ShowHeader reports whether the page header should render. Missing keys
// default to true; only an explicit `header: false` hides it.
func (fm FrontMatter) ShowHeader() bool {
	if fm.Header == nil {
		return true
	}
	return *fm.Header
}

// ShowBreadcrumb reports whether the breadcrumb trail should render. Missing
// keys default to true.
func (fm FrontMatter) ShowBreadcrumb() bool {
	if fm.Breadcrumb == nil {
		return true
	}
	return *fm.Breadcrumb
}

// LayoutOrDefault returns the declared layout, or fallback when the header
// omits one.
func (fm FrontMatter) LayoutOrDefault(fallback string) string {
	if fm.Layout == "" {
		return fallback
	}
	return fm.Layout
}

// LoadOptions fine-tunes how documents are discovered and parsed from disk.
type LoadOptions struct {
	Recursive *bool
	Pattern   string
	Parser    ParseOptions
}
