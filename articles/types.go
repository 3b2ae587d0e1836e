package articles

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Article statuses. Imported documents start as drafts unless the import run
// publishes them; archived articles stay out of every build.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

// Article is the canonical record for a Markdown post. The typed columns
// mirror the recognized metadata header keys; the Markdown body and its
// rendered HTML travel with the record so builds do not need the source tree.
type Article struct {
	bun.BaseModel `bun:"table:articles,alias:a"`

	ID              uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	Slug            string     `bun:"slug,notnull" json:"slug"`
	Title           string     `bun:"title,notnull" json:"title"`
	Layout          string     `bun:"layout,notnull,default:'post'" json:"layout"`
	Status          string     `bun:"status,notnull,default:'draft'" json:"status"`
	Categories      []string   `bun:"categories,type:jsonb" json:"categories,omitempty"`
	Tags            []string   `bun:"tags,type:jsonb" json:"tags,omitempty"`
	MetaDescription string     `bun:"meta_description" json:"meta_description,omitempty"`
	Author          string     `bun:"author" json:"author,omitempty"`
	ShowHeader      bool       `bun:"show_header,notnull,default:true" json:"show_header"`
	ShowBreadcrumb  bool       `bun:"show_breadcrumb,notnull,default:true" json:"show_breadcrumb"`
	Body            string     `bun:"body,notnull" json:"body"`
	BodyHTML        string     `bun:"body_html" json:"body_html,omitempty"`
	SourcePath      string     `bun:"source_path" json:"source_path,omitempty"`
	Checksum        string     `bun:"checksum" json:"checksum,omitempty"`
	PublishedAt     *time.Time `bun:"published_at,nullzero" json:"published_at,omitempty"`
	DeletedAt       *time.Time `bun:"deleted_at,nullzero" json:"deleted_at,omitempty"`
	CreatedAt       time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt       time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// IsPublished reports whether the article belongs in a site build.
func (a *Article) IsPublished() bool {
	return a != nil && a.Status == StatusPublished && a.DeletedAt == nil
}

// Clone returns a deep copy so repositories never hand out shared slices.
func (a *Article) Clone() *Article {
	if a == nil {
		return nil
	}
	copied := *a
	copied.Categories = append([]string(nil), a.Categories...)
	copied.Tags = append([]string(nil), a.Tags...)
	if a.PublishedAt != nil {
		at := *a.PublishedAt
		copied.PublishedAt = &at
	}
	if a.DeletedAt != nil {
		at := *a.DeletedAt
		copied.DeletedAt = &at
	}
	return &copied
}

// ValidStatus reports whether the supplied status is one of the known values.
func ValidStatus(status string) bool {
	switch status {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	default:
		return false
	}
}
