package articles

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-press/pkg/interfaces"
)

// Service exposes the article publishing use cases: CRUD over persisted
// articles plus the import and sync workflows that keep storage aligned with
// a Markdown source tree.
type Service interface {
	Create(ctx context.Context, req CreateArticleRequest) (*Article, error)
	Get(ctx context.Context, id uuid.UUID) (*Article, error)
	GetBySlug(ctx context.Context, slug string) (*Article, error)
	List(ctx context.Context, opts ...ListOption) ([]*Article, error)
	Update(ctx context.Context, req UpdateArticleRequest) (*Article, error)
	Delete(ctx context.Context, req DeleteArticleRequest) error
	Publish(ctx context.Context, req PublishArticleRequest) (*Article, error)
	Unpublish(ctx context.Context, id uuid.UUID) (*Article, error)
	ImportDocument(ctx context.Context, doc *interfaces.Document, opts ImportOptions) (*ImportResult, error)
	ImportDocuments(ctx context.Context, docs []*interfaces.Document, opts ImportOptions) (*ImportResult, error)
	SyncDocuments(ctx context.Context, docs []*interfaces.Document, opts SyncOptions) (*SyncResult, error)
}

// ListOption configures list behavior. It is an alias to string so options
// serialize cleanly through command payloads.
type ListOption = string

const (
	listPublishedOnly  ListOption = "articles:list:published_only"
	listIncludeDeleted ListOption = "articles:list:include_deleted"
	listStatusPrefix   ListOption = "articles:list:status:"
	listCategoryPrefix ListOption = "articles:list:category:"
	listTagPrefix      ListOption = "articles:list:tag:"
)

// WithPublishedOnly restricts listing to published articles.
func WithPublishedOnly() ListOption {
	return listPublishedOnly
}

// WithDeleted includes soft-deleted articles in listings.
func WithDeleted() ListOption {
	return listIncludeDeleted
}

// WithStatus filters listings by article status.
func WithStatus(status string) ListOption {
	normalized := strings.ToLower(strings.TrimSpace(status))
	if normalized == "" {
		return ""
	}
	return ListOption(string(listStatusPrefix) + normalized)
}

// WithCategory filters listings to articles carrying the category.
func WithCategory(category string) ListOption {
	normalized := strings.ToLower(strings.TrimSpace(category))
	if normalized == "" {
		return ""
	}
	return ListOption(string(listCategoryPrefix) + normalized)
}

// WithTag filters listings to articles carrying the tag.
func WithTag(tag string) ListOption {
	normalized := strings.ToLower(strings.TrimSpace(tag))
	if normalized == "" {
		return ""
	}
	return ListOption(string(listTagPrefix) + normalized)
}

// CreateArticleRequest captures the information required to create an article.
// ID is optional; when nil the service derives a deterministic identifier
// from the slug.
type CreateArticleRequest struct {
	ID              uuid.UUID
	Slug            string
	Title           string
	Layout          string
	Status          string
	Categories      []string
	Tags            []string
	MetaDescription string
	Author          string
	ShowHeader      *bool
	ShowBreadcrumb  *bool
	Body            string
	BodyHTML        string
	SourcePath      string
	Checksum        string
	PublishedAt     *time.Time
}

// UpdateArticleRequest captures mutable fields for an existing article. Nil
// pointers leave the stored value untouched; nil slices do the same so a
// partial update never wipes categories or tags.
type UpdateArticleRequest struct {
	ID              uuid.UUID
	Title           *string
	Layout          *string
	Status          *string
	Categories      []string
	Tags            []string
	MetaDescription *string
	Author          *string
	ShowHeader      *bool
	ShowBreadcrumb  *bool
	Body            *string
	BodyHTML        *string
	SourcePath      *string
	Checksum        *string
	PublishedAt     *time.Time
}

// DeleteArticleRequest captures the information required to remove an article.
type DeleteArticleRequest struct {
	ID         uuid.UUID
	HardDelete bool
}

// PublishArticleRequest moves an article to the published status.
// PublishedAt defaults to the service clock when nil.
type PublishArticleRequest struct {
	ID          uuid.UUID
	PublishedAt *time.Time
}

// ImportOptions tunes how loaded documents are persisted.
type ImportOptions struct {
	// Publish marks imported articles as published instead of draft.
	Publish bool
	// DryRun reports what an import would do without persisting changes.
	DryRun bool
}

// SyncOptions extends import with orphan handling for full-tree syncs.
type SyncOptions struct {
	ImportOptions
	// DeleteOrphaned removes stored articles whose slug no longer appears in
	// the document set.
	DeleteOrphaned bool
}

// ImportResult records the outcome of an import run.
type ImportResult struct {
	CreatedIDs []uuid.UUID `json:"created_ids"`
	UpdatedIDs []uuid.UUID `json:"updated_ids"`
	SkippedIDs []uuid.UUID `json:"skipped_ids"`
	Errors     []error     `json:"-"`
}

// Created returns the number of created articles.
func (r *ImportResult) Created() int { return len(r.CreatedIDs) }

// Updated returns the number of updated articles.
func (r *ImportResult) Updated() int { return len(r.UpdatedIDs) }

// Skipped returns the number of unchanged articles.
func (r *ImportResult) Skipped() int { return len(r.SkippedIDs) }

// SyncResult aggregates counts for a full synchronization run.
type SyncResult struct {
	Created int     `json:"created"`
	Updated int     `json:"updated"`
	Skipped int     `json:"skipped"`
	Deleted int     `json:"deleted"`
	Errors  []error `json:"-"`
}
