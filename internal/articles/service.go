package articles

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	pressarticles "github.com/goliatone/go-press/articles"
	"github.com/goliatone/go-press/internal/identity"
	"github.com/goliatone/go-press/internal/logging"
	"github.com/goliatone/go-press/pkg/interfaces"
)

// IDGenerator derives an article identifier from its slug. The default keeps
// repeated imports of the same source file idempotent.
type IDGenerator func(slug string) uuid.UUID

// ServiceOption configures the service at construction time.
type ServiceOption func(*service)

// WithClock overrides the clock used to stamp records.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithIDGenerator overrides how article identifiers are derived.
func WithIDGenerator(generator IDGenerator) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.id = generator
		}
	}
}

// WithLogger attaches a logger for article lifecycle telemetry.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// service implements the public articles.Service contract.
type service struct {
	repo   Repository
	now    func() time.Time
	id     IDGenerator
	logger interfaces.Logger
}

// NewService constructs an article service over the supplied repository.
func NewService(repo Repository, opts ...ServiceOption) Service {
	s := &service{
		repo:   repo,
		now:    time.Now,
		id:     identity.ArticleUUID,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates the request and persists a new article.
func (s *service) Create(ctx context.Context, req CreateArticleRequest) (*Article, error) {
	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		return nil, ErrSlugRequired
	}
	if !pressarticles.IsValidSlug(slug) {
		return nil, ErrSlugInvalid
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if strings.TrimSpace(req.Body) == "" {
		return nil, ErrBodyRequired
	}
	status := chooseStatus(req.Status)
	if !pressarticles.ValidStatus(status) {
		return nil, ErrStatusInvalid
	}

	if existing, err := s.repo.GetBySlug(ctx, slug); err == nil && existing != nil {
		return nil, &AlreadyExistsError{Slug: slug, ExistingID: existing.ID}
	} else if err != nil {
		var notFound *NotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	now := s.now()
	id := req.ID
	if id == uuid.Nil {
		id = s.id(slug)
	}

	record := &Article{
		ID:              id,
		Slug:            slug,
		Title:           title,
		Layout:          layoutOrDefault(req.Layout),
		Status:          status,
		Categories:      normalizeLabels(req.Categories),
		Tags:            normalizeLabels(req.Tags),
		MetaDescription: strings.TrimSpace(req.MetaDescription),
		Author:          strings.TrimSpace(req.Author),
		ShowHeader:      boolOrTrue(req.ShowHeader),
		ShowBreadcrumb:  boolOrTrue(req.ShowBreadcrumb),
		Body:            req.Body,
		BodyHTML:        req.BodyHTML,
		SourcePath:      req.SourcePath,
		Checksum:        req.Checksum,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if status == StatusPublished {
		at := now
		if req.PublishedAt != nil {
			at = req.PublishedAt.UTC()
		}
		record.PublishedAt = &at
	}

	created, err := s.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	s.logger.Info("article created",
		"article_id", created.ID.String(),
		"slug", created.Slug,
		"status", created.Status,
	)
	return created, nil
}

// Get fetches an article by identifier.
func (s *service) Get(ctx context.Context, id uuid.UUID) (*Article, error) {
	if id == uuid.Nil {
		return nil, ErrIDRequired
	}
	return s.repo.GetByID(ctx, id)
}

// GetBySlug fetches an article by slug.
func (s *service) GetBySlug(ctx context.Context, slug string) (*Article, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, ErrSlugRequired
	}
	return s.repo.GetBySlug(ctx, slug)
}

// List returns stored articles after applying the supplied filters. Soft
// deleted records stay hidden unless explicitly requested.
func (s *service) List(ctx context.Context, opts ...ListOption) ([]*Article, error) {
	filter := parseListOptions(opts...)
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*Article, 0, len(records))
	for _, record := range records {
		if filter.matches(record) {
			out = append(out, record)
		}
	}
	return out, nil
}

// Update applies the non-nil request fields to the stored article.
func (s *service) Update(ctx context.Context, req UpdateArticleRequest) (*Article, error) {
	if req.ID == uuid.Nil {
		return nil, ErrIDRequired
	}
	record, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		record.Title = title
	}
	if req.Layout != nil {
		record.Layout = layoutOrDefault(*req.Layout)
	}
	if req.Status != nil {
		status := chooseStatus(*req.Status)
		if !pressarticles.ValidStatus(status) {
			return nil, ErrStatusInvalid
		}
		record.Status = status
		if status != StatusPublished {
			record.PublishedAt = nil
		}
	}
	if req.Categories != nil {
		record.Categories = normalizeLabels(req.Categories)
	}
	if req.Tags != nil {
		record.Tags = normalizeLabels(req.Tags)
	}
	if req.MetaDescription != nil {
		record.MetaDescription = strings.TrimSpace(*req.MetaDescription)
	}
	if req.Author != nil {
		record.Author = strings.TrimSpace(*req.Author)
	}
	if req.ShowHeader != nil {
		record.ShowHeader = *req.ShowHeader
	}
	if req.ShowBreadcrumb != nil {
		record.ShowBreadcrumb = *req.ShowBreadcrumb
	}
	if req.Body != nil {
		if strings.TrimSpace(*req.Body) == "" {
			return nil, ErrBodyRequired
		}
		record.Body = *req.Body
	}
	if req.BodyHTML != nil {
		record.BodyHTML = *req.BodyHTML
	}
	if req.SourcePath != nil {
		record.SourcePath = strings.TrimSpace(*req.SourcePath)
	}
	if req.Checksum != nil {
		record.Checksum = strings.TrimSpace(*req.Checksum)
	}
	if req.PublishedAt != nil && record.Status == StatusPublished {
		at := req.PublishedAt.UTC()
		record.PublishedAt = &at
	}
	record.UpdatedAt = s.now()

	updated, err := s.repo.Update(ctx, record)
	if err != nil {
		return nil, err
	}
	s.logger.Info("article updated",
		"article_id", updated.ID.String(),
		"slug", updated.Slug,
	)
	return updated, nil
}

// Delete soft deletes by default; HardDelete removes the record entirely.
func (s *service) Delete(ctx context.Context, req DeleteArticleRequest) error {
	if req.ID == uuid.Nil {
		return ErrIDRequired
	}
	if req.HardDelete {
		if err := s.repo.Delete(ctx, req.ID); err != nil {
			return err
		}
		s.logger.Info("article deleted", "article_id", req.ID.String(), "hard_delete", true)
		return nil
	}

	record, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		return err
	}
	now := s.now()
	record.DeletedAt = &now
	record.UpdatedAt = now
	if _, err := s.repo.Update(ctx, record); err != nil {
		return err
	}
	s.logger.Info("article deleted", "article_id", req.ID.String(), "hard_delete", false)
	return nil
}

// Publish transitions an article to the published status.
func (s *service) Publish(ctx context.Context, req PublishArticleRequest) (*Article, error) {
	if req.ID == uuid.Nil {
		return nil, ErrIDRequired
	}
	record, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if record.Status == StatusPublished {
		return nil, ErrAlreadyPublished
	}

	now := s.now()
	at := now
	if req.PublishedAt != nil {
		at = req.PublishedAt.UTC()
	}
	record.Status = StatusPublished
	record.PublishedAt = &at
	record.UpdatedAt = now

	published, err := s.repo.Update(ctx, record)
	if err != nil {
		return nil, err
	}
	s.logger.Info("article published",
		"article_id", published.ID.String(),
		"slug", published.Slug,
		"publish_at", at.Format(time.RFC3339),
	)
	return published, nil
}

// Unpublish returns a published article to draft.
func (s *service) Unpublish(ctx context.Context, id uuid.UUID) (*Article, error) {
	if id == uuid.Nil {
		return nil, ErrIDRequired
	}
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.Status != StatusPublished {
		return nil, ErrNotPublished
	}

	record.Status = StatusDraft
	record.PublishedAt = nil
	record.UpdatedAt = s.now()

	unpublished, err := s.repo.Update(ctx, record)
	if err != nil {
		return nil, err
	}
	s.logger.Info("article unpublished",
		"article_id", unpublished.ID.String(),
		"slug", unpublished.Slug,
	)
	return unpublished, nil
}

func chooseStatus(status string) string {
	status = strings.ToLower(strings.TrimSpace(status))
	if status == "" {
		return StatusDraft
	}
	return status
}

func layoutOrDefault(layout string) string {
	layout = strings.TrimSpace(layout)
	if layout == "" {
		return "post"
	}
	return layout
}

func boolOrTrue(value *bool) bool {
	if value == nil {
		return true
	}
	return *value
}

func normalizeLabels(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
