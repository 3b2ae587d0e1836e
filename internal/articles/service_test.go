package articles_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	pressarticles "github.com/goliatone/go-press/articles"
	"github.com/goliatone/go-press/internal/articles"
	"github.com/goliatone/go-press/internal/identity"
)

func fixedClock() time.Time {
	return time.Date(2020, 2, 26, 10, 0, 0, 0, time.UTC)
}

func newTestService(tb testing.TB) (articles.Service, *articles.MemoryArticleRepository) {
	tb.Helper()
	repo := articles.NewMemoryArticleRepository()
	svc := articles.NewService(repo, articles.WithClock(fixedClock))
	return svc, repo
}

func createRequest(slug, title string) articles.CreateArticleRequest {
	return articles.CreateArticleRequest{
		Slug:       slug,
		Title:      title,
		Categories: []string{"javascript", "v8"},
		Tags:       []string{"es2020", "operators"},
		Author:     "goliatone",
		Body:       "Optional chaining stops at the first nullish link.",
	}
}

func TestServiceCreateSuccess(t *testing.T) {
	svc, _ := newTestService(t)

	record, err := svc.Create(context.Background(), createRequest("optional-chaining", "Optional Chaining"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if record.Slug != "optional-chaining" {
		t.Fatalf("expected slug %q got %q", "optional-chaining", record.Slug)
	}
	if record.ID != identity.ArticleUUID("optional-chaining") {
		t.Errorf("expected the deterministic article id, got %s", record.ID)
	}
	if record.Layout != "post" {
		t.Errorf("expected default layout post, got %q", record.Layout)
	}
	if record.Status != articles.StatusDraft {
		t.Errorf("expected draft status, got %q", record.Status)
	}
	if !record.ShowHeader || !record.ShowBreadcrumb {
		t.Error("header and breadcrumb should default to visible")
	}
	if record.PublishedAt != nil {
		t.Error("draft articles should not carry a publish timestamp")
	}
	if !record.CreatedAt.Equal(fixedClock()) {
		t.Errorf("expected clock-stamped created_at, got %s", record.CreatedAt)
	}
}

func TestServiceCreateDuplicateSlug(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, createRequest("nullish-coalescing", "Nullish Coalescing")); err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err := svc.Create(ctx, createRequest("nullish-coalescing", "Another Take"))
	if !errors.Is(err, articles.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
	var exists *pressarticles.AlreadyExistsError
	if !errors.As(err, &exists) {
		t.Fatalf("expected AlreadyExistsError, got %T", err)
	}
	if exists.Slug != "nullish-coalescing" {
		t.Errorf("expected the conflicting slug, got %q", exists.Slug)
	}
}

func TestServiceCreateValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name string
		req  articles.CreateArticleRequest
		want error
	}{
		{
			name: "missing slug",
			req:  articles.CreateArticleRequest{Title: "T", Body: "b"},
			want: articles.ErrSlugRequired,
		},
		{
			name: "invalid slug",
			req:  articles.CreateArticleRequest{Slug: "not a slug", Title: "T", Body: "b"},
			want: articles.ErrSlugInvalid,
		},
		{
			name: "missing title",
			req:  articles.CreateArticleRequest{Slug: "valid-slug", Body: "b"},
			want: articles.ErrTitleRequired,
		},
		{
			name: "missing body",
			req:  articles.CreateArticleRequest{Slug: "valid-slug", Title: "T"},
			want: articles.ErrBodyRequired,
		},
		{
			name: "unknown status",
			req:  articles.CreateArticleRequest{Slug: "valid-slug", Title: "T", Body: "b", Status: "pending"},
			want: articles.ErrStatusInvalid,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, tc.req); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestServiceGetBySlugNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GetBySlug(context.Background(), "missing")
	if !errors.Is(err, articles.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestServiceListFilters(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	draft := createRequest("draft-post", "Draft Post")
	draft.Categories = []string{"javascript"}
	if _, err := svc.Create(ctx, draft); err != nil {
		t.Fatalf("create draft: %v", err)
	}

	published := createRequest("published-post", "Published Post")
	published.Status = articles.StatusPublished
	published.Categories = []string{"v8"}
	published.Tags = []string{"engines"}
	if _, err := svc.Create(ctx, published); err != nil {
		t.Fatalf("create published: %v", err)
	}

	all, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(all))
	}

	publishedOnly, err := svc.List(ctx, pressarticles.WithPublishedOnly())
	if err != nil {
		t.Fatalf("list published: %v", err)
	}
	if len(publishedOnly) != 1 || publishedOnly[0].Slug != "published-post" {
		t.Fatalf("expected the published article, got %+v", publishedOnly)
	}

	drafts, err := svc.List(ctx, pressarticles.WithStatus(articles.StatusDraft))
	if err != nil {
		t.Fatalf("list drafts: %v", err)
	}
	if len(drafts) != 1 || drafts[0].Slug != "draft-post" {
		t.Fatalf("expected the draft article, got %+v", drafts)
	}

	byCategory, err := svc.List(ctx, pressarticles.WithCategory("JavaScript"))
	if err != nil {
		t.Fatalf("list by category: %v", err)
	}
	if len(byCategory) != 1 || byCategory[0].Slug != "draft-post" {
		t.Fatalf("expected category filtering to fold case, got %+v", byCategory)
	}

	byTag, err := svc.List(ctx, pressarticles.WithTag("engines"))
	if err != nil {
		t.Fatalf("list by tag: %v", err)
	}
	if len(byTag) != 1 || byTag[0].Slug != "published-post" {
		t.Fatalf("expected tag filtering, got %+v", byTag)
	}
}

func TestServicePublishLifecycle(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	record, err := svc.Create(ctx, createRequest("lifecycle", "Lifecycle"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	published, err := svc.Publish(ctx, articles.PublishArticleRequest{ID: record.ID})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if published.Status != articles.StatusPublished {
		t.Fatalf("expected published status, got %q", published.Status)
	}
	if published.PublishedAt == nil || !published.PublishedAt.Equal(fixedClock()) {
		t.Fatalf("expected clock-stamped publish time, got %v", published.PublishedAt)
	}

	if _, err := svc.Publish(ctx, articles.PublishArticleRequest{ID: record.ID}); !errors.Is(err, articles.ErrAlreadyPublished) {
		t.Fatalf("expected ErrAlreadyPublished, got %v", err)
	}

	unpublished, err := svc.Unpublish(ctx, record.ID)
	if err != nil {
		t.Fatalf("unpublish: %v", err)
	}
	if unpublished.Status != articles.StatusDraft || unpublished.PublishedAt != nil {
		t.Fatalf("expected a clean draft after unpublish, got %+v", unpublished)
	}

	if _, err := svc.Unpublish(ctx, record.ID); !errors.Is(err, articles.ErrNotPublished) {
		t.Fatalf("expected ErrNotPublished, got %v", err)
	}
}

func TestServiceUpdatePartial(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	record, err := svc.Create(ctx, createRequest("partial-update", "Original Title"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	title := "Fresh Title"
	updated, err := svc.Update(ctx, articles.UpdateArticleRequest{ID: record.ID, Title: &title})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != title {
		t.Fatalf("expected title %q, got %q", title, updated.Title)
	}
	if len(updated.Categories) != 2 {
		t.Fatalf("nil categories should leave stored values untouched, got %+v", updated.Categories)
	}

	cleared, err := svc.Update(ctx, articles.UpdateArticleRequest{ID: record.ID, Categories: []string{}})
	if err != nil {
		t.Fatalf("update clear: %v", err)
	}
	if len(cleared.Categories) != 0 {
		t.Fatalf("an empty slice should clear categories, got %+v", cleared.Categories)
	}
}

func TestServiceDeleteSoftAndHard(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	record, err := svc.Create(ctx, createRequest("deletable", "Deletable"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(ctx, articles.DeleteArticleRequest{ID: record.ID}); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	visible, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(visible) != 0 {
		t.Fatalf("soft deleted articles should be hidden, got %+v", visible)
	}

	withDeleted, err := svc.List(ctx, pressarticles.WithDeleted())
	if err != nil {
		t.Fatalf("list with deleted: %v", err)
	}
	if len(withDeleted) != 1 || withDeleted[0].DeletedAt == nil {
		t.Fatalf("expected the soft deleted article, got %+v", withDeleted)
	}

	if err := svc.Delete(ctx, articles.DeleteArticleRequest{ID: record.ID, HardDelete: true}); err != nil {
		t.Fatalf("hard delete: %v", err)
	}
	if _, err := svc.Get(ctx, record.ID); !errors.Is(err, articles.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after hard delete, got %v", err)
	}
}

func TestServiceGetRequiresID(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.Get(context.Background(), uuid.Nil); !errors.Is(err, articles.ErrIDRequired) {
		t.Fatalf("expected ErrIDRequired, got %v", err)
	}
}
