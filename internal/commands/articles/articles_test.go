package articlescmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	pressarticles "github.com/goliatone/go-press/articles"
	internalarticles "github.com/goliatone/go-press/internal/articles"
	"github.com/goliatone/go-press/internal/markdown"
	"github.com/goliatone/go-press/pkg/interfaces"
)

const firstPost = `---
layout: post
title: "First Post"
categories: [engineering]
---

Body of the first post.
`

const secondPost = `---
title: "Second Post"
---

Body of the second post.
`

func writeSourceDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func newMarkdownService(t *testing.T, dir string) interfaces.MarkdownService {
	t.Helper()
	svc, err := markdown.NewService(markdown.Config{BasePath: dir}, nil)
	if err != nil {
		t.Fatalf("markdown service: %v", err)
	}
	return svc
}

func newArticleService() pressarticles.Service {
	return internalarticles.NewService(internalarticles.NewMemoryArticleRepository())
}

func TestImportDirectoryCommandValidate(t *testing.T) {
	if err := (ImportDirectoryCommand{}).Validate(); err == nil {
		t.Fatal("expected missing directory to fail validation")
	}
	if err := (ImportDirectoryCommand{Directory: "content"}).Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestSyncDirectoryCommandValidate(t *testing.T) {
	if err := (SyncDirectoryCommand{}).Validate(); err == nil {
		t.Fatal("expected missing directory to fail validation")
	}
	if err := (SyncDirectoryCommand{Directory: "content", DeleteOrphaned: true}).Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestImportDirectoryHandlerCreatesArticles(t *testing.T) {
	dir := writeSourceDir(t, map[string]string{
		"2020-02-25-first-post.md": firstPost,
		"second-post.md":           secondPost,
	})
	articleService := newArticleService()
	handler := NewImportDirectoryHandler(newMarkdownService(t, dir), articleService, nil, FeatureGates{})

	if err := handler.Execute(context.Background(), ImportDirectoryCommand{Directory: dir}); err != nil {
		t.Fatalf("import failed: %v", err)
	}

	ctx := context.Background()
	first, err := articleService.GetBySlug(ctx, "first-post")
	if err != nil {
		t.Fatalf("first-post not imported: %v", err)
	}
	if first.Title != "First Post" {
		t.Fatalf("unexpected title %q", first.Title)
	}
	if first.Status != pressarticles.StatusDraft {
		t.Fatalf("import without publish should keep drafts, got %q", first.Status)
	}
	if _, err := articleService.GetBySlug(ctx, "second-post"); err != nil {
		t.Fatalf("second-post not imported: %v", err)
	}
}

func TestImportDirectoryHandlerPublish(t *testing.T) {
	dir := writeSourceDir(t, map[string]string{"2020-02-25-first-post.md": firstPost})
	articleService := newArticleService()
	handler := NewImportDirectoryHandler(newMarkdownService(t, dir), articleService, nil, FeatureGates{})

	msg := ImportDirectoryCommand{Directory: dir, Publish: true}
	if err := handler.Execute(context.Background(), msg); err != nil {
		t.Fatalf("import failed: %v", err)
	}

	record, err := articleService.GetBySlug(context.Background(), "first-post")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if record.Status != pressarticles.StatusPublished {
		t.Fatalf("expected published, got %q", record.Status)
	}
	if record.PublishedAt == nil {
		t.Fatal("expected publish date from file name prefix")
	}
}

func TestImportDirectoryHandlerDryRunPersistsNothing(t *testing.T) {
	dir := writeSourceDir(t, map[string]string{"second-post.md": secondPost})
	articleService := newArticleService()
	handler := NewImportDirectoryHandler(newMarkdownService(t, dir), articleService, nil, FeatureGates{})

	msg := ImportDirectoryCommand{Directory: dir, DryRun: true}
	if err := handler.Execute(context.Background(), msg); err != nil {
		t.Fatalf("dry run failed: %v", err)
	}

	if _, err := articleService.GetBySlug(context.Background(), "second-post"); err == nil {
		t.Fatal("dry run must not create articles")
	}
}

func TestSyncDirectoryHandlerDeletesOrphans(t *testing.T) {
	dir := writeSourceDir(t, map[string]string{"second-post.md": secondPost})
	articleService := newArticleService()

	ctx := context.Background()
	if _, err := articleService.Create(ctx, pressarticles.CreateArticleRequest{
		Slug:  "stale-post",
		Title: "Stale Post",
		Body:  "No longer on disk.",
	}); err != nil {
		t.Fatalf("seed article: %v", err)
	}

	handler := NewSyncDirectoryHandler(newMarkdownService(t, dir), articleService, nil, FeatureGates{})
	msg := SyncDirectoryCommand{Directory: dir, DeleteOrphaned: true}
	if err := handler.Execute(ctx, msg); err != nil {
		t.Fatalf("sync failed: %v", err)
	}

	if _, err := articleService.GetBySlug(ctx, "second-post"); err != nil {
		t.Fatalf("synced article missing: %v", err)
	}
	if _, err := articleService.GetBySlug(ctx, "stale-post"); err == nil {
		t.Fatal("orphaned article should have been removed")
	}
}

func TestArticleHandlersHonourFeatureGate(t *testing.T) {
	dir := writeSourceDir(t, map[string]string{"second-post.md": secondPost})
	gates := FeatureGates{ArticlesEnabled: func() bool { return false }}
	handler := NewImportDirectoryHandler(newMarkdownService(t, dir), newArticleService(), nil, gates)

	err := handler.Execute(context.Background(), ImportDirectoryCommand{Directory: dir})
	if !errors.Is(err, ErrArticlesFeatureDisabled) {
		t.Fatalf("expected feature gate error, got %v", err)
	}
}
