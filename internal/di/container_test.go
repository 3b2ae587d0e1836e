package di_test

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goliatone/go-press/internal/di"
	ditesting "github.com/goliatone/go-press/internal/di/testing"
	"github.com/goliatone/go-press/internal/generator"
	"github.com/goliatone/go-press/internal/runtimeconfig"
	"github.com/goliatone/go-press/pkg/interfaces"
	pressarticles "github.com/goliatone/go-press/articles"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

func testConfig(t *testing.T) runtimeconfig.Config {
	t.Helper()
	dir := t.TempDir()
	article := `---
title: "Container Post"
---

Body text.
`
	if err := os.WriteFile(filepath.Join(dir, "2020-02-25-container-post.md"), []byte(article), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg := runtimeconfig.DefaultConfig()
	cfg.Content.Dir = dir
	cfg.Site.BaseURL = "https://example.com"
	return cfg
}

func TestContainer_MarkdownServiceLoadsContent(t *testing.T) {
	c := di.NewContainer(testConfig(t))

	svc, err := c.MarkdownService()
	if err != nil {
		t.Fatalf("MarkdownService: %v", err)
	}

	docs, err := svc.LoadDirectory(context.Background(), ".", interfaces.LoadOptions{})
	if err != nil {
		t.Fatalf("LoadDirectory: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected 1 document, got %d", len(docs))
	}
	if docs[0].FrontMatter.Title != "Container Post" {
		t.Fatalf("unexpected title %q", docs[0].FrontMatter.Title)
	}
}

func TestContainer_MarkdownServiceFailsForMissingDir(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Content.Dir = filepath.Join(t.TempDir(), "missing")

	c := di.NewContainer(cfg)
	if _, err := c.MarkdownService(); err == nil {
		t.Fatal("expected error for missing content directory")
	}
}

func TestContainer_AuditServiceSharesContentRoot(t *testing.T) {
	c := di.NewContainer(testConfig(t))

	svc, err := c.AuditService()
	if err != nil {
		t.Fatalf("AuditService: %v", err)
	}

	reports, err := svc.RunDirectory(context.Background(), ".", interfaces.AuditOptions{})
	if err != nil {
		t.Fatalf("RunDirectory: %v", err)
	}
	if len(reports) != 1 {
		t.Fatalf("expected one audited document, got %d", len(reports))
	}
}

func TestContainer_ArticleServiceDefaultsToMemory(t *testing.T) {
	c := di.NewContainer(testConfig(t))

	svc := c.ArticleService()
	ctx := context.Background()
	created, err := svc.Create(ctx, pressarticles.CreateArticleRequest{
		Slug:  "hello",
		Title: "Hello",
		Body:  "World",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	found, err := svc.GetBySlug(ctx, "hello")
	if err != nil {
		t.Fatalf("GetBySlug: %v", err)
	}
	if found.ID != created.ID {
		t.Fatal("expected stable identity across lookups")
	}

	// Same instance on repeat access.
	if c.ArticleService() != svc {
		t.Fatal("expected memoized article service")
	}
}

func TestContainer_GeneratorDisabledByFeatureFlag(t *testing.T) {
	cfg := testConfig(t)
	cfg.Features.Generator = false

	c := di.NewContainer(cfg)
	svc := c.GeneratorService()
	if _, err := svc.Build(context.Background(), generator.BuildOptions{}); !errors.Is(err, generator.ErrServiceDisabled) {
		t.Fatalf("expected ErrServiceDisabled, got %v", err)
	}
}

func TestContainer_GeneratorBuildsThroughInjectedStorage(t *testing.T) {
	cfg := testConfig(t)
	c, store := ditesting.NewGeneratorContainer(cfg)

	articleSvc := c.ArticleService()
	published := time.Date(2020, 2, 25, 12, 0, 0, 0, time.UTC)
	if _, err := articleSvc.Create(context.Background(), pressarticles.CreateArticleRequest{
		Slug:        "container-post",
		Title:       "Container Post",
		Body:        "Body text.",
		BodyHTML:    "<p>Body text.</p>",
		Status:      pressarticles.StatusPublished,
		PublishedAt: &published,
	}); err != nil {
		t.Fatalf("seed article: %v", err)
	}

	result, err := c.GeneratorService().Build(context.Background(), generator.BuildOptions{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if result.ArticlesBuilt != 1 {
		t.Fatalf("expected one article built, got %d", result.ArticlesBuilt)
	}
	if len(store.ExecCalls()) == 0 {
		t.Fatal("expected artifacts to flow through injected storage")
	}
}

func TestContainer_WithBunDBWiresSQLStorage(t *testing.T) {
	sqldb, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { sqldb.Close() })
	db := bun.NewDB(sqldb, sqlitedialect.New())

	c := di.NewContainer(testConfig(t), di.WithBunDB(db))

	ctx := context.Background()
	storage := c.StorageProvider()
	if _, err := storage.Exec(ctx, "CREATE TABLE press_build_marks (n INTEGER)"); err != nil {
		t.Fatalf("create table: %v", err)
	}
	err = storage.Transaction(ctx, func(tx interfaces.Transaction) error {
		_, txErr := tx.Exec(ctx, "INSERT INTO press_build_marks (n) VALUES (?)", 1)
		return txErr
	})
	if err != nil {
		t.Fatalf("transaction: %v", err)
	}

	rows, err := storage.Query(ctx, "SELECT n FROM press_build_marks")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	defer rows.Close()
	count := 0
	for rows.Next() {
		count++
	}
	if count != 1 {
		t.Fatalf("expected one committed row, got %d", count)
	}
}

func TestContainer_WithClockAndIDGenerator(t *testing.T) {
	fixed := time.Date(2019, 9, 12, 0, 0, 0, 0, time.UTC)
	c := di.NewContainer(testConfig(t),
		di.WithClock(func() time.Time { return fixed }),
	)

	created, err := c.ArticleService().Create(context.Background(), pressarticles.CreateArticleRequest{
		Slug:  "clock-post",
		Title: "Clock Post",
		Body:  "Body.",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !created.CreatedAt.Equal(fixed) {
		t.Fatalf("expected injected clock to stamp records, got %v", created.CreatedAt)
	}
}
