package press_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	press "github.com/goliatone/go-press"
	articlescmd "github.com/goliatone/go-press/internal/commands/articles"
	auditcmd "github.com/goliatone/go-press/internal/commands/audit"
	staticcmd "github.com/goliatone/go-press/internal/commands/static"
	"github.com/goliatone/go-press/internal/di"
	ditesting "github.com/goliatone/go-press/internal/di/testing"
)

const fixtureArticle = `---
layout: post
title: "V8's v8: Optional Chaining and Nullish Coalescing"
categories: [javascript]
---

Optional chaining stops lookups at the first missing link:

` + "```js" + `
const street = user?.address?.street;
` + "```" + `

Nullish coalescing keeps falsy-but-valid values like ` + "`0`" + ` intact.
`

func writeFixtureDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	name := "2019-09-12-v8s-v8-optional-chaining-and-nullish-coalescing.md"
	if err := os.WriteFile(filepath.Join(dir, name), []byte(fixtureArticle), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return dir
}

func newModule(t *testing.T, opts ...di.Option) (*press.Module, *ditesting.MemoryStorage) {
	t.Helper()

	cfg := press.DefaultConfig()
	cfg.Content.Dir = writeFixtureDir(t)
	cfg.Site.BaseURL = "https://blog.example.com"
	cfg.Site.Title = "Example Blog"

	store := ditesting.NewMemoryStorage()
	options := append([]di.Option{di.WithGeneratorStorage(store)}, opts...)

	module, err := press.New(cfg, options...)
	if err != nil {
		t.Fatalf("press.New: %v", err)
	}
	return module, store
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := press.DefaultConfig()
	cfg.Content.Dir = " "

	if _, err := press.New(cfg); !errors.Is(err, press.ErrContentDirRequired) {
		t.Fatalf("expected ErrContentDirRequired, got %v", err)
	}
}

func TestModuleImportAuditBuildFlow(t *testing.T) {
	module, store := newModule(t)
	ctx := context.Background()

	cmds, err := module.Commands()
	if err != nil {
		t.Fatalf("Commands: %v", err)
	}

	if err := cmds.AuditRunChecks.Execute(ctx, auditcmd.RunChecksCommand{
		Directory: module.Container().Config.Content.Dir,
	}); err != nil {
		t.Fatalf("audit run: %v", err)
	}

	if err := cmds.ArticlesImport.Execute(ctx, articlescmd.ImportDirectoryCommand{
		Directory: module.Container().Config.Content.Dir,
		Publish:   true,
	}); err != nil {
		t.Fatalf("import: %v", err)
	}

	record, err := module.Articles().GetBySlug(ctx, "v8s-v8-optional-chaining-and-nullish-coalescing")
	if err != nil {
		t.Fatalf("imported article missing: %v", err)
	}
	if record.PublishedAt == nil {
		t.Fatal("expected publish date from file name prefix")
	}
	if !strings.Contains(record.BodyHTML, "<code") {
		t.Fatalf("expected rendered code fences in body HTML, got %q", record.BodyHTML)
	}

	if err := cmds.StaticBuildSite.Execute(ctx, staticcmd.BuildSiteCommand{}); err != nil {
		t.Fatalf("build: %v", err)
	}

	var wrotePost, wroteFeed bool
	for _, call := range store.ExecCalls() {
		if call.Query != "generator.write" || len(call.Args) == 0 {
			continue
		}
		path, _ := call.Args[0].(string)
		if strings.Contains(path, "v8s-v8-optional-chaining-and-nullish-coalescing") {
			wrotePost = true
		}
		if strings.HasSuffix(path, "feed.xml") {
			wroteFeed = true
		}
	}
	if !wrotePost {
		t.Fatal("expected article page to be written")
	}
	if !wroteFeed {
		t.Fatal("expected RSS feed to be written")
	}
}

func TestModuleCommandsFeatureDisabled(t *testing.T) {
	cfg := press.DefaultConfig()
	cfg.Content.Dir = writeFixtureDir(t)
	cfg.Features.Commands = false

	module, err := press.New(cfg)
	if err != nil {
		t.Fatalf("press.New: %v", err)
	}
	if _, err := module.Commands(); !errors.Is(err, press.ErrCommandsFeatureDisabled) {
		t.Fatalf("expected ErrCommandsFeatureDisabled, got %v", err)
	}
}

func TestModuleShutdown(t *testing.T) {
	module, _ := newModule(t)
	if err := module.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
}

type recordingRegistry struct {
	handlers []any
}

func (r *recordingRegistry) RegisterCommand(handler any) error {
	r.handlers = append(r.handlers, handler)
	return nil
}

func TestRegisterCommands(t *testing.T) {
	module, _ := newModule(t)
	registry := &recordingRegistry{}

	result, err := module.RegisterCommands(press.RegistrationOptions{Registry: registry})
	if err != nil {
		t.Fatalf("RegisterCommands: %v", err)
	}
	if len(registry.handlers) != 5 {
		t.Fatalf("expected 5 registered handlers, got %d", len(registry.handlers))
	}
	if result.Commands == nil || result.Commands.StaticBuildSite == nil {
		t.Fatal("expected constructed command set")
	}
}
