package templates_test

import (
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-press/internal/adapters/templates"
	"github.com/goliatone/go-press/internal/generator"
	"github.com/goliatone/go-press/pkg/interfaces"

	"github.com/goliatone/go-press/internal/articles"
)

func TestEmbeddedPostLayoutRenders(t *testing.T) {
	renderer := templates.New()
	record := &articles.Article{
		Slug:            "optional-chaining",
		Title:           "V8's V8: Optional Chaining and Nullish Coalescing",
		Author:          "Justin Ribeiro",
		MetaDescription: "Two new JavaScript features.",
		ShowHeader:      true,
		ShowBreadcrumb:  true,
		BodyHTML:        "<p>Optional chaining keeps access chains safe.</p>",
	}
	ctx := generator.TemplateContext{
		Site: generator.SiteMetadata{Title: "Example Blog", BaseURL: "https://example.com"},
		Article: generator.ArticleRenderingContext{
			Article:        record,
			Content:        template.HTML(record.BodyHTML),
			ShowHeader:     true,
			ShowBreadcrumb: true,
			Breadcrumb: []generator.BreadcrumbItem{
				{Label: "Home", URL: "/"},
				{Label: record.Title, URL: "/posts/optional-chaining"},
			},
			Permalink: "https://example.com/posts/optional-chaining",
		},
	}

	html, err := renderer.RenderTemplate("post", ctx)
	if err != nil {
		t.Fatalf("RenderTemplate returned error: %v", err)
	}
	if !strings.Contains(html, "Optional Chaining and Nullish Coalescing") {
		t.Fatalf("expected rendered title, got: %s", html)
	}
	if !strings.Contains(html, "<p>Optional chaining keeps access chains safe.</p>") {
		t.Fatal("expected body HTML to pass through unescaped")
	}
	if !strings.Contains(html, "V8&#39;s V8") {
		t.Fatal("expected apostrophe in title to survive escaping")
	}
}

func TestEmbeddedIndexLayoutRenders(t *testing.T) {
	renderer := templates.New()
	ctx := generator.IndexContext{
		Site: generator.SiteMetadata{Title: "Example Blog", Description: "Notes on the web platform"},
		Entries: []generator.IndexEntry{
			{Title: "First Post", Permalink: "https://example.com/posts/first-post"},
			{Title: "Second Post", Permalink: "https://example.com/posts/second-post"},
		},
	}
	html, err := renderer.RenderTemplate("index", ctx)
	if err != nil {
		t.Fatalf("RenderTemplate returned error: %v", err)
	}
	for _, want := range []string{"First Post", "Second Post", "Notes on the web platform"} {
		if !strings.Contains(html, want) {
			t.Fatalf("index output missing %q", want)
		}
	}
}

func TestDirectoryOverrideShadowsEmbeddedLayout(t *testing.T) {
	dir := t.TempDir()
	custom := `<html><body class="custom">{{ .Article.Article.Title }}</body></html>`
	if err := os.WriteFile(filepath.Join(dir, "post.tmpl"), []byte(custom), 0o644); err != nil {
		t.Fatalf("writing custom layout: %v", err)
	}

	renderer := templates.New(templates.WithDirectory(dir))
	ctx := generator.TemplateContext{
		Article: generator.ArticleRenderingContext{
			Article: &articles.Article{Title: "Override Me"},
		},
	}
	html, err := renderer.RenderTemplate("post", ctx)
	if err != nil {
		t.Fatalf("RenderTemplate returned error: %v", err)
	}
	if !strings.Contains(html, `class="custom"`) {
		t.Fatalf("expected custom layout to win, got: %s", html)
	}
}

func TestUnknownLayoutFails(t *testing.T) {
	renderer := templates.New()
	if _, err := renderer.RenderTemplate("missing-layout", nil); err == nil {
		t.Fatal("expected unknown layout to fail")
	}
}

func TestRenderString(t *testing.T) {
	renderer := templates.New()
	out, err := renderer.RenderString(`Hello {{ .Name }}`, map[string]any{"Name": "press"})
	if err != nil {
		t.Fatalf("RenderString returned error: %v", err)
	}
	if out != "Hello press" {
		t.Fatalf("unexpected output %q", out)
	}
}

var _ interfaces.TemplateRenderer = templates.New()
