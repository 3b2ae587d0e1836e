package generator

import (
	"testing"

	urlkit "github.com/goliatone/go-urlkit"
)

func siteRouteManager(t *testing.T) *urlkit.RouteManager {
	t.Helper()
	return urlkit.NewRouteManager(&urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    "site",
				BaseURL: "https://blog.example.com",
				Paths: map[string]string{
					"article":  "/writing/:slug",
					"category": "/topics/:slug",
					"index":    "/writing",
				},
			},
		},
	})
}

func TestPermalinkResolverUsesConfiguredRoutes(t *testing.T) {
	resolver := newPermalinkResolver(siteRouteManager(t))

	if got := resolver.ArticleRoute("optional-chaining"); got != "/writing/optional-chaining" {
		t.Fatalf("unexpected article route %q", got)
	}
	if got := resolver.CategoryRoute("javascript"); got != "/topics/javascript" {
		t.Fatalf("unexpected category route %q", got)
	}
	if got := resolver.IndexRoute(); got != "/writing" {
		t.Fatalf("unexpected index route %q", got)
	}
}

func TestPermalinkResolverFallsBackWithoutManager(t *testing.T) {
	resolver := newPermalinkResolver(nil)

	if got := resolver.ArticleRoute("optional-chaining"); got != "/posts/optional-chaining" {
		t.Fatalf("unexpected fallback article route %q", got)
	}
	if got := resolver.CategoryRoute("javascript"); got != "/categories/javascript" {
		t.Fatalf("unexpected fallback category route %q", got)
	}
	if got := resolver.IndexRoute(); got != "/" {
		t.Fatalf("unexpected fallback index route %q", got)
	}
}

func TestPermalinkResolverFallsBackForUnknownGroup(t *testing.T) {
	manager := urlkit.NewRouteManager(&urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    "admin",
				BaseURL: "https://blog.example.com",
				Paths: map[string]string{
					"article": "/admin/:slug",
				},
			},
		},
	})
	resolver := newPermalinkResolver(manager)

	if got := resolver.ArticleRoute("optional-chaining"); got != "/posts/optional-chaining" {
		t.Fatalf("expected fallback when group is missing, got %q", got)
	}
}
