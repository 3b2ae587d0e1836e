package generator

import (
	"strings"
	"testing"
	"time"
)

func TestBuildSitemapEscapesLocations(t *testing.T) {
	lastMod := time.Date(2020, 2, 25, 9, 30, 0, 0, time.UTC)
	articles := []*ArticleData{{
		Route:    "/posts/tips?lang=en&draft=no",
		Metadata: DependencyMetadata{LastModified: lastMod},
	}}

	sitemap := buildSitemap("https://example.com", "/", articles, lastMod)
	if !strings.Contains(sitemap, "<loc>https://example.com/posts/tips?lang=en&amp;draft=no</loc>") {
		t.Fatalf("loc not escaped:\n%s", sitemap)
	}
	if strings.Contains(sitemap, "&draft") {
		t.Fatalf("raw ampersand leaked into sitemap:\n%s", sitemap)
	}
	if !strings.Contains(sitemap, lastMod.Format(time.RFC3339)) {
		t.Fatalf("lastmod missing:\n%s", sitemap)
	}
}

func TestBuildSitemapDeduplicatesAndSortsLocations(t *testing.T) {
	lastMod := time.Date(2020, 2, 25, 9, 30, 0, 0, time.UTC)
	articles := []*ArticleData{
		{Route: "/posts/zeta", Metadata: DependencyMetadata{LastModified: lastMod}},
		{Route: "/posts/alpha", Metadata: DependencyMetadata{LastModified: lastMod}},
		{Route: "/posts/alpha", Metadata: DependencyMetadata{LastModified: lastMod}},
	}

	sitemap := buildSitemap("https://example.com", "/", articles, lastMod)
	if strings.Count(sitemap, "<loc>https://example.com/posts/alpha</loc>") != 1 {
		t.Fatalf("duplicate route repeated in sitemap:\n%s", sitemap)
	}
	alpha := strings.Index(sitemap, "/posts/alpha")
	zeta := strings.Index(sitemap, "/posts/zeta")
	if alpha < 0 || zeta < 0 || alpha > zeta {
		t.Fatalf("expected locations sorted alphabetically:\n%s", sitemap)
	}
}
