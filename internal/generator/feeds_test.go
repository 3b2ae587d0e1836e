package generator

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestBuildRSSFeedEscapesContent(t *testing.T) {
	site := SiteMetadata{
		BaseURL: "https://example.com",
		Title:   "V8's V8 <Blog>",
	}
	published := time.Date(2020, 2, 25, 9, 30, 0, 0, time.UTC)
	items := []feedItem{{
		Title:       "Optional Chaining & Nullish Coalescing",
		Summary:     "a?.b short-circuits to undefined",
		Link:        "https://example.com/posts/optional-chaining",
		GUID:        "1a2b",
		PublishedAt: published,
	}}

	feed := buildRSSFeed(site, items, published)
	if !strings.Contains(feed, "<title>V8&#39;s V8 &lt;Blog&gt;</title>") {
		t.Fatalf("channel title not escaped:\n%s", feed)
	}
	if !strings.Contains(feed, "Optional Chaining &amp; Nullish Coalescing") {
		t.Fatalf("item title not escaped:\n%s", feed)
	}
	if !strings.Contains(feed, published.Format(time.RFC1123Z)) {
		t.Fatalf("pubDate missing:\n%s", feed)
	}
}

func TestBuildAtomFeedCarriesAuthorAndCategories(t *testing.T) {
	site := SiteMetadata{BaseURL: "https://example.com", Title: "Blog", Author: "Site Author"}
	published := time.Date(2020, 2, 25, 9, 30, 0, 0, time.UTC)
	items := []feedItem{{
		Title:       "Post",
		Author:      "Justin Ribeiro",
		Link:        "https://example.com/posts/post",
		GUID:        "abc",
		Categories:  []string{"javascript", "v8"},
		PublishedAt: published,
		UpdatedAt:   published,
	}}

	feed := buildAtomFeed(site, items, published)
	for _, want := range []string{
		"<name>Site Author</name>",
		"<name>Justin Ribeiro</name>",
		`<category term="javascript" />`,
		`<category term="v8" />`,
		"urn:uuid:abc",
	} {
		if !strings.Contains(feed, want) {
			t.Fatalf("atom feed missing %q:\n%s", want, feed)
		}
	}
}

func TestFeedItemsAreCapped(t *testing.T) {
	buildCtx := &BuildContext{GeneratedAt: time.Now()}
	published := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < maxFeedItems+25; i++ {
		record := publishedArticle(fmt.Sprintf("post-%03d", i), fmt.Sprintf("Post %d", i), published.Add(time.Duration(i)*time.Hour))
		buildCtx.Articles = append(buildCtx.Articles, &ArticleData{
			Article: record,
			Route:   "/posts/" + record.Slug,
		})
	}

	svc := &service{cfg: Config{BaseURL: "https://example.com"}}
	items := svc.buildFeedItems(buildCtx)
	if len(items) != maxFeedItems {
		t.Fatalf("expected %d items, got %d", maxFeedItems, len(items))
	}
}
