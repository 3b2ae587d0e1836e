package generator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-press/internal/articles"
	pressarticles "github.com/goliatone/go-press/articles"
	"github.com/google/uuid"
)

var errArticlesServiceRequired = errors.New("generator: articles service is required")

// BuildContext aggregates the article data required to execute a static build.
type BuildContext struct {
	GeneratedAt time.Time
	Site        SiteMetadata
	Articles    []*ArticleData
	Options     BuildOptions
}

// ArticleData pairs an article with its resolved route and incremental
// build metadata.
type ArticleData struct {
	Article  *articles.Article
	Route    string
	Metadata DependencyMetadata
}

// DependencyMetadata tracks hashes and timestamps for incremental builds.
type DependencyMetadata struct {
	Sources      map[string]string
	Hash         string
	LastModified time.Time
}

func (s *service) loadContext(ctx context.Context, opts BuildOptions) (*BuildContext, error) {
	if s.deps.Articles == nil {
		return nil, errArticlesServiceRequired
	}

	records, err := s.loadArticles(ctx, opts)
	if err != nil {
		return nil, err
	}

	data := make([]*ArticleData, 0, len(records))
	for _, record := range records {
		if record == nil || record.DeletedAt != nil {
			continue
		}
		if !opts.IncludeDrafts && !record.IsPublished() {
			continue
		}
		route := s.permalinks.ArticleRoute(record.Slug)
		data = append(data, &ArticleData{
			Article:  record,
			Route:    route,
			Metadata: computeDependencyMetadata(record, route),
		})
	}

	sort.Slice(data, func(i, j int) bool {
		left, right := data[i].Article, data[j].Article
		if lt, rt := publishInstant(left), publishInstant(right); !lt.Equal(rt) {
			return lt.After(rt)
		}
		return left.Slug < right.Slug
	})

	return &BuildContext{
		GeneratedAt: s.now(),
		Site:        s.siteMetadata(),
		Articles:    data,
		Options:     opts,
	}, nil
}

func (s *service) loadArticles(ctx context.Context, opts BuildOptions) ([]*articles.Article, error) {
	if len(opts.ArticleIDs) == 0 {
		if opts.IncludeDrafts {
			return s.deps.Articles.List(ctx)
		}
		return s.deps.Articles.List(ctx, pressarticles.WithPublishedOnly())
	}

	unique := make(map[uuid.UUID]struct{}, len(opts.ArticleIDs))
	result := make([]*articles.Article, 0, len(opts.ArticleIDs))
	for _, id := range opts.ArticleIDs {
		if id == uuid.Nil {
			continue
		}
		if _, seen := unique[id]; seen {
			continue
		}
		unique[id] = struct{}{}
		record, err := s.deps.Articles.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if record != nil {
			result = append(result, record)
		}
	}
	return result, nil
}

func (s *service) siteMetadata() SiteMetadata {
	return SiteMetadata{
		BaseURL:     strings.TrimRight(strings.TrimSpace(s.cfg.BaseURL), "/"),
		Title:       strings.TrimSpace(s.cfg.SiteTitle),
		Description: strings.TrimSpace(s.cfg.SiteDescription),
		Author:      strings.TrimSpace(s.cfg.SiteAuthor),
		Metadata:    map[string]any{},
	}
}

func computeDependencyMetadata(record *articles.Article, route string) DependencyMetadata {
	sources := map[string]string{
		"article": joinParts(
			record.ID.String(),
			record.Slug,
			record.Status,
			record.UpdatedAt.UTC().Format(time.RFC3339Nano),
			record.Checksum,
		),
		"route":  route,
		"layout": record.Layout,
	}
	if len(record.Categories) > 0 {
		sources["categories"] = strings.Join(record.Categories, ",")
	}
	if len(record.Tags) > 0 {
		sources["tags"] = strings.Join(record.Tags, ",")
	}

	lastModified := record.UpdatedAt
	if record.PublishedAt != nil && record.PublishedAt.After(lastModified) {
		lastModified = *record.PublishedAt
	}

	return DependencyMetadata{
		Sources:      sources,
		Hash:         hashSources(sources),
		LastModified: lastModified,
	}
}

func publishInstant(record *articles.Article) time.Time {
	if record.PublishedAt != nil {
		return *record.PublishedAt
	}
	return record.UpdatedAt
}

func joinParts(parts ...string) string {
	return strings.Join(parts, "|")
}

func hashSources(sources map[string]string) string {
	if len(sources) == 0 {
		return ""
	}
	keys := make([]string, 0, len(sources))
	for key := range sources {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	hasher := sha256.New()
	for _, key := range keys {
		hasher.Write([]byte(key))
		hasher.Write([]byte("="))
		hasher.Write([]byte(sources[key]))
		hasher.Write([]byte{0})
	}
	return hex.EncodeToString(hasher.Sum(nil))
}

func computeHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func computeHashFromString(content string) string {
	return computeHash([]byte(content))
}
