package generator

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	manifestFileName    = ".press-manifest.json"
	manifestFileVersion = 1
)

// buildManifest stores metadata about the last successful build to support
// incremental runs.
type buildManifest struct {
	Version     int                        `json:"version"`
	GeneratedAt time.Time                  `json:"generated_at"`
	Articles    map[string]manifestArticle `json:"articles"`
	Metadata    map[string]json.RawMessage `json:"metadata,omitempty"`
}

type manifestArticle struct {
	ArticleID    string    `json:"article_id"`
	Slug         string    `json:"slug"`
	Route        string    `json:"route"`
	Output       string    `json:"output"`
	Layout       string    `json:"layout"`
	Hash         string    `json:"hash"`
	Checksum     string    `json:"checksum"`
	LastModified time.Time `json:"last_modified"`
	RenderedAt   time.Time `json:"rendered_at"`
}

func newBuildManifest() *buildManifest {
	return &buildManifest{
		Version:  manifestFileVersion,
		Articles: map[string]manifestArticle{},
		Metadata: map[string]json.RawMessage{},
	}
}

func parseManifest(data []byte) (*buildManifest, error) {
	if len(data) == 0 {
		return newBuildManifest(), nil
	}
	var manifest buildManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("generator: parse manifest: %w", err)
	}
	if manifest.Articles == nil {
		manifest.Articles = map[string]manifestArticle{}
	}
	if manifest.Metadata == nil {
		manifest.Metadata = map[string]json.RawMessage{}
	}
	if manifest.Version == 0 {
		manifest.Version = manifestFileVersion
	}
	return &manifest, nil
}

// UnmarshalJSON accepts the article list shape written by marshal and keys
// the entries back by article id.
func (m *buildManifest) UnmarshalJSON(data []byte) error {
	var raw struct {
		Version     int                        `json:"version"`
		GeneratedAt time.Time                  `json:"generated_at"`
		Articles    []manifestArticle          `json:"articles"`
		Metadata    map[string]json.RawMessage `json:"metadata,omitempty"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	m.Version = raw.Version
	m.GeneratedAt = raw.GeneratedAt
	m.Metadata = raw.Metadata
	m.Articles = make(map[string]manifestArticle, len(raw.Articles))
	for _, entry := range raw.Articles {
		key := strings.ToLower(strings.TrimSpace(entry.ArticleID))
		if key == "" {
			continue
		}
		m.Articles[key] = entry
	}
	return nil
}

func (m *buildManifest) marshal() ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	cloned := *m
	if cloned.Version == 0 {
		cloned.Version = manifestFileVersion
	}
	if cloned.Metadata == nil {
		cloned.Metadata = map[string]json.RawMessage{}
	}
	// Stable ordering for deterministic output.
	type orderedManifest struct {
		Version     int                        `json:"version"`
		GeneratedAt time.Time                  `json:"generated_at"`
		Articles    []manifestArticle          `json:"articles"`
		Metadata    map[string]json.RawMessage `json:"metadata,omitempty"`
	}
	ordered := orderedManifest{
		Version:     cloned.Version,
		GeneratedAt: cloned.GeneratedAt,
		Metadata:    cloned.Metadata,
	}
	if len(cloned.Articles) > 0 {
		ordered.Articles = make([]manifestArticle, 0, len(cloned.Articles))
		for _, entry := range cloned.Articles {
			ordered.Articles = append(ordered.Articles, entry)
		}
		sort.Slice(ordered.Articles, func(i, j int) bool {
			if ordered.Articles[i].Slug == ordered.Articles[j].Slug {
				return ordered.Articles[i].ArticleID < ordered.Articles[j].ArticleID
			}
			return ordered.Articles[i].Slug < ordered.Articles[j].Slug
		})
	}
	return json.MarshalIndent(ordered, "", "  ")
}

func (m *buildManifest) articleKey(articleID uuid.UUID) string {
	return strings.ToLower(articleID.String())
}

func (m *buildManifest) lookupArticle(articleID uuid.UUID) (manifestArticle, bool) {
	if m == nil || len(m.Articles) == 0 {
		return manifestArticle{}, false
	}
	entry, ok := m.Articles[m.articleKey(articleID)]
	return entry, ok
}

func (m *buildManifest) setArticle(entry manifestArticle) {
	if m == nil {
		return
	}
	if m.Articles == nil {
		m.Articles = map[string]manifestArticle{}
	}
	m.Articles[strings.ToLower(strings.TrimSpace(entry.ArticleID))] = entry
}

func (m *buildManifest) shouldSkipArticle(articleID uuid.UUID, hash, output string) bool {
	entry, ok := m.lookupArticle(articleID)
	if !ok {
		return false
	}
	if entry.Hash != hash {
		return false
	}
	return strings.TrimSpace(entry.Output) == strings.TrimSpace(output)
}

func (m *buildManifest) pruneArticles(keys map[string]struct{}) {
	if m == nil || len(m.Articles) == 0 {
		return
	}
	if len(keys) == 0 {
		return
	}
	for key := range m.Articles {
		if _, ok := keys[key]; !ok {
			delete(m.Articles, key)
		}
	}
}
