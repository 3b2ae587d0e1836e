package generator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"path"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	urlkit "github.com/goliatone/go-urlkit"
	"github.com/google/uuid"

	"github.com/goliatone/go-press/internal/articles"
	"github.com/goliatone/go-press/pkg/interfaces"
)

var (
	// ErrServiceDisabled indicates the generator feature is disabled.
	ErrServiceDisabled  = errors.New("generator: service disabled")
	errRendererRequired = errors.New("generator: template renderer is required")
	errStorageRequired  = errors.New("generator: storage provider is required")
)

// Service describes the static site generator contract.
type Service interface {
	Build(ctx context.Context, opts BuildOptions) (*BuildResult, error)
	BuildArticle(ctx context.Context, articleID uuid.UUID) (*BuildResult, error)
	Clean(ctx context.Context) error
}

// Config captures runtime behaviour toggles for the generator.
type Config struct {
	OutputDir       string
	BaseURL         string
	SiteTitle       string
	SiteDescription string
	SiteAuthor      string
	CleanBuild      bool
	Incremental     bool
	GenerateSitemap bool
	GenerateRobots  bool
	GenerateFeeds   bool
	Workers         int
	DefaultLayout   string
	IndexLayout     string
}

// BuildOptions narrows the scope of a generator run.
type BuildOptions struct {
	ArticleIDs    []uuid.UUID
	IncludeDrafts bool
	DryRun        bool
}

// BuildResult reports aggregated build metadata.
type BuildResult struct {
	ArticlesBuilt   int
	ArticlesSkipped int
	Artifacts       int
	Duration        time.Duration
	Rendered        []RenderedArticle
	Diagnostics     []RenderDiagnostic
	Errors          []error
	DryRun          bool
}

// Dependencies lists the services required by the generator.
type Dependencies struct {
	Articles articles.Service
	Renderer interfaces.TemplateRenderer
	Storage  interfaces.StorageProvider
	URLs     *urlkit.RouteManager
}

// NewService wires a generator implementation with the provided configuration
// and dependencies.
func NewService(cfg Config, deps Dependencies) Service {
	if strings.TrimSpace(cfg.DefaultLayout) == "" {
		cfg.DefaultLayout = "post"
	}
	if strings.TrimSpace(cfg.IndexLayout) == "" {
		cfg.IndexLayout = "index"
	}
	return &service{
		cfg:        cfg,
		deps:       deps,
		permalinks: newPermalinkResolver(deps.URLs),
		now:        time.Now,
	}
}

// NewDisabledService returns a Service that fails all operations with
// ErrServiceDisabled.
func NewDisabledService() Service {
	return disabledService{}
}

type service struct {
	cfg        Config
	deps       Dependencies
	permalinks *permalinkResolver
	now        func() time.Time
}

type disabledService struct{}

func (s *service) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.deps.Renderer == nil {
		return nil, errRendererRequired
	}

	start := time.Now()
	buildCtx, err := s.loadContext(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &BuildResult{
		DryRun:      opts.DryRun,
		Diagnostics: make([]RenderDiagnostic, 0, len(buildCtx.Articles)),
	}

	var (
		mu          sync.Mutex
		rendered    = make([]RenderedArticle, 0, len(buildCtx.Articles))
		errorsSlice []error
		baseDir     = strings.Trim(strings.TrimSpace(s.cfg.OutputDir), "/")
		articleKeys = map[string]struct{}{}
	)

	if s.cfg.CleanBuild && !opts.DryRun {
		if err := s.Clean(ctx); err != nil {
			errorsSlice = append(errorsSlice, err)
		}
	}

	manifest, manifestErr := s.loadManifest(ctx)
	if manifestErr != nil {
		errorsSlice = append(errorsSlice, manifestErr)
	}
	if manifest == nil {
		manifest = newBuildManifest()
	}

	collect := func(outcome renderOutcome) {
		mu.Lock()
		defer mu.Unlock()
		result.Diagnostics = append(result.Diagnostics, outcome.diagnostic)
		if outcome.diagnostic.ArticleID != uuid.Nil {
			articleKeys[manifest.articleKey(outcome.diagnostic.ArticleID)] = struct{}{}
		}
		if outcome.err != nil {
			errorsSlice = append(errorsSlice, outcome.err)
			return
		}
		if outcome.skipped {
			result.ArticlesSkipped++
			return
		}
		result.ArticlesBuilt++
		rendered = append(rendered, outcome.article)
	}

	workerCount := s.effectiveWorkerCount(len(buildCtx.Articles))
	if workerCount <= 1 || len(buildCtx.Articles) <= 1 {
		for _, data := range buildCtx.Articles {
			select {
			case <-ctx.Done():
				collect(renderOutcome{
					diagnostic: RenderDiagnostic{
						ArticleID: data.Article.ID,
						Slug:      data.Article.Slug,
						Route:     data.Route,
						Err:       ctx.Err(),
					},
					err: ctx.Err(),
				})
				return result, ctx.Err()
			default:
				collect(s.renderArticle(ctx, buildCtx, data, manifest, baseDir))
			}
		}
	} else {
		if err := s.renderConcurrently(ctx, buildCtx, workerCount, manifest, baseDir, collect); err != nil {
			errorsSlice = append(errorsSlice, err)
		}
	}

	if opts.DryRun {
		result.Rendered = rendered
		result.Duration = time.Since(start)
		if len(errorsSlice) > 0 {
			result.Errors = append(result.Errors, errorsSlice...)
			return result, errors.Join(errorsSlice...)
		}
		return result, nil
	}

	writer := newArtifactWriter(s.deps.Storage)
	if err := s.persistArticles(ctx, writer, rendered); err != nil {
		errorsSlice = append(errorsSlice, err)
	}
	result.Artifacts += len(rendered)

	// The index lists every article in the build context, including pages
	// the manifest let us skip.
	if err := s.writeIndex(ctx, writer, buildCtx, baseDir); err != nil {
		errorsSlice = append(errorsSlice, err)
	} else {
		result.Artifacts++
	}

	if s.cfg.GenerateSitemap {
		if err := s.writeSitemap(ctx, writer, buildCtx, baseDir); err != nil {
			errorsSlice = append(errorsSlice, err)
		} else {
			result.Artifacts++
		}
	}

	if s.cfg.GenerateRobots {
		if err := s.writeRobots(ctx, writer, buildCtx, baseDir); err != nil {
			errorsSlice = append(errorsSlice, err)
		} else {
			result.Artifacts++
		}
	}

	if s.cfg.GenerateFeeds {
		written, err := s.writeFeeds(ctx, writer, buildCtx, baseDir)
		if err != nil {
			errorsSlice = append(errorsSlice, err)
		}
		result.Artifacts += written
	}

	if len(errorsSlice) == 0 {
		manifest.GeneratedAt = buildCtx.GeneratedAt
		for _, page := range rendered {
			if page.ArticleID == uuid.Nil || strings.TrimSpace(page.Checksum) == "" {
				continue
			}
			manifest.setArticle(manifestArticle{
				ArticleID:    page.ArticleID.String(),
				Slug:         page.Slug,
				Route:        page.Route,
				Output:       page.Output,
				Layout:       page.Layout,
				Hash:         page.Metadata.Hash,
				Checksum:     page.Checksum,
				LastModified: page.Metadata.LastModified,
				RenderedAt:   buildCtx.GeneratedAt,
			})
		}
		// Full builds prune manifest entries for articles that left the set.
		if len(buildCtx.Options.ArticleIDs) == 0 {
			manifest.pruneArticles(articleKeys)
		}
		if err := s.persistManifest(ctx, writer, manifest); err != nil {
			errorsSlice = append(errorsSlice, err)
		}
	}

	result.Rendered = rendered
	result.Duration = time.Since(start)
	if len(errorsSlice) > 0 {
		result.Errors = append(result.Errors, errorsSlice...)
		return result, errors.Join(errorsSlice...)
	}
	return result, nil
}

func (s *service) BuildArticle(ctx context.Context, articleID uuid.UUID) (*BuildResult, error) {
	if articleID == uuid.Nil {
		return nil, fmt.Errorf("generator: article id is required")
	}
	return s.Build(ctx, BuildOptions{ArticleIDs: []uuid.UUID{articleID}})
}

// Clean removes the output directory through the storage provider.
func (s *service) Clean(ctx context.Context) error {
	if s.deps.Storage == nil {
		return errStorageRequired
	}
	target := strings.Trim(strings.TrimSpace(s.cfg.OutputDir), "/")
	if target == "" {
		target = "."
	}
	_, err := s.deps.Storage.Exec(ctx, storageOpRemove, target)
	return err
}

func (s *service) renderConcurrently(
	ctx context.Context,
	buildCtx *BuildContext,
	workers int,
	manifest *buildManifest,
	baseDir string,
	collect func(renderOutcome),
) error {
	jobs := make(chan *ArticleData)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for data := range jobs {
				select {
				case <-ctx.Done():
					collect(renderOutcome{
						diagnostic: RenderDiagnostic{
							ArticleID: data.Article.ID,
							Slug:      data.Article.Slug,
							Route:     data.Route,
							Err:       ctx.Err(),
						},
						err: ctx.Err(),
					})
					return
				default:
					collect(s.renderArticle(ctx, buildCtx, data, manifest, baseDir))
				}
			}
		}()
	}

	for _, data := range buildCtx.Articles {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return ctx.Err()
		case jobs <- data:
		}
	}
	close(jobs)
	wg.Wait()
	return nil
}

func (s *service) renderArticle(
	ctx context.Context,
	buildCtx *BuildContext,
	data *ArticleData,
	manifest *buildManifest,
	baseDir string,
) renderOutcome {
	record := data.Article
	layout := record.Layout
	if strings.TrimSpace(layout) == "" {
		layout = s.cfg.DefaultLayout
	}
	outcome := renderOutcome{
		diagnostic: RenderDiagnostic{
			ArticleID: record.ID,
			Slug:      record.Slug,
			Route:     data.Route,
			Layout:    layout,
		},
	}

	select {
	case <-ctx.Done():
		outcome.err = ctx.Err()
		outcome.diagnostic.Err = ctx.Err()
		return outcome
	default:
	}

	expectedOutput := joinOutputPath(baseDir, buildOutputPath(data.Route))
	if s.cfg.Incremental && manifest != nil && !buildCtx.Options.DryRun {
		if manifest.shouldSkipArticle(record.ID, data.Metadata.Hash, expectedOutput) {
			outcome.skipped = true
			outcome.diagnostic.Skipped = true
			return outcome
		}
	}

	templateCtx := TemplateContext{
		Site: buildCtx.Site,
		Article: ArticleRenderingContext{
			Article:        record,
			Content:        safeBodyHTML(record),
			ShowHeader:     record.ShowHeader,
			ShowBreadcrumb: record.ShowBreadcrumb,
			Breadcrumb:     s.breadcrumbTrail(data),
			Permalink:      absoluteURL(buildCtx.Site.BaseURL, data.Route),
			Route:          data.Route,
			Metadata:       data.Metadata,
		},
		Build: BuildMetadata{
			GeneratedAt: buildCtx.GeneratedAt,
			Options:     buildCtx.Options,
		},
		Helpers: newTemplateHelpers(buildCtx.Site.BaseURL),
	}

	start := time.Now()
	html, err := s.deps.Renderer.RenderTemplate(layout, templateCtx)
	duration := time.Since(start)
	outcome.diagnostic.Duration = duration
	if err != nil {
		wrapped := fmt.Errorf("generator: render layout %q for article %s: %w", layout, record.Slug, err)
		outcome.err = wrapped
		outcome.diagnostic.Err = wrapped
		return outcome
	}
	if strings.TrimSpace(html) == "" {
		wrapped := fmt.Errorf("generator: layout %q produced empty output for article %s", layout, record.Slug)
		outcome.err = wrapped
		outcome.diagnostic.Err = wrapped
		return outcome
	}

	outcome.article = RenderedArticle{
		ArticleID: record.ID,
		Slug:      record.Slug,
		Route:     data.Route,
		Output:    expectedOutput,
		Layout:    layout,
		HTML:      html,
		Metadata:  data.Metadata,
		Duration:  duration,
		Checksum:  computeHashFromString(html),
	}
	return outcome
}

func (s *service) persistArticles(
	ctx context.Context,
	writer artifactWriter,
	rendered []RenderedArticle,
) error {
	if len(rendered) == 0 {
		return nil
	}
	baseDir := strings.Trim(strings.TrimSpace(s.cfg.OutputDir), "/")
	dirCache := map[string]struct{}{}
	if baseDir != "" {
		dirCache[baseDir] = struct{}{}
		if err := writer.EnsureDir(ctx, baseDir); err != nil {
			return err
		}
	}
	for _, page := range rendered {
		if err := ensureDir(ctx, writer, dirCache, path.Dir(page.Output)); err != nil {
			return err
		}
		metadata := map[string]string{
			"article_id": page.ArticleID.String(),
			"slug":       page.Slug,
			"route":      page.Route,
			"layout":     page.Layout,
		}
		if s.cfg.Incremental {
			metadata["incremental"] = "true"
		}
		req := writeFileRequest{
			Path:        page.Output,
			Content:     strings.NewReader(page.HTML),
			Size:        int64(len(page.HTML)),
			Category:    categoryArticle,
			ContentType: "text/html; charset=utf-8",
			Checksum:    page.Checksum,
			Metadata:    metadata,
		}
		if err := writer.WriteFile(ctx, req); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) writeIndex(
	ctx context.Context,
	writer artifactWriter,
	buildCtx *BuildContext,
	baseDir string,
) error {
	entries := make([]IndexEntry, 0, len(buildCtx.Articles))
	for _, data := range buildCtx.Articles {
		record := data.Article
		entries = append(entries, IndexEntry{
			Title:       record.Title,
			Permalink:   absoluteURL(buildCtx.Site.BaseURL, data.Route),
			Description: record.MetaDescription,
			Author:      record.Author,
			Categories:  append([]string(nil), record.Categories...),
			Tags:        append([]string(nil), record.Tags...),
			PublishedAt: record.PublishedAt,
		})
	}

	indexCtx := IndexContext{
		Site:    buildCtx.Site,
		Entries: entries,
		Build: BuildMetadata{
			GeneratedAt: buildCtx.GeneratedAt,
			Options:     buildCtx.Options,
		},
		Helpers: newTemplateHelpers(buildCtx.Site.BaseURL),
	}
	html, err := s.deps.Renderer.RenderTemplate(s.cfg.IndexLayout, indexCtx)
	if err != nil {
		return fmt.Errorf("generator: render index layout %q: %w", s.cfg.IndexLayout, err)
	}

	target := joinOutputPath(baseDir, buildOutputPath(s.permalinks.IndexRoute()))
	if err := ensureDir(ctx, writer, map[string]struct{}{}, path.Dir(target)); err != nil {
		return err
	}
	return writer.WriteFile(ctx, writeFileRequest{
		Path:        target,
		Content:     strings.NewReader(html),
		Size:        int64(len(html)),
		Category:    categoryIndex,
		ContentType: "text/html; charset=utf-8",
		Checksum:    computeHashFromString(html),
		Metadata: map[string]string{
			"generated_at": buildCtx.GeneratedAt.UTC().Format(time.RFC3339),
		},
	})
}

func (s *service) loadManifest(ctx context.Context) (*buildManifest, error) {
	if s.deps.Storage == nil {
		return newBuildManifest(), nil
	}
	target := s.manifestTargetPath()
	if strings.TrimSpace(target) == "" {
		return newBuildManifest(), nil
	}
	rows, err := s.deps.Storage.Query(ctx, storageOpRead, target)
	if err != nil {
		return nil, fmt.Errorf("generator: read manifest: %w", err)
	}
	defer rows.Close()
	if !rows.Next() {
		return newBuildManifest(), nil
	}
	var data []byte
	if err := rows.Scan(&data); err != nil {
		return nil, fmt.Errorf("generator: scan manifest: %w", err)
	}
	return parseManifest(data)
}

func (s *service) manifestTargetPath() string {
	base := strings.Trim(strings.TrimSpace(s.cfg.OutputDir), "/")
	return joinOutputPath(base, manifestFileName)
}

func (s *service) persistManifest(ctx context.Context, writer artifactWriter, manifest *buildManifest) error {
	if manifest == nil {
		return nil
	}
	data, err := manifest.marshal()
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	target := s.manifestTargetPath()
	if strings.TrimSpace(target) == "" {
		return nil
	}
	if err := ensureDir(ctx, writer, map[string]struct{}{}, path.Dir(target)); err != nil {
		return err
	}
	metadata := map[string]string{
		"version": strconv.Itoa(manifest.Version),
	}
	if !manifest.GeneratedAt.IsZero() {
		metadata["generated_at"] = manifest.GeneratedAt.UTC().Format(time.RFC3339)
	}
	return writer.WriteFile(ctx, writeFileRequest{
		Path:        target,
		Content:     bytes.NewReader(data),
		Size:        int64(len(data)),
		Category:    categoryManifest,
		ContentType: "application/json",
		Checksum:    computeHash(data),
		Metadata:    metadata,
	})
}

func (s *service) writeSitemap(
	ctx context.Context,
	writer artifactWriter,
	buildCtx *BuildContext,
	baseDir string,
) error {
	content := buildSitemap(buildCtx.Site.BaseURL, s.permalinks.IndexRoute(), buildCtx.Articles, buildCtx.GeneratedAt)
	fullPath := joinOutputPath(baseDir, "sitemap.xml")
	if err := ensureDir(ctx, writer, map[string]struct{}{}, path.Dir(fullPath)); err != nil {
		return err
	}
	return writer.WriteFile(ctx, writeFileRequest{
		Path:        fullPath,
		Content:     strings.NewReader(content),
		Size:        int64(len(content)),
		Category:    categorySitemap,
		ContentType: "application/xml",
		Checksum:    computeHashFromString(content),
		Metadata: map[string]string{
			"generated_at": buildCtx.GeneratedAt.UTC().Format(time.RFC3339),
		},
	})
}

func (s *service) writeRobots(
	ctx context.Context,
	writer artifactWriter,
	buildCtx *BuildContext,
	baseDir string,
) error {
	content := buildRobots(buildCtx.Site.BaseURL, s.cfg.GenerateSitemap)
	fullPath := joinOutputPath(baseDir, "robots.txt")
	if err := ensureDir(ctx, writer, map[string]struct{}{}, path.Dir(fullPath)); err != nil {
		return err
	}
	return writer.WriteFile(ctx, writeFileRequest{
		Path:        fullPath,
		Content:     strings.NewReader(content),
		Size:        int64(len(content)),
		Category:    categoryRobots,
		ContentType: "text/plain; charset=utf-8",
		Checksum:    computeHashFromString(content),
		Metadata: map[string]string{
			"generated_at": s.now().UTC().Format(time.RFC3339),
		},
	})
}

func (s *service) effectiveWorkerCount(articleCount int) int {
	workers := s.cfg.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	if workers > runtime.NumCPU()*2 {
		workers = runtime.NumCPU() * 2
	}
	if workers < 1 {
		workers = 1
	}
	if articleCount > 0 && workers > articleCount {
		return articleCount
	}
	return workers
}

const defaultWorkers = 4

func safeBodyHTML(record *articles.Article) template.HTML {
	if record == nil {
		return ""
	}
	return template.HTML(record.BodyHTML)
}

func ensureDir(ctx context.Context, writer artifactWriter, cache map[string]struct{}, dir string) error {
	dir = strings.Trim(dir, " ")
	if dir == "" || dir == "." {
		return nil
	}
	if cache != nil {
		if _, ok := cache[dir]; ok {
			return nil
		}
		cache[dir] = struct{}{}
	}
	return writer.EnsureDir(ctx, dir)
}

func (disabledService) Build(context.Context, BuildOptions) (*BuildResult, error) {
	return nil, ErrServiceDisabled
}

func (disabledService) BuildArticle(context.Context, uuid.UUID) (*BuildResult, error) {
	return nil, ErrServiceDisabled
}

func (disabledService) Clean(context.Context) error {
	return ErrServiceDisabled
}
