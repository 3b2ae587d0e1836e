package di

import (
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	urlkit "github.com/goliatone/go-urlkit"
	"github.com/uptrace/bun"

	pressarticles "github.com/goliatone/go-press/articles"
	"github.com/goliatone/go-press/internal/adapters/noop"
	"github.com/goliatone/go-press/internal/adapters/storage"
	"github.com/goliatone/go-press/internal/adapters/templates"
	internalarticles "github.com/goliatone/go-press/internal/articles"
	"github.com/goliatone/go-press/internal/audit"
	"github.com/goliatone/go-press/internal/generator"
	"github.com/goliatone/go-press/internal/logging"
	"github.com/goliatone/go-press/internal/markdown"
	"github.com/goliatone/go-press/internal/runtimeconfig"
	"github.com/goliatone/go-press/pkg/interfaces"
)

// Container wires module dependencies. Services are constructed lazily so
// hosts only pay for the features they enable.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	logger         interfaces.Logger

	bunDB            *bun.DB
	storage          interfaces.StorageProvider
	generatorStorage interfaces.StorageProvider
	template         interfaces.TemplateRenderer

	cacheTTL      time.Duration
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	articleRepo  internalarticles.Repository
	routeManager *urlkit.RouteManager

	clock func() time.Time
	idGen internalarticles.IDGenerator

	markdownSvc  interfaces.MarkdownService
	markdownErr  error
	auditSvc     interfaces.AuditService
	auditErr     error
	articleSvc   pressarticles.Service
	generatorSvc generator.Service
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLogger overrides the root logger used when no provider is wired.
func WithLogger(logger interfaces.Logger) Option {
	return func(c *Container) {
		c.logger = logger
	}
}

// WithLoggerProvider supplies module-scoped loggers for every service.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithBunDB binds a database handle; article persistence switches from the
// in-memory repository to bun-backed storage.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithStorage overrides the default storage provider.
func WithStorage(sp interfaces.StorageProvider) Option {
	return func(c *Container) {
		c.storage = sp
	}
}

// WithGeneratorStorage overrides where the static generator writes artifacts.
func WithGeneratorStorage(sp interfaces.StorageProvider) Option {
	return func(c *Container) {
		c.generatorStorage = sp
	}
}

// WithTemplate overrides the default template renderer.
func WithTemplate(tr interfaces.TemplateRenderer) Option {
	return func(c *Container) {
		c.template = tr
	}
}

// WithArticleRepository overrides the default article repository binding.
func WithArticleRepository(repo internalarticles.Repository) Option {
	return func(c *Container) {
		c.articleRepo = repo
	}
}

// WithCacheService overrides the repository cache wiring.
func WithCacheService(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithURLKit binds a route manager used for permalink resolution.
func WithURLKit(manager *urlkit.RouteManager) Option {
	return func(c *Container) {
		c.routeManager = manager
	}
}

// WithClock overrides the time source handed to services.
func WithClock(clock func() time.Time) Option {
	return func(c *Container) {
		c.clock = clock
	}
}

// WithIDGenerator overrides how article identifiers are derived from slugs.
func WithIDGenerator(generator internalarticles.IDGenerator) Option {
	return func(c *Container) {
		c.idGen = generator
	}
}

// WithArticleService overrides the default article service binding.
func WithArticleService(svc pressarticles.Service) Option {
	return func(c *Container) {
		c.articleSvc = svc
	}
}

// WithGeneratorService overrides the default generator service binding.
func WithGeneratorService(svc generator.Service) Option {
	return func(c *Container) {
		c.generatorSvc = svc
	}
}

// NewContainer creates a container with the provided configuration.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) *Container {
	if err := cfg.Validate(); err != nil {
		panic(err)
	}

	cacheTTL := cfg.Cache.DefaultTTL
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}

	c := &Container{
		Config:   cfg,
		cacheTTL: cacheTTL,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.configureCacheDefaults()
	c.configureRoutes()
	c.configureGeneratorStorage()

	if c.template == nil {
		if cfg.Features.Generator {
			c.template = templates.New()
		} else {
			c.template = noop.Template()
		}
	}
	if c.storage == nil {
		if c.bunDB != nil {
			c.storage = storage.NewBunStorageAdapter(c.bunDB.DB)
		} else {
			c.storage = storage.NewNoOpProvider()
		}
	}

	return c
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled {
		return
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.cacheTTL > 0 {
			cfg.TTL = c.cacheTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err == nil {
			c.cacheService = service
		}
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureRoutes() {
	if c.routeManager != nil {
		return
	}
	if c.Config.Routes.RouteConfig == nil {
		return
	}
	c.routeManager = urlkit.NewRouteManager(c.Config.Routes.RouteConfig)
}

func (c *Container) configureGeneratorStorage() {
	if c.generatorStorage != nil {
		return
	}
	fs, err := storage.NewFilesystemStorage(".")
	if err != nil {
		c.generatorStorage = storage.NewNoOpProvider()
		return
	}
	c.generatorStorage = fs
}

// LoggerProvider exposes the configured logger provider, which may be nil.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// Logger returns the root logger for the module.
func (c *Container) Logger() interfaces.Logger {
	if c.logger != nil {
		return c.logger
	}
	c.logger = logging.ModuleLogger(c.loggerProvider, "")
	return c.logger
}

// StorageProvider exposes the configured storage implementation.
func (c *Container) StorageProvider() interfaces.StorageProvider {
	return c.storage
}

// GeneratorStorage exposes the storage backend rendered artifacts go to.
func (c *Container) GeneratorStorage() interfaces.StorageProvider {
	return c.generatorStorage
}

// TemplateRenderer exposes the configured template renderer.
func (c *Container) TemplateRenderer() interfaces.TemplateRenderer {
	return c.template
}

// RouteManager exposes the urlkit manager used for permalinks, if configured.
func (c *Container) RouteManager() *urlkit.RouteManager {
	return c.routeManager
}

// MarkdownService lazily constructs the filesystem-backed Markdown service.
func (c *Container) MarkdownService() (interfaces.MarkdownService, error) {
	if c.markdownSvc != nil || c.markdownErr != nil {
		return c.markdownSvc, c.markdownErr
	}

	svc, err := markdown.NewService(markdown.Config{
		BasePath:  c.Config.Content.Dir,
		Pattern:   c.Config.Content.Pattern,
		Recursive: c.Config.Content.Recursive,
		Parser:    c.parseOptions(),
	}, nil)
	if err != nil {
		c.markdownErr = err
		return nil, err
	}

	c.markdownSvc = svc
	return c.markdownSvc, nil
}

// AuditService lazily constructs the content audit service rooted at the
// configured content directory.
func (c *Container) AuditService() (interfaces.AuditService, error) {
	if c.auditSvc != nil || c.auditErr != nil {
		return c.auditSvc, c.auditErr
	}

	opts := []audit.ServiceOption{
		audit.WithLogger(logging.AuditLogger(c.loggerProvider)),
	}
	if c.clock != nil {
		opts = append(opts, audit.WithClock(c.clock))
	}

	parser := markdown.NewGoldmarkParser(c.parseOptions())
	svc, err := audit.NewService(audit.Config{
		BasePath:  c.Config.Content.Dir,
		Pattern:   c.Config.Content.Pattern,
		Recursive: c.Config.Content.Recursive,
		Checks:    c.Config.Audit.Checks,
		Parser:    c.parseOptions(),
	}, parser, opts...)
	if err != nil {
		c.auditErr = err
		return nil, err
	}

	c.auditSvc = svc
	return c.auditSvc, nil
}

// ArticleService lazily constructs the article persistence service. A bun
// repository is used when a database is wired, the in-memory repository
// otherwise.
func (c *Container) ArticleService() pressarticles.Service {
	if c.articleSvc != nil {
		return c.articleSvc
	}

	repo := c.articleRepo
	if repo == nil {
		if c.bunDB != nil {
			repo = internalarticles.NewBunArticleRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		} else {
			repo = internalarticles.NewMemoryArticleRepository()
		}
		c.articleRepo = repo
	}

	opts := []internalarticles.ServiceOption{
		internalarticles.WithLogger(logging.ArticlesLogger(c.loggerProvider)),
	}
	if c.clock != nil {
		opts = append(opts, internalarticles.WithClock(c.clock))
	}
	if c.idGen != nil {
		opts = append(opts, internalarticles.WithIDGenerator(c.idGen))
	}

	c.articleSvc = internalarticles.NewService(repo, opts...)
	return c.articleSvc
}

// GeneratorService lazily constructs the static site generator. When the
// feature flag is off a disabled service is returned so command handlers can
// still resolve a binding.
func (c *Container) GeneratorService() generator.Service {
	if c.generatorSvc != nil {
		return c.generatorSvc
	}

	if !c.Config.Features.Generator || !c.Config.Generator.Enabled {
		c.generatorSvc = generator.NewDisabledService()
		return c.generatorSvc
	}

	c.generatorSvc = generator.NewService(generator.Config{
		OutputDir:       c.Config.Generator.OutputDir,
		BaseURL:         c.Config.Site.BaseURL,
		SiteTitle:       c.Config.Site.Title,
		SiteDescription: c.Config.Site.Description,
		SiteAuthor:      c.Config.Site.Author,
		CleanBuild:      c.Config.Generator.CleanBuild,
		Incremental:     c.Config.Generator.Incremental,
		GenerateSitemap: c.Config.Generator.GenerateSitemap,
		GenerateRobots:  c.Config.Generator.GenerateRobots,
		GenerateFeeds:   c.Config.Generator.GenerateFeeds,
		Workers:         c.Config.Generator.Workers,
		DefaultLayout:   c.Config.Markdown.DefaultLayout,
	}, generator.Dependencies{
		Articles: c.ArticleService(),
		Renderer: c.template,
		Storage:  c.generatorStorage,
		URLs:     c.routeManager,
	})
	return c.generatorSvc
}

func (c *Container) parseOptions() interfaces.ParseOptions {
	return interfaces.ParseOptions{
		Extensions: c.Config.Markdown.Extensions,
		HardWraps:  c.Config.Markdown.HardWraps,
		Unsafe:     c.Config.Markdown.Unsafe,
	}
}
