package press

import (
	"context"

	"github.com/goliatone/go-press/internal/di"
	"github.com/goliatone/go-press/internal/generator"
	"github.com/goliatone/go-press/internal/logging/console"
	"github.com/goliatone/go-press/internal/logging/gologger"
	"github.com/goliatone/go-press/pkg/interfaces"

	pressarticles "github.com/goliatone/go-press/articles"
)

// ArticleService exports the article service contract for consumers of the
// press package.
type ArticleService = pressarticles.Service

// MarkdownService exports the Markdown loading and rendering contract.
type MarkdownService = interfaces.MarkdownService

// AuditService exports the content audit contract.
type AuditService = interfaces.AuditService

// GeneratorService exports the static site generator contract.
type GeneratorService = generator.Service

// Module represents the top level publishing runtime facade.
type Module struct {
	container *di.Container
}

// New constructs a press module using the provided configuration and optional
// DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	options := opts
	if provider, err := loggerProviderFromConfig(cfg.Logging); err != nil {
		return nil, err
	} else if provider != nil {
		options = append([]di.Option{di.WithLoggerProvider(provider)}, opts...)
	}

	return &Module{container: di.NewContainer(cfg, options...)}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Markdown returns the configured Markdown service.
func (m *Module) Markdown() (MarkdownService, error) {
	return m.container.MarkdownService()
}

// Audit returns the configured audit service.
func (m *Module) Audit() (AuditService, error) {
	return m.container.AuditService()
}

// Articles returns the configured article service.
func (m *Module) Articles() ArticleService {
	return m.container.ArticleService()
}

// Generator returns the configured static site generator.
func (m *Module) Generator() GeneratorService {
	return m.container.GeneratorService()
}

// Logger returns the root module logger.
func (m *Module) Logger() interfaces.Logger {
	return m.container.Logger()
}

// Shutdown releases resources held by the module. Host-owned handles, such as
// a database wired through WithBunDB, stay open.
func (m *Module) Shutdown(ctx context.Context) error {
	if m == nil {
		return nil
	}
	return ctx.Err()
}

func loggerProviderFromConfig(cfg LoggingConfig) (interfaces.LoggerProvider, error) {
	switch cfg.Provider {
	case "gologger":
		return gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
		})
	case "", "console":
		return console.NewProvider(console.Options{}), nil
	default:
		return nil, ErrLoggingProviderUnknown
	}
}
