package press

import (
	"errors"

	"github.com/goliatone/go-press/internal/commands"
	articlescmd "github.com/goliatone/go-press/internal/commands/articles"
	auditcmd "github.com/goliatone/go-press/internal/commands/audit"
	staticcmd "github.com/goliatone/go-press/internal/commands/static"
	"github.com/goliatone/go-press/internal/markdown"
	"github.com/goliatone/go-press/pkg/interfaces"
)

// ErrCommandsFeatureDisabled is returned when the command layer is off.
var ErrCommandsFeatureDisabled = errors.New("press: commands feature disabled")

// CommandRegistry records command handlers so hosts can expose them via CLI or cron.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CommandDispatcher subscribes command handlers to a dispatcher implementation.
type CommandDispatcher interface {
	RegisterCommand(handler any) (CommandSubscription, error)
}

// CommandSubscription allows hosts to tear down dispatcher subscriptions.
type CommandSubscription interface {
	Unsubscribe()
}

// CommandSet holds the constructed command handlers for the enabled features.
type CommandSet struct {
	AuditRunChecks  *auditcmd.RunChecksHandler
	ArticlesImport  *articlescmd.ImportDirectoryHandler
	ArticlesSync    *articlescmd.SyncDirectoryHandler
	StaticBuildSite *staticcmd.BuildSiteHandler
	StaticCleanSite *staticcmd.CleanSiteHandler
}

// Handlers lists every constructed handler, in registration order.
func (s *CommandSet) Handlers() []any {
	if s == nil {
		return nil
	}
	handlers := make([]any, 0, 5)
	if s.AuditRunChecks != nil {
		handlers = append(handlers, s.AuditRunChecks)
	}
	if s.ArticlesImport != nil {
		handlers = append(handlers, s.ArticlesImport)
	}
	if s.ArticlesSync != nil {
		handlers = append(handlers, s.ArticlesSync)
	}
	if s.StaticBuildSite != nil {
		handlers = append(handlers, s.StaticBuildSite)
	}
	if s.StaticCleanSite != nil {
		handlers = append(handlers, s.StaticCleanSite)
	}
	return handlers
}

// RegistrationOptions configures how handlers are registered during construction.
type RegistrationOptions struct {
	Registry       CommandRegistry
	Dispatcher     CommandDispatcher
	LoggerProvider interfaces.LoggerProvider
}

// RegistrationResult captures the constructed command handlers and any dispatcher subscriptions.
type RegistrationResult struct {
	Commands      *CommandSet
	Subscriptions []CommandSubscription
}

// Commands builds the command handlers exposed by the module. The audit,
// article, and static handlers each consult their feature gates at execution
// time, so a disabled feature yields a handler that fails fast.
func (m *Module) Commands() (*CommandSet, error) {
	cfg := m.container.Config
	if !cfg.Features.Commands {
		return nil, ErrCommandsFeatureDisabled
	}

	provider := m.container.LoggerProvider()

	set := &CommandSet{}

	parser := markdown.NewGoldmarkParser(interfaces.ParseOptions{
		Extensions: cfg.Markdown.Extensions,
		HardWraps:  cfg.Markdown.HardWraps,
		Unsafe:     cfg.Markdown.Unsafe,
	})

	set.AuditRunChecks = auditcmd.NewRunChecksHandler(
		auditcmd.DefaultServiceFactory(parser),
		commands.CommandLogger(provider, "audit"),
		auditcmd.FeatureGates{
			AuditEnabled: func() bool { return cfg.Features.Audit && cfg.Audit.Enabled },
		},
	)

	markdownSvc, err := m.container.MarkdownService()
	if err != nil {
		return nil, err
	}
	articleSvc := m.container.ArticleService()
	articleGates := articlescmd.FeatureGates{
		ArticlesEnabled: func() bool { return cfg.Features.Articles },
	}
	articlesLogger := commands.CommandLogger(provider, "articles")
	set.ArticlesImport = articlescmd.NewImportDirectoryHandler(markdownSvc, articleSvc, articlesLogger, articleGates)
	set.ArticlesSync = articlescmd.NewSyncDirectoryHandler(markdownSvc, articleSvc, articlesLogger, articleGates)

	staticGates := staticcmd.FeatureGates{
		GeneratorEnabled: func() bool { return cfg.Features.Generator && cfg.Generator.Enabled },
	}
	staticLogger := commands.CommandLogger(provider, "static")
	generatorSvc := m.container.GeneratorService()
	set.StaticBuildSite = staticcmd.NewBuildSiteHandler(generatorSvc, staticLogger, staticGates)
	set.StaticCleanSite = staticcmd.NewCleanSiteHandler(generatorSvc, staticLogger, staticGates)

	return set, nil
}

// RegisterCommands builds the module's command handlers and optionally
// registers them with registry and dispatcher integrations.
func (m *Module) RegisterCommands(opts RegistrationOptions) (*RegistrationResult, error) {
	set, err := m.Commands()
	if err != nil {
		return nil, err
	}

	result := &RegistrationResult{
		Commands:      set,
		Subscriptions: make([]CommandSubscription, 0),
	}

	var errs error
	for _, handler := range set.Handlers() {
		if opts.Registry != nil {
			if err := opts.Registry.RegisterCommand(handler); err != nil {
				errs = errors.Join(errs, err)
			}
		}
		if opts.Dispatcher != nil {
			subscription, err := opts.Dispatcher.RegisterCommand(handler)
			if err != nil {
				errs = errors.Join(errs, err)
			} else if subscription != nil {
				result.Subscriptions = append(result.Subscriptions, subscription)
			}
		}
	}
	if errs != nil {
		return result, errs
	}
	return result, nil
}
