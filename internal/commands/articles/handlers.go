package articlescmd

import (
	"context"
	"errors"

	command "github.com/goliatone/go-command"

	pressarticles "github.com/goliatone/go-press/articles"
	"github.com/goliatone/go-press/internal/commands"
	"github.com/goliatone/go-press/internal/logging"
	"github.com/goliatone/go-press/pkg/interfaces"
)

const (
	importOperation = "articles.import_directory"
	syncOperation   = "articles.sync_directory"
)

// ErrArticlesFeatureDisabled is returned when the articles feature flag is off.
var ErrArticlesFeatureDisabled = errors.New("articles command: feature disabled")

var (
	_ command.Commander[ImportDirectoryCommand] = (*ImportDirectoryHandler)(nil)
	_ command.Commander[SyncDirectoryCommand]   = (*SyncDirectoryHandler)(nil)
)

// ImportDirectoryHandler orchestrates Markdown directory imports through the
// shared command handler foundation.
type ImportDirectoryHandler struct {
	inner *commands.Handler[ImportDirectoryCommand]
}

// NewImportDirectoryHandler creates a handler bound to the supplied services.
func NewImportDirectoryHandler(
	markdownService interfaces.MarkdownService,
	articleService pressarticles.Service,
	logger interfaces.Logger,
	gates FeatureGates,
	opts ...commands.HandlerOption[ImportDirectoryCommand],
) *ImportDirectoryHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg ImportDirectoryCommand) error {
		if markdownService == nil || articleService == nil || !gates.articlesEnabled() {
			return ErrArticlesFeatureDisabled
		}

		docs, err := markdownService.LoadDirectory(ctx, msg.Directory, loadOptions(msg.Pattern, msg.Recursive))
		if err != nil {
			return err
		}

		result, err := articleService.ImportDocuments(ctx, docs, pressarticles.ImportOptions{
			Publish: msg.Publish,
			DryRun:  msg.DryRun,
		})
		if err != nil {
			return err
		}
		if result != nil {
			logging.WithFields(baseLogger, map[string]any{
				"created_count": result.Created(),
				"updated_count": result.Updated(),
				"skipped_count": result.Skipped(),
				"error_count":   len(result.Errors),
				"dry_run":       msg.DryRun,
			}).Info("articles.command.import_directory.completed")
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[ImportDirectoryCommand]{
		commands.WithLogger[ImportDirectoryCommand](baseLogger),
		commands.WithOperation[ImportDirectoryCommand](importOperation),
		commands.WithMessageFields(func(msg ImportDirectoryCommand) map[string]any {
			fields := map[string]any{
				"directory": msg.Directory,
			}
			if msg.Pattern != "" {
				fields["pattern"] = msg.Pattern
			}
			if msg.Recursive {
				fields["recursive"] = true
			}
			if msg.Publish {
				fields["publish"] = true
			}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[ImportDirectoryCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ImportDirectoryHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[ImportDirectoryCommand].
func (h *ImportDirectoryHandler) Execute(ctx context.Context, msg ImportDirectoryCommand) error {
	return h.inner.Execute(ctx, msg)
}

// SyncDirectoryHandler aligns article storage with a Markdown source tree.
type SyncDirectoryHandler struct {
	inner *commands.Handler[SyncDirectoryCommand]
}

// NewSyncDirectoryHandler creates a handler bound to the supplied services.
func NewSyncDirectoryHandler(
	markdownService interfaces.MarkdownService,
	articleService pressarticles.Service,
	logger interfaces.Logger,
	gates FeatureGates,
	opts ...commands.HandlerOption[SyncDirectoryCommand],
) *SyncDirectoryHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg SyncDirectoryCommand) error {
		if markdownService == nil || articleService == nil || !gates.articlesEnabled() {
			return ErrArticlesFeatureDisabled
		}

		docs, err := markdownService.LoadDirectory(ctx, msg.Directory, loadOptions(msg.Pattern, msg.Recursive))
		if err != nil {
			return err
		}

		result, err := articleService.SyncDocuments(ctx, docs, pressarticles.SyncOptions{
			ImportOptions: pressarticles.ImportOptions{
				Publish: msg.Publish,
				DryRun:  msg.DryRun,
			},
			DeleteOrphaned: msg.DeleteOrphaned,
		})
		if err != nil {
			return err
		}
		if result != nil {
			logging.WithFields(baseLogger, map[string]any{
				"created_count": result.Created,
				"updated_count": result.Updated,
				"skipped_count": result.Skipped,
				"deleted_count": result.Deleted,
				"error_count":   len(result.Errors),
				"dry_run":       msg.DryRun,
			}).Info("articles.command.sync_directory.completed")
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[SyncDirectoryCommand]{
		commands.WithLogger[SyncDirectoryCommand](baseLogger),
		commands.WithOperation[SyncDirectoryCommand](syncOperation),
		commands.WithMessageFields(func(msg SyncDirectoryCommand) map[string]any {
			fields := map[string]any{
				"directory": msg.Directory,
			}
			if msg.Pattern != "" {
				fields["pattern"] = msg.Pattern
			}
			if msg.Recursive {
				fields["recursive"] = true
			}
			if msg.Publish {
				fields["publish"] = true
			}
			if msg.DeleteOrphaned {
				fields["delete_orphaned"] = true
			}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[SyncDirectoryCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &SyncDirectoryHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[SyncDirectoryCommand].
func (h *SyncDirectoryHandler) Execute(ctx context.Context, msg SyncDirectoryCommand) error {
	return h.inner.Execute(ctx, msg)
}

func loadOptions(pattern string, recursive bool) interfaces.LoadOptions {
	opts := interfaces.LoadOptions{Pattern: pattern}
	if recursive {
		flag := true
		opts.Recursive = &flag
	}
	return opts
}
