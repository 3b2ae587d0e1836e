package auditcmd

import (
	"context"
	"errors"
	"fmt"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-press/internal/audit"
	"github.com/goliatone/go-press/internal/commands"
	"github.com/goliatone/go-press/internal/logging"
	"github.com/goliatone/go-press/pkg/interfaces"
)

const runChecksOperation = "audit.run_checks"

// ErrAuditFeatureDisabled is returned when the audit feature flag is off.
var ErrAuditFeatureDisabled = errors.New("audit command: feature disabled")

var _ command.Commander[RunChecksCommand] = (*RunChecksHandler)(nil)

// ServiceFactory builds an audit service for the directory named by a
// command. The default factory roots a service on the host filesystem.
type ServiceFactory func(cfg audit.Config) (interfaces.AuditService, error)

// DefaultServiceFactory returns a factory that constructs audit services over
// the given Markdown parser.
func DefaultServiceFactory(parser interfaces.MarkdownParser) ServiceFactory {
	return func(cfg audit.Config) (interfaces.AuditService, error) {
		return audit.NewService(cfg, parser)
	}
}

// RunChecksHandler walks a content directory and fails when findings reach
// the command's severity threshold.
type RunChecksHandler struct {
	inner *commands.Handler[RunChecksCommand]
}

// NewRunChecksHandler creates a handler bound to the supplied service factory.
func NewRunChecksHandler(factory ServiceFactory, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[RunChecksCommand]) *RunChecksHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg RunChecksCommand) error {
		if factory == nil || !gates.auditEnabled() {
			return ErrAuditFeatureDisabled
		}

		service, err := factory(audit.Config{
			BasePath:  msg.Directory,
			Pattern:   msg.Pattern,
			Recursive: msg.Recursive,
			Checks:    msg.Checks,
		})
		if err != nil {
			return err
		}

		reports, err := service.RunDirectory(ctx, ".", interfaces.AuditOptions{Checks: msg.Checks})
		if err != nil {
			return err
		}

		threshold := msg.FailThreshold()
		failing := 0
		findings := 0
		for _, report := range reports {
			findings += len(report.Findings)
			failing += report.CountAtOrAbove(threshold)
		}
		logging.WithFields(baseLogger, map[string]any{
			"documents": len(reports),
			"findings":  findings,
			"failing":   failing,
			"fail_on":   string(threshold),
		}).Info("audit.command.run_checks.completed")

		if failing > 0 {
			return fmt.Errorf("audit command: %d finding(s) at or above severity %q", failing, threshold)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[RunChecksCommand]{
		commands.WithLogger[RunChecksCommand](baseLogger),
		commands.WithOperation[RunChecksCommand](runChecksOperation),
		commands.WithMessageFields(func(msg RunChecksCommand) map[string]any {
			fields := map[string]any{
				"directory": msg.Directory,
			}
			if msg.Pattern != "" {
				fields["pattern"] = msg.Pattern
			}
			if msg.Recursive {
				fields["recursive"] = true
			}
			if len(msg.Checks) > 0 {
				fields["checks"] = msg.Checks
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[RunChecksCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &RunChecksHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[RunChecksCommand].
func (h *RunChecksHandler) Execute(ctx context.Context, msg RunChecksCommand) error {
	return h.inner.Execute(ctx, msg)
}
