package auditcmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-press/pkg/interfaces"
)

const runChecksMessageType = "press.audit.run_checks"

// knownChecks mirrors the audit service registry so validation can reject
// typos before a handler runs.
var knownChecks = map[string]struct{}{
	"frontmatter_schema": {},
	"code_fences":        {},
	"links":              {},
	"render":             {},
}

// RunChecksCommand audits every Markdown document under Directory against
// the content-integrity check set.
type RunChecksCommand struct {
	// Directory selects the filesystem path (relative or absolute) to audit.
	Directory string `json:"directory"`
	// Pattern filters filenames, defaulting to the service pattern (*.md).
	Pattern string `json:"pattern,omitempty"`
	// Recursive descends into subdirectories when true.
	Recursive bool `json:"recursive,omitempty"`
	// Checks narrows the check set. Empty runs every registered check.
	Checks []string `json:"checks,omitempty"`
	// FailOn sets the severity threshold that turns findings into an error.
	// Defaults to "error".
	FailOn string `json:"fail_on,omitempty"`
}

// Type implements command.Message.
func (RunChecksCommand) Type() string { return runChecksMessageType }

// Validate ensures the directory is present and check names are known.
func (cmd RunChecksCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("press.audit.run_checks.directory_required", "directory is required")
			}
			return nil
		})),
		validation.Field(&cmd.Checks, validation.By(func(value any) error {
			names, _ := value.([]string)
			for _, name := range names {
				if _, ok := knownChecks[strings.TrimSpace(name)]; !ok {
					return validation.NewError("press.audit.run_checks.unknown_check", "unknown check: "+name)
				}
			}
			return nil
		})),
		validation.Field(&cmd.FailOn, validation.By(func(value any) error {
			raw := strings.TrimSpace(value.(string))
			if raw == "" {
				return nil
			}
			switch interfaces.Severity(raw) {
			case interfaces.SeverityError, interfaces.SeverityWarning, interfaces.SeverityInfo:
				return nil
			default:
				return validation.NewError("press.audit.run_checks.invalid_fail_on", "fail_on must be error, warning or info")
			}
		})),
	)
}

// FailThreshold resolves the fail-on severity, defaulting to error.
func (cmd RunChecksCommand) FailThreshold() interfaces.Severity {
	raw := strings.TrimSpace(cmd.FailOn)
	if raw == "" {
		return interfaces.SeverityError
	}
	return interfaces.Severity(raw)
}
