package articlescmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	importDirectoryMessageType = "press.articles.import_directory"
	syncDirectoryMessageType   = "press.articles.sync_directory"
)

// ImportDirectoryCommand loads every Markdown document under Directory and
// imports it into article storage. Existing articles are updated only when
// the source checksum changed.
type ImportDirectoryCommand struct {
	// Directory selects the filesystem path (relative or absolute) to load Markdown files from.
	Directory string `json:"directory"`
	// Pattern filters filenames, defaulting to the markdown service pattern (*.md).
	Pattern string `json:"pattern,omitempty"`
	// Recursive descends into subdirectories when true.
	Recursive bool `json:"recursive,omitempty"`
	// Publish marks imported articles as published instead of draft.
	Publish bool `json:"publish,omitempty"`
	// DryRun reports what an import would change without persisting.
	DryRun bool `json:"dry_run,omitempty"`
}

// Type implements command.Message.
func (ImportDirectoryCommand) Type() string { return importDirectoryMessageType }

// Validate ensures directory input is present before handlers execute.
func (cmd ImportDirectoryCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("press.articles.import_directory.directory_required", "directory is required")
			}
			return nil
		})),
	)
}

// SyncDirectoryCommand aligns article storage with a Markdown source tree:
// new files create articles, changed files update them, and orphaned records
// are optionally removed.
type SyncDirectoryCommand struct {
	// Directory selects the filesystem path (relative or absolute) to load Markdown files from.
	Directory string `json:"directory"`
	// Pattern filters filenames, defaulting to the markdown service pattern (*.md).
	Pattern string `json:"pattern,omitempty"`
	// Recursive descends into subdirectories when true.
	Recursive bool `json:"recursive,omitempty"`
	// Publish marks newly created articles as published instead of draft.
	Publish bool `json:"publish,omitempty"`
	// DryRun reports what a sync would change without persisting.
	DryRun bool `json:"dry_run,omitempty"`
	// DeleteOrphaned removes stored articles without a matching source file.
	DeleteOrphaned bool `json:"delete_orphaned,omitempty"`
}

// Type implements command.Message.
func (SyncDirectoryCommand) Type() string { return syncDirectoryMessageType }

// Validate ensures directory input is present before handlers execute.
func (cmd SyncDirectoryCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("press.articles.sync_directory.directory_required", "directory is required")
			}
			return nil
		})),
	)
}
