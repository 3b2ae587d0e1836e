package staticcmd

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-press/internal/generator"
	"github.com/google/uuid"
)

const (
	buildSiteMessageType = "press.static.build_site"
	cleanSiteMessageType = "press.static.clean_site"
)

// ResultCallback receives build results produced by generator operations. The
// callback is optional and is invoked synchronously from the handler when a
// BuildResult is available.
type ResultCallback func(ResultEnvelope)

// ResultEnvelope captures the outcome of a static command execution.
type ResultEnvelope struct {
	Result   *generator.BuildResult
	Metadata map[string]any
}

// BuildSiteCommand executes a generator build using the provided filters.
type BuildSiteCommand struct {
	ArticleIDs     []uuid.UUID    `json:"article_ids,omitempty"`
	IncludeDrafts  bool           `json:"include_drafts,omitempty"`
	DryRun         bool           `json:"dry_run,omitempty"`
	ResultCallback ResultCallback `json:"-"`
}

// Type implements command.Message.
func (BuildSiteCommand) Type() string { return buildSiteMessageType }

// Validate ensures article identifiers are valid UUIDs.
func (m BuildSiteCommand) Validate() error {
	errs := validation.Errors{}
	for _, id := range m.ArticleIDs {
		if id == uuid.Nil {
			errs["article_ids"] = validation.NewError("press.static.build_site.article_id_invalid", "article_ids must contain valid identifiers")
			break
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// CleanSiteCommand clears generator artifacts from the configured storage backend.
type CleanSiteCommand struct{}

// Type implements command.Message.
func (CleanSiteCommand) Type() string { return cleanSiteMessageType }

// Validate satisfies command.Message; there are no payload constraints.
func (CleanSiteCommand) Validate() error { return nil }

// FeatureGates exposes runtime switches used to guard handler execution.
type FeatureGates struct {
	GeneratorEnabled func() bool
}

func (g FeatureGates) generatorEnabled() bool {
	if g.GeneratorEnabled == nil {
		return false
	}
	return g.GeneratorEnabled()
}
