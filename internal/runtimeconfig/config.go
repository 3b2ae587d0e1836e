package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	urlkit "github.com/goliatone/go-urlkit"
)

var (
	// ErrContentDirRequired indicates the content directory was left blank.
	ErrContentDirRequired = errors.New("press config: content directory is required")
	// ErrAuditFailOnInvalid indicates an unknown audit severity threshold.
	ErrAuditFailOnInvalid = errors.New("press config: audit fail_on severity is invalid")
	// ErrAuditCheckUnknown indicates an unrecognised audit check name.
	ErrAuditCheckUnknown = errors.New("press config: audit check is unknown")
	// ErrGeneratorOutputDirRequired indicates the generator was enabled without an output directory.
	ErrGeneratorOutputDirRequired = errors.New("press config: generator output directory is required when generator is enabled")
	// ErrGeneratorWorkersInvalid indicates a negative worker count.
	ErrGeneratorWorkersInvalid = errors.New("press config: generator workers must be zero or positive")
	// ErrStorageDriverUnknown indicates an unsupported storage driver.
	ErrStorageDriverUnknown = errors.New("press config: storage driver is invalid")
	// ErrLoggingProviderUnknown indicates an unsupported logging provider.
	ErrLoggingProviderUnknown = errors.New("press config: logging provider is invalid")
	// ErrLoggingLevelInvalid indicates an unsupported logging level.
	ErrLoggingLevelInvalid = errors.New("press config: logging level is invalid")
	// ErrLoggingFormatInvalid indicates an unsupported logging format.
	ErrLoggingFormatInvalid = errors.New("press config: logging format is invalid")
	// ErrCacheTTLInvalid indicates a negative cache TTL.
	ErrCacheTTLInvalid = errors.New("press config: cache default TTL must be zero or positive")
)

// Config aggregates feature flags and adapter bindings for the publishing
// module. Fields intentionally use simple types so host applications can
// embed the struct in their own configuration files.
type Config struct {
	Enabled   bool            `yaml:"enabled"`
	Content   ContentConfig   `yaml:"content"`
	Markdown  MarkdownConfig  `yaml:"markdown"`
	Audit     AuditConfig     `yaml:"audit"`
	Site      SiteConfig      `yaml:"site"`
	Generator GeneratorConfig `yaml:"generator"`
	Storage   StorageConfig   `yaml:"storage"`
	Cache     CacheConfig     `yaml:"cache"`
	Routes    RoutesConfig    `yaml:"routes"`
	Features  Features        `yaml:"features"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ContentConfig captures how Markdown source files are discovered on disk.
type ContentConfig struct {
	Dir        string   `yaml:"dir"`
	Pattern    string   `yaml:"pattern"`
	Recursive  bool     `yaml:"recursive"`
	Extensions []string `yaml:"extensions"`
}

// MarkdownConfig mirrors interfaces.ParseOptions for runtime configuration.
type MarkdownConfig struct {
	DefaultLayout string   `yaml:"default_layout"`
	Extensions    []string `yaml:"extensions"`
	HardWraps     bool     `yaml:"hard_wraps"`
	Unsafe        bool     `yaml:"unsafe"`
}

// AuditConfig selects which content checks run and when they fail a run.
type AuditConfig struct {
	Enabled bool     `yaml:"enabled"`
	Checks  []string `yaml:"checks"`
	FailOn  string   `yaml:"fail_on"`
}

// SiteConfig holds site-wide metadata stamped into generated artifacts.
type SiteConfig struct {
	BaseURL     string `yaml:"base_url"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Author      string `yaml:"author"`
}

// GeneratorConfig captures behaviour for the static site generator.
type GeneratorConfig struct {
	Enabled         bool   `yaml:"enabled"`
	OutputDir       string `yaml:"output_dir"`
	CleanBuild      bool   `yaml:"clean_build"`
	Incremental     bool   `yaml:"incremental"`
	GenerateSitemap bool   `yaml:"generate_sitemap"`
	GenerateRobots  bool   `yaml:"generate_robots"`
	GenerateFeeds   bool   `yaml:"generate_feeds"`
	Workers         int    `yaml:"workers"`
}

// StorageConfig lists identifiers for storage-related dependencies.
type StorageConfig struct {
	Name     string            `yaml:"name"`
	Driver   string            `yaml:"driver"`
	DSN      string            `yaml:"dsn"`
	ReadOnly bool              `yaml:"read_only"`
	Options  map[string]string `yaml:"options"`
}

// CacheConfig captures cache behaviour toggles for repository reads.
type CacheConfig struct {
	Enabled    bool          `yaml:"enabled"`
	DefaultTTL time.Duration `yaml:"default_ttl"`
}

// RoutesConfig carries the urlkit route groups used for permalink resolution.
type RoutesConfig struct {
	RouteConfig *urlkit.Config `yaml:"route_config"`
	BaseGroup   string         `yaml:"base_group"`
}

// Features toggles module functionality.
type Features struct {
	Articles  bool `yaml:"articles"`
	Audit     bool `yaml:"audit"`
	Generator bool `yaml:"generator"`
	Commands  bool `yaml:"commands"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string `yaml:"provider"`
	Level     string `yaml:"level"`
	Format    string `yaml:"format"`
	AddSource bool   `yaml:"add_source"`
}

// DefaultConfig returns an opinionated baseline: Markdown loading from
// ./content, audit failing at error severity, generator writing to ./public.
func DefaultConfig() Config {
	return Config{
		Enabled: true,
		Content: ContentConfig{
			Dir:        "content",
			Pattern:    "*.md",
			Recursive:  true,
			Extensions: []string{".md", ".markdown"},
		},
		Markdown: MarkdownConfig{
			DefaultLayout: "post",
			Extensions:    []string{"gfm", "footnote", "typographer"},
		},
		Audit: AuditConfig{
			Enabled: true,
			FailOn:  "error",
		},
		Site: SiteConfig{
			BaseURL: "",
			Title:   "",
		},
		Generator: GeneratorConfig{
			Enabled:         true,
			OutputDir:       "public",
			CleanBuild:      false,
			Incremental:     true,
			GenerateSitemap: true,
			GenerateRobots:  true,
			GenerateFeeds:   true,
			Workers:         0,
		},
		Storage: StorageConfig{
			Name:   "press",
			Driver: "sqlite",
			DSN:    "file:press.db?cache=shared&_fk=1",
		},
		Cache: CacheConfig{
			Enabled:    true,
			DefaultTTL: time.Minute,
		},
		Features: Features{
			Articles:  true,
			Audit:     true,
			Generator: true,
			Commands:  true,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

var knownAuditChecks = map[string]struct{}{
	"frontmatter_schema": {},
	"code_fences":        {},
	"links":              {},
	"render":             {},
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.Content.Dir) == "" {
		return ErrContentDirRequired
	}
	if cfg.Audit.Enabled {
		if failOn := strings.TrimSpace(cfg.Audit.FailOn); failOn != "" && !isSupportedSeverity(failOn) {
			return fmt.Errorf("%w: %s", ErrAuditFailOnInvalid, failOn)
		}
		for _, check := range cfg.Audit.Checks {
			if _, ok := knownAuditChecks[strings.ToLower(strings.TrimSpace(check))]; !ok {
				return fmt.Errorf("%w: %s", ErrAuditCheckUnknown, check)
			}
		}
	}
	if cfg.Generator.Enabled {
		if strings.TrimSpace(cfg.Generator.OutputDir) == "" {
			return ErrGeneratorOutputDirRequired
		}
		if cfg.Generator.Workers < 0 {
			return ErrGeneratorWorkersInvalid
		}
	}
	if driver := normalize(cfg.Storage.Driver); driver != "" && !isSupportedDriver(driver) {
		return fmt.Errorf("%w: %s", ErrStorageDriverUnknown, driver)
	}
	if cfg.Cache.DefaultTTL < 0 {
		return ErrCacheTTLInvalid
	}
	if provider := normalize(cfg.Logging.Provider); provider != "" && !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
		return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedSeverity(severity string) bool {
	switch normalize(severity) {
	case "info", "warning", "error":
		return true
	default:
		return false
	}
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedDriver(driver string) bool {
	switch driver {
	case "sqlite", "memory", "filesystem":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch normalize(level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch normalize(format) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
