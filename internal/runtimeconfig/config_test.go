package runtimeconfig_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-press/internal/runtimeconfig"
	"gopkg.in/yaml.v3"
)

func TestConfigValidate_DefaultsPass(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
}

func TestConfigValidate_RequiresContentDir(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Content.Dir = "  "

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrContentDirRequired) {
		t.Fatalf("expected ErrContentDirRequired, got %v", err)
	}
}

func TestConfigValidate_AllowsDisabledGeneratorWithoutOutput(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Generator.Enabled = false
	cfg.Generator.OutputDir = ""

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
}

func TestConfigValidate_RequiresOutputDirWhenGeneratorEnabled(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Generator.Enabled = true
	cfg.Generator.OutputDir = " "

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrGeneratorOutputDirRequired) {
		t.Fatalf("expected ErrGeneratorOutputDirRequired, got %v", err)
	}
}

func TestConfigValidate_RejectsNegativeWorkers(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Generator.Enabled = true
	cfg.Generator.Workers = -1

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrGeneratorWorkersInvalid) {
		t.Fatalf("expected ErrGeneratorWorkersInvalid, got %v", err)
	}
}

func TestConfigValidate_RejectsUnknownAuditSeverity(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Audit.FailOn = "fatal"

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrAuditFailOnInvalid) {
		t.Fatalf("expected ErrAuditFailOnInvalid, got %v", err)
	}
}

func TestConfigValidate_RejectsUnknownAuditCheck(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Audit.Checks = []string{"links", "spellcheck"}

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrAuditCheckUnknown) {
		t.Fatalf("expected ErrAuditCheckUnknown, got %v", err)
	}
}

func TestConfigValidate_RejectsUnknownStorageDriver(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.Driver = "oracle"

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrStorageDriverUnknown) {
		t.Fatalf("expected ErrStorageDriverUnknown, got %v", err)
	}
}

func TestConfigValidate_RejectsInvalidLoggingLevel(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Logging.Level = "verbose"

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrLoggingLevelInvalid) {
		t.Fatalf("expected ErrLoggingLevelInvalid, got %v", err)
	}
}

func TestConfigValidate_RejectsInvalidLoggingFormat(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Logging.Format = "xml"

	err := cfg.Validate()
	if !errors.Is(err, runtimeconfig.ErrLoggingFormatInvalid) {
		t.Fatalf("expected ErrLoggingFormatInvalid, got %v", err)
	}
}

func TestConfig_YAMLRoundTrip(t *testing.T) {
	raw := []byte(`
enabled: true
content:
  dir: articles
  pattern: "*.markdown"
  recursive: true
site:
  base_url: https://blog.example.com
  title: Example Blog
generator:
  enabled: true
  output_dir: dist
  generate_feeds: true
  workers: 2
storage:
  driver: sqlite
  dsn: "file:blog.db"
features:
  articles: true
  generator: true
logging:
  level: debug
  format: console
`)

	cfg := runtimeconfig.DefaultConfig()
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if cfg.Content.Dir != "articles" {
		t.Fatalf("expected content dir override, got %q", cfg.Content.Dir)
	}
	if cfg.Generator.OutputDir != "dist" || cfg.Generator.Workers != 2 {
		t.Fatalf("generator section not applied: %+v", cfg.Generator)
	}
	if cfg.Site.BaseURL != "https://blog.example.com" {
		t.Fatalf("site section not applied: %+v", cfg.Site)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() after YAML load: %v", err)
	}
}
