package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"gopkg.in/yaml.v3"

	_ "github.com/mattn/go-sqlite3"

	press "github.com/goliatone/go-press"
	"github.com/goliatone/go-press/internal/di"
	"github.com/goliatone/go-press/pkg/interfaces"
)

// DefaultConfigPath is probed when no explicit config file is supplied.
const DefaultConfigPath = "press.yaml"

// Options captures configuration for press CLI bootstraps.
type Options struct {
	ConfigPath     string
	ContentDir     string
	Pattern        string
	Recursive      *bool
	OutputDir      string
	BaseURL        string
	DSN            string
	LoggerProvider interfaces.LoggerProvider
}

// Module wraps the press module together with the resources the CLI owns.
type Module struct {
	Module *press.Module
	Config press.Config
	DB     *bun.DB
	Logger interfaces.Logger
}

// Close releases CLI-owned resources, currently the database handle.
func (m *Module) Close() error {
	if m == nil || m.DB == nil {
		return nil
	}
	return m.DB.Close()
}

// LoadConfig reads a press.yaml on top of the default configuration. A
// missing default path falls back to defaults; an explicit path must exist.
func LoadConfig(path string) (press.Config, error) {
	cfg := press.DefaultConfig()

	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path = DefaultConfigPath
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// OpenDatabase opens a sqlite-backed bun handle for the supplied DSN.
func OpenDatabase(dsn string) (*bun.DB, error) {
	trimmed := strings.TrimSpace(dsn)
	if trimmed == "" {
		return nil, errors.New("bootstrap: database DSN is required")
	}
	sqldb, err := sql.Open("sqlite3", trimmed)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", trimmed, err)
	}
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

// Migrate applies the embedded schema migrations in lexical order.
func Migrate(ctx context.Context, db *bun.DB) error {
	if db == nil {
		return errors.New("bootstrap: database handle is required")
	}

	migrations := press.GetMigrationsFS()
	entries, err := fs.Glob(migrations, "data/sql/migrations/*.up.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(entries)

	for _, entry := range entries {
		script, err := fs.ReadFile(migrations, entry)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", entry, err)
		}
		if _, err := db.ExecContext(ctx, string(script)); err != nil {
			return fmt.Errorf("apply migration %s: %w", entry, err)
		}
	}
	return nil
}

// BuildModule constructs a press module configured for CLI operations. When a
// DSN is supplied the database is opened and migrated before wiring.
func BuildModule(ctx context.Context, opts Options) (*Module, error) {
	cfg, err := LoadConfig(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	if dir := strings.TrimSpace(opts.ContentDir); dir != "" {
		cfg.Content.Dir = dir
	}
	if pattern := strings.TrimSpace(opts.Pattern); pattern != "" {
		cfg.Content.Pattern = pattern
	}
	if opts.Recursive != nil {
		cfg.Content.Recursive = *opts.Recursive
	}
	if out := strings.TrimSpace(opts.OutputDir); out != "" {
		cfg.Generator.OutputDir = out
	}
	if base := strings.TrimSpace(opts.BaseURL); base != "" {
		cfg.Site.BaseURL = base
	}
	if dsn := strings.TrimSpace(opts.DSN); dsn != "" {
		cfg.Storage.DSN = dsn
	}

	diOpts := []di.Option{}
	if opts.LoggerProvider != nil {
		diOpts = append(diOpts, di.WithLoggerProvider(opts.LoggerProvider))
	}

	var db *bun.DB
	if strings.TrimSpace(opts.DSN) != "" {
		db, err = OpenDatabase(opts.DSN)
		if err != nil {
			return nil, err
		}
		if err := Migrate(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		diOpts = append(diOpts, di.WithBunDB(db))
	}

	module, err := press.New(cfg, diOpts...)
	if err != nil {
		if db != nil {
			db.Close()
		}
		return nil, fmt.Errorf("initialise press module: %w", err)
	}

	return &Module{
		Module: module,
		Config: cfg,
		DB:     db,
		Logger: module.Logger(),
	}, nil
}

// SplitList parses a comma separated list into a trimmed slice.
func SplitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
