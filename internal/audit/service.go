package audit

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-press/internal/logging"
	"github.com/goliatone/go-press/internal/markdown"
	"github.com/goliatone/go-press/pkg/interfaces"
)

// Check names accepted by Config.Checks and AuditOptions.Checks.
const (
	CheckFrontMatter = "frontmatter_schema"
	CheckCodeFences  = "code_fences"
	CheckLinks       = "links"
	CheckRender      = "render"
)

var (
	// ErrParserRequired indicates the service was constructed without a parser.
	ErrParserRequired = errors.New("audit: markdown parser is required")
	// ErrUnknownCheck indicates a requested check name is not registered.
	ErrUnknownCheck = errors.New("audit: unknown check")
	// ErrDocumentRequired indicates Run was called with a nil document.
	ErrDocumentRequired = errors.New("audit: document is required")
	// ErrSourceRequired indicates RunSource was called with no content.
	ErrSourceRequired = errors.New("audit: source is required")
)

// defaultCheckOrder fixes the execution order regardless of how callers list
// check names.
var defaultCheckOrder = []string{CheckFrontMatter, CheckCodeFences, CheckLinks, CheckRender}

// Config holds audit service configuration.
type Config struct {
	// BasePath is the directory RunDirectory walks. Defaults to ".".
	BasePath string
	// Pattern filters filenames during directory runs. Defaults to "*.md".
	Pattern string
	// Recursive controls whether RunDirectory descends into subdirectories.
	Recursive bool
	// Checks selects the default check set. Empty means every check.
	Checks []string
	// Parser holds default parse options for the render check.
	Parser interfaces.ParseOptions
}

// checkFunc evaluates one property of a document and appends findings to the
// run. Checks never return errors for content problems, only for infra
// failures such as a cancelled context.
type checkFunc func(ctx context.Context, run *runState) error

// Service implements interfaces.AuditService on top of the shared Markdown
// parsing stack.
type Service struct {
	config     Config
	parser     interfaces.MarkdownParser
	filesystem fs.FS
	logger     interfaces.Logger
	clock      func() time.Time
	checks     map[string]checkFunc
}

var _ interfaces.AuditService = (*Service)(nil)

// ServiceOption configures optional service collaborators.
type ServiceOption func(*Service)

// WithLogger attaches a logger used for per-document audit telemetry.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source used to measure check duration.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewService builds an audit service rooted at cfg.BasePath on the host
// filesystem.
func NewService(cfg Config, parser interfaces.MarkdownParser, opts ...ServiceOption) (*Service, error) {
	base := strings.TrimSpace(cfg.BasePath)
	if base == "" {
		base = "."
	}
	info, err := os.Stat(base)
	if err != nil {
		return nil, fmt.Errorf("audit service base path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("audit service base path %s is not a directory", base)
	}
	return NewServiceWithFS(cfg, parser, os.DirFS(base), opts...)
}

// NewServiceWithFS builds an audit service over an explicit filesystem,
// typically fstest.MapFS or testdata in tests.
func NewServiceWithFS(cfg Config, parser interfaces.MarkdownParser, filesystem fs.FS, opts ...ServiceOption) (*Service, error) {
	if parser == nil {
		return nil, ErrParserRequired
	}
	if filesystem == nil {
		return nil, errors.New("audit: filesystem is required")
	}
	if strings.TrimSpace(cfg.Pattern) == "" {
		cfg.Pattern = "*.md"
	}
	svc := &Service{
		config:     cfg,
		parser:     parser,
		filesystem: filesystem,
		logger:     logging.NoOp(),
		clock:      time.Now,
	}
	svc.checks = map[string]checkFunc{
		CheckFrontMatter: svc.checkFrontMatter,
		CheckCodeFences:  svc.checkCodeFences,
		CheckLinks:       svc.checkLinks,
		CheckRender:      svc.checkRender,
	}
	for _, opt := range opts {
		opt(svc)
	}
	if _, err := svc.resolveChecks(cfg.Checks); err != nil {
		return nil, err
	}
	return svc, nil
}

// Run audits an already loaded document.
func (s *Service) Run(ctx context.Context, doc *interfaces.Document, opts interfaces.AuditOptions) (*interfaces.Report, error) {
	if doc == nil {
		return nil, ErrDocumentRequired
	}
	run := &runState{
		path:   doc.FilePath,
		raw:    doc.FrontMatter.Raw,
		body:   doc.Body,
		parser: s.mergeParseOptions(opts.Parser),
	}
	return s.execute(ctx, run, opts.Checks)
}

// RunSource audits raw article bytes without requiring a prior load. The
// metadata header is parsed leniently so shape violations surface as findings
// rather than aborting the run.
func (s *Service) RunSource(ctx context.Context, path string, source []byte, opts interfaces.AuditOptions) (*interfaces.Report, error) {
	if len(source) == 0 {
		return nil, ErrSourceRequired
	}
	run := &runState{
		path:   path,
		body:   source,
		parser: s.mergeParseOptions(opts.Parser),
	}
	raw, body, err := markdown.ParseRawFrontMatter(source)
	if err != nil {
		run.headerErr = err
	} else {
		run.raw = raw
		run.body = body
	}
	return s.execute(ctx, run, opts.Checks)
}

// RunDirectory audits every matching file under dir, which is resolved
// relative to the service base path ("" or "." audits the whole base). It
// returns one report per file, sorted by path. Content problems never abort
// the walk; only filesystem failures do.
func (s *Service) RunDirectory(ctx context.Context, dir string, opts interfaces.AuditOptions) ([]*interfaces.Report, error) {
	root := normaliseDir(dir)
	var reports []*interfaces.Report
	err := fs.WalkDir(s.filesystem, root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return fmt.Errorf("audit walk %s: %w", path, walkErr)
		}
		if entry.IsDir() {
			if path != root && !s.config.Recursive {
				return fs.SkipDir
			}
			return nil
		}
		if !s.matchesPattern(entry.Name()) {
			return nil
		}
		source, readErr := fs.ReadFile(s.filesystem, path)
		if readErr != nil {
			return fmt.Errorf("audit read %s: %w", path, readErr)
		}
		report, runErr := s.RunSource(ctx, path, source, opts)
		if runErr != nil {
			return fmt.Errorf("audit %s: %w", path, runErr)
		}
		reports = append(reports, report)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(reports, func(i, j int) bool {
		return reports[i].Path < reports[j].Path
	})
	return reports, nil
}

// execute resolves the requested check set and runs each check in registry
// order, assembling the report.
func (s *Service) execute(ctx context.Context, run *runState, requested []string) (*interfaces.Report, error) {
	if len(requested) == 0 {
		requested = s.config.Checks
	}
	names, err := s.resolveChecks(requested)
	if err != nil {
		return nil, err
	}
	started := s.clock()
	for _, name := range names {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		run.current = name
		if err := s.checks[name](ctx, run); err != nil {
			return nil, fmt.Errorf("audit check %s: %w", name, err)
		}
	}
	report := &interfaces.Report{
		Path:     run.path,
		Checks:   names,
		Findings: run.findings,
		Links:    run.links,
		Fences:   run.fences,
		Duration: s.clock().Sub(started),
	}
	s.logger.Debug("audit completed",
		"document_path", report.Path,
		"checks", len(report.Checks),
		"findings", len(report.Findings),
		"errors", report.ErrorCount(),
	)
	return report, nil
}

// resolveChecks validates requested names and returns them in canonical
// execution order with duplicates removed.
func (s *Service) resolveChecks(requested []string) ([]string, error) {
	if len(requested) == 0 {
		return append([]string(nil), defaultCheckOrder...), nil
	}
	selected := map[string]bool{}
	for _, name := range requested {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := s.checks[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownCheck, name)
		}
		selected[name] = true
	}
	if len(selected) == 0 {
		return append([]string(nil), defaultCheckOrder...), nil
	}
	ordered := make([]string, 0, len(selected))
	for _, name := range defaultCheckOrder {
		if selected[name] {
			ordered = append(ordered, name)
		}
	}
	return ordered, nil
}

func (s *Service) mergeParseOptions(override interfaces.ParseOptions) interfaces.ParseOptions {
	merged := s.config.Parser
	if len(override.Extensions) > 0 {
		merged.Extensions = override.Extensions
	}
	if override.HardWraps {
		merged.HardWraps = true
	}
	if override.Unsafe {
		merged.Unsafe = true
	}
	return merged
}

func normaliseDir(dir string) string {
	dir = strings.Trim(strings.TrimSpace(dir), "/")
	if dir == "" {
		return "."
	}
	return dir
}

func (s *Service) matchesPattern(name string) bool {
	pattern := s.config.Pattern
	if strings.HasPrefix(pattern, "**/") {
		pattern = strings.TrimPrefix(pattern, "**/")
	}
	matched, err := filepath.Match(pattern, name)
	if err != nil {
		return false
	}
	return matched
}

// runState carries one document through the check pipeline.
type runState struct {
	path      string
	raw       map[string]any
	headerErr error
	body      []byte
	parser    interfaces.ParseOptions
	current   string
	findings  []interfaces.Finding
	links     int
	fences    int
}

// report appends a finding attributed to the check currently running. Line is
// 1-based within the Markdown body, or zero when no line applies.
func (r *runState) report(severity interfaces.Severity, line int, format string, args ...any) {
	r.findings = append(r.findings, interfaces.Finding{
		Check:    r.current,
		Severity: severity,
		Path:     r.path,
		Line:     line,
		Message:  fmt.Sprintf(format, args...),
	})
}
