package interfaces

import (
	"context"
	"time"
)

// Severity grades audit findings. Errors indicate contract violations that
// should fail a publish; warnings flag content worth a second look.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Rank orders severities so callers can compare against a threshold.
func (s Severity) Rank() int {
	switch s {
	case SeverityError:
		return 3
	case SeverityWarning:
		return 2
	case SeverityInfo:
		return 1
	default:
		return 0
	}
}

// Finding records a single audit observation against a document.
type Finding struct {
	Check    string   `json:"check"`
	Severity Severity `json:"severity"`
	Path     string   `json:"path,omitempty"`
	Line     int      `json:"line,omitempty"`
	Message  string   `json:"message"`
}

// Report aggregates the findings produced by one audit run over a document.
type Report struct {
	Path     string        `json:"path"`
	Checks   []string      `json:"checks"`
	Findings []Finding     `json:"findings"`
	Links    int           `json:"links"`
	Fences   int           `json:"fences"`
	Duration time.Duration `json:"duration"`
}

// Ok reports whether the run produced no error findings.
func (r *Report) Ok() bool {
	return r.ErrorCount() == 0
}

// ErrorCount returns the number of error-severity findings.
func (r *Report) ErrorCount() int {
	return r.countAt(SeverityError)
}

// WarningCount returns the number of warning-severity findings.
func (r *Report) WarningCount() int {
	return r.countAt(SeverityWarning)
}

// CountAtOrAbove returns the number of findings whose severity ranks at or
// above the supplied threshold.
func (r *Report) CountAtOrAbove(threshold Severity) int {
	if r == nil {
		return 0
	}
	count := 0
	for _, finding := range r.Findings {
		if finding.Severity.Rank() >= threshold.Rank() {
			count++
		}
	}
	return count
}

func (r *Report) countAt(severity Severity) int {
	if r == nil {
		return 0
	}
	count := 0
	for _, finding := range r.Findings {
		if finding.Severity == severity {
			count++
		}
	}
	return count
}

// AuditOptions selects which checks run. An empty Checks slice runs every
// registered check; unknown names surface as errors from the service.
type AuditOptions struct {
	Checks []string
	Parser ParseOptions
}

// AuditService verifies the publishable properties of loaded documents: the
// metadata header conforms to the recognized key set, fenced code examples
// are well-formed, links carry non-empty destinations, and the body renders
// to non-empty HTML.
type AuditService interface {
	Run(ctx context.Context, doc *Document, opts AuditOptions) (*Report, error)
	RunSource(ctx context.Context, path string, source []byte, opts AuditOptions) (*Report, error)
	RunDirectory(ctx context.Context, dir string, opts AuditOptions) ([]*Report, error)
}
