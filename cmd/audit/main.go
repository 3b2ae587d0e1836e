package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/goliatone/go-press/cmd/internal/bootstrap"
	"github.com/goliatone/go-press/pkg/interfaces"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	code, err := runAudit(os.Args[1:])
	if err != nil {
		log.Fatalf("press audit: %v", err)
	}
	os.Exit(code)
}

func runAudit(args []string) (int, error) {
	fs := flag.NewFlagSet("press-audit", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to a press.yaml configuration file")
	contentDir := fs.String("content-dir", "", "Path to the markdown content root (overrides config)")
	pattern := fs.String("pattern", "", "Glob pattern applied when discovering markdown files")
	checks := fs.String("checks", "", "Comma separated list of checks to run (defaults to all)")
	failOn := fs.String("fail-on", "error", "Severity that fails the run: info, warning, or error")

	if err := fs.Parse(args); err != nil {
		return 0, err
	}

	threshold, err := parseSeverity(*failOn)
	if err != nil {
		return 0, err
	}

	ctx := context.Background()
	module, err := moduleBuilder(ctx, bootstrap.Options{
		ConfigPath: *configPath,
		ContentDir: *contentDir,
		Pattern:    *pattern,
	})
	if err != nil {
		return 0, err
	}
	defer module.Close()

	service, err := module.Module.Audit()
	if err != nil {
		return 0, err
	}

	reports, err := service.RunDirectory(ctx, ".", interfaces.AuditOptions{
		Checks: bootstrap.SplitList(*checks),
	})
	if err != nil {
		return 0, err
	}

	failures := printReports(os.Stdout, reports, threshold)
	if failures > 0 {
		fmt.Fprintf(os.Stderr, "%d finding(s) at or above severity %q\n", failures, threshold)
		return 1, nil
	}
	return 0, nil
}

func printReports(out *os.File, reports []*interfaces.Report, threshold interfaces.Severity) int {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PATH\tSEVERITY\tCHECK\tLINE\tMESSAGE")

	failures := 0
	for _, report := range reports {
		if report == nil {
			continue
		}
		failures += report.CountAtOrAbove(threshold)
		for _, finding := range report.Findings {
			line := ""
			if finding.Line > 0 {
				line = fmt.Sprintf("%d", finding.Line)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				report.Path, finding.Severity, finding.Check, line, finding.Message)
		}
	}
	w.Flush()

	fmt.Fprintf(out, "\naudited %d document(s)\n", len(reports))
	return failures
}

func parseSeverity(value string) (interfaces.Severity, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "error":
		return interfaces.SeverityError, nil
	case "warning", "warn":
		return interfaces.SeverityWarning, nil
	case "info":
		return interfaces.SeverityInfo, nil
	default:
		return "", fmt.Errorf("unknown severity %q", value)
	}
}
