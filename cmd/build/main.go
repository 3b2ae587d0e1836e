package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	press "github.com/goliatone/go-press"
	"github.com/goliatone/go-press/cmd/internal/bootstrap"
	articlescmd "github.com/goliatone/go-press/internal/commands/articles"
	staticcmd "github.com/goliatone/go-press/internal/commands/static"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := runBuild(os.Args[1:]); err != nil {
		log.Fatalf("press build: %v", err)
	}
}

func runBuild(args []string) error {
	fs := flag.NewFlagSet("press-build", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to a press.yaml configuration file")
	contentDir := fs.String("content-dir", "", "Path to the markdown content root (overrides config)")
	outputDir := fs.String("output", "", "Directory the generated site is written to (overrides config)")
	baseURL := fs.String("base-url", "", "Absolute site URL used for canonical links and feeds")
	includeDrafts := fs.Bool("include-drafts", false, "Render draft articles alongside published ones")
	dryRun := fs.Bool("dry-run", false, "Plan the build without writing artifacts")
	importFirst := fs.Bool("import", false, "Import the content directory into storage before building")
	clean := fs.Bool("clean", false, "Remove previously generated artifacts instead of building")
	dsn := fs.String("dsn", "", "SQLite DSN for article storage (defaults to an in-memory store)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx := context.Background()
	module, err := moduleBuilder(ctx, bootstrap.Options{
		ConfigPath: *configPath,
		ContentDir: *contentDir,
		OutputDir:  *outputDir,
		BaseURL:    *baseURL,
		DSN:        *dsn,
	})
	if err != nil {
		return err
	}
	defer module.Close()

	set, err := module.Module.Commands()
	if err != nil {
		return err
	}

	if *clean {
		if err := set.StaticCleanSite.Execute(ctx, staticcmd.CleanSiteCommand{}); err != nil {
			return err
		}
		fmt.Println("generated artifacts removed")
		return nil
	}

	if *importFirst {
		if err := importContent(ctx, set, *includeDrafts); err != nil {
			return err
		}
	}

	return set.StaticBuildSite.Execute(ctx, staticcmd.BuildSiteCommand{
		IncludeDrafts: *includeDrafts,
		DryRun:        *dryRun,
		ResultCallback: func(envelope staticcmd.ResultEnvelope) {
			printResult(envelope)
		},
	})
}

func importContent(ctx context.Context, set *press.CommandSet, includeDrafts bool) error {
	return set.ArticlesImport.Execute(ctx, articlescmd.ImportDirectoryCommand{
		Directory: ".",
		Recursive: true,
		Publish:   !includeDrafts,
	})
}

func printResult(envelope staticcmd.ResultEnvelope) {
	result := envelope.Result
	if result == nil {
		return
	}
	verb := "built"
	if result.DryRun {
		verb = "planned"
	}
	fmt.Fprintf(os.Stdout, "%s %d article(s), skipped %d, %d artifact(s) in %s\n",
		verb, result.ArticlesBuilt, result.ArticlesSkipped, result.Artifacts, result.Duration)
	for _, diag := range result.Diagnostics {
		if diag.Err != nil {
			fmt.Fprintf(os.Stderr, "  %s: %v\n", diag.Slug, diag.Err)
		}
	}
	for _, err := range result.Errors {
		fmt.Fprintf(os.Stderr, "  error: %v\n", err)
	}
}
