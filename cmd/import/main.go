package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/goliatone/go-press/cmd/internal/bootstrap"
	articlescmd "github.com/goliatone/go-press/internal/commands/articles"
)

var moduleBuilder = bootstrap.BuildModule

func main() {
	if err := runImport(os.Args[1:]); err != nil {
		log.Fatalf("press import: %v", err)
	}
}

func runImport(args []string) error {
	fs := flag.NewFlagSet("press-import", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to a press.yaml configuration file")
	contentDir := fs.String("content-dir", "", "Path to the markdown content root (overrides config)")
	pattern := fs.String("pattern", "", "Glob pattern applied when discovering markdown files")
	recursive := fs.Bool("recursive", true, "Descend into subdirectories when loading content")
	publish := fs.Bool("publish", false, "Publish imported articles instead of leaving them as drafts")
	dryRun := fs.Bool("dry-run", false, "Report changes without persisting them")
	sync := fs.Bool("sync", false, "Synchronise storage with the source tree instead of importing")
	deleteOrphaned := fs.Bool("delete-orphaned", false, "With -sync, remove stored articles without a source file")
	dsn := fs.String("dsn", "", "SQLite DSN for article storage (defaults to an in-memory store)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx := context.Background()
	module, err := moduleBuilder(ctx, bootstrap.Options{
		ConfigPath: *configPath,
		ContentDir: *contentDir,
		Pattern:    *pattern,
		Recursive:  recursive,
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

	if *sync {
		err = set.ArticlesSync.Execute(ctx, articlescmd.SyncDirectoryCommand{
			Directory:      ".",
			Pattern:        *pattern,
			Recursive:      *recursive,
			Publish:        *publish,
			DryRun:         *dryRun,
			DeleteOrphaned: *deleteOrphaned,
		})
	} else {
		err = set.ArticlesImport.Execute(ctx, articlescmd.ImportDirectoryCommand{
			Directory: ".",
			Pattern:   *pattern,
			Recursive: *recursive,
			Publish:   *publish,
			DryRun:    *dryRun,
		})
	}
	if err != nil {
		return err
	}

	mode := "import"
	if *sync {
		mode = "sync"
	}
	fmt.Printf("%s completed for %s\n", mode, module.Config.Content.Dir)
	return nil
}
