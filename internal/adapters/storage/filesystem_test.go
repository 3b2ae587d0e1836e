package storage_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-press/internal/adapters/storage"
)

func TestFilesystemStorageWriteAndRead(t *testing.T) {
	root := t.TempDir()
	provider, err := storage.NewFilesystemStorage(root)
	if err != nil {
		t.Fatalf("NewFilesystemStorage returned error: %v", err)
	}
	ctx := context.Background()

	if _, err := provider.Exec(ctx, "generator.ensure_dir", "posts/example"); err != nil {
		t.Fatalf("ensure_dir returned error: %v", err)
	}
	if _, err := provider.Exec(ctx, "generator.write", "posts/example/index.html", strings.NewReader("<html>ok</html>")); err != nil {
		t.Fatalf("write returned error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(root, "posts", "example", "index.html"))
	if err != nil {
		t.Fatalf("reading artifact: %v", err)
	}
	if string(data) != "<html>ok</html>" {
		t.Fatalf("unexpected artifact content: %q", data)
	}

	rows, err := provider.Query(ctx, "generator.read", "posts/example/index.html")
	if err != nil {
		t.Fatalf("read returned error: %v", err)
	}
	defer rows.Close()
	if !rows.Next() {
		t.Fatal("expected one row for existing file")
	}
	var content []byte
	if err := rows.Scan(&content); err != nil {
		t.Fatalf("scan returned error: %v", err)
	}
	if string(content) != "<html>ok</html>" {
		t.Fatalf("unexpected read content: %q", content)
	}
}

func TestFilesystemStorageReadMissingFile(t *testing.T) {
	provider, err := storage.NewFilesystemStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewFilesystemStorage returned error: %v", err)
	}
	rows, err := provider.Query(context.Background(), "generator.read", "missing.json")
	if err != nil {
		t.Fatalf("read returned error: %v", err)
	}
	defer rows.Close()
	if rows.Next() {
		t.Fatal("expected no rows for missing file")
	}
}

func TestFilesystemStorageRemove(t *testing.T) {
	root := t.TempDir()
	provider, err := storage.NewFilesystemStorage(root)
	if err != nil {
		t.Fatalf("NewFilesystemStorage returned error: %v", err)
	}
	ctx := context.Background()
	if _, err := provider.Exec(ctx, "generator.write", "site/index.html", strings.NewReader("x")); err != nil {
		t.Fatalf("write returned error: %v", err)
	}
	if _, err := provider.Exec(ctx, "generator.remove", "site"); err != nil {
		t.Fatalf("remove returned error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "site")); !os.IsNotExist(err) {
		t.Fatalf("expected site directory to be removed, stat err=%v", err)
	}
}

func TestFilesystemStorageRejectsTraversal(t *testing.T) {
	provider, err := storage.NewFilesystemStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewFilesystemStorage returned error: %v", err)
	}
	if _, err := provider.Exec(context.Background(), "generator.write", "../escape.html", strings.NewReader("x")); err == nil {
		t.Fatal("expected traversal write to fail")
	}
}

func TestFilesystemStorageRejectsUnknownOp(t *testing.T) {
	provider, err := storage.NewFilesystemStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewFilesystemStorage returned error: %v", err)
	}
	if _, err := provider.Exec(context.Background(), "SELECT 1"); err == nil {
		t.Fatal("expected unknown op to fail")
	}
}
