package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-press/pkg/interfaces"
)

const (
	opEnsureDir = "generator.ensure_dir"
	opWrite     = "generator.write"
	opRead      = "generator.read"
	opRemove    = "generator.remove"
)

var (
	// ErrUnsupportedOperation marks op strings outside the generator protocol.
	ErrUnsupportedOperation = errors.New("storage: unsupported operation")
	errPathOutsideRoot      = errors.New("storage: path escapes the output root")
)

// FilesystemStorage persists generator artifacts under a root directory. It
// speaks the generator op protocol (ensure_dir, write, read, remove) so the
// static build can target either a database or a plain directory through the
// same provider contract.
type FilesystemStorage struct {
	root string
}

// NewFilesystemStorage builds a provider rooted at dir. The directory is
// created lazily on the first write.
func NewFilesystemStorage(dir string) (*FilesystemStorage, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("storage: root directory is required")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	return &FilesystemStorage{root: abs}, nil
}

// Root returns the absolute output directory.
func (s *FilesystemStorage) Root() string {
	return s.root
}

func (s *FilesystemStorage) Query(ctx context.Context, op string, args ...any) (interfaces.Rows, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if op != opRead {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedOperation, op)
	}
	rel, err := argString(args, 0)
	if err != nil {
		return nil, err
	}
	target, err := s.resolve(rel)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(target)
	if err != nil {
		if os.IsNotExist(err) {
			return &byteRows{}, nil
		}
		return nil, err
	}
	return &byteRows{data: data, pending: true}, nil
}

func (s *FilesystemStorage) Exec(ctx context.Context, op string, args ...any) (interfaces.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch op {
	case opEnsureDir:
		rel, err := argString(args, 0)
		if err != nil {
			return nil, err
		}
		target, err := s.resolve(rel)
		if err != nil {
			return nil, err
		}
		if err := os.MkdirAll(target, 0o755); err != nil {
			return nil, err
		}
		return execResult{}, nil
	case opWrite:
		return s.writeFile(args)
	case opRemove:
		rel, err := argString(args, 0)
		if err != nil {
			return nil, err
		}
		target, err := s.resolve(rel)
		if err != nil {
			return nil, err
		}
		if err := os.RemoveAll(target); err != nil {
			return nil, err
		}
		return execResult{affected: 1}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedOperation, op)
	}
}

// Transaction runs fn against the provider itself: filesystem writes have no
// rollback, so the transaction is advisory.
func (s *FilesystemStorage) Transaction(ctx context.Context, fn func(tx interfaces.Transaction) error) error {
	if fn == nil {
		return nil
	}
	return fn(fsTx{storage: s})
}

func (s *FilesystemStorage) writeFile(args []any) (interfaces.Result, error) {
	rel, err := argString(args, 0)
	if err != nil {
		return nil, err
	}
	if len(args) < 2 {
		return nil, errors.New("storage: write requires content")
	}
	reader, ok := args[1].(io.Reader)
	if !ok {
		return nil, fmt.Errorf("storage: write content must be io.Reader, got %T", args[1])
	}
	target, err := s.resolve(rel)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return nil, err
	}
	return execResult{affected: 1}, nil
}

func (s *FilesystemStorage) resolve(rel string) (string, error) {
	rel = strings.TrimSpace(rel)
	if rel == "" || rel == "." {
		return s.root, nil
	}
	cleaned := filepath.Clean(filepath.FromSlash(strings.TrimLeft(rel, "/")))
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", errPathOutsideRoot, rel)
	}
	return filepath.Join(s.root, cleaned), nil
}

func argString(args []any, index int) (string, error) {
	if len(args) <= index {
		return "", fmt.Errorf("storage: missing argument %d", index)
	}
	value, ok := args[index].(string)
	if !ok {
		return "", fmt.Errorf("storage: argument %d must be string, got %T", index, args[index])
	}
	return value, nil
}

type byteRows struct {
	data    []byte
	pending bool
}

func (r *byteRows) Next() bool {
	if r.pending {
		r.pending = false
		return true
	}
	return false
}

func (r *byteRows) Scan(dest ...any) error {
	if len(dest) == 0 {
		return errors.New("storage: scan requires a destination")
	}
	switch out := dest[0].(type) {
	case *[]byte:
		*out = append([]byte(nil), r.data...)
	case *string:
		*out = string(r.data)
	default:
		return fmt.Errorf("storage: unsupported scan destination %T", dest[0])
	}
	return nil
}

func (r *byteRows) Close() error { return nil }

type execResult struct {
	affected int64
}

func (r execResult) RowsAffected() (int64, error) { return r.affected, nil }

func (execResult) LastInsertId() (int64, error) { return 0, nil }

type fsTx struct {
	storage *FilesystemStorage
}

func (t fsTx) Query(ctx context.Context, op string, args ...any) (interfaces.Rows, error) {
	return t.storage.Query(ctx, op, args...)
}

func (t fsTx) Exec(ctx context.Context, op string, args ...any) (interfaces.Result, error) {
	return t.storage.Exec(ctx, op, args...)
}

func (t fsTx) Transaction(ctx context.Context, fn func(tx interfaces.Transaction) error) error {
	return t.storage.Transaction(ctx, fn)
}

func (fsTx) Commit() error { return nil }

func (fsTx) Rollback() error { return nil }
