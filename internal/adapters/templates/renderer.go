package templates

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/goliatone/go-press/pkg/interfaces"
)

//go:embed layouts/*.tmpl
var defaultLayouts embed.FS

// Option configures the renderer at construction time.
type Option func(*goTemplateRenderer)

// WithDirectory points the renderer at a layout directory on disk. Layouts
// found there shadow the embedded defaults by name.
func WithDirectory(dir string) Option {
	return func(r *goTemplateRenderer) {
		r.baseDir = strings.TrimSpace(dir)
	}
}

// New returns an interfaces.TemplateRenderer backed by html/template. With no
// options the embedded default layouts (post, index) are used.
func New(opts ...Option) interfaces.TemplateRenderer {
	renderer := &goTemplateRenderer{global: map[string]any{}}
	for _, opt := range opts {
		if opt != nil {
			opt(renderer)
		}
	}
	return renderer
}

type goTemplateRenderer struct {
	baseDir string

	once sync.Once
	tpl  *template.Template
	err  error

	mu     sync.RWMutex
	global map[string]any
}

func (r *goTemplateRenderer) ensureTemplates() (*template.Template, error) {
	r.once.Do(func() {
		tpl := template.New("press-layouts").Funcs(r.funcMap())

		entries, err := fs.ReadDir(defaultLayouts, "layouts")
		if err != nil {
			r.err = err
			return
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			data, err := defaultLayouts.ReadFile("layouts/" + entry.Name())
			if err != nil {
				r.err = err
				return
			}
			name := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
			if _, err := tpl.New(name).Parse(string(data)); err != nil {
				r.err = fmt.Errorf("parse embedded layout %q: %w", entry.Name(), err)
				return
			}
		}

		if r.baseDir != "" {
			if err := loadDirectory(tpl, r.baseDir); err != nil {
				r.err = err
				return
			}
		}
		r.tpl = tpl
	})
	return r.tpl, r.err
}

func loadDirectory(tpl *template.Template, baseDir string) error {
	info, err := os.Stat(baseDir)
	if err != nil {
		return fmt.Errorf("inspect layout directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("layout path %q is not a directory", baseDir)
	}
	return filepath.WalkDir(baseDir, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".html" && ext != ".tmpl" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		if _, err := tpl.New(name).Parse(string(data)); err != nil {
			return fmt.Errorf("parse layout %q: %w", path, err)
		}
		return nil
	})
}

func (r *goTemplateRenderer) funcMap() template.FuncMap {
	return template.FuncMap{
		"safeHTML": func(value any) template.HTML { return toHTML(value) },
		"global": func(key string) any {
			r.mu.RLock()
			defer r.mu.RUnlock()
			return r.global[key]
		},
	}
}

func (r *goTemplateRenderer) Render(name string, data any, out ...io.Writer) (string, error) {
	return r.RenderTemplate(name, data, out...)
}

func (r *goTemplateRenderer) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	tpl, err := r.ensureTemplates()
	if err != nil {
		return "", err
	}
	if tpl.Lookup(name) == nil {
		return "", fmt.Errorf("layout %q not found", name)
	}

	var writer io.Writer
	var buffer *bytes.Buffer
	if len(out) > 0 && out[0] != nil {
		writer = out[0]
	} else {
		buffer = &bytes.Buffer{}
		writer = buffer
	}

	if err := tpl.ExecuteTemplate(writer, name, data); err != nil {
		return "", err
	}
	if buffer != nil {
		return buffer.String(), nil
	}
	return "", nil
}

func (r *goTemplateRenderer) RenderString(content string, data any, out ...io.Writer) (string, error) {
	tpl, err := template.New("inline").Funcs(r.funcMap()).Parse(content)
	if err != nil {
		return "", err
	}

	var writer io.Writer
	var buffer *bytes.Buffer
	if len(out) > 0 && out[0] != nil {
		writer = out[0]
	} else {
		buffer = &bytes.Buffer{}
		writer = buffer
	}

	if err := tpl.Execute(writer, data); err != nil {
		return "", err
	}
	if buffer != nil {
		return buffer.String(), nil
	}
	return "", nil
}

// RegisterFilter is accepted for contract compatibility; html/template funcs
// are fixed once the template set compiles.
func (r *goTemplateRenderer) RegisterFilter(string, func(any, any) (any, error)) error {
	return nil
}

// GlobalContext merges the supplied map into the values exposed through the
// `global` template func.
func (r *goTemplateRenderer) GlobalContext(data any) error {
	values, ok := data.(map[string]any)
	if !ok {
		return fmt.Errorf("global context must be map[string]any, got %T", data)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, value := range values {
		r.global[key] = value
	}
	return nil
}

func toHTML(value any) template.HTML {
	if value == nil {
		return ""
	}
	switch v := value.(type) {
	case template.HTML:
		return v
	case string:
		return template.HTML(v)
	default:
		return template.HTML(fmt.Sprint(v))
	}
}
