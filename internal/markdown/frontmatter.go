package markdown

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/adrg/frontmatter"

	"github.com/goliatone/go-press/pkg/interfaces"
)

// ParseFrontMatter extracts the metadata header and Markdown body from the
// provided source bytes. It returns the structured front matter, the body
// without delimiters, and any error encountered. A document without a header
// yields a zero FrontMatter and the unmodified body.
func ParseFrontMatter(source []byte) (interfaces.FrontMatter, []byte, error) {
	var meta frontMatterEnvelope

	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return interfaces.FrontMatter{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	raw, _, rawErr := ParseRawFrontMatter(source)
	if rawErr != nil {
		raw = map[string]any{}
	}

	return envelopeToFrontMatter(meta, raw), body, nil
}

// ParseRawFrontMatter decodes the metadata header into a plain mapping,
// preserving the value shapes the author actually wrote. Integrity checks use
// this form so they can flag shape violations the lenient typed parse papers
// over.
func ParseRawFrontMatter(source []byte) (map[string]any, []byte, error) {
	raw := map[string]any{}
	body, err := frontmatter.Parse(bytes.NewReader(source), &raw)
	if err != nil {
		return nil, nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	return normalizeRawMap(raw), body, nil
}

// BuildDocument assembles an interfaces.Document from the supplied file path,
// raw content, and modification time. BodyHTML is intentionally left empty so
// callers can render lazily.
func BuildDocument(path string, source []byte, modified time.Time) (*interfaces.Document, error) {
	meta, body, err := ParseFrontMatter(source)
	if err != nil {
		return nil, err
	}

	return &interfaces.Document{
		FilePath:     path,
		FrontMatter:  meta,
		Body:         body,
		LastModified: modified,
	}, nil
}

// frontMatterEnvelope mirrors the recognized header keys. Everything else
// lands in the inline Custom map so unknown keys never fail decoding.
type frontMatterEnvelope struct {
	Layout          string         `yaml:"layout"`
	Title           string         `yaml:"title"`
	Categories      labelList      `yaml:"categories"`
	Tags            labelList      `yaml:"tags"`
	Header          *bool          `yaml:"header"`
	Breadcrumb      *bool          `yaml:"breadcrumb"`
	MetaDescription string         `yaml:"meta_description"`
	Author          string         `yaml:"author"`
	Custom          map[string]any `yaml:",inline"`
}

// labelList accepts both a YAML sequence and a single scalar, so headers
// written as `categories: javascript` normalize to a one-element list the way
// mainstream site generators treat them.
type labelList []string

func (l *labelList) UnmarshalYAML(unmarshal func(any) error) error {
	var multi []string
	if err := unmarshal(&multi); err == nil {
		*l = normalizeLabels(multi)
		return nil
	}

	var single string
	if err := unmarshal(&single); err != nil {
		return err
	}
	*l = normalizeLabels([]string{single})
	return nil
}

func normalizeLabels(values []string) labelList {
	out := make(labelList, 0, len(values))
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func envelopeToFrontMatter(env frontMatterEnvelope, raw map[string]any) interfaces.FrontMatter {
	if env.Custom == nil {
		env.Custom = map[string]any{}
	}
	if raw == nil {
		raw = map[string]any{}
	}

	return interfaces.FrontMatter{
		Layout:          env.Layout,
		Title:           env.Title,
		Categories:      append([]string(nil), env.Categories...),
		Tags:            append([]string(nil), env.Tags...),
		Header:          env.Header,
		Breadcrumb:      env.Breadcrumb,
		MetaDescription: env.MetaDescription,
		Author:          env.Author,
		Custom:          cloneMap(env.Custom),
		Raw:             raw,
	}
}

func cloneMap(input map[string]any) map[string]any {
	if input == nil {
		return map[string]any{}
	}

	out := make(map[string]any, len(input))
	for key, value := range input {
		out[key] = value
	}
	return out
}

// normalizeRawMap rewrites YAML decoding artifacts into JSON-compatible
// shapes: interface-keyed maps become string-keyed and timestamps collapse to
// RFC 3339 strings. Schema validation rejects anything else.
func normalizeRawMap(input map[string]any) map[string]any {
	if input == nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(input))
	for key, value := range input {
		out[key] = normalizeRawValue(value)
	}
	return out
}

func normalizeRawValue(value any) any {
	switch typed := value.(type) {
	case map[any]any:
		out := make(map[string]any, len(typed))
		for key, val := range typed {
			out[fmt.Sprint(key)] = normalizeRawValue(val)
		}
		return out
	case map[string]any:
		return normalizeRawMap(typed)
	case []any:
		out := make([]any, len(typed))
		for i, val := range typed {
			out[i] = normalizeRawValue(val)
		}
		return out
	case time.Time:
		return typed.UTC().Format(time.RFC3339)
	default:
		return typed
	}
}
