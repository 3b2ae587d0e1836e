package articles

import (
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/goliatone/go-slug"

	"github.com/goliatone/go-press/pkg/interfaces"
)

// SlugNormalizer exposes the slug normalizer interface.
type SlugNormalizer = slug.Normalizer

// DefaultSlugNormalizer returns the default slug normalizer.
func DefaultSlugNormalizer() SlugNormalizer {
	return slug.Default()
}

// NormalizeSlug applies the default slug normalization rules.
func NormalizeSlug(value string) (string, error) {
	return slug.Normalize(value)
}

// IsValidSlug reports whether the slug matches the default rules.
func IsValidSlug(value string) bool {
	return slug.IsValid(value)
}

// datePrefix matches the YYYY-MM-DD- prefix post filenames conventionally carry.
var datePrefix = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})-`)

// DocumentSlug derives the article slug for a loaded document: the file stem
// minus any leading date prefix, falling back to the slugified title when the
// stem carries nothing else.
func DocumentSlug(doc *interfaces.Document) (string, error) {
	if doc == nil {
		return "", ErrDocumentRequired
	}
	stem := strings.TrimSuffix(path.Base(doc.FilePath), path.Ext(doc.FilePath))
	stem = datePrefix.ReplaceAllString(stem, "")
	if strings.TrimSpace(stem) != "" {
		return NormalizeSlug(stem)
	}
	if title := strings.TrimSpace(doc.FrontMatter.Title); title != "" {
		return NormalizeSlug(title)
	}
	return "", ErrSlugRequired
}

// DocumentDate extracts the publish date encoded in the file name, when present.
func DocumentDate(doc *interfaces.Document) (time.Time, bool) {
	if doc == nil {
		return time.Time{}, false
	}
	match := datePrefix.FindStringSubmatch(path.Base(doc.FilePath))
	if match == nil {
		return time.Time{}, false
	}
	parsed, err := time.Parse("2006-01-02", match[1]+"-"+match[2]+"-"+match[3])
	if err != nil {
		return time.Time{}, false
	}
	return parsed.UTC(), true
}
