package generator

import (
	"path"
	"strings"
)

// buildOutputPath maps a site route to its on-disk artifact, using the
// directory-per-page convention so permalinks stay extension free.
func buildOutputPath(route string) string {
	clean := strings.Trim(strings.TrimSpace(route), "/")
	if clean == "" || clean == "." {
		return "index.html"
	}
	if strings.HasSuffix(clean, ".html") || strings.HasSuffix(clean, ".xml") || strings.HasSuffix(clean, ".txt") {
		return clean
	}
	return path.Join(clean, "index.html")
}

func joinOutputPath(base string, rel string) string {
	if strings.TrimSpace(base) == "" {
		return strings.TrimLeft(rel, "/")
	}
	return path.Join(strings.Trim(base, "/"), rel)
}
