// Package markdown implements the article ingestion workflows: metadata
// header extraction, filesystem discovery, and Markdown-to-HTML rendering.
// Persistence and publishing live in the articles and generator packages.
package markdown
