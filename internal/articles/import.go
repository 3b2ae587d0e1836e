package articles

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	pressarticles "github.com/goliatone/go-press/articles"
	"github.com/goliatone/go-press/pkg/interfaces"
)

// ImportDocument persists a single loaded document. The returned result
// reports the action taken even when the document fails, in which case the
// error is both accumulated and returned.
func (s *service) ImportDocument(ctx context.Context, doc *interfaces.Document, opts ImportOptions) (*ImportResult, error) {
	acc := newImportAccumulator()
	slug, err := pressarticles.DocumentSlug(doc)
	if err != nil {
		acc.addError(err)
		return acc.result(), err
	}
	if err := s.applyDocument(ctx, slug, doc, opts, acc); err != nil {
		acc.addError(err)
	}
	return acc.result(), firstError(acc.errors)
}

// ImportDocuments persists a batch of documents in file path order. Failures
// are accumulated per document so one broken file never aborts the batch.
func (s *service) ImportDocuments(ctx context.Context, docs []*interfaces.Document, opts ImportOptions) (*ImportResult, error) {
	acc := newImportAccumulator()
	for _, doc := range sortDocuments(docs) {
		slug, err := pressarticles.DocumentSlug(doc)
		if err != nil {
			acc.addError(err)
			continue
		}
		if err := s.applyDocument(ctx, slug, doc, opts, acc); err != nil {
			acc.addError(err)
		}
	}
	s.logger.Info("articles import completed",
		"created", acc.createdCount(),
		"updated", acc.updatedCount(),
		"skipped", acc.skippedCount(),
		"errors", len(acc.errors),
	)
	return acc.result(), firstError(acc.errors)
}

// SyncDocuments imports the batch and, when requested, removes stored
// articles whose slug no longer appears in the document set. Slugs are
// reserved before the per-document apply so a failed import never marks its
// article as orphaned.
func (s *service) SyncDocuments(ctx context.Context, docs []*interfaces.Document, opts SyncOptions) (*SyncResult, error) {
	acc := newImportAccumulator()
	keep := make(map[string]struct{}, len(docs))

	for _, doc := range sortDocuments(docs) {
		slug, err := pressarticles.DocumentSlug(doc)
		if err != nil {
			acc.addError(err)
			continue
		}
		keep[slugKey(slug)] = struct{}{}
		if err := s.applyDocument(ctx, slug, doc, opts.ImportOptions, acc); err != nil {
			acc.addError(err)
		}
	}

	result := &SyncResult{
		Created: acc.createdCount(),
		Updated: acc.updatedCount(),
		Skipped: acc.skippedCount(),
		Errors:  acc.errors,
	}

	if opts.DeleteOrphaned {
		if err := s.deleteOrphaned(ctx, keep, opts, result); err != nil {
			result.Errors = append(result.Errors, err)
		}
	}

	s.logger.Info("articles sync completed",
		"created", result.Created,
		"updated", result.Updated,
		"skipped", result.Skipped,
		"deleted", result.Deleted,
		"errors", len(result.Errors),
	)
	return result, firstError(result.Errors)
}

// applyDocument creates the article when the slug is unseen, updates it when
// the stored checksum differs, and skips it otherwise.
func (s *service) applyDocument(ctx context.Context, slug string, doc *interfaces.Document, opts ImportOptions, acc *importAccumulator) error {
	checksum := hex.EncodeToString(doc.Checksum)

	existing, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		var notFound *NotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("articles import lookup %s: %w", slug, err)
		}
		existing = nil
	}

	if existing == nil {
		if opts.DryRun {
			acc.created(s.id(slug))
			return nil
		}
		created, createErr := s.Create(ctx, createRequestFromDocument(slug, doc, checksum, opts))
		if createErr != nil {
			return fmt.Errorf("articles import create %s: %w", slug, createErr)
		}
		acc.created(created.ID)
		return nil
	}

	if checksum != "" && existing.Checksum == checksum {
		acc.skip(existing.ID)
		return nil
	}
	if opts.DryRun {
		acc.updated(existing.ID)
		return nil
	}

	updated, updateErr := s.Update(ctx, updateRequestFromDocument(existing, doc, checksum, opts))
	if updateErr != nil {
		return fmt.Errorf("articles import update %s: %w", slug, updateErr)
	}
	acc.updated(updated.ID)
	return nil
}

func (s *service) deleteOrphaned(ctx context.Context, keep map[string]struct{}, opts SyncOptions, result *SyncResult) error {
	records, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("articles sync list: %w", err)
	}
	for _, record := range records {
		if _, ok := keep[slugKey(record.Slug)]; ok {
			continue
		}
		if record.DeletedAt != nil {
			continue
		}
		if opts.DryRun {
			result.Deleted++
			continue
		}
		if err := s.Delete(ctx, DeleteArticleRequest{ID: record.ID, HardDelete: true}); err != nil {
			return fmt.Errorf("articles sync delete %s: %w", record.Slug, err)
		}
		result.Deleted++
	}
	return nil
}

func createRequestFromDocument(slug string, doc *interfaces.Document, checksum string, opts ImportOptions) CreateArticleRequest {
	fm := doc.FrontMatter
	req := CreateArticleRequest{
		Slug:            slug,
		Title:           strings.TrimSpace(fm.Title),
		Layout:          fm.LayoutOrDefault("post"),
		Status:          StatusDraft,
		Categories:      fm.Categories,
		Tags:            fm.Tags,
		MetaDescription: fm.MetaDescription,
		Author:          fm.Author,
		ShowHeader:      fm.Header,
		ShowBreadcrumb:  fm.Breadcrumb,
		Body:            string(doc.Body),
		BodyHTML:        string(doc.BodyHTML),
		SourcePath:      doc.FilePath,
		Checksum:        checksum,
	}
	if opts.Publish {
		req.Status = StatusPublished
		if date, ok := pressarticles.DocumentDate(doc); ok {
			req.PublishedAt = &date
		}
	}
	return req
}

func updateRequestFromDocument(existing *Article, doc *interfaces.Document, checksum string, opts ImportOptions) UpdateArticleRequest {
	fm := doc.FrontMatter
	title := strings.TrimSpace(fm.Title)
	layout := fm.LayoutOrDefault("post")
	meta := fm.MetaDescription
	author := fm.Author
	showHeader := fm.ShowHeader()
	showBreadcrumb := fm.ShowBreadcrumb()
	body := string(doc.Body)
	bodyHTML := string(doc.BodyHTML)
	sourcePath := doc.FilePath

	req := UpdateArticleRequest{
		ID:              existing.ID,
		Title:           &title,
		Layout:          &layout,
		Categories:      orEmpty(fm.Categories),
		Tags:            orEmpty(fm.Tags),
		MetaDescription: &meta,
		Author:          &author,
		ShowHeader:      &showHeader,
		ShowBreadcrumb:  &showBreadcrumb,
		Body:            &body,
		BodyHTML:        &bodyHTML,
		SourcePath:      &sourcePath,
		Checksum:        &checksum,
	}
	if opts.Publish && existing.Status != StatusPublished {
		status := StatusPublished
		req.Status = &status
		if date, ok := pressarticles.DocumentDate(doc); ok {
			at := date
			req.PublishedAt = &at
		}
	}
	return req
}

// orEmpty keeps import updates authoritative: a header without labels clears
// the stored ones instead of leaving them behind.
func orEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func sortDocuments(docs []*interfaces.Document) []*interfaces.Document {
	sorted := make([]*interfaces.Document, 0, len(docs))
	for _, doc := range docs {
		if doc != nil {
			sorted = append(sorted, doc)
		}
	}
	slices.SortFunc(sorted, func(a, b *interfaces.Document) int {
		return strings.Compare(a.FilePath, b.FilePath)
	})
	return sorted
}

type importAccumulator struct {
	createdIDs []uuid.UUID
	updatedIDs []uuid.UUID
	skippedIDs []uuid.UUID
	errors     []error
}

func newImportAccumulator() *importAccumulator {
	return &importAccumulator{
		createdIDs: []uuid.UUID{},
		updatedIDs: []uuid.UUID{},
		skippedIDs: []uuid.UUID{},
		errors:     []error{},
	}
}

func (a *importAccumulator) created(id uuid.UUID) {
	if id != uuid.Nil {
		a.createdIDs = append(a.createdIDs, id)
	}
}

func (a *importAccumulator) updated(id uuid.UUID) {
	if id != uuid.Nil {
		a.updatedIDs = append(a.updatedIDs, id)
	}
}

func (a *importAccumulator) skip(id uuid.UUID) {
	if id != uuid.Nil {
		a.skippedIDs = append(a.skippedIDs, id)
	}
}

func (a *importAccumulator) addError(err error) {
	if err != nil {
		a.errors = append(a.errors, err)
	}
}

func (a *importAccumulator) createdCount() int { return len(a.createdIDs) }
func (a *importAccumulator) updatedCount() int { return len(a.updatedIDs) }
func (a *importAccumulator) skippedCount() int { return len(a.skippedIDs) }

func (a *importAccumulator) result() *ImportResult {
	return &ImportResult{
		CreatedIDs: a.createdIDs,
		UpdatedIDs: a.updatedIDs,
		SkippedIDs: a.skippedIDs,
		Errors:     a.errors,
	}
}

func firstError(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return errs[0]
}
