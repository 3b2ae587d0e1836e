package articles

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunArticleRepository persists articles through go-repository-bun, with an
// optional read-through cache layer.
type BunArticleRepository struct {
	repo repository.Repository[*Article]
}

var _ Repository = (*BunArticleRepository)(nil)

func NewBunArticleRepository(db *bun.DB) *BunArticleRepository {
	return NewBunArticleRepositoryWithCache(db, nil, nil)
}

func NewBunArticleRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunArticleRepository {
	base := NewArticleRepository(db)
	wrapped := wrapWithCache(base, cacheService, keySerializer)
	return &BunArticleRepository{repo: wrapped}
}

func (r *BunArticleRepository) Create(ctx context.Context, record *Article) (*Article, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("article repository create %s: %w", record.Slug, err)
	}
	return created, nil
}

func (r *BunArticleRepository) GetByID(ctx context.Context, id uuid.UUID) (*Article, error) {
	result, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, id, "")
	}
	return result, nil
}

func (r *BunArticleRepository) GetBySlug(ctx context.Context, slug string) (*Article, error) {
	result, err := r.repo.GetByIdentifier(ctx, slug)
	if err != nil {
		return nil, mapRepositoryError(err, uuid.Nil, slug)
	}
	return result, nil
}

func (r *BunArticleRepository) List(ctx context.Context) ([]*Article, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.slug ASC")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("article repository list: %w", err)
	}
	return records, nil
}

func (r *BunArticleRepository) Update(ctx context.Context, record *Article) (*Article, error) {
	updated, err := r.repo.Update(ctx, record)
	if err != nil {
		return nil, mapRepositoryError(err, record.ID, record.Slug)
	}
	return updated, nil
}

func (r *BunArticleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.repo.Delete(ctx, &Article{ID: id}); err != nil {
		return mapRepositoryError(err, id, "")
	}
	return nil
}

func mapRepositoryError(err error, id uuid.UUID, slug string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{ID: id, Slug: slug}
	}
	return fmt.Errorf("article repository error: %w", err)
}

func wrapWithCache[T any](base repository.Repository[T], cacheService cache.CacheService, keySerializer cache.KeySerializer) repository.Repository[T] {
	if cacheService == nil || keySerializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, keySerializer)
}
