package articles

import pressarticles "github.com/goliatone/go-press/articles"

type (
	Service               = pressarticles.Service
	Article               = pressarticles.Article
	CreateArticleRequest  = pressarticles.CreateArticleRequest
	UpdateArticleRequest  = pressarticles.UpdateArticleRequest
	DeleteArticleRequest  = pressarticles.DeleteArticleRequest
	PublishArticleRequest = pressarticles.PublishArticleRequest
	ListOption            = pressarticles.ListOption
	ImportOptions         = pressarticles.ImportOptions
	SyncOptions           = pressarticles.SyncOptions
	ImportResult          = pressarticles.ImportResult
	SyncResult            = pressarticles.SyncResult
	NotFoundError         = pressarticles.NotFoundError
	AlreadyExistsError    = pressarticles.AlreadyExistsError
)

const (
	StatusDraft     = pressarticles.StatusDraft
	StatusPublished = pressarticles.StatusPublished
	StatusArchived  = pressarticles.StatusArchived
)

var (
	ErrIDRequired       = pressarticles.ErrIDRequired
	ErrSlugRequired     = pressarticles.ErrSlugRequired
	ErrSlugInvalid      = pressarticles.ErrSlugInvalid
	ErrTitleRequired    = pressarticles.ErrTitleRequired
	ErrBodyRequired     = pressarticles.ErrBodyRequired
	ErrStatusInvalid    = pressarticles.ErrStatusInvalid
	ErrNotFound         = pressarticles.ErrNotFound
	ErrAlreadyExists    = pressarticles.ErrAlreadyExists
	ErrDocumentRequired = pressarticles.ErrDocumentRequired
	ErrAlreadyPublished = pressarticles.ErrAlreadyPublished
	ErrNotPublished     = pressarticles.ErrNotPublished
)
