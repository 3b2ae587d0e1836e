package articles

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrIDRequired       = errors.New("articles: article id is required")
	ErrSlugRequired     = errors.New("articles: slug is required")
	ErrSlugInvalid      = errors.New("articles: slug contains invalid characters")
	ErrTitleRequired    = errors.New("articles: title is required")
	ErrBodyRequired     = errors.New("articles: body is required")
	ErrStatusInvalid    = errors.New("articles: status is invalid")
	ErrNotFound         = errors.New("articles: article not found")
	ErrAlreadyExists    = errors.New("articles: article already exists")
	ErrDocumentRequired = errors.New("articles: document is required")
	ErrAlreadyPublished = errors.New("articles: article is already published")
	ErrNotPublished     = errors.New("articles: article is not published")
)

// NotFoundError identifies the lookup that missed.
type NotFoundError struct {
	ID   uuid.UUID
	Slug string
}

func (e *NotFoundError) Error() string {
	if e == nil {
		return ErrNotFound.Error()
	}
	if slug := strings.TrimSpace(e.Slug); slug != "" {
		return fmt.Sprintf("%s: slug=%s", ErrNotFound.Error(), slug)
	}
	if e.ID != uuid.Nil {
		return fmt.Sprintf("%s: id=%s", ErrNotFound.Error(), e.ID.String())
	}
	return ErrNotFound.Error()
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// AlreadyExistsError captures slug conflicts on create.
type AlreadyExistsError struct {
	Slug       string
	ExistingID uuid.UUID
}

func (e *AlreadyExistsError) Error() string {
	if e == nil {
		return ErrAlreadyExists.Error()
	}
	if slug := strings.TrimSpace(e.Slug); slug != "" {
		return fmt.Sprintf("%s: slug=%s", ErrAlreadyExists.Error(), slug)
	}
	return ErrAlreadyExists.Error()
}

func (e *AlreadyExistsError) Unwrap() error {
	return ErrAlreadyExists
}
