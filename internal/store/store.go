package store

import (
	"context"

	"github.com/Jonniie/memoirly/internal/model"
)

// Store exposes the persistence operations required by services.
// Implementations live under internal/store/<driver>/ (postgres, sqlite).
// Read misses are reported as model.ErrNotFound so callers can tell an
// absent record apart from a collaborator failure.
type Store interface {
	Media() Media
	Albums() Albums
}

type Media interface {
	// Create persists a new record, assigning its ID and creation time.
	Create(ctx context.Context, m *model.Memory) (*model.Memory, error)
	GetByID(ctx context.Context, ownerID, mediaID string) (*model.Memory, error)
	// GetByURL is the duplicate-guard probe over (owner, url).
	GetByURL(ctx context.Context, ownerID, url string) (*model.Memory, error)
	// GetPublic fetches by id alone for the share view; the caller enforces
	// the isPublic check.
	GetPublic(ctx context.Context, mediaID string) (*model.Memory, error)
	List(ctx context.Context, req model.ListMediaRequest) ([]*model.Memory, error)
	Update(ctx context.Context, ownerID, mediaID string, upd model.MediaUpdate) (*model.Memory, error)
	SetFavourite(ctx context.Context, ownerID, mediaID string, favourite bool) error
	SetVisibility(ctx context.Context, ownerID, mediaID string, public bool) error
	// Delete removes the record and every album-membership link referencing it.
	Delete(ctx context.Context, ownerID, mediaID string) error
}

type Albums interface {
	Create(ctx context.Context, a *model.Album) (*model.Album, error)
	GetByID(ctx context.Context, ownerID, albumID string) (*model.Album, error)
	List(ctx context.Context, ownerID string) ([]*model.Album, error)
	// Update renames or re-describes an album; nil fields stay unchanged.
	Update(ctx context.Context, ownerID, albumID string, title, description *string) (*model.Album, error)
	SetCover(ctx context.Context, ownerID, albumID, coverURL string) error
	// Delete removes the album and its join rows but never member media.
	Delete(ctx context.Context, ownerID, albumID string) error
	// AddMedia links a memory into an album; adding twice is a no-op.
	AddMedia(ctx context.Context, ownerID, albumID, mediaID string) error
	RemoveMedia(ctx context.Context, ownerID, albumID, mediaID string) error
	// ListMedia returns member memories ordered by most recently attached.
	ListMedia(ctx context.Context, ownerID, albumID string) ([]*model.Memory, error)
}
