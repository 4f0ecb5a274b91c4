package services

import (
	"context"
	"fmt"

	"github.com/Jonniie/memoirly/internal/model"
	"github.com/Jonniie/memoirly/internal/rotator"
	"github.com/Jonniie/memoirly/internal/store"
)

// AlbumService orchestrates album use cases and owns the per-album cover
// rotation registry.
type AlbumService struct {
	store store.Store
	rot   *rotator.Rotator
}

func NewAlbumService(s store.Store, rot *rotator.Rotator) *AlbumService {
	return &AlbumService{store: s, rot: rot}
}

func (s *AlbumService) CreateAlbum(ctx context.Context, a *model.Album) (*model.Album, error) {
	if a.Title == "" {
		return nil, fmt.Errorf("album title is required: %w", model.ErrValidation)
	}
	return s.store.Albums().Create(ctx, a)
}

func (s *AlbumService) GetAlbum(ctx context.Context, ownerID, albumID string) (*model.Album, error) {
	return s.store.Albums().GetByID(ctx, ownerID, albumID)
}

func (s *AlbumService) ListAlbums(ctx context.Context, ownerID string) ([]*model.Album, error) {
	return s.store.Albums().List(ctx, ownerID)
}

func (s *AlbumService) UpdateAlbum(ctx context.Context, ownerID, albumID string, title, description *string) (*model.Album, error) {
	if title != nil && *title == "" {
		return nil, fmt.Errorf("album title cannot be empty: %w", model.ErrValidation)
	}
	return s.store.Albums().Update(ctx, ownerID, albumID, title, description)
}

// DeleteAlbum removes the album and its membership links only; member media
// always survive.
func (s *AlbumService) DeleteAlbum(ctx context.Context, ownerID, albumID string) error {
	if err := s.store.Albums().Delete(ctx, ownerID, albumID); err != nil {
		return err
	}
	if s.rot != nil {
		s.rot.Stop(albumID)
	}
	return nil
}

func (s *AlbumService) AttachMedia(ctx context.Context, ownerID, albumID, mediaID string) error {
	return s.store.Albums().AddMedia(ctx, ownerID, albumID, mediaID)
}

func (s *AlbumService) DetachMedia(ctx context.Context, ownerID, albumID, mediaID string) error {
	return s.store.Albums().RemoveMedia(ctx, ownerID, albumID, mediaID)
}

func (s *AlbumService) ListAlbumMedia(ctx context.Context, ownerID, albumID string) ([]*model.Memory, error) {
	return s.store.Albums().ListMedia(ctx, ownerID, albumID)
}

// SetCover persists a manual cover and re-seeds any live rotation so the
// chosen image becomes the visible cover immediately.
func (s *AlbumService) SetCover(ctx context.Context, ownerID, albumID, coverURL string) error {
	if err := s.store.Albums().SetCover(ctx, ownerID, albumID, coverURL); err != nil {
		return err
	}
	if s.rot != nil {
		if _, live := s.rot.Get(albumID); live {
			_, err := s.RefreshCoverRotation(ctx, ownerID, albumID)
			return err
		}
	}
	return nil
}

// RefreshCoverRotation (re)starts the album's cover rotation from its current
// image members. The registry stops any prior rotation for the album first.
func (s *AlbumService) RefreshCoverRotation(ctx context.Context, ownerID, albumID string) (*rotator.Handle, error) {
	if s.rot == nil {
		return nil, fmt.Errorf("cover rotation not configured")
	}
	album, err := s.store.Albums().GetByID(ctx, ownerID, albumID)
	if err != nil {
		return nil, err
	}
	members, err := s.store.Albums().ListMedia(ctx, ownerID, albumID)
	if err != nil {
		return nil, err
	}
	images := make([]rotator.CoverImage, 0, len(members))
	for _, m := range members {
		if m.Type == model.MediaImage {
			images = append(images, rotator.CoverImage{ID: m.ID, URL: m.URL})
		}
	}
	return s.rot.Start(albumID, images, album.CoverURL), nil
}

// CurrentCover reports the visible cover for an album with a live rotation.
func (s *AlbumService) CurrentCover(albumID string) (rotator.CoverImage, bool) {
	if s.rot == nil {
		return rotator.CoverImage{}, false
	}
	h, ok := s.rot.Get(albumID)
	if !ok {
		return rotator.CoverImage{}, false
	}
	return h.Current()
}
