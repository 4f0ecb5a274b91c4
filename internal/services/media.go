package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Jonniie/memoirly/internal/model"
	"github.com/Jonniie/memoirly/internal/normalize"
	"github.com/Jonniie/memoirly/internal/store"
)

// MediaService orchestrates media-record use cases, including the duplicate
// guard that keeps one record per (owner, url).
type MediaService struct {
	store store.Store
}

func NewMediaService(s store.Store) *MediaService {
	return &MediaService{store: s}
}

// EnsureMediaRecord returns the record for (ownerID, url), creating it when
// absent. The bool reports whether an existing record was returned; callers
// must not re-insert or overwrite in that case.
//
// The check-then-insert sequence is not atomic: two concurrent uploads of the
// same URL can both miss the lookup. The schema's unique index is the backstop;
// this method never hides that race.
func (s *MediaService) EnsureMediaRecord(ctx context.Context, ownerID, url string, attrs model.MediaAttributes) (*model.Memory, bool, error) {
	if ownerID == "" || url == "" {
		return nil, false, fmt.Errorf("owner and url are required: %w", model.ErrValidation)
	}

	existing, err := s.store.Media().GetByURL(ctx, ownerID, url)
	if err == nil {
		return existing, true, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return nil, false, err
	}

	m, err := newMemory(ownerID, url, attrs)
	if err != nil {
		return nil, false, err
	}
	created, err := s.store.Media().Create(ctx, m)
	if err != nil {
		return nil, false, err
	}
	return created, false, nil
}

// newMemory applies the creation defaults to caller-supplied attributes.
func newMemory(ownerID, url string, attrs model.MediaAttributes) (*model.Memory, error) {
	mt := attrs.Type
	if mt == "" {
		mt = model.MediaImage
	}
	if !mt.Valid() {
		return nil, fmt.Errorf("unknown media type %q: %w", mt, model.ErrValidation)
	}
	m := &model.Memory{
		OwnerID:  ownerID,
		URL:      url,
		Type:     mt,
		Title:    attrs.Title,
		Note:     attrs.Note,
		Tags:     normalize.DedupeTags(attrs.Tags),
		Emotion:  attrs.Emotion,
		Location: attrs.Location,
		IsPublic: attrs.IsPublic,
	}
	if m.Title == "" {
		m.Title = normalize.TitleFromURL(url)
	}
	if m.Emotion == "" {
		m.Emotion = normalize.DefaultEmotion
	}
	return m, nil
}

// ImportRecord normalizes a loosely-shaped exported record and routes it
// through the duplicate guard, so re-importing a backup never duplicates.
func (s *MediaService) ImportRecord(ctx context.Context, ownerID string, raw map[string]interface{}) (*model.Memory, bool, error) {
	m, err := normalize.MemoryFromRecord(raw)
	if err != nil {
		return nil, false, err
	}
	return s.EnsureMediaRecord(ctx, ownerID, m.URL, model.MediaAttributes{
		Type:     m.Type,
		Title:    m.Title,
		Note:     m.Note,
		Tags:     m.Tags,
		Emotion:  m.Emotion,
		Location: m.Location,
		IsPublic: m.IsPublic,
	})
}

func (s *MediaService) GetMedia(ctx context.Context, ownerID, mediaID string) (*model.Memory, error) {
	return s.store.Media().GetByID(ctx, ownerID, mediaID)
}

func (s *MediaService) ListMedia(ctx context.Context, req model.ListMediaRequest) ([]*model.Memory, error) {
	return s.store.Media().List(ctx, req)
}

func (s *MediaService) UpdateMedia(ctx context.Context, ownerID, mediaID string, upd model.MediaUpdate) (*model.Memory, error) {
	return s.store.Media().Update(ctx, ownerID, mediaID, upd)
}

// ToggleFavourite flips the favourite flag and returns the new state.
func (s *MediaService) ToggleFavourite(ctx context.Context, ownerID, mediaID string) (bool, error) {
	m, err := s.store.Media().GetByID(ctx, ownerID, mediaID)
	if err != nil {
		return false, err
	}
	next := !m.Favourite
	if err := s.store.Media().SetFavourite(ctx, ownerID, mediaID, next); err != nil {
		return false, err
	}
	return next, nil
}

func (s *MediaService) SetVisibility(ctx context.Context, ownerID, mediaID string, public bool) error {
	return s.store.Media().SetVisibility(ctx, ownerID, mediaID, public)
}

// DeleteMedia removes the record and its album links. Irreversible; the
// transport layer owns the confirmation step.
func (s *MediaService) DeleteMedia(ctx context.Context, ownerID, mediaID string) error {
	return s.store.Media().Delete(ctx, ownerID, mediaID)
}

// GetSharedMedia serves the public share view. Private records report
// ErrNotFound so a share link never confirms a record's existence.
func (s *MediaService) GetSharedMedia(ctx context.Context, mediaID string) (*model.Memory, error) {
	m, err := s.store.Media().GetPublic(ctx, mediaID)
	if err != nil {
		return nil, err
	}
	if !m.IsPublic {
		return nil, fmt.Errorf("media %s: %w", mediaID, model.ErrNotFound)
	}
	return m, nil
}
