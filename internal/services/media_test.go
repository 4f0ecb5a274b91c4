package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jonniie/memoirly/internal/model"
)

func TestEnsureMediaRecord_CreatesThenDeduplicates(t *testing.T) {
	fs := newFakeStore()
	svc := NewMediaService(fs)
	ctx := context.Background()

	first, dup, err := svc.EnsureMediaRecord(ctx, "owner-1", "https://cdn.example/sunset.jpg", model.MediaAttributes{})
	require.NoError(t, err)
	assert.False(t, dup)
	assert.NotEmpty(t, first.ID)

	second, dup, err := svc.EnsureMediaRecord(ctx, "owner-1", "https://cdn.example/sunset.jpg", model.MediaAttributes{
		Title: "different title, same asset",
	})
	require.NoError(t, err)
	assert.True(t, dup)
	assert.Equal(t, first.ID, second.ID, "a repeat URL must return the existing record")
	require.Len(t, fs.media, 1)
	assert.Equal(t, 2, fs.getByURL, "every call checks the URL before creating")

	// Same URL under another owner is that owner's first record.
	_, dup, err = svc.EnsureMediaRecord(ctx, "owner-2", "https://cdn.example/sunset.jpg", model.MediaAttributes{})
	require.NoError(t, err)
	assert.False(t, dup)
	assert.Len(t, fs.media, 2)
}

func TestEnsureMediaRecord_Defaults(t *testing.T) {
	fs := newFakeStore()
	svc := NewMediaService(fs)

	m, _, err := svc.EnsureMediaRecord(context.Background(), "owner-1", "https://cdn.example/trips/venice.jpg", model.MediaAttributes{
		Tags: []string{"travel", "Travel", "travel", ""},
	})
	require.NoError(t, err)
	assert.Equal(t, model.MediaImage, m.Type)
	assert.Equal(t, "venice.jpg", m.Title)
	assert.Equal(t, "neutral", m.Emotion)
	assert.Equal(t, []string{"travel", "Travel"}, m.Tags)
	assert.False(t, m.IsPublic)
}

func TestEnsureMediaRecord_InvalidType(t *testing.T) {
	fs := newFakeStore()
	svc := NewMediaService(fs)

	_, _, err := svc.EnsureMediaRecord(context.Background(), "owner-1", "https://cdn.example/x.gif", model.MediaAttributes{
		Type: "animation",
	})
	assert.ErrorIs(t, err, model.ErrValidation)
	assert.Empty(t, fs.media)
}

func TestEnsureMediaRecord_PropagatesStoreFailure(t *testing.T) {
	fs := newFakeStore()
	fs.failure = assert.AnError
	svc := NewMediaService(fs)

	_, _, err := svc.EnsureMediaRecord(context.Background(), "owner-1", "https://cdn.example/x.jpg", model.MediaAttributes{})
	assert.ErrorIs(t, err, assert.AnError, "lookup failures must not be mistaken for a cache miss")
}

func TestImportRecord(t *testing.T) {
	fs := newFakeStore()
	svc := NewMediaService(fs)
	ctx := context.Background()

	m, dup, err := svc.ImportRecord(ctx, "owner-1", map[string]interface{}{
		"id":      "legacy-7",
		"url":     "https://cdn.example/archive/beach.jpg",
		"emotion": "joyful",
	})
	require.NoError(t, err)
	assert.False(t, dup)
	assert.Equal(t, "joyful", m.Emotion)

	_, dup, err = svc.ImportRecord(ctx, "owner-1", map[string]interface{}{
		"id":  "legacy-7-again",
		"url": "https://cdn.example/archive/beach.jpg",
	})
	require.NoError(t, err)
	assert.True(t, dup)

	_, _, err = svc.ImportRecord(ctx, "owner-1", map[string]interface{}{"title": "no url"})
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestToggleFavourite(t *testing.T) {
	fs := newFakeStore()
	svc := NewMediaService(fs)
	ctx := context.Background()

	m, _, err := svc.EnsureMediaRecord(ctx, "owner-1", "https://cdn.example/a.jpg", model.MediaAttributes{})
	require.NoError(t, err)

	fav, err := svc.ToggleFavourite(ctx, "owner-1", m.ID)
	require.NoError(t, err)
	assert.True(t, fav)

	fav, err = svc.ToggleFavourite(ctx, "owner-1", m.ID)
	require.NoError(t, err)
	assert.False(t, fav)

	_, err = svc.ToggleFavourite(ctx, "owner-1", "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestGetSharedMedia(t *testing.T) {
	fs := newFakeStore()
	svc := NewMediaService(fs)
	ctx := context.Background()

	private, _, err := svc.EnsureMediaRecord(ctx, "owner-1", "https://cdn.example/private.jpg", model.MediaAttributes{})
	require.NoError(t, err)
	public, _, err := svc.EnsureMediaRecord(ctx, "owner-1", "https://cdn.example/public.jpg", model.MediaAttributes{IsPublic: true})
	require.NoError(t, err)

	got, err := svc.GetSharedMedia(ctx, public.ID)
	require.NoError(t, err)
	assert.Equal(t, public.ID, got.ID)

	// Private records look absent to the share view, not forbidden.
	_, err = svc.GetSharedMedia(ctx, private.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = svc.GetSharedMedia(ctx, "never-existed")
	assert.ErrorIs(t, err, model.ErrNotFound)
}
