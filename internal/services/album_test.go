package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jonniie/memoirly/internal/model"
	"github.com/Jonniie/memoirly/internal/rotator"
)

func newAlbumFixture(t *testing.T) (*AlbumService, *MediaService, *rotator.Rotator) {
	t.Helper()
	fs := newFakeStore()
	rot := rotator.New(time.Hour, zerolog.Nop())
	t.Cleanup(rot.StopAll)
	return NewAlbumService(fs, rot), NewMediaService(fs), rot
}

func seedAlbum(t *testing.T, albums *AlbumService, media *MediaService) (*model.Album, []*model.Memory) {
	t.Helper()
	ctx := context.Background()
	album, err := albums.CreateAlbum(ctx, &model.Album{OwnerID: "owner-1", Title: "Summer 2024"})
	require.NoError(t, err)

	var members []*model.Memory
	for _, u := range []struct {
		url string
		typ model.MediaType
	}{
		{"https://cdn.example/one.jpg", model.MediaImage},
		{"https://cdn.example/two.jpg", model.MediaImage},
		{"https://cdn.example/clip.mp4", model.MediaVideo},
	} {
		m, _, err := media.EnsureMediaRecord(ctx, "owner-1", u.url, model.MediaAttributes{Type: u.typ})
		require.NoError(t, err)
		require.NoError(t, albums.AttachMedia(ctx, "owner-1", album.AlbumID, m.ID))
		members = append(members, m)
	}
	return album, members
}

func TestCreateAlbum_RequiresTitle(t *testing.T) {
	albums, _, _ := newAlbumFixture(t)

	_, err := albums.CreateAlbum(context.Background(), &model.Album{OwnerID: "owner-1"})
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestUpdateAlbum_RejectsEmptyTitle(t *testing.T) {
	albums, media, _ := newAlbumFixture(t)
	album, _ := seedAlbum(t, albums, media)

	empty := ""
	_, err := albums.UpdateAlbum(context.Background(), "owner-1", album.AlbumID, &empty, nil)
	assert.ErrorIs(t, err, model.ErrValidation)

	desc := "the lake trip"
	got, err := albums.UpdateAlbum(context.Background(), "owner-1", album.AlbumID, nil, &desc)
	require.NoError(t, err)
	assert.Equal(t, "Summer 2024", got.Title)
	assert.Equal(t, desc, got.Description)
}

func TestRefreshCoverRotation_ImagesOnly(t *testing.T) {
	albums, media, rot := newAlbumFixture(t)
	album, members := seedAlbum(t, albums, media)
	ctx := context.Background()

	h, err := albums.RefreshCoverRotation(ctx, "owner-1", album.AlbumID)
	require.NoError(t, err)
	require.NotNil(t, h)
	assert.Equal(t, 1, rot.Len())

	cover, ok := albums.CurrentCover(album.AlbumID)
	require.True(t, ok)
	// Videos never rotate as covers.
	assert.NotEqual(t, members[2].URL, cover.URL)
	// Members list newest-first, so the rotation leads with the last attach.
	assert.Equal(t, members[1].ID, cover.ID)
}

func TestSetCover_ReseedsLiveRotation(t *testing.T) {
	albums, media, _ := newAlbumFixture(t)
	album, members := seedAlbum(t, albums, media)
	ctx := context.Background()

	_, err := albums.RefreshCoverRotation(ctx, "owner-1", album.AlbumID)
	require.NoError(t, err)

	require.NoError(t, albums.SetCover(ctx, "owner-1", album.AlbumID, members[0].URL))

	cover, ok := albums.CurrentCover(album.AlbumID)
	require.True(t, ok)
	assert.Equal(t, members[0].URL, cover.URL, "a manual cover takes over immediately")

	got, err := albums.GetAlbum(ctx, "owner-1", album.AlbumID)
	require.NoError(t, err)
	assert.Equal(t, members[0].URL, got.CoverURL)
}

func TestDeleteAlbum_StopsRotationKeepsMedia(t *testing.T) {
	albums, media, rot := newAlbumFixture(t)
	album, members := seedAlbum(t, albums, media)
	ctx := context.Background()

	_, err := albums.RefreshCoverRotation(ctx, "owner-1", album.AlbumID)
	require.NoError(t, err)
	require.Equal(t, 1, rot.Len())

	require.NoError(t, albums.DeleteAlbum(ctx, "owner-1", album.AlbumID))
	assert.Zero(t, rot.Len())
	_, ok := albums.CurrentCover(album.AlbumID)
	assert.False(t, ok)

	for _, m := range members {
		_, err := media.GetMedia(ctx, "owner-1", m.ID)
		assert.NoError(t, err, "deleting an album must not delete its media")
	}
}

func TestDetachMedia(t *testing.T) {
	albums, media, _ := newAlbumFixture(t)
	album, members := seedAlbum(t, albums, media)
	ctx := context.Background()

	require.NoError(t, albums.DetachMedia(ctx, "owner-1", album.AlbumID, members[0].ID))
	got, err := albums.ListAlbumMedia(ctx, "owner-1", album.AlbumID)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	err = albums.DetachMedia(ctx, "owner-1", album.AlbumID, members[0].ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
}
