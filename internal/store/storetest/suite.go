package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Jonniie/memoirly/internal/model"
	"github.com/Jonniie/memoirly/internal/store"
)

// Run exercises a compliance suite against a store.Store implementation.
// Implementations should provide a clean, isolated store from makeStore.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	s := makeStore(t)
	ctx := context.Background()

	ownerID := "owner-" + uuid.New().String()

	// Media create + reads
	m1, err := s.Media().Create(ctx, &model.Memory{
		OwnerID: ownerID,
		URL:     "https://cdn.example.test/" + ownerID + "/one.jpg",
		Type:    model.MediaImage,
		Title:   "one",
		Emotion: "neutral",
		Tags:    []string{"trip", "sea", "trip"},
	})
	if err != nil {
		t.Fatalf("CreateMedia: %v", err)
	}
	if m1.ID == "" || m1.CreatedAt.IsZero() {
		t.Fatalf("CreateMedia: missing id or creation time: %+v", m1)
	}
	if len(m1.Tags) != 2 {
		t.Fatalf("CreateMedia: tags not deduplicated: %v", m1.Tags)
	}

	if got, err := s.Media().GetByID(ctx, ownerID, m1.ID); err != nil || got.URL != m1.URL {
		t.Fatalf("GetByID: got=%+v err=%v", got, err)
	}
	if got, err := s.Media().GetByURL(ctx, ownerID, m1.URL); err != nil || got.ID != m1.ID {
		t.Fatalf("GetByURL: got=%+v err=%v", got, err)
	}
	if _, err := s.Media().GetByURL(ctx, ownerID, "https://cdn.example.test/absent.jpg"); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetByURL miss: want ErrNotFound, got %v", err)
	}
	if _, err := s.Media().GetByID(ctx, "other-owner", m1.ID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetByID wrong owner: want ErrNotFound, got %v", err)
	}

	// Second record for list ordering; the sleep keeps creation times distinct
	// on drivers with millisecond resolution.
	time.Sleep(5 * time.Millisecond)
	m2, err := s.Media().Create(ctx, &model.Memory{
		OwnerID: ownerID,
		URL:     "https://cdn.example.test/" + ownerID + "/two.mp4",
		Type:    model.MediaVideo,
		Title:   "two",
		Emotion: "joy",
	})
	if err != nil {
		t.Fatalf("CreateMedia m2: %v", err)
	}

	lst, err := s.Media().List(ctx, model.ListMediaRequest{OwnerID: ownerID})
	if err != nil || len(lst) != 2 {
		t.Fatalf("ListMedia: n=%d err=%v", len(lst), err)
	}
	if lst[0].ID != m2.ID || lst[1].ID != m1.ID {
		t.Fatalf("ListMedia order: want most recent first, got [%s %s]", lst[0].ID, lst[1].ID)
	}

	// Update mutable fields
	newTitle := "renamed"
	newTags := []string{"sea", "sunset"}
	upd, err := s.Media().Update(ctx, ownerID, m1.ID, model.MediaUpdate{Title: &newTitle, Tags: &newTags})
	if err != nil || upd.Title != "renamed" || len(upd.Tags) != 2 {
		t.Fatalf("UpdateMedia: got=%+v err=%v", upd, err)
	}

	// Favourite and visibility flags
	if err := s.Media().SetFavourite(ctx, ownerID, m1.ID, true); err != nil {
		t.Fatalf("SetFavourite: %v", err)
	}
	if err := s.Media().SetVisibility(ctx, ownerID, m1.ID, true); err != nil {
		t.Fatalf("SetVisibility: %v", err)
	}
	if got, _ := s.Media().GetByID(ctx, ownerID, m1.ID); !got.Favourite || !got.IsPublic {
		t.Fatalf("flags not persisted: %+v", got)
	}
	if got, err := s.Media().GetPublic(ctx, m1.ID); err != nil || got.ID != m1.ID {
		t.Fatalf("GetPublic: got=%+v err=%v", got, err)
	}
	if err := s.Media().SetFavourite(ctx, ownerID, uuid.New().String(), true); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("SetFavourite miss: want ErrNotFound, got %v", err)
	}

	// Albums
	al, err := s.Albums().Create(ctx, &model.Album{OwnerID: ownerID, Title: "Trips", Description: "summer"})
	if err != nil || al.AlbumID == "" {
		t.Fatalf("CreateAlbum: got=%+v err=%v", al, err)
	}
	if lst, err := s.Albums().List(ctx, ownerID); err != nil || len(lst) != 1 {
		t.Fatalf("ListAlbums: n=%d err=%v", len(lst), err)
	}

	renamed := "Voyages"
	if got, err := s.Albums().Update(ctx, ownerID, al.AlbumID, &renamed, nil); err != nil || got.Title != "Voyages" || got.Description != "summer" {
		t.Fatalf("UpdateAlbum: got=%+v err=%v", got, err)
	}
	if err := s.Albums().SetCover(ctx, ownerID, al.AlbumID, m1.URL); err != nil {
		t.Fatalf("SetCover: %v", err)
	}
	if got, _ := s.Albums().GetByID(ctx, ownerID, al.AlbumID); got.CoverURL != m1.URL {
		t.Fatalf("cover not persisted: %+v", got)
	}

	// Membership: attach twice is a no-op
	if err := s.Albums().AddMedia(ctx, ownerID, al.AlbumID, m1.ID); err != nil {
		t.Fatalf("AddMedia: %v", err)
	}
	if err := s.Albums().AddMedia(ctx, ownerID, al.AlbumID, m1.ID); err != nil {
		t.Fatalf("AddMedia repeat: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if err := s.Albums().AddMedia(ctx, ownerID, al.AlbumID, m2.ID); err != nil {
		t.Fatalf("AddMedia m2: %v", err)
	}
	members, err := s.Albums().ListMedia(ctx, ownerID, al.AlbumID)
	if err != nil || len(members) != 2 {
		t.Fatalf("ListAlbumMedia: n=%d err=%v", len(members), err)
	}
	if members[0].ID != m2.ID {
		t.Fatalf("ListAlbumMedia order: want most recently attached first, got %s", members[0].ID)
	}
	if err := s.Albums().AddMedia(ctx, ownerID, al.AlbumID, uuid.New().String()); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("AddMedia unknown media: want ErrNotFound, got %v", err)
	}

	if err := s.Albums().RemoveMedia(ctx, ownerID, al.AlbumID, m2.ID); err != nil {
		t.Fatalf("RemoveMedia: %v", err)
	}
	if members, _ := s.Albums().ListMedia(ctx, ownerID, al.AlbumID); len(members) != 1 {
		t.Fatalf("RemoveMedia: member still linked, n=%d", len(members))
	}

	// Deleting media removes its album links
	if err := s.Media().Delete(ctx, ownerID, m1.ID); err != nil {
		t.Fatalf("DeleteMedia: %v", err)
	}
	if members, _ := s.Albums().ListMedia(ctx, ownerID, al.AlbumID); len(members) != 0 {
		t.Fatalf("DeleteMedia: links survived, n=%d", len(members))
	}
	if _, err := s.Media().GetByID(ctx, ownerID, m1.ID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("DeleteMedia: record survived, err=%v", err)
	}

	// Deleting an album never deletes member media
	if err := s.Albums().AddMedia(ctx, ownerID, al.AlbumID, m2.ID); err != nil {
		t.Fatalf("AddMedia before album delete: %v", err)
	}
	if err := s.Albums().Delete(ctx, ownerID, al.AlbumID); err != nil {
		t.Fatalf("DeleteAlbum: %v", err)
	}
	if _, err := s.Albums().GetByID(ctx, ownerID, al.AlbumID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("DeleteAlbum: album survived, err=%v", err)
	}
	if got, err := s.Media().GetByID(ctx, ownerID, m2.ID); err != nil || got == nil {
		t.Fatalf("DeleteAlbum cascaded into media: got=%+v err=%v", got, err)
	}
}
