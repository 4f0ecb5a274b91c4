package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Jonniie/memoirly/internal/model"
	"github.com/Jonniie/memoirly/internal/store"
)

// fakeStore is an in-memory store.Store for service tests.
type fakeStore struct {
	media    []*model.Memory
	albums   []*model.Album
	links    []fakeLink
	nextID   int
	failure  error // when set, every call returns it
	now      time.Time
	getByURL int // lookup counter
}

type fakeLink struct {
	albumID, mediaID, ownerID string
	addedAt                   time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeStore) tick() time.Time {
	f.now = f.now.Add(time.Second)
	return f.now
}

func (f *fakeStore) id(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-%d", prefix, f.nextID)
}

func (f *fakeStore) Media() store.Media   { return &fakeMedia{f} }
func (f *fakeStore) Albums() store.Albums { return &fakeAlbums{f} }

type fakeMedia struct{ p *fakeStore }

func (m *fakeMedia) Create(_ context.Context, in *model.Memory) (*model.Memory, error) {
	if m.p.failure != nil {
		return nil, m.p.failure
	}
	out := *in
	out.ID = m.p.id("m")
	out.CreatedAt = m.p.tick()
	m.p.media = append(m.p.media, &out)
	return &out, nil
}

func (m *fakeMedia) GetByID(_ context.Context, ownerID, mediaID string) (*model.Memory, error) {
	if m.p.failure != nil {
		return nil, m.p.failure
	}
	for _, rec := range m.p.media {
		if rec.OwnerID == ownerID && rec.ID == mediaID {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, model.ErrNotFound
}

func (m *fakeMedia) GetByURL(_ context.Context, ownerID, url string) (*model.Memory, error) {
	m.p.getByURL++
	if m.p.failure != nil {
		return nil, m.p.failure
	}
	for _, rec := range m.p.media {
		if rec.OwnerID == ownerID && rec.URL == url {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, model.ErrNotFound
}

func (m *fakeMedia) GetPublic(_ context.Context, mediaID string) (*model.Memory, error) {
	for _, rec := range m.p.media {
		if rec.ID == mediaID {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, model.ErrNotFound
}

func (m *fakeMedia) List(_ context.Context, req model.ListMediaRequest) ([]*model.Memory, error) {
	if m.p.failure != nil {
		return nil, m.p.failure
	}
	var out []*model.Memory
	for i := len(m.p.media) - 1; i >= 0; i-- {
		if m.p.media[i].OwnerID == req.OwnerID {
			cp := *m.p.media[i]
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *fakeMedia) Update(_ context.Context, ownerID, mediaID string, upd model.MediaUpdate) (*model.Memory, error) {
	for _, rec := range m.p.media {
		if rec.OwnerID == ownerID && rec.ID == mediaID {
			if upd.Title != nil {
				rec.Title = *upd.Title
			}
			if upd.Note != nil {
				rec.Note = *upd.Note
			}
			if upd.Tags != nil {
				rec.Tags = *upd.Tags
			}
			if upd.Emotion != nil {
				rec.Emotion = *upd.Emotion
			}
			if upd.Location != nil {
				rec.Location = *upd.Location
			}
			cp := *rec
			return &cp, nil
		}
	}
	return nil, model.ErrNotFound
}

func (m *fakeMedia) SetFavourite(_ context.Context, ownerID, mediaID string, fav bool) error {
	for _, rec := range m.p.media {
		if rec.OwnerID == ownerID && rec.ID == mediaID {
			rec.Favourite = fav
			return nil
		}
	}
	return model.ErrNotFound
}

func (m *fakeMedia) SetVisibility(_ context.Context, ownerID, mediaID string, public bool) error {
	for _, rec := range m.p.media {
		if rec.OwnerID == ownerID && rec.ID == mediaID {
			rec.IsPublic = public
			return nil
		}
	}
	return model.ErrNotFound
}

func (m *fakeMedia) Delete(_ context.Context, ownerID, mediaID string) error {
	for i, rec := range m.p.media {
		if rec.OwnerID == ownerID && rec.ID == mediaID {
			m.p.media = append(m.p.media[:i], m.p.media[i+1:]...)
			kept := m.p.links[:0]
			for _, l := range m.p.links {
				if l.mediaID != mediaID {
					kept = append(kept, l)
				}
			}
			m.p.links = kept
			return nil
		}
	}
	return model.ErrNotFound
}

type fakeAlbums struct{ p *fakeStore }

func (a *fakeAlbums) Create(_ context.Context, in *model.Album) (*model.Album, error) {
	out := *in
	out.AlbumID = a.p.id("a")
	out.CreatedAt = a.p.tick()
	a.p.albums = append(a.p.albums, &out)
	return &out, nil
}

func (a *fakeAlbums) GetByID(_ context.Context, ownerID, albumID string) (*model.Album, error) {
	for _, al := range a.p.albums {
		if al.OwnerID == ownerID && al.AlbumID == albumID {
			cp := *al
			return &cp, nil
		}
	}
	return nil, model.ErrNotFound
}

func (a *fakeAlbums) List(_ context.Context, ownerID string) ([]*model.Album, error) {
	var out []*model.Album
	for i := len(a.p.albums) - 1; i >= 0; i-- {
		if a.p.albums[i].OwnerID == ownerID {
			cp := *a.p.albums[i]
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (a *fakeAlbums) Update(_ context.Context, ownerID, albumID string, title, description *string) (*model.Album, error) {
	for _, al := range a.p.albums {
		if al.OwnerID == ownerID && al.AlbumID == albumID {
			if title != nil {
				al.Title = *title
			}
			if description != nil {
				al.Description = *description
			}
			cp := *al
			return &cp, nil
		}
	}
	return nil, model.ErrNotFound
}

func (a *fakeAlbums) SetCover(_ context.Context, ownerID, albumID, coverURL string) error {
	for _, al := range a.p.albums {
		if al.OwnerID == ownerID && al.AlbumID == albumID {
			al.CoverURL = coverURL
			return nil
		}
	}
	return model.ErrNotFound
}

func (a *fakeAlbums) Delete(_ context.Context, ownerID, albumID string) error {
	for i, al := range a.p.albums {
		if al.OwnerID == ownerID && al.AlbumID == albumID {
			a.p.albums = append(a.p.albums[:i], a.p.albums[i+1:]...)
			kept := a.p.links[:0]
			for _, l := range a.p.links {
				if l.albumID != albumID {
					kept = append(kept, l)
				}
			}
			a.p.links = kept
			return nil
		}
	}
	return model.ErrNotFound
}

func (a *fakeAlbums) AddMedia(_ context.Context, ownerID, albumID, mediaID string) error {
	for _, l := range a.p.links {
		if l.albumID == albumID && l.mediaID == mediaID {
			return nil
		}
	}
	a.p.links = append(a.p.links, fakeLink{albumID: albumID, mediaID: mediaID, ownerID: ownerID, addedAt: a.p.tick()})
	return nil
}

func (a *fakeAlbums) RemoveMedia(_ context.Context, ownerID, albumID, mediaID string) error {
	for i, l := range a.p.links {
		if l.ownerID == ownerID && l.albumID == albumID && l.mediaID == mediaID {
			a.p.links = append(a.p.links[:i], a.p.links[i+1:]...)
			return nil
		}
	}
	return model.ErrNotFound
}

func (a *fakeAlbums) ListMedia(_ context.Context, ownerID, albumID string) ([]*model.Memory, error) {
	var out []*model.Memory
	for i := len(a.p.links) - 1; i >= 0; i-- {
		l := a.p.links[i]
		if l.ownerID != ownerID || l.albumID != albumID {
			continue
		}
		for _, rec := range a.p.media {
			if rec.ID == l.mediaID {
				cp := *rec
				out = append(out, &cp)
			}
		}
	}
	return out, nil
}
