package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jonniie/memoirly/internal/assets"
	"github.com/Jonniie/memoirly/internal/identity"
	"github.com/Jonniie/memoirly/internal/rotator"
	"github.com/Jonniie/memoirly/internal/services"
	"github.com/Jonniie/memoirly/internal/store/sqlite"
)

const testToken = "tok-alice"

// stubUploader hands back a URL derived from the filename so repeated
// uploads of the same file hit the duplicate guard.
type stubUploader struct{}

func (stubUploader) Upload(_ context.Context, filename string, size int64, r io.Reader, progress assets.ProgressFunc) (*assets.Info, error) {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return nil, err
	}
	return &assets.Info{URL: "https://cdn.example/u/" + filename, AssetID: filename, ResourceType: "image", Bytes: size}, nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	db, err := sqlite.Bootstrap(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	st := sqlite.NewWithDB(db)
	rot := rotator.New(time.Hour, zerolog.Nop())
	t.Cleanup(rot.StopAll)

	media := services.NewMediaService(st)
	provider := identity.NewStaticProvider(testToken + "=alice")

	srv := httptest.NewServer(NewRouter(Deps{
		Media:     media,
		Albums:    services.NewAlbumService(st, rot),
		Uploads:   services.NewUploadService(media, stubUploader{}, 10, zerolog.Nop()),
		Tags:      services.NewTagSuggester(nil, zerolog.Nop()),
		Identity:  provider,
		IsHealthy: func() bool { return true },
		Log:       zerolog.Nop(),
	}))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, token string, body interface{}) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, rd)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, into interface{}) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(into))
}

func TestHealthIsPublic(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, http.MethodGet, srv.URL+"/api/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	decode(t, resp, &body)
	assert.Equal(t, "healthy", body["status"])
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, http.MethodGet, srv.URL+"/api/media", "", nil)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/api/media", "bogus", nil)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCreateMedia_DuplicateReturnsExisting(t *testing.T) {
	srv := newTestServer(t)
	payload := map[string]interface{}{
		"url":     "https://cdn.example/sunset.jpg",
		"title":   "Sunset over the pier",
		"emotion": "calm",
	}

	resp := do(t, http.MethodPost, srv.URL+"/api/media", testToken, payload)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var first struct {
		Memory    map[string]interface{} `json:"memory"`
		Duplicate bool                   `json:"duplicate"`
	}
	decode(t, resp, &first)
	assert.False(t, first.Duplicate)
	require.NotEmpty(t, first.Memory["id"])

	resp = do(t, http.MethodPost, srv.URL+"/api/media", testToken, payload)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var second struct {
		Memory    map[string]interface{} `json:"memory"`
		Duplicate bool                   `json:"duplicate"`
	}
	decode(t, resp, &second)
	assert.True(t, second.Duplicate)
	assert.Equal(t, first.Memory["id"], second.Memory["id"])
}

func TestCreateMedia_Validation(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, http.MethodPost, srv.URL+"/api/media", testToken, map[string]interface{}{"title": "no url"})
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodPost, srv.URL+"/api/media", testToken, map[string]interface{}{
		"url": "https://cdn.example/x.gif", "type": "animation",
	})
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListMedia_Filters(t *testing.T) {
	srv := newTestServer(t)
	seed := []map[string]interface{}{
		{"url": "https://cdn.example/a.jpg", "title": "Beach day", "emotion": "joyful", "tags": []string{"beach"}},
		{"url": "https://cdn.example/b.jpg", "title": "Rainy window", "emotion": "melancholy"},
		{"url": "https://cdn.example/c.mp4", "type": "video", "title": "Beach volleyball", "emotion": "joyful"},
	}
	for _, p := range seed {
		resp := do(t, http.MethodPost, srv.URL+"/api/media", testToken, p)
		_ = resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	var list struct {
		Count int `json:"count"`
	}
	resp := do(t, http.MethodGet, srv.URL+"/api/media", testToken, nil)
	decode(t, resp, &list)
	assert.Equal(t, 3, list.Count)

	resp = do(t, http.MethodGet, srv.URL+"/api/media?q=beach&type=image", testToken, nil)
	decode(t, resp, &list)
	assert.Equal(t, 1, list.Count)

	resp = do(t, http.MethodGet, srv.URL+"/api/media?emotion=joyful", testToken, nil)
	decode(t, resp, &list)
	assert.Equal(t, 2, list.Count)

	resp = do(t, http.MethodGet, srv.URL+"/api/media?privacy=sorta", testToken, nil)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestFavouriteAndVisibilityAndShare(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, http.MethodPost, srv.URL+"/api/media", testToken, map[string]interface{}{"url": "https://cdn.example/a.jpg"})
	var created struct {
		Memory struct {
			ID string `json:"id"`
		} `json:"memory"`
	}
	decode(t, resp, &created)
	id := created.Memory.ID

	resp = do(t, http.MethodPost, srv.URL+"/api/media/"+id+"/favourite", testToken, nil)
	var fav map[string]bool
	decode(t, resp, &fav)
	assert.True(t, fav["favourite"])

	// Private records are invisible through the share link.
	resp = do(t, http.MethodGet, srv.URL+"/api/share/"+id, "", nil)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, http.MethodPut, srv.URL+"/api/media/"+id+"/visibility", testToken, map[string]bool{"isPublic": true})
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, http.MethodGet, srv.URL+"/api/share/"+id, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var shared map[string]interface{}
	decode(t, resp, &shared)
	assert.Equal(t, id, shared["id"])
}

func TestAlbumLifecycle(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, http.MethodPost, srv.URL+"/api/albums", testToken, map[string]string{"title": "Summer 2024"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var album struct {
		AlbumID string `json:"albumId"`
	}
	decode(t, resp, &album)

	var mediaIDs []string
	for i := 0; i < 2; i++ {
		resp := do(t, http.MethodPost, srv.URL+"/api/media", testToken, map[string]interface{}{
			"url": fmt.Sprintf("https://cdn.example/%d.jpg", i),
		})
		var created struct {
			Memory struct {
				ID string `json:"id"`
			} `json:"memory"`
		}
		decode(t, resp, &created)
		mediaIDs = append(mediaIDs, created.Memory.ID)
	}

	for _, id := range mediaIDs {
		resp := do(t, http.MethodPost, srv.URL+"/api/albums/"+album.AlbumID+"/media/"+id, testToken, nil)
		_ = resp.Body.Close()
		require.Equal(t, http.StatusNoContent, resp.StatusCode)
	}

	var members struct {
		Count int `json:"count"`
	}
	resp = do(t, http.MethodGet, srv.URL+"/api/albums/"+album.AlbumID+"/media", testToken, nil)
	decode(t, resp, &members)
	assert.Equal(t, 2, members.Count)

	resp = do(t, http.MethodPost, srv.URL+"/api/albums/"+album.AlbumID+"/rotation", testToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var rotation struct {
		Rotating bool `json:"rotating"`
		Cover    struct {
			URL string `json:"url"`
		} `json:"cover"`
	}
	decode(t, resp, &rotation)
	assert.True(t, rotation.Rotating)
	assert.NotEmpty(t, rotation.Cover.URL)

	resp = do(t, http.MethodDelete, srv.URL+"/api/albums/"+album.AlbumID, testToken, nil)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	// Members outlive the album.
	for _, id := range mediaIDs {
		resp := do(t, http.MethodGet, srv.URL+"/api/media/"+id, testToken, nil)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}
}

func TestTimeline(t *testing.T) {
	srv := newTestServer(t)
	for i := 0; i < 3; i++ {
		resp := do(t, http.MethodPost, srv.URL+"/api/media", testToken, map[string]interface{}{
			"url": fmt.Sprintf("https://cdn.example/t%d.jpg", i),
		})
		_ = resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp := do(t, http.MethodGet, srv.URL+"/api/timeline?granularity=month", testToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Granularity string `json:"granularity"`
		Count       int    `json:"count"`
	}
	decode(t, resp, &body)
	assert.Equal(t, "month", body.Granularity)
	assert.Equal(t, 1, body.Count, "same-month records share one bucket")

	resp = do(t, http.MethodGet, srv.URL+"/api/timeline?granularity=hourly", testToken, nil)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestBatchUpload(t *testing.T) {
	srv := newTestServer(t)

	buildForm := func(names ...string) (*bytes.Buffer, string) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		for _, name := range names {
			hdr := make(textproto.MIMEHeader)
			hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename=%q`, name))
			hdr.Set("Content-Type", "image/jpeg")
			part, err := mw.CreatePart(hdr)
			require.NoError(t, err)
			_, err = part.Write([]byte("image bytes for " + name))
			require.NoError(t, err)
		}
		require.NoError(t, mw.Close())
		return &buf, mw.FormDataContentType()
	}

	send := func(body *bytes.Buffer, contentType string) *http.Response {
		req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/media/batch", body)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+testToken)
		req.Header.Set("Content-Type", contentType)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		return resp
	}

	body, ct := buildForm("one.jpg", "two.jpg")
	resp := send(body, ct)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out struct {
		Results []struct {
			Name   string `json:"name"`
			Status string `json:"status"`
		} `json:"results"`
	}
	decode(t, resp, &out)
	require.Len(t, out.Results, 2)
	assert.Equal(t, "created", out.Results[0].Status)
	assert.Equal(t, "created", out.Results[1].Status)

	// Re-sending one of the files marks it duplicate without failing the batch.
	body, ct = buildForm("one.jpg")
	resp = send(body, ct)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &out)
	require.Len(t, out.Results, 1)
	assert.Equal(t, "duplicate", out.Results[0].Status)

	// A duplicate name inside one batch is rejected up front.
	body, ct = buildForm("same.jpg", "same.jpg")
	resp = send(body, ct)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSuggestTagsWithoutClassifier(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, http.MethodPost, srv.URL+"/api/media", testToken, map[string]interface{}{"url": "https://cdn.example/a.jpg"})
	var created struct {
		Memory struct {
			ID string `json:"id"`
		} `json:"memory"`
	}
	decode(t, resp, &created)

	resp = do(t, http.MethodPost, srv.URL+"/api/media/"+created.Memory.ID+"/suggest-tags", testToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out struct {
		Tags []string `json:"tags"`
	}
	decode(t, resp, &out)
	assert.Empty(t, out.Tags)
}
