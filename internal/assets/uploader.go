// Package assets is the client for the asset host that stores the actual
// image and video bytes and serves them from its CDN.
package assets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// Info is the asset host's description of a stored asset.
type Info struct {
	URL          string `json:"secure_url"`
	AssetID      string `json:"public_id"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	ResourceType string `json:"resource_type"`
	Bytes        int64  `json:"bytes"`
}

// ProgressFunc receives the number of bytes read so far and the total size
// (-1 when unknown). Called from the upload goroutine, in order.
type ProgressFunc func(sent, total int64)

// Uploader sends file payloads to the asset host. Uploads have no mid-flight
// cancellation beyond the request context.
type Uploader struct {
	client *resty.Client
	folder string
}

// NewUploader builds a client for the configured asset host. uploadKey is the
// host's unsigned upload preset or API key.
func NewUploader(baseURL, uploadKey, folder string) *Uploader {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(5 * time.Minute)
	if uploadKey != "" {
		c.SetHeader("Authorization", "Bearer "+uploadKey)
	}
	return &Uploader{client: c, folder: folder}
}

// HealthPing implements health.HealthPinger against the host's ping endpoint.
func (u *Uploader) HealthPing(ctx context.Context) error {
	resp, err := u.client.R().SetContext(ctx).Get("/ping")
	if err != nil {
		return fmt.Errorf("asset host ping: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("asset host ping: status %d", resp.StatusCode())
	}
	return nil
}

// Upload streams one file to the asset host and returns its stored location
// and structural metadata. progress may be nil.
func (u *Uploader) Upload(ctx context.Context, filename string, size int64, r io.Reader, progress ProgressFunc) (*Info, error) {
	body := r
	if progress != nil {
		body = &progressReader{r: r, total: size, cb: progress}
	}

	var info Info
	resp, err := u.client.R().
		SetContext(ctx).
		SetFileReader("file", filename, body).
		SetFormData(map[string]string{"folder": u.folder}).
		SetResult(&info).
		Post("/upload")
	if err != nil {
		return nil, fmt.Errorf("asset upload: %w", err)
	}
	if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusCreated {
		return nil, fmt.Errorf("asset upload: status %d: %s", resp.StatusCode(), resp.String())
	}
	if info.URL == "" {
		return nil, fmt.Errorf("asset upload: host returned no URL")
	}
	return &info, nil
}

// progressReader reports cumulative bytes read through cb.
type progressReader struct {
	r     io.Reader
	total int64
	sent  int64
	cb    ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.sent += int64(n)
		p.cb(p.sent, p.total)
	}
	return n, err
}
