package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Jonniie/memoirly/internal/assets"
	"github.com/Jonniie/memoirly/internal/model"
)

// AssetUploader is the slice of the asset host client the upload flow needs.
type AssetUploader interface {
	Upload(ctx context.Context, filename string, size int64, r io.Reader, progress assets.ProgressFunc) (*assets.Info, error)
}

// UploadItem is one file in a batch. Open is called at most once, when the
// item's turn in the sequence arrives.
type UploadItem struct {
	Name        string
	Size        int64
	ContentType string
	Open        func() (io.ReadCloser, error)
}

// UploadStatus classifies one item's outcome.
type UploadStatus string

const (
	UploadCreated   UploadStatus = "created"
	UploadDuplicate UploadStatus = "duplicate"
	UploadFailed    UploadStatus = "failed"
)

// UploadResult is the per-item outcome of a batch. A failing item never
// aborts the rest of the batch; callers decide what to retry.
type UploadResult struct {
	Name   string        `json:"name"`
	Status UploadStatus  `json:"status"`
	Memory *model.Memory `json:"memory,omitempty"`
	Error  string        `json:"error,omitempty"`
}

// UploadService pushes file payloads to the asset host and records the
// resulting memories, one item at a time in input order so progress stays
// monotonic per file.
type UploadService struct {
	media    *MediaService
	uploader AssetUploader
	maxFiles int
	log      zerolog.Logger
}

func NewUploadService(media *MediaService, uploader AssetUploader, maxFiles int, log zerolog.Logger) *UploadService {
	return &UploadService{media: media, uploader: uploader, maxFiles: maxFiles, log: log}
}

// ValidateBatch rejects a batch before any collaborator call: too many files,
// a name appearing twice, or a payload that is neither image nor video.
func (s *UploadService) ValidateBatch(items []UploadItem) error {
	if len(items) == 0 {
		return fmt.Errorf("no files selected: %w", model.ErrValidation)
	}
	if len(items) > s.maxFiles {
		return fmt.Errorf("too many files: %d exceeds the limit of %d: %w", len(items), s.maxFiles, model.ErrValidation)
	}
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if _, dup := seen[it.Name]; dup {
			return fmt.Errorf("duplicate file in batch: %s: %w", it.Name, model.ErrValidation)
		}
		seen[it.Name] = struct{}{}
		if mediaTypeFor(it.ContentType) == "" {
			return fmt.Errorf("unsupported file type %q for %s: %w", it.ContentType, it.Name, model.ErrValidation)
		}
	}
	return nil
}

// UploadBatch processes items strictly sequentially in input order and
// returns one result per item. Validation failures surface before any
// network call; per-item collaborator failures are recorded, logged, and do
// not stop later items.
func (s *UploadService) UploadBatch(ctx context.Context, ownerID string, items []UploadItem, attrs model.MediaAttributes, progress assets.ProgressFunc) ([]UploadResult, error) {
	if err := s.ValidateBatch(items); err != nil {
		return nil, err
	}

	results := make([]UploadResult, 0, len(items))
	for _, it := range items {
		results = append(results, s.uploadOne(ctx, ownerID, it, attrs, progress))
	}
	return results, nil
}

func (s *UploadService) uploadOne(ctx context.Context, ownerID string, it UploadItem, attrs model.MediaAttributes, progress assets.ProgressFunc) UploadResult {
	fail := func(err error) UploadResult {
		s.log.Error().Err(err).Str("file", it.Name).Str("owner_id", ownerID).Msg("upload item failed")
		return UploadResult{Name: it.Name, Status: UploadFailed, Error: err.Error()}
	}

	r, err := it.Open()
	if err != nil {
		return fail(fmt.Errorf("open %s: %w", it.Name, err))
	}
	defer func() { _ = r.Close() }()

	info, err := s.uploader.Upload(ctx, it.Name, it.Size, r, progress)
	if err != nil {
		return fail(err)
	}

	itemAttrs := attrs
	itemAttrs.Type = mediaTypeFor(it.ContentType)
	if info.ResourceType == "video" {
		itemAttrs.Type = model.MediaVideo
	}
	if itemAttrs.Title == "" {
		itemAttrs.Title = it.Name
	}

	m, isDup, err := s.media.EnsureMediaRecord(ctx, ownerID, info.URL, itemAttrs)
	if err != nil {
		return fail(err)
	}
	status := UploadCreated
	if isDup {
		status = UploadDuplicate
	}
	return UploadResult{Name: it.Name, Status: status, Memory: m}
}

// mediaTypeFor maps a MIME type onto the gallery's media kinds; empty means
// unsupported.
func mediaTypeFor(contentType string) model.MediaType {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return model.MediaImage
	case strings.HasPrefix(contentType, "video/"):
		return model.MediaVideo
	default:
		return ""
	}
}
