// Package normalize is the boundary between loosely-typed records returned by
// the persistence collaborator and the typed models used everywhere else.
// Missing optional fields map to documented defaults, never to an error.
package normalize

import (
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/Jonniie/memoirly/internal/model"
)

// DefaultEmotion is applied when a record carries no emotion label.
const DefaultEmotion = "neutral"

// MemoryFromRecord converts a raw persisted media record into a Memory.
// It is pure: no I/O, no clock. The only errors are a missing id or url,
// or an unrecognized media type.
func MemoryFromRecord(raw map[string]interface{}) (*model.Memory, error) {
	id := stringField(raw, "id")
	if id == "" {
		return nil, fmt.Errorf("media record missing id: %w", model.ErrValidation)
	}
	rawURL := stringField(raw, "url")
	if rawURL == "" {
		return nil, fmt.Errorf("media record %s missing url: %w", id, model.ErrValidation)
	}

	mt := model.MediaType(stringField(raw, "type"))
	if mt == "" {
		mt = model.MediaImage
	}
	if !mt.Valid() {
		return nil, fmt.Errorf("media record %s has unknown type %q: %w", id, mt, model.ErrValidation)
	}

	m := &model.Memory{
		ID:        id,
		OwnerID:   stringField(raw, "ownerId"),
		URL:       rawURL,
		Type:      mt,
		Title:     stringField(raw, "title"),
		Note:      stringField(raw, "note"),
		Tags:      DedupeTags(stringSliceField(raw, "tags")),
		Emotion:   stringField(raw, "emotion"),
		Location:  stringField(raw, "location"),
		Favourite: boolField(raw, "favourite"),
		IsPublic:  boolField(raw, "isPublic"),
		CreatedAt: timeField(raw, "createdAt"),
	}
	if m.Title == "" {
		m.Title = TitleFromURL(rawURL)
	}
	if m.Emotion == "" {
		m.Emotion = DefaultEmotion
	}
	return m, nil
}

// AlbumFromRecord converts a raw persisted album record into an Album.
func AlbumFromRecord(raw map[string]interface{}) (*model.Album, error) {
	id := stringField(raw, "id")
	if id == "" {
		id = stringField(raw, "albumId")
	}
	if id == "" {
		return nil, fmt.Errorf("album record missing id: %w", model.ErrValidation)
	}
	return &model.Album{
		AlbumID:     id,
		OwnerID:     stringField(raw, "ownerId"),
		Title:       stringField(raw, "title"),
		Description: stringField(raw, "description"),
		CoverURL:    stringField(raw, "coverUrl"),
		CreatedAt:   timeField(raw, "createdAt"),
	}, nil
}

// TitleFromURL derives a display caption from the asset URL's trailing path
// segment, with any query string and extension noise left intact.
func TitleFromURL(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		if base := path.Base(u.Path); base != "." && base != "/" {
			return base
		}
	}
	// Fall back to a plain split for non-URL strings.
	if i := strings.LastIndex(rawURL, "/"); i >= 0 && i+1 < len(rawURL) {
		return rawURL[i+1:]
	}
	return rawURL
}

// DedupeTags removes duplicate labels, preserving first-occurrence order, and
// drops empty strings. Comparison is exact; callers decide about case.
func DedupeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func stringField(raw map[string]interface{}, key string) string {
	if v, ok := raw[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func boolField(raw map[string]interface{}, key string) bool {
	if v, ok := raw[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}

func timeField(raw map[string]interface{}, key string) time.Time {
	switch v := raw[key].(type) {
	case time.Time:
		return v
	case string:
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

func stringSliceField(raw map[string]interface{}, key string) []string {
	switch v := raw[key].(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
