package model

import "time"

// MediaType distinguishes the two asset kinds the gallery stores.
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

// Valid reports whether t is one of the known media types.
func (t MediaType) Valid() bool { return t == MediaImage || t == MediaVideo }

// Memory is the normalized view of a persisted media record.
// URL, Type and CreatedAt are immutable after creation.
type Memory struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	URL       string    `json:"url"`
	Type      MediaType `json:"type"`
	Title     string    `json:"title"`
	Note      string    `json:"note"`
	Tags      []string  `json:"tags"`
	Emotion   string    `json:"emotion"`
	Location  string    `json:"location"`
	Favourite bool      `json:"favourite"`
	IsPublic  bool      `json:"isPublic"`
	CreatedAt time.Time `json:"createdAt"`
}

// MediaAttributes carries the caller-supplied fields for a new media record.
// Zero values fall back to the documented defaults at insert time.
type MediaAttributes struct {
	Type     MediaType `json:"type"`
	Title    string    `json:"title,omitempty"`
	Note     string    `json:"note,omitempty"`
	Tags     []string  `json:"tags,omitempty"`
	Emotion  string    `json:"emotion,omitempty"`
	Location string    `json:"location,omitempty"`
	IsPublic bool      `json:"isPublic,omitempty"`
}

// MediaUpdate holds the mutable fields of a Memory. Nil means "leave unchanged".
type MediaUpdate struct {
	Title    *string   `json:"title,omitempty"`
	Note     *string   `json:"note,omitempty"`
	Tags     *[]string `json:"tags,omitempty"`
	Emotion  *string   `json:"emotion,omitempty"`
	Location *string   `json:"location,omitempty"`
}

// Album groups memories under an owner. Membership is a many-to-many join;
// deleting an album never deletes its member memories.
type Album struct {
	AlbumID     string    `json:"albumId"`
	OwnerID     string    `json:"ownerId"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	CoverURL    string    `json:"coverUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// PrivacyFilter selects records by visibility in a FilterSpec.
type PrivacyFilter string

const (
	PrivacyAll     PrivacyFilter = "all"
	PrivacyPublic  PrivacyFilter = "public"
	PrivacyPrivate PrivacyFilter = "private"
)

// FilterSpec describes the active predicates for filtering memories.
// Every field is optional; unset fields are no-ops and set fields combine with AND.
type FilterSpec struct {
	SearchText string
	Emotion    string
	Tags       []string
	DateStart  *time.Time
	DateEnd    *time.Time
	MediaType  MediaType // "" or "all" disables the predicate
	Privacy    PrivacyFilter
}

// Granularity selects the timeline bucket size.
type Granularity string

const (
	GroupByDay   Granularity = "day"
	GroupByMonth Granularity = "month"
)

// TimelineBucket is one date-keyed group of memories, most recent bucket first.
// Key is "YYYY-MM-DD" for day granularity and "YYYY-MM" for month.
type TimelineBucket struct {
	Key      string    `json:"key"`
	Memories []*Memory `json:"memories"`
}

// ListMediaRequest captures the filters accepted when listing media records.
type ListMediaRequest struct {
	OwnerID string
	Limit   int
	Before  *time.Time
	After   *time.Time
}
