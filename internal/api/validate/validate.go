// Package validate holds the request-level field rules for the gallery API.
// These bound what a client may send; deeper semantic checks live in the
// services layer.
package validate

import (
	"fmt"
	"strings"
)

const (
	maxTitleLen = 120
	maxNoteLen  = 2000
	maxTags     = 20
	maxTagLen   = 40
)

// Title validates a media or album title: required, at most 120 bytes, and
// no surrounding whitespace.
func Title(v string) error {
	if v == "" {
		return fmt.Errorf("title is required")
	}
	if len(v) > maxTitleLen {
		return fmt.Errorf("title exceeds %d characters", maxTitleLen)
	}
	if strings.TrimSpace(v) != v {
		return fmt.Errorf("title must not start or end with whitespace")
	}
	return nil
}

// Note bounds a memory's note text.
func Note(v string) error {
	if len(v) > maxNoteLen {
		return fmt.Errorf("note exceeds %d characters", maxNoteLen)
	}
	return nil
}

// Tags bounds the tag list and each label in it.
func Tags(tags []string) error {
	if len(tags) > maxTags {
		return fmt.Errorf("too many tags: %d exceeds the limit of %d", len(tags), maxTags)
	}
	for _, t := range tags {
		if len(t) > maxTagLen {
			return fmt.Errorf("tag %q exceeds %d characters", t, maxTagLen)
		}
	}
	return nil
}

// NonEmpty reports a missing required field by name.
func NonEmpty(field, v string) error {
	if v == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

// MaxLen bounds an optional string field; nil passes.
func MaxLen(field string, v *string, limit int) error {
	if v == nil {
		return nil
	}
	if len(*v) > limit {
		return fmt.Errorf("%s exceeds %d characters", field, limit)
	}
	return nil
}
