// Package view holds the pure derivation functions that shape persisted media
// records into what the dashboard and timeline render.
package view

import (
	"strings"
	"time"

	"github.com/Jonniie/memoirly/internal/model"
)

// FilterMemories returns the subset of memories matching every active
// predicate in spec, preserving the relative input order. A zero-valued spec
// is the identity. The input slice is never mutated.
func FilterMemories(memories []*model.Memory, spec model.FilterSpec) []*model.Memory {
	out := make([]*model.Memory, 0, len(memories))
	for _, m := range memories {
		if matches(m, spec) {
			out = append(out, m)
		}
	}
	return out
}

func matches(m *model.Memory, spec model.FilterSpec) bool {
	if spec.SearchText != "" && !matchesSearch(m, spec.SearchText) {
		return false
	}
	if spec.Emotion != "" && m.Emotion != spec.Emotion {
		return false
	}
	if len(spec.Tags) > 0 && !hasAnyTag(m.Tags, spec.Tags) {
		return false
	}
	if !withinDateRange(m.CreatedAt, spec.DateStart, spec.DateEnd) {
		return false
	}
	if spec.MediaType != "" && spec.MediaType != "all" && m.Type != spec.MediaType {
		return false
	}
	switch spec.Privacy {
	case model.PrivacyPublic:
		if !m.IsPublic {
			return false
		}
	case model.PrivacyPrivate:
		if m.IsPublic {
			return false
		}
	}
	return true
}

// matchesSearch does a case-insensitive substring match against title, note,
// every tag and the emotion label; any single hit matches.
func matchesSearch(m *model.Memory, text string) bool {
	needle := strings.ToLower(text)
	if strings.Contains(strings.ToLower(m.Title), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(m.Note), needle) {
		return true
	}
	for _, tag := range m.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return strings.Contains(strings.ToLower(m.Emotion), needle)
}

func hasAnyTag(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}

// withinDateRange checks createdAt against inclusive calendar-date bounds.
// The end bound covers the whole end day, through 23:59:59.999.
func withinDateRange(createdAt time.Time, start, end *time.Time) bool {
	if start != nil {
		s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, createdAt.Location())
		if createdAt.Before(s) {
			return false
		}
	}
	if end != nil {
		e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, createdAt.Location()).AddDate(0, 0, 1)
		if !createdAt.Before(e) {
			return false
		}
	}
	return true
}
