package view

import (
	"sort"

	"github.com/Jonniie/memoirly/internal/model"
)

// GroupByTime partitions memories into date-keyed buckets and orders the
// buckets most-recent-first. Records keep their relative input order within a
// bucket. Keys are "YYYY-MM-DD" for day granularity and "YYYY-MM" for month,
// derived in each record's own time zone. Empty input yields an empty slice.
func GroupByTime(memories []*model.Memory, g model.Granularity) []model.TimelineBucket {
	layout := "2006-01-02"
	if g == model.GroupByMonth {
		layout = "2006-01"
	}

	index := make(map[string]int)
	buckets := make([]model.TimelineBucket, 0)
	for _, m := range memories {
		key := m.CreatedAt.Format(layout)
		i, ok := index[key]
		if !ok {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, model.TimelineBucket{Key: key})
		}
		buckets[i].Memories = append(buckets[i].Memories, m)
	}

	// Keys are zero-padded so lexicographic order is chronological order.
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Key > buckets[j].Key })
	return buckets
}
