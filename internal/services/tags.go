package services

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Jonniie/memoirly/internal/classifier"
	"github.com/Jonniie/memoirly/internal/model"
	"github.com/Jonniie/memoirly/internal/normalize"
)

// Predictions below this confidence are too noisy to suggest.
const minTagConfidence = 0.4

// maxTagSuggestions caps how many labels one image yields.
const maxTagSuggestions = 3

// excludedTagTerms are model labels that describe the medium, not the moment.
var excludedTagTerms = map[string]struct{}{
	"web site":      {},
	"website":       {},
	"monitor":       {},
	"screen":        {},
	"digital clock": {},
	"menu":          {},
	"envelope":      {},
	"packet":        {},
	"carton":        {},
}

// TagSuggester turns classifier output into tag suggestions. The classifier
// is best-effort: any failure yields no suggestions, logged, never an error
// to the caller.
type TagSuggester struct {
	cls classifier.Classifier
	log zerolog.Logger
}

func NewTagSuggester(cls classifier.Classifier, log zerolog.Logger) *TagSuggester {
	return &TagSuggester{cls: cls, log: log}
}

// Suggest returns up to three tag labels for an image memory. Videos and
// unconfigured classifiers yield nothing.
func (s *TagSuggester) Suggest(ctx context.Context, m *model.Memory) []string {
	if s.cls == nil || m.Type != model.MediaImage {
		return nil
	}
	preds, err := s.cls.Classify(ctx, m.URL)
	if err != nil {
		s.log.Warn().Err(err).Str("media_id", m.ID).Msg("tag suggestion skipped: classifier unavailable")
		return nil
	}

	kept := preds[:0:0]
	for _, p := range preds {
		if p.Confidence <= minTagConfidence {
			continue
		}
		if _, skip := excludedTagTerms[strings.ToLower(p.Label)]; skip {
			continue
		}
		kept = append(kept, p)
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Confidence > kept[j].Confidence })
	if len(kept) > maxTagSuggestions {
		kept = kept[:maxTagSuggestions]
	}

	labels := make([]string, 0, len(kept))
	for _, p := range kept {
		labels = append(labels, strings.ToLower(p.Label))
	}
	return normalize.DedupeTags(labels)
}
