package api

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Jonniie/memoirly/internal/model"
)

// filterDateLayout is the wire format for the from/to query parameters.
const filterDateLayout = "2006-01-02"

// filterSpecFromQuery maps the dashboard's query parameters onto a FilterSpec.
//
//	q        substring search over title, note, tags, emotion
//	emotion  exact emotion match
//	tags     comma-separated, record matches when it carries any of them
//	from/to  inclusive YYYY-MM-DD calendar bounds
//	type     image or video ("all" disables)
//	privacy  all, public or private
func filterSpecFromQuery(q url.Values) (model.FilterSpec, error) {
	spec := model.FilterSpec{
		SearchText: q.Get("q"),
		Emotion:    q.Get("emotion"),
	}

	if raw := q.Get("tags"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				spec.Tags = append(spec.Tags, t)
			}
		}
	}

	var err error
	if spec.DateStart, err = parseFilterDate(q.Get("from")); err != nil {
		return model.FilterSpec{}, fmt.Errorf("invalid from date: %w", err)
	}
	if spec.DateEnd, err = parseFilterDate(q.Get("to")); err != nil {
		return model.FilterSpec{}, fmt.Errorf("invalid to date: %w", err)
	}
	if spec.DateStart != nil && spec.DateEnd != nil && spec.DateEnd.Before(*spec.DateStart) {
		return model.FilterSpec{}, fmt.Errorf("to date precedes from date")
	}

	if mt := q.Get("type"); mt != "" && mt != "all" {
		spec.MediaType = model.MediaType(mt)
		if !spec.MediaType.Valid() {
			return model.FilterSpec{}, fmt.Errorf("unknown media type %q", mt)
		}
	}

	switch p := model.PrivacyFilter(q.Get("privacy")); p {
	case "", model.PrivacyAll:
		spec.Privacy = model.PrivacyAll
	case model.PrivacyPublic, model.PrivacyPrivate:
		spec.Privacy = p
	default:
		return model.FilterSpec{}, fmt.Errorf("unknown privacy filter %q", p)
	}

	return spec, nil
}

func parseFilterDate(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(filterDateLayout, v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
