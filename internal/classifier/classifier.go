// Package classifier talks to the optional image-classification side-car used
// for tag suggestions. The collaborator is best-effort: callers treat a
// failure as "no suggestions", never as a fatal error.
package classifier

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// Prediction is one ranked label from the model.
type Prediction struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Classifier returns ranked (label, confidence) pairs for an image URL.
type Classifier interface {
	Classify(ctx context.Context, imageURL string) ([]Prediction, error)
}

// HTTPClassifier calls the side-car's /classify endpoint.
type HTTPClassifier struct {
	client *resty.Client
}

// New builds a classifier client. A short timeout keeps the tagging feature
// from stalling the request it decorates.
func New(baseURL string) *HTTPClassifier {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(10 * time.Second)
	return &HTTPClassifier{client: c}
}

type classifyRequest struct {
	URL string `json:"url"`
}

type classifyResponse struct {
	Predictions []Prediction `json:"predictions"`
}

// Classify implements Classifier.
func (h *HTTPClassifier) Classify(ctx context.Context, imageURL string) ([]Prediction, error) {
	if imageURL == "" {
		return nil, fmt.Errorf("empty image url")
	}
	var out classifyResponse
	resp, err := h.client.R().
		SetContext(ctx).
		SetBody(&classifyRequest{URL: imageURL}).
		SetResult(&out).
		Post("/classify")
	if err != nil {
		return nil, fmt.Errorf("classifier request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("classifier: status %d", resp.StatusCode())
	}
	return out.Predictions, nil
}
