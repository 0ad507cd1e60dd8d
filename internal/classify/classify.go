// Package classify turns one free-text shopping chunk into a structured
// item: canonical name, route category and an optional quantity/unit.
package classify

import (
	"context"
	"errors"
)

// ErrUnavailable signals that classification is not available at all
// (e.g. no API key configured). Callers degrade gracefully instead of
// surfacing it as a per-item failure.
var ErrUnavailable = errors.New("classification unavailable")

// Classification is the structured result for one raw input chunk.
type Classification struct {
	Name     string   `json:"name"`
	Category string   `json:"category"`
	Quantity *float64 `json:"quantity"`
	Unit     string   `json:"unit"`
}

// Classifier analyzes a single raw text chunk.
type Classifier interface {
	Classify(ctx context.Context, rawText string) (Classification, error)
}

// Disabled is the classifier used when no LLM backend is configured.
// Every call reports ErrUnavailable so items settle with their raw text.
type Disabled struct{}

// Classify always fails with ErrUnavailable.
func (Disabled) Classify(ctx context.Context, rawText string) (Classification, error) {
	return Classification{}, ErrUnavailable
}
