package ner

import (
	"context"
)

// ModelBackend defines a pluggable backend for token-classification
// inference. Implementations may use ONNX Runtime or other engines.
type ModelBackend interface {
	// ClassifyTokens runs one inference over the token IDs and returns
	// per-token logits with shape [tokens][labels].
	ClassifyTokens(ctx context.Context, inputIDs, attentionMask []int64) ([][]float32, error)
	// IsReady returns whether the backend is initialized and ready.
	IsReady() bool
	// Close releases any native resources.
	Close() error
}

// NewModelBackend creates a backend if supported by the current build.
// The default (no build tags) returns nil to avoid CGO dependencies.
// Implementations are provided in build-tagged files, e.g.
// backend_onnx.go and backend_stub.go.
