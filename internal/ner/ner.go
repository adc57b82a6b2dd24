// Package ner provides supplementary PII detectors that complement the
// regex engine: a managed AWS Comprehend client and an optional local
// ONNX token-classification model.
package ner

import (
	"fmt"

	"github.com/nidaan-ai/nidaan/internal/config"
	"github.com/nidaan-ai/nidaan/internal/logger"
	"github.com/nidaan-ai/nidaan/internal/privacy"
)

// NewFromConfig builds the detector selected in configuration, or nil
// when supplementary detection is disabled.
func NewFromConfig(cfg config.NERConfig, log *logger.Logger) (privacy.Detector, error) {
	switch cfg.Provider {
	case "", "none":
		return nil, nil
	case "comprehend":
		return NewComprehendDetector(cfg.Region, log)
	case "local":
		return NewLocalDetector(cfg.ModelPath, cfg.VocabPath, log)
	default:
		return nil, fmt.Errorf("unknown ner provider: %s", cfg.Provider)
	}
}
