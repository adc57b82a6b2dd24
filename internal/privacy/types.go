package privacy

import (
	"context"
	"regexp"
)

// Entity source labels. The merger prefers regex hits on confidence
// ties because the hand-tuned regional patterns outperform generic
// NER on Indian identifiers.
const (
	SourceRegex      = "regex"
	SourceComprehend = "comprehend"
	SourceModel      = "model"
)

// Strategy selects how detected values are substituted.
type Strategy string

const (
	StrategyPlaceholder Strategy = "placeholder" // [NAME_1]
	StrategyMask        Strategy = "mask"        // ****
	StrategyHash        Strategy = "hash"        // [NAME:ab12cd34ef56]
)

// Entity is a single detected PII span.
type Entity struct {
	Type   string  `json:"entity_type"`
	Text   string  `json:"-"` // original value, never serialized
	Start  int     `json:"start"`
	End    int     `json:"end"`
	Score  float64 `json:"score"`
	Source string  `json:"source"`
}

// Detector is the supplementary NER collaborator contract. A nil
// detector is valid; its absence reduces recall, never correctness.
type Detector interface {
	Detect(ctx context.Context, text, language string) ([]Entity, error)
}

// PatternDef defines one regex PII pattern with metadata.
type PatternDef struct {
	EntityType string
	Pattern    *regexp.Regexp
	Confidence float64
	Validator  string // "", "verhoeff", "luhn", or "pan"
	// MedicalCheck suppresses the match when the enclosing line looks
	// like a lab measurement.
	MedicalCheck bool
	// Group is the submatch index carrying the entity value; 0 means
	// the whole match. Used where a label prefix is part of the
	// pattern but not part of the entity.
	Group int
	// DigitBoundary rejects matches directly adjacent to another
	// digit. RE2 has no lookarounds, so patterns that would use
	// (?<!\d)...(?!\d) set this flag instead.
	DigitBoundary bool
	Description   string
}
