package privacy

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/nidaan-ai/nidaan/internal/config"
	"github.com/nidaan-ai/nidaan/internal/logger"
	"go.uber.org/zap"
)

// highRiskTypes are always redacted when detected.
var highRiskTypes = map[string]struct{}{
	// Identity
	"NAME": {}, "ADDRESS": {}, "DATE_OF_BIRTH": {},
	// Indian government IDs
	"AADHAAR": {}, "PAN": {}, "VOTER_ID": {}, "PASSPORT": {},
	"DRIVING_LICENCE": {}, "ABHA": {},
	// Contact
	"PHONE": {}, "EMAIL": {}, "UPI_ID": {},
	// Financial
	"CREDIT_DEBIT_NUMBER": {}, "CREDIT_DEBIT_CVV": {}, "CREDIT_DEBIT_EXPIRY": {},
	"BANK_ACCOUNT_NUMBER": {}, "BANK_ROUTING": {}, "IFSC": {},
	// US identifiers a generic NER service may still return
	"SSN": {},
	// Digital
	"USERNAME": {}, "PASSWORD": {}, "AWS_ACCESS_KEY": {}, "AWS_SECRET_KEY": {},
	"IP_ADDRESS": {}, "MAC_ADDRESS": {}, "URL": {},
	// Hospital
	"HOSPITAL_ID": {}, "PIN_CODE": {}, "PIN": {},
}

// keepTypes are medically relevant and not personally identifying;
// they pass through unredacted even when detected.
var keepTypes = map[string]struct{}{
	"AGE":      {}, // needed for medical context
	"DATE":     {}, // lab-report dates are useful
	"QUANTITY": {}, // medical measurements
}

// Options override the anonymizer's defaults for one call.
type Options struct {
	Language      string
	MinConfidence float64  // 0 uses the configured default
	Strategy      Strategy // "" uses the configured default
}

// Anonymizer detects and reversibly redacts PII. It is stateless per
// call apart from the audit log and safe for concurrent use. Original
// PII never leaves the process: only the anonymized text is intended
// for external collaborators, and de-anonymization happens strictly
// after their response is back.
type Anonymizer struct {
	cfg      config.PrivacyConfig
	patterns []PatternDef
	ner      Detector
	audit    *AuditLog
	logger   *logger.Logger
}

// New creates an anonymizer. ner may be nil; detection then relies on
// the regex engine alone.
func New(cfg config.PrivacyConfig, ner Detector, log *logger.Logger) (*Anonymizer, error) {
	switch Strategy(cfg.Strategy) {
	case StrategyPlaceholder, StrategyMask, StrategyHash:
	default:
		return nil, fmt.Errorf("unknown redaction strategy: %q", cfg.Strategy)
	}

	a := &Anonymizer{
		cfg:      cfg,
		patterns: DefaultPatterns(),
		ner:      ner,
		audit:    NewAuditLog(cfg.Audit.Enabled, log),
		logger:   log,
	}

	log.Info("PII anonymizer initialized",
		zap.Int("patterns", len(a.patterns)),
		zap.Bool("supplementary_ner", ner != nil),
		zap.String("strategy", cfg.Strategy),
		zap.Bool("audit", cfg.Audit.Enabled),
	)

	return a, nil
}

// AuditLog exposes the audit trail.
func (a *Anonymizer) AuditLog() *AuditLog {
	return a.audit
}

// Anonymise detects and replaces PII in text, returning the
// anonymized text and the mapping needed to reverse it. The mapping
// should be stored with the session so responses can be de-anonymized
// later. Collaborator failures degrade to regex-only results; the
// call itself never fails.
func (a *Anonymizer) Anonymise(ctx context.Context, text string, opts *Options) (string, *Mapping) {
	t0 := time.Now()

	language := a.cfg.Language
	minConfidence := a.cfg.MinConfidence
	strategy := Strategy(a.cfg.Strategy)
	if opts != nil {
		if opts.Language != "" {
			language = opts.Language
		}
		if opts.MinConfidence > 0 {
			minConfidence = opts.MinConfidence
		}
		if opts.Strategy != "" {
			strategy = opts.Strategy
		}
	}

	if strings.TrimSpace(text) == "" {
		return text, NewMapping()
	}

	// Regex is always the primary signal for Indian documents.
	regexEntities := detectRegex(text, a.patterns)
	a.logger.Debug("Regex detection complete", zap.Int("entities", len(regexEntities)))

	var supplementary []Entity
	if a.ner != nil {
		supplementary = a.detectSupplementary(ctx, text, language)
		a.logger.Debug("Supplementary detection complete", zap.Int("entities", len(supplementary)))
	}

	entities := MergeEntities(regexEntities, supplementary)

	if len(entities) == 0 {
		a.recordAudit(text, 0, 0, nil, nil, strategy, t0)
		return text, NewMapping()
	}

	// Confidence and keep-list filter.
	filtered := entities[:0]
	for _, e := range entities {
		if e.Score < minConfidence {
			continue
		}
		if _, keep := keepTypes[e.Type]; keep {
			continue
		}
		filtered = append(filtered, e)
	}
	entities = filtered

	// Replace back-to-front so offsets stay valid.
	sort.Slice(entities, func(i, j int) bool { return entities[i].Start > entities[j].Start })

	mapping := NewMapping()
	anonText := text
	redacted := 0
	sources := make(map[string]struct{})

	for _, ent := range entities {
		_, highRisk := highRiskTypes[ent.Type]
		if !highRisk && ent.Source == SourceRegex {
			continue
		}
		token := a.makeToken(ent, mapping, strategy)
		anonText = anonText[:ent.Start] + token + anonText[ent.End:]
		redacted++
		sources[ent.Source] = struct{}{}
	}

	sourceList := make([]string, 0, len(sources))
	for s := range sources {
		sourceList = append(sourceList, s)
	}
	sort.Strings(sourceList)

	a.recordAudit(text, len(entities), redacted, mapping.EntityTypes(), sourceList, strategy, t0)

	a.logger.Info("PII anonymization complete",
		zap.Int("entities_detected", len(entities)),
		zap.Int("entities_redacted", redacted),
		zap.Strings("entity_types", mapping.EntityTypes()),
		zap.String("strategy", string(strategy)),
	)

	return anonText, mapping
}

// Deanonymise restores original values in text using mapping.
func (a *Anonymizer) Deanonymise(text string, mapping *Mapping) string {
	return mapping.Deanonymise(text)
}

// makeToken generates the replacement token for a detected entity.
// Mask and hash tokens are still registered so the pass stays
// reversible.
func (a *Anonymizer) makeToken(ent Entity, mapping *Mapping, strategy Strategy) string {
	switch strategy {
	case StrategyMask:
		mapping.Add(ent.Type, ent.Text)
		n := len(ent.Text)
		if n > 20 {
			n = 20
		}
		return strings.Repeat("*", n)

	case StrategyHash:
		sum := sha256.Sum256([]byte(ent.Text))
		placeholder := fmt.Sprintf("[%s:%s]", ent.Type, hex.EncodeToString(sum[:])[:12])
		mapping.addDirect(placeholder, ent.Text)
		return placeholder

	default:
		return mapping.Add(ent.Type, ent.Text)
	}
}

// detectSupplementary runs the NER collaborator, chunking oversized
// input with overlap so entities are not split at a boundary. Any
// collaborator failure is logged and yields zero additional entities.
func (a *Anonymizer) detectSupplementary(ctx context.Context, text, language string) []Entity {
	sup := a.cfg.Supplementary

	if len(text) <= sup.MaxBytes {
		return a.detectChunk(ctx, text, 0, language)
	}

	var entities []Entity
	pos := 0
	for pos < len(text) {
		chunkEnd := pos + sup.ChunkSize
		if chunkEnd >= len(text) {
			chunkEnd = len(text)
		} else {
			// Back off to a rune boundary.
			for chunkEnd > pos && !utf8.RuneStart(text[chunkEnd]) {
				chunkEnd--
			}
		}

		entities = append(entities, a.detectChunk(ctx, text[pos:chunkEnd], pos, language)...)

		if chunkEnd == len(text) {
			break
		}
		next := chunkEnd - sup.ChunkOverlap
		if next <= pos {
			next = chunkEnd
		}
		for next > 0 && next < len(text) && !utf8.RuneStart(text[next]) {
			next--
		}
		pos = next
	}

	// Overlapping regions report duplicates; keep the highest-scoring
	// entity per (start,end).
	sort.SliceStable(entities, func(i, j int) bool {
		if entities[i].Start != entities[j].Start {
			return entities[i].Start < entities[j].Start
		}
		return entities[i].Score > entities[j].Score
	})
	seen := make(map[span]struct{}, len(entities))
	deduped := entities[:0]
	for _, e := range entities {
		key := span{e.Start, e.End}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		deduped = append(deduped, e)
	}
	return deduped
}

// detectChunk calls the collaborator for one chunk and shifts the
// returned offsets into the full-text coordinate space.
func (a *Anonymizer) detectChunk(ctx context.Context, chunk string, offset int, language string) []Entity {
	cctx := ctx
	if a.cfg.Supplementary.Timeout > 0 {
		var cancel context.CancelFunc
		cctx, cancel = context.WithTimeout(ctx, a.cfg.Supplementary.Timeout)
		defer cancel()
	}

	detected, err := a.ner.Detect(cctx, chunk, language)
	if err != nil {
		a.logger.Warn("Supplementary NER detection failed on chunk",
			zap.Error(err),
			zap.Int("offset", offset),
			zap.Int("chunk_bytes", len(chunk)),
		)
		return nil
	}

	entities := make([]Entity, 0, len(detected))
	for _, e := range detected {
		if e.Start < 0 || e.End > len(chunk) || e.End <= e.Start {
			continue
		}
		e.Text = chunk[e.Start:e.End]
		e.Start += offset
		e.End += offset
		entities = append(entities, e)
	}
	return entities
}

func (a *Anonymizer) recordAudit(text string, detected, redacted int, types, sources []string, strategy Strategy, t0 time.Time) {
	if types == nil {
		types = []string{}
	}
	if sources == nil {
		sources = []string{}
	}
	a.audit.Record(AuditEntry{
		TextLength:       len(text),
		EntitiesDetected: detected,
		EntitiesRedacted: redacted,
		EntityTypes:      types,
		SourcesUsed:      sources,
		Strategy:         string(strategy),
		DurationMS:       float64(time.Since(t0).Microseconds()) / 1000.0,
	})
}
