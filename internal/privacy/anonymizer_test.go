package privacy

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/nidaan-ai/nidaan/internal/config"
	"github.com/nidaan-ai/nidaan/internal/logger"
)

// stubDetector is a canned supplementary detector for tests.
type stubDetector struct {
	entities []Entity
	err      error
	calls    int
}

func (s *stubDetector) Detect(ctx context.Context, text, language string) ([]Entity, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.entities, nil
}

func testPrivacyConfig() config.PrivacyConfig {
	return config.GetDefaults().Privacy
}

func TestAnonymizer(t *testing.T) {
	log := logger.NewNop()

	t.Run("InvalidStrategy", func(t *testing.T) {
		cfg := testPrivacyConfig()
		cfg.Strategy = "rot13"
		if _, err := New(cfg, nil, log); err == nil {
			t.Fatal("Invalid strategy accepted")
		}
	})

	t.Run("EmptyInput", func(t *testing.T) {
		a, err := New(testPrivacyConfig(), nil, log)
		if err != nil {
			t.Fatalf("Failed to create anonymizer: %v", err)
		}
		out, mapping := a.Anonymise(context.Background(), "   \n  ", nil)
		if out != "   \n  " {
			t.Errorf("Whitespace input modified: %q", out)
		}
		if mapping.Len() != 0 {
			t.Errorf("Empty input produced mappings: %d", mapping.Len())
		}
	})

	t.Run("PlaceholderRoundTrip", func(t *testing.T) {
		a, _ := New(testPrivacyConfig(), nil, log)
		text := "Patient Name: Ramesh Gupta\nPhone: 9876543210\nAadhaar: 9999 9999 9999"

		anon, mapping := a.Anonymise(context.Background(), text, nil)

		if mapping.Len() != 3 {
			t.Fatalf("Expected 3 mapped entities, got %d: %+v", mapping.Len(), mapping.Export())
		}
		for _, original := range []string{"Ramesh Gupta", "9876543210", "9999 9999 9999"} {
			if strings.Contains(anon, original) {
				t.Errorf("Original value leaked: %q in %q", original, anon)
			}
		}
		if !strings.Contains(anon, "[NAME_1]") || !strings.Contains(anon, "[PHONE_1]") || !strings.Contains(anon, "[AADHAAR_1]") {
			t.Errorf("Expected placeholders missing: %q", anon)
		}

		restored := a.Deanonymise(anon, mapping)
		if restored != text {
			t.Errorf("Round trip failed:\n got: %q\nwant: %q", restored, text)
		}
	})

	t.Run("LabValuesUntouched", func(t *testing.T) {
		a, _ := New(testPrivacyConfig(), nil, log)
		text := "Hemoglobin: 8.2 g/dL\nGlucose: 104 mg/dL\nPlatelet count 250000 /mcL"
		anon, mapping := a.Anonymise(context.Background(), text, nil)
		if anon != text {
			t.Errorf("Lab report modified: %q", anon)
		}
		if mapping.Len() != 0 {
			t.Errorf("Lab values mapped as PII: %+v", mapping.Export())
		}
	})

	t.Run("MaskStrategy", func(t *testing.T) {
		cfg := testPrivacyConfig()
		cfg.Strategy = "mask"
		a, _ := New(cfg, nil, log)

		anon, mapping := a.Anonymise(context.Background(), "Phone: 9876543210", nil)
		if !strings.Contains(anon, strings.Repeat("*", 10)) {
			t.Errorf("Phone not masked: %q", anon)
		}
		if mapping.Len() != 1 {
			t.Errorf("Masked value not registered: %d", mapping.Len())
		}
	})

	t.Run("MaskCapsAtTwenty", func(t *testing.T) {
		cfg := testPrivacyConfig()
		cfg.Strategy = "mask"
		a, _ := New(cfg, nil, log)

		// 25-char address value must not produce 25 stars.
		anon, _ := a.Anonymise(context.Background(), "Address: 42 Nehru Marg New Delhi x", nil)
		if strings.Contains(anon, strings.Repeat("*", 21)) {
			t.Errorf("Mask exceeded 20 characters: %q", anon)
		}
		if !strings.Contains(anon, strings.Repeat("*", 20)) {
			t.Errorf("Long value not masked: %q", anon)
		}
	})

	t.Run("HashStrategy", func(t *testing.T) {
		cfg := testPrivacyConfig()
		cfg.Strategy = "hash"
		a, _ := New(cfg, nil, log)

		anon, mapping := a.Anonymise(context.Background(), "Phone: 9876543210", nil)
		idx := strings.Index(anon, "[PHONE:")
		if idx < 0 {
			t.Fatalf("Hash token missing: %q", anon)
		}
		// [PHONE:<12 hex chars>]
		token := anon[idx : idx+len("[PHONE:")+13]
		if !strings.HasSuffix(token, "]") {
			t.Errorf("Malformed hash token: %q", token)
		}

		restored := a.Deanonymise(anon, mapping)
		if !strings.Contains(restored, "9876543210") {
			t.Errorf("Hash token not reversible: %q", restored)
		}
	})

	t.Run("PerCallOptions", func(t *testing.T) {
		a, _ := New(testPrivacyConfig(), nil, log)
		text := "PIN: is not labelled here 560001 end"

		// Default threshold keeps the low-confidence standalone PIN.
		anon, _ := a.Anonymise(context.Background(), text, nil)
		if strings.Contains(anon, "560001") {
			t.Errorf("Standalone PIN not redacted at default threshold: %q", anon)
		}

		// Raising the threshold for one call drops it.
		anon, _ = a.Anonymise(context.Background(), text, &Options{MinConfidence: 0.60})
		if !strings.Contains(anon, "560001") {
			t.Errorf("Low-confidence PIN redacted above threshold: %q", anon)
		}
	})

	t.Run("SupplementaryMerged", func(t *testing.T) {
		stub := &stubDetector{entities: []Entity{
			{Type: "NAME", Start: 0, End: 12, Score: 0.97, Source: SourceComprehend},
		}}
		a, _ := New(testPrivacyConfig(), stub, log)

		anon, mapping := a.Anonymise(context.Background(), "Ramesh Gupta visited today", nil)
		if stub.calls != 1 {
			t.Fatalf("Expected 1 collaborator call, got %d", stub.calls)
		}
		if strings.Contains(anon, "Ramesh Gupta") {
			t.Errorf("Collaborator finding not redacted: %q", anon)
		}
		if mapping.Len() != 1 {
			t.Errorf("Expected 1 mapping, got %d", mapping.Len())
		}
	})

	t.Run("KeepTypesPassThrough", func(t *testing.T) {
		stub := &stubDetector{entities: []Entity{
			{Type: "AGE", Start: 5, End: 7, Score: 0.99, Source: SourceComprehend},
		}}
		a, _ := New(testPrivacyConfig(), stub, log)

		text := "Age: 45 years"
		anon, mapping := a.Anonymise(context.Background(), text, nil)
		if anon != text {
			t.Errorf("Medically relevant AGE redacted: %q", anon)
		}
		if mapping.Len() != 0 {
			t.Errorf("AGE registered in mapping: %+v", mapping.Export())
		}
	})

	t.Run("CollaboratorFailureDegrades", func(t *testing.T) {
		stub := &stubDetector{err: errors.New("service unavailable")}
		a, _ := New(testPrivacyConfig(), stub, log)

		anon, mapping := a.Anonymise(context.Background(), "Phone: 9876543210", nil)
		if strings.Contains(anon, "9876543210") {
			t.Errorf("Regex result lost on collaborator failure: %q", anon)
		}
		if mapping.Len() != 1 {
			t.Errorf("Expected regex-only mapping, got %d", mapping.Len())
		}
	})

	t.Run("AuditRecorded", func(t *testing.T) {
		cfg := testPrivacyConfig()
		cfg.Audit.Enabled = true
		a, _ := New(cfg, nil, log)

		a.Anonymise(context.Background(), "Phone: 9876543210", nil)
		entries := a.AuditLog().Snapshot()
		if len(entries) != 1 {
			t.Fatalf("Expected 1 audit entry, got %d", len(entries))
		}
		entry := entries[0]
		if entry.EventID == "" {
			t.Error("Audit entry missing event ID")
		}
		if entry.EntitiesRedacted != 1 {
			t.Errorf("Unexpected redaction count: %d", entry.EntitiesRedacted)
		}
		if len(entry.EntityTypes) != 1 || entry.EntityTypes[0] != "PHONE" {
			t.Errorf("Unexpected entity types: %+v", entry.EntityTypes)
		}
	})

	t.Run("AuditDisabled", func(t *testing.T) {
		cfg := testPrivacyConfig()
		cfg.Audit.Enabled = false
		a, _ := New(cfg, nil, log)

		a.Anonymise(context.Background(), "Phone: 9876543210", nil)
		if entries := a.AuditLog().Snapshot(); len(entries) != 0 {
			t.Errorf("Audit recorded while disabled: %d entries", len(entries))
		}
	})
}

func TestSupplementaryChunking(t *testing.T) {
	log := logger.NewNop()

	t.Run("SplitsOversizedInput", func(t *testing.T) {
		cfg := testPrivacyConfig()
		cfg.Supplementary.MaxBytes = 100
		cfg.Supplementary.ChunkSize = 40
		cfg.Supplementary.ChunkOverlap = 10

		stub := &stubDetector{}
		a, _ := New(cfg, stub, log)

		text := strings.Repeat("lorem ipsum ", 20) // 240 bytes
		a.Anonymise(context.Background(), text, nil)
		if stub.calls < 2 {
			t.Errorf("Oversized input not chunked: %d calls", stub.calls)
		}
	})

	t.Run("SingleCallUnderLimit", func(t *testing.T) {
		cfg := testPrivacyConfig()
		stub := &stubDetector{}
		a, _ := New(cfg, stub, log)

		a.Anonymise(context.Background(), "short text", nil)
		if stub.calls != 1 {
			t.Errorf("Expected 1 call for small input, got %d", stub.calls)
		}
	})
}
