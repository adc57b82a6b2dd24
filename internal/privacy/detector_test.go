package privacy

import (
	"testing"
)

func findByType(entities []Entity, entityType string) []Entity {
	var out []Entity
	for _, e := range entities {
		if e.Type == entityType {
			out = append(out, e)
		}
	}
	return out
}

func TestDetectRegex(t *testing.T) {
	patterns := DefaultPatterns()

	t.Run("LabValueNotPhone", func(t *testing.T) {
		// A 10-digit lab value on a line with units must not be
		// treated as a phone number.
		text := "Hemoglobin: 9876543210 g/dL reference range"
		entities := detectRegex(text, patterns)
		if phones := findByType(entities, "PHONE"); len(phones) != 0 {
			t.Errorf("Lab value detected as phone: %+v", phones)
		}
	})

	t.Run("PhoneOnOwnLine", func(t *testing.T) {
		text := "Phone: +91-9876543210\nHemoglobin: 8.2 g/dL"
		entities := detectRegex(text, patterns)
		phones := findByType(entities, "PHONE")
		if len(phones) != 1 {
			t.Fatalf("Expected 1 phone, got %d: %+v", len(phones), entities)
		}
		if phones[0].Text != "+91-9876543210" {
			t.Errorf("Unexpected phone text: %q", phones[0].Text)
		}
	})

	t.Run("PAN", func(t *testing.T) {
		entities := detectRegex("PAN: ABCPE1234F", patterns)
		pans := findByType(entities, "PAN")
		if len(pans) != 1 {
			t.Fatalf("Expected 1 PAN, got %+v", entities)
		}
		if pans[0].Score != 0.95 {
			t.Errorf("Unexpected PAN confidence: %f", pans[0].Score)
		}
	})

	t.Run("CardNotAadhaar", func(t *testing.T) {
		// The first 12 digits of a card look like an Aadhaar but fail
		// the Verhoeff check; the Luhn-valid card pattern then claims
		// the full span.
		text := "Card: 4111 1111 1111 1111"
		entities := detectRegex(text, patterns)
		if aadhaar := findByType(entities, "AADHAAR"); len(aadhaar) != 0 {
			t.Errorf("Card prefix detected as Aadhaar: %+v", aadhaar)
		}
		cards := findByType(entities, "CREDIT_DEBIT_NUMBER")
		if len(cards) != 1 {
			t.Fatalf("Expected 1 card, got %+v", entities)
		}
		if cards[0].Text != "4111 1111 1111 1111" {
			t.Errorf("Card span truncated: %q", cards[0].Text)
		}
	})

	t.Run("ValidAadhaar", func(t *testing.T) {
		entities := detectRegex("Aadhaar: 9999 9999 9999", patterns)
		aadhaar := findByType(entities, "AADHAAR")
		if len(aadhaar) != 1 {
			t.Fatalf("Expected 1 Aadhaar, got %+v", entities)
		}
		if aadhaar[0].Source != SourceRegex {
			t.Errorf("Unexpected source: %s", aadhaar[0].Source)
		}
	})

	t.Run("HonorificName", func(t *testing.T) {
		entities := detectRegex("Referred by Dr. Rajesh Kumar today", patterns)
		names := findByType(entities, "NAME")
		if len(names) != 1 {
			t.Fatalf("Expected 1 name, got %+v", entities)
		}
		if names[0].Text != "Dr. Rajesh Kumar" {
			t.Errorf("Unexpected name text: %q", names[0].Text)
		}
	})

	t.Run("LabelledNameGroup", func(t *testing.T) {
		entities := detectRegex("Patient Name: Ramesh Gupta", patterns)
		names := findByType(entities, "NAME")
		if len(names) != 1 {
			t.Fatalf("Expected 1 name, got %+v", entities)
		}
		// Only the captured group is the entity, not the label.
		if names[0].Text != "Ramesh Gupta" {
			t.Errorf("Label leaked into entity: %q", names[0].Text)
		}
	})

	t.Run("Email", func(t *testing.T) {
		entities := detectRegex("Mail results to ramesh.gupta@example.com please", patterns)
		emails := findByType(entities, "EMAIL")
		if len(emails) != 1 {
			t.Fatalf("Expected 1 email, got %+v", entities)
		}
		if emails[0].Text != "ramesh.gupta@example.com" {
			t.Errorf("Unexpected email text: %q", emails[0].Text)
		}
	})

	t.Run("LabelledHospitalID", func(t *testing.T) {
		entities := detectRegex("UHID: MH2024-001234\nSample collected", patterns)
		ids := findByType(entities, "HOSPITAL_ID")
		if len(ids) != 1 {
			t.Fatalf("Expected 1 hospital ID, got %+v", entities)
		}
		if ids[0].Text != "MH2024-001234" {
			t.Errorf("Unexpected hospital ID text: %q", ids[0].Text)
		}
	})

	t.Run("EmptyInput", func(t *testing.T) {
		if entities := detectRegex("", patterns); len(entities) != 0 {
			t.Errorf("Empty input produced entities: %+v", entities)
		}
	})
}

func TestSpansIntersect(t *testing.T) {
	cases := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd int
		want                       bool
	}{
		{"Disjoint", 0, 5, 5, 10, false},
		{"Overlap", 0, 6, 5, 10, true},
		{"Contained", 2, 4, 0, 10, true},
		{"Identical", 3, 7, 3, 7, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := spansIntersect(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd); got != tc.want {
				t.Errorf("spansIntersect(%d,%d,%d,%d) = %v, want %v",
					tc.aStart, tc.aEnd, tc.bStart, tc.bEnd, got, tc.want)
			}
		})
	}
}
