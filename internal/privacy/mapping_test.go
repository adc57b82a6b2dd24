package privacy

import (
	"strings"
	"testing"
)

func TestMapping(t *testing.T) {
	t.Run("SequentialPlaceholders", func(t *testing.T) {
		m := NewMapping()
		p1 := m.Add("NAME", "Ramesh Gupta")
		p2 := m.Add("NAME", "Sunita Gupta")
		if p1 != "[NAME_1]" || p2 != "[NAME_2]" {
			t.Errorf("Unexpected placeholders: %q, %q", p1, p2)
		}
	})

	t.Run("IdempotentAdd", func(t *testing.T) {
		m := NewMapping()
		p1 := m.Add("PHONE", "9876543210")
		p2 := m.Add("PHONE", "9876543210")
		if p1 != p2 {
			t.Errorf("Same original got two placeholders: %q, %q", p1, p2)
		}
		if m.Len() != 1 {
			t.Errorf("Expected 1 entry, got %d", m.Len())
		}
	})

	t.Run("RoundTrip", func(t *testing.T) {
		m := NewMapping()
		text := "Patient Ramesh Gupta, phone 9876543210"
		anon := text
		anon = strings.Replace(anon, "Ramesh Gupta", m.Add("NAME", "Ramesh Gupta"), 1)
		anon = strings.Replace(anon, "9876543210", m.Add("PHONE", "9876543210"), 1)

		restored := m.Deanonymise(anon)
		if restored != text {
			t.Errorf("Round trip failed: %q", restored)
		}
	})

	t.Run("LongestPlaceholderFirst", func(t *testing.T) {
		// [NAME_1] is a substring of [NAME_10]; replacing short-first
		// would corrupt the longer placeholder.
		m := NewMapping()
		for i := 0; i < 10; i++ {
			m.Add("NAME", "Person"+strings.Repeat("x", i+1))
		}
		text := "[NAME_10] and [NAME_1]"
		restored := m.Deanonymise(text)
		if strings.Contains(restored, "[NAME") {
			t.Errorf("Placeholder left behind: %q", restored)
		}
		if !strings.Contains(restored, "Personxxxxxxxxxx") {
			t.Errorf("[NAME_10] replaced incorrectly: %q", restored)
		}
	})

	t.Run("CountsAndTypes", func(t *testing.T) {
		m := NewMapping()
		m.Add("NAME", "A")
		m.Add("NAME", "B")
		m.Add("PHONE", "C")
		counts := m.Counts()
		if counts["NAME"] != 2 || counts["PHONE"] != 1 {
			t.Errorf("Unexpected counts: %+v", counts)
		}
		types := m.EntityTypes()
		if len(types) != 2 || types[0] != "NAME" || types[1] != "PHONE" {
			t.Errorf("Unexpected types: %+v", types)
		}
	})
}

func TestMappingExportImport(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		m := NewMapping()
		m.Add("NAME", "Ramesh Gupta")
		m.Add("PHONE", "9876543210")

		data := m.Export()
		restored, err := MappingFromData(data)
		if err != nil {
			t.Fatalf("Import failed: %v", err)
		}
		if restored.Len() != 2 {
			t.Errorf("Expected 2 entries after import, got %d", restored.Len())
		}
		if restored.Deanonymise("[NAME_1]") != "Ramesh Gupta" {
			t.Error("Imported mapping does not deanonymise")
		}
	})

	t.Run("MissingPlaceholders", func(t *testing.T) {
		_, err := MappingFromData(MappingData{EntityCounts: map[string]int{}})
		if err == nil {
			t.Fatal("Missing placeholder_to_original accepted")
		}
		if !strings.Contains(err.Error(), "placeholder_to_original") {
			t.Errorf("Unexpected error: %v", err)
		}
	})

	t.Run("MissingCounts", func(t *testing.T) {
		_, err := MappingFromData(MappingData{PlaceholderToOriginal: map[string]string{}})
		if err == nil {
			t.Fatal("Missing entity_counts accepted")
		}
		if !strings.Contains(err.Error(), "entity_counts") {
			t.Errorf("Unexpected error: %v", err)
		}
	})
}
