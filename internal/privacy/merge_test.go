package privacy

import (
	"testing"
)

func TestMergeEntities(t *testing.T) {
	t.Run("NoOverlapKeepsAll", func(t *testing.T) {
		primary := []Entity{
			{Type: "PHONE", Start: 0, End: 10, Score: 0.90, Source: SourceRegex},
		}
		secondary := []Entity{
			{Type: "NAME", Start: 20, End: 30, Score: 0.85, Source: SourceComprehend},
		}
		merged := MergeEntities(primary, secondary)
		if len(merged) != 2 {
			t.Fatalf("Expected 2 entities, got %d", len(merged))
		}
	})

	t.Run("HigherConfidenceWins", func(t *testing.T) {
		primary := []Entity{
			{Type: "PIN_CODE", Start: 0, End: 6, Score: 0.55, Source: SourceRegex},
		}
		secondary := []Entity{
			{Type: "HOSPITAL_ID", Start: 0, End: 6, Score: 0.95, Source: SourceComprehend},
		}
		merged := MergeEntities(primary, secondary)
		if len(merged) != 1 {
			t.Fatalf("Expected 1 entity, got %d", len(merged))
		}
		if merged[0].Type != "HOSPITAL_ID" {
			t.Errorf("Lower-confidence entity won: %+v", merged[0])
		}
	})

	t.Run("TiePrefersRegex", func(t *testing.T) {
		primary := []Entity{
			{Type: "AADHAAR", Start: 0, End: 12, Score: 0.92, Source: SourceRegex},
		}
		secondary := []Entity{
			{Type: "NATIONAL_ID", Start: 0, End: 12, Score: 0.92, Source: SourceComprehend},
		}
		merged := MergeEntities(primary, secondary)
		if len(merged) != 1 {
			t.Fatalf("Expected 1 entity, got %d", len(merged))
		}
		if merged[0].Source != SourceRegex {
			t.Errorf("Tie not resolved in favor of regex: %+v", merged[0])
		}
	})

	t.Run("PartialOverlapExcluded", func(t *testing.T) {
		primary := []Entity{
			{Type: "PHONE", Start: 0, End: 14, Score: 0.90, Source: SourceRegex},
		}
		secondary := []Entity{
			{Type: "NAME", Start: 10, End: 20, Score: 0.80, Source: SourceComprehend},
		}
		merged := MergeEntities(primary, secondary)
		if len(merged) != 1 {
			t.Fatalf("Partially overlapping entity kept: %+v", merged)
		}
		if merged[0].Type != "PHONE" {
			t.Errorf("Wrong winner: %+v", merged[0])
		}
	})

	t.Run("ResultHasNoOverlaps", func(t *testing.T) {
		primary := []Entity{
			{Type: "A", Start: 0, End: 10, Score: 0.9},
			{Type: "B", Start: 5, End: 15, Score: 0.8},
			{Type: "C", Start: 12, End: 20, Score: 0.7},
		}
		merged := MergeEntities(primary, nil)
		for i := range merged {
			for j := i + 1; j < len(merged); j++ {
				if spansIntersect(merged[i].Start, merged[i].End, merged[j].Start, merged[j].End) {
					t.Errorf("Overlapping entities in result: %+v and %+v", merged[i], merged[j])
				}
			}
		}
	})

	t.Run("EmptyInputs", func(t *testing.T) {
		if merged := MergeEntities(nil, nil); len(merged) != 0 {
			t.Errorf("Empty inputs produced entities: %+v", merged)
		}
	})
}
