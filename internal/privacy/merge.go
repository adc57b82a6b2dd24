package privacy

import "sort"

// MergeEntities reconciles overlapping spans from two detectors.
//
// The union of both lists is ordered by descending confidence; on a
// tie, primary (the regional regex detector) beats secondary (a
// general-purpose NER service with known blind spots for Indian IDs).
// Entities are then accepted greedily, skipping any whose span
// intersects an already-accepted span, so the output never contains
// overlapping entities.
func MergeEntities(primary, secondary []Entity) []Entity {
	all := make([]Entity, 0, len(primary)+len(secondary))
	all = append(all, primary...)
	all = append(all, secondary...)

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Score != all[j].Score {
			return all[i].Score > all[j].Score
		}
		return sourcePriority(all[i].Source) < sourcePriority(all[j].Source)
	})

	var accepted []Entity
	var occupied []span

	for _, ent := range all {
		overlaps := false
		for _, s := range occupied {
			if spansIntersect(ent.Start, ent.End, s.start, s.end) {
				overlaps = true
				break
			}
		}
		if !overlaps {
			accepted = append(accepted, ent)
			occupied = append(occupied, span{ent.Start, ent.End})
		}
	}

	return accepted
}

func sourcePriority(source string) int {
	if source == SourceRegex {
		return 0
	}
	return 1
}
