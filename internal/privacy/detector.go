package privacy

import (
	"strings"
)

// validateEntity runs structural validation on a matched candidate.
func validateEntity(pdef *PatternDef, raw string) bool {
	switch pdef.Validator {
	case "":
		return true

	case "verhoeff":
		digits := digitsOnly(raw)
		if len(digits) != 12 {
			return false
		}
		// Aadhaar first digit must be 2-9
		if digits[0] == '0' || digits[0] == '1' {
			return false
		}
		return verhoeffChecksum(digits)

	case "luhn":
		digits := digitsOnly(raw)
		if len(digits) < 13 || len(digits) > 19 {
			return false
		}
		return luhnChecksum(digits)

	case "pan":
		// PAN is always exactly 10 chars: AAAPL1234C
		clean := strings.TrimSpace(raw)
		if len(clean) != 10 {
			return false
		}
		// 4th position: valid holder type
		return strings.ContainsRune("ABCFGHLJPT", rune(clean[3]))
	}

	return true
}

func digitsOnly(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func isASCIIDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// spansIntersect reports whether [aStart,aEnd) and [bStart,bEnd)
// share at least one position.
func spansIntersect(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}

type span struct {
	start, end int
}

// detectRegex scans text with the ordered pattern table and returns
// the accepted entities.
//
// Within this pass the first pattern to claim a span wins; rejected
// candidates (failed validator or medical-context suppression) do not
// occupy their span, so a later, better-fitting pattern can still
// claim it. Malformed input never fails detection; a pattern that
// cannot match contributes nothing.
func detectRegex(text string, patterns []PatternDef) []Entity {
	var entities []Entity
	var seen []span

	for pi := range patterns {
		pdef := &patterns[pi]
		for _, m := range pdef.Pattern.FindAllStringSubmatchIndex(text, -1) {
			start, end := m[0], m[1]
			if pdef.Group > 0 && 2*pdef.Group+1 < len(m) && m[2*pdef.Group] >= 0 {
				start, end = m[2*pdef.Group], m[2*pdef.Group+1]
			}
			if start < 0 || end <= start {
				continue
			}

			// Stand-in for the lookaround guards the source patterns
			// cannot express in RE2.
			if pdef.DigitBoundary {
				if start > 0 && isASCIIDigit(text[start-1]) {
					continue
				}
				if end < len(text) && isASCIIDigit(text[end]) {
					continue
				}
			}

			occupied := false
			for _, s := range seen {
				if spansIntersect(start, end, s.start, s.end) {
					occupied = true
					break
				}
			}
			if occupied {
				continue
			}

			if !validateEntity(pdef, text[start:end]) {
				continue
			}

			if pdef.MedicalCheck && isMedicalContext(text, start, end) {
				continue
			}

			seen = append(seen, span{start, end})
			entities = append(entities, Entity{
				Type:   pdef.EntityType,
				Text:   strings.TrimSpace(text[start:end]),
				Start:  start,
				End:    end,
				Score:  pdef.Confidence,
				Source: SourceRegex,
			})
		}
	}

	return entities
}
