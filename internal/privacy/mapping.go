package privacy

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Mapping is the reversible ledger for one anonymization pass. The
// forward and inverse maps are kept in lockstep: every placeholder
// has exactly one original and vice versa.
type Mapping struct {
	mu                    sync.Mutex
	placeholderToOriginal map[string]string
	originalToPlaceholder map[string]string
	entityCounts          map[string]int
}

// MappingData is the serializable form of a Mapping, persisted in the
// session store between the anonymize and deanonymize calls.
type MappingData struct {
	PlaceholderToOriginal map[string]string `json:"placeholder_to_original"`
	EntityCounts          map[string]int    `json:"entity_counts"`
}

// NewMapping creates an empty mapping.
func NewMapping() *Mapping {
	return &Mapping{
		placeholderToOriginal: make(map[string]string),
		originalToPlaceholder: make(map[string]string),
		entityCounts:          make(map[string]int),
	}
}

// Add registers a PII value and returns its placeholder. Registering
// the same original twice within a pass returns the existing
// placeholder. Safe for concurrent use.
func (m *Mapping) Add(entityType, original string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p, ok := m.originalToPlaceholder[original]; ok {
		return p
	}

	count := m.entityCounts[entityType] + 1
	m.entityCounts[entityType] = count
	placeholder := fmt.Sprintf("[%s_%d]", entityType, count)

	m.placeholderToOriginal[placeholder] = original
	m.originalToPlaceholder[original] = placeholder
	return placeholder
}

// addDirect registers a pre-built placeholder (hash strategy tokens
// are not sequentially numbered).
func (m *Mapping) addDirect(placeholder, original string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.placeholderToOriginal[placeholder] = original
	m.originalToPlaceholder[original] = placeholder
}

// Deanonymise replaces every placeholder in text with its original
// value. Placeholders are processed longest-first so that none is
// replaced as a literal substring of a longer one.
func (m *Mapping) Deanonymise(text string) string {
	m.mu.Lock()
	placeholders := make([]string, 0, len(m.placeholderToOriginal))
	for p := range m.placeholderToOriginal {
		placeholders = append(placeholders, p)
	}
	originals := make(map[string]string, len(m.placeholderToOriginal))
	for p, o := range m.placeholderToOriginal {
		originals[p] = o
	}
	m.mu.Unlock()

	sort.Slice(placeholders, func(i, j int) bool {
		if len(placeholders[i]) != len(placeholders[j]) {
			return len(placeholders[i]) > len(placeholders[j])
		}
		return placeholders[i] < placeholders[j]
	})

	result := text
	for _, p := range placeholders {
		result = strings.ReplaceAll(result, p, originals[p])
	}
	return result
}

// Len returns the number of registered placeholders.
func (m *Mapping) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.placeholderToOriginal)
}

// Counts returns a copy of the per-type counters.
func (m *Mapping) Counts() map[string]int {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[string]int, len(m.entityCounts))
	for k, v := range m.entityCounts {
		counts[k] = v
	}
	return counts
}

// EntityTypes returns the sorted set of entity types registered so far.
func (m *Mapping) EntityTypes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, 0, len(m.entityCounts))
	for t := range m.entityCounts {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Export returns the serializable form of the mapping.
func (m *Mapping) Export() MappingData {
	m.mu.Lock()
	defer m.mu.Unlock()

	data := MappingData{
		PlaceholderToOriginal: make(map[string]string, len(m.placeholderToOriginal)),
		EntityCounts:          make(map[string]int, len(m.entityCounts)),
	}
	for p, o := range m.placeholderToOriginal {
		data.PlaceholderToOriginal[p] = o
	}
	for t, c := range m.entityCounts {
		data.EntityCounts[t] = c
	}
	return data
}

// MappingFromData reconstructs a mapping from its persisted form. A
// corrupted mapping would silently scramble de-anonymization, so
// missing keys fail fast instead of defaulting.
func MappingFromData(data MappingData) (*Mapping, error) {
	if data.PlaceholderToOriginal == nil {
		return nil, fmt.Errorf("malformed mapping: missing placeholder_to_original")
	}
	if data.EntityCounts == nil {
		return nil, fmt.Errorf("malformed mapping: missing entity_counts")
	}

	m := NewMapping()
	for p, o := range data.PlaceholderToOriginal {
		m.placeholderToOriginal[p] = o
		m.originalToPlaceholder[o] = p
	}
	for t, c := range data.EntityCounts {
		m.entityCounts[t] = c
	}
	return m, nil
}
