// Package emergency flags clinically critical (panic) lab values that
// warrant urgent attention. It is not a diagnostic tool: it only
// surfaces values that universally call for immediate clinical review.
package emergency

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/nidaan-ai/nidaan/internal/logger"
	"go.uber.org/zap"
)

var numericPattern = regexp.MustCompile(`(\d+\.?\d*)`)

// Detector scans text and structured findings against the panic table.
type Detector struct {
	rules       map[string]Rule
	names       []string
	textPattern *regexp.Regexp
	logger      *logger.Logger
}

// New creates a detector over the built-in panic-value table.
func New(log *logger.Logger) *Detector {
	names := make([]string, 0, len(panicValues))
	for name := range panicValues {
		names = append(names, name)
	}
	// Longest-first so "fasting glucose" is claimed before "glucose"
	// in the alternation; lexical second for determinism.
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})

	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = regexp.QuoteMeta(name)
	}
	pattern := regexp.MustCompile(
		`(?i)\b(` + strings.Join(quoted, "|") + `)\b[\s:.\-]*(\d+\.?\d*)`)

	return &Detector{
		rules:       panicValues,
		names:       names,
		textPattern: pattern,
		logger:      log,
	}
}

// DetectCriticalValues scans for panic lab values. Three independent
// paths feed one deduplicated, severity-sorted result: structured key
// findings, structured abnormal values, and a regex scan over the raw
// text that catches what upstream analysis missed entirely.
func (d *Detector) DetectCriticalValues(text string, findings []Finding, abnormal []AbnormalValue) Result {
	var alerts []Alert

	for _, finding := range findings {
		if alert := d.checkFinding(finding); alert != nil && !isDuplicate(*alert, alerts) {
			alerts = append(alerts, *alert)
		}
	}

	for _, av := range abnormal {
		if alert := d.checkAbnormalValue(av); alert != nil && !isDuplicate(*alert, alerts) {
			alerts = append(alerts, *alert)
		}
	}

	for _, alert := range d.scanText(text) {
		if !isDuplicate(alert, alerts) {
			alerts = append(alerts, alert)
		}
	}

	if len(alerts) == 0 {
		return Result{
			HasEmergency: false,
			Alerts:       []Alert{},
			Resources:    map[string]string{},
		}
	}

	// Critical before any lesser severity, stable within a level.
	sort.SliceStable(alerts, func(i, j int) bool {
		return severityRank(alerts[i].Severity) < severityRank(alerts[j].Severity)
	})

	d.logger.Warn("Critical lab values detected", zap.Int("alerts", len(alerts)))

	resources := make(map[string]string, len(emergencyResources))
	for k, v := range emergencyResources {
		resources[k] = v
	}

	return Result{
		HasEmergency: true,
		AlertCount:   len(alerts),
		Alerts:       alerts,
		Resources:    resources,
		Disclaimer:   disclaimer,
	}
}

func severityRank(severity string) int {
	switch severity {
	case "critical":
		return 0
	default:
		return 1
	}
}

// checkFinding checks one structured key finding. Findings already
// marked normal are skipped.
func (d *Detector) checkFinding(finding Finding) *Alert {
	if finding.Status == "normal" {
		return nil
	}
	value, ok := extractNumeric(finding.Value)
	if !ok {
		return nil
	}
	return d.checkAgainstPanic(strings.ToLower(strings.TrimSpace(finding.TestName)), value)
}

// checkAbnormalValue checks one structured abnormal value, regardless
// of the severity upstream assigned to it.
func (d *Detector) checkAbnormalValue(av AbnormalValue) *Alert {
	value, ok := extractNumeric(av.Value)
	if !ok {
		return nil
	}
	return d.checkAgainstPanic(strings.ToLower(strings.TrimSpace(av.TestName)), value)
}

// checkAgainstPanic resolves the rule for testName (exact, then
// substring alias in either direction) and applies the thresholds.
// Boundaries are inclusive: a value exactly at a threshold triggers.
func (d *Detector) checkAgainstPanic(testName string, value float64) *Alert {
	rule, ok := d.rules[testName]
	if !ok {
		for _, name := range d.names {
			if strings.Contains(testName, name) || strings.Contains(name, testName) {
				rule = d.rules[name]
				testName = name
				ok = true
				break
			}
		}
	}
	if !ok {
		return nil
	}

	if rule.LowCritical != nil && value <= *rule.LowCritical {
		return &Alert{
			TestName:  titleCase(testName),
			Value:     value,
			Unit:      rule.Unit,
			Threshold: fmt.Sprintf("< %g %s", *rule.LowCritical, rule.Unit),
			Direction: DirectionLow,
			Severity:  "critical",
			Message:   rule.LowMessage,
			Action:    rule.Action,
		}
	}
	if rule.HighCritical != nil && value >= *rule.HighCritical {
		return &Alert{
			TestName:  titleCase(testName),
			Value:     value,
			Unit:      rule.Unit,
			Threshold: fmt.Sprintf("> %g %s", *rule.HighCritical, rule.Unit),
			Direction: DirectionHigh,
			Severity:  "critical",
			Message:   rule.HighMessage,
			Action:    rule.Action,
		}
	}
	return nil
}

// scanText runs the alternation of all known test names over raw text.
func (d *Detector) scanText(text string) []Alert {
	var alerts []Alert
	for _, m := range d.textPattern.FindAllStringSubmatch(text, -1) {
		testName := strings.ToLower(strings.TrimSpace(m[1]))
		value, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			continue
		}
		if alert := d.checkAgainstPanic(testName, value); alert != nil {
			alerts = append(alerts, *alert)
		}
	}
	return alerts
}

// extractNumeric pulls the first numeric token out of a value field.
// A field with no parseable number yields no alert, not an error.
func extractNumeric(value string) (float64, bool) {
	m := numericPattern.FindStringSubmatch(value)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// isDuplicate reports whether an alert for the same test name is
// already present; the first path to report wins.
func isDuplicate(alert Alert, existing []Alert) bool {
	for _, e := range existing {
		if strings.EqualFold(e.TestName, alert.TestName) {
			return true
		}
	}
	return false
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
