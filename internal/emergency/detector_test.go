package emergency

import (
	"strings"
	"testing"

	"github.com/nidaan-ai/nidaan/internal/logger"
)

func TestDetectCriticalValues(t *testing.T) {
	d := New(logger.NewNop())

	t.Run("NoEmergency", func(t *testing.T) {
		result := d.DetectCriticalValues("Sodium: 140 mEq/L\nGlucose: 95 mg/dL", nil, nil)
		if result.HasEmergency {
			t.Errorf("Normal values flagged as emergency: %+v", result.Alerts)
		}
		if result.Alerts == nil || len(result.Alerts) != 0 {
			t.Errorf("Expected empty alert slice, got %+v", result.Alerts)
		}
		if result.Disclaimer != "" {
			t.Error("Disclaimer attached to a clean result")
		}
	})

	t.Run("CriticalLowGlucoseInText", func(t *testing.T) {
		result := d.DetectCriticalValues("Glucose: 45 mg/dL", nil, nil)
		if !result.HasEmergency {
			t.Fatal("Critical glucose not flagged")
		}
		if result.AlertCount != 1 {
			t.Fatalf("Expected 1 alert, got %d", result.AlertCount)
		}
		alert := result.Alerts[0]
		if alert.TestName != "Glucose" {
			t.Errorf("Unexpected test name: %q", alert.TestName)
		}
		if alert.Direction != DirectionLow {
			t.Errorf("Unexpected direction: %q", alert.Direction)
		}
		if alert.Value != 45 {
			t.Errorf("Unexpected value: %f", alert.Value)
		}
		if result.Resources["ambulance"] != "108" {
			t.Errorf("Emergency resources missing: %+v", result.Resources)
		}
		if result.Disclaimer == "" {
			t.Error("Disclaimer missing from emergency result")
		}
	})

	t.Run("ThresholdsInclusive", func(t *testing.T) {
		if r := d.DetectCriticalValues("Glucose: 50 mg/dL", nil, nil); !r.HasEmergency {
			t.Error("Value at low threshold not flagged")
		}
		if r := d.DetectCriticalValues("Glucose: 51 mg/dL", nil, nil); r.HasEmergency {
			t.Error("Value just above low threshold flagged")
		}
		if r := d.DetectCriticalValues("Glucose: 500 mg/dL", nil, nil); !r.HasEmergency {
			t.Error("Value at high threshold not flagged")
		}
		if r := d.DetectCriticalValues("Glucose: 499 mg/dL", nil, nil); r.HasEmergency {
			t.Error("Value just below high threshold flagged")
		}
	})

	t.Run("StructuredFindings", func(t *testing.T) {
		findings := []Finding{
			{TestName: "Potassium", Value: "6.8 mEq/L", Status: "high"},
		}
		result := d.DetectCriticalValues("", findings, nil)
		if !result.HasEmergency {
			t.Fatal("Critical potassium finding not flagged")
		}
		if result.Alerts[0].Direction != DirectionHigh {
			t.Errorf("Unexpected direction: %q", result.Alerts[0].Direction)
		}
	})

	t.Run("NormalStatusSkipped", func(t *testing.T) {
		// A finding upstream already marked normal is not re-evaluated,
		// even if its raw value would trip a threshold.
		findings := []Finding{
			{TestName: "Glucose", Value: "45", Status: "normal"},
		}
		result := d.DetectCriticalValues("", findings, nil)
		if result.HasEmergency {
			t.Errorf("Normal-status finding flagged: %+v", result.Alerts)
		}
	})

	t.Run("AbnormalValues", func(t *testing.T) {
		abnormal := []AbnormalValue{
			{TestName: "Hemoglobin", Value: "4.2", Severity: "severe"},
		}
		result := d.DetectCriticalValues("", nil, abnormal)
		if !result.HasEmergency {
			t.Fatal("Critical hemoglobin not flagged")
		}
		if result.Alerts[0].TestName != "Hemoglobin" {
			t.Errorf("Unexpected test name: %q", result.Alerts[0].TestName)
		}
	})

	t.Run("DedupeAcrossPaths", func(t *testing.T) {
		// Same test reported both structured and in raw text yields one
		// alert; the structured path wins.
		findings := []Finding{
			{TestName: "Glucose", Value: "45 mg/dL", Status: "low"},
		}
		result := d.DetectCriticalValues("Glucose: 45 mg/dL", findings, nil)
		if result.AlertCount != 1 {
			t.Errorf("Duplicate alerts for one test: %+v", result.Alerts)
		}
	})

	t.Run("AliasResolution", func(t *testing.T) {
		result := d.DetectCriticalValues("Hb: 4.5 g/dL", nil, nil)
		if !result.HasEmergency {
			t.Fatal("Hb alias not resolved to hemoglobin thresholds")
		}
		if result.Alerts[0].Unit != "g/dL" {
			t.Errorf("Unexpected unit: %q", result.Alerts[0].Unit)
		}
	})

	t.Run("LongestNameWinsInText", func(t *testing.T) {
		result := d.DetectCriticalValues("Fasting Glucose: 45 mg/dL", nil, nil)
		if !result.HasEmergency {
			t.Fatal("Fasting glucose not flagged")
		}
		if result.Alerts[0].TestName != "Fasting Glucose" {
			t.Errorf("Shorter alias claimed the match: %q", result.Alerts[0].TestName)
		}
	})

	t.Run("HighOnlyRule", func(t *testing.T) {
		// Creatinine has no low threshold; a low value is never an
		// emergency.
		if r := d.DetectCriticalValues("Creatinine: 0.2 mg/dL", nil, nil); r.HasEmergency {
			t.Errorf("Low creatinine flagged: %+v", r.Alerts)
		}
		if r := d.DetectCriticalValues("Creatinine: 11.0 mg/dL", nil, nil); !r.HasEmergency {
			t.Error("Critical creatinine not flagged")
		}
	})

	t.Run("UnparseableValue", func(t *testing.T) {
		findings := []Finding{
			{TestName: "Glucose", Value: "pending", Status: "low"},
		}
		result := d.DetectCriticalValues("", findings, nil)
		if result.HasEmergency {
			t.Errorf("Unparseable value produced alert: %+v", result.Alerts)
		}
	})

	t.Run("UnknownTest", func(t *testing.T) {
		findings := []Finding{
			{TestName: "Serum Rhubarb", Value: "999", Status: "high"},
		}
		result := d.DetectCriticalValues("", findings, nil)
		if result.HasEmergency {
			t.Errorf("Unknown test produced alert: %+v", result.Alerts)
		}
	})

	t.Run("MultipleAlerts", func(t *testing.T) {
		text := "Glucose: 45 mg/dL\nPotassium: 7.0 mEq/L\nSodium: 115 mEq/L"
		result := d.DetectCriticalValues(text, nil, nil)
		if result.AlertCount != 3 {
			t.Fatalf("Expected 3 alerts, got %d: %+v", result.AlertCount, result.Alerts)
		}
		for _, alert := range result.Alerts {
			if alert.Severity != "critical" {
				t.Errorf("Unexpected severity: %q", alert.Severity)
			}
			if alert.Message == "" || alert.Action == "" {
				t.Errorf("Alert missing guidance: %+v", alert)
			}
		}
	})

	t.Run("ThresholdFormatting", func(t *testing.T) {
		result := d.DetectCriticalValues("Glucose: 45 mg/dL", nil, nil)
		if !strings.Contains(result.Alerts[0].Threshold, "< 50") {
			t.Errorf("Unexpected threshold text: %q", result.Alerts[0].Threshold)
		}
	})
}

func TestExtractNumeric(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"45 mg/dL", 45, true},
		{"6.8", 6.8, true},
		{"approx 120", 120, true},
		{"pending", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, ok := extractNumeric(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("extractNumeric(%q) = (%f, %v), want (%f, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestTitleCase(t *testing.T) {
	if got := titleCase("fasting glucose"); got != "Fasting Glucose" {
		t.Errorf("titleCase = %q", got)
	}
	if got := titleCase("hb"); got != "Hb" {
		t.Errorf("titleCase = %q", got)
	}
}
