package privacy

import "strings"

// Keywords that signal a numeric match on the same line is a lab
// value or report metadata, not PII.
var medicalContextKeywords = []string{
	// Units
	"g/dl", "mg/dl", "mg/l", "mmol/l", "meq/l", "miu/l", "miu/ml",
	"ng/ml", "ng/dl", "pg/ml", "iu/l", "iu/ml", "u/l", "mcl", "/mcl",
	"cells/mcl", "million/mcl", "fl", "pg", "g%", "%", "mm/hr",
	"μmol/l", "µmol/l", "umol/l", "pmol/l", "nmol/l",
	// Common lab test names
	"hemoglobin", "haemoglobin", "hb", "wbc", "rbc", "platelet",
	"glucose", "creatinine", "bun", "urea", "sodium", "potassium",
	"calcium", "chloride", "bilirubin", "albumin", "protein",
	"cholesterol", "triglyceride", "hdl", "ldl", "vldl",
	"tsh", "t3", "t4", "hba1c", "troponin", "bnp", "crp",
	"esr", "sgot", "sgpt", "alt", "ast", "alp", "ggt",
	"iron", "ferritin", "tibc", "transferrin", "vitamin",
	"phosphorus", "magnesium", "uric", "amylase", "lipase",
	"inr", "pt", "aptt", "fibrinogen", "d-dimer",
	"ref", "reference", "normal", "range",
	// Report metadata
	"count", "index", "ratio", "level", "value", "result",
}

// isMedicalContext reports whether the span [start:end) sits on a line
// that looks like a lab measurement rather than PII.
//
// Only the line containing the match is inspected. A phone number one
// line away from lab results must not be suppressed, so neighbouring
// lines are never consulted. False negatives (missed PII) are
// preferred over redacting legitimate lab values.
func isMedicalContext(text string, start, end int) bool {
	lineStart := strings.LastIndexByte(text[:start], '\n') + 1
	lineEnd := strings.IndexByte(text[end:], '\n')
	if lineEnd == -1 {
		lineEnd = len(text)
	} else {
		lineEnd += end
	}
	line := strings.ToLower(text[lineStart:lineEnd])

	for _, kw := range medicalContextKeywords {
		if strings.Contains(line, kw) {
			return true
		}
	}
	return false
}
