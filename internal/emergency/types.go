package emergency

// Rule is the static panic-value configuration for one test name.
// A nil threshold means that direction is never critical for the test.
type Rule struct {
	LowCritical  *float64
	HighCritical *float64
	Unit         string
	LowMessage   string
	HighMessage  string
	Action       string
}

// Alert directions.
const (
	DirectionLow  = "critically_low"
	DirectionHigh = "critically_high"
)

// Alert is one flagged critical result.
type Alert struct {
	TestName  string  `json:"test_name"`
	Value     float64 `json:"value"`
	Unit      string  `json:"unit"`
	Threshold string  `json:"threshold"`
	Direction string  `json:"direction"`
	Severity  string  `json:"severity"`
	Message   string  `json:"message"`
	Action    string  `json:"action"`
}

// Finding is a structured key finding from upstream analysis.
type Finding struct {
	TestName string `json:"test_name"`
	Value    string `json:"value"`
	Status   string `json:"status"`
}

// AbnormalValue is a structured out-of-range result from upstream
// analysis. Severity is informational; the panic table decides.
type AbnormalValue struct {
	TestName string `json:"test_name"`
	Value    string `json:"value"`
	Severity string `json:"severity"`
}

// Result is the outcome of one critical-value scan.
type Result struct {
	HasEmergency bool              `json:"has_emergency"`
	AlertCount   int               `json:"alert_count,omitempty"`
	Alerts       []Alert           `json:"alerts"`
	Resources    map[string]string `json:"emergency_resources"`
	Disclaimer   string            `json:"disclaimer,omitempty"`
}
