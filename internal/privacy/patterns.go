package privacy

import "regexp"

// DefaultPatterns returns the ordered India-centric PII pattern table.
//
// Order matters: the detector is first-match-wins on span overlap, so
// the table runs most-specific-first: validated government IDs, then
// financial and contact identifiers, then labelled fields, then the
// generic digital identifiers. Adding a pattern means slotting it by
// specificity, not appending.
func DefaultPatterns() []PatternDef {
	return []PatternDef{
		// ── Indian government IDs ──

		{
			EntityType:    "AADHAAR",
			Pattern:       regexp.MustCompile(`[2-9]\d{3}[\s\-]?\d{4}[\s\-]?\d{4}`),
			Confidence:    0.92,
			Validator:     "verhoeff",
			MedicalCheck:  true,
			DigitBoundary: true,
			Description:   "Aadhaar UID (12-digit, Verhoeff-validated)",
		},
		{
			EntityType:  "PAN",
			Pattern:     regexp.MustCompile(`\b[A-Z]{3}[ABCFGHLJPT][A-Z]\d{4}[A-Z]\b`),
			Confidence:  0.95,
			Validator:   "pan",
			Description: "PAN card (validated 4th-char holder type)",
		},
		{
			EntityType:  "VOTER_ID",
			Pattern:     regexp.MustCompile(`\b[A-Z]{3}\d{7}\b`),
			Confidence:  0.88,
			Description: "Voter ID / EPIC number",
		},
		{
			EntityType:   "PASSPORT",
			Pattern:      regexp.MustCompile(`\b[A-HJ-NP-WY][0-9]{7}\b`),
			Confidence:   0.80,
			MedicalCheck: true,
			Description:  "Indian passport number",
		},
		{
			EntityType: "DRIVING_LICENCE",
			Pattern: regexp.MustCompile(
				`\b(?:AN|AP|AR|AS|BR|CG|CH|DD|DL|GA|GJ|HP|HR|JH|JK|KA|KL|` +
					`LA|LD|MH|ML|MN|MP|MZ|NL|OD|OR|PB|PY|RJ|SK|TN|TS|TR|UK|` +
					`UP|WB)[\-\s]?\d{2}[\-\s]?\d{4}[\-\s]?\d{7}\b`),
			Confidence:  0.90,
			Description: "Indian Driving Licence number",
		},
		{
			EntityType:    "ABHA",
			Pattern:       regexp.MustCompile(`\d{2}[\-\s]?\d{4}[\-\s]?\d{4}[\-\s]?\d{4}`),
			Confidence:    0.82,
			MedicalCheck:  true,
			DigitBoundary: true,
			Description:   "ABHA health ID (14-digit)",
		},

		// ── Financial identifiers ──

		{
			EntityType:  "IFSC",
			Pattern:     regexp.MustCompile(`\b[A-Z]{4}0[A-Z0-9]{6}\b`),
			Confidence:  0.92,
			Description: "IFSC bank code",
		},
		{
			EntityType:  "BANK_ACCOUNT_NUMBER",
			Pattern:     regexp.MustCompile(`(?i)(?:a/?c|account|acct)[\s.:]*(?:no\.?\s*)?(\d[\d\s\-]{7,17}\d)\b`),
			Confidence:  0.88,
			Group:       1,
			Description: "Indian bank account number (context label required)",
		},
		{
			EntityType: "UPI_ID",
			Pattern: regexp.MustCompile(
				`(?i)\b[a-zA-Z0-9._\-]+@(?:upi|paytm|ybl|okhdfcbank|okicici|oksbi|` +
					`okaxis|ibl|apl|axisbank|icici|sbi|hdfcbank|kotak|indus|` +
					`federal|rbl|idbi|boi|pnb|unionbank|canara|bob|citi)\b`),
			Confidence:  0.95,
			Description: "UPI virtual payment address",
		},

		// ── Phone numbers ──

		{
			EntityType:    "PHONE",
			Pattern:       regexp.MustCompile(`(?:\+91[\-\s]?)?(?:0[\-\s]?)?[6-9]\d{9}`),
			Confidence:    0.90,
			MedicalCheck:  true,
			DigitBoundary: true,
			Description:   "Indian mobile number (+91/0 prefix optional)",
		},
		{
			EntityType:    "PHONE",
			Pattern:       regexp.MustCompile(`(?:\+91[\-\s]?)?0(?:11|20|22|33|40|44|79|80|\d{2,4})[\-\s]?\d{6,8}`),
			Confidence:    0.85,
			MedicalCheck:  true,
			DigitBoundary: true,
			Description:   "Indian landline with STD code",
		},
		{
			EntityType:    "PHONE",
			Pattern:       regexp.MustCompile(`1(?:800|860)[\-\s]?\d{3}[\-\s]?\d{4,5}`),
			Confidence:    0.92,
			DigitBoundary: true,
			Description:   "Indian toll-free / helpline number",
		},

		// ── E-mail ──

		{
			EntityType: "EMAIL",
			Pattern: regexp.MustCompile(
				`\b[a-zA-Z0-9](?:[a-zA-Z0-9_.+\-]{0,62}[a-zA-Z0-9])?@` +
					`[a-zA-Z0-9](?:[a-zA-Z0-9\-]{0,61}[a-zA-Z0-9])?` +
					`(?:\.[a-zA-Z]{2,})+\b`),
			Confidence:  0.95,
			Description: "Email address (RFC-like)",
		},

		// ── Payment cards ──

		{
			EntityType:    "CREDIT_DEBIT_NUMBER",
			Pattern:       regexp.MustCompile(`(?:\d{4}[\s\-]?){2,3}\d{4,7}`),
			Confidence:    0.80,
			Validator:     "luhn",
			MedicalCheck:  true,
			DigitBoundary: true,
			Description:   "Credit/debit card number (Luhn-validated)",
		},

		// ── Dates of birth ──

		{
			EntityType: "DATE_OF_BIRTH",
			Pattern: regexp.MustCompile(
				`(?i)(?:d\.?o\.?b\.?|date[ \t]+of[ \t]+birth|born[ \t]+on|birth[ \t]*date)` +
					`[ \t]*[:=\-]?[ \t]*` +
					`(\d{1,2}[/\-]\d{1,2}[/\-]\d{2,4})`),
			Confidence:  0.93,
			Group:       1,
			Description: "Date of birth with label context",
		},

		// ── Names ──

		{
			EntityType: "NAME",
			Pattern: regexp.MustCompile(
				`(?:Mr|Mrs|Ms|Dr|Prof|Shri|Smt)\.?[ \t]+` +
					`[A-Z][a-z]+(?:[ \t]+[A-Z][a-z]+){0,4}`),
			Confidence:  0.88,
			Description: "Name with honorific prefix",
		},
		{
			EntityType: "NAME",
			Pattern: regexp.MustCompile(
				`(?i)(?:patient[ \t]*(?:name)?|name|father(?:'?s)?[ \t]*name|` +
					`mother(?:'?s)?[ \t]*name|husband(?:'?s)?[ \t]*name|` +
					`(?:s|d|w|c)[/\\]o\.?)` +
					`[ \t]*[:=\-]?[ \t]*` +
					`([A-Z][a-zA-Z]+(?:[ \t]+[A-Z][a-zA-Z]+){0,4})`),
			Confidence:  0.90,
			Group:       1,
			Description: "Labelled name field (Patient Name:, S/o, etc.)",
		},

		// ── Addresses ──

		{
			EntityType: "ADDRESS",
			Pattern: regexp.MustCompile(
				`(?i)(?:address|addr|residence|residential[ \t]+address)` +
					`[ \t]*[:=\-]?[ \t]*` +
					`(.{10,200}?)(?:\n|$)`),
			Confidence:  0.85,
			Group:       1,
			Description: "Labelled address block",
		},
		{
			EntityType: "PIN_CODE",
			Pattern: regexp.MustCompile(
				`(?i)(?:pin[ \t]*(?:code)?|postal[ \t]*code|zip)` +
					`[ \t]*[:=\-]?[ \t]*` +
					`([1-9]\d{5})\b`),
			Confidence:   0.90,
			Group:        1,
			MedicalCheck: true,
			Description:  "Indian PIN code with label context",
		},
		{
			EntityType:    "PIN_CODE",
			Pattern:       regexp.MustCompile(`[1-9]\d{5}`),
			Confidence:    0.55,
			MedicalCheck:  true,
			DigitBoundary: true,
			Description:   "6-digit PIN code (standalone, low confidence)",
		},

		// ── Hospital / lab IDs ──

		{
			EntityType: "HOSPITAL_ID",
			Pattern: regexp.MustCompile(
				`(?i)(?:uhid|mrn|mrd|patient[ \t]*id|reg(?:istration)?\.?[ \t]*no\.?|` +
					`lab[ \t]*(?:no|id|ref)\.?|opd[ \t]*no\.?|ipd[ \t]*no\.?|` +
					`sample[ \t]*(?:id|no)\.?|barcode|accession)[ \t]*[:=\-#]?[ \t]*` +
					`([A-Z0-9][\w\-/]{3,20})`),
			Confidence:  0.88,
			Group:       1,
			Description: "Hospital / lab registration ID",
		},

		// ── Digital identifiers ──

		{
			EntityType: "IP_ADDRESS",
			Pattern: regexp.MustCompile(
				`\b(?:(?:25[0-5]|2[0-4]\d|[01]?\d\d?)\.){3}` +
					`(?:25[0-5]|2[0-4]\d|[01]?\d\d?)\b`),
			Confidence:  0.85,
			Description: "IPv4 address",
		},
		{
			EntityType:  "URL",
			Pattern:     regexp.MustCompile(`(?i)https?://[^\s<>"']+`),
			Confidence:  0.90,
			Description: "URL with http(s) scheme",
		},
	}
}
