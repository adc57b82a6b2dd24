package emergency

func f(v float64) *float64 { return &v }

// panicValues holds critical ranges per clinical laboratory panic
// value conventions (AACC/CAP). Keys are normalized test names;
// abbreviations get their own entry so alias resolution stays a map
// lookup on the common path.
var panicValues = map[string]Rule{
	"glucose": {
		LowCritical:  f(50),
		HighCritical: f(500),
		Unit:         "mg/dL",
		LowMessage:   "Dangerously low blood sugar (hypoglycemia). This can cause confusion, seizures, or loss of consciousness.",
		HighMessage:  "Dangerously high blood sugar. This may indicate diabetic emergency (DKA or HHS).",
		Action:       "Seek emergency medical care immediately. Call 108 (ambulance) or go to the nearest hospital emergency room.",
	},
	"fasting glucose": {
		LowCritical:  f(50),
		HighCritical: f(500),
		Unit:         "mg/dL",
		LowMessage:   "Dangerously low fasting blood sugar (hypoglycemia).",
		HighMessage:  "Dangerously high fasting blood sugar. May indicate diabetic emergency.",
		Action:       "Seek emergency medical care immediately. Call 108 (ambulance) or go to the nearest hospital.",
	},
	"potassium": {
		LowCritical:  f(2.5),
		HighCritical: f(6.5),
		Unit:         "mEq/L",
		LowMessage:   "Critically low potassium (hypokalemia). This can cause dangerous heart rhythm problems.",
		HighMessage:  "Critically high potassium (hyperkalemia). This can cause life-threatening heart problems.",
		Action:       "This requires urgent medical attention. Contact a doctor or go to the emergency room immediately.",
	},
	"sodium": {
		LowCritical:  f(120),
		HighCritical: f(160),
		Unit:         "mEq/L",
		LowMessage:   "Severely low sodium (hyponatremia). This can cause brain swelling, confusion, and seizures.",
		HighMessage:  "Severely high sodium (hypernatremia). This can cause brain damage and seizures.",
		Action:       "Seek medical attention urgently. Go to the nearest hospital.",
	},
	"calcium": {
		LowCritical:  f(6.0),
		HighCritical: f(13.0),
		Unit:         "mg/dL",
		LowMessage:   "Dangerously low calcium. This can cause muscle spasms, seizures, and heart problems.",
		HighMessage:  "Dangerously high calcium. This can cause confusion, kidney damage, and heart problems.",
		Action:       "Contact a doctor or visit the hospital immediately.",
	},
	"hemoglobin": {
		LowCritical:  f(5.0),
		HighCritical: f(20.0),
		Unit:         "g/dL",
		LowMessage:   "Critically low hemoglobin — severe anemia. You may need an urgent blood transfusion.",
		HighMessage:  "Dangerously high hemoglobin. This can increase risk of blood clots and stroke.",
		Action:       "Seek emergency medical care. Call 108 or go to the nearest hospital immediately.",
	},
	"hb": {
		LowCritical:  f(5.0),
		HighCritical: f(20.0),
		Unit:         "g/dL",
		LowMessage:   "Critically low hemoglobin — severe anemia. You may need an urgent blood transfusion.",
		HighMessage:  "Dangerously high hemoglobin. This can increase risk of blood clots and stroke.",
		Action:       "Seek emergency medical care. Call 108 or go to the nearest hospital immediately.",
	},
	"platelets": {
		LowCritical:  f(20000),
		HighCritical: f(1000000),
		Unit:         "/mcL",
		LowMessage:   "Critically low platelet count. This puts you at serious risk of uncontrolled bleeding.",
		HighMessage:  "Extremely high platelet count. This can cause dangerous blood clots.",
		Action:       "Seek immediate medical attention. Do not ignore this result.",
	},
	"wbc": {
		LowCritical:  f(1000),
		HighCritical: f(30000),
		Unit:         "cells/mcL",
		LowMessage:   "Dangerously low white blood cell count. Your body cannot fight infections properly.",
		HighMessage:  "Very high white blood cell count. This may indicate a severe infection or other serious condition.",
		Action:       "Contact a doctor urgently. Avoid exposure to sick people if WBC is low.",
	},
	"creatinine": {
		HighCritical: f(10.0),
		Unit:         "mg/dL",
		HighMessage:  "Very high creatinine indicates severe kidney impairment. Dialysis may be needed.",
		Action:       "Seek urgent medical care. Go to a hospital with nephrology (kidney) services.",
	},
	"bilirubin": {
		HighCritical: f(15.0),
		Unit:         "mg/dL",
		HighMessage:  "Dangerously high bilirubin. This may indicate severe liver disease or bile duct blockage.",
		Action:       "Seek urgent medical attention. Go to the nearest hospital.",
	},
	"inr": {
		HighCritical: f(5.0),
		Unit:         "",
		HighMessage:  "Very high INR — extremely high bleeding risk. Any injury could cause dangerous bleeding.",
		Action:       "Seek immediate medical attention. Avoid any physical injury. Contact your doctor about medication adjustment.",
	},
	"troponin": {
		HighCritical: f(0.4),
		Unit:         "ng/mL",
		HighMessage:  "Elevated troponin may indicate heart muscle damage or heart attack.",
		Action:       "This is potentially life-threatening. Call 108 (ambulance) or go to the nearest hospital immediately.",
	},
	"tsh": {
		LowCritical:  f(0.01),
		HighCritical: f(50.0),
		Unit:         "mIU/L",
		LowMessage:   "Extremely low TSH may indicate thyroid storm (a dangerous overactive thyroid).",
		HighMessage:  "Extremely high TSH indicates severe hypothyroidism (myxedema). This can be dangerous.",
		Action:       "Contact a doctor urgently for thyroid evaluation and treatment.",
	},
}

// emergencyResources lists India-specific emergency numbers returned
// alongside any alert.
var emergencyResources = map[string]string{
	"ambulance":         "108",
	"general_emergency": "112",
	"health_helpline":   "104",
	"poison_control":    "1800-116-117",
	"mental_health":     "08046110007 (iCall)",
}

const disclaimer = "Nidaan is NOT a diagnostic tool. These alerts are based on " +
	"commonly accepted critical lab value thresholds. Please consult a " +
	"healthcare professional immediately for proper evaluation."
