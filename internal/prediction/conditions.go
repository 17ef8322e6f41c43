package prediction

import "sort"

// conditionFields lists, per condition, the numeric JSON keys the
// upstream model service requires. All fields are mandatory; there
// are no defaults.
var conditionFields = map[string][]string{
	"diabetes": {
		"Pregnancies", "Glucose", "BloodPressure", "SkinThickness",
		"Insulin", "BMI", "DiabetesPedigreeFunction", "Age",
	},
	"heart": {
		"Age", "Sex", "ChestPainType", "RestingBP", "Cholesterol",
		"FastingBS", "RestingECG", "MaxHR", "ExerciseAngina",
		"Oldpeak", "Slope",
	},
	"kidney": {
		"Age", "BloodPressure", "SpecificGravity", "Albumin", "Sugar",
		"BloodGlucoseRandom", "BloodUrea", "SerumCreatinine",
		"Sodium", "Potassium", "Hemoglobin",
	},
	"liver": {
		"Age", "Gender", "TotalBilirubin", "DirectBilirubin",
		"AlkalinePhosphotase", "AlamineAminotransferase",
		"AspartateAminotransferase", "TotalProtiens",
		"AlbuminAndGlobulinRatio",
	},
}

// Conditions returns the supported condition names, sorted.
func Conditions() []string {
	out := make([]string, 0, len(conditionFields))
	for name := range conditionFields {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// FieldsFor returns the required field names for a condition.
func FieldsFor(condition string) ([]string, bool) {
	fields, ok := conditionFields[condition]
	return fields, ok
}
