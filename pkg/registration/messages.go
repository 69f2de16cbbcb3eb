package registration

// keywordOrder ranks schema keywords when a field fails more than one rule.
// The first failing keyword in this order supplies the field message.
var keywordOrder = []string{
	"required",
	"type",
	"format",
	"enum",
	"pattern",
	"minLength",
	"minimum",
	"minItems",
	"uniqueItems",
}

const keywordOption = "option"

var messages = map[Field]map[string]string{
	FieldName: {
		"required":  "Name is required",
		"type":      "Name is required",
		"minLength": "Name must be at least 2 characters",
	},
	FieldEmail: {
		"required": "Email is required",
		"type":     "Email is required",
		"format":   "Invalid email address",
	},
	FieldAge: {
		"required": "Age is required",
		"type":     "Age must be a number",
		"minimum":  "You must be at least 18 years old",
	},
	FieldGender: {
		"required": "Gender is required",
		"type":     "Gender is required",
		"enum":     "Gender must be Male or Female",
	},
	// Hobbies is always sent as an array, so only the item rules can fail.
	FieldHobbies: {
		"minItems":    "Select at least one hobby",
		"enum":        "Select a valid hobby",
		"uniqueItems": "Hobbies must be unique",
	},
	FieldCountry: {
		"required":    "Country is required",
		"type":        "Country is required",
		keywordOption: "Select a country from the list",
	},
	FieldPhone: {
		"required":  "Phone is required",
		"type":      "Phone is required",
		"pattern":   "Phone must contain only digits",
		"minLength": "Phone must be at least 10 digits",
	},
}

var labels = map[Field]string{
	FieldName:    "Name",
	FieldEmail:   "Email",
	FieldAge:     "Age",
	FieldGender:  "Gender",
	FieldHobbies: "Hobbies",
	FieldCountry: "Country",
	FieldPhone:   "Phone",
}

// Label returns the display label for field.
func Label(field Field) string {
	if label, ok := labels[field]; ok {
		return label
	}
	return string(field)
}

func messageFor(field Field, keyword string) string {
	if byKeyword, ok := messages[field]; ok {
		if msg, ok := byKeyword[keyword]; ok {
			return msg
		}
	}
	return Label(field) + " is invalid"
}

func keywordRank(keyword string) int {
	for idx, candidate := range keywordOrder {
		if candidate == keyword {
			return idx
		}
	}
	return len(keywordOrder)
}
