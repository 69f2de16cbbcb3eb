package registration

import (
	"net/url"
	"strings"
)

// Field names a form input. The string value is the input name attribute.
type Field string

const (
	FieldName    Field = "name"
	FieldEmail   Field = "email"
	FieldAge     Field = "age"
	FieldGender  Field = "gender"
	FieldHobbies Field = "hobbies"
	FieldCountry Field = "country"
	FieldPhone   Field = "phone"

	// FieldForm keys messages that do not belong to a single input.
	FieldForm Field = "__all__"
)

// Fields lists every input in render order.
var Fields = []Field{
	FieldName,
	FieldEmail,
	FieldAge,
	FieldGender,
	FieldHobbies,
	FieldCountry,
	FieldPhone,
}

// ParseField maps an input name to a Field.
func ParseField(raw string) (Field, bool) {
	candidate := Field(strings.TrimSpace(raw))
	for _, field := range Fields {
		if field == candidate {
			return field, true
		}
	}
	return "", false
}

const (
	GenderMale   = "Male"
	GenderFemale = "Female"
)

// Genders lists the accepted gender values.
var Genders = []string{GenderMale, GenderFemale}

const (
	HobbyReading   = "Reading"
	HobbyTraveling = "Traveling"
	HobbyGaming    = "Gaming"
)

// Hobbies lists the accepted hobby values.
var Hobbies = []string{HobbyReading, HobbyTraveling, HobbyGaming}

// Values are the raw field values as entered. Age stays a string until
// validation so the original input can be re-rendered.
type Values struct {
	Name    string   `json:"name"`
	Email   string   `json:"email"`
	Age     string   `json:"age"`
	Gender  string   `json:"gender"`
	Hobbies []string `json:"hobbies"`
	Country string   `json:"country"`
	Phone   string   `json:"phone"`
}

// ValuesFromForm reads submitted form values. Hobbies collects every
// checked box.
func ValuesFromForm(form url.Values) Values {
	values := Values{Hobbies: []string{}}
	for _, field := range Fields {
		values.Set(field, form[string(field)]...)
	}
	return values
}

// Set assigns raw input to field. Scalar fields take the first value.
func (v *Values) Set(field Field, raw ...string) {
	if v == nil {
		return
	}
	first := ""
	if len(raw) > 0 {
		first = raw[0]
	}
	switch field {
	case FieldName:
		v.Name = first
	case FieldEmail:
		v.Email = strings.TrimSpace(first)
	case FieldAge:
		v.Age = strings.TrimSpace(first)
	case FieldGender:
		v.Gender = first
	case FieldHobbies:
		hobbies := make([]string, 0, len(raw))
		for _, item := range raw {
			if item = strings.TrimSpace(item); item != "" {
				hobbies = append(hobbies, item)
			}
		}
		v.Hobbies = hobbies
	case FieldCountry:
		v.Country = first
	case FieldPhone:
		v.Phone = strings.TrimSpace(first)
	}
}

// Get returns the raw values held for field.
func (v Values) Get(field Field) []string {
	switch field {
	case FieldName:
		return []string{v.Name}
	case FieldEmail:
		return []string{v.Email}
	case FieldAge:
		return []string{v.Age}
	case FieldGender:
		return []string{v.Gender}
	case FieldHobbies:
		return append([]string{}, v.Hobbies...)
	case FieldCountry:
		return []string{v.Country}
	case FieldPhone:
		return []string{v.Phone}
	}
	return nil
}

// HasHobby reports whether hobby is checked.
func (v Values) HasHobby(hobby string) bool {
	for _, item := range v.Hobbies {
		if item == hobby {
			return true
		}
	}
	return false
}
