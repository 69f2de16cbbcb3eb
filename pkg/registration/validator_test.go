package registration

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-regform/components/countries"
)

var testCountries = []countries.Country{
	{Name: "Peru", Code: "PE", Flag: "https://flagcdn.com/pe.svg", DialCode: "+51"},
	{Name: "United States", Code: "US", Flag: "https://flagcdn.com/us.svg", DialCode: "+1201"},
}

func validValues() Values {
	return Values{
		Name:    "Ada",
		Email:   "ada@example.com",
		Age:     "36",
		Gender:  GenderFemale,
		Hobbies: []string{HobbyReading},
		Country: "Peru",
		Phone:   "1234567890",
	}
}

func newTestValidator(t *testing.T) *Validator {
	t.Helper()
	v, err := NewValidator()
	if err != nil {
		t.Fatalf("new validator: %v", err)
	}
	return v
}

func TestValidate_ValidValuesPass(t *testing.T) {
	v := newTestValidator(t)
	if errs := v.Validate(validValues(), testCountries); !errs.Empty() {
		t.Fatalf("expected no errors, got %#v", errs)
	}
}

func TestValidate_EmptyFormReportsRequired(t *testing.T) {
	v := newTestValidator(t)

	want := Errors{
		FieldName:    "Name is required",
		FieldEmail:   "Email is required",
		FieldAge:     "Age is required",
		FieldGender:  "Gender is required",
		FieldHobbies: "Select at least one hobby",
		FieldCountry: "Country is required",
		FieldPhone:   "Phone is required",
	}
	// Nil and empty hobbies both reach the schema as an empty array.
	for _, values := range []Values{{Hobbies: []string{}}, {}} {
		if diff := cmp.Diff(want, v.Validate(values, testCountries)); diff != "" {
			t.Fatalf("errors mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestValidate_FieldRules(t *testing.T) {
	v := newTestValidator(t)

	cases := []struct {
		name   string
		mutate func(*Values)
		field  Field
		want   string
	}{
		{name: "short name", mutate: func(x *Values) { x.Name = "A" }, field: FieldName, want: "Name must be at least 2 characters"},
		{name: "two letter name", mutate: func(x *Values) { x.Name = "Al" }, field: FieldName, want: ""},
		{name: "bad email", mutate: func(x *Values) { x.Email = "not-an-email" }, field: FieldEmail, want: "Invalid email address"},
		{name: "age 17", mutate: func(x *Values) { x.Age = "17" }, field: FieldAge, want: "You must be at least 18 years old"},
		{name: "age 18", mutate: func(x *Values) { x.Age = "18" }, field: FieldAge, want: ""},
		{name: "age text", mutate: func(x *Values) { x.Age = "eighteen" }, field: FieldAge, want: "Age must be a number"},
		{name: "age NaN", mutate: func(x *Values) { x.Age = "NaN" }, field: FieldAge, want: "Age must be a number"},
		{name: "unknown gender", mutate: func(x *Values) { x.Gender = "Other" }, field: FieldGender, want: "Gender must be Male or Female"},
		{name: "male", mutate: func(x *Values) { x.Gender = GenderMale }, field: FieldGender, want: ""},
		{name: "no hobbies", mutate: func(x *Values) { x.Hobbies = []string{} }, field: FieldHobbies, want: "Select at least one hobby"},
		{name: "nil hobbies", mutate: func(x *Values) { x.Hobbies = nil }, field: FieldHobbies, want: "Select at least one hobby"},
		{name: "gaming", mutate: func(x *Values) { x.Hobbies = []string{HobbyGaming} }, field: FieldHobbies, want: ""},
		{name: "unknown hobby", mutate: func(x *Values) { x.Hobbies = []string{"Knitting"} }, field: FieldHobbies, want: "Select a valid hobby"},
		{name: "duplicate hobby", mutate: func(x *Values) { x.Hobbies = []string{HobbyGaming, HobbyGaming} }, field: FieldHobbies, want: "Hobbies must be unique"},
		{name: "phone letters", mutate: func(x *Values) { x.Phone = "12345abc" }, field: FieldPhone, want: "Phone must contain only digits"},
		{name: "phone nine digits", mutate: func(x *Values) { x.Phone = "123456789" }, field: FieldPhone, want: "Phone must be at least 10 digits"},
		{name: "phone ten digits", mutate: func(x *Values) { x.Phone = "1234567890" }, field: FieldPhone, want: ""},
		{name: "unknown country", mutate: func(x *Values) { x.Country = "Atlantis" }, field: FieldCountry, want: "Select a country from the list"},
		{name: "empty country", mutate: func(x *Values) { x.Country = "" }, field: FieldCountry, want: "Country is required"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			values := validValues()
			tc.mutate(&values)
			errs := v.Validate(values, testCountries)
			if got := errs.Get(tc.field); got != tc.want {
				t.Fatalf("%s: got %q, want %q (all: %#v)", tc.field, got, tc.want, errs)
			}
			for field := range errs {
				if field != tc.field {
					t.Fatalf("unexpected error on %s: %q", field, errs[field])
				}
			}
		})
	}
}

func TestValidate_CountryOptionalWithoutOptions(t *testing.T) {
	v := newTestValidator(t)
	values := validValues()
	values.Country = ""

	if errs := v.Validate(values, nil); !errs.Empty() {
		t.Fatalf("expected form to validate without country options, got %#v", errs)
	}
}

func TestValidate_CountryMustMatchWithoutOptions(t *testing.T) {
	v := newTestValidator(t)
	values := validValues()
	values.Country = "Atlantis"

	want := Errors{FieldCountry: "Select a country from the list"}
	if diff := cmp.Diff(want, v.Validate(values, nil)); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateField_ReturnsSingleMessage(t *testing.T) {
	v := newTestValidator(t)
	values := validValues()
	values.Phone = "12"
	values.Name = ""

	if got := v.ValidateField(FieldPhone, values, testCountries); got != "Phone must be at least 10 digits" {
		t.Fatalf("unexpected phone message %q", got)
	}
	if got := v.ValidateField(FieldEmail, values, testCountries); got != "" {
		t.Fatalf("expected email to pass, got %q", got)
	}
}

func TestNewValidatorFromJSON_RejectsBadSchema(t *testing.T) {
	if _, err := NewValidatorFromJSON([]byte(`{"type": 12}`)); err == nil {
		t.Fatalf("expected compile error")
	}
	if _, err := NewValidatorFromJSON([]byte(`{`)); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestErrors_FieldsInRenderOrder(t *testing.T) {
	errs := Errors{FieldPhone: "x", FieldName: "y", FieldHobbies: "z"}
	want := []Field{FieldName, FieldHobbies, FieldPhone}
	if diff := cmp.Diff(want, errs.Fields()); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
}
