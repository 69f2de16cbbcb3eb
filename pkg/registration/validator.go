package registration

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"

	"github.com/goliatone/go-regform/components/countries"
)

//go:embed registration.schema.json
var schemaJSON []byte

const schemaURL = "https://goliatone.github.io/go-regform/registration.schema.json"

// SchemaJSON returns a copy of the embedded registration schema.
func SchemaJSON() []byte {
	return append([]byte{}, schemaJSON...)
}

// Errors maps each failing field to its message.
type Errors map[Field]string

// Has reports whether field failed validation.
func (e Errors) Has(field Field) bool {
	_, ok := e[field]
	return ok
}

// Get returns the message for field, or "".
func (e Errors) Get(field Field) string {
	return e[field]
}

// Empty reports whether every field passed.
func (e Errors) Empty() bool {
	return len(e) == 0
}

// Fields returns the failing fields in render order.
func (e Errors) Fields() []Field {
	out := make([]Field, 0, len(e))
	for _, field := range Fields {
		if e.Has(field) {
			out = append(out, field)
		}
	}
	return out
}

// Validator checks Values against the registration schema.
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator compiles the embedded schema.
func NewValidator() (*Validator, error) {
	return NewValidatorFromJSON(schemaJSON)
}

// NewValidatorFromJSON compiles a caller supplied schema document.
func NewValidatorFromJSON(raw []byte) (*Validator, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("registration: parse schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.DefaultDraft(jsonschema.Draft2020)
	compiler.AssertFormat()
	if err := compiler.AddResource(schemaURL, doc); err != nil {
		return nil, fmt.Errorf("registration: add schema resource: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("registration: compile schema: %w", err)
	}
	return &Validator{schema: schema}, nil
}

// MustValidator panics when the embedded schema does not compile.
func MustValidator() *Validator {
	v, err := NewValidator()
	if err != nil {
		panic(err)
	}
	return v
}

// Validate checks every field. Country must always name one of options; it is
// only required when options is non-empty, so a failed country fetch leaves
// the rest of the form submittable.
func (v *Validator) Validate(values Values, options []countries.Country) Errors {
	errs := Errors{}
	if v == nil || v.schema == nil {
		return errs
	}

	instance, err := buildInstance(values)
	if err != nil {
		errs[FieldForm] = err.Error()
		return errs
	}

	found := map[Field]string{}
	if verr := v.schema.Validate(instance); verr != nil {
		var validationErr *jsonschema.ValidationError
		if !errors.As(verr, &validationErr) {
			errs[FieldForm] = verr.Error()
			return errs
		}
		for _, issue := range collectIssues(validationErr) {
			current, seen := found[issue.field]
			if !seen || keywordRank(issue.keyword) < keywordRank(current) {
				found[issue.field] = issue.keyword
			}
		}
	}

	if keyword := countryKeyword(values.Country, options); keyword != "" {
		found[FieldCountry] = keyword
	}

	for field, keyword := range found {
		errs[field] = messageFor(field, keyword)
	}
	return errs
}

// ValidateField returns the message for a single field, or "" when it
// passes. The whole form is evaluated so cross-field context stays intact.
func (v *Validator) ValidateField(field Field, values Values, options []countries.Country) string {
	return v.Validate(values, options).Get(field)
}

func countryKeyword(selected string, options []countries.Country) string {
	if selected == "" {
		if len(options) == 0 {
			return ""
		}
		return "required"
	}
	if _, ok := countries.Find(options, selected); !ok {
		return keywordOption
	}
	return ""
}

// buildInstance converts Values to the JSON document the schema expects.
// Empty scalars are omitted so "required" reports them.
func buildInstance(values Values) (any, error) {
	doc := map[string]any{}
	putString := func(field Field, value string) {
		if value != "" {
			doc[string(field)] = value
		}
	}
	putString(FieldName, values.Name)
	putString(FieldEmail, values.Email)
	putString(FieldGender, values.Gender)
	putString(FieldCountry, values.Country)
	putString(FieldPhone, values.Phone)

	if values.Age != "" {
		if age, err := strconv.ParseFloat(values.Age, 64); err == nil && !math.IsNaN(age) && !math.IsInf(age, 0) {
			doc[string(FieldAge)] = age
		} else {
			doc[string(FieldAge)] = values.Age
		}
	}

	hobbies := make([]any, 0, len(values.Hobbies))
	for _, hobby := range values.Hobbies {
		hobbies = append(hobbies, hobby)
	}
	doc[string(FieldHobbies)] = hobbies

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("registration: encode values: %w", err)
	}
	instance, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("registration: decode values: %w", err)
	}
	return instance, nil
}

type issue struct {
	field   Field
	keyword string
}

// collectIssues flattens the validation error tree into (field, keyword)
// pairs taken from its leaves.
func collectIssues(root *jsonschema.ValidationError) []issue {
	var out []issue
	var walk func(*jsonschema.ValidationError)
	walk = func(err *jsonschema.ValidationError) {
		if err == nil {
			return
		}
		if len(err.Causes) > 0 {
			for _, cause := range err.Causes {
				walk(cause)
			}
			return
		}
		if err.ErrorKind == nil {
			return
		}

		if required, ok := err.ErrorKind.(*kind.Required); ok {
			for _, missing := range required.Missing {
				if field, ok := ParseField(missing); ok {
					out = append(out, issue{field: field, keyword: "required"})
				}
			}
			return
		}

		path := err.ErrorKind.KeywordPath()
		if len(path) == 0 || len(err.InstanceLocation) == 0 {
			return
		}
		field, ok := ParseField(err.InstanceLocation[0])
		if !ok {
			return
		}
		out = append(out, issue{field: field, keyword: path[len(path)-1]})
	}
	walk(root)

	sort.SliceStable(out, func(i, j int) bool {
		return keywordRank(out[i].keyword) < keywordRank(out[j].keyword)
	})
	return out
}
