package registration

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-regform/components/countries"
)

// ErrorClass is the class applied to inputs that are touched and invalid.
const ErrorClass = "input-error"

// Form is the controller for one registration session. It is not safe for
// concurrent use; each request or terminal session owns its own Form.
type Form struct {
	validator *Validator
	submit    SubmitFunc
	now       func() time.Time
	newID     func() string

	options []countries.Country
	loading bool

	values     Values
	touched    map[Field]bool
	errors     Errors
	display    Display
	submitting bool
}

type FormOption func(*Form)

// WithValidator shares a compiled validator between forms.
func WithValidator(v *Validator) FormOption {
	return func(f *Form) {
		if v != nil {
			f.validator = v
		}
	}
}

// WithCountryState seeds the country options and loading flag.
func WithCountryState(state countries.State) FormOption {
	return func(f *Form) {
		f.options = append([]countries.Country{}, state.Countries...)
		f.loading = state.Loading
	}
}

// WithSubmitFunc replaces the default log submitter.
func WithSubmitFunc(fn SubmitFunc) FormOption {
	return func(f *Form) {
		if fn != nil {
			f.submit = fn
		}
	}
}

// WithValues prefills the form, for example from a posted request.
func WithValues(values Values) FormOption {
	return func(f *Form) {
		f.values = values
	}
}

// WithClock overrides the submission timestamp source.
func WithClock(now func() time.Time) FormOption {
	return func(f *Form) {
		if now != nil {
			f.now = now
		}
	}
}

// WithIDGenerator overrides the submission id source.
func WithIDGenerator(fn func() string) FormOption {
	return func(f *Form) {
		if fn != nil {
			f.newID = fn
		}
	}
}

// NewForm builds a form with empty values.
func NewForm(opts ...FormOption) (*Form, error) {
	f := &Form{
		now:     time.Now,
		newID:   func() string { return uuid.NewString() },
		values:  Values{Hobbies: []string{}},
		touched: map[Field]bool{},
		errors:  Errors{},
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(f)
	}
	if f.validator == nil {
		v, err := NewValidator()
		if err != nil {
			return nil, fmt.Errorf("registration: new form: %w", err)
		}
		f.validator = v
	}
	if f.submit == nil {
		f.submit = LogSubmitter(nil)
	}
	if f.values.Hobbies == nil {
		f.values.Hobbies = []string{}
	}
	f.display = Derive(f.options, f.values.Country)
	return f, nil
}

// Values returns a copy of the current values.
func (f *Form) Values() Values {
	values := f.values
	values.Hobbies = append([]string{}, f.values.Hobbies...)
	return values
}

// Countries returns the options offered by the country field.
func (f *Form) Countries() []countries.Country {
	return append([]countries.Country{}, f.options...)
}

// Loading reports whether the country list is still being fetched.
func (f *Form) Loading() bool {
	return f.loading
}

// SetCountryState replaces the options once the loader settles and
// recomputes the derived display.
func (f *Form) SetCountryState(state countries.State) {
	f.options = append([]countries.Country{}, state.Countries...)
	f.loading = state.Loading
	f.display = Derive(f.options, f.values.Country)
	f.revalidateTouched()
}

// Change sets field from raw input. Selecting a country recomputes the
// dial code and flag.
func (f *Form) Change(field Field, raw ...string) {
	f.values.Set(field, raw...)
	if field == FieldCountry {
		f.display = Derive(f.options, f.values.Country)
	}
	f.revalidateTouched()
}

// Blur marks field as touched and validates it.
func (f *Form) Blur(field Field) string {
	f.touched[field] = true
	f.errors = f.validator.Validate(f.values, f.options)
	return f.errors.Get(field)
}

// Touched reports whether the user has interacted with field.
func (f *Form) Touched(field Field) bool {
	return f.touched[field]
}

// Message returns the error shown beneath field. Untouched fields show none.
func (f *Form) Message(field Field) string {
	if !f.touched[field] {
		return ""
	}
	return f.errors.Get(field)
}

// InputClass returns ErrorClass for touched, invalid fields and "" otherwise.
func (f *Form) InputClass(field Field) string {
	if f.Message(field) != "" {
		return ErrorClass
	}
	return ""
}

// Errors returns the latest validation result for touched fields.
func (f *Form) Errors() Errors {
	out := Errors{}
	for field, msg := range f.errors {
		if field == FieldForm || f.touched[field] {
			out[field] = msg
		}
	}
	return out
}

// Display returns the dial code and flag for the selected country.
func (f *Form) Display() Display {
	return f.display
}

// Submitting reports whether a submit is in progress.
func (f *Form) Submitting() bool {
	return f.submitting
}

// Validate checks every field without touching them.
func (f *Form) Validate() Errors {
	return f.validator.Validate(f.values, f.options)
}

// Submit touches every field, validates, and hands accepted values to the
// submit func. The values are discarded afterwards. A *ValidationError is
// returned when any field fails.
func (f *Form) Submit(ctx context.Context) (Confirmation, error) {
	if f.submitting {
		return Confirmation{}, ErrSubmitting
	}
	f.submitting = true
	defer func() { f.submitting = false }()

	for _, field := range Fields {
		f.touched[field] = true
	}
	f.errors = f.validator.Validate(f.values, f.options)
	if !f.errors.Empty() {
		errs := Errors{}
		for field, msg := range f.errors {
			errs[field] = msg
		}
		return Confirmation{}, &ValidationError{Errors: errs}
	}

	if ctx == nil {
		ctx = context.Background()
	}
	sub := Submission{
		ID:          f.newID(),
		Values:      f.Values(),
		SubmittedAt: f.now(),
	}
	f.submit(ctx, sub)
	f.Reset()

	return Confirmation{ID: sub.ID, Message: ConfirmationMessage}, nil
}

// Reset restores empty values and clears touched state and errors. Country
// options are kept.
func (f *Form) Reset() {
	f.values = Values{Hobbies: []string{}}
	f.touched = map[Field]bool{}
	f.errors = Errors{}
	f.display = Display{}
}

func (f *Form) revalidateTouched() {
	if len(f.touched) == 0 {
		return
	}
	f.errors = f.validator.Validate(f.values, f.options)
}
