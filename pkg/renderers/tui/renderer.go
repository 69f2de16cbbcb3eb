package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/goliatone/go-regform/components/countries"
	"github.com/goliatone/go-regform/pkg/registration"
)

// Renderer walks a registration.Form through terminal prompts. Each answer is
// validated before moving on; invalid answers are reported and asked again.
type Renderer struct {
	driver        PromptDriver
	validator     *registration.Validator
	theme         Theme
	pageSize      int
	confirmSubmit bool
	logger        *slog.Logger
}

// New constructs a TUI renderer backed by survey prompts unless a driver is
// supplied.
func New(options ...Option) *Renderer {
	r := &Renderer{
		pageSize:      15,
		confirmSubmit: true,
		logger:        slog.Default(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = newSurveyDriver()
	}
	if r.validator == nil {
		r.validator = registration.MustValidator()
	}
	return r
}

// WithValidator shares a compiled validator with the renderer.
func WithValidator(v *registration.Validator) Option {
	return func(r *Renderer) {
		if v != nil {
			r.validator = v
		}
	}
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// Run prompts for every field and submits the form. Fields rejected at
// submit time are asked again. ErrAborted is returned when the user
// interrupts or declines to submit.
func (r *Renderer) Run(ctx context.Context, form *registration.Form) (registration.Confirmation, error) {
	if ctx == nil {
		return registration.Confirmation{}, errors.New("tui: context is required")
	}
	if form == nil {
		return registration.Confirmation{}, errors.New("tui: form is nil")
	}

	pending := registration.Fields
	for {
		for _, field := range pending {
			if err := r.promptField(ctx, form, field); err != nil {
				return registration.Confirmation{}, err
			}
		}

		if r.confirmSubmit {
			ok, err := r.driver.Confirm(ctx, ConfirmConfig{Message: "Submit?", Default: true})
			if err != nil {
				return registration.Confirmation{}, err
			}
			if !ok {
				return registration.Confirmation{}, ErrAborted
			}
		}

		confirmation, err := form.Submit(ctx)
		if err == nil {
			_ = r.info(ctx, confirmation.Message)
			return confirmation, nil
		}

		var invalid *registration.ValidationError
		if !errors.As(err, &invalid) {
			return registration.Confirmation{}, err
		}
		pending = invalid.Errors.Fields()
		if len(pending) == 0 {
			return registration.Confirmation{}, err
		}
		for _, field := range pending {
			_ = r.invalid(ctx, field, invalid.Errors.Get(field))
		}
	}
}

func (r *Renderer) promptField(ctx context.Context, form *registration.Form, field registration.Field) error {
	switch field {
	case registration.FieldGender:
		return r.promptGender(ctx, form)
	case registration.FieldHobbies:
		return r.promptHobbies(ctx, form)
	case registration.FieldCountry:
		return r.promptCountry(ctx, form)
	default:
		return r.promptText(ctx, form, field)
	}
}

func (r *Renderer) promptText(ctx context.Context, form *registration.Form, field registration.Field) error {
	message := registration.Label(field)
	help := ""
	if field == registration.FieldPhone {
		help = "Digits only, at least 10"
		if display := form.Display(); display.DialCode != "" {
			message = fmt.Sprintf("%s (%s)", message, display.DialCode)
		}
	}

	for {
		current := ""
		if raw := form.Values().Get(field); len(raw) > 0 {
			current = raw[0]
		}
		answer, err := r.driver.Input(ctx, InputConfig{
			Message:   message,
			Default:   current,
			Help:      help,
			Validator: r.fieldValidator(form, field),
		})
		if err != nil {
			return err
		}
		if r.accept(ctx, form, field, answer) {
			return nil
		}
	}
}

func (r *Renderer) promptGender(ctx context.Context, form *registration.Form) error {
	for {
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      registration.Label(registration.FieldGender),
			Options:      registration.Genders,
			DefaultIndex: indexOf(registration.Genders, form.Values().Gender),
		})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(registration.Genders) {
			_ = r.invalid(ctx, registration.FieldGender, ErrNoSelection.Error())
			continue
		}
		if r.accept(ctx, form, registration.FieldGender, registration.Genders[idx]) {
			return nil
		}
	}
}

func (r *Renderer) promptHobbies(ctx context.Context, form *registration.Form) error {
	for {
		idx, err := r.driver.MultiSelect(ctx, SelectConfig{
			Message:  registration.Label(registration.FieldHobbies),
			Options:  registration.Hobbies,
			Defaults: indicesOf(registration.Hobbies, form.Values().Hobbies),
			Help:     "Select at least one",
		})
		if err != nil {
			return err
		}
		selected := make([]string, 0, len(idx))
		for _, i := range idx {
			if i >= 0 && i < len(registration.Hobbies) {
				selected = append(selected, registration.Hobbies[i])
			}
		}
		if r.accept(ctx, form, registration.FieldHobbies, selected...) {
			return nil
		}
	}
}

func (r *Renderer) promptCountry(ctx context.Context, form *registration.Form) error {
	options := form.Countries()
	if len(options) == 0 {
		if form.Loading() {
			_ = r.info(ctx, "Country list is still loading; skipping country")
		} else {
			_ = r.info(ctx, "Country list unavailable; skipping country")
		}
		form.Change(registration.FieldCountry, "")
		form.Blur(registration.FieldCountry)
		return nil
	}

	labels := make([]string, 0, len(options))
	defaultIdx := 0
	selected := form.Values().Country
	for i, country := range options {
		labels = append(labels, country.Label())
		if country.Name == selected {
			defaultIdx = i
		}
	}

	for {
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      registration.Label(registration.FieldCountry),
			Options:      labels,
			DefaultIndex: defaultIdx,
			PageSize:     r.pageSize,
		})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(options) {
			_ = r.invalid(ctx, registration.FieldCountry, ErrNoSelection.Error())
			continue
		}
		if !r.accept(ctx, form, registration.FieldCountry, options[idx].Name) {
			continue
		}
		if display := form.Display(); !display.Empty() {
			_ = r.info(ctx, describeDisplay(options[idx], display))
		}
		return nil
	}
}

// accept applies answer to field and reports whether it passed validation.
func (r *Renderer) accept(ctx context.Context, form *registration.Form, field registration.Field, answer ...string) bool {
	form.Change(field, answer...)
	msg := form.Blur(field)
	r.logger.DebugContext(ctx, "prompt answered", "field", string(field), "valid", msg == "")
	if msg != "" {
		_ = r.invalid(ctx, field, msg)
		return false
	}
	return true
}

func (r *Renderer) fieldValidator(form *registration.Form, field registration.Field) func(string) error {
	options := form.Countries()
	return func(answer string) error {
		values := form.Values()
		values.Set(field, answer)
		if msg := r.validator.ValidateField(field, values, options); msg != "" {
			return errors.New(msg)
		}
		return nil
	}
}

func (r *Renderer) info(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, r.theme.InfoPrefix+msg)
}

func (r *Renderer) invalid(ctx context.Context, field registration.Field, msg string) error {
	return r.driver.Info(ctx, fmt.Sprintf("%sInvalid %s: %s", r.theme.ErrorPrefix, field, msg))
}

func describeDisplay(country countries.Country, display registration.Display) string {
	if display.DialCode == "" {
		return fmt.Sprintf("%s selected", country.Name)
	}
	return fmt.Sprintf("%s dial code: %s", country.Name, display.DialCode)
}
