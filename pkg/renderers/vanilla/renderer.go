package vanilla

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-regform/components/countries"
	"github.com/goliatone/go-regform/pkg/registration"
	"github.com/goliatone/go-regform/pkg/render"
	rendertemplate "github.com/goliatone/go-regform/pkg/render/template"
	gotemplate "github.com/goliatone/go-regform/pkg/render/template/gotemplate"
)

const pageTemplate = "templates/page.tmpl"

// CountryLabelFilter formats a country option as "Name (CODE)" inside
// templates.
const CountryLabelFilter = "country_label"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templatesDir     string
	templateRenderer rendertemplate.TemplateRenderer
	theme            *theme.RendererConfig
	title            string
	endpoints        Endpoints
}

// Endpoints are the URLs the page posts to and the page script calls.
// Countries is polled by the script while the list is loading.
type Endpoints struct {
	Submit    string `json:"submit"`
	Validate  string `json:"validate"`
	Lookup    string `json:"lookup"`
	Countries string `json:"countries"`
}

// DefaultEndpoints match the routes mounted by the HTTP server.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		Submit:    "/",
		Validate:  "/api/validate",
		Lookup:    "/api/countries/lookup",
		Countries: "/api/countries",
	}
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk. Templates
// missing there fall back to the embedded bundle.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		cfg.templatesDir = path
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithTheme applies resolved theme tokens and asset URLs.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(c *config) {
		c.theme = cfg
	}
}

// WithTitle overrides the page heading.
func WithTitle(title string) Option {
	return func(cfg *config) {
		if title != "" {
			cfg.title = title
		}
	}
}

// WithEndpoints overrides the URLs used by the form and its script.
func WithEndpoints(endpoints Endpoints) Option {
	return func(cfg *config) {
		defaults := DefaultEndpoints()
		if endpoints.Submit == "" {
			endpoints.Submit = defaults.Submit
		}
		if endpoints.Validate == "" {
			endpoints.Validate = defaults.Validate
		}
		if endpoints.Lookup == "" {
			endpoints.Lookup = defaults.Lookup
		}
		if endpoints.Countries == "" {
			endpoints.Countries = defaults.Countries
		}
		cfg.endpoints = endpoints
	}
}

type Renderer struct {
	templates rendertemplate.TemplateRenderer
}

// pageGlobals is handed to the template renderer once; it does not change
// between requests.
type pageGlobals struct {
	Title     string    `json:"title"`
	Theme     themeView `json:"theme"`
	Endpoints Endpoints `json:"endpoints"`
}

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS: TemplatesFS(),
		title:      "Registration",
		endpoints:  DefaultEndpoints(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithBaseDir(cfg.templatesDir),
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	err := renderer.RegisterFilter(CountryLabelFilter, countryLabel)
	if err != nil && !errors.Is(err, rendertemplate.ErrFilterExists) {
		return nil, fmt.Errorf("vanilla renderer: register filter: %w", err)
	}
	if err := renderer.GlobalContext(pageGlobals{
		Title:     cfg.title,
		Theme:     buildThemeView(cfg.theme),
		Endpoints: cfg.endpoints,
	}); err != nil {
		return nil, fmt.Errorf("vanilla renderer: set globals: %w", err)
	}

	return &Renderer{templates: renderer}, nil
}

// countryLabel renders a country choice the way Country.Label does.
func countryLabel(input any, _ any) (any, error) {
	choice, ok := input.(map[string]any)
	if !ok {
		return fmt.Sprint(input), nil
	}
	name, _ := choice["value"].(string)
	code, _ := choice["code"].(string)
	return countries.Country{Name: name, Code: code}.Label(), nil
}

var _ render.Renderer = (*Renderer)(nil)

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces the full HTML document for page.
func (r *Renderer) Render(_ context.Context, page render.Page) ([]byte, error) {
	if r == nil || r.templates == nil {
		return nil, errors.New("vanilla renderer: template renderer is nil")
	}
	if page.Form == nil {
		return nil, errors.New("vanilla renderer: form is nil")
	}

	result, err := r.templates.RenderTemplate(pageTemplate, r.view(page))
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

type fieldView struct {
	Name    string `json:"name"`
	Label   string `json:"label"`
	Value   string `json:"value"`
	Message string `json:"message"`
	Class   string `json:"class"`
}

type choiceView struct {
	Value   string `json:"value"`
	Label   string `json:"label"`
	Code    string `json:"code,omitempty"`
	Checked bool   `json:"checked"`
}

type pageView struct {
	Fields       map[string]fieldView       `json:"fields"`
	Genders      []choiceView               `json:"genders"`
	Hobbies      []choiceView               `json:"hobbies"`
	Countries    []choiceView               `json:"countries"`
	Loading      bool                       `json:"loading"`
	Display      registration.Display       `json:"display"`
	FormError    string                     `json:"form_error"`
	Confirmation *registration.Confirmation `json:"confirmation"`
}

func (r *Renderer) view(page render.Page) pageView {
	form := page.Form
	values := form.Values()

	fields := make(map[string]fieldView, len(registration.Fields))
	for _, field := range registration.Fields {
		value := ""
		if field != registration.FieldHobbies {
			if raw := values.Get(field); len(raw) > 0 {
				value = raw[0]
			}
		}
		fields[string(field)] = fieldView{
			Name:    string(field),
			Label:   registration.Label(field),
			Value:   value,
			Message: form.Message(field),
			Class:   form.InputClass(field),
		}
	}

	genders := make([]choiceView, 0, len(registration.Genders))
	for _, gender := range registration.Genders {
		genders = append(genders, choiceView{Value: gender, Label: gender, Checked: values.Gender == gender})
	}

	hobbies := make([]choiceView, 0, len(registration.Hobbies))
	for _, hobby := range registration.Hobbies {
		hobbies = append(hobbies, choiceView{Value: hobby, Label: hobby, Checked: values.HasHobby(hobby)})
	}

	return pageView{
		Fields:       fields,
		Genders:      genders,
		Hobbies:      hobbies,
		Countries:    countryChoices(form.Countries(), values.Country),
		Loading:      form.Loading(),
		Display:      form.Display(),
		FormError:    form.Errors().Get(registration.FieldForm),
		Confirmation: page.Confirmation,
	}
}

func countryChoices(list []countries.Country, selected string) []choiceView {
	out := make([]choiceView, 0, len(list))
	for _, country := range list {
		out = append(out, choiceView{
			Value:   country.Name,
			Code:    country.Code,
			Checked: country.Name == selected,
		})
	}
	return out
}
