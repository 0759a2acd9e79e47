package html

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/goliatone/go-schemaform/pkg/render"
	rendertemplate "github.com/goliatone/go-schemaform/pkg/render/template"
	gotemplate "github.com/goliatone/go-schemaform/pkg/render/template/gotemplate"
	"github.com/goliatone/go-schemaform/pkg/schema"
	"github.com/goliatone/go-schemaform/pkg/widgets"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	surface          *Surface
	widgets          *widgets.Registry
	submitLabel      string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
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

// WithSurface shares an existing surface instead of the renderer's own.
func WithSurface(surface *Surface) Option {
	return func(cfg *config) {
		if surface != nil {
			cfg.surface = surface
		}
	}
}

// WithWidgets overrides the widget registry used to pick control markup.
func WithWidgets(registry *widgets.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.widgets = registry
		}
	}
}

// WithSubmitLabel overrides the submit button caption.
func WithSubmitLabel(label string) Option {
	return func(cfg *config) {
		if label != "" {
			cfg.submitLabel = label
		}
	}
}

// Renderer produces a complete HTML document for a reconciled form. It owns a
// Surface that the form engine paints onto; hand that surface to the form via
// its surface option and every mount, removal and validation mark shows up in
// the next Render call.
type Renderer struct {
	templates   rendertemplate.TemplateRenderer
	surface     *Surface
	widgets     *widgets.Registry
	submitLabel string
}

// New constructs the HTML renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS(), submitLabel: "Submit"}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.surface == nil {
		cfg.surface = NewSurface()
	}
	if cfg.widgets == nil {
		cfg.widgets = widgets.NewRegistry()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".html"),
		)
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{
		templates:   renderer,
		surface:     cfg.surface,
		widgets:     cfg.widgets,
		submitLabel: cfg.submitLabel,
	}, nil
}

// Surface returns the surface this renderer reads mounted fields from.
func (r *Renderer) Surface() *Surface {
	return r.surface
}

func (r *Renderer) Name() string {
	return "html"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

func (r *Renderer) Render(_ context.Context, view render.View, options render.Options) ([]byte, error) {
	if view.Form == nil {
		return nil, fmt.Errorf("html renderer: view has no form")
	}

	method, override := formMethod(options.Method)
	data := map[string]any{
		"title":           documentTitle(view),
		"action":          options.Action,
		"method":          method,
		"method_override": override,
		"submit_label":    r.submitLabel,
		"form_errors":     r.surface.FormErrors(),
		"fields":          r.fieldRows(view),
	}

	if options.Theme != nil {
		data["theme"] = options.Theme.Theme
		if len(options.Theme.CSSVars) > 0 {
			data["css_vars"] = options.Theme.CSSVars
		}
		if options.Theme.AssetURL != nil {
			data["stylesheet_href"] = options.Theme.AssetURL(StylesheetName)
		}
	}
	if data["stylesheet_href"] == nil {
		data["stylesheet"] = defaultStylesheet()
	}

	result, err := r.templates.RenderTemplate("templates/form.html", data)
	if err != nil {
		return nil, fmt.Errorf("html renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func documentTitle(view render.View) string {
	if view.Title != "" {
		return view.Title
	}
	if title := view.Form.Root().Title; title != "" {
		return title
	}
	return "Form"
}

func (r *Renderer) fieldRows(view render.View) []map[string]any {
	fields := r.surface.Fields()
	rows := make([]map[string]any, 0, len(fields))
	for _, field := range fields {
		rows = append(rows, r.fieldRow(view, field))
	}
	return rows
}

func (r *Renderer) fieldRow(view render.View, field Field) map[string]any {
	node := field.Node
	path := field.Path
	if resolved, ok := view.Form.ResolvedPathFor(field.Identifier); ok {
		path = resolved
	}
	value, _ := view.Form.Store().GetPath(path)

	kind, widget := r.rowKind(node, field.Identifier)
	row := map[string]any{
		"kind":        kind,
		"identifier":  field.Identifier,
		"id":          ControlID(field.Identifier),
		"name":        InputName(path),
		"label":       rowLabel(view, field),
		"description": node.Description,
		"depth":       clampDepth(field.Identifier),
		"required":    node.Required,
		"readonly":    node.ReadOnly,
		"invalid":     field.Error,
	}

	switch row["kind"] {
	case "group", "variant":
		if row["kind"] == "variant" {
			row["options"] = variantOptions(view, field)
		}
	case "select":
		row["options"] = enumOptions(node, value)
	case "checkbox":
		row["checked"] = value == true
	case "textarea":
		row["value"] = formatValue(value)
		row["maxlength"] = formatIntPtr(node.MaxLength)
	default:
		row["value"] = formatValue(value)
		if widget == widgets.WidgetPassword {
			row["input_type"] = "password"
		} else {
			row["input_type"] = inputType(node)
		}
		row["pattern"] = node.Pattern
		row["minlength"] = formatIntPtr(node.MinLength)
		row["maxlength"] = formatIntPtr(node.MaxLength)
		row["min"] = formatFloatPtr(node.Minimum)
		row["max"] = formatFloatPtr(node.Maximum)
		if node.Type == schema.TypeInteger {
			row["step"] = "1"
		}
	}
	return row
}

// rowKind resolves the node's widget and folds it into the template's field
// kinds. Unclaimed nodes and custom widget names render as plain inputs.
func (r *Renderer) rowKind(node schema.Node, identifier string) (string, string) {
	widget, ok := r.widgets.Resolve(node, identifier)
	if !ok {
		return "input", ""
	}
	switch widget {
	case widgets.WidgetVariant:
		return "variant", widget
	case widgets.WidgetGroup, widgets.WidgetKeyValue, widgets.WidgetList:
		return "group", widget
	case widgets.WidgetSelect:
		return "select", widget
	case widgets.WidgetToggle:
		return "checkbox", widget
	case widgets.WidgetTextArea:
		return "textarea", widget
	default:
		return "input", widget
	}
}

// rowLabel prefers the node title; map rows fall back to their current user
// key so an untitled row still reads as something.
func rowLabel(view render.View, field Field) string {
	if field.Node.Title != "" {
		return field.Node.Title
	}
	if key, ok := view.Form.RowKey(field.Identifier); ok && key != "" {
		return key
	}
	return field.Node.Key
}

func variantOptions(view render.View, field Field) []map[string]any {
	selected, _ := view.Form.SelectedVariant(field.Identifier)
	options := make([]map[string]any, 0, len(field.Node.OneOf))
	for i, branch := range field.Node.OneOf {
		label := branch.Title
		if label == "" {
			label = "Option " + strconv.Itoa(i+1)
		}
		options = append(options, map[string]any{
			"value":    strconv.Itoa(i),
			"label":    label,
			"selected": i == selected,
		})
	}
	return options
}

func enumOptions(node schema.Node, value any) []map[string]any {
	options := make([]map[string]any, 0, len(node.Enum))
	for _, entry := range node.Enum {
		text := formatValue(entry)
		options = append(options, map[string]any{
			"value":    text,
			"label":    text,
			"selected": text == formatValue(value) && value != nil,
		})
	}
	return options
}

func inputType(node schema.Node) string {
	switch node.Type {
	case schema.TypeNumber, schema.TypeInteger:
		return "number"
	}
	switch node.Format {
	case "email":
		return "email"
	case "uri", "url":
		return "url"
	case "date":
		return "date"
	case "date-time":
		return "datetime-local"
	case "time":
		return "time"
	case "password":
		return "password"
	}
	return "text"
}

// formMethod folds non-form HTTP verbs into a POST plus an override field, a
// convention most router middlewares understand.
func formMethod(method string) (string, string) {
	switch strings.ToUpper(method) {
	case "", "POST":
		return "post", ""
	case "GET":
		return "get", ""
	default:
		return "post", strings.ToUpper(method)
	}
}

func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func formatIntPtr(value *int) string {
	if value == nil {
		return ""
	}
	return strconv.Itoa(*value)
}

func formatFloatPtr(value *float64) string {
	if value == nil {
		return ""
	}
	return strconv.FormatFloat(*value, 'f', -1, 64)
}

func clampDepth(identifier string) int {
	depth := strings.Count(identifier, ".")
	if depth < 1 {
		depth = 1
	}
	if depth > 5 {
		depth = 5
	}
	return depth
}
