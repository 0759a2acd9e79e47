package schemaform

import (
	"context"
	"fmt"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-schemaform/pkg/form"
	"github.com/goliatone/go-schemaform/pkg/jsonschema"
	"github.com/goliatone/go-schemaform/pkg/openapi"
	"github.com/goliatone/go-schemaform/pkg/render"
	"github.com/goliatone/go-schemaform/pkg/schema"
	"github.com/goliatone/go-schemaform/pkg/store"
	"github.com/goliatone/go-schemaform/pkg/uischema"
)

// Option configures an Engine.
type Option func(*Engine)

// WithLoaderOptions configures how schema sources are fetched.
func WithLoaderOptions(options jsonschema.LoaderOptions) Option {
	return func(e *Engine) {
		e.loaderOptions = options
	}
}

// WithResolveOptions configures $ref resolution.
func WithResolveOptions(options jsonschema.ResolveOptions) Option {
	return func(e *Engine) {
		e.resolveOptions = options
	}
}

// WithTransformOptions forwards options to the schema transformer.
func WithTransformOptions(options ...schema.Option) Option {
	return func(e *Engine) {
		e.transformOptions = append(e.transformOptions, options...)
	}
}

// WithFormOptions forwards options to every form context the engine builds.
func WithFormOptions(options ...form.ContextOption) Option {
	return func(e *Engine) {
		e.formOptions = append(e.formOptions, options...)
	}
}

// WithExtractorOptions configures the OpenAPI request-schema extractor.
func WithExtractorOptions(options openapi.Options) Option {
	return func(e *Engine) {
		e.extractorOptions = options
	}
}

// WithInitialData seeds forms with existing data. The value is merged over
// generated defaults, existing fields winning over defaults.
func WithInitialData(value any) Option {
	return func(e *Engine) {
		e.initialData = value
		e.hasInitialData = true
	}
}

// WithUISchema overlays a UI schema on every form the engine builds: label
// and widget overrides are applied to the transformed tree, hiding
// directives become form options.
func WithUISchema(ui *uischema.Schema) Option {
	return func(e *Engine) {
		e.uiSchema = ui
	}
}

// WithRenderer registers a renderer with the engine's registry. Registering
// two renderers under the same name panics.
func WithRenderer(renderer render.Renderer) Option {
	return func(e *Engine) {
		e.renderers.MustRegister(renderer)
	}
}

// WithRendererRegistry replaces the engine's renderer registry entirely.
func WithRendererRegistry(registry *render.Registry) Option {
	return func(e *Engine) {
		if registry != nil {
			e.renderers = registry
		}
	}
}

// WithThemeSelector wires a go-theme selector so Render resolves theme
// configuration when the caller passes none.
func WithThemeSelector(selector theme.ThemeSelector, name, variant string) Option {
	return func(e *Engine) {
		e.themeSelector = selector
		e.themeName = name
		e.themeVariant = variant
	}
}

// WithThemeFallbacks supplies fallback partials used while flattening theme
// selections into renderer configuration.
func WithThemeFallbacks(fallbacks map[string]string) Option {
	return func(e *Engine) {
		e.themeFallbacks = fallbacks
	}
}

// Engine assembles the full pipeline: source loading, reference resolution,
// transformation, default generation, store binding and rendering. One engine
// can build any number of independent forms.
type Engine struct {
	loaderOptions    jsonschema.LoaderOptions
	resolveOptions   jsonschema.ResolveOptions
	transformOptions []schema.Option
	formOptions      []form.ContextOption
	extractorOptions openapi.Options

	renderers      *render.Registry
	themeSelector  theme.ThemeSelector
	themeName      string
	themeVariant   string
	themeFallbacks map[string]string

	uiSchema       *uischema.Schema
	initialData    any
	hasInitialData bool
}

// New constructs an Engine applying any provided options.
func New(options ...Option) *Engine {
	e := &Engine{renderers: render.NewRegistry()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	return e
}

// Renderers exposes the engine's renderer registry.
func (e *Engine) Renderers() *render.Registry {
	return e.renderers
}

// Form bundles one bound form instance: the transformed tree, the reactive
// store holding its data, and the render context gluing them together.
type Form struct {
	root    schema.Node
	store   *store.Store
	context *form.Context
}

// Root returns the transformed schema tree.
func (f *Form) Root() schema.Node { return f.root }

// Store returns the reactive data store.
func (f *Form) Store() *store.Store { return f.store }

// Context returns the render context for form operations.
func (f *Form) Context() *form.Context { return f.context }

// Snapshot returns the current data snapshot.
func (f *Form) Snapshot() any { return f.store.Get() }

// Validate runs the configured validator and correlates its findings onto
// the form's elements. It returns the issues that resolved to a target.
func (f *Form) Validate() []form.Issue { return f.context.Correlate() }

// FormFromSource loads a schema document, resolves its references and builds
// a bound form.
func (e *Engine) FormFromSource(ctx context.Context, src schema.Source, options ...form.ContextOption) (*Form, error) {
	loader := jsonschema.NewLoader(e.loaderOptions)
	doc, err := loader.Load(ctx, src)
	if err != nil {
		return nil, err
	}
	payload, err := jsonschema.Decode(doc)
	if err != nil {
		return nil, err
	}
	return e.FormFromPayload(payload, options...)
}

// FormFromPayload builds a bound form from an already decoded schema payload.
func (e *Engine) FormFromPayload(payload map[string]any, options ...form.ContextOption) (*Form, error) {
	resolved, err := jsonschema.NewResolver(e.resolveOptions).Resolve(payload)
	if err != nil {
		return nil, err
	}

	root := schema.NewTransformer(e.transformOptions...).Transform(resolved)
	if e.uiSchema != nil {
		root = e.uiSchema.Apply(root)
	}
	data := schema.Default(root)
	if e.hasInitialData {
		data = mergeData(data, e.initialData)
	}
	st := store.New(data)

	var contextOptions []form.ContextOption
	if e.uiSchema != nil {
		contextOptions = append(contextOptions, e.uiSchema.FormOptions()...)
	}
	contextOptions = append(contextOptions, e.formOptions...)
	contextOptions = append(contextOptions, options...)
	fctx, err := form.NewContext(st, root, contextOptions...)
	if err != nil {
		return nil, err
	}
	if err := fctx.Reconcile(); err != nil {
		return nil, err
	}
	return &Form{root: root, store: st, context: fctx}, nil
}

// FormFromOperation extracts the request body schema of one OpenAPI operation
// and builds a bound form for it.
func (e *Engine) FormFromOperation(ctx context.Context, document []byte, operationID string, options ...form.ContextOption) (*Form, error) {
	extractor := openapi.NewExtractor(e.extractorOptions)
	payload, err := extractor.RequestSchema(ctx, document, operationID)
	if err != nil {
		return nil, err
	}
	return e.FormFromPayload(payload, options...)
}

// Render produces output for the form using the named renderer. When the
// caller passes no theme and the engine carries a theme selector, the
// selection is resolved and injected.
func (e *Engine) Render(ctx context.Context, f *Form, rendererName string, options render.Options) ([]byte, error) {
	if f == nil {
		return nil, fmt.Errorf("schemaform: form is nil")
	}
	renderer, err := e.renderers.Get(rendererName)
	if err != nil {
		return nil, err
	}

	if options.Theme == nil && e.themeSelector != nil {
		cfg, err := render.ResolveTheme(e.themeSelector, e.themeName, e.themeVariant, e.themeFallbacks)
		if err != nil {
			return nil, err
		}
		options.Theme = cfg
	}

	view := render.View{Title: f.root.Title, Form: f.context}
	return renderer.Render(ctx, view, options)
}

// mergeData lays overlay over base. Records merge key by key with overlay
// winning; any other pairing takes the overlay wholesale.
func mergeData(base, overlay any) any {
	baseRecord, baseOK := base.(map[string]any)
	overlayRecord, overlayOK := overlay.(map[string]any)
	if !baseOK || !overlayOK {
		if overlay == nil {
			return base
		}
		return overlay
	}

	out := make(map[string]any, len(baseRecord)+len(overlayRecord))
	for key, value := range baseRecord {
		out[key] = value
	}
	for key, value := range overlayRecord {
		if existing, ok := out[key]; ok {
			out[key] = mergeData(existing, value)
			continue
		}
		out[key] = value
	}
	return out
}
