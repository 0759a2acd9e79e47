package tui

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/goliatone/go-schemaform/pkg/form"
	"github.com/goliatone/go-schemaform/pkg/render"
	"github.com/goliatone/go-schemaform/pkg/schema"
	"github.com/goliatone/go-schemaform/pkg/store"
)

// Renderer walks a reconciled form over an interactive prompt session. Every
// answer is written straight into the form's store, so variant switches and
// row additions go through the same operations a visual surface would use.
// Render returns the final snapshot serialized in the configured format.
type Renderer struct {
	driver            PromptDriver
	outputFormat      OutputFormat
	submitTransformer SubmitTransformer
}

// New constructs the TUI renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{outputFormat: OutputFormatJSON}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		driver, err := newSurveyDriver()
		if err != nil {
			return nil, fmt.Errorf("tui: construct prompt driver: %w", err)
		}
		r.driver = driver
	}
	return r, nil
}

func (r *Renderer) Name() string {
	return "tui"
}

func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain; charset=utf-8"
	default:
		return "application/json"
	}
}

func (r *Renderer) Render(ctx context.Context, view render.View, _ render.Options) ([]byte, error) {
	if view.Form == nil {
		return nil, fmt.Errorf("tui: view has no form")
	}

	rootID, ok := view.Form.IdentifierFor(nil)
	if !ok {
		return nil, fmt.Errorf("tui: form has no mounted root")
	}
	// The root object announces its own title during the walk; only an
	// explicit view title warrants a separate banner.
	if view.Title != "" {
		if err := r.driver.Info(ctx, view.Title); err != nil {
			return nil, err
		}
	}
	if err := r.promptNode(ctx, view.Form, rootID); err != nil {
		return nil, err
	}

	snapshot := view.Form.Store().Get()
	if r.submitTransformer != nil {
		transformed, err := r.submitTransformer(snapshot)
		if err != nil {
			return nil, fmt.Errorf("tui: transform submission: %w", err)
		}
		snapshot = transformed
	}
	return r.serialize(snapshot)
}

func (r *Renderer) promptNode(ctx context.Context, f *form.Context, identifier string) error {
	node, ok := f.Node(identifier)
	if !ok {
		return nil
	}

	if node.HasVariants() {
		return r.promptVariant(ctx, f, identifier, node)
	}

	switch node.Type {
	case schema.TypeObject:
		if node.IsMap() {
			return r.promptMap(ctx, f, identifier, node)
		}
		return r.promptObject(ctx, f, identifier, node)
	case schema.TypeArray:
		return r.promptArray(ctx, f, identifier, node)
	case schema.TypeNull:
		return nil
	default:
		return r.promptLeaf(ctx, f, identifier, node)
	}
}

func (r *Renderer) promptObject(ctx context.Context, f *form.Context, identifier string, node schema.Node) error {
	if node.Title != "" {
		if err := r.driver.Info(ctx, node.Title); err != nil {
			return err
		}
	}
	for _, child := range f.Children(identifier) {
		if err := r.promptNode(ctx, f, child); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) promptVariant(ctx context.Context, f *form.Context, identifier string, node schema.Node) error {
	options := make([]string, len(node.OneOf))
	for i, branch := range node.OneOf {
		if branch.Title != "" {
			options[i] = branch.Title
		} else {
			options[i] = "Option " + strconv.Itoa(i+1)
		}
	}

	current, _ := f.SelectedVariant(identifier)
	choice, err := r.driver.Select(ctx, SelectConfig{
		Message:      promptLabel(node, identifier),
		Options:      options,
		DefaultIndex: current,
		Help:         node.Description,
	})
	if err != nil {
		return err
	}
	if choice >= 0 && choice != current {
		if err := f.SwitchVariant(identifier, choice); err != nil {
			return err
		}
	}

	for _, child := range f.Children(identifier) {
		if err := r.promptNode(ctx, f, child); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) promptArray(ctx context.Context, f *form.Context, identifier string, node schema.Node) error {
	if node.Title != "" {
		if err := r.driver.Info(ctx, node.Title); err != nil {
			return err
		}
	}
	for _, child := range f.Children(identifier) {
		if err := r.promptNode(ctx, f, child); err != nil {
			return err
		}
	}

	if node.Items == nil {
		return nil
	}
	for {
		add, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: "Add another " + strings.ToLower(promptLabel(node, identifier)) + " entry?",
		})
		if err != nil {
			return err
		}
		if !add {
			return nil
		}
		rowID, err := f.AppendItem(identifier)
		if err != nil {
			return err
		}
		if err := r.promptNode(ctx, f, rowID); err != nil {
			return err
		}
	}
}

func (r *Renderer) promptMap(ctx context.Context, f *form.Context, identifier string, node schema.Node) error {
	if node.Title != "" {
		if err := r.driver.Info(ctx, node.Title); err != nil {
			return err
		}
	}
	for _, child := range f.Children(identifier) {
		if err := r.promptNode(ctx, f, child); err != nil {
			return err
		}
	}

	for {
		add, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: "Add another " + strings.ToLower(promptLabel(node, identifier)) + " entry?",
		})
		if err != nil {
			return err
		}
		if !add {
			return nil
		}
		key, err := r.driver.Input(ctx, InputConfig{Message: "Key"})
		if err != nil {
			return err
		}
		if key == "" {
			return nil
		}
		rowID, err := f.AddMapRow(identifier, key)
		if err != nil {
			return err
		}
		if err := r.promptNode(ctx, f, rowID); err != nil {
			return err
		}
	}
}

func (r *Renderer) promptLeaf(ctx context.Context, f *form.Context, identifier string, node schema.Node) error {
	path, ok := f.ResolvedPathFor(identifier)
	if !ok {
		path, _ = f.PathFor(identifier)
	}
	current, _ := f.Store().GetPath(path)
	label := promptLabel(node, identifier)

	if node.ReadOnly {
		return r.driver.Info(ctx, label+": "+formatScalar(current))
	}

	if len(node.Enum) > 0 {
		return r.promptEnum(ctx, f, path, node, label, current)
	}

	switch node.Type {
	case schema.TypeBoolean:
		value, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: label,
			Default: current == true,
			Help:    node.Description,
		})
		if err != nil {
			return err
		}
		f.Store().SetPath(path, value)
		return nil
	case schema.TypeNumber, schema.TypeInteger:
		return r.promptNumber(ctx, f, path, node, label, current)
	default:
		return r.promptString(ctx, f, path, node, label, current)
	}
}

func (r *Renderer) promptEnum(ctx context.Context, f *form.Context, path store.Path, node schema.Node, label string, current any) error {
	options := make([]string, len(node.Enum))
	defaultIndex := 0
	for i, entry := range node.Enum {
		options[i] = formatScalar(entry)
		if current != nil && formatScalar(entry) == formatScalar(current) {
			defaultIndex = i
		}
	}
	choice, err := r.driver.Select(ctx, SelectConfig{
		Message:      label,
		Options:      options,
		DefaultIndex: defaultIndex,
		Help:         node.Description,
	})
	if err != nil {
		return err
	}
	if choice >= 0 && choice < len(node.Enum) {
		// Store the schema's own literal so enum types survive the prompt.
		f.Store().SetPath(path, node.Enum[choice])
	}
	return nil
}

func (r *Renderer) promptNumber(ctx context.Context, f *form.Context, path store.Path, node schema.Node, label string, current any) error {
	integer := node.Type == schema.TypeInteger
	answer, err := r.driver.Input(ctx, InputConfig{
		Message:   label,
		Default:   formatScalar(current),
		Help:      node.Description,
		Validator: numberValidator(node, integer),
	})
	if err != nil {
		return err
	}
	if answer == "" {
		return nil
	}
	value, err := strconv.ParseFloat(answer, 64)
	if err != nil {
		return fmt.Errorf("tui: parse %s: %w", label, err)
	}
	f.Store().SetPath(path, value)
	return nil
}

func (r *Renderer) promptString(ctx context.Context, f *form.Context, path store.Path, node schema.Node, label string, current any) error {
	cfg := InputConfig{
		Message:   label,
		Default:   formatScalar(current),
		Help:      node.Description,
		Validator: stringValidator(node),
	}

	var answer string
	var err error
	switch node.Format {
	case "password":
		answer, err = r.driver.Password(ctx, cfg)
	case "textarea", "multiline":
		answer, err = r.driver.TextArea(ctx, TextAreaConfig{
			Message: cfg.Message,
			Default: cfg.Default,
			Help:    cfg.Help,
		})
	default:
		answer, err = r.driver.Input(ctx, cfg)
	}
	if err != nil {
		return err
	}
	f.Store().SetPath(path, answer)
	return nil
}

func stringValidator(node schema.Node) func(string) error {
	if !node.Required && node.MinLength == nil {
		return nil
	}
	minLength := 0
	if node.Required {
		minLength = 1
	}
	if node.MinLength != nil && *node.MinLength > minLength {
		minLength = *node.MinLength
	}
	return func(value string) error {
		if len(value) < minLength {
			return fmt.Errorf("at least %d characters required", minLength)
		}
		return nil
	}
}

func numberValidator(node schema.Node, integer bool) func(string) error {
	return func(value string) error {
		if value == "" {
			return nil
		}
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("not a number")
		}
		if integer && parsed != float64(int64(parsed)) {
			return fmt.Errorf("not an integer")
		}
		if node.Minimum != nil && parsed < *node.Minimum {
			return fmt.Errorf("must be at least %s", formatScalar(*node.Minimum))
		}
		if node.Maximum != nil && parsed > *node.Maximum {
			return fmt.Errorf("must be at most %s", formatScalar(*node.Maximum))
		}
		return nil
	}
}

func promptLabel(node schema.Node, identifier string) string {
	if node.Title != "" {
		return node.Title
	}
	if node.Key != "" {
		return node.Key
	}
	if idx := strings.LastIndex(identifier, "."); idx >= 0 {
		return identifier[idx+1:]
	}
	return identifier
}

func (r *Renderer) serialize(snapshot any) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		values := url.Values{}
		encodeForm(values, "", snapshot)
		return []byte(values.Encode()), nil
	case OutputFormatPrettyText:
		var b strings.Builder
		writePretty(&b, 0, "", snapshot)
		return []byte(b.String()), nil
	default:
		out, err := json.MarshalIndent(snapshot, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("tui: encode submission: %w", err)
		}
		return out, nil
	}
}

func encodeForm(values url.Values, prefix string, value any) {
	switch v := value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			encodeForm(values, joinFormName(prefix, key), v[key])
		}
	case []any:
		for i, entry := range v {
			encodeForm(values, joinFormName(prefix, strconv.Itoa(i)), entry)
		}
	default:
		if prefix == "" {
			prefix = "value"
		}
		values.Add(prefix, formatScalar(value))
	}
}

func joinFormName(prefix, segment string) string {
	if prefix == "" {
		return segment
	}
	return prefix + "[" + segment + "]"
}

func writePretty(b *strings.Builder, depth int, label string, value any) {
	indent := strings.Repeat("  ", depth)
	switch v := value.(type) {
	case map[string]any:
		if label != "" {
			fmt.Fprintf(b, "%s%s:\n", indent, label)
			depth++
		}
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			writePretty(b, depth, key, v[key])
		}
	case []any:
		if label != "" {
			fmt.Fprintf(b, "%s%s:\n", indent, label)
			depth++
		}
		for i, entry := range v {
			writePretty(b, depth, strconv.Itoa(i), entry)
		}
	default:
		if label == "" {
			label = "value"
		}
		fmt.Fprintf(b, "%s%s: %s\n", indent, label, formatScalar(value))
	}
}

func formatScalar(value any) string {
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
