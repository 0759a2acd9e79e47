package validation

// Keywords the correlation logic discriminates on. Everything else passes
// through untouched.
const (
	KeywordRequired = "required"
	KeywordOneOf    = "oneOf"
	KeywordAnyOf    = "anyOf"
)

// Error is the wire shape expected from a schema validation engine: an
// instance path (JSON pointer into the data), the keyword that failed, a
// human message and keyword-specific params. The library never validates
// schemas itself; it only correlates these back to visual elements.
type Error struct {
	InstancePath string
	Keyword      string
	Message      string
	Params       map[string]any
}

// MissingProperty returns the params entry required-keyword errors carry.
func (e Error) MissingProperty() string {
	if e.Params == nil {
		return ""
	}
	name, _ := e.Params["missingProperty"].(string)
	return name
}

// Validator checks a data snapshot against the originating schema. A nil or
// empty result means the snapshot is valid.
type Validator interface {
	Validate(data any) []Error
}

// Func adapts a plain function to the Validator interface.
type Func func(data any) []Error

// Validate implements Validator.
func (f Func) Validate(data any) []Error {
	if f == nil {
		return nil
	}
	return f(data)
}
