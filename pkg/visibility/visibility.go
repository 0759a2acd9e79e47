// Package visibility evaluates conditional-display rules against the current
// form data. Rules are small expressions over data paths, e.g.
// "tls.enabled == true && mode != 'off'", and plug into the form engine as a
// visibility predicate.
package visibility

import (
	"github.com/goliatone/go-schemaform/pkg/form"
	"github.com/goliatone/go-schemaform/pkg/schema"
	"github.com/goliatone/go-schemaform/pkg/store"
)

// Context provides inputs to an Evaluator. Values is the current data
// snapshot; Extras allows callers to inject arbitrary context such as user
// roles or feature flags, addressed with the "extras." prefix.
type Context struct {
	Values map[string]any
	Extras map[string]any
}

// Evaluator decides whether an element should be visible for a rule string.
type Evaluator interface {
	Eval(rule string, ctx Context) (bool, error)
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(rule string, ctx Context) (bool, error)

// Eval delegates to the underlying function.
func (fn EvaluatorFunc) Eval(rule string, ctx Context) (bool, error) {
	return fn(rule, ctx)
}

// FormOption builds a form visibility predicate from per-identifier rules.
// The snapshot is read from the store on every check, so rules react to the
// data as it changes between reconciliations. Elements without a rule stay
// visible, as do elements whose rule fails to evaluate.
func FormOption(evaluator Evaluator, st *store.Store, rules map[string]string, extras map[string]any) form.ContextOption {
	if evaluator == nil {
		evaluator = NewEvaluator()
	}
	return form.WithVisibility(func(_ schema.Node, identifier string) bool {
		rule, ok := rules[identifier]
		if !ok || rule == "" {
			return true
		}
		values, _ := st.Get().(map[string]any)
		visible, err := evaluator.Eval(rule, Context{Values: values, Extras: extras})
		if err != nil {
			return true
		}
		return visible
	})
}
