package visibility

import (
	"fmt"
	"strconv"
	"strings"
)

// ruleEvaluator is the built-in, dependency-free rule engine.
//
// Grammar, loosest binding first:
//
//	or    := and ("||" and)*
//	and   := unary ("&&" unary)*
//	unary := "!" unary | primary
//	primary := "(" or ")" | operand (("==" | "!=") operand)?
//	operand := literal | path
//
// Literals are true, false, null, numbers and quoted strings. Paths are
// dot-separated lookups into Context.Values, or Context.Extras behind the
// "extras." prefix. A bare operand is truthy when it is neither nil, false,
// zero nor empty.
type ruleEvaluator struct{}

// NewEvaluator returns the built-in rule evaluator.
func NewEvaluator() Evaluator {
	return ruleEvaluator{}
}

func (ruleEvaluator) Eval(rule string, ctx Context) (bool, error) {
	trimmed := strings.TrimSpace(rule)
	if trimmed == "" {
		return true, nil
	}
	p := &ruleParser{tokens: tokenizeRule(trimmed)}
	result, err := p.parseOr(ctx)
	if err != nil {
		return false, fmt.Errorf("visibility: parse %q: %w", rule, err)
	}
	if !p.done() {
		return false, fmt.Errorf("visibility: parse %q: trailing input at %q", rule, p.peek())
	}
	return result, nil
}

type ruleParser struct {
	tokens []string
	pos    int
}

func (p *ruleParser) done() bool {
	return p.pos >= len(p.tokens)
}

func (p *ruleParser) peek() string {
	if p.done() {
		return ""
	}
	return p.tokens[p.pos]
}

func (p *ruleParser) next() string {
	token := p.peek()
	p.pos++
	return token
}

func (p *ruleParser) parseOr(ctx Context) (bool, error) {
	left, err := p.parseAnd(ctx)
	if err != nil {
		return false, err
	}
	for p.peek() == "||" {
		p.next()
		right, err := p.parseAnd(ctx)
		if err != nil {
			return false, err
		}
		left = left || right
	}
	return left, nil
}

func (p *ruleParser) parseAnd(ctx Context) (bool, error) {
	left, err := p.parseUnary(ctx)
	if err != nil {
		return false, err
	}
	for p.peek() == "&&" {
		p.next()
		right, err := p.parseUnary(ctx)
		if err != nil {
			return false, err
		}
		left = left && right
	}
	return left, nil
}

func (p *ruleParser) parseUnary(ctx Context) (bool, error) {
	if p.peek() == "!" {
		p.next()
		value, err := p.parseUnary(ctx)
		if err != nil {
			return false, err
		}
		return !value, nil
	}
	return p.parsePrimary(ctx)
}

func (p *ruleParser) parsePrimary(ctx Context) (bool, error) {
	if p.peek() == "(" {
		p.next()
		value, err := p.parseOr(ctx)
		if err != nil {
			return false, err
		}
		if p.next() != ")" {
			return false, fmt.Errorf("missing closing parenthesis")
		}
		return value, nil
	}

	left, err := p.parseOperand(ctx)
	if err != nil {
		return false, err
	}

	operator := p.peek()
	if operator != "==" && operator != "!=" {
		return truthy(left), nil
	}
	p.next()
	right, err := p.parseOperand(ctx)
	if err != nil {
		return false, err
	}

	equal := compareValues(left, right)
	if operator == "!=" {
		return !equal, nil
	}
	return equal, nil
}

func (p *ruleParser) parseOperand(ctx Context) (any, error) {
	token := p.next()
	switch {
	case token == "":
		return nil, fmt.Errorf("unexpected end of rule")
	case token == "true":
		return true, nil
	case token == "false":
		return false, nil
	case token == "null":
		return nil, nil
	case strings.HasPrefix(token, "'") || strings.HasPrefix(token, `"`):
		if len(token) < 2 || token[len(token)-1] != token[0] {
			return nil, fmt.Errorf("unterminated string %s", token)
		}
		return token[1 : len(token)-1], nil
	}
	if number, err := strconv.ParseFloat(token, 64); err == nil {
		return number, nil
	}
	if !isPathToken(token) {
		return nil, fmt.Errorf("unexpected token %q", token)
	}
	return lookupPath(ctx, token), nil
}

func lookupPath(ctx Context, path string) any {
	source := ctx.Values
	if rest, ok := strings.CutPrefix(path, "extras."); ok {
		source = ctx.Extras
		path = rest
	}
	var current any = source
	for _, segment := range strings.Split(path, ".") {
		record, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current, ok = record[segment]
		if !ok {
			return nil
		}
	}
	return current
}

func compareValues(left, right any) bool {
	if left == nil || right == nil {
		return left == right
	}
	// Numbers always compare numerically so "3" == 3.0 holds for decoded
	// JSON snapshots.
	if ln, lok := asNumber(left); lok {
		if rn, rok := asNumber(right); rok {
			return ln == rn
		}
	}
	return fmt.Sprintf("%v", left) == fmt.Sprintf("%v", right)
}

func asNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case float64:
		return v != 0
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	default:
		return true
	}
}

func isPathToken(token string) bool {
	for _, r := range token {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '_', r == '-', r == '.':
		default:
			return false
		}
	}
	return true
}

func tokenizeRule(rule string) []string {
	var tokens []string
	i := 0
	for i < len(rule) {
		c := rule[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c == '(' || c == ')':
			tokens = append(tokens, string(c))
			i++
		case c == '&' && i+1 < len(rule) && rule[i+1] == '&':
			tokens = append(tokens, "&&")
			i += 2
		case c == '|' && i+1 < len(rule) && rule[i+1] == '|':
			tokens = append(tokens, "||")
			i += 2
		case c == '=' && i+1 < len(rule) && rule[i+1] == '=':
			tokens = append(tokens, "==")
			i += 2
		case c == '!' && i+1 < len(rule) && rule[i+1] == '=':
			tokens = append(tokens, "!=")
			i += 2
		case c == '!':
			tokens = append(tokens, "!")
			i++
		case c == '\'' || c == '"':
			end := strings.IndexByte(rule[i+1:], c)
			if end < 0 {
				// Unterminated string; emit the rest and let the parser
				// reject it.
				tokens = append(tokens, rule[i:])
				return tokens
			}
			tokens = append(tokens, rule[i:i+end+2])
			i += end + 2
		default:
			start := i
			for i < len(rule) && !strings.ContainsRune(" \t()&|=!'\"", rune(rule[i])) {
				i++
			}
			if i == start {
				tokens = append(tokens, string(rule[i]))
				i++
			} else {
				tokens = append(tokens, rule[start:i])
			}
		}
	}
	return tokens
}
