package filter

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrSyntax is returned by Parse for text that Compose could not have produced.
var ErrSyntax = errors.New("filter: syntax error")

// Clause is one filter function of a composed string, such as blur(2px).
type Clause struct {
	Name  string
	Value float64
}

// String renders the clause without the trailing separator.
func (c Clause) String() string {
	s, _ := Lookup(c.Name)
	return c.Name + "(" + FmtNum(c.Value) + s.Unit + ")"
}

// Compose builds the filter string for p. A parameter contributes only when
// its value is strictly positive, so 0 and "off" are the same thing. Every
// clause is followed by a space, including the last one.
func Compose(p Params) string {
	var b strings.Builder
	for _, c := range Clauses(p) {
		b.WriteString(c.String())
		b.WriteByte(' ')
	}
	return b.String()
}

// Clauses returns the active clauses of p in composition order.
func Clauses(p Params) []Clause {
	var out []Clause
	for i, s := range specs {
		if v := p.values[i]; v > 0 {
			out = append(out, Clause{Name: s.Key, Value: v})
		}
	}
	return out
}

// Parse splits a composed filter string back into clauses, in the order they
// appear. Only the eight known functions are accepted, each with its own unit.
func Parse(s string) ([]Clause, error) {
	var out []Clause
	for _, tok := range strings.Fields(s) {
		open := strings.IndexByte(tok, '(')
		if open <= 0 || !strings.HasSuffix(tok, ")") {
			return nil, fmt.Errorf("%w: %q", ErrSyntax, tok)
		}
		name := tok[:open]
		spec, ok := Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown function %q", ErrSyntax, name)
		}
		arg := tok[open+1 : len(tok)-1]
		if !strings.HasSuffix(arg, spec.Unit) {
			return nil, fmt.Errorf("%w: %s wants unit %q", ErrSyntax, name, spec.Unit)
		}
		v, err := strconv.ParseFloat(strings.TrimSuffix(arg, spec.Unit), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: %s value %q", ErrSyntax, name, arg)
		}
		out = append(out, Clause{Name: name, Value: v})
	}
	return out, nil
}
