package params

import "fmt"

// Set is a resolved ParameterSet. It always holds exactly the keys of its
// DefaultSet, each with a value of the declared kind.
type Set struct {
	defaults   DefaultSet
	values     []Value
	overridden []bool
}

// Len returns the number of parameters.
func (s Set) Len() int { return len(s.values) }

// Names returns the parameter names in declaration order.
func (s Set) Names() []string { return s.defaults.Names() }

// Value returns the resolved value for name.
func (s Set) Value(name string) (Value, bool) {
	i, ok := s.defaults.index[name]
	if !ok {
		return Value{}, false
	}
	return s.values[i], true
}

// Overridden reports whether name was taken from the raw input.
func (s Set) Overridden(name string) bool {
	i, ok := s.defaults.index[name]
	return ok && s.overridden[i]
}

// Overrides returns the number of values taken from the raw input.
func (s Set) Overrides() int {
	n := 0
	for _, o := range s.overridden {
		if o {
			n++
		}
	}
	return n
}

// Float returns a float parameter. Asking for an undeclared name or the
// wrong kind is a programming error and panics.
func (s Set) Float(name string) float64 { return s.must(name, KindFloat).f }

// Int returns an int parameter. See Float for panics.
func (s Set) Int(name string) int64 { return s.must(name, KindInt).i }

// String returns a string parameter. See Float for panics.
func (s Set) String(name string) string { return s.must(name, KindString).s }

// Map returns the set as a plain map, for logging and introspection.
func (s Set) Map() map[string]any {
	m := make(map[string]any, len(s.values))
	for i, p := range s.defaults.params {
		m[p.Name] = s.values[i].Interface()
	}
	return m
}

// Equal reports whether two sets hold the same names and values.
func (s Set) Equal(other Set) bool {
	if len(s.values) != len(other.values) {
		return false
	}
	for i, p := range s.defaults.params {
		v, ok := other.Value(p.Name)
		if !ok || v != s.values[i] {
			return false
		}
	}
	return true
}

func (s Set) must(name string, kind Kind) Value {
	v, ok := s.Value(name)
	if !ok {
		panic(fmt.Sprintf("params: undeclared parameter %q", name))
	}
	if v.kind != kind {
		panic(fmt.Sprintf("params: parameter %q is %s, not %s", name, v.kind, kind))
	}
	return v
}
