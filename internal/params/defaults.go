package params

import (
	"fmt"
	"strconv"
)

// Kind is the semantic type a parameter is coerced to.
type Kind int

const (
	KindFloat Kind = iota
	KindInt
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindInt:
		return "int"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// Value is a typed parameter value.
type Value struct {
	kind Kind
	f    float64
	i    int64
	s    string
}

// FloatValue returns a float-kinded value.
func FloatValue(v float64) Value { return Value{kind: KindFloat, f: v} }

// IntValue returns an int-kinded value.
func IntValue(v int64) Value { return Value{kind: KindInt, i: v} }

// StringValue returns a string-kinded value.
func StringValue(v string) Value { return Value{kind: KindString, s: v} }

// Kind reports the value's kind.
func (v Value) Kind() Kind { return v.kind }

// Interface returns the value as float64, int64 or string.
func (v Value) Interface() any {
	switch v.kind {
	case KindFloat:
		return v.f
	case KindInt:
		return v.i
	default:
		return v.s
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	default:
		return v.s
	}
}

// Param declares one recognized parameter, its kind and its default.
type Param struct {
	Name    string
	Default Value
}

// Kind returns the kind declared by the default.
func (p Param) Kind() Kind { return p.Default.kind }

// Float declares a float parameter.
func Float(name string, def float64) Param { return Param{Name: name, Default: FloatValue(def)} }

// Int declares an integer parameter.
func Int(name string, def int64) Param { return Param{Name: name, Default: IntValue(def)} }

// String declares a string parameter.
func String(name, def string) Param { return Param{Name: name, Default: StringValue(def)} }

// DefaultSet is the ordered, immutable table of parameters a worker
// recognizes. Build it once with NewDefaultSet.
type DefaultSet struct {
	params []Param
	index  map[string]int
}

// NewDefaultSet builds a DefaultSet. It panics on an empty or duplicate
// name since default tables are static.
func NewDefaultSet(params ...Param) DefaultSet {
	ds := DefaultSet{
		params: make([]Param, len(params)),
		index:  make(map[string]int, len(params)),
	}
	for i, p := range params {
		if p.Name == "" {
			panic("params: empty parameter name")
		}
		if _, dup := ds.index[p.Name]; dup {
			panic(fmt.Sprintf("params: duplicate parameter %q", p.Name))
		}
		ds.params[i] = p
		ds.index[p.Name] = i
	}
	return ds
}

// Len returns the number of parameters.
func (d DefaultSet) Len() int { return len(d.params) }

// Params returns a copy of the parameter table in declaration order.
func (d DefaultSet) Params() []Param {
	out := make([]Param, len(d.params))
	copy(out, d.params)
	return out
}

// Names returns the parameter names in declaration order.
func (d DefaultSet) Names() []string {
	names := make([]string, len(d.params))
	for i, p := range d.params {
		names[i] = p.Name
	}
	return names
}

// Lookup returns the parameter declared under name.
func (d DefaultSet) Lookup(name string) (Param, bool) {
	i, ok := d.index[name]
	if !ok {
		return Param{}, false
	}
	return d.params[i], true
}

// Set returns the ParameterSet holding only defaults.
func (d DefaultSet) Set() Set {
	s := Set{defaults: d, values: make([]Value, len(d.params)), overridden: make([]bool, len(d.params))}
	for i, p := range d.params {
		s.values[i] = p.Default
	}
	return s
}
