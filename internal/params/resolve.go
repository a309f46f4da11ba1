package params

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// ErrCoercion is wrapped by every CoercionError.
var ErrCoercion = errors.New("parameter coercion failed")

// CoercionError reports a raw value that cannot be converted to the kind
// declared by its default. It is fatal for the invocation.
type CoercionError struct {
	Param string
	Kind  Kind
	Raw   string
	Err   error
}

func (e *CoercionError) Error() string {
	msg := fmt.Sprintf("parameter %q: cannot convert %s to %s", e.Param, e.Raw, e.Kind)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *CoercionError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrCoercion}
	}
	return []error{ErrCoercion, e.Err}
}

// Result carries a resolved Set together with what the resolver observed
// about the raw input.
type Result struct {
	Set Set
	// Fallback is true when the input was empty, malformed or not an object
	// and was treated as an empty mapping.
	Fallback bool
	// Ignored lists raw keys absent from the DefaultSet in order of first
	// appearance.
	Ignored []string
}

// ResolveReader reads r to end of stream and resolves it against defaults.
func ResolveReader(defaults DefaultSet, r io.Reader) (Result, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read input: %w", err)
	}
	return ResolveDetailed(defaults, raw)
}

// Resolve merges raw over defaults. Empty or malformed raw input yields the
// defaults unchanged; unknown keys are ignored; a present non-null value is
// coerced to the default's kind.
func Resolve(defaults DefaultSet, raw []byte) (Set, error) {
	res, err := ResolveDetailed(defaults, raw)
	if err != nil {
		return Set{}, err
	}
	return res.Set, nil
}

// ResolveDetailed is Resolve with the fallback and ignored-key details.
func ResolveDetailed(defaults DefaultSet, raw []byte) (Result, error) {
	set := defaults.Set()
	mapping, ok := decodeMapping(raw)
	if !ok {
		return Result{Set: set, Fallback: true}, nil
	}

	var ignored []string
	for _, key := range mapping.keys {
		if _, known := defaults.index[key]; !known {
			ignored = append(ignored, key)
		}
	}

	for i, p := range defaults.params {
		rv, present := mapping.values[p.Name]
		if !present || isNull(rv) {
			continue
		}
		v, err := coerce(p, rv)
		if err != nil {
			return Result{}, err
		}
		set.values[i] = v
		set.overridden[i] = true
	}

	return Result{Set: set, Ignored: ignored}, nil
}

type rawMapping struct {
	keys   []string
	values map[string]json.RawMessage
}

func decodeMapping(raw []byte) (rawMapping, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return rawMapping{}, false
	}

	var values map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &values); err != nil {
		return rawMapping{}, false
	}

	keys, err := objectKeys(trimmed)
	if err != nil {
		return rawMapping{}, false
	}
	return rawMapping{keys: keys, values: values}, true
}

// objectKeys returns the distinct top-level keys of a JSON object in order
// of first appearance.
func objectKeys(obj []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(obj))
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := tok.(string)
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, err
		}
	}
	return keys, nil
}

func isNull(rv json.RawMessage) bool {
	return string(bytes.TrimSpace(rv)) == "null"
}

func coerce(p Param, rv json.RawMessage) (Value, error) {
	text := string(bytes.TrimSpace(rv))
	fail := func(err error) (Value, error) {
		return Value{}, &CoercionError{Param: p.Name, Kind: p.Kind(), Raw: text, Err: err}
	}

	var decoded any
	dec := json.NewDecoder(bytes.NewReader(rv))
	dec.UseNumber()
	if err := dec.Decode(&decoded); err != nil {
		return fail(err)
	}

	switch p.Kind() {
	case KindFloat:
		f, err := toFloat(decoded)
		if err != nil {
			return fail(err)
		}
		return FloatValue(f), nil
	case KindInt:
		i, err := toInt(decoded)
		if err != nil {
			return fail(err)
		}
		return IntValue(i), nil
	case KindString:
		s, err := toString(decoded)
		if err != nil {
			return fail(err)
		}
		return StringValue(s), nil
	default:
		return fail(fmt.Errorf("unsupported kind %d", p.Kind()))
	}
}

func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case json.Number:
		return parseFiniteFloat(x.String())
	case string:
		return parseFiniteFloat(strings.TrimSpace(x))
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("unsupported JSON type %T", v)
	}
}

func parseFiniteFloat(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("non-finite value %s", s)
	}
	return f, nil
}

func toInt(v any) (int64, error) {
	switch x := v.(type) {
	case json.Number:
		if i, err := strconv.ParseInt(x.String(), 10, 64); err == nil {
			return i, nil
		}
		f, err := parseFiniteFloat(x.String())
		if err != nil {
			return 0, err
		}
		t := math.Trunc(f)
		if t < math.MinInt64 || t >= math.MaxInt64 {
			return 0, fmt.Errorf("value %s out of integer range", x)
		}
		return int64(t), nil
	case string:
		return strconv.ParseInt(strings.TrimSpace(x), 10, 64)
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("unsupported JSON type %T", v)
	}
}

func toString(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case json.Number:
		return x.String(), nil
	case bool:
		return strconv.FormatBool(x), nil
	default:
		return "", fmt.Errorf("unsupported JSON type %T", v)
	}
}
