// Package params resolves a worker's parameter set from its raw input.
//
// Every worker declares a DefaultSet: the ordered table of parameters it
// recognizes, each with a kind (float, int or string) and a default value.
// Resolution reads the whole input, decodes it as a JSON object and
// overrides defaults field by field:
//
//   - empty, malformed or non-object input is treated as an empty object
//   - keys the DefaultSet does not declare are ignored
//   - a null value behaves as if the key were absent
//   - any other value is coerced to the declared kind; a value that cannot
//     be coerced yields a *CoercionError, which is fatal for the invocation
//
// The resulting Set always has exactly the keys of its DefaultSet.
package params
