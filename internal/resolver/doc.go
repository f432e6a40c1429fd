// Package resolver runs the compilation pipeline over item definitions:
// discovery of declared attributes, application of component and transformer
// handlers, deep-merging of rendered fragments, schema validation, and
// memoization of the final output.
//
// Resolution is single-threaded and deterministic. A definition either
// resolves to its complete output or to a report carrying every failure found
// during the pass; one bad definition never prevents others from resolving.
package resolver
