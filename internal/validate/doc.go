// Package validate checks a fully resolved item output against structural
// shape specifications supplied by an external catalog. It never stops at the
// first failing field: every field is visited and all mismatches are
// collected, localized to the deepest failing path.
package validate
