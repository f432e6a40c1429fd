package itemerr

import (
	"fmt"
	"sort"
	"strings"
)

// Report aggregates every failure raised for one definition across discovery,
// resolution, and validation. The pipeline fails at end of pass, so by the
// time a report reaches the caller it holds the complete picture. All
// renderings are pure reads over the error graph.
type Report struct {
	Definition string
	Module     string
	errors     []error
}

// NewReport creates an empty report for the named definition.
func NewReport(definition, module string) *Report {
	return &Report{Definition: definition, Module: module}
}

// Add appends errors to the report, dropping nils.
func (r *Report) Add(errs ...error) {
	for _, err := range errs {
		if err != nil {
			r.errors = append(r.errors, err)
		}
	}
}

// HasErrors reports whether anything failed.
func (r *Report) HasErrors() bool {
	return len(r.errors) > 0
}

// Errors returns the collected top-level errors in the order they were raised.
func (r *Report) Errors() []error {
	return r.errors
}

// Error implements the error interface with the one-line summary.
func (r *Report) Error() string {
	return r.Summary()
}

// Summary renders a one-line overview grouping error counts by field and kind.
func (r *Report) Summary() string {
	if !r.HasErrors() {
		return fmt.Sprintf("item %q: ok", r.Definition)
	}

	counts := make(map[string]int)
	for _, err := range r.errors {
		key := kindOf(err)
		if name := nameOf(err); name != "" {
			key = name + ":" + key
		}
		counts[key]++
	}

	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		if n := counts[key]; n > 1 {
			parts = append(parts, fmt.Sprintf("%s x%d", key, n))
			continue
		}
		parts = append(parts, key)
	}

	return fmt.Sprintf("item %q failed with %d error(s): %s",
		r.Definition, len(r.errors), strings.Join(parts, ", "))
}

// Tree renders the nested suberror structure as an indented text tree.
func (r *Report) Tree() string {
	var b strings.Builder
	fmt.Fprintf(&b, "item %q (from %s)\n", r.Definition, r.Module)
	for _, err := range r.errors {
		writeTree(&b, err, 1)
	}
	return b.String()
}

func writeTree(b *strings.Builder, err error, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(b, "%s|_ %s\n", indent, err.Error())
	for _, sub := range subsOf(err) {
		writeTree(b, sub, depth+1)
	}
}

// Context renders per-error source localization and suggestion hints.
func (r *Report) Context() string {
	var b strings.Builder
	for _, err := range r.errors {
		fmt.Fprintf(&b, "- %s\n", err.Error())
		if src := sourceOf(err); src != nil {
			fmt.Fprintf(&b, "    declared at %s", src)
			if src.Raw != "" {
				fmt.Fprintf(&b, " as `%s`", src.Raw)
			}
			b.WriteString("\n")
		}
		if ce, ok := err.(*ComponentError); ok && len(ce.Suggestions) > 0 {
			fmt.Fprintf(&b, "    hint: did you mean %s?\n", quoteJoin(ce.Suggestions))
		}
	}
	return b.String()
}
