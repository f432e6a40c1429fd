package itemerr

import (
	"fmt"
	"strings"

	"github.com/vk/itemforge/internal/config"
)

// ComponentKind discriminates the resolution error family.
type ComponentKind string

const (
	// NonExistentComponent marks an attribute that matches neither a vanilla
	// field nor a registered handler kind.
	NonExistentComponent ComponentKind = "non_existent_component"
	// CustomComponentFailure marks a component handler that rejected its
	// input or failed to render.
	CustomComponentFailure ComponentKind = "custom_component_failure"
	// CustomTransformerFailure marks a transformer handler that rejected its
	// input or failed to render.
	CustomTransformerFailure ComponentKind = "custom_transformer_failure"
)

// ValidationKind discriminates the schema error family.
type ValidationKind string

const (
	// MissingField marks a field the schema requires but the output lacks.
	MissingField ValidationKind = "missing_field"
	// UnexpectedType marks a value present in the wrong shape.
	UnexpectedType ValidationKind = "unexpected_type"
)

// ComponentError describes a failure to resolve one declared attribute.
type ComponentError struct {
	Kind        ComponentKind
	Name        string
	Value       any
	Suberrors   []error
	Source      *config.SourceRecord
	Suggestions []string
	Msg         string
}

func (e *ComponentError) Error() string {
	switch {
	case e.Msg != "":
		return fmt.Sprintf("component '%s': %s", e.Name, e.Msg)
	case e.Kind == NonExistentComponent:
		if len(e.Suggestions) > 0 {
			return fmt.Sprintf("component '%s' does not exist (did you mean %s?)",
				e.Name, quoteJoin(e.Suggestions))
		}
		return fmt.Sprintf("component '%s' does not exist", e.Name)
	default:
		return fmt.Sprintf("component '%s' failed to resolve", e.Name)
	}
}

// ValidationError describes one shape mismatch between the resolved output
// and the vanilla schema. Structural mismatches inside nested containers are
// chained through Suberrors, with the deepest failing path innermost.
type ValidationError struct {
	Kind      ValidationKind
	Name      string
	Value     any
	Expected  string
	Suberrors []error
	Source    *config.SourceRecord
	Msg       string
}

func (e *ValidationError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("field '%s': %s", e.Name, e.Msg)
	}
	if e.Kind == MissingField {
		return fmt.Sprintf("field '%s' is required but missing (expected %s)", e.Name, e.Expected)
	}
	return fmt.Sprintf("field '%s' has unexpected type: expected %s, got %v", e.Name, e.Expected, shortValue(e.Value))
}

// subsOf exposes nested suberrors uniformly for the tree renderer.
func subsOf(err error) []error {
	switch e := err.(type) {
	case *ComponentError:
		return e.Suberrors
	case *ValidationError:
		return e.Suberrors
	default:
		return nil
	}
}

func sourceOf(err error) *config.SourceRecord {
	switch e := err.(type) {
	case *ComponentError:
		return e.Source
	case *ValidationError:
		return e.Source
	default:
		return nil
	}
}

func nameOf(err error) string {
	switch e := err.(type) {
	case *ComponentError:
		return e.Name
	case *ValidationError:
		return e.Name
	default:
		return ""
	}
}

func kindOf(err error) string {
	switch e := err.(type) {
	case *ComponentError:
		return string(e.Kind)
	case *ValidationError:
		return string(e.Kind)
	default:
		return "error"
	}
}

func quoteJoin(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = "'" + s + "'"
	}
	return strings.Join(quoted, ", ")
}

// shortValue truncates long values so one bad lore list does not flood the
// report.
func shortValue(v any) string {
	s := fmt.Sprintf("%v", v)
	if len(s) > 60 {
		s = s[:57] + "..."
	}
	return s
}
