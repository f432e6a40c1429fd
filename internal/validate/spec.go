package validate

import "fmt"

// Kind enumerates the shapes a spec can require.
type Kind int

const (
	Any Kind = iota
	String
	Int
	Float
	Bool
	List
	Struct
	Enum
	Union
)

func (k Kind) String() string {
	switch k {
	case Any:
		return "any"
	case String:
		return "string"
	case Int:
		return "int"
	case Float:
		return "float"
	case Bool:
		return "bool"
	case List:
		return "list"
	case Struct:
		return "struct"
	case Enum:
		return "enum"
	case Union:
		return "union"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Spec is one structural shape requirement. Which auxiliary fields apply
// depends on Kind: Fields for Struct, Elem for List, Members for Union,
// Values for Enum, Min/Max for the numeric kinds and list lengths.
type Spec struct {
	Kind    Kind
	Fields  map[string]*Field
	Elem    *Spec
	Members []*Spec
	Values  []any
	Min     *float64
	Max     *float64
}

// Field is one named sub-field of a Struct spec.
type Field struct {
	Spec     *Spec
	Required bool
}

// Describe names the expected shape for error messages.
func (s *Spec) Describe() string {
	switch s.Kind {
	case List:
		if s.Elem != nil {
			return "list of " + s.Elem.Describe()
		}
		return "list"
	case Enum:
		return fmt.Sprintf("one of %v", s.Values)
	case Union:
		names := make([]string, len(s.Members))
		for i, m := range s.Members {
			names[i] = m.Describe()
		}
		return "union(" + join(names) + ")"
	default:
		return s.Kind.String()
	}
}

// Catalog is the external source of shape specs, keyed by top-level field
// name. Fields also feeds the suggestion search for unknown attributes;
// RequiredFields lists fields every resolved item must carry.
type Catalog interface {
	Schema(field string) (*Spec, bool)
	Fields() []string
	RequiredFields() []string
}

func join(items []string) string {
	out := ""
	for i, s := range items {
		if i > 0 {
			out += "|"
		}
		out += s
	}
	return out
}
