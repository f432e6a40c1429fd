package config

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// SourceRecord pins one declared attribute back to the definition, file, and
// line that declared it. It is created at load time and never mutated.
type SourceRecord struct {
	Definition string
	Filename   string
	Line       int
	Raw        string
}

// String renders the record in "file:line (item 'name')" form for diagnostics.
func (s *SourceRecord) String() string {
	return fmt.Sprintf("%s:%d (item %q)", s.Filename, s.Line, s.Definition)
}

// Attribute is one declared attribute on an item definition, carrying its
// evaluated value, the original expression, and provenance.
type Attribute struct {
	Name   string
	Value  cty.Value
	Expr   hcl.Expression
	Source *SourceRecord
}

// ScopedTransformer is a transformer declared inside an item block. Its render
// logic is an expression evaluated with a `value` variable bound to the
// attribute's current value. Scoped transformers are inherited by descendant
// definitions and shadow process-wide transformer kinds of the same name.
type ScopedTransformer struct {
	Name   string
	Render hcl.Expression
	Source *SourceRecord
}

// Definition is the model of one `item` block: a named, possibly-inheriting
// item declaration. Attributes preserve declaration order.
type Definition struct {
	Name         string
	ID           string
	Parent       string
	Attributes   []*Attribute
	Transformers []*ScopedTransformer
	DeclRange    hcl.Range
}

// Attribute returns the declared attribute with the given name, or nil.
func (d *Definition) Attribute(name string) *Attribute {
	for _, attr := range d.Attributes {
		if attr.Name == name {
			return attr
		}
	}
	return nil
}

// HasID reports whether the definition declared a stable item id.
func (d *Definition) HasID() bool {
	return d.ID != ""
}

// DuplicateDefinitionError is returned by Model.Define when two item blocks
// share a name. Duplicate definitions are a fatal configuration error.
type DuplicateDefinitionError struct {
	Name     string
	Previous hcl.Range
	New      hcl.Range
}

func (e *DuplicateDefinitionError) Error() string {
	return fmt.Sprintf("duplicate item definition %q at %s (previously defined at %s)",
		e.Name, e.New, e.Previous)
}

// Model is the unified representation of every item definition loaded during
// one build pass.
type Model struct {
	Definitions map[string]*Definition
	Order       []string
}

// NewModel creates an empty, initialized Model.
func NewModel() *Model {
	return &Model{
		Definitions: make(map[string]*Definition),
	}
}

// Define registers a new definition, preserving load order. It fails with
// DuplicateDefinitionError if the name is already taken.
func (m *Model) Define(def *Definition) error {
	if existing, ok := m.Definitions[def.Name]; ok {
		return &DuplicateDefinitionError{
			Name:     def.Name,
			Previous: existing.DeclRange,
			New:      def.DeclRange,
		}
	}
	m.Definitions[def.Name] = def
	m.Order = append(m.Order, def.Name)
	return nil
}
