package resolver

import (
	"context"
	"fmt"
)

// Inspection is the diagnostic view of one definition: what was declared,
// which handlers fired, and what came out.
type Inspection struct {
	RawAttributes   map[string]any
	AttributeOrder  []string
	AppliedHandlers []string
	Output          map[string]any
	Summary         string
}

// DebugInspect runs the pipeline for the named definition without touching
// the cache and reports its intermediate state. Handlers are re-executed, but
// no resolver state is mutated.
func (r *Resolver) DebugInspect(ctx context.Context, name string) (*Inspection, error) {
	def, ok := r.model.Definitions[name]
	if !ok {
		return nil, fmt.Errorf("unknown item definition %q", name)
	}

	d := r.discover(def)
	insp := &Inspection{
		RawAttributes: make(map[string]any, len(d.attributes)),
	}
	for _, attr := range d.attributes {
		native, err := r.conv.ToNative(attr.Value)
		if err != nil {
			native = fmt.Sprintf("<!%v>", err)
		}
		insp.RawAttributes[attr.Name] = native
		insp.AttributeOrder = append(insp.AttributeOrder, attr.Name)
	}

	entry := r.compute(ctx, def)
	for _, a := range entry.applied {
		insp.AppliedHandlers = append(insp.AppliedHandlers, a.attr.Name)
	}
	if entry.report != nil {
		insp.Summary = entry.report.Summary()
		return insp, nil
	}

	insp.Output = entry.materialize(ctx, nil)
	insp.Summary = fmt.Sprintf("item %q: ok", name)
	return insp, nil
}
