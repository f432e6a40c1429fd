package resolver

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/itemforge/internal/config"
	"github.com/vk/itemforge/internal/ctxlog"
	"github.com/vk/itemforge/internal/inherit"
	"github.com/vk/itemforge/internal/itemerr"
	"github.com/vk/itemforge/internal/merge"
	"github.com/vk/itemforge/internal/registry"
	"github.com/vk/itemforge/internal/validate"
)

// CustomDataField is the reserved top-level output namespace. Its key naming
// (item_id, custom_components) is a compatibility contract with the
// downstream emission layer.
const CustomDataField = "custom_data"

// Resolver runs the compilation pipeline and memoizes results. It is built
// once per loaded model; construction fails on fatal configuration errors
// (cyclic or dangling inheritance).
type Resolver struct {
	model   *config.Model
	reg     *registry.Registry
	conv    config.Converter
	catalog validate.Catalog
	tree    *inherit.Tree
	cache   map[string]*cacheEntry
}

// New builds a Resolver for the given model and validates the inheritance
// graph up front, before any definition is resolved.
func New(model *config.Model, reg *registry.Registry, conv config.Converter, catalog validate.Catalog) (*Resolver, error) {
	tree, err := inherit.Build(model)
	if err != nil {
		return nil, err
	}
	return &Resolver{
		model:   model,
		reg:     reg,
		conv:    conv,
		catalog: catalog,
		tree:    tree,
		cache:   make(map[string]*cacheEntry),
	}, nil
}

// Resolve runs the full pipeline for the named definition. On success the
// returned output is a private copy the caller may mutate. A definition with
// recoverable failures yields a nil output and a complete report instead; an
// unknown definition name is the only hard error.
func (r *Resolver) Resolve(ctx context.Context, name string) (map[string]any, *itemerr.Report, error) {
	def, ok := r.model.Definitions[name]
	if !ok {
		return nil, nil, fmt.Errorf("unknown item definition %q", name)
	}

	entry, ok := r.cache[name]
	if !ok {
		entry = r.compute(ctx, def)
		r.cache[name] = entry
	}

	if entry.report != nil {
		return nil, entry.report, nil
	}
	return entry.materialize(ctx, nil), nil, nil
}

// ItemID returns the effective vanilla item id for a definition: its own
// declared id when present, otherwise the nearest ancestor's. The second
// return is false when no definition on the chain declares one.
func (r *Resolver) ItemID(name string) (string, bool) {
	chain := r.tree.Chain(name)
	for i := len(chain) - 1; i >= 0; i-- {
		if def, ok := r.model.Definitions[chain[i]]; ok && def.HasID() {
			return def.ID, true
		}
	}
	return "", false
}

// appliedHandler remembers one handler application so post-render hooks and
// volatile re-renders can replay it against the accumulated output.
type appliedHandler struct {
	attr      *config.Attribute
	component *registry.Component
	input     any
	rawNative any
	hook      registry.PostRenderFunc
}

// resolution is the working state of one pipeline run.
type resolution struct {
	def      *config.Definition
	output   map[string]any
	sources  map[string]*config.SourceRecord
	applied  []*appliedHandler // handlers that produced output, in order
	volatile []*appliedHandler // subset re-rendered on every access
	report   *itemerr.Report
}

// compute runs discovery and resolution once and caches the result. When the
// definition carries volatile (non-cacheable) handlers, the cached value is
// the stable base; materialize replays the volatile renders per access.
func (r *Resolver) compute(ctx context.Context, def *config.Definition) *cacheEntry {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Resolving item definition.", "item", def.Name)

	d := r.discover(def)
	res := &resolution{
		def:     def,
		output:  make(map[string]any),
		sources: make(map[string]*config.SourceRecord),
		report:  itemerr.NewReport(def.Name, def.DeclRange.Filename),
	}

	// Passthrough fields resolve first, in declaration order. Handler
	// outputs overlay them; that total order is part of the contract.
	var componentAttrs, transformerAttrs []*config.Attribute
	for _, attr := range d.attributes {
		switch r.classify(attr.Name, d) {
		case kindComponent:
			componentAttrs = append(componentAttrs, attr)
		case kindTransformer:
			transformerAttrs = append(transformerAttrs, attr)
		default:
			r.passthrough(res, attr)
		}
	}

	merge.InPlace(res.output, map[string]any{
		CustomDataField: map[string]any{"item_id": def.Name},
	})

	for _, attr := range componentAttrs {
		r.applyComponent(ctx, res, attr)
	}
	for _, attr := range transformerAttrs {
		r.applyTransformer(ctx, res, attr, d)
	}

	entry := &cacheEntry{
		sources: res.sources,
		applied: res.applied,
	}

	if len(res.volatile) == 0 {
		// Hooks run once and their effect is cached with the output.
		runHooks(ctx, res.applied, res.output, res.sources)
		entry.final = res.output
	} else {
		entry.base = res.output
		entry.volatile = res.volatile
	}

	out := entry.materialize(ctx, res.report)
	res.report.Add(validate.Output(out, r.catalog, r.kindNames(d), res.sources, defSource(def))...)

	if res.report.HasErrors() {
		logger.Debug("Item definition failed to resolve.", "item", def.Name, "errors", len(res.report.Errors()))
		entry.report = res.report
	} else {
		logger.Debug("Item definition resolved.", "item", def.Name, "fields", len(out))
	}
	return entry
}

type attrKind int

const (
	kindPassthrough attrKind = iota
	kindComponent
	kindTransformer
)

// classify decides how an attribute resolves. The most local declaration
// wins: a transformer scoped to the definition shadows process-wide kinds,
// then component kinds, then process-wide transformers; everything else
// passes through as a plain field.
func (r *Resolver) classify(name string, d *discovered) attrKind {
	if _, ok := d.transformers[name]; ok {
		return kindTransformer
	}
	if _, ok := r.reg.Component(name); ok {
		return kindComponent
	}
	if _, ok := r.reg.Transformer(name); ok {
		return kindTransformer
	}
	return kindPassthrough
}

// passthrough copies a plain attribute into the output verbatim.
func (r *Resolver) passthrough(res *resolution, attr *config.Attribute) {
	native, err := r.conv.ToNative(attr.Value)
	if err != nil {
		res.report.Add(&itemerr.ComponentError{
			Kind:   itemerr.CustomComponentFailure,
			Name:   attr.Name,
			Source: attr.Source,
			Msg:    err.Error(),
		})
		return
	}
	res.output[attr.Name] = native
	res.sources[attr.Name] = attr.Source
}

// applyComponent instantiates a component handler from the attribute value,
// renders it, and merges the fragment. The attribute key itself never
// appears in the output; its raw input is recorded under
// custom_data.custom_components instead.
func (r *Resolver) applyComponent(ctx context.Context, res *resolution, attr *config.Attribute) {
	comp, _ := r.reg.Component(attr.Name)
	rawNative, _ := r.conv.ToNative(attr.Value)

	input := comp.NewInput()
	if err := r.conv.DecodeInput(ctx, input, attr.Value); err != nil {
		res.report.Add(&itemerr.ComponentError{
			Kind:      itemerr.CustomComponentFailure,
			Name:      attr.Name,
			Value:     rawNative,
			Suberrors: fieldSuberrors(err, attr.Source),
			Source:    attr.Source,
		})
		return
	}

	applied := &appliedHandler{
		attr:      attr,
		component: comp,
		input:     input,
		rawNative: rawNative,
		hook:      comp.PostRender,
	}

	if comp.NoCache {
		// Render is replayed on every access; materialize owns it.
		res.volatile = append(res.volatile, applied)
		res.applied = append(res.applied, applied)
		return
	}

	fragment, err := comp.Render(ctx, input)
	if err != nil {
		res.report.Add(&itemerr.ComponentError{
			Kind:   itemerr.CustomComponentFailure,
			Name:   attr.Name,
			Value:  rawNative,
			Source: attr.Source,
			Msg:    err.Error(),
		})
		return
	}
	if fragment == nil {
		return
	}

	mergeFragment(res.output, res.sources, applied, fragment)
	res.applied = append(res.applied, applied)
}

// applyTransformer replaces the attribute's value under its own key. A nil
// render result passes the raw value through unchanged.
func (r *Resolver) applyTransformer(ctx context.Context, res *resolution, attr *config.Attribute, d *discovered) {
	rawNative, err := r.conv.ToNative(attr.Value)
	if err != nil {
		res.report.Add(&itemerr.ComponentError{
			Kind:   itemerr.CustomTransformerFailure,
			Name:   attr.Name,
			Source: attr.Source,
			Msg:    err.Error(),
		})
		return
	}

	res.sources[attr.Name] = attr.Source

	if st, ok := d.transformers[attr.Name]; ok {
		r.applyScopedTransformer(res, attr, st, rawNative)
		return
	}

	tr, _ := r.reg.Transformer(attr.Name)
	input := tr.NewInput()
	if err := r.conv.DecodeInput(ctx, input, attr.Value); err != nil {
		res.report.Add(&itemerr.ComponentError{
			Kind:      itemerr.CustomTransformerFailure,
			Name:      attr.Name,
			Value:     rawNative,
			Suberrors: fieldSuberrors(err, attr.Source),
			Source:    attr.Source,
		})
		return
	}

	replacement, err := tr.Transform(ctx, input)
	if err != nil {
		res.report.Add(&itemerr.ComponentError{
			Kind:   itemerr.CustomTransformerFailure,
			Name:   attr.Name,
			Value:  rawNative,
			Source: attr.Source,
			Msg:    err.Error(),
		})
		return
	}

	if replacement == nil {
		res.output[attr.Name] = rawNative
		return
	}
	res.output[attr.Name] = replacement
	res.applied = append(res.applied, &appliedHandler{
		attr:      attr,
		input:     input,
		rawNative: rawNative,
		hook:      tr.PostRender,
	})
}

// applyScopedTransformer evaluates a definition-scoped render expression with
// the attribute's current value bound to `value`.
func (r *Resolver) applyScopedTransformer(res *resolution, attr *config.Attribute, st *config.ScopedTransformer, rawNative any) {
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{"value": attr.Value},
	}

	result, diags := st.Render.Value(evalCtx)
	if diags.HasErrors() {
		res.report.Add(&itemerr.ComponentError{
			Kind:   itemerr.CustomTransformerFailure,
			Name:   attr.Name,
			Value:  rawNative,
			Source: st.Source,
			Msg:    diags.Error(),
		})
		return
	}

	if result.IsNull() {
		res.output[attr.Name] = rawNative
		return
	}

	native, err := r.conv.ToNative(result)
	if err != nil {
		res.report.Add(&itemerr.ComponentError{
			Kind:   itemerr.CustomTransformerFailure,
			Name:   attr.Name,
			Value:  rawNative,
			Source: st.Source,
			Msg:    err.Error(),
		})
		return
	}
	res.output[attr.Name] = native
}

// mergeFragment folds one rendered fragment into the output: the raw input is
// recorded in the reserved namespace, the fragment overlays the output, and
// every top-level key it touched points back at the producing attribute.
func mergeFragment(output map[string]any, sources map[string]*config.SourceRecord, applied *appliedHandler, fragment map[string]any) {
	merge.InPlace(output, map[string]any{
		CustomDataField: map[string]any{
			"custom_components": map[string]any{applied.attr.Name: applied.rawNative},
		},
	})
	merge.InPlace(output, fragment)
	for key := range fragment {
		sources[key] = applied.attr.Source
	}
}

// runHooks invokes post-render hooks over the full accumulated output, in
// the order their handlers produced output. This is the last
// content-producing step. Top-level keys a hook introduces are attributed to
// the hook's own attribute, so validation errors on them still point at a
// declaration.
func runHooks(ctx context.Context, applied []*appliedHandler, output map[string]any, sources map[string]*config.SourceRecord) {
	for _, a := range applied {
		if a.hook == nil {
			continue
		}
		a.hook(ctx, a.input, output)
		for key := range output {
			if key == CustomDataField {
				continue
			}
			if _, ok := sources[key]; !ok {
				sources[key] = a.attr.Source
			}
		}
	}
}

// fieldSuberrors maps per-field decode failures onto the validation error
// shape so reports render uniformly.
func fieldSuberrors(err error, src *config.SourceRecord) []error {
	decodeErr, ok := err.(*config.FieldDecodeError)
	if !ok {
		return []error{err}
	}
	subs := make([]error, 0, len(decodeErr.Fields))
	for _, f := range decodeErr.Fields {
		kind := itemerr.UnexpectedType
		if f.Missing {
			kind = itemerr.MissingField
		}
		subs = append(subs, &itemerr.ValidationError{
			Kind:     kind,
			Name:     f.Name,
			Value:    f.Value,
			Expected: f.Expected,
			Source:   src,
			Msg:      f.Msg,
		})
	}
	return subs
}

// kindNames lists every handler kind visible to a definition, for the
// suggestion search.
func (r *Resolver) kindNames(d *discovered) []string {
	kinds := r.reg.Kinds()
	for name := range d.transformers {
		kinds = append(kinds, name)
	}
	return kinds
}

func defSource(def *config.Definition) *config.SourceRecord {
	return &config.SourceRecord{
		Definition: def.Name,
		Filename:   def.DeclRange.Filename,
		Line:       def.DeclRange.Start.Line,
	}
}
