// This file contains the logic for translating decoded item blocks into the
// format-agnostic model defined in the config package, including attribute
// ordering, source records, and definition naming rules.

package hcl

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/hashicorp/hcl/v2"

	"github.com/vk/itemforge/internal/config"
	"github.com/vk/itemforge/internal/ctxlog"
	"github.com/vk/itemforge/internal/schema"
)

// translateItem converts one decoded item block into a config.Definition.
func (l *Loader) translateItem(ctx context.Context, item *schema.Item, filename string, src []byte) (*config.Definition, error) {
	logger := ctxlog.FromContext(ctx)

	if item.Name != strings.ToLower(item.Name) {
		return nil, fmt.Errorf("item %q in %s must be defined in snake_case (%q)",
			item.Name, filename, titleToSnake(item.Name))
	}

	def := &config.Definition{
		Name:   item.Name,
		ID:     item.ID,
		Parent: item.Inherits,
	}

	if item.Components != nil {
		attrs, err := l.extractAttributes(item.Components.Body, item.Name, filename, src)
		if err != nil {
			return nil, err
		}
		def.Attributes = attrs
	}

	for _, tb := range item.Transformers {
		rng := tb.Render.Range()
		def.Transformers = append(def.Transformers, &config.ScopedTransformer{
			Name:   tb.Name,
			Render: tb.Render,
			Source: &config.SourceRecord{
				Definition: item.Name,
				Filename:   filename,
				Line:       rng.Start.Line,
				Raw:        rawText(rng, src),
			},
		})
	}

	logger.Debug("Translated item definition.",
		"item", def.Name,
		"attributes", len(def.Attributes),
		"scoped_transformers", len(def.Transformers),
	)
	return def, nil
}

// extractAttributes pulls every attribute out of a components block, keeping
// declaration order and recording provenance. Expressions are evaluated
// eagerly: item files are pure data and have no variable scope.
func (l *Loader) extractAttributes(body hcl.Body, itemName, filename string, src []byte) ([]*config.Attribute, error) {
	hclAttrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid components block for item %q: %w", itemName, diags)
	}

	ordered := make([]*hcl.Attribute, 0, len(hclAttrs))
	for _, attr := range hclAttrs {
		ordered = append(ordered, attr)
	}
	// JustAttributes returns a map; declaration order is recovered from the
	// source ranges.
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Range.Start.Byte < ordered[j].Range.Start.Byte
	})

	attrs := make([]*config.Attribute, 0, len(ordered))
	for _, attr := range ordered {
		val, valDiags := attr.Expr.Value(nil)
		if valDiags.HasErrors() {
			return nil, fmt.Errorf("invalid value for attribute %q of item %q: %w",
				attr.Name, itemName, valDiags)
		}

		attrs = append(attrs, &config.Attribute{
			Name:  attr.Name,
			Value: val,
			Expr:  attr.Expr,
			Source: &config.SourceRecord{
				Definition: itemName,
				Filename:   filename,
				Line:       attr.Range.Start.Line,
				Raw:        rawText(attr.Expr.Range(), src),
			},
		})
	}

	return attrs, nil
}

// rawText slices the original source text covered by a range, best effort.
func rawText(rng hcl.Range, src []byte) string {
	if src == nil || rng.Start.Byte < 0 || rng.End.Byte > len(src) || rng.Start.Byte > rng.End.Byte {
		return ""
	}
	return string(rng.SliceBytes(src))
}

// titleToSnake converts a TitleCase or camelCase name into snake_case, used
// to suggest the expected spelling of an item name.
func titleToSnake(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i != 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
