package app

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vk/itemforge/internal/ctxlog"
	"github.com/vk/itemforge/internal/nbt"
)

// itemDocument is the JSON shape emitted per resolved item.
type itemDocument struct {
	Item       string         `json:"item"`
	ID         string         `json:"id,omitempty"`
	Components map[string]any `json:"components"`
}

// Run executes one build pass: every loaded definition is resolved, clean
// items are emitted in the configured format, and every invalid item is
// reported in full. One definition's failures never stop the others; the pass
// fails at the end if anything failed.
func (a *App) Run(ctx context.Context, appConfig *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "items", len(a.model.Order), "format", appConfig.Format)

	var failed int
	for _, name := range a.model.Order {
		output, report, err := a.resolver.Resolve(ctx, name)
		if err != nil {
			return fmt.Errorf("resolution failed: %w", err)
		}

		if report != nil {
			failed++
			fmt.Fprintln(a.outW, report.Summary())
			fmt.Fprint(a.outW, report.Tree())
			fmt.Fprint(a.outW, report.Context())
			continue
		}

		if err := a.emit(name, output, appConfig.Format); err != nil {
			failed++
			fmt.Fprintf(a.outW, "item %q failed to emit: %v\n", name, err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d item definitions failed", failed, len(a.model.Order))
	}
	a.logger.Debug("App.Run method finished.", "items", len(a.model.Order))
	return nil
}

// emit writes one clean item in the requested output format.
func (a *App) emit(name string, output map[string]any, format string) error {
	if format == FormatGive {
		id, _ := a.resolver.ItemID(name)
		give, err := nbt.ItemString(id, output)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.outW, give)
		return nil
	}

	doc := itemDocument{Item: name, Components: output}
	doc.ID, _ = a.resolver.ItemID(name)

	encoded, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(a.outW, string(encoded))
	return nil
}
