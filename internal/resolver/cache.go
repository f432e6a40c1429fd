package resolver

import (
	"context"

	"github.com/vk/itemforge/internal/config"
	"github.com/vk/itemforge/internal/ctxlog"
	"github.com/vk/itemforge/internal/itemerr"
	"github.com/vk/itemforge/internal/merge"
)

// cacheEntry memoizes one definition's pipeline run. Definitions are
// immutable once declared, so entries are never invalidated.
//
// When every handler is cacheable, final holds the complete output (hooks
// included) and accesses just copy it. When volatile handlers exist, base
// holds everything except their fragments and the post-render hooks; each
// access replays the volatile renders over a copy of base and re-runs the
// hooks, so a volatile render observes current external state every time.
type cacheEntry struct {
	final    map[string]any
	base     map[string]any
	sources  map[string]*config.SourceRecord
	applied  []*appliedHandler
	volatile []*appliedHandler
	report   *itemerr.Report
}

// materialize produces the output for one access. report is non-nil only on
// the first computation; volatile render failures on warm accesses are
// logged, not raised, since the definition already validated.
func (e *cacheEntry) materialize(ctx context.Context, report *itemerr.Report) map[string]any {
	if len(e.volatile) == 0 {
		return merge.Clone(e.final)
	}

	out := merge.Clone(e.base)
	var hooks []*appliedHandler

	for _, a := range e.applied {
		if a.component == nil || !a.component.NoCache {
			hooks = append(hooks, a)
			continue
		}

		fragment, err := a.component.Render(ctx, a.input)
		if err != nil {
			if report != nil {
				report.Add(&itemerr.ComponentError{
					Kind:   itemerr.CustomComponentFailure,
					Name:   a.attr.Name,
					Value:  a.rawNative,
					Source: a.attr.Source,
					Msg:    err.Error(),
				})
			} else {
				ctxlog.FromContext(ctx).Warn("Volatile component failed on warm access.",
					"component", a.attr.Name, "error", err)
			}
			continue
		}
		if fragment == nil {
			continue
		}
		mergeFragment(out, e.sources, a, fragment)
		hooks = append(hooks, a)
	}

	runHooks(ctx, hooks, out, e.sources)
	return out
}
