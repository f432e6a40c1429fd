// Package merge implements the deep-merge semantics used when folding
// rendered component fragments into a single item output.
//
// Nested maps are merged key-wise. Every other collision, lists included, is
// resolved by replacing the earlier value with the later one. The exported
// functions are structurally pure; InPlace is the opt-in mutating variant for
// callers that own the destination map.
package merge

// Deep returns a new map combining base and overlay. Neither argument is
// mutated and no sub-structure is shared with the result.
func Deep(base, overlay map[string]any) map[string]any {
	merged := make(map[string]any, len(base)+len(overlay))
	for k, v := range base {
		merged[k] = copyValue(v)
	}
	InPlace(merged, overlay)
	return merged
}

// InPlace merges overlay into dst, mutating dst. Overlay sub-structures are
// copied, so later mutation of dst never leaks back into overlay.
func InPlace(dst, overlay map[string]any) {
	for k, v := range overlay {
		dstMap, dstOK := dst[k].(map[string]any)
		overlayMap, overlayOK := v.(map[string]any)
		if dstOK && overlayOK {
			InPlace(dstMap, overlayMap)
			continue
		}
		dst[k] = copyValue(v)
	}
}

// Clone returns a deep copy of m.
func Clone(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return Clone(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = copyValue(item)
		}
		return out
	default:
		return v
	}
}
