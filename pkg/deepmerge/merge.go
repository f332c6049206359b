// Package deepmerge folds one settings tree into another.
//
// The policy is last-value-wins: a value from the source replaces the value
// in the target, except that maps present on both sides are merged key by
// key. A list whose final element is the MergeUnique marker (on either side)
// is merged as a deduplicated union instead of being replaced: the target's
// elements come first, followed by source elements not already present.
// Markers are dropped from every value the merge writes.
package deepmerge

import (
	"errors"
	"reflect"
)

// MergeUnique, as the last element of a list, requests union merging.
const MergeUnique = "dynaconf_merge_unique"

// ErrNilTarget is returned when there is no map to merge into.
var ErrNilTarget = errors.New("deepmerge: nil target")

// Merge mutates target to incorporate source. Source is never modified and
// no value in target aliases a value from source afterwards.
func Merge(source, target map[string]any) error {
	if target == nil {
		return ErrNilTarget
	}
	mergeMaps(source, target)
	return nil
}

func mergeMaps(source, target map[string]any) {
	for k, sv := range source {
		tv, exists := target[k]
		if !exists {
			target[k] = clean(sv)
			continue
		}
		target[k] = mergeValue(sv, tv)
	}
}

func mergeValue(src, dst any) any {
	switch s := src.(type) {
	case map[string]any:
		if d, ok := dst.(map[string]any); ok && d != nil {
			mergeMaps(s, d)
			return d
		}
	case []any:
		d, dstIsList := dst.([]any)
		if hasMarker(s) || (dstIsList && hasMarker(d)) {
			var out []any
			if dstIsList {
				out = appendUnique(out, d)
			}
			return appendUnique(out, s)
		}
	}
	return clean(src)
}

func hasMarker(list []any) bool {
	if len(list) == 0 {
		return false
	}
	marker, ok := list[len(list)-1].(string)
	return ok && marker == MergeUnique
}

// appendUnique appends cleaned items of src to dst, skipping markers and
// items deeply equal to one already in dst.
func appendUnique(dst, src []any) []any {
	for _, item := range src {
		if s, ok := item.(string); ok && s == MergeUnique {
			continue
		}
		item = clean(item)
		if containsValue(dst, item) {
			continue
		}
		dst = append(dst, item)
	}
	return dst
}

func containsValue(list []any, v any) bool {
	for _, e := range list {
		if reflect.DeepEqual(e, v) {
			return true
		}
	}
	return false
}

// clean deep-copies v and drops trailing MergeUnique markers from lists.
func clean(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = clean(e)
		}
		return out
	case []any:
		if hasMarker(x) {
			x = x[:len(x)-1]
		}
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = clean(e)
		}
		return out
	}
	return v
}
