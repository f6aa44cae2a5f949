package virtual

import (
	"cmp"
	"slices"
)

// reconcile produces the next render-key sequence from the previous one.
//
// Keys present before keep their relative order. Keys that left the window
// but still exist in the data stay in place so their elements are hidden
// instead of unmounted; keys that vanished from the data are dropped. Newly
// desired keys are appended in data order. When maxHidden is positive, only
// the maxHidden retained keys closest to the desired range survive.
func reconcile(prev []string, vis visibility, indexOf map[string]int, maxHidden int) []string {
	keepHidden := retainedHidden(prev, vis, indexOf, maxHidden)

	next := make([]string, 0, len(prev)+len(vis.desired))
	seen := make(keySet, len(prev)+len(vis.desired))
	for _, key := range prev {
		if seen.has(key) || !vis.existing.has(key) {
			continue
		}
		if !vis.desired.has(key) && !keepHidden.has(key) {
			continue
		}
		seen.add(key)
		next = append(next, key)
	}

	added := make([]string, 0, len(vis.desired))
	for key := range vis.desired {
		if !seen.has(key) {
			added = append(added, key)
		}
	}
	slices.SortFunc(added, func(a, b string) int {
		return cmp.Compare(indexOf[a], indexOf[b])
	})
	return append(next, added...)
}

// retainedHidden picks which previously rendered, no longer desired keys
// keep their element.
func retainedHidden(prev []string, vis visibility, indexOf map[string]int, maxHidden int) keySet {
	var hidden []string
	for _, key := range prev {
		if vis.existing.has(key) && !vis.desired.has(key) {
			hidden = append(hidden, key)
		}
	}

	keep := make(keySet, len(hidden))
	if maxHidden == 0 || len(hidden) <= maxHidden {
		for _, key := range hidden {
			keep.add(key)
		}
		return keep
	}

	lo, hi := desiredRange(vis.desired, indexOf)
	distance := func(key string) int {
		i := indexOf[key]
		switch {
		case i < lo:
			return lo - i
		case i > hi:
			return i - hi
		default:
			return 0
		}
	}
	slices.SortStableFunc(hidden, func(a, b string) int {
		return cmp.Compare(distance(a), distance(b))
	})
	for _, key := range hidden[:maxHidden] {
		keep.add(key)
	}
	return keep
}

// desiredRange returns the lowest and highest data index among desired keys.
func desiredRange(desired keySet, indexOf map[string]int) (lo, hi int) {
	first := true
	for key := range desired {
		i := indexOf[key]
		if first {
			lo, hi, first = i, i, false
			continue
		}
		lo, hi = min(lo, i), max(hi, i)
	}
	return lo, hi
}
