// ABOUTME: Offset ledger that keeps inline ranges aligned with a mutating text buffer
// ABOUTME: Pure interval arithmetic over editor-style replacement deltas
package core

import (
	"regexp"
	"slices"
	"strings"

	"github.com/harper/docright/internal/models"
)

// Spanned is satisfied by pointers to types that carry a mutable OffsetRange,
// such as *models.OffsetRange and *models.InlineCallout.
type Spanned[T any] interface {
	*T
	Span() *models.OffsetRange
}

// FindOverlap returns the first item whose range intersects [start, end).
// Touching ranges do not overlap.
func FindOverlap[T any, P Spanned[T]](items []T, start, end int) (T, bool) {
	for i := range items {
		r := P(&items[i]).Span()
		if r.Overlaps(start, end) {
			return items[i], true
		}
	}
	var zero T
	return zero, false
}

// ApplyOffsetChanges shifts, resizes and prunes the ranges of items to follow
// a batch of text changes. The input slice is not modified. The boolean
// reports whether any range moved, resized or was dropped.
//
// Changes are processed rightmost first. A change that begins left of a range
// and overlaps it pulls the range start down to the change start. Ranges that
// collapse to zero length are dropped, as are ranges swallowed by an earlier
// range after a replacement spanning several of them.
func ApplyOffsetChanges[T any, P Spanned[T]](items []T, changes []models.TextChange) ([]T, bool) {
	out := slices.Clone(items)
	if len(changes) == 0 {
		return out, false
	}

	sorted := slices.Clone(changes)
	slices.SortStableFunc(sorted, func(a, b models.TextChange) int {
		return b.RangeOffset - a.RangeOffset
	})

	updated := false
	for _, change := range sorted {
		changeStart := change.RangeOffset
		changeEnd := change.RangeOffset + change.RangeLength
		delta := Len16(change.Text) - change.RangeLength

		for i := range out {
			r := P(&out[i]).Span()
			if r.EndOffset <= changeStart {
				continue
			}

			if r.StartOffset >= changeEnd {
				if delta != 0 {
					r.StartOffset += delta
					r.EndOffset += delta
					updated = true
				}
				continue
			}

			start, end := r.StartOffset, r.EndOffset+delta
			if changeStart < start {
				start = changeStart
			}
			if end < start {
				end = start
			}
			if start != r.StartOffset || end != r.EndOffset {
				r.StartOffset, r.EndOffset = start, end
				updated = true
			}
		}
	}

	kept := pruneRanges[T, P](out)
	if len(kept) != len(out) {
		updated = true
	}
	return kept, updated
}

// pruneRanges drops empty ranges and any range that starts before the end of
// a kept range with a lower start. Insertion order is preserved.
func pruneRanges[T any, P Spanned[T]](items []T) []T {
	order := make([]int, 0, len(items))
	for i := range items {
		r := P(&items[i]).Span()
		if r.EndOffset > r.StartOffset {
			order = append(order, i)
		}
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return P(&items[a]).Span().StartOffset - P(&items[b]).Span().StartOffset
	})

	keep := make([]bool, len(items))
	cursor := -1
	for _, i := range order {
		r := P(&items[i]).Span()
		if r.StartOffset < cursor {
			continue
		}
		keep[i] = true
		cursor = r.EndOffset
	}

	kept := make([]T, 0, len(order))
	for i := range items {
		if keep[i] {
			kept = append(kept, items[i])
		}
	}
	return kept
}

// SortByStart returns a copy of items ordered by start offset.
func SortByStart[T any, P Spanned[T]](items []T) []T {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b T) int {
		return P(&a).Span().StartOffset - P(&b).Span().StartOffset
	})
	return sorted
}

// DiffChange returns the single replacement that turns before into after,
// found by trimming the common prefix and suffix in UTF-16 code units.
// The boolean is false when the strings are equal.
func DiffChange(before, after string) (models.TextChange, bool) {
	if before == after {
		return models.TextChange{}, false
	}
	a, b := Units(before), Units(after)

	prefix := 0
	for prefix < len(a) && prefix < len(b) && a[prefix] == b[prefix] {
		prefix++
	}
	if prefix > 0 && isHighSurrogate(a[prefix-1]) {
		prefix--
	}
	suffix := 0
	for suffix < len(a)-prefix && suffix < len(b)-prefix &&
		a[len(a)-1-suffix] == b[len(b)-1-suffix] {
		suffix++
	}
	if suffix > 0 && isLowSurrogate(a[len(a)-suffix]) {
		suffix--
	}

	return models.TextChange{
		RangeOffset: prefix,
		RangeLength: len(a) - prefix - suffix,
		Text:        SliceUnits(b, prefix, len(b)-suffix),
	}, true
}

func isHighSurrogate(u uint16) bool { return u >= 0xD800 && u < 0xDC00 }

func isLowSurrogate(u uint16) bool { return u >= 0xDC00 && u < 0xE000 }

var whitespaceRun = regexp.MustCompile(`\s+`)

// BuildSnippet returns a short single-line preview of text for listings.
func BuildSnippet(text string) string {
	squashed := strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
	if squashed == "" {
		return "(empty selection)"
	}
	if Len16(squashed) > 40 {
		return Slice16(squashed, 0, 37) + "..."
	}
	return squashed
}
