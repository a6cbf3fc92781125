// ABOUTME: OffsetRange and TextChange describe annotated spans of a text buffer
// ABOUTME: Offsets count UTF-16 code units so they agree with browser-based editors
package models

// OffsetRange is a half-open [StartOffset, EndOffset) interval over a text buffer.
type OffsetRange struct {
	StartOffset int `json:"startOffset"`
	EndOffset   int `json:"endOffset"`
}

// Span returns the range itself so OffsetRange satisfies the same accessor as
// types that embed it.
func (r *OffsetRange) Span() *OffsetRange {
	return r
}

// Len returns the number of code units covered by the range.
func (r OffsetRange) Len() int {
	return r.EndOffset - r.StartOffset
}

// Overlaps reports strict half-open intersection; touching ranges do not overlap.
func (r OffsetRange) Overlaps(start, end int) bool {
	return start < r.EndOffset && end > r.StartOffset
}

// TextChange replaces [RangeOffset, RangeOffset+RangeLength) with Text.
type TextChange struct {
	RangeOffset int    `json:"rangeOffset"`
	RangeLength int    `json:"rangeLength"`
	Text        string `json:"text"`
}
