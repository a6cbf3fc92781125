// ABOUTME: UTF-16 code-unit helpers for offset arithmetic
// ABOUTME: Editors report offsets in UTF-16 units, so all ranges are measured that way
package core

import (
	"unicode/utf16"
	"unicode/utf8"
)

// Len16 returns the length of s in UTF-16 code units.
func Len16(s string) int {
	n := 0
	for _, r := range s {
		if r >= 0x10000 && r <= utf8.MaxRune {
			n += 2
		} else {
			n++
		}
	}
	return n
}

// Units returns the UTF-16 encoding of s.
func Units(s string) []uint16 {
	return utf16.Encode([]rune(s))
}

// Slice16 returns the code units [start, end) of s, clamping both bounds to
// [0, Len16(s)] and returning "" when end <= start.
func Slice16(s string, start, end int) string {
	return SliceUnits(Units(s), start, end)
}

// SliceUnits is Slice16 over an already encoded buffer.
func SliceUnits(units []uint16, start, end int) string {
	start = clamp(start, 0, len(units))
	end = clamp(end, 0, len(units))
	if end <= start {
		return ""
	}
	return string(utf16.Decode(units[start:end]))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
