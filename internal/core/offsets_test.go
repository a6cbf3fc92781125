// ABOUTME: Tests for the offset ledger, overlap queries and text diffing
// ABOUTME: Includes randomized checks that ranges never overlap after edits
package core

import (
	"math/rand/v2"
	"reflect"
	"slices"
	"strings"
	"testing"

	"github.com/harper/docright/internal/models"
)

func ranges(pairs ...int) []models.OffsetRange {
	out := make([]models.OffsetRange, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, models.OffsetRange{StartOffset: pairs[i], EndOffset: pairs[i+1]})
	}
	return out
}

func TestApplyOffsetChanges(t *testing.T) {
	tests := []struct {
		name        string
		items       []models.OffsetRange
		changes     []models.TextChange
		want        []models.OffsetRange
		wantUpdated bool
	}{
		{
			name:        "insert before all ranges shifts them",
			items:       ranges(5, 10, 20, 30),
			changes:     []models.TextChange{{RangeOffset: 0, RangeLength: 0, Text: "abc"}},
			want:        ranges(8, 13, 23, 33),
			wantUpdated: true,
		},
		{
			name:        "deleting the whole range drops it",
			items:       ranges(0, 2),
			changes:     []models.TextChange{{RangeOffset: 0, RangeLength: 2, Text: ""}},
			want:        ranges(),
			wantUpdated: true,
		},
		{
			name:        "edit after range leaves it alone",
			items:       ranges(0, 5),
			changes:     []models.TextChange{{RangeOffset: 5, RangeLength: 0, Text: "xyz"}},
			want:        ranges(0, 5),
			wantUpdated: false,
		},
		{
			name:        "insert at range start shifts it",
			items:       ranges(4, 8),
			changes:     []models.TextChange{{RangeOffset: 4, RangeLength: 0, Text: "ab"}},
			want:        ranges(6, 10),
			wantUpdated: true,
		},
		{
			name:        "insert inside range grows it",
			items:       ranges(4, 8),
			changes:     []models.TextChange{{RangeOffset: 6, RangeLength: 0, Text: "ab"}},
			want:        ranges(4, 10),
			wantUpdated: true,
		},
		{
			name:        "delete inside range shrinks it",
			items:       ranges(4, 10),
			changes:     []models.TextChange{{RangeOffset: 5, RangeLength: 3, Text: ""}},
			want:        ranges(4, 7),
			wantUpdated: true,
		},
		{
			name:        "edit overlapping range start pulls start left",
			items:       ranges(5, 10),
			changes:     []models.TextChange{{RangeOffset: 3, RangeLength: 4, Text: "WXYZ"}},
			want:        ranges(3, 10),
			wantUpdated: true,
		},
		{
			name:        "delete overlapping range start keeps the tail",
			items:       ranges(5, 10),
			changes:     []models.TextChange{{RangeOffset: 3, RangeLength: 4, Text: ""}},
			want:        ranges(3, 6),
			wantUpdated: true,
		},
		{
			name:        "same-length replacement before range is not an update",
			items:       ranges(10, 12),
			changes:     []models.TextChange{{RangeOffset: 0, RangeLength: 3, Text: "xyz"}},
			want:        ranges(10, 12),
			wantUpdated: false,
		},
		{
			name:  "multiple changes apply rightmost first",
			items: ranges(2, 4, 10, 12),
			changes: []models.TextChange{
				{RangeOffset: 0, RangeLength: 0, Text: "a"},
				{RangeOffset: 8, RangeLength: 1, Text: ""},
			},
			want:        ranges(3, 5, 10, 12),
			wantUpdated: true,
		},
		{
			name:        "replacement spanning two ranges keeps the first",
			items:       ranges(0, 5, 10, 15),
			changes:     []models.TextChange{{RangeOffset: 3, RangeLength: 9, Text: strings.Repeat("x", 20)}},
			want:        ranges(0, 16),
			wantUpdated: true,
		},
		{
			name:        "range grown into an earlier one is dropped",
			items:       ranges(0, 10, 12, 20),
			changes:     []models.TextChange{{RangeOffset: 5, RangeLength: 10, Text: strings.Repeat("x", 20)}},
			want:        ranges(0, 20),
			wantUpdated: true,
		},
		{
			name:        "no changes",
			items:       ranges(1, 2),
			changes:     nil,
			want:        ranges(1, 2),
			wantUpdated: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, updated := ApplyOffsetChanges(tt.items, tt.changes)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ranges = %v, want %v", got, tt.want)
			}
			if updated != tt.wantUpdated {
				t.Errorf("updated = %v, want %v", updated, tt.wantUpdated)
			}
		})
	}
}

func TestApplyOffsetChanges_DoesNotMutateInput(t *testing.T) {
	items := ranges(5, 10)
	ApplyOffsetChanges(items, []models.TextChange{{RangeOffset: 0, RangeLength: 0, Text: "abc"}})
	if items[0].StartOffset != 5 || items[0].EndOffset != 10 {
		t.Errorf("input mutated: %v", items)
	}
}

func TestApplyOffsetChanges_InlineCallouts(t *testing.T) {
	callouts := []models.InlineCallout{
		{ID: "inline-1", Instruction: "fix", OffsetRange: models.OffsetRange{StartOffset: 2, EndOffset: 4}},
	}
	got, updated := ApplyOffsetChanges(callouts, []models.TextChange{{RangeOffset: 0, RangeLength: 0, Text: "😀"}})
	if !updated {
		t.Fatal("updated = false, want true")
	}
	if got[0].StartOffset != 4 || got[0].EndOffset != 6 {
		t.Errorf("callout range = %v, want {4 6}", got[0].OffsetRange)
	}
	if got[0].ID != "inline-1" || got[0].Instruction != "fix" {
		t.Errorf("callout fields changed: %+v", got[0])
	}
}

func TestApplyOffsetChanges_PureShift(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 200; i++ {
		start := 10 + rng.IntN(50)
		end := start + 1 + rng.IntN(20)
		offset := rng.IntN(start + 1)
		length := rng.IntN(start - offset + 1)
		text := strings.Repeat("z", rng.IntN(8))
		delta := len(text) - length

		got, _ := ApplyOffsetChanges(ranges(start, end), []models.TextChange{{RangeOffset: offset, RangeLength: length, Text: text}})
		want := ranges(start+delta, end+delta)
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("edit {%d %d %q} on [%d,%d) = %v, want %v", offset, length, text, start, end, got, want)
		}
	}
}

func TestApplyOffsetChanges_NeverOverlaps(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 99))
	for round := 0; round < 300; round++ {
		// Build a non-overlapping set over [0, 200).
		var items []models.OffsetRange
		pos := 0
		for pos < 180 {
			pos += rng.IntN(10)
			end := pos + 1 + rng.IntN(15)
			if end > 200 {
				break
			}
			items = append(items, models.OffsetRange{StartOffset: pos, EndOffset: end})
			pos = end
		}
		rng.Shuffle(len(items), func(i, j int) { items[i], items[j] = items[j], items[i] })

		for step := 0; step < 5; step++ {
			var changes []models.TextChange
			for n := 1 + rng.IntN(3); n > 0; n-- {
				changes = append(changes, models.TextChange{
					RangeOffset: rng.IntN(220),
					RangeLength: rng.IntN(30),
					Text:        strings.Repeat("q", rng.IntN(40)),
				})
			}
			items, _ = ApplyOffsetChanges(items, changes)

			sorted := slices.Clone(items)
			slices.SortFunc(sorted, func(a, b models.OffsetRange) int { return a.StartOffset - b.StartOffset })
			for i, r := range sorted {
				if r.EndOffset <= r.StartOffset {
					t.Fatalf("round %d: empty range %v survived", round, r)
				}
				if i > 0 && r.StartOffset < sorted[i-1].EndOffset {
					t.Fatalf("round %d: %v overlaps %v", round, sorted[i-1], r)
				}
			}
		}
	}
}

func TestFindOverlap(t *testing.T) {
	items := ranges(5, 10, 20, 30)
	tests := []struct {
		start, end int
		want       bool
		wantStart  int
	}{
		{0, 5, false, 0},
		{10, 20, false, 0},
		{30, 40, false, 0},
		{4, 6, true, 5},
		{9, 21, true, 5},
		{25, 26, true, 20},
		{0, 100, true, 5},
	}
	for _, tt := range tests {
		got, ok := FindOverlap(items, tt.start, tt.end)
		if ok != tt.want {
			t.Errorf("FindOverlap(%d, %d) ok = %v, want %v", tt.start, tt.end, ok, tt.want)
			continue
		}
		if ok && got.StartOffset != tt.wantStart {
			t.Errorf("FindOverlap(%d, %d) = %v, want start %d", tt.start, tt.end, got, tt.wantStart)
		}
	}
}

func TestFindOverlap_MatchesDefinition(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	items := ranges(3, 8, 12, 13, 20, 40)
	for i := 0; i < 1000; i++ {
		s := rng.IntN(50)
		e := s + 1 + rng.IntN(10)
		want := false
		for _, r := range items {
			if s < r.EndOffset && e > r.StartOffset {
				want = true
				break
			}
		}
		if _, ok := FindOverlap(items, s, e); ok != want {
			t.Fatalf("FindOverlap(%d, %d) = %v, want %v", s, e, ok, want)
		}
	}
}

func TestDiffChange(t *testing.T) {
	tests := []struct {
		before, after string
		want          models.TextChange
	}{
		{"Hello world", "Hello brave world", models.TextChange{RangeOffset: 6, RangeLength: 0, Text: "brave "}},
		{"Hello world", "Hello", models.TextChange{RangeOffset: 5, RangeLength: 6, Text: ""}},
		{"abc", "xbc", models.TextChange{RangeOffset: 0, RangeLength: 1, Text: "x"}},
		{"", "new", models.TextChange{RangeOffset: 0, RangeLength: 0, Text: "new"}},
		{"a😀b", "a😁b", models.TextChange{RangeOffset: 1, RangeLength: 2, Text: "😁"}},
	}
	for _, tt := range tests {
		got, ok := DiffChange(tt.before, tt.after)
		if !ok {
			t.Errorf("DiffChange(%q, %q) reported no change", tt.before, tt.after)
			continue
		}
		if got != tt.want {
			t.Errorf("DiffChange(%q, %q) = %+v, want %+v", tt.before, tt.after, got, tt.want)
		}
	}

	if _, ok := DiffChange("same", "same"); ok {
		t.Error("DiffChange on equal strings reported a change")
	}
}

func TestBuildSnippet(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"   ", "(empty selection)"},
		{"hello\n\tworld", "hello world"},
		{strings.Repeat("a", 40), strings.Repeat("a", 40)},
		{strings.Repeat("b", 41), strings.Repeat("b", 37) + "..."},
	}
	for _, tt := range tests {
		if got := BuildSnippet(tt.in); got != tt.want {
			t.Errorf("BuildSnippet(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
