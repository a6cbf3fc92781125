// ABOUTME: Monotonic "<prefix>-N" id allocation for callouts
// ABOUTME: Counters start past the highest loaded id and are never rewound
package core

import (
	"regexp"
	"strconv"
)

// NextIDForPrefix returns one more than the highest N among ids of the form
// "<prefix>-N", or 1 when there are none.
func NextIDForPrefix(ids []string, prefix string) int {
	pattern := regexp.MustCompile(`^` + regexp.QuoteMeta(prefix) + `-(\d+)$`)
	highest := 0
	for _, id := range ids {
		m := pattern.FindStringSubmatch(id)
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil && n > highest {
			highest = n
		}
	}
	return highest + 1
}

// IDAllocator hands out ids for one prefix.
type IDAllocator struct {
	prefix string
	next   int
}

// NewIDAllocator creates an allocator that continues after existing.
func NewIDAllocator(prefix string, existing []string) *IDAllocator {
	return &IDAllocator{prefix: prefix, next: NextIDForPrefix(existing, prefix)}
}

// Next returns a fresh id.
func (a *IDAllocator) Next() string {
	id := a.prefix + "-" + strconv.Itoa(a.next)
	a.next++
	return id
}

// Peek returns the numeric suffix the next id will carry.
func (a *IDAllocator) Peek() int {
	return a.next
}
