// Package month buckets timestamped records into a trailing window of
// calendar months.
package month

import (
	"slices"
	"time"
)

const (
	// Layout formats a time as a month key.
	Layout = "2006-01"
	// WindowSize is the number of keys in a window.
	WindowSize = 13
	// step is the number of days between consecutive keys in a window.
	step = 30
)

type (
	// Key identifies a calendar month, e.g. 2024-03.
	Key string

	// Window is the trailing period over which records are counted. It is
	// computed once and is immutable thereafter.
	Window struct {
		keys []Key
		set  map[Key]struct{}
	}

	// Counts maps a month to the number of records in that month.
	Counts map[Key]int
)

// KeyOf returns the key of the month in which t falls.
func KeyOf(t time.Time) Key {
	return Key(t.Format(Layout))
}

func (k Key) String() string { return string(k) }

// NewWindow returns a window of WindowSize keys, the i-th key being the month
// of now minus i*30 days. Because months are not 30 days long the keys are not
// necessarily distinct consecutive months: depending on the day of the month a
// month may be repeated or skipped. e.g. 2024-03-31 yields 2024-03 twice and
// no 2024-02.
func NewWindow(now time.Time) Window {
	w := Window{
		keys: make([]Key, WindowSize),
		set:  make(map[Key]struct{}, WindowSize),
	}
	for i := range WindowSize {
		k := KeyOf(now.AddDate(0, 0, -step*i))
		w.keys[i] = k
		w.set[k] = struct{}{}
	}
	return w
}

// Keys returns the window's keys, most recent first, including any repeats.
func (w Window) Keys() []Key {
	return slices.Clone(w.keys)
}

// Distinct returns the window's keys, most recent first, without repeats.
func (w Window) Distinct() []Key {
	distinct := make([]Key, 0, len(w.set))
	for _, k := range w.keys {
		if !slices.Contains(distinct, k) {
			distinct = append(distinct, k)
		}
	}
	return distinct
}

// Contains determines whether k is one of the window's keys.
func (w Window) Contains(k Key) bool {
	_, ok := w.set[k]
	return ok
}

// Count buckets each time by its month, discarding those falling outside the
// window.
func Count(w Window, times ...time.Time) Counts {
	counts := make(Counts)
	for _, t := range times {
		counts.Inc(w, t)
	}
	return counts
}

// Inc increments the bucket for the month of t, if that month is in the
// window, reporting whether it was.
func (c Counts) Inc(w Window, t time.Time) bool {
	k := KeyOf(t)
	if !w.Contains(k) {
		return false
	}
	c[k]++
	return true
}

// Get returns the count for a month, or zero if there are none.
func (c Counts) Get(k Key) int {
	return c[k]
}

// Add adds the counts in other to c.
func (c Counts) Add(other Counts) {
	for k, n := range other {
		c[k] += n
	}
}

// Total sums the counts over every month.
func (c Counts) Total() (total int) {
	for _, n := range c {
		total += n
	}
	return total
}
