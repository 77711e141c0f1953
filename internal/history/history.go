// Package history answers distance queries against a channel's publication
// history.
//
// A History is an immutable view over published entries ordered newest first.
// Rules ask for the distance from "now" back to the nearest entry matching a
// predicate, either as a count of entries (count-distance, 0 meaning the
// immediately preceding entry matches) or as elapsed wall-clock time
// (time-distance). When no entry matches, the distance is infinite: queries
// report ok=false and callers decide what infinity means for them.
package history

import (
	"errors"
	"fmt"
	"time"

	"shotarc/internal/post"
)

// ErrUnordered is returned when the supplied entries are not sorted by
// publication time descending. Distance math over an unordered slice would be
// silently wrong, so construction refuses it outright.
var ErrUnordered = errors.New("history entries are not ordered by publication time descending")

// Predicate selects history entries relevant to one distance query.
type Predicate func(p *post.Post) bool

// History is an ordered, read-only view over one channel's published posts.
type History struct {
	entries []post.Entry
}

// New validates ordering and wraps the entries. The slice is not copied; the
// caller must not mutate it afterwards.
func New(entries []post.Entry) (*History, error) {
	for i := 1; i < len(entries); i++ {
		prev, cur := entries[i-1].Post.PublishedAt, entries[i].Post.PublishedAt
		if cur.After(prev) {
			return nil, fmt.Errorf("%w: entry %q is newer than entry %q", ErrUnordered, entries[i].ID, entries[i-1].ID)
		}
	}
	return &History{entries: entries}, nil
}

// Len returns the number of history entries.
func (h *History) Len() int { return len(h.entries) }

// Entries returns the underlying view, newest first.
func (h *History) Entries() []post.Entry { return h.entries }

// Latest returns the most recent entry, or nil for an empty history.
func (h *History) Latest() *post.Entry {
	if len(h.entries) == 0 {
		return nil
	}
	return &h.entries[0]
}

// CountSince returns the count-distance to the nearest entry matching the
// predicate: 0 when the most recent entry matches, 1 when the one before it
// does, and so on. ok is false when no entry matches (infinite distance).
func (h *History) CountSince(match Predicate) (distance int, ok bool) {
	for i := range h.entries {
		if match(h.entries[i].Post) {
			return i, true
		}
	}
	return 0, false
}

// TimeSince returns the elapsed time from the nearest matching entry's
// publication to now. ok is false when no entry matches (infinite distance).
func (h *History) TimeSince(now time.Time, match Predicate) (elapsed time.Duration, ok bool) {
	for i := range h.entries {
		if match(h.entries[i].Post) {
			return now.Sub(h.entries[i].Post.PublishedAt), true
		}
	}
	return 0, false
}

// Any matches every entry; useful for "time since the last publication".
func Any(*post.Post) bool { return true }
