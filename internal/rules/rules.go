// Package rules defines the two predicate families the posting scheduler
// composes.
//
// Posting rules gate the moment: they look only at history and the clock and
// decide whether anything may be published right now. Candidate rules judge a
// single unpublished post against history, enforcing spacing and rotation.
// Keeping the families separate lets the scheduler skip a scenario before
// touching the candidate pool at all.
//
// Rules are small immutable values. Every rule exposes a Name carrying its
// parameters so scheduler logs and tests can tell rule instances apart.
package rules

import (
	"time"

	"shotarc/internal/history"
	"shotarc/internal/post"
)

// PostingRule decides whether "now" is an eligible moment to publish.
// Implementations must be pure and must not inspect candidates.
type PostingRule interface {
	Name() string
	Allows(h *history.History, now time.Time) bool
}

// CandidateRule decides whether one candidate is currently eligible
// against the channel history. Implementations must be pure and total:
// a candidate missing the field a rule keys on trivially passes.
type CandidateRule interface {
	Name() string
	Allows(candidate *post.Post, h *history.History, now time.Time) bool
}
