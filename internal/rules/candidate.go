package rules

import (
	"fmt"
	"time"

	"shotarc/internal/history"
	"shotarc/internal/post"
)

type needCertainType struct{ t post.Type }

// NeedCertainType passes only candidates of the given type.
func NeedCertainType(t post.Type) CandidateRule { return needCertainType{t: t} }

func (r needCertainType) Name() string { return fmt.Sprintf("needCertainType(%s)", r.t) }

func (r needCertainType) Allows(c *post.Post, _ *history.History, _ time.Time) bool {
	return c.Type == r.t
}

type needMinTypeDistance struct{ min int }

// NeedMinTypeDistance requires at least min other posts since the last
// publication of the candidate's own type.
func NeedMinTypeDistance(min int) CandidateRule { return needMinTypeDistance{min: min} }

func (r needMinTypeDistance) Name() string { return fmt.Sprintf("needMinTypeDistance(%d)", r.min) }

func (r needMinTypeDistance) Allows(c *post.Post, h *history.History, _ time.Time) bool {
	d, ok := h.CountSince(func(p *post.Post) bool { return p.Type == c.Type })
	if !ok {
		return true
	}
	return d >= r.min
}

type needMinMarkDistance struct {
	mark post.Mark
	min  int
}

// NeedMinMarkDistance keeps a grade from appearing too often: a candidate of
// the given mark passes only when the last same-mark publication is at least
// min posts back. Candidates of other marks (or without a mark) pass.
func NeedMinMarkDistance(mark post.Mark, min int) CandidateRule {
	return needMinMarkDistance{mark: mark, min: min}
}

func (r needMinMarkDistance) Name() string {
	return fmt.Sprintf("needMinMarkDistance(%s, %d)", r.mark, r.min)
}

func (r needMinMarkDistance) Allows(c *post.Post, h *history.History, _ time.Time) bool {
	if c.Mark != r.mark || c.Mark == post.MarkNone {
		return true
	}
	d, ok := h.CountSince(func(p *post.Post) bool { return p.Mark == r.mark })
	if !ok {
		return true
	}
	return d >= r.min
}

type needMaxMarkDistance struct {
	mark post.Mark
	max  int
}

// NeedMaxMarkDistance forces periodic inclusion of a grade: a candidate of
// the given mark passes only while the last same-mark publication is within
// max posts. Paired with NeedMinMarkDistance it pins the grade to a rolling
// window. An absent match counts as infinite distance and fails the rule:
// "too long without the grade" must not by itself force a post.
func NeedMaxMarkDistance(mark post.Mark, max int) CandidateRule {
	return needMaxMarkDistance{mark: mark, max: max}
}

func (r needMaxMarkDistance) Name() string {
	return fmt.Sprintf("needMaxMarkDistance(%s, %d)", r.mark, r.max)
}

func (r needMaxMarkDistance) Allows(c *post.Post, h *history.History, _ time.Time) bool {
	if c.Mark != r.mark || c.Mark == post.MarkNone {
		return true
	}
	d, ok := h.CountSince(func(p *post.Post) bool { return p.Mark == r.mark })
	if !ok {
		return false
	}
	return d <= r.max
}

type needMinAuthorDistance struct{ min int }

// NeedMinAuthorDistance rejects a candidate when any of its authors appears
// in history closer than min posts back. Candidates without authors pass.
func NeedMinAuthorDistance(min int) CandidateRule { return needMinAuthorDistance{min: min} }

func (r needMinAuthorDistance) Name() string {
	return fmt.Sprintf("needMinAuthorDistance(%d)", r.min)
}

func (r needMinAuthorDistance) Allows(c *post.Post, h *history.History, _ time.Time) bool {
	if len(c.Author) == 0 {
		return true
	}
	// The nearest entry sharing any author carries the smallest distance, so
	// checking it covers every author at once.
	d, ok := h.CountSince(func(p *post.Post) bool { return p.SharesAuthor(c.Author) })
	if !ok {
		return true
	}
	return d >= r.min
}

type needMinContentDistance struct{ days int }

// NeedMinContentDistance guards against republishing near-duplicate content:
// any history entry sharing a content reference with the candidate must be at
// least days old.
func NeedMinContentDistance(days int) CandidateRule { return needMinContentDistance{days: days} }

func (r needMinContentDistance) Name() string {
	return fmt.Sprintf("needMinContentDistance(%d)", r.days)
}

func (r needMinContentDistance) Allows(c *post.Post, h *history.History, now time.Time) bool {
	if len(c.Content) == 0 {
		return true
	}
	elapsed, ok := h.TimeSince(now, func(p *post.Post) bool { return p.SharesContent(c.Content) })
	if !ok {
		return true
	}
	return elapsed >= time.Duration(r.days)*24*time.Hour
}

type needMinRelatedLocationDistance struct{ min int }

// NeedMinRelatedLocationDistance keeps a location line from repeating: any
// history entry whose location is on the candidate's hierarchy line
// (ancestor, descendant or equal) must be at least min posts back.
// Candidates without a location pass.
func NeedMinRelatedLocationDistance(min int) CandidateRule {
	return needMinRelatedLocationDistance{min: min}
}

func (r needMinRelatedLocationDistance) Name() string {
	return fmt.Sprintf("needMinRelatedLocationDistance(%d)", r.min)
}

func (r needMinRelatedLocationDistance) Allows(c *post.Post, h *history.History, _ time.Time) bool {
	if c.Location == "" {
		return true
	}
	d, ok := h.CountSince(func(p *post.Post) bool {
		return p.Location != "" && post.RelatedLocations(p.Location, c.Location)
	})
	if !ok {
		return true
	}
	return d >= r.min
}
