// Package scheduler evaluates posting scenarios against channel history and
// the candidate pool.
//
// A scenario bundles one scheduling intent: an ordered set of posting rules
// that gate the moment, and an ordered set of candidate rules that filter the
// pool. Scenarios are tried in declared order with first-match-wins
// semantics; the scheduler returns the eligible candidate set of the first
// scenario whose posting rules all pass, and never blends scenarios.
// Picking one candidate among the survivors is the caller's policy.
package scheduler

import (
	"time"

	"shotarc/internal/history"
	"shotarc/internal/post"
	"shotarc/internal/rules"
	"shotarc/pkg/logx"
)

// Scenario is configuration data: built once at startup, never mutated.
type Scenario struct {
	Name       string
	Posting    []rules.PostingRule
	Candidates []rules.CandidateRule
}

// Result is the outcome of one scheduling pass.
type Result struct {
	// Scenario names the scenario that selected the eligible set.
	Scenario string
	// Eligible holds every candidate satisfying all of the scenario's
	// candidate rules, in pool order. May be empty.
	Eligible []post.Entry
}

// Scheduler runs scheduling passes over a fixed scenario list.
type Scheduler struct {
	scenarios []Scenario
	log       logx.Logger
}

func New(scenarios []Scenario, log logx.Logger) *Scheduler {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Scheduler{scenarios: scenarios, log: log}
}

// Evaluate runs one pass. It walks scenarios in priority order; the first
// scenario whose posting rules all pass claims the pass and filters the pool
// with its candidate rules. ok is false when no scenario's posting rules
// pass; that is an ordinary outcome, not an error.
//
// Posting rules run strictly before any candidate rule, so a rejected
// scenario costs nothing per candidate.
func (s *Scheduler) Evaluate(h *history.History, pool []post.Entry, now time.Time) (Result, bool) {
	for _, sc := range s.scenarios {
		if name, ok := passesPosting(sc, h, now); !ok {
			s.log.Debug("scenario gated",
				logx.String("scenario", sc.Name),
				logx.String("rule", name),
			)
			continue
		}

		eligible := filterCandidates(sc, h, pool, now, s.log)
		s.log.Info("scenario selected",
			logx.String("scenario", sc.Name),
			logx.Int("pool", len(pool)),
			logx.Int("eligible", len(eligible)),
		)
		return Result{Scenario: sc.Name, Eligible: eligible}, true
	}
	return Result{}, false
}

// passesPosting returns the name of the first failing posting rule, or
// ok=true when all pass.
func passesPosting(sc Scenario, h *history.History, now time.Time) (string, bool) {
	for _, r := range sc.Posting {
		if !r.Allows(h, now) {
			return r.Name(), false
		}
	}
	return "", true
}

func filterCandidates(sc Scenario, h *history.History, pool []post.Entry, now time.Time, log logx.Logger) []post.Entry {
	var eligible []post.Entry
candidates:
	for _, e := range pool {
		for _, r := range sc.Candidates {
			if !r.Allows(e.Post, h, now) {
				if log.Enabled(logx.LevelDebug) {
					log.Debug("candidate rejected",
						logx.String("scenario", sc.Name),
						logx.String("post", e.ID),
						logx.String("rule", r.Name()),
					)
				}
				continue candidates
			}
		}
		eligible = append(eligible, e)
	}
	return eligible
}
