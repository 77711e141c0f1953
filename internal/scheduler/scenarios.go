package scheduler

import (
	"time"

	"shotarc/internal/post"
	"shotarc/internal/rules"
)

// Shot is the evening single-shot scenario: one shot after 18:00 local, at
// least 12 hours after the previous publication, rotated by grade, author,
// content age and location line.
func Shot() Scenario {
	return Scenario{
		Name: "shot",
		Posting: []rules.PostingRule{
			rules.AfterHour(18),
			rules.LastPostedHoursAgo(12),
		},
		Candidates: []rules.CandidateRule{
			rules.NeedCertainType(post.TypeShot),
			rules.NeedMinMarkDistance(post.MarkC, 14),
			rules.NeedMinMarkDistance(post.MarkB2, 4),
			rules.NeedMinMarkDistance(post.MarkA2, 1),
			rules.NeedMaxMarkDistance(post.MarkA2, 7),
			rules.NeedMinMarkDistance(post.MarkA1, 7),
			rules.NeedMaxMarkDistance(post.MarkA1, 14),
			rules.NeedMinAuthorDistance(1),
			rules.NeedMinContentDistance(365),
			rules.NeedMinRelatedLocationDistance(2),
		},
	}
}

// ShotSet is the Sunday shot-set scenario. Not part of the default list, but
// kept expressible for channels that want a weekly set.
func ShotSet() Scenario {
	return Scenario{
		Name: "set of shots on Sunday",
		Posting: []rules.PostingRule{
			rules.OnWeekDay(time.Sunday),
			rules.AfterHour(6),
			rules.LastPostedHoursAgo(12),
		},
		Candidates: []rules.CandidateRule{
			rules.NeedCertainType(post.TypeShotSet),
			rules.NeedMinTypeDistance(7),
			rules.NeedMinContentDistance(91),
		},
	}
}

// DefaultScenarios returns the scenario list the app ships with.
func DefaultScenarios() []Scenario {
	return []Scenario{Shot()}
}
