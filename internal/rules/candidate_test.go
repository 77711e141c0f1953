package rules

import (
	"testing"
	"time"

	"shotarc/internal/post"
)

func shot(mark post.Mark) *post.Post {
	return &post.Post{Type: post.TypeShot, Mark: mark, Content: []string{"store/new.png"}}
}

func TestNeedCertainType(t *testing.T) {
	t.Parallel()
	h := mustHistory(t, nil)
	if !NeedCertainType(post.TypeShot).Allows(shot(post.MarkC), h, evening) {
		t.Fatal("shot candidate must pass needCertainType(shot)")
	}
	set := &post.Post{Type: post.TypeShotSet}
	if NeedCertainType(post.TypeShot).Allows(set, h, evening) {
		t.Fatal("shot-set candidate must fail needCertainType(shot)")
	}
}

func TestMarkDistanceWindow(t *testing.T) {
	t.Parallel()
	// History: one A1 just published.
	h := mustHistory(t, []post.Entry{
		{ID: "a", Post: &post.Post{Type: post.TypeShot, Mark: post.MarkA1, PublishedAt: evening.Add(-time.Hour)}},
	})
	c := shot(post.MarkA1)

	if NeedMinMarkDistance(post.MarkA1, 7).Allows(c, h, evening) {
		t.Fatal("distance 0 must fail needMinMarkDistance(A1, 7)")
	}
	if !NeedMaxMarkDistance(post.MarkA1, 14).Allows(c, h, evening) {
		t.Fatal("distance 0 must pass needMaxMarkDistance(A1, 14)")
	}

	// Other grades are not constrained by A1 rules.
	other := shot(post.MarkB2)
	if !NeedMinMarkDistance(post.MarkA1, 7).Allows(other, h, evening) {
		t.Fatal("B2 candidate must pass an A1 min rule")
	}
	if !NeedMaxMarkDistance(post.MarkA1, 14).Allows(other, h, evening) {
		t.Fatal("B2 candidate must pass an A1 max rule")
	}

	// Ungraded candidates pass mark rules entirely.
	plain := shot(post.MarkNone)
	if !NeedMinMarkDistance(post.MarkA1, 7).Allows(plain, h, evening) {
		t.Fatal("unmarked candidate must pass mark rules")
	}
}

func TestMarkDistanceInfinity(t *testing.T) {
	t.Parallel()
	h := mustHistory(t, []post.Entry{
		{ID: "c", Post: &post.Post{Type: post.TypeShot, Mark: post.MarkC, PublishedAt: evening.Add(-time.Hour)}},
	})
	c := shot(post.MarkA1)
	if !NeedMinMarkDistance(post.MarkA1, 1000).Allows(c, h, evening) {
		t.Fatal("absent mark means infinite distance: min rule must pass")
	}
	if NeedMaxMarkDistance(post.MarkA1, 1000).Allows(c, h, evening) {
		t.Fatal("absent mark means infinite distance: max rule must fail")
	}
}

func TestMinMaxComposeToExactWindow(t *testing.T) {
	t.Parallel()
	c := shot(post.MarkA2)
	const k = 3
	for dist := 0; dist <= 6; dist++ {
		entries := make([]post.Entry, 0, dist+1)
		for i := 0; i < dist; i++ {
			entries = append(entries, post.Entry{
				ID:   time.Duration(i).String(),
				Post: &post.Post{Type: post.TypeShot, Mark: post.MarkC, PublishedAt: evening.Add(-time.Duration(i+1) * time.Hour)},
			})
		}
		entries = append(entries, post.Entry{
			ID:   "a2",
			Post: &post.Post{Type: post.TypeShot, Mark: post.MarkA2, PublishedAt: evening.Add(-time.Duration(dist+1) * time.Hour)},
		})
		h := mustHistory(t, entries)

		pass := NeedMinMarkDistance(post.MarkA2, k).Allows(c, h, evening) &&
			NeedMaxMarkDistance(post.MarkA2, k).Allows(c, h, evening)
		if want := dist == k; pass != want {
			t.Fatalf("distance %d: composed window pass = %v, want %v", dist, pass, want)
		}
	}
}

func TestNeedMinAuthorDistance(t *testing.T) {
	t.Parallel()
	h := mustHistory(t, []post.Entry{
		{ID: "a", Post: &post.Post{Type: post.TypeShot, Author: []string{"u1"}, PublishedAt: evening.Add(-time.Hour)}},
		{ID: "b", Post: &post.Post{Type: post.TypeShot, Author: []string{"u2"}, PublishedAt: evening.Add(-2 * time.Hour)}},
	})

	same := &post.Post{Type: post.TypeShot, Author: []string{"u1", "u3"}}
	if NeedMinAuthorDistance(1).Allows(same, h, evening) {
		t.Fatal("candidate sharing the latest entry's author must fail needMinAuthorDistance(1)")
	}

	disjoint := &post.Post{Type: post.TypeShot, Author: []string{"u9"}}
	if !NeedMinAuthorDistance(1).Allows(disjoint, h, evening) {
		t.Fatal("candidate with disjoint authors must pass")
	}

	one := &post.Post{Type: post.TypeShot, Author: []string{"u2"}}
	if !NeedMinAuthorDistance(1).Allows(one, h, evening) {
		t.Fatal("author at distance 1 must pass needMinAuthorDistance(1)")
	}
	if NeedMinAuthorDistance(2).Allows(one, h, evening) {
		t.Fatal("author at distance 1 must fail needMinAuthorDistance(2)")
	}

	anon := &post.Post{Type: post.TypeShot}
	if !NeedMinAuthorDistance(5).Allows(anon, h, evening) {
		t.Fatal("candidate without authors must pass")
	}
}

func TestNeedMinContentDistance(t *testing.T) {
	t.Parallel()
	h := mustHistory(t, []post.Entry{
		{ID: "a", Post: &post.Post{Type: post.TypeShot, Content: []string{"store/old.png"}, PublishedAt: evening.Add(-100 * 24 * time.Hour)}},
	})

	dup := &post.Post{Type: post.TypeShot, Content: []string{"store/old.png"}}
	if NeedMinContentDistance(365).Allows(dup, h, evening) {
		t.Fatal("content republished after 100 days must fail needMinContentDistance(365)")
	}
	if !NeedMinContentDistance(90).Allows(dup, h, evening) {
		t.Fatal("content republished after 100 days must pass needMinContentDistance(90)")
	}

	fresh := &post.Post{Type: post.TypeShot, Content: []string{"store/new.png"}}
	if !NeedMinContentDistance(365).Allows(fresh, h, evening) {
		t.Fatal("unseen content must pass")
	}
}

func TestNeedMinRelatedLocationDistance(t *testing.T) {
	t.Parallel()
	h := mustHistory(t, []post.Entry{
		{ID: "a", Post: &post.Post{Type: post.TypeShot, Location: "ru/moscow", PublishedAt: evening.Add(-time.Hour)}},
		{ID: "b", Post: &post.Post{Type: post.TypeShot, Location: "de/berlin", PublishedAt: evening.Add(-2 * time.Hour)}},
	})

	// "ru/moscow" is a prefix of the candidate's path, so it counts.
	nested := &post.Post{Type: post.TypeShot, Location: "ru/moscow/center"}
	if NeedMinRelatedLocationDistance(2).Allows(nested, h, evening) {
		t.Fatal("ancestor location at distance 0 must fail needMinRelatedLocationDistance(2)")
	}

	elsewhere := &post.Post{Type: post.TypeShot, Location: "fr/paris"}
	if !NeedMinRelatedLocationDistance(2).Allows(elsewhere, h, evening) {
		t.Fatal("unrelated location must pass")
	}

	nowhere := &post.Post{Type: post.TypeShot}
	if !NeedMinRelatedLocationDistance(2).Allows(nowhere, h, evening) {
		t.Fatal("candidate without location must pass")
	}
}

func TestNeedMinTypeDistance(t *testing.T) {
	t.Parallel()
	h := mustHistory(t, []post.Entry{
		{ID: "a", Post: &post.Post{Type: post.TypeShot, PublishedAt: evening.Add(-time.Hour)}},
	})
	set := &post.Post{Type: post.TypeShotSet}
	if !NeedMinTypeDistance(7).Allows(set, h, evening) {
		t.Fatal("type absent from history must pass (infinite distance)")
	}
	single := &post.Post{Type: post.TypeShot}
	if NeedMinTypeDistance(7).Allows(single, h, evening) {
		t.Fatal("same type at distance 0 must fail needMinTypeDistance(7)")
	}
}
