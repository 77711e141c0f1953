package post

import (
	"testing"
	"time"
)

func TestParseTypeFallsBackToShot(t *testing.T) {
	t.Parallel()
	if got := ParseType("shot-set"); got != TypeShotSet {
		t.Fatalf("ParseType(shot-set) = %s", got)
	}
	if got := ParseType("not-a-type"); got != TypeShot {
		t.Fatalf("ParseType(invalid) = %s, want shot", got)
	}
}

func TestMarkOrder(t *testing.T) {
	t.Parallel()
	if MarkC.Index() >= MarkA1.Index() {
		t.Fatalf("expected C below A1 on the rarity scale")
	}
	if MarkNone.Index() != -1 {
		t.Fatalf("MarkNone.Index() = %d, want -1", MarkNone.Index())
	}
	if got := ParseMark("B2"); got != MarkB2 {
		t.Fatalf("ParseMark(B2) = %q", got)
	}
	if got := ParseMark("Z9"); got != MarkNone {
		t.Fatalf("ParseMark(Z9) = %q, want none", got)
	}
}

func TestViolationTitlesRoundTrip(t *testing.T) {
	t.Parallel()
	for _, v := range Violations {
		if v.Title() == "" {
			t.Fatalf("violation %q has no title", v)
		}
		if got := ParseViolationTitle(v.Title()); got != v {
			t.Fatalf("ParseViolationTitle(%q) = %q, want %q", v.Title(), got, v)
		}
	}
	if got := ParseViolationTitle("Something else"); got != ViolationNone {
		t.Fatalf("unknown title parsed to %q", got)
	}
}

func TestPublishable(t *testing.T) {
	t.Parallel()
	p := &Post{Type: TypeShot, Content: []string{"store/a.png"}}
	if !p.Publishable() {
		t.Fatal("post with content and no violation must be publishable")
	}
	p.Violation = ViolationLowQuality
	if p.Publishable() {
		t.Fatal("rejected post must not be publishable")
	}
	if !p.Rejected() {
		t.Fatal("post with violation must be rejected")
	}
	empty := &Post{Type: TypeShot}
	if empty.Publishable() {
		t.Fatal("post without content must not be publishable")
	}
}

func TestSortEntriesDesc(t *testing.T) {
	t.Parallel()
	base := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
	entries := []Entry{
		{ID: "b", Post: &Post{PublishedAt: base.Add(-48 * time.Hour)}},
		{ID: "c", Post: &Post{PublishedAt: base}},
		{ID: "a", Post: &Post{PublishedAt: base.Add(-24 * time.Hour)}},
	}
	SortEntriesDesc(entries)
	want := []string{"c", "a", "b"}
	for i, id := range want {
		if entries[i].ID != id {
			t.Fatalf("entries[%d] = %s, want %s", i, entries[i].ID, id)
		}
	}
}

func TestMergeContents(t *testing.T) {
	t.Parallel()
	got := MergeContents([]string{"a.png", " b.png ", ""}, []string{"b.png", "c.png"})
	want := []string{"a.png", "b.png", "c.png"}
	if len(got) != len(want) {
		t.Fatalf("merged = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("merged[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestSharesAuthorAndContent(t *testing.T) {
	t.Parallel()
	p := &Post{Author: []string{"u1", "u2"}, Content: []string{"x.png"}}
	if !p.SharesAuthor([]string{"u2", "u9"}) {
		t.Fatal("expected shared author u2")
	}
	if p.SharesAuthor([]string{"u3"}) {
		t.Fatal("unexpected shared author")
	}
	if !p.SharesContent([]string{"x.png"}) {
		t.Fatal("expected shared content")
	}
	if p.SharesContent([]string{"y.png"}) {
		t.Fatal("unexpected shared content")
	}
}
