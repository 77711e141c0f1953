package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"shotarc/internal/extractor"
	"shotarc/internal/post"
	"shotarc/pkg/logx"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Config{Path: filepath.Join(t.TempDir(), "archive.db")}, logx.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestPostRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	inbox := s.Posts(CollectionInbox)

	published := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
	in := post.Entry{ID: "p1", Post: &post.Post{
		Title:       "Sunset",
		TitleRu:     "Закат",
		Type:        post.TypeShot,
		Mark:        post.MarkA2,
		Location:    "ru/moscow/center",
		Content:     []string{"store/a.png", "store/b.png"},
		Author:      []string{"u1"},
		Tags:        []string{"night"},
		Request:     &post.Request{From: "u2", Text: "please post"},
		PublishedAt: published,
	}}
	if err := inbox.AddEntry(ctx, in); err != nil {
		t.Fatalf("AddEntry: %v", err)
	}

	got, err := inbox.GetEntry(ctx, "p1")
	if err != nil {
		t.Fatalf("GetEntry: %v", err)
	}
	p := got.Post
	if p.Title != "Sunset" || p.TitleRu != "Закат" || p.Type != post.TypeShot || p.Mark != post.MarkA2 {
		t.Fatalf("round-trip mismatch: %+v", p)
	}
	if len(p.Content) != 2 || p.Content[1] != "store/b.png" {
		t.Fatalf("content mismatch: %v", p.Content)
	}
	if p.Request == nil || p.Request.From != "u2" {
		t.Fatalf("request mismatch: %+v", p.Request)
	}
	if !p.PublishedAt.Equal(published) {
		t.Fatalf("publishedAt = %v, want %v", p.PublishedAt, published)
	}

	if _, err := inbox.GetEntry(ctx, "nope"); !errors.Is(err, extractor.ErrNotFound) {
		t.Fatalf("missing entry: %v, want ErrNotFound", err)
	}
}

func TestUpdateAndRemove(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	inbox := s.Posts(CollectionInbox)

	e := post.Entry{ID: "p1", Post: &post.Post{Type: post.TypeShot, Content: []string{"a.png"}}}
	if err := inbox.AddEntry(ctx, e); err != nil {
		t.Fatal(err)
	}
	e.Post.Mark = post.MarkB2
	if err := inbox.UpdateEntry(ctx, e); err != nil {
		t.Fatalf("UpdateEntry: %v", err)
	}
	got, err := inbox.GetEntry(ctx, "p1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Post.Mark != post.MarkB2 {
		t.Fatalf("mark = %q after update", got.Post.Mark)
	}

	if err := inbox.UpdateEntry(ctx, post.Entry{ID: "ghost", Post: &post.Post{Type: post.TypeShot}}); !errors.Is(err, extractor.ErrNotFound) {
		t.Fatalf("updating missing entry: %v", err)
	}
	if err := inbox.RemoveEntry(ctx, "p1"); err != nil {
		t.Fatalf("RemoveEntry: %v", err)
	}
	if err := inbox.RemoveEntry(ctx, "p1"); !errors.Is(err, extractor.ErrNotFound) {
		t.Fatalf("removing twice: %v", err)
	}
}

func TestCollectionsAreIsolatedAndMovable(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	inbox := s.Posts(CollectionInbox)
	trash := s.Posts(CollectionTrash)

	e := post.Entry{ID: "p1", Post: &post.Post{Type: post.TypeShot, Content: []string{"a.png"}}}
	if err := inbox.AddEntry(ctx, e); err != nil {
		t.Fatal(err)
	}
	if _, err := trash.GetEntry(ctx, "p1"); !errors.Is(err, extractor.ErrNotFound) {
		t.Fatalf("collections leak: %v", err)
	}

	if err := s.MoveEntry(ctx, "p1", CollectionInbox, CollectionTrash); err != nil {
		t.Fatalf("MoveEntry: %v", err)
	}
	if _, err := inbox.GetEntry(ctx, "p1"); !errors.Is(err, extractor.ErrNotFound) {
		t.Fatal("entry still in inbox after move")
	}
	if _, err := trash.GetEntry(ctx, "p1"); err != nil {
		t.Fatalf("entry missing from trash after move: %v", err)
	}
	if err := s.MoveEntry(ctx, "p1", CollectionInbox, CollectionTrash); err == nil {
		t.Fatal("moving a missing entry must fail")
	}
}

func TestReadPublishedEntriesDesc(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	pub := s.Posts(CollectionPublished)

	base := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		e := post.Entry{ID: id, Post: &post.Post{
			Type:        post.TypeShot,
			Content:     []string{id + ".png"},
			PublishedAt: base.Add(-time.Duration(i) * 24 * time.Hour),
		}}
		if err := pub.AddEntry(ctx, e); err != nil {
			t.Fatal(err)
		}
	}
	// An unpublished stray must be excluded.
	if err := pub.AddEntry(ctx, post.Entry{ID: "draft", Post: &post.Post{Type: post.TypeShot, Content: []string{"d.png"}}}); err != nil {
		t.Fatal(err)
	}

	entries, err := pub.ReadPublishedEntriesDesc(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 || entries[0].ID != "a" || entries[2].ID != "c" {
		t.Fatalf("unexpected order: %+v", entries)
	}
}

func TestUsageStats(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	pub := s.Posts(CollectionPublished)

	add := func(id string, p *post.Post) {
		t.Helper()
		if err := pub.AddEntry(ctx, post.Entry{ID: id, Post: p}); err != nil {
			t.Fatal(err)
		}
	}
	add("1", &post.Post{Type: post.TypeShot, Author: []string{"u1", "u2"}, Tags: []string{"night"}, Location: "ru/moscow"})
	add("2", &post.Post{Type: post.TypeShot, Author: []string{"u1"}, Location: "ru/moscow", Request: &post.Request{From: "r1"}})

	authors, err := pub.GetAuthorsUsageStats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if authors["u1"] != 2 || authors["u2"] != 1 {
		t.Fatalf("author stats = %v", authors)
	}
	locations, err := pub.GetLocationsUsageStats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if locations["ru/moscow"] != 2 {
		t.Fatalf("location stats = %v", locations)
	}
	requesters, err := pub.GetRequesterUsageStats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if requesters["r1"] != 1 {
		t.Fatalf("requester stats = %v", requesters)
	}
}

func TestLocationsAndUsers(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Locations().Put(ctx, "ru/moscow", "Moscow"); err != nil {
		t.Fatal(err)
	}
	ok, err := s.Locations().Has(ctx, "ru/moscow")
	if err != nil || !ok {
		t.Fatalf("Has(ru/moscow) = %v, %v", ok, err)
	}
	ok, err = s.Locations().Has(ctx, "ru/kazan")
	if err != nil || ok {
		t.Fatalf("Has(ru/kazan) = %v, %v", ok, err)
	}

	if err := s.Users().Put(ctx, extractor.UserEntry{ID: "u1", User: extractor.User{Name: "Alice", Admin: true}}); err != nil {
		t.Fatal(err)
	}
	entries, err := s.Users().GetEntries(ctx, []string{"u1", "ghost"})
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 || entries[0].User.Name != "Alice" || entries[1].User.Name != "" {
		t.Fatalf("user entries = %+v", entries)
	}

	u, err := s.Users().GetEntry(ctx, "u1")
	if err != nil || !u.User.Admin {
		t.Fatalf("GetEntry(u1) = %+v, %v", u, err)
	}
	if _, err := s.Users().GetEntry(ctx, "ghost"); !errors.Is(err, extractor.ErrNotFound) {
		t.Fatalf("missing user: %v", err)
	}
}
