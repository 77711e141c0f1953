package telegram

import (
	"testing"

	"shotarc/internal/post"
	"shotarc/pkg/logx"
)

func TestNewRequiresTokenAndChat(t *testing.T) {
	t.Parallel()
	if _, err := New(Config{ChatID: 1}, logx.Nop()); err == nil {
		t.Fatal("missing token must be rejected")
	}
	if _, err := New(Config{Token: "x"}, logx.Nop()); err == nil {
		t.Fatal("missing chat id must be rejected")
	}
}

func TestCaption(t *testing.T) {
	t.Parallel()
	e := post.Entry{ID: "p1", Post: &post.Post{
		Title:    "Sunset",
		Author:   []string{"alice", "bob"},
		Location: "ru/moscow/center",
	}}
	got := Caption(e)
	want := "Sunset\nby alice, bob\nru, moscow, center"
	if got != want {
		t.Fatalf("caption = %q, want %q", got, want)
	}

	bare := post.Entry{ID: "p2", Post: &post.Post{}}
	if got := Caption(bare); got != "p2" {
		t.Fatalf("bare caption = %q, want post id", got)
	}
}
