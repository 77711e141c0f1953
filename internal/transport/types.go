// Package transport defines the posting-channel boundary. The scheduler core
// never talks to a network; the app hands the chosen post to one or more
// Publishers.
package transport

import (
	"context"

	"shotarc/internal/post"
)

// PostRef identifies a publication on a channel.
type PostRef struct {
	Channel   string
	MessageID string
	URL       string
}

// Publisher posts one entry to one channel. Implementations own their rate
// limiting; errors propagate to the caller, which owns retry policy.
type Publisher interface {
	Name() string
	Publish(ctx context.Context, e post.Entry) (PostRef, error)
}
