// Package telegram publishes archive posts to a Telegram channel via telebot.
package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
	tele "gopkg.in/telebot.v4"

	"shotarc/internal/post"
	"shotarc/internal/transport"
	"shotarc/pkg/logx"
)

type Config struct {
	Token       string
	ChatID      int64
	PollTimeout time.Duration
	// RatePerMin caps outgoing sends; Telegram throttles channels around
	// 20 messages/min.
	RatePerMin int
}

type Publisher struct {
	cfg     Config
	log     logx.Logger
	bot     *tele.Bot
	limiter *rate.Limiter
}

func New(cfg Config, log logx.Logger) (*Publisher, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, fmt.Errorf("telegram: token is required")
	}
	if cfg.ChatID == 0 {
		return nil, fmt.Errorf("telegram: chat id is required")
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	pollTimeout := cfg.PollTimeout
	if pollTimeout <= 0 {
		pollTimeout = 10 * time.Second
	}
	rpm := cfg.RatePerMin
	if rpm <= 0 {
		rpm = 20
	}

	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: pollTimeout},
	})
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}

	return &Publisher{
		cfg:     cfg,
		log:     log.With(logx.String("comp", "telegram")),
		bot:     bot,
		limiter: rate.NewLimiter(rate.Limit(float64(rpm)/60.0), 1),
	}, nil
}

func (p *Publisher) Name() string { return "telegram" }

// Publish sends the post's first content reference as a photo with a caption,
// or an album for multi-content posts (shot sets).
func (p *Publisher) Publish(ctx context.Context, e post.Entry) (transport.PostRef, error) {
	if len(e.Post.Content) == 0 {
		return transport.PostRef{}, fmt.Errorf("telegram: post %q has no content", e.ID)
	}
	if err := p.limiter.Wait(ctx); err != nil {
		return transport.PostRef{}, err
	}

	chat := &tele.Chat{ID: p.cfg.ChatID}
	caption := Caption(e)

	var msg *tele.Message
	var err error
	if len(e.Post.Content) == 1 {
		photo := &tele.Photo{File: tele.FromURL(e.Post.Content[0]), Caption: caption}
		msg, err = p.bot.Send(chat, photo)
	} else {
		album := make(tele.Album, 0, len(e.Post.Content))
		for i, ref := range e.Post.Content {
			photo := &tele.Photo{File: tele.FromURL(ref)}
			if i == 0 {
				photo.Caption = caption
			}
			album = append(album, photo)
		}
		var msgs []tele.Message
		msgs, err = p.bot.SendAlbum(chat, album)
		if err == nil && len(msgs) > 0 {
			msg = &msgs[0]
		}
	}
	if err != nil {
		return transport.PostRef{}, fmt.Errorf("telegram: send %q: %w", e.ID, err)
	}

	ref := transport.PostRef{Channel: p.Name()}
	if msg != nil {
		ref.MessageID = strconv.Itoa(msg.ID)
	}
	p.log.Info("published", logx.String("post", e.ID), logx.String("message", ref.MessageID))
	return ref, nil
}

// Caption renders the channel caption: title, author line and location.
func Caption(e post.Entry) string {
	var b strings.Builder
	title := e.Post.Title
	if title == "" {
		title = e.ID
	}
	b.WriteString(title)
	if len(e.Post.Author) > 0 {
		b.WriteString("\nby ")
		b.WriteString(strings.Join(e.Post.Author, ", "))
	}
	if e.Post.Location != "" {
		b.WriteString("\n")
		b.WriteString(strings.Join(post.LocationParts(e.Post.Location), ", "))
	}
	return b.String()
}
