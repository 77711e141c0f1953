// Package maintenance holds periodic housekeeping passes over the archive.
package maintenance

import (
	"context"

	"shotarc/internal/extractor"
	"shotarc/pkg/logx"
)

// Mover relocates a post between collections.
type Mover interface {
	MoveEntry(ctx context.Context, id, from, to string) error
}

// ExchangeInboxAndTrash moves rejected inbox items (violation set) to trash
// and restores trash items whose violation was cleared back to inbox.
// Per-item failures are logged and skipped; the pass keeps going.
func ExchangeInboxAndTrash(ctx context.Context, inbox, trash extractor.PostsManager, mover Mover, log logx.Logger) error {
	if log.IsZero() {
		log = logx.Nop()
	}
	log.Info("exchanging inbox and trash")

	if err := cleanupInbox(ctx, inbox, trash, mover, log); err != nil {
		return err
	}
	return restoreTrashItems(ctx, inbox, trash, mover, log)
}

func cleanupInbox(ctx context.Context, inbox, trash extractor.PostsManager, mover Mover, log logx.Logger) error {
	entries, err := inbox.ReadAllEntries(ctx)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if !e.Post.Rejected() {
			continue
		}
		if err := mover.MoveEntry(ctx, e.ID, inbox.Name(), trash.Name()); err != nil {
			log.Warn("moving rejected inbox item failed",
				logx.String("post", e.ID), logx.Err(err))
			continue
		}
		log.Info("moved rejected inbox item to trash",
			logx.String("post", e.ID),
			logx.String("violation", string(e.Post.Violation)),
		)
	}
	return nil
}

func restoreTrashItems(ctx context.Context, inbox, trash extractor.PostsManager, mover Mover, log logx.Logger) error {
	entries, err := trash.ReadAllEntries(ctx)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.Post.Rejected() {
			continue
		}
		if err := mover.MoveEntry(ctx, e.ID, trash.Name(), inbox.Name()); err != nil {
			log.Warn("restoring trash item failed",
				logx.String("post", e.ID), logx.Err(err))
			continue
		}
		log.Info("restored trash item", logx.String("post", e.ID))
	}
	return nil
}
