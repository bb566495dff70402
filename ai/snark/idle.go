package snark

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/moaibot/discord-snark-bot/database"
	"github.com/moaibot/discord-snark-bot/logging"
)

// IdleTask sweeps for chats that have gone quiet and drops an unsolicited
// post into each. Suppressed entirely during maintenance.
type IdleTask struct {
	gen       *Client
	activity  database.ActivityTracker
	status    database.StatusStore
	threshold time.Duration
	logger    *logging.Logger
}

func NewIdleTask(gen *Client, activity database.ActivityTracker, status database.StatusStore, threshold time.Duration, logger *logging.Logger) *IdleTask {
	return &IdleTask{
		gen:       gen,
		activity:  activity,
		status:    status,
		threshold: threshold,
		logger:    logger.WithComponent("idle"),
	}
}

func (t *IdleTask) Name() string { return "idle-poster" }

func (t *IdleTask) Run(ctx context.Context) error {
	on, err := t.status.IsMaintenance(ctx)
	if err != nil {
		return errors.Wrap(err, "reading maintenance state")
	}
	if on {
		return nil
	}

	chats, err := t.activity.QuietChats(ctx, time.Now().Add(-t.threshold))
	if err != nil {
		return errors.Wrap(err, "finding quiet chats")
	}

	for _, chatID := range chats {
		if err := t.gen.IdlePost(ctx, chatID); err != nil {
			t.logger.Error("idle post failed", "error", err.Error(), "chatID", chatID)
			continue
		}
		if err := t.activity.MarkBotPost(ctx, chatID, time.Now()); err != nil {
			t.logger.Warn("failed to mark bot post", "error", err.Error(), "chatID", chatID)
		}
	}
	return nil
}
