package database

import (
	"context"
	"fmt"
	"time"
)

type ActivityTracker interface {
	TouchChat(ctx context.Context, chatID string, at time.Time) error
	MarkBotPost(ctx context.Context, chatID string, at time.Time) error
	AllChatIDs(ctx context.Context) ([]string, error)
	QuietChats(ctx context.Context, cutoff time.Time) ([]string, error)
}

// TouchChat stamps the chat's last human message time, creating the activity
// row on first sight of a chat.
func (p *Postgres) TouchChat(ctx context.Context, chatID string, at time.Time) error {
	query := `INSERT INTO chat_activity (chat_id, last_message_at, last_bot_post_at)
		VALUES ($1, $2, to_timestamp(0))
		ON CONFLICT (chat_id) DO UPDATE SET last_message_at = EXCLUDED.last_message_at`
	_, err := p.connections.ExecContext(ctx, query, chatID, at)
	if err != nil {
		return fmt.Errorf("error touching chat activity: %w", err)
	}
	return nil
}

// MarkBotPost stamps the time of an unsolicited bot post so quiet chats are
// not spammed back to back.
func (p *Postgres) MarkBotPost(ctx context.Context, chatID string, at time.Time) error {
	query := "UPDATE chat_activity SET last_bot_post_at = $2 WHERE chat_id = $1"
	_, err := p.connections.ExecContext(ctx, query, chatID, at)
	if err != nil {
		return fmt.Errorf("error marking bot post: %w", err)
	}
	return nil
}

// AllChatIDs lists every chat the bot has seen a message in.
func (p *Postgres) AllChatIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := p.connections.SelectContext(ctx, &ids, "SELECT chat_id FROM chat_activity ORDER BY chat_id")
	if err != nil {
		return nil, fmt.Errorf("error listing chats: %w", err)
	}
	return ids, nil
}

// QuietChats returns chats whose last human message and last unsolicited bot
// post are both older than the cutoff.
func (p *Postgres) QuietChats(ctx context.Context, cutoff time.Time) ([]string, error) {
	query := "SELECT chat_id FROM chat_activity WHERE last_message_at < $1 AND last_bot_post_at < $1 ORDER BY chat_id"
	var ids []string
	err := p.connections.SelectContext(ctx, &ids, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("error listing quiet chats: %w", err)
	}
	return ids, nil
}
