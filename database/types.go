package database

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage is one inbound chat message, or a typed placeholder for
// non-text content. Rows are append-only; nothing updates or deletes them.
type ChatMessage struct {
	UUID             uuid.UUID `db:"uuid"`
	ChatID           string    `db:"chat_id"`
	AuthorName       string    `db:"author_name"`
	Body             string    `db:"body"`
	DiscordMessageID string    `db:"discord_message_id"`
	Time             time.Time `db:"created_at"`
}

// ChatActivity tracks when a chat last saw a human message and when the bot
// last posted into it on its own. The idle poster reads this to find quiet
// chats.
type ChatActivity struct {
	ChatID        string    `db:"chat_id"`
	LastMessageAt time.Time `db:"last_message_at"`
	LastBotPostAt time.Time `db:"last_bot_post_at"`
}
