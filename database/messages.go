package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type MessageWriter interface {
	InsertMessage(ctx context.Context, msg ChatMessage) (uuid.UUID, error)
}

type HistoryReader interface {
	RecentMessages(ctx context.Context, chatID string, limit int) ([]ChatMessage, error)
}

// InsertMessage appends a message to the chat history and returns its UUID.
func (p *Postgres) InsertMessage(ctx context.Context, msg ChatMessage) (uuid.UUID, error) {
	ID, err := uuid.NewUUID()
	if err != nil {
		p.logger.Error("error generating UUID", "error", err.Error())
		return uuid.UUID{}, fmt.Errorf("error generating UUID: %w", err)
	}
	msg.UUID = ID

	query := "INSERT INTO chat_messages (uuid, chat_id, author_name, body, discord_message_id, created_at) VALUES (:uuid, :chat_id, :author_name, :body, :discord_message_id, :created_at)"
	p.logger.Debug("inserting message into database", "messageID", ID, "chatID", msg.ChatID)

	_, err = p.connections.NamedExecContext(ctx, query, msg)
	if err != nil {
		p.logger.Error("error inserting message into database", "error", err.Error(), "messageID", ID)
		return uuid.UUID{}, fmt.Errorf("error inserting message: %w", err)
	}

	return ID, nil
}

// RecentMessages returns the most recent limit messages for a chat in
// chronological order, oldest first. An unknown chat yields an empty slice,
// not an error.
func (p *Postgres) RecentMessages(ctx context.Context, chatID string, limit int) ([]ChatMessage, error) {
	query := "SELECT uuid, chat_id, author_name, body, discord_message_id, created_at FROM chat_messages WHERE chat_id = $1 ORDER BY created_at DESC LIMIT $2"

	var messages []ChatMessage
	rows, err := p.connections.QueryxContext(ctx, query, chatID, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying chat history: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var msg ChatMessage
		if err := rows.StructScan(&msg); err != nil {
			return nil, fmt.Errorf("error scanning chat history: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error scanning chat history: %w", err)
	}

	// query is newest-first so the LIMIT keeps the right window,
	// callers want oldest-first
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}
