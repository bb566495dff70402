package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/moaibot/discord-snark-bot/replay"
)

// lastResponseRow is the storage shape of a replay.Record; params ride as
// jsonb.
type lastResponseRow struct {
	ChatID       string    `db:"chat_id"`
	BotMessageID string    `db:"bot_message_id"`
	Kind         string    `db:"kind"`
	Params       []byte    `db:"params"`
	CreatedAt    time.Time `db:"created_at"`
}

// Record upserts the single last-response record for a chat, replacing any
// prior record unconditionally. Only successful sends should call this, so a
// failed regeneration leaves the previous replay target intact.
func (p *Postgres) Record(ctx context.Context, rec replay.Record) error {
	params, err := json.Marshal(rec.Params)
	if err != nil {
		return fmt.Errorf("error encoding replay params: %w", err)
	}

	query := `INSERT INTO last_responses (chat_id, bot_message_id, kind, params, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (chat_id) DO UPDATE SET
			bot_message_id = EXCLUDED.bot_message_id,
			kind = EXCLUDED.kind,
			params = EXCLUDED.params,
			created_at = EXCLUDED.created_at`
	_, err = p.connections.ExecContext(ctx, query, rec.ChatID, rec.BotMessageID, string(rec.Kind), params, rec.CreatedAt)
	if err != nil {
		p.logger.Error("error recording last response", "error", err.Error(), "chatID", rec.ChatID)
		return fmt.Errorf("error recording last response: %w", err)
	}

	p.logger.Debug("recorded last response", "chatID", rec.ChatID, "kind", rec.Kind, "botMessageID", rec.BotMessageID)
	return nil
}

// Lookup returns the chat's current last-response record, or nil when the
// chat has never had a replayable post.
func (p *Postgres) Lookup(ctx context.Context, chatID string) (*replay.Record, error) {
	query := "SELECT chat_id, bot_message_id, kind, params, created_at FROM last_responses WHERE chat_id = $1"

	var row lastResponseRow
	err := p.connections.GetContext(ctx, &row, query, chatID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error looking up last response: %w", err)
	}

	params := replay.Params{}
	if len(row.Params) > 0 {
		if err := json.Unmarshal(row.Params, &params); err != nil {
			return nil, fmt.Errorf("error decoding replay params: %w", err)
		}
	}

	return &replay.Record{
		ChatID:       row.ChatID,
		BotMessageID: row.BotMessageID,
		Kind:         replay.Kind(row.Kind),
		Params:       params,
		CreatedAt:    row.CreatedAt,
	}, nil
}
