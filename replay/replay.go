// Package replay tracks the bot's most recent generated post per chat and
// regenerates it on request. Generation handlers are invoked with the stored
// parameters instead of the original trigger, so a redo of a redo keeps
// working: every successful post overwrites the chat's single record.
package replay

import (
	"context"
	"time"
)

// Kind identifies which generation operation produced a bot post.
type Kind string

const (
	KindTextAnalysis Kind = "text-analysis"
	KindImageComment Kind = "image-comment"
	KindPoem         Kind = "poem"
	KindPickupLine   Kind = "pickup-line"
	KindRoast        Kind = "roast"
	KindPraise       Kind = "praise"
)

// Parameter keys used in Record.Params.
const (
	ParamTargetName = "target_name"
	ParamGenderHint = "gender_hint"
	ParamImageRef   = "source_image_ref"
)

// Params holds the kind-specific parameters needed to regenerate a post.
// Empty for parameter-less kinds.
type Params map[string]string

// Record describes the most recent replayable bot post in a chat. The bot
// message id doubles as the authorization token: a redo request is only valid
// when it replies to exactly that message.
type Record struct {
	ChatID       string
	BotMessageID string
	Kind         Kind
	Params       Params
	CreatedAt    time.Time
}

// Registry stores at most one Record per chat, last write wins.
type Registry interface {
	// Record upserts the single record for rec.ChatID.
	Record(ctx context.Context, rec Record) error
	// Lookup returns the current record for a chat, or nil without error
	// when the chat has none.
	Lookup(ctx context.Context, chatID string) (*Record, error)
}

// Request carries a chat and the stored parameters back into a generation
// handler. Handlers must not assume a live inbound message exists.
type Request struct {
	ChatID        string
	RequesterName string
	Params        Params
}

// Messenger is the slice of the chat platform the replay layer needs.
type Messenger interface {
	Send(ctx context.Context, chatID, text string) (messageID string, err error)
	Delete(ctx context.Context, chatID, messageID string) error
}
