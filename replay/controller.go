package replay

import (
	"context"

	"github.com/pkg/errors"

	"github.com/moaibot/discord-snark-bot/logging"
	"github.com/moaibot/discord-snark-bot/metrics"
)

// Trigger describes an inbound redo request as seen by the chat surface.
type Trigger struct {
	ChatID        string
	MessageID     string // the user's own command message
	RequesterName string
	RepliedToID   string // empty when the request is not a reply
	RepliedToBot  bool   // whether the replied-to message was authored by the bot
}

// Controller validates redo requests against the registry, cleans up the old
// output, and hands regeneration to the dispatcher. Every failure path ends in
// one user-facing message; nothing propagates to the caller.
type Controller struct {
	registry   Registry
	dispatcher *Dispatcher
	chat       Messenger
	logger     *logging.Logger
}

// NewController wires a controller from its collaborators.
func NewController(registry Registry, dispatcher *Dispatcher, chat Messenger, logger *logging.Logger) *Controller {
	if logger == nil {
		logger = logging.Default()
	}
	return &Controller{
		registry:   registry,
		dispatcher: dispatcher,
		chat:       chat,
		logger:     logger,
	}
}

// Handle runs one redo request through validation and dispatch.
func (c *Controller) Handle(ctx context.Context, trig Trigger) {
	c.logger.Info("redo requested", "chatID", trig.ChatID, "repliedTo", trig.RepliedToID, "requester", trig.RequesterName)

	if trig.RepliedToID == "" {
		c.reject(ctx, trig, "Reply to the post of mine you want redone, then ask again.")
		return
	}
	if !trig.RepliedToBot {
		c.reject(ctx, trig, "That is not my message. I only redo my own material.")
		return
	}

	rec, err := c.registry.Lookup(ctx, trig.ChatID)
	if err != nil {
		c.logger.Error("registry lookup failed", "error", err.Error(), "chatID", trig.ChatID)
		c.reject(ctx, trig, "I could not reach my memory. Try again later.")
		return
	}
	if rec == nil {
		c.reject(ctx, trig, "I have no memory of a previous post in this chat. Nothing to redo.")
		return
	}
	if rec.BotMessageID != trig.RepliedToID {
		c.logger.Warn("redo targets a message that is not the registered one",
			"chatID", trig.ChatID, "repliedTo", trig.RepliedToID, "registered", rec.BotMessageID)
		c.reject(ctx, trig, "That is not my latest post here. I only redo the most recent one.")
		return
	}

	// Validated. Clean up the old output and the command, then regenerate.
	if err := c.chat.Delete(ctx, trig.ChatID, rec.BotMessageID); err != nil {
		c.logger.Warn("failed to delete old bot message", "error", err.Error(), "messageID", rec.BotMessageID)
	}
	if err := c.chat.Delete(ctx, trig.ChatID, trig.MessageID); err != nil {
		c.logger.Warn("failed to delete redo command", "error", err.Error(), "messageID", trig.MessageID)
	}

	if err := c.dispatcher.Dispatch(ctx, rec, trig.RequesterName); err != nil {
		metrics.ReplayFailedCount.Add(1)
		if errors.Is(err, ErrUnknownKind) {
			c.logger.Error("cannot reproduce stored output", "error", err.Error(), "chatID", trig.ChatID)
			c.send(ctx, trig.ChatID, "I cannot reproduce that one. No idea what I was doing back then.")
			return
		}
		c.logger.Error("replay dispatch failed", "error", err.Error(), "kind", rec.Kind, "chatID", trig.ChatID)
		c.send(ctx, trig.ChatID, "The redo of my "+string(rec.Kind)+" fell apart. Try again later.")
		return
	}
	metrics.ReplayOKCount.Add(1)
}

// reject sends one explanation and best-effort deletes the triggering command.
// The registry is never touched on a rejection.
func (c *Controller) reject(ctx context.Context, trig Trigger, explanation string) {
	metrics.ReplayRejectedCount.Add(1)
	c.send(ctx, trig.ChatID, explanation)
	if err := c.chat.Delete(ctx, trig.ChatID, trig.MessageID); err != nil {
		c.logger.Warn("failed to delete redo command", "error", err.Error(), "messageID", trig.MessageID)
	}
}

func (c *Controller) send(ctx context.Context, chatID, text string) {
	if _, err := c.chat.Send(ctx, chatID, text); err != nil {
		c.logger.Error("failed to send redo status message", "error", err.Error(), "chatID", chatID)
	}
}
