// Package discord is the chat surface: it receives gateway events, mirrors
// every human message into the history store, and routes commands into the
// generation and redo layers.
package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/moaibot/discord-snark-bot/ai/snark"
	"github.com/moaibot/discord-snark-bot/config"
	"github.com/moaibot/discord-snark-bot/database"
	"github.com/moaibot/discord-snark-bot/logging"
	"github.com/moaibot/discord-snark-bot/replay"
)

type Client struct {
	Session *discordgo.Session

	gen      *snark.Client
	redo     *replay.Controller
	store    database.MessageWriter
	activity database.ActivityTracker
	status   database.StatusStore
	logger   *logging.Logger
	adminID  string
	news     NewsTrigger
}

// NewSession builds an authenticated gateway session with the intents the
// bot needs. The caller still has to Open it, which Setup does.
func NewSession(token string) (*discordgo.Session, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages | discordgo.IntentMessageContent
	return session, nil
}

// Setup registers the message handler on an existing session and opens the
// gateway connection.
func Setup(session *discordgo.Session, cfg *config.Config, gen *snark.Client, redo *replay.Controller, db *database.Postgres, logger *logging.Logger) (*Client, error) {
	c := &Client{
		Session:  session,
		gen:      gen,
		redo:     redo,
		store:    db,
		activity: db,
		status:   db,
		logger:   logger.WithComponent("discord"),
		adminID:  cfg.AdminUserID,
	}

	session.AddHandler(c.onMessageCreate)

	if err := session.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection to discord: %w", err)
	}
	c.logger.Info("connected to discord gateway", "user", session.State.User.Username)
	return c, nil
}

// Close shuts the gateway connection down.
func (c *Client) Close() error {
	return c.Session.Close()
}
