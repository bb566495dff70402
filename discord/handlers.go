package discord

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/moaibot/discord-snark-bot/ai"
	"github.com/moaibot/discord-snark-bot/database"
	"github.com/moaibot/discord-snark-bot/metrics"
	"github.com/moaibot/discord-snark-bot/replay"
)

// NewsTrigger is set by main when news posting is configured; !news runs it.
type NewsTrigger func(ctx context.Context) error

// SetNewsTrigger wires the on-demand news command. Safe to skip when the
// news key is absent.
func (c *Client) SetNewsTrigger(fn NewsTrigger) {
	c.news = fn
}

// free-text triggers: addressing the bot by name instead of a command
var (
	analyzeMention = regexp.MustCompile(`(?i)^moai[,.!]?\s+(what('| i)?s (been )?(going on|happening)|analy[sz]e|your opinion)`)
	predictMention = regexp.MustCompile(`(?i)^moai[,.!]?\s+(tell my fortune|predict)`)
	poemMention    = regexp.MustCompile(`(?i)^moai[,.!]?\s+(?:write )?(?:a )?poem about (.+)`)
	redoMention    = regexp.MustCompile(`(?i)^moai[,.!]?\s+redo\b`)
)

func (c *Client) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	metrics.DiscordMessageGotten.Add(1)

	ctx := context.Background()

	// mirror every human message into history, off the gateway goroutine
	go c.storeMessage(ctx, m)

	cmd, arg := parseCommand(m.Content)
	if cmd == "" {
		cmd, arg = freeTextIntent(m.Content)
	}

	replyToBot := m.ReferencedMessage != nil && m.ReferencedMessage.Author != nil &&
		s.State.User != nil && m.ReferencedMessage.Author.ID == s.State.User.ID

	// a plain reply to one of the bot's posts gets a comeback
	if cmd == "" {
		if replyToBot {
			if c.blockedByMaintenance(ctx, m) {
				return
			}
			go c.comeback(ctx, m)
		}
		return
	}

	if cmd == "!maintenance" {
		c.handleMaintenance(ctx, m, arg)
		return
	}
	if c.blockedByMaintenance(ctx, m) {
		return
	}

	req := replay.Request{ChatID: m.ChannelID, RequesterName: authorName(m)}

	switch cmd {
	case "!analyze":
		go c.logged("analyze", func() error { return c.gen.AnalyzeChat(ctx, req) })
	case "!pic":
		url := firstImageURL(m.Message)
		if url == "" && m.ReferencedMessage != nil {
			url = firstImageURL(m.ReferencedMessage)
		}
		if url == "" {
			c.say(m.ChannelID, ai.Marker+" Attach a picture or reply to one.")
			return
		}
		req.Params = replay.Params{replay.ParamImageRef: url}
		go c.logged("pic", func() error { return c.gen.CommentImage(ctx, req) })
	case "!poem":
		if arg != "" {
			req.Params = replay.Params{replay.ParamTargetName: arg}
		}
		go c.logged("poem", func() error { return c.gen.Poem(ctx, req) })
	case "!predict":
		go c.logged("predict", func() error { return c.gen.Prediction(ctx, m.ChannelID, authorName(m)) })
	case "!pickup":
		go c.logged("pickup", func() error { return c.gen.PickupLine(ctx, req) })
	case "!roast":
		req.Params = targetParams(m, arg, true)
		if req.Params[replay.ParamTargetName] == "" {
			c.say(m.ChannelID, ai.Marker+" Who am I roasting? Name them or reply to their message: !roast <name> [m|f]")
			return
		}
		go c.logged("roast", func() error { return c.gen.Roast(ctx, req) })
	case "!praise":
		req.Params = targetParams(m, arg, false)
		go c.logged("praise", func() error { return c.gen.Praise(ctx, req) })
	case "!redo":
		trig := replay.Trigger{
			ChatID:        m.ChannelID,
			MessageID:     m.ID,
			RequesterName: authorName(m),
		}
		if m.ReferencedMessage != nil {
			trig.RepliedToID = m.ReferencedMessage.ID
			trig.RepliedToBot = replyToBot
		}
		go c.redo.Handle(ctx, trig)
	case "!news":
		if c.news == nil {
			c.say(m.ChannelID, ai.Marker+" News posting is not configured.")
			return
		}
		go c.logged("news", func() error { return c.news(ctx) })
	case "!help":
		c.help(m.ChannelID)
	}
}

// storeMessage persists one inbound message and stamps the chat's activity.
func (c *Client) storeMessage(ctx context.Context, m *discordgo.MessageCreate) {
	msg := database.ChatMessage{
		ChatID:           m.ChannelID,
		AuthorName:       authorName(m),
		Body:             messageBody(m.Message),
		DiscordMessageID: m.ID,
		Time:             time.Now(),
	}
	if _, err := c.store.InsertMessage(ctx, msg); err != nil {
		metrics.MessageStoreFailed.Add(1)
		c.logger.Error("failed to store chat message", "error", err.Error(), "chatID", m.ChannelID)
		return
	}
	metrics.MessageStoredCount.Add(1)

	if err := c.activity.TouchChat(ctx, m.ChannelID, time.Now()); err != nil {
		c.logger.Warn("failed to touch chat activity", "error", err.Error(), "chatID", m.ChannelID)
	}
}

// blockedByMaintenance enforces the maintenance gate. The admin in a DM is
// exempt. Blocked triggers get one notice and their command removed.
func (c *Client) blockedByMaintenance(ctx context.Context, m *discordgo.MessageCreate) bool {
	if c.adminID != "" && m.Author.ID == c.adminID {
		return false
	}
	on, err := c.status.IsMaintenance(ctx)
	if err != nil {
		c.logger.Error("failed to read maintenance state", "error", err.Error())
		return false
	}
	if !on {
		return false
	}
	c.say(m.ChannelID, ai.Marker+" Closed for maintenance. Come back later.")
	if err := c.Session.ChannelMessageDelete(m.ChannelID, m.ID); err != nil {
		c.logger.Warn("failed to delete blocked command", "error", err.Error(), "messageID", m.ID)
	}
	return true
}

// handleMaintenance toggles maintenance mode. Admin only, DM only.
func (c *Client) handleMaintenance(ctx context.Context, m *discordgo.MessageCreate, arg string) {
	if c.adminID == "" || m.Author.ID != c.adminID || m.GuildID != "" {
		c.say(m.ChannelID, ai.Marker+" You do not get to flip that switch.")
		return
	}
	var on bool
	switch strings.ToLower(arg) {
	case "on":
		on = true
	case "off":
		on = false
	default:
		c.say(m.ChannelID, "usage: !maintenance on|off")
		return
	}
	if err := c.status.SetMaintenance(ctx, on); err != nil {
		c.logger.Error("failed to set maintenance state", "error", err.Error())
		c.say(m.ChannelID, "[could not update maintenance state]")
		return
	}
	c.logger.Info("maintenance state changed", "on", on, "by", authorName(m))
	if on {
		c.say(m.ChannelID, ai.Marker+" Maintenance mode is ON.")
	} else {
		c.say(m.ChannelID, ai.Marker+" Maintenance mode is OFF.")
	}
}

func (c *Client) comeback(ctx context.Context, m *discordgo.MessageCreate) {
	err := c.gen.Comeback(ctx, m.ChannelID, authorName(m), m.ReferencedMessage.Content, m.Content)
	if err != nil {
		c.logger.Error("comeback failed", "error", err.Error(), "chatID", m.ChannelID)
	}
}

// logged runs a generation operation and logs its error, if any. The user
// already got their message from the operation itself.
func (c *Client) logged(op string, fn func() error) {
	if err := fn(); err != nil {
		c.logger.Error("operation failed", "op", op, "error", err.Error())
	}
}

func (c *Client) say(chatID, text string) {
	if _, err := c.Session.ChannelMessageSend(chatID, text); err != nil {
		c.logger.Error("failed to send message", "error", err.Error(), "chatID", chatID)
		return
	}
	metrics.DiscordMessageSent.Add(1)
}

// parseCommand splits a prefix command into its name and argument tail.
// Returns "" for non-command messages.
func parseCommand(content string) (cmd, arg string) {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "!") {
		return "", ""
	}
	fields := strings.Fields(content)
	if len(fields) == 0 {
		return "", ""
	}
	cmd = strings.ToLower(fields[0])
	arg = strings.TrimSpace(strings.TrimPrefix(content, fields[0]))
	return cmd, arg
}

// freeTextIntent maps messages addressing the bot by name onto commands.
func freeTextIntent(content string) (cmd, arg string) {
	content = strings.TrimSpace(content)
	switch {
	case redoMention.MatchString(content):
		return "!redo", ""
	case analyzeMention.MatchString(content):
		return "!analyze", ""
	case predictMention.MatchString(content):
		return "!predict", ""
	}
	if m := poemMention.FindStringSubmatch(content); m != nil {
		return "!poem", strings.TrimSpace(m[1])
	}
	return "", ""
}

// targetParams resolves the target of a roast or praise: the replied-to
// author wins, then the command argument. Roasts also carry a gender hint.
func targetParams(m *discordgo.MessageCreate, arg string, withGender bool) replay.Params {
	params := replay.Params{}

	name := ""
	gender := ""
	if m.ReferencedMessage != nil && m.ReferencedMessage.Author != nil {
		name = m.ReferencedMessage.Author.Username
		gender = strings.ToLower(strings.TrimSpace(arg))
	} else if fields := strings.Fields(arg); len(fields) > 0 {
		name = fields[0]
		if len(fields) > 1 {
			gender = strings.ToLower(fields[1])
		}
	}
	if name != "" {
		params[replay.ParamTargetName] = name
	}
	if withGender {
		switch gender {
		case "m", "male":
			params[replay.ParamGenderHint] = "male"
		case "f", "female":
			params[replay.ParamGenderHint] = "female"
		}
	}
	return params
}

// messageBody renders a message for the history store, replacing media with
// placeholders the analysis prompt can still make sense of.
func messageBody(m *discordgo.Message) string {
	parts := []string{}
	if s := strings.TrimSpace(m.Content); s != "" {
		parts = append(parts, s)
	}
	for _, att := range m.Attachments {
		switch {
		case strings.HasPrefix(att.ContentType, "image/"):
			parts = append(parts, "[IMAGE:"+att.URL+"]")
		case strings.HasPrefix(att.ContentType, "video/"):
			parts = append(parts, "[VIDEO]")
		case strings.HasPrefix(att.ContentType, "audio/"):
			parts = append(parts, "[VOICE]")
		default:
			parts = append(parts, "[FILE:"+att.Filename+"]")
		}
	}
	for _, sticker := range m.StickerItems {
		parts = append(parts, "[STICKER "+sticker.Name+"]")
	}
	return strings.Join(parts, " ")
}

func firstImageURL(m *discordgo.Message) string {
	for _, att := range m.Attachments {
		if strings.HasPrefix(att.ContentType, "image/") {
			return att.URL
		}
	}
	return ""
}

func authorName(m *discordgo.MessageCreate) string {
	if m.Member != nil && m.Member.Nick != "" {
		return m.Member.Nick
	}
	if m.Author.GlobalName != "" {
		return m.Author.GlobalName
	}
	return m.Author.Username
}
