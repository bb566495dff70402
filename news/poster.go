package news

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/moaibot/discord-snark-bot/ai"
	"github.com/moaibot/discord-snark-bot/database"
	"github.com/moaibot/discord-snark-bot/logging"
	"github.com/moaibot/discord-snark-bot/metrics"
	"github.com/moaibot/discord-snark-bot/replay"
)

// Commenter produces a one-line opinion on a headline. Implemented by the
// generation layer.
type Commenter interface {
	NewsComment(ctx context.Context, source, title, description string) (string, error)
}

// Poster is the scheduled task that assembles a commented news digest and
// posts it to every known chat. During maintenance the digest goes only to
// the admin's DM channel, when one is configured.
type Poster struct {
	client    *Client
	commenter Commenter
	chat      replay.Messenger
	activity  database.ActivityTracker
	status    database.StatusStore
	adminChat string
	logger    *logging.Logger
}

func NewPoster(client *Client, commenter Commenter, chat replay.Messenger, activity database.ActivityTracker, status database.StatusStore, adminChat string, logger *logging.Logger) *Poster {
	return &Poster{
		client:    client,
		commenter: commenter,
		chat:      chat,
		activity:  activity,
		status:    status,
		adminChat: adminChat,
		logger:    logger.WithComponent("news"),
	}
}

func (p *Poster) Name() string { return "news-poster" }

// Run fetches the headlines, generates one comment per story, and delivers
// the digest.
func (p *Poster) Run(ctx context.Context) error {
	articles, err := p.client.TopHeadlines(ctx)
	if err != nil {
		return errors.Wrap(err, "fetching headlines")
	}
	if len(articles) == 0 {
		p.logger.Warn("no headlines to post")
		return nil
	}

	digest := p.buildDigest(ctx, articles)

	targets, err := p.targets(ctx)
	if err != nil {
		return err
	}
	for _, chatID := range targets {
		if _, err := p.chat.Send(ctx, chatID, digest); err != nil {
			p.logger.Error("failed to post news digest", "error", err.Error(), "chatID", chatID)
			continue
		}
		metrics.NewsPostCount.Add(1)
		if err := p.activity.MarkBotPost(ctx, chatID, time.Now()); err != nil {
			p.logger.Warn("failed to mark bot post", "error", err.Error(), "chatID", chatID)
		}
	}
	return nil
}

func (p *Poster) buildDigest(ctx context.Context, articles []Article) string {
	var b strings.Builder
	b.WriteString(ai.Marker + " The world today, annotated:\n")
	for _, a := range articles {
		fmt.Fprintf(&b, "\n**%s**\n<%s>\n", a.Title, a.URL)
		comment, err := p.commenter.NewsComment(ctx, a.Source.Name, a.Title, a.Description)
		if err != nil {
			p.logger.Error("failed to generate news comment", "error", err.Error(), "title", a.Title)
			continue
		}
		if comment != "" {
			b.WriteString(comment + "\n")
		}
	}
	return ai.Truncate(strings.TrimRight(b.String(), "\n"), 2000)
}

// targets picks the chats to deliver to, honoring maintenance mode.
func (p *Poster) targets(ctx context.Context) ([]string, error) {
	on, err := p.status.IsMaintenance(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "reading maintenance state")
	}
	if on {
		if p.adminChat == "" {
			p.logger.Warn("maintenance is on and no admin chat is configured, skipping news post")
			return nil, nil
		}
		return []string{p.adminChat}, nil
	}
	return p.activity.AllChatIDs(ctx)
}
