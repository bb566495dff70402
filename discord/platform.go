package discord

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/moaibot/discord-snark-bot/metrics"
)

// Platform adapts a discord session to the narrow send/delete/fetch surface
// the generation and redo layers work against. Chat ids are channel ids.
type Platform struct {
	session *discordgo.Session
	files   *http.Client
}

func NewPlatform(session *discordgo.Session) *Platform {
	return &Platform{
		session: session,
		files:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (p *Platform) Send(ctx context.Context, chatID, text string) (string, error) {
	msg, err := p.session.ChannelMessageSend(chatID, text)
	if err != nil {
		return "", fmt.Errorf("error sending discord message: %w", err)
	}
	metrics.DiscordMessageSent.Add(1)
	return msg.ID, nil
}

func (p *Platform) Delete(ctx context.Context, chatID, messageID string) error {
	if err := p.session.ChannelMessageDelete(chatID, messageID); err != nil {
		return fmt.Errorf("error deleting discord message: %w", err)
	}
	return nil
}

// FetchFile downloads an attachment from the discord CDN.
func (p *Platform) FetchFile(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error building attachment request: %w", err)
	}
	resp, err := p.files.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error fetching attachment: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("attachment fetch returned status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading attachment body: %w", err)
	}
	return data, nil
}
