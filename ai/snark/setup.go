// Package snark is the generation layer: every operation that turns a chat
// event into an LLM-written post lives here. Each operation posts a short
// notice first, calls the completion endpoint with a bounded context, cleans
// the response, and swaps the notice for the final text.
package snark

import (
	"context"
	"time"

	"github.com/moaibot/discord-snark-bot/config"
	"github.com/moaibot/discord-snark-bot/database"
	"github.com/moaibot/discord-snark-bot/logging"
	"github.com/moaibot/discord-snark-bot/replay"
	"github.com/pkg/errors"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Platform is the slice of the chat platform the generation layer needs.
type Platform interface {
	Send(ctx context.Context, chatID, text string) (messageID string, err error)
	Delete(ctx context.Context, chatID, messageID string) error
	FetchFile(ctx context.Context, url string) ([]byte, error)
}

type Client struct {
	llm      llms.Model
	history  database.HistoryReader
	registry replay.Registry
	platform Platform
	logger   *logging.Logger

	textModel   string
	visionModel string
	timeout     time.Duration
	maxHistory  int
	minHistory  int
	maxMessage  int
}

// maxDiscordMessage is the platform's hard cap on message length, in runes.
const maxDiscordMessage = 2000

func Setup(cfg *config.Config, history database.HistoryReader, registry replay.Registry, platform Platform, logger *logging.Logger) (*Client, error) {
	llm, err := openai.New(
		openai.WithBaseURL(cfg.LLMBaseURL),
		openai.WithToken(cfg.LLMAPIKey),
		openai.WithModel(cfg.TextModel),
	)
	if err != nil {
		return nil, errors.Wrap(err, "creating completion client")
	}

	return &Client{
		llm:         llm,
		history:     history,
		registry:    registry,
		platform:    platform,
		logger:      logger.WithComponent("snark"),
		textModel:   cfg.TextModel,
		visionModel: cfg.VisionModel,
		timeout:     cfg.LLMTimeout,
		maxHistory:  cfg.MaxHistory,
		minHistory:  cfg.MinHistory,
		maxMessage:  maxDiscordMessage,
	}, nil
}

// callText runs a single bounded completion against the text model.
func (c *Client) callText(ctx context.Context, system, user string) (string, error) {
	msgs := []llms.MessageContent{llms.TextParts(llms.ChatMessageTypeSystem, system)}
	if user != "" {
		msgs = append(msgs, llms.TextParts(llms.ChatMessageTypeHuman, user))
	}
	return c.call(ctx, c.textModel, msgs)
}

func (c *Client) call(ctx context.Context, model string, msgs []llms.MessageContent) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.llm.GenerateContent(ctx, msgs,
		llms.WithModel(model),
		llms.WithCandidateCount(1),
		llms.WithTemperature(0.9),
		llms.WithMaxLength(700),
	)
	if err != nil {
		return "", errors.Wrap(err, "llm call")
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Content, nil
}
