package snark

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/moaibot/discord-snark-bot/ai"
	"github.com/moaibot/discord-snark-bot/metrics"
	"github.com/moaibot/discord-snark-bot/replay"
	"github.com/pkg/errors"
	"github.com/tmc/langchaingo/llms"
)

// post runs the shared delivery flow around a generation function: thinking
// notice, bounded LLM call, cleanup, swap the notice for the result, and
// record the post for a later redo when record is true.
func (c *Client) post(ctx context.Context, kind replay.Kind, req replay.Request, notice string, gen func(ctx context.Context) (string, error), record bool) error {
	start := time.Now()
	metrics.GenerationTotal.WithLabelValues(string(kind)).Inc()

	noticeID, err := c.platform.Send(ctx, req.ChatID, notice)
	if err != nil {
		// generation does not depend on the notice
		c.logger.Warn("failed to post thinking notice", "chatID", req.ChatID, "error", err.Error())
	}
	removeNotice := func() {
		if noticeID == "" {
			return
		}
		if err := c.platform.Delete(ctx, req.ChatID, noticeID); err != nil {
			c.logger.Warn("failed to delete thinking notice", "chatID", req.ChatID, "error", err.Error())
		}
	}

	raw, err := gen(ctx)
	if err != nil {
		metrics.FailedLLMGen.Add(1)
		metrics.GenerationErrors.WithLabelValues(string(kind)).Inc()
		removeNotice()
		if _, sendErr := c.platform.Send(ctx, req.ChatID, "[generation broke down, try again later]"); sendErr != nil {
			c.logger.Error("failed to report generation failure", "chatID", req.ChatID, "error", sendErr.Error())
		}
		return errors.Wrapf(err, "%s generation", kind)
	}

	text := ai.CleanResponse(raw)
	if text == "" {
		metrics.EmptyLLMResponse.Add(1)
		removeNotice()
		_, _ = c.platform.Send(ctx, req.ChatID, ai.Marker+" The spirit is unwilling today. Ask again.")
		return nil
	}
	text = ai.Truncate(ai.EnsureMarker(text), c.maxMessage)

	removeNotice()
	msgID, err := c.platform.Send(ctx, req.ChatID, text)
	if err != nil {
		metrics.GenerationErrors.WithLabelValues(string(kind)).Inc()
		return errors.Wrapf(err, "sending %s result", kind)
	}
	metrics.SuccessfulLLMGen.Add(1)
	metrics.GenerationDuration.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())

	if !record {
		return nil
	}
	rec := replay.Record{
		ChatID:       req.ChatID,
		BotMessageID: msgID,
		Kind:         kind,
		Params:       req.Params,
		CreatedAt:    time.Now(),
	}
	if err := c.registry.Record(ctx, rec); err != nil {
		// the post is already delivered, only the redo token is lost
		c.logger.Error("failed to record post for redo", "chatID", req.ChatID, "kind", kind, "error", err.Error())
	}
	return nil
}

// AnalyzeChat summarizes the recent history of a chat. Below the minimum
// history it refuses with a counter instead of calling the model, and the
// refusal is not recorded for redo.
func (c *Client) AnalyzeChat(ctx context.Context, req replay.Request) error {
	msgs, err := c.history.RecentMessages(ctx, req.ChatID, c.maxHistory)
	if err != nil {
		if _, sendErr := c.platform.Send(ctx, req.ChatID, "[could not read the chat history, try again later]"); sendErr != nil {
			c.logger.Error("failed to report history failure", "chatID", req.ChatID, "error", sendErr.Error())
		}
		return errors.Wrap(err, "reading chat history")
	}
	if len(msgs) < c.minHistory {
		_, err := c.platform.Send(ctx, req.ChatID,
			fmt.Sprintf("%s Only %d messages so far. Feed me at least %d before asking for an analysis.", ai.Marker, len(msgs), c.minHistory))
		return err
	}

	var transcript strings.Builder
	for _, m := range msgs {
		fmt.Fprintf(&transcript, "%s: %s\n", m.AuthorName, m.Body)
	}

	return c.post(ctx, replay.KindTextAnalysis, req, ai.Marker+" Reading your drivel, hold on...",
		func(ctx context.Context) (string, error) {
			return c.callText(ctx, ai.AnalysisPrompt, transcript.String())
		}, true)
}

// CommentImage produces a mocking caption for an image. The image reference
// is stored with the redo record so a redo can refetch it.
func (c *Client) CommentImage(ctx context.Context, req replay.Request) error {
	ref := req.Params[replay.ParamImageRef]
	if ref == "" {
		_, err := c.platform.Send(ctx, req.ChatID, ai.Marker+" I see no picture to sneer at.")
		return err
	}

	data, err := c.platform.FetchFile(ctx, ref)
	if err != nil {
		if _, sendErr := c.platform.Send(ctx, req.ChatID, "[could not fetch the picture, it may be gone]"); sendErr != nil {
			c.logger.Error("failed to report image fetch failure", "chatID", req.ChatID, "error", sendErr.Error())
		}
		return errors.Wrap(err, "fetching image")
	}

	return c.post(ctx, replay.KindImageComment, req, ai.Marker+" Squinting at the picture...",
		func(ctx context.Context) (string, error) {
			msgs := []llms.MessageContent{
				{
					Role: llms.ChatMessageTypeHuman,
					Parts: []llms.ContentPart{
						llms.BinaryPart("image/jpeg", data),
						llms.TextPart(ai.ImagePrompt),
					},
				},
			}
			return c.call(ctx, c.visionModel, msgs)
		}, true)
}

// Poem writes a short mocking rhyme about the named target, defaulting to
// the requester.
func (c *Client) Poem(ctx context.Context, req replay.Request) error {
	target := req.Params[replay.ParamTargetName]
	if target == "" {
		target = req.RequesterName
		req.Params = replay.Params{replay.ParamTargetName: target}
	}
	return c.post(ctx, replay.KindPoem, req, ai.Marker+" Summoning the muse...",
		func(ctx context.Context) (string, error) {
			return c.callText(ctx, ai.PoemPrompt(target), "")
		}, true)
}

// PickupLine posts one absurd opener. No parameters, so a redo simply rolls
// again.
func (c *Client) PickupLine(ctx context.Context, req replay.Request) error {
	return c.post(ctx, replay.KindPickupLine, req, ai.Marker+" Practicing in the mirror...",
		func(ctx context.Context) (string, error) {
			return c.callText(ctx, ai.PickupPrompt, "")
		}, true)
}

// Roast mocks the named target on behalf of the requester.
func (c *Client) Roast(ctx context.Context, req replay.Request) error {
	target := req.Params[replay.ParamTargetName]
	if target == "" {
		target = req.RequesterName
	}
	gender := req.Params[replay.ParamGenderHint]
	if gender == "" {
		gender = "unknown"
	}
	req.Params = replay.Params{
		replay.ParamTargetName: target,
		replay.ParamGenderHint: gender,
	}
	return c.post(ctx, replay.KindRoast, req, ai.Marker+" Sharpening the knives...",
		func(ctx context.Context) (string, error) {
			return c.callText(ctx, ai.RoastPrompt(target, req.RequesterName, gender), "")
		}, true)
}

// ReplayRoast is the redo handler registered for roasts. Regenerating a
// roast is not supported, so it reports that instead of calling the model.
func (c *Client) ReplayRoast(ctx context.Context, req replay.Request) error {
	_, err := c.platform.Send(ctx, req.ChatID, ai.Marker+" A roast is a one-shot. Order a fresh one.")
	return err
}

// Praise delivers a compliment of questionable sincerity.
func (c *Client) Praise(ctx context.Context, req replay.Request) error {
	target := req.Params[replay.ParamTargetName]
	if target == "" {
		target = req.RequesterName
		req.Params = replay.Params{replay.ParamTargetName: target}
	}
	return c.post(ctx, replay.KindPraise, req, ai.Marker+" Searching for redeeming qualities...",
		func(ctx context.Context) (string, error) {
			return c.callText(ctx, ai.PraisePrompt(target), "")
		}, true)
}

// Prediction posts a fortune for the requesting user. Predictions are fate:
// they are never recorded, so they cannot be rerolled with a redo. One in a
// hundred comes out genuinely kind.
func (c *Client) Prediction(ctx context.Context, chatID, userName string) error {
	positive := rand.Intn(100) == 0
	req := replay.Request{ChatID: chatID, RequesterName: userName}
	return c.post(ctx, "prediction", req, ai.Marker+" Consulting the entrails...",
		func(ctx context.Context) (string, error) {
			raw, err := c.callText(ctx, ai.PredictionPrompt(userName, positive), "")
			if err != nil {
				return "", err
			}
			if positive {
				return "✨ " + strings.TrimSpace(ai.CleanResponse(raw)), nil
			}
			return raw, nil
		}, false)
}

// Comeback answers a free-text reply to one of the bot's posts. It goes out
// directly, without a thinking notice, and is never recorded.
func (c *Client) Comeback(ctx context.Context, chatID, userName, botMessage, userReply string) error {
	raw, err := c.callText(ctx, ai.ComebackPrompt(userName, botMessage, userReply), "")
	if err != nil {
		metrics.FailedLLMGen.Add(1)
		return errors.Wrap(err, "comeback generation")
	}
	text := ai.CleanResponse(raw)
	if text == "" {
		metrics.EmptyLLMResponse.Add(1)
		return nil
	}
	metrics.SuccessfulLLMGen.Add(1)
	_, err = c.platform.Send(ctx, chatID, ai.Truncate(ai.EnsureMarker(text), c.maxMessage))
	return err
}

// NewsComment returns a one-line opinion on a headline. The news poster owns
// delivery, so this only generates.
func (c *Client) NewsComment(ctx context.Context, source, title, description string) (string, error) {
	raw, err := c.callText(ctx, ai.NewsCommentPrompt(source, title, description), "")
	if err != nil {
		metrics.FailedLLMGen.Add(1)
		return "", errors.Wrap(err, "news comment generation")
	}
	text := ai.CleanResponse(raw)
	if text == "" {
		metrics.EmptyLLMResponse.Add(1)
		return "", nil
	}
	metrics.SuccessfulLLMGen.Add(1)
	return ai.Truncate(ai.EnsureMarker(text), c.maxMessage), nil
}

// IdlePost stirs a quiet chat: usually an absurd fact, sometimes crooked
// praise for a random recent chatter. Idle posts are never recorded for redo.
func (c *Client) IdlePost(ctx context.Context, chatID string) error {
	if rand.Intn(100) < 40 {
		if target := c.randomAuthor(ctx, chatID); target != "" {
			raw, err := c.callText(ctx, ai.PraisePrompt(target), "")
			if err != nil {
				metrics.FailedLLMGen.Add(1)
				return errors.Wrap(err, "idle praise generation")
			}
			return c.deliverIdle(ctx, chatID, raw)
		}
	}

	raw, err := c.callText(ctx, ai.FactPrompt, "")
	if err != nil {
		metrics.FailedLLMGen.Add(1)
		return errors.Wrap(err, "idle fact generation")
	}
	return c.deliverIdle(ctx, chatID, raw)
}

func (c *Client) deliverIdle(ctx context.Context, chatID, raw string) error {
	text := ai.CleanResponse(raw)
	if text == "" {
		metrics.EmptyLLMResponse.Add(1)
		return nil
	}
	metrics.SuccessfulLLMGen.Add(1)
	if _, err := c.platform.Send(ctx, chatID, ai.Truncate(ai.EnsureMarker(text), c.maxMessage)); err != nil {
		return errors.Wrap(err, "sending idle post")
	}
	metrics.IdlePostCount.Add(1)
	return nil
}

// randomAuthor picks one distinct author from the chat's recent history.
// Returns "" when the history is empty or unreadable.
func (c *Client) randomAuthor(ctx context.Context, chatID string) string {
	msgs, err := c.history.RecentMessages(ctx, chatID, 50)
	if err != nil || len(msgs) == 0 {
		return ""
	}
	seen := make(map[string]struct{})
	var authors []string
	for _, m := range msgs {
		if _, ok := seen[m.AuthorName]; ok {
			continue
		}
		seen[m.AuthorName] = struct{}{}
		authors = append(authors, m.AuthorName)
	}
	return authors[rand.Intn(len(authors))]
}
