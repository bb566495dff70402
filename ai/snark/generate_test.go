package snark

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/moaibot/discord-snark-bot/database"
	"github.com/moaibot/discord-snark-bot/logging"
	"github.com/moaibot/discord-snark-bot/replay"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

type fakeLLM struct {
	resp  string
	err   error
	calls int
}

func (f *fakeLLM) GenerateContent(ctx context.Context, msgs []llms.MessageContent, opts ...llms.CallOption) (*llms.ContentResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: f.resp}}}, nil
}

func (f *fakeLLM) Call(ctx context.Context, prompt string, opts ...llms.CallOption) (string, error) {
	f.calls++
	return f.resp, f.err
}

type sentMessage struct {
	chatID string
	text   string
}

type fakePlatform struct {
	sent    []sentMessage
	deleted []string
	nextID  int
}

func (f *fakePlatform) Send(ctx context.Context, chatID, text string) (string, error) {
	f.nextID++
	f.sent = append(f.sent, sentMessage{chatID: chatID, text: text})
	return fmt.Sprintf("msg-%d", f.nextID), nil
}

func (f *fakePlatform) Delete(ctx context.Context, chatID, messageID string) error {
	f.deleted = append(f.deleted, messageID)
	return nil
}

func (f *fakePlatform) FetchFile(ctx context.Context, url string) ([]byte, error) {
	return []byte("not-really-a-jpeg"), nil
}

type fakeRegistry struct {
	records []replay.Record
}

func (f *fakeRegistry) Record(ctx context.Context, rec replay.Record) error {
	f.records = append(f.records, rec)
	return nil
}

func (f *fakeRegistry) Lookup(ctx context.Context, chatID string) (*replay.Record, error) {
	for i := len(f.records) - 1; i >= 0; i-- {
		if f.records[i].ChatID == chatID {
			return &f.records[i], nil
		}
	}
	return nil, nil
}

type fakeHistory struct {
	msgs []database.ChatMessage
	err  error
}

func (f *fakeHistory) RecentMessages(ctx context.Context, chatID string, limit int) ([]database.ChatMessage, error) {
	if f.err != nil {
		return nil, f.err
	}
	if limit < len(f.msgs) {
		return f.msgs[:limit], nil
	}
	return f.msgs, nil
}

func newTestClient(llm *fakeLLM, platform *fakePlatform, registry *fakeRegistry, history *fakeHistory) *Client {
	return &Client{
		llm:         llm,
		history:     history,
		registry:    registry,
		platform:    platform,
		logger:      logging.Default(),
		textModel:   "test-text",
		visionModel: "test-vision",
		timeout:     5 * time.Second,
		maxHistory:  200,
		minHistory:  10,
		maxMessage:  maxDiscordMessage,
	}
}

func chatMessages(n int) []database.ChatMessage {
	msgs := make([]database.ChatMessage, n)
	for i := range msgs {
		msgs[i] = database.ChatMessage{
			ChatID:     "chat-1",
			AuthorName: fmt.Sprintf("user%d", i%3),
			Body:       fmt.Sprintf("message %d", i),
		}
	}
	return msgs
}

func TestAnalyzeChatTooLittleHistory(t *testing.T) {
	llm := &fakeLLM{resp: "should not be called"}
	platform := &fakePlatform{}
	registry := &fakeRegistry{}
	client := newTestClient(llm, platform, registry, &fakeHistory{msgs: chatMessages(7)})

	err := client.AnalyzeChat(context.Background(), replay.Request{ChatID: "chat-1", RequesterName: "alice"})
	require.NoError(t, err)

	require.Zero(t, llm.calls, "model must not run below the history minimum")
	require.Empty(t, registry.records, "a refusal is not redoable")
	require.Len(t, platform.sent, 1)
	require.Contains(t, platform.sent[0].text, "7 messages")
	require.Contains(t, platform.sent[0].text, "at least 10")
}

func TestAnalyzeChatPostsAndRecords(t *testing.T) {
	llm := &fakeLLM{resp: "<think>scratchpad</think>user2 embarrassed himself again"}
	platform := &fakePlatform{}
	registry := &fakeRegistry{}
	client := newTestClient(llm, platform, registry, &fakeHistory{msgs: chatMessages(25)})

	err := client.AnalyzeChat(context.Background(), replay.Request{ChatID: "chat-1", RequesterName: "alice"})
	require.NoError(t, err)
	require.Equal(t, 1, llm.calls)

	// thinking notice, then the final post
	require.Len(t, platform.sent, 2)
	final := platform.sent[1]
	require.True(t, strings.HasPrefix(final.text, "🗿"), "post should carry the marker: %q", final.text)
	require.NotContains(t, final.text, "<think>")

	// the notice is removed once the post lands
	require.Equal(t, []string{"msg-1"}, platform.deleted)

	require.Len(t, registry.records, 1)
	rec := registry.records[0]
	require.Equal(t, "chat-1", rec.ChatID)
	require.Equal(t, replay.KindTextAnalysis, rec.Kind)
	require.Equal(t, "msg-2", rec.BotMessageID, "record must hold the final post's id")
}

func TestPostTruncatesToPlatformMax(t *testing.T) {
	llm := &fakeLLM{resp: strings.Repeat("ы", 3000)}
	platform := &fakePlatform{}
	registry := &fakeRegistry{}
	client := newTestClient(llm, platform, registry, &fakeHistory{})

	err := client.PickupLine(context.Background(), replay.Request{ChatID: "chat-1", RequesterName: "bob"})
	require.NoError(t, err)

	final := platform.sent[len(platform.sent)-1].text
	require.Equal(t, maxDiscordMessage, len([]rune(final)))
	require.True(t, strings.HasSuffix(final, "..."))
}

func TestPoemDefaultsTargetToRequester(t *testing.T) {
	llm := &fakeLLM{resp: "roses are red"}
	platform := &fakePlatform{}
	registry := &fakeRegistry{}
	client := newTestClient(llm, platform, registry, &fakeHistory{})

	err := client.Poem(context.Background(), replay.Request{ChatID: "chat-1", RequesterName: "carol"})
	require.NoError(t, err)

	require.Len(t, registry.records, 1)
	require.Equal(t, "carol", registry.records[0].Params[replay.ParamTargetName])
}

func TestPredictionNeverRecorded(t *testing.T) {
	llm := &fakeLLM{resp: "doom approaches"}
	platform := &fakePlatform{}
	registry := &fakeRegistry{}
	client := newTestClient(llm, platform, registry, &fakeHistory{})

	err := client.Prediction(context.Background(), "chat-1", "dave")
	require.NoError(t, err)
	require.Equal(t, 1, llm.calls)
	require.Empty(t, registry.records, "fortunes cannot be rerolled")
}

func TestRoastStoresTargetAndGender(t *testing.T) {
	llm := &fakeLLM{resp: "a devastating burn"}
	platform := &fakePlatform{}
	registry := &fakeRegistry{}
	client := newTestClient(llm, platform, registry, &fakeHistory{})

	req := replay.Request{
		ChatID:        "chat-1",
		RequesterName: "erin",
		Params:        replay.Params{replay.ParamTargetName: "frank"},
	}
	err := client.Roast(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, registry.records, 1)
	params := registry.records[0].Params
	require.Equal(t, "frank", params[replay.ParamTargetName])
	require.Equal(t, "unknown", params[replay.ParamGenderHint])
}

func TestReplayRoastIsUnsupported(t *testing.T) {
	llm := &fakeLLM{resp: "should not be called"}
	platform := &fakePlatform{}
	client := newTestClient(llm, platform, &fakeRegistry{}, &fakeHistory{})

	err := client.ReplayRoast(context.Background(), replay.Request{ChatID: "chat-1", RequesterName: "erin"})
	require.NoError(t, err)
	require.Zero(t, llm.calls)
	require.Len(t, platform.sent, 1)
	require.Contains(t, platform.sent[0].text, "one-shot")
}

func TestGenerationFailureReportsToChat(t *testing.T) {
	llm := &fakeLLM{err: fmt.Errorf("model on fire")}
	platform := &fakePlatform{}
	registry := &fakeRegistry{}
	client := newTestClient(llm, platform, registry, &fakeHistory{})

	err := client.PickupLine(context.Background(), replay.Request{ChatID: "chat-1", RequesterName: "bob"})
	require.Error(t, err)

	require.Empty(t, registry.records)
	final := platform.sent[len(platform.sent)-1].text
	require.Contains(t, final, "try again later")
}
