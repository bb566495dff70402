package discord

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"

	"github.com/moaibot/discord-snark-bot/replay"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name    string
		content string
		cmd     string
		arg     string
	}{
		{"bare command", "!analyze", "!analyze", ""},
		{"command with arg", "!poem Bob", "!poem", "Bob"},
		{"multi word arg", "!roast Bob m", "!roast", "Bob m"},
		{"case folded", "!ANALYZE", "!analyze", ""},
		{"surrounding space", "  !pickup  ", "!pickup", ""},
		{"not a command", "hello there", "", ""},
		{"bang mid-sentence", "wow !analyze that", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, arg := parseCommand(tt.content)
			assert.Equal(t, tt.cmd, cmd)
			assert.Equal(t, tt.arg, arg)
		})
	}
}

func TestFreeTextIntent(t *testing.T) {
	tests := []struct {
		content string
		cmd     string
		arg     string
	}{
		{"moai, what's going on", "!analyze", ""},
		{"Moai analyze", "!analyze", ""},
		{"moai, tell my fortune", "!predict", ""},
		{"moai, poem about Bob the brave", "!poem", "Bob the brave"},
		{"moai, write a poem about Alice", "!poem", "Alice"},
		{"moai redo", "!redo", ""},
		{"talking about moai statues", "", ""},
		{"completely unrelated", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.content, func(t *testing.T) {
			cmd, arg := freeTextIntent(tt.content)
			assert.Equal(t, tt.cmd, cmd)
			assert.Equal(t, tt.arg, arg)
		})
	}
}

func TestMessageBodyPlaceholders(t *testing.T) {
	msg := &discordgo.Message{
		Content: "look at this",
		Attachments: []*discordgo.MessageAttachment{
			{ContentType: "image/png", URL: "https://cdn.example/cat.png"},
			{ContentType: "video/mp4"},
			{ContentType: "audio/ogg"},
			{ContentType: "application/pdf", Filename: "taxes.pdf"},
		},
	}
	assert.Equal(t,
		"look at this [IMAGE:https://cdn.example/cat.png] [VIDEO] [VOICE] [FILE:taxes.pdf]",
		messageBody(msg))
}

func TestMessageBodyTextOnly(t *testing.T) {
	assert.Equal(t, "plain text", messageBody(&discordgo.Message{Content: " plain text "}))
}

func TestTargetParamsFromReply(t *testing.T) {
	m := &discordgo.MessageCreate{Message: &discordgo.Message{
		ReferencedMessage: &discordgo.Message{
			Author: &discordgo.User{Username: "frank"},
		},
	}}
	params := targetParams(m, "f", true)
	assert.Equal(t, "frank", params[replay.ParamTargetName])
	assert.Equal(t, "female", params[replay.ParamGenderHint])
}

func TestTargetParamsFromArgs(t *testing.T) {
	m := &discordgo.MessageCreate{Message: &discordgo.Message{}}

	params := targetParams(m, "Bob m", true)
	assert.Equal(t, "Bob", params[replay.ParamTargetName])
	assert.Equal(t, "male", params[replay.ParamGenderHint])

	params = targetParams(m, "", true)
	assert.Empty(t, params[replay.ParamTargetName])

	// praise has no gender hint even when one is given
	params = targetParams(m, "Bob m", false)
	assert.Equal(t, "Bob", params[replay.ParamTargetName])
	assert.Empty(t, params[replay.ParamGenderHint])
}

func TestFirstImageURL(t *testing.T) {
	msg := &discordgo.Message{Attachments: []*discordgo.MessageAttachment{
		{ContentType: "application/pdf"},
		{ContentType: "image/jpeg", URL: "https://cdn.example/dog.jpg"},
	}}
	assert.Equal(t, "https://cdn.example/dog.jpg", firstImageURL(msg))
	assert.Empty(t, firstImageURL(&discordgo.Message{}))
}
