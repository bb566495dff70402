package discord

import "github.com/moaibot/discord-snark-bot/ai"

const helpText = ai.Marker + ` What I do here:
` + "```" + `
!analyze          sum up the recent conversation, with commentary
!pic              mock a picture (attach one or reply to one)
!poem [name]      a short rhyme about someone, default: you
!predict          your fortune. it will not be kind
!pickup           one absurd pickup line
!roast <name>     roast someone (or reply to their message), [m|f] hint
!praise [name]    a compliment, of sorts
!redo             reply to my latest post to make me redo it
!news             today's headlines, with my opinion attached
!help             this
` + "```" + `
You can also just address me: "moai, what's going on", "moai, poem about Bob".`

// help prints the command list.
func (c *Client) help(chatID string) {
	c.say(chatID, helpText)
}
