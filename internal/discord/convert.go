package discord

import (
	"github.com/bwmarrin/discordgo"

	"github.com/keshon/server-soundboard/internal/chat"
)

func toMessage(m *discordgo.Message) *chat.Message {
	if m == nil {
		return nil
	}
	msg := &chat.Message{
		ID:        m.ID,
		ChannelID: m.ChannelID,
		GuildID:   m.GuildID,
		Content:   m.Content,
	}
	if m.Author != nil {
		msg.AuthorID = m.Author.ID
		msg.AuthorBot = m.Author.Bot
	} else {
		// webhooks and system messages
		msg.AuthorBot = true
	}
	return msg
}

func messageFromCreate(m *discordgo.MessageCreate) *chat.Message {
	if m == nil {
		return nil
	}
	return toMessage(m.Message)
}

// reactionFromAdd converts a gateway reaction. The message is never
// attached; the router fetches it. Guild reactions carry the member; for
// the rest (direct messages) isBot decides.
func reactionFromAdd(r *discordgo.MessageReactionAdd, isBot func(channelID, userID string) bool) *chat.Reaction {
	if r == nil || r.MessageReaction == nil {
		return nil
	}

	rc := &chat.Reaction{
		MessageID: r.MessageID,
		ChannelID: r.ChannelID,
		GuildID:   r.GuildID,
		UserID:    r.UserID,
		Emoji:     chat.Emoji{ID: r.Emoji.ID, Name: r.Emoji.Name},
	}
	switch {
	case r.Member != nil && r.Member.User != nil:
		rc.UserBot = r.Member.User.Bot
	case isBot != nil:
		rc.UserBot = isBot(r.ChannelID, r.UserID)
	}
	return rc
}
