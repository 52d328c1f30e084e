// Package chat describes what the routing core needs from a chat platform.
// The Discord adapter implements Platform; tests use fakes.
package chat

import "context"

// Emoji identifies a reaction. ID is empty for standard (unicode) emoji.
type Emoji struct {
	ID   string
	Name string
}

// Message is an inbound or fetched chat message.
type Message struct {
	ID        string
	ChannelID string
	GuildID   string
	AuthorID  string
	AuthorBot bool
	Content   string
}

// Reaction is a reaction-add event. Message is nil when the platform
// delivered a partial event; the handler then fetches it.
type Reaction struct {
	MessageID string
	ChannelID string
	GuildID   string
	UserID    string
	UserBot   bool
	Emoji     Emoji
	Message   *Message
}

// Platform is the outbound side of the chat platform.
type Platform interface {
	// Send posts content to a channel and returns the new message ID.
	Send(ctx context.Context, channelID, content string) (string, error)
	// Reply posts content as a reply to messageID.
	Reply(ctx context.Context, channelID, messageID, content string) error
	// React attaches emoji to a message. emoji is a glyph or "name:id".
	React(ctx context.Context, channelID, messageID, emoji string) error
	// FetchMessage loads a message the event only referenced.
	FetchMessage(ctx context.Context, channelID, messageID string) (*Message, error)
	// VoiceChannel returns the voice channel userID is currently in.
	VoiceChannel(guildID, userID string) (string, bool)
}
