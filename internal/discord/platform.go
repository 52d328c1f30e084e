package discord

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/server-soundboard/internal/chat"
	"github.com/keshon/server-soundboard/pkg/retrylimit"
)

// call runs an idempotent REST request under the adaptive limiter with a
// few retries.
func (b *Bot) call(ctx context.Context, fn func() error) error {
	return retrylimit.WithRetryMax(ctx, func() error {
		return classify(fn())
	}, b.limiter, sendAttempts)
}

// post runs a request that creates something. Only a 429 is retried, since
// a 5xx or a dropped connection may still have created the message.
func (b *Bot) post(ctx context.Context, fn func() error) error {
	return retrylimit.WithRetryMax(ctx, func() error {
		err := classify(fn())
		if err == nil || isRateLimited(err) {
			return err
		}
		var fatal *retrylimit.FatalError
		if errors.As(err, &fatal) {
			return err
		}
		return retrylimit.Fatal(err)
	}, b.limiter, sendAttempts)
}

// Send posts content to a channel.
func (b *Bot) Send(ctx context.Context, channelID, content string) (string, error) {
	var id string
	err := b.post(ctx, func() error {
		m, err := b.dg.ChannelMessageSend(channelID, content)
		if err != nil {
			return err
		}
		id = m.ID
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("send to %s: %w", channelID, err)
	}
	return id, nil
}

// Reply posts content as a reply to messageID.
func (b *Bot) Reply(ctx context.Context, channelID, messageID, content string) error {
	ref := &discordgo.MessageReference{MessageID: messageID, ChannelID: channelID}
	err := b.post(ctx, func() error {
		_, err := b.dg.ChannelMessageSendReply(channelID, content, ref)
		return err
	})
	if err != nil {
		return fmt.Errorf("reply to %s: %w", messageID, err)
	}
	return nil
}

// React attaches emoji (a glyph or name:id) to a message.
func (b *Bot) React(ctx context.Context, channelID, messageID, emoji string) error {
	err := b.call(ctx, func() error {
		return b.dg.MessageReactionAdd(channelID, messageID, emoji)
	})
	if err != nil {
		return fmt.Errorf("react %s on %s: %w", emoji, messageID, err)
	}
	return nil
}

// FetchMessage returns a message from the state cache or the API.
func (b *Bot) FetchMessage(ctx context.Context, channelID, messageID string) (*chat.Message, error) {
	if b.dg.State != nil {
		if m, err := b.dg.State.Message(channelID, messageID); err == nil {
			return toMessage(m), nil
		}
	}

	var msg *discordgo.Message
	err := b.call(ctx, func() error {
		m, err := b.dg.ChannelMessage(channelID, messageID)
		if err != nil {
			return err
		}
		msg = m
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch message %s: %w", messageID, err)
	}
	return toMessage(msg), nil
}

// VoiceChannel finds the voice channel userID is in from the state cache.
func (b *Bot) VoiceChannel(guildID, userID string) (string, bool) {
	if b.dg.State == nil {
		return "", false
	}
	guild, err := b.dg.State.Guild(guildID)
	if err != nil {
		return "", false
	}

	for _, vs := range guild.VoiceStates {
		if vs.UserID == userID && vs.ChannelID != "" {
			return vs.ChannelID, true
		}
	}
	return "", false
}
