package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/server-soundboard/internal/playback"
)

// Transport joins voice channels through the bot session.
func (b *Bot) Transport() playback.Transport {
	return &voiceTransport{dg: b.dg}
}

type voiceTransport struct {
	dg *discordgo.Session
}

// Join connects deafened; discordgo moves an existing guild connection.
func (t *voiceTransport) Join(ctx context.Context, guildID, channelID string) (playback.Connection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	vc, err := t.dg.ChannelVoiceJoin(guildID, channelID, false, true)
	if err != nil {
		return nil, fmt.Errorf("failed to join voice channel: %w", err)
	}
	return &voiceConn{vc: vc}, nil
}

type voiceConn struct {
	vc *discordgo.VoiceConnection
}

func (c *voiceConn) ChannelID() string       { return c.vc.ChannelID }
func (c *voiceConn) Speaking(on bool) error  { return c.vc.Speaking(on) }
func (c *voiceConn) OpusSend() chan<- []byte { return c.vc.OpusSend }
func (c *voiceConn) Disconnect() error       { return c.vc.Disconnect() }
