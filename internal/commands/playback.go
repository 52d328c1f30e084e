package commands

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/keshon/server-soundboard/internal/playback"
	"github.com/keshon/server-soundboard/pkg/cmd"
)

// Stop halts playback in the guild and stays connected.
type Stop struct{}

func (c *Stop) Name() string        { return "stop" }
func (c *Stop) Description() string { return "Stop the current sound" }

func (c *Stop) Run(_ context.Context, inv *cmd.Invocation) error {
	mc, err := messageContext(inv)
	if err != nil {
		return err
	}

	err = mc.Service.Player.Stop(mc.Message.GuildID)
	if errors.Is(err, playback.ErrNotPlaying) {
		log.Debug().Str("guild", mc.Message.GuildID).Msg("[Command] Nothing to stop")
		return nil
	}
	return err
}

// Leave disconnects from voice in the guild.
type Leave struct{}

func (c *Leave) Name() string        { return "leave" }
func (c *Leave) Description() string { return "Leave the voice channel" }

func (c *Leave) Run(_ context.Context, inv *cmd.Invocation) error {
	mc, err := messageContext(inv)
	if err != nil {
		return err
	}
	mc.Service.Player.Leave(mc.Message.GuildID)
	return nil
}

// Echo repeats its text in the guild's last used text channel.
type Echo struct{}

func (c *Echo) Name() string        { return "echo" }
func (c *Echo) Description() string { return "Say something in the last used channel" }

func (c *Echo) Run(ctx context.Context, inv *cmd.Invocation) error {
	mc, err := messageContext(inv)
	if err != nil {
		return err
	}

	channelID := mc.Service.Sessions.Get(mc.Message.GuildID).TextChannelID
	if channelID == "" || inv.Rest == "" {
		return nil
	}
	_, err = mc.Service.Platform.Send(ctx, channelID, inv.Rest)
	return err
}
