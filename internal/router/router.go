// Package router decides what an inbound chat event means: a command, an
// auto reply, a sound name, or a reaction on a soundboard or a played sound.
package router

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/keshon/server-soundboard/internal/chat"
	"github.com/keshon/server-soundboard/internal/core"
	"github.com/keshon/server-soundboard/internal/playback"
	"github.com/keshon/server-soundboard/internal/sound"
	"github.com/keshon/server-soundboard/internal/soundboard"
	"github.com/keshon/server-soundboard/pkg/cmd"
)

var (
	stopEmoji   = soundboard.StandardEmoji(core.StopEmoji)
	replayEmoji = soundboard.StandardEmoji(core.ReplayEmoji)
)

// Router handles events one at a time. It holds no state of its own; the
// caller must not run two handlers concurrently.
type Router struct {
	svc      *core.Service
	commands *cmd.Registry
}

// New returns a router over svc dispatching text commands through commands.
func New(svc *core.Service, commands *cmd.Registry) *Router {
	return &Router{svc: svc, commands: commands}
}

// HandleMessage processes a newly created message.
func (r *Router) HandleMessage(ctx context.Context, msg *chat.Message) {
	if msg == nil || msg.AuthorBot {
		return
	}

	r.autoReply(ctx, msg)

	// Commands never touch the session context; only played sounds do.
	handled, err := r.commands.Dispatch(ctx, msg.Content, &core.MessageContext{Service: r.svc, Message: msg})
	if handled {
		if err != nil {
			log.Warn().Err(err).Str("message", msg.ID).Msg("[Router] Command failed")
		}
		return
	}

	r.playFromText(ctx, msg)
}

func (r *Router) autoReply(ctx context.Context, msg *chat.Message) {
	reply, ok := r.svc.AutoReplies.Lookup(msg.Content)
	if !ok {
		return
	}
	if _, err := r.svc.Platform.Send(ctx, msg.ChannelID, reply); err != nil {
		log.Warn().Err(err).Str("channel", msg.ChannelID).Msg("[AutoReply] Failed to send reply")
	}
}

// playFromText treats the whole message as a sound name.
func (r *Router) playFromText(ctx context.Context, msg *chat.Message) {
	if msg.GuildID == "" {
		return
	}

	voiceChannelID, err := r.svc.VoiceChannelFor(msg.GuildID, msg.AuthorID)
	if err != nil {
		return
	}

	path, err := r.svc.PlaySound(msg.GuildID, voiceChannelID, msg.Content)
	if err != nil {
		if !errors.Is(err, sound.ErrNotFound) {
			log.Warn().Err(err).Str("message", msg.ID).Msg("[Router] Failed to play sound")
		}
		return
	}

	log.Debug().Str("guild", msg.GuildID).Str("asset", path).Msg("[Router] Sound triggered by message")
	r.svc.Sessions.Update(msg.GuildID, msg.ChannelID, voiceChannelID)
	r.svc.AttachControls(ctx, msg.ChannelID, msg.ID)
}

// HandleReaction processes a reaction added by a user.
func (r *Router) HandleReaction(ctx context.Context, rc *chat.Reaction) {
	if rc == nil || rc.UserBot {
		return
	}

	msg, err := r.resolveMessage(ctx, rc)
	if err != nil {
		log.Debug().Err(err).Str("message", rc.MessageID).Msg("[Router] Dropping reaction, message unavailable")
		return
	}

	guildID := rc.GuildID
	if guildID == "" {
		guildID = msg.GuildID
	}
	if guildID == "" {
		return
	}

	emoji := soundboard.FromReaction(rc.Emoji.ID, rc.Emoji.Name)
	onBoard := r.svc.Soundboards.Exists(msg.ID)

	if onBoard {
		if name, ok := r.svc.Soundboards.Lookup(msg.ID, emoji); ok {
			r.playForUser(guildID, rc, name)
			return
		}
	}

	switch {
	case emoji.Equal(stopEmoji):
		if err := r.svc.Player.Stop(guildID); err != nil && !errors.Is(err, playback.ErrNotPlaying) {
			log.Warn().Err(err).Str("guild", guildID).Msg("[Router] Stop failed")
		}
	case emoji.Equal(replayEmoji) && !onBoard && !msg.AuthorBot:
		r.playForUser(guildID, rc, msg.Content)
	}
}

// playForUser plays name in the reacting user's voice channel. There is no
// session fallback for reactions.
func (r *Router) playForUser(guildID string, rc *chat.Reaction, name string) {
	voiceChannelID, ok := r.svc.Platform.VoiceChannel(guildID, rc.UserID)
	if !ok || voiceChannelID == "" {
		return
	}

	path, err := r.svc.PlaySound(guildID, voiceChannelID, name)
	if err != nil {
		if !errors.Is(err, sound.ErrNotFound) {
			log.Warn().Err(err).Str("guild", guildID).Msg("[Router] Failed to play sound")
		}
		return
	}

	log.Debug().Str("guild", guildID).Str("asset", path).Str("emoji", rc.Emoji.Name).Msg("[Router] Sound triggered by reaction")
	r.svc.Sessions.Update(guildID, rc.ChannelID, voiceChannelID)
}

func (r *Router) resolveMessage(ctx context.Context, rc *chat.Reaction) (*chat.Message, error) {
	if rc.Message != nil {
		return rc.Message, nil
	}
	msg, err := r.svc.Platform.FetchMessage(ctx, rc.ChannelID, rc.MessageID)
	if err != nil {
		return nil, fmt.Errorf("fetch message %s: %w", rc.MessageID, err)
	}
	return msg, nil
}

// HandleNewSound announces a file that appeared in the sound directory in
// every guild whose session knows both a text and a voice channel.
func (r *Router) HandleNewSound(ctx context.Context, fileName string) {
	announcement := fmt.Sprintf("Your precious %s, gratefully accepted! We will need it.", fileName)

	for _, guildID := range r.svc.Sessions.Complete() {
		sc := r.svc.Sessions.Get(guildID)

		if _, err := r.svc.PlayFile(guildID, sc.VoiceChannelID, r.svc.NotificationSound); err != nil {
			log.Warn().Err(err).Str("guild", guildID).Str("asset", r.svc.NotificationSound).Msg("[Watcher] Notification sound unavailable")
		}
		if _, err := r.svc.Platform.Send(ctx, sc.TextChannelID, announcement); err != nil {
			log.Warn().Err(err).Str("guild", guildID).Msg("[Watcher] Failed to announce new sound")
		}
	}
}
