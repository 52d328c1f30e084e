// Package core holds the service object every handler works against: the
// registries, the per-guild session context, the sound resolver, and the
// collaborators that reach outside the process.
package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/keshon/server-soundboard/internal/autoreply"
	"github.com/keshon/server-soundboard/internal/chat"
	"github.com/keshon/server-soundboard/internal/session"
	"github.com/keshon/server-soundboard/internal/sound"
	"github.com/keshon/server-soundboard/internal/soundboard"
	"github.com/keshon/server-soundboard/internal/storage"
)

// Reaction glyphs attached to messages that triggered a sound.
const (
	StopEmoji   = "⏹️"
	ReplayEmoji = "🔁"
)

// Player is the part of the playback controller handlers use.
type Player interface {
	Play(guildID, channelID, path string)
	Stop(guildID string) error
	Leave(guildID string)
}

// Store persists registry snapshots.
type Store interface {
	Load() storage.State
	Save(st storage.State)
	Raw() ([]byte, error)
}

// Options wires a Service.
type Options struct {
	Platform          chat.Platform
	Player            Player
	Store             Store
	Sounds            *sound.Resolver
	NotificationSound string
}

// Service is created once at startup and shared by every handler. Mutations
// of the registries happen on the event dispatch goroutine only.
type Service struct {
	Platform chat.Platform
	Player   Player
	Store    Store
	Sounds   *sound.Resolver

	Sessions    *session.Tracker
	Soundboards *soundboard.Registry
	AutoReplies *autoreply.Registry

	NotificationSound string
}

// New creates the service and restores both registries from the store.
func New(opts Options) *Service {
	s := &Service{
		Platform:          opts.Platform,
		Player:            opts.Player,
		Store:             opts.Store,
		Sounds:            opts.Sounds,
		Sessions:          session.NewTracker(),
		Soundboards:       soundboard.NewRegistry(),
		AutoReplies:       autoreply.NewRegistry(),
		NotificationSound: opts.NotificationSound,
	}

	if s.Store != nil {
		st := s.Store.Load()
		s.Soundboards.Restore(st.Soundboards)
		s.AutoReplies.Restore(st.AutoReplies)
	}
	return s
}

// Persist queues a snapshot of both registries for writing.
func (s *Service) Persist() {
	if s.Store == nil {
		return
	}
	s.Store.Save(storage.State{
		Soundboards: s.Soundboards.Snapshot(),
		AutoReplies: s.AutoReplies.Snapshot(),
	})
}

// PlaySound resolves name and starts it in the voice channel. It returns
// sound.ErrNotFound without touching the player when nothing matches.
func (s *Service) PlaySound(guildID, voiceChannelID, name string) (string, error) {
	path, err := s.Sounds.Resolve(name)
	if err != nil {
		return "", err
	}
	s.Player.Play(guildID, voiceChannelID, path)
	return path, nil
}

// PlayFile starts a file from the sound directory by its exact name.
func (s *Service) PlayFile(guildID, voiceChannelID, fileName string) (string, error) {
	path, err := s.Sounds.Path(fileName)
	if err != nil {
		return "", err
	}
	s.Player.Play(guildID, voiceChannelID, path)
	return path, nil
}

// ErrNoVoiceChannel is returned when neither the user nor the session
// provides a voice channel.
var ErrNoVoiceChannel = errors.New("no voice channel to play in")

// VoiceChannelFor picks the user's current voice channel, falling back to
// the guild's last used one.
func (s *Service) VoiceChannelFor(guildID, userID string) (string, error) {
	if guildID == "" {
		return "", ErrNoVoiceChannel
	}
	if ch, ok := s.Platform.VoiceChannel(guildID, userID); ok && ch != "" {
		return ch, nil
	}
	if ch := s.Sessions.Get(guildID).VoiceChannelID; ch != "" {
		return ch, nil
	}
	return "", ErrNoVoiceChannel
}

// CreateSoundboard sends content to channelID, registers the board on the
// new message, persists it and attaches the reactions one by one in order.
// A reaction that cannot be attached is logged and skipped.
func (s *Service) CreateSoundboard(ctx context.Context, channelID, content string, pairs []soundboard.Pair) (*soundboard.Board, error) {
	if _, err := soundboard.Parse(pairs); err != nil {
		return nil, err
	}

	messageID, err := s.Platform.Send(ctx, channelID, content)
	if err != nil {
		return nil, fmt.Errorf("failed to send soundboard message: %w", err)
	}

	board, err := s.Soundboards.Create(messageID, pairs)
	if err != nil {
		return nil, err
	}
	s.Persist()

	log.Info().Str("channel", channelID).Str("message", messageID).Int("entries", len(board.Entries)).Msg("[Soundboard] Created")

	for _, e := range board.Entries {
		if err := s.Platform.React(ctx, channelID, messageID, e.Emoji.APIName()); err != nil {
			log.Warn().Err(err).Str("message", messageID).Str("emoji", e.Emoji.String()).Msg("[Soundboard] Failed to attach reaction")
		}
	}
	return board, nil
}

// AttachControls adds the stop and replay reactions to a message, in that
// order. Failures are logged.
func (s *Service) AttachControls(ctx context.Context, channelID, messageID string) {
	for _, emoji := range []string{StopEmoji, ReplayEmoji} {
		if err := s.Platform.React(ctx, channelID, messageID, emoji); err != nil {
			log.Warn().Err(err).Str("message", messageID).Str("emoji", emoji).Msg("[Sound] Failed to attach control reaction")
			return
		}
	}
}

// Reply sends each chunk as a reply to the message. It stops at the first
// failed send.
func (s *Service) Reply(ctx context.Context, msg *chat.Message, chunks ...string) error {
	for _, c := range chunks {
		if err := s.Platform.Reply(ctx, msg.ChannelID, msg.ID, c); err != nil {
			return fmt.Errorf("failed to reply: %w", err)
		}
	}
	return nil
}
