// Package discord connects the router to Discord: gateway events come in
// through discordgo handlers, replies and reactions go out through the
// REST API, and voice joins back the playback transport.
package discord

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"github.com/keshon/server-soundboard/internal/chat"
	"github.com/keshon/server-soundboard/pkg/retrylimit"
)

const (
	queueSize    = 256
	eventTimeout = 30 * time.Second
	sendAttempts = 3
)

// Handler receives converted events, one at a time.
type Handler interface {
	HandleMessage(ctx context.Context, msg *chat.Message)
	HandleReaction(ctx context.Context, rc *chat.Reaction)
}

// Bot is a Discord bot
type Bot struct {
	dg      *discordgo.Session
	limiter *retrylimit.AdaptiveLimiter

	botUsers sync.Map // user ID -> bool

	queue    chan func(context.Context)
	stopped  chan struct{}
	stopOnce sync.Once
}

// New creates the session without connecting.
func New(token string) (*Bot, error) {
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentGuilds |
		discordgo.IntentGuildMessages |
		discordgo.IntentGuildMessageReactions |
		discordgo.IntentGuildVoiceStates |
		discordgo.IntentDirectMessages |
		discordgo.IntentMessageContent

	return &Bot{
		dg:      dg,
		limiter: retrylimit.NewAdaptiveLimiter(5, 1, 20, 1, 0.5),
		queue:   make(chan func(context.Context), queueSize),
		stopped: make(chan struct{}),
	}, nil
}

// Run opens the gateway and feeds events to h until ctx ends. Events are
// handled strictly one after another on the calling goroutine.
func (b *Bot) Run(ctx context.Context, h Handler) error {
	defer b.stopOnce.Do(func() { close(b.stopped) })

	b.dg.AddHandler(b.onReady)
	b.dg.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		msg := messageFromCreate(m)
		if msg == nil {
			return
		}
		b.Submit(func(ctx context.Context) { h.HandleMessage(ctx, msg) })
	})
	b.dg.AddHandler(func(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
		rc := reactionFromAdd(r, b.userIsBot)
		if rc == nil {
			return
		}
		b.Submit(func(ctx context.Context) { h.HandleReaction(ctx, rc) })
	})

	if err := b.dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer b.dg.Close()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("[Discord] Shutdown signal received, closing session")
			return nil
		case fn := <-b.queue:
			b.dispatch(ctx, fn)
		}
	}
}

// Submit queues fn to run on the event goroutine. It reports false once
// the bot has stopped.
func (b *Bot) Submit(fn func(ctx context.Context)) bool {
	select {
	case <-b.stopped:
		return false
	default:
	}
	select {
	case b.queue <- fn:
		return true
	case <-b.stopped:
		return false
	}
}

func (b *Bot) dispatch(parent context.Context, fn func(context.Context)) {
	ctx, cancel := context.WithTimeout(parent, eventTimeout)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("[Discord] Event handler panicked")
		}
	}()
	fn(ctx)
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	log.Info().
		Str("user", r.User.Username).
		Int("guilds", len(r.Guilds)).
		Msg("[Discord] ✅ Bot is running")
}

func (b *Bot) selfID() string {
	if b.dg.State == nil || b.dg.State.User == nil {
		return ""
	}
	return b.dg.State.User.ID
}

// userIsBot looks up a user that came without member data: the bot itself,
// then the cache, the channel recipients in state, and finally the API.
// An unknown user counts as human.
func (b *Bot) userIsBot(channelID, userID string) bool {
	if userID == "" {
		return false
	}
	if userID == b.selfID() {
		return true
	}
	if v, ok := b.botUsers.Load(userID); ok {
		return v.(bool)
	}

	if b.dg.State != nil {
		if ch, err := b.dg.State.Channel(channelID); err == nil {
			for _, u := range ch.Recipients {
				if u != nil && u.ID == userID {
					b.botUsers.Store(userID, u.Bot)
					return u.Bot
				}
			}
		}
	}

	u, err := b.dg.User(userID)
	if err != nil {
		log.Debug().Err(err).Str("user", userID).Msg("[Discord] User lookup failed")
		return false
	}
	b.botUsers.Store(userID, u.Bot)
	return u.Bot
}
