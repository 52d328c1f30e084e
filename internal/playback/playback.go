// Package playback runs one preemptive playback slot per guild on top of a
// voice transport and an audio streamer.
package playback

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
)

// ErrNotPlaying is returned by Stop when the guild has nothing playing.
var ErrNotPlaying = errors.New("nothing is currently playing")

// Connection is a joined voice channel.
type Connection interface {
	ChannelID() string
	Speaking(on bool) error
	OpusSend() chan<- []byte
	Disconnect() error
}

// Transport joins voice channels. Joining another channel in a guild that
// already has a connection moves that connection.
type Transport interface {
	Join(ctx context.Context, guildID, channelID string) (Connection, error)
}

// Streamer plays one asset into a connection. It returns when the asset
// ends or ctx is cancelled.
type Streamer interface {
	Stream(ctx context.Context, conn Connection, path string) error
}

// EventKind names a playback lifecycle step.
type EventKind string

const (
	EventStarted EventKind = "started"
	EventEnded   EventKind = "ended"
	EventStopped EventKind = "stopped"
	EventError   EventKind = "error"
	EventLeft    EventKind = "left"
)

// Event is a playback lifecycle notification.
type Event struct {
	Kind      EventKind
	GuildID   string
	ChannelID string
	Asset     string
	Err       error
}

type guildPlayer struct {
	mu     sync.Mutex
	conn   Connection
	cancel context.CancelFunc
	done   chan struct{}
}

// Controller owns one playback slot per guild. A new request preempts the
// running one; requests never queue.
type Controller struct {
	transport Transport
	streamer  Streamer

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	guilds map[string]*guildPlayer

	Events chan Event
}

// New creates a Controller.
func New(transport Transport, streamer Streamer) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		transport: transport,
		streamer:  streamer,
		ctx:       ctx,
		cancel:    cancel,
		guilds:    make(map[string]*guildPlayer),
		Events:    make(chan Event, 32), // buffered to reduce drops
	}
}

// Play starts path in channelID, replacing whatever the guild is playing.
// It returns immediately; the outcome is reported through Events.
func (c *Controller) Play(guildID, channelID, path string) {
	log.Info().Str("guild", guildID).Str("channel", channelID).Str("asset", path).Msg("[Player] Play requested")
	c.schedule(guildID, func(ctx context.Context, gp *guildPlayer) {
		c.play(ctx, gp, guildID, channelID, path)
	})
}

// Stop cancels the current stream and keeps the voice connection.
func (c *Controller) Stop(guildID string) error {
	gp := c.lookup(guildID)
	if gp == nil {
		return ErrNotPlaying
	}

	gp.mu.Lock()
	defer gp.mu.Unlock()
	if gp.cancel == nil {
		return ErrNotPlaying
	}
	gp.cancel()
	log.Info().Str("guild", guildID).Msg("[Player] Stop requested")
	return nil
}

// Leave stops playback and disconnects from voice in the guild.
func (c *Controller) Leave(guildID string) {
	c.schedule(guildID, func(_ context.Context, gp *guildPlayer) {
		gp.mu.Lock()
		conn := gp.conn
		gp.conn = nil
		gp.mu.Unlock()

		if conn == nil {
			return
		}
		if err := conn.Disconnect(); err != nil {
			log.Warn().Err(err).Str("guild", guildID).Msg("[Player] Disconnect failed")
		}
		log.Info().Str("guild", guildID).Str("channel", conn.ChannelID()).Msg("[Player] Left voice channel")
		c.emit(Event{Kind: EventLeft, GuildID: guildID, ChannelID: conn.ChannelID()})
	})
}

// Playing reports whether the guild has an active request.
func (c *Controller) Playing(guildID string) bool {
	gp := c.lookup(guildID)
	if gp == nil {
		return false
	}
	gp.mu.Lock()
	defer gp.mu.Unlock()
	return gp.cancel != nil
}

// Close cancels all playback, waits for it to finish and disconnects.
func (c *Controller) Close() {
	c.cancel()
	c.wg.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	for guildID, gp := range c.guilds {
		gp.mu.Lock()
		if gp.conn != nil {
			if err := gp.conn.Disconnect(); err != nil {
				log.Warn().Err(err).Str("guild", guildID).Msg("[Player] Disconnect failed")
			}
			gp.conn = nil
		}
		gp.mu.Unlock()
	}
}

// schedule runs job after the guild's previous job has been cancelled and
// has returned, so at most one job touches a guild connection at a time.
func (c *Controller) schedule(guildID string, job func(ctx context.Context, gp *guildPlayer)) {
	if c.ctx.Err() != nil {
		return
	}
	gp := c.guild(guildID)

	gp.mu.Lock()
	prevCancel, prevDone := gp.cancel, gp.done
	ctx, cancel := context.WithCancel(c.ctx)
	done := make(chan struct{})
	gp.cancel, gp.done = cancel, done
	gp.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer close(done)
		defer cancel()

		if prevCancel != nil {
			prevCancel()
		}
		if prevDone != nil {
			<-prevDone
		}

		job(ctx, gp)

		gp.mu.Lock()
		if gp.done == done {
			gp.cancel = nil
		}
		gp.mu.Unlock()
	}()
}

func (c *Controller) play(ctx context.Context, gp *guildPlayer, guildID, channelID, path string) {
	ev := Event{GuildID: guildID, ChannelID: channelID, Asset: path}
	if ctx.Err() != nil {
		ev.Kind = EventStopped
		c.emit(ev)
		return
	}

	conn, err := c.connect(gp, guildID, channelID)
	if err != nil {
		log.Error().Err(err).Str("guild", guildID).Str("channel", channelID).Msg("[Player] Failed to join voice channel")
		ev.Kind, ev.Err = EventError, err
		c.emit(ev)
		return
	}
	// Joins are not cancelled; a stop that arrived meanwhile only skips the stream.
	if ctx.Err() != nil {
		ev.Kind = EventStopped
		c.emit(ev)
		return
	}

	if err := conn.Speaking(true); err != nil {
		log.Debug().Err(err).Str("guild", guildID).Msg("[Player] Speaking(true) failed")
	}
	log.Info().Str("guild", guildID).Str("channel", channelID).Str("asset", path).Msg("[Player] Playback started")
	ev.Kind = EventStarted
	c.emit(ev)

	err = c.streamer.Stream(ctx, conn, path)

	if serr := conn.Speaking(false); serr != nil {
		log.Debug().Err(serr).Str("guild", guildID).Msg("[Player] Speaking(false) failed")
	}

	switch {
	case ctx.Err() != nil:
		log.Info().Str("guild", guildID).Str("asset", path).Msg("[Player] Playback stopped")
		ev.Kind = EventStopped
	case err != nil:
		log.Error().Err(err).Str("guild", guildID).Str("asset", path).Msg("[Player] Playback error")
		ev.Kind, ev.Err = EventError, err
	default:
		log.Info().Str("guild", guildID).Str("asset", path).Msg("[Player] Playback finished")
		ev.Kind = EventEnded
	}
	c.emit(ev)
}

// connect reuses the guild connection when it is already in channelID.
func (c *Controller) connect(gp *guildPlayer, guildID, channelID string) (Connection, error) {
	gp.mu.Lock()
	if gp.conn != nil && gp.conn.ChannelID() == channelID {
		conn := gp.conn
		gp.mu.Unlock()
		return conn, nil
	}
	gp.mu.Unlock()

	conn, err := c.transport.Join(c.ctx, guildID, channelID)
	if err != nil {
		return nil, err
	}
	log.Info().Str("guild", guildID).Str("channel", channelID).Msg("[Player] Joined voice channel")

	gp.mu.Lock()
	gp.conn = conn
	gp.mu.Unlock()
	return conn, nil
}

func (c *Controller) guild(guildID string) *guildPlayer {
	c.mu.Lock()
	defer c.mu.Unlock()
	gp, ok := c.guilds[guildID]
	if !ok {
		gp = &guildPlayer{}
		c.guilds[guildID] = gp
	}
	return gp
}

func (c *Controller) lookup(guildID string) *guildPlayer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.guilds[guildID]
}

// emit safely publishes a lifecycle event
func (c *Controller) emit(ev Event) {
	select {
	case c.Events <- ev:
	default:
		log.Debug().Str("guild", ev.GuildID).Str("event", string(ev.Kind)).Msg("[Player] Event dropped (channel full)")
	}
}
