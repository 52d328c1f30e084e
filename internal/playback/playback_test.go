package playback

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	channelID string

	mu           sync.Mutex
	disconnected bool
	send         chan []byte
}

func (f *fakeConn) ChannelID() string       { return f.channelID }
func (f *fakeConn) Speaking(bool) error     { return nil }
func (f *fakeConn) OpusSend() chan<- []byte { return f.send }
func (f *fakeConn) Disconnect() error {
	f.mu.Lock()
	f.disconnected = true
	f.mu.Unlock()
	return nil
}

func (f *fakeConn) isDisconnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.disconnected
}

type fakeTransport struct {
	mu    sync.Mutex
	joins []string
	conns []*fakeConn
	err   error
}

func (f *fakeTransport) Join(_ context.Context, _, channelID string) (Connection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.joins = append(f.joins, channelID)
	if f.err != nil {
		return nil, f.err
	}
	conn := &fakeConn{channelID: channelID, send: make(chan []byte, 1)}
	f.conns = append(f.conns, conn)
	return conn, nil
}

func (f *fakeTransport) joined() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.joins...)
}

// blockingStreamer plays until cancelled, or returns at once for assets
// listed in short.
type blockingStreamer struct {
	short map[string]error
}

func (b *blockingStreamer) Stream(ctx context.Context, _ Connection, path string) error {
	if err, ok := b.short[path]; ok {
		return err
	}
	<-ctx.Done()
	return ctx.Err()
}

func next(t *testing.T, c *Controller) Event {
	t.Helper()
	select {
	case ev := <-c.Events:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for playback event")
		return Event{}
	}
}

func TestPlayToEnd(t *testing.T) {
	tr := &fakeTransport{}
	c := New(tr, &blockingStreamer{short: map[string]error{"a.ogg": nil}})
	defer c.Close()

	c.Play("g1", "v1", "a.ogg")

	assert.Equal(t, EventStarted, next(t, c).Kind)
	ev := next(t, c)
	assert.Equal(t, EventEnded, ev.Kind)
	assert.Equal(t, "a.ogg", ev.Asset)
	assert.Equal(t, []string{"v1"}, tr.joined())
	assert.Eventually(t, func() bool { return !c.Playing("g1") }, time.Second, 5*time.Millisecond)
}

func TestPlayPreemptsAndReusesConnection(t *testing.T) {
	tr := &fakeTransport{}
	c := New(tr, &blockingStreamer{})
	defer c.Close()

	c.Play("g1", "v1", "long.ogg")
	require.Equal(t, EventStarted, next(t, c).Kind)

	c.Play("g1", "v1", "other.ogg")
	stopped := next(t, c)
	assert.Equal(t, EventStopped, stopped.Kind)
	assert.Equal(t, "long.ogg", stopped.Asset)

	started := next(t, c)
	assert.Equal(t, EventStarted, started.Kind)
	assert.Equal(t, "other.ogg", started.Asset)

	assert.Equal(t, []string{"v1"}, tr.joined(), "same channel must reuse the connection")

	c.Play("g1", "v2", "third.ogg")
	assert.Equal(t, EventStopped, next(t, c).Kind)
	assert.Equal(t, EventStarted, next(t, c).Kind)
	assert.Equal(t, []string{"v1", "v2"}, tr.joined())
}

func TestStopKeepsConnection(t *testing.T) {
	tr := &fakeTransport{}
	c := New(tr, &blockingStreamer{})
	defer c.Close()

	assert.ErrorIs(t, c.Stop("g1"), ErrNotPlaying)

	c.Play("g1", "v1", "long.ogg")
	require.Equal(t, EventStarted, next(t, c).Kind)

	require.NoError(t, c.Stop("g1"))
	assert.Equal(t, EventStopped, next(t, c).Kind)
	assert.Eventually(t, func() bool { return !c.Playing("g1") }, time.Second, 5*time.Millisecond)
	assert.ErrorIs(t, c.Stop("g1"), ErrNotPlaying)

	tr.mu.Lock()
	conn := tr.conns[0]
	tr.mu.Unlock()
	assert.False(t, conn.isDisconnected())

	c.Play("g1", "v1", "again.ogg")
	assert.Equal(t, EventStarted, next(t, c).Kind)
	assert.Equal(t, []string{"v1"}, tr.joined())
}

func TestLeaveDisconnects(t *testing.T) {
	tr := &fakeTransport{}
	c := New(tr, &blockingStreamer{})
	defer c.Close()

	c.Play("g1", "v1", "long.ogg")
	require.Equal(t, EventStarted, next(t, c).Kind)

	c.Leave("g1")
	assert.Equal(t, EventStopped, next(t, c).Kind)
	ev := next(t, c)
	assert.Equal(t, EventLeft, ev.Kind)
	assert.Equal(t, "v1", ev.ChannelID)

	tr.mu.Lock()
	conn := tr.conns[0]
	tr.mu.Unlock()
	assert.True(t, conn.isDisconnected())
}

func TestGuildsAreIndependent(t *testing.T) {
	tr := &fakeTransport{}
	c := New(tr, &blockingStreamer{})
	defer c.Close()

	c.Play("g1", "v1", "a.ogg")
	require.Equal(t, EventStarted, next(t, c).Kind)
	c.Play("g2", "v2", "b.ogg")
	require.Equal(t, EventStarted, next(t, c).Kind)

	assert.True(t, c.Playing("g1"))
	assert.True(t, c.Playing("g2"))

	require.NoError(t, c.Stop("g2"))
	assert.Equal(t, "g2", next(t, c).GuildID)
	assert.True(t, c.Playing("g1"))
}

func TestErrorsReturnToIdle(t *testing.T) {
	joinErr := errors.New("no permission")
	tr := &fakeTransport{err: joinErr}
	c := New(tr, &blockingStreamer{})
	defer c.Close()

	c.Play("g1", "v1", "a.ogg")
	ev := next(t, c)
	assert.Equal(t, EventError, ev.Kind)
	assert.ErrorIs(t, ev.Err, joinErr)
	assert.Eventually(t, func() bool { return !c.Playing("g1") }, time.Second, 5*time.Millisecond)

	decodeErr := errors.New("bad file")
	tr2 := &fakeTransport{}
	c2 := New(tr2, &blockingStreamer{short: map[string]error{"bad.ogg": decodeErr}})
	defer c2.Close()

	c2.Play("g1", "v1", "bad.ogg")
	assert.Equal(t, EventStarted, next(t, c2).Kind)
	ev = next(t, c2)
	assert.Equal(t, EventError, ev.Kind)
	assert.ErrorIs(t, ev.Err, decodeErr)
}

func TestCloseDisconnectsAll(t *testing.T) {
	tr := &fakeTransport{}
	c := New(tr, &blockingStreamer{})

	c.Play("g1", "v1", "a.ogg")
	require.Equal(t, EventStarted, next(t, c).Kind)
	c.Close()

	tr.mu.Lock()
	conn := tr.conns[0]
	tr.mu.Unlock()
	assert.True(t, conn.isDisconnected())
	assert.False(t, c.Playing("g1"))
}
