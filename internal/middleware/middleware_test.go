package middleware

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keshon/server-soundboard/internal/chat"
	"github.com/keshon/server-soundboard/internal/core"
	"github.com/keshon/server-soundboard/pkg/cmd"
)

type counter struct {
	runs int
	err  error
}

func (c *counter) Name() string        { return "count" }
func (c *counter) Description() string { return "counts runs" }
func (c *counter) Run(context.Context, *cmd.Invocation) error {
	c.runs++
	return c.err
}

func TestWithGuildOnly(t *testing.T) {
	inner := &counter{}
	c := cmd.Apply(inner, WithGuildOnly())

	dm := &cmd.Invocation{Data: &core.MessageContext{Message: &chat.Message{}}}
	require.NoError(t, c.Run(context.Background(), dm))
	assert.Equal(t, 0, inner.runs)

	guild := &cmd.Invocation{Data: &core.MessageContext{Message: &chat.Message{GuildID: "g"}}}
	require.NoError(t, c.Run(context.Background(), guild))
	assert.Equal(t, 1, inner.runs)
}

func TestWithCommandLoggerPassesErrorThrough(t *testing.T) {
	boom := errors.New("boom")
	inner := &counter{err: boom}
	c := cmd.Apply(inner, WithCommandLogger())

	err := c.Run(context.Background(), &cmd.Invocation{Data: &core.MessageContext{Message: &chat.Message{GuildID: "g"}}})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, inner.runs)
	assert.Same(t, inner, cmd.Root(c))
}
