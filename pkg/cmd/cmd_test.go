package cmd

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stub struct {
	name string
	got  *Invocation
	err  error
}

func (s *stub) Name() string        { return s.name }
func (s *stub) Description() string { return s.name + " command" }
func (s *stub) Run(_ context.Context, inv *Invocation) error {
	s.got = inv
	return s.err
}

func TestLiteral(t *testing.T) {
	m := Literal("list", "help")

	_, ok := m("list")
	assert.True(t, ok)
	_, ok = m("  help\n")
	assert.True(t, ok)
	_, ok = m("listx")
	assert.False(t, ok)
	_, ok = m("List")
	assert.False(t, ok)
}

func TestPrefix(t *testing.T) {
	m := Prefix("autoreply ")

	rest, ok := m("autoreply hi,hello")
	require.True(t, ok)
	assert.Equal(t, "hi,hello", rest)

	_, ok = m("autoreply")
	assert.False(t, ok)
	_, ok = m("removeautoreply hi")
	assert.False(t, ok)
}

func TestDispatchFirstMatchWins(t *testing.T) {
	r := NewRegistry()
	latest := &stub{name: "listlatest"}
	list := &stub{name: "list"}
	r.Register(latest, Prefix("listlatest"))
	r.Register(list, Prefix("list"))

	ok, err := r.Dispatch(context.Background(), "listlatest 5", "payload")
	require.True(t, ok)
	require.NoError(t, err)
	require.NotNil(t, latest.got)
	assert.Equal(t, " 5", latest.got.Rest)
	assert.Equal(t, "listlatest 5", latest.got.Text)
	assert.Equal(t, "payload", latest.got.Data)
	assert.Nil(t, list.got)

	ok, _ = r.Dispatch(context.Background(), "bark", nil)
	assert.False(t, ok)
}

func TestDispatchReturnsCommandError(t *testing.T) {
	r := NewRegistry()
	boom := errors.New("boom")
	r.Register(&stub{name: "x", err: boom}, Literal("x"))

	ok, err := r.Dispatch(context.Background(), "x", nil)
	assert.True(t, ok)
	assert.ErrorIs(t, err, boom)
}

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry()
	a, b := &stub{name: "a"}, &stub{name: "b"}
	r.Register(b, Literal("b"))
	r.Register(a, Literal("a"))

	assert.Equal(t, []Command{b, a}, r.GetAll())
	assert.Same(t, a, r.Get("a"))
	assert.Nil(t, r.Get("zzz"))
}

func TestApplyOrderAndRoot(t *testing.T) {
	var trace []string
	mw := func(tag string) Middleware {
		return func(c Command) Command {
			return Wrap(c, func(ctx context.Context, inv *Invocation) error {
				trace = append(trace, tag)
				return c.Run(ctx, inv)
			})
		}
	}

	base := &stub{name: "base"}
	c := Apply(base, mw("outer"), mw("inner"))
	require.NoError(t, c.Run(context.Background(), &Invocation{}))

	assert.Equal(t, []string{"outer", "inner"}, trace)
	assert.Equal(t, "base", c.Name())
	assert.Equal(t, "base command", c.Description())
	assert.Same(t, base, Root(c))
}
