package cmd

import "context"

// Unwrappable is implemented by wrapped commands so callers can reach the
// command underneath the middleware chain.
type Unwrappable interface {
	Command
	Unwrap() Command
}

type wrapped struct {
	inner Command
	run   func(ctx context.Context, inv *Invocation) error
}

func (w *wrapped) Name() string        { return w.inner.Name() }
func (w *wrapped) Description() string { return w.inner.Description() }
func (w *wrapped) Unwrap() Command     { return w.inner }

func (w *wrapped) Run(ctx context.Context, inv *Invocation) error {
	if w.run == nil {
		return w.inner.Run(ctx, inv)
	}
	return w.run(ctx, inv)
}

// Wrap returns a command that runs run instead of c.Run and otherwise looks
// like c. Middleware is built on it.
func Wrap(c Command, run func(ctx context.Context, inv *Invocation) error) Command {
	return &wrapped{inner: c, run: run}
}

// Root unwraps c until it reaches a command that is not Unwrappable.
func Root(c Command) Command {
	for {
		u, ok := c.(Unwrappable)
		if !ok {
			return c
		}
		c = u.Unwrap()
	}
}
