package cmd

import (
	"context"
	"strings"
)

// Matcher reports whether text triggers a command. On a match it returns
// the remainder of the text after the keyword.
type Matcher func(text string) (rest string, ok bool)

// Literal matches when the trimmed text equals one of names.
func Literal(names ...string) Matcher {
	return func(text string) (string, bool) {
		text = strings.TrimSpace(text)
		for _, n := range names {
			if text == n {
				return "", true
			}
		}
		return "", false
	}
}

// Prefix matches when the text starts with one of prefixes. The prefix
// includes any separator it requires, e.g. "autoreply ".
func Prefix(prefixes ...string) Matcher {
	return func(text string) (string, bool) {
		text = strings.TrimLeft(text, " \t\r\n")
		for _, p := range prefixes {
			if rest, ok := strings.CutPrefix(text, p); ok {
				return rest, true
			}
		}
		return "", false
	}
}

type entry struct {
	cmd   Command
	match Matcher
}

// Registry keeps commands in registration order. Dispatch tries them in that
// order and runs the first match only.
type Registry struct {
	entries []entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends a command with its matcher.
func (r *Registry) Register(c Command, m Matcher) {
	r.entries = append(r.entries, entry{cmd: c, match: m})
}

// Match returns the first command whose matcher accepts text.
func (r *Registry) Match(text string) (Command, *Invocation, bool) {
	for _, e := range r.entries {
		if rest, ok := e.match(text); ok {
			return e.cmd, &Invocation{Text: text, Rest: rest}, true
		}
	}
	return nil, nil, false
}

// Dispatch runs the first matching command with data as payload. The bool
// is false when nothing matched; err is whatever the command returned.
func (r *Registry) Dispatch(ctx context.Context, text string, data any) (bool, error) {
	c, inv, ok := r.Match(text)
	if !ok {
		return false, nil
	}
	inv.Data = data
	return true, c.Run(ctx, inv)
}

// Get returns the command with the given name, or nil.
func (r *Registry) Get(name string) Command {
	for _, e := range r.entries {
		if e.cmd.Name() == name {
			return e.cmd
		}
	}
	return nil
}

// GetAll returns all registered commands in registration order.
func (r *Registry) GetAll() []Command {
	list := make([]Command, 0, len(r.entries))
	for _, e := range r.entries {
		list = append(list, e.cmd)
	}
	return list
}
