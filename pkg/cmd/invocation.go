// Package cmd provides a transport-agnostic command core: a command is something
// with a name, description, and Run(ctx, invocation). How text is matched to a
// command is decided by the Registry; where the text comes from (Discord, CLI)
// is up to the adapter that calls Dispatch.
package cmd

import "context"

// Invocation carries what a matched command needs: the full trigger text,
// whatever followed the matched keyword, and an opaque payload. Adapters set
// Data to their own event type.
type Invocation struct {
	Text string
	Rest string
	Data any
}

// Command is the universal contract: identity plus execution.
type Command interface {
	Name() string
	Description() string
	Run(ctx context.Context, inv *Invocation) error
}
