// Package commands implements the text commands. Each command is a type;
// Register wires them into a registry in matching priority order.
package commands

import (
	"context"
	"errors"

	"github.com/keshon/server-soundboard/internal/core"
	"github.com/keshon/server-soundboard/internal/middleware"
	"github.com/keshon/server-soundboard/pkg/cmd"
)

// Replies for empty results.
const (
	noSounds      = "There are no sounds :("
	noAutoReplies = "There are no auto replies :("
	dumpFailed    = "save file dump failed :("
)

var errNoContext = errors.New("command invoked without a message context")

// Register adds every text command to reg. Earlier registrations win when
// several matchers accept the same text.
func Register(reg *cmd.Registry) {
	logged := []cmd.Middleware{middleware.WithCommandLogger()}
	guildOnly := []cmd.Middleware{middleware.WithCommandLogger(), middleware.WithGuildOnly()}

	reg.Register(cmd.Apply(&ListSounds{}, logged...), cmd.Literal("list", "help", "listcommands", "sounds", "listsounds"))
	reg.Register(cmd.Apply(&Stop{}, guildOnly...), cmd.Literal("stop", "skip"))
	reg.Register(cmd.Apply(&Leave{}, guildOnly...), cmd.Literal("dc", "leave"))
	reg.Register(cmd.Apply(&ListLatest{}, logged...), cmd.Prefix("listlatest"))
	reg.Register(cmd.Apply(&MakeSoundboard{}, logged...), cmd.Prefix("makesoundboard "))
	reg.Register(cmd.Apply(&AutoReply{}, logged...), cmd.Prefix("autoreply "))
	reg.Register(cmd.Apply(&RemoveAutoReply{}, logged...), cmd.Prefix("removeautoreply "))
	reg.Register(cmd.Apply(&DumpSaveFile{}, logged...), cmd.Literal("dumpsavefile"))
	reg.Register(cmd.Apply(&ListAutoReplies{}, logged...), cmd.Literal("listautoreplies"))
	reg.Register(cmd.Apply(&Echo{}, guildOnly...), cmd.Prefix("echo "))
}

func messageContext(inv *cmd.Invocation) (*core.MessageContext, error) {
	mc, ok := inv.Data.(*core.MessageContext)
	if !ok || mc == nil || mc.Service == nil || mc.Message == nil {
		return nil, errNoContext
	}
	return mc, nil
}

// replyChunks replies with chunks, or with empty when there are none.
func replyChunks(ctx context.Context, mc *core.MessageContext, chunks []string, empty string) error {
	if len(chunks) == 0 {
		return mc.Service.Reply(ctx, mc.Message, empty)
	}
	return mc.Service.Reply(ctx, mc.Message, chunks...)
}
