package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/keshon/server-soundboard/internal/soundboard"
	"github.com/keshon/server-soundboard/internal/text"
	"github.com/keshon/server-soundboard/pkg/cmd"
)

// MakeSoundboard sends a message and turns its reactions into sound buttons.
//
//	makesoundboard <message>,<sound>,<emoji>[,<sound>,<emoji>...]
type MakeSoundboard struct{}

func (c *MakeSoundboard) Name() string        { return "makesoundboard" }
func (c *MakeSoundboard) Description() string { return "Create a reaction soundboard" }

func (c *MakeSoundboard) Run(ctx context.Context, inv *cmd.Invocation) error {
	mc, err := messageContext(inv)
	if err != nil {
		return err
	}

	content, pairs := parseSoundboard(inv.Rest)
	if content == "" || len(pairs) == 0 {
		return nil
	}

	_, err = mc.Service.CreateSoundboard(ctx, mc.Message.ChannelID, content, pairs)
	if errors.Is(err, soundboard.ErrEmptyBoard) {
		return nil
	}
	return err
}

// parseSoundboard splits the arguments on commas. A trailing sound without
// an emoji is dropped.
func parseSoundboard(args string) (string, []soundboard.Pair) {
	parts := strings.Split(args, ",")
	content := unquote(strings.TrimSpace(parts[0]))

	var pairs []soundboard.Pair
	for i := 1; i+1 < len(parts); i += 2 {
		pairs = append(pairs, soundboard.Pair{
			Sound: strings.TrimSpace(parts[i]),
			Emoji: strings.TrimSpace(parts[i+1]),
		})
	}
	return content, pairs
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}

// AutoReply registers a trigger and its reply.
//
//	autoreply <trigger>,<reply>
type AutoReply struct{}

func (c *AutoReply) Name() string        { return "autoreply" }
func (c *AutoReply) Description() string { return "Add an auto reply" }

func (c *AutoReply) Run(_ context.Context, inv *cmd.Invocation) error {
	mc, err := messageContext(inv)
	if err != nil {
		return err
	}

	args := strings.Split(inv.Rest, ",")
	if len(args) != 2 {
		return nil
	}

	key, err := mc.Service.AutoReplies.Set(args[0], args[1])
	if err != nil {
		log.Debug().Err(err).Msg("[AutoReply] Ignored")
		return nil
	}
	log.Info().Str("trigger", key).Msg("[AutoReply] Added")
	mc.Service.Persist()
	return nil
}

// RemoveAutoReply deletes a trigger.
type RemoveAutoReply struct{}

func (c *RemoveAutoReply) Name() string        { return "removeautoreply" }
func (c *RemoveAutoReply) Description() string { return "Remove an auto reply" }

func (c *RemoveAutoReply) Run(_ context.Context, inv *cmd.Invocation) error {
	mc, err := messageContext(inv)
	if err != nil {
		return err
	}

	key, removed := mc.Service.AutoReplies.Remove(inv.Rest)
	if !removed {
		return nil
	}
	log.Info().Str("trigger", key).Msg("[AutoReply] Removed")
	mc.Service.Persist()
	return nil
}

// ListAutoReplies replies with every trigger and its reply.
type ListAutoReplies struct{}

func (c *ListAutoReplies) Name() string        { return "listautoreplies" }
func (c *ListAutoReplies) Description() string { return "List auto replies" }

func (c *ListAutoReplies) Run(ctx context.Context, inv *cmd.Invocation) error {
	mc, err := messageContext(inv)
	if err != nil {
		return err
	}

	entries := mc.Service.AutoReplies.List()
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, e.Trigger+" -> "+e.Reply)
	}
	return replyChunks(ctx, mc, text.Chunk(strings.Join(lines, "\n"), "\n"), noAutoReplies)
}

// DumpSaveFile replies with the save file as stored on disk.
type DumpSaveFile struct{}

func (c *DumpSaveFile) Name() string        { return "dumpsavefile" }
func (c *DumpSaveFile) Description() string { return "Show the save file" }

func (c *DumpSaveFile) Run(ctx context.Context, inv *cmd.Invocation) error {
	mc, err := messageContext(inv)
	if err != nil {
		return err
	}

	if mc.Service.Store == nil {
		return mc.Service.Reply(ctx, mc.Message, dumpFailed)
	}
	raw, err := mc.Service.Store.Raw()
	if err != nil || len(raw) == 0 {
		if err != nil {
			log.Warn().Err(err).Msg("[Storage] Save file dump failed")
		}
		return mc.Service.Reply(ctx, mc.Message, dumpFailed)
	}
	return mc.Service.Reply(ctx, mc.Message, text.Chunk(string(raw), "\n")...)
}
