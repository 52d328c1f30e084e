// Package middleware holds the command wrappers shared by all text commands.
package middleware

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/keshon/server-soundboard/internal/core"
	"github.com/keshon/server-soundboard/pkg/cmd"
)

// WithGuildOnly wraps a command so it silently does nothing outside a guild.
func WithGuildOnly() cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			if v, ok := inv.Data.(*core.MessageContext); ok && v.Message.GuildID == "" {
				log.Debug().Str("command", c.Name()).Msg("[Command] Ignored outside a guild")
				return nil
			}
			return c.Run(ctx, inv)
		})
	}
}

// WithCommandLogger wraps a command to log its execution
func WithCommandLogger() cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			start := time.Now()
			err := c.Run(ctx, inv)

			ev := log.Info()
			if err != nil {
				ev = log.Warn().Err(err)
			}
			ev = ev.Str("command", c.Name()).Dur("took", time.Since(start))
			if v, ok := inv.Data.(*core.MessageContext); ok {
				ev = ev.
					Str("guild", v.Message.GuildID).
					Str("channel", v.Message.ChannelID).
					Str("user", v.Message.AuthorID)
			}
			ev.Msg("[Command] Executed")
			return err
		})
	}
}
