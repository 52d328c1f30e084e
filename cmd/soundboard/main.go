// cmd/soundboard/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/keshon/server-soundboard/internal/audio"
	"github.com/keshon/server-soundboard/internal/commands"
	"github.com/keshon/server-soundboard/internal/config"
	"github.com/keshon/server-soundboard/internal/core"
	"github.com/keshon/server-soundboard/internal/discord"
	"github.com/keshon/server-soundboard/internal/logging"
	"github.com/keshon/server-soundboard/internal/playback"
	"github.com/keshon/server-soundboard/internal/router"
	"github.com/keshon/server-soundboard/internal/sound"
	"github.com/keshon/server-soundboard/internal/storage"
	v "github.com/keshon/server-soundboard/internal/version"
	"github.com/keshon/server-soundboard/internal/watcher"
	"github.com/keshon/server-soundboard/pkg/cmd"
	"github.com/keshon/server-soundboard/pkg/jobmgr"
)

func main() {
	config.LoadDotEnv()

	cfg, err := config.New(os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("[Main] Invalid configuration")
	}

	closer := logging.Setup(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	defer closer.Close()

	log.Info().Str("version", v.Version).Msgf("[Main] Starting %s...", v.AppName)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := storage.New(storage.Options{
		Path:    cfg.StatePath,
		Backups: cfg.StateBackups,
		OnSaved: saveWatchdog(),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("[Main] Failed to open save file")
	}
	if !store.Enabled() {
		log.Warn().Msg("[Main] No save file configured, soundboards and auto replies will not survive a restart")
	}

	bot, err := discord.New(cfg.DiscordToken)
	if err != nil {
		log.Fatal().Err(err).Msg("[Main] Failed to create Discord bot")
	}

	player := playback.New(bot.Transport(), audio.NewStreamer(cfg.FFmpegPath))

	svc := core.New(core.Options{
		Platform:          bot,
		Player:            player,
		Store:             store,
		Sounds:            sound.NewResolver(cfg.SoundsPath),
		NotificationSound: cfg.NotificationSound,
	})

	reg := cmd.NewRegistry()
	commands.Register(reg)
	rt := router.New(svc, reg)

	jobs := jobmgr.NewManager(func(msg string) {
		log.Debug().Str("job", msg).Msg("[Jobs] Status")
	})
	mustStart(ctx, jobs, "storage", store.Run)
	mustStart(ctx, jobs, "playback-events", func(ctx context.Context) error {
		logPlaybackEvents(ctx, player.Events)
		return nil
	})
	if cfg.WatchSounds {
		w := watcher.New(cfg.SoundsPath, func(fileName string) {
			bot.Submit(func(ctx context.Context) { rt.HandleNewSound(ctx, fileName) })
		})
		mustStart(ctx, jobs, "watch-sounds", w.Run)
	}

	if err := bot.Run(ctx, rt); err != nil {
		log.Error().Err(err).Msg("[Main] Discord bot error")
	}

	stop()
	jobs.StopAll()
	player.Close()
	store.Flush()

	if store.Enabled() {
		st := store.Stats()
		log.Info().Uint64("saved", st.Saved).Uint64("failed", st.Failed).Msg("[Main] Save file writes")
	}
	log.Info().Msg("[Main] Discord bot exited cleanly")
}

func mustStart(ctx context.Context, jobs *jobmgr.Manager, name string, fn func(context.Context) error) {
	if err := jobs.StartAsync(ctx, name, fn); err != nil {
		log.Fatal().Err(err).Str("job", name).Msg("[Main] Failed to start job")
	}
}

// saveWatchdog logs the first failed write of a run and the recovery.
func saveWatchdog() func(error) {
	failing := 0
	return func(err error) {
		switch {
		case err != nil:
			failing++
			if failing == 1 {
				log.Error().Err(err).Msg("[Main] Save file is not being written, changes live in memory only")
			}
		case failing > 0:
			log.Info().Int("failed_writes", failing).Msg("[Main] Save file writes recovered")
			failing = 0
		}
	}
}

func logPlaybackEvents(ctx context.Context, events <-chan playback.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			e := log.Debug()
			if ev.Kind == playback.EventError {
				e = log.Warn().Err(ev.Err)
			}
			e.Str("guild", ev.GuildID).
				Str("channel", ev.ChannelID).
				Str("asset", ev.Asset).
				Msgf("[Playback] %s", ev.Kind)
		}
	}
}
