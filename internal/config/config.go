// /internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
)

var (
	ErrMissingToken  = errors.New("discord token is not set")
	ErrMissingSounds = errors.New("sound files path is not set")
)

// Config is the process configuration. Values come from the environment
// (optionally via .env), then flags, then positional arguments.
type Config struct {
	DiscordToken      string `env:"DISCORD_TOKEN"`
	SoundsPath        string `env:"SOUNDS_PATH"`
	StatePath         string `env:"STATE_PATH"`
	NotificationSound string `env:"NOTIFICATION_SOUND" envDefault:"hereyougo.ogg"`
	WatchSounds       bool   `env:"WATCH_SOUNDS" envDefault:"true"`
	StateBackups      int    `env:"STATE_BACKUPS" envDefault:"3"`
	FFmpegPath        string `env:"FFMPEG_PATH" envDefault:"ffmpeg"`
	LogLevel          string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile           string `env:"LOG_FILE"`
}

// PersistenceEnabled reports whether registries are written to disk.
func (c *Config) PersistenceEnabled() bool {
	return c.StatePath != ""
}

// LoadDotEnv loads .env into the process environment if the file exists.
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, falling back to system environment variables")
	}
}

// New parses the environment and then args (without the program name).
// Positional arguments follow the legacy form
// <bot token> <sound files path> [save file path].
func New(args []string) (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	fs := pflag.NewFlagSet("soundboard", pflag.ContinueOnError)
	fs.StringVar(&cfg.DiscordToken, "token", cfg.DiscordToken, "Discord bot token")
	fs.StringVar(&cfg.SoundsPath, "sounds", cfg.SoundsPath, "directory holding sound files")
	fs.StringVar(&cfg.StatePath, "state", cfg.StatePath, "save file for soundboards and auto replies (empty disables persistence)")
	fs.StringVar(&cfg.NotificationSound, "notification-sound", cfg.NotificationSound, "sound played when a new file appears")
	fs.StringVar(&cfg.FFmpegPath, "ffmpeg", cfg.FFmpegPath, "ffmpeg binary used to decode sounds")
	fs.IntVar(&cfg.StateBackups, "state-backups", cfg.StateBackups, "number of save file backups to keep")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "also write JSON logs to this file")
	noWatch := fs.Bool("no-watch", false, "do not watch the sound directory for new files")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if *noWatch {
		cfg.WatchSounds = false
	}

	positional := fs.Args()
	if len(positional) > 3 {
		return nil, fmt.Errorf("unexpected argument: %s", positional[3])
	}
	for i, v := range positional {
		switch i {
		case 0:
			cfg.DiscordToken = v
		case 1:
			cfg.SoundsPath = v
		case 2:
			cfg.StatePath = v
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DiscordToken == "" {
		return ErrMissingToken
	}
	if c.SoundsPath == "" {
		return ErrMissingSounds
	}
	info, err := os.Stat(c.SoundsPath)
	if err != nil {
		return fmt.Errorf("sound files path: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("sound files path %s is not a directory", c.SoundsPath)
	}
	if c.StateBackups < 0 {
		c.StateBackups = 0
	}
	return nil
}
